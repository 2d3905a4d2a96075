package tutor

import "time"

// Tutor is the worker whose time this system tracks. Timezone governs the
// workday boundary, the attestation week and all local-time comparisons.
type Tutor struct {
	ID          string
	FranchiseID string
	FullName    string
	Timezone    string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Location resolves the tutor timezone, falling back to UTC when the
// configured name is unloadable.
func (t *Tutor) Location() *time.Location {
	loc, err := time.LoadLocation(t.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}
