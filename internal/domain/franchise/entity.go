package franchise

import (
	"time"

	"github.com/tutorlane/timecard-backend-go/internal/domain/payperiod"
	"github.com/tutorlane/timecard-backend-go/internal/domain/schedule"
)

// Franchise is the tenant scoping unit. Its calendar configuration drives
// pay-period resolution and the auto-approval comparison policy; the records
// themselves are maintained by an external configuration store and are
// read-only here.
type Franchise struct {
	ID                     string
	Name                   string
	Timezone               string
	PeriodType             payperiod.PeriodType
	ComparePolicy          schedule.ComparePolicy
	AttestationTextVersion string
	CreatedAt              time.Time
	UpdatedAt              time.Time
}

// Location resolves the franchise timezone, falling back to UTC when the
// configured name is unloadable.
func (f *Franchise) Location() *time.Location {
	loc, err := time.LoadLocation(f.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}
