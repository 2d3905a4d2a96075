package attestation

import "time"

// WeeklyAttestation is a tutor's electronic sign-off affirming timecard
// accuracy for one completed workweek (Sunday through Saturday in the
// tutor's timezone). WeekStart and WeekEnd are calendar dates.
// AttestationTextVersion pins the policy text shown at signing time.
type WeeklyAttestation struct {
	ID                     string
	TutorID                string
	WeekStart              time.Time
	WeekEnd                time.Time
	Signed                 bool
	SignedAt               *time.Time
	TypedName              string
	AttestationTextVersion string
	CreatedAt              time.Time
	UpdatedAt              time.Time
}
