package attestation

import (
	"context"
	"time"
)

type AttestationRepository interface {
	// GetByTutorAndWeek returns the record for the week starting on
	// weekStart (a calendar date), or nil when none exists.
	GetByTutorAndWeek(ctx context.Context, tutorID string, weekStart time.Time) (*WeeklyAttestation, error)

	// ListSignedWeekStarts returns the week-start dates of every signed
	// attestation for the tutor in [from, to].
	ListSignedWeekStarts(ctx context.Context, tutorID string, from, to time.Time) ([]time.Time, error)

	// Upsert inserts the record or, when the (tutor, week) pair already
	// exists, replaces the signature fields. Last signature authoritative.
	Upsert(ctx context.Context, att WeeklyAttestation) (WeeklyAttestation, error)
}
