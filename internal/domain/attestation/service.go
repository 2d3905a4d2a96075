package attestation

import (
	"context"
	"time"
)

// AttestationService is the weekly sign-off gate consulted by the clock and
// submission paths.
type AttestationService interface {
	// IsBlocking reports whether an unsigned fully-elapsed week blocks the
	// tutor, and if so which week end is missing (a calendar date).
	IsBlocking(ctx context.Context, tutorID string) (bool, *time.Time, error)

	// Status returns the signing state of the week a signature would target.
	Status(ctx context.Context, tutorID string) (AttestationResponse, error)

	// Reminder returns the projection used for UI nagging.
	Reminder(ctx context.Context, tutorID string) (ReminderResponse, error)

	// Sign records the tutor's signature for the target week. Re-signing an
	// already signed week updates the record.
	Sign(ctx context.Context, tutorID string, req SignRequest) (AttestationResponse, error)
}
