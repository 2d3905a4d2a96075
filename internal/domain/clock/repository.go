package clock

import "context"

type ClockSessionRepository interface {
	// GetOpenSession returns the tutor's open session, or nil when none.
	GetOpenSession(ctx context.Context, tutorID string) (*ClockSession, error)

	// Create opens a session. A second open session for the same tutor
	// fails with ErrAlreadyClockedIn (unique index on tutor_id).
	Create(ctx context.Context, session ClockSession) (ClockSession, error)

	// Delete closes a session by removing its row.
	Delete(ctx context.Context, id string) error
}
