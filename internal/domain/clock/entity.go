package clock

import (
	"time"

	"github.com/tutorlane/timecard-backend-go/internal/domain/timeentry"
)

// ClockSession is the single open session a tutor may hold at any instant.
// It is ephemeral: closing it deletes the row and merges the interval into
// the day's sessions.
type ClockSession struct {
	ID        string
	TutorID   string
	StartedAt time.Time
	CreatedAt time.Time
}

// ClockState is recomputed from persisted state on every read and is never
// itself a source of truth.
type ClockState struct {
	// ClockState is 1 while a session is open, 0 otherwise.
	ClockState          int
	PersistedClockState int

	OpenSessionID *string
	StartedAt     *time.Time

	DayID     *string
	DayStatus *timeentry.Status

	AttestationBlocking bool
	MissingWeekEnd      *time.Time
}
