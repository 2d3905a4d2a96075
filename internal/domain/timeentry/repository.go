package timeentry

import (
	"context"
	"time"
)

// TimeEntryRepository defines data access for days, sessions and audits.
// Admin-facing lookups take franchiseID to prevent cross-franchise access.
type TimeEntryRepository interface {
	// Create inserts a new day with its sessions.
	Create(ctx context.Context, day TimeEntryDay) (TimeEntryDay, error)

	// GetByID retrieves a day (with sessions) scoped to a franchise.
	GetByID(ctx context.Context, id string, franchiseID string) (TimeEntryDay, error)

	// GetByTutorAndDate retrieves the tutor's day for a work date, or nil
	// when none exists yet.
	GetByTutorAndDate(ctx context.Context, tutorID string, workDate time.Time) (*TimeEntryDay, error)

	// Update persists the day's mutable columns guarded by its Version;
	// a stale version returns ErrConflict.
	Update(ctx context.Context, day TimeEntryDay) (TimeEntryDay, error)

	// ReplaceSessions swaps the day's session rows.
	ReplaceSessions(ctx context.Context, dayID string, sessions []Session) error

	// AppendAudit appends one history record. Must run in the same
	// transaction as the transition it describes.
	AppendAudit(ctx context.Context, rec AuditRecord) error

	// ListAudits returns the day's full history, oldest first.
	ListAudits(ctx context.Context, dayID string) ([]AuditRecord, error)

	// List retrieves days with filters and pagination, scoped to a franchise.
	List(ctx context.Context, filter ListFilter, franchiseID string) ([]TimeEntryDay, int64, error)
}

// Transactor runs fn atomically; repository calls made with the ctx it
// provides share one transaction. A status transition and its audit record
// must always commit together.
type Transactor interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
