package timeentry

import (
	"context"

	"github.com/tutorlane/timecard-backend-go/internal/domain/schedule"
)

// TimeEntryService is the day-level state machine:
// draft → pending → {approved, denied}, with approved/denied → pending via
// admin edit only.
type TimeEntryService interface {
	// SaveDay creates or updates the tutor's draft day. Non-draft days are
	// not saveable; changes to them route through AdminEdit.
	SaveDay(ctx context.Context, tutorID string, req SaveDayRequest) (DayResponse, error)

	// SubmitDay reconciles the draft against its schedule snapshot and
	// transitions it to approved (exact match) or pending. The sole
	// auto-approval path.
	SubmitDay(ctx context.Context, tutorID string, req SubmitDayRequest) (DayResponse, error)

	// RecordClockInterval merges a closed clock session into the tutor's
	// draft day for the interval's work date, creating the day if needed.
	RecordClockInterval(ctx context.Context, tutorID string, interval schedule.Interval) (DayResponse, error)

	// AdminDecide approves or denies a pending day.
	AdminDecide(ctx context.Context, actorAccountID string, franchiseID string, dayID string, req DecideRequest) (DayResponse, error)

	// AdminEdit replaces a day's sessions from any status and always moves
	// the day back to pending.
	AdminEdit(ctx context.Context, actorAccountID string, franchiseID string, dayID string, req AdminEditRequest) (DayResponse, error)

	// GetDay retrieves a day with its history, scoped to a franchise.
	GetDay(ctx context.Context, dayID string, franchiseID string) (DayResponse, error)

	// ListDays retrieves days with filters and pagination.
	ListDays(ctx context.Context, franchiseID string, filter ListFilter) (ListDaysResponse, error)
}
