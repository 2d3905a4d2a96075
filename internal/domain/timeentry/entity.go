package timeentry

import (
	"time"

	"github.com/tutorlane/timecard-backend-go/internal/domain/schedule"
)

type Status string

const (
	StatusDraft    Status = "draft"
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusDenied   Status = "denied"
)

func (s Status) Valid() bool {
	switch s {
	case StatusDraft, StatusPending, StatusApproved, StatusDenied:
		return true
	}
	return false
}

// Decided reports whether the day has reached a terminal admin decision.
func (s Status) Decided() bool {
	return s == StatusApproved || s == StatusDenied
}

// Audit actions. Every status transition appends exactly one record.
const (
	ActionSave      = "save"
	ActionClockOut  = "clock_out"
	ActionSubmit    = "submit"
	ActionApprove   = "approve"
	ActionDeny      = "deny"
	ActionAdminEdit = "admin_edit"
)

// Session is one worked interval of a day. UTC instants, non-overlapping
// within the day, sorted ascending by SortOrder.
type Session struct {
	ID        string
	DayID     string
	StartAt   time.Time
	EndAt     time.Time
	SortOrder int
}

// AuditRecord is one entry of a day's append-only history. Records are never
// rewritten or truncated; wasEverApproved and lastAudit are derived reads.
type AuditRecord struct {
	ID               string
	DayID            string
	Action           string
	ActorAccountType string
	ActorAccountID   string
	At               time.Time
	PreviousStatus   Status
	NewStatus        Status
}

// TimeEntryDay is one tutor workday: the manual sessions, the schedule
// snapshot captured at submission, the derived comparison and the approval
// lifecycle. Days are never deleted, only transitioned.
type TimeEntryDay struct {
	ID          string
	FranchiseID string
	TutorID     string
	WorkDate    time.Time
	Timezone    string
	Status      Status

	Sessions         []Session
	ScheduleSnapshot *schedule.Snapshot
	Comparison       *schedule.Comparison

	SubmittedAt    *time.Time
	DecidedBy      *string
	DecidedAt      *time.Time
	DecisionReason *string

	// Version supports optimistic concurrency on updates.
	Version   int
	CreatedAt time.Time
	UpdatedAt time.Time

	// History is loaded on demand for detail reads.
	History []AuditRecord
}

// Intervals returns the day's sessions as plain intervals for reconciliation.
func (d *TimeEntryDay) Intervals() []schedule.Interval {
	intervals := make([]schedule.Interval, 0, len(d.Sessions))
	for _, s := range d.Sessions {
		intervals = append(intervals, schedule.Interval{StartAt: s.StartAt, EndAt: s.EndAt})
	}
	return intervals
}

// LastAudit returns the newest loaded history record, or nil.
func (d *TimeEntryDay) LastAudit() *AuditRecord {
	if len(d.History) == 0 {
		return nil
	}
	return &d.History[len(d.History)-1]
}

// WasEverApproved reports whether any transition in the history ever landed
// on approved. The flag is sticky because history is append-only.
func WasEverApproved(history []AuditRecord) bool {
	for _, rec := range history {
		if rec.NewStatus == StatusApproved {
			return true
		}
	}
	return false
}

// SessionsFromIntervals rebuilds the day's session list from sorted
// intervals, assigning ascending sort orders.
func SessionsFromIntervals(dayID string, intervals []schedule.Interval) []Session {
	sessions := make([]Session, 0, len(intervals))
	for i, iv := range intervals {
		sessions = append(sessions, Session{
			DayID:     dayID,
			StartAt:   iv.StartAt,
			EndAt:     iv.EndAt,
			SortOrder: i,
		})
	}
	return sessions
}
