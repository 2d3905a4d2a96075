package timeentry

import (
	"sort"
	"time"

	"github.com/tutorlane/timecard-backend-go/internal/domain/schedule"
	"github.com/tutorlane/timecard-backend-go/internal/pkg/validator"
)

// ========================================
// TIME ENTRY DTOs
// ========================================

type SessionInput struct {
	StartAt string `json:"start_at"`
	EndAt   string `json:"end_at"`
}

// parseSessions validates and normalizes raw session inputs into sorted,
// strictly non-overlapping intervals. Adjacent intervals are allowed.
func parseSessions(inputs []SessionInput) ([]schedule.Interval, validator.ValidationErrors) {
	var errs validator.ValidationErrors
	intervals := make([]schedule.Interval, 0, len(inputs))

	for i, in := range inputs {
		field := "sessions[" + validator.Itoa(i) + "]"

		startAt, ok := validator.IsValidDateTime(in.StartAt)
		if !ok {
			errs = append(errs, validator.ValidationError{
				Field:   field + ".start_at",
				Message: "start_at must be an ISO8601 timestamp",
			})
			continue
		}

		endAt, ok := validator.IsValidDateTime(in.EndAt)
		if !ok {
			errs = append(errs, validator.ValidationError{
				Field:   field + ".end_at",
				Message: "end_at must be an ISO8601 timestamp",
			})
			continue
		}

		if !endAt.After(startAt) {
			errs = append(errs, validator.ValidationError{
				Field:   field,
				Message: "end_at must be after start_at",
			})
			continue
		}

		intervals = append(intervals, schedule.Interval{StartAt: startAt.UTC(), EndAt: endAt.UTC()})
	}

	if len(errs) > 0 {
		return nil, errs
	}

	sort.Slice(intervals, func(i, j int) bool {
		return intervals[i].StartAt.Before(intervals[j].StartAt)
	})

	for i := 1; i < len(intervals); i++ {
		if intervals[i].StartAt.Before(intervals[i-1].EndAt) {
			errs = append(errs, validator.ValidationError{
				Field:   "sessions",
				Message: "sessions must not overlap",
			})
			return nil, errs
		}
	}

	return intervals, nil
}

type SaveDayRequest struct {
	WorkDate string         `json:"work_date"`
	Sessions []SessionInput `json:"sessions"`

	// Populated by Validate.
	ParsedDate      time.Time           `json:"-"`
	ParsedIntervals []schedule.Interval `json:"-"`
}

func (r *SaveDayRequest) Validate() error {
	var errs validator.ValidationErrors

	date, ok := validator.IsValidDate(r.WorkDate)
	if !ok {
		errs = append(errs, validator.ValidationError{
			Field:   "work_date",
			Message: "work_date must be a YYYY-MM-DD date",
		})
	}

	intervals, sessionErrs := parseSessions(r.Sessions)
	errs = append(errs, sessionErrs...)

	if len(errs) > 0 {
		return errs
	}

	r.ParsedDate = date
	r.ParsedIntervals = intervals
	return nil
}

type SubmitDayRequest struct {
	WorkDate string `json:"work_date"`

	// Snapshot is set by the clock engine on finalize; the HTTP submit path
	// leaves it nil and the service fetches one.
	Snapshot *schedule.Snapshot `json:"-"`

	ParsedDate time.Time `json:"-"`
}

func (r *SubmitDayRequest) Validate() error {
	var errs validator.ValidationErrors

	date, ok := validator.IsValidDate(r.WorkDate)
	if !ok {
		errs = append(errs, validator.ValidationError{
			Field:   "work_date",
			Message: "work_date must be a YYYY-MM-DD date",
		})
	}

	if r.Snapshot != nil {
		if err := r.Snapshot.Validate(); err != nil {
			if verrs, ok := err.(validator.ValidationErrors); ok {
				errs = append(errs, verrs...)
			}
		}
	}

	if len(errs) > 0 {
		return errs
	}

	r.ParsedDate = date
	return nil
}

const (
	DecisionApprove = "approve"
	DecisionDeny    = "deny"
)

// minReasonLength applies to deny reasons and admin edit reasons.
const minReasonLength = 5

type DecideRequest struct {
	Decision string `json:"decision"`
	Reason   string `json:"reason"`
}

func (r *DecideRequest) Validate() error {
	var errs validator.ValidationErrors

	if !validator.IsInSlice(r.Decision, []string{DecisionApprove, DecisionDeny}) {
		errs = append(errs, validator.ValidationError{
			Field:   "decision",
			Message: "decision must be approve or deny",
		})
	}

	if r.Decision == DecisionDeny && !validator.HasMinLength(r.Reason, minReasonLength) {
		errs = append(errs, validator.ValidationError{
			Field:   "reason",
			Message: "a denial reason of at least 5 characters is required",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type AdminEditRequest struct {
	Sessions []SessionInput `json:"sessions"`
	Reason   string         `json:"reason"`

	ParsedIntervals []schedule.Interval `json:"-"`
}

func (r *AdminEditRequest) Validate() error {
	var errs validator.ValidationErrors

	if !validator.HasMinLength(r.Reason, minReasonLength) {
		errs = append(errs, validator.ValidationError{
			Field:   "reason",
			Message: "an edit reason of at least 5 characters is required",
		})
	}

	intervals, sessionErrs := parseSessions(r.Sessions)
	errs = append(errs, sessionErrs...)

	if len(errs) > 0 {
		return errs
	}

	r.ParsedIntervals = intervals
	return nil
}

type ListFilter struct {
	TutorID   *string
	Status    *string
	StartDate *string
	EndDate   *string
	Page      int
	Limit     int
}

// ========================================
// RESPONSES
// ========================================

type SessionResponse struct {
	ID        string `json:"id"`
	StartAt   string `json:"start_at"`
	EndAt     string `json:"end_at"`
	SortOrder int    `json:"sort_order"`
}

type AuditResponse struct {
	Action           string `json:"action"`
	ActorAccountType string `json:"actor_account_type"`
	ActorAccountID   string `json:"actor_account_id"`
	At               string `json:"at"`
	PreviousStatus   string `json:"previous_status"`
	NewStatus        string `json:"new_status"`
}

type DayResponse struct {
	ID               string               `json:"id"`
	FranchiseID      string               `json:"franchise_id"`
	TutorID          string               `json:"tutor_id"`
	WorkDate         string               `json:"work_date"`
	Timezone         string               `json:"timezone"`
	Status           string               `json:"status"`
	Sessions         []SessionResponse    `json:"sessions"`
	ScheduleSnapshot *schedule.Snapshot   `json:"schedule_snapshot,omitempty"`
	Comparison       *schedule.Comparison `json:"comparison,omitempty"`
	SubmittedAt      *string              `json:"submitted_at,omitempty"`
	DecidedBy        *string              `json:"decided_by,omitempty"`
	DecidedAt        *string              `json:"decided_at,omitempty"`
	DecisionReason   *string              `json:"decision_reason,omitempty"`
	WasEverApproved  bool                 `json:"was_ever_approved"`
	LastAudit        *AuditResponse       `json:"last_audit,omitempty"`
	History          []AuditResponse      `json:"history,omitempty"`
	CreatedAt        string               `json:"created_at"`
	UpdatedAt        string               `json:"updated_at"`
}

type ListDaysResponse struct {
	TotalCount int64         `json:"total_count"`
	Page       int           `json:"page"`
	Limit      int           `json:"limit"`
	TotalPages int           `json:"total_pages"`
	Days       []DayResponse `json:"days"`
}
