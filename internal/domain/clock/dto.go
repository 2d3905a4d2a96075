package clock

import (
	"github.com/tutorlane/timecard-backend-go/internal/domain/schedule"
	"github.com/tutorlane/timecard-backend-go/internal/domain/timeentry"
)

type ClockOutRequest struct {
	Finalize bool `json:"finalize"`

	// Snapshot lets trusted callers supply a pre-fetched snapshot; normally
	// nil, in which case the engine fetches one when finalizing.
	Snapshot *schedule.Snapshot `json:"-"`
}

func (r *ClockOutRequest) Validate() error {
	if r.Snapshot != nil {
		return r.Snapshot.Validate()
	}
	return nil
}

type ClockStateResponse struct {
	ClockState          int     `json:"clock_state"`
	PersistedClockState int     `json:"persisted_clock_state"`
	OpenSessionID       *string `json:"open_session_id,omitempty"`
	StartedAt           *string `json:"started_at,omitempty"`
	DayID               *string `json:"day_id,omitempty"`
	DayStatus           *string `json:"day_status,omitempty"`
	AttestationBlocking bool    `json:"attestation_blocking"`
	MissingWeekEnd      *string `json:"missing_week_end,omitempty"`
}

type ClockOutResponse struct {
	State ClockStateResponse `json:"state"`

	// Day is the day the closed interval merged into; nil when the merge
	// was skipped (e.g. the day is already decided).
	Day *timeentry.DayResponse `json:"day,omitempty"`

	// PromptRemainingSchedule advises the caller to ask break-or-done: the
	// snapshot still has scheduled time in the future.
	PromptRemainingSchedule bool `json:"prompt_remaining_schedule"`
}
