package timeentry

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tutorlane/timecard-backend-go/internal/pkg/validator"
)

func TestSaveDayRequest_Validate(t *testing.T) {
	req := SaveDayRequest{
		WorkDate: "2024-03-04",
		Sessions: []SessionInput{
			{StartAt: "2024-03-04T15:00:00Z", EndAt: "2024-03-04T16:00:00Z"},
			{StartAt: "2024-03-04T09:00:00Z", EndAt: "2024-03-04T12:00:00Z"},
		},
	}

	require.NoError(t, req.Validate())
	assert.Equal(t, time.Date(2024, time.March, 4, 0, 0, 0, 0, time.UTC), req.ParsedDate)

	// Parsed intervals come back sorted.
	require.Len(t, req.ParsedIntervals, 2)
	assert.True(t, req.ParsedIntervals[0].StartAt.Before(req.ParsedIntervals[1].StartAt))
}

func TestSaveDayRequest_Validate_BadDate(t *testing.T) {
	req := SaveDayRequest{WorkDate: "03/04/2024"}

	err := req.Validate()
	require.Error(t, err)

	var errs validator.ValidationErrors
	require.ErrorAs(t, err, &errs)
	assert.Contains(t, errs.ToMap(), "work_date")
}

func TestSaveDayRequest_Validate_OverlappingSessions(t *testing.T) {
	req := SaveDayRequest{
		WorkDate: "2024-03-04",
		Sessions: []SessionInput{
			{StartAt: "2024-03-04T09:00:00Z", EndAt: "2024-03-04T11:00:00Z"},
			{StartAt: "2024-03-04T10:30:00Z", EndAt: "2024-03-04T12:00:00Z"},
		},
	}

	err := req.Validate()
	require.Error(t, err)

	var errs validator.ValidationErrors
	require.ErrorAs(t, err, &errs)
	assert.Contains(t, errs.ToMap(), "sessions")
}

func TestSaveDayRequest_Validate_AdjacentSessionsAllowed(t *testing.T) {
	req := SaveDayRequest{
		WorkDate: "2024-03-04",
		Sessions: []SessionInput{
			{StartAt: "2024-03-04T09:00:00Z", EndAt: "2024-03-04T11:00:00Z"},
			{StartAt: "2024-03-04T11:00:00Z", EndAt: "2024-03-04T12:00:00Z"},
		},
	}

	assert.NoError(t, req.Validate())
}

func TestSaveDayRequest_Validate_InvertedSession(t *testing.T) {
	req := SaveDayRequest{
		WorkDate: "2024-03-04",
		Sessions: []SessionInput{
			{StartAt: "2024-03-04T12:00:00Z", EndAt: "2024-03-04T09:00:00Z"},
		},
	}

	assert.Error(t, req.Validate())
}

func TestSaveDayRequest_Validate_EmptySessionsAllowed(t *testing.T) {
	// Clearing a draft day is a valid save.
	req := SaveDayRequest{WorkDate: "2024-03-04"}
	assert.NoError(t, req.Validate())
	assert.Empty(t, req.ParsedIntervals)
}

func TestDecideRequest_Validate(t *testing.T) {
	approve := DecideRequest{Decision: DecisionApprove}
	assert.NoError(t, approve.Validate())

	deny := DecideRequest{Decision: DecisionDeny, Reason: "hours do not match the schedule"}
	assert.NoError(t, deny.Validate())
}

func TestDecideRequest_Validate_DenyNeedsReason(t *testing.T) {
	missing := DecideRequest{Decision: DecisionDeny}
	assert.Error(t, missing.Validate())

	// Four characters is below the minimum, five passes.
	short := DecideRequest{Decision: DecisionDeny, Reason: "nope"}
	assert.Error(t, short.Validate())

	exact := DecideRequest{Decision: DecisionDeny, Reason: "wrong"}
	assert.NoError(t, exact.Validate())
}

func TestDecideRequest_Validate_UnknownDecision(t *testing.T) {
	req := DecideRequest{Decision: "maybe"}
	assert.Error(t, req.Validate())
}

func TestAdminEditRequest_Validate(t *testing.T) {
	req := AdminEditRequest{
		Reason: "corrected per tutor email",
		Sessions: []SessionInput{
			{StartAt: "2024-03-04T09:00:00Z", EndAt: "2024-03-04T12:00:00Z"},
		},
	}
	require.NoError(t, req.Validate())
	assert.Len(t, req.ParsedIntervals, 1)

	noReason := AdminEditRequest{
		Sessions: []SessionInput{
			{StartAt: "2024-03-04T09:00:00Z", EndAt: "2024-03-04T12:00:00Z"},
		},
	}
	assert.Error(t, noReason.Validate())
}

func TestWasEverApproved(t *testing.T) {
	history := []AuditRecord{
		{Action: ActionSubmit, PreviousStatus: StatusDraft, NewStatus: StatusApproved},
		{Action: ActionAdminEdit, PreviousStatus: StatusApproved, NewStatus: StatusPending},
		{Action: ActionDeny, PreviousStatus: StatusPending, NewStatus: StatusDenied},
	}

	// Sticky through later transitions away from approved.
	assert.True(t, WasEverApproved(history))

	neverApproved := []AuditRecord{
		{Action: ActionSubmit, PreviousStatus: StatusDraft, NewStatus: StatusPending},
		{Action: ActionDeny, PreviousStatus: StatusPending, NewStatus: StatusDenied},
	}
	assert.False(t, WasEverApproved(neverApproved))
	assert.False(t, WasEverApproved(nil))
}

func TestStatusHelpers(t *testing.T) {
	assert.True(t, StatusApproved.Decided())
	assert.True(t, StatusDenied.Decided())
	assert.False(t, StatusDraft.Decided())
	assert.False(t, StatusPending.Decided())

	assert.True(t, StatusDraft.Valid())
	assert.False(t, Status("deleted").Valid())
}

func TestSessionsFromIntervals(t *testing.T) {
	intervals := SaveDayRequest{
		WorkDate: "2024-03-04",
		Sessions: []SessionInput{
			{StartAt: "2024-03-04T09:00:00Z", EndAt: "2024-03-04T10:00:00Z"},
			{StartAt: "2024-03-04T11:00:00Z", EndAt: "2024-03-04T12:00:00Z"},
		},
	}
	require.NoError(t, intervals.Validate())

	sessions := SessionsFromIntervals("day-1", intervals.ParsedIntervals)

	require.Len(t, sessions, 2)
	assert.Equal(t, 0, sessions[0].SortOrder)
	assert.Equal(t, 1, sessions[1].SortOrder)
	assert.Equal(t, "day-1", sessions[0].DayID)

	day := TimeEntryDay{Sessions: sessions}
	assert.Equal(t, intervals.ParsedIntervals, day.Intervals())
}
