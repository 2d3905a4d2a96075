package timeentry

import "errors"

// Time entry domain errors
var (
	ErrDayNotFound = errors.New("time entry day not found")

	// Submission errors
	ErrDayAlreadySubmitted  = errors.New("day has already been submitted")
	ErrDayNotPending        = errors.New("day is not awaiting a decision")
	ErrDayNotEditable       = errors.New("day is no longer editable; route changes through an admin edit")
	ErrSnapshotUnavailable  = errors.New("schedule snapshot is unavailable")
	ErrNoSessionsOnClockOut = errors.New("clock-out produced no recordable interval")

	// Scope errors
	ErrWrongFranchise = errors.New("day belongs to another franchise")

	// ErrConflict means a concurrent modification was detected; retry with
	// fresh state.
	ErrConflict = errors.New("concurrent modification detected")
)
