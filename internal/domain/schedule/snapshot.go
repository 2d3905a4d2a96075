package schedule

import (
	"context"
	"sort"
	"time"

	"github.com/tutorlane/timecard-backend-go/internal/pkg/validator"
)

// Interval is a half-open [StartAt, EndAt) span of scheduled or worked time.
// Both instants are UTC.
type Interval struct {
	StartAt time.Time `json:"start_at"`
	EndAt   time.Time `json:"end_at"`
}

// Snapshot is a point-in-time capture of the externally scheduled tutoring
// intervals for one tutor and one work date. Once attached to a day it is
// immutable.
type Snapshot struct {
	Intervals []Interval `json:"intervals"`
}

// SnapshotFetcher retrieves the schedule snapshot for a tutor and work date
// from the external scheduling system.
type SnapshotFetcher interface {
	FetchSnapshot(ctx context.Context, tutorID string, workDate time.Time) (Snapshot, error)
}

// Validate rejects malformed snapshot shapes before they reach reconciliation.
func (s *Snapshot) Validate() error {
	var errs validator.ValidationErrors

	for i, iv := range s.Intervals {
		if iv.StartAt.IsZero() || iv.EndAt.IsZero() {
			errs = append(errs, validator.ValidationError{
				Field:   "intervals[" + validator.Itoa(i) + "]",
				Message: "start_at and end_at are required",
			})
			continue
		}
		if !iv.EndAt.After(iv.StartAt) {
			errs = append(errs, validator.ValidationError{
				Field:   "intervals[" + validator.Itoa(i) + "]",
				Message: "end_at must be after start_at",
			})
		}
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// Normalize sorts intervals ascending and merges any that overlap or touch,
// so a double-booked schedule is never double-counted.
func Normalize(intervals []Interval) []Interval {
	if len(intervals) == 0 {
		return nil
	}

	sorted := make([]Interval, len(intervals))
	copy(sorted, intervals)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].StartAt.Before(sorted[j].StartAt)
	})

	merged := []Interval{sorted[0]}
	for _, iv := range sorted[1:] {
		last := &merged[len(merged)-1]
		if !iv.StartAt.After(last.EndAt) {
			if iv.EndAt.After(last.EndAt) {
				last.EndAt = iv.EndAt
			}
			continue
		}
		merged = append(merged, iv)
	}

	return merged
}

// SumMinutes returns the total whole minutes covered by the intervals.
func SumMinutes(intervals []Interval) int {
	var total time.Duration
	for _, iv := range intervals {
		total += iv.EndAt.Sub(iv.StartAt)
	}
	return int(total / time.Minute)
}

// HasRemainingScheduledTime reports whether any scheduled interval ends after
// now. After a clock-out this is what decides whether the tutor should be
// prompted with the break-or-done dialog. Pure predicate, no state transition.
func HasRemainingScheduledTime(snapshot Snapshot, now time.Time) bool {
	for _, iv := range Normalize(snapshot.Intervals) {
		if iv.EndAt.After(now) {
			return true
		}
	}
	return false
}
