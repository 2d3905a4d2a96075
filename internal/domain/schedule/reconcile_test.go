package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func iv(t *testing.T, start, end string) Interval {
	t.Helper()
	startAt, err := time.Parse(time.RFC3339, start)
	if err != nil {
		t.Fatalf("bad start %q: %v", start, err)
	}
	endAt, err := time.Parse(time.RFC3339, end)
	if err != nil {
		t.Fatalf("bad end %q: %v", end, err)
	}
	return Interval{StartAt: startAt.UTC(), EndAt: endAt.UTC()}
}

func TestNormalize_MergesOverlappingAndTouching(t *testing.T) {
	intervals := []Interval{
		iv(t, "2024-03-04T15:00:00Z", "2024-03-04T16:00:00Z"),
		iv(t, "2024-03-04T09:00:00Z", "2024-03-04T10:30:00Z"),
		iv(t, "2024-03-04T10:00:00Z", "2024-03-04T11:00:00Z"),
		iv(t, "2024-03-04T11:00:00Z", "2024-03-04T12:00:00Z"),
	}

	merged := Normalize(intervals)

	assert.Equal(t, []Interval{
		iv(t, "2024-03-04T09:00:00Z", "2024-03-04T12:00:00Z"),
		iv(t, "2024-03-04T15:00:00Z", "2024-03-04T16:00:00Z"),
	}, merged)
}

func TestNormalize_ContainedIntervalDoesNotExtend(t *testing.T) {
	merged := Normalize([]Interval{
		iv(t, "2024-03-04T09:00:00Z", "2024-03-04T12:00:00Z"),
		iv(t, "2024-03-04T10:00:00Z", "2024-03-04T11:00:00Z"),
	})

	assert.Equal(t, []Interval{
		iv(t, "2024-03-04T09:00:00Z", "2024-03-04T12:00:00Z"),
	}, merged)
}

func TestNormalize_Empty(t *testing.T) {
	assert.Nil(t, Normalize(nil))
}

func TestSumMinutes(t *testing.T) {
	total := SumMinutes([]Interval{
		iv(t, "2024-03-04T09:00:00Z", "2024-03-04T12:30:00Z"),
		iv(t, "2024-03-04T15:00:00Z", "2024-03-04T16:00:00Z"),
	})
	assert.Equal(t, 270, total)
}

func TestReconcile_ExactBoundariesMatch(t *testing.T) {
	sessions := []Interval{
		iv(t, "2024-03-04T16:00:00Z", "2024-03-04T19:00:00Z"),
		iv(t, "2024-03-04T20:00:00Z", "2024-03-04T22:00:00Z"),
	}
	snapshot := Snapshot{Intervals: []Interval{
		iv(t, "2024-03-04T20:00:00Z", "2024-03-04T22:00:00Z"),
		iv(t, "2024-03-04T16:00:00Z", "2024-03-04T19:00:00Z"),
	}}

	cmp := Reconcile(sessions, snapshot, PolicyExactBoundaries)

	assert.True(t, cmp.Matches)
	assert.Equal(t, 300, cmp.Manual.TotalMinutes)
	assert.Equal(t, 300, cmp.Scheduled.TotalMinutes)
}

func TestReconcile_ExactBoundariesMismatchSameTotals(t *testing.T) {
	// Same 420 worked minutes, shifted by an hour: totals agree, boundaries
	// do not.
	sessions := []Interval{
		iv(t, "2024-03-04T10:00:00Z", "2024-03-04T17:00:00Z"),
	}
	snapshot := Snapshot{Intervals: []Interval{
		iv(t, "2024-03-04T09:00:00Z", "2024-03-04T16:00:00Z"),
	}}

	exact := Reconcile(sessions, snapshot, PolicyExactBoundaries)
	assert.False(t, exact.Matches)
	assert.Equal(t, 420, exact.Manual.TotalMinutes)
	assert.Equal(t, 420, exact.Scheduled.TotalMinutes)

	byTotals := Reconcile(sessions, snapshot, PolicyTotalMinutes)
	assert.True(t, byTotals.Matches)
}

func TestReconcile_TotalMinutesMismatch(t *testing.T) {
	sessions := []Interval{
		iv(t, "2024-03-04T09:00:00Z", "2024-03-04T16:30:00Z"),
	}
	snapshot := Snapshot{Intervals: []Interval{
		iv(t, "2024-03-04T09:00:00Z", "2024-03-04T16:00:00Z"),
	}}

	cmp := Reconcile(sessions, snapshot, PolicyTotalMinutes)

	assert.False(t, cmp.Matches)
	assert.Equal(t, 450, cmp.Manual.TotalMinutes)
	assert.Equal(t, 420, cmp.Scheduled.TotalMinutes)
}

func TestReconcile_SnapshotNormalizedBeforeCompare(t *testing.T) {
	// A double-booked schedule merges to one interval before matching.
	sessions := []Interval{
		iv(t, "2024-03-04T09:00:00Z", "2024-03-04T11:00:00Z"),
	}
	snapshot := Snapshot{Intervals: []Interval{
		iv(t, "2024-03-04T09:00:00Z", "2024-03-04T10:30:00Z"),
		iv(t, "2024-03-04T10:00:00Z", "2024-03-04T11:00:00Z"),
	}}

	cmp := Reconcile(sessions, snapshot, PolicyExactBoundaries)

	assert.True(t, cmp.Matches)
	assert.Equal(t, 120, cmp.Scheduled.TotalMinutes)
}

func TestReconcile_EmptyAgainstNonEmpty(t *testing.T) {
	snapshot := Snapshot{Intervals: []Interval{
		iv(t, "2024-03-04T09:00:00Z", "2024-03-04T10:00:00Z"),
	}}

	cmp := Reconcile(nil, snapshot, PolicyExactBoundaries)

	assert.False(t, cmp.Matches)
	assert.Equal(t, 0, cmp.Manual.TotalMinutes)
	assert.Equal(t, 60, cmp.Scheduled.TotalMinutes)
}

func TestReconcile_BothEmptyMatches(t *testing.T) {
	cmp := Reconcile(nil, Snapshot{}, PolicyExactBoundaries)
	assert.True(t, cmp.Matches)
}

func TestHasRemainingScheduledTime(t *testing.T) {
	snapshot := Snapshot{Intervals: []Interval{
		iv(t, "2024-03-04T09:00:00Z", "2024-03-04T12:00:00Z"),
		iv(t, "2024-03-04T15:00:00Z", "2024-03-04T17:00:00Z"),
	}}

	midday := time.Date(2024, 3, 4, 13, 0, 0, 0, time.UTC)
	assert.True(t, HasRemainingScheduledTime(snapshot, midday))

	evening := time.Date(2024, 3, 4, 17, 0, 0, 0, time.UTC)
	assert.False(t, HasRemainingScheduledTime(snapshot, evening))

	assert.False(t, HasRemainingScheduledTime(Snapshot{}, midday))
}

func TestSnapshotValidate(t *testing.T) {
	good := Snapshot{Intervals: []Interval{
		iv(t, "2024-03-04T09:00:00Z", "2024-03-04T10:00:00Z"),
	}}
	assert.NoError(t, good.Validate())

	inverted := Snapshot{Intervals: []Interval{
		iv(t, "2024-03-04T10:00:00Z", "2024-03-04T09:00:00Z"),
	}}
	assert.Error(t, inverted.Validate())

	zero := Snapshot{Intervals: []Interval{{}}}
	assert.Error(t, zero.Validate())
}
