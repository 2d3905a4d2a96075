package schedule

// ComparePolicy decides when manual time counts as matching the schedule.
type ComparePolicy string

const (
	// PolicyExactBoundaries requires the manual sessions to equal the
	// normalized scheduled intervals boundary for boundary. Default.
	PolicyExactBoundaries ComparePolicy = "exact_boundaries"
	// PolicyTotalMinutes only requires the total worked minutes to equal the
	// total scheduled minutes.
	PolicyTotalMinutes ComparePolicy = "total_minutes"
)

func (p ComparePolicy) Valid() bool {
	return p == PolicyExactBoundaries || p == PolicyTotalMinutes
}

type Totals struct {
	TotalMinutes int `json:"total_minutes"`
}

// Comparison is the variance verdict between manual sessions and a schedule
// snapshot. Both totals are always populated for display, even when Matches
// is false.
type Comparison struct {
	Manual    Totals `json:"manual"`
	Scheduled Totals `json:"scheduled"`
	Matches   bool   `json:"matches"`
}

// Reconcile compares the day's manual sessions against the snapshot.
// The snapshot is normalized first; the sessions are expected to already be
// validated non-overlapping and sorted. An empty side against a nonempty one
// is a reported non-match, not an error.
func Reconcile(sessions []Interval, snapshot Snapshot, policy ComparePolicy) Comparison {
	scheduled := Normalize(snapshot.Intervals)

	cmp := Comparison{
		Manual:    Totals{TotalMinutes: SumMinutes(sessions)},
		Scheduled: Totals{TotalMinutes: SumMinutes(scheduled)},
	}

	switch policy {
	case PolicyTotalMinutes:
		cmp.Matches = cmp.Manual.TotalMinutes == cmp.Scheduled.TotalMinutes
	default:
		cmp.Matches = sameBoundaries(sessions, scheduled)
	}

	return cmp
}

func sameBoundaries(a, b []Interval) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !a[i].StartAt.Equal(b[i].StartAt) || !a[i].EndAt.Equal(b[i].EndAt) {
			return false
		}
	}
	return true
}
