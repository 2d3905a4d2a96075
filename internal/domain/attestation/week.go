package attestation

import "time"

// WeekStartLocal returns Sunday 00:00 of t's week, in t's location.
func WeekStartLocal(t time.Time) time.Time {
	year, month, day := t.Date()
	midnight := time.Date(year, month, day, 0, 0, 0, 0, t.Location())
	return midnight.AddDate(0, 0, -int(midnight.Weekday()))
}

// WeekDateOf strips a local week start down to its calendar date
// (UTC midnight), the form week boundaries are persisted in.
func WeekDateOf(weekStartLocal time.Time) time.Time {
	year, month, day := weekStartLocal.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// LatestElapsedWeekStart returns the local start of the most recent week
// that has fully elapsed, i.e. the week before the one containing nowLocal.
func LatestElapsedWeekStart(nowLocal time.Time) time.Time {
	return WeekStartLocal(nowLocal).AddDate(0, 0, -7)
}

// MissingWeekStart walks backwards from the most recent fully-elapsed week
// and returns the start of the first one without a signed attestation, or
// nil when every elapsed week down to earliestLocal is signed. Weeks before
// the tutor existed never count. Only one missing week is ever reported:
// requirements do not stack.
func MissingWeekStart(nowLocal, earliestLocal time.Time, isSigned func(weekStartDate time.Time) bool) *time.Time {
	floor := WeekStartLocal(earliestLocal)

	for ws := LatestElapsedWeekStart(nowLocal); !ws.Before(floor); ws = ws.AddDate(0, 0, -7) {
		if !isSigned(WeekDateOf(ws)) {
			missing := ws
			return &missing
		}
	}

	return nil
}

// WeekEndDate returns the Saturday calendar date closing the week that
// starts on weekStartDate.
func WeekEndDate(weekStartDate time.Time) time.Time {
	return weekStartDate.AddDate(0, 0, 6)
}
