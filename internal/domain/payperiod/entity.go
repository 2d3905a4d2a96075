package payperiod

import (
	"fmt"
	"time"
)

type PeriodType string

const (
	PeriodWeekly      PeriodType = "weekly"
	PeriodSemimonthly PeriodType = "semimonthly"
	PeriodMonthly     PeriodType = "monthly"
)

func (p PeriodType) Valid() bool {
	switch p {
	case PeriodWeekly, PeriodSemimonthly, PeriodMonthly:
		return true
	}
	return false
}

type Source string

const (
	SourceOverride Source = "override"
	SourceComputed Source = "computed"
)

// PayPeriod is the resolved billing window for a franchise and date.
// StartDate/EndDate are franchise-local calendar dates (inclusive);
// StartAt/EndAt are the corresponding UTC instants, with EndAt exclusive
// (midnight after EndDate in the franchise timezone).
type PayPeriod struct {
	PeriodType      PeriodType
	StartDate       time.Time
	EndDate         time.Time
	StartAt         time.Time
	EndAt           time.Time
	Source          Source
	OverrideID      *string
	ResolvedForDate time.Time
}

// Override is an externally configured pay-period record that takes
// precedence over the computed window for the dates it covers.
type Override struct {
	ID          string
	FranchiseID string
	PeriodType  PeriodType
	StartDate   time.Time
	EndDate     time.Time
	CreatedAt   time.Time
}

// ComputeWindow derives the canonical pay period containing forDate,
// anchored in the franchise timezone. forDate carries only its calendar
// date; its clock time and location are ignored. Deterministic and
// side-effect-free.
func ComputeWindow(periodType PeriodType, forDate time.Time, loc *time.Location) (PayPeriod, error) {
	year, month, day := forDate.Date()

	var startDate, endDate time.Time
	switch periodType {
	case PeriodWeekly:
		// Sunday through Saturday.
		date := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
		startDate = date.AddDate(0, 0, -int(date.Weekday()))
		endDate = startDate.AddDate(0, 0, 6)
	case PeriodSemimonthly:
		if day <= 15 {
			startDate = time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
			endDate = time.Date(year, month, 15, 0, 0, 0, 0, time.UTC)
		} else {
			startDate = time.Date(year, month, 16, 0, 0, 0, 0, time.UTC)
			endDate = lastDayOfMonth(year, month)
		}
	case PeriodMonthly:
		startDate = time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
		endDate = lastDayOfMonth(year, month)
	default:
		return PayPeriod{}, fmt.Errorf("unknown period type %q", periodType)
	}

	return PayPeriod{
		PeriodType:      periodType,
		StartDate:       startDate,
		EndDate:         endDate,
		StartAt:         instantAt(startDate, loc),
		EndAt:           instantAt(endDate.AddDate(0, 0, 1), loc),
		Source:          SourceComputed,
		ResolvedForDate: time.Date(year, month, day, 0, 0, 0, 0, time.UTC),
	}, nil
}

// FromOverride builds the resolved period for an override row covering forDate.
func FromOverride(ov Override, forDate time.Time, loc *time.Location) PayPeriod {
	id := ov.ID
	year, month, day := forDate.Date()
	return PayPeriod{
		PeriodType:      ov.PeriodType,
		StartDate:       ov.StartDate,
		EndDate:         ov.EndDate,
		StartAt:         instantAt(ov.StartDate, loc),
		EndAt:           instantAt(ov.EndDate.AddDate(0, 0, 1), loc),
		Source:          SourceOverride,
		OverrideID:      &id,
		ResolvedForDate: time.Date(year, month, day, 0, 0, 0, 0, time.UTC),
	}
}

func lastDayOfMonth(year int, month time.Month) time.Time {
	return time.Date(year, month+1, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, -1)
}

func instantAt(date time.Time, loc *time.Location) time.Time {
	y, m, d := date.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc).UTC()
}
