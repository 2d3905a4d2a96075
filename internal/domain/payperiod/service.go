package payperiod

import (
	"context"
	"time"
)

// PayPeriodService resolves franchise pay-period boundaries.
type PayPeriodService interface {
	// Resolve returns the period covering forDate; a nil forDate means
	// "today" in the franchise timezone.
	Resolve(ctx context.Context, franchiseID string, forDate *time.Time) (PayPeriodResponse, error)

	// Previous resolves the period immediately before the one covering
	// forDate, i.e. the period of currentPeriod.StartDate - 1 day.
	Previous(ctx context.Context, franchiseID string, forDate *time.Time) (PayPeriodResponse, error)
}
