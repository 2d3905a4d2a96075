package payperiod

import (
	"context"
	"time"
)

// PayPeriodOverrideRepository reads externally configured override records.
// This core never mutates them.
type PayPeriodOverrideRepository interface {
	// GetForDate returns the override covering forDate, or nil when none does.
	GetForDate(ctx context.Context, franchiseID string, forDate time.Time) (*Override, error)
}
