package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/tutorlane/timecard-backend-go/internal/domain/payperiod"
	"github.com/tutorlane/timecard-backend-go/internal/pkg/database"
)

type payPeriodOverrideRepository struct {
	db *database.DB
}

func NewPayPeriodOverrideRepository(db *database.DB) payperiod.PayPeriodOverrideRepository {
	return &payPeriodOverrideRepository{db: db}
}

// GetForDate implements payperiod.PayPeriodOverrideRepository.
func (r *payPeriodOverrideRepository) GetForDate(ctx context.Context, franchiseID string, forDate time.Time) (*payperiod.Override, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, franchise_id, period_type, start_date, end_date, created_at
		FROM pay_period_overrides
		WHERE franchise_id = $1 AND start_date <= $2 AND end_date >= $2
		ORDER BY created_at DESC
		LIMIT 1
	`

	var ov payperiod.Override
	err := q.QueryRow(ctx, query, franchiseID, forDate).Scan(
		&ov.ID, &ov.FranchiseID, &ov.PeriodType, &ov.StartDate, &ov.EndDate, &ov.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil // no override for this date
		}
		return nil, fmt.Errorf("failed to get pay period override: %w", err)
	}

	return &ov, nil
}
