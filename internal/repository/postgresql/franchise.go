package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/tutorlane/timecard-backend-go/internal/domain/franchise"
	"github.com/tutorlane/timecard-backend-go/internal/pkg/database"
)

type franchiseRepository struct {
	db *database.DB
}

func NewFranchiseRepository(db *database.DB) franchise.FranchiseRepository {
	return &franchiseRepository{db: db}
}

// GetByID implements franchise.FranchiseRepository.
func (r *franchiseRepository) GetByID(ctx context.Context, id string) (franchise.Franchise, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, name, timezone, period_type, compare_policy,
			   attestation_text_version, created_at, updated_at
		FROM franchises
		WHERE id = $1
	`

	var f franchise.Franchise
	err := q.QueryRow(ctx, query, id).Scan(
		&f.ID, &f.Name, &f.Timezone, &f.PeriodType, &f.ComparePolicy,
		&f.AttestationTextVersion, &f.CreatedAt, &f.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return franchise.Franchise{}, franchise.ErrFranchiseNotFound
		}
		return franchise.Franchise{}, fmt.Errorf("failed to get franchise: %w", err)
	}

	return f, nil
}
