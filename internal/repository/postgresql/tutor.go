package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/tutorlane/timecard-backend-go/internal/domain/tutor"
	"github.com/tutorlane/timecard-backend-go/internal/pkg/database"
)

type tutorRepository struct {
	db *database.DB
}

func NewTutorRepository(db *database.DB) tutor.TutorRepository {
	return &tutorRepository{db: db}
}

// GetByID implements tutor.TutorRepository.
func (r *tutorRepository) GetByID(ctx context.Context, id string) (tutor.Tutor, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, franchise_id, full_name, timezone, created_at, updated_at
		FROM tutors
		WHERE id = $1
	`

	var t tutor.Tutor
	err := q.QueryRow(ctx, query, id).Scan(
		&t.ID, &t.FranchiseID, &t.FullName, &t.Timezone, &t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return tutor.Tutor{}, tutor.ErrTutorNotFound
		}
		return tutor.Tutor{}, fmt.Errorf("failed to get tutor: %w", err)
	}

	return t, nil
}
