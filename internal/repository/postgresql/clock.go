package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/tutorlane/timecard-backend-go/internal/domain/clock"
	"github.com/tutorlane/timecard-backend-go/internal/pkg/database"
)

type clockSessionRepository struct {
	db *database.DB
}

func NewClockSessionRepository(db *database.DB) clock.ClockSessionRepository {
	return &clockSessionRepository{db: db}
}

// GetOpenSession implements clock.ClockSessionRepository.
func (r *clockSessionRepository) GetOpenSession(ctx context.Context, tutorID string) (*clock.ClockSession, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, tutor_id, started_at, created_at
		FROM clock_sessions
		WHERE tutor_id = $1
		LIMIT 1
	`

	var session clock.ClockSession
	err := q.QueryRow(ctx, query, tutorID).Scan(
		&session.ID, &session.TutorID, &session.StartedAt, &session.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil // not clocked in
		}
		return nil, fmt.Errorf("failed to get open clock session: %w", err)
	}

	return &session, nil
}

// Create implements clock.ClockSessionRepository. The unique index on
// tutor_id makes a concurrent double clock-in lose deterministically.
func (r *clockSessionRepository) Create(ctx context.Context, session clock.ClockSession) (clock.ClockSession, error) {
	q := GetQuerier(ctx, r.db)

	if session.ID == "" {
		session.ID = uuid.NewString()
	}

	query := `
		INSERT INTO clock_sessions (id, tutor_id, started_at)
		VALUES ($1, $2, $3)
		RETURNING created_at
	`

	err := q.QueryRow(ctx, query, session.ID, session.TutorID, session.StartedAt).Scan(&session.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return clock.ClockSession{}, clock.ErrAlreadyClockedIn
		}
		return clock.ClockSession{}, fmt.Errorf("failed to create clock session: %w", err)
	}

	return session, nil
}

// Delete implements clock.ClockSessionRepository.
func (r *clockSessionRepository) Delete(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `DELETE FROM clock_sessions WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete clock session: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return clock.ErrNoOpenSession
	}

	return nil
}
