package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/tutorlane/timecard-backend-go/internal/domain/attestation"
	"github.com/tutorlane/timecard-backend-go/internal/pkg/database"
)

type attestationRepository struct {
	db *database.DB
}

func NewAttestationRepository(db *database.DB) attestation.AttestationRepository {
	return &attestationRepository{db: db}
}

// GetByTutorAndWeek implements attestation.AttestationRepository.
func (r *attestationRepository) GetByTutorAndWeek(ctx context.Context, tutorID string, weekStart time.Time) (*attestation.WeeklyAttestation, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, tutor_id, week_start, week_end, signed, signed_at,
			   typed_name, attestation_text_version, created_at, updated_at
		FROM weekly_attestations
		WHERE tutor_id = $1 AND week_start = $2
	`

	var att attestation.WeeklyAttestation
	err := q.QueryRow(ctx, query, tutorID, weekStart).Scan(
		&att.ID, &att.TutorID, &att.WeekStart, &att.WeekEnd, &att.Signed, &att.SignedAt,
		&att.TypedName, &att.AttestationTextVersion, &att.CreatedAt, &att.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil // week not signed yet
		}
		return nil, fmt.Errorf("failed to get weekly attestation: %w", err)
	}

	return &att, nil
}

// ListSignedWeekStarts implements attestation.AttestationRepository.
func (r *attestationRepository) ListSignedWeekStarts(ctx context.Context, tutorID string, from, to time.Time) ([]time.Time, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT week_start
		FROM weekly_attestations
		WHERE tutor_id = $1 AND signed = TRUE AND week_start BETWEEN $2 AND $3
		ORDER BY week_start ASC
	`

	rows, err := q.Query(ctx, query, tutorID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to list signed week starts: %w", err)
	}
	defer rows.Close()

	var weeks []time.Time
	for rows.Next() {
		var ws time.Time
		if err := rows.Scan(&ws); err != nil {
			return nil, fmt.Errorf("failed to scan week start: %w", err)
		}
		weeks = append(weeks, ws)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate week starts: %w", err)
	}

	return weeks, nil
}

// Upsert implements attestation.AttestationRepository. Re-signing a week
// replaces the signature fields; the last signature is authoritative.
func (r *attestationRepository) Upsert(ctx context.Context, att attestation.WeeklyAttestation) (attestation.WeeklyAttestation, error) {
	q := GetQuerier(ctx, r.db)

	if att.ID == "" {
		att.ID = uuid.NewString()
	}

	query := `
		INSERT INTO weekly_attestations (
			id, tutor_id, week_start, week_end, signed, signed_at,
			typed_name, attestation_text_version
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (tutor_id, week_start) DO UPDATE SET
			signed = EXCLUDED.signed,
			signed_at = EXCLUDED.signed_at,
			typed_name = EXCLUDED.typed_name,
			attestation_text_version = EXCLUDED.attestation_text_version,
			updated_at = NOW()
		RETURNING id, created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		att.ID, att.TutorID, att.WeekStart, att.WeekEnd, att.Signed, att.SignedAt,
		att.TypedName, att.AttestationTextVersion,
	).Scan(&att.ID, &att.CreatedAt, &att.UpdatedAt)
	if err != nil {
		return attestation.WeeklyAttestation{}, fmt.Errorf("failed to upsert weekly attestation: %w", err)
	}

	return att, nil
}
