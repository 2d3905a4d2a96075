package postgresql

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/tutorlane/timecard-backend-go/internal/domain/schedule"
	"github.com/tutorlane/timecard-backend-go/internal/domain/timeentry"
	"github.com/tutorlane/timecard-backend-go/internal/pkg/database"
)

type timeEntryRepository struct {
	db *database.DB
}

func NewTimeEntryRepository(db *database.DB) timeentry.TimeEntryRepository {
	return &timeEntryRepository{db: db}
}

const dayColumns = `
	id, franchise_id, tutor_id, work_date, timezone, status,
	schedule_snapshot, comparison,
	submitted_at, decided_by, decided_at, decision_reason,
	version, created_at, updated_at
`

func scanDay(row pgx.Row) (timeentry.TimeEntryDay, error) {
	var day timeentry.TimeEntryDay
	var snapshotJSON, comparisonJSON []byte

	err := row.Scan(
		&day.ID, &day.FranchiseID, &day.TutorID, &day.WorkDate, &day.Timezone, &day.Status,
		&snapshotJSON, &comparisonJSON,
		&day.SubmittedAt, &day.DecidedBy, &day.DecidedAt, &day.DecisionReason,
		&day.Version, &day.CreatedAt, &day.UpdatedAt,
	)
	if err != nil {
		return timeentry.TimeEntryDay{}, err
	}

	if len(snapshotJSON) > 0 {
		var snapshot schedule.Snapshot
		if err := json.Unmarshal(snapshotJSON, &snapshot); err != nil {
			return timeentry.TimeEntryDay{}, fmt.Errorf("decode schedule snapshot: %w", err)
		}
		day.ScheduleSnapshot = &snapshot
	}
	if len(comparisonJSON) > 0 {
		var comparison schedule.Comparison
		if err := json.Unmarshal(comparisonJSON, &comparison); err != nil {
			return timeentry.TimeEntryDay{}, fmt.Errorf("decode comparison: %w", err)
		}
		day.Comparison = &comparison
	}

	return day, nil
}

func marshalJSONColumn(v interface{}) (interface{}, error) {
	if v == nil {
		return nil, nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return data, nil
}

// Create implements timeentry.TimeEntryRepository.
func (r *timeEntryRepository) Create(ctx context.Context, day timeentry.TimeEntryDay) (timeentry.TimeEntryDay, error) {
	q := GetQuerier(ctx, r.db)

	if day.ID == "" {
		day.ID = uuid.NewString()
	}

	var snapshotArg, comparisonArg interface{}
	var err error
	if day.ScheduleSnapshot != nil {
		if snapshotArg, err = marshalJSONColumn(day.ScheduleSnapshot); err != nil {
			return timeentry.TimeEntryDay{}, fmt.Errorf("encode schedule snapshot: %w", err)
		}
	}
	if day.Comparison != nil {
		if comparisonArg, err = marshalJSONColumn(day.Comparison); err != nil {
			return timeentry.TimeEntryDay{}, fmt.Errorf("encode comparison: %w", err)
		}
	}

	query := `
		INSERT INTO time_entry_days (
			id, franchise_id, tutor_id, work_date, timezone, status,
			schedule_snapshot, comparison, submitted_at,
			decided_by, decided_at, decision_reason, version
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, 1
		) RETURNING version, created_at, updated_at
	`

	err = q.QueryRow(ctx, query,
		day.ID, day.FranchiseID, day.TutorID, day.WorkDate, day.Timezone, day.Status,
		snapshotArg, comparisonArg, day.SubmittedAt,
		day.DecidedBy, day.DecidedAt, day.DecisionReason,
	).Scan(&day.Version, &day.CreatedAt, &day.UpdatedAt)
	if err != nil {
		return timeentry.TimeEntryDay{}, fmt.Errorf("failed to create time entry day: %w", err)
	}

	if err := r.insertSessions(ctx, day.ID, day.Sessions); err != nil {
		return timeentry.TimeEntryDay{}, err
	}

	return r.loadSessions(ctx, day)
}

// GetByID implements timeentry.TimeEntryRepository.
func (r *timeEntryRepository) GetByID(ctx context.Context, id string, franchiseID string) (timeentry.TimeEntryDay, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + dayColumns + ` FROM time_entry_days WHERE id = $1 AND franchise_id = $2`

	day, err := scanDay(q.QueryRow(ctx, query, id, franchiseID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return timeentry.TimeEntryDay{}, timeentry.ErrDayNotFound
		}
		return timeentry.TimeEntryDay{}, fmt.Errorf("failed to get time entry day: %w", err)
	}

	return r.loadSessions(ctx, day)
}

// GetByTutorAndDate implements timeentry.TimeEntryRepository.
func (r *timeEntryRepository) GetByTutorAndDate(ctx context.Context, tutorID string, workDate time.Time) (*timeentry.TimeEntryDay, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + dayColumns + ` FROM time_entry_days WHERE tutor_id = $1 AND work_date = $2`

	day, err := scanDay(q.QueryRow(ctx, query, tutorID, workDate))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil // no day yet for this date
		}
		return nil, fmt.Errorf("failed to get time entry day by tutor and date: %w", err)
	}

	day, err = r.loadSessions(ctx, day)
	if err != nil {
		return nil, err
	}

	return &day, nil
}

// Update implements timeentry.TimeEntryRepository. The version column guards
// against lost updates between concurrent workers.
func (r *timeEntryRepository) Update(ctx context.Context, day timeentry.TimeEntryDay) (timeentry.TimeEntryDay, error) {
	q := GetQuerier(ctx, r.db)

	var snapshotArg, comparisonArg interface{}
	var err error
	if day.ScheduleSnapshot != nil {
		if snapshotArg, err = marshalJSONColumn(day.ScheduleSnapshot); err != nil {
			return timeentry.TimeEntryDay{}, fmt.Errorf("encode schedule snapshot: %w", err)
		}
	}
	if day.Comparison != nil {
		if comparisonArg, err = marshalJSONColumn(day.Comparison); err != nil {
			return timeentry.TimeEntryDay{}, fmt.Errorf("encode comparison: %w", err)
		}
	}

	query := `
		UPDATE time_entry_days
		SET status = $1,
			schedule_snapshot = COALESCE($2, schedule_snapshot),
			comparison = COALESCE($3, comparison),
			submitted_at = $4,
			decided_by = $5,
			decided_at = $6,
			decision_reason = $7,
			version = version + 1,
			updated_at = NOW()
		WHERE id = $8 AND version = $9
		RETURNING version, updated_at
	`

	err = q.QueryRow(ctx, query,
		day.Status, snapshotArg, comparisonArg, day.SubmittedAt,
		day.DecidedBy, day.DecidedAt, day.DecisionReason,
		day.ID, day.Version,
	).Scan(&day.Version, &day.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return timeentry.TimeEntryDay{}, timeentry.ErrConflict
		}
		return timeentry.TimeEntryDay{}, fmt.Errorf("failed to update time entry day: %w", err)
	}

	return day, nil
}

// ReplaceSessions implements timeentry.TimeEntryRepository.
func (r *timeEntryRepository) ReplaceSessions(ctx context.Context, dayID string, sessions []timeentry.Session) error {
	q := GetQuerier(ctx, r.db)

	if _, err := q.Exec(ctx, `DELETE FROM time_entry_sessions WHERE day_id = $1`, dayID); err != nil {
		return fmt.Errorf("failed to clear sessions: %w", err)
	}

	return r.insertSessions(ctx, dayID, sessions)
}

func (r *timeEntryRepository) insertSessions(ctx context.Context, dayID string, sessions []timeentry.Session) error {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO time_entry_sessions (id, day_id, start_at, end_at, sort_order)
		VALUES ($1, $2, $3, $4, $5)
	`

	for _, s := range sessions {
		id := s.ID
		if id == "" {
			id = uuid.NewString()
		}
		if _, err := q.Exec(ctx, query, id, dayID, s.StartAt, s.EndAt, s.SortOrder); err != nil {
			return fmt.Errorf("failed to insert session: %w", err)
		}
	}

	return nil
}

func (r *timeEntryRepository) loadSessions(ctx context.Context, day timeentry.TimeEntryDay) (timeentry.TimeEntryDay, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, day_id, start_at, end_at, sort_order
		FROM time_entry_sessions
		WHERE day_id = $1
		ORDER BY sort_order ASC
	`

	rows, err := q.Query(ctx, query, day.ID)
	if err != nil {
		return timeentry.TimeEntryDay{}, fmt.Errorf("failed to load sessions: %w", err)
	}
	defer rows.Close()

	day.Sessions = nil
	for rows.Next() {
		var s timeentry.Session
		if err := rows.Scan(&s.ID, &s.DayID, &s.StartAt, &s.EndAt, &s.SortOrder); err != nil {
			return timeentry.TimeEntryDay{}, fmt.Errorf("failed to scan session: %w", err)
		}
		day.Sessions = append(day.Sessions, s)
	}
	if err := rows.Err(); err != nil {
		return timeentry.TimeEntryDay{}, fmt.Errorf("failed to iterate sessions: %w", err)
	}

	return day, nil
}

// AppendAudit implements timeentry.TimeEntryRepository.
func (r *timeEntryRepository) AppendAudit(ctx context.Context, rec timeentry.AuditRecord) error {
	q := GetQuerier(ctx, r.db)

	id := rec.ID
	if id == "" {
		id = uuid.NewString()
	}

	query := `
		INSERT INTO time_entry_audits (
			id, day_id, action, actor_account_type, actor_account_id,
			at, previous_status, new_status
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	if _, err := q.Exec(ctx, query,
		id, rec.DayID, rec.Action, rec.ActorAccountType, rec.ActorAccountID,
		rec.At, rec.PreviousStatus, rec.NewStatus,
	); err != nil {
		return fmt.Errorf("failed to append audit record: %w", err)
	}

	return nil
}

// ListAudits implements timeentry.TimeEntryRepository.
func (r *timeEntryRepository) ListAudits(ctx context.Context, dayID string) ([]timeentry.AuditRecord, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, day_id, action, actor_account_type, actor_account_id,
			   at, previous_status, new_status
		FROM time_entry_audits
		WHERE day_id = $1
		ORDER BY at ASC, id ASC
	`

	rows, err := q.Query(ctx, query, dayID)
	if err != nil {
		return nil, fmt.Errorf("failed to list audit records: %w", err)
	}
	defer rows.Close()

	var records []timeentry.AuditRecord
	for rows.Next() {
		var rec timeentry.AuditRecord
		if err := rows.Scan(&rec.ID, &rec.DayID, &rec.Action, &rec.ActorAccountType,
			&rec.ActorAccountID, &rec.At, &rec.PreviousStatus, &rec.NewStatus); err != nil {
			return nil, fmt.Errorf("failed to scan audit record: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate audit records: %w", err)
	}

	return records, nil
}

// List implements timeentry.TimeEntryRepository.
func (r *timeEntryRepository) List(ctx context.Context, filter timeentry.ListFilter, franchiseID string) ([]timeentry.TimeEntryDay, int64, error) {
	q := GetQuerier(ctx, r.db)

	baseWhere := "franchise_id = $1"
	args := []interface{}{franchiseID}
	argIdx := 2

	if filter.TutorID != nil && *filter.TutorID != "" {
		baseWhere += fmt.Sprintf(" AND tutor_id = $%d", argIdx)
		args = append(args, *filter.TutorID)
		argIdx++
	}
	if filter.Status != nil && *filter.Status != "" {
		baseWhere += fmt.Sprintf(" AND status = $%d", argIdx)
		args = append(args, *filter.Status)
		argIdx++
	}
	if filter.StartDate != nil && *filter.StartDate != "" {
		baseWhere += fmt.Sprintf(" AND work_date >= $%d", argIdx)
		args = append(args, *filter.StartDate)
		argIdx++
	}
	if filter.EndDate != nil && *filter.EndDate != "" {
		baseWhere += fmt.Sprintf(" AND work_date <= $%d", argIdx)
		args = append(args, *filter.EndDate)
		argIdx++
	}

	var total int64
	countQuery := `SELECT COUNT(*) FROM time_entry_days WHERE ` + baseWhere
	if err := q.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count time entry days: %w", err)
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 20
	}
	page := filter.Page
	if page <= 0 {
		page = 1
	}

	listQuery := fmt.Sprintf(`
		SELECT %s FROM time_entry_days
		WHERE %s
		ORDER BY work_date DESC, tutor_id ASC
		LIMIT $%d OFFSET $%d
	`, dayColumns, baseWhere, argIdx, argIdx+1)
	args = append(args, limit, (page-1)*limit)

	rows, err := q.Query(ctx, listQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list time entry days: %w", err)
	}
	defer rows.Close()

	var days []timeentry.TimeEntryDay
	for rows.Next() {
		day, err := scanDay(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan time entry day: %w", err)
		}
		days = append(days, day)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate time entry days: %w", err)
	}

	for i := range days {
		if days[i], err = r.loadSessions(ctx, days[i]); err != nil {
			return nil, 0, err
		}
	}

	return days, total, nil
}
