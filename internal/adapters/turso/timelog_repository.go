package turso

import (
	"context"
	"crypto/rand"
	"database/sql"
	"fmt"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/emiliopalmerini/buildlog/internal/domain"
	"github.com/emiliopalmerini/buildlog/internal/ports"
	"github.com/emiliopalmerini/buildlog/internal/util"
)

type TimeLogRepository struct {
	db *sql.DB
}

func NewTimeLogRepository(db *sql.DB) *TimeLogRepository {
	return &TimeLogRepository{db: db}
}

const timeLogColumns = `id, project_id, user_id, kind, started_at, ended_at,
	duration_minutes, notes, created_at`

// newTimeLogID mints a ULID so record ids sort by start time.
func newTimeLogID(t time.Time) string {
	entropy := ulid.Monotonic(rand.Reader, 0)
	return ulid.MustNew(ulid.Timestamp(t), entropy).String()
}

func (r *TimeLogRepository) CreateOpen(ctx context.Context, log *domain.TimeLog) error {
	if log.ID == "" {
		log.ID = newTimeLogID(log.StartedAt)
	}
	if log.CreatedAt.IsZero() {
		log.CreatedAt = time.Now().UTC()
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO time_logs (`+timeLogColumns+`)
		VALUES (?, ?, ?, ?, ?, NULL, NULL, ?, ?)
	`,
		log.ID, log.ProjectID, log.UserID, string(log.Kind),
		log.StartedAt.Format(time.RFC3339), log.Notes,
		log.CreatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("insert time log: %w", err)
	}
	return nil
}

func (r *TimeLogRepository) GetByID(ctx context.Context, id string) (*domain.TimeLog, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+timeLogColumns+` FROM time_logs WHERE id = ?`, id)
	log, err := scanTimeLog(row)
	if err == sql.ErrNoRows {
		return nil, ports.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get time log: %w", err)
	}
	return log, nil
}

// Close finalizes a record. The duration is overwritten with the value
// computed by the caller, which makes closing idempotent: a retried
// close rewrites the same row instead of accumulating.
func (r *TimeLogRepository) Close(ctx context.Context, id string, endedAt time.Time, durationMinutes float64) (*domain.TimeLog, error) {
	res, err := r.db.ExecContext(ctx, `
		UPDATE time_logs SET ended_at = ?, duration_minutes = ? WHERE id = ?
	`, endedAt.Format(time.RFC3339), durationMinutes, id)
	if err != nil {
		return nil, fmt.Errorf("close time log: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, ports.ErrNotFound
	}
	return r.GetByID(ctx, id)
}

func (r *TimeLogRepository) ListByUser(ctx context.Context, userID string, limit int) ([]*domain.TimeLog, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+timeLogColumns+` FROM time_logs
		WHERE user_id = ?
		ORDER BY started_at DESC
		LIMIT ?
	`, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("list time logs: %w", err)
	}
	defer rows.Close()
	return collectTimeLogs(rows)
}

func (r *TimeLogRepository) ListByProject(ctx context.Context, projectID string) ([]*domain.TimeLog, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+timeLogColumns+` FROM time_logs
		WHERE project_id = ?
		ORDER BY started_at DESC
	`, projectID)
	if err != nil {
		return nil, fmt.Errorf("list project time logs: %w", err)
	}
	defer rows.Close()
	return collectTimeLogs(rows)
}

func (r *TimeLogRepository) FindOpen(ctx context.Context, userID string) ([]*domain.TimeLog, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+timeLogColumns+` FROM time_logs
		WHERE user_id = ? AND ended_at IS NULL
		ORDER BY started_at ASC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("find open time logs: %w", err)
	}
	defer rows.Close()
	return collectTimeLogs(rows)
}

func collectTimeLogs(rows *sql.Rows) ([]*domain.TimeLog, error) {
	var logs []*domain.TimeLog
	for rows.Next() {
		log, err := scanTimeLog(rows)
		if err != nil {
			return nil, fmt.Errorf("scan time log: %w", err)
		}
		logs = append(logs, log)
	}
	return logs, rows.Err()
}

func scanTimeLog(row rowScanner) (*domain.TimeLog, error) {
	var t domain.TimeLog
	var kind, startedAt, createdAt string
	var endedAt sql.NullString
	var duration sql.NullFloat64

	err := row.Scan(
		&t.ID, &t.ProjectID, &t.UserID, &kind, &startedAt, &endedAt,
		&duration, &t.Notes, &createdAt,
	)
	if err != nil {
		return nil, err
	}

	t.Kind = domain.Kind(kind)
	t.StartedAt = util.ParseTimeRFC3339(startedAt)
	t.EndedAt = util.NullTimeToPtr(endedAt)
	t.DurationMinutes = util.NullFloat64ToPtr(duration)
	t.CreatedAt = util.ParseTimeRFC3339(createdAt)
	return &t, nil
}
