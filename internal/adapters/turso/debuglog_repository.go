package turso

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/emiliopalmerini/buildlog/internal/domain"
	"github.com/emiliopalmerini/buildlog/internal/ports"
	"github.com/emiliopalmerini/buildlog/internal/util"
)

type DebugLogRepository struct {
	db *sql.DB
}

func NewDebugLogRepository(db *sql.DB) *DebugLogRepository {
	return &DebugLogRepository{db: db}
}

const debugLogColumns = `id, project_id, user_id, error_description, attempts,
	hypothesis, solution, time_spent_minutes, created_at`

func (r *DebugLogRepository) Create(ctx context.Context, log *domain.DebugLog) error {
	if log.ID == "" {
		log.ID = uuid.NewString()
	}
	if log.CreatedAt.IsZero() {
		log.CreatedAt = time.Now().UTC()
	}
	if log.Attempts == nil {
		log.Attempts = []domain.Attempt{}
	}

	attempts, err := json.Marshal(log.Attempts)
	if err != nil {
		return fmt.Errorf("marshal attempts: %w", err)
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO debug_logs (`+debugLogColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		log.ID, log.ProjectID, log.UserID, log.ErrorDescription, string(attempts),
		log.Hypothesis, log.Solution, util.NullFloat64(log.TimeSpentMinutes),
		log.CreatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("insert debug log: %w", err)
	}
	return nil
}

func (r *DebugLogRepository) GetByID(ctx context.Context, id string) (*domain.DebugLog, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+debugLogColumns+` FROM debug_logs WHERE id = ?`, id)
	log, err := scanDebugLog(row)
	if err == sql.ErrNoRows {
		return nil, ports.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get debug log: %w", err)
	}
	return log, nil
}

func (r *DebugLogRepository) ListByUser(ctx context.Context, userID string) ([]*domain.DebugLog, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+debugLogColumns+` FROM debug_logs
		WHERE user_id = ?
		ORDER BY created_at DESC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("list debug logs: %w", err)
	}
	defer rows.Close()
	return collectDebugLogs(rows)
}

func (r *DebugLogRepository) ListByProject(ctx context.Context, projectID string) ([]*domain.DebugLog, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+debugLogColumns+` FROM debug_logs
		WHERE project_id = ?
		ORDER BY created_at DESC
	`, projectID)
	if err != nil {
		return nil, fmt.Errorf("list project debug logs: %w", err)
	}
	defer rows.Close()
	return collectDebugLogs(rows)
}

func (r *DebugLogRepository) Update(ctx context.Context, log *domain.DebugLog) error {
	attempts, err := json.Marshal(log.Attempts)
	if err != nil {
		return fmt.Errorf("marshal attempts: %w", err)
	}

	res, err := r.db.ExecContext(ctx, `
		UPDATE debug_logs SET
			error_description = ?, attempts = ?, hypothesis = ?,
			solution = ?, time_spent_minutes = ?
		WHERE id = ?
	`,
		log.ErrorDescription, string(attempts), log.Hypothesis,
		log.Solution, util.NullFloat64(log.TimeSpentMinutes), log.ID,
	)
	if err != nil {
		return fmt.Errorf("update debug log: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ports.ErrNotFound
	}
	return nil
}

func (r *DebugLogRepository) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM debug_logs WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete debug log: %w", err)
	}
	return nil
}

func collectDebugLogs(rows *sql.Rows) ([]*domain.DebugLog, error) {
	var logs []*domain.DebugLog
	for rows.Next() {
		log, err := scanDebugLog(rows)
		if err != nil {
			return nil, fmt.Errorf("scan debug log: %w", err)
		}
		logs = append(logs, log)
	}
	return logs, rows.Err()
}

func scanDebugLog(row rowScanner) (*domain.DebugLog, error) {
	var d domain.DebugLog
	var attempts, createdAt string
	var timeSpent sql.NullFloat64

	err := row.Scan(
		&d.ID, &d.ProjectID, &d.UserID, &d.ErrorDescription, &attempts,
		&d.Hypothesis, &d.Solution, &timeSpent, &createdAt,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal([]byte(attempts), &d.Attempts); err != nil {
		return nil, fmt.Errorf("unmarshal attempts: %w", err)
	}
	d.TimeSpentMinutes = util.NullFloat64ToPtr(timeSpent)
	d.CreatedAt = util.ParseTimeRFC3339(createdAt)
	return &d, nil
}
