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

type LearningLogRepository struct {
	db *sql.DB
}

func NewLearningLogRepository(db *sql.DB) *LearningLogRepository {
	return &LearningLogRepository{db: db}
}

const learningLogColumns = `id, user_id, topic, description, sources, other_source,
	started_at, ended_at, duration_minutes, is_manual, created_at`

func (r *LearningLogRepository) Create(ctx context.Context, log *domain.LearningLog) error {
	if log.ID == "" {
		log.ID = uuid.NewString()
	}
	if log.CreatedAt.IsZero() {
		log.CreatedAt = time.Now().UTC()
	}
	if log.Sources == nil {
		log.Sources = []string{}
	}

	sources, err := json.Marshal(log.Sources)
	if err != nil {
		return fmt.Errorf("marshal sources: %w", err)
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO learning_logs (`+learningLogColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		log.ID, log.UserID, log.Topic, log.Description, string(sources), log.OtherSource,
		log.StartedAt.Format(time.RFC3339), util.NullTime(log.EndedAt),
		log.DurationMinutes, util.BoolToInt64(log.IsManual),
		log.CreatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("insert learning log: %w", err)
	}
	return nil
}

func (r *LearningLogRepository) GetByID(ctx context.Context, id string) (*domain.LearningLog, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+learningLogColumns+` FROM learning_logs WHERE id = ?`, id)
	log, err := scanLearningLog(row)
	if err == sql.ErrNoRows {
		return nil, ports.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get learning log: %w", err)
	}
	return log, nil
}

func (r *LearningLogRepository) ListByUser(ctx context.Context, userID string, limit int) ([]*domain.LearningLog, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+learningLogColumns+` FROM learning_logs
		WHERE user_id = ?
		ORDER BY started_at DESC
		LIMIT ?
	`, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("list learning logs: %w", err)
	}
	defer rows.Close()

	var logs []*domain.LearningLog
	for rows.Next() {
		log, err := scanLearningLog(rows)
		if err != nil {
			return nil, fmt.Errorf("scan learning log: %w", err)
		}
		logs = append(logs, log)
	}
	return logs, rows.Err()
}

func (r *LearningLogRepository) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM learning_logs WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete learning log: %w", err)
	}
	return nil
}

func scanLearningLog(row rowScanner) (*domain.LearningLog, error) {
	var l domain.LearningLog
	var sources, startedAt, createdAt string
	var endedAt sql.NullString
	var isManual int64

	err := row.Scan(
		&l.ID, &l.UserID, &l.Topic, &l.Description, &sources, &l.OtherSource,
		&startedAt, &endedAt, &l.DurationMinutes, &isManual, &createdAt,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal([]byte(sources), &l.Sources); err != nil {
		return nil, fmt.Errorf("unmarshal sources: %w", err)
	}
	l.StartedAt = util.ParseTimeRFC3339(startedAt)
	l.EndedAt = util.NullTimeToPtr(endedAt)
	l.IsManual = isManual == 1
	l.CreatedAt = util.ParseTimeRFC3339(createdAt)
	return &l, nil
}
