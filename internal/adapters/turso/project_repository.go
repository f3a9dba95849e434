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

type ProjectRepository struct {
	db *sql.DB
}

func NewProjectRepository(db *sql.DB) *ProjectRepository {
	return &ProjectRepository{db: db}
}

const projectColumns = `id, user_id, name, description, status, priority,
	building_hours, debugging_hours, progress,
	problem_statement, target_user, mvp_scope, out_of_scope, platform,
	estimated_hours, prd_markdown, stuck_since, next_action,
	created_at, updated_at, completed_at`

func (r *ProjectRepository) Create(ctx context.Context, p *domain.Project) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}
	p.UpdatedAt = now

	mvpScope, err := json.Marshal(p.MVPScope)
	if err != nil {
		return fmt.Errorf("marshal mvp scope: %w", err)
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO projects (`+projectColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		p.ID, p.UserID, p.Name, p.Description, p.Status, p.Priority,
		p.BuildingHours, p.DebuggingHours, p.Progress,
		p.ProblemStatement, p.TargetUser, string(mvpScope), p.OutOfScope, p.Platform,
		p.EstimatedHours, p.PRDMarkdown, p.StuckSince, p.NextAction,
		p.CreatedAt.Format(time.RFC3339), p.UpdatedAt.Format(time.RFC3339), util.NullTime(p.CompletedAt),
	)
	if err != nil {
		return fmt.Errorf("insert project: %w", err)
	}
	return nil
}

func (r *ProjectRepository) GetByID(ctx context.Context, id string) (*domain.Project, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+projectColumns+` FROM projects WHERE id = ?`, id)
	p, err := scanProject(row)
	if err == sql.ErrNoRows {
		return nil, ports.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get project: %w", err)
	}
	return p, nil
}

func (r *ProjectRepository) List(ctx context.Context, userID string) ([]*domain.Project, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+projectColumns+` FROM projects
		WHERE user_id = ?
		ORDER BY created_at DESC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	defer rows.Close()

	var projects []*domain.Project
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, fmt.Errorf("scan project: %w", err)
		}
		projects = append(projects, p)
	}
	return projects, rows.Err()
}

func (r *ProjectRepository) Update(ctx context.Context, p *domain.Project) error {
	p.UpdatedAt = time.Now().UTC()

	mvpScope, err := json.Marshal(p.MVPScope)
	if err != nil {
		return fmt.Errorf("marshal mvp scope: %w", err)
	}

	res, err := r.db.ExecContext(ctx, `
		UPDATE projects SET
			name = ?, description = ?, status = ?, priority = ?, progress = ?,
			problem_statement = ?, target_user = ?, mvp_scope = ?, out_of_scope = ?,
			platform = ?, estimated_hours = ?, prd_markdown = ?,
			stuck_since = ?, next_action = ?,
			updated_at = ?, completed_at = ?
		WHERE id = ?
	`,
		p.Name, p.Description, p.Status, p.Priority, p.Progress,
		p.ProblemStatement, p.TargetUser, string(mvpScope), p.OutOfScope,
		p.Platform, p.EstimatedHours, p.PRDMarkdown,
		p.StuckSince, p.NextAction,
		p.UpdatedAt.Format(time.RFC3339), util.NullTime(p.CompletedAt),
		p.ID,
	)
	if err != nil {
		return fmt.Errorf("update project: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ports.ErrNotFound
	}
	return nil
}

// AddHours applies the reconciled session duration as a native atomic
// increment, so a read-modify-write race cannot lose hours even in a
// multi-writer deployment.
func (r *ProjectRepository) AddHours(ctx context.Context, id string, kind domain.Kind, hoursDelta float64) error {
	var column string
	switch kind {
	case domain.KindBuilding:
		column = "building_hours"
	case domain.KindDebugging:
		column = "debugging_hours"
	default:
		return fmt.Errorf("no hours column for kind %q", kind)
	}

	res, err := r.db.ExecContext(ctx, `
		UPDATE projects SET `+column+` = `+column+` + ?, updated_at = ? WHERE id = ?
	`, hoursDelta, time.Now().UTC().Format(time.RFC3339), id)
	if err != nil {
		return fmt.Errorf("add project hours: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ports.ErrNotFound
	}
	return nil
}

func (r *ProjectRepository) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM projects WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete project: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProject(row rowScanner) (*domain.Project, error) {
	var p domain.Project
	var mvpScope string
	var createdAt, updatedAt string
	var completedAt sql.NullString

	err := row.Scan(
		&p.ID, &p.UserID, &p.Name, &p.Description, &p.Status, &p.Priority,
		&p.BuildingHours, &p.DebuggingHours, &p.Progress,
		&p.ProblemStatement, &p.TargetUser, &mvpScope, &p.OutOfScope, &p.Platform,
		&p.EstimatedHours, &p.PRDMarkdown, &p.StuckSince, &p.NextAction,
		&createdAt, &updatedAt, &completedAt,
	)
	if err != nil {
		return nil, err
	}

	if mvpScope != "" {
		if err := json.Unmarshal([]byte(mvpScope), &p.MVPScope); err != nil {
			return nil, fmt.Errorf("unmarshal mvp scope: %w", err)
		}
	}
	p.CreatedAt = util.ParseTimeRFC3339(createdAt)
	p.UpdatedAt = util.ParseTimeRFC3339(updatedAt)
	p.CompletedAt = util.NullTimeToPtr(completedAt)
	return &p, nil
}
