package ports

import (
	"context"

	"github.com/emiliopalmerini/buildlog/internal/domain"
)

type ProjectRepository interface {
	Create(ctx context.Context, project *domain.Project) error
	GetByID(ctx context.Context, id string) (*domain.Project, error)
	List(ctx context.Context, userID string) ([]*domain.Project, error)
	Update(ctx context.Context, project *domain.Project) error
	// AddHours atomically increments the building or debugging total.
	// kind must be building or debugging; learning time never lands here.
	AddHours(ctx context.Context, id string, kind domain.Kind, hoursDelta float64) error
	Delete(ctx context.Context, id string) error
}
