package ports

import (
	"context"

	"github.com/emiliopalmerini/buildlog/internal/domain"
)

type DebugLogRepository interface {
	Create(ctx context.Context, log *domain.DebugLog) error
	GetByID(ctx context.Context, id string) (*domain.DebugLog, error)
	ListByUser(ctx context.Context, userID string) ([]*domain.DebugLog, error)
	ListByProject(ctx context.Context, projectID string) ([]*domain.DebugLog, error)
	Update(ctx context.Context, log *domain.DebugLog) error
	Delete(ctx context.Context, id string) error
}
