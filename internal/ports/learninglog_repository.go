package ports

import (
	"context"

	"github.com/emiliopalmerini/buildlog/internal/domain"
)

type LearningLogRepository interface {
	Create(ctx context.Context, log *domain.LearningLog) error
	GetByID(ctx context.Context, id string) (*domain.LearningLog, error)
	ListByUser(ctx context.Context, userID string, limit int) ([]*domain.LearningLog, error)
	Delete(ctx context.Context, id string) error
}
