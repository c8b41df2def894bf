package repository

import (
	"context"

	"github.com/sideshelf/sideshelf/internal/domain/entity"
)

// ProjectRepository defines project document access.
type ProjectRepository interface {
	Create(ctx context.Context, p *entity.Project) error
	GetByID(ctx context.Context, id string) (*entity.Project, error)
	Update(ctx context.Context, p *entity.Project) error
	List(ctx context.Context, limit int) ([]*entity.Project, error)
	ListByAuthor(ctx context.Context, authorID string) ([]*entity.Project, error)
	// AdjustLikeCount atomically increments the denormalized like counter.
	AdjustLikeCount(ctx context.Context, id string, delta int64) error
}
