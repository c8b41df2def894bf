package repository

import (
	"context"

	"github.com/sideshelf/sideshelf/internal/domain/entity"
)

// DigestRepository defines digest and subscription access. Hard deletion of
// a digest goes through the cascade retention guard, not this interface.
type DigestRepository interface {
	Create(ctx context.Context, d *entity.Digest) error
	GetByID(ctx context.Context, id string) (*entity.Digest, error)
	List(ctx context.Context, limit int) ([]*entity.Digest, error)

	Subscribe(ctx context.Context, userID, digestID string) error
	Unsubscribe(ctx context.Context, userID, digestID string) error
	ListActiveSubscriptions(ctx context.Context, digestID string) ([]*entity.DigestSubscription, error)
}
