package repository

import (
	"context"

	"github.com/sideshelf/sideshelf/internal/domain/entity"
)

// UserRepository defines user document access.
type UserRepository interface {
	Create(ctx context.Context, u *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	Update(ctx context.Context, u *entity.User) error
	// UpdateFields applies a field-level merge to the user document without
	// rewriting it; the withdrawal flow uses this for the root mutation.
	UpdateFields(ctx context.Context, id string, fields map[string]any) error
}
