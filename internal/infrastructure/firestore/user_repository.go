package firestore

import (
	"context"
	"errors"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"

	"github.com/sideshelf/sideshelf/internal/domain/entity"
	"github.com/sideshelf/sideshelf/internal/domain/repository"
)

var errNotFound = errors.New("not found")

type UserRepository struct {
	client *firestore.Client
}

func NewUserRepository(client *firestore.Client) *UserRepository {
	return &UserRepository{client: client}
}

func (r *UserRepository) col() *firestore.CollectionRef {
	return r.client.Collection(entity.ColUsers)
}

func (r *UserRepository) Create(ctx context.Context, u *entity.User) error {
	doc := r.col().NewDoc()
	now := time.Now().UTC()
	u.ID = doc.ID
	u.CreatedAt = now
	u.UpdatedAt = now
	if u.Role == "" {
		u.Role = entity.RoleUser
	}
	_, err := doc.Create(ctx, u)
	return err
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*entity.User, error) {
	snap, err := r.col().Doc(id).Get(ctx)
	if snap != nil && !snap.Exists() {
		return nil, errNotFound
	}
	if err != nil {
		return nil, err
	}
	u := &entity.User{}
	if err := snap.DataTo(u); err != nil {
		return nil, err
	}
	u.ID = snap.Ref.ID
	return u, nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	iter := r.col().Where("email", "==", email).Limit(1).Documents(ctx)
	defer iter.Stop()

	snap, err := iter.Next()
	if errors.Is(err, iterator.Done) {
		return nil, errNotFound
	}
	if err != nil {
		return nil, err
	}
	u := &entity.User{}
	if err := snap.DataTo(u); err != nil {
		return nil, err
	}
	u.ID = snap.Ref.ID
	return u, nil
}

func (r *UserRepository) Update(ctx context.Context, u *entity.User) error {
	u.UpdatedAt = time.Now().UTC()
	_, err := r.col().Doc(u.ID).Set(ctx, u)
	return err
}

func (r *UserRepository) UpdateFields(ctx context.Context, id string, fields map[string]any) error {
	updates := make([]firestore.Update, 0, len(fields)+1)
	for path, value := range fields {
		updates = append(updates, firestore.Update{Path: path, Value: value})
	}
	updates = append(updates, firestore.Update{Path: "updatedAt", Value: time.Now().UTC()})
	_, err := r.col().Doc(id).Update(ctx, updates)
	return err
}

var _ repository.UserRepository = (*UserRepository)(nil)
