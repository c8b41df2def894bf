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

type ProjectRepository struct {
	client *firestore.Client
}

func NewProjectRepository(client *firestore.Client) *ProjectRepository {
	return &ProjectRepository{client: client}
}

func (r *ProjectRepository) col() *firestore.CollectionRef {
	return r.client.Collection(entity.ColProjects)
}

func (r *ProjectRepository) Create(ctx context.Context, p *entity.Project) error {
	doc := r.col().NewDoc()
	now := time.Now().UTC()
	p.ID = doc.ID
	p.CreatedAt = now
	p.UpdatedAt = now
	_, err := doc.Create(ctx, p)
	return err
}

func (r *ProjectRepository) GetByID(ctx context.Context, id string) (*entity.Project, error) {
	snap, err := r.col().Doc(id).Get(ctx)
	if snap != nil && !snap.Exists() {
		return nil, errNotFound
	}
	if err != nil {
		return nil, err
	}
	return projectFrom(snap)
}

func (r *ProjectRepository) Update(ctx context.Context, p *entity.Project) error {
	p.UpdatedAt = time.Now().UTC()
	_, err := r.col().Doc(p.ID).Set(ctx, p)
	return err
}

func (r *ProjectRepository) List(ctx context.Context, limit int) ([]*entity.Project, error) {
	q := r.col().OrderBy("createdAt", firestore.Desc).Limit(limit)
	return collectProjects(ctx, q)
}

func (r *ProjectRepository) ListByAuthor(ctx context.Context, authorID string) ([]*entity.Project, error) {
	q := r.col().Where("authorId", "==", authorID).OrderBy("createdAt", firestore.Desc)
	return collectProjects(ctx, q)
}

func (r *ProjectRepository) AdjustLikeCount(ctx context.Context, id string, delta int64) error {
	_, err := r.col().Doc(id).Update(ctx, []firestore.Update{
		{Path: "likeCount", Value: firestore.Increment(delta)},
	})
	return err
}

func projectFrom(snap *firestore.DocumentSnapshot) (*entity.Project, error) {
	p := &entity.Project{}
	if err := snap.DataTo(p); err != nil {
		return nil, err
	}
	p.ID = snap.Ref.ID
	return p, nil
}

func collectProjects(ctx context.Context, q firestore.Query) ([]*entity.Project, error) {
	iter := q.Documents(ctx)
	defer iter.Stop()

	var out []*entity.Project
	for {
		snap, err := iter.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, err
		}
		p, err := projectFrom(snap)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}

var _ repository.ProjectRepository = (*ProjectRepository)(nil)
