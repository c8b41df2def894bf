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

type EngagementRepository struct {
	client *firestore.Client
}

func NewEngagementRepository(client *firestore.Client) *EngagementRepository {
	return &EngagementRepository{client: client}
}

func (r *EngagementRepository) CreateComment(ctx context.Context, c *entity.Comment) error {
	doc := r.client.Collection(entity.ColComments).NewDoc()
	c.ID = doc.ID
	c.CreatedAt = time.Now().UTC()
	_, err := doc.Create(ctx, c)
	return err
}

func (r *EngagementRepository) ListComments(ctx context.Context, projectID string, limit int) ([]*entity.Comment, error) {
	q := r.client.Collection(entity.ColComments).
		Where("projectId", "==", projectID).
		OrderBy("createdAt", firestore.Asc).
		Limit(limit)
	iter := q.Documents(ctx)
	defer iter.Stop()

	var out []*entity.Comment
	for {
		snap, err := iter.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, err
		}
		c := &entity.Comment{}
		if err := snap.DataTo(c); err != nil {
			return nil, err
		}
		c.ID = snap.Ref.ID
		out = append(out, c)
	}
	return out, nil
}

func (r *EngagementRepository) CreateLike(ctx context.Context, l *entity.Like) error {
	l.ID = entity.LikeID(l.UserID, l.ProjectID)
	l.CreatedAt = time.Now().UTC()
	_, err := r.client.Collection(entity.ColLikes).Doc(l.ID).Set(ctx, l)
	return err
}

func (r *EngagementRepository) DeleteLike(ctx context.Context, userID, projectID string) error {
	_, err := r.client.Collection(entity.ColLikes).Doc(entity.LikeID(userID, projectID)).Delete(ctx)
	return err
}

func (r *EngagementRepository) HasLiked(ctx context.Context, userID, projectID string) (bool, error) {
	snap, err := r.client.Collection(entity.ColLikes).Doc(entity.LikeID(userID, projectID)).Get(ctx)
	if snap != nil && !snap.Exists() {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (r *EngagementRepository) CreateWhisper(ctx context.Context, w *entity.Whisper) error {
	doc := r.client.Collection(entity.ColWhispers).NewDoc()
	w.ID = doc.ID
	w.CreatedAt = time.Now().UTC()
	_, err := doc.Create(ctx, w)
	return err
}

func (r *EngagementRepository) ListWhispers(ctx context.Context, projectID string, limit int) ([]*entity.Whisper, error) {
	q := r.client.Collection(entity.ColWhispers).
		Where("projectId", "==", projectID).
		OrderBy("createdAt", firestore.Desc).
		Limit(limit)
	iter := q.Documents(ctx)
	defer iter.Stop()

	var out []*entity.Whisper
	for {
		snap, err := iter.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, err
		}
		w := &entity.Whisper{}
		if err := snap.DataTo(w); err != nil {
			return nil, err
		}
		w.ID = snap.Ref.ID
		out = append(out, w)
	}
	return out, nil
}

func (r *EngagementRepository) CreateReaction(ctx context.Context, re *entity.Reaction) error {
	doc := r.client.Collection(entity.ColReactions).NewDoc()
	re.ID = doc.ID
	re.CreatedAt = time.Now().UTC()
	_, err := doc.Create(ctx, re)
	return err
}

func (r *EngagementRepository) ListReactions(ctx context.Context, projectID string, limit int) ([]*entity.Reaction, error) {
	q := r.client.Collection(entity.ColReactions).
		Where("projectId", "==", projectID).
		Limit(limit)
	iter := q.Documents(ctx)
	defer iter.Stop()

	var out []*entity.Reaction
	for {
		snap, err := iter.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, err
		}
		re := &entity.Reaction{}
		if err := snap.DataTo(re); err != nil {
			return nil, err
		}
		re.ID = snap.Ref.ID
		out = append(out, re)
	}
	return out, nil
}

var _ repository.EngagementRepository = (*EngagementRepository)(nil)
