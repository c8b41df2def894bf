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

type DigestRepository struct {
	client *firestore.Client
}

func NewDigestRepository(client *firestore.Client) *DigestRepository {
	return &DigestRepository{client: client}
}

func (r *DigestRepository) col() *firestore.CollectionRef {
	return r.client.Collection(entity.ColDigests)
}

func (r *DigestRepository) subs() *firestore.CollectionRef {
	return r.client.Collection(entity.ColDigestSubscriptions)
}

// subID keeps one subscription document per (user, digest) pair, mirroring
// the deterministic like ids.
func subID(userID, digestID string) string {
	return userID + "_" + digestID
}

func (r *DigestRepository) Create(ctx context.Context, d *entity.Digest) error {
	doc := r.col().NewDoc()
	now := time.Now().UTC()
	d.ID = doc.ID
	d.IsActive = true
	d.CreatedAt = now
	d.UpdatedAt = now
	_, err := doc.Create(ctx, d)
	return err
}

func (r *DigestRepository) GetByID(ctx context.Context, id string) (*entity.Digest, error) {
	snap, err := r.col().Doc(id).Get(ctx)
	if snap != nil && !snap.Exists() {
		return nil, errNotFound
	}
	if err != nil {
		return nil, err
	}
	d := &entity.Digest{}
	if err := snap.DataTo(d); err != nil {
		return nil, err
	}
	d.ID = snap.Ref.ID
	return d, nil
}

func (r *DigestRepository) List(ctx context.Context, limit int) ([]*entity.Digest, error) {
	iter := r.col().Where("isActive", "==", true).Limit(limit).Documents(ctx)
	defer iter.Stop()

	var out []*entity.Digest
	for {
		snap, err := iter.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, err
		}
		d := &entity.Digest{}
		if err := snap.DataTo(d); err != nil {
			return nil, err
		}
		d.ID = snap.Ref.ID
		out = append(out, d)
	}
	return out, nil
}

func (r *DigestRepository) Subscribe(ctx context.Context, userID, digestID string) error {
	now := time.Now().UTC()
	sub := &entity.DigestSubscription{
		UserID:    userID,
		DigestID:  digestID,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	sub.ID = subID(userID, digestID)
	_, err := r.subs().Doc(sub.ID).Set(ctx, sub)
	return err
}

func (r *DigestRepository) Unsubscribe(ctx context.Context, userID, digestID string) error {
	_, err := r.subs().Doc(subID(userID, digestID)).Update(ctx, []firestore.Update{
		{Path: "isActive", Value: false},
		{Path: "updatedAt", Value: time.Now().UTC()},
	})
	return err
}

func (r *DigestRepository) ListActiveSubscriptions(ctx context.Context, digestID string) ([]*entity.DigestSubscription, error) {
	iter := r.subs().
		Where("digestId", "==", digestID).
		Where("isActive", "==", true).
		Documents(ctx)
	defer iter.Stop()

	var out []*entity.DigestSubscription
	for {
		snap, err := iter.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, err
		}
		sub := &entity.DigestSubscription{}
		if err := snap.DataTo(sub); err != nil {
			return nil, err
		}
		sub.ID = snap.Ref.ID
		out = append(out, sub)
	}
	return out, nil
}

var _ repository.DigestRepository = (*DigestRepository)(nil)
