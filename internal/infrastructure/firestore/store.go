package firestore

import (
	"context"
	"errors"
	"time"

	"cloud.google.com/go/firestore"
	"cloud.google.com/go/firestore/apiv1/firestorepb"
	"google.golang.org/api/iterator"

	"github.com/sideshelf/sideshelf/internal/cascade"
)

// Store adapts the Firestore client to the cascade engine's Store interface.
// Locate queries are keys-only (Select with no field paths), so a cascade
// never reads document bodies it is about to delete.
type Store struct {
	client *firestore.Client
}

func NewStore(client *firestore.Client) *Store {
	return &Store{client: client}
}

// Limits returns Firestore's hard caps for the engine.
func (s *Store) Limits() cascade.Limits {
	return cascade.DefaultLimits
}

func (s *Store) FindRefs(ctx context.Context, collection, field string, value any) ([]cascade.DocRef, error) {
	q := s.client.Collection(collection).Where(field, "==", value).Select()
	return collectRefs(ctx, collection, q)
}

func (s *Store) FindRefsIn(ctx context.Context, collection, field string, values []string) ([]cascade.DocRef, error) {
	vals := make([]any, 0, len(values))
	for _, v := range values {
		vals = append(vals, v)
	}
	q := s.client.Collection(collection).Where(field, "in", vals).Select()
	return collectRefs(ctx, collection, q)
}

func (s *Store) Count(ctx context.Context, collection string, filters map[string]any) (int64, error) {
	q := s.client.Collection(collection).Query
	for field, value := range filters {
		q = q.Where(field, "==", value)
	}
	res, err := q.NewAggregationQuery().WithCount("count").Get(ctx)
	if err != nil {
		return 0, err
	}
	v, ok := res["count"].(*firestorepb.Value)
	if !ok {
		return 0, errors.New("firestore: unexpected count aggregation result")
	}
	return v.GetIntegerValue(), nil
}

func (s *Store) Commit(ctx context.Context, ops []cascade.Op) error {
	batch := s.client.Batch()
	for _, op := range ops {
		ref := s.client.Collection(op.Ref.Collection).Doc(op.Ref.ID)
		switch op.Kind {
		case cascade.OpDelete:
			batch.Delete(ref)
		case cascade.OpUpdate:
			updates := make([]firestore.Update, 0, len(op.Fields))
			for path, value := range op.Fields {
				updates = append(updates, firestore.Update{Path: path, Value: value})
			}
			batch.Update(ref, updates)
		}
	}
	_, err := batch.Commit(ctx)
	return err
}

// FindRefsOlderThan returns references whose time field is before cutoff,
// up to limit. Used by the periodic activity-log cleanup job; not part of
// the cascade Store contract.
func (s *Store) FindRefsOlderThan(ctx context.Context, collection, field string, cutoff time.Time, limit int) ([]cascade.DocRef, error) {
	q := s.client.Collection(collection).Where(field, "<", cutoff).Limit(limit).Select()
	return collectRefs(ctx, collection, q)
}

func collectRefs(ctx context.Context, collection string, q firestore.Query) ([]cascade.DocRef, error) {
	iter := q.Documents(ctx)
	defer iter.Stop()

	var refs []cascade.DocRef
	for {
		doc, err := iter.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, err
		}
		refs = append(refs, cascade.DocRef{Collection: collection, ID: doc.Ref.ID})
	}
	return refs, nil
}

var _ cascade.Store = (*Store)(nil)
