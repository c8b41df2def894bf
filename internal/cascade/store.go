package cascade

import (
	"context"
)

// DocRef identifies one document in the store.
type DocRef struct {
	Collection string
	ID         string
}

// Path returns the stable identity used for deduplication.
func (r DocRef) Path() string {
	return r.Collection + "/" + r.ID
}

// OpKind selects the mutation applied to a reference.
type OpKind int

const (
	OpDelete OpKind = iota
	OpUpdate
)

// Op is a single mutation inside an atomic batch. Fields is the merge
// template for OpUpdate and nil for OpDelete.
type Op struct {
	Ref    DocRef
	Kind   OpKind
	Fields map[string]any
}

// Store is the slice of the document store the engine depends on. The real
// implementation lives in internal/infrastructure/firestore; tests use an
// in-memory fake.
type Store interface {
	// FindRefs returns references in collection whose field equals value.
	FindRefs(ctx context.Context, collection, field string, value any) ([]DocRef, error)

	// FindRefsIn returns references in collection whose field equals any of
	// values. Callers must keep len(values) within the store's membership
	// cap; the implementation does not re-chunk.
	FindRefsIn(ctx context.Context, collection, field string, values []string) ([]DocRef, error)

	// Count returns the number of documents in collection matching every
	// equality filter.
	Count(ctx context.Context, collection string, filters map[string]any) (int64, error)

	// Commit applies ops as one atomic all-or-nothing batch. Callers must
	// keep len(ops) within the store's batch cap.
	Commit(ctx context.Context, ops []Op) error
}
