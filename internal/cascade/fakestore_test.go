package cascade

import (
	"context"
	"errors"
	"sync"
)

// fakeStore is an in-memory Store that applies mutations to real document
// state, records every commit in order, and can be told to fail specific
// queries or commits.
type fakeStore struct {
	mu      sync.Mutex
	docs    map[string]map[string]map[string]any // collection -> id -> fields
	commits [][]Op

	findCalls   map[string]int // collection.field -> equality query count
	inCalls     map[string]int // collection.field -> membership query count
	maxInValues int            // largest membership set seen

	failFind   map[string]error // collection.field -> error for any find
	failPath   string           // commit containing this path fails
	commitErrs int
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		docs:      make(map[string]map[string]map[string]any),
		findCalls: make(map[string]int),
		inCalls:   make(map[string]int),
		failFind:  make(map[string]error),
	}
}

func (f *fakeStore) put(collection, id string, fields map[string]any) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.docs[collection] == nil {
		f.docs[collection] = make(map[string]map[string]any)
	}
	f.docs[collection][id] = fields
}

func (f *fakeStore) get(collection, id string) (map[string]any, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	doc, ok := f.docs[collection][id]
	return doc, ok
}

func (f *fakeStore) exists(collection, id string) bool {
	_, ok := f.get(collection, id)
	return ok
}

func (f *fakeStore) FindRefs(ctx context.Context, collection, field string, value any) ([]DocRef, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := collection + "." + field
	f.findCalls[key]++
	if err := f.failFind[key]; err != nil {
		return nil, err
	}
	return f.match(collection, field, []any{value}), nil
}

func (f *fakeStore) FindRefsIn(ctx context.Context, collection, field string, values []string) ([]DocRef, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := collection + "." + field
	f.inCalls[key]++
	if len(values) > f.maxInValues {
		f.maxInValues = len(values)
	}
	if err := f.failFind[key]; err != nil {
		return nil, err
	}
	vals := make([]any, 0, len(values))
	for _, v := range values {
		vals = append(vals, v)
	}
	return f.match(collection, field, vals), nil
}

func (f *fakeStore) match(collection, field string, values []any) []DocRef {
	var refs []DocRef
	for id, doc := range f.docs[collection] {
		for _, v := range values {
			if doc[field] == v {
				refs = append(refs, DocRef{Collection: collection, ID: id})
				break
			}
		}
	}
	return refs
}

func (f *fakeStore) Count(ctx context.Context, collection string, filters map[string]any) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for _, doc := range f.docs[collection] {
		matched := true
		for field, want := range filters {
			if doc[field] != want {
				matched = false
				break
			}
		}
		if matched {
			n++
		}
	}
	return n, nil
}

func (f *fakeStore) Commit(ctx context.Context, ops []Op) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failPath != "" {
		for _, op := range ops {
			if op.Ref.Path() == f.failPath {
				f.commitErrs++
				return errors.New("store unavailable")
			}
		}
	}
	for _, op := range ops {
		switch op.Kind {
		case OpDelete:
			delete(f.docs[op.Ref.Collection], op.Ref.ID) // deleting a missing doc is a no-op
		case OpUpdate:
			doc, ok := f.docs[op.Ref.Collection][op.Ref.ID]
			if !ok {
				continue
			}
			for k, v := range op.Fields {
				doc[k] = v
			}
		}
	}
	f.commits = append(f.commits, ops)
	return nil
}

// commitOrder returns the committed batches as path slices, in commit order.
func (f *fakeStore) commitOrder() [][]string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([][]string, 0, len(f.commits))
	for _, ops := range f.commits {
		paths := make([]string, 0, len(ops))
		for _, op := range ops {
			paths = append(paths, op.Ref.Path())
		}
		out = append(out, paths)
	}
	return out
}

func (f *fakeStore) totalMutations() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, ops := range f.commits {
		n += len(ops)
	}
	return n
}
