package cascade

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"
)

// Locator issues the read-only dependency queries for a cascade. Queries
// across relations (and across membership chunks) are independent, so they
// run concurrently; any single failure aborts the whole locate phase with
// ErrPartialLocate, since planning deletions from an incomplete dependent
// set would silently under-delete.
type Locator struct {
	store  Store
	limits Limits
}

func NewLocator(store Store, limits Limits) *Locator {
	return &Locator{store: store, limits: limits}
}

// LocateByOwner runs one equality query per relation for rootID and returns
// the per-relation results in relation order.
func (l *Locator) LocateByOwner(ctx context.Context, rels []Relation, rootID string) ([][]DocRef, error) {
	results := make([][]DocRef, len(rels))
	g, gctx := errgroup.WithContext(ctx)
	for i, rel := range rels {
		g.Go(func() error {
			refs, err := l.store.FindRefs(gctx, rel.Collection, rel.Field, rootID)
			if err != nil {
				return fmt.Errorf("%w: %s.%s == %s: %v", ErrPartialLocate, rel.Collection, rel.Field, rootID, err)
			}
			results[i] = refs
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// LocateScoped runs membership queries for ids against every relation,
// chunking ids to the store's membership cap. Exactly ceil(len(ids)/M)
// queries are issued per relation, all concurrently, and chunk results are
// flattened back into per-relation slices in chunk order.
func (l *Locator) LocateScoped(ctx context.Context, rels []Relation, ids []string) ([][]DocRef, error) {
	if len(ids) == 0 {
		return make([][]DocRef, len(rels)), nil
	}
	chunks := chunkStrings(ids, l.limits.MaxInValues)

	perChunk := make([][][]DocRef, len(rels))
	for i := range perChunk {
		perChunk[i] = make([][]DocRef, len(chunks))
	}

	g, gctx := errgroup.WithContext(ctx)
	for i, rel := range rels {
		for j, chunk := range chunks {
			g.Go(func() error {
				refs, err := l.store.FindRefsIn(gctx, rel.Collection, rel.Field, chunk)
				if err != nil {
					return fmt.Errorf("%w: %s.%s in chunk %d/%d: %v", ErrPartialLocate, rel.Collection, rel.Field, j+1, len(chunks), err)
				}
				perChunk[i][j] = refs
				return nil
			})
		}
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	results := make([][]DocRef, len(rels))
	for i := range rels {
		for _, refs := range perChunk[i] {
			results[i] = append(results[i], refs...)
		}
	}
	return results, nil
}

func chunkStrings(ids []string, size int) [][]string {
	if size <= 0 {
		return [][]string{ids}
	}
	var chunks [][]string
	for start := 0; start < len(ids); start += size {
		end := start + size
		if end > len(ids) {
			end = len(ids)
		}
		chunks = append(chunks, ids[start:end])
	}
	return chunks
}
