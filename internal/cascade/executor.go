package cascade

import (
	"context"
	"sort"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// maxConcurrentCommits bounds how many batch commits are in flight at once
// so a large cascade does not overwhelm the store.
const maxConcurrentCommits = 4

// Mutation describes what the executor does to each reference: delete, or a
// field-level merge whose template is looked up by collection.
type Mutation struct {
	Kind OpKind
	// Fields maps collection name to the update template for OpUpdate.
	Fields map[string]map[string]any
}

// DeleteMutation removes every reference.
var DeleteMutation = Mutation{Kind: OpDelete}

// GroupResult records the outcome of one committed group.
type GroupResult struct {
	Index int
	Size  int
	Err   error
}

// Summary aggregates per-group outcomes. Failed groups are independent
// atomic units; nothing is rolled back, and re-running the whole
// locate-plan-execute pipeline is the recovery path.
type Summary struct {
	Total        int
	Succeeded    int
	Failed       int
	Documents    int
	FailedGroups []int
}

// Executor commits planned groups against the store. Non-root groups run
// concurrently; the group holding the root reference is stripped of it, and
// the root commits alone only after every other group has been awaited, so
// a dependent is never observed outliving its root because of commit
// scheduling. A concurrent reader can still see intermediate states; that
// is the documented consistency model, not a bug to fix here.
type Executor struct {
	store  Store
	logger *logrus.Logger
}

func NewExecutor(store Store, logger *logrus.Logger) *Executor {
	return &Executor{store: store, logger: logger}
}

// Execute commits groups with mut applied to each reference. When root is
// non-nil its reference is committed in a final, sequentially-awaited group
// regardless of which planned group it landed in; rootMut overrides mut for
// the root reference (pass nil to reuse mut).
func (e *Executor) Execute(ctx context.Context, groups [][]DocRef, root *DocRef, mut Mutation, rootMut *Mutation) Summary {
	var rootRefs []DocRef
	plain := make([][]DocRef, 0, len(groups))
	for _, group := range groups {
		if root == nil {
			plain = append(plain, group)
			continue
		}
		kept := make([]DocRef, 0, len(group))
		for _, ref := range group {
			if ref.Path() == root.Path() {
				rootRefs = append(rootRefs, ref)
				continue
			}
			kept = append(kept, ref)
		}
		if len(kept) > 0 {
			plain = append(plain, kept)
		}
	}

	total := len(plain)
	if len(rootRefs) > 0 {
		total++
	}
	results := make([]GroupResult, 0, total)
	resultCh := make(chan GroupResult, total)

	g := &errgroup.Group{}
	g.SetLimit(maxConcurrentCommits)
	for i, group := range plain {
		g.Go(func() error {
			err := e.store.Commit(ctx, e.opsFor(group, mut))
			resultCh <- GroupResult{Index: i, Size: len(group), Err: err}
			return nil
		})
	}
	_ = g.Wait()
	close(resultCh)
	for res := range resultCh {
		results = append(results, res)
	}

	// Root commits last, alone, and only after all dependent groups are done.
	if len(rootRefs) > 0 {
		rm := mut
		if rootMut != nil {
			rm = *rootMut
		}
		err := e.store.Commit(ctx, e.opsFor(rootRefs, rm))
		results = append(results, GroupResult{Index: len(plain), Size: len(rootRefs), Err: err})
	}

	return summarize(results, e.logger)
}

func (e *Executor) opsFor(refs []DocRef, mut Mutation) []Op {
	ops := make([]Op, 0, len(refs))
	for _, ref := range refs {
		op := Op{Ref: ref, Kind: mut.Kind}
		if mut.Kind == OpUpdate {
			op.Fields = mut.Fields[ref.Collection]
		}
		ops = append(ops, op)
	}
	return ops
}

func summarize(results []GroupResult, logger *logrus.Logger) Summary {
	s := Summary{Total: len(results)}
	for _, res := range results {
		s.Documents += res.Size
		if res.Err != nil {
			s.Failed++
			s.FailedGroups = append(s.FailedGroups, res.Index)
			if logger != nil {
				logger.WithError(res.Err).WithFields(logrus.Fields{
					"group": res.Index,
					"size":  res.Size,
				}).Error("cascade batch commit failed")
			}
			continue
		}
		s.Succeeded++
	}
	sort.Ints(s.FailedGroups)
	return s
}
