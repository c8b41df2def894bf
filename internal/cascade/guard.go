package cascade

import (
	"context"
)

// RetentionOutcome reports what the guard decided to do.
type RetentionOutcome string

const (
	OutcomeDeleted     RetentionOutcome = "deleted"
	OutcomeDeactivated RetentionOutcome = "deactivated"
)

// RetentionGuard is the policy gate for shareable resources: a resource with
// live dependents must never be hard-deleted, only deactivated. It inverts
// the usual cascade direction (here dependents block deletion of the thing
// they depend on), which is why it sits in front of the pipeline instead of
// inside it.
type RetentionGuard struct {
	store Store
}

func NewRetentionGuard(store Store) *RetentionGuard {
	return &RetentionGuard{store: store}
}

// DeleteOrDeactivate counts active dependents referencing target through
// fkField. With at least one active dependent the target is deactivated with
// a single field update; with none it is deleted outright.
func (g *RetentionGuard) DeleteOrDeactivate(ctx context.Context, target DocRef, dependentCol, fkField, activeField string) (RetentionOutcome, error) {
	n, err := g.store.Count(ctx, dependentCol, map[string]any{
		fkField:     target.ID,
		activeField: true,
	})
	if err != nil {
		return "", err
	}

	if n > 0 {
		err := g.store.Commit(ctx, []Op{{
			Ref:    target,
			Kind:   OpUpdate,
			Fields: map[string]any{activeField: false},
		}})
		if err != nil {
			return "", err
		}
		return OutcomeDeactivated, nil
	}

	if err := g.store.Commit(ctx, []Op{{Ref: target, Kind: OpDelete}}); err != nil {
		return "", err
	}
	return OutcomeDeleted, nil
}
