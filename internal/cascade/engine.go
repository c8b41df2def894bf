package cascade

import (
	"context"

	"github.com/sideshelf/sideshelf/internal/domain/entity"
)

// HardDeleteUser removes a user's entire footprint: documents owned by the
// user directly, documents scoped to any of the user's projects, and finally
// the user document itself. Returns ErrPartialLocate (wrapped) before any
// write if the dependent set could not be fully located.
func (e *Engine) HardDeleteUser(ctx context.Context, userID string) (Summary, error) {
	direct, err := e.locator.LocateByOwner(ctx, UserOwned, userID)
	if err != nil {
		return Summary{}, err
	}

	// UserOwned[0] is the projects relation; its ids seed the scoped pass.
	projectIDs := make([]string, 0, len(direct[0]))
	for _, ref := range direct[0] {
		projectIDs = append(projectIDs, ref.ID)
	}

	scoped, err := e.locator.LocateScoped(ctx, ProjectScoped, projectIDs)
	if err != nil {
		return Summary{}, err
	}

	root := DocRef{Collection: entity.ColUsers, ID: userID}
	refs := BuildRefSet(root, true, direct, scoped)
	groups := PlanBatches(refs, e.limits.MaxBatchWrites)
	return e.exec.Execute(ctx, groups, &root, DeleteMutation, nil), nil
}

// HardDeleteProject removes a project and everything scoped to it. A single
// project id needs no membership chunking, but the scoped pass reuses the
// same relation table either way.
func (e *Engine) HardDeleteProject(ctx context.Context, projectID string) (Summary, error) {
	scoped, err := e.locator.LocateByOwner(ctx, ProjectScoped, projectID)
	if err != nil {
		return Summary{}, err
	}

	root := DocRef{Collection: entity.ColProjects, ID: projectID}
	refs := BuildRefSet(root, true, scoped)
	groups := PlanBatches(refs, e.limits.MaxBatchWrites)
	return e.exec.Execute(ctx, groups, &root, DeleteMutation, nil), nil
}

// AnonymizeUserContent overwrites the denormalized identity fields on every
// document the user authored (projects, comments, whispers). Nothing is
// deleted, likes and reactions are untouched, and the root user document is
// left to the caller, which updates it in place with withdrawal flags.
func (e *Engine) AnonymizeUserContent(ctx context.Context, userID string) (Summary, error) {
	located, err := e.locator.LocateByOwner(ctx, WithdrawalTargets, userID)
	if err != nil {
		return Summary{}, err
	}

	root := DocRef{Collection: entity.ColUsers, ID: userID}
	refs := BuildRefSet(root, false, located)
	groups := PlanBatches(refs, e.limits.MaxBatchWrites)
	mut := Mutation{Kind: OpUpdate, Fields: AnonymizeFields}
	return e.exec.Execute(ctx, groups, nil, mut, nil), nil
}

// PurgeRefs deletes an already-located reference set through the planner and
// executor; used by the periodic activity-log cleanup job.
func (e *Engine) PurgeRefs(ctx context.Context, refs []DocRef) Summary {
	groups := PlanBatches(refs, e.limits.MaxBatchWrites)
	return e.exec.Execute(ctx, groups, nil, DeleteMutation, nil)
}
