package cascade

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExecuteRootCommitsLast(t *testing.T) {
	store := newFakeStore()
	root := DocRef{Collection: "users", ID: "u1"}

	// Root lands in the middle group under greedy packing; the executor must
	// still commit it last, alone.
	refs := makeRefs(7)
	refs = append(refs[:4], append([]DocRef{root}, refs[4:]...)...)
	for _, r := range refs {
		store.put(r.Collection, r.ID, map[string]any{})
	}

	groups := PlanBatches(refs, 3)
	require.Len(t, groups, 3)

	exec := NewExecutor(store, nil)
	sum := exec.Execute(context.Background(), groups, &root, DeleteMutation, nil)

	assert.Equal(t, 4, sum.Total) // 3 dependent groups (one shrunk) + root group
	assert.Equal(t, 4, sum.Succeeded)
	assert.Zero(t, sum.Failed)
	assert.Equal(t, 8, sum.Documents)

	order := store.commitOrder()
	require.NotEmpty(t, order)
	last := order[len(order)-1]
	require.Len(t, last, 1)
	assert.Equal(t, root.Path(), last[0])
	for _, batch := range order[:len(order)-1] {
		assert.NotContains(t, batch, root.Path())
	}
}

func TestExecutePartialCommitFailure(t *testing.T) {
	store := newFakeStore()
	refs := makeRefs(9)
	for _, r := range refs {
		store.put(r.Collection, r.ID, map[string]any{})
	}
	// Any batch containing c004 fails; the other groups still commit.
	store.failPath = "comments/c004"

	groups := PlanBatches(refs, 3)
	exec := NewExecutor(store, nil)
	sum := exec.Execute(context.Background(), groups, nil, DeleteMutation, nil)

	assert.Equal(t, 3, sum.Total)
	assert.Equal(t, 2, sum.Succeeded)
	assert.Equal(t, 1, sum.Failed)
	assert.Equal(t, []int{1}, sum.FailedGroups)

	// The failed group's documents survive untouched; the others are gone.
	assert.True(t, store.exists("comments", "c004"))
	assert.True(t, store.exists("comments", "c003"))
	assert.False(t, store.exists("comments", "c000"))
	assert.False(t, store.exists("comments", "c008"))
}

func TestExecuteUpdateTemplatesPerCollection(t *testing.T) {
	store := newFakeStore()
	store.put("projects", "p1", map[string]any{"authorName": "kim", "authorAvatarUrl": "a.png"})
	store.put("whispers", "w1", map[string]any{"senderName": "kim"})

	refs := []DocRef{
		{Collection: "projects", ID: "p1"},
		{Collection: "whispers", ID: "w1"},
	}
	mut := Mutation{Kind: OpUpdate, Fields: map[string]map[string]any{
		"projects": {"authorName": "Withdrawn user", "authorAvatarUrl": ""},
		"whispers": {"senderName": "Withdrawn user"},
	}}

	exec := NewExecutor(store, nil)
	sum := exec.Execute(context.Background(), PlanBatches(refs, 10), nil, mut, nil)
	require.Zero(t, sum.Failed)

	p, _ := store.get("projects", "p1")
	assert.Equal(t, "Withdrawn user", p["authorName"])
	assert.Equal(t, "", p["authorAvatarUrl"])
	w, _ := store.get("whispers", "w1")
	assert.Equal(t, "Withdrawn user", w["senderName"])
}

func TestExecuteRootOnlyGroup(t *testing.T) {
	store := newFakeStore()
	root := DocRef{Collection: "users", ID: "u1"}
	store.put("users", "u1", map[string]any{})

	groups := PlanBatches([]DocRef{root}, 500)
	exec := NewExecutor(store, nil)
	sum := exec.Execute(context.Background(), groups, &root, DeleteMutation, nil)

	assert.Equal(t, 1, sum.Total)
	assert.Equal(t, 1, sum.Succeeded)
	assert.False(t, store.exists("users", "u1"))
}

func TestExecuteManyGroupsAllCommitted(t *testing.T) {
	// More groups than the concurrency limit; every group must still commit
	// exactly once.
	store := newFakeStore()
	refs := make([]DocRef, 0, 40)
	for i := 0; i < 40; i++ {
		r := DocRef{Collection: "likes", ID: fmt.Sprintf("l%02d", i)}
		refs = append(refs, r)
		store.put(r.Collection, r.ID, map[string]any{})
	}

	groups := PlanBatches(refs, 2)
	exec := NewExecutor(store, nil)
	sum := exec.Execute(context.Background(), groups, nil, DeleteMutation, nil)

	assert.Equal(t, 20, sum.Total)
	assert.Equal(t, 20, sum.Succeeded)
	assert.Equal(t, 40, store.totalMutations())
	assert.Empty(t, store.docs["likes"])
}
