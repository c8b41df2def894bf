package cascade

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocateByOwnerFindsEveryRelation(t *testing.T) {
	store := newFakeStore()
	store.put("projects", "p1", map[string]any{"authorId": "u1"})
	store.put("comments", "c1", map[string]any{"authorId": "u1"})
	store.put("comments", "c2", map[string]any{"authorId": "other"})
	store.put("likes", "l1", map[string]any{"userId": "u1"})

	rels := []Relation{
		{Collection: "projects", Field: "authorId"},
		{Collection: "comments", Field: "authorId"},
		{Collection: "likes", Field: "userId"},
	}

	loc := NewLocator(store, Limits{MaxBatchWrites: 500, MaxInValues: 10})
	results, err := loc.LocateByOwner(context.Background(), rels, "u1")
	require.NoError(t, err)
	require.Len(t, results, 3)

	assert.ElementsMatch(t, []DocRef{{Collection: "projects", ID: "p1"}}, results[0])
	assert.ElementsMatch(t, []DocRef{{Collection: "comments", ID: "c1"}}, results[1])
	assert.ElementsMatch(t, []DocRef{{Collection: "likes", ID: "l1"}}, results[2])
}

func TestLocateByOwnerSurfacesQueryFailure(t *testing.T) {
	store := newFakeStore()
	store.failFind["comments.authorId"] = errors.New("unavailable")

	rels := []Relation{
		{Collection: "projects", Field: "authorId"},
		{Collection: "comments", Field: "authorId"},
	}

	loc := NewLocator(store, DefaultLimits)
	_, err := loc.LocateByOwner(context.Background(), rels, "u1")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrPartialLocate)
}

func TestLocateScopedChunkCorrectness(t *testing.T) {
	const m = 5
	const k = 23 // project ids, > M so chunking kicks in

	store := newFakeStore()
	ids := make([]string, 0, k)
	for i := 0; i < k; i++ {
		pid := fmt.Sprintf("p%02d", i)
		ids = append(ids, pid)
		store.put("comments", "c-"+pid, map[string]any{"projectId": pid})
		store.put("likes", "l-"+pid, map[string]any{"projectId": pid})
	}

	rels := []Relation{
		{Collection: "comments", Field: "projectId"},
		{Collection: "likes", Field: "projectId"},
	}

	loc := NewLocator(store, Limits{MaxBatchWrites: 500, MaxInValues: m})
	results, err := loc.LocateScoped(context.Background(), rels, ids)
	require.NoError(t, err)

	// Exactly ceil(K/M) membership queries per collection, none above the cap.
	wantQueries := (k + m - 1) / m
	assert.Equal(t, wantQueries, store.inCalls["comments.projectId"])
	assert.Equal(t, wantQueries, store.inCalls["likes.projectId"])
	assert.LessOrEqual(t, store.maxInValues, m)

	// Union of chunk results equals a hypothetical unbounded query.
	want := make([]DocRef, 0, k)
	for _, pid := range ids {
		want = append(want, DocRef{Collection: "comments", ID: "c-" + pid})
	}
	assert.ElementsMatch(t, want, results[0])
	assert.Len(t, results[1], k)
}

func TestLocateScopedChunkFailureAbortsLocate(t *testing.T) {
	store := newFakeStore()
	for i := 0; i < 12; i++ {
		pid := fmt.Sprintf("p%02d", i)
		store.put("comments", "c-"+pid, map[string]any{"projectId": pid})
	}
	store.failFind["comments.projectId"] = errors.New("unavailable")

	loc := NewLocator(store, Limits{MaxBatchWrites: 500, MaxInValues: 5})
	results, err := loc.LocateScoped(context.Background(),
		[]Relation{{Collection: "comments", Field: "projectId"}},
		[]string{"p00", "p01", "p02", "p03", "p04", "p05"})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrPartialLocate)
	assert.Nil(t, results)
}

func TestLocateScopedEmptyIDList(t *testing.T) {
	store := newFakeStore()
	loc := NewLocator(store, DefaultLimits)
	results, err := loc.LocateScoped(context.Background(), ProjectScoped, nil)
	require.NoError(t, err)
	assert.Len(t, results, len(ProjectScoped))
	assert.Zero(t, store.maxInValues)
}

func TestChunkStrings(t *testing.T) {
	ids := []string{"a", "b", "c", "d", "e"}

	chunks := chunkStrings(ids, 2)
	require.Len(t, chunks, 3)
	assert.Equal(t, []string{"a", "b"}, chunks[0])
	assert.Equal(t, []string{"e"}, chunks[2])

	assert.Len(t, chunkStrings(ids, 10), 1)
	assert.Nil(t, chunkStrings(nil, 2))
}
