package cascade

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildRefSetDeduplicatesByPath(t *testing.T) {
	root := DocRef{Collection: "users", ID: "u1"}
	comment := DocRef{Collection: "comments", ID: "c1"}
	like := DocRef{Collection: "likes", ID: "l1"}

	// c1 is reachable both as "authored by u1" and as "scoped to u1's
	// project"; it must appear once, at its first position.
	authored := [][]DocRef{{comment}, {like}}
	scoped := [][]DocRef{{comment}}

	refs := BuildRefSet(root, true, authored, scoped)
	require.Len(t, refs, 3)
	assert.Equal(t, []DocRef{comment, like, root}, refs)
}

func TestBuildRefSetRootAlwaysLast(t *testing.T) {
	root := DocRef{Collection: "projects", ID: "p1"}
	located := [][]DocRef{
		{{Collection: "comments", ID: "c1"}, {Collection: "comments", ID: "c2"}},
		{{Collection: "reactions", ID: "r1"}},
	}

	refs := BuildRefSet(root, true, located)
	require.NotEmpty(t, refs)
	assert.Equal(t, root, refs[len(refs)-1])
}

func TestBuildRefSetExcludesRootForAnonymization(t *testing.T) {
	root := DocRef{Collection: "users", ID: "u1"}
	located := [][]DocRef{{{Collection: "projects", ID: "p1"}}}

	refs := BuildRefSet(root, false, located)
	require.Len(t, refs, 1)
	for _, r := range refs {
		assert.NotEqual(t, root.Path(), r.Path())
	}
}

func TestBuildRefSetFiltersRootFromLocatedInput(t *testing.T) {
	root := DocRef{Collection: "users", ID: "u1"}
	located := [][]DocRef{{root, {Collection: "comments", ID: "c1"}}}

	refs := BuildRefSet(root, true, located)
	require.Len(t, refs, 2)
	assert.Equal(t, root, refs[1])
}

func TestBuildRefSetEmptyInput(t *testing.T) {
	root := DocRef{Collection: "users", ID: "u1"}

	assert.Equal(t, []DocRef{root}, BuildRefSet(root, true))
	assert.Empty(t, BuildRefSet(root, false))
}
