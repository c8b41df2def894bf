package cascade

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func makeRefs(n int) []DocRef {
	refs := make([]DocRef, 0, n)
	for i := 0; i < n; i++ {
		refs = append(refs, DocRef{Collection: "comments", ID: fmt.Sprintf("c%03d", i)})
	}
	return refs
}

func TestPlanBatchesPartitioning(t *testing.T) {
	cases := []struct {
		refs      int
		batchSize int
		groups    int
	}{
		{refs: 0, batchSize: 5, groups: 0},
		{refs: 1, batchSize: 5, groups: 1},
		{refs: 5, batchSize: 5, groups: 1},
		{refs: 6, batchSize: 5, groups: 2},
		{refs: 23, batchSize: 5, groups: 5},
		{refs: 500, batchSize: 500, groups: 1},
		{refs: 501, batchSize: 500, groups: 2},
	}

	for _, tc := range cases {
		t.Run(fmt.Sprintf("%d_refs_batch_%d", tc.refs, tc.batchSize), func(t *testing.T) {
			refs := makeRefs(tc.refs)
			groups := PlanBatches(refs, tc.batchSize)
			require.Len(t, groups, tc.groups)

			flat := make([]DocRef, 0, tc.refs)
			for _, g := range groups {
				assert.LessOrEqual(t, len(g), tc.batchSize)
				flat = append(flat, g...)
			}
			// Concatenation equals the input exactly once each, in order.
			assert.Equal(t, refs, flat)
		})
	}
}

func TestPlanBatchesDeterministic(t *testing.T) {
	refs := makeRefs(17)
	a := PlanBatches(refs, 4)
	b := PlanBatches(refs, 4)
	assert.Equal(t, a, b)
}

func TestPlanBatchesZeroSizeFallsBackToDefault(t *testing.T) {
	refs := makeRefs(3)
	groups := PlanBatches(refs, 0)
	require.Len(t, groups, 1)
	assert.Len(t, groups[0], 3)
}
