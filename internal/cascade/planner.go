package cascade

// PlanBatches partitions refs into ordered groups of at most batchSize,
// filled greedily in input order. Every group is individually committable as
// one atomic batch. The planner performs no I/O and is deterministic for a
// given input and batchSize.
func PlanBatches(refs []DocRef, batchSize int) [][]DocRef {
	if batchSize <= 0 {
		batchSize = DefaultLimits.MaxBatchWrites
	}
	var groups [][]DocRef
	for start := 0; start < len(refs); start += batchSize {
		end := start + batchSize
		if end > len(refs) {
			end = len(refs)
		}
		groups = append(groups, refs[start:end])
	}
	return groups
}
