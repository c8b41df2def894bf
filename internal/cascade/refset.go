package cascade

// BuildRefSet merges locator output into a single ordered set of unique
// references. A document can be reachable through more than one relationship
// (a comment on the user's own project is found both as "authored by user"
// and as "scoped to an owned project"), so deduplication is by document
// path, first occurrence wins.
//
// When includeRoot is set the root reference is appended last, so the root
// is never mutated before its dependents are enqueued. Anonymization passes
// includeRoot=false and mutates the root in place afterwards.
func BuildRefSet(root DocRef, includeRoot bool, located ...[][]DocRef) []DocRef {
	seen := make(map[string]struct{})
	var out []DocRef

	rootPath := root.Path()
	for _, group := range located {
		for _, refs := range group {
			for _, ref := range refs {
				p := ref.Path()
				if p == rootPath {
					continue
				}
				if _, ok := seen[p]; ok {
					continue
				}
				seen[p] = struct{}{}
				out = append(out, ref)
			}
		}
	}

	if includeRoot {
		out = append(out, root)
	}
	return out
}
