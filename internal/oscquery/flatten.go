package oscquery

// Flatten converts a namespace subtree into a flat mapping from full OSC
// address to current value.
//
// The traversal is depth-first: every leaf contributes one entry keyed by
// its FULL_PATH, holding the first element of its VALUE sequence (or nil
// when the leaf carries no value). Branch children are visited in map
// order; ordering is not significant, only path uniqueness.
func Flatten(root *Node) map[string]any {
	flat := make(map[string]any)
	flattenInto(root, flat)
	return flat
}

func flattenInto(n *Node, flat map[string]any) {
	if n == nil {
		return
	}
	if n.IsLeaf() {
		if v := n.Value(); len(v) > 0 {
			flat[n.FullPath] = v[0]
		} else {
			flat[n.FullPath] = nil
		}
		return
	}
	for _, child := range n.Contents() {
		flattenInto(child, flat)
	}
}
