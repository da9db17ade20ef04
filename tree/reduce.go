package tree

// Reduce collapses a selection to its topmost members. A selection holding
// the root reduces to the root alone; otherwise any id with a selected
// ancestor is dropped. Unknown and duplicate ids are dropped and the input
// order is kept.
func (t *Tree) Reduce(selected []NodeID) []NodeID {
	in := make(map[NodeID]bool, len(selected))
	for _, id := range selected {
		if !t.Has(id) {
			continue
		}
		if t.IsRoot(id) {
			return []NodeID{t.root}
		}
		in[id] = true
	}

	var out []NodeID
	seen := make(map[NodeID]bool, len(in))
	for _, id := range selected {
		if !in[id] || seen[id] {
			continue
		}
		seen[id] = true
		covered := false
		for p := t.nodes[id].ParentID; p != "" && !t.IsRoot(p); p = t.nodes[p].ParentID {
			if in[p] {
				covered = true
				break
			}
		}
		if !covered {
			out = append(out, id)
		}
	}
	return out
}

// WithoutRoot returns ids with the root filtered out.
func (t *Tree) WithoutRoot(ids []NodeID) []NodeID {
	var out []NodeID
	for _, id := range ids {
		if !t.IsRoot(id) {
			out = append(out, id)
		}
	}
	return out
}
