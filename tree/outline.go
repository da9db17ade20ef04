package tree

import (
	"strings"
)

// ParseOutline reads the indented format written by Subtree.Outline and
// returns one subtree per top-level line. Tabs count as one indent level;
// blank lines are skipped. A line indented deeper than its predecessor's
// child level is attached to that predecessor.
func ParseOutline(text string) []*Subtree {
	type frame struct {
		indent int
		node   *Node
		sub    *Subtree
	}
	var (
		out   []*Subtree
		stack []frame
	)
	for _, raw := range strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n") {
		line := strings.ReplaceAll(raw, "\t", "  ")
		content := strings.TrimSpace(line)
		if content == "" {
			continue
		}
		indent := len(line) - len(strings.TrimLeft(line, " "))
		for len(stack) > 0 && stack[len(stack)-1].indent >= indent {
			stack = stack[:len(stack)-1]
		}

		n := &Node{ID: NewID(), Content: content}
		if len(stack) == 0 {
			sub := &Subtree{root: n.ID, nodes: map[NodeID]*Node{n.ID: n}}
			out = append(out, sub)
			stack = append(stack, frame{indent: indent, node: n, sub: sub})
			continue
		}
		parent := stack[len(stack)-1]
		n.ParentID = parent.node.ID
		parent.node.ChildIDs = append(parent.node.ChildIDs, n.ID)
		parent.sub.nodes[n.ID] = n
		stack = append(stack, frame{indent: indent, node: n, sub: parent.sub})
	}
	return out
}
