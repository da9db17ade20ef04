package tree

import (
	"encoding/binary"
	"math"

	"github.com/cespare/xxhash/v2"
)

// Digest hashes the tree's structure, labels and geometry. Two trees with the
// same digest are treated as the same editor state.
func (t *Tree) Digest() uint64 {
	h := xxhash.New()
	var buf [8]byte
	writeFloat := func(f float64) {
		binary.LittleEndian.PutUint64(buf[:], math.Float64bits(f))
		h.Write(buf[:])
	}
	writeString := func(s string) {
		binary.LittleEndian.PutUint64(buf[:], uint64(len(s)))
		h.Write(buf[:])
		h.WriteString(s)
	}

	t.walk(t.root, func(n *Node) {
		writeString(string(n.ID))
		writeString(string(n.ParentID))
		writeString(n.Content)
		writeString(n.StyleClass)
		writeFloat(n.Size.Width)
		writeFloat(n.Size.Height)
		writeFloat(n.Position.X)
		writeFloat(n.Position.Y)
		binary.LittleEndian.PutUint64(buf[:], uint64(len(n.ChildIDs)))
		h.Write(buf[:])
		wps := t.waypoints[n.ID]
		binary.LittleEndian.PutUint64(buf[:], uint64(len(wps)))
		h.Write(buf[:])
		for _, wp := range wps {
			writeFloat(wp.X)
			writeFloat(wp.Y)
		}
	})
	return h.Sum64()
}
