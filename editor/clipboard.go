package editor

import "mindterm/tree"

// ClipboardStore holds copied subtrees between Copy/Cut and Paste.
type ClipboardStore interface {
	Get() []*tree.Subtree
	Set(entries []*tree.Subtree)
}

// MemoryClipboard is a process-local ClipboardStore.
type MemoryClipboard struct {
	entries []*tree.Subtree
}

func (c *MemoryClipboard) Get() []*tree.Subtree {
	return append([]*tree.Subtree(nil), c.entries...)
}

func (c *MemoryClipboard) Set(entries []*tree.Subtree) {
	c.entries = append([]*tree.Subtree(nil), entries...)
}
