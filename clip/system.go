package clip

import (
	"os/exec"
	"runtime"

	"github.com/atotto/clipboard"
	"go.uber.org/zap"

	"mindterm/tree"
)

// SystemClipboard is an editor clipboard store that mirrors copied subtrees
// to the system clipboard as an indented outline. When the system clipboard
// holds text that did not come from this store, Get parses that text into
// subtrees so it can be pasted as nodes.
type SystemClipboard struct {
	entries []*tree.Subtree
	written string
	read    func() (string, error)
	write   func(string) error
	logger  *zap.Logger
}

// NewSystemClipboard returns a store backed by the platform clipboard. Without
// a clipboard utility it behaves like an in-memory store.
func NewSystemClipboard(logger *zap.Logger) *SystemClipboard {
	if logger == nil {
		logger = zap.NewNop()
	}
	c := &SystemClipboard{logger: logger}
	if !clipboard.Unsupported {
		c.read = ReadText
		c.write = clipboard.WriteAll
	}
	return c
}

// Set keeps entries and publishes their outline.
func (c *SystemClipboard) Set(entries []*tree.Subtree) {
	c.entries = append([]*tree.Subtree(nil), entries...)
	if c.write == nil {
		return
	}
	var text string
	for _, sub := range entries {
		text += sub.Outline()
	}
	if err := c.write(text); err != nil {
		c.logger.Warn("failed to write system clipboard", zap.Error(err))
		return
	}
	c.written = text
}

// Get returns the stored entries unless another program replaced the
// system clipboard since the last Set.
func (c *SystemClipboard) Get() []*tree.Subtree {
	if c.read == nil {
		return append([]*tree.Subtree(nil), c.entries...)
	}
	text, err := c.read()
	if err != nil {
		c.logger.Debug("failed to read system clipboard", zap.Error(err))
		return append([]*tree.Subtree(nil), c.entries...)
	}
	if text == c.written || text == "" {
		return append([]*tree.Subtree(nil), c.entries...)
	}
	return tree.ParseOutline(CleanText(text))
}

// ReadText reads the system clipboard, preferring plain text on macOS where
// rich-text copies otherwise come back as RTF.
func ReadText() (string, error) {
	if runtime.GOOS == "darwin" {
		if out, err := exec.Command("pbpaste", "-Prefer", "txt").Output(); err == nil {
			return string(out), nil
		}
	}
	return clipboard.ReadAll()
}
