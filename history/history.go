// Package history records undoable batches of edits as before/after
// snapshots of a subject. Nested batches fold into the outermost one, and a
// batch that leaves the subject unchanged is not recorded.
package history

import "errors"

var (
	ErrNothingToUndo = errors.New("nothing to undo")
	ErrNothingToRedo = errors.New("nothing to redo")
	ErrBatchOpen     = errors.New("a batch is still open")
	ErrNoBatch       = errors.New("no batch is open")
)

// DefaultLimit is the number of undo steps kept when no limit is given.
const DefaultLimit = 100

// Subject is the state the coordinator snapshots. Restore must not keep a
// reference to the snapshot it is handed, since the same value may be
// restored again later.
type Subject[S any] interface {
	Capture() S
	Restore(S)
	Digest(S) uint64
}

type entry[S any] struct {
	label  string
	before S
	after  S
}

// Coordinator owns the undo and redo stacks for one subject.
type Coordinator[S any] struct {
	subject Subject[S]
	limit   int

	undo []entry[S]
	redo []entry[S]

	depth  int
	label  string
	before S
}

// Option configures a Coordinator.
type Option func(*settings)

type settings struct {
	limit int
}

// WithLimit caps the undo stack; the oldest entry is dropped first.
func WithLimit(n int) Option {
	return func(s *settings) {
		s.limit = n
	}
}

// New returns a coordinator for subject.
func New[S any](subject Subject[S], opts ...Option) *Coordinator[S] {
	st := settings{limit: DefaultLimit}
	for _, opt := range opts {
		opt(&st)
	}
	if st.limit <= 0 {
		st.limit = DefaultLimit
	}
	return &Coordinator[S]{subject: subject, limit: st.limit}
}

// StartBatch opens a batch. Calls made while a batch is open only deepen it.
func (c *Coordinator[S]) StartBatch(label string) {
	c.depth++
	if c.depth > 1 {
		return
	}
	c.label = label
	c.before = c.subject.Capture()
}

// StopBatch closes one nesting level. When the outermost level closes the
// batch is recorded under the label it was opened with, unless the subject
// is unchanged. It reports whether an entry was recorded.
func (c *Coordinator[S]) StopBatch(label string) (bool, error) {
	if c.depth == 0 {
		return false, ErrNoBatch
	}
	c.depth--
	if c.depth > 0 {
		return false, nil
	}

	if c.label == "" {
		c.label = label
	}
	after := c.subject.Capture()
	e := entry[S]{label: c.label, before: c.before, after: after}
	c.reset()

	if c.subject.Digest(e.before) == c.subject.Digest(e.after) {
		return false, nil
	}
	c.undo = append(c.undo, e)
	if len(c.undo) > c.limit {
		c.undo = c.undo[len(c.undo)-c.limit:]
	}
	c.redo = c.redo[:0]
	return true, nil
}

// AbortBatch restores the state captured when the batch opened and discards
// the batch at every nesting level.
func (c *Coordinator[S]) AbortBatch() error {
	if c.depth == 0 {
		return ErrNoBatch
	}
	c.subject.Restore(c.before)
	c.reset()
	return nil
}

func (c *Coordinator[S]) reset() {
	var zero S
	c.depth = 0
	c.label = ""
	c.before = zero
}

// InBatch reports whether a batch is open.
func (c *Coordinator[S]) InBatch() bool {
	return c.depth > 0
}

// Undo restores the state before the most recent batch and returns its label.
func (c *Coordinator[S]) Undo() (string, error) {
	if c.depth > 0 {
		return "", ErrBatchOpen
	}
	if len(c.undo) == 0 {
		return "", ErrNothingToUndo
	}
	e := c.undo[len(c.undo)-1]
	c.undo = c.undo[:len(c.undo)-1]
	c.subject.Restore(e.before)
	c.redo = append(c.redo, e)
	return e.label, nil
}

// Redo reapplies the most recently undone batch and returns its label.
func (c *Coordinator[S]) Redo() (string, error) {
	if c.depth > 0 {
		return "", ErrBatchOpen
	}
	if len(c.redo) == 0 {
		return "", ErrNothingToRedo
	}
	e := c.redo[len(c.redo)-1]
	c.redo = c.redo[:len(c.redo)-1]
	c.subject.Restore(e.after)
	c.undo = append(c.undo, e)
	return e.label, nil
}

func (c *Coordinator[S]) CanUndo() bool { return c.depth == 0 && len(c.undo) > 0 }
func (c *Coordinator[S]) CanRedo() bool { return c.depth == 0 && len(c.redo) > 0 }

// Labels returns the undo stack labels, oldest first.
func (c *Coordinator[S]) Labels() []string {
	out := make([]string, len(c.undo))
	for i, e := range c.undo {
		out[i] = e.label
	}
	return out
}

// Clear drops both stacks. An open batch is left alone.
func (c *Coordinator[S]) Clear() {
	c.undo = nil
	c.redo = nil
}
