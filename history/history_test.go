package history

import (
	"strings"
	"testing"

	"github.com/cespare/xxhash/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// list is a minimal subject: an ordered list of words.
type list struct {
	items    []string
	restores int
}

func (l *list) Capture() []string {
	return append([]string(nil), l.items...)
}

func (l *list) Restore(s []string) {
	l.restores++
	l.items = append([]string(nil), s...)
}

func (l *list) Digest(s []string) uint64 {
	return xxhash.Sum64String(strings.Join(s, "\x00"))
}

func (l *list) push(s string) {
	l.items = append(l.items, s)
}

func record(t *testing.T, c *Coordinator[[]string], label string, fn func()) {
	t.Helper()
	c.StartBatch(label)
	fn()
	_, err := c.StopBatch(label)
	require.NoError(t, err)
}

func TestUndoRedoRoundTrip(t *testing.T) {
	l := &list{}
	c := New[[]string](l)

	record(t, c, "one", func() { l.push("a") })
	record(t, c, "two", func() { l.push("b"); l.push("c") })
	assert.Equal(t, []string{"one", "two"}, c.Labels())

	label, err := c.Undo()
	require.NoError(t, err)
	assert.Equal(t, "two", label)
	assert.Equal(t, []string{"a"}, l.items)
	assert.True(t, c.CanRedo())

	label, err = c.Redo()
	require.NoError(t, err)
	assert.Equal(t, "two", label)
	assert.Equal(t, []string{"a", "b", "c"}, l.items)

	_, err = c.Undo()
	require.NoError(t, err)
	_, err = c.Undo()
	require.NoError(t, err)
	assert.Empty(t, l.items)

	_, err = c.Undo()
	assert.ErrorIs(t, err, ErrNothingToUndo)
	assert.False(t, c.CanUndo())
}

func TestNestedBatchesFoldIntoOne(t *testing.T) {
	l := &list{}
	c := New[[]string](l)

	c.StartBatch("outer")
	l.push("a")
	c.StartBatch("inner")
	l.push("b")
	recorded, err := c.StopBatch("inner")
	require.NoError(t, err)
	assert.False(t, recorded)
	assert.True(t, c.InBatch())
	recorded, err = c.StopBatch("outer")
	require.NoError(t, err)
	assert.True(t, recorded)

	assert.Equal(t, []string{"outer"}, c.Labels())
	_, err = c.Undo()
	require.NoError(t, err)
	assert.Empty(t, l.items)
}

func TestUnchangedBatchIsDropped(t *testing.T) {
	l := &list{items: []string{"a"}}
	c := New[[]string](l)

	c.StartBatch("noop")
	l.push("b")
	l.items = l.items[:1]
	recorded, err := c.StopBatch("noop")
	require.NoError(t, err)
	assert.False(t, recorded)
	assert.False(t, c.CanUndo())
}

func TestNewBatchClearsRedo(t *testing.T) {
	l := &list{}
	c := New[[]string](l)
	record(t, c, "one", func() { l.push("a") })
	_, err := c.Undo()
	require.NoError(t, err)
	require.True(t, c.CanRedo())

	record(t, c, "two", func() { l.push("z") })
	assert.False(t, c.CanRedo())
	_, err = c.Redo()
	assert.ErrorIs(t, err, ErrNothingToRedo)
}

func TestAbortRestoresBeforeState(t *testing.T) {
	l := &list{items: []string{"a"}}
	c := New[[]string](l)

	c.StartBatch("outer")
	l.push("b")
	c.StartBatch("inner")
	l.push("c")
	require.NoError(t, c.AbortBatch())

	assert.Equal(t, []string{"a"}, l.items)
	assert.False(t, c.InBatch())
	assert.False(t, c.CanUndo())
	assert.ErrorIs(t, c.AbortBatch(), ErrNoBatch)
}

func TestUndoRejectedWhileBatchOpen(t *testing.T) {
	l := &list{}
	c := New[[]string](l)
	record(t, c, "one", func() { l.push("a") })

	c.StartBatch("open")
	_, err := c.Undo()
	assert.ErrorIs(t, err, ErrBatchOpen)
	_, err = c.Redo()
	assert.ErrorIs(t, err, ErrBatchOpen)
	assert.False(t, c.CanUndo())
	_, err = c.StopBatch("open")
	require.NoError(t, err)
	assert.True(t, c.CanUndo())
}

func TestStopWithoutStart(t *testing.T) {
	c := New[[]string](&list{})
	_, err := c.StopBatch("x")
	assert.ErrorIs(t, err, ErrNoBatch)
}

func TestLimitDropsOldest(t *testing.T) {
	l := &list{}
	c := New[[]string](l, WithLimit(2))
	for _, s := range []string{"a", "b", "c"} {
		record(t, c, s, func() { l.push(s) })
	}
	assert.Equal(t, []string{"b", "c"}, c.Labels())

	_, _ = c.Undo()
	_, _ = c.Undo()
	assert.Equal(t, []string{"a"}, l.items)
	_, err := c.Undo()
	assert.ErrorIs(t, err, ErrNothingToUndo)
}

func TestClear(t *testing.T) {
	l := &list{}
	c := New[[]string](l)
	record(t, c, "one", func() { l.push("a") })
	c.Clear()
	assert.False(t, c.CanUndo())
	assert.Empty(t, c.Labels())
}
