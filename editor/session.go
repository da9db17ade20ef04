// Package editor drives a mind-map tree: it dispatches edit operations,
// brackets each one in an undoable batch, keeps node sizes measured and the
// layout current, and tells listeners when positions change.
package editor

import (
	"fmt"

	"go.uber.org/zap"

	"mindterm/geometry"
	"mindterm/history"
	"mindterm/layout"
	"mindterm/tree"
)

// DefaultRootContent labels the root of a fresh session.
const DefaultRootContent = "Central Topic"

// LayoutUpdate is delivered to listeners after every completed batch, undo,
// redo or relayout.
type LayoutUpdate struct {
	Label     string
	Positions map[tree.NodeID]geometry.Point
	Waypoints map[tree.EdgeKey][]geometry.Point
	Bounds    geometry.Rect
}

// Session owns one tree and everything needed to edit it. It is not safe for
// concurrent use.
type Session struct {
	tree      *tree.Tree
	engine    *layout.Engine
	sizes     *geometry.Cache
	history   *history.Coordinator[*tree.Tree]
	selection SelectionProvider
	clipboard ClipboardStore
	logger    *zap.Logger
	listeners []func(LayoutUpdate)
	bounds    geometry.Rect

	placeholders int
	editing      tree.NodeID
}

type options struct {
	logger       *zap.Logger
	oracle       geometry.Oracle
	layout       layout.Config
	selection    SelectionProvider
	clipboard    ClipboardStore
	idGen        func() tree.NodeID
	tree         *tree.Tree
	rootContent  string
	historyLimit int
}

// Option configures a Session.
type Option func(*options)

func WithLogger(logger *zap.Logger) Option {
	return func(o *options) { o.logger = logger }
}

// WithOracle sets the size oracle. The default measures terminal cells.
func WithOracle(oracle geometry.Oracle) Option {
	return func(o *options) { o.oracle = oracle }
}

// WithLayout sets the layout configuration. The default is layout.CellConfig.
func WithLayout(cfg layout.Config) Option {
	return func(o *options) { o.layout = cfg }
}

func WithSelection(p SelectionProvider) Option {
	return func(o *options) { o.selection = p }
}

func WithClipboard(c ClipboardStore) Option {
	return func(o *options) { o.clipboard = c }
}

// WithIDGenerator sets the id generator of the tree the session creates. It
// has no effect together with WithTree.
func WithIDGenerator(gen func() tree.NodeID) Option {
	return func(o *options) { o.idGen = gen }
}

// WithTree starts the session on a copy of t.
func WithTree(t *tree.Tree) Option {
	return func(o *options) { o.tree = t }
}

func WithRootContent(content string) Option {
	return func(o *options) { o.rootContent = content }
}

func WithHistoryLimit(n int) Option {
	return func(o *options) { o.historyLimit = n }
}

// New creates a session, measures and lays out its tree, and selects the root.
func New(opts ...Option) *Session {
	o := options{
		logger:      zap.NewNop(),
		oracle:      geometry.NewCellOracle(),
		layout:      layout.CellConfig(),
		rootContent: DefaultRootContent,
	}
	for _, opt := range opts {
		opt(&o)
	}

	s := &Session{
		engine:    layout.NewEngine(o.layout),
		sizes:     geometry.NewCache(o.oracle),
		selection: o.selection,
		clipboard: o.clipboard,
		logger:    o.logger,
	}
	if s.selection == nil {
		s.selection = NewSelection()
	}
	if s.clipboard == nil {
		s.clipboard = &MemoryClipboard{}
	}

	switch {
	case o.tree != nil:
		s.tree = o.tree.Clone()
	case o.idGen != nil:
		s.tree = tree.New(o.rootContent, tree.WithIDGenerator(o.idGen))
	default:
		s.tree = tree.New(o.rootContent)
	}
	s.history = history.New[*tree.Tree](snapshots{s}, history.WithLimit(o.historyLimit))

	s.relayout()
	s.selectIDs(s.tree.Root())
	return s
}

// snapshots lets the history coordinator capture and restore the tree.
type snapshots struct {
	s *Session
}

func (h snapshots) Capture() *tree.Tree { return h.s.tree.Clone() }
func (h snapshots) Restore(t *tree.Tree) { h.s.tree = t.Clone() }
func (h snapshots) Digest(t *tree.Tree) uint64 { return t.Digest() }

// OnLayoutUpdated registers fn to be called after each layout change.
func (s *Session) OnLayoutUpdated(fn func(LayoutUpdate)) {
	s.listeners = append(s.listeners, fn)
}

func (s *Session) notify(label string) {
	if len(s.listeners) == 0 {
		return
	}
	update := LayoutUpdate{
		Label:     label,
		Positions: make(map[tree.NodeID]geometry.Point, s.tree.Len()),
		Waypoints: make(map[tree.EdgeKey][]geometry.Point),
		Bounds:    s.bounds,
	}
	for _, n := range s.tree.Nodes() {
		update.Positions[n.ID] = n.Position
	}
	for _, e := range s.tree.Edges() {
		if len(e.Waypoints) > 0 {
			update.Waypoints[e.Key()] = e.Waypoints
		}
	}
	for _, fn := range s.listeners {
		fn(update)
	}
}

// measure refreshes every node's size from the cache.
func (s *Session) measure() {
	for _, n := range s.tree.Nodes() {
		size := s.sizes.Measure(n.Content, n.StyleClass)
		if size == n.Size {
			continue
		}
		if err := s.tree.SetSize(n.ID, size); err != nil {
			s.logger.Warn("measure failed", zap.String("node", string(n.ID)), zap.Error(err))
		}
	}
}

func (s *Session) relayout() {
	s.measure()
	res := s.engine.Apply(s.tree)
	s.bounds = res.Bounds
}

// batch runs fn inside a history batch. On failure the tree and selection
// are put back as they were and the error is returned.
func (s *Session) batch(label string, fn func() error) error {
	prevSelection := s.selection.SelectedIDs()
	s.history.StartBatch(label)
	if err := fn(); err != nil {
		if abortErr := s.history.AbortBatch(); abortErr != nil {
			s.logger.Error("failed to abort batch", zap.String("label", label), zap.Error(abortErr))
		}
		s.selectIDs(prevSelection...)
		s.logger.Warn("operation rolled back", zap.String("label", label), zap.Error(err))
		return err
	}
	s.relayout()
	if _, err := s.history.StopBatch(label); err != nil {
		return fmt.Errorf("failed to close batch %s: %w", label, err)
	}
	s.notify(label)
	return nil
}

// Undo reverts the most recent batch.
func (s *Session) Undo() (string, error) {
	label, err := s.history.Undo()
	if err != nil {
		return "", err
	}
	s.afterRestore("undo")
	s.logger.Debug("undo", zap.String("label", label))
	return label, nil
}

// Redo reapplies the most recently undone batch.
func (s *Session) Redo() (string, error) {
	label, err := s.history.Redo()
	if err != nil {
		return "", err
	}
	s.afterRestore("redo")
	s.logger.Debug("redo", zap.String("label", label))
	return label, nil
}

func (s *Session) afterRestore(label string) {
	s.relayout()
	s.pruneSelection()
	if s.editing != "" && !s.tree.Has(s.editing) {
		s.editing = ""
	}
	s.notify(label)
}

func (s *Session) CanUndo() bool { return s.history.CanUndo() }
func (s *Session) CanRedo() bool { return s.history.CanRedo() }

// HistoryLabels returns the labels of the undoable batches, oldest first.
func (s *Session) HistoryLabels() []string {
	return s.history.Labels()
}

// Node returns a copy of the node.
func (s *Session) Node(id tree.NodeID) (tree.Node, error) {
	return s.tree.Node(id)
}

// Nodes returns copies of all nodes in pre-order.
func (s *Session) Nodes() []tree.Node {
	return s.tree.Nodes()
}

// Edges returns the parent→child edges in pre-order.
func (s *Session) Edges() []tree.Edge {
	return s.tree.Edges()
}

func (s *Session) Root() tree.NodeID {
	return s.tree.Root()
}

// Bounds returns the bounding box of the current layout.
func (s *Session) Bounds() geometry.Rect {
	return s.bounds
}

// Tree returns a deep copy of the session's tree.
func (s *Session) Tree() *tree.Tree {
	return s.tree.Clone()
}

// Layout returns the active layout configuration.
func (s *Session) Layout() layout.Config {
	return s.engine.Config()
}

func (s *Session) Direction() layout.Direction {
	return s.engine.Config().Direction
}

// SetDirection changes the growth direction and relayouts. It does not
// create a history entry.
func (s *Session) SetDirection(d layout.Direction) {
	cfg := s.engine.Config()
	cfg.Direction = d
	s.SetLayout(cfg)
}

// SetSpacing changes the gaps and relayouts without a history entry.
func (s *Session) SetSpacing(levelGap, siblingGap float64) {
	cfg := s.engine.Config()
	cfg.LevelGap = levelGap
	cfg.SiblingGap = siblingGap
	s.SetLayout(cfg)
}

// SetLayout replaces the whole layout configuration.
func (s *Session) SetLayout(cfg layout.Config) {
	s.engine.SetConfig(cfg)
	s.relayout()
	s.notify("layout")
}

// Load replaces the tree with a copy of t, clears history and selects the
// root.
func (s *Session) Load(t *tree.Tree) {
	s.LoadIn(t, "")
}

// LoadIn is Load with the tree laid out in dir. An empty dir keeps the
// current direction. Listeners hear about the new tree once.
func (s *Session) LoadIn(t *tree.Tree, dir layout.Direction) {
	if dir != "" {
		cfg := s.engine.Config()
		cfg.Direction = dir
		s.engine.SetConfig(cfg)
	}
	s.tree = t.Clone()
	s.history.Clear()
	s.editing = ""
	s.relayout()
	s.selectIDs(s.tree.Root())
	s.notify("load")
}

// Selection returns the selected ids that still exist.
func (s *Session) Selection() []tree.NodeID {
	var out []tree.NodeID
	for _, id := range s.selection.SelectedIDs() {
		if s.tree.Has(id) {
			out = append(out, id)
		}
	}
	return out
}

// Select replaces the selection when the provider accepts updates.
func (s *Session) Select(ids ...tree.NodeID) {
	s.selectIDs(ids...)
}

func (s *Session) selectIDs(ids ...tree.NodeID) {
	if setter, ok := s.selection.(SelectionSetter); ok {
		setter.Select(ids...)
	}
}

// pruneSelection drops ids that no longer exist, falling back to the root.
func (s *Session) pruneSelection() {
	ids := s.Selection()
	if len(ids) == 0 {
		ids = []tree.NodeID{s.tree.Root()}
	}
	s.selectIDs(ids...)
}

// lastSelected is the node new children and pasted subtrees attach to.
func (s *Session) lastSelected() (tree.NodeID, error) {
	ids := s.Selection()
	if len(ids) == 0 {
		return "", ErrEmptySelection
	}
	return ids[len(ids)-1], nil
}

func (s *Session) placeholder() string {
	s.placeholders++
	return fmt.Sprintf("Node %d", s.placeholders)
}
