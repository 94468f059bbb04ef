// Package navigator implements the column-based drill-down state machine over
// a classified document.
//
// A Navigator always holds at least one column: the classified children of
// the document root. Selecting a node in column i discards everything to the
// right of i and, when the node is classified as array or object, opens a new
// column with its children. Every successful selection is reported to the registered
// listeners.
package navigator

import (
	"errors"
	"fmt"

	"github.com/go-logr/logr"
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/oakwood-commons/kvlens/internal/classify"
	"github.com/oakwood-commons/kvlens/internal/jsonpath"
	"github.com/oakwood-commons/kvlens/internal/limiter"
	"github.com/oakwood-commons/kvlens/pkg/value"
)

var (
	// ErrColumnOutOfRange is returned when a selection addresses a column
	// that is not open.
	ErrColumnOutOfRange = errors.New("column index out of range")
	// ErrNodeNotInColumn is returned when the selected node is not one of
	// the addressed column's entries.
	ErrNodeNotInColumn = errors.New("node not in column")
)

// SelectionEvent is emitted synchronously on every successful selection.
type SelectionEvent struct {
	Path  jsonpath.Path
	Value *value.Value
	Type  classify.SemanticType
}

// Listener receives selection events.
type Listener func(SelectionEvent)

// Navigator is the single writer of the navigation state. It is not safe for
// concurrent use.
type Navigator struct {
	root      *value.Value
	columns   []Column
	selection []PathNode

	bounds    limiter.Bounds
	strict    bool
	log       logr.Logger
	cache     *lru.Cache[string, Column]
	cacheSize int
	listeners []Listener
}

// Option configures a Navigator.
type Option func(*Navigator)

// WithBounds caps column width (MaxNodes) and drill depth (MaxDepth).
func WithBounds(b limiter.Bounds) Option {
	return func(n *Navigator) { n.bounds = b }
}

// WithStrict makes contract violations in Select panic instead of returning
// an error.
func WithStrict(strict bool) Option {
	return func(n *Navigator) { n.strict = strict }
}

// WithLogger sets the logger for selection and reset diagnostics.
func WithLogger(l logr.Logger) Option {
	return func(n *Navigator) { n.log = l }
}

// WithColumnCache keeps up to size derived columns keyed by path. The cache
// is purged on Reset. A size <= 0 disables caching.
func WithColumnCache(size int) Option {
	return func(n *Navigator) { n.cacheSize = size }
}

// WithListener registers a selection listener.
func WithListener(l Listener) Option {
	return func(n *Navigator) { n.listeners = append(n.listeners, l) }
}

// New returns a navigator in the root-only state for root.
func New(root *value.Value, opts ...Option) *Navigator {
	n := &Navigator{
		bounds: limiter.DefaultBounds(),
		log:    logr.Discard(),
	}
	for _, opt := range opts {
		opt(n)
	}
	if n.cacheSize > 0 {
		cache, err := lru.New[string, Column](n.cacheSize)
		if err != nil {
			n.log.Error(err, "column cache disabled", "size", n.cacheSize)
		} else {
			n.cache = cache
		}
	}
	n.Reset(root)
	return n
}

// OnSelect registers a selection listener.
func (n *Navigator) OnSelect(l Listener) {
	n.listeners = append(n.listeners, l)
}

// Reset reinitializes to the root-only state for root. It is the only
// operation that changes which document paths are relative to.
func (n *Navigator) Reset(root *value.Value) {
	n.root = root
	if n.cache != nil {
		n.cache.Purge()
	}
	n.columns = []Column{n.column(root, nil, "")}
	n.selection = nil
	n.log.V(1).Info("navigator reset", "kind", root.Kind().String(), "entries", len(n.columns[0].Nodes))
}

// Root returns the document the navigator is rooted at.
func (n *Navigator) Root() *value.Value { return n.root }

// Select selects node in column columnIndex. Everything right of
// columnIndex is discarded. Branch nodes open a new column; leaves do not.
func (n *Navigator) Select(columnIndex int, node PathNode) error {
	if columnIndex < 0 || columnIndex >= len(n.columns) {
		return n.violation(fmt.Errorf("%w: %d (open columns: %d)", ErrColumnOutOfRange, columnIndex, len(n.columns)))
	}
	if !n.columns[columnIndex].Contains(node) {
		return n.violation(fmt.Errorf("%w: %q in column %d", ErrNodeNotInColumn, node.Path.String(), columnIndex))
	}

	n.selection = append(n.selection[:columnIndex:columnIndex], node)
	n.columns = n.columns[:columnIndex+1:columnIndex+1]
	if node.IsBranch() {
		n.columns = append(n.columns, n.DeriveColumn(node))
	}

	n.log.V(1).Info("node selected",
		"column", columnIndex,
		"path", node.Path.String(),
		"type", string(node.Type),
		"columns", len(n.columns))

	ev := SelectionEvent{Path: node.Path, Value: node.Value, Type: node.Type}
	for _, l := range n.listeners {
		l(ev)
	}
	return nil
}

// SelectKey selects the entry of column columnIndex whose Key is key. The
// first matching entry wins.
func (n *Navigator) SelectKey(columnIndex int, key string) error {
	if columnIndex < 0 || columnIndex >= len(n.columns) {
		return n.violation(fmt.Errorf("%w: %d (open columns: %d)", ErrColumnOutOfRange, columnIndex, len(n.columns)))
	}
	node, ok := n.columns[columnIndex].Find(key)
	if !ok {
		return n.violation(fmt.Errorf("%w: key %q in column %d", ErrNodeNotInColumn, key, columnIndex))
	}
	return n.Select(columnIndex, node)
}

// SelectPath replays selections along p starting at the first column. It
// stops with an error at the first segment that is not present.
func (n *Navigator) SelectPath(p jsonpath.Path) error {
	for i, seg := range p {
		if err := n.SelectKey(i, seg.Label()); err != nil {
			return err
		}
	}
	return nil
}

func (n *Navigator) violation(err error) error {
	if n.strict {
		panic(err)
	}
	n.log.V(1).Info("selection rejected", "error", err.Error())
	return err
}

// DeriveColumn returns the classified children of node. Leaves yield an
// empty column.
func (n *Navigator) DeriveColumn(node PathNode) Column {
	if !node.IsBranch() {
		return Column{Path: node.Path}
	}
	return n.column(node.Value, node.Path, node.classKey)
}

func (n *Navigator) column(v *value.Value, path jsonpath.Path, key string) Column {
	if n.bounds.MaxDepth > 0 && len(path) >= n.bounds.MaxDepth {
		return Column{Path: path, Truncated: true}
	}
	if n.cache == nil {
		return Children(v, path, key, n.bounds.MaxNodes)
	}
	cacheKey := path.String()
	if col, ok := n.cache.Get(cacheKey); ok {
		return col
	}
	col := Children(v, path, key, n.bounds.MaxNodes)
	n.cache.Add(cacheKey, col)
	return col
}

// Columns returns the open columns, leftmost first.
func (n *Navigator) Columns() []Column {
	return append([]Column(nil), n.columns...)
}

// Column returns the column at index i.
func (n *Navigator) Column(i int) (Column, bool) {
	if i < 0 || i >= len(n.columns) {
		return Column{}, false
	}
	return n.columns[i], true
}

// Selection returns the selected node of every column that has one.
func (n *Navigator) Selection() []PathNode {
	return append([]PathNode(nil), n.selection...)
}

// Current returns the most recent selection.
func (n *Navigator) Current() (PathNode, bool) {
	if len(n.selection) == 0 {
		return PathNode{}, false
	}
	return n.selection[len(n.selection)-1], true
}

// State returns an immutable snapshot of the navigation state.
func (n *Navigator) State() State {
	keys := make([]string, len(n.selection))
	for i, s := range n.selection {
		keys[i] = s.Key
	}
	return State{Columns: n.Columns(), SelectedPath: keys}
}
