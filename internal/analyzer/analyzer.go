// Package analyzer walks a whole document and produces the flat, path-indexed
// inventory of classified nodes used for summary counts and field listings.
package analyzer

import (
	"github.com/go-logr/logr"

	"github.com/oakwood-commons/kvlens/internal/classify"
	"github.com/oakwood-commons/kvlens/internal/jsonpath"
	"github.com/oakwood-commons/kvlens/internal/limiter"
	"github.com/oakwood-commons/kvlens/pkg/value"
)

// TypedField is one classified non-root node.
type TypedField struct {
	Path  jsonpath.Path
	Value *value.Value
	Type  classify.SemanticType
}

// Result is the analyzer output. Fields are in depth-first traversal order:
// insertion order for objects, index order for arrays.
type Result struct {
	Fields    []TypedField
	Truncated bool
	Reason    limiter.Reason
	// Cycles lists the paths whose value is one of their own ancestors.
	Cycles []jsonpath.Path
}

type options struct {
	bounds limiter.Bounds
	log    logr.Logger
}

// Option configures Analyze.
type Option func(*options)

// WithBounds overrides the default traversal bounds.
func WithBounds(b limiter.Bounds) Option {
	return func(o *options) { o.bounds = b }
}

// WithLogger sets the logger used for truncation diagnostics.
func WithLogger(l logr.Logger) Option {
	return func(o *options) { o.log = l }
}

type walker struct {
	budget *limiter.Budget
	onPath map[*value.Value]struct{}
	result *Result
}

// Analyze classifies every node reachable from root except root itself.
// A value is descended into after its own field is emitted only when it is
// an object or array that is not classified as an image.
func Analyze(root *value.Value, opts ...Option) Result {
	o := options{bounds: limiter.DefaultBounds(), log: logr.Discard()}
	for _, opt := range opts {
		opt(&o)
	}

	res := Result{}
	w := walker{
		budget: limiter.NewBudget(o.bounds),
		onPath: map[*value.Value]struct{}{root: {}},
		result: &res,
	}
	if root.IsContainer() {
		w.walk(root, nil, "", 1)
	}

	res.Truncated = w.budget.Truncated()
	res.Reason = w.budget.Reason()
	if res.Truncated {
		o.log.V(1).Info("analysis truncated",
			"reason", string(res.Reason),
			"fields", len(res.Fields),
			"cycles", len(res.Cycles))
	}
	return res
}

// walk emits the children of v, which sit at depth.
func (w *walker) walk(v *value.Value, parent jsonpath.Path, parentKey string, depth int) {
	if !w.budget.Descend(depth) {
		return
	}
	switch v.Kind() {
	case value.KindArray:
		for i, item := range v.Items() {
			if !w.visit(item, parent.Child(jsonpath.Index(i)), classify.ElementKey(parentKey, i), depth) {
				return
			}
		}
	case value.KindObject:
		for _, m := range v.Members() {
			if !w.visit(m.Value, parent.Child(jsonpath.Key(m.Key)), m.Key, depth) {
				return
			}
		}
	}
}

// visit emits one field and recurses. It returns false once the node budget
// refuses a node.
func (w *walker) visit(v *value.Value, path jsonpath.Path, key string, depth int) bool {
	if !w.budget.Visit() {
		return false
	}
	t := classify.Classify(key, v)
	w.result.Fields = append(w.result.Fields, TypedField{Path: path, Value: v, Type: t})

	if !v.IsContainer() || t == classify.Image {
		return true
	}
	if _, cyclic := w.onPath[v]; cyclic {
		w.result.Cycles = append(w.result.Cycles, path)
		w.budget.Trip(limiter.ReasonCycle)
		return true
	}
	w.onPath[v] = struct{}{}
	w.walk(v, path, key, depth+1)
	delete(w.onPath, v)
	return true
}
