// Package search derives a filtered copy of a document that keeps only the
// members and elements matching a case-insensitive substring query.
package search

import (
	"strings"

	"github.com/go-logr/logr"

	"github.com/oakwood-commons/kvlens/internal/limiter"
	"github.com/oakwood-commons/kvlens/pkg/value"
)

// Result is the outcome of Filter.
type Result struct {
	// Root is the filtered tree, or the original root when the query is
	// empty or nothing matched.
	Root *value.Value
	// Query is the query as given.
	Query string
	// Matched reports whether a non-empty query matched anything.
	Matched   bool
	Truncated bool
	Reason    limiter.Reason
}

// Active reports whether a non-empty query is applied.
func (r Result) Active() bool { return r.Query != "" }

type options struct {
	bounds limiter.Bounds
	log    logr.Logger
}

// Option configures Filter.
type Option func(*options)

// WithBounds overrides the default traversal bounds. Subtrees beyond the
// bounds are treated as non-matching.
func WithBounds(b limiter.Bounds) Option {
	return func(o *options) { o.bounds = b }
}

// WithLogger sets the logger used for truncation diagnostics.
func WithLogger(l logr.Logger) Option {
	return func(o *options) { o.log = l }
}

type filter struct {
	needle string
	budget *limiter.Budget
	onPath map[*value.Value]struct{}
}

// Filter matches query against every object key and every non-null scalar
// leaf. A matching key keeps its member's whole value. A container is kept,
// with only its matching children, when something below it matches; arrays
// are compacted. The input is never modified: containers in the result are
// new values, while matched leaves and key-matched subtrees are shared with
// the input.
//
// An empty query returns root itself. A query without matches returns root
// with Matched false.
func Filter(root *value.Value, query string, opts ...Option) Result {
	if query == "" {
		return Result{Root: root}
	}
	o := options{bounds: limiter.DefaultBounds(), log: logr.Discard()}
	for _, opt := range opts {
		opt(&o)
	}

	f := filter{
		needle: strings.ToLower(query),
		budget: limiter.NewBudget(o.bounds),
		onPath: map[*value.Value]struct{}{},
	}
	filtered, ok := f.walk(root, 0)

	res := Result{
		Root:      root,
		Query:     query,
		Matched:   ok,
		Truncated: f.budget.Truncated(),
		Reason:    f.budget.Reason(),
	}
	if ok {
		res.Root = filtered
	}
	if res.Truncated {
		o.log.V(1).Info("search truncated", "query", query, "reason", string(res.Reason), "visited", f.budget.Visited())
	}
	return res
}

// Matches reports whether a single scalar leaf matches query.
func Matches(v *value.Value, query string) bool {
	if v.IsContainer() || v.IsNull() {
		return false
	}
	return strings.Contains(strings.ToLower(v.Scalar()), strings.ToLower(query))
}

func (f *filter) contains(s string) bool {
	return strings.Contains(strings.ToLower(s), f.needle)
}

func (f *filter) walk(v *value.Value, depth int) (*value.Value, bool) {
	if !f.budget.Visit() {
		return nil, false
	}
	switch v.Kind() {
	case value.KindNull:
		return nil, false
	case value.KindObject, value.KindArray:
	default:
		if f.contains(v.Scalar()) {
			return v, true
		}
		return nil, false
	}

	if !f.budget.Descend(depth + 1) {
		return nil, false
	}
	if _, cyclic := f.onPath[v]; cyclic {
		f.budget.Trip(limiter.ReasonCycle)
		return nil, false
	}
	f.onPath[v] = struct{}{}
	defer delete(f.onPath, v)

	if v.Kind() == value.KindArray {
		var kept []*value.Value
		for _, item := range v.Items() {
			if got, ok := f.walk(item, depth+1); ok {
				kept = append(kept, got)
			}
		}
		if len(kept) == 0 {
			return nil, false
		}
		return value.Array(kept...), true
	}

	var kept []value.Member
	for _, m := range v.Members() {
		if f.contains(m.Key) {
			kept = append(kept, m)
			continue
		}
		if got, ok := f.walk(m.Value, depth+1); ok {
			kept = append(kept, value.M(m.Key, got))
		}
	}
	if len(kept) == 0 {
		return nil, false
	}
	return value.Object(kept...), true
}
