package formatter

import (
	"fmt"
	"strings"

	"github.com/xlab/treeprint"

	"github.com/oakwood-commons/kvlens/internal/classify"
	"github.com/oakwood-commons/kvlens/pkg/value"
)

const (
	// defaultMaxArrayInline is the max number of array elements to show inline.
	defaultMaxArrayInline = 3
)

// TreeOptions controls tree output formatting.
type TreeOptions struct {
	// NoValues hides values at leaf nodes (structure only).
	NoValues bool
	// ShowTypes appends the semantic type of every node.
	ShowTypes bool
	// MaxDepth limits tree depth (0 = unlimited).
	MaxDepth int
	// ExpandArrays shows all array elements instead of "[N items]" summary.
	ExpandArrays bool
	// MaxArrayInline is max items to show inline for scalar arrays (default 3).
	MaxArrayInline int
	// MaxStringLen is max display cells before truncating inline strings.
	// 0 or negative = no truncation (unlimited).
	MaxStringLen int
}

type treeBuilder struct {
	opts   TreeOptions
	onPath map[*value.Value]struct{}
}

// FormatAsTree renders a document as an ASCII tree. Objects become branches
// in member order, arrays show indexed children, and scalars are displayed
// inline at leaves. A member that refers back to one of its ancestors is
// shown as "<cycle>".
func FormatAsTree(root *value.Value, opts TreeOptions) string {
	if opts.MaxArrayInline == 0 {
		opts.MaxArrayInline = defaultMaxArrayInline
	}
	b := treeBuilder{opts: opts, onPath: map[*value.Value]struct{}{}}
	tree := treeprint.New()
	if root.IsContainer() {
		b.onPath[root] = struct{}{}
		b.children(tree, root, "", 0)
	} else {
		tree.AddNode(b.scalar(root))
	}
	return tree.String()
}

func (b *treeBuilder) children(branch treeprint.Tree, v *value.Value, key string, depth int) {
	if b.opts.MaxDepth > 0 && depth >= b.opts.MaxDepth {
		branch.AddNode("...")
		return
	}
	if v.Kind() == value.KindArray {
		for i, item := range v.Items() {
			b.add(branch, fmt.Sprintf("[%d]", i), classify.ElementKey(key, i), item, depth)
		}
		return
	}
	for _, m := range v.Members() {
		b.add(branch, m.Key, m.Key, m.Value, depth)
	}
}

// add adds label's node. classKey is the key the value is classified under.
func (b *treeBuilder) add(branch treeprint.Tree, label, classKey string, v *value.Value, depth int) {
	label = b.typed(label, classKey, v)

	if !v.IsContainer() {
		if b.opts.NoValues {
			branch.AddNode(label)
		} else {
			branch.AddNode(label + ": " + b.scalar(v))
		}
		return
	}
	if _, cyclic := b.onPath[v]; cyclic {
		branch.AddNode(label + ": <cycle>")
		return
	}

	switch {
	case v.Len() == 0:
		empty := "{}"
		if v.Kind() == value.KindArray {
			empty = "[]"
		}
		if b.opts.NoValues {
			branch.AddNode(label)
		} else {
			branch.AddNode(label + ": " + empty)
		}
		return
	case v.Kind() == value.KindArray && !b.opts.ExpandArrays && isScalarArray(v):
		if b.opts.NoValues {
			branch.AddNode(label)
		} else if v.Len() <= b.opts.MaxArrayInline {
			branch.AddNode(label + ": " + b.inlineArray(v))
		} else {
			branch.AddNode(fmt.Sprintf("%s: [%d items]", label, v.Len()))
		}
		return
	}

	child := branch.AddBranch(label)
	b.onPath[v] = struct{}{}
	b.children(child, v, classKey, depth+1)
	delete(b.onPath, v)
}

func (b *treeBuilder) typed(label, classKey string, v *value.Value) string {
	if !b.opts.ShowTypes {
		return label
	}
	return fmt.Sprintf("%s (%s)", label, classify.Classify(classKey, v))
}

func (b *treeBuilder) scalar(v *value.Value) string {
	s := v.Scalar()
	if v.Kind() == value.KindString {
		s = SingleLine(s)
	}
	if b.opts.MaxStringLen > 0 {
		s = Truncate(s, b.opts.MaxStringLen)
	}
	return s
}

func (b *treeBuilder) inlineArray(v *value.Value) string {
	parts := make([]string, 0, v.Len())
	for _, item := range v.Items() {
		parts = append(parts, b.scalar(item))
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// isScalarArray reports whether no element of v is an object or array.
func isScalarArray(v *value.Value) bool {
	for _, item := range v.Items() {
		if item.IsContainer() {
			return false
		}
	}
	return true
}
