package formatter

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/oakwood-commons/kvlens/internal/classify"
	"github.com/oakwood-commons/kvlens/pkg/value"
)

// MermaidOptions controls Mermaid diagram output formatting.
type MermaidOptions struct {
	// Direction sets the diagram direction: TD (top-down), LR (left-right),
	// BT (bottom-top), RL (right-left). Default is TD.
	Direction string
	// NoValues hides values at leaf nodes (structure only).
	NoValues bool
	// MaxDepth limits tree depth (0 = unlimited).
	MaxDepth int
	// MaxStringLen is max display cells before truncating inline strings.
	// 0 or negative = no truncation (unlimited).
	MaxStringLen int
}

// mermaidBuilder tracks state during diagram generation.
type mermaidBuilder struct {
	lines  []string
	nodeID int
	opts   MermaidOptions
	used   map[classify.SemanticType]bool
	onPath map[*value.Value]struct{}
}

// FormatAsMermaid renders a document as a Mermaid flowchart. Every node is
// assigned a class named after its semantic type so the chart can be styled
// per kind of content.
func FormatAsMermaid(root *value.Value, opts MermaidOptions) string {
	if opts.Direction == "" {
		opts.Direction = "TD"
	}
	b := &mermaidBuilder{
		lines:  []string{fmt.Sprintf("graph %s", opts.Direction)},
		opts:   opts,
		used:   map[classify.SemanticType]bool{},
		onPath: map[*value.Value]struct{}{},
	}

	rootID := b.nextID()
	b.addNode(rootID, "root", "", "")
	if root.IsContainer() {
		b.onPath[root] = struct{}{}
		b.children(rootID, root, "", 0)
	} else if !root.IsNull() {
		id := b.nextID()
		b.addNode(id, b.scalar(root), "", classify.Classify("", root))
		b.addEdge(rootID, id)
	}

	for _, t := range classify.AllTypes {
		if b.used[t] {
			b.lines = append(b.lines, fmt.Sprintf("    classDef %s stroke-width:1px", SanitizeMermaidID(string(t))))
		}
	}
	return strings.Join(b.lines, "\n") + "\n"
}

// nextID generates a unique node identifier.
func (b *mermaidBuilder) nextID() string {
	id := fmt.Sprintf("n%d", b.nodeID)
	b.nodeID++
	return id
}

// addNode adds a node definition to the diagram.
func (b *mermaidBuilder) addNode(id, label, val string, t classify.SemanticType) {
	line := fmt.Sprintf("    %s[%q]", id, b.escapeLabel(label, val))
	if t != "" {
		line += ":::" + SanitizeMermaidID(string(t))
		b.used[t] = true
	}
	b.lines = append(b.lines, line)
}

// addEdge adds an edge between two nodes.
func (b *mermaidBuilder) addEdge(fromID, toID string) {
	b.lines = append(b.lines, fmt.Sprintf("    %s --> %s", fromID, toID))
}

// escapeLabel creates a safe label for Mermaid nodes.
func (b *mermaidBuilder) escapeLabel(key, val string) string {
	label := key
	if !b.opts.NoValues && val != "" {
		label = key + ": " + val
	}
	label = strings.ReplaceAll(label, `"`, `'`)
	label = strings.ReplaceAll(label, "\n", " ")
	return strings.ReplaceAll(label, "\r", "")
}

func (b *mermaidBuilder) children(parentID string, v *value.Value, key string, depth int) {
	if b.opts.MaxDepth > 0 && depth >= b.opts.MaxDepth {
		id := b.nextID()
		b.addNode(id, "...", "", "")
		b.addEdge(parentID, id)
		return
	}
	if v.Kind() == value.KindArray {
		for i, item := range v.Items() {
			b.add(parentID, fmt.Sprintf("[%d]", i), classify.ElementKey(key, i), item, depth)
		}
		return
	}
	for _, m := range v.Members() {
		b.add(parentID, m.Key, m.Key, m.Value, depth)
	}
}

func (b *mermaidBuilder) add(parentID, label, classKey string, v *value.Value, depth int) {
	id := b.nextID()
	t := classify.Classify(classKey, v)
	if !v.IsContainer() {
		b.addNode(id, label, b.scalar(v), t)
		b.addEdge(parentID, id)
		return
	}
	if _, cyclic := b.onPath[v]; cyclic {
		b.addNode(id, label, "<cycle>", t)
		b.addEdge(parentID, id)
		return
	}
	b.addNode(id, label, "", t)
	b.addEdge(parentID, id)
	b.onPath[v] = struct{}{}
	b.children(id, v, classKey, depth+1)
	delete(b.onPath, v)
}

func (b *mermaidBuilder) scalar(v *value.Value) string {
	s := v.Scalar()
	if b.opts.MaxStringLen > 0 {
		s = Truncate(s, b.opts.MaxStringLen)
	}
	return s
}

var nonAlphanumeric = regexp.MustCompile(`[^a-zA-Z0-9_]`)

// SanitizeMermaidID creates a valid Mermaid identifier from a string.
func SanitizeMermaidID(s string) string {
	return nonAlphanumeric.ReplaceAllString(s, "_")
}
