package navigator

import (
	"github.com/oakwood-commons/kvlens/internal/classify"
	"github.com/oakwood-commons/kvlens/internal/jsonpath"
	"github.com/oakwood-commons/kvlens/pkg/value"
)

// PathNode is one entry of a column.
type PathNode struct {
	// Key is the member key, or "[i]" for array elements.
	Key   string
	Value *value.Value
	Path  jsonpath.Path
	Type  classify.SemanticType

	// classKey is the key the node was classified under; its children
	// derive their element keys from it.
	classKey string
}

// IsBranch reports whether selecting the node opens a column. Only nodes
// classified as array or object do; json records, tool calls, code blocks and
// images are leaves even though they hold members.
func (p PathNode) IsBranch() bool {
	return p.Type.IsBranch()
}

// Column is the ordered children exposed at one depth of navigation.
type Column struct {
	// Path addresses the container the column was built from.
	Path      jsonpath.Path
	Nodes     []PathNode
	Truncated bool
}

// Len returns the number of entries.
func (c Column) Len() int { return len(c.Nodes) }

// Find returns the first entry whose Key is key.
func (c Column) Find(key string) (PathNode, bool) {
	for _, node := range c.Nodes {
		if node.Key == key {
			return node, true
		}
	}
	return PathNode{}, false
}

// Contains reports whether node is one of the entries. Entries are matched
// by path and value identity.
func (c Column) Contains(node PathNode) bool {
	for _, candidate := range c.Nodes {
		if candidate.Value == node.Value && candidate.Path.Equal(node.Path) {
			return true
		}
	}
	return false
}

// IndexOf returns the position of the entry at path, or -1.
func (c Column) IndexOf(path jsonpath.Path) int {
	for i, node := range c.Nodes {
		if node.Path.Equal(path) {
			return i
		}
	}
	return -1
}

// Children classifies the direct children of v, which lives at path and
// was classified under key. At most limit entries are returned when limit
// is positive. Scalars have no children.
func Children(v *value.Value, path jsonpath.Path, key string, limit int) Column {
	col := Column{Path: path}
	switch v.Kind() {
	case value.KindObject:
		members := v.Members()
		if limit > 0 && len(members) > limit {
			members = members[:limit]
			col.Truncated = true
		}
		col.Nodes = make([]PathNode, 0, len(members))
		for _, m := range members {
			col.Nodes = append(col.Nodes, PathNode{
				Key:      m.Key,
				Value:    m.Value,
				Path:     path.Child(jsonpath.Key(m.Key)),
				Type:     classify.Classify(m.Key, m.Value),
				classKey: m.Key,
			})
		}
	case value.KindArray:
		items := v.Items()
		if limit > 0 && len(items) > limit {
			items = items[:limit]
			col.Truncated = true
		}
		col.Nodes = make([]PathNode, 0, len(items))
		for i, item := range items {
			seg := jsonpath.Index(i)
			elemKey := classify.ElementKey(key, i)
			col.Nodes = append(col.Nodes, PathNode{
				Key:      seg.Label(),
				Value:    item,
				Path:     path.Child(seg),
				Type:     classify.Classify(elemKey, item),
				classKey: elemKey,
			})
		}
	}
	return col
}
