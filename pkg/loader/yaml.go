package loader

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/oakwood-commons/kvlens/pkg/value"
)

// loadYAML decodes every document in input. Mapping order is kept by working
// on yaml.Node trees rather than decoding into Go maps. Empty documents in a
// multi-document stream are skipped.
func loadYAML(input string) ([]*value.Value, error) {
	dec := yaml.NewDecoder(strings.NewReader(input))
	var docs []*value.Value
	for {
		var node yaml.Node
		if err := dec.Decode(&node); err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("invalid YAML: %w", err)
		}
		v, err := newNodeConverter().convert(&node)
		if err != nil {
			return nil, fmt.Errorf("invalid YAML: %w", err)
		}
		docs = append(docs, v)
	}

	if len(docs) > 1 {
		kept := docs[:0]
		for _, d := range docs {
			if !d.IsNull() {
				kept = append(kept, d)
			}
		}
		docs = kept
	}
	if len(docs) == 0 {
		return nil, fmt.Errorf("invalid YAML: no documents found")
	}
	return docs, nil
}

// nodeConverter turns yaml.Node trees into values. Aliases resolve to the
// value already built for their anchor, so shared YAML anchors become shared
// subtrees and self-referencing anchors become cycles.
type nodeConverter struct {
	built map[*yaml.Node]*value.Value
}

func newNodeConverter() *nodeConverter {
	return &nodeConverter{built: make(map[*yaml.Node]*value.Value)}
}

func (c *nodeConverter) convert(n *yaml.Node) (*value.Value, error) {
	if v, ok := c.built[n]; ok {
		return v, nil
	}
	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return value.Null(), nil
		}
		return c.convert(n.Content[0])
	case yaml.AliasNode:
		if n.Alias == nil {
			return nil, fmt.Errorf("line %d: unknown alias %q", n.Line, n.Value)
		}
		return c.convert(n.Alias)
	case yaml.SequenceNode:
		arr := value.Array()
		c.built[n] = arr
		for _, item := range n.Content {
			v, err := c.convert(item)
			if err != nil {
				return nil, err
			}
			arr.Append(v)
		}
		return arr, nil
	case yaml.MappingNode:
		return c.mapping(n)
	case yaml.ScalarNode:
		return scalar(n), nil
	default:
		return nil, fmt.Errorf("line %d: unsupported node kind %d", n.Line, n.Kind)
	}
}

func (c *nodeConverter) mapping(n *yaml.Node) (*value.Value, error) {
	obj := value.Object()
	c.built[n] = obj
	var merged []*value.Value
	for i := 0; i+1 < len(n.Content); i += 2 {
		k, v := n.Content[i], n.Content[i+1]
		if k.Kind == yaml.ScalarNode && k.ShortTag() == "!!merge" {
			sources, err := c.mergeSources(v)
			if err != nil {
				return nil, err
			}
			merged = append(merged, sources...)
			continue
		}
		if k.Kind != yaml.ScalarNode {
			return nil, fmt.Errorf("line %d: mapping keys must be scalars", k.Line)
		}
		member, err := c.convert(v)
		if err != nil {
			return nil, fmt.Errorf("key %q: %w", k.Value, err)
		}
		obj.Set(k.Value, member)
	}
	// Explicit keys win over merged ones.
	for _, src := range merged {
		for _, m := range src.Members() {
			if !obj.Has(m.Key) {
				obj.Set(m.Key, m.Value)
			}
		}
	}
	return obj, nil
}

func (c *nodeConverter) mergeSources(n *yaml.Node) ([]*value.Value, error) {
	target := n
	if target.Kind == yaml.AliasNode && target.Alias != nil {
		target = target.Alias
	}
	var nodes []*yaml.Node
	if target.Kind == yaml.SequenceNode {
		nodes = target.Content
	} else {
		nodes = []*yaml.Node{n}
	}
	out := make([]*value.Value, 0, len(nodes))
	for _, item := range nodes {
		v, err := c.convert(item)
		if err != nil {
			return nil, err
		}
		if v.Kind() != value.KindObject {
			return nil, fmt.Errorf("line %d: merge value must be a mapping", item.Line)
		}
		out = append(out, v)
	}
	return out, nil
}

// scalar resolves a scalar by its tag. Timestamps and binary stay as text.
func scalar(n *yaml.Node) *value.Value {
	switch n.ShortTag() {
	case "!!null":
		return value.Null()
	case "!!bool":
		var b bool
		if err := n.Decode(&b); err == nil {
			return value.Bool(b)
		}
	case "!!int":
		var i int64
		if err := n.Decode(&i); err == nil {
			return value.Int(i)
		}
		var u uint64
		if err := n.Decode(&u); err == nil {
			return value.Number(strconv.FormatUint(u, 10))
		}
	case "!!float":
		var f float64
		if err := n.Decode(&f); err == nil {
			return value.FromInterface(f)
		}
	}
	return value.String(n.Value)
}
