package formatter

import (
	"bytes"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/oakwood-commons/kvlens/pkg/value"
)

// YAMLFormatOptions control YAML rendering.
type YAMLFormatOptions struct {
	Indent              int
	LiteralBlockStrings bool
}

// FormatYAML renders a document as YAML keeping member order. Multi-line
// strings can be emitted as literal blocks ("|") to preserve newlines.
func FormatYAML(v *value.Value, opts YAMLFormatOptions) (string, error) {
	node, err := yamlNode(v, opts, map[*value.Value]struct{}{})
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	indent := opts.Indent
	if indent <= 0 {
		indent = 2
	}
	enc.SetIndent(indent)
	if err := enc.Encode(&yaml.Node{Kind: yaml.DocumentNode, Content: []*yaml.Node{node}}); err != nil {
		return "", err
	}
	if err := enc.Close(); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func yamlNode(v *value.Value, opts YAMLFormatOptions, onPath map[*value.Value]struct{}) (*yaml.Node, error) {
	switch v.Kind() {
	case value.KindNull:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!null", Value: "null"}, nil
	case value.KindBool:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!bool", Value: v.Scalar()}, nil
	case value.KindNumber:
		text := v.Scalar()
		tag := "!!float"
		if !strings.ContainsAny(text, ".eE") {
			tag = "!!int"
		}
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: tag, Value: text}, nil
	case value.KindString:
		s, _ := v.AsString()
		n := &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: s}
		if opts.LiteralBlockStrings && strings.Contains(s, "\n") {
			n.Style = yaml.LiteralStyle
		}
		return n, nil
	case value.KindRaw:
		raw, _ := v.RawValue()
		var n yaml.Node
		if err := n.Encode(raw); err != nil {
			return nil, err
		}
		return &n, nil
	}

	if _, cyclic := onPath[v]; cyclic {
		return nil, value.ErrCycle
	}
	onPath[v] = struct{}{}
	defer delete(onPath, v)

	if v.Kind() == value.KindArray {
		seq := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
		for _, item := range v.Items() {
			child, err := yamlNode(item, opts, onPath)
			if err != nil {
				return nil, err
			}
			seq.Content = append(seq.Content, child)
		}
		return seq, nil
	}

	mapping := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	for _, m := range v.Members() {
		child, err := yamlNode(m.Value, opts, onPath)
		if err != nil {
			return nil, err
		}
		mapping.Content = append(mapping.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: m.Key},
			child)
	}
	return mapping, nil
}
