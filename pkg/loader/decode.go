package loader

import (
	"strings"

	"github.com/oakwood-commons/kvlens/pkg/value"
)

// TryDecode parses a string that carries serialized data: a JSON object or
// array, or a JWT. It reports false for prose and scalars, so text such as
// "note: see below" is never read as a YAML mapping.
func TryDecode(s string) (*value.Value, bool) {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return nil, false
	}
	if IsJWT(trimmed) {
		v, err := DecodeJWT(trimmed)
		return v, err == nil
	}
	if !strings.HasPrefix(trimmed, "{") && !strings.HasPrefix(trimmed, "[") {
		return nil, false
	}
	v, err := value.Decode([]byte(trimmed))
	if err != nil || !v.IsContainer() {
		return nil, false
	}
	return v, true
}

// maxDecodeDepth bounds how many serialized strings may be nested inside
// one another. Container depth is not limited.
const maxDecodeDepth = 20

// ExpandStrings returns root with every decodable string leaf replaced by
// its parsed structure, recursively, so serialized strings nested inside
// serialized strings are expanded too. Tool call arguments are the common
// case. Containers without a replaced descendant are returned unchanged,
// shared subtrees stay shared and cycles are left as they are.
func ExpandStrings(root *value.Value) *value.Value {
	e := &expander{
		done:   make(map[*value.Value]*value.Value),
		onPath: make(map[*value.Value]struct{}),
	}
	return e.expand(root, 0)
}

type expander struct {
	done   map[*value.Value]*value.Value
	onPath map[*value.Value]struct{}
}

// expand rewrites v; decodes counts the serialized strings already
// unwrapped above v.
func (e *expander) expand(v *value.Value, decodes int) *value.Value {
	switch v.Kind() {
	case value.KindString:
		if decodes >= maxDecodeDepth {
			return v
		}
		s, _ := v.AsString()
		if decoded, ok := TryDecode(s); ok {
			return e.expand(decoded, decodes+1)
		}
		return v
	case value.KindObject, value.KindArray:
	default:
		return v
	}

	if out, ok := e.done[v]; ok {
		return out
	}
	if _, cyclic := e.onPath[v]; cyclic {
		return v
	}
	e.onPath[v] = struct{}{}
	defer delete(e.onPath, v)

	out := v
	if v.Kind() == value.KindArray {
		items := v.Items()
		expanded := make([]*value.Value, len(items))
		changed := false
		for i, item := range items {
			expanded[i] = e.expand(item, decodes)
			changed = changed || expanded[i] != item
		}
		if changed {
			out = value.Array(expanded...)
		}
	} else {
		members := v.Members()
		expanded := make([]value.Member, len(members))
		changed := false
		for i, m := range members {
			expanded[i] = value.M(m.Key, e.expand(m.Value, decodes))
			changed = changed || expanded[i].Value != m.Value
		}
		if changed {
			out = value.Object(expanded...)
		}
	}
	e.done[v] = out
	return out
}
