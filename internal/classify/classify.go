package classify

import (
	"strconv"
	"strings"

	"github.com/oakwood-commons/kvlens/internal/jsonpath"
	"github.com/oakwood-commons/kvlens/pkg/value"
)

// Rule is a named shape predicate. Rules are evaluated in slice order and the
// first match decides the type.
type Rule struct {
	Name  string
	Type  SemanticType
	Match func(key string, v *value.Value) bool
}

// StringRules classify string values, highest priority first.
var StringRules = []Rule{
	{Name: "image", Type: Image, Match: func(_ string, v *value.Value) bool {
		s, _ := v.AsString()
		return IsImage(s)
	}},
	{Name: "math", Type: Math, Match: func(_ string, v *value.Value) bool {
		s, _ := v.AsString()
		return IsMath(s)
	}},
	{Name: "code", Type: Code, Match: func(_ string, v *value.Value) bool {
		s, _ := v.AsString()
		_, ok := DetectCodeString(s)
		return ok
	}},
	{Name: "reasoning-key", Type: Reasoning, Match: func(key string, _ *value.Value) bool {
		return IsReasoningKey(key)
	}},
}

// ObjectRules classify object values, highest priority first.
var ObjectRules = []Rule{
	{Name: "function+arguments", Type: ToolCall, Match: hasKeys("function", "arguments")},
	{Name: "tool+parameters", Type: ToolCall, Match: hasKeys("tool", "parameters")},
	{Name: "name+arguments+type", Type: ToolCall, Match: hasKeys("name", "arguments", "type")},
	{Name: "function_call", Type: ToolCall, Match: hasKeys("function_call")},
	{Name: "tool_call", Type: ToolCall, Match: hasKeys("tool_call")},
	{Name: "language+content", Type: Code, Match: hasKeys("language", "content")},
	{Name: "code-string", Type: Code, Match: func(_ string, v *value.Value) bool {
		code, ok := v.Get("code")
		return ok && code.Kind() == value.KindString
	}},
	{Name: "flat-record", Type: JSON, Match: func(_ string, v *value.Value) bool {
		return IsFlatRecord(v)
	}},
}

// maxFlatRecordKeys bounds the key count of a flat record.
const maxFlatRecordKeys = 10

func hasKeys(keys ...string) func(string, *value.Value) bool {
	return func(_ string, v *value.Value) bool {
		for _, k := range keys {
			if !v.Has(k) {
				return false
			}
		}
		return true
	}
}

// IsFlatRecord reports whether v is a small object whose values are all
// scalars.
func IsFlatRecord(v *value.Value) bool {
	if v.Kind() != value.KindObject || v.Len() >= maxFlatRecordKeys {
		return false
	}
	for _, m := range v.Members() {
		if m.Value.IsContainer() {
			return false
		}
	}
	return true
}

// Classify returns the semantic type of v stored under key. It never fails:
// values outside the recognized shapes fall through to Text, Object or JSON.
func Classify(key string, v *value.Value) SemanticType {
	t, _ := Explain(key, v)
	return t
}

// Explain is Classify plus the name of the rule that decided the type.
func Explain(key string, v *value.Value) (SemanticType, string) {
	switch v.Kind() {
	case value.KindNull:
		return Primitive, "null"
	case value.KindBool, value.KindNumber:
		return Primitive, "scalar"
	case value.KindArray:
		return Array, "array"
	case value.KindString:
		return firstMatch(StringRules, key, v, Text)
	case value.KindObject:
		return firstMatch(ObjectRules, key, v, Object)
	default:
		return JSON, "raw"
	}
}

func firstMatch(rules []Rule, key string, v *value.Value, fallback SemanticType) (SemanticType, string) {
	for _, r := range rules {
		if r.Match(key, v) {
			return r.Type, r.Name
		}
	}
	return fallback, "default"
}

// ElementKey is the key an array element is classified under: the parent's
// key followed by the element index, so items of a "thoughts" array inherit
// the reasoning hint.
func ElementKey(parentKey string, index int) string {
	return parentKey + "[" + strconv.Itoa(index) + "]"
}

// PathKey returns the key the node at p is classified under: its member key,
// followed by the index labels of any array elements below that member.
// It agrees with ElementKey for every node reached by a walk from the root.
func PathKey(p jsonpath.Path) string {
	i := len(p)
	for i > 0 && p[i-1].IsIndex {
		i--
	}
	var b strings.Builder
	if i > 0 {
		b.WriteString(p[i-1].Key)
	}
	for _, seg := range p[i:] {
		b.WriteString(seg.Label())
	}
	return b.String()
}
