package classify

import (
	"regexp"
	"sort"
	"strings"

	"github.com/oakwood-commons/kvlens/pkg/value"
)

// MathSegment is a run of a math string: either plain text or a formula.
type MathSegment struct {
	Text    string
	Formula bool
	// Block marks $$...$$ display formulas.
	Block bool
}

// ImageInfo is the payload of an image node.
type ImageInfo struct {
	Source  string
	DataURI bool
	// Format is the file extension or MIME subtype, lower-cased.
	Format string
}

// ToolCallInfo is the payload of a tool_call node.
type ToolCallInfo struct {
	Name      string
	Arguments *value.Value
	Result    *value.Value
}

// Payload is what a renderer shows for a node: the classified type plus the
// extracted part of the value relevant to that type. Only the field matching
// Type is populated.
type Payload struct {
	Type     SemanticType
	Text     string
	Code     CodeInfo
	Math     []MathSegment
	Image    ImageInfo
	ToolCall ToolCallInfo
}

// Extract classifies v and extracts its payload.
func Extract(key string, v *value.Value) Payload {
	t := Classify(key, v)
	p := Payload{Type: t}
	switch t {
	case Code:
		p.Code, _ = DetectCode(v)
	case Math:
		s, _ := v.AsString()
		p.Text = s
		p.Math = SplitMath(s)
	case Image:
		s, _ := v.AsString()
		p.Image = ParseImage(s)
	case ToolCall:
		p.ToolCall = ParseToolCall(v)
	case Text, Reasoning:
		p.Text, _ = v.AsString()
	case Primitive:
		p.Text = v.Scalar()
	case Array, Object, JSON:
	}
	return p
}

// DetectCode reports whether v holds code, as a string or as a
// {language, content} / {code} object.
func DetectCode(v *value.Value) (CodeInfo, bool) {
	switch v.Kind() {
	case value.KindString:
		s, _ := v.AsString()
		return DetectCodeString(s)
	case value.KindObject:
		if v.Has("language") && v.Has("content") {
			lang, _ := v.Get("language")
			content, _ := v.Get("content")
			return CodeInfo{Language: scalarText(lang), Content: scalarText(content)}, true
		}
		if code, ok := v.Get("code"); ok && code.Kind() == value.KindString {
			info := CodeInfo{Content: scalarText(code)}
			if lang, ok := v.Get("language"); ok {
				info.Language = scalarText(lang)
			}
			return info, true
		}
	}
	return CodeInfo{}, false
}

func scalarText(v *value.Value) string {
	if v.IsContainer() {
		out, err := v.MarshalJSON()
		if err != nil {
			return ""
		}
		return string(out)
	}
	if v.IsNull() {
		return ""
	}
	return v.Scalar()
}

var (
	blockMathPattern  = regexp.MustCompile(`\$\$([\s\S]+?)\$\$`)
	inlineMathPattern = regexp.MustCompile(`\$([^$\n]+?)\$`)
)

// SplitMath splits s into text and formula segments. Display formulas are
// found first; inline formulas inside a display range are ignored.
func SplitMath(s string) []MathSegment {
	type span struct {
		start, end int
		body       string
		block      bool
	}
	var spans []span
	for _, m := range blockMathPattern.FindAllStringSubmatchIndex(s, -1) {
		spans = append(spans, span{start: m[0], end: m[1], body: s[m[2]:m[3]], block: true})
	}
	blocks := len(spans)
	for _, m := range inlineMathPattern.FindAllStringSubmatchIndex(s, -1) {
		inside := false
		for _, b := range spans[:blocks] {
			if m[0] >= b.start && m[1] <= b.end {
				inside = true
				break
			}
		}
		if !inside {
			spans = append(spans, span{start: m[0], end: m[1], body: s[m[2]:m[3]]})
		}
	}
	sort.SliceStable(spans, func(i, j int) bool { return spans[i].start < spans[j].start })

	var out []MathSegment
	last := 0
	for _, sp := range spans {
		if sp.start < last {
			continue
		}
		if sp.start > last {
			out = append(out, MathSegment{Text: s[last:sp.start]})
		}
		out = append(out, MathSegment{Text: sp.body, Formula: true, Block: sp.block})
		last = sp.end
	}
	if last < len(s) {
		out = append(out, MathSegment{Text: s[last:]})
	}
	return out
}

// ParseImage describes an image string.
func ParseImage(s string) ImageInfo {
	info := ImageInfo{Source: s}
	if m := imageDataURIPattern.FindStringSubmatch(s); m != nil {
		info.DataURI = true
		info.Format = strings.ToLower(m[1])
		return info
	}
	if m := imageURLPattern.FindStringSubmatch(s); m != nil {
		info.Format = strings.ToLower(m[1])
	}
	return info
}

// ParseToolCall pulls the function name, arguments and result out of a
// tool call object. Nested function_call / tool_call wrappers and OpenAI
// style {"function": {"name", "arguments"}} objects are unwrapped.
func ParseToolCall(v *value.Value) ToolCallInfo {
	call := v
	for _, wrapper := range []string{"function_call", "tool_call"} {
		if inner, ok := v.Get(wrapper); ok && inner.Kind() == value.KindObject {
			call = inner
			break
		}
	}
	info := ToolCallInfo{
		Arguments: firstMember(call, "arguments", "parameters", "args"),
		Result:    firstMember(v, "result", "output", "response"),
	}
	fn := firstMember(call, "function", "tool", "name")
	if fn.Kind() == value.KindObject {
		if name, ok := fn.Get("name"); ok {
			info.Name = scalarText(name)
		}
		if info.Arguments == nil {
			info.Arguments = firstMember(fn, "arguments", "parameters")
		}
	} else if fn != nil {
		info.Name = scalarText(fn)
	}
	return info
}

func firstMember(v *value.Value, keys ...string) *value.Value {
	for _, k := range keys {
		if m, ok := v.Get(k); ok && !m.IsNull() {
			return m
		}
	}
	return nil
}
