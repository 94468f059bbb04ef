package classify

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oakwood-commons/kvlens/internal/jsonpath"
	"github.com/oakwood-commons/kvlens/pkg/value"
)

func mustDecode(t *testing.T, s string) *value.Value {
	t.Helper()
	v, err := value.Decode([]byte(s))
	require.NoError(t, err)
	return v
}

func TestClassifyScalars(t *testing.T) {
	tests := []struct {
		name string
		v    *value.Value
		want SemanticType
	}{
		{name: "nil", v: nil, want: Primitive},
		{name: "null", v: value.Null(), want: Primitive},
		{name: "number", v: value.Int(4), want: Primitive},
		{name: "bool", v: value.Bool(true), want: Primitive},
		{name: "array", v: value.Array(value.String("x")), want: Array},
		{name: "empty array", v: value.Array(), want: Array},
		{name: "raw", v: value.Raw(struct{}{}), want: JSON},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify("reasoning", tt.v))
		})
	}
}

func TestClassifyStrings(t *testing.T) {
	multiLineCode := "import os\n\ndef main():\n    if (x == 1):\n        return x\n"
	prose := "Dear team,\nthe results (attached) look good.\nThanks for the help.\nBest regards"

	tests := []struct {
		name string
		key  string
		s    string
		want SemanticType
	}{
		{name: "image url", key: "image_url", s: "https://cdn.example.com/a/b.PNG", want: Image},
		{name: "image url with query", key: "x", s: "http://x.io/cat.webp?w=200&h=100", want: Image},
		{name: "image data uri", key: "x", s: "data:image/png;base64,iVBORw0KGgo=", want: Image},
		{name: "image beats reasoning key", key: "reasoning", s: "https://x.io/a.jpg", want: Image},
		{name: "url without image extension", key: "x", s: "https://picsum.photos/400/300", want: Text},
		{name: "display math", key: "x", s: "$$\\int_0^1 x\\,dx$$", want: Math},
		{name: "inline math", key: "x", s: "solve $x + 1 = 2$ please", want: Math},
		{name: "frac", key: "x", s: "\\frac{1}{2}", want: Math},
		{name: "greek", key: "x", s: "angle \\theta", want: Math},
		{name: "exponent", key: "x", s: "x^2 grows fast", want: Math},
		{name: "subscript", key: "x", s: "a_{12}", want: Math},
		{name: "math beats reasoning key", key: "thinking", s: "so $a=b$", want: Math},
		{name: "fenced code", key: "x", s: "Here:\n```go\nfmt.Println(1)\n```", want: Code},
		{name: "fenced code without language", key: "x", s: "```\nls -la\n```", want: Code},
		{name: "unfenced code two signals", key: "x", s: multiLineCode, want: Code},
		{name: "prose with one signal", key: "x", s: prose, want: Text},
		{name: "short code-ish line", key: "x", s: "if (a == b) { go(); }", want: Text},
		{name: "reasoning key", key: "reasoning", s: "why X", want: Reasoning},
		{name: "reasoning substring key", key: "Chain_Of_Thought_v2", s: "step one", want: Reasoning},
		{name: "cot substring", key: "scot", s: "plain", want: Reasoning},
		{name: "plain text", key: "content", s: "hello world", want: Text},
		{name: "empty string", key: "content", s: "", want: Text},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.key, value.String(tt.s)))
		})
	}
}

func TestClassifyObjects(t *testing.T) {
	tests := []struct {
		name string
		json string
		want SemanticType
		rule string
	}{
		{name: "function+arguments", json: `{"function":"calc","arguments":{"x":1}}`, want: ToolCall, rule: "function+arguments"},
		{name: "tool+parameters", json: `{"tool":"search","parameters":{}}`, want: ToolCall, rule: "tool+parameters"},
		{name: "name+arguments+type", json: `{"name":"f","arguments":"{}","type":"function"}`, want: ToolCall, rule: "name+arguments+type"},
		{name: "name+arguments without type", json: `{"name":"f","arguments":"{}"}`, want: JSON, rule: "flat-record"},
		{name: "function_call", json: `{"function_call":{"name":"f"}}`, want: ToolCall, rule: "function_call"},
		{name: "tool_call", json: `{"tool_call":null}`, want: ToolCall, rule: "tool_call"},
		{name: "tool call beats code shape", json: `{"function":"f","arguments":{},"language":"py","content":"x"}`, want: ToolCall, rule: "function+arguments"},
		{name: "language+content", json: `{"language":"python","content":"print(1)"}`, want: Code, rule: "language+content"},
		{name: "code string", json: `{"code":"x = 1"}`, want: Code, rule: "code-string"},
		{name: "code non-string", json: `{"code":42}`, want: JSON, rule: "flat-record"},
		{name: "flat record", json: `{"a":1,"b":"x","c":null}`, want: JSON, rule: "flat-record"},
		{name: "empty object", json: `{}`, want: JSON, rule: "flat-record"},
		{name: "nested value", json: `{"a":1,"b":[]}`, want: Object, rule: "default"},
		{name: "ten keys", json: `{"a":1,"b":1,"c":1,"d":1,"e":1,"f":1,"g":1,"h":1,"i":1,"j":1}`, want: Object, rule: "default"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, rule := Explain("k", mustDecode(t, tt.json))
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.rule, rule)
		})
	}
}

func TestClassifyReasoningScenario(t *testing.T) {
	doc := mustDecode(t, `{"role":"assistant","reasoning":"why X"}`)
	r, ok := doc.Get("reasoning")
	require.True(t, ok)
	assert.Equal(t, Reasoning, Classify("reasoning", r))
	role, _ := doc.Get("role")
	assert.Equal(t, Text, Classify("role", role))
}

func TestExtractCodeObjectScenario(t *testing.T) {
	doc := mustDecode(t, `{"code":{"language":"python","content":"print(1)"}}`)
	code, _ := doc.Get("code")

	p := Extract("code", code)
	assert.Equal(t, Code, p.Type)
	assert.Equal(t, CodeInfo{Language: "python", Content: "print(1)"}, p.Code)
}

func TestExtractFencedCode(t *testing.T) {
	p := Extract("answer", value.String("Try this:\n```python\nprint('hi')\n```\nDone."))
	require.Equal(t, Code, p.Type)
	assert.Equal(t, CodeInfo{Language: "python", Content: "print('hi')\n", Fenced: true}, p.Code)

	p = Extract("answer", value.String("```\necho hi\n```"))
	assert.Equal(t, "text", p.Code.Language)
}

func TestSplitMath(t *testing.T) {
	segs := SplitMath("root: $x = 1$ and $$\\frac{a}{b}$$ end")
	assert.Equal(t, []MathSegment{
		{Text: "root: "},
		{Text: "x = 1", Formula: true},
		{Text: " and "},
		{Text: "\\frac{a}{b}", Formula: true, Block: true},
		{Text: " end"},
	}, segs)

	assert.Equal(t, []MathSegment{{Text: "\\sqrt{2}"}}, SplitMath("\\sqrt{2}"))
}

func TestParseImage(t *testing.T) {
	assert.Equal(t, ImageInfo{Source: "https://a.io/x.JPG", Format: "jpg"}, ParseImage("https://a.io/x.JPG"))
	assert.Equal(t, ImageInfo{Source: "data:image/svg+xml;base64,AA", DataURI: true, Format: "svg+xml"}, ParseImage("data:image/svg+xml;base64,AA"))
}

func TestParseToolCall(t *testing.T) {
	t.Run("flat", func(t *testing.T) {
		info := ParseToolCall(mustDecode(t, `{"function":"calculate","arguments":{"mode":"exact"},"result":-2}`))
		assert.Equal(t, "calculate", info.Name)
		assert.Equal(t, []string{"mode"}, info.Arguments.Keys())
		assert.Equal(t, "-2", info.Result.Scalar())
	})
	t.Run("openai function object", func(t *testing.T) {
		info := ParseToolCall(mustDecode(t, `{"type":"function","function":{"name":"lookup","arguments":"{\"q\":1}"}}`))
		assert.Equal(t, "lookup", info.Name)
		assert.Equal(t, `{"q":1}`, info.Arguments.Scalar())
		assert.Nil(t, info.Result)
	})
	t.Run("function_call wrapper", func(t *testing.T) {
		info := ParseToolCall(mustDecode(t, `{"function_call":{"name":"f","arguments":"{}"},"output":"ok"}`))
		assert.Equal(t, "f", info.Name)
		assert.Equal(t, "ok", info.Result.Scalar())
	})
}

func TestElementKeyInheritsReasoning(t *testing.T) {
	key := ElementKey("thoughts", 2)
	assert.Equal(t, "thoughts[2]", key)
	assert.Equal(t, Reasoning, Classify(key, value.String("first, consider")))
}

func TestAllTypesValid(t *testing.T) {
	for _, st := range AllTypes {
		assert.True(t, st.Valid())
	}
	assert.False(t, SemanticType("date").Valid())
	assert.True(t, Array.IsBranch())
	assert.True(t, Object.IsBranch())
	assert.False(t, JSON.IsBranch())
}

func TestPathKey(t *testing.T) {
	tests := map[string]string{
		"":               "",
		"a":              "a",
		"a.b":            "b",
		"thoughts[0]":    "thoughts[0]",
		"thoughts[0][2]": "thoughts[0][2]",
		"[1]":            "[1]",
		"x[1].reasoning": "reasoning",
		`["a.b"][3]`:     "a.b[3]",
	}
	for in, want := range tests {
		assert.Equal(t, want, PathKey(jsonpath.MustParse(in)), in)
	}

	// Agrees with the element key chain used by walks.
	assert.Equal(t, ElementKey(ElementKey("thoughts", 0), 2), PathKey(jsonpath.MustParse("thoughts[0][2]")))

	// Only the nearest member key counts; ancestors above it give no hint.
	steps := jsonpath.MustParse("analysis.steps[0]")
	assert.Equal(t, "steps[0]", PathKey(steps))
	assert.Equal(t, Text, Classify(PathKey(steps), value.String("look at the data first")))
}
