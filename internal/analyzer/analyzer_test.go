package analyzer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oakwood-commons/kvlens/internal/classify"
	"github.com/oakwood-commons/kvlens/internal/jsonpath"
	"github.com/oakwood-commons/kvlens/internal/limiter"
	"github.com/oakwood-commons/kvlens/pkg/value"
)

func paths(fields []TypedField) []string {
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		out = append(out, f.Path.String())
	}
	return out
}

func TestAnalyzeOrder(t *testing.T) {
	root, err := value.Decode([]byte(`{"z":1,"a":{"y":[true,null],"b":"hi"},"m":[]}`))
	require.NoError(t, err)

	res := Analyze(root)
	assert.False(t, res.Truncated)
	assert.Equal(t, []string{"z", "a", "a.y", "a.y[0]", "a.y[1]", "a.b", "m"}, paths(res.Fields))

	types := make([]classify.SemanticType, 0, len(res.Fields))
	for _, f := range res.Fields {
		types = append(types, f.Type)
	}
	assert.Equal(t, []classify.SemanticType{
		classify.Primitive, classify.Object, classify.Array,
		classify.Primitive, classify.Primitive, classify.Text, classify.Array,
	}, types)
}

func TestAnalyzeScalarRoot(t *testing.T) {
	assert.Empty(t, Analyze(value.String("x")).Fields)
	assert.Empty(t, Analyze(nil).Fields)
	assert.Empty(t, Analyze(value.Object()).Fields)
}

func TestAnalyzeFieldPathsResolve(t *testing.T) {
	root, err := value.Decode([]byte(`{"messages":[{"role":"user","content":"q"},{"a.b":{"c":[1,[2]]}}]}`))
	require.NoError(t, err)

	for _, f := range Analyze(root).Fields {
		got, err := jsonpath.Lookup(root, f.Path)
		require.NoError(t, err, f.Path.String())
		assert.Same(t, f.Value, got, f.Path.String())
	}
}

func TestAnalyzeReasoningElements(t *testing.T) {
	root, err := value.Decode([]byte(`{"thoughts":["first","second"]}`))
	require.NoError(t, err)

	res := Analyze(root)
	require.Len(t, res.Fields, 3)
	assert.Equal(t, classify.Array, res.Fields[0].Type)
	assert.Equal(t, classify.Reasoning, res.Fields[1].Type)
	assert.Equal(t, classify.Reasoning, res.Fields[2].Type)
}

func TestAnalyzeSharedSubtreeIsNotACycle(t *testing.T) {
	shared := value.Object(value.M("k", value.Int(1)))
	root := value.Object(value.M("a", shared), value.M("b", shared))

	res := Analyze(root)
	assert.False(t, res.Truncated)
	assert.Empty(t, res.Cycles)
	assert.Equal(t, []string{"a", "a.k", "b", "b.k"}, paths(res.Fields))
}

func TestAnalyzeCycle(t *testing.T) {
	root := value.Object(value.M("name", value.String("loop")))
	child := value.Array(root)
	root.Set("self", child)

	res := Analyze(root)
	assert.True(t, res.Truncated)
	assert.Equal(t, limiter.ReasonCycle, res.Reason)
	assert.Equal(t, []string{"name", "self", "self[0]"}, paths(res.Fields))
	require.Len(t, res.Cycles, 1)
	assert.Equal(t, "self[0]", res.Cycles[0].String())
}

func TestAnalyzeMaxNodes(t *testing.T) {
	root := value.Array(value.Int(1), value.Int(2), value.Int(3), value.Int(4))

	res := Analyze(root, WithBounds(limiter.Bounds{MaxNodes: 2}))
	assert.True(t, res.Truncated)
	assert.Equal(t, limiter.ReasonNodes, res.Reason)
	assert.Equal(t, []string{"[0]", "[1]"}, paths(res.Fields))

	res = Analyze(root, WithBounds(limiter.Bounds{MaxNodes: 4}))
	assert.False(t, res.Truncated)
	assert.Len(t, res.Fields, 4)
}

func TestAnalyzeMaxNodesNested(t *testing.T) {
	root, err := value.Decode([]byte(`{"a":{"b":1,"c":2},"d":3}`))
	require.NoError(t, err)

	res := Analyze(root, WithBounds(limiter.Bounds{MaxNodes: 3}))
	assert.True(t, res.Truncated)
	assert.Equal(t, []string{"a", "a.b", "a.c"}, paths(res.Fields))
}

func TestAnalyzeMaxDepth(t *testing.T) {
	root, err := value.Decode([]byte(`{"a":{"b":{"c":1}},"d":2}`))
	require.NoError(t, err)

	res := Analyze(root, WithBounds(limiter.Bounds{MaxDepth: 2}))
	assert.True(t, res.Truncated)
	assert.Equal(t, limiter.ReasonDepth, res.Reason)
	assert.Equal(t, []string{"a", "a.b", "d"}, paths(res.Fields))
}

func TestSummarize(t *testing.T) {
	root, err := value.Decode([]byte(`{
		"reasoning":"because",
		"calls":[{"function":"f","arguments":{}}],
		"img":"https://x.test/a.png",
		"n":1
	}`))
	require.NoError(t, err)

	res := Analyze(root)
	s := Summarize(res)
	assert.Equal(t, len(res.Fields), s.Total)
	assert.Equal(t, 1, s.Count(classify.Reasoning))
	assert.Equal(t, 1, s.Count(classify.ToolCall))
	assert.Equal(t, 1, s.Count(classify.Image))
	assert.Equal(t, 0, s.Count(classify.Math))
	assert.Len(t, s.ByType, len(classify.AllTypes))

	total := 0
	for _, n := range s.ByType {
		total += n
	}
	assert.Equal(t, s.Total, total)

	c := s.Clone()
	c.ByType[classify.Reasoning] = 7
	assert.Equal(t, 1, s.Count(classify.Reasoning))

	tools := res.OfType(classify.ToolCall)
	require.Len(t, tools, 1)
	assert.Equal(t, "calls[0]", tools[0].Path.String())

	f, ok := res.Find(jsonpath.MustParse("img"))
	require.True(t, ok)
	assert.Equal(t, classify.Image, f.Type)
	_, ok = res.Find(jsonpath.MustParse("missing"))
	assert.False(t, ok)
}
