package detail

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oakwood-commons/kvlens/internal/classify"
	"github.com/oakwood-commons/kvlens/internal/jsonpath"
	"github.com/oakwood-commons/kvlens/internal/navigator"
	"github.com/oakwood-commons/kvlens/pkg/value"
)

func TestBuildString(t *testing.T) {
	d, err := Build(jsonpath.MustParse("messages[0].content"), value.String("hello"))
	require.NoError(t, err)
	assert.Equal(t, "messages[0].content", d.PathText())
	assert.Equal(t, classify.Text, d.Type)
	assert.Equal(t, value.KindString, d.Kind)
	assert.Equal(t, 7, d.Size)
	assert.Equal(t, "7 B", d.SizeText)
	assert.Equal(t, "hello", d.Copy)
	assert.Empty(t, d.Blocks)
}

func TestBuildObject(t *testing.T) {
	v, err := value.Decode([]byte(`{"b":1,"a":[true]}`))
	require.NoError(t, err)

	d, err := Build(nil, v)
	require.NoError(t, err)
	assert.Equal(t, "(root)", d.PathText())
	assert.Equal(t, classify.Object, d.Type)
	assert.Equal(t, 2, d.Children)
	assert.Equal(t, len(`{"b":1,"a":[true]}`), d.Size)
	assert.Equal(t, "{\n  \"b\": 1,\n  \"a\": [\n    true\n  ]\n}", d.Copy)
}

func TestBuildUsesElementKey(t *testing.T) {
	d, err := Build(jsonpath.MustParse("thoughts[1]"), value.String("maybe"))
	require.NoError(t, err)
	assert.Equal(t, classify.Reasoning, d.Type)
	assert.Equal(t, "maybe", d.Payload.Text)
}

func TestBuildToolCall(t *testing.T) {
	v, err := value.Decode([]byte(`{"function":"search","arguments":{"q":"go"}}`))
	require.NoError(t, err)
	d, err := Build(jsonpath.MustParse("calls[0]"), v)
	require.NoError(t, err)
	assert.Equal(t, classify.ToolCall, d.Type)
	assert.Equal(t, "search", d.Payload.ToolCall.Name)
}

func TestBuildCycle(t *testing.T) {
	v := value.Object()
	v.Set("self", v)
	_, err := Build(nil, v)
	assert.ErrorIs(t, err, value.ErrCycle)
}

func TestFromEvent(t *testing.T) {
	root, err := value.Decode([]byte(`{"code":"` + "```go\\nfmt.Println(1)\\n```" + `"}`))
	require.NoError(t, err)

	var got Detail
	nav := navigator.New(root, navigator.WithListener(func(ev navigator.SelectionEvent) {
		got, err = FromEvent(ev)
	}))
	require.NoError(t, nav.SelectKey(0, "code"))
	require.NoError(t, err)
	assert.Equal(t, classify.Code, got.Type)
	assert.Equal(t, "go", got.Payload.Code.Language)
	require.Len(t, got.Blocks, 1)
	assert.Equal(t, "go", got.Blocks[0].Language)
	assert.Equal(t, "fmt.Println(1)", strings.TrimSpace(got.Blocks[0].Content))
}

func TestFencedBlocks(t *testing.T) {
	md := "Intro text.\n\n```python\nprint('a')\n```\n\nMiddle.\n\n```\nplain\n```\n"
	blocks := FencedBlocks(md)
	require.Len(t, blocks, 2)
	assert.Equal(t, "python", blocks[0].Language)
	assert.Equal(t, "print('a')", strings.TrimSpace(blocks[0].Content))
	assert.Equal(t, "text", blocks[1].Language)
	assert.Equal(t, "plain", strings.TrimSpace(blocks[1].Content))

	assert.Nil(t, FencedBlocks("no code here"))
	assert.Empty(t, FencedBlocks("    indented code is not fenced\n"))
}
