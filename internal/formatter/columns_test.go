package formatter

import (
	"strings"
	"testing"

	"github.com/oakwood-commons/kvlens/internal/detail"
	"github.com/oakwood-commons/kvlens/internal/jsonpath"
	"github.com/oakwood-commons/kvlens/internal/navigator"
	"github.com/oakwood-commons/kvlens/pkg/value"
)

func TestRenderColumns(t *testing.T) {
	nav := navigator.New(mustDecode(t, `{"user":{"name":"alice","tags":["a","b"]},"n":1}`))
	if err := nav.SelectKey(0, "user"); err != nil {
		t.Fatalf("select: %v", err)
	}

	out := RenderColumns(nav.State(), ColumnsOptions{Width: 80, NoColor: true, Focus: 1})
	for _, want := range []string{"(root)", "▸ user", "Object(2)", "user", "name  alice", "tags  Array(2)", "│"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in output:\n%s", want, out)
		}
	}
}

func TestRenderColumnsDropsLeftColumns(t *testing.T) {
	nav := navigator.New(mustDecode(t, `{"a":{"b":{"c":{"d":"deep","l":[1]}}}}`))
	for i, key := range []string{"a", "b", "c"} {
		if err := nav.SelectKey(i, key); err != nil {
			t.Fatalf("select %s: %v", key, err)
		}
	}

	out := RenderColumns(nav.State(), ColumnsOptions{Width: 40, NoColor: true})
	if strings.Contains(out, "(root)") {
		t.Errorf("expected root column scrolled away:\n%s", out)
	}
	if !strings.Contains(out, "d  deep") {
		t.Errorf("expected deepest column visible:\n%s", out)
	}
}

func TestRenderColumnsWindow(t *testing.T) {
	items := make([]*value.Value, 20)
	for i := range items {
		items[i] = value.Int(int64(i))
	}
	nav := navigator.New(value.Array(items...))

	out := RenderColumns(nav.State(), ColumnsOptions{Width: 40, Height: 5, NoColor: true, Cursors: []int{12}})
	if !strings.Contains(out, "[12]") || strings.Contains(out, "[0] ") {
		t.Errorf("expected window around cursor:\n%s", out)
	}
	if lines := strings.Count(out, "\n") + 1; lines != 6 {
		t.Errorf("expected 6 lines, got %d:\n%s", lines, out)
	}
}

func TestWindow(t *testing.T) {
	tests := []struct {
		n, cursor, height int
		start, end        int
	}{
		{10, 0, 0, 0, 10},
		{3, 2, 5, 0, 3},
		{10, 2, 5, 0, 5},
		{10, 7, 5, 3, 8},
		{10, 9, 5, 5, 10},
	}
	for _, tt := range tests {
		start, end := window(tt.n, tt.cursor, tt.height)
		if start != tt.start || end != tt.end {
			t.Errorf("window(%d, %d, %d) = %d, %d; want %d, %d", tt.n, tt.cursor, tt.height, start, end, tt.start, tt.end)
		}
	}
}

func TestRenderDetail(t *testing.T) {
	d, err := detail.Build(jsonpath.MustParse("a"), value.String("hello"))
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	got := RenderDetail(d, DetailOptions{NoColor: true})
	want := "path: a\ntype: text (string, 7 B)\n" + strings.Repeat("─", 40) + "\nhello\n"
	if got != want {
		t.Errorf("RenderDetail() =\n%q\nwant\n%q", got, want)
	}
}

func TestRenderDetailPayloads(t *testing.T) {
	tests := []struct {
		name  string
		path  string
		doc   string
		wants []string
	}{
		{"code", "snippet", `"` + "```python\\nprint(1)\\n```" + `"`, []string{"type: code", "language: python", "print(1)"}},
		{"math", "f", `"Energy $E=mc^2$ here"`, []string{"type: math", "Energy $E=mc^2$ here"}},
		{"image", "img", `"https://example.com/cat.png"`, []string{"type: image", "format: png", "source: https://example.com/cat.png"}},
		{"tool call", "call", `{"name":"lookup","arguments":{"q":"x"},"type":"function"}`, []string{"type: tool_call", "tool: lookup", "arguments:", `"q": "x"`}},
		{"object", "o", `{"a":{"b":1}}`, []string{"type: object (object, 1 entries", `"b": 1`}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := detail.Build(jsonpath.MustParse(tt.path), mustDecode(t, tt.doc))
			if err != nil {
				t.Fatalf("build: %v", err)
			}
			out := RenderDetail(d, DetailOptions{NoColor: true, Width: 60})
			for _, want := range tt.wants {
				if !strings.Contains(out, want) {
					t.Errorf("expected %q in output:\n%s", want, out)
				}
			}
		})
	}
}

func TestRenderDetailWrapsProse(t *testing.T) {
	d, err := detail.Build(jsonpath.MustParse("analysis"), value.String("one two three four five six"))
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	out := RenderDetail(d, DetailOptions{NoColor: true, Width: 10})
	if !strings.Contains(out, "one two\nthree four\nfive six") {
		t.Errorf("expected wrapped prose:\n%s", out)
	}
}
