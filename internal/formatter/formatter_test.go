package formatter

import (
	"strings"
	"testing"

	"github.com/oakwood-commons/kvlens/internal/analyzer"
	"github.com/oakwood-commons/kvlens/internal/classify"
	"github.com/oakwood-commons/kvlens/internal/limiter"
	"github.com/oakwood-commons/kvlens/pkg/value"
)

func mustDecode(t *testing.T, doc string) *value.Value {
	t.Helper()
	v, err := value.Decode([]byte(doc))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	return v
}

func TestPreview(t *testing.T) {
	long := strings.Repeat("x", 60)
	tests := []struct {
		name string
		v    *value.Value
		want string
	}{
		{"null", value.Null(), "null"},
		{"nil", nil, "null"},
		{"bool", value.Bool(true), "true"},
		{"number", value.Number("1.50"), "1.50"},
		{"short string", value.String("hi"), "hi"},
		{"long string", value.String(long), strings.Repeat("x", 50) + "..."},
		{"multiline", value.String("a\nb"), `a\nb`},
		{"array", value.Array(value.Int(1), value.Int(2)), "Array(2)"},
		{"object", value.Object(value.M("k", value.Null())), "Object(1)"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Preview(tt.v, DefaultPreviewWidth); got != tt.want {
				t.Errorf("Preview() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestPreviewWideRunes(t *testing.T) {
	got := Preview(value.String("日本語のテキスト"), 6)
	if got != "日本語..." {
		t.Errorf("Preview() = %q, want %q", got, "日本語...")
	}
}

func TestTruncate(t *testing.T) {
	if got := Truncate("hello world", 8); got != "hello..." {
		t.Errorf("Truncate() = %q", got)
	}
	if got := Truncate("hello", 8); got != "hello" {
		t.Errorf("Truncate() = %q", got)
	}
	if got := Truncate("hello", 2); got != "he" {
		t.Errorf("Truncate() = %q", got)
	}
	if got := Truncate("hello", 0); got != "hello" {
		t.Errorf("Truncate() with no width = %q", got)
	}
}

func TestRenderTableNoColor(t *testing.T) {
	out := RenderTable([]string{"PATH", "TYPE"}, [][]string{
		{"a", "text"},
		{"messages[0]", "json"},
	}, TableOptions{NoColor: true})

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) != 4 {
		t.Fatalf("expected 4 lines, got %d:\n%s", len(lines), out)
	}
	if lines[0] != "PATH         TYPE" {
		t.Errorf("header = %q", lines[0])
	}
	if lines[1] != strings.Repeat("─", 17) {
		t.Errorf("separator = %q", lines[1])
	}
	if lines[2] != "a            text" {
		t.Errorf("row = %q", lines[2])
	}
	if lines[3] != "messages[0]  json" {
		t.Errorf("row = %q", lines[3])
	}
}

func TestRenderTableShrinks(t *testing.T) {
	out := RenderTable([]string{"K", "V"}, [][]string{
		{"key", strings.Repeat("v", 40)},
	}, TableOptions{NoColor: true, MaxWidth: 20})
	for _, line := range strings.Split(strings.TrimRight(out, "\n"), "\n") {
		if w := len([]rune(line)); w > 20 {
			t.Errorf("line %q is %d wide, want <= 20", line, w)
		}
	}
	if !strings.Contains(out, "...") {
		t.Errorf("expected truncated cell, got:\n%s", out)
	}
}

func TestRenderSummary(t *testing.T) {
	root := mustDecode(t, `{"reasoning":"because","code":"`+"```go\\nx()\\n```"+`","n":1}`)
	s := analyzer.Summarize(analyzer.Analyze(root))

	got := RenderSummary(s, true)
	want := "3 fields  primitive 1  reasoning 1  code 1"
	if got != want {
		t.Errorf("RenderSummary() = %q, want %q", got, want)
	}

	s.Truncated = true
	s.Reason = limiter.ReasonNodes
	if got := RenderSummary(s, true); !strings.HasSuffix(got, "(truncated: max_nodes)") {
		t.Errorf("RenderSummary() = %q, want truncation note", got)
	}
}

func TestRenderFields(t *testing.T) {
	root := mustDecode(t, `{"user":{"name":"alice"},"tags":["x"]}`)
	out := RenderFields(analyzer.Analyze(root).Fields, TableOptions{NoColor: true})

	for _, want := range []string{"PATH", "user", "user.name", "tags[0]", "alice", "Object(1)", "Array(1)"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in output:\n%s", want, out)
		}
	}
}

func TestTypeLabel(t *testing.T) {
	if got := TypeLabel(classify.ToolCall, true); got != "tool_call" {
		t.Errorf("TypeLabel() = %q", got)
	}
	if got := TypeLabel(classify.Code, false); !strings.Contains(got, "code") {
		t.Errorf("TypeLabel() colored = %q", got)
	}
}

func TestSingleLine(t *testing.T) {
	if got := SingleLine("a\r\nb\rc\td"); got != `a\nb\nc d` {
		t.Errorf("SingleLine() = %q", got)
	}
}
