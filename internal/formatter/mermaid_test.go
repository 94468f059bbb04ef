package formatter

import (
	"strings"
	"testing"

	"github.com/oakwood-commons/kvlens/pkg/value"
)

func TestFormatAsMermaid(t *testing.T) {
	root := mustDecode(t, `{"name":"alice","call":{"function":"f","arguments":{}}}`)
	result := FormatAsMermaid(root, MermaidOptions{})

	for _, want := range []string{
		"graph TD",
		`n0["root"]`,
		`n1["name: alice"]:::text`,
		"n0 --> n1",
		`n2["call"]:::tool_call`,
		"n2 --> n3",
		"classDef tool_call",
		"classDef text",
	} {
		if !strings.Contains(result, want) {
			t.Errorf("expected %q in output, got:\n%s", want, result)
		}
	}
}

func TestFormatAsMermaid_Options(t *testing.T) {
	root := mustDecode(t, `{"a":{"b":"say \"hi\""}}`)

	lr := FormatAsMermaid(root, MermaidOptions{Direction: "LR"})
	if !strings.HasPrefix(lr, "graph LR") {
		t.Errorf("expected LR direction, got:\n%s", lr)
	}
	if !strings.Contains(lr, "say 'hi'") {
		t.Errorf("expected quotes to be replaced, got:\n%s", lr)
	}

	limited := FormatAsMermaid(root, MermaidOptions{MaxDepth: 1})
	if !strings.Contains(limited, `["..."]`) {
		t.Errorf("expected depth marker, got:\n%s", limited)
	}

	noValues := FormatAsMermaid(root, MermaidOptions{NoValues: true})
	if strings.Contains(noValues, "hi") {
		t.Errorf("expected values hidden, got:\n%s", noValues)
	}
}

func TestFormatAsMermaid_ScalarRoot(t *testing.T) {
	result := FormatAsMermaid(value.Int(7), MermaidOptions{})
	if !strings.Contains(result, `n1["7"]:::primitive`) {
		t.Errorf("expected scalar node, got:\n%s", result)
	}
}

func TestSanitizeMermaidID(t *testing.T) {
	if got := SanitizeMermaidID("tool-call.x"); got != "tool_call_x" {
		t.Errorf("SanitizeMermaidID() = %q", got)
	}
}
