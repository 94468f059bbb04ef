package formatter

import (
	"errors"
	"strings"
	"testing"

	"github.com/oakwood-commons/kvlens/pkg/value"
)

func TestFormatYAMLKeepsOrder(t *testing.T) {
	root := mustDecode(t, `{"zeta":1,"alpha":"x","list":[true,null],"f":1.5}`)
	out, err := FormatYAML(root, YAMLFormatOptions{})
	if err != nil {
		t.Fatalf("FormatYAML: %v", err)
	}
	want := "zeta: 1\nalpha: x\nlist:\n  - true\n  - null\nf: 1.5\n"
	if out != want {
		t.Errorf("FormatYAML() =\n%s\nwant:\n%s", out, want)
	}
}

func TestFormatYAMLQuotesAmbiguousStrings(t *testing.T) {
	root := mustDecode(t, `{"a":"true","b":"12"}`)
	out, err := FormatYAML(root, YAMLFormatOptions{})
	if err != nil {
		t.Fatalf("FormatYAML: %v", err)
	}
	if !strings.Contains(out, `a: "true"`) || !strings.Contains(out, `b: "12"`) {
		t.Errorf("expected quoted strings, got:\n%s", out)
	}
}

func TestFormatYAMLLiteralBlocks(t *testing.T) {
	root := mustDecode(t, `{"text":"line1\nline2"}`)
	out, err := FormatYAML(root, YAMLFormatOptions{LiteralBlockStrings: true})
	if err != nil {
		t.Fatalf("FormatYAML: %v", err)
	}
	if !strings.Contains(out, "text: |") {
		t.Errorf("expected literal block, got:\n%s", out)
	}
}

func TestFormatYAMLCycle(t *testing.T) {
	root := value.Array()
	root.Append(root)
	if _, err := FormatYAML(root, YAMLFormatOptions{}); !errors.Is(err, value.ErrCycle) {
		t.Errorf("expected ErrCycle, got %v", err)
	}
}
