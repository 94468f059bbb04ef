package formatter

import (
	"fmt"
	"strings"

	"github.com/mitchellh/go-wordwrap"

	"github.com/oakwood-commons/kvlens/internal/classify"
	"github.com/oakwood-commons/kvlens/internal/detail"
	"github.com/oakwood-commons/kvlens/pkg/value"
)

// DetailOptions controls RenderDetail.
type DetailOptions struct {
	// Width wraps prose and truncates long single-line values. 0 disables
	// both.
	Width   int
	NoColor bool
}

// RenderDetail renders the detail pane for one node: a header with path,
// type, kind and size, followed by the type-specific payload.
func RenderDetail(d detail.Detail, opts DetailOptions) string {
	var b strings.Builder

	label := func(s string) string {
		if opts.NoColor {
			return s
		}
		return keyStyle.Render(s)
	}

	fmt.Fprintf(&b, "%s %s\n", label("path:"), d.PathText())
	kind := d.Kind.String()
	if d.Kind == value.KindArray || d.Kind == value.KindObject {
		kind = fmt.Sprintf("%s, %d entries", kind, d.Children)
	}
	fmt.Fprintf(&b, "%s %s (%s, %s)\n", label("type:"), TypeLabel(d.Type, opts.NoColor), kind, d.SizeText)

	rule := strings.Repeat("─", ruleWidth(opts.Width))
	if !opts.NoColor {
		rule = separatorStyle.Render(rule)
	}
	b.WriteString(rule + "\n")

	p := d.Payload
	switch d.Type {
	case classify.Code:
		fmt.Fprintf(&b, "%s %s\n", label("language:"), languageOf(p.Code))
		b.WriteString(strings.TrimRight(p.Code.Content, "\n") + "\n")
	case classify.Math:
		b.WriteString(renderMath(p.Math, opts) + "\n")
	case classify.Image:
		fmt.Fprintf(&b, "%s %s\n", label("format:"), p.Image.Format)
		source := p.Image.Source
		if p.Image.DataURI {
			source = Truncate(source, max(opts.Width, DefaultPreviewWidth))
		}
		fmt.Fprintf(&b, "%s %s\n", label("source:"), source)
	case classify.ToolCall:
		renderToolCall(&b, p.ToolCall, label)
	case classify.Text, classify.Reasoning:
		b.WriteString(wrap(p.Text, opts.Width) + "\n")
	case classify.Primitive:
		b.WriteString(p.Text + "\n")
	default:
		b.WriteString(strings.TrimRight(d.Copy, "\n") + "\n")
	}

	if len(d.Blocks) > 0 && !(d.Type == classify.Code && len(d.Blocks) == 1) {
		fmt.Fprintf(&b, "\n%s %d\n", label("code blocks:"), len(d.Blocks))
		for i, blk := range d.Blocks {
			fmt.Fprintf(&b, "[%d] %s\n%s\n", i+1, blk.Language, strings.TrimRight(blk.Content, "\n"))
		}
	}
	return b.String()
}

func ruleWidth(width int) int {
	if width <= 0 || width > 80 {
		return 40
	}
	return width
}

func languageOf(c classify.CodeInfo) string {
	if c.Language == "" {
		return "(unknown)"
	}
	return c.Language
}

func wrap(s string, width int) string {
	if width <= 0 {
		return s
	}
	return wordwrap.WrapString(s, uint(width))
}

func renderMath(segs []classify.MathSegment, opts DetailOptions) string {
	var b strings.Builder
	for _, seg := range segs {
		if !seg.Formula {
			b.WriteString(seg.Text)
			continue
		}
		f := "$" + seg.Text + "$"
		if seg.Block {
			f = "\n$$" + seg.Text + "$$\n"
		}
		if !opts.NoColor {
			f = typeStyles[classify.Math].Render(f)
		}
		b.WriteString(f)
	}
	return strings.Trim(b.String(), "\n")
}

func renderToolCall(b *strings.Builder, tc classify.ToolCallInfo, label func(string) string) {
	name := tc.Name
	if name == "" {
		name = "(unnamed)"
	}
	fmt.Fprintf(b, "%s %s\n", label("tool:"), name)
	if tc.Arguments != nil {
		fmt.Fprintf(b, "%s\n%s\n", label("arguments:"), indentedJSON(tc.Arguments))
	}
	if tc.Result != nil {
		fmt.Fprintf(b, "%s\n%s\n", label("result:"), indentedJSON(tc.Result))
	}
}

func indentedJSON(v *value.Value) string {
	if s, ok := v.AsString(); ok {
		return s
	}
	out, err := value.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Sprintf("<%v>", err)
	}
	return string(out)
}
