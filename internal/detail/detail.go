// Package detail assembles what the detail pane shows for the selected node.
package detail

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/ast"
	"github.com/gomarkdown/markdown/parser"

	"github.com/oakwood-commons/kvlens/internal/classify"
	"github.com/oakwood-commons/kvlens/internal/jsonpath"
	"github.com/oakwood-commons/kvlens/internal/navigator"
	"github.com/oakwood-commons/kvlens/pkg/value"
)

// Detail describes one selected node.
type Detail struct {
	Path     jsonpath.Path
	Type     classify.SemanticType
	Kind     value.Kind
	Children int
	// Size is the length of the compact JSON encoding in bytes.
	Size     int
	SizeText string
	// Copy is the clipboard form: strings verbatim, everything else as
	// indented JSON.
	Copy    string
	Payload classify.Payload
	// Blocks are the fenced code blocks found in string content.
	Blocks []CodeBlock
}

// CodeBlock is a fenced code block found in prose.
type CodeBlock struct {
	Language string
	Content  string
}

// PathText is the canonical path string, "(root)" for the document root.
func (d Detail) PathText() string {
	if len(d.Path) == 0 {
		return "(root)"
	}
	return d.Path.String()
}

// FromEvent builds the detail for a navigator selection.
func FromEvent(ev navigator.SelectionEvent) (Detail, error) {
	return Build(ev.Path, ev.Value)
}

// Build describes the node v found at path. It fails only when v cannot be
// encoded, which happens for cyclic value graphs.
func Build(path jsonpath.Path, v *value.Value) (Detail, error) {
	key := classify.PathKey(path)
	d := Detail{
		Path:     path,
		Kind:     v.Kind(),
		Children: v.Len(),
		Payload:  classify.Extract(key, v),
	}
	d.Type = d.Payload.Type

	compact, err := v.MarshalJSON()
	if err != nil {
		return d, fmt.Errorf("encoding %s: %w", d.PathText(), err)
	}
	d.Size = len(compact)
	d.SizeText = humanize.Bytes(uint64(d.Size))

	if s, ok := v.AsString(); ok {
		d.Copy = s
		d.Blocks = FencedBlocks(s)
	} else {
		indented, err := value.MarshalIndent(v, "", "  ")
		if err != nil {
			return d, fmt.Errorf("encoding %s: %w", d.PathText(), err)
		}
		d.Copy = string(indented)
	}
	return d, nil
}

// FencedBlocks returns the fenced code blocks of a markdown string in
// document order. Blocks without an info string get the language "text".
func FencedBlocks(s string) []CodeBlock {
	if !strings.Contains(s, "```") && !strings.Contains(s, "~~~") {
		return nil
	}
	p := parser.NewWithExtensions(parser.CommonExtensions)
	doc := markdown.Parse([]byte(s), p)

	var blocks []CodeBlock
	ast.WalkFunc(doc, func(node ast.Node, entering bool) ast.WalkStatus {
		cb, ok := node.(*ast.CodeBlock)
		if !ok || !entering || !cb.IsFenced {
			return ast.GoToNext
		}
		lang := strings.TrimSpace(string(cb.Info))
		if i := strings.IndexAny(lang, " \t"); i >= 0 {
			lang = lang[:i]
		}
		if lang == "" {
			lang = "text"
		}
		blocks = append(blocks, CodeBlock{Language: lang, Content: string(cb.Literal)})
		return ast.GoToNext
	})
	return blocks
}
