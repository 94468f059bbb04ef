package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/oakwood-commons/kvlens/internal/formatter"
	"github.com/oakwood-commons/kvlens/internal/limiter"
	"github.com/oakwood-commons/kvlens/pkg/core"
	"github.com/oakwood-commons/kvlens/pkg/value"
)

type outputMode string

const (
	outputSummary outputMode = "summary"
	outputFields  outputMode = "fields"
	outputColumns outputMode = "columns"
	outputDetail  outputMode = "detail"
	outputJSON    outputMode = "json"
	outputYAML    outputMode = "yaml"
	outputTree    outputMode = "tree"
	outputMermaid outputMode = "mermaid"
)

var outputModes = []string{
	string(outputSummary), string(outputFields), string(outputColumns), string(outputDetail),
	string(outputJSON), string(outputYAML), string(outputTree), string(outputMermaid),
}

func parseOutput(s string) (outputMode, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return outputColumns, nil
	}
	for _, m := range outputModes {
		if s == m {
			return outputMode(s), nil
		}
	}
	return "", fmt.Errorf("unknown output %q (want %s)", s, strings.Join(outputModes, "|"))
}

type renderOptions struct {
	noColor bool
	width   int
	limits  limiter.Config

	treeNoValues     bool
	treeShowTypes    bool
	treeMaxDepth     int
	treeExpandArrays bool
	mermaidDirection string
}

// render writes the session in the requested mode. Modes that print a
// document (json, yaml, tree, mermaid) print the current selection, or the
// explored root when nothing is selected.
func render(w io.Writer, s *core.Session, mode outputMode, opts renderOptions) error {
	var out string
	switch mode {
	case outputSummary:
		out = formatter.RenderSummary(s.Summary(), opts.noColor)
	case outputFields:
		res := s.Fields()
		fields := limiter.Apply(opts.limits, res.Fields)
		out = formatter.RenderFields(fields, formatter.TableOptions{NoColor: opts.noColor, MaxWidth: opts.width})
		if opts.limits.IsActive() {
			out += fmt.Sprintf("\n(showing %d of %s fields)", len(fields), humanize.Comma(int64(len(res.Fields))))
		}
		if res.Truncated {
			out += fmt.Sprintf("\n(truncated: %s)", res.Reason)
		}
	case outputColumns:
		out = formatter.RenderColumns(s.State(), formatter.ColumnsOptions{
			Width:   opts.width,
			NoColor: opts.noColor,
			Focus:   -1,
		})
	case outputDetail:
		d, err := s.Detail()
		if err != nil {
			return err
		}
		out = formatter.RenderDetail(d, formatter.DetailOptions{Width: opts.width, NoColor: opts.noColor})
	case outputJSON:
		data, err := value.MarshalIndent(current(s), "", "  ")
		if err != nil {
			return err
		}
		out = string(data)
	case outputYAML:
		text, err := formatter.FormatYAML(current(s), formatter.YAMLFormatOptions{Indent: 2, LiteralBlockStrings: true})
		if err != nil {
			return err
		}
		out = text
	case outputTree:
		out = formatter.FormatAsTree(current(s), formatter.TreeOptions{
			NoValues:     opts.treeNoValues,
			ShowTypes:    opts.treeShowTypes,
			MaxDepth:     opts.treeMaxDepth,
			ExpandArrays: opts.treeExpandArrays,
			MaxStringLen: opts.width,
		})
	case outputMermaid:
		out = formatter.FormatAsMermaid(current(s), formatter.MermaidOptions{
			Direction: opts.mermaidDirection,
			NoValues:  opts.treeNoValues,
			MaxDepth:  opts.treeMaxDepth,
		})
	default:
		return fmt.Errorf("unknown output %q", mode)
	}
	_, err := io.WriteString(w, strings.TrimRight(out, "\n")+"\n")
	return err
}

func current(s *core.Session) *value.Value {
	if node, ok := s.Navigator().Current(); ok {
		return node.Value
	}
	return s.Root()
}
