package formatter

import (
	"fmt"
	"strings"

	"github.com/oakwood-commons/kvlens/internal/analyzer"
	"github.com/oakwood-commons/kvlens/internal/classify"
)

// RenderSummary renders the one-line field count summary: the total, then
// every type with a non-zero count in classification order.
func RenderSummary(s analyzer.Summary, noColor bool) string {
	parts := []string{fmt.Sprintf("%d fields", s.Total)}
	for _, t := range classify.AllTypes {
		n := s.ByType[t]
		if n == 0 {
			continue
		}
		parts = append(parts, fmt.Sprintf("%s %d", TypeLabel(t, noColor), n))
	}
	line := strings.Join(parts, "  ")
	if s.Truncated {
		note := fmt.Sprintf("(truncated: %s)", s.Reason)
		if !noColor {
			note = separatorStyle.Render(note)
		}
		line += "  " + note
	}
	return line
}

// FieldRows turns analyzer fields into PATH, TYPE, PREVIEW rows.
func FieldRows(fields []analyzer.TypedField, previewWidth int) [][]string {
	rows := make([][]string, 0, len(fields))
	for _, f := range fields {
		rows = append(rows, []string{f.Path.String(), string(f.Type), Preview(f.Value, previewWidth)})
	}
	return rows
}

// RenderFields renders the analyzer inventory as a table.
func RenderFields(fields []analyzer.TypedField, opts TableOptions) string {
	return RenderTable([]string{"PATH", "TYPE", "PREVIEW"}, FieldRows(fields, DefaultPreviewWidth), opts)
}
