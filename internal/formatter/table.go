package formatter

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

const (
	columnGap      = 2
	minColumnWidth = 5
)

// TableOptions controls RenderTable.
type TableOptions struct {
	NoColor bool
	// MaxWidth caps the rendered width. 0 means no limit.
	MaxWidth int
}

// RenderTable renders rows under headers, sized to fit the content. When
// the natural width exceeds MaxWidth the widest columns are shrunk first and
// cells are truncated with "...". The first column is styled as a key.
func RenderTable(headers []string, rows [][]string, opts TableOptions) string {
	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = runewidth.StringWidth(h)
	}
	for _, row := range rows {
		for i := range widths {
			if i < len(row) {
				if w := runewidth.StringWidth(row[i]); w > widths[i] {
					widths[i] = w
				}
			}
		}
	}
	if opts.MaxWidth > 0 {
		shrink(widths, opts.MaxWidth-columnGap*(len(widths)-1))
	}

	total := columnGap * (len(widths) - 1)
	for _, w := range widths {
		total += w
	}

	var b strings.Builder
	header := make([]string, len(headers))
	for i, h := range headers {
		header[i] = padRight(Truncate(h, widths[i]), widths[i])
		if !opts.NoColor {
			header[i] = headerStyle.Render(header[i])
		}
	}
	b.WriteString(strings.Join(header, strings.Repeat(" ", columnGap)) + "\n")

	sep := strings.Repeat("─", total)
	if !opts.NoColor {
		sep = separatorStyle.Render(sep)
	}
	b.WriteString(sep + "\n")

	for _, row := range rows {
		cells := make([]string, len(widths))
		for i := range widths {
			cell := ""
			if i < len(row) {
				cell = Truncate(row[i], widths[i])
			}
			if i < len(widths)-1 {
				cell = padRight(cell, widths[i])
			}
			if !opts.NoColor {
				if i == 0 {
					cell = keyStyle.Render(cell)
				} else {
					cell = valueStyle.Render(cell)
				}
			}
			cells[i] = cell
		}
		b.WriteString(strings.TrimRight(strings.Join(cells, strings.Repeat(" ", columnGap)), " ") + "\n")
	}
	return b.String()
}

// shrink narrows the widest column one cell at a time until the widths fit
// into available or every column is at minColumnWidth.
func shrink(widths []int, available int) {
	sum := 0
	for _, w := range widths {
		sum += w
	}
	for sum > available {
		widest := -1
		for i, w := range widths {
			if w > minColumnWidth && (widest < 0 || w > widths[widest]) {
				widest = i
			}
		}
		if widest < 0 {
			return
		}
		widths[widest]--
		sum--
	}
}
