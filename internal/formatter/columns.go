package formatter

import (
	"strings"

	"charm.land/lipgloss/v2"
	"github.com/mattn/go-runewidth"

	"github.com/oakwood-commons/kvlens/internal/navigator"
)

const (
	minNavColumnWidth = 18
	navColumnGap      = " │ "
)

// ColumnsOptions controls RenderColumns.
type ColumnsOptions struct {
	// Width is the total width available. 0 uses TerminalWidth.
	Width int
	// Height caps the entry rows per column. 0 shows every entry.
	Height  int
	NoColor bool
	// Focus is the column holding the keyboard focus, -1 for none.
	Focus int
	// Cursors holds the highlighted row of each column; missing or negative
	// entries fall back to the selected key.
	Cursors []int
}

// RenderColumns renders the open navigator columns side by side. Columns
// that do not fit are dropped from the left so the deepest column stays
// visible.
func RenderColumns(st navigator.State, opts ColumnsOptions) string {
	if len(st.Columns) == 0 {
		return ""
	}
	width := opts.Width
	if width <= 0 {
		width = TerminalWidth()
	}
	gap := runewidth.StringWidth(navColumnGap)

	visible := len(st.Columns)
	for visible > 1 && visible*minNavColumnWidth+(visible-1)*gap > width {
		visible--
	}
	first := len(st.Columns) - visible
	colWidth := (width - (visible-1)*gap) / visible
	if colWidth < 1 {
		colWidth = 1
	}

	rendered := make([]string, 0, visible)
	rows := 0
	for i := first; i < len(st.Columns); i++ {
		block := renderNavColumn(st, i, colWidth, opts)
		if h := lipgloss.Height(block); h > rows {
			rows = h
		}
		rendered = append(rendered, block)
	}

	gapLine := navColumnGap
	if !opts.NoColor {
		gapLine = separatorStyle.Render(navColumnGap)
	}
	gapBlock := strings.TrimSuffix(strings.Repeat(gapLine+"\n", rows), "\n")

	blocks := make([]string, 0, 2*visible-1)
	for i, block := range rendered {
		if i > 0 {
			blocks = append(blocks, gapBlock)
		}
		blocks = append(blocks, block)
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, blocks...)
}

func cursorFor(st navigator.State, i int, opts ColumnsOptions) int {
	if i < len(opts.Cursors) && opts.Cursors[i] >= 0 {
		return opts.Cursors[i]
	}
	if i < len(st.SelectedPath) {
		for row, node := range st.Columns[i].Nodes {
			if node.Key == st.SelectedPath[i] {
				return row
			}
		}
	}
	return -1
}

func renderNavColumn(st navigator.State, i, width int, opts ColumnsOptions) string {
	col := st.Columns[i]
	cursor := cursorFor(st, i, opts)
	selected := ""
	if i < len(st.SelectedPath) {
		selected = st.SelectedPath[i]
	}

	title := "(root)"
	if len(col.Path) > 0 {
		title = col.Path.String()
	}
	title = padRight(Truncate(title, width), width)
	if !opts.NoColor {
		if i == opts.Focus {
			title = focusStyle.Render(title)
		} else {
			title = headerStyle.Render(title)
		}
	}
	lines := []string{title}

	start, end := window(len(col.Nodes), cursor, opts.Height)
	if len(col.Nodes) == 0 {
		lines = append(lines, padRight("(empty)", width))
	}
	for row := start; row < end; row++ {
		node := col.Nodes[row]
		marker := "  "
		if node.Key == selected {
			marker = "▸ "
		}
		label := marker + node.Key
		preview := Preview(node.Value, DefaultPreviewWidth)
		line := padRight(Truncate(label+"  "+preview, width), width)
		if !opts.NoColor {
			switch {
			case row == cursor && i == opts.Focus:
				line = focusStyle.Render(line)
			case row == cursor:
				line = selectedStyle.Render(line)
			default:
				line = typeStyles[node.Type].Render(line)
			}
		}
		lines = append(lines, line)
	}
	if col.Truncated {
		lines = append(lines, padRight(Truncate("… more", width), width))
	}
	return strings.Join(lines, "\n")
}

// window returns the [start, end) range of rows to show so that cursor is
// visible within height rows.
func window(n, cursor, height int) (int, int) {
	if height <= 0 || n <= height {
		return 0, n
	}
	start := 0
	if cursor >= height {
		start = cursor - height + 1
	}
	if start+height > n {
		start = n - height
	}
	return start, start + height
}
