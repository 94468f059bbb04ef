package ui

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/oakwood-commons/kvlens/internal/formatter"
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("248"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	ruleStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

func (m *Model) View() tea.View {
	v := tea.NewView(m.Render())
	v.AltScreen = true
	return v
}

// Render draws the full screen: header, columns, detail pane and footer.
func (m *Model) Render() string {
	header := m.renderHeader()
	footer := m.renderFooter()
	body := m.height - lipgloss.Height(header) - lipgloss.Height(footer)
	if body < 3 {
		body = 3
	}

	var content string
	if m.showHelp {
		content = clipLines(HelpText(m.keyMode), body)
	} else {
		content = m.renderBody(body)
	}
	return strings.Join([]string{header, content, footer}, "\n")
}

func (m *Model) renderHeader() string {
	title := "kvlens"
	if m.title != "" {
		title += "  " + m.title
	}
	if q := m.session.Query(); q != "" {
		title += "  /" + q
	}
	title = formatter.Truncate(title, m.width)
	if m.noColor {
		return title
	}
	return titleStyle.Render(title)
}

func (m *Model) renderBody(height int) string {
	colRows := height - 2
	detailRows := 0
	if m.showDetail {
		colRows = height/2 - 2
		detailRows = height - height/2 - 1
	}
	if colRows < 1 {
		colRows = 1
	}

	cols := formatter.RenderColumns(m.session.State(), formatter.ColumnsOptions{
		Width:   m.width,
		Height:  colRows,
		NoColor: m.noColor,
		Focus:   m.focus,
		Cursors: m.cursors,
	})
	if !m.showDetail {
		return cols
	}

	rule := strings.Repeat("─", max(1, m.width))
	if !m.noColor {
		rule = ruleStyle.Render(rule)
	}
	var pane string
	d, err := m.session.Detail()
	if err != nil {
		pane = err.Error()
	} else {
		pane = formatter.RenderDetail(d, formatter.DetailOptions{Width: m.width, NoColor: m.noColor})
	}
	return strings.Join([]string{cols, rule, clipLines(pane, detailRows)}, "\n")
}

func (m *Model) renderFooter() string {
	lines := []string{formatter.RenderSummary(m.session.Summary(), m.noColor)}
	if m.searching {
		lines = append(lines, m.searchInput.View())
	} else if m.status != "" {
		switch {
		case m.noColor:
			lines = append(lines, m.status)
		case m.statusErr:
			lines = append(lines, errorStyle.Render(m.status))
		default:
			lines = append(lines, statusStyle.Render(m.status))
		}
	} else {
		hint := fmt.Sprintf("%s search  %s copy  %s help  %s quit",
			firstKey(m.keyMode, ActionSearch), firstKey(m.keyMode, ActionCopy),
			firstKey(m.keyMode, ActionHelp), firstKey(m.keyMode, ActionQuit))
		if !m.noColor {
			hint = statusStyle.Render(hint)
		}
		lines = append(lines, hint)
	}
	return strings.Join(lines, "\n")
}

func firstKey(mode KeyMode, a Action) string {
	table := VimKeyBindings
	if mode == KeyModeEmacs {
		table = EmacsKeyBindings
	}
	if keys := keysFor(table, a); len(keys) > 0 {
		return keys[0]
	}
	return "?"
}

// clipLines keeps the first n lines of s.
func clipLines(s string, n int) string {
	if n <= 0 {
		return ""
	}
	lines := strings.Split(s, "\n")
	if len(lines) <= n {
		return s
	}
	return strings.Join(lines[:n], "\n")
}
