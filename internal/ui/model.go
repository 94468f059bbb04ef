// Package ui is the interactive column browser: a bubbletea model over a
// core.Session.
package ui

import (
	"fmt"

	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"github.com/dustin/go-humanize"
	"github.com/go-logr/logr"

	"github.com/oakwood-commons/kvlens/pkg/core"
)

// Option configures a Model.
type Option func(*Model)

// WithKeyMode selects the keybinding table.
func WithKeyMode(k KeyMode) Option {
	return func(m *Model) {
		if k != "" {
			m.keyMode = k
		}
	}
}

// WithNoColor disables styling.
func WithNoColor(noColor bool) Option {
	return func(m *Model) { m.noColor = noColor }
}

// WithSize sets the initial window size, used until the first
// tea.WindowSizeMsg.
func WithSize(width, height int) Option {
	return func(m *Model) {
		if width > 0 {
			m.width = width
		}
		if height > 0 {
			m.height = height
		}
	}
}

// WithTitle sets the header title, usually the document source.
func WithTitle(title string) Option {
	return func(m *Model) { m.title = title }
}

// WithLogger sets the logger for key handling diagnostics.
func WithLogger(l logr.Logger) Option {
	return func(m *Model) { m.log = l }
}

// Model is the browser state. Column selection goes through the session's
// navigator; the model only adds focus, cursors and the search box.
type Model struct {
	session *core.Session
	title   string
	keyMode KeyMode
	noColor bool
	log     logr.Logger

	width  int
	height int

	focus   int
	cursors []int

	searchInput textinput.Model
	searching   bool

	showDetail bool
	showHelp   bool
	status     string
	statusErr  bool
}

// New returns a browser over s.
func New(s *core.Session, opts ...Option) *Model {
	si := textinput.New()
	si.Placeholder = "search keys and values"
	si.CharLimit = 500
	si.Prompt = "/"
	si.SetWidth(40)

	m := &Model{
		session:     s,
		keyMode:     DefaultKeyMode,
		log:         logr.Discard(),
		width:       120,
		height:      30,
		searchInput: si,
		showDetail:  true,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.syncCursors()
	return m
}

func (m *Model) Init() tea.Cmd {
	return nil
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.searchInput.SetWidth(max(10, m.width-4))
		return m, nil
	case tea.KeyPressMsg:
		if m.searching {
			return m.updateSearch(msg)
		}
		action := ActionFor(m.keyMode, msg.String())
		m.log.V(2).Info("key", "key", msg.String(), "action", string(action))
		return m, m.handleAction(action)
	}
	return m, nil
}

func (m *Model) updateSearch(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		m.closeSearch()
		m.applyQuery(m.searchInput.Value())
		return m, nil
	case "esc":
		m.closeSearch()
		m.searchInput.SetValue(m.session.Query())
		return m, nil
	case "ctrl+c":
		return m, tea.Quit
	}
	var cmd tea.Cmd
	m.searchInput, cmd = m.searchInput.Update(msg)
	return m, cmd
}

func (m *Model) closeSearch() {
	m.searching = false
	m.searchInput.Blur()
}

func (m *Model) handleAction(a Action) tea.Cmd {
	switch a {
	case ActionDown:
		m.moveCursor(1)
	case ActionUp:
		m.moveCursor(-1)
	case ActionTop:
		m.moveCursor(-m.columnLen(m.focus))
	case ActionBottom:
		m.moveCursor(m.columnLen(m.focus))
	case ActionForward:
		m.forward()
	case ActionBack:
		if m.focus > 0 {
			m.focus--
		}
	case ActionSearch:
		m.searching = true
		m.searchInput.SetValue(m.session.Query())
		m.searchInput.CursorEnd()
		return m.searchInput.Focus()
	case ActionClearSearch:
		if m.showHelp {
			m.showHelp = false
		} else if m.session.Query() != "" {
			m.applyQuery("")
		}
	case ActionToggleDetail:
		m.showDetail = !m.showDetail
	case ActionHelp:
		m.showHelp = !m.showHelp
	case ActionCopy:
		m.copySelection()
	case ActionQuit:
		return tea.Quit
	case ActionNone:
	}
	return nil
}

func (m *Model) columnLen(i int) int {
	col, ok := m.session.Navigator().Column(i)
	if !ok {
		return 0
	}
	return col.Len()
}

// cursor returns the highlighted row of column i: the explicit cursor, the
// selected row, or the first row.
func (m *Model) cursor(i int) int {
	if i < len(m.cursors) && m.cursors[i] >= 0 {
		return m.cursors[i]
	}
	st := m.session.State()
	if i < len(st.SelectedPath) {
		for row, node := range st.Columns[i].Nodes {
			if node.Key == st.SelectedPath[i] {
				return row
			}
		}
	}
	return 0
}

func (m *Model) moveCursor(delta int) {
	n := m.columnLen(m.focus)
	if n == 0 {
		return
	}
	c := m.cursor(m.focus) + delta
	if c < 0 {
		c = 0
	}
	if c >= n {
		c = n - 1
	}
	m.cursors[m.focus] = c
	m.selectCursor()
}

// forward selects the highlighted row and moves focus into the column it
// opened, if any.
func (m *Model) forward() {
	if m.columnLen(m.focus) == 0 {
		return
	}
	st := m.session.State()
	if m.focus >= len(st.SelectedPath) || st.Columns[m.focus].Nodes[m.cursor(m.focus)].Key != st.SelectedPath[m.focus] {
		m.selectCursor()
	}
	if len(m.session.State().Columns) > m.focus+1 {
		m.focus++
		if m.columnLen(m.focus) > 0 {
			m.cursors[m.focus] = m.cursor(m.focus)
			m.selectCursor()
		}
	}
}

func (m *Model) selectCursor() {
	col, ok := m.session.Navigator().Column(m.focus)
	if !ok || col.Len() == 0 {
		return
	}
	c := m.cursor(m.focus)
	if err := m.session.Select(m.focus, col.Nodes[c]); err != nil {
		m.setError(err)
		return
	}
	m.status = ""
	m.syncCursors()
	m.cursors[m.focus] = c
}

// syncCursors sizes the cursor slice to the open columns. Columns to the
// right of the focus lose their cursor.
func (m *Model) syncCursors() {
	n := len(m.session.State().Columns)
	if m.focus >= n {
		m.focus = n - 1
	}
	next := make([]int, n)
	for i := range next {
		next[i] = -1
		if i <= m.focus && i < len(m.cursors) {
			next[i] = m.cursors[i]
		}
	}
	m.cursors = next
}

func (m *Model) applyQuery(q string) {
	m.session.SetQuery(q)
	m.focus = 0
	m.cursors = nil
	m.syncCursors()
	res := m.session.Search()
	switch {
	case res.Active() && !res.Matched:
		m.setStatus(fmt.Sprintf("no matches for %q", q))
	case res.Truncated:
		m.setStatus(fmt.Sprintf("search stopped early (%s)", res.Reason))
	default:
		m.setStatus("")
	}
}

func (m *Model) copySelection() {
	d, err := m.session.Detail()
	if err != nil {
		m.setError(err)
		return
	}
	if err := CopyToClipboard(d.Copy); err != nil {
		m.setError(fmt.Errorf("copy: %w", err))
		return
	}
	m.setStatus(fmt.Sprintf("copied %s (%s)", d.PathText(), humanize.Bytes(uint64(len(d.Copy)))))
}

func (m *Model) setStatus(s string) {
	m.status = s
	m.statusErr = false
}

func (m *Model) setError(err error) {
	m.status = err.Error()
	m.statusErr = true
	m.log.V(1).Info("browser error", "error", err.Error())
}

// Focus returns the focused column index.
func (m *Model) Focus() int { return m.focus }

// Status returns the status line message.
func (m *Model) Status() string { return m.status }

// Searching reports whether the search box is open.
func (m *Model) Searching() bool { return m.searching }
