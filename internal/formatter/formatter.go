package formatter

import (
	"fmt"
	"image/color"
	"os"
	"strings"

	"charm.land/lipgloss/v2"
	"github.com/mattn/go-runewidth"
	"golang.org/x/term"

	"github.com/oakwood-commons/kvlens/internal/classify"
	"github.com/oakwood-commons/kvlens/pkg/value"
)

// DefaultPreviewWidth is the number of display cells a string preview keeps
// before it is cut.
const DefaultPreviewWidth = 50

var (
	defaultHeaderFG   = lipgloss.Color("12")
	defaultHeaderBG   = lipgloss.Color("236")
	defaultKeyColor   = lipgloss.Color("14")
	defaultValueColor = lipgloss.Color("248")
	defaultSeparator  = lipgloss.Color("240")
	defaultSelectedBG = lipgloss.Color("238")

	defaultTypeColors = map[classify.SemanticType]color.Color{
		classify.Primitive: lipgloss.Color("248"),
		classify.Text:      lipgloss.Color("252"),
		classify.Reasoning: lipgloss.Color("13"),
		classify.Code:      lipgloss.Color("10"),
		classify.Math:      lipgloss.Color("11"),
		classify.Image:     lipgloss.Color("14"),
		classify.ToolCall:  lipgloss.Color("208"),
		classify.Array:     lipgloss.Color("12"),
		classify.Object:    lipgloss.Color("12"),
		classify.JSON:      lipgloss.Color("6"),
	}

	headerStyle    lipgloss.Style
	keyStyle       lipgloss.Style
	valueStyle     lipgloss.Style
	separatorStyle lipgloss.Style
	selectedStyle  lipgloss.Style
	focusStyle     lipgloss.Style
	typeStyles     map[classify.SemanticType]lipgloss.Style
)

// Theme controls the rendered colors. Nil fields fall back to the defaults
// (ANSI 256 codes).
type Theme struct {
	HeaderFG       color.Color
	HeaderBG       color.Color
	KeyColor       color.Color
	ValueColor     color.Color
	SeparatorColor color.Color
	SelectedBG     color.Color
	TypeColors     map[classify.SemanticType]color.Color
}

func orDefault(c, def color.Color) color.Color {
	if c == nil {
		return def
	}
	return c
}

func applyTheme(th Theme) {
	headerStyle = lipgloss.NewStyle().Bold(true).
		Foreground(orDefault(th.HeaderFG, defaultHeaderFG)).
		Background(orDefault(th.HeaderBG, defaultHeaderBG))
	keyStyle = lipgloss.NewStyle().Foreground(orDefault(th.KeyColor, defaultKeyColor))
	valueStyle = lipgloss.NewStyle().Foreground(orDefault(th.ValueColor, defaultValueColor))
	separatorStyle = lipgloss.NewStyle().Foreground(orDefault(th.SeparatorColor, defaultSeparator))
	selectedStyle = lipgloss.NewStyle().Bold(true).Background(orDefault(th.SelectedBG, defaultSelectedBG))
	focusStyle = lipgloss.NewStyle().Bold(true).Reverse(true)

	typeStyles = make(map[classify.SemanticType]lipgloss.Style, len(classify.AllTypes))
	for _, t := range classify.AllTypes {
		typeStyles[t] = lipgloss.NewStyle().Foreground(orDefault(th.TypeColors[t], defaultTypeColors[t]))
	}
}

// SetTheme overrides the package styles. Zero-valued fields fall back to
// the defaults.
func SetTheme(th Theme) {
	applyTheme(th)
}

//nolint:gochecknoinits // initialize default theme for package consumers
func init() {
	applyTheme(Theme{})
}

// TypeLabel renders a semantic type name in its color.
func TypeLabel(t classify.SemanticType, noColor bool) string {
	if noColor {
		return string(t)
	}
	return typeStyles[t].Render(string(t))
}

// Preview is the one-line summary of a node shown next to its key:
// Array(n) and Object(n) for containers, the JSON text for scalars and the
// string itself, cut after width display cells, for strings.
func Preview(v *value.Value, width int) string {
	switch v.Kind() {
	case value.KindArray:
		return fmt.Sprintf("Array(%d)", v.Len())
	case value.KindObject:
		return fmt.Sprintf("Object(%d)", v.Len())
	case value.KindString:
		s, _ := v.AsString()
		s = SingleLine(s)
		if width > 0 && runewidth.StringWidth(s) > width {
			return runewidth.Truncate(s, width, "") + "..."
		}
		return s
	default:
		return v.Scalar()
	}
}

// SingleLine flattens line breaks so a string stays on one row.
func SingleLine(s string) string {
	if s == "" {
		return s
	}
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	s = strings.ReplaceAll(s, "\t", " ")
	return strings.ReplaceAll(s, "\n", "\\n")
}

// Truncate fits s into width display cells, ending with "..." when it had
// to cut.
func Truncate(s string, width int) string {
	if width <= 0 || runewidth.StringWidth(s) <= width {
		return s
	}
	if width < 3 {
		return runewidth.Truncate(s, width, "")
	}
	return runewidth.Truncate(s, width, "...")
}

// padRight pads s with spaces to width display cells.
func padRight(s string, width int) string {
	w := runewidth.StringWidth(s)
	if w >= width {
		return s
	}
	return s + strings.Repeat(" ", width-w)
}

// TerminalWidth returns the width of stdout, or 120 when it is not a
// terminal.
func TerminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return 120
	}
	return width
}
