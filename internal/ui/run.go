package ui

import (
	"os"

	tea "charm.land/bubbletea/v2"
	"github.com/go-logr/logr"
	"golang.org/x/term"

	"github.com/oakwood-commons/kvlens/pkg/core"
)

// RunOptions configures Run.
type RunOptions struct {
	// Width and Height of 0 are detected from the terminal.
	Width   int
	Height  int
	NoColor bool
	KeyMode KeyMode
	Title   string
	Logger  logr.Logger
	// ProgramOptions are passed to tea.NewProgram, e.g. custom IO in tests.
	ProgramOptions []tea.ProgramOption
}

// Run starts the browser over s and blocks until the user quits.
func Run(s *core.Session, opts RunOptions) error {
	width, height := opts.Width, opts.Height
	if width <= 0 || height <= 0 {
		if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
			if width <= 0 {
				width = w
			}
			if height <= 0 {
				height = h
			}
		}
	}
	if width <= 0 {
		width = 80
	}
	if height <= 0 {
		height = 24
	}
	log := opts.Logger
	if log.GetSink() == nil {
		log = logr.Discard()
	}

	m := New(s,
		WithKeyMode(opts.KeyMode),
		WithNoColor(opts.NoColor),
		WithSize(width, height),
		WithTitle(opts.Title),
		WithLogger(log),
	)
	progOpts := append([]tea.ProgramOption{tea.WithWindowSize(width, height)}, opts.ProgramOptions...)
	_, err := tea.NewProgram(m, progOpts...).Run()
	return err
}
