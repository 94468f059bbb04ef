// Package tui lets host applications open the kvlens browser over their own
// data, or render a single frame of it.
package tui

import (
	"fmt"
	"os"
	"strconv"

	tea "charm.land/bubbletea/v2"
	"github.com/go-logr/logr"
	"golang.org/x/term"

	"github.com/oakwood-commons/kvlens/internal/jsonpath"
	"github.com/oakwood-commons/kvlens/internal/ui"
	"github.com/oakwood-commons/kvlens/pkg/core"
)

// defaultFallbackTermWidth is used when terminal size cannot be detected.
const defaultFallbackTermWidth = 120

// DetectTerminalSize returns the best-effort terminal width and height by
// probing stdout, stderr and stdin, then the COLUMNS environment variable.
// Without either it returns 120x24.
func DetectTerminalSize() (width int, height int) {
	fds := []uintptr{os.Stdout.Fd(), os.Stderr.Fd(), os.Stdin.Fd()}
	for _, fd := range fds {
		if w, h, err := term.GetSize(int(fd)); err == nil && w > 0 && h > 0 {
			return w, h
		}
	}
	if col := os.Getenv("COLUMNS"); col != "" {
		if w, err := strconv.Atoi(col); err == nil && w > 0 {
			return w, 24
		}
	}
	return defaultFallbackTermWidth, 24
}

// NewSession loads root and applies cfg's query and start path. root may be
// a *value.Value, raw JSON/YAML/TOML text, or any Go value that marshals to
// JSON.
func NewSession(root any, cfg Config) (*core.Session, error) {
	if cfg.Logger.GetSink() == nil {
		cfg.Logger = logr.Discard()
	}
	engine, err := core.New(
		core.WithBounds(cfg.Bounds),
		core.WithExpandStrings(cfg.ExpandStrings),
		core.WithLogger(cfg.Logger),
	)
	if err != nil {
		return nil, err
	}
	doc, err := engine.LoadObject(root)
	if err != nil {
		return nil, err
	}
	s := engine.NewSession(doc)
	if cfg.Query != "" {
		s.SetQuery(cfg.Query)
	}
	if cfg.StartPath != "" {
		p, err := jsonpath.Parse(cfg.StartPath)
		if err != nil {
			return nil, fmt.Errorf("start path: %w", err)
		}
		if err := s.SelectPath(p); err != nil {
			return nil, fmt.Errorf("start path %s: %w", cfg.StartPath, err)
		}
	}
	return s, nil
}

// Run opens the browser over root and blocks until the user quits. Extra
// ProgramOptions control IO.
func Run(root any, cfg Config, opts ...tea.ProgramOption) error {
	s, err := NewSession(root, cfg)
	if err != nil {
		return err
	}
	keyMode, err := ui.ParseKeyMode(cfg.KeyMode)
	if err != nil {
		return err
	}
	return ui.Run(s, ui.RunOptions{
		Width:          cfg.Width,
		Height:         cfg.Height,
		NoColor:        cfg.NoColor,
		KeyMode:        keyMode,
		Title:          cfg.Title,
		Logger:         cfg.Logger,
		ProgramOptions: opts,
	})
}

// Render returns one frame of the browser without starting a program.
// A zero Width or Height is detected from the terminal.
func Render(root any, cfg Config) (string, error) {
	s, err := NewSession(root, cfg)
	if err != nil {
		return "", err
	}
	keyMode, err := ui.ParseKeyMode(cfg.KeyMode)
	if err != nil {
		return "", err
	}
	w, h := cfg.Width, cfg.Height
	if w <= 0 || h <= 0 {
		dw, dh := DetectTerminalSize()
		if w <= 0 {
			w = dw
		}
		if h <= 0 {
			h = dh
		}
	}
	m := ui.New(s,
		ui.WithKeyMode(keyMode),
		ui.WithNoColor(cfg.NoColor),
		ui.WithSize(w, h),
		ui.WithTitle(cfg.Title),
		ui.WithLogger(cfg.Logger),
	)
	return m.Render(), nil
}

// CopyToClipboard copies text to the system clipboard.
func CopyToClipboard(text string) error {
	return ui.CopyToClipboard(text)
}
