package tui

import (
	"github.com/go-logr/logr"

	"github.com/oakwood-commons/kvlens/internal/limiter"
)

// Config holds host-provided settings for running the browser.
type Config struct {
	Title   string
	Width   int
	Height  int
	NoColor bool
	// KeyMode is "vim" (default) or "emacs".
	KeyMode string
	// Query is applied as the initial search.
	Query string
	// StartPath is selected before the browser opens, e.g. "messages[0]".
	StartPath string
	// ExpandStrings decodes string values that hold JSON or a JWT.
	ExpandStrings bool
	Bounds        limiter.Bounds
	Logger        logr.Logger
}

// DefaultConfig returns the same defaults as the CLI.
func DefaultConfig() Config {
	return Config{
		Title:   "kvlens",
		KeyMode: "vim",
		Bounds:  limiter.DefaultBounds(),
		Logger:  logr.Discard(),
	}
}
