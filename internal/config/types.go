// Package config loads kvlens settings from an optional YAML file, an
// optional .env file and KVLENS_* environment variables. Command-line flags
// are applied on top by the cmd package.
package config

import (
	"github.com/oakwood-commons/kvlens/internal/limiter"
)

// Config is the merged configuration.
type Config struct {
	Limits  Limits  `yaml:"limits"`
	Display Display `yaml:"display"`
	Search  Search  `yaml:"search"`
	Input   Input   `yaml:"input"`
}

// Limits bounds traversal of untrusted documents.
type Limits struct {
	MaxDepth    int `yaml:"max_depth"`
	MaxNodes    int `yaml:"max_nodes"`
	ColumnCache int `yaml:"column_cache"`
}

// Display controls rendering.
type Display struct {
	NoColor bool   `yaml:"no_color"`
	Width   int    `yaml:"width"`
	Height  int    `yaml:"height"`
	Output  string `yaml:"output"`
	KeyMode string `yaml:"key_mode"`
}

// Search holds the query applied at startup.
type Search struct {
	Query string `yaml:"query"`
}

// Input controls how documents are parsed.
type Input struct {
	Format        string `yaml:"format"`
	ExpandStrings bool   `yaml:"expand_strings"`
}

// Defaults returns the built-in configuration.
func Defaults() Config {
	b := limiter.DefaultBounds()
	return Config{
		Limits: Limits{
			MaxDepth:    b.MaxDepth,
			MaxNodes:    b.MaxNodes,
			ColumnCache: 64,
		},
		Display: Display{
			Output:  "columns",
			KeyMode: "vim",
		},
		Input: Input{
			Format: "auto",
		},
	}
}

// Bounds returns the traversal bounds described by c.
func (c Config) Bounds() limiter.Bounds {
	return limiter.Bounds{MaxDepth: c.Limits.MaxDepth, MaxNodes: c.Limits.MaxNodes}
}
