package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/oakwood-commons/kvlens/pkg/settings"
)

// ResolvePath returns explicit when set, otherwise the XDG config file
// ($XDG_CONFIG_HOME/kvlens/config.yaml or ~/.config/kvlens/config.yaml) if it
// exists, otherwise "".
func ResolvePath(explicit string) string {
	if explicit != "" {
		return explicit
	}
	xdg := os.Getenv("XDG_CONFIG_HOME")
	candidate := ""
	if xdg != "" {
		candidate = filepath.Join(xdg, settings.CliBinaryName, "config.yaml")
	} else if home, err := os.UserHomeDir(); err == nil {
		candidate = filepath.Join(home, ".config", settings.CliBinaryName, "config.yaml")
	}
	if candidate != "" {
		if st, err := os.Stat(candidate); err == nil && !st.IsDir() {
			return candidate
		}
	}
	return ""
}

// Parse overlays the YAML document in data onto base. Keys the document does
// not mention keep their value from base. Unknown keys are an error.
func Parse(data []byte, base Config) (Config, error) {
	cfg := base
	if len(bytes.TrimSpace(data)) == 0 {
		return cfg, nil
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return base, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// LoadFile overlays the config file at path onto base. An empty path
// returns base unchanged.
func LoadFile(path string, base Config) (Config, error) {
	if path == "" {
		return base, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return base, fmt.Errorf("reading config %s: %w", path, err)
	}
	cfg, err := Parse(data, base)
	if err != nil {
		return base, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// LoadEnvFile loads KEY=VALUE pairs from path into the process environment
// without replacing variables that are already set. With an empty path a
// .env file in the working directory is loaded if present.
func LoadEnvFile(path string) error {
	if path == "" {
		_ = godotenv.Load()
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("loading env file %s: %w", path, err)
	}
	return nil
}

// LookupFunc reads one environment variable.
type LookupFunc func(key string) (string, bool)

// ApplyEnv overlays KVLENS_* variables onto cfg. NO_COLOR is honoured as
// well. A malformed number or boolean is an error naming the variable.
func ApplyEnv(cfg Config, lookup LookupFunc) (Config, error) {
	if lookup == nil {
		lookup = os.LookupEnv
	}
	var errs []error
	intVar := func(name string, dst *int) {
		if s, ok := lookup(settings.EnvPrefix + name); ok && s != "" {
			n, err := strconv.Atoi(strings.TrimSpace(s))
			if err != nil {
				errs = append(errs, fmt.Errorf("%s%s: %w", settings.EnvPrefix, name, err))
				return
			}
			*dst = n
		}
	}
	boolVar := func(name string, dst *bool) {
		if s, ok := lookup(settings.EnvPrefix + name); ok && s != "" {
			b, err := strconv.ParseBool(strings.TrimSpace(s))
			if err != nil {
				errs = append(errs, fmt.Errorf("%s%s: %w", settings.EnvPrefix, name, err))
				return
			}
			*dst = b
		}
	}
	strVar := func(name string, dst *string) {
		if s, ok := lookup(settings.EnvPrefix + name); ok && s != "" {
			*dst = s
		}
	}

	intVar("MAX_DEPTH", &cfg.Limits.MaxDepth)
	intVar("MAX_NODES", &cfg.Limits.MaxNodes)
	intVar("COLUMN_CACHE", &cfg.Limits.ColumnCache)
	boolVar("NO_COLOR", &cfg.Display.NoColor)
	intVar("WIDTH", &cfg.Display.Width)
	intVar("HEIGHT", &cfg.Display.Height)
	strVar("OUTPUT", &cfg.Display.Output)
	strVar("KEY_MODE", &cfg.Display.KeyMode)
	strVar("SEARCH", &cfg.Search.Query)
	strVar("INPUT_FORMAT", &cfg.Input.Format)
	boolVar("EXPAND_STRINGS", &cfg.Input.ExpandStrings)

	// https://no-color.org: any non-empty value disables color.
	if s, ok := lookup("NO_COLOR"); ok && s != "" {
		cfg.Display.NoColor = true
	}
	return cfg, errors.Join(errs...)
}

// Load builds the configuration in precedence order: defaults, the config
// file at path, then the environment (after loading envFile).
func Load(path, envFile string) (Config, error) {
	if err := LoadEnvFile(envFile); err != nil {
		return Defaults(), err
	}
	cfg, err := LoadFile(path, Defaults())
	if err != nil {
		return cfg, err
	}
	return ApplyEnv(cfg, os.LookupEnv)
}

// Validate reports settings that cannot be used.
func (c Config) Validate() error {
	if err := c.Bounds().Validate(); err != nil {
		return err
	}
	if c.Limits.ColumnCache < 0 {
		return fmt.Errorf("column_cache must be non-negative, got %d", c.Limits.ColumnCache)
	}
	if c.Display.Width < 0 || c.Display.Height < 0 {
		return fmt.Errorf("width and height must be non-negative")
	}
	return nil
}
