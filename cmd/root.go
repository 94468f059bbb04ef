// Package cmd implements the kvlens command line.
package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	tea "charm.land/bubbletea/v2"
	"github.com/go-logr/logr"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/oakwood-commons/kvlens/internal/config"
	"github.com/oakwood-commons/kvlens/internal/jsonpath"
	"github.com/oakwood-commons/kvlens/internal/limiter"
	ui "github.com/oakwood-commons/kvlens/internal/ui"
	"github.com/oakwood-commons/kvlens/pkg/core"
	"github.com/oakwood-commons/kvlens/pkg/loader"
	"github.com/oakwood-commons/kvlens/pkg/logger"
	"github.com/oakwood-commons/kvlens/pkg/settings"
	"github.com/oakwood-commons/kvlens/pkg/value"
)

// rootOptions holds the flag values of one invocation.
type rootOptions struct {
	search      string
	expression  string
	selects     []string
	path        string
	output      string
	limit       int
	offset      int
	tail        int
	maxDepth    int
	maxNodes    int
	interactive bool
	configFile  string
	envFile     string
	debug       bool
	noColor     bool
	width       int
	height      int
	inputFormat string
	decode      bool
	keyMode     string

	treeNoValues     bool
	treeShowTypes    bool
	treeMaxDepth     int
	treeExpandArrays bool
	mermaidDirection string
}

var (
	stdinIsPiped = func() bool {
		stat, err := os.Stdin.Stat()
		if err != nil {
			return false
		}
		return (stat.Mode() & os.ModeCharDevice) == 0
	}
	runInteractive = ui.Run
)

// NewRootCmd builds the kvlens command tree.
func NewRootCmd() *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:   settings.CliBinaryName + " [file]",
		Short: "Explore JSON, YAML, TOML, NDJSON and JWT documents column by column",
		Long: `kvlens loads a structured document, classifies every node (text, reasoning,
code, math, image, tool call, embedded JSON) and lets you walk it one column
per level. Input comes from a file argument or from stdin when piped.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			level := logger.DefaultLevel
			if opts.debug {
				level = logger.DebugLevel
			}
			log := logger.Get(level)
			cmd.SetContext(logger.WithLogger(cmd.Context(), log))
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRoot(cmd, opts, args)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.search, "search", "s", "", "case-insensitive search; keeps matching keys with their subtree and matching values")
	f.StringVarP(&opts.expression, "expression", "e", "", "CEL expression selecting the subtree to explore (the document is bound to _)")
	f.StringArrayVar(&opts.selects, "select", nil, "key to select in the next column; repeat to go deeper")
	f.StringVarP(&opts.path, "path", "p", "", "path to select, e.g. messages[1].content")
	f.StringVarP(&opts.output, "output", "o", "", "output: "+strings.Join(outputModes, "|"))
	f.IntVar(&opts.limit, "limit", 0, "show only the first N fields")
	f.IntVar(&opts.offset, "offset", 0, "skip the first N fields")
	f.IntVar(&opts.tail, "tail", 0, "show only the last N fields")
	f.IntVar(&opts.maxDepth, "max-depth", 0, "maximum traversal depth (0 = unlimited)")
	f.IntVar(&opts.maxNodes, "max-nodes", 0, "maximum nodes visited per walk (0 = unlimited)")
	f.BoolVarP(&opts.interactive, "interactive", "i", false, "open the interactive browser")
	f.StringVar(&opts.configFile, "config-file", "", "config file (default $XDG_CONFIG_HOME/kvlens/config.yaml)")
	f.StringVar(&opts.envFile, "env-file", "", "env file with KVLENS_* settings (default .env when present)")
	f.BoolVar(&opts.noColor, "no-color", false, "disable colors")
	f.IntVar(&opts.width, "width", 0, "render width (0 = terminal width)")
	f.IntVar(&opts.height, "height", 0, "render height for the interactive browser (0 = terminal height)")
	f.StringVar(&opts.inputFormat, "input-format", "", "input format: auto|json|yaml|toml|ndjson|jwt")
	f.BoolVar(&opts.decode, "decode-strings", false, "decode string values that hold JSON or a JWT")
	f.StringVar(&opts.keyMode, "keymap", "", "interactive key bindings: vim|emacs")
	f.BoolVar(&opts.treeNoValues, "tree-no-values", false, "tree/mermaid: hide leaf values")
	f.BoolVar(&opts.treeShowTypes, "tree-show-types", false, "tree: show the type of every node")
	f.IntVar(&opts.treeMaxDepth, "tree-max-depth", 0, "tree/mermaid: maximum depth (0 = unlimited)")
	f.BoolVar(&opts.treeExpandArrays, "tree-expand-arrays", false, "tree: list every array element")
	f.StringVar(&opts.mermaidDirection, "mermaid-direction", "TD", "mermaid: TD|LR|BT|RL")

	cmd.PersistentFlags().BoolVar(&opts.debug, "debug", false, "write debug logs to stderr")

	cmd.AddCommand(newVersionCmd(), newFunctionsCmd())
	return cmd
}

// Execute runs the kvlens command line.
func Execute() error {
	return NewRootCmd().Execute()
}

func runRoot(cmd *cobra.Command, opts *rootOptions, args []string) error {
	log := logger.FromContext(cmd.Context())

	cfg, err := resolveConfig(cmd, opts)
	if err != nil {
		return err
	}
	limits := limiter.Config{Limit: opts.limit, Offset: opts.offset, Tail: opts.tail}
	if err := limits.Validate(); err != nil {
		return err
	}
	mode, err := parseOutput(cfg.Display.Output)
	if err != nil {
		return err
	}
	keyMode, err := ui.ParseKeyMode(cfg.Display.KeyMode)
	if err != nil {
		return err
	}
	format, err := loader.ParseFormat(cfg.Input.Format)
	if err != nil {
		return err
	}

	run := settings.NewCliParams()
	run.NoColor = cfg.Display.NoColor
	run.Width = cfg.Display.Width
	run.Interactive = opts.interactive
	if opts.debug {
		run.MinLogLevel = logger.DebugLevel
	}
	cmd.SetContext(settings.IntoContext(cmd.Context(), run))

	engine, err := core.New(
		core.WithBounds(cfg.Bounds()),
		core.WithInputFormat(format),
		core.WithExpandStrings(cfg.Input.ExpandStrings),
		core.WithColumnCache(cfg.Limits.ColumnCache),
		core.WithLogger(log),
	)
	if err != nil {
		return err
	}

	doc, source, err := readInput(cmd, engine, args, opts.expression != "")
	if err != nil {
		if errors.Is(err, errShowHelp) {
			return cmd.Help()
		}
		return err
	}
	run.Source = source
	log.V(1).Info("document loaded", "source", source.Label(), "kind", doc.Kind().String())

	if opts.expression != "" {
		doc, err = engine.Evaluate(opts.expression, doc)
		if err != nil {
			return fmt.Errorf("expression: %w", err)
		}
	}

	session := engine.NewSession(doc)
	applySearch(cmd.ErrOrStderr(), session, cfg.Search.Query)
	if err := applySelection(session, opts.selects, opts.path); err != nil {
		return err
	}

	if opts.interactive {
		return runInteractive(session, ui.RunOptions{
			Width:          cfg.Display.Width,
			Height:         cfg.Display.Height,
			NoColor:        cfg.Display.NoColor,
			KeyMode:        keyMode,
			Title:          source.Label(),
			Logger:         log,
			ProgramOptions: terminalProgramOptions(source, log),
		})
	}

	return render(cmd.OutOrStdout(), session, mode, renderOptions{
		noColor:          cfg.Display.NoColor,
		width:            cfg.Display.Width,
		limits:           limits,
		treeNoValues:     opts.treeNoValues,
		treeShowTypes:    opts.treeShowTypes,
		treeMaxDepth:     opts.treeMaxDepth,
		treeExpandArrays: opts.treeExpandArrays,
		mermaidDirection: opts.mermaidDirection,
	})
}

// resolveConfig merges defaults, the config file, the environment and the
// flags that were set explicitly, in that order.
func resolveConfig(cmd *cobra.Command, opts *rootOptions) (config.Config, error) {
	cfg, err := config.Load(config.ResolvePath(opts.configFile), opts.envFile)
	if err != nil {
		return cfg, err
	}

	cmd.Flags().Visit(func(fl *pflag.Flag) {
		switch fl.Name {
		case "max-depth":
			cfg.Limits.MaxDepth = opts.maxDepth
		case "max-nodes":
			cfg.Limits.MaxNodes = opts.maxNodes
		case "no-color":
			cfg.Display.NoColor = opts.noColor
		case "width":
			cfg.Display.Width = opts.width
		case "height":
			cfg.Display.Height = opts.height
		case "output":
			cfg.Display.Output = opts.output
		case "keymap":
			cfg.Display.KeyMode = opts.keyMode
		case "search":
			cfg.Search.Query = opts.search
		case "input-format":
			cfg.Input.Format = opts.inputFormat
		case "decode-strings":
			cfg.Input.ExpandStrings = opts.decode
		}
	})
	return cfg, cfg.Validate()
}

var errShowHelp = errors.New("no input")

// readInput loads the file argument, or stdin when it is piped. Without
// either, an expression is evaluated against an empty object and otherwise
// errShowHelp is returned.
func readInput(cmd *cobra.Command, engine *core.Engine, args []string, haveExpr bool) (*value.Value, settings.Source, error) {
	if len(args) == 1 && args[0] != "-" {
		doc, err := engine.LoadFile(args[0])
		return doc, settings.Source{Path: args[0]}, err
	}
	if len(args) == 1 || stdinIsPiped() {
		doc, err := engine.LoadReader(cmd.InOrStdin())
		if err != nil {
			return nil, settings.Source{Stdin: true}, fmt.Errorf("stdin: %w", err)
		}
		return doc, settings.Source{Stdin: true}, nil
	}
	if haveExpr {
		return value.Object(), settings.Source{}, nil
	}
	return nil, settings.Source{}, errShowHelp
}

// applySearch filters the session and reports on stderr when nothing
// matched or the walk was cut short.
func applySearch(stderr io.Writer, s *core.Session, query string) {
	if query == "" {
		return
	}
	s.SetQuery(query)
	res := s.Search()
	if !res.Matched {
		fmt.Fprintf(stderr, "no matches for %q; showing the whole document\n", query)
	}
	if res.Truncated {
		fmt.Fprintf(stderr, "search stopped early (%s)\n", res.Reason)
	}
}

// applySelection selects --path first, then each --select key in the column
// after the deepest selection.
func applySelection(s *core.Session, selects []string, path string) error {
	if path != "" {
		p, err := jsonpath.Parse(path)
		if err != nil {
			return fmt.Errorf("--path: %w", err)
		}
		if err := s.SelectPath(p); err != nil {
			return fmt.Errorf("--path %s: %w", path, err)
		}
	}
	for _, key := range selects {
		col := len(s.State().SelectedPath)
		if col >= len(s.State().Columns) {
			return fmt.Errorf("--select %s: the current selection is a leaf", key)
		}
		if err := s.SelectKey(col, key); err != nil {
			return fmt.Errorf("--select %s: %w", key, err)
		}
	}
	return nil
}

// terminalProgramOptions attaches the browser to the controlling terminal
// when stdin carried the document.
func terminalProgramOptions(source settings.Source, log logr.Logger) []tea.ProgramOption {
	if !source.Stdin {
		return nil
	}
	in, out, err := openTerminalIO()
	if err != nil {
		log.V(1).Info("no controlling terminal", "error", err.Error())
		return nil
	}
	return []tea.ProgramOption{tea.WithInput(in), tea.WithOutput(out)}
}
