// Package core is the embedding API of kvlens: an Engine that loads and
// evaluates documents, and Sessions that tie search, analysis and column
// navigation together over one loaded document.
package core

import (
	"fmt"
	"io"
	"os"

	"github.com/go-logr/logr"

	"github.com/oakwood-commons/kvlens/internal/cel"
	"github.com/oakwood-commons/kvlens/internal/limiter"
	"github.com/oakwood-commons/kvlens/pkg/loader"
	"github.com/oakwood-commons/kvlens/pkg/value"
)

// Evaluator evaluates expressions against a root value.
type Evaluator interface {
	Evaluate(expr string, root *value.Value) (*value.Value, error)
}

// DefaultColumnCache is the number of derived columns a session keeps.
const DefaultColumnCache = 64

// Engine carries the shared configuration for loading, evaluating and
// exploring documents.
type Engine struct {
	Evaluator     Evaluator
	Bounds        limiter.Bounds
	Format        loader.Format
	ExpandStrings bool
	ColumnCache   int
	Strict        bool
	Logger        logr.Logger
}

// Option configures the Engine.
type Option func(*Engine)

// WithEvaluator sets a custom evaluator.
func WithEvaluator(e Evaluator) Option {
	return func(c *Engine) {
		c.Evaluator = e
	}
}

// WithBounds sets the traversal caps used by search, analysis and navigation.
func WithBounds(b limiter.Bounds) Option {
	return func(c *Engine) {
		c.Bounds = b
	}
}

// WithInputFormat forces an input format instead of detecting it.
func WithInputFormat(f loader.Format) Option {
	return func(c *Engine) {
		c.Format = f
	}
}

// WithExpandStrings makes loads replace strings holding serialized JSON or
// JWTs with their parsed structure.
func WithExpandStrings(expand bool) Option {
	return func(c *Engine) {
		c.ExpandStrings = expand
	}
}

// WithColumnCache sets the navigator column cache size; 0 disables it.
func WithColumnCache(size int) Option {
	return func(c *Engine) {
		c.ColumnCache = size
	}
}

// WithStrict makes navigator contract violations panic.
func WithStrict(strict bool) Option {
	return func(c *Engine) {
		c.Strict = strict
	}
}

// WithLogger sets the logger handed to every component.
func WithLogger(l logr.Logger) Option {
	return func(c *Engine) {
		c.Logger = l
	}
}

// New creates an Engine with defaults.
func New(opts ...Option) (*Engine, error) {
	engine := &Engine{
		Bounds:      limiter.DefaultBounds(),
		ColumnCache: DefaultColumnCache,
		Logger:      logr.Discard(),
	}
	for _, opt := range opts {
		opt(engine)
	}
	if err := engine.Bounds.Validate(); err != nil {
		return nil, err
	}
	if engine.Evaluator == nil {
		eval, err := cel.NewEvaluator()
		if err != nil {
			return nil, err
		}
		engine.Evaluator = eval
	}
	return engine, nil
}

// Load parses input with the engine's format settings.
func (e *Engine) Load(input string) (*value.Value, error) {
	root, err := loader.LoadAs(input, e.Format)
	if err != nil {
		return nil, err
	}
	return e.prepare(root, "string"), nil
}

// LoadBytes parses data with the engine's format settings.
func (e *Engine) LoadBytes(data []byte) (*value.Value, error) {
	return e.Load(string(data))
}

// LoadReader reads r to the end and parses it.
func (e *Engine) LoadReader(r io.Reader) (*value.Value, error) {
	root, err := loader.LoadReader(r, e.Format)
	if err != nil {
		return nil, err
	}
	return e.prepare(root, "reader"), nil
}

// LoadFile reads and parses path. A forced input format overrides the file
// extension.
func (e *Engine) LoadFile(path string) (*value.Value, error) {
	var (
		root *value.Value
		err  error
	)
	if e.Format != loader.FormatAuto {
		f, ferr := os.Open(path)
		if ferr != nil {
			return nil, ferr
		}
		defer f.Close()
		root, err = loader.LoadReader(f, e.Format)
	} else {
		root, err = loader.LoadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return e.prepare(root, path), nil
}

// LoadObject converts in-memory data into a document.
func (e *Engine) LoadObject(obj any) (*value.Value, error) {
	root, err := loader.LoadObject(obj)
	if err != nil {
		return nil, err
	}
	return e.prepare(root, fmt.Sprintf("%T", obj)), nil
}

func (e *Engine) prepare(root *value.Value, source string) *value.Value {
	if e.ExpandStrings {
		root = loader.ExpandStrings(root)
	}
	e.Logger.V(1).Info("document loaded", "source", source, "kind", root.Kind().String(), "entries", root.Len())
	return root
}

// Evaluate runs the evaluator against root.
func (e *Engine) Evaluate(expr string, root *value.Value) (*value.Value, error) {
	if e == nil || e.Evaluator == nil {
		return nil, fmt.Errorf("evaluator is not configured")
	}
	out, err := e.Evaluator.Evaluate(expr, root)
	if err != nil {
		return nil, err
	}
	e.Logger.V(1).Info("expression evaluated", "expr", expr, "kind", out.Kind().String())
	return out, nil
}
