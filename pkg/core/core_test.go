package core

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/oakwood-commons/kvlens/internal/limiter"
	"github.com/oakwood-commons/kvlens/pkg/loader"
	"github.com/oakwood-commons/kvlens/pkg/value"
)

func TestEngineEvaluate(t *testing.T) {
	engine, err := New()
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	root, err := engine.Load(`{"items":[{"name":"a"}]}`)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	out, err := engine.Evaluate("_.items[0].name", root)
	if err != nil {
		t.Fatalf("Evaluate error: %v", err)
	}
	if s, _ := out.AsString(); s != "a" {
		t.Fatalf("Evaluate output = %v, want %v", s, "a")
	}
}

type stubEvaluator struct {
	expr string
}

func (s *stubEvaluator) Evaluate(expr string, root *value.Value) (*value.Value, error) {
	s.expr = expr
	if expr == "fail" {
		return nil, errors.New("boom")
	}
	return root, nil
}

func TestEngineCustomEvaluator(t *testing.T) {
	stub := &stubEvaluator{}
	engine, err := New(WithEvaluator(stub))
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	root := value.Int(1)
	out, err := engine.Evaluate("anything", root)
	if err != nil || out != root || stub.expr != "anything" {
		t.Fatalf("Evaluate = %v, %v; stub saw %q", out, err, stub.expr)
	}
	if _, err := engine.Evaluate("fail", root); err == nil {
		t.Fatal("expected evaluator error")
	}

	var nilEngine *Engine
	if _, err := nilEngine.Evaluate("x", root); err == nil {
		t.Fatal("expected error from nil engine")
	}
}

func TestNewRejectsNegativeBounds(t *testing.T) {
	if _, err := New(WithBounds(limiter.Bounds{MaxDepth: -1})); err == nil {
		t.Fatal("expected bounds validation error")
	}
}

func TestEngineLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "data.yaml")
	if err := os.WriteFile(path, []byte("name: test\nsize: 2\n"), 0o644); err != nil {
		t.Fatalf("WriteFile error: %v", err)
	}
	engine, err := New()
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	root, err := engine.LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile error: %v", err)
	}
	if got := strings.Join(root.Keys(), ","); got != "name,size" {
		t.Fatalf("keys = %q, want %q", got, "name,size")
	}

	forced, err := New(WithInputFormat(loader.FormatJSON))
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	if _, err := forced.LoadFile(path); err == nil {
		t.Fatal("expected JSON parse error for YAML content")
	}
	if _, err := engine.LoadFile(filepath.Join(dir, "missing.json")); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("missing file error = %v", err)
	}
}

func TestEngineExpandStrings(t *testing.T) {
	engine, err := New(WithExpandStrings(true))
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	root, err := engine.Load(`{"call":{"arguments":"{\"q\":\"go\"}"}}`)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	data, _ := root.MarshalJSON()
	if string(data) != `{"call":{"arguments":{"q":"go"}}}` {
		t.Fatalf("expanded = %s", data)
	}
}

func TestEngineLoadObjectAndReader(t *testing.T) {
	engine, err := New()
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	root, err := engine.LoadObject(map[string]any{"b": 1, "a": 2})
	if err != nil {
		t.Fatalf("LoadObject error: %v", err)
	}
	if got := strings.Join(root.Keys(), ","); got != "a,b" {
		t.Fatalf("keys = %q", got)
	}
	root, err = engine.LoadReader(strings.NewReader("[1,2,3]"))
	if err != nil {
		t.Fatalf("LoadReader error: %v", err)
	}
	if root.Len() != 3 {
		t.Fatalf("len = %d, want 3", root.Len())
	}
	if _, err := engine.Load(""); !errors.Is(err, loader.ErrEmptyInput) {
		t.Fatalf("empty input error = %v", err)
	}
}
