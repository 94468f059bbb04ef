// Package cel evaluates CEL expressions against a document. The document is
// bound to the variable "_".
package cel

import (
	"fmt"
	"sort"
	"strings"

	"github.com/google/cel-go/cel"
	"github.com/google/cel-go/common/types"
	"github.com/google/cel-go/common/types/ref"
	celext "github.com/google/cel-go/ext"

	"github.com/oakwood-commons/kvlens/pkg/value"
)

// RootVariable is the name the document is bound to.
const RootVariable = "_"

// Evaluator compiles and evaluates CEL expressions.
type Evaluator struct {
	env *cel.Env
}

// NewEvaluator creates an evaluator with the standard library and the
// strings, encoders, lists and math extensions. Extra options extend the
// environment (e.g. custom functions).
func NewEvaluator(opts ...cel.EnvOption) (*Evaluator, error) {
	env, err := newStandardCELEnv(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create CEL environment: %w", err)
	}
	return &Evaluator{env: env}, nil
}

// Environment returns the CEL environment for introspection.
func (e *Evaluator) Environment() *cel.Env {
	return e.env
}

func newStandardCELEnv(opts ...cel.EnvOption) (*cel.Env, error) {
	allOpts := make([]cel.EnvOption, 0, 5+len(opts))
	allOpts = append(allOpts,
		cel.Variable(RootVariable, cel.DynType),
		celext.Strings(),
		celext.Encoders(),
		celext.Lists(),
		celext.Math(),
	)
	allOpts = append(allOpts, opts...)
	return cel.NewEnv(allOpts...)
}

// Check compiles expr without evaluating it.
func (e *Evaluator) Check(expr string) error {
	_, issues := e.env.Compile(expr)
	if issues != nil && issues.Err() != nil {
		return fmt.Errorf("compilation error: %w", issues.Err())
	}
	return nil
}

// Evaluate evaluates expr against root, e.g. "_.messages[0]" or
// "_.items.filter(x, x.ok)". Maps produced by CEL have no member order, so
// objects in the result list their keys sorted.
func (e *Evaluator) Evaluate(expr string, root *value.Value) (*value.Value, error) {
	ast, issues := e.env.Compile(expr)
	if issues != nil && issues.Err() != nil {
		return nil, fmt.Errorf("compilation error: %w", issues.Err())
	}
	prg, err := e.env.Program(ast)
	if err != nil {
		return nil, fmt.Errorf("program error: %w", err)
	}
	result, _, err := prg.Eval(map[string]any{
		RootVariable: value.ToInterface(root),
	})
	if err != nil {
		return nil, fmt.Errorf("eval error: %w", err)
	}
	return value.FromInterface(ToGo(result)), nil
}

// ToGo converts CEL values to Go native types recursively.
func ToGo(val ref.Val) any {
	if val == nil {
		return nil
	}
	switch v := val.(type) {
	case types.Null:
		return nil
	case types.Bool:
		return bool(v)
	case types.Int:
		return int64(v)
	case types.Uint:
		return uint64(v)
	case types.Double:
		return float64(v)
	case types.String:
		return string(v)
	case types.Bytes:
		return []byte(v)
	}

	valuer, ok := val.(interface{ Value() any })
	if !ok {
		return val
	}
	return toGoNative(valuer.Value())
}

func toGoNative(inner any) any {
	switch v := inner.(type) {
	case ref.Val:
		return ToGo(v)
	case []ref.Val:
		out := make([]any, len(v))
		for i, elem := range v {
			out[i] = ToGo(elem)
		}
		return out
	case []any:
		out := make([]any, len(v))
		for i, elem := range v {
			out[i] = toGoNative(elem)
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(v))
		for k, elem := range v {
			out[k] = toGoNative(elem)
		}
		return out
	case map[ref.Val]ref.Val:
		out := make(map[string]any, len(v))
		for k, elem := range v {
			out[fmt.Sprintf("%v", toGoNative(k.Value()))] = ToGo(elem)
		}
		return out
	default:
		return inner
	}
}

// Functions lists the function and macro names available in the standard
// environment, sorted, without operator internals.
func Functions() ([]string, error) {
	env, err := newStandardCELEnv()
	if err != nil {
		return nil, fmt.Errorf("failed to create CEL environment: %w", err)
	}
	seen := make(map[string]bool)
	for _, fn := range env.Functions() {
		if !isOperator(fn.Name()) {
			seen[fn.Name()] = true
		}
	}
	for _, m := range env.Macros() {
		if !isOperator(m.Function()) {
			seen[m.Function()] = true
		}
	}
	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

// isOperator filters out operator-style declarations such as "_+_",
// "_[_]", "!_" and the internal "@in".
func isOperator(name string) bool {
	for _, prefix := range []string{"@", "_", "!_", "-_"} {
		if strings.HasPrefix(name, prefix) {
			return true
		}
	}
	return false
}
