// Package expr evaluates the boolean conditions amis schemas attach to
// fields and forms (requireOn, visibleOn, hiddenOn and form rules).
package expr

import (
	"context"
	"errors"
	"fmt"

	"github.com/reoring/amisform/node"
)

// Evaluator decides a boolean expression against a scope. Implementations
// must be safe for concurrent use.
type Evaluator interface {
	EvaluateBoolean(ctx context.Context, expression string, scope Scope) (bool, error)
}

// Scope is the variable binding an expression sees. Every top-level data key
// is bound directly and "data" holds the same bindings again, so both
// `amount > 0` and `data.amount > 0` resolve.
type Scope map[string]any

// DataKey is the name of the nested binding.
const DataKey = "data"

// NewScope builds the two-level scope for a data payload. Non-object data
// yields a scope holding only an empty "data" binding.
func NewScope(data *node.Node) Scope {
	flat := make(map[string]any, data.Len())
	for _, m := range data.Members() {
		flat[m.Key] = m.Value.Interface()
	}
	s := make(Scope, len(flat)+1)
	for k, v := range flat {
		s[k] = v
	}
	s[DataKey] = flat
	return s
}

// ExpressionError reports an expression that could not be evaluated.
type ExpressionError struct {
	Expression string
	Err        error
}

func (e *ExpressionError) Error() string {
	return fmt.Sprintf("expr: evaluate %q: %v", e.Expression, e.Err)
}

func (e *ExpressionError) Unwrap() error { return e.Err }

// ErrEmptyExpression is returned for blank expressions.
var ErrEmptyExpression = errors.New("empty expression")

// Func adapts a plain function to Evaluator.
type Func func(ctx context.Context, expression string, scope Scope) (bool, error)

func (f Func) EvaluateBoolean(ctx context.Context, expression string, scope Scope) (bool, error) {
	return f(ctx, expression, scope)
}

// Disabled never evaluates anything and reports every condition as not met.
var Disabled Evaluator = Func(func(context.Context, string, Scope) (bool, error) { return false, nil })
