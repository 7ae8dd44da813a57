package expr

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/dop251/goja"
)

// JavaScriptOptions tunes the JavaScript evaluator.
type JavaScriptOptions struct {
	// Timeout bounds a single evaluation; zero means no limit.
	Timeout time.Duration
	// CacheSize caps the number of compiled expressions kept; zero disables
	// the cache.
	CacheSize int
}

// DefaultCacheSize is used by NewJavaScript when no options are given.
const DefaultCacheSize = 512

var errTimeout = errors.New("evaluation timed out")

// JavaScript evaluates expressions as ECMAScript 5.1 with goja. Each call gets
// a fresh runtime so evaluations never share state; compiled programs are
// shared through the cache.
type JavaScript struct {
	opt JavaScriptOptions

	mu    sync.RWMutex
	cache map[string]*goja.Program
}

// NewJavaScript returns a JavaScript evaluator. Without options the cache
// holds DefaultCacheSize programs and no timeout applies.
func NewJavaScript(opts ...JavaScriptOptions) *JavaScript {
	opt := JavaScriptOptions{CacheSize: DefaultCacheSize}
	if len(opts) > 0 {
		opt = opts[len(opts)-1]
	}
	return &JavaScript{opt: opt, cache: map[string]*goja.Program{}}
}

// EvaluateBoolean runs expression with every scope key bound as a global and
// converts the result with JavaScript truthiness. Each call binds its own
// copy of the scope, so an expression that assigns to data cannot change what
// later expressions see. Keys that cannot become globals are skipped.
func (js *JavaScript) EvaluateBoolean(ctx context.Context, expression string, scope Scope) (bool, error) {
	src := strings.TrimSpace(expression)
	if src == "" {
		return false, &ExpressionError{Expression: expression, Err: ErrEmptyExpression}
	}
	if err := ctx.Err(); err != nil {
		return false, &ExpressionError{Expression: expression, Err: err}
	}
	prg, err := js.program(src)
	if err != nil {
		return false, &ExpressionError{Expression: expression, Err: err}
	}

	vm := goja.New()
	for k, v := range scope {
		// read-only globals (undefined, NaN, Infinity) refuse rebinding;
		// such keys stay reachable through data
		_ = vm.Set(k, detach(v))
	}
	stop := context.AfterFunc(ctx, func() { vm.Interrupt(ctx.Err()) })
	defer stop()
	if js.opt.Timeout > 0 {
		t := time.AfterFunc(js.opt.Timeout, func() { vm.Interrupt(errTimeout) })
		defer t.Stop()
	}

	v, err := vm.RunProgram(prg)
	if err != nil {
		var ie *goja.InterruptedError
		if errors.As(err, &ie) {
			if cause, ok := ie.Value().(error); ok {
				err = cause
			}
		}
		return false, &ExpressionError{Expression: expression, Err: err}
	}
	return v.ToBoolean(), nil
}

func (js *JavaScript) program(src string) (*goja.Program, error) {
	if js.opt.CacheSize > 0 {
		js.mu.RLock()
		prg, ok := js.cache[src]
		js.mu.RUnlock()
		if ok {
			return prg, nil
		}
	}
	prg, err := goja.Compile("expression", src, false)
	if err != nil {
		return nil, err
	}
	if js.opt.CacheSize > 0 {
		js.mu.Lock()
		if len(js.cache) >= js.opt.CacheSize {
			clear(js.cache)
		}
		js.cache[src] = prg
		js.mu.Unlock()
	}
	return prg, nil
}

// Cached reports how many compiled programs are held.
func (js *JavaScript) Cached() int {
	js.mu.RLock()
	defer js.mu.RUnlock()
	return len(js.cache)
}

// detach deep-copies the containers goja would otherwise wrap by reference.
func detach(v any) any {
	switch x := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(x))
		for k, e := range x {
			out[k] = detach(e)
		}
		return out
	case []any:
		out := make([]any, len(x))
		for i, e := range x {
			out[i] = detach(e)
		}
		return out
	default:
		return v
	}
}
