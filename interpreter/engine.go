package interpreter

import (
	"io"
	"os"

	"github.com/karatelabs/karate-js/ast"
	"github.com/karatelabs/karate-js/builtins"
	"github.com/karatelabs/karate-js/parser"
	"github.com/karatelabs/karate-js/runtime"
)

// Engine is one evaluation instance: a persistent root scope plus the
// builtin globals. An engine is single-threaded; run one per concurrent
// scenario rather than sharing one across goroutines.
type Engine struct {
	root *Context
	out  io.Writer
}

func NewEngine() *Engine {
	e := &Engine{out: os.Stdout}
	e.root = newRootContext(e)
	// builtin globals live in the hidden map: scripts resolve them, but
	// binding enumeration only reports what the user declared
	builtins.Register(
		func(name string, value any) {
			e.root.hidden[name] = value
		},
		func() io.Writer { return e.out },
	)
	return e
}

// SetOut redirects console output, the usual test hook.
func (e *Engine) SetOut(w io.Writer) {
	e.out = w
}

// Eval parses and evaluates a script against the persistent bindings.
// Declarations stick around for later calls; the result is the value of
// the last statement, converted for the host.
func (e *Engine) Eval(source string) (any, error) {
	program, err := parser.Parse(source)
	if err != nil {
		return nil, err
	}
	value, err := e.evalProgram(program, e.root)
	if err != nil {
		return nil, err
	}
	return runtime.ToHost(value), nil
}

// EvalWith evaluates with declarations scoped to the given map only: the
// bindings seed a private scope, and every binding of that scope is
// written back on success. The persistent root is readable but never
// gains declarations, so one long-lived engine serves many isolated
// fragments without redeclaration conflicts.
func (e *Engine) EvalWith(source string, bindings map[string]any) (any, error) {
	program, err := parser.Parse(source)
	if err != nil {
		return nil, err
	}
	local := e.root.Child()
	// var and hoisted declarations bind at the nearest function boundary;
	// the local scope must be one or they would land in the root
	local.fnTop = true
	for name, value := range bindings {
		converted, err := runtime.TryFromHost(value)
		if err != nil {
			return nil, err
		}
		local.vars[name] = &binding{value: converted, kind: declVar}
	}
	value, err := e.evalProgram(program, local)
	if err != nil {
		return nil, err
	}
	for name, b := range local.vars {
		bindings[name] = runtime.ToHost(b.value)
	}
	return runtime.ToHost(value), nil
}

func (e *Engine) evalProgram(program *ast.Node, ctx *Context) (any, error) {
	hoist(program, ctx)
	return evalStatements(program, ctx)
}

// Get reads a persistent binding, converted for the host; nil when absent.
func (e *Engine) Get(name string) any {
	value, ok := e.root.Get(name)
	if !ok {
		return nil
	}
	return runtime.ToHost(value)
}

func (e *Engine) Has(name string) bool {
	return e.root.Has(name)
}

// Set writes a persistent binding from a host value. A host value with no
// guest mapping is an immediate error.
func (e *Engine) Set(name string, value any) error {
	converted, err := runtime.TryFromHost(value)
	if err != nil {
		return err
	}
	e.root.vars[name] = &binding{value: converted, kind: declVar}
	return nil
}

// SetHidden binds a value scripts can read but no enumeration reports.
func (e *Engine) SetHidden(name string, value any) error {
	converted, err := runtime.TryFromHost(value)
	if err != nil {
		return err
	}
	e.root.hidden[name] = converted
	return nil
}

// SetLazy binds a name whose value is computed on each read instead of
// stored.
func (e *Engine) SetLazy(name string, compute func() any) {
	e.root.lazy[name] = func() any {
		return runtime.FromHost(compute())
	}
}

// Names enumerates the persistent bindings; hidden and lazy ones stay out.
func (e *Engine) Names() []string {
	return e.root.Names()
}

// Eval is the one-shot convenience: a throwaway engine evaluating one
// script.
func Eval(source string) (any, error) {
	return NewEngine().Eval(source)
}
