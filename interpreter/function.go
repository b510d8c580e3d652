package interpreter

import (
	"github.com/karatelabs/karate-js/ast"
	"github.com/karatelabs/karate-js/runtime"
	"github.com/karatelabs/karate-js/token"
)

// Function is a user-defined function value: parameter list and body nodes
// plus the defining context, which the call chain parents at so closures
// see their lexical scope.
type Function struct {
	name    string
	args    *ast.Node // FN_DECL_ARGS
	body    *ast.Node // FN_BODY, or a bare expression for arrows
	closure *Context
	arrow   bool
	props   *runtime.JsObject
}

func newFunction(name string, args, body *ast.Node, closure *Context, arrow bool) *Function {
	f := &Function{name: name, args: args, body: body, closure: closure, arrow: arrow}
	f.props = runtime.NewObject()
	if !arrow {
		f.props.Set("prototype", runtime.NewObject())
	}
	return f
}

func (f *Function) Name() string {
	return f.name
}

// Invoke calls with no this; arrows keep their lexical this regardless.
func (f *Function) Invoke(args []any) (any, error) {
	return f.InvokeOn(nil, args)
}

// InvokeOn calls with an explicit receiver.
func (f *Function) InvokeOn(this any, args []any) (any, error) {
	ctx := f.callContext(this)
	if err := f.bindArgs(ctx, args); err != nil {
		return nil, err
	}
	if f.arrow && f.body.Type != ast.FN_BODY {
		// expression-bodied arrow: the body value is the result
		return eval(f.body, ctx)
	}
	hoist(f.body, ctx)
	if _, err := evalStatements(f.body, ctx); err != nil {
		return nil, err
	}
	if ctx.frame.exit == exitReturn {
		return ctx.frame.value, nil
	}
	return runtime.Undefined, nil
}

// InvokeWith handles constructor-style invocation: a fresh object wired to
// the function's prototype becomes this, and an object-valued return
// overrides it.
func (f *Function) InvokeWith(info *runtime.CallInfo, args []any) (any, error) {
	if info == nil || !info.Construct {
		return f.Invoke(args)
	}
	obj := runtime.NewObject()
	if proto, ok := f.props.Get("prototype"); ok {
		if p, isObj := proto.(*runtime.JsObject); isObj {
			obj.SetProto(p)
		}
	}
	result, err := f.InvokeOn(obj, args)
	if err != nil {
		return nil, err
	}
	switch result.(type) {
	case *runtime.JsObject, *runtime.JsArray:
		return result, nil
	}
	return obj, nil
}

func (f *Function) callContext(this any) *Context {
	if f.arrow {
		// arrows have no this of their own
		return f.closure.ChildFunction(f.closure.this)
	}
	return f.closure.ChildFunction(this)
}

// bindArgs binds declared parameters: defaults for missing arguments, rest
// collection, destructuring targets.
func (f *Function) bindArgs(ctx *Context, args []any) error {
	if f.args == nil {
		return nil
	}
	i := 0
	for _, child := range f.args.Children() {
		if child.Type != ast.FN_DECL_ARG {
			continue
		}
		rest := child.FindFirstToken(token.DOT_DOT_DOT) != nil
		target, defaultExpr := splitArg(child)
		if target == nil {
			continue
		}
		if rest {
			collected := runtime.NewArray()
			for ; i < len(args); i++ {
				collected.Push(args[i])
			}
			if err := bindTarget(ctx, target, collected, declLet); err != nil {
				return err
			}
			continue
		}
		var value any = runtime.Undefined
		if i < len(args) {
			value = args[i]
		}
		i++
		if runtime.IsUndefined(value) && defaultExpr != nil {
			computed, err := eval(defaultExpr, ctx)
			if err != nil {
				return err
			}
			value = computed
		}
		if err := bindTarget(ctx, target, value, declLet); err != nil {
			return err
		}
	}
	return nil
}

// splitArg separates a FN_DECL_ARG into its binding target and optional
// default expression.
func splitArg(arg *ast.Node) (*ast.Node, *ast.Node) {
	var target, defaultExpr *ast.Node
	seenEq := false
	for _, child := range arg.Children() {
		if child.IsToken() {
			if child.Token.Kind == token.EQ {
				seenEq = true
			}
			if child.Token.Kind == token.IDENT && target == nil {
				target = child
			}
			continue
		}
		if target == nil {
			target = child
		} else if seenEq && defaultExpr == nil {
			defaultExpr = child
		}
	}
	return target, defaultExpr
}

// ObjectLike: function objects carry arbitrary own properties, prototype
// included.

func (f *Function) Get(name string) (any, bool) {
	switch name {
	case "name":
		return f.name, true
	case "length":
		count := 0
		if f.args != nil {
			count = len(f.args.FindImmediate(ast.FN_DECL_ARG))
		}
		return count, true
	}
	return f.props.Get(name)
}

func (f *Function) Set(name string, v any) {
	f.props.Set(name, v)
}

func (f *Function) Has(name string) bool {
	_, ok := f.Get(name)
	return ok
}

func (f *Function) Delete(name string) {
	f.props.Delete(name)
}

func (f *Function) Keys() []string {
	return f.props.Keys()
}

func (f *Function) String() string {
	if f.name != "" {
		return "function " + f.name + "() { ... }"
	}
	return "function () { ... }"
}
