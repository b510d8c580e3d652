package interpreter

import (
	"github.com/karatelabs/karate-js/runtime"
)

type declKind int

const (
	declVar declKind = iota
	declLet
	declConst
)

// exitKind is the control-flow state a statement can leave behind; loops
// absorb break/continue, function calls absorb return.
type exitKind int

const (
	exitNone exitKind = iota
	exitBreak
	exitContinue
	exitReturn
)

// frame is shared by every block context of one function activation, so a
// return deep inside nested blocks unwinds to the call.
type frame struct {
	exit  exitKind
	value any
}

type binding struct {
	value any
	kind  declKind
}

// Context is one level of the scope chain. Levels are depth-numbered from
// the engine root; each function call starts a new frame, each block a new
// level on the current frame.
type Context struct {
	parent *Context
	depth  int
	vars   map[string]*binding
	this   any
	fnTop  bool // function boundary: var declarations land here
	frame  *frame
	engine *Engine

	// root-level only: bindings visible to scripts but excluded from
	// enumeration, and bindings computed on demand instead of stored
	hidden map[string]any
	lazy   map[string]func() any
}

func newRootContext(engine *Engine) *Context {
	return &Context{
		depth:  0,
		vars:   map[string]*binding{},
		fnTop:  true,
		frame:  &frame{},
		engine: engine,
		hidden: map[string]any{},
		lazy:   map[string]func() any{},
	}
}

// Child opens a block scope on the same frame.
func (c *Context) Child() *Context {
	return &Context{
		parent: c,
		depth:  c.depth + 1,
		vars:   map[string]*binding{},
		this:   c.this,
		frame:  c.frame,
		engine: c.engine,
	}
}

// ChildFunction opens a function scope: fresh frame, own this.
func (c *Context) ChildFunction(this any) *Context {
	return &Context{
		parent: c,
		depth:  c.depth + 1,
		vars:   map[string]*binding{},
		this:   this,
		fnTop:  true,
		frame:  &frame{},
		engine: c.engine,
	}
}

// Declare introduces a binding. let/const bind at this level and reject
// redeclaration; var binds at the nearest function boundary and tolerates
// it.
func (c *Context) Declare(name string, kind declKind, value any) error {
	if kind == declVar {
		target := c
		for !target.fnTop {
			target = target.parent
		}
		if existing, ok := target.vars[name]; ok {
			existing.value = value
			return nil
		}
		target.vars[name] = &binding{value: value, kind: declVar}
		return nil
	}
	if _, ok := c.vars[name]; ok {
		return runtime.NewSyntaxErrorValue("identifier '" + name + "' has already been declared")
	}
	c.vars[name] = &binding{value: value, kind: kind}
	return nil
}

// hoistVar pre-declares a var name at the function level without touching
// an existing binding, so re-running a script against a long-lived root
// keeps earlier values.
func (c *Context) hoistVar(name string) {
	target := c
	for !target.fnTop {
		target = target.parent
	}
	if _, ok := target.vars[name]; !ok {
		target.vars[name] = &binding{value: runtime.Undefined, kind: declVar}
	}
}

// Get resolves a name up the chain, then the root's hidden and lazy maps.
func (c *Context) Get(name string) (any, bool) {
	for cur := c; cur != nil; cur = cur.parent {
		if b, ok := cur.vars[name]; ok {
			return b.value, true
		}
		if cur.parent == nil {
			if v, ok := cur.hidden[name]; ok {
				return v, true
			}
			if compute, ok := cur.lazy[name]; ok {
				return compute(), true
			}
		}
	}
	return nil, false
}

// Has reports whether the name resolves at all, lazy values included.
func (c *Context) Has(name string) bool {
	_, ok := c.Get(name)
	return ok
}

// Set assigns the nearest existing binding. An undeclared name becomes a
// root-level var, the usual non-strict fallback.
func (c *Context) Set(name string, value any) error {
	for cur := c; cur != nil; cur = cur.parent {
		if b, ok := cur.vars[name]; ok {
			if b.kind == declConst {
				return runtime.NewTypeError("assignment to constant variable '" + name + "'")
			}
			b.value = value
			return nil
		}
	}
	root := c.root()
	root.vars[name] = &binding{value: value, kind: declVar}
	return nil
}

func (c *Context) root() *Context {
	cur := c
	for cur.parent != nil {
		cur = cur.parent
	}
	return cur
}

// Names enumerates the bindings declared at this level, hidden and lazy
// ones excluded.
func (c *Context) Names() []string {
	names := make([]string, 0, len(c.vars))
	for name := range c.vars {
		names = append(names, name)
	}
	return names
}

func (c *Context) exiting() bool {
	return c.frame.exit != exitNone
}

func (c *Context) setExit(kind exitKind, value any) {
	c.frame.exit = kind
	c.frame.value = value
}

func (c *Context) clearExit() {
	c.frame.exit = exitNone
	c.frame.value = nil
}
