package interpreter

import (
	"github.com/karatelabs/karate-js/ast"
	"github.com/karatelabs/karate-js/token"
)

// hoist pre-declares what the language lifts to the top of a function
// body: function declarations as callable values, var names as undefined.
// The walk stops at nested function boundaries.
func hoist(body *ast.Node, ctx *Context) {
	for _, child := range body.Children() {
		hoistNode(child, ctx)
	}
}

func hoistNode(node *ast.Node, ctx *Context) {
	if node.IsToken() {
		return
	}
	switch node.Type {
	case ast.FN_DECL_STMT:
		name := ""
		if ident := node.FindFirstToken(token.IDENT); ident != nil {
			name = ident.Token.Text
		}
		args := node.FindImmediate(ast.FN_DECL_ARGS)
		bodies := node.FindImmediate(ast.FN_BODY)
		if name != "" && len(args) > 0 && len(bodies) > 0 {
			fn := newFunction(name, args[0], bodies[0], ctx, false)
			ctx.Declare(name, declVar, fn)
		}
		return
	case ast.VAR_STMT:
		if node.First() != nil && node.First().IsToken() && node.First().Token.Kind == token.VAR {
			for _, name := range declaredNames(node) {
				ctx.hoistVar(name)
			}
		}
	case ast.FN_EXPR, ast.FN_ARROW_EXPR:
		return
	}
	for _, child := range node.Children() {
		hoistNode(child, ctx)
	}
}

// declaredNames collects every identifier a declaration statement binds,
// destructuring patterns included.
func declaredNames(varStmt *ast.Node) []string {
	var names []string
	afterEq := false
	for _, child := range varStmt.Children() {
		if child.IsToken() {
			switch child.Token.Kind {
			case token.EQ:
				afterEq = true
			case token.COMMA:
				afterEq = false
			case token.IDENT:
				if !afterEq {
					names = append(names, child.Token.Text)
				}
			}
			continue
		}
		if afterEq {
			continue
		}
		switch child.Type {
		case ast.PATTERN_ARRAY, ast.PATTERN_OBJECT:
			names = append(names, patternNames(child)...)
		}
	}
	return names
}

// patternNames extracts the bound identifiers of a destructuring pattern.
// In object patterns a rename (key: target) binds the target, not the key.
func patternNames(pattern *ast.Node) []string {
	var names []string
	children := pattern.Children()
	for i := 0; i < len(children); i++ {
		child := children[i]
		if !child.IsToken() {
			if child.Type == ast.PATTERN_ARRAY || child.Type == ast.PATTERN_OBJECT {
				names = append(names, patternNames(child)...)
			}
			continue
		}
		if child.Token.Kind != token.IDENT {
			continue
		}
		if pattern.Type == ast.PATTERN_OBJECT && i+2 < len(children) &&
			children[i+1].IsToken() && children[i+1].Token.Kind == token.COLON {
			// renamed entry: skip the key, the target follows
			continue
		}
		names = append(names, child.Token.Text)
	}
	return names
}
