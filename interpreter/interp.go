package interpreter

import (
	"math"
	"strconv"
	"strings"

	"github.com/karatelabs/karate-js/ast"
	"github.com/karatelabs/karate-js/runtime"
	"github.com/karatelabs/karate-js/token"
)

// eval is the tree-walk core: one switch over node types. Expressions
// produce values; statements drive control flow through the context frame
// and produce the value of their last expression, which is what the engine
// hands back for a script.
func eval(node *ast.Node, ctx *Context) (any, error) {
	if node.IsToken() {
		return evalToken(node, ctx)
	}
	switch node.Type {
	case ast.PROGRAM, ast.BLOCK:
		return evalBlock(node, ctx)
	case ast.EXPR_STMT:
		return evalFirst(node, ctx)
	case ast.VAR_STMT:
		return evalVarStmt(node, ctx)
	case ast.FN_DECL_STMT:
		return runtime.Undefined, nil // bound during hoisting
	case ast.IF_STMT:
		return evalIfStmt(node, ctx)
	case ast.FOR_STMT:
		return evalForStmt(node, ctx)
	case ast.FOR_IN_STMT:
		return evalForInOf(node, ctx, true)
	case ast.FOR_OF_STMT:
		return evalForInOf(node, ctx, false)
	case ast.WHILE_STMT:
		return evalWhileStmt(node, ctx)
	case ast.DO_WHILE_STMT:
		return evalDoWhileStmt(node, ctx)
	case ast.SWITCH_STMT:
		return evalSwitchStmt(node, ctx)
	case ast.TRY_STMT:
		return evalTryStmt(node, ctx)
	case ast.THROW_STMT:
		value, err := evalFirst(node, ctx)
		if err != nil {
			return nil, err
		}
		return nil, runtime.Thrown(value)
	case ast.RETURN_STMT:
		value := any(runtime.Undefined)
		if expr := firstExpr(node); expr != nil {
			v, err := eval(expr, ctx)
			if err != nil {
				return nil, err
			}
			value = v
		}
		ctx.setExit(exitReturn, value)
		return value, nil
	case ast.BREAK_STMT:
		ctx.setExit(exitBreak, nil)
		return runtime.Undefined, nil
	case ast.CONTINUE_STMT:
		ctx.setExit(exitContinue, nil)
		return runtime.Undefined, nil
	case ast.EMPTY_STMT, ast.ERROR:
		return runtime.Undefined, nil

	case ast.PAREN_EXPR:
		return evalFirst(node, ctx)
	case ast.LIT_EXPR:
		return evalToken(node.First(), ctx)
	case ast.REGEX_LIT:
		return evalRegexLit(node)
	case ast.REF_EXPR:
		return evalRef(node, ctx)
	case ast.LIT_ARRAY:
		return evalArrayLit(node, ctx)
	case ast.LIT_OBJECT:
		return evalObjectLit(node, ctx)
	case ast.LIT_TEMPLATE:
		return evalTemplateLit(node, ctx)
	case ast.FN_EXPR:
		return evalFnExpr(node, ctx)
	case ast.FN_ARROW_EXPR:
		return evalArrowExpr(node, ctx)
	case ast.UNARY_EXPR:
		return evalUnary(node, ctx)
	case ast.TYPEOF_EXPR:
		return evalTypeof(node, ctx)
	case ast.DELETE_EXPR:
		return evalDelete(node, ctx)
	case ast.NEW_EXPR:
		return evalNew(node, ctx)
	case ast.DOT_EXPR:
		return evalDot(node, ctx)
	case ast.BRACKET_EXPR:
		return evalBracket(node, ctx)
	case ast.FN_CALL_EXPR:
		return evalCall(node, ctx)
	case ast.POST_EXPR:
		return evalPostfix(node, ctx)
	case ast.ASSIGN_EXPR:
		return evalAssign(node, ctx)
	case ast.TERNARY_EXPR:
		return evalTernary(node, ctx)
	case ast.LOGIC_EXPR:
		return evalLogic(node, ctx)
	case ast.BINARY_EXPR:
		return evalBinary(node, ctx)
	case ast.INSTANCEOF_EXPR:
		return evalInstanceof(node, ctx)
	}
	return nil, runtime.NewTypeError("cannot evaluate: " + node.Type.String())
}

// evalBlock runs statements in a fresh scope level.
func evalBlock(node *ast.Node, ctx *Context) (any, error) {
	return evalStatements(node, ctx.Child())
}

// evalStatements runs the statement children of a body node in order,
// stopping when the frame reports an exit. The result is the value of the
// last statement executed.
func evalStatements(parent *ast.Node, ctx *Context) (any, error) {
	result := any(runtime.Undefined)
	for _, child := range parent.Children() {
		if child.IsToken() {
			continue
		}
		value, err := eval(child, ctx)
		if err != nil {
			return nil, err
		}
		result = value
		if ctx.exiting() {
			break
		}
	}
	return result, nil
}

// evalFirst evaluates the first non-token child, the common single-operand
// shape.
func evalFirst(node *ast.Node, ctx *Context) (any, error) {
	expr := firstExpr(node)
	if expr == nil {
		return runtime.Undefined, nil
	}
	return eval(expr, ctx)
}

func firstExpr(node *ast.Node) *ast.Node {
	for _, child := range node.Children() {
		if !child.IsToken() {
			return child
		}
	}
	return nil
}

func nonTokens(node *ast.Node) []*ast.Node {
	var nodes []*ast.Node
	for _, child := range node.Children() {
		if !child.IsToken() {
			nodes = append(nodes, child)
		}
	}
	return nodes
}

func evalToken(node *ast.Node, ctx *Context) (any, error) {
	t := node.Token
	switch t.Kind {
	case token.NUMBER:
		return parseNumber(t.Text), nil
	case token.S_STRING, token.D_STRING:
		return unquote(t.Text), nil
	case token.TRUE:
		return true, nil
	case token.FALSE:
		return false, nil
	case token.NULL:
		return nil, nil
	case token.UNDEFINED:
		return runtime.Undefined, nil
	case token.IDENT:
		value, ok := ctx.Get(t.Text)
		if !ok {
			return nil, runtime.NewReferenceError(t.Text + " is not defined")
		}
		return value, nil
	case token.THIS:
		if ctx.this == nil {
			return runtime.Undefined, nil
		}
		return ctx.this, nil
	}
	return runtime.Undefined, nil
}

func evalRef(node *ast.Node, ctx *Context) (any, error) {
	return evalToken(node.First(), ctx)
}

func evalRegexLit(node *ast.Node) (any, error) {
	text := node.First().Token.Text
	end := strings.LastIndexByte(text, '/')
	source := text[1:end]
	flags := text[end+1:]
	re, err := runtime.NewRegex(source, flags)
	if err != nil {
		return nil, err
	}
	return re, nil
}

// statement evaluation

func evalVarStmt(node *ast.Node, ctx *Context) (any, error) {
	children := node.Children()
	kind := declVar
	switch children[0].Token.Kind {
	case token.LET:
		kind = declLet
	case token.CONST:
		kind = declConst
	}
	var target *ast.Node
	var value any = runtime.Undefined
	seenEq := false
	flush := func() error {
		if target == nil {
			return nil
		}
		// a bare `var n;` keeps any value the name already holds
		if kind == declVar && !seenEq && target.IsToken() {
			ctx.hoistVar(target.Token.Text)
			target = nil
			return nil
		}
		err := bindTarget(ctx, target, value, kind)
		target = nil
		value = runtime.Undefined
		seenEq = false
		return err
	}
	for _, child := range children[1:] {
		if child.IsToken() {
			switch child.Token.Kind {
			case token.EQ:
				seenEq = true
			case token.COMMA:
				if err := flush(); err != nil {
					return nil, err
				}
			case token.IDENT:
				target = child
			}
			continue
		}
		if seenEq {
			v, err := eval(child, ctx)
			if err != nil {
				return nil, err
			}
			value = v
		} else if target == nil {
			target = child
		}
	}
	if err := flush(); err != nil {
		return nil, err
	}
	return runtime.Undefined, nil
}

// bindTarget declares a value against a binding target: a plain
// identifier, or a destructuring pattern unpacked element by element.
func bindTarget(ctx *Context, target *ast.Node, value any, kind declKind) error {
	if target.IsToken() {
		return ctx.Declare(target.Token.Text, kind, value)
	}
	switch target.Type {
	case ast.PATTERN_ARRAY:
		return bindArrayPattern(ctx, target, value, kind)
	case ast.PATTERN_OBJECT:
		return bindObjectPattern(ctx, target, value, kind)
	}
	return runtime.NewSyntaxErrorValue("invalid binding target")
}

func bindArrayPattern(ctx *Context, pattern *ast.Node, value any, kind declKind) error {
	// an entry's element index is the number of commas before it, so
	// elided slots like [a, , c] advance the position without binding
	index := 0
	rest := false
	for _, child := range pattern.Children() {
		if child.IsToken() {
			switch child.Token.Kind {
			case token.COMMA:
				index++
			case token.DOT_DOT_DOT:
				rest = true
			case token.IDENT:
				if rest {
					if err := ctx.Declare(child.Token.Text, kind, restOf(value, index)); err != nil {
						return err
					}
					rest = false
				} else if err := ctx.Declare(child.Token.Text, kind, elementAt(value, index)); err != nil {
					return err
				}
			}
			continue
		}
		if err := bindTarget(ctx, child, elementAt(value, index), kind); err != nil {
			return err
		}
	}
	return nil
}

func bindObjectPattern(ctx *Context, pattern *ast.Node, value any, kind declKind) error {
	children := pattern.Children()
	var taken []string
	for i := 0; i < len(children); i++ {
		child := children[i]
		if !child.IsToken() || child.Token.Kind != token.IDENT {
			continue
		}
		name := child.Token.Text
		if i > 0 && children[i-1].IsToken() && children[i-1].Token.Kind == token.DOT_DOT_DOT {
			// rest entry: the keys not yet taken
			restObj := runtime.NewObject()
			if src, ok := value.(runtime.ObjectLike); ok {
				for _, key := range src.Keys() {
					if !contains(taken, key) {
						v, _ := src.Get(key)
						restObj.Set(key, v)
					}
				}
			}
			if err := ctx.Declare(name, kind, restObj); err != nil {
				return err
			}
			continue
		}
		prop, _ := propertyOf(value, name)
		taken = append(taken, name)
		if i+1 < len(children) && children[i+1].IsToken() && children[i+1].Token.Kind == token.EQ {
			// default value, only evaluated when the property is absent
			if (prop == nil || runtime.IsUndefined(prop)) && i+2 < len(children) {
				var err error
				prop, err = eval(children[i+2], ctx)
				if err != nil {
					return err
				}
			}
			i += 2
			if err := ctx.Declare(name, kind, prop); err != nil {
				return err
			}
			continue
		}
		if i+1 < len(children) && children[i+1].IsToken() && children[i+1].Token.Kind == token.COLON {
			// rename or nested pattern: bind the target after the colon
			targetIdx := i + 2
			if targetIdx < len(children) {
				if err := bindTarget(ctx, children[targetIdx], prop, kind); err != nil {
					return err
				}
				i = targetIdx
			}
			continue
		}
		if err := ctx.Declare(name, kind, prop); err != nil {
			return err
		}
	}
	return nil
}

func contains(names []string, name string) bool {
	for _, n := range names {
		if n == name {
			return true
		}
	}
	return false
}

func elementAt(value any, index int) any {
	switch t := value.(type) {
	case *runtime.JsArray:
		return t.GetIdx(index)
	case string:
		if index < len(t) {
			return string(t[index])
		}
	}
	return runtime.Undefined
}

func restOf(value any, from int) any {
	result := runtime.NewArray()
	if arr, ok := value.(*runtime.JsArray); ok {
		for i := from; i < arr.Len(); i++ {
			result.Push(arr.GetIdx(i))
		}
	}
	return result
}

func evalIfStmt(node *ast.Node, ctx *Context) (any, error) {
	parts := nonTokens(node)
	if len(parts) == 0 {
		return runtime.Undefined, nil
	}
	cond, err := eval(parts[0], ctx)
	if err != nil {
		return nil, err
	}
	if runtime.IsTruthy(cond) {
		if len(parts) > 1 {
			return eval(parts[1], ctx.Child())
		}
	} else if len(parts) > 2 {
		return eval(parts[2], ctx.Child())
	}
	return runtime.Undefined, nil
}

// evalForStmt runs the classic three-part loop. Header declarations are
// copied into a fresh level each iteration so closures created in the body
// capture that iteration's values.
func evalForStmt(node *ast.Node, ctx *Context) (any, error) {
	loopCtx := ctx.Child()
	var init, cond, update *ast.Node
	var body *ast.Node
	phase := 0
	children := node.Children()
	for _, child := range children {
		if child.IsToken() {
			if child.Token.Kind == token.SEMI {
				phase++
			}
			continue
		}
		if child == children[len(children)-1] || isStatementType(child.Type) && child.Type != ast.VAR_STMT {
			body = child
			continue
		}
		switch {
		case child.Type == ast.VAR_STMT:
			init = child
			phase = 1
		case phase == 0:
			init = child
		case phase == 1:
			cond = child
		default:
			update = child
		}
	}
	if init != nil {
		if _, err := eval(init, loopCtx); err != nil {
			return nil, err
		}
	}
	for {
		if cond != nil {
			c, err := eval(cond, loopCtx)
			if err != nil {
				return nil, err
			}
			if !runtime.IsTruthy(c) {
				break
			}
		}
		if body != nil {
			stop, err := runLoopBody(body, loopCtx)
			if err != nil {
				return nil, err
			}
			if stop {
				break
			}
		}
		if update != nil {
			if _, err := eval(update, loopCtx); err != nil {
				return nil, err
			}
		}
	}
	return runtime.Undefined, nil
}

func isStatementType(t ast.NodeType) bool {
	switch t {
	case ast.VAR_STMT, ast.EXPR_STMT, ast.IF_STMT, ast.FOR_STMT,
		ast.FOR_IN_STMT, ast.FOR_OF_STMT, ast.WHILE_STMT, ast.DO_WHILE_STMT,
		ast.SWITCH_STMT, ast.TRY_STMT, ast.THROW_STMT, ast.RETURN_STMT,
		ast.BREAK_STMT, ast.CONTINUE_STMT, ast.BLOCK, ast.EMPTY_STMT,
		ast.FN_DECL_STMT:
		return true
	}
	return false
}

// runLoopBody executes one iteration in a per-iteration copy of the loop
// scope, then writes the values back for the update expression. Returns
// true when the loop should stop.
func runLoopBody(body *ast.Node, loopCtx *Context) (bool, error) {
	iterCtx := loopCtx.parent.Child()
	for name, b := range loopCtx.vars {
		iterCtx.vars[name] = &binding{value: b.value, kind: b.kind}
	}
	_, err := eval(body, iterCtx)
	for name, b := range iterCtx.vars {
		if orig, ok := loopCtx.vars[name]; ok {
			orig.value = b.value
		}
	}
	if err != nil {
		return true, err
	}
	switch iterCtx.frame.exit {
	case exitBreak:
		iterCtx.clearExit()
		return true, nil
	case exitContinue:
		iterCtx.clearExit()
		return false, nil
	case exitReturn:
		return true, nil
	}
	return false, nil
}

func evalForInOf(node *ast.Node, ctx *Context, keys bool) (any, error) {
	var declared bool
	var target, iterExpr, body *ast.Node
	children := node.Children()
	for i, child := range children {
		if child.IsToken() {
			switch child.Token.Kind {
			case token.VAR, token.LET, token.CONST:
				declared = true
			case token.IDENT:
				if target == nil {
					target = child
				}
			}
			continue
		}
		if i == len(children)-1 {
			body = child
		} else if target == nil && (child.Type == ast.PATTERN_ARRAY || child.Type == ast.PATTERN_OBJECT) {
			target = child
		} else if iterExpr == nil {
			iterExpr = child
		} else {
			body = child
		}
	}
	if target == nil || iterExpr == nil {
		return runtime.Undefined, nil
	}
	source, err := eval(iterExpr, ctx)
	if err != nil {
		return nil, err
	}
	for _, item := range iterationValues(source, keys) {
		iterCtx := ctx.Child()
		if declared {
			if err := bindTarget(iterCtx, target, item, declLet); err != nil {
				return nil, err
			}
		} else if target.IsToken() {
			if err := iterCtx.Set(target.Token.Text, item); err != nil {
				return nil, err
			}
		}
		if body != nil {
			if _, err := eval(body, iterCtx); err != nil {
				return nil, err
			}
			switch iterCtx.frame.exit {
			case exitBreak:
				iterCtx.clearExit()
				return runtime.Undefined, nil
			case exitContinue:
				iterCtx.clearExit()
			case exitReturn:
				return runtime.Undefined, nil
			}
		}
	}
	return runtime.Undefined, nil
}

// iterationValues produces the for-in keys or for-of values of a source.
func iterationValues(source any, keys bool) []any {
	switch t := runtime.Unwrap(source).(type) {
	case *runtime.JsArray:
		items := make([]any, t.Len())
		for i := range items {
			if keys {
				items[i] = strconv.Itoa(i)
			} else {
				items[i] = t.GetIdx(i)
			}
		}
		return items
	case string:
		items := make([]any, 0, len(t))
		for i := range t {
			if keys {
				items = append(items, strconv.Itoa(i))
			} else {
				items = append(items, string(t[i]))
			}
		}
		return items
	case runtime.ObjectLike:
		names := t.Keys()
		items := make([]any, len(names))
		for i, name := range names {
			if keys {
				items[i] = name
			} else {
				items[i], _ = t.Get(name)
			}
		}
		return items
	}
	return nil
}

func evalWhileStmt(node *ast.Node, ctx *Context) (any, error) {
	parts := nonTokens(node)
	if len(parts) < 2 {
		return runtime.Undefined, nil
	}
	loopCtx := ctx.Child()
	for {
		cond, err := eval(parts[0], loopCtx)
		if err != nil {
			return nil, err
		}
		if !runtime.IsTruthy(cond) {
			break
		}
		stop, err := runLoopBody(parts[1], loopCtx)
		if err != nil {
			return nil, err
		}
		if stop {
			break
		}
	}
	return runtime.Undefined, nil
}

func evalDoWhileStmt(node *ast.Node, ctx *Context) (any, error) {
	parts := nonTokens(node)
	if len(parts) < 2 {
		return runtime.Undefined, nil
	}
	body, cond := parts[0], parts[1]
	loopCtx := ctx.Child()
	for {
		stop, err := runLoopBody(body, loopCtx)
		if err != nil {
			return nil, err
		}
		if stop {
			break
		}
		c, err := eval(cond, loopCtx)
		if err != nil {
			return nil, err
		}
		if !runtime.IsTruthy(c) {
			break
		}
	}
	return runtime.Undefined, nil
}

func evalSwitchStmt(node *ast.Node, ctx *Context) (any, error) {
	var disc any
	var blocks []*ast.Node
	discDone := false
	for _, child := range node.Children() {
		if child.IsToken() {
			continue
		}
		if child.Type == ast.CASE_BLOCK || child.Type == ast.DEFAULT_BLOCK {
			blocks = append(blocks, child)
			continue
		}
		if !discDone {
			v, err := eval(child, ctx)
			if err != nil {
				return nil, err
			}
			disc = v
			discDone = true
		}
	}
	start := -1
	defaultIdx := -1
	for i, block := range blocks {
		if block.Type == ast.DEFAULT_BLOCK {
			defaultIdx = i
			continue
		}
		caseExpr := firstExpr(block)
		if caseExpr == nil {
			continue
		}
		v, err := eval(caseExpr, ctx)
		if err != nil {
			return nil, err
		}
		if runtime.Eq(disc, v, true) {
			start = i
			break
		}
	}
	if start < 0 {
		start = defaultIdx
	}
	if start < 0 {
		return runtime.Undefined, nil
	}
	switchCtx := ctx.Child()
	for _, block := range blocks[start:] {
		if err := runCaseBlock(block, switchCtx); err != nil {
			return nil, err
		}
		if switchCtx.frame.exit == exitBreak {
			switchCtx.clearExit()
			break
		}
		if switchCtx.exiting() {
			break
		}
	}
	return runtime.Undefined, nil
}

// runCaseBlock executes the statements of one case, skipping the case
// label expression that precedes the colon.
func runCaseBlock(block *ast.Node, ctx *Context) error {
	seenColon := block.Type == ast.DEFAULT_BLOCK
	colonDone := false
	for _, child := range block.Children() {
		if child.IsToken() {
			if child.Token.Kind == token.COLON {
				colonDone = true
			}
			continue
		}
		if !seenColon && !colonDone {
			// the case label expression
			seenColon = true
			continue
		}
		if _, err := eval(child, ctx); err != nil {
			return err
		}
		if ctx.exiting() {
			return nil
		}
	}
	return nil
}

func evalTryStmt(node *ast.Node, ctx *Context) (any, error) {
	var tryBlock, catchBlock, finallyBlock *ast.Node
	for _, child := range node.Children() {
		switch child.Type {
		case ast.BLOCK:
			if tryBlock == nil {
				tryBlock = child
			}
		case ast.CATCH_BLOCK:
			catchBlock = child
		case ast.FINALLY_BLOCK:
			finallyBlock = child
		}
	}
	var result any = runtime.Undefined
	var err error
	if tryBlock != nil {
		result, err = eval(tryBlock, ctx)
	}
	if err != nil && catchBlock != nil {
		catchCtx := ctx.Child()
		if ident := catchBlock.FindFirstToken(token.IDENT); ident != nil {
			catchCtx.Declare(ident.Token.Text, declLet, thrownValue(err))
		}
		err = nil
		if body := catchBlock.FindFirst(ast.BLOCK); body != nil {
			result, err = evalStatements(body, catchCtx)
		}
	}
	if finallyBlock != nil {
		if body := finallyBlock.FindFirst(ast.BLOCK); body != nil {
			if _, ferr := eval(body, ctx); ferr != nil {
				return nil, ferr
			}
		}
	}
	if err != nil {
		return nil, err
	}
	return result, nil
}

// thrownValue recovers the guest value carried by an unwound error; host
// errors surface as guest error values.
func thrownValue(err error) any {
	if t, ok := err.(*runtime.Throw); ok {
		return t.Value
	}
	return runtime.NewErrorValue("Error", err.Error())
}

// expression evaluation

func evalArrayLit(node *ast.Node, ctx *Context) (any, error) {
	arr := runtime.NewArray()
	pending := false
	for _, child := range node.Children() {
		if child.IsToken() {
			if child.Token.Kind == token.COMMA {
				if !pending {
					arr.Push(runtime.Undefined) // elision hole
				}
				pending = false
			}
			continue
		}
		if child.Type == ast.SPREAD_EXPR {
			value, err := evalFirst(child, ctx)
			if err != nil {
				return nil, err
			}
			for _, item := range iterationValues(value, false) {
				arr.Push(item)
			}
			pending = true
			continue
		}
		value, err := eval(child, ctx)
		if err != nil {
			return nil, err
		}
		arr.Push(value)
		pending = true
	}
	return arr, nil
}

func evalObjectLit(node *ast.Node, ctx *Context) (any, error) {
	obj := runtime.NewObject()
	for _, entry := range node.FindImmediate(ast.LIT_OBJECT_ENTRY) {
		if err := evalObjectEntry(entry, obj, ctx); err != nil {
			return nil, err
		}
	}
	return obj, nil
}

func evalObjectEntry(entry *ast.Node, obj *runtime.JsObject, ctx *Context) error {
	children := entry.Children()
	if len(children) == 0 {
		return nil
	}
	first := children[0]
	// spread entry: copy the keys of the operand
	if !first.IsToken() && first.Type == ast.SPREAD_EXPR {
		value, err := evalFirst(first, ctx)
		if err != nil {
			return err
		}
		if src, ok := runtime.Unwrap(value).(runtime.ObjectLike); ok {
			for _, key := range src.Keys() {
				v, _ := src.Get(key)
				obj.Set(key, v)
			}
		}
		return nil
	}
	// computed key: [expr]: value
	if first.IsToken() && first.Token.Kind == token.L_BRACKET {
		exprs := nonTokens(entry)
		if len(exprs) < 2 {
			return nil
		}
		key, err := eval(exprs[0], ctx)
		if err != nil {
			return err
		}
		value, err := eval(exprs[1], ctx)
		if err != nil {
			return err
		}
		obj.Set(runtime.ToString(key), value)
		return nil
	}
	key := propertyKey(first.Token)
	exprs := nonTokens(entry)
	if len(exprs) > 0 {
		// explicit value or method shorthand (an FN_EXPR child)
		value, err := eval(exprs[0], ctx)
		if err != nil {
			return err
		}
		obj.Set(key, value)
		return nil
	}
	// bare key: identifier shorthand
	value, ok := ctx.Get(key)
	if !ok {
		return runtime.NewReferenceError(key + " is not defined")
	}
	obj.Set(key, value)
	return nil
}

// propertyKey turns a key token into its string form: quoted keys lose
// their quotes, numeric keys keep their text.
func propertyKey(t *token.Token) string {
	switch t.Kind {
	case token.S_STRING, token.D_STRING:
		return unquote(t.Text)
	default:
		return t.Text
	}
}

func evalTemplateLit(node *ast.Node, ctx *Context) (any, error) {
	var sb strings.Builder
	for _, child := range node.Children() {
		if child.IsToken() {
			if child.Token.Kind == token.T_STRING {
				sb.WriteString(unescape(child.Token.Text))
			}
			continue
		}
		if child.Type == ast.PLACEHOLDER {
			value, err := evalFirst(child, ctx)
			if err != nil {
				return nil, err
			}
			sb.WriteString(runtime.ToString(value))
		}
	}
	return sb.String(), nil
}

func evalFnExpr(node *ast.Node, ctx *Context) (any, error) {
	name := ""
	if ident := node.FindFirstToken(token.IDENT); ident != nil {
		name = ident.Token.Text
	}
	args := node.FindImmediate(ast.FN_DECL_ARGS)
	bodies := node.FindImmediate(ast.FN_BODY)
	if len(args) == 0 || len(bodies) == 0 {
		return runtime.Undefined, nil
	}
	return newFunction(name, args[0], bodies[0], ctx, false), nil
}

func evalArrowExpr(node *ast.Node, ctx *Context) (any, error) {
	var args, body *ast.Node
	for _, child := range node.Children() {
		if child.IsToken() {
			continue
		}
		if child.Type == ast.FN_DECL_ARGS && args == nil {
			args = child
		} else {
			body = child
		}
	}
	if args == nil || body == nil {
		return runtime.Undefined, nil
	}
	return newFunction("", args, body, ctx, true), nil
}

func evalUnary(node *ast.Node, ctx *Context) (any, error) {
	op := node.First().Token.Kind
	operand := firstExpr(node)
	if operand == nil {
		return runtime.Undefined, nil
	}
	if op == token.PLUS_PLUS || op == token.MINUS_MINUS {
		return evalIncDec(node, operand, op, ctx, true)
	}
	value, err := eval(operand, ctx)
	if err != nil {
		return nil, err
	}
	switch op {
	case token.NOT:
		return !runtime.IsTruthy(value), nil
	case token.MINUS:
		return runtime.Narrow(-runtime.ToNumber(value)), nil
	case token.PLUS:
		return runtime.Narrow(runtime.ToNumber(value)), nil
	case token.TILDE:
		return runtime.Narrow(float64(^runtime.ToInt32(value))), nil
	}
	return runtime.Undefined, nil
}

func evalPostfix(node *ast.Node, ctx *Context) (any, error) {
	operand := firstExpr(node)
	op := node.Last().Token.Kind
	return evalIncDec(node, operand, op, ctx, false)
}

// evalIncDec handles ++ and -- in both positions: load, step, store, and
// return either the old or the new value.
func evalIncDec(node, operand *ast.Node, op token.Kind, ctx *Context, prefix bool) (any, error) {
	old, err := eval(operand, ctx)
	if err != nil {
		return nil, err
	}
	delta := 1.0
	if op == token.MINUS_MINUS {
		delta = -1
	}
	updated := runtime.Narrow(runtime.ToNumber(old) + delta)
	if err := storeTo(operand, updated, ctx); err != nil {
		return nil, err
	}
	if prefix {
		return updated, nil
	}
	return runtime.Narrow(runtime.ToNumber(old)), nil
}

func evalTypeof(node *ast.Node, ctx *Context) (any, error) {
	operand := firstExpr(node)
	if operand == nil {
		return "undefined", nil
	}
	// typeof of an unresolvable name is "undefined", not a reference error
	if operand.Type == ast.REF_EXPR && operand.First().Token.Kind == token.IDENT {
		value, ok := ctx.Get(operand.First().Token.Text)
		if !ok {
			return "undefined", nil
		}
		return runtime.TypeOf(value), nil
	}
	value, err := eval(operand, ctx)
	if err != nil {
		return nil, err
	}
	return runtime.TypeOf(value), nil
}

func evalDelete(node *ast.Node, ctx *Context) (any, error) {
	operand := firstExpr(node)
	if operand == nil {
		return true, nil
	}
	switch operand.Type {
	case ast.DOT_EXPR, ast.BRACKET_EXPR:
		target, key, _, err := evalMemberParts(operand, ctx)
		if err != nil {
			return nil, err
		}
		return runtime.DeleteProperty(target, key), nil
	}
	return true, nil
}

func evalNew(node *ast.Node, ctx *Context) (any, error) {
	var callee *ast.Node
	var argsNode *ast.Node
	for _, child := range node.Children() {
		if child.IsToken() {
			continue
		}
		if child.Type == ast.FN_CALL_ARGS {
			argsNode = child
		} else if callee == nil {
			callee = child
		}
	}
	if callee == nil {
		return nil, runtime.NewTypeError("missing constructor expression")
	}
	fn, err := eval(callee, ctx)
	if err != nil {
		return nil, err
	}
	var args []any
	if argsNode != nil {
		args, err = evalCallArgs(argsNode, ctx)
		if err != nil {
			return nil, err
		}
	}
	if ca, ok := fn.(runtime.CallAware); ok {
		return ca.InvokeWith(&runtime.CallInfo{Construct: true}, args)
	}
	if inv, ok := fn.(runtime.Invokable); ok {
		return inv.Invoke(args)
	}
	return nil, runtime.NewTypeError(runtime.ToString(fn) + " is not a constructor")
}

// evalDot covers plain member access plus the optional-chain variants the
// grammar folds into the same node: a?.b, a?.[i], a?.().
func evalDot(node *ast.Node, ctx *Context) (any, error) {
	children := node.Children()
	lhs, err := eval(children[0], ctx)
	if err != nil {
		return nil, err
	}
	optional := children[1].IsToken() && children[1].Token.Kind == token.QUES_DOT
	if lhs == nil || runtime.IsUndefined(lhs) {
		if optional {
			return runtime.Undefined, nil
		}
		return nil, nullReadError(lhs)
	}
	// optional call form: lhs?.(...)
	for _, child := range children[2:] {
		if !child.IsToken() && child.Type == ast.FN_CALL_ARGS {
			args, err := evalCallArgs(child, ctx)
			if err != nil {
				return nil, err
			}
			return invokeValue(lhs, nil, args)
		}
	}
	key, err := dotKey(node, ctx)
	if err != nil {
		return nil, err
	}
	value, _ := propertyOf(lhs, key)
	return value, nil
}

// dotKey resolves the member name of a DOT_EXPR: a name token, or the
// bracketed index expression of the optional-index form.
func dotKey(node *ast.Node, ctx *Context) (string, error) {
	children := node.Children()
	for _, child := range children[2:] {
		if child.IsToken() {
			k := child.Token.Kind
			if k == token.IDENT || k.Keyword() {
				return child.Token.Text, nil
			}
			continue
		}
		// optional chained index: the expression inside ?.[ ]
		v, err := eval(child, ctx)
		if err != nil {
			return "", err
		}
		return runtime.ToString(v), nil
	}
	return "", nil
}

func evalBracket(node *ast.Node, ctx *Context) (any, error) {
	children := node.Children()
	lhs, err := eval(children[0], ctx)
	if err != nil {
		return nil, err
	}
	index := firstExprAfter(node, 1)
	if index == nil {
		return runtime.Undefined, nil
	}
	key, err := eval(index, ctx)
	if err != nil {
		return nil, err
	}
	return indexValue(lhs, key)
}

func firstExprAfter(node *ast.Node, from int) *ast.Node {
	children := node.Children()
	for _, child := range children[from:] {
		if !child.IsToken() {
			return child
		}
	}
	return nil
}

func nullReadError(v any) error {
	if v == nil {
		return runtime.NewTypeError("cannot read properties of null")
	}
	return runtime.NewTypeError("cannot read properties of undefined")
}

// indexValue reads a[k]: numeric keys index arrays and strings, string
// keys go through property lookup.
func indexValue(target, key any) (any, error) {
	if target == nil || runtime.IsUndefined(target) {
		return nil, nullReadError(target)
	}
	switch t := runtime.Unwrap(target).(type) {
	case *runtime.JsArray:
		if runtime.IsNumber(key) {
			return t.GetIdx(int(runtime.ToNumber(key))), nil
		}
	case string:
		if runtime.IsNumber(key) {
			i := int(runtime.ToNumber(key))
			if i >= 0 && i < len(t) {
				return string(t[i]), nil
			}
			return runtime.Undefined, nil
		}
	}
	value, _ := propertyOf(target, runtime.ToString(key))
	return value, nil
}

// propertyOf resolves a member read, starting at own properties and
// falling back to the builtin delegation chain.
func propertyOf(target any, name string) (any, bool) {
	return runtime.GetProperty(target, name)
}

func evalCall(node *ast.Node, ctx *Context) (any, error) {
	children := node.Children()
	calleeNode := children[0]
	var argsNode *ast.Node
	for _, child := range children[1:] {
		if !child.IsToken() && child.Type == ast.FN_CALL_ARGS {
			argsNode = child
		}
	}
	args, err := evalCallArgs(argsNode, ctx)
	if err != nil {
		return nil, err
	}
	// member calls bind the receiver as this
	switch calleeNode.Type {
	case ast.DOT_EXPR, ast.BRACKET_EXPR:
		receiver, key, optional, err := evalMemberParts(calleeNode, ctx)
		if err != nil {
			return nil, err
		}
		if receiver == nil || runtime.IsUndefined(receiver) {
			if optional {
				return runtime.Undefined, nil
			}
			return nil, nullReadError(receiver)
		}
		method, ok := propertyOf(receiver, key)
		if !ok && calleeNode.Type == ast.BRACKET_EXPR {
			// numeric bracket keys index array elements, fns[0]()
			if arr, isArr := runtime.Unwrap(receiver).(*runtime.JsArray); isArr {
				if n, parseErr := strconv.Atoi(key); parseErr == nil {
					method, ok = arr.GetIdx(n), true
				}
			}
		}
		if !ok {
			return nil, runtime.NewTypeError(callTargetName(calleeNode) + " is not a function")
		}
		return invokeValue(method, receiver, args)
	}
	fn, err := eval(calleeNode, ctx)
	if err != nil {
		return nil, err
	}
	return invokeValue(fn, nil, args)
}

// evalMemberParts evaluates a member expression down to (receiver, key),
// shared by calls, delete and assignment targets.
func evalMemberParts(node *ast.Node, ctx *Context) (any, string, bool, error) {
	children := node.Children()
	receiver, err := eval(children[0], ctx)
	if err != nil {
		return nil, "", false, err
	}
	optional := children[1].IsToken() && children[1].Token.Kind == token.QUES_DOT
	if node.Type == ast.DOT_EXPR {
		key, err := dotKey(node, ctx)
		return receiver, key, optional, err
	}
	index := firstExprAfter(node, 1)
	if index == nil {
		return receiver, "", optional, nil
	}
	key, err := eval(index, ctx)
	if err != nil {
		return nil, "", false, err
	}
	return receiver, runtime.ToString(key), optional, nil
}

func callTargetName(node *ast.Node) string {
	if last := node.LastToken(); last != nil {
		return last.Text
	}
	return "expression"
}

// invokeValue dispatches a call on a function value, binding the receiver
// when the function supports one.
func invokeValue(fn, this any, args []any) (any, error) {
	if this != nil {
		if tb, ok := fn.(runtime.ThisBindable); ok {
			return tb.InvokeOn(this, args)
		}
	}
	if inv, ok := fn.(runtime.Invokable); ok {
		return inv.Invoke(args)
	}
	return nil, runtime.NewTypeError(runtime.ToString(fn) + " is not a function")
}

func evalCallArgs(argsNode *ast.Node, ctx *Context) ([]any, error) {
	if argsNode == nil {
		return nil, nil
	}
	var args []any
	for _, child := range argsNode.Children() {
		if child.IsToken() {
			continue
		}
		if child.Type == ast.SPREAD_EXPR {
			value, err := evalFirst(child, ctx)
			if err != nil {
				return nil, err
			}
			args = append(args, iterationValues(value, false)...)
			continue
		}
		value, err := eval(child, ctx)
		if err != nil {
			return nil, err
		}
		args = append(args, value)
	}
	return args, nil
}

func evalAssign(node *ast.Node, ctx *Context) (any, error) {
	children := node.Children()
	if len(children) < 3 {
		return runtime.Undefined, nil
	}
	lhs := children[0]
	op := children[1].Token.Kind
	rhs := children[2]
	// logical assignment short-circuits before evaluating the rhs
	switch op {
	case token.AMP_AMP_EQ, token.PIPE_PIPE_EQ, token.QUES_QUES_EQ:
		current, err := eval(lhs, ctx)
		if err != nil {
			return nil, err
		}
		skip := false
		switch op {
		case token.AMP_AMP_EQ:
			skip = !runtime.IsTruthy(current)
		case token.PIPE_PIPE_EQ:
			skip = runtime.IsTruthy(current)
		case token.QUES_QUES_EQ:
			skip = current != nil && !runtime.IsUndefined(current)
		}
		if skip {
			return current, nil
		}
		value, err := eval(rhs, ctx)
		if err != nil {
			return nil, err
		}
		return value, storeTo(lhs, value, ctx)
	}
	value, err := eval(rhs, ctx)
	if err != nil {
		return nil, err
	}
	if op != token.EQ {
		current, err := eval(lhs, ctx)
		if err != nil {
			return nil, err
		}
		value, err = applyBinary(compoundOp(op), current, value)
		if err != nil {
			return nil, err
		}
	}
	return value, storeTo(lhs, value, ctx)
}

// compoundOp maps an op-assign token to its underlying binary operator.
func compoundOp(k token.Kind) token.Kind {
	switch k {
	case token.PLUS_EQ:
		return token.PLUS
	case token.MINUS_EQ:
		return token.MINUS
	case token.STAR_EQ:
		return token.STAR
	case token.SLASH_EQ:
		return token.SLASH
	case token.PERCENT_EQ:
		return token.PERCENT
	case token.STAR_STAR_EQ:
		return token.STAR_STAR
	case token.AMP_EQ:
		return token.AMP
	case token.PIPE_EQ:
		return token.PIPE
	case token.CARET_EQ:
		return token.CARET
	case token.LT_LT_EQ:
		return token.LT_LT
	case token.GT_GT_EQ:
		return token.GT_GT
	case token.GT_GT_GT_EQ:
		return token.GT_GT_GT
	}
	return k
}

// storeTo writes a value through an assignment target: a name, a member
// expression or a parenthesized wrapper of either.
func storeTo(target *ast.Node, value any, ctx *Context) error {
	switch target.Type {
	case ast.PAREN_EXPR:
		inner := firstExpr(target)
		if inner == nil {
			return nil
		}
		return storeTo(inner, value, ctx)
	case ast.REF_EXPR:
		return ctx.Set(target.First().Token.Text, value)
	case ast.DOT_EXPR, ast.BRACKET_EXPR:
		receiver, key, _, err := evalMemberParts(target, ctx)
		if err != nil {
			return err
		}
		if arr, ok := receiver.(*runtime.JsArray); ok && target.Type == ast.BRACKET_EXPR {
			if n, parseErr := strconv.Atoi(key); parseErr == nil {
				arr.SetIdx(n, value)
				return nil
			}
		}
		runtime.SetProperty(receiver, key, value)
		return nil
	}
	return runtime.NewSyntaxErrorValue("invalid assignment target")
}

func evalTernary(node *ast.Node, ctx *Context) (any, error) {
	parts := nonTokens(node)
	if len(parts) < 3 {
		return runtime.Undefined, nil
	}
	cond, err := eval(parts[0], ctx)
	if err != nil {
		return nil, err
	}
	if runtime.IsTruthy(cond) {
		return eval(parts[1], ctx)
	}
	return eval(parts[2], ctx)
}

func evalLogic(node *ast.Node, ctx *Context) (any, error) {
	children := node.Children()
	if len(children) < 3 {
		return runtime.Undefined, nil
	}
	lhs, err := eval(children[0], ctx)
	if err != nil {
		return nil, err
	}
	switch children[1].Token.Kind {
	case token.AMP_AMP:
		if !runtime.IsTruthy(lhs) {
			return lhs, nil
		}
	case token.PIPE_PIPE:
		if runtime.IsTruthy(lhs) {
			return lhs, nil
		}
	case token.QUES_QUES:
		if lhs != nil && !runtime.IsUndefined(lhs) {
			return lhs, nil
		}
	}
	return eval(children[2], ctx)
}

func evalBinary(node *ast.Node, ctx *Context) (any, error) {
	children := node.Children()
	if len(children) < 3 {
		return runtime.Undefined, nil
	}
	lhs, err := eval(children[0], ctx)
	if err != nil {
		return nil, err
	}
	op := children[1].Token.Kind
	rhs, err := eval(children[2], ctx)
	if err != nil {
		return nil, err
	}
	return applyBinary(op, lhs, rhs)
}

func applyBinary(op token.Kind, lhs, rhs any) (any, error) {
	switch op {
	case token.PLUS:
		return addValues(lhs, rhs), nil
	case token.MINUS:
		return runtime.Narrow(runtime.ToNumber(lhs) - runtime.ToNumber(rhs)), nil
	case token.STAR:
		return runtime.Narrow(runtime.ToNumber(lhs) * runtime.ToNumber(rhs)), nil
	case token.SLASH:
		return runtime.Narrow(runtime.ToNumber(lhs) / runtime.ToNumber(rhs)), nil
	case token.PERCENT:
		return runtime.Narrow(math.Mod(runtime.ToNumber(lhs), runtime.ToNumber(rhs))), nil
	case token.STAR_STAR:
		return runtime.Narrow(math.Pow(runtime.ToNumber(lhs), runtime.ToNumber(rhs))), nil
	case token.EQ_EQ:
		return runtime.Eq(lhs, rhs, false), nil
	case token.NOT_EQ:
		return !runtime.Eq(lhs, rhs, false), nil
	case token.EQ_EQ_EQ:
		return runtime.Eq(lhs, rhs, true), nil
	case token.NOT_EQ_EQ:
		return !runtime.Eq(lhs, rhs, true), nil
	case token.LT, token.GT, token.LT_EQ, token.GT_EQ:
		c, ok := runtime.Compare(lhs, rhs)
		if !ok {
			return false, nil
		}
		switch op {
		case token.LT:
			return c < 0, nil
		case token.GT:
			return c > 0, nil
		case token.LT_EQ:
			return c <= 0, nil
		default:
			return c >= 0, nil
		}
	case token.AMP:
		return runtime.Narrow(float64(runtime.ToInt32(lhs) & runtime.ToInt32(rhs))), nil
	case token.PIPE:
		return runtime.Narrow(float64(runtime.ToInt32(lhs) | runtime.ToInt32(rhs))), nil
	case token.CARET:
		return runtime.Narrow(float64(runtime.ToInt32(lhs) ^ runtime.ToInt32(rhs))), nil
	case token.LT_LT:
		return runtime.Narrow(float64(runtime.ToInt32(lhs) << (runtime.ToUint32(rhs) & 31))), nil
	case token.GT_GT:
		return runtime.Narrow(float64(runtime.ToInt32(lhs) >> (runtime.ToUint32(rhs) & 31))), nil
	case token.GT_GT_GT:
		return runtime.Narrow(float64(runtime.ToUint32(lhs) >> (runtime.ToUint32(rhs) & 31))), nil
	case token.IN:
		return runtime.HasProperty(rhs, runtime.ToString(lhs)), nil
	}
	return nil, runtime.NewTypeError("unsupported operator: " + op.String())
}

// addValues implements +: string concatenation when either side is
// string-like after unwrapping, numeric addition otherwise.
func addValues(lhs, rhs any) any {
	a := addOperand(lhs)
	b := addOperand(rhs)
	as, aIsString := a.(string)
	bs, bIsString := b.(string)
	if aIsString || bIsString {
		if !aIsString {
			as = runtime.ToString(a)
		}
		if !bIsString {
			bs = runtime.ToString(b)
		}
		return as + bs
	}
	return runtime.Narrow(runtime.ToNumber(a) + runtime.ToNumber(b))
}

// addOperand reduces a value to the primitive + works on: containers
// stringify, wrappers unwrap, dates use their millisecond count.
func addOperand(v any) any {
	switch t := runtime.Unwrap(v).(type) {
	case *runtime.JsObject, *runtime.JsArray, *runtime.JsError, *runtime.JsRegex:
		return runtime.ToString(t)
	default:
		return t
	}
}

func evalInstanceof(node *ast.Node, ctx *Context) (any, error) {
	children := node.Children()
	if len(children) < 3 {
		return false, nil
	}
	lhs, err := eval(children[0], ctx)
	if err != nil {
		return nil, err
	}
	rhs, err := eval(children[2], ctx)
	if err != nil {
		return nil, err
	}
	if matcher, ok := rhs.(interface{ InstanceOf(v any) bool }); ok {
		return matcher.InstanceOf(lhs), nil
	}
	if fn, ok := rhs.(*Function); ok {
		proto, _ := fn.Get("prototype")
		target, isObj := proto.(*runtime.JsObject)
		if !isObj {
			return false, nil
		}
		obj, isObj := lhs.(*runtime.JsObject)
		if !isObj {
			return false, nil
		}
		for p := obj.Proto(); p != nil; p = p.Proto() {
			if p == target {
				return true, nil
			}
		}
		return false, nil
	}
	return nil, runtime.NewTypeError("right-hand side of instanceof is not callable")
}

// literal text helpers

// parseNumber converts a numeric literal's text, honoring the radix
// prefixes and separators the lexer admits.
func parseNumber(text string) any {
	text = strings.ReplaceAll(text, "_", "")
	if len(text) > 2 && text[0] == '0' {
		base := 0
		switch text[1] {
		case 'x', 'X':
			base = 16
		case 'b', 'B':
			base = 2
		case 'o', 'O':
			base = 8
		}
		if base != 0 {
			if n, err := strconv.ParseInt(text[2:], base, 64); err == nil {
				return runtime.Narrow(float64(n))
			}
			return math.NaN()
		}
	}
	f, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return math.NaN()
	}
	return runtime.Narrow(f)
}

// unquote strips the surrounding quotes of a string literal and resolves
// its escapes.
func unquote(text string) string {
	if len(text) >= 2 {
		text = text[1 : len(text)-1]
	}
	return unescape(text)
}

func unescape(text string) string {
	if !strings.ContainsRune(text, '\\') {
		return text
	}
	var sb strings.Builder
	for i := 0; i < len(text); i++ {
		c := text[i]
		if c != '\\' || i+1 >= len(text) {
			sb.WriteByte(c)
			continue
		}
		i++
		switch text[i] {
		case 'n':
			sb.WriteByte('\n')
		case 't':
			sb.WriteByte('\t')
		case 'r':
			sb.WriteByte('\r')
		case 'b':
			sb.WriteByte('\b')
		case 'f':
			sb.WriteByte('\f')
		case 'v':
			sb.WriteByte('\v')
		case '0':
			sb.WriteByte(0)
		case 'x':
			if i+2 < len(text) {
				if n, err := strconv.ParseUint(text[i+1:i+3], 16, 8); err == nil {
					sb.WriteByte(byte(n))
					i += 2
					continue
				}
			}
			sb.WriteByte('x')
		case 'u':
			if r, consumed := unescapeUnicode(text[i:]); consumed > 0 {
				sb.WriteRune(r)
				i += consumed - 1
				continue
			}
			sb.WriteByte('u')
		default:
			sb.WriteByte(text[i])
		}
	}
	return sb.String()
}

// unescapeUnicode handles \uNNNN and \u{...}; the input starts at 'u'.
func unescapeUnicode(text string) (rune, int) {
	if len(text) > 2 && text[1] == '{' {
		end := strings.IndexByte(text, '}')
		if end > 2 {
			if n, err := strconv.ParseUint(text[2:end], 16, 32); err == nil {
				return rune(n), end + 1
			}
		}
		return 0, 0
	}
	if len(text) >= 5 {
		if n, err := strconv.ParseUint(text[1:5], 16, 32); err == nil {
			return rune(n), 5
		}
	}
	return 0, 0
}
