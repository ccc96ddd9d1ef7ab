// Package types implements the strict type checker of §4.2: it assigns a
// Type to every expression, validates ownership annotations, monomorphizes
// generic calls, and enforces match exhaustiveness. It never coerces.
package types

import (
	"fmt"

	"github.com/atlas-lang/atlas/internal/ast"
	"github.com/atlas-lang/atlas/internal/diag"
	"github.com/atlas-lang/atlas/internal/dispatch"
	"github.com/atlas-lang/atlas/internal/symbols"
)

// Checker holds the mutable state of one type-checking pass over an
// annotated tree produced by internal/binder.
type Checker struct {
	bag        *diag.Bag
	varTypes   map[*symbols.Symbol]*ast.Type
	funcs      map[*symbols.Symbol]*ast.FuncDecl
	consumed   map[*symbols.Symbol]bool
	returnType *ast.Type
	instCache  map[*ast.FuncDecl]map[string]*ast.Instantiation
}

// New constructs a Checker that stops collecting errors after maxErrors
// (§4.2's contract: "Stops after 25 errors").
func New(maxErrors int) *Checker {
	return &Checker{
		bag:       diag.NewBag(maxErrors),
		varTypes:  make(map[*symbols.Symbol]*ast.Type),
		funcs:     make(map[*symbols.Symbol]*ast.FuncDecl),
		consumed:  make(map[*symbols.Symbol]bool),
		instCache: make(map[*ast.FuncDecl]map[string]*ast.Instantiation),
	}
}

// Check type-checks prog in place, filling ExprBase.Type and MemberExpr.Tag
// fields, and returns the accumulated diagnostics.
func (c *Checker) Check(prog *ast.Program) []diag.Diagnostic {
	c.collectFuncs(prog.Items)
	for _, item := range prog.Items {
		c.checkItem(item)
	}
	return c.bag.All()
}

// collectFuncs is the checker's own hoisting pass: every function
// declaration's signature must be visible to every call site regardless of
// lexical order, mirroring the binder's two-pass structure (§4.1).
func (c *Checker) collectFuncs(nodes []ast.Node) {
	for _, n := range nodes {
		c.collectFuncsOne(n)
	}
}

func (c *Checker) collectFuncsOne(n ast.Node) {
	switch v := n.(type) {
	case *ast.FuncDecl:
		if v.Symbol != nil {
			c.funcs[v.Symbol] = v
		}
		for _, p := range v.Params {
			if p.Symbol != nil {
				c.varTypes[p.Symbol] = p.Type
			}
		}
		if v.Body != nil {
			c.collectFuncs(v.Body.Stmts)
		}
	case *ast.BlockStmt:
		c.collectFuncs(v.Stmts)
	case *ast.IfStmt:
		c.collectFuncsOne(v.Then)
		if v.Else != nil {
			c.collectFuncsOne(v.Else)
		}
	case *ast.WhileStmt:
		c.collectFuncsOne(v.Body)
	case *ast.ForStmt:
		c.collectFuncsOne(v.Body)
	}
}

func (c *Checker) checkItem(n ast.Node) {
	switch v := n.(type) {
	case *ast.FuncDecl:
		c.checkFuncDecl(v)
	case *ast.LetDecl:
		c.checkLetDecl(v)
	case *ast.ImportDecl:
		// Imported bindings are resolved at runtime by internal/modresolve;
		// the checker treats them as dynamically typed.
	default:
		c.checkStmt(n)
	}
}

func (c *Checker) checkFuncDecl(fd *ast.FuncDecl) {
	prevReturn := c.returnType
	c.returnType = fd.ReturnType
	terminates := c.checkBlock(fd.Body)
	if fd.ReturnType != nil && fd.ReturnType.Kind != ast.KindVoid && !terminates {
		c.bag.Add(diag.New(diag.CodeMissingReturn, fd.Sp, fmt.Sprintf("function %q is missing a return on some path", fd.Name)))
	}
	c.returnType = prevReturn
}

// checkBlock returns true if every path through the block ends in a return,
// the signal checkFuncDecl uses to report AT0004.
func (c *Checker) checkBlock(b *ast.BlockStmt) bool {
	if b == nil {
		return false
	}
	returns := false
	for _, s := range b.Stmts {
		if c.checkStmt(s) {
			returns = true
		}
	}
	return returns
}

func (c *Checker) checkStmt(n ast.Node) bool {
	switch s := n.(type) {
	case *ast.BlockStmt:
		return c.checkBlock(s)
	case *ast.ExprStmt:
		c.typeOf(s.Expr)
		return false
	case *ast.ReturnStmt:
		want := c.returnType
		got := ast.Void()
		if s.Value != nil {
			got = c.typeOf(s.Value)
		}
		if want != nil && want.Kind != ast.KindVoid && got != nil && !want.Equal(got) {
			c.bag.Add(diag.New(diag.CodeTypeMismatch, s.Sp, fmt.Sprintf("expected return type %s, found %s", want, got)))
		}
		return true
	case *ast.IfStmt:
		ct := c.typeOf(s.Cond)
		if ct != nil && ct.Kind != ast.KindBool {
			c.bag.Add(diag.New(diag.CodeTypeMismatch, s.Cond.Span(), "if condition must be bool, found "+ct.String()))
		}
		thenReturns := c.checkBlock(s.Then)
		if s.Else == nil {
			return false
		}
		return thenReturns && c.checkStmt(s.Else)
	case *ast.WhileStmt:
		ct := c.typeOf(s.Cond)
		if ct != nil && ct.Kind != ast.KindBool {
			c.bag.Add(diag.New(diag.CodeTypeMismatch, s.Cond.Span(), "while condition must be bool, found "+ct.String()))
		}
		c.checkBlock(s.Body)
		return false
	case *ast.ForStmt:
		if s.Init != nil {
			c.checkStmt(s.Init)
		}
		if s.Cond != nil {
			ct := c.typeOf(s.Cond)
			if ct != nil && ct.Kind != ast.KindBool {
				c.bag.Add(diag.New(diag.CodeTypeMismatch, s.Cond.Span(), "for condition must be bool, found "+ct.String()))
			}
		}
		if s.Post != nil {
			c.typeOf(s.Post)
		}
		c.checkBlock(s.Body)
		return false
	case *ast.BreakStmt, *ast.ContinueStmt:
		return false
	case *ast.LetDecl:
		c.checkLetDecl(s)
		return false
	case *ast.FuncDecl:
		c.checkFuncDecl(s)
		return false
	default:
		return false
	}
}

func (c *Checker) checkLetDecl(ld *ast.LetDecl) {
	var t *ast.Type
	if ld.Init != nil {
		t = c.typeOf(ld.Init)
	}
	if ld.Type != nil {
		if t != nil && !t.Equal(ld.Type) {
			c.bag.Add(diag.New(diag.CodeTypeMismatch, ld.Sp, fmt.Sprintf("cannot assign %s to binding of type %s", t, ld.Type)))
		}
		t = ld.Type
	}
	if ld.Symbol != nil {
		c.varTypes[ld.Symbol] = t
	}
	ld.Type = t
}

// typeOf infers the Type of e, records it on the node, and returns it. nil
// means the type is unknown (e.g. a name bound outside this module), which
// callers treat as "skip this check" rather than an error.
func (c *Checker) typeOf(e ast.Expr) *ast.Type {
	if e == nil {
		return nil
	}
	switch n := e.(type) {
	case *ast.Identifier:
		if n.Symbol == nil {
			return nil
		}
		if c.consumed[n.Symbol] {
			c.bag.Add(diag.New(diag.CodeInvalidAssignment, n.Sp, fmt.Sprintf("use of moved binding %q", n.Name)))
		}
		t := c.varTypes[n.Symbol]
		n.Type = t
		return t
	case *ast.NumberLit:
		n.Type = ast.Number()
		return n.Type
	case *ast.StringLit:
		n.Type = ast.StringT()
		return n.Type
	case *ast.BoolLit:
		n.Type = ast.Bool()
		return n.Type
	case *ast.NullLit:
		n.Type = ast.Null()
		return n.Type
	case *ast.ArrayLit:
		return c.typeOfArrayLit(n)
	case *ast.BinaryOp:
		return c.typeOfBinary(n)
	case *ast.UnaryOp:
		return c.typeOfUnary(n)
	case *ast.Assign:
		return c.typeOfAssign(n)
	case *ast.IncDec:
		t := c.typeOf(n.Target)
		if t != nil && t.Kind != ast.KindNumber {
			c.bag.Add(diag.New(diag.CodeTypeMismatch, n.Sp, n.Op+" requires a number, found "+t.String()))
		}
		n.Type = t
		return t
	case *ast.CallExpr:
		return c.typeOfCall(n)
	case *ast.MemberExpr:
		return c.typeOfMember(n)
	case *ast.IndexExpr:
		return c.typeOfIndex(n)
	case *ast.MatchExpr:
		return c.typeOfMatch(n)
	default:
		return nil
	}
}

func (c *Checker) typeOfArrayLit(n *ast.ArrayLit) *ast.Type {
	var elem *ast.Type
	for _, el := range n.Elems {
		et := c.typeOf(el)
		if elem == nil {
			elem = et
		} else if et != nil && !elem.Equal(et) {
			c.bag.Add(diag.New(diag.CodeTypeMismatch, el.Span(), "array elements must share a common type"))
		}
	}
	if elem == nil {
		elem = ast.Named("unknown")
	}
	n.Type = ast.Array(elem)
	return n.Type
}

func isNum(t *ast.Type) bool  { return t != nil && t.Kind == ast.KindNumber }
func isStr(t *ast.Type) bool  { return t != nil && t.Kind == ast.KindString }
func isBool(t *ast.Type) bool { return t != nil && t.Kind == ast.KindBool }

func (c *Checker) reportOperatorMismatch(sp diag.Span, op string, lt, rt *ast.Type) {
	c.bag.Add(diag.New(diag.CodeTypeMismatch, sp, fmt.Sprintf("operator %q not defined for %s and %s", op, lt, rt)))
}

func (c *Checker) typeOfBinary(n *ast.BinaryOp) *ast.Type {
	lt := c.typeOf(n.Left)
	rt := c.typeOf(n.Right)
	var result *ast.Type
	switch n.Op {
	case "+":
		switch {
		case isNum(lt) && isNum(rt):
			result = ast.Number()
		case isStr(lt) && isStr(rt):
			result = ast.StringT()
		default:
			c.reportOperatorMismatch(n.Sp, n.Op, lt, rt)
			result = ast.Number()
		}
	case "-", "*", "/", "%":
		if isNum(lt) && isNum(rt) {
			result = ast.Number()
		} else {
			c.reportOperatorMismatch(n.Sp, n.Op, lt, rt)
			result = ast.Number()
		}
	case "<", "<=", ">", ">=":
		if !isNum(lt) || !isNum(rt) {
			c.reportOperatorMismatch(n.Sp, n.Op, lt, rt)
		}
		result = ast.Bool()
	case "==", "!=":
		if lt != nil && rt != nil && !lt.Equal(rt) {
			c.bag.Add(diag.New(diag.CodeTypeMismatch, n.Sp, fmt.Sprintf("cannot compare %s and %s", lt, rt)))
		}
		result = ast.Bool()
	case "&&", "||":
		if !isBool(lt) || !isBool(rt) {
			c.reportOperatorMismatch(n.Sp, n.Op, lt, rt)
		}
		result = ast.Bool()
	default:
		result = ast.Number()
	}
	n.Type = result
	return result
}

func (c *Checker) typeOfUnary(n *ast.UnaryOp) *ast.Type {
	t := c.typeOf(n.Operand)
	var result *ast.Type
	switch n.Op {
	case "-":
		if !isNum(t) {
			c.bag.Add(diag.New(diag.CodeTypeMismatch, n.Sp, "unary - requires a number, found "+t.String()))
		}
		result = ast.Number()
	case "!":
		if !isBool(t) {
			c.bag.Add(diag.New(diag.CodeTypeMismatch, n.Sp, "unary ! requires a bool, found "+t.String()))
		}
		result = ast.Bool()
	default:
		result = t
	}
	n.Type = result
	return result
}

// assignTargetType resolves the type of an assignment target without
// triggering the moved-binding diagnostic typeOf would raise for a read: an
// assignment target is being overwritten, not used.
func (c *Checker) assignTargetType(e ast.Expr) *ast.Type {
	if id, ok := e.(*ast.Identifier); ok {
		if id.Symbol == nil {
			return nil
		}
		t := c.varTypes[id.Symbol]
		id.Type = t
		return t
	}
	return c.typeOf(e)
}

func (c *Checker) typeOfAssign(n *ast.Assign) *ast.Type {
	vt := c.typeOf(n.Value)
	tt := c.assignTargetType(n.Target)

	switch n.Op {
	case "=":
		if tt != nil && vt != nil && !tt.Equal(vt) {
			c.bag.Add(diag.New(diag.CodeTypeMismatch, n.Sp, fmt.Sprintf("cannot assign %s to %s", vt, tt)))
		}
		if id, ok := n.Target.(*ast.Identifier); ok && id.Symbol != nil {
			delete(c.consumed, id.Symbol)
		}
	case "+=":
		if !((isNum(tt) && isNum(vt)) || (isStr(tt) && isStr(vt))) {
			c.reportOperatorMismatch(n.Sp, n.Op, tt, vt)
		}
	default: // "-=", "*=", "/=", "%="
		if !isNum(tt) || !isNum(vt) {
			c.reportOperatorMismatch(n.Sp, n.Op, tt, vt)
		}
	}
	n.Type = tt
	return tt
}

func (c *Checker) typeOfIndex(n *ast.IndexExpr) *ast.Type {
	rt := c.typeOf(n.Receiver)
	it := c.typeOf(n.Index)
	if it != nil && it.Kind != ast.KindNumber {
		c.bag.Add(diag.New(diag.CodeTypeMismatch, n.Index.Span(), "index must be a number, found "+it.String()))
	}
	var result *ast.Type
	switch {
	case rt == nil:
	case rt.Kind == ast.KindArray:
		result = rt.Elem
	default:
		c.bag.Add(diag.New(diag.CodeTypeMismatch, n.Sp, "cannot index into "+rt.String()))
	}
	n.Type = result
	return result
}

func (c *Checker) typeOfCall(n *ast.CallExpr) *ast.Type {
	if me, ok := n.Callee.(*ast.MemberExpr); ok {
		return c.typeOfMethodCall(n, me)
	}
	if id, ok := n.Callee.(*ast.Identifier); ok && id.Symbol != nil {
		if fd, ok := c.funcs[id.Symbol]; ok {
			return c.typeOfUserCall(n, fd)
		}
	}
	// Prelude builtins, imported names, and indirect calls are dynamically
	// typed here; the runtime enforces their contracts.
	c.typeOf(n.Callee)
	for _, a := range n.Args {
		c.typeOf(a)
	}
	return nil
}

func (c *Checker) typeOfUserCall(n *ast.CallExpr, fd *ast.FuncDecl) *ast.Type {
	for _, a := range n.Args {
		c.typeOf(a)
	}
	if len(n.Args) != len(fd.Params) {
		c.bag.Add(diag.New(diag.CodeTypeMismatch, n.Sp, fmt.Sprintf("%q expects %d argument(s), found %d", fd.Name, len(fd.Params), len(n.Args))))
		n.Type = fd.ReturnType
		return fd.ReturnType
	}
	if len(fd.TypeParams) > 0 {
		return c.typeOfGenericCall(n, fd)
	}
	for i, p := range fd.Params {
		got := n.Args[i].ResolvedType()
		if p.Type != nil && got != nil && !p.Type.Equal(got) {
			c.bag.Add(diag.New(diag.CodeTypeMismatch, n.Args[i].Span(), fmt.Sprintf("argument %d to %q: expected %s, found %s", i+1, fd.Name, p.Type, got)))
		}
		c.consumeIfOwned(p, n.Args[i])
	}
	n.Type = fd.ReturnType
	return fd.ReturnType
}

func (c *Checker) consumeIfOwned(p *ast.Param, arg ast.Expr) {
	if p.Own != ast.Own {
		return
	}
	if id, ok := arg.(*ast.Identifier); ok && id.Symbol != nil {
		c.consumed[id.Symbol] = true
	}
}

// unify walks paramType and argType in lockstep, binding any KindTypeParam
// names it encounters in paramType to the corresponding shape in argType.
// The first binding for a given name wins; later call-site arguments only
// confirm or are checked against it, never overwrite it.
func unify(paramType, argType *ast.Type, bindings map[string]*ast.Type) {
	if paramType == nil || argType == nil {
		return
	}
	if paramType.Kind == ast.KindTypeParam {
		if _, ok := bindings[paramType.Name]; !ok {
			bindings[paramType.Name] = argType
		}
		return
	}
	switch paramType.Kind {
	case ast.KindArray, ast.KindHashSet, ast.KindQueue, ast.KindStack, ast.KindShared:
		if argType.Kind == paramType.Kind {
			unify(paramType.Elem, argType.Elem, bindings)
		}
	case ast.KindHashMap:
		if argType.Kind == ast.KindHashMap {
			unify(paramType.Key, argType.Key, bindings)
			unify(paramType.Elem, argType.Elem, bindings)
		}
	}
}

func substitute(t *ast.Type, bindings map[string]*ast.Type) *ast.Type {
	if t == nil {
		return nil
	}
	switch t.Kind {
	case ast.KindTypeParam:
		if bt, ok := bindings[t.Name]; ok {
			return bt
		}
		return t
	case ast.KindArray:
		return ast.Array(substitute(t.Elem, bindings))
	case ast.KindHashSet:
		return ast.HashSet(substitute(t.Elem, bindings))
	case ast.KindQueue:
		return ast.Queue(substitute(t.Elem, bindings))
	case ast.KindStack:
		return ast.Stack(substitute(t.Elem, bindings))
	case ast.KindShared:
		return ast.Shared(substitute(t.Elem, bindings))
	case ast.KindHashMap:
		return ast.HashMap(substitute(t.Key, bindings), substitute(t.Elem, bindings))
	case ast.KindFunction:
		params := make([]*ast.Type, len(t.Params))
		for i, p := range t.Params {
			params[i] = substitute(p, bindings)
		}
		return ast.Func(params, substitute(t.Result, bindings))
	default:
		return t
	}
}

func (c *Checker) typeOfGenericCall(n *ast.CallExpr, fd *ast.FuncDecl) *ast.Type {
	bindings := make(map[string]*ast.Type)
	if len(n.TypeArgs) > 0 {
		for i, tp := range fd.TypeParams {
			if i < len(n.TypeArgs) {
				bindings[tp] = n.TypeArgs[i]
			}
		}
	} else {
		for i, p := range fd.Params {
			if i < len(n.Args) {
				unify(p.Type, n.Args[i].ResolvedType(), bindings)
			}
		}
	}
	for i, p := range fd.Params {
		if i >= len(n.Args) {
			break
		}
		want := substitute(p.Type, bindings)
		got := n.Args[i].ResolvedType()
		if want != nil && got != nil && !want.Equal(got) {
			c.bag.Add(diag.New(diag.CodeTypeMismatch, n.Args[i].Span(), fmt.Sprintf("argument %d to %q: expected %s, found %s", i+1, fd.Name, want, got)))
		}
		c.consumeIfOwned(p, n.Args[i])
	}
	result := substitute(fd.ReturnType, bindings)
	args := make([]*ast.Type, len(fd.TypeParams))
	for i, tp := range fd.TypeParams {
		t := bindings[tp]
		if t == nil {
			t = ast.Named("unknown")
		}
		args[i] = t
	}
	c.recordInstantiation(fd, args)
	n.TypeArgs = args
	n.Type = result
	return result
}

// recordInstantiation appends a new Instantiation to fd the first time this
// exact type-argument tuple is observed across the whole program, so the
// compiler emits one specialization per unique tuple (§4.2).
func (c *Checker) recordInstantiation(fd *ast.FuncDecl, args []*ast.Type) {
	key := instantiationKey(args)
	cache := c.instCache[fd]
	if cache == nil {
		cache = make(map[string]*ast.Instantiation)
		c.instCache[fd] = cache
	}
	if _, exists := cache[key]; exists {
		return
	}
	inst := &ast.Instantiation{TypeArgs: args}
	cache[key] = inst
	fd.Instantiations = append(fd.Instantiations, inst)
}

// instantiationKey renders a type-argument tuple to a string unique per
// distinct tuple, shared with internal/compiler so both stages agree on
// which Instantiation a given call site's TypeArgs picks out.
func instantiationKey(args []*ast.Type) string {
	key := ""
	for _, t := range args {
		key += t.String() + ";"
	}
	return key
}

func (c *Checker) typeOfMember(n *ast.MemberExpr) *ast.Type {
	recvType := c.typeOf(n.Receiver)
	n.Tag = ast.TagForType(recvType)
	if n.Tag == ast.TagNone {
		if recvType != nil {
			c.bag.Add(diag.New(diag.CodeTypeMismatch, n.Sp, fmt.Sprintf("type %s has no methods", recvType)))
		}
		return nil
	}
	// A bare MemberExpr (not the callee of a CallExpr) denotes a method
	// reference with no resolved scalar type; typeOfMethodCall handles the
	// call form and overwrites n.Type with the method's result type.
	return nil
}

func (c *Checker) typeOfMethodCall(n *ast.CallExpr, me *ast.MemberExpr) *ast.Type {
	recvType := c.typeOf(me.Receiver)
	me.Tag = ast.TagForType(recvType)
	for _, a := range n.Args {
		c.typeOf(a)
	}
	if me.Tag == ast.TagNone {
		if recvType != nil {
			c.bag.Add(diag.New(diag.CodeTypeMismatch, me.Sp, fmt.Sprintf("type %s has no methods", recvType)))
		}
		return nil
	}
	if _, _, ok := dispatch.ResolveMethod(me.Tag, me.Name); !ok {
		c.bag.Add(diag.New(diag.CodeTypeMismatch, me.Sp, dispatch.UnknownMethodMessage(me.Tag, me.Name)))
		return nil
	}
	result := methodResultType(me.Tag, me.Name, recvType)
	me.Type = result
	n.Type = result
	return result
}

// methodResultType approximates the static return type of a stdlib method
// by tag and name, matching the dispatch table's representative slice
// (internal/dispatch/methods.go). Mutating methods that the spec says
// "return the (possibly new) aggregate" (§4.6) resolve to the receiver's
// own type.
func methodResultType(tag ast.TypeTag, name string, recv *ast.Type) *ast.Type {
	switch tag {
	case ast.TagArray:
		switch name {
		case "push", "set", "sort", "pop", "remove":
			return recv
		case "filter":
			return recv
		case "get":
			if recv != nil {
				return recv.Elem
			}
			return nil
		case "len":
			return ast.Number()
		case "map":
			return ast.Array(ast.Named("unknown"))
		}
	case ast.TagString:
		switch name {
		case "len":
			return ast.Number()
		case "toUpper", "toLower":
			return ast.StringT()
		case "split":
			return ast.Array(ast.StringT())
		}
	case ast.TagHashMap:
		switch name {
		case "get":
			if recv != nil {
				return recv.Elem
			}
			return nil
		case "set", "remove":
			return recv
		case "len":
			return ast.Number()
		case "keys":
			if recv != nil {
				return ast.Array(recv.Key)
			}
			return nil
		}
	case ast.TagHashSet:
		switch name {
		case "add", "remove":
			return recv
		case "contains":
			return ast.Bool()
		case "len":
			return ast.Number()
		}
	case ast.TagQueue:
		switch name {
		case "enqueue", "dequeue":
			return recv
		case "peek":
			if recv != nil {
				return recv.Elem
			}
			return nil
		case "len":
			return ast.Number()
		}
	case ast.TagStack:
		switch name {
		case "push", "pop":
			return recv
		case "peek":
			if recv != nil {
				return recv.Elem
			}
			return nil
		case "len":
			return ast.Number()
		}
	case ast.TagJson:
		return ast.Json()
	case ast.TagShared:
		switch name {
		case "get":
			if recv != nil {
				return recv.Elem
			}
			return nil
		case "set":
			return ast.Void()
		}
	}
	return nil
}

func (c *Checker) typeOfMatch(n *ast.MatchExpr) *ast.Type {
	subjectType := c.typeOf(n.Subject)
	var armType *ast.Type
	hasCatchAll := false
	for _, arm := range n.Arms {
		c.bindPattern(arm.Pattern, subjectType)
		at := c.typeOf(arm.Expr)
		if armType == nil {
			armType = at
		} else if at != nil && !armType.Equal(at) {
			c.bag.Add(diag.New(diag.CodeTypeMismatch, arm.Expr.Span(), "match arms must have a common type"))
		}
		if isCatchAllPattern(arm.Pattern) {
			hasCatchAll = true
		}
	}
	if !hasCatchAll {
		c.bag.Add(diag.New(diag.CodeNonExhaustiveMatch, n.Sp, "match is not exhaustive; add a wildcard or variable arm"))
	}
	n.Type = armType
	return armType
}

// bindPattern assigns subjectType (or a structural component of it) to
// every binding the pattern introduces, so arm bodies can reference them.
func (c *Checker) bindPattern(p ast.Pattern, subjectType *ast.Type) {
	switch pt := p.(type) {
	case *ast.VariablePattern:
		if pt.Symbol != nil {
			c.varTypes[pt.Symbol] = subjectType
		}
	case *ast.ArrayPattern:
		var elem *ast.Type
		if subjectType != nil && subjectType.Kind == ast.KindArray {
			elem = subjectType.Elem
		}
		for _, sub := range pt.Elems {
			c.bindPattern(sub, elem)
		}
	case *ast.ConstructorPattern:
		for _, sub := range pt.Fields {
			c.bindPattern(sub, nil)
		}
	case *ast.LiteralPattern:
		c.typeOf(pt.Value)
	}
}

func isCatchAllPattern(p ast.Pattern) bool {
	switch p.(type) {
	case *ast.WildcardPattern, *ast.VariablePattern:
		return true
	default:
		return false
	}
}
