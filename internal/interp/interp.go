// Package interp implements the tree-walk interpreter of §4.4. It
// evaluates the annotated AST produced by internal/binder and
// internal/types directly, routing every stdlib and method call through
// internal/dispatch so its observable behavior can never diverge from
// internal/vm's — the engine-parity invariant of §8.1 holds because both
// engines share this one dispatch surface and internal/rterr's error
// constructors, not because either engine takes care to match the other.
package interp

import (
	"fmt"

	"github.com/atlas-lang/atlas/internal/ast"
	"github.com/atlas-lang/atlas/internal/diag"
	"github.com/atlas-lang/atlas/internal/dispatch"
	"github.com/atlas-lang/atlas/internal/rterr"
	"github.com/atlas-lang/atlas/internal/security"
	"github.com/atlas-lang/atlas/internal/symbols"
	"github.com/atlas-lang/atlas/internal/value"
)

// Interpreter holds the mutable state of one evaluation of a Program
// (§4.4's contract: "(annotated_ast, symbol_table, security_context,
// output_writer) -> Value | runtime_error"). A Interpreter is single-use:
// construct a fresh one per top-level evaluation.
type Interpreter struct {
	sec     *security.Context
	out     dispatch.Output
	globals *env
	funcs   map[*symbols.Symbol]*ast.FuncDecl
}

// New constructs an Interpreter. sec is threaded to every builtin call
// unchanged (§5 "shared, read-only handle"); out receives every print.
func New(sec *security.Context, out dispatch.Output) *Interpreter {
	return &Interpreter{
		sec:     sec,
		out:     out,
		globals: newEnv(nil),
		funcs:   make(map[*symbols.Symbol]*ast.FuncDecl),
	}
}

// Global binds name directly into the interpreter's global scope before
// Run, the mechanism internal/modresolve uses to splice an imported
// module's exports into the importer's globals (§4.7 "the importer's
// globals contain the imported bindings").
func (in *Interpreter) Global(sym *symbols.Symbol, v value.Value) {
	in.globals.vars[sym] = v
}

// GlobalValue reads a binding out of the interpreter's global scope after
// Run, the other half of Global: internal/modresolve uses it to read a
// loaded module's top-level bindings back out as its export map.
func (in *Interpreter) GlobalValue(sym *symbols.Symbol) (value.Value, bool) {
	return in.globals.get(sym)
}

// Run evaluates every top-level item in order and returns the value of
// the last expression statement evaluated, or Null if the program ended
// on a declaration or statement rather than an expression.
func (in *Interpreter) Run(prog *ast.Program) (value.Value, error) {
	in.hoistFuncs(prog.Items)
	last := value.Null
	for _, item := range prog.Items {
		switch it := item.(type) {
		case *ast.FuncDecl, *ast.ImportDecl:
			continue
		case *ast.LetDecl:
			if err := in.execLetDecl(in.globals, it); err != nil {
				return value.Value{}, err
			}
			last = value.Null
		case *ast.ExprStmt:
			v, err := in.evalExpr(in.globals, it.Expr)
			if err != nil {
				return value.Value{}, err
			}
			last = v
		default:
			c, err := in.execStmt(in.globals, item)
			if err != nil {
				return value.Value{}, err
			}
			if c.kind == ctrlReturn {
				return c.value, nil
			}
			last = value.Null
		}
	}
	return last, nil
}

// hoistFuncs records every top-level function declaration's symbol before
// execution begins, mirroring the binder's own hoisting pass (§4.1) so
// forward and mutually recursive calls resolve regardless of declaration
// order.
func (in *Interpreter) hoistFuncs(items []ast.Node) {
	for _, it := range items {
		if fd, ok := it.(*ast.FuncDecl); ok && fd.Symbol != nil {
			in.funcs[fd.Symbol] = fd
		}
	}
}

func (in *Interpreter) execLetDecl(e *env, ld *ast.LetDecl) error {
	v, err := in.evalExpr(e, ld.Init)
	if err != nil {
		return err
	}
	if ld.Symbol != nil {
		e.vars[ld.Symbol] = v
	}
	return nil
}

func (in *Interpreter) execBlock(parent *env, b *ast.BlockStmt) (ctrl, error) {
	if b == nil {
		return noCtrl, nil
	}
	e := newEnv(parent)
	for _, s := range b.Stmts {
		c, err := in.execStmt(e, s)
		if err != nil {
			return noCtrl, err
		}
		if c.kind != ctrlNone {
			return c, nil
		}
	}
	return noCtrl, nil
}

func (in *Interpreter) execStmt(e *env, n ast.Node) (ctrl, error) {
	switch s := n.(type) {
	case *ast.BlockStmt:
		return in.execBlock(e, s)
	case *ast.ExprStmt:
		if _, err := in.evalExpr(e, s.Expr); err != nil {
			return noCtrl, err
		}
		return noCtrl, nil
	case *ast.LetDecl:
		if err := in.execLetDecl(e, s); err != nil {
			return noCtrl, err
		}
		return noCtrl, nil
	case *ast.ReturnStmt:
		if s.Value == nil {
			return ctrl{kind: ctrlReturn, value: value.Null}, nil
		}
		v, err := in.evalExpr(e, s.Value)
		if err != nil {
			return noCtrl, err
		}
		return ctrl{kind: ctrlReturn, value: v}, nil
	case *ast.IfStmt:
		return in.execIf(e, s)
	case *ast.WhileStmt:
		return in.execWhile(e, s)
	case *ast.ForStmt:
		return in.execFor(e, s)
	case *ast.BreakStmt:
		return ctrl{kind: ctrlBreak}, nil
	case *ast.ContinueStmt:
		return ctrl{kind: ctrlContinue}, nil
	case *ast.FuncDecl:
		return noCtrl, nil
	default:
		return noCtrl, nil
	}
}

func (in *Interpreter) execIf(e *env, s *ast.IfStmt) (ctrl, error) {
	cond, err := in.evalExpr(e, s.Cond)
	if err != nil {
		return noCtrl, err
	}
	if cond.Kind() != value.KindBool {
		return noCtrl, rterr.TypeError(s.Cond.Span(), "if condition must be bool, found "+cond.TypeName())
	}
	if cond.AsBool() {
		return in.execBlock(e, s.Then)
	}
	if s.Else != nil {
		return in.execStmt(e, s.Else)
	}
	return noCtrl, nil
}

func (in *Interpreter) execWhile(e *env, s *ast.WhileStmt) (ctrl, error) {
	for {
		cond, err := in.evalExpr(e, s.Cond)
		if err != nil {
			return noCtrl, err
		}
		if cond.Kind() != value.KindBool {
			return noCtrl, rterr.TypeError(s.Cond.Span(), "while condition must be bool, found "+cond.TypeName())
		}
		if !cond.AsBool() {
			return noCtrl, nil
		}
		c, err := in.execBlock(e, s.Body)
		if err != nil {
			return noCtrl, err
		}
		if c.kind == ctrlBreak {
			return noCtrl, nil
		}
		if c.kind == ctrlReturn {
			return c, nil
		}
	}
}

func (in *Interpreter) execFor(e *env, s *ast.ForStmt) (ctrl, error) {
	forEnv := newEnv(e)
	if s.Init != nil {
		if _, err := in.execStmt(forEnv, s.Init); err != nil {
			return noCtrl, err
		}
	}
	for {
		if s.Cond != nil {
			cond, err := in.evalExpr(forEnv, s.Cond)
			if err != nil {
				return noCtrl, err
			}
			if cond.Kind() != value.KindBool {
				return noCtrl, rterr.TypeError(s.Cond.Span(), "for condition must be bool, found "+cond.TypeName())
			}
			if !cond.AsBool() {
				return noCtrl, nil
			}
		}
		c, err := in.execBlock(forEnv, s.Body)
		if err != nil {
			return noCtrl, err
		}
		if c.kind == ctrlBreak {
			return noCtrl, nil
		}
		if c.kind == ctrlReturn {
			return c, nil
		}
		if s.Post != nil {
			if _, err := in.evalExpr(forEnv, s.Post); err != nil {
				return noCtrl, err
			}
		}
	}
}

// evalExpr infers-free evaluates e: the type checker already assigned
// every node's static Type, so the interpreter never branches on
// ResolvedType() except where method dispatch needs the TypeTag.
func (in *Interpreter) evalExpr(e *env, expr ast.Expr) (value.Value, error) {
	switch n := expr.(type) {
	case *ast.Identifier:
		return in.evalIdentifier(e, n)
	case *ast.NumberLit:
		return value.Number(n.Value), nil
	case *ast.StringLit:
		return value.String(n.Value), nil
	case *ast.BoolLit:
		return value.Bool(n.Value), nil
	case *ast.NullLit:
		return value.Null, nil
	case *ast.ArrayLit:
		elems := make([]value.Value, len(n.Elems))
		for i, el := range n.Elems {
			v, err := in.evalExpr(e, el)
			if err != nil {
				return value.Value{}, err
			}
			elems[i] = v
		}
		return value.Array(elems...), nil
	case *ast.BinaryOp:
		return in.evalBinary(e, n)
	case *ast.UnaryOp:
		v, err := in.evalExpr(e, n.Operand)
		if err != nil {
			return value.Value{}, err
		}
		return unaryOp(n.Sp, n.Op, v)
	case *ast.Assign:
		return in.evalAssign(e, n)
	case *ast.IncDec:
		return in.evalIncDec(e, n)
	case *ast.CallExpr:
		return in.evalCall(e, n)
	case *ast.MemberExpr:
		return value.Value{}, rterr.TypeError(n.Sp, "methods are only valid in call position")
	case *ast.IndexExpr:
		return in.evalIndex(e, n)
	case *ast.MatchExpr:
		return in.evalMatch(e, n)
	default:
		return value.Value{}, rterr.TypeError(expr.Span(), fmt.Sprintf("cannot evaluate node of type %T", expr))
	}
}

func (in *Interpreter) evalIdentifier(e *env, n *ast.Identifier) (value.Value, error) {
	if n.Symbol == nil {
		return value.Value{}, rterr.UnknownFunction(n.Sp, n.Name)
	}
	switch n.Symbol.Kind {
	case symbols.Builtin:
		return value.Builtin(n.Name), nil
	case symbols.Function:
		if fd, ok := in.funcs[n.Symbol]; ok {
			return value.Function(&value.FunctionValue{Name: fd.Name, Arity: len(fd.Params), Body: fd}), nil
		}
	}
	if v, ok := e.get(n.Symbol); ok {
		return v.Clone(), nil
	}
	return value.Value{}, rterr.UnknownFunction(n.Sp, n.Name)
}

func (in *Interpreter) evalBinary(e *env, n *ast.BinaryOp) (value.Value, error) {
	if n.Op == "&&" || n.Op == "||" {
		return in.evalShortCircuit(e, n)
	}
	l, err := in.evalExpr(e, n.Left)
	if err != nil {
		return value.Value{}, err
	}
	r, err := in.evalExpr(e, n.Right)
	if err != nil {
		return value.Value{}, err
	}
	return binaryOp(n.Sp, n.Op, l, r)
}

// evalShortCircuit implements §8.1's short-circuit property: the right
// operand is not evaluated at all once the left operand settles the
// result, which matters for programs that depend on it for side effects.
func (in *Interpreter) evalShortCircuit(e *env, n *ast.BinaryOp) (value.Value, error) {
	l, err := in.evalExpr(e, n.Left)
	if err != nil {
		return value.Value{}, err
	}
	if l.Kind() != value.KindBool {
		return value.Value{}, rterr.TypeError(n.Sp, fmt.Sprintf("operator %q not defined for %s", n.Op, l.TypeName()))
	}
	if n.Op == "&&" && !l.AsBool() {
		return value.Bool(false), nil
	}
	if n.Op == "||" && l.AsBool() {
		return value.Bool(true), nil
	}
	r, err := in.evalExpr(e, n.Right)
	if err != nil {
		return value.Value{}, err
	}
	if r.Kind() != value.KindBool {
		return value.Value{}, rterr.TypeError(n.Sp, fmt.Sprintf("operator %q not defined for %s", n.Op, r.TypeName()))
	}
	return r, nil
}

func (in *Interpreter) evalIncDec(e *env, n *ast.IncDec) (value.Value, error) {
	cur, err := in.evalExpr(e, n.Target)
	if err != nil {
		return value.Value{}, err
	}
	if cur.Kind() != value.KindNumber {
		return value.Value{}, rterr.TypeError(n.Sp, n.Op+" requires a number, found "+cur.TypeName())
	}
	delta := 1.0
	if n.Op == "--" {
		delta = -1.0
	}
	next := value.Number(cur.AsNumber() + delta)
	if err := in.store(e, n.Target, next); err != nil {
		return value.Value{}, err
	}
	if n.Prefix {
		return next, nil
	}
	return cur, nil
}

func (in *Interpreter) evalAssign(e *env, n *ast.Assign) (value.Value, error) {
	rhs, err := in.evalExpr(e, n.Value)
	if err != nil {
		return value.Value{}, err
	}
	if n.Op == "=" {
		if err := in.store(e, n.Target, rhs); err != nil {
			return value.Value{}, err
		}
		return rhs, nil
	}
	cur, err := in.evalExpr(e, n.Target)
	if err != nil {
		return value.Value{}, err
	}
	op := n.Op[:len(n.Op)-1] // "+=" -> "+", decomposed per §4.3
	result, err := binaryOp(n.Sp, op, cur, rhs)
	if err != nil {
		return value.Value{}, err
	}
	if err := in.store(e, n.Target, result); err != nil {
		return value.Value{}, err
	}
	return result, nil
}

// store writes v to an assignable expression: an identifier rebinds
// directly, an index expression triggers CoW through ArraySet and then
// recursively rebinds whatever the receiver expression names.
func (in *Interpreter) store(e *env, target ast.Expr, v value.Value) error {
	switch t := target.(type) {
	case *ast.Identifier:
		if t.Symbol == nil {
			return rterr.UnknownFunction(t.Sp, t.Name)
		}
		e.set(t.Symbol, v)
		return nil
	case *ast.IndexExpr:
		recv, err := in.evalExpr(e, t.Receiver)
		if err != nil {
			return err
		}
		idxVal, err := in.evalExpr(e, t.Index)
		if err != nil {
			return err
		}
		idx, err := wholeIndex(t.Index.Span(), idxVal)
		if err != nil {
			return err
		}
		next, ok := recv.ArraySet(idx, v)
		if !ok {
			return rterr.OutOfBounds(t.Sp, idx, recv.ArrayLen())
		}
		return in.store(e, t.Receiver, next)
	default:
		return rterr.TypeError(target.Span(), "invalid assignment target")
	}
}

func (in *Interpreter) evalIndex(e *env, n *ast.IndexExpr) (value.Value, error) {
	recv, err := in.evalExpr(e, n.Receiver)
	if err != nil {
		return value.Value{}, err
	}
	idxVal, err := in.evalExpr(e, n.Index)
	if err != nil {
		return value.Value{}, err
	}
	idx, err := wholeIndex(n.Index.Span(), idxVal)
	if err != nil {
		return value.Value{}, err
	}
	if recv.Kind() != value.KindArray {
		return value.Value{}, rterr.TypeError(n.Sp, "cannot index into "+recv.TypeName())
	}
	v, ok := recv.ArrayGet(idx)
	if !ok {
		return value.Value{}, rterr.OutOfBounds(n.Sp, idx, recv.ArrayLen())
	}
	return v, nil
}

func (in *Interpreter) evalArgs(e *env, args []ast.Expr) ([]value.Value, error) {
	out := make([]value.Value, len(args))
	for i, a := range args {
		v, err := in.evalExpr(e, a)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func (in *Interpreter) evalCall(e *env, n *ast.CallExpr) (value.Value, error) {
	if me, ok := n.Callee.(*ast.MemberExpr); ok {
		return in.evalMethodCall(e, n, me)
	}
	if id, ok := n.Callee.(*ast.Identifier); ok && id.Symbol != nil {
		switch id.Symbol.Kind {
		case symbols.Builtin:
			args, err := in.evalArgs(e, n.Args)
			if err != nil {
				return value.Value{}, err
			}
			return dispatch.Call(id.Name, args, n.Sp, in.sec, in.out)
		case symbols.Function:
			if fd, ok := in.funcs[id.Symbol]; ok {
				args, err := in.evalArgs(e, n.Args)
				if err != nil {
					return value.Value{}, err
				}
				return in.invokeFuncDecl(fd, args, n.Sp)
			}
		}
	}
	callee, err := in.evalExpr(e, n.Callee)
	if err != nil {
		return value.Value{}, err
	}
	args, err := in.evalArgs(e, n.Args)
	if err != nil {
		return value.Value{}, err
	}
	return in.callValue(callee, args, n.Sp)
}

func (in *Interpreter) callValue(callee value.Value, args []value.Value, span diag.Span) (value.Value, error) {
	switch callee.Kind() {
	case value.KindBuiltin:
		return dispatch.Call(callee.BuiltinName(), args, span, in.sec, in.out)
	case value.KindFunction:
		fd, _ := callee.AsFunction().Body.(*ast.FuncDecl)
		return in.invokeFuncDecl(fd, args, span)
	case value.KindNativeFunction:
		return callee.AsNativeFunction()(args)
	default:
		return value.Value{}, rterr.UnknownFunction(span, callee.String())
	}
}

// invokeFuncDecl runs fd's body in a fresh frame parented on the globals,
// not on the caller's locals: Atlas functions have no lexical closures
// over caller state (§4.4 "pushes a new frame initialized with parameter
// bindings").
func (in *Interpreter) invokeFuncDecl(fd *ast.FuncDecl, args []value.Value, span diag.Span) (value.Value, error) {
	if fd == nil {
		return value.Value{}, rterr.UnknownFunction(span, "<indirect>")
	}
	if len(args) != len(fd.Params) {
		return value.Value{}, rterr.InvalidStdlibArgument(span, fd.Name, fmt.Sprintf("expected %d argument(s), got %d", len(fd.Params), len(args)))
	}
	callEnv := newEnv(in.globals)
	for i, p := range fd.Params {
		if p.Symbol != nil {
			callEnv.vars[p.Symbol] = args[i]
		}
	}
	c, err := in.execBlock(callEnv, fd.Body)
	if err != nil {
		return value.Value{}, err
	}
	if c.kind == ctrlReturn {
		return c.value, nil
	}
	return value.Null, nil
}

// evalMethodCall resolves method syntax through the one shared table
// (§4.8) and, for mutating methods, rebinds the receiver expression to
// the returned value (§4.4 "Mutation and CoW").
func (in *Interpreter) evalMethodCall(e *env, call *ast.CallExpr, me *ast.MemberExpr) (value.Value, error) {
	recv, err := in.evalExpr(e, me.Receiver)
	if err != nil {
		return value.Value{}, err
	}
	tag := me.Tag
	if tag == ast.TagNone {
		tag = ast.TagForType(me.Receiver.ResolvedType())
	}
	fnName, mutates, ok := dispatch.ResolveMethod(tag, me.Name)
	if !ok {
		return value.Value{}, rterr.TypeError(me.Sp, dispatch.UnknownMethodMessage(tag, me.Name))
	}
	extra, err := in.evalArgs(e, call.Args)
	if err != nil {
		return value.Value{}, err
	}
	args := make([]value.Value, 0, len(extra)+1)
	args = append(args, recv)
	args = append(args, extra...)
	result, err := dispatch.Call(fnName, args, call.Sp, in.sec, in.out)
	if err != nil {
		return value.Value{}, err
	}
	if mutates {
		if err := in.store(e, me.Receiver, result); err != nil {
			return value.Value{}, err
		}
	}
	return result, nil
}

func (in *Interpreter) evalMatch(e *env, n *ast.MatchExpr) (value.Value, error) {
	subject, err := in.evalExpr(e, n.Subject)
	if err != nil {
		return value.Value{}, err
	}
	for _, arm := range n.Arms {
		armEnv := newEnv(e)
		matched, err := in.matchPattern(armEnv, arm.Pattern, subject)
		if err != nil {
			return value.Value{}, err
		}
		if matched {
			return in.evalExpr(armEnv, arm.Expr)
		}
	}
	return value.Value{}, rterr.TypeError(n.Sp, "no match arm matched the subject value")
}

// matchPattern reports whether p matches v, binding any variables p
// introduces into e as a side effect. Exhaustiveness is enforced at
// compile time (AT0008), so a well-typed program always matches; this
// still reports a runtime TypeError defensively rather than panicking.
func (in *Interpreter) matchPattern(e *env, p ast.Pattern, v value.Value) (bool, error) {
	switch pt := p.(type) {
	case *ast.WildcardPattern:
		return true, nil
	case *ast.VariablePattern:
		if pt.Symbol != nil {
			e.vars[pt.Symbol] = v
		}
		return true, nil
	case *ast.LiteralPattern:
		lit, err := in.evalExpr(e, pt.Value)
		if err != nil {
			return false, err
		}
		return value.Equal(lit, v), nil
	case *ast.ArrayPattern:
		if v.Kind() != value.KindArray || v.ArrayLen() != len(pt.Elems) {
			return false, nil
		}
		for i, sub := range pt.Elems {
			elem, _ := v.ArrayGet(i)
			ok, err := in.matchPattern(e, sub, elem)
			if err != nil {
				return false, err
			}
			if !ok {
				return false, nil
			}
		}
		return true, nil
	case *ast.ConstructorPattern:
		// Atlas's Value is the closed sum of §3.1; there are no
		// user-defined constructors to match against at runtime.
		return false, nil
	default:
		return false, nil
	}
}
