package compiler

import (
	"fmt"

	"github.com/atlas-lang/atlas/internal/ast"
	"github.com/atlas-lang/atlas/internal/bytecode"
	"github.com/atlas-lang/atlas/internal/diag"
	"github.com/atlas-lang/atlas/internal/dispatch"
	"github.com/atlas-lang/atlas/internal/symbols"
	"github.com/atlas-lang/atlas/internal/value"
)

// compileExpr emits code that leaves exactly one value on the stack.
func (c *Compiler) compileExpr(expr ast.Expr) {
	switch n := expr.(type) {
	case *ast.Identifier:
		c.compileIdentifier(n)
	case *ast.NumberLit:
		c.chunk.Emit(bytecode.OpConstant, n.Sp, c.chunk.AddConstant(value.Number(n.Value)))
	case *ast.StringLit:
		c.chunk.Emit(bytecode.OpConstant, n.Sp, c.chunk.AddConstant(value.String(n.Value)))
	case *ast.BoolLit:
		if n.Value {
			c.chunk.EmitSimple(bytecode.OpTrue, n.Sp)
		} else {
			c.chunk.EmitSimple(bytecode.OpFalse, n.Sp)
		}
	case *ast.NullLit:
		c.chunk.EmitSimple(bytecode.OpNull, n.Sp)
	case *ast.ArrayLit:
		for _, el := range n.Elems {
			c.compileExpr(el)
		}
		c.chunk.Emit(bytecode.OpArray, n.Sp, uint16(len(n.Elems)))
	case *ast.BinaryOp:
		c.compileBinary(n)
	case *ast.UnaryOp:
		c.compileExpr(n.Operand)
		c.emitUnary(n.Op, n.Sp)
	case *ast.Assign:
		c.compileAssign(n)
	case *ast.IncDec:
		c.compileIncDec(n)
	case *ast.CallExpr:
		c.compileCall(n)
	case *ast.MemberExpr:
		c.errorf(n.Sp, "methods are only valid in call position")
		c.chunk.EmitSimple(bytecode.OpNull, n.Sp)
	case *ast.IndexExpr:
		c.compileExpr(n.Receiver)
		c.compileExpr(n.Index)
		c.chunk.EmitSimple(bytecode.OpIndex, n.Sp)
	case *ast.MatchExpr:
		c.compileMatch(n)
	default:
		c.errorf(expr.Span(), "cannot compile expression node")
		c.chunk.EmitSimple(bytecode.OpNull, expr.Span())
	}
}

func (c *Compiler) compileArgs(args []ast.Expr) {
	for _, a := range args {
		c.compileExpr(a)
	}
}

func (c *Compiler) compileIdentifier(n *ast.Identifier) {
	if n.Symbol == nil {
		c.errorf(n.Sp, "reference to unresolved identifier %q", n.Name)
		c.chunk.EmitSimple(bytecode.OpNull, n.Sp)
		return
	}
	switch n.Symbol.Kind {
	case symbols.Builtin:
		c.chunk.Emit(bytecode.OpConstant, n.Sp, c.chunk.AddConstant(value.Builtin(n.Name)))
	case symbols.Function:
		c.emitFuncValue(c.funcsBySymbol[n.Symbol], nil, n.Sp)
	default:
		c.emitLoad(n.Symbol, n.Sp)
	}
}

// emitFuncValue pushes a Value::Function constant for fd, picking the
// specialization matching typeArgs when fd is generic (falling back to
// fd's only instantiation when a bare reference to a generic function
// doesn't supply type arguments, since none but the caller's call site
// usually would).
func (c *Compiler) emitFuncValue(fd *ast.FuncDecl, typeArgs []*ast.Type, span diag.Span) {
	if fd == nil {
		c.errorf(span, "call to an unresolved function")
		c.chunk.EmitSimple(bytecode.OpNull, span)
		return
	}
	var inst *ast.Instantiation
	if len(fd.TypeParams) > 0 {
		inst = findInstantiation(fd, typeArgs)
		if inst == nil && len(fd.Instantiations) == 1 {
			inst = fd.Instantiations[0]
		}
		if inst == nil {
			c.errorf(span, "no monomorphization recorded for generic function %q", fd.Name)
			c.chunk.EmitSimple(bytecode.OpNull, span)
			return
		}
	}
	idx := c.addFunctionConstant(fd, inst)
	c.chunk.Emit(bytecode.OpConstant, span, idx)
}

func (c *Compiler) compileBinary(n *ast.BinaryOp) {
	if n.Op == "&&" {
		c.compileExpr(n.Left)
		jump := c.chunk.Emit(bytecode.OpAnd, n.Sp, 0)
		c.compileExpr(n.Right)
		c.chunk.PatchJump(jump)
		return
	}
	if n.Op == "||" {
		c.compileExpr(n.Left)
		jump := c.chunk.Emit(bytecode.OpOr, n.Sp, 0)
		c.compileExpr(n.Right)
		c.chunk.PatchJump(jump)
		return
	}
	c.compileExpr(n.Left)
	c.compileExpr(n.Right)
	c.emitBinary(n.Op, n.Sp)
}

func (c *Compiler) emitBinary(op string, span diag.Span) {
	switch op {
	case "+":
		c.chunk.EmitSimple(bytecode.OpAdd, span)
	case "-":
		c.chunk.EmitSimple(bytecode.OpSub, span)
	case "*":
		c.chunk.EmitSimple(bytecode.OpMul, span)
	case "/":
		c.chunk.EmitSimple(bytecode.OpDiv, span)
	case "%":
		c.chunk.EmitSimple(bytecode.OpMod, span)
	case "<":
		c.chunk.EmitSimple(bytecode.OpLess, span)
	case "<=":
		c.chunk.EmitSimple(bytecode.OpLessEqual, span)
	case ">":
		c.chunk.EmitSimple(bytecode.OpGreater, span)
	case ">=":
		c.chunk.EmitSimple(bytecode.OpGreaterEqual, span)
	case "==":
		c.chunk.EmitSimple(bytecode.OpEqual, span)
	case "!=":
		c.chunk.EmitSimple(bytecode.OpNotEqual, span)
	default:
		c.errorf(span, "unknown operator %q", op)
	}
}

func (c *Compiler) emitUnary(op string, span diag.Span) {
	switch op {
	case "-":
		c.chunk.EmitSimple(bytecode.OpNeg, span)
	case "!":
		c.chunk.EmitSimple(bytecode.OpNot, span)
	default:
		c.errorf(span, "unknown unary operator %q", op)
	}
}

// compileAssign mirrors internal/interp.evalAssign: the expression's own
// value is the right-hand side for "=", or the combined result for a
// compound operator; either way the stored value is duplicated on the
// stack first so it survives the store instruction as the expression's
// result.
func (c *Compiler) compileAssign(n *ast.Assign) {
	if n.Op == "=" {
		c.compileExpr(n.Value)
		c.chunk.EmitSimple(bytecode.OpDup, n.Sp)
		c.compileStore(n.Target, n.Sp)
		return
	}
	op := n.Op[:len(n.Op)-1]
	c.compileExpr(n.Target)
	c.compileExpr(n.Value)
	c.emitBinary(op, n.Sp)
	c.chunk.EmitSimple(bytecode.OpDup, n.Sp)
	c.compileStore(n.Target, n.Sp)
}

func (c *Compiler) compileIncDec(n *ast.IncDec) {
	c.compileExpr(n.Target)
	if !n.Prefix {
		c.chunk.EmitSimple(bytecode.OpDup, n.Sp)
	}
	c.chunk.Emit(bytecode.OpConstant, n.Sp, c.chunk.AddConstant(value.Number(1)))
	if n.Op == "++" {
		c.chunk.EmitSimple(bytecode.OpAdd, n.Sp)
	} else {
		c.chunk.EmitSimple(bytecode.OpSub, n.Sp)
	}
	if n.Prefix {
		c.chunk.EmitSimple(bytecode.OpDup, n.Sp)
	}
	c.compileStore(n.Target, n.Sp)
}

// compileStore consumes the value on top of the stack and writes it to
// target. An identifier rebinds its local slot or global directly. An
// index expression can't just re-push its receiver and index after the
// value already on the stack — OpSetIndex needs value, index, and receiver
// contiguous at the top in that order — so it stashes the value in a
// scratch slot first, pushes receiver and index, reloads the value, issues
// OpSetIndex (which performs the CoW array update and leaves the updated
// receiver on top), and recurses to store that into whatever the receiver
// expression names, exactly as internal/interp.store does by recursion.
func (c *Compiler) compileStore(target ast.Expr, span diag.Span) {
	switch t := target.(type) {
	case *ast.Identifier:
		c.emitStore(t.Symbol, t.Sp)
	case *ast.IndexExpr:
		setTmp, getTmp := c.newScratchSlot()
		setTmp(t.Sp)
		c.compileExpr(t.Receiver)
		c.compileExpr(t.Index)
		getTmp(t.Sp)
		c.chunk.EmitSimple(bytecode.OpSetIndex, t.Sp)
		c.compileStore(t.Receiver, t.Sp)
	default:
		c.errorf(span, "invalid assignment target")
	}
}

// newScratchSlot reserves a compiler-private storage cell good for exactly
// one store/load round trip, used to hold a value across code that must be
// emitted in between (§4.3 has no dedicated "stack rotate" opcode, so
// rearranging operands below the top goes through a named cell instead).
// Inside a function this is a genuine extra local slot; at top level it's
// a global under a name no Atlas identifier can spell.
func (c *Compiler) newScratchSlot() (store, load func(diag.Span)) {
	if c.cur != nil {
		slot := c.cur.nextSlot
		c.cur.nextSlot++
		return func(span diag.Span) { c.chunk.Emit(bytecode.OpSetLocal, span, slot) },
			func(span diag.Span) { c.chunk.Emit(bytecode.OpGetLocal, span, slot) }
	}
	c.scratchCounter++
	idx := c.chunk.AddConstant(value.String(fmt.Sprintf("<scratch%d>", c.scratchCounter)))
	return func(span diag.Span) { c.chunk.Emit(bytecode.OpSetGlobal, span, idx) },
		func(span diag.Span) { c.chunk.Emit(bytecode.OpGetGlobal, span, idx) }
}

func (c *Compiler) compileCall(n *ast.CallExpr) {
	if me, ok := n.Callee.(*ast.MemberExpr); ok {
		c.compileMethodCall(n, me)
		return
	}
	if id, ok := n.Callee.(*ast.Identifier); ok && id.Symbol != nil && id.Symbol.Kind == symbols.Function {
		c.emitFuncValue(c.funcsBySymbol[id.Symbol], n.TypeArgs, n.Sp)
	} else {
		c.compileExpr(n.Callee)
	}
	c.compileArgs(n.Args)
	c.chunk.Emit(bytecode.OpCall, n.Sp, uint16(len(n.Args)))
}

// compileMethodCall pushes the resolved builtin as the callee, the receiver
// as its first argument, then the call's own arguments, exactly the layout
// internal/interp.evalMethodCall builds for internal/dispatch.Call — so
// OpCall's builtin branch and the interpreter invoke the identical backing
// function (§8.1 engine parity). A mutating method's result is duplicated
// back into the receiver's storage location after the call.
func (c *Compiler) compileMethodCall(call *ast.CallExpr, me *ast.MemberExpr) {
	tag := me.Tag
	if tag == ast.TagNone {
		tag = ast.TagForType(me.Receiver.ResolvedType())
	}
	fnName, mutates, ok := dispatch.ResolveMethod(tag, me.Name)
	if !ok {
		c.errorf(me.Sp, "%s", dispatch.UnknownMethodMessage(tag, me.Name))
		c.chunk.EmitSimple(bytecode.OpNull, me.Sp)
		return
	}
	c.chunk.Emit(bytecode.OpConstant, me.Sp, c.chunk.AddConstant(value.Builtin(fnName)))
	c.compileExpr(me.Receiver)
	c.compileArgs(call.Args)
	c.chunk.Emit(bytecode.OpCall, call.Sp, uint16(1+len(call.Args)))
	if mutates {
		c.chunk.EmitSimple(bytecode.OpDup, call.Sp)
		c.compileStore(me.Receiver, me.Sp)
	}
}

func (c *Compiler) compileMatch(n *ast.MatchExpr) {
	c.compileExpr(n.Subject)
	var endJumps []int
	for _, arm := range n.Arms {
		c.chunk.EmitSimple(bytecode.OpDup, n.Sp)
		nextArm := c.compilePatternTest(arm.Pattern)
		c.chunk.EmitSimple(bytecode.OpPop, n.Sp) // discard the subject; the pattern test consumed its copy
		c.compileExpr(arm.Expr)
		endJumps = append(endJumps, c.chunk.Emit(bytecode.OpJump, n.Sp, 0))
		c.chunk.PatchJump(nextArm)
	}
	// Exhaustiveness is enforced at check time (AT0008); a well-typed
	// program never falls through every arm. Defensively raise the same
	// "no match" error the interpreter would, via the registered
	// match_exhausted builtin.
	c.chunk.EmitSimple(bytecode.OpPop, n.Sp)
	c.chunk.Emit(bytecode.OpConstant, n.Sp, c.chunk.AddConstant(value.Builtin("match_exhausted")))
	c.chunk.Emit(bytecode.OpCall, n.Sp, 0)
	for _, j := range endJumps {
		c.chunk.PatchJump(j)
	}
}

// compilePatternTest consumes the duplicated subject on top of the stack,
// computes a bool that is true if p matches (binding any pattern variable
// as a side effect via emitStore), and emits a JumpIfFalse to the next arm,
// which pops that bool. It returns the offset of that JumpIfFalse.
func (c *Compiler) compilePatternTest(p ast.Pattern) int {
	switch pt := p.(type) {
	case *ast.WildcardPattern:
		c.chunk.EmitSimple(bytecode.OpPop, pt.Sp)
		c.chunk.EmitSimple(bytecode.OpTrue, pt.Sp)
	case *ast.VariablePattern:
		c.declareLocal(pt.Symbol)
		c.emitStore(pt.Symbol, pt.Sp)
		c.chunk.EmitSimple(bytecode.OpTrue, pt.Sp)
	case *ast.LiteralPattern:
		c.compileExpr(pt.Value)
		c.chunk.EmitSimple(bytecode.OpEqual, pt.Sp)
	default:
		// ArrayPattern/ConstructorPattern: matched only by the interpreter
		// today (§9.1); the compiler conservatively never matches them.
		c.chunk.EmitSimple(bytecode.OpPop, p.Span())
		c.chunk.EmitSimple(bytecode.OpFalse, p.Span())
	}
	return c.chunk.Emit(bytecode.OpJumpIfFalse, p.Span(), 0)
}
