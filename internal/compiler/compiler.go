// Package compiler implements the bytecode compiler of §4.3: it walks the
// annotated tree internal/types has already checked and emits an
// internal/bytecode.Chunk that internal/vm executes. It shares
// internal/dispatch's method table with internal/interp so a method call
// resolves to the same backing builtin in both engines (§8.1 engine
// parity), and internal/rterr is reserved for errors the VM raises at run
// time — a compile-time failure here is always a diag.Diagnostic, never an
// rterr.Error.
package compiler

import (
	"encoding/binary"
	"fmt"

	"github.com/atlas-lang/atlas/internal/ast"
	"github.com/atlas-lang/atlas/internal/bytecode"
	"github.com/atlas-lang/atlas/internal/diag"
	"github.com/atlas-lang/atlas/internal/symbols"
	"github.com/atlas-lang/atlas/internal/value"
)

// pendingFuncConst is a constant-pool slot reserved for a Value::Function
// before its callee's final bytecode offset is known — true for any call
// that isn't provably to an already-compiled function, which in practice
// means every call, since mutual recursion makes "already compiled" never
// safe to assume (§4.3 "assigns a bytecode offset... before the VM runs").
type pendingFuncConst struct {
	idx  uint16
	fd   *ast.FuncDecl
	inst *ast.Instantiation // nil for a non-generic function
}

// funcCtx is the compiler's state while compiling one function body (or the
// top-level program, for which cur is nil throughout).
type funcCtx struct {
	locals   map[*symbols.Symbol]uint16
	nextSlot uint16
}

// loopCtx collects break/continue patch sites for the loop currently being
// compiled. continueTarget >= 0 means continue jumps straight back via
// OpLoop (while-loops, where "continue" re-checks the condition); -1 means
// continue instead defers to continuePatches, patched once the loop's post
// step's address is known (for-loops, where continue must still run Post).
type loopCtx struct {
	breakPatches    []int
	continuePatches []int
	continueTarget  int
}

// Compiler holds the state of one compilation of a Program into a Chunk.
type Compiler struct {
	chunk          *bytecode.Chunk
	bag            *diag.Bag
	cur            *funcCtx
	pending        []pendingFuncConst
	loops          []*loopCtx
	funcsBySymbol  map[*symbols.Symbol]*ast.FuncDecl
	scratchCounter int
}

func (c *Compiler) pushLoop(lc *loopCtx) { c.loops = append(c.loops, lc) }
func (c *Compiler) popLoop()             { c.loops = c.loops[:len(c.loops)-1] }
func (c *Compiler) topLoop() *loopCtx    { return c.loops[len(c.loops)-1] }

// emitLoopBack emits OpLoop with the unsigned back-distance to target,
// computed directly rather than through Chunk.PatchJump since target is
// already behind the instruction being emitted (PatchJump only knows how
// to compute a forward distance to the chunk's current end).
func (c *Compiler) emitLoopBack(target int, span diag.Span) {
	offset := c.chunk.Emit(bytecode.OpLoop, span, 0)
	jumpInstrEnd := offset + 3
	binary.BigEndian.PutUint16(c.chunk.Code[offset+1:offset+3], uint16(jumpInstrEnd-target))
}

// patchTo patches every offset in patches (each an OpJump emitted with a
// zero placeholder) to land at the chunk's current end, which every caller
// invokes right as the code stream reaches the intended target — so this
// is Chunk.PatchJump applied to a batch rather than a single offset.
func (c *Compiler) patchTo(patches []int) {
	for _, offset := range patches {
		c.chunk.PatchJump(offset)
	}
}

// New constructs a Compiler. maxErrors bounds how many compile-time
// diagnostics (every errorf report, such as an unknown method or an invalid
// assignment target) Compile collects before it stops trying, mirroring
// internal/types.New's budget.
func New(maxErrors int) *Compiler {
	return &Compiler{
		chunk:         bytecode.NewChunk(),
		bag:           diag.NewBag(maxErrors),
		funcsBySymbol: make(map[*symbols.Symbol]*ast.FuncDecl),
	}
}

// Compile emits prog into a fresh Chunk, returning any compile-time
// diagnostics alongside it. Compile assumes prog already passed
// internal/types.Check with no errors; it re-validates method dispatch
// defensively (§4.8) but does not re-run the rest of type checking.
func Compile(prog *ast.Program) (*bytecode.Chunk, []diag.Diagnostic) {
	c := New(25)
	c.compileProgram(prog)
	return c.chunk, c.bag.All()
}

func (c *Compiler) compileProgram(prog *ast.Program) {
	funcs := hoistFuncs(prog.Items)
	for _, fd := range funcs {
		if fd.Symbol != nil {
			c.funcsBySymbol[fd.Symbol] = fd
		}
	}

	entryJump := c.chunk.Emit(bytecode.OpJump, diag.Span{}, 0)

	for _, fd := range funcs {
		c.compileFuncDecl(fd)
	}

	c.chunk.PatchJump(entryJump)

	c.compileTopLevel(prog.Items)

	c.resolvePendingFuncConsts()
}

// hoistFuncs collects every function declaration reachable from the
// program, including ones nested in blocks, mirroring
// internal/binder/internal/types's own hoisting pass so mutual and forward
// recursion compile regardless of declaration order.
func hoistFuncs(items []ast.Node) []*ast.FuncDecl {
	var out []*ast.FuncDecl
	var walk func(n ast.Node)
	walkBlock := func(b *ast.BlockStmt) {
		if b == nil {
			return
		}
		for _, s := range b.Stmts {
			walk(s)
		}
	}
	walk = func(n ast.Node) {
		switch s := n.(type) {
		case *ast.FuncDecl:
			out = append(out, s)
			walkBlock(s.Body)
		case *ast.BlockStmt:
			walkBlock(s)
		case *ast.IfStmt:
			walkBlock(s.Then)
			if s.Else != nil {
				walk(s.Else)
			}
		case *ast.WhileStmt:
			walkBlock(s.Body)
		case *ast.ForStmt:
			walkBlock(s.Body)
		}
	}
	for _, it := range items {
		walk(it)
	}
	return out
}

// compileFuncDecl emits fd's body once (non-generic) or once per recorded
// Instantiation (§4.2 "Generics via monomorphization"), recording the final
// bytecode offset(s) on fd / its Instantiations.
func (c *Compiler) compileFuncDecl(fd *ast.FuncDecl) {
	if len(fd.TypeParams) == 0 {
		offset, localCount := c.compileFuncBody(fd)
		fd.BytecodeOffset = offset
		fd.LocalCount = localCount
		return
	}
	for _, inst := range fd.Instantiations {
		offset, localCount := c.compileFuncBody(fd)
		inst.BytecodeOffset = offset
		fd.LocalCount = localCount
	}
}

func (c *Compiler) compileFuncBody(fd *ast.FuncDecl) (offset int, localCount int) {
	offset = c.chunk.Len()
	fc := &funcCtx{locals: make(map[*symbols.Symbol]uint16)}
	prev := c.cur
	c.cur = fc
	for _, p := range fd.Params {
		c.declareLocal(p.Symbol)
	}
	c.compileBlock(fd.Body)
	c.chunk.EmitSimple(bytecode.OpNull, fd.Sp)
	c.chunk.EmitSimple(bytecode.OpReturn, fd.Sp)
	localCount = int(fc.nextSlot)
	c.cur = prev
	return offset, localCount
}

// compileTopLevel emits the program's top-level items. The value of the
// final ExprStmt (if the program ends on one) is left on the stack as the
// program's result, matching internal/interp.Run's "last" tracking; every
// other ExprStmt's value is discarded. A program that doesn't end on an
// expression pushes an explicit Null result.
func (c *Compiler) compileTopLevel(items []ast.Node) {
	endsOnExpr := false
	for i, item := range items {
		last := i == len(items)-1
		switch it := item.(type) {
		case *ast.FuncDecl, *ast.ImportDecl:
			continue
		case *ast.LetDecl:
			c.compileLetDecl(it)
		case *ast.ExprStmt:
			c.compileExpr(it.Expr)
			if last {
				endsOnExpr = true
			} else {
				c.chunk.EmitSimple(bytecode.OpPop, it.Sp)
			}
		default:
			c.compileStmt(item)
		}
	}
	if !endsOnExpr {
		c.chunk.EmitSimple(bytecode.OpNull, diag.Span{})
	}
	c.chunk.EmitSimple(bytecode.OpHalt, diag.Span{})
}

// resolvePendingFuncConsts backfills every Value::Function constant
// reserved during compilation with its callee's now-known bytecode offset.
func (c *Compiler) resolvePendingFuncConsts() {
	for _, p := range c.pending {
		offset := p.fd.BytecodeOffset
		if p.inst != nil {
			offset = p.inst.BytecodeOffset
		}
		c.chunk.Constants[p.idx] = value.Function(&value.FunctionValue{
			Name:           p.fd.Name,
			Arity:          len(p.fd.Params),
			LocalCount:     p.fd.LocalCount,
			BytecodeOffset: offset,
			Body:           p.fd,
		})
	}
}

// declareLocal assigns sym the next free slot in the current function,
// a no-op at top level (c.cur == nil) or for a discard binding (sym == nil).
func (c *Compiler) declareLocal(sym *symbols.Symbol) {
	if c.cur == nil || sym == nil {
		return
	}
	c.cur.locals[sym] = c.cur.nextSlot
	c.cur.nextSlot++
}

func (c *Compiler) emitLoad(sym *symbols.Symbol, span diag.Span) {
	if sym == nil {
		c.errorf(span, "reference to an unresolved symbol")
		c.chunk.EmitSimple(bytecode.OpNull, span)
		return
	}
	if c.cur != nil {
		if slot, ok := c.cur.locals[sym]; ok {
			c.chunk.Emit(bytecode.OpGetLocal, span, slot)
			return
		}
	}
	idx := c.chunk.AddConstant(value.String(sym.Name))
	c.chunk.Emit(bytecode.OpGetGlobal, span, idx)
}

func (c *Compiler) emitStore(sym *symbols.Symbol, span diag.Span) {
	if sym == nil {
		c.errorf(span, "assignment to an unresolved symbol")
		return
	}
	if c.cur != nil {
		if slot, ok := c.cur.locals[sym]; ok {
			c.chunk.Emit(bytecode.OpSetLocal, span, slot)
			return
		}
	}
	idx := c.chunk.AddConstant(value.String(sym.Name))
	c.chunk.Emit(bytecode.OpSetGlobal, span, idx)
}

func (c *Compiler) errorf(span diag.Span, format string, args ...any) {
	c.bag.Add(diag.New(diag.CodeTypeMismatch, span, fmt.Sprintf(format, args...)))
}

// instantiationKey renders a type-argument tuple the same way
// internal/types does, so a call site's CallExpr.TypeArgs picks out the
// matching Instantiation on the callee's FuncDecl.
func instantiationKey(args []*ast.Type) string {
	key := ""
	for _, t := range args {
		key += t.String() + ";"
	}
	return key
}

func findInstantiation(fd *ast.FuncDecl, typeArgs []*ast.Type) *ast.Instantiation {
	key := instantiationKey(typeArgs)
	for _, inst := range fd.Instantiations {
		if instantiationKey(inst.TypeArgs) == key {
			return inst
		}
	}
	return nil
}

// addFunctionConstant reserves a constant-pool slot for fd (or one of its
// instantiations) and records it for resolvePendingFuncConsts to backfill,
// bypassing Chunk.AddConstant's dedup since the placeholder's rendered
// string can't yet distinguish one instantiation from another.
func (c *Compiler) addFunctionConstant(fd *ast.FuncDecl, inst *ast.Instantiation) uint16 {
	idx := uint16(len(c.chunk.Constants))
	c.chunk.Constants = append(c.chunk.Constants, value.Function(&value.FunctionValue{Name: fd.Name}))
	c.pending = append(c.pending, pendingFuncConst{idx: idx, fd: fd, inst: inst})
	return idx
}
