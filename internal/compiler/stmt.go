package compiler

import (
	"github.com/atlas-lang/atlas/internal/ast"
	"github.com/atlas-lang/atlas/internal/bytecode"
	"github.com/atlas-lang/atlas/internal/diag"
)

func (c *Compiler) compileLetDecl(ld *ast.LetDecl) {
	c.compileExpr(ld.Init)
	c.declareLocal(ld.Symbol)
	c.emitStore(ld.Symbol, ld.Sp)
}

func (c *Compiler) compileBlock(b *ast.BlockStmt) {
	if b == nil {
		return
	}
	for _, s := range b.Stmts {
		c.compileStmt(s)
	}
}

func (c *Compiler) compileStmt(n ast.Node) {
	switch s := n.(type) {
	case *ast.BlockStmt:
		c.compileBlock(s)
	case *ast.ExprStmt:
		c.compileExpr(s.Expr)
		c.chunk.EmitSimple(bytecode.OpPop, s.Sp)
	case *ast.LetDecl:
		c.compileLetDecl(s)
	case *ast.ReturnStmt:
		if s.Value == nil {
			c.chunk.EmitSimple(bytecode.OpNull, s.Sp)
		} else {
			c.compileExpr(s.Value)
		}
		c.chunk.EmitSimple(bytecode.OpReturn, s.Sp)
	case *ast.IfStmt:
		c.compileIf(s)
	case *ast.WhileStmt:
		c.compileWhile(s)
	case *ast.ForStmt:
		c.compileFor(s)
	case *ast.BreakStmt:
		c.compileBreak(s.Sp)
	case *ast.ContinueStmt:
		c.compileContinue(s.Sp)
	case *ast.FuncDecl:
		// Hoisted and compiled separately by compileProgram; a nested
		// FuncDecl encountered here in statement position emits nothing.
	}
}

func (c *Compiler) compileIf(s *ast.IfStmt) {
	c.compileExpr(s.Cond)
	elseJump := c.chunk.Emit(bytecode.OpJumpIfFalse, s.Cond.Span(), 0)
	c.compileBlock(s.Then)
	if s.Else == nil {
		c.chunk.PatchJump(elseJump)
		return
	}
	endJump := c.chunk.Emit(bytecode.OpJump, s.Sp, 0)
	c.chunk.PatchJump(elseJump)
	c.compileStmt(s.Else)
	c.chunk.PatchJump(endJump)
}

func (c *Compiler) compileWhile(s *ast.WhileStmt) {
	loopStart := c.chunk.Len()
	c.compileExpr(s.Cond)
	exitJump := c.chunk.Emit(bytecode.OpJumpIfFalse, s.Cond.Span(), 0)

	lc := &loopCtx{continueTarget: loopStart}
	c.pushLoop(lc)
	c.compileBlock(s.Body)
	c.popLoop()

	c.emitLoopBack(loopStart, s.Sp)
	c.chunk.PatchJump(exitJump)
	c.patchTo(lc.breakPatches)
}

func (c *Compiler) compileFor(s *ast.ForStmt) {
	if s.Init != nil {
		c.compileStmt(s.Init)
	}
	loopStart := c.chunk.Len()
	var exitJump int
	hasCond := s.Cond != nil
	if hasCond {
		c.compileExpr(s.Cond)
		exitJump = c.chunk.Emit(bytecode.OpJumpIfFalse, s.Cond.Span(), 0)
	}

	lc := &loopCtx{continueTarget: -1}
	c.pushLoop(lc)
	c.compileBlock(s.Body)
	c.popLoop()

	c.patchTo(lc.continuePatches)
	if s.Post != nil {
		c.compileExpr(s.Post)
		c.chunk.EmitSimple(bytecode.OpPop, s.Post.Span())
	}
	c.emitLoopBack(loopStart, s.Sp)

	if hasCond {
		c.chunk.PatchJump(exitJump)
	}
	c.patchTo(lc.breakPatches)
}

func (c *Compiler) compileBreak(span diag.Span) {
	if len(c.loops) == 0 {
		c.errorf(span, "break outside of a loop")
		return
	}
	lc := c.topLoop()
	offset := c.chunk.Emit(bytecode.OpJump, span, 0)
	lc.breakPatches = append(lc.breakPatches, offset)
}

func (c *Compiler) compileContinue(span diag.Span) {
	if len(c.loops) == 0 {
		c.errorf(span, "continue outside of a loop")
		return
	}
	lc := c.topLoop()
	if lc.continueTarget >= 0 {
		c.emitLoopBack(lc.continueTarget, span)
		return
	}
	offset := c.chunk.Emit(bytecode.OpJump, span, 0)
	lc.continuePatches = append(lc.continuePatches, offset)
}
