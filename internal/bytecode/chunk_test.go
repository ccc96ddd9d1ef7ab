package bytecode

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/atlas-lang/atlas/internal/diag"
	"github.com/atlas-lang/atlas/internal/value"
)

func TestAddConstantDeduplicates(t *testing.T) {
	c := NewChunk()
	i1 := c.AddConstant(value.Number(42))
	i2 := c.AddConstant(value.Number(42))
	i3 := c.AddConstant(value.Number(43))

	require.Equal(t, i1, i2)
	require.NotEqual(t, i1, i3)
	require.Len(t, c.Constants, 2)
}

func TestEmitWritesOpcodeAndOperand(t *testing.T) {
	c := NewChunk()
	idx := c.AddConstant(value.Number(1))
	c.Emit(OpConstant, diag.Span{File: "a.atl", Line: 1}, idx)

	require.Equal(t, byte(OpConstant), c.Code[0])
	require.Equal(t, idx, ReadOperand(c.Code, 1))
}

func TestPatchJumpComputesForwardDistance(t *testing.T) {
	c := NewChunk()
	jumpOffset := c.Emit(OpJumpIfFalse, diag.Span{}, 0)
	c.EmitSimple(OpPop, diag.Span{})
	c.EmitSimple(OpPop, diag.Span{})
	c.PatchJump(jumpOffset)

	dist := ReadJumpOffset(c.Code, jumpOffset+1)
	require.Equal(t, int16(2), dist)
}

func TestSpanAtResolvesNearestPriorInstruction(t *testing.T) {
	c := NewChunk()
	span1 := diag.Span{File: "a.atl", Line: 1}
	span2 := diag.Span{File: "a.atl", Line: 2}

	off1 := c.EmitSimple(OpTrue, span1)
	off2 := c.EmitSimple(OpFalse, span2)

	require.Equal(t, span1, c.SpanAt(off1))
	require.Equal(t, span2, c.SpanAt(off2))
}
