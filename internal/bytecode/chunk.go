package bytecode

import (
	"encoding/binary"

	"github.com/atlas-lang/atlas/internal/diag"
	"github.com/atlas-lang/atlas/internal/value"
)

// debugEntry pairs an instruction offset with the source span that
// produced it (§6.2 debug_info).
type debugEntry struct {
	offset int
	span   diag.Span
}

// Chunk is the in-memory bytecode container of §6.2: an instruction
// stream, a constant pool, and a parallel debug-span map.
type Chunk struct {
	Code      []byte
	Constants []value.Value
	debug     []debugEntry

	// constIndex deduplicates constant-pool entries by their canonical
	// string key so the compiler never emits the same literal twice
	// (§4.3 "Emits constants into a deduplicating pool").
	constIndex map[string]int
}

func NewChunk() *Chunk {
	return &Chunk{constIndex: make(map[string]int)}
}

// AddConstant interns v into the pool, returning its index. Two calls
// with equal values (per value.Equal, keyed here by rendered string plus
// kind to avoid cross-kind collisions) return the same index.
func (c *Chunk) AddConstant(v value.Value) uint16 {
	key := v.Kind().String() + ":" + v.String()
	if i, ok := c.constIndex[key]; ok {
		return uint16(i)
	}
	i := len(c.Constants)
	c.Constants = append(c.Constants, v)
	c.constIndex[key] = i
	return uint16(i)
}

// Emit appends op and its operand bytes (big-endian, §3.4) to the code
// stream, recording span for debug lookup, and returns the offset op was
// written at (callers patching a forward jump need this).
func (c *Chunk) Emit(op Op, span diag.Span, operand uint16) int {
	offset := len(c.Code)
	c.debug = append(c.debug, debugEntry{offset: offset, span: span})
	c.Code = append(c.Code, byte(op))
	if OperandWidth(op) > 0 {
		var buf [2]byte
		binary.BigEndian.PutUint16(buf[:], operand)
		c.Code = append(c.Code, buf[:]...)
	}
	return offset
}

// EmitSimple appends an opcode with no operand.
func (c *Chunk) EmitSimple(op Op, span diag.Span) int {
	return c.Emit(op, span, 0)
}

// PatchJump overwrites the 16-bit operand at offset+1 (just past the
// opcode byte) with the signed distance from the end of that instruction
// to the current end of the code stream. §3.4 requires a 16-bit signed
// jump offset; this implementation encodes it as the two's-complement bit
// pattern of an int16 stored big-endian, matching how ReadJumpOffset
// decodes it.
func (c *Chunk) PatchJump(offset int) {
	dest := len(c.Code)
	jumpInstrEnd := offset + 3 // 1 opcode byte + 2 operand bytes
	delta := int16(dest - jumpInstrEnd)
	binary.BigEndian.PutUint16(c.Code[offset+1:offset+3], uint16(delta))
}

// ReadOperand reads the 16-bit unsigned operand at ip (the byte right
// after the opcode).
func ReadOperand(code []byte, ip int) uint16 {
	return binary.BigEndian.Uint16(code[ip : ip+2])
}

// ReadJumpOffset reads the 16-bit operand at ip as a signed distance.
func ReadJumpOffset(code []byte, ip int) int16 {
	return int16(binary.BigEndian.Uint16(code[ip : ip+2]))
}

// SpanAt returns the source span responsible for the instruction at or
// immediately before offset, by binary-searching the debug-info table.
// Runtime errors raised by the VM use this to attach a span exactly as
// the interpreter would attach the AST node's own span (§4.5 "Parity with
// interpreter").
func (c *Chunk) SpanAt(offset int) diag.Span {
	if len(c.debug) == 0 {
		return diag.Span{}
	}
	lo, hi := 0, len(c.debug)-1
	best := c.debug[0].span
	for lo <= hi {
		mid := (lo + hi) / 2
		if c.debug[mid].offset <= offset {
			best = c.debug[mid].span
			lo = mid + 1
		} else {
			hi = mid - 1
		}
	}
	return best
}

// Len returns the number of bytes in the instruction stream.
func (c *Chunk) Len() int { return len(c.Code) }
