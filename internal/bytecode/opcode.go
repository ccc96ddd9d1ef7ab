// Package bytecode implements the instruction stream, constant pool, and
// debug-span map of §3.4 and §6.2: the wire format the compiler emits and
// the VM executes. The opcode catalogue here is deliberately small and
// flat, in the style of the teacher pack's opcode dispatcher
// (core/opcode_dispatcher.go), but without its 24-bit gas-priced encoding
// — Atlas opcodes are a single byte, as §3.4 requires.
package bytecode

// Op is a single-byte opcode. The full set is closed and must stay at or
// under 64 distinct codes (§3.4); opcode_test.go enforces that budget
// over Catalogue's listing.
type Op byte

const (
	// Constants and literals.
	OpConstant Op = iota
	OpNull
	OpTrue
	OpFalse

	// Local / global variable access.
	OpGetLocal
	OpSetLocal
	OpGetGlobal
	OpSetGlobal

	// Arithmetic.
	OpAdd
	OpSub
	OpMul
	OpDiv
	OpMod
	OpNeg

	// Comparison and equality.
	OpLess
	OpLessEqual
	OpGreater
	OpGreaterEqual
	OpEqual
	OpNotEqual

	// Logical.
	OpNot
	OpAnd // short-circuit: operand is a jump target, not a pop-both-and-and
	OpOr  // short-circuit: operand is a jump target

	// Control flow.
	OpJump
	OpJumpIfFalse
	OpLoop

	// Function call / return.
	OpCall
	OpReturn

	// Array construction / index.
	OpArray
	OpIndex
	OpSetIndex

	// Method-call support (§4.3, §4.8): push a resolved Value::Builtin
	// constant, then OpCall dispatches it through the registry exactly
	// like a free-function builtin call.

	// Misc.
	OpPop
	OpDup
	OpHalt

	opCount // sentinel, not a real opcode
)

// MaxOpcodes is the §3.4 budget this implementation must stay under.
const MaxOpcodes = 64

var names = [...]string{
	OpConstant:      "Constant",
	OpNull:          "Null",
	OpTrue:          "True",
	OpFalse:         "False",
	OpGetLocal:      "GetLocal",
	OpSetLocal:      "SetLocal",
	OpGetGlobal:     "GetGlobal",
	OpSetGlobal:     "SetGlobal",
	OpAdd:           "Add",
	OpSub:           "Sub",
	OpMul:           "Mul",
	OpDiv:           "Div",
	OpMod:           "Mod",
	OpNeg:           "Neg",
	OpLess:          "Less",
	OpLessEqual:     "LessEqual",
	OpGreater:       "Greater",
	OpGreaterEqual:  "GreaterEqual",
	OpEqual:         "Equal",
	OpNotEqual:      "NotEqual",
	OpNot:           "Not",
	OpAnd:           "And",
	OpOr:            "Or",
	OpJump:          "Jump",
	OpJumpIfFalse:   "JumpIfFalse",
	OpLoop:          "Loop",
	OpCall:          "Call",
	OpReturn:        "Return",
	OpArray:         "Array",
	OpIndex:         "Index",
	OpSetIndex:      "SetIndex",
	OpPop:           "Pop",
	OpDup:           "Dup",
	OpHalt:          "Halt",
}

func (op Op) String() string {
	if int(op) < len(names) && names[op] != "" {
		return names[op]
	}
	return "Unknown"
}

// operandWidths gives the number of big-endian operand bytes each opcode
// carries, per §3.4 ("1-byte opcodes followed by a fixed number of
// operand bytes" / "multi-byte operands use big-endian encoding").
// Jump, JumpIfFalse, And, and Or use a 16-bit signed offset and Loop a
// 16-bit unsigned backward distance (§3.4); everything else that
// takes an operand uses a 16-bit unsigned index/count, which is generous
// enough for any program this core need ever compile.
var operandWidths = [...]int{
	OpConstant:     2,
	OpGetLocal:     2,
	OpSetLocal:     2,
	OpGetGlobal:    2,
	OpSetGlobal:    2,
	OpAnd:          2,
	OpOr:           2,
	OpJump:         2,
	OpJumpIfFalse:  2,
	OpLoop:         2,
	OpCall:         2,
	OpArray:        2,
}

// OperandWidth returns how many operand bytes follow op in the stream.
func OperandWidth(op Op) int {
	if int(op) < len(operandWidths) {
		return operandWidths[op]
	}
	return 0
}

// Catalogue lists every defined opcode by name, in declaration order,
// mirroring the teacher's catalogue []struct{name string; op Opcode}
// registration table (core/opcode_dispatcher.go init()). It
// backs both the ≤64-opcode budget check and the `atlas opcodes` CLI
// subcommand, adapted from the teacher's cmd/opcode-lint.
func Catalogue() []struct {
	Name string
	Op   Op
} {
	out := make([]struct {
		Name string
		Op   Op
	}, 0, opCount)
	for op := Op(0); op < opCount; op++ {
		if names[op] == "" {
			continue
		}
		out = append(out, struct {
			Name string
			Op   Op
		}{Name: names[op], Op: op})
	}
	return out
}
