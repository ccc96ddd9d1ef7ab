// Package vm implements the bytecode virtual machine of §4.5: a stack
// machine executing the internal/bytecode.Chunk internal/compiler emits.
// It shares internal/dispatch's method/builtin table and internal/rterr's
// error constructors with internal/interp so the two engines are
// byte-identical in stdout, diagnostics, and errors for every program
// (§8.1, §8.3 "engine parity").
package vm

import (
	"fmt"

	"github.com/atlas-lang/atlas/internal/bytecode"
	"github.com/atlas-lang/atlas/internal/diag"
	"github.com/atlas-lang/atlas/internal/dispatch"
	"github.com/atlas-lang/atlas/internal/rterr"
	"github.com/atlas-lang/atlas/internal/security"
	"github.com/atlas-lang/atlas/internal/value"
)

// frame is one call's activation record. The IP to resume at after a call
// is the caller's own frame.ip, left in place in the frames slice (there is
// only one loop; frames is a slice, not recursion), so frame only needs its
// own IP and where its local slots start in the shared operand stack.
type frame struct {
	ip   int
	base int
}

// VM executes a single Chunk to completion. A VM is single-use: construct
// a fresh one per Run, mirroring internal/interp.Interpreter's one-Program-
// per-instance convention.
type VM struct {
	chunk   *bytecode.Chunk
	sec     *security.Context
	out     dispatch.Output
	globals map[string]value.Value
	stack   []value.Value
	frames  []frame
}

// New constructs a VM ready to execute chunk.
func New(chunk *bytecode.Chunk, sec *security.Context, out dispatch.Output) *VM {
	return &VM{
		chunk:   chunk,
		sec:     sec,
		out:     out,
		globals: make(map[string]value.Value),
	}
}

// SetGlobal binds name directly into the VM's global table before Run,
// the OpGetGlobal/OpSetGlobal-side counterpart of internal/interp's
// Global: internal/modresolve uses it to splice an imported module's
// exports into the importer's globals ahead of time (§4.7).
func (vm *VM) SetGlobal(name string, v value.Value) {
	vm.globals[name] = v
}

func (vm *VM) push(v value.Value) { vm.stack = append(vm.stack, v) }

func (vm *VM) pop() value.Value {
	n := len(vm.stack) - 1
	v := vm.stack[n]
	vm.stack = vm.stack[:n]
	return v
}

func (vm *VM) peek() value.Value { return vm.stack[len(vm.stack)-1] }

// Run executes the chunk from offset 0 (§4.3 "every chunk's entry point is
// offset 0 after internal/compiler patches the initial OpJump past its
// compiled functions") and returns the program's final value: either the
// operand OpHalt finds on the stack, or the value of an OpReturn executed
// while the frame stack holds only the top-level "main" frame (an early
// return from a top-level if/while/for, per internal/interp.Run).
func (vm *VM) Run() (value.Value, error) {
	vm.frames = []frame{{ip: 0, base: 0}}

	for {
		fi := len(vm.frames) - 1
		f := &vm.frames[fi]
		if f.ip >= vm.chunk.Len() {
			return value.Value{}, rterr.MalformedBytecode(vm.chunk.SpanAt(f.ip), "instruction pointer ran past the end of the chunk")
		}
		op := bytecode.Op(vm.chunk.Code[f.ip])
		span := vm.chunk.SpanAt(f.ip)
		opStart := f.ip
		f.ip++

		var operand uint16
		width := bytecode.OperandWidth(op)
		if width > 0 {
			operand = bytecode.ReadOperand(vm.chunk.Code, f.ip)
			f.ip += width
		}

		switch op {
		case bytecode.OpConstant:
			vm.push(vm.chunk.Constants[operand].Clone())
		case bytecode.OpNull:
			vm.push(value.Null)
		case bytecode.OpTrue:
			vm.push(value.Bool(true))
		case bytecode.OpFalse:
			vm.push(value.Bool(false))
		case bytecode.OpPop:
			vm.pop().Drop()
		case bytecode.OpDup:
			vm.push(vm.peek().Clone())

		case bytecode.OpGetLocal:
			vm.push(vm.stack[f.base+int(operand)].Clone())
		case bytecode.OpSetLocal:
			slot := f.base + int(operand)
			vm.stack[slot].Drop()
			vm.stack[slot] = vm.pop()
		case bytecode.OpGetGlobal:
			name := vm.chunk.Constants[operand].AsString()
			g, ok := vm.globals[name]
			if !ok {
				return value.Value{}, rterr.UnknownFunction(span, name)
			}
			vm.push(g.Clone())
		case bytecode.OpSetGlobal:
			name := vm.chunk.Constants[operand].AsString()
			vm.globals[name] = vm.pop()

		case bytecode.OpAdd:
			if err := vm.binary(span, "+"); err != nil {
				return value.Value{}, err
			}
		case bytecode.OpSub:
			if err := vm.binary(span, "-"); err != nil {
				return value.Value{}, err
			}
		case bytecode.OpMul:
			if err := vm.binary(span, "*"); err != nil {
				return value.Value{}, err
			}
		case bytecode.OpDiv:
			if err := vm.binary(span, "/"); err != nil {
				return value.Value{}, err
			}
		case bytecode.OpMod:
			if err := vm.binary(span, "%"); err != nil {
				return value.Value{}, err
			}
		case bytecode.OpLt:
			if err := vm.binary(span, "<"); err != nil {
				return value.Value{}, err
			}
		case bytecode.OpLe:
			if err := vm.binary(span, "<="); err != nil {
				return value.Value{}, err
			}
		case bytecode.OpGt:
			if err := vm.binary(span, ">"); err != nil {
				return value.Value{}, err
			}
		case bytecode.OpGe:
			if err := vm.binary(span, ">="); err != nil {
				return value.Value{}, err
			}
		case bytecode.OpEq:
			if err := vm.binary(span, "=="); err != nil {
				return value.Value{}, err
			}
		case bytecode.OpNe:
			if err := vm.binary(span, "!="); err != nil {
				return value.Value{}, err
			}
		case bytecode.OpNeg:
			v := vm.pop()
			r, err := unaryNeg(span, v)
			v.Drop()
			if err != nil {
				return value.Value{}, err
			}
			vm.push(r)
		case bytecode.OpNot:
			v := vm.pop()
			r, err := unaryNot(span, v)
			v.Drop()
			if err != nil {
				return value.Value{}, err
			}
			vm.push(r)

		case bytecode.OpAnd:
			// peek-don't-pop: if the left operand already settles the
			// result (false), leave it and skip Right's compiled code.
			if !vm.peek().AsBool() {
				f.ip = opStart + 3 + int(int16(operand))
			} else {
				vm.pop()
			}
		case bytecode.OpOr:
			if vm.peek().AsBool() {
				f.ip = opStart + 3 + int(int16(operand))
			} else {
				vm.pop()
			}

		case bytecode.OpJump:
			f.ip = opStart + 3 + int(int16(operand))
		case bytecode.OpJumpIfFalse:
			cond := vm.pop()
			if !cond.AsBool() {
				f.ip = opStart + 3 + int(int16(operand))
			}
		case bytecode.OpLoop:
			f.ip = opStart + 3 - int(operand)

		case bytecode.OpArray:
			n := int(operand)
			elems := make([]value.Value, n)
			copy(elems, vm.stack[len(vm.stack)-n:])
			vm.stack = vm.stack[:len(vm.stack)-n]
			vm.push(value.Array(elems...))
		case bytecode.OpIndex:
			idxVal := vm.pop()
			recv := vm.pop()
			v, err := vm.index(span, recv, idxVal)
			recv.Drop()
			idxVal.Drop()
			if err != nil {
				return value.Value{}, err
			}
			vm.push(v)
		case bytecode.OpSetIndex:
			newVal := vm.pop()
			idxVal := vm.pop()
			recv := vm.pop()
			next, err := vm.setIndex(span, recv, idxVal, newVal)
			idxVal.Drop()
			if err != nil {
				return value.Value{}, err
			}
			vm.push(next)

		case bytecode.OpCall:
			if err := vm.call(int(operand), span); err != nil {
				return value.Value{}, err
			}

		case bytecode.OpReturn:
			result := vm.pop()
			base := f.base
			for i := base; i < len(vm.stack); i++ {
				vm.stack[i].Drop()
			}
			vm.stack = vm.stack[:base]
			if len(vm.frames) == 1 {
				return result, nil
			}
			vm.frames = vm.frames[:len(vm.frames)-1]
			vm.push(result)

		case bytecode.OpHalt:
			return vm.pop(), nil

		default:
			return value.Value{}, rterr.UnknownOpcode(span, byte(op))
		}
	}
}

func (vm *VM) binary(span diag.Span, op string) error {
	r := vm.pop()
	l := vm.pop()
	result, err := binaryOp(span, op, l, r)
	l.Drop()
	r.Drop()
	if err != nil {
		return err
	}
	vm.push(result)
	return nil
}

func (vm *VM) index(span diag.Span, recv, idxVal value.Value) (value.Value, error) {
	idx, err := wholeIndex(span, idxVal)
	if err != nil {
		return value.Value{}, err
	}
	if recv.Kind() != value.KindArray {
		return value.Value{}, rterr.TypeError(span, "cannot index into "+recv.TypeName())
	}
	v, ok := recv.ArrayGet(idx)
	if !ok {
		return value.Value{}, rterr.OutOfBounds(span, idx, recv.ArrayLen())
	}
	return v, nil
}

func (vm *VM) setIndex(span diag.Span, recv, idxVal, newVal value.Value) (value.Value, error) {
	idx, err := wholeIndex(span, idxVal)
	if err != nil {
		newVal.Drop()
		recv.Drop()
		return value.Value{}, err
	}
	next, ok := recv.ArraySet(idx, newVal)
	if !ok {
		return value.Value{}, rterr.OutOfBounds(span, idx, recv.ArrayLen())
	}
	return next, nil
}

// call implements §4.3's OpCall convention: the callee value is pushed
// before its argCount arguments, so it sits argCount deep once the
// arguments are on the stack. It branches on the callee's Kind exactly as
// internal/interp.callValue does, so both engines invoke the identical Go
// function for a Builtin and the identical compiled body for a Function.
func (vm *VM) call(argCount int, span diag.Span) error {
	args := make([]value.Value, argCount)
	copy(args, vm.stack[len(vm.stack)-argCount:])
	vm.stack = vm.stack[:len(vm.stack)-argCount]
	callee := vm.pop()

	switch callee.Kind() {
	case value.KindBuiltin:
		result, err := dispatch.Call(callee.BuiltinName(), args, span, vm.sec, vm.out)
		if err != nil {
			return err
		}
		vm.push(result)
		return nil
	case value.KindNativeFunction:
		result, err := callee.AsNativeFunction()(args)
		if err != nil {
			return err
		}
		vm.push(result)
		return nil
	case value.KindFunction:
		fn := callee.AsFunction()
		if fn == nil {
			return rterr.UnknownFunction(span, "<indirect>")
		}
		if argCount != fn.Arity {
			return rterr.InvalidStdlibArgument(span, fn.Name, fmt.Sprintf("expected %d argument(s), got %d", fn.Arity, argCount))
		}
		base := len(vm.stack)
		vm.stack = append(vm.stack, args...)
		for i := fn.Arity; i < fn.LocalCount; i++ {
			vm.push(value.Null)
		}
		vm.frames = append(vm.frames, frame{ip: fn.BytecodeOffset, base: base})
		return nil
	default:
		return rterr.UnknownFunction(span, callee.String())
	}
}
