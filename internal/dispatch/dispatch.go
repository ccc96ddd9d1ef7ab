// Package dispatch implements the two single-source-of-truth tables named
// by §4.8 and §4.9: the (TypeTag, method name) -> stdlib function-name
// table consulted by both the compiler and the interpreter, and the
// process-lifetime name -> dispatch-function standard-library registry.
// Both follow the teacher's opcode-dispatcher discipline
// (core/opcode_dispatcher.go): one insertion point, a sync.RWMutex-guarded
// map, no parallel match arms anywhere else in the codebase (§9.1).
package dispatch

import (
	"fmt"
	"sync"

	"github.com/atlas-lang/atlas/internal/ast"
	"github.com/atlas-lang/atlas/internal/diag"
	"github.com/atlas-lang/atlas/internal/security"
	"github.com/atlas-lang/atlas/internal/value"
)

// methodKey identifies one (receiver category, method name) pair.
type methodKey struct {
	tag  ast.TypeTag
	name string
}

// methodEntry records the resolved stdlib function name and whether
// invoking it mutates the receiver — the mutates_receiver flag §9.2's
// Open Question resolution requires living "beside the method-dispatch
// table".
type methodEntry struct {
	fnName           string
	mutatesReceiver bool
}

var (
	methodMu    sync.RWMutex
	methodTable = make(map[methodKey]methodEntry)
)

// RegisterMethod is the single insertion point for method-dispatch
// entries. Called from this package's init() once per supported method;
// nothing outside this file is permitted to populate methodTable, per the
// "single source of truth" contract of §4.8.
func RegisterMethod(tag ast.TypeTag, method, fnName string, mutatesReceiver bool) {
	methodMu.Lock()
	defer methodMu.Unlock()
	methodTable[methodKey{tag: tag, name: method}] = methodEntry{fnName: fnName, mutatesReceiver: mutatesReceiver}
}

// ResolveMethod looks up the stdlib function name and mutates_receiver
// flag for a (tag, method) pair. ok is false for unknown pairs, which the
// compiler reports as a compile-time error and the interpreter reports as
// a runtime TypeError with identical wording (§4.8).
func ResolveMethod(tag ast.TypeTag, method string) (fnName string, mutatesReceiver bool, ok bool) {
	methodMu.RLock()
	defer methodMu.RUnlock()
	e, ok := methodTable[methodKey{tag: tag, name: method}]
	return e.fnName, e.mutatesReceiver, ok
}

// UnknownMethodMessage renders the identical wording both engines must
// use for an unresolved (tag, method) pair (§4.8 "identical wording").
func UnknownMethodMessage(tag ast.TypeTag, method string) string {
	return fmt.Sprintf("no method %q on type %s", method, tag)
}

// BuiltinFunc is the uniform stdlib dispatch signature of §4.9.
type BuiltinFunc func(args []value.Value, span diag.Span, sec *security.Context, out Output) (value.Value, error)

// Output is the abstract sink builtins append to (§4.4's output_writer).
type Output interface {
	WriteString(s string) (int, error)
}

var (
	registryMu sync.RWMutex
	registry   = make(map[string]BuiltinFunc)
)

// Register is the single insertion point for the stdlib registry. Both
// engines observe a newly registered builtin identically because both
// read through IsBuiltin/Call, never a local copy (§4.9, §9.1 "Dispatch
// table, not parallel matches").
func Register(name string, fn BuiltinFunc) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[name] = fn
}

// IsBuiltin is the single hash lookup §4.9 requires.
func IsBuiltin(name string) bool {
	registryMu.RLock()
	defer registryMu.RUnlock()
	_, ok := registry[name]
	return ok
}

// Call dispatches through the same table IsBuiltin consulted.
func Call(name string, args []value.Value, span diag.Span, sec *security.Context, out Output) (value.Value, error) {
	registryMu.RLock()
	fn, ok := registry[name]
	registryMu.RUnlock()
	if !ok {
		return value.Value{}, fmt.Errorf("unknown builtin %q", name)
	}
	return fn(args, span, sec, out)
}
