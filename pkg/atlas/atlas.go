// Package atlas is the host callable surface of §6.3: the handful of
// entry points an embedding program (a REPL, a test runner, cmd/atlas)
// needs to turn a parsed program into diagnostics, bytecode, or a result
// value, without reaching into internal/binder, internal/types,
// internal/compiler, internal/interp or internal/vm directly.
//
// §6.3 describes compile/check/ast as taking (source, path) and doing
// their own lexing and parsing; this module's parser is out of scope
// (internal/rawast stands in for its output, per the package layout
// notes), so Compile, Check and AST here take an already-parsed
// *rawast.Program instead of source text. A host with a real front end
// parses source into a rawast.Program and calls these the same way it
// would call the spec's text-taking versions.
package atlas

import (
	"github.com/atlas-lang/atlas/internal/ast"
	"github.com/atlas-lang/atlas/internal/binder"
	"github.com/atlas-lang/atlas/internal/bytecode"
	"github.com/atlas-lang/atlas/internal/compiler"
	"github.com/atlas-lang/atlas/internal/diag"
	"github.com/atlas-lang/atlas/internal/dispatch"
	"github.com/atlas-lang/atlas/internal/interp"
	"github.com/atlas-lang/atlas/internal/rawast"
	"github.com/atlas-lang/atlas/internal/security"
	"github.com/atlas-lang/atlas/internal/types"
	"github.com/atlas-lang/atlas/internal/value"
	"github.com/atlas-lang/atlas/internal/vm"
)

// maxErrors is the binder/checker error budget of §4.10 ("stops after 25
// errors").
const maxErrors = 25

// HasErrors reports whether diags contains at least one error-level
// diagnostic (warnings never block compilation or execution).
func HasErrors(diags []diag.Diagnostic) bool {
	for _, d := range diags {
		if d.Level == diag.LevelError {
			return true
		}
	}
	return false
}

// bindAndCheck runs the binder then the type checker over prog, the
// pipeline every one of Compile/Check/AST shares. It returns the
// annotated tree even when diagnostics contains errors, so AST can still
// render a best-effort tree and Compile's caller can see every error
// rather than only the binder's.
func bindAndCheck(prog *rawast.Program) (*ast.Program, []diag.Diagnostic) {
	annotated, _, diags := binder.New(maxErrors).Bind(prog)
	checkDiags := types.New(maxErrors).Check(annotated)
	diags = append(diags, checkDiags...)
	return annotated, diags
}

// Check runs the binder and type checker and returns only diagnostics
// (§6.3 "check(source, path) -> diagnostics").
func Check(prog *rawast.Program) []diag.Diagnostic {
	_, diags := bindAndCheck(prog)
	return diags
}

// AST returns the bound, type-checked tree alongside any diagnostics
// (§6.3 "ast(source, path) -> (ast_json | diagnostics)"). Rendering the
// tree to the ast_json wire format is the host's concern; AST hands back
// the Go value the host's own encoder walks.
func AST(prog *rawast.Program) (*ast.Program, []diag.Diagnostic) {
	return bindAndCheck(prog)
}

// Compile binds, type-checks and compiles prog to bytecode (§6.3
// "compile(source, path) -> (bytecode | diagnostics)"). It returns a nil
// Chunk whenever binding or checking reported an error, since
// internal/compiler assumes a clean tree (§4.3 "Compile assumes prog
// already passed internal/types.Check with no errors").
func Compile(prog *rawast.Program) (*bytecode.Chunk, []diag.Diagnostic) {
	annotated, diags := bindAndCheck(prog)
	if HasErrors(diags) {
		return nil, diags
	}
	chunk, compileDiags := compiler.Compile(annotated)
	return chunk, append(diags, compileDiags...)
}

// EvalInterpreter tree-walks ast to completion (§6.3
// "eval_interpreter(ast, security, output) -> (value | runtime_error)").
func EvalInterpreter(prog *ast.Program, sec *security.Context, out dispatch.Output) (value.Value, error) {
	return interp.New(sec, out).Run(prog)
}

// EvalVM executes chunk on a fresh VM (§6.3
// "eval_vm(bytecode, security, output) -> (value | runtime_error)"). For
// the same source program, EvalInterpreter and EvalVM must agree on
// stdout, the returned value, and any runtime_error (§8.1 engine parity).
func EvalVM(chunk *bytecode.Chunk, sec *security.Context, out dispatch.Output) (value.Value, error) {
	return vm.New(chunk, sec, out).Run()
}
