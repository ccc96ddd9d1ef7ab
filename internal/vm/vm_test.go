package vm

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/atlas-lang/atlas/internal/ast"
	"github.com/atlas-lang/atlas/internal/compiler"
	"github.com/atlas-lang/atlas/internal/diag"
	"github.com/atlas-lang/atlas/internal/interp"
	"github.com/atlas-lang/atlas/internal/rterr"
	"github.com/atlas-lang/atlas/internal/security"
	"github.com/atlas-lang/atlas/internal/symbols"
)

func sp(line int) diag.Span { return diag.Span{File: "t.atl", Line: line, Column: 1} }

func num(v float64) *ast.NumberLit { return &ast.NumberLit{ExprBase: ast.NewExprBase(sp(1), nil), Value: v} }

func ident(name string, sym *symbols.Symbol) *ast.Identifier {
	return &ast.Identifier{ExprBase: ast.NewExprBase(sp(1), nil), Name: name, Symbol: sym}
}

type captureOutput struct{ buf bytes.Buffer }

func (o *captureOutput) WriteString(s string) (int, error) { return o.buf.WriteString(s) }

// runBoth compiles and tree-walks the same program, asserting §8.1 engine
// parity: both engines must agree on stdout and the returned value for
// every fixture below.
func runBoth(t *testing.T, prog *ast.Program) (result string, stdout string) {
	t.Helper()

	interpOut := &captureOutput{}
	in := interp.New(security.Unrestricted(), interpOut)
	interpResult, err := in.Run(prog)
	require.NoError(t, err)

	chunk, diags := compiler.Compile(prog)
	require.Empty(t, diags)

	vmOut := &captureOutput{}
	m := New(chunk, security.Unrestricted(), vmOut)
	vmResult, err := m.Run()
	require.NoError(t, err)

	require.Equal(t, interpOut.buf.String(), vmOut.buf.String(), "engine parity: stdout diverged")
	require.Equal(t, interpResult.Kind(), vmResult.Kind(), "engine parity: result kind diverged")
	if interpResult.Kind().String() == "Number" {
		require.Equal(t, interpResult.AsNumber(), vmResult.AsNumber(), "engine parity: result value diverged")
	}
	return vmResult.String(), vmOut.buf.String()
}

// TestVMBinaryArithmeticPrecedenceFromScenario1 mirrors
// internal/interp's and internal/compiler's scenario-1 fixture, now run on
// both engines to exercise §8.3 scenario 1 end to end.
func TestVMBinaryArithmeticPrecedenceFromScenario1(t *testing.T) {
	mul := &ast.BinaryOp{ExprBase: ast.NewExprBase(sp(1), nil), Op: "*", Left: num(3), Right: num(4)}
	add := &ast.BinaryOp{ExprBase: ast.NewExprBase(sp(1), nil), Op: "+", Left: num(2), Right: mul}
	xSym := &symbols.Symbol{Name: "x", Kind: symbols.Variable}
	letX := &ast.LetDecl{Base: ast.NewBase(sp(1)), Name: "x", Symbol: xSym, Init: add}
	printSym := &symbols.Symbol{Name: "print", Kind: symbols.Builtin}
	call := &ast.CallExpr{ExprBase: ast.NewExprBase(sp(1), nil), Callee: ident("print", printSym), Args: []ast.Expr{ident("x", xSym)}}
	prog := &ast.Program{Items: []ast.Node{letX, &ast.ExprStmt{Base: ast.NewBase(sp(1)), Expr: call}}}

	_, stdout := runBoth(t, prog)
	require.Equal(t, "14\n", stdout)
}

func TestVMUserFunctionCallAddsArguments(t *testing.T) {
	aSym := &symbols.Symbol{Name: "a", Kind: symbols.Variable}
	bSym := &symbols.Symbol{Name: "b", Kind: symbols.Variable}
	sum := &ast.BinaryOp{ExprBase: ast.NewExprBase(sp(1), nil), Op: "+", Left: ident("a", aSym), Right: ident("b", bSym)}
	body := &ast.BlockStmt{Base: ast.NewBase(sp(1)), Stmts: []ast.Node{&ast.ReturnStmt{Base: ast.NewBase(sp(1)), Value: sum}}}
	fnSym := &symbols.Symbol{Name: "add", Kind: symbols.Function}
	fd := &ast.FuncDecl{
		Base:       ast.NewBase(sp(1)),
		Name:       "add",
		Params:     []*ast.Param{{Base: ast.NewBase(sp(1)), Name: "a", Symbol: aSym, Type: ast.Number()}, {Base: ast.NewBase(sp(1)), Name: "b", Symbol: bSym, Type: ast.Number()}},
		ReturnType: ast.Number(),
		Body:       body,
		Symbol:     fnSym,
	}
	call := &ast.CallExpr{ExprBase: ast.NewExprBase(sp(1), nil), Callee: ident("add", fnSym), Args: []ast.Expr{num(4), num(5)}}
	printSym := &symbols.Symbol{Name: "print", Kind: symbols.Builtin}
	printCall := &ast.CallExpr{ExprBase: ast.NewExprBase(sp(1), nil), Callee: ident("print", printSym), Args: []ast.Expr{call}}
	prog := &ast.Program{Items: []ast.Node{fd, &ast.ExprStmt{Base: ast.NewBase(sp(1)), Expr: printCall}}}

	_, stdout := runBoth(t, prog)
	require.Equal(t, "9\n", stdout)
}

func TestVMForLoopSumsZeroThroughFour(t *testing.T) {
	sumSym := &symbols.Symbol{Name: "sum", Kind: symbols.Variable, Mutable: true}
	iSym := &symbols.Symbol{Name: "i", Kind: symbols.Variable, Mutable: true}
	letSum := &ast.LetDecl{Base: ast.NewBase(sp(1)), Name: "sum", Mutable: true, Symbol: sumSym, Init: num(0)}
	initI := &ast.LetDecl{Base: ast.NewBase(sp(1)), Name: "i", Mutable: true, Symbol: iSym, Init: num(0)}
	cond := &ast.BinaryOp{ExprBase: ast.NewExprBase(sp(1), nil), Op: "<", Left: ident("i", iSym), Right: num(5)}
	post := &ast.IncDec{ExprBase: ast.NewExprBase(sp(1), nil), Op: "++", Target: ident("i", iSym)}
	addAssign := &ast.Assign{ExprBase: ast.NewExprBase(sp(1), nil), Op: "=", Target: ident("sum", sumSym), Value: &ast.BinaryOp{ExprBase: ast.NewExprBase(sp(1), nil), Op: "+", Left: ident("sum", sumSym), Right: ident("i", iSym)}}
	loopBody := &ast.BlockStmt{Base: ast.NewBase(sp(1)), Stmts: []ast.Node{&ast.ExprStmt{Base: ast.NewBase(sp(1)), Expr: addAssign}}}
	forStmt := &ast.ForStmt{Base: ast.NewBase(sp(1)), Init: initI, Cond: cond, Post: post, Body: loopBody}
	printSym := &symbols.Symbol{Name: "print", Kind: symbols.Builtin}
	printCall := &ast.CallExpr{ExprBase: ast.NewExprBase(sp(1), nil), Callee: ident("print", printSym), Args: []ast.Expr{ident("sum", sumSym)}}
	prog := &ast.Program{Items: []ast.Node{letSum, forStmt, &ast.ExprStmt{Base: ast.NewBase(sp(1)), Expr: printCall}}}

	_, stdout := runBoth(t, prog)
	require.Equal(t, "10\n", stdout)
}

func TestVMDivideByZeroIsRuntimeError(t *testing.T) {
	div := &ast.BinaryOp{ExprBase: ast.NewExprBase(sp(1), nil), Op: "/", Left: num(10), Right: num(0)}
	xSym := &symbols.Symbol{Name: "x", Kind: symbols.Variable}
	letX := &ast.LetDecl{Base: ast.NewBase(sp(1)), Name: "x", Symbol: xSym, Init: div}
	prog := &ast.Program{Items: []ast.Node{letX}}

	chunk, diags := compiler.Compile(prog)
	require.Empty(t, diags)

	m := New(chunk, security.Unrestricted(), &captureOutput{})
	_, err := m.Run()

	rerr, ok := rterr.As(err)
	require.True(t, ok)
	require.Equal(t, rterr.KindDivideByZero, rerr.Kind)
}

func TestVMArrayIndexOutOfBoundsIsRuntimeError(t *testing.T) {
	arrLit := &ast.ArrayLit{ExprBase: ast.NewExprBase(sp(1), nil), Elems: []ast.Expr{num(1), num(2), num(3)}}
	arrSym := &symbols.Symbol{Name: "arr", Kind: symbols.Variable}
	letArr := &ast.LetDecl{Base: ast.NewBase(sp(1)), Name: "arr", Symbol: arrSym, Init: arrLit}
	idx := &ast.IndexExpr{ExprBase: ast.NewExprBase(sp(1), nil), Receiver: ident("arr", arrSym), Index: num(3)}
	printSym := &symbols.Symbol{Name: "print", Kind: symbols.Builtin}
	printCall := &ast.CallExpr{ExprBase: ast.NewExprBase(sp(1), nil), Callee: ident("print", printSym), Args: []ast.Expr{idx}}
	prog := &ast.Program{Items: []ast.Node{letArr, &ast.ExprStmt{Base: ast.NewBase(sp(1)), Expr: printCall}}}

	chunk, diags := compiler.Compile(prog)
	require.Empty(t, diags)

	m := New(chunk, security.Unrestricted(), &captureOutput{})
	_, err := m.Run()

	rerr, ok := rterr.As(err)
	require.True(t, ok)
	require.Equal(t, rterr.KindOutOfBounds, rerr.Kind)
}

func TestVMShortCircuitAndSkipsRightOperand(t *testing.T) {
	// false && print("side effect") -- the right operand's print must
	// never execute, on either engine.
	printSym := &symbols.Symbol{Name: "print", Kind: symbols.Builtin}
	sideEffect := &ast.CallExpr{ExprBase: ast.NewExprBase(sp(1), nil), Callee: ident("print", printSym), Args: []ast.Expr{num(1)}}
	and := &ast.BinaryOp{ExprBase: ast.NewExprBase(sp(1), nil), Op: "&&", Left: &ast.BoolLit{ExprBase: ast.NewExprBase(sp(1), nil), Value: false}, Right: sideEffect}
	xSym := &symbols.Symbol{Name: "x", Kind: symbols.Variable}
	letX := &ast.LetDecl{Base: ast.NewBase(sp(1)), Name: "x", Symbol: xSym, Init: and}
	prog := &ast.Program{Items: []ast.Node{letX}}

	_, stdout := runBoth(t, prog)
	require.Equal(t, "", stdout)
}
