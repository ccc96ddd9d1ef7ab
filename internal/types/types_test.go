package types

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/atlas-lang/atlas/internal/ast"
	"github.com/atlas-lang/atlas/internal/diag"
	"github.com/atlas-lang/atlas/internal/symbols"
)

func sp(line int) diag.Span { return diag.Span{File: "t.atl", Line: line, Column: 1} }

func ident(name string, sym *symbols.Symbol) *ast.Identifier {
	return &ast.Identifier{ExprBase: ast.NewExprBase(sp(1), nil), Name: name, Symbol: sym}
}

func TestCheckNumberLiteralResolvesToNumber(t *testing.T) {
	lit := &ast.NumberLit{ExprBase: ast.NewExprBase(sp(1), nil), Value: 3}
	prog := &ast.Program{Items: []ast.Node{&ast.ExprStmt{Base: ast.NewBase(sp(1)), Expr: lit}}}

	c := New(25)
	diags := c.Check(prog)

	require.Empty(t, diags)
	require.Equal(t, ast.KindNumber, lit.ResolvedType().Kind)
}

func TestCheckBinaryAddNumbersIsNumber(t *testing.T) {
	left := &ast.NumberLit{ExprBase: ast.NewExprBase(sp(1), nil), Value: 1}
	right := &ast.NumberLit{ExprBase: ast.NewExprBase(sp(1), nil), Value: 2}
	bin := &ast.BinaryOp{ExprBase: ast.NewExprBase(sp(1), nil), Op: "+", Left: left, Right: right}
	prog := &ast.Program{Items: []ast.Node{&ast.ExprStmt{Base: ast.NewBase(sp(1)), Expr: bin}}}

	c := New(25)
	diags := c.Check(prog)

	require.Empty(t, diags)
	require.Equal(t, ast.KindNumber, bin.ResolvedType().Kind)
}

func TestCheckBinaryAddStringAndNumberReportsMismatch(t *testing.T) {
	left := &ast.StringLit{ExprBase: ast.NewExprBase(sp(1), nil), Value: "a"}
	right := &ast.NumberLit{ExprBase: ast.NewExprBase(sp(1), nil), Value: 2}
	bin := &ast.BinaryOp{ExprBase: ast.NewExprBase(sp(1), nil), Op: "+", Left: left, Right: right}
	prog := &ast.Program{Items: []ast.Node{&ast.ExprStmt{Base: ast.NewBase(sp(1)), Expr: bin}}}

	c := New(25)
	diags := c.Check(prog)

	require.Len(t, diags, 1)
	require.Equal(t, diag.CodeTypeMismatch, diags[0].Code)
}

func TestCheckIfConditionMustBeBool(t *testing.T) {
	cond := &ast.NumberLit{ExprBase: ast.NewExprBase(sp(1), nil), Value: 1}
	ifs := &ast.IfStmt{Base: ast.NewBase(sp(1)), Cond: cond, Then: &ast.BlockStmt{Base: ast.NewBase(sp(1))}}
	prog := &ast.Program{Items: []ast.Node{ifs}}

	c := New(25)
	diags := c.Check(prog)

	require.Len(t, diags, 1)
	require.Equal(t, diag.CodeTypeMismatch, diags[0].Code)
}

func TestCheckEqualityRequiresSharedType(t *testing.T) {
	left := &ast.NumberLit{ExprBase: ast.NewExprBase(sp(1), nil), Value: 1}
	right := &ast.StringLit{ExprBase: ast.NewExprBase(sp(1), nil), Value: "x"}
	bin := &ast.BinaryOp{ExprBase: ast.NewExprBase(sp(1), nil), Op: "==", Left: left, Right: right}
	prog := &ast.Program{Items: []ast.Node{&ast.ExprStmt{Base: ast.NewBase(sp(1)), Expr: bin}}}

	c := New(25)
	diags := c.Check(prog)

	require.Len(t, diags, 1)
	require.Equal(t, ast.KindBool, bin.ResolvedType().Kind)
}

func TestCheckFunctionCallArityMismatch(t *testing.T) {
	fnSym := &symbols.Symbol{Name: "f", Kind: symbols.Function}
	fd := &ast.FuncDecl{
		Base:   ast.NewBase(sp(1)),
		Name:   "f",
		Symbol: fnSym,
		Params: []*ast.Param{{Base: ast.NewBase(sp(1)), Name: "x", Type: ast.Number(), Symbol: &symbols.Symbol{Name: "x"}}},
		ReturnType: ast.Number(),
		Body:       &ast.BlockStmt{Base: ast.NewBase(sp(1)), Stmts: []ast.Node{&ast.ReturnStmt{Base: ast.NewBase(sp(1)), Value: &ast.NumberLit{ExprBase: ast.NewExprBase(sp(1), nil), Value: 1}}}},
	}
	call := &ast.CallExpr{ExprBase: ast.NewExprBase(sp(2), nil), Callee: ident("f", fnSym)}
	prog := &ast.Program{Items: []ast.Node{fd, &ast.ExprStmt{Base: ast.NewBase(sp(2)), Expr: call}}}

	c := New(25)
	diags := c.Check(prog)

	require.Len(t, diags, 1)
	require.Equal(t, diag.CodeTypeMismatch, diags[0].Code)
}

func TestCheckFunctionCallMatchingArityIsFine(t *testing.T) {
	fnSym := &symbols.Symbol{Name: "f", Kind: symbols.Function}
	paramSym := &symbols.Symbol{Name: "x"}
	fd := &ast.FuncDecl{
		Base:       ast.NewBase(sp(1)),
		Name:       "f",
		Symbol:     fnSym,
		Params:     []*ast.Param{{Base: ast.NewBase(sp(1)), Name: "x", Type: ast.Number(), Symbol: paramSym}},
		ReturnType: ast.Number(),
		Body: &ast.BlockStmt{Base: ast.NewBase(sp(1)), Stmts: []ast.Node{
			&ast.ReturnStmt{Base: ast.NewBase(sp(1)), Value: ident("x", paramSym)},
		}},
	}
	arg := &ast.NumberLit{ExprBase: ast.NewExprBase(sp(2), nil), Value: 5}
	call := &ast.CallExpr{ExprBase: ast.NewExprBase(sp(2), nil), Callee: ident("f", fnSym), Args: []ast.Expr{arg}}
	prog := &ast.Program{Items: []ast.Node{fd, &ast.ExprStmt{Base: ast.NewBase(sp(2)), Expr: call}}}

	c := New(25)
	diags := c.Check(prog)

	require.Empty(t, diags)
	require.Equal(t, ast.KindNumber, call.ResolvedType().Kind)
}

func TestCheckMissingReturnReportsAT0004(t *testing.T) {
	fnSym := &symbols.Symbol{Name: "f", Kind: symbols.Function}
	fd := &ast.FuncDecl{
		Base:       ast.NewBase(sp(1)),
		Name:       "f",
		Symbol:     fnSym,
		ReturnType: ast.Number(),
		Body:       &ast.BlockStmt{Base: ast.NewBase(sp(1))},
	}
	prog := &ast.Program{Items: []ast.Node{fd}}

	c := New(25)
	diags := c.Check(prog)

	require.Len(t, diags, 1)
	require.Equal(t, diag.CodeMissingReturn, diags[0].Code)
}

func TestCheckGenericIdentityMonomorphizesOncePerArgType(t *testing.T) {
	fnSym := &symbols.Symbol{Name: "identity", Kind: symbols.Function}
	paramSym := &symbols.Symbol{Name: "x"}
	fd := &ast.FuncDecl{
		Base:       ast.NewBase(sp(1)),
		Name:       "identity",
		TypeParams: []string{"T"},
		Symbol:     fnSym,
		Params:     []*ast.Param{{Base: ast.NewBase(sp(1)), Name: "x", Type: ast.TypeParam("T"), Symbol: paramSym}},
		ReturnType: ast.TypeParam("T"),
		Body: &ast.BlockStmt{Base: ast.NewBase(sp(1)), Stmts: []ast.Node{
			&ast.ReturnStmt{Base: ast.NewBase(sp(1)), Value: ident("x", paramSym)},
		}},
	}
	call1 := &ast.CallExpr{ExprBase: ast.NewExprBase(sp(2), nil), Callee: ident("identity", fnSym), Args: []ast.Expr{
		&ast.NumberLit{ExprBase: ast.NewExprBase(sp(2), nil), Value: 1},
	}}
	call2 := &ast.CallExpr{ExprBase: ast.NewExprBase(sp(3), nil), Callee: ident("identity", fnSym), Args: []ast.Expr{
		&ast.StringLit{ExprBase: ast.NewExprBase(sp(3), nil), Value: "a"},
	}}
	prog := &ast.Program{Items: []ast.Node{
		fd,
		&ast.ExprStmt{Base: ast.NewBase(sp(2)), Expr: call1},
		&ast.ExprStmt{Base: ast.NewBase(sp(3)), Expr: call2},
	}}

	c := New(25)
	diags := c.Check(prog)

	require.Empty(t, diags)
	require.Equal(t, ast.KindNumber, call1.ResolvedType().Kind)
	require.Equal(t, ast.KindString, call2.ResolvedType().Kind)
	require.Len(t, fd.Instantiations, 2)
}

func TestCheckOwnParamConsumesCallerBinding(t *testing.T) {
	fnSym := &symbols.Symbol{Name: "consume", Kind: symbols.Function}
	paramSym := &symbols.Symbol{Name: "x"}
	fd := &ast.FuncDecl{
		Base:   ast.NewBase(sp(1)),
		Name:   "consume",
		Symbol: fnSym,
		Params: []*ast.Param{{Base: ast.NewBase(sp(1)), Name: "x", Type: ast.Number(), Own: ast.Own, Symbol: paramSym}},
		ReturnType: ast.Void(),
		Body:       &ast.BlockStmt{Base: ast.NewBase(sp(1))},
	}
	callerSym := &symbols.Symbol{Name: "y", Mutable: true}
	letY := &ast.LetDecl{Base: ast.NewBase(sp(2)), Name: "y", Mutable: true, Symbol: callerSym, Init: &ast.NumberLit{ExprBase: ast.NewExprBase(sp(2), nil), Value: 1}}
	call := &ast.CallExpr{ExprBase: ast.NewExprBase(sp(3), nil), Callee: ident("consume", fnSym), Args: []ast.Expr{ident("y", callerSym)}}
	useAfter := &ast.ExprStmt{Base: ast.NewBase(sp(4)), Expr: ident("y", callerSym)}
	prog := &ast.Program{Items: []ast.Node{
		fd, letY,
		&ast.ExprStmt{Base: ast.NewBase(sp(3)), Expr: call},
		useAfter,
	}}

	c := New(25)
	diags := c.Check(prog)

	require.Len(t, diags, 1)
	require.Equal(t, diag.CodeInvalidAssignment, diags[0].Code)
}

func TestCheckMatchNonExhaustiveReportsAT0008(t *testing.T) {
	subject := &ast.NumberLit{ExprBase: ast.NewExprBase(sp(1), nil), Value: 1}
	arm := &ast.MatchArm{
		Pattern: &ast.LiteralPattern{PatternBase: ast.NewPatternBase(sp(1)), Value: &ast.NumberLit{ExprBase: ast.NewExprBase(sp(1), nil), Value: 1}},
		Expr:    &ast.NumberLit{ExprBase: ast.NewExprBase(sp(1), nil), Value: 1},
	}
	match := &ast.MatchExpr{ExprBase: ast.NewExprBase(sp(1), nil), Subject: subject, Arms: []*ast.MatchArm{arm}}
	prog := &ast.Program{Items: []ast.Node{&ast.ExprStmt{Base: ast.NewBase(sp(1)), Expr: match}}}

	c := New(25)
	diags := c.Check(prog)

	require.Len(t, diags, 1)
	require.Equal(t, diag.CodeNonExhaustiveMatch, diags[0].Code)
}

func TestCheckMatchWithWildcardIsExhaustive(t *testing.T) {
	subject := &ast.NumberLit{ExprBase: ast.NewExprBase(sp(1), nil), Value: 1}
	arm1 := &ast.MatchArm{
		Pattern: &ast.LiteralPattern{PatternBase: ast.NewPatternBase(sp(1)), Value: &ast.NumberLit{ExprBase: ast.NewExprBase(sp(1), nil), Value: 1}},
		Expr:    &ast.StringLit{ExprBase: ast.NewExprBase(sp(1), nil), Value: "one"},
	}
	arm2 := &ast.MatchArm{
		Pattern: &ast.WildcardPattern{PatternBase: ast.NewPatternBase(sp(2))},
		Expr:    &ast.StringLit{ExprBase: ast.NewExprBase(sp(2), nil), Value: "other"},
	}
	match := &ast.MatchExpr{ExprBase: ast.NewExprBase(sp(1), nil), Subject: subject, Arms: []*ast.MatchArm{arm1, arm2}}
	prog := &ast.Program{Items: []ast.Node{&ast.ExprStmt{Base: ast.NewBase(sp(1)), Expr: match}}}

	c := New(25)
	diags := c.Check(prog)

	require.Empty(t, diags)
	require.Equal(t, ast.KindString, match.ResolvedType().Kind)
}

func TestCheckIndexWithNonNumberReportsMismatch(t *testing.T) {
	arr := &ast.ArrayLit{ExprBase: ast.NewExprBase(sp(1), nil), Elems: []ast.Expr{&ast.NumberLit{ExprBase: ast.NewExprBase(sp(1), nil), Value: 1}}}
	idx := &ast.IndexExpr{ExprBase: ast.NewExprBase(sp(1), nil), Receiver: arr, Index: &ast.StringLit{ExprBase: ast.NewExprBase(sp(1), nil), Value: "x"}}
	prog := &ast.Program{Items: []ast.Node{&ast.ExprStmt{Base: ast.NewBase(sp(1)), Expr: idx}}}

	c := New(25)
	diags := c.Check(prog)

	require.Len(t, diags, 1)
	require.Equal(t, diag.CodeTypeMismatch, diags[0].Code)
}

func TestCheckArrayIndexResolvesToElementType(t *testing.T) {
	arr := &ast.ArrayLit{ExprBase: ast.NewExprBase(sp(1), nil), Elems: []ast.Expr{&ast.NumberLit{ExprBase: ast.NewExprBase(sp(1), nil), Value: 1}}}
	idx := &ast.IndexExpr{ExprBase: ast.NewExprBase(sp(1), nil), Receiver: arr, Index: &ast.NumberLit{ExprBase: ast.NewExprBase(sp(1), nil), Value: 0}}
	prog := &ast.Program{Items: []ast.Node{&ast.ExprStmt{Base: ast.NewBase(sp(1)), Expr: idx}}}

	c := New(25)
	diags := c.Check(prog)

	require.Empty(t, diags)
	require.Equal(t, ast.KindNumber, idx.ResolvedType().Kind)
}

func TestCheckMethodCallAssignsTagAndResultType(t *testing.T) {
	arr := &ast.ArrayLit{ExprBase: ast.NewExprBase(sp(1), nil), Elems: []ast.Expr{&ast.NumberLit{ExprBase: ast.NewExprBase(sp(1), nil), Value: 1}}}
	member := &ast.MemberExpr{ExprBase: ast.NewExprBase(sp(1), nil), Receiver: arr, Name: "len"}
	call := &ast.CallExpr{ExprBase: ast.NewExprBase(sp(1), nil), Callee: member}
	prog := &ast.Program{Items: []ast.Node{&ast.ExprStmt{Base: ast.NewBase(sp(1)), Expr: call}}}

	c := New(25)
	diags := c.Check(prog)

	require.Empty(t, diags)
	require.Equal(t, ast.TagArray, member.Tag)
	require.Equal(t, ast.KindNumber, call.ResolvedType().Kind)
}

func TestCheckUnknownMethodReportsMismatch(t *testing.T) {
	arr := &ast.ArrayLit{ExprBase: ast.NewExprBase(sp(1), nil), Elems: []ast.Expr{&ast.NumberLit{ExprBase: ast.NewExprBase(sp(1), nil), Value: 1}}}
	member := &ast.MemberExpr{ExprBase: ast.NewExprBase(sp(1), nil), Receiver: arr, Name: "frobnicate"}
	call := &ast.CallExpr{ExprBase: ast.NewExprBase(sp(1), nil), Callee: member}
	prog := &ast.Program{Items: []ast.Node{&ast.ExprStmt{Base: ast.NewBase(sp(1)), Expr: call}}}

	c := New(25)
	diags := c.Check(prog)

	require.Len(t, diags, 1)
	require.Equal(t, diag.CodeTypeMismatch, diags[0].Code)
}
