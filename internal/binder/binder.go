// Package binder implements the two-pass symbol binder of §4.1: it walks
// the raw AST, hoists top-level functions, binds every identifier to a
// symbol, and produces the annotated tree's skeleton (spans and symbol
// references; types are filled in later by internal/types).
package binder

import (
	"github.com/atlas-lang/atlas/internal/ast"
	"github.com/atlas-lang/atlas/internal/diag"
	"github.com/atlas-lang/atlas/internal/rawast"
	"github.com/atlas-lang/atlas/internal/symbols"
)

// astBase, exprBase and patBase are thin aliases over internal/ast's
// exported constructors, kept short because every node-construction call
// below needs one.
func astBase(sp diag.Span) ast.Base                   { return ast.NewBase(sp) }
func exprBase(sp diag.Span, t *ast.Type) ast.ExprBase { return ast.NewExprBase(sp, t) }
func patBase(sp diag.Span) ast.PatternBase            { return ast.NewPatternBase(sp) }

// resolveTypeExpr turns a surface type annotation into an ast.Type. This is
// pure syntax resolution (name -> Type shape), not type checking: a TypeExpr
// naming an unknown generic container is still resolved, left for
// internal/types to reject if the name denotes nothing. nil input means "no
// annotation" and resolves to nil, which the checker treats as inferred.
// typeParams is the enclosing function's generic parameter set, so a bare
// name like "T" resolves to a type parameter rather than a named type.
func resolveTypeExpr(te *rawast.TypeExpr, typeParams map[string]bool) *ast.Type {
	if te == nil {
		return nil
	}
	switch te.Name {
	case "number":
		return ast.Number()
	case "bool":
		return ast.Bool()
	case "string":
		return ast.StringT()
	case "null":
		return ast.Null()
	case "void":
		return ast.Void()
	case "json":
		return ast.Json()
	case "Array":
		return ast.Array(resolveTypeArg(te, 0, typeParams))
	case "HashMap":
		return ast.HashMap(resolveTypeArg(te, 0, typeParams), resolveTypeArg(te, 1, typeParams))
	case "HashSet":
		return ast.HashSet(resolveTypeArg(te, 0, typeParams))
	case "Queue":
		return ast.Queue(resolveTypeArg(te, 0, typeParams))
	case "Stack":
		return ast.Stack(resolveTypeArg(te, 0, typeParams))
	case "Shared":
		return ast.Shared(resolveTypeArg(te, 0, typeParams))
	default:
		if typeParams[te.Name] {
			return ast.TypeParam(te.Name)
		}
		return ast.Named(te.Name)
	}
}

func resolveTypeArg(te *rawast.TypeExpr, i int, typeParams map[string]bool) *ast.Type {
	if i >= len(te.Args) {
		return ast.Named("unknown")
	}
	return resolveTypeExpr(te.Args[i], typeParams)
}

func typeParamSet(names []string) map[string]bool {
	if len(names) == 0 {
		return nil
	}
	set := make(map[string]bool, len(names))
	for _, n := range names {
		set[n] = true
	}
	return set
}

// Binder holds the mutable state of one binding pass.
type Binder struct {
	table    *symbols.Table
	bag      *diag.Bag
	loopDepth int
	funcDepth int
}

// New constructs a Binder with the prelude installed at depth 0 (§3.3).
func New(maxErrors int) *Binder {
	t := symbols.NewTable()
	t.InstallPrelude("print", "len", "str")
	return &Binder{table: t, bag: diag.NewBag(maxErrors)}
}

// Bind runs both passes over prog and returns the annotated skeleton, the
// populated symbol table, and any diagnostics. Per §4.1's contract,
// callers must not execute the result if diagnostics contains errors, but
// may still hand it to the type checker to surface additional errors.
func (b *Binder) Bind(prog *rawast.Program) (*ast.Program, *symbols.Table, []diag.Diagnostic) {
	out := &ast.Program{}
	out.Sp = prog.Sp

	b.hoistFunctions(prog.Items)

	for _, item := range prog.Items {
		out.Items = append(out.Items, b.bindItem(item))
	}
	return out, b.table, b.bag.All()
}

// hoistFunctions is the binder's first pass (§4.1): top-level function
// declarations are declared before any body is bound, so mutual
// recursion between top-level functions resolves correctly.
func (b *Binder) hoistFunctions(items []rawast.Node) {
	for _, item := range items {
		fd, ok := item.(*rawast.FuncDecl)
		if !ok {
			continue
		}
		b.declareFunction(fd)
	}
}

func (b *Binder) declareFunction(fd *rawast.FuncDecl) *symbols.Symbol {
	sym := &symbols.Symbol{Name: fd.Name, Kind: symbols.Function, Mutable: false, DefSpan: fd.Sp}
	if b.table.IsPrelude(fd.Name) && b.table.Depth() == 0 {
		b.bag.Add(diag.New(diag.CodeIllegalPreludeName, fd.Sp, "cannot shadow prelude name \""+fd.Name+"\""))
		return sym
	}
	if !b.table.Declare(sym) {
		b.bag.Add(diag.New(diag.CodeRedeclaration, fd.Sp, "\""+fd.Name+"\" is already declared in this scope"))
	}
	return sym
}

func (b *Binder) bindItem(item rawast.Node) ast.Node {
	switch n := item.(type) {
	case *rawast.FuncDecl:
		return b.bindFuncDecl(n, true)
	case *rawast.LetDecl:
		return b.bindLetDecl(n)
	case *rawast.ImportDecl:
		return b.bindImportDecl(n)
	default:
		return b.bindStmt(item)
	}
}

func (b *Binder) bindFuncDecl(fd *rawast.FuncDecl, hoisted bool) *ast.FuncDecl {
	var sym *symbols.Symbol
	if hoisted {
		sym, _ = b.table.Lookup(fd.Name)
	} else {
		sym = b.declareFunction(fd)
	}

	tparams := typeParamSet(fd.TypeParams)

	out := &ast.FuncDecl{
		Base:       astBase(fd.Sp),
		Name:       fd.Name,
		TypeParams: fd.TypeParams,
		Symbol:     sym,
		ReturnType: resolveTypeExpr(fd.ReturnType, tparams),
		ReturnOwn:  ownershipOf(fd.ReturnOwn),
	}

	b.table.Push()
	b.funcDepth++
	for _, p := range fd.Params {
		psym := &symbols.Symbol{Name: p.Name, Kind: symbols.Variable, Mutable: true, DefSpan: p.Sp}
		if !b.table.Declare(psym) {
			b.bag.Add(diag.New(diag.CodeRedeclaration, p.Sp, "parameter \""+p.Name+"\" is already declared"))
		}
		out.Params = append(out.Params, &ast.Param{
			Base:   astBase(p.Sp),
			Name:   p.Name,
			Type:   resolveTypeExpr(p.Type, tparams),
			Own:    ownershipOf(p.Own),
			Symbol: psym,
		})
	}
	out.Body = b.bindBlock(fd.Body)
	b.funcDepth--
	b.table.Pop()

	return out
}

func (b *Binder) bindLetDecl(ld *rawast.LetDecl) *ast.LetDecl {
	init := b.bindExpr(ld.Init)
	sym := &symbols.Symbol{Name: ld.Name, Kind: symbols.Variable, Mutable: ld.Mutable, DefSpan: ld.Sp}
	if !ld.Mutable {
		sym.Kind = symbols.Constant
	}
	if b.table.Depth() == 0 && b.table.IsPrelude(ld.Name) {
		b.bag.Add(diag.New(diag.CodeIllegalPreludeName, ld.Sp, "cannot shadow prelude name \""+ld.Name+"\""))
	} else if !b.table.Declare(sym) {
		b.bag.Add(diag.New(diag.CodeRedeclaration, ld.Sp, "\""+ld.Name+"\" is already declared in this scope"))
	}
	return &ast.LetDecl{Base: astBase(ld.Sp), Name: ld.Name, Mutable: ld.Mutable, Type: resolveTypeExpr(ld.TypeAnn, nil), Symbol: sym, Init: init}
}

func (b *Binder) bindImportDecl(id *rawast.ImportDecl) *ast.ImportDecl {
	out := &ast.ImportDecl{Base: astBase(id.Sp), Path: id.Path, Namespace: id.Namespace}
	if id.Namespace != "" {
		sym := &symbols.Symbol{Name: id.Namespace, Kind: symbols.Variable, Mutable: false, DefSpan: id.Sp}
		if !b.table.Declare(sym) {
			b.bag.Add(diag.New(diag.CodeRedeclaration, id.Sp, "\""+id.Namespace+"\" is already declared in this scope"))
		}
		out.NamespaceSymbol = sym
	}
	for _, spec := range id.Specs {
		name := spec.Alias
		if name == "" {
			name = spec.Name
		}
		sym := &symbols.Symbol{Name: name, Kind: symbols.Variable, Mutable: false, DefSpan: spec.Sp}
		if !b.table.Declare(sym) {
			b.bag.Add(diag.New(diag.CodeRedeclaration, spec.Sp, "\""+name+"\" is already declared in this scope"))
		}
		out.Specs = append(out.Specs, ast.ImportSpec{Name: spec.Name, Alias: spec.Alias, Symbol: sym})
	}
	return out
}

func (b *Binder) bindBlock(blk *rawast.BlockStmt) *ast.BlockStmt {
	b.table.Push()
	out := &ast.BlockStmt{Base: astBase(blk.Sp)}
	for _, s := range blk.Stmts {
		out.Stmts = append(out.Stmts, b.bindStmt(s))
	}
	b.table.Pop()
	return out
}

func (b *Binder) bindStmt(n rawast.Node) ast.Node {
	switch s := n.(type) {
	case *rawast.LetDecl:
		return b.bindLetDecl(s)
	case *rawast.BlockStmt:
		return b.bindBlock(s)
	case *rawast.ExprStmt:
		return &ast.ExprStmt{Base: astBase(s.Sp), Expr: b.bindExpr(s.Expr)}
	case *rawast.ReturnStmt:
		if b.funcDepth == 0 {
			b.bag.Add(diag.New(diag.CodeIllegalReturn, s.Sp, "return outside of a function"))
		}
		var val ast.Expr
		if s.Value != nil {
			val = b.bindExpr(s.Value)
		}
		return &ast.ReturnStmt{Base: astBase(s.Sp), Value: val}
	case *rawast.IfStmt:
		out := &ast.IfStmt{Base: astBase(s.Sp), Cond: b.bindExpr(s.Cond), Then: b.bindBlock(s.Then)}
		if s.Else != nil {
			out.Else = b.bindStmt(s.Else)
		}
		return out
	case *rawast.WhileStmt:
		b.loopDepth++
		out := &ast.WhileStmt{Base: astBase(s.Sp), Cond: b.bindExpr(s.Cond), Body: b.bindBlock(s.Body)}
		b.loopDepth--
		return out
	case *rawast.ForStmt:
		b.table.Push()
		out := &ast.ForStmt{Base: astBase(s.Sp)}
		if s.Init != nil {
			out.Init = b.bindStmt(s.Init)
		}
		if s.Cond != nil {
			out.Cond = b.bindExpr(s.Cond)
		}
		if s.Post != nil {
			out.Post = b.bindExpr(s.Post)
		}
		b.loopDepth++
		out.Body = b.bindBlock(s.Body)
		b.loopDepth--
		b.table.Pop()
		return out
	case *rawast.BreakStmt:
		if b.loopDepth == 0 {
			b.bag.Add(diag.New(diag.CodeIllegalBreakOrCont, s.Sp, "break outside of a loop"))
		}
		return &ast.BreakStmt{Base: astBase(s.Sp)}
	case *rawast.ContinueStmt:
		if b.loopDepth == 0 {
			b.bag.Add(diag.New(diag.CodeIllegalBreakOrCont, s.Sp, "continue outside of a loop"))
		}
		return &ast.ContinueStmt{Base: astBase(s.Sp)}
	case *rawast.FuncDecl:
		return b.bindFuncDecl(s, false)
	default:
		return &ast.ExprStmt{Base: astBase(n.Span())}
	}
}

func (b *Binder) bindExpr(n rawast.Node) ast.Expr {
	switch e := n.(type) {
	case *rawast.Identifier:
		sym, ok := b.table.Lookup(e.Name)
		if !ok {
			b.bag.Add(diag.New(diag.CodeUnknownSymbol, e.Sp, "unknown identifier \""+e.Name+"\""))
		}
		return &ast.Identifier{ExprBase: exprBase(e.Sp, nil), Name: e.Name, Symbol: sym}
	case *rawast.NumberLit:
		return &ast.NumberLit{ExprBase: exprBase(e.Sp, nil), Value: e.Value}
	case *rawast.StringLit:
		return &ast.StringLit{ExprBase: exprBase(e.Sp, nil), Value: e.Value}
	case *rawast.BoolLit:
		return &ast.BoolLit{ExprBase: exprBase(e.Sp, nil), Value: e.Value}
	case *rawast.NullLit:
		return &ast.NullLit{ExprBase: exprBase(e.Sp, nil)}
	case *rawast.ArrayLit:
		out := &ast.ArrayLit{ExprBase: exprBase(e.Sp, nil)}
		for _, el := range e.Elems {
			out.Elems = append(out.Elems, b.bindExpr(el))
		}
		return out
	case *rawast.BinaryOp:
		return &ast.BinaryOp{ExprBase: exprBase(e.Sp, nil), Op: e.Op, Left: b.bindExpr(e.Left), Right: b.bindExpr(e.Right)}
	case *rawast.UnaryOp:
		return &ast.UnaryOp{ExprBase: exprBase(e.Sp, nil), Op: e.Op, Operand: b.bindExpr(e.Operand)}
	case *rawast.Assign:
		target := b.bindExpr(e.Target)
		if id, ok := target.(*ast.Identifier); ok && id.Symbol != nil && !id.Symbol.Mutable {
			b.bag.Add(diag.New(diag.CodeInvalidAssignment, e.Sp, "cannot assign to immutable binding \""+id.Name+"\""))
		}
		return &ast.Assign{ExprBase: exprBase(e.Sp, nil), Op: e.Op, Target: target, Value: b.bindExpr(e.Value)}
	case *rawast.IncDec:
		target := b.bindExpr(e.Target)
		if id, ok := target.(*ast.Identifier); ok && id.Symbol != nil && !id.Symbol.Mutable {
			b.bag.Add(diag.New(diag.CodeInvalidAssignment, e.Sp, "cannot assign to immutable binding \""+id.Name+"\""))
		}
		return &ast.IncDec{ExprBase: exprBase(e.Sp, nil), Op: e.Op, Prefix: e.Prefix, Target: target}
	case *rawast.CallExpr:
		out := &ast.CallExpr{ExprBase: exprBase(e.Sp, nil), Callee: b.bindExpr(e.Callee)}
		for _, a := range e.Args {
			out.Args = append(out.Args, b.bindExpr(a))
		}
		return out
	case *rawast.MemberExpr:
		return &ast.MemberExpr{ExprBase: exprBase(e.Sp, nil), Receiver: b.bindExpr(e.Receiver), Name: e.Name}
	case *rawast.IndexExpr:
		return &ast.IndexExpr{ExprBase: exprBase(e.Sp, nil), Receiver: b.bindExpr(e.Receiver), Index: b.bindExpr(e.Index)}
	case *rawast.MatchExpr:
		out := &ast.MatchExpr{ExprBase: exprBase(e.Sp, nil), Subject: b.bindExpr(e.Subject)}
		for _, arm := range e.Arms {
			b.table.Push()
			pat := b.bindPattern(arm.Pattern)
			out.Arms = append(out.Arms, &ast.MatchArm{Pattern: pat, Expr: b.bindExpr(arm.Expr)})
			b.table.Pop()
		}
		return out
	default:
		return &ast.NullLit{ExprBase: exprBase(n.Span(), nil)}
	}
}

func (b *Binder) bindPattern(p rawast.Pattern) ast.Pattern {
	switch pp := p.(type) {
	case *rawast.LiteralPattern:
		return &ast.LiteralPattern{PatternBase: patBase(pp.Sp), Value: b.bindExpr(pp.Value)}
	case *rawast.WildcardPattern:
		return &ast.WildcardPattern{PatternBase: patBase(pp.Sp)}
	case *rawast.VariablePattern:
		sym := &symbols.Symbol{Name: pp.Name, Kind: symbols.Variable, Mutable: false, DefSpan: pp.Sp}
		b.table.Declare(sym)
		return &ast.VariablePattern{PatternBase: patBase(pp.Sp), Name: pp.Name, Symbol: sym}
	case *rawast.ConstructorPattern:
		out := &ast.ConstructorPattern{PatternBase: patBase(pp.Sp), Name: pp.Name}
		for _, f := range pp.Fields {
			out.Fields = append(out.Fields, b.bindPattern(f))
		}
		return out
	case *rawast.ArrayPattern:
		out := &ast.ArrayPattern{PatternBase: patBase(pp.Sp)}
		for _, el := range pp.Elems {
			out.Elems = append(out.Elems, b.bindPattern(el))
		}
		return out
	default:
		return &ast.WildcardPattern{PatternBase: patBase(p.Span())}
	}
}

func ownershipOf(o rawast.Ownership) ast.Ownership {
	switch o {
	case rawast.Own:
		return ast.Own
	case rawast.Borrow:
		return ast.Borrow
	case rawast.SharedOwnership:
		return ast.SharedOwnership
	default:
		return ast.Unannotated
	}
}
