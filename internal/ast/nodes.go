package ast

import (
	"github.com/atlas-lang/atlas/internal/diag"
	"github.com/atlas-lang/atlas/internal/symbols"
)

// Node is implemented by every annotated AST node. Every node carries a
// span; embed Base to get Span() for free (mirrors the teacher pack's
// ast.Node Base-struct pattern seen in the retrieved pulumi-style AST).
type Node interface {
	Span() diag.Span
}

type Base struct {
	Sp diag.Span
}

func (b Base) Span() diag.Span { return b.Sp }

// NewBase constructs a Base carrying sp, for callers (the binder) that
// build annotated nodes outside this package.
func NewBase(sp diag.Span) Base { return Base{Sp: sp} }

// Expr is implemented by every annotated expression node; every expression
// carries a resolved Type once the type checker has run (§4.2).
type Expr interface {
	Node
	ResolvedType() *Type
	exprNode()
}

type ExprBase struct {
	Base
	Type *Type
}

func (e ExprBase) ResolvedType() *Type { return e.Type }
func (ExprBase) exprNode()             {}

// NewExprBase constructs an ExprBase carrying sp and an as-yet-unresolved
// (possibly nil) type, for callers outside this package.
func NewExprBase(sp diag.Span, t *Type) ExprBase { return ExprBase{Base: Base{Sp: sp}, Type: t} }

// SetType is used by internal/types to fill in the resolved type once
// checking assigns one.
func (e *ExprBase) SetType(t *Type) { e.Type = t }

// Program is the root of the annotated tree.
type Program struct {
	Base
	Items []Node
}

// ---- Declarations ----

type LetDecl struct {
	Base
	Name    string
	Mutable bool
	Symbol  *symbols.Symbol
	Type    *Type
	Init    Expr
}

type Param struct {
	Base
	Name   string
	Type   *Type
	Own    Ownership
	Symbol *symbols.Symbol
}

type FuncDecl struct {
	Base
	Name       string
	TypeParams []string
	Params     []*Param
	ReturnType *Type
	ReturnOwn  Ownership
	Body       *BlockStmt
	Symbol     *symbols.Symbol

	// BytecodeOffset is assigned by internal/compiler before the VM runs
	// (§3.2 invariant: "every reachable function declaration has a
	// bytecode offset assigned by the compiler before the VM runs").
	BytecodeOffset int
	LocalCount     int

	// Instantiations holds one entry per unique type-argument tuple the
	// type checker observed at a call site, for a generic declaration
	// (len(TypeParams) > 0). The compiler emits one specialization per
	// entry (§4.2 "Generics via monomorphization").
	Instantiations []*Instantiation
}

// Instantiation records one monomorphized specialization of a generic
// function: the concrete type arguments substituted for TypeParams, and
// the bytecode offset the compiler emitted for that specialization.
type Instantiation struct {
	TypeArgs       []*Type
	BytecodeOffset int
}

type ImportDecl struct {
	Base
	Path            string
	Specs           []ImportSpec
	Namespace       string
	NamespaceSymbol *symbols.Symbol // non-nil iff Namespace != ""
}

type ImportSpec struct {
	Name   string
	Alias  string
	Symbol *symbols.Symbol
}

// ---- Statements ----

type BlockStmt struct {
	Base
	Stmts []Node
}

type ExprStmt struct {
	Base
	Expr Expr
}

type ReturnStmt struct {
	Base
	Value Expr // nil for bare return
}

type IfStmt struct {
	Base
	Cond Expr
	Then *BlockStmt
	Else Node // *BlockStmt, *IfStmt, or nil
}

type WhileStmt struct {
	Base
	Cond Expr
	Body *BlockStmt
}

type ForStmt struct {
	Base
	Init Node // *LetDecl, *ExprStmt, or nil
	Cond Expr // nil means always-true
	Post Expr // nil if absent
	Body *BlockStmt
}

type BreakStmt struct{ Base }
type ContinueStmt struct{ Base }

// ---- Expressions ----

type Identifier struct {
	ExprBase
	Name   string
	Symbol *symbols.Symbol
}

type NumberLit struct {
	ExprBase
	Value float64
}

type StringLit struct {
	ExprBase
	Value string
}

type BoolLit struct {
	ExprBase
	Value bool
}

type NullLit struct{ ExprBase }

type ArrayLit struct {
	ExprBase
	Elems []Expr
}

type BinaryOp struct {
	ExprBase
	Op    string
	Left  Expr
	Right Expr
}

type UnaryOp struct {
	ExprBase
	Op      string
	Operand Expr
}

type Assign struct {
	ExprBase
	Op     string
	Target Expr
	Value  Expr
}

type IncDec struct {
	ExprBase
	Op     string
	Prefix bool
	Target Expr
}

type CallExpr struct {
	ExprBase
	Callee Expr
	Args   []Expr
	// TypeArgs is the resolved (explicit or inferred) generic
	// instantiation used to pick an Instantiation on the callee's
	// FuncDecl. Empty for non-generic calls.
	TypeArgs []*Type
}

// MemberExpr resolves to a field or, when it is the callee of a CallExpr,
// a method. Tag is TagNone until the type checker resolves it; every
// MemberExpr that survives type-checking has a non-TagNone Tag (§3.2
// invariant) when it denotes a method reference.
type MemberExpr struct {
	ExprBase
	Receiver Expr
	Name     string
	Tag      TypeTag
}

type IndexExpr struct {
	ExprBase
	Receiver Expr
	Index    Expr
}

type MatchArm struct {
	Pattern Pattern
	Expr    Expr
}

type MatchExpr struct {
	ExprBase
	Subject Expr
	Arms    []*MatchArm
}

// Pattern is the closed sum of match-arm pattern kinds (§9.1).
type Pattern interface {
	Node
	patternNode()
}

type PatternBase struct{ Base }

func (PatternBase) patternNode() {}

// NewPatternBase constructs a PatternBase carrying sp, for callers (the
// binder) that build pattern nodes outside this package.
func NewPatternBase(sp diag.Span) PatternBase { return PatternBase{Base: Base{Sp: sp}} }

type LiteralPattern struct {
	PatternBase
	Value Expr
}

type WildcardPattern struct{ PatternBase }

type VariablePattern struct {
	PatternBase
	Name   string
	Symbol *symbols.Symbol
}

type ConstructorPattern struct {
	PatternBase
	Name   string
	Fields []Pattern
}

type ArrayPattern struct {
	PatternBase
	Elems []Pattern
}
