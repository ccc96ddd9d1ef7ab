// Package rawast defines the untyped tree the external lexer/parser is
// expected to hand the core (§1, "explicitly out of scope"). It stands in
// for that collaborator's output: every node carries a source span but no
// symbol, type, or ownership information yet. The binder (internal/binder)
// consumes this tree and produces internal/ast's annotated form.
package rawast

import "github.com/atlas-lang/atlas/internal/diag"

// Node is implemented by every raw AST node.
type Node interface {
	Span() diag.Span
}

// Ownership is the surface-syntax ownership keyword on a parameter or
// return slot, before the type checker validates its usage (§4.2, §9.1).
type Ownership int

const (
	Unannotated Ownership = iota
	Own
	Borrow
	SharedOwnership
)

func (o Ownership) String() string {
	switch o {
	case Own:
		return "own"
	case Borrow:
		return "borrow"
	case SharedOwnership:
		return "shared"
	default:
		return "unannotated"
	}
}

// Program is the root node: a sequence of top-level items.
type Program struct {
	Items []Node
	Sp    diag.Span
}

func (p *Program) Span() diag.Span { return p.Sp }

// ---- Declarations ----

// LetDecl binds an immutable (Let) or mutable (Var) name to an initializer.
type LetDecl struct {
	Name    string
	Mutable bool
	TypeAnn *TypeExpr // nil when inferred
	Init    Node
	Sp      diag.Span
}

func (d *LetDecl) Span() diag.Span { return d.Sp }

// Param is a function parameter: name, required type annotation, and
// optional ownership keyword.
type Param struct {
	Name    string
	Type    *TypeExpr
	Own     Ownership
	Sp      diag.Span
}

func (p *Param) Span() diag.Span { return p.Sp }

// FuncDecl is a named function declaration. TypeParams is non-empty for
// generic functions (§9.1 "Generics via monomorphization").
type FuncDecl struct {
	Name       string
	TypeParams []string
	Params     []*Param
	ReturnType *TypeExpr // nil means declared void
	ReturnOwn  Ownership
	Body       *BlockStmt
	Sp         diag.Span
}

func (d *FuncDecl) Span() diag.Span { return d.Sp }

// ImportSpec is one named import (Alias empty means bind as Name). A
// namespace-as import is expressed by ImportDecl.Namespace instead.
type ImportSpec struct {
	Name  string
	Alias string
	Sp    diag.Span
}

func (i *ImportSpec) Span() diag.Span { return i.Sp }

// ImportDecl resolves a module path to a set of bindings (§4.7).
type ImportDecl struct {
	Path      string
	Specs     []*ImportSpec
	Namespace string // non-empty for `import * as ns from "path"`
	Sp        diag.Span
}

func (d *ImportDecl) Span() diag.Span { return d.Sp }

// ---- Types ----

// TypeExpr is a surface type annotation: a name plus optional generic
// arguments (e.g. `Array<number>`).
type TypeExpr struct {
	Name string
	Args []*TypeExpr
	Sp   diag.Span
}

func (t *TypeExpr) Span() diag.Span { return t.Sp }

// ---- Statements ----

type BlockStmt struct {
	Stmts []Node
	Sp    diag.Span
}

func (s *BlockStmt) Span() diag.Span { return s.Sp }

type ExprStmt struct {
	Expr Node
	Sp   diag.Span
}

func (s *ExprStmt) Span() diag.Span { return s.Sp }

type ReturnStmt struct {
	Value Node // nil for bare `return;`
	Sp    diag.Span
}

func (s *ReturnStmt) Span() diag.Span { return s.Sp }

type IfStmt struct {
	Cond Node
	Then *BlockStmt
	Else Node // *BlockStmt or *IfStmt, nil if absent
	Sp   diag.Span
}

func (s *IfStmt) Span() diag.Span { return s.Sp }

type WhileStmt struct {
	Cond Node
	Body *BlockStmt
	Sp   diag.Span
}

func (s *WhileStmt) Span() diag.Span { return s.Sp }

// ForStmt is the C-style `for (init; cond; post) body` form used by §8.3
// scenario 4.
type ForStmt struct {
	Init Node // *LetDecl or *ExprStmt, nil if absent
	Cond Node // nil means always-true
	Post Node // expression node, nil if absent
	Body *BlockStmt
	Sp   diag.Span
}

func (s *ForStmt) Span() diag.Span { return s.Sp }

type BreakStmt struct{ Sp diag.Span }

func (s *BreakStmt) Span() diag.Span { return s.Sp }

type ContinueStmt struct{ Sp diag.Span }

func (s *ContinueStmt) Span() diag.Span { return s.Sp }

// ---- Expressions ----

type Identifier struct {
	Name string
	Sp   diag.Span
}

func (e *Identifier) Span() diag.Span { return e.Sp }

type NumberLit struct {
	Value float64
	Sp    diag.Span
}

func (e *NumberLit) Span() diag.Span { return e.Sp }

type StringLit struct {
	Value string
	Sp    diag.Span
}

func (e *StringLit) Span() diag.Span { return e.Sp }

type BoolLit struct {
	Value bool
	Sp    diag.Span
}

func (e *BoolLit) Span() diag.Span { return e.Sp }

type NullLit struct{ Sp diag.Span }

func (e *NullLit) Span() diag.Span { return e.Sp }

type ArrayLit struct {
	Elems []Node
	Sp    diag.Span
}

func (e *ArrayLit) Span() diag.Span { return e.Sp }

// BinaryOp covers arithmetic, comparison, equality, and logical operators
// (§4.2). Op is the literal source operator ("+", "==", "&&", ...).
type BinaryOp struct {
	Op    string
	Left  Node
	Right Node
	Sp    diag.Span
}

func (e *BinaryOp) Span() diag.Span { return e.Sp }

type UnaryOp struct {
	Op      string // "-" or "!"
	Operand Node
	Sp      diag.Span
}

func (e *UnaryOp) Span() diag.Span { return e.Sp }

// Assign covers plain `a = v`, compound `a += v`, and index assignment
// `a[i] = v` (Target is an *IndexExpr in that case) per §4.3's edge cases.
type Assign struct {
	Op     string // "=", "+=", "-=", "*=", "/=", "%="
	Target Node
	Value  Node
	Sp     diag.Span
}

func (e *Assign) Span() diag.Span { return e.Sp }

// IncDec covers pre/post increment and decrement (`++x`, `x--`).
type IncDec struct {
	Op     string // "++" or "--"
	Prefix bool
	Target Node
	Sp     diag.Span
}

func (e *IncDec) Span() diag.Span { return e.Sp }

type CallExpr struct {
	Callee Node
	Args   []Node
	// TypeArgs holds explicit generic instantiation arguments, e.g.
	// `identity<number>(1)`; empty when omitted and left to inference.
	TypeArgs []*TypeExpr
	Sp       diag.Span
}

func (e *CallExpr) Span() diag.Span { return e.Sp }

// MemberExpr is `receiver.name`; may resolve to a field or, when followed
// by a call, a method (§3.2, §4.8).
type MemberExpr struct {
	Receiver Node
	Name     string
	Sp       diag.Span
}

func (e *MemberExpr) Span() diag.Span { return e.Sp }

type IndexExpr struct {
	Receiver Node
	Index    Node
	Sp       diag.Span
}

func (e *IndexExpr) Span() diag.Span { return e.Sp }

// MatchArm is one `pattern => expr` arm of a MatchExpr (§9.1).
type MatchArm struct {
	Pattern Pattern
	Expr    Node
	Sp      diag.Span
}

type MatchExpr struct {
	Subject Node
	Arms    []*MatchArm
	Sp      diag.Span
}

func (e *MatchExpr) Span() diag.Span { return e.Sp }

// Pattern is a closed sum of the four pattern kinds named in §9.1.
type Pattern interface {
	Node
	patternNode()
}

type LiteralPattern struct {
	Value Node // *NumberLit, *StringLit, *BoolLit, or *NullLit
	Sp    diag.Span
}

func (p *LiteralPattern) Span() diag.Span { return p.Sp }
func (*LiteralPattern) patternNode()       {}

type WildcardPattern struct{ Sp diag.Span }

func (p *WildcardPattern) Span() diag.Span { return p.Sp }
func (*WildcardPattern) patternNode()       {}

type VariablePattern struct {
	Name string
	Sp   diag.Span
}

func (p *VariablePattern) Span() diag.Span { return p.Sp }
func (*VariablePattern) patternNode()       {}

// ConstructorPattern matches a named variant with sub-patterns, e.g. for a
// tagged aggregate or future enum extension.
type ConstructorPattern struct {
	Name   string
	Fields []Pattern
	Sp     diag.Span
}

func (p *ConstructorPattern) Span() diag.Span { return p.Sp }
func (*ConstructorPattern) patternNode()       {}

type ArrayPattern struct {
	Elems []Pattern
	Sp    diag.Span
}

func (p *ArrayPattern) Span() diag.Span { return p.Sp }
func (*ArrayPattern) patternNode()       {}
