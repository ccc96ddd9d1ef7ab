// Package symbols implements the symbol table of §3.3: a stack of scope
// maps with innermost-wins lookup, prelude names locked at depth 0, and
// same-scope redeclaration tracked so the binder can report AT2003.
package symbols

import "github.com/atlas-lang/atlas/internal/diag"

// Kind is the closed set of symbol kinds named in §3.3.
type Kind int

const (
	Variable Kind = iota
	Function
	Builtin
	Constant
)

func (k Kind) String() string {
	switch k {
	case Variable:
		return "variable"
	case Function:
		return "function"
	case Builtin:
		return "builtin"
	case Constant:
		return "constant"
	default:
		return "unknown"
	}
}

// Symbol binds a name to its kind, mutability, definition span, and the
// scope depth it was declared at. It carries no type; internal/types keeps
// each symbol's type in its own table keyed by *Symbol.
type Symbol struct {
	Name       string
	Kind       Kind
	Mutable    bool
	DefSpan    diag.Span
	ScopeDepth int
}

// scope is one frame of the symbol-table stack: a flat name -> Symbol map.
type scope struct {
	names map[string]*Symbol
}

func newScope() *scope {
	return &scope{names: make(map[string]*Symbol)}
}

// Table is the symbol table: a stack of scopes. Depth 0 is the prelude
// scope and is installed once by NewTable; it is never popped.
type Table struct {
	scopes  []*scope
	prelude map[string]bool
}

// NewTable creates a table with only the depth-0 prelude scope pushed.
func NewTable() *Table {
	t := &Table{scopes: []*scope{newScope()}, prelude: make(map[string]bool)}
	return t
}

// InstallPrelude binds the given names at depth 0 and marks them as
// prelude names, reported by IsPrelude. Declare itself does not reject a
// prelude name (AT1012 is raised by the binder for top-level
// declarations, not here; this method only exposes the fact).
func (t *Table) InstallPrelude(names ...string) {
	for _, name := range names {
		t.scopes[0].names[name] = &Symbol{Name: name, Kind: Builtin, Mutable: false, ScopeDepth: 0}
		t.prelude[name] = true
	}
}

// IsPrelude reports whether name was installed by InstallPrelude.
func (t *Table) IsPrelude(name string) bool { return t.prelude[name] }

// Depth returns the current scope depth (0 is the prelude scope).
func (t *Table) Depth() int { return len(t.scopes) - 1 }

// Push enters a new, empty scope.
func (t *Table) Push() { t.scopes = append(t.scopes, newScope()) }

// Pop leaves the innermost scope. Popping depth 0 panics: the caller owns
// balancing Push/Pop, and an unbalanced pop is a binder bug, not a user
// error.
func (t *Table) Pop() {
	if len(t.scopes) <= 1 {
		panic("symbols: Pop called with no scope above the prelude")
	}
	t.scopes = t.scopes[:len(t.scopes)-1]
}

// Declare binds name in the current (innermost) scope. It returns false,
// without mutating the table, if name is already declared in that same
// scope (the caller reports AT2003) or if the current scope is depth 0 and
// name collides with an existing prelude binding (the caller reports
// AT1012).
func (t *Table) Declare(sym *Symbol) bool {
	cur := t.scopes[len(t.scopes)-1]
	if _, exists := cur.names[sym.Name]; exists {
		return false
	}
	sym.ScopeDepth = len(t.scopes) - 1
	cur.names[sym.Name] = sym
	return true
}

// Lookup searches from the innermost scope outward and returns the first
// match, or (nil, false) if name is unbound anywhere.
func (t *Table) Lookup(name string) (*Symbol, bool) {
	for i := len(t.scopes) - 1; i >= 0; i-- {
		if sym, ok := t.scopes[i].names[name]; ok {
			return sym, true
		}
	}
	return nil, false
}

// LookupLocal searches only the innermost scope.
func (t *Table) LookupLocal(name string) (*Symbol, bool) {
	sym, ok := t.scopes[len(t.scopes)-1].names[name]
	return sym, ok
}
