package symbols

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestInstallPreludeLocksDepthZero(t *testing.T) {
	tbl := NewTable()
	tbl.InstallPrelude("print", "len", "str")

	sym, ok := tbl.Lookup("print")
	require.True(t, ok)
	require.Equal(t, Builtin, sym.Kind)
	require.Equal(t, 0, sym.ScopeDepth)
	require.True(t, tbl.IsPrelude("print"))
	require.False(t, tbl.IsPrelude("x"))
}

func TestDeclareAndLookupInnermostWins(t *testing.T) {
	tbl := NewTable()
	tbl.Push()
	require.True(t, tbl.Declare(&Symbol{Name: "x", Kind: Variable, Mutable: true}))

	tbl.Push()
	require.True(t, tbl.Declare(&Symbol{Name: "x", Kind: Variable, Mutable: false}))

	sym, ok := tbl.Lookup("x")
	require.True(t, ok)
	require.False(t, sym.Mutable)
	require.Equal(t, 2, sym.ScopeDepth)

	tbl.Pop()
	sym, ok = tbl.Lookup("x")
	require.True(t, ok)
	require.True(t, sym.Mutable)
	require.Equal(t, 1, sym.ScopeDepth)
}

func TestDeclareRejectsSameScopeRedeclaration(t *testing.T) {
	tbl := NewTable()
	tbl.Push()
	require.True(t, tbl.Declare(&Symbol{Name: "x", Kind: Variable}))
	require.False(t, tbl.Declare(&Symbol{Name: "x", Kind: Variable}))
}

func TestLookupLocalDoesNotSeeOuterScopes(t *testing.T) {
	tbl := NewTable()
	tbl.Push()
	require.True(t, tbl.Declare(&Symbol{Name: "x", Kind: Variable}))
	tbl.Push()

	_, ok := tbl.LookupLocal("x")
	require.False(t, ok)

	_, ok = tbl.Lookup("x")
	require.True(t, ok)
}

func TestLookupUnboundNameFails(t *testing.T) {
	tbl := NewTable()
	_, ok := tbl.Lookup("nonexistent")
	require.False(t, ok)
}

func TestPopPrivilegesPreludeScope(t *testing.T) {
	tbl := NewTable()
	require.Panics(t, func() { tbl.Pop() })
}

func TestDeclareSetsScopeDepth(t *testing.T) {
	tbl := NewTable()
	tbl.Push()
	tbl.Push()
	tbl.Push()
	sym := &Symbol{Name: "x", Kind: Constant}
	require.True(t, tbl.Declare(sym))
	require.Equal(t, 3, sym.ScopeDepth)
	require.Equal(t, 3, tbl.Depth())
}
