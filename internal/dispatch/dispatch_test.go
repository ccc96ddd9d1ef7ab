package dispatch

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/atlas-lang/atlas/internal/ast"
	"github.com/atlas-lang/atlas/internal/diag"
	"github.com/atlas-lang/atlas/internal/security"
	"github.com/atlas-lang/atlas/internal/value"
)

type bufOutput struct{ strings.Builder }

func (b *bufOutput) WriteString(s string) (int, error) { return b.Builder.WriteString(s) }

func TestResolveMethodKnownPair(t *testing.T) {
	fn, mutates, ok := ResolveMethod(ast.TagArray, "push")
	require.True(t, ok)
	require.Equal(t, "array_push", fn)
	require.True(t, mutates)
}

func TestResolveMethodNonMutating(t *testing.T) {
	_, mutates, ok := ResolveMethod(ast.TagArray, "map")
	require.True(t, ok)
	require.False(t, mutates)
}

func TestResolveMethodUnknownPair(t *testing.T) {
	_, _, ok := ResolveMethod(ast.TagArray, "frobnicate")
	require.False(t, ok)
}

func TestUnknownMethodMessageIsStableWording(t *testing.T) {
	msg := UnknownMethodMessage(ast.TagString, "frobnicate")
	require.Equal(t, `no method "frobnicate" on type String`, msg)
}

func TestIsBuiltinAndCallAgreeOnPrint(t *testing.T) {
	require.True(t, IsBuiltin("print"))
	out := &bufOutput{}
	_, err := Call("print", []value.Value{value.Number(14)}, diag.Span{}, security.Unrestricted(), out)
	require.NoError(t, err)
	require.Equal(t, "14\n", out.String())
}

func TestCallUnknownBuiltin(t *testing.T) {
	out := &bufOutput{}
	_, err := Call("does_not_exist", nil, diag.Span{}, security.Unrestricted(), out)
	require.Error(t, err)
}

func TestArrayPushBuiltinMatchesMethodMutation(t *testing.T) {
	out := &bufOutput{}
	a := value.Array(value.Number(1))
	result, err := Call("array_push", []value.Value{a, value.Number(2)}, diag.Span{}, security.Unrestricted(), out)
	require.NoError(t, err)
	require.Equal(t, 2, result.ArrayLen())
}

func TestArrayGetOutOfBoundsProducesOutOfBounds(t *testing.T) {
	out := &bufOutput{}
	a := value.Array(value.Number(1))
	_, err := Call("array_get", []value.Value{a, value.Number(5)}, diag.Span{}, security.Unrestricted(), out)
	require.Error(t, err)
}

func TestArrayGetNonIntegerIndexProducesInvalidIndex(t *testing.T) {
	out := &bufOutput{}
	a := value.Array(value.Number(1))
	_, err := Call("array_get", []value.Value{a, value.Number(0.5)}, diag.Span{}, security.Unrestricted(), out)
	require.Error(t, err)
}

func TestLenRejectsUnsupportedType(t *testing.T) {
	out := &bufOutput{}
	_, err := Call("len", []value.Value{value.Bool(true)}, diag.Span{}, security.Unrestricted(), out)
	require.Error(t, err)
}

func TestHashMapSetGetRoundTrip(t *testing.T) {
	out := &bufOutput{}
	m := value.HashMap()
	m, err := Call("hashmap_set", []value.Value{m, value.String("a"), value.Number(1)}, diag.Span{}, security.Unrestricted(), out)
	require.NoError(t, err)
	got, err := Call("hashmap_get", []value.Value{m, value.String("a")}, diag.Span{}, security.Unrestricted(), out)
	require.NoError(t, err)
	require.Equal(t, float64(1), got.AsNumber())
}
