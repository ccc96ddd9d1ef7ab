package bytecode

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCatalogueStaysWithinOpcodeBudget(t *testing.T) {
	cat := Catalogue()
	require.LessOrEqual(t, len(cat), MaxOpcodes)
}

func TestCatalogueHasNoNameCollisions(t *testing.T) {
	seen := make(map[string]bool)
	for _, e := range Catalogue() {
		require.False(t, seen[e.Name], "duplicate opcode name %q", e.Name)
		seen[e.Name] = true
	}
}

func TestCatalogueHasNoOpcodeCollisions(t *testing.T) {
	seen := make(map[Op]bool)
	for _, e := range Catalogue() {
		require.False(t, seen[e.Op], "duplicate opcode value %v", e.Op)
		seen[e.Op] = true
	}
}

func TestOpStringUnknown(t *testing.T) {
	require.Equal(t, "Unknown", Op(250).String())
}
