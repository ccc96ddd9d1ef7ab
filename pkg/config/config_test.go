package config

import (
	"os"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"

	"github.com/atlas-lang/atlas/internal/testutil"
)

func TestLoadDefaultsWithoutConfigFile(t *testing.T) {
	sb, err := testutil.NewSandbox()
	require.NoError(t, err)
	defer sb.Cleanup()

	wd, err := os.Getwd()
	require.NoError(t, err)
	defer os.Chdir(wd)
	viper.Reset()

	require.NoError(t, os.Chdir(sb.Root))
	cfg, err := Load("")
	require.NoError(t, err)
	require.Equal(t, "interpreter", cfg.Engine.Default)
	require.Equal(t, 25, cfg.Engine.MaxDiagnostics)
}

func TestLoadOverridesFromFile(t *testing.T) {
	sb, err := testutil.NewSandbox()
	require.NoError(t, err)
	defer sb.Cleanup()

	data := []byte("engine:\n  default: vm\n  max_diagnostics: 5\n")
	require.NoError(t, sb.WriteFile("atlas.yaml", data, 0600))

	wd, err := os.Getwd()
	require.NoError(t, err)
	defer os.Chdir(wd)
	viper.Reset()

	require.NoError(t, os.Chdir(sb.Root))
	cfg, err := Load("")
	require.NoError(t, err)
	require.Equal(t, "vm", cfg.Engine.Default)
	require.Equal(t, 5, cfg.Engine.MaxDiagnostics)
}
