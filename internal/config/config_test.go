package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"ligature/internal/config"
	"ligature/internal/registry"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := config.Load(filepath.Join(t.TempDir(), "missing.toml"))
	require.NoError(t, err)
	require.Equal(t, config.Default(), cfg)
}

func TestLoadDecodesRegistryOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "ligature.toml")
	source := `
[compiler]
entry_point = "main.md"
print_blocks = false

[registry.functions.double]
params = ["a"]
outputs = ["result"]
multi = false
`
	require.NoError(t, os.WriteFile(path, []byte(source), 0o644))

	cfg, err := config.Load(path)
	require.NoError(t, err)
	require.Equal(t, "main.md", cfg.Compiler.EntryPoint)
	require.False(t, cfg.Compiler.PrintBlocks)

	reg := registry.New()
	cfg.ApplyRegistry(reg)

	info, ok := reg.Lookup("double")
	require.True(t, ok)
	require.Equal(t, []string{"a"}, info.Params)
	require.Equal(t, []string{"result"}, info.Outputs)
}
