package main

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigAppliesFlags(t *testing.T) {
	t.Chdir(t.TempDir())

	cmd := newRootCommand()
	require.NoError(t, cmd.Flags().Parse([]string{"--max-products", "40", "--output", "out", "--concurrency", "2"}))

	maxProducts, err := cmd.Flags().GetInt("max-products")
	require.NoError(t, err)
	concurrency, err := cmd.Flags().GetInt("concurrency")
	require.NoError(t, err)
	output, err := cmd.Flags().GetString("output")
	require.NoError(t, err)

	cfg, err := loadConfig(cmd.Flags(), options{maxProducts: maxProducts, outputDir: output, concurrency: concurrency})
	require.NoError(t, err)

	assert.Equal(t, 40, cfg.Harvest.MaxProducts)
	assert.Equal(t, 2, cfg.Harvest.Concurrency)
	assert.Equal(t, "out", cfg.Output.Dir)
	assert.Equal(t, filepath.Join("out", "assets"), cfg.Output.AssetsDir)
}

func TestLoadConfigKeepsDefaultsWithoutFlags(t *testing.T) {
	t.Chdir(t.TempDir())

	cmd := newRootCommand()
	require.NoError(t, cmd.Flags().Parse(nil))

	cfg, err := loadConfig(cmd.Flags(), options{})
	require.NoError(t, err)

	assert.Equal(t, 15, cfg.Harvest.MaxProducts)
	assert.Equal(t, 8, cfg.Harvest.Concurrency)
	assert.Equal(t, "./output", cfg.Output.Dir)
}

func TestLoadConfigMissingExplicitFile(t *testing.T) {
	cmd := newRootCommand()
	_, err := loadConfig(cmd.Flags(), options{configPath: filepath.Join(t.TempDir(), "absent.yaml")})
	assert.Error(t, err)
}
