package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crucible-dev/crucible/packages/core/harness"
)

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, "fsx", cfg.FSType)
	assert.Equal(t, DefaultConcurrency, cfg.Concurrency)
	assert.Equal(t, "all", cfg.ModeFilter)
	assert.Equal(t, "console", cfg.Output)
	assert.False(t, cfg.GetParallel())
	assert.False(t, cfg.GetAllowFatal())
	assert.False(t, cfg.GetVerbose())
	assert.False(t, cfg.GetQuiet())
	assert.False(t, cfg.GetNoColor())

	// The file-config default and the scheduler agree on the bound.
	assert.Equal(t, harness.DefaultConcurrency, DefaultConcurrency)
}

func TestLoadConfig_JSON(t *testing.T) {
	path := writeConfig(t, "crucible.config.json", `{
		"fsType": "memblob",
		"reposDir": "/tmp/repos",
		"parallel": true,
		"concurrency": 8,
		"modeFilter": "pass",
		"historyDb": "runs.db"
	}`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "memblob", cfg.FSType)
	assert.Equal(t, "/tmp/repos", cfg.ReposDir)
	assert.True(t, cfg.GetParallel())
	assert.Equal(t, 8, cfg.Concurrency)
	assert.Equal(t, "pass", cfg.ModeFilter)
	assert.Equal(t, "runs.db", cfg.HistoryDB)
	// Unset fields keep their defaults.
	assert.Equal(t, "console", cfg.Output)
}

func TestLoadConfig_YAML(t *testing.T) {
	path := writeConfig(t, ".crucible.yaml", `
fsType: memblob
srcDir: /src/tests
pace: 25.5
verbose: true
output: tap
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "memblob", cfg.FSType)
	assert.Equal(t, "/src/tests", cfg.SrcDir)
	assert.Equal(t, 25.5, cfg.Pace)
	assert.True(t, cfg.GetVerbose())
	assert.Equal(t, "tap", cfg.Output)
}

func TestLoadConfig_InvalidJSON(t *testing.T) {
	path := writeConfig(t, "crucible.config.json", `{not json`)
	_, err := LoadConfig(path)
	assert.Error(t, err)
}

func TestFindAndLoadConfig_NoFileReturnsDefaults(t *testing.T) {
	cfg, err := FindAndLoadConfig(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestFindAndLoadConfig_SearchOrder(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(
		filepath.Join(dir, ".crucible.yaml"), []byte("fsType: yamlwins\n"), 0o644))
	require.NoError(t, os.WriteFile(
		filepath.Join(dir, ".crucible.config.json"), []byte(`{"fsType": "jsonwins"}`), 0o644))

	cfg, err := FindAndLoadConfig(dir)
	require.NoError(t, err)
	assert.Equal(t, "jsonwins", cfg.FSType, "JSON name is earlier in the lookup order")
}

func TestMerge(t *testing.T) {
	base := DefaultConfig()
	merged := base.Merge(&Config{
		FSType:      "memblob",
		Concurrency: 12,
		Parallel:    BoolPtr(true),
		AllowFatal:  BoolPtr(true),
		Quiet:       BoolPtr(true),
		Output:      "json",
	})

	assert.Equal(t, "memblob", merged.FSType)
	assert.Equal(t, 12, merged.Concurrency)
	assert.True(t, merged.GetParallel())
	assert.True(t, merged.GetAllowFatal())
	assert.True(t, merged.GetQuiet())
	assert.Equal(t, "json", merged.Output)
	// Untouched fields survive.
	assert.Equal(t, "all", merged.ModeFilter)

	// Base is not mutated.
	assert.Equal(t, "fsx", base.FSType)

	assert.Same(t, base, base.Merge(nil))
}
