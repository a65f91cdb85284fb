package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoad_DefaultsWhenNothingPresent(t *testing.T) {
	dir := t.TempDir()

	cfg, sources, err := Load(dir, "", Overrides{}, nil)
	require.NoError(t, err)
	require.Equal(t, ".", cfg.DataDir)
	require.Empty(t, sources.Global)
	require.Empty(t, sources.Project)
}

func TestLoad_ProjectConfigOverridesDefault(t *testing.T) {
	dir := t.TempDir()

	writeFile(t, filepath.Join(dir, FileName), `{
		// project-local override
		"data_dir": "./data",
		"compaction_threshold": 2048,
	}`)

	cfg, sources, err := Load(dir, "", Overrides{}, nil)
	require.NoError(t, err)
	require.Equal(t, "./data", cfg.DataDir)
	require.Equal(t, int64(2048), cfg.CompactionThreshold)
	require.Equal(t, filepath.Join(dir, FileName), sources.Project)
}

func TestLoad_CLIOverrideWinsOverFile(t *testing.T) {
	dir := t.TempDir()

	writeFile(t, filepath.Join(dir, FileName), `{"data_dir": "./data"}`)

	cfg, _, err := Load(dir, "", Overrides{DataDir: "./override", HasDataDir: true}, nil)
	require.NoError(t, err)
	require.Equal(t, "./override", cfg.DataDir)
}

func TestLoad_ExplicitConfigPathMustExist(t *testing.T) {
	dir := t.TempDir()

	_, _, err := Load(dir, "missing.json", Overrides{}, nil)
	require.ErrorIs(t, err, errFileNotFound)
}

func TestLoad_ExplicitlyEmptyDataDirIsError(t *testing.T) {
	dir := t.TempDir()

	writeFile(t, filepath.Join(dir, FileName), `{"data_dir": ""}`)

	_, _, err := Load(dir, "", Overrides{}, nil)
	require.ErrorIs(t, err, ErrDataDirEmpty)
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()

	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}
