package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0644))
}

func TestLoadFromDirDefaults(t *testing.T) {
	cfg, info, err := LoadFromDir(t.TempDir())
	require.NoError(t, err)

	assert.False(t, info.FromFile)
	assert.False(t, info.PortSpecified)
	assert.Equal(t, DefaultConfig(), cfg)
	assert.Equal(t, 28, cfg.ReportSettings().StaleDays)
}

func TestLoadFromDirToml(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, FileName, `
[server]
port = 9000

[data]
dataset_path = "mpox.xlsx"
sheet = "Data"
watch = false

[report]
stale_days = 14
`)

	cfg, info, err := LoadFromDir(dir)
	require.NoError(t, err)

	assert.True(t, info.FromFile)
	assert.True(t, info.PortSpecified)
	assert.Equal(t, 9000, cfg.Server.Port)
	assert.Equal(t, "mpox.xlsx", cfg.Data.DatasetPath)
	assert.Equal(t, "Data", cfg.Data.Sheet)
	assert.False(t, cfg.Data.Watch)
	assert.Equal(t, "data", cfg.Data.DataDir, "unspecified keys keep defaults")

	s := cfg.ReportSettings()
	assert.Equal(t, 14, s.StaleDays)
	assert.Equal(t, 6, s.AnomalyMinWeeks)
}

func TestLoadFromDirEnvOverrides(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, FileName, "[log]\nlevel = \"warn\"\n")
	writeFile(t, dir, ".env", "MPOXDASH_SHEET=FromDotEnv\nMPOXDASH_LOG_LEVEL=error\n")
	t.Cleanup(func() { os.Unsetenv("MPOXDASH_SHEET") })
	t.Setenv("MPOXDASH_LOG_LEVEL", "debug")
	t.Setenv("MPOXDASH_PORT", "8088")
	t.Setenv("MPOXDASH_WATCH", "false")

	cfg, info, err := LoadFromDir(dir)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Log.Level, "process env wins over .env and file")
	assert.Equal(t, "FromDotEnv", cfg.Data.Sheet)
	assert.Equal(t, 8088, cfg.Server.Port)
	assert.False(t, cfg.Data.Watch)
	assert.True(t, info.PortSpecified)
	assert.Contains(t, info.EnvOverrides, "MPOXDASH_PORT")
}

func TestLoadFromDirRejectsBadValues(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("MPOXDASH_STALE_DAYS", "soon")
	_, _, err := LoadFromDir(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "MPOXDASH_STALE_DAYS")

	t.Setenv("MPOXDASH_STALE_DAYS", "")
	writeFile(t, dir, FileName, "[server\nport = ")
	_, _, err = LoadFromDir(dir)
	require.Error(t, err)
}

func TestSaveConfigRoundTrip(t *testing.T) {
	dir := t.TempDir()
	cfg := DefaultConfig()
	cfg.Data.DatasetPath = "/srv/mpox.csv"
	cfg.Report.TopN = 5

	path, err := SaveConfig(dir, cfg)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, FileName), path)

	loaded, _, err := LoadFromDir(dir)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestResolvePath(t *testing.T) {
	assert.Equal(t, "", ResolvePath(""))
	abs := filepath.Join(t.TempDir(), "x")
	assert.Equal(t, abs, ResolvePath(abs))
	assert.True(t, filepath.IsAbs(ResolvePath("data")) || filepath.Base(ResolvePath("data")) == "data")
}
