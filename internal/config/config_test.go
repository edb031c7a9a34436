package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"dgb/datatable"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())

	opts := cfg.GridOptions()
	assert.True(t, opts.ShowHeader)
	assert.Equal(t, "No data", opts.EmptyText)
	assert.Equal(t, 60*time.Second, cfg.APITimeout())
}

func TestLoadMissingFileGivesDefaults(t *testing.T) {
	t.Setenv(EnvConfig, "")
	t.Setenv(EnvLogLevel, "")
	t.Setenv(EnvAPITimeout, "")

	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoadYAML(t *testing.T) {
	t.Setenv(EnvLogLevel, "")
	t.Setenv(EnvAPITimeout, "")

	dir := t.TempDir()
	writeFile(t, dir, "upper.go", "package cell\n\nimport \"strings\"\n\nfunc Render(v interface{}) string { s, _ := v.(string); return strings.ToUpper(s) }\n")
	path := writeFile(t, dir, "dgb.yaml", `
grid:
  transpose: true
  empty_text: nothing here
  bordered: true
columns:
  - accessor: name
    title: Name
    script_file: upper.go
  - accessor: age
api_timeout_seconds: 5
log_level: debug
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	opts := cfg.GridOptions()
	assert.True(t, opts.ShowHeader, "unset keys keep their defaults")
	assert.True(t, opts.Transpose)
	assert.True(t, opts.Bordered)
	assert.Equal(t, "nothing here", opts.EmptyText)
	assert.Equal(t, 5*time.Second, cfg.APITimeout())
	assert.Equal(t, filepath.Join(dir, "upper.go"), cfg.Columns[0].ScriptFile)

	cols, err := cfg.GridColumns(zaptest.NewLogger(t))
	require.NoError(t, err)
	require.Len(t, cols, 2)
	assert.Equal(t, "Name", cols[0].Header())
	assert.Equal(t, "ADA", cols[0].Display("ada"))
	assert.Nil(t, cols[1].Render)
}

func TestLoadFromEnv(t *testing.T) {
	path := writeFile(t, t.TempDir(), "dgb.yaml", "log_level: warn\n")
	t.Setenv(EnvConfig, path)
	t.Setenv(EnvLogLevel, "error")
	t.Setenv(EnvAPITimeout, "7")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "error", cfg.LogLevel)
	assert.Equal(t, 7, cfg.APITimeoutSeconds)

	t.Setenv(EnvAPITimeout, "soon")
	_, err = Load("")
	assert.Error(t, err)
}

func TestLoadInvalid(t *testing.T) {
	t.Setenv(EnvLogLevel, "")
	t.Setenv(EnvAPITimeout, "")
	dir := t.TempDir()

	_, err := Load(writeFile(t, dir, "bad.yaml", "grid: [1, 2"))
	assert.Error(t, err)

	_, err = Load(writeFile(t, dir, "level.yaml", "log_level: loud\n"))
	assert.Error(t, err)

	_, err = Load(writeFile(t, dir, "dup.yaml", "columns:\n  - accessor: a\n  - accessor: a\n"))
	assert.ErrorIs(t, err, datatable.ErrDuplicateColumn)
}

func TestGridColumnsBadScript(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Columns = []ColumnConfig{{Accessor: "a", Script: "package cell\nfunc Render("}}
	_, err := cfg.GridColumns(nil)
	assert.Error(t, err)

	cfg.Columns = []ColumnConfig{{Accessor: "a", ScriptFile: filepath.Join(t.TempDir(), "none.go")}}
	_, err = cfg.GridColumns(nil)
	assert.Error(t, err)
}

func TestSaveRoundTrip(t *testing.T) {
	t.Setenv(EnvLogLevel, "")
	t.Setenv(EnvAPITimeout, "")

	cfg := DefaultConfig()
	cfg.Grid.Striped = true
	cfg.Columns = []ColumnConfig{{Accessor: "id"}}

	path := filepath.Join(t.TempDir(), "nested", "dgb.yaml")
	require.NoError(t, cfg.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestLoadEnv(t *testing.T) {
	path := writeFile(t, t.TempDir(), ".env", "DGB_TEST_VALUE=from-dotenv\n")
	t.Setenv("DGB_TEST_VALUE", "")
	os.Unsetenv("DGB_TEST_VALUE")

	require.NoError(t, LoadEnv(path, filepath.Join(t.TempDir(), "missing.env")))
	assert.Equal(t, "from-dotenv", os.Getenv("DGB_TEST_VALUE"))
}
