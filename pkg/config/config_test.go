package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(LoadOptions{Dir: t.TempDir()})
	require.NoError(t, err)

	assert.Equal(t, "..", cfg.Root)
	assert.Equal(t, "index.md", cfg.Index)
	assert.Equal(t, "summary.txt", cfg.Output)
	assert.Equal(t, "Update", cfg.ToolDir)
	assert.Equal(t, []string{"zh"}, cfg.VariantLanguages)
	assert.False(t, cfg.RespectIgnoreFiles)
	assert.Empty(t, cfg.Source)
}

func TestLoad_ProjectFile(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, ".docsync.yaml", "root: docs\nvariant_languages: [zh, ja]\nrespect_ignore_files: true\n")

	cfg, err := Load(LoadOptions{Dir: dir})
	require.NoError(t, err)
	assert.Equal(t, "docs", cfg.Root)
	assert.Equal(t, []string{"zh", "ja"}, cfg.VariantLanguages)
	assert.True(t, cfg.RespectIgnoreFiles)
	assert.Equal(t, ".docsync.yaml", filepath.Base(cfg.Source))
}

func TestLoad_TOMLFile(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "docsync.toml", "root = \"handbook\"\ntool_dir = \"scripts\"\n")

	cfg, err := Load(LoadOptions{Dir: dir, File: path})
	require.NoError(t, err)
	assert.Equal(t, "handbook", cfg.Root)
	assert.Equal(t, "scripts", cfg.ToolDir)
}

func TestLoad_SchemaRejectsUnknownKeys(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, ".docsync.yaml", "root: docs\nscan_dirs: [a]\n")

	_, err := Load(LoadOptions{Dir: dir})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "configuration validation failed")
}

func TestLoad_ExplicitFileMissing(t *testing.T) {
	_, err := Load(LoadOptions{Dir: t.TempDir(), File: filepath.Join(t.TempDir(), "nope.yaml")})
	assert.Error(t, err)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, ".docsync.yaml", "root: docs\n")
	t.Setenv("DOCSYNC_ROOT", "from-env")

	cfg, err := Load(LoadOptions{Dir: dir})
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.Root)
}

func TestLoad_DotEnv(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, ".env", "DOCSYNC_OUTPUT=export.txt\n")
	t.Cleanup(func() { _ = os.Unsetenv("DOCSYNC_OUTPUT") })

	cfg, err := Load(LoadOptions{Dir: dir})
	require.NoError(t, err)
	assert.Equal(t, "export.txt", cfg.Output)
}

func TestLoad_FlagsWin(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("DOCSYNC_ROOT", "from-env")

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("root", "..", "")
	flags.String("index", "index.md", "")
	require.NoError(t, flags.Parse([]string{"--root", "from-flag"}))

	cfg, err := Load(LoadOptions{Dir: dir, Flags: flags})
	require.NoError(t, err)
	assert.Equal(t, "from-flag", cfg.Root)
	assert.Equal(t, "index.md", cfg.Index)
}

func TestValidate(t *testing.T) {
	cfg := Default()
	cfg.Index = "./index.md"
	require.NoError(t, cfg.Validate())
	assert.Equal(t, "index.md", cfg.Index)

	bad := Default()
	bad.Output = "../escape.txt"
	assert.Error(t, bad.Validate())

	bad = Default()
	bad.Index = "index.txt"
	assert.Error(t, bad.Validate())

	bad = Default()
	bad.Root = " "
	assert.Error(t, bad.Validate())
}

func TestValidateConfig(t *testing.T) {
	assert.NoError(t, ValidateConfig([]byte(`{"root":"docs","index":"home.md"}`)))
	assert.Error(t, ValidateConfig([]byte(`{"index":"home.txt"}`)))
	assert.Error(t, ValidateConfig([]byte(`{"variant_languages":"zh"}`)))
}

func TestValidateFile_EmptyYAML(t *testing.T) {
	path := writeFile(t, t.TempDir(), "empty.yaml", "")
	assert.NoError(t, ValidateFile(path))
}
