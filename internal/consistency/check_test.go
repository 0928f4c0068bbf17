package consistency

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/fulmenhq/docsync/internal/exclude"
	"github.com/fulmenhq/docsync/internal/links"
	"github.com/fulmenhq/docsync/pkg/logger"
)

// docsTree lays out base/docs (the documentation root) and base/development.
func docsTree(t *testing.T, files map[string]string) string {
	t.Helper()
	base := t.TempDir()
	root := filepath.Join(base, "docs")
	require.NoError(t, os.MkdirAll(root, 0o755))
	for rel, content := range files {
		p := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	}
	return root
}

func defaultOptions(root string) Options {
	return Options{
		Root:    root,
		Index:   "index.md",
		Exclude: exclude.Options{ToolDir: "Update", VariantLanguages: []string{"zh"}},
	}
}

func TestCheck_AllLinked(t *testing.T) {
	root := docsTree(t, map[string]string{
		"index.md":                 "[Overview](overview.md)\n[Zeiss](adapters/zeiss.md#setup)\n[Setup](../development/setup.md)",
		"README.md":                "readme",
		"overview.md":              "o",
		"overview-ZH.md":           "o zh",
		"adapters/zeiss.md":        "z",
		"adapters/README.md":       "r",
		"../development/setup.md":  "s",
		"../development/README.md": "r",
	})

	report, err := Check(defaultOptions(root))
	require.NoError(t, err)
	assert.True(t, report.OK())
	assert.Empty(t, report.Broken)
	assert.Empty(t, report.Orphans)
	assert.Equal(t, []string{"overview.md", "adapters/zeiss.md", "../development/setup.md"}, report.Linked)
	assert.Len(t, report.Existing, 8)

	var buf bytes.Buffer
	WritePretty(&buf, report)
	assert.Contains(t, buf.String(), "✅ All documentation files are properly linked!")
	assert.Contains(t, buf.String(), "📋 Found 3 files linked in index.md")
	assert.Contains(t, buf.String(), "📁 Found 8 .md files in filesystem")
	assert.NotContains(t, buf.String(), "ACTION REQUIRED")
}

func TestCheck_BrokenLink(t *testing.T) {
	root := docsTree(t, map[string]string{
		"index.md":    "[Overview](overview.md) [Missing](missing.md)",
		"overview.md": "o",
	})

	report, err := Check(defaultOptions(root))
	require.NoError(t, err)
	assert.False(t, report.OK())
	assert.Equal(t, []string{"missing.md"}, report.Broken)
	assert.Empty(t, report.Orphans)

	var buf bytes.Buffer
	WritePretty(&buf, report)
	out := buf.String()
	assert.Contains(t, out, "❌ BROKEN LINKS (in index.md but file doesn't exist):")
	assert.Contains(t, out, "   • missing.md")
	assert.Contains(t, out, "1. Remove broken links")
	assert.NotContains(t, out, "2. Add missing files")
	assert.Contains(t, out, "3. Run")
}

func TestCheck_OrphanFile(t *testing.T) {
	root := docsTree(t, map[string]string{
		"index.md":                "[Overview](overview.md)",
		"overview.md":             "o",
		"adapters/new-adapter.md": "n",
	})

	report, err := Check(defaultOptions(root))
	require.NoError(t, err)
	assert.False(t, report.OK())
	assert.Empty(t, report.Broken)
	assert.Equal(t, []string{"adapters/new-adapter.md"}, report.Orphans)

	var buf bytes.Buffer
	WritePretty(&buf, report)
	assert.Contains(t, buf.String(), "⚠️  MISSING LINKS (file exists but not in index.md):")
	assert.Contains(t, buf.String(), "   • adapters/new-adapter.md")
	assert.Contains(t, buf.String(), "2. Add missing files")
}

func TestCheck_LanguageVariantNotOrphan(t *testing.T) {
	root := docsTree(t, map[string]string{
		"index.md":       "[Overview](overview.md)",
		"overview.md":    "o",
		"overview-ZH.md": "zh",
		"guide-zh.md":    "zh",
	})

	report, err := Check(defaultOptions(root))
	require.NoError(t, err)
	assert.True(t, report.OK())
}

func TestCheck_LinkOutsideLayoutIsValid(t *testing.T) {
	root := docsTree(t, map[string]string{
		"index.md":          "[Deep](misc/deep/file.md)",
		"misc/deep/file.md": "d",
	})

	report, err := Check(defaultOptions(root))
	require.NoError(t, err)
	assert.Empty(t, report.Broken)
	assert.True(t, report.OK())
}

func TestCheck_MissingIndex(t *testing.T) {
	root := docsTree(t, map[string]string{"overview.md": "o"})

	_, err := Check(defaultOptions(root))
	require.Error(t, err)
	assert.ErrorIs(t, err, links.ErrIndexNotFound)

	var buf bytes.Buffer
	WriteIndexError(&buf, "index.md")
	assert.Equal(t, "❌ ERROR: index.md not found!\n", buf.String())
}

func TestCheck_InvalidVariantLanguage(t *testing.T) {
	root := docsTree(t, map[string]string{"index.md": ""})
	opts := defaultOptions(root)
	opts.Exclude.VariantLanguages = []string{"??"}

	_, err := Check(opts)
	assert.Error(t, err)
}

func TestCheck_LogsExclusionRules(t *testing.T) {
	root := docsTree(t, map[string]string{"index.md": ""})
	require.NoError(t, logger.Initialize(logger.Config{Level: logger.DebugLevel, JSON: true}))
	var buf bytes.Buffer
	logger.SetOutput(&buf)
	t.Cleanup(func() { logger.SetOutput(os.Stderr) })

	_, err := Check(defaultOptions(root))
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "Exclusion rules")
	assert.Contains(t, buf.String(), "/README.md, /index.md, README.md, Update/")
}

func TestBanner(t *testing.T) {
	var buf bytes.Buffer
	Banner(&buf)
	lines := strings.Split(buf.String(), "\n")
	require.GreaterOrEqual(t, len(lines), 2)
	assert.Equal(t, Title, lines[0])
	assert.Equal(t, strings.Repeat("=", 45), lines[1])
}

func TestWriteStructured(t *testing.T) {
	report := &Report{Index: "index.md", Linked: []string{"a.md"}, Existing: []string{"a.md", "b.md"}, Orphans: []string{"b.md"}}

	var jsonBuf bytes.Buffer
	require.NoError(t, WriteStructured(&jsonBuf, report, "json"))
	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(jsonBuf.Bytes(), &decoded))
	assert.Equal(t, false, decoded["ok"])
	assert.Equal(t, []interface{}{}, decoded["broken"])
	assert.Equal(t, []interface{}{"b.md"}, decoded["orphans"])

	var yamlBuf bytes.Buffer
	require.NoError(t, WriteStructured(&yamlBuf, report, "YAML"))
	var y map[string]interface{}
	require.NoError(t, yaml.Unmarshal(yamlBuf.Bytes(), &y))
	assert.Equal(t, "index.md", y["index"])

	assert.Error(t, WriteStructured(&bytes.Buffer{}, report, "xml"))
}
