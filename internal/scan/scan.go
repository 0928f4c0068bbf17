// Package scan enumerates the Markdown files present in the documentation
// tree. The set of directories is a fixed, explicit layout: each directory is
// globbed one level deep and nothing is walked recursively.
package scan

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/fulmenhq/docsync/pkg/logger"
)

// GeneratedFile is the summary output name. It is filtered by name even though
// the *.md glob can never return it.
const GeneratedFile = "summary.txt"

// Dir is one directory of the layout, relative to the documentation root.
// Prefix is prepended to every file name found in it ("" for the root).
type Dir struct {
	Path   string
	Prefix string
}

// Layout is the enumerated list of directories to scan.
type Layout []Dir

// DefaultLayout returns the documentation tree's directory list: the root,
// the adapter/architecture/ui-design/external-apis sections with their named
// subsections, and the development notes kept beside the documentation root.
func DefaultLayout() Layout {
	return Layout{
		{Path: ".", Prefix: ""},
		{Path: "adapters", Prefix: "adapters/"},
		{Path: "architecture", Prefix: "architecture/"},
		{Path: "ui-design", Prefix: "ui-design/"},
		{Path: "ui-design/dashboard", Prefix: "ui-design/dashboard/"},
		{Path: "ui-design/connections", Prefix: "ui-design/connections/"},
		{Path: "ui-design/history", Prefix: "ui-design/history/"},
		{Path: "ui-design/settings", Prefix: "ui-design/settings/"},
		{Path: "ui-design/eye-office-setup", Prefix: "ui-design/eye-office-setup/"},
		{Path: "ui-design/identity-key-dialog", Prefix: "ui-design/identity-key-dialog/"},
		{Path: "ui-design/logo", Prefix: "ui-design/logo/"},
		{Path: "external-apis", Prefix: "external-apis/"},
		{Path: "external-apis/eye-office", Prefix: "external-apis/eye-office/"},
		{Path: "external-apis/mediworks", Prefix: "external-apis/mediworks/"},
		{Path: "external-apis/zeiss", Prefix: "external-apis/zeiss/"},
		{Path: "../development", Prefix: "../development/"},
	}
}

// Scan globs *.md in every layout directory under root and returns the
// root-relative paths, de-duplicated and sorted lexicographically.
// Directories that do not exist are skipped silently.
func Scan(root string, layout Layout) ([]string, error) {
	seen := make(map[string]struct{})
	for _, dir := range layout {
		abs := filepath.Join(root, filepath.FromSlash(dir.Path))
		st, err := os.Stat(abs)
		if err != nil || !st.IsDir() {
			continue
		}

		names, err := doublestar.Glob(os.DirFS(abs), "*.md", doublestar.WithFilesOnly())
		if err != nil {
			return nil, fmt.Errorf("glob %s: %w", dir.Path, err)
		}
		for _, name := range names {
			rel, err := relativePath(dir, name)
			if err != nil {
				logger.Warn("Could not process file", logger.String("dir", dir.Path), logger.String("file", name), logger.Err(err))
				continue
			}
			if path.Base(rel) == GeneratedFile {
				continue
			}
			seen[rel] = struct{}{}
		}
	}

	out := make([]string, 0, len(seen))
	for rel := range seen {
		out = append(out, rel)
	}
	sort.Strings(out)
	return out, nil
}

var errInvalidName = errors.New("invalid file name")

func relativePath(dir Dir, name string) (string, error) {
	if name == "" || !fs.ValidPath(name) || path.Base(name) != name {
		return "", fmt.Errorf("%w: %q", errInvalidName, name)
	}
	return dir.Prefix + name, nil
}
