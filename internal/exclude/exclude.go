// Package exclude decides which on-disk documents are exempt from the orphan
// check. Rules are expressed as gitignore patterns and evaluated with go-git's
// matcher, layered as:
//  1. built-in rules (README/index files, the tool directory, language variants)
//  2. .gitignore files under the documentation root (opt-in)
//  3. .docsyncignore at the documentation root (opt-in)
package exclude

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/go-git/go-billy/v5/osfs"
	gitignore "github.com/go-git/go-git/v5/plumbing/format/gitignore"
	"golang.org/x/text/language"

	"github.com/fulmenhq/docsync/pkg/logger"
)

// IgnoreFile is the repo-level override file read when ignore files are enabled.
const IgnoreFile = ".docsyncignore"

// Options configures the rule set.
type Options struct {
	// Index is the index document name; exempt alongside index.md.
	Index string
	// ToolDir is the directory holding the tools; anything under it is exempt.
	ToolDir string
	// VariantLanguages are BCP 47 tags; "<name>-<tag>.md" files are translations
	// of a linked document and are exempt. Matching is case-insensitive.
	VariantLanguages []string
	// RespectIgnoreFiles layers .gitignore and .docsyncignore patterns found
	// under Root on top of the built-in rules.
	RespectIgnoreFiles bool
	Root               string
}

// Matcher reports whether a root-relative document path is exempt.
type Matcher struct {
	matcher  gitignore.Matcher
	patterns []string
}

// NewMatcher builds the layered rule set.
func NewMatcher(opts Options) (*Matcher, error) {
	builtin, err := BuiltinPatterns(opts.ToolDir, opts.VariantLanguages)
	if err != nil {
		return nil, err
	}
	if idx := strings.Trim(filepath.ToSlash(opts.Index), "/"); idx != "" && idx != "index.md" {
		builtin = append(builtin, "/"+idx)
	}

	var all []gitignore.Pattern
	for _, p := range builtin {
		all = append(all, gitignore.ParsePattern(p, nil))
	}
	patterns := append([]string(nil), builtin...)

	if opts.RespectIgnoreFiles && opts.Root != "" {
		if gitPatterns, err := gitignore.ReadPatterns(osfs.New(opts.Root), nil); err == nil {
			all = append(all, gitPatterns...)
		} else {
			logger.Debug("No gitignore patterns loaded", logger.String("root", opts.Root), logger.Err(err))
		}
		if extra, err := readIgnoreFile(filepath.Join(opts.Root, IgnoreFile)); err == nil {
			for _, p := range extra {
				all = append(all, gitignore.ParsePattern(p, nil))
			}
			patterns = append(patterns, extra...)
		}
	}

	return &Matcher{matcher: gitignore.NewMatcher(all), patterns: patterns}, nil
}

// BuiltinPatterns returns the fixed exemption rules as gitignore patterns:
// the root README.md and index.md, README.md in any directory, everything under
// toolDir, and "*-<lang>.md" for every variant language.
func BuiltinPatterns(toolDir string, variantLanguages []string) ([]string, error) {
	patterns := []string{"/README.md", "/index.md", "README.md"}
	if dir := strings.Trim(filepath.ToSlash(toolDir), "/"); dir != "" {
		patterns = append(patterns, dir+"/")
	}
	for _, raw := range variantLanguages {
		tag, err := language.Parse(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid variant language %q: %w", raw, err)
		}
		patterns = append(patterns, "*-"+caseFold(tag.String())+".md")
	}
	return patterns, nil
}

// Patterns returns the textual patterns this matcher was built from, excluding
// those discovered in .gitignore files.
func (m *Matcher) Patterns() []string {
	return append([]string(nil), m.patterns...)
}

// Excluded reports whether the root-relative file path is exempt from the
// orphan check.
func (m *Matcher) Excluded(rel string) bool {
	parts := splitPath(rel)
	if len(parts) == 0 {
		return false
	}
	return m.matcher.Match(parts, false)
}

// caseFold turns "pt-BR" into "[pP][tT]-[bB][rR]" so a case-sensitive glob
// matches any casing.
func caseFold(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch {
		case unicode.IsLetter(r) && unicode.ToLower(r) != unicode.ToUpper(r):
			b.WriteString("[" + string(unicode.ToLower(r)) + string(unicode.ToUpper(r)) + "]")
		case strings.ContainsRune(`*?[]\`, r):
			b.WriteString(`\` + string(r))
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

func readIgnoreFile(path string) ([]string, error) {
	cleaned := filepath.Clean(path)
	if filepath.Base(cleaned) != IgnoreFile {
		return nil, fmt.Errorf("disallowed ignore file path: %s", cleaned)
	}
	content, err := os.ReadFile(cleaned) // #nosec G304 -- fixed file name under the documentation root
	if err != nil {
		return nil, err
	}

	var patterns []string
	for _, line := range strings.Split(string(content), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		patterns = append(patterns, line)
	}
	return patterns, nil
}

// splitPath converts a slash-separated path into components for go-git matching.
func splitPath(path string) []string {
	path = strings.TrimPrefix(filepath.ToSlash(path), "/")
	if path == "" || path == "." {
		return nil
	}
	parts := strings.Split(path, "/")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		if part != "" && part != "." {
			result = append(result, part)
		}
	}
	return result
}
