// Package links extracts Markdown file links from an index document.
//
// Extraction is a narrow pattern match, not a Markdown parse: only inline
// links of the form [text](target.md) or [text](target.md#fragment) count.
package links

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/fulmenhq/docsync/pkg/safeio"
)

// ErrIndexNotFound is returned when the index document does not exist.
var ErrIndexNotFound = errors.New("index document not found")

// ErrInvalidEncoding is returned when the index document is not valid UTF-8.
var ErrInvalidEncoding = errors.New("content is not valid UTF-8")

// Link is one Markdown file reference found in the index document.
type Link struct {
	Text   string `json:"text" yaml:"text"`
	Target string `json:"target" yaml:"target"`
}

// linkPattern matches [text](target.md) with an optional #fragment after the
// extension. The lazy target lets "a.md.md" and "a#b.md" resolve the same way
// a greedy ".md)" suffix match would.
var linkPattern = regexp.MustCompile(`\[([^\]]+)\]\(([^)]+?\.md)(?:#[^)]*)?\)`)

// Extract returns the Markdown links in text, in order of first appearance,
// de-duplicated by target. External targets (http...) are dropped and any
// #fragment is stripped.
func Extract(text string) []Link {
	var out []Link
	seen := make(map[string]struct{})
	for _, m := range linkPattern.FindAllStringSubmatch(text, -1) {
		target := m[2]
		if strings.HasPrefix(target, "http") {
			continue
		}
		if i := strings.Index(target, "#"); i >= 0 {
			target = target[:i]
		}
		target = strings.TrimSpace(target)
		if target == "" {
			continue
		}
		if _, dup := seen[target]; dup {
			continue
		}
		seen[target] = struct{}{}
		out = append(out, Link{Text: m[1], Target: target})
	}
	return out
}

// Targets returns the target paths of links, preserving order.
func Targets(links []Link) []string {
	out := make([]string, 0, len(links))
	for _, l := range links {
		out = append(out, l.Target)
	}
	return out
}

// ReadIndex reads the index document at root/name and extracts its links.
// A missing index yields an error wrapping ErrIndexNotFound.
func ReadIndex(root, name string) ([]Link, error) {
	path := filepath.Join(root, filepath.FromSlash(name))
	data, err := safeio.ReadFileContained(root, path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%s: %w", name, ErrIndexNotFound)
		}
		return nil, fmt.Errorf("read %s: %w", name, err)
	}
	if !utf8.Valid(data) {
		return nil, fmt.Errorf("read %s: %w", name, ErrInvalidEncoding)
	}
	return Extract(string(data)), nil
}
