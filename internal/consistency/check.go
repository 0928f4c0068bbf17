// Package consistency compares the links of the index document with the
// Markdown files on disk and reports broken links and orphan files.
package consistency

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/fulmenhq/docsync/internal/exclude"
	"github.com/fulmenhq/docsync/internal/links"
	"github.com/fulmenhq/docsync/internal/scan"
	"github.com/fulmenhq/docsync/pkg/logger"
)

// ErrInconsistent is returned by callers that turn a failing report into an error.
var ErrInconsistent = errors.New("documentation index is inconsistent")

// Options configures a check run.
type Options struct {
	Root    string
	Index   string
	Layout  scan.Layout
	Exclude exclude.Options
}

// Report is the outcome of one check. Broken and Orphans are disjoint: the
// first holds link targets, the second holds on-disk paths nobody links to.
type Report struct {
	Index    string   `json:"index" yaml:"index"`
	Linked   []string `json:"linked" yaml:"linked"`
	Existing []string `json:"existing" yaml:"existing"`
	Broken   []string `json:"broken" yaml:"broken"`
	Orphans  []string `json:"orphans" yaml:"orphans"`
}

// OK reports whether no discrepancies were found.
func (r *Report) OK() bool {
	return len(r.Broken) == 0 && len(r.Orphans) == 0
}

// Check runs the consistency check. A missing index document is returned as
// an error wrapping links.ErrIndexNotFound.
func Check(opts Options) (*Report, error) {
	index := opts.Index
	if index == "" {
		index = "index.md"
	}
	layout := opts.Layout
	if layout == nil {
		layout = scan.DefaultLayout()
	}

	found, err := links.ReadIndex(opts.Root, index)
	if err != nil {
		return nil, err
	}
	linked := links.Targets(found)

	existing, err := scan.Scan(opts.Root, layout)
	if err != nil {
		return nil, err
	}

	exOpts := opts.Exclude
	if exOpts.Root == "" {
		exOpts.Root = opts.Root
	}
	if exOpts.Index == "" {
		exOpts.Index = index
	}
	matcher, err := exclude.NewMatcher(exOpts)
	if err != nil {
		return nil, err
	}
	logger.Debug("Exclusion rules", logger.String("patterns", strings.Join(matcher.Patterns(), ", ")))

	report := &Report{
		Index:    index,
		Linked:   linked,
		Existing: existing,
		Broken:   brokenLinks(opts.Root, linked),
		Orphans:  orphanFiles(existing, linked, matcher),
	}
	logger.Debug("Consistency check complete",
		logger.Int("linked", len(report.Linked)),
		logger.Int("existing", len(report.Existing)),
		logger.Int("broken", len(report.Broken)),
		logger.Int("orphans", len(report.Orphans)))
	return report, nil
}

// brokenLinks tests every target for existence on disk. Any path counts, not
// only those inside the scanned layout.
func brokenLinks(root string, linked []string) []string {
	var broken []string
	for _, target := range linked {
		if _, err := os.Stat(filepath.Join(root, filepath.FromSlash(target))); err != nil {
			broken = append(broken, target)
		}
	}
	return broken
}

func orphanFiles(existing, linked []string, matcher *exclude.Matcher) []string {
	referenced := make(map[string]struct{}, len(linked))
	for _, l := range linked {
		referenced[l] = struct{}{}
	}
	var orphans []string
	for _, path := range existing {
		if matcher.Excluded(path) {
			continue
		}
		if _, ok := referenced[path]; !ok {
			orphans = append(orphans, path)
		}
	}
	return orphans
}
