// Package summary concatenates every document linked from the index into a
// single plain-text export.
package summary

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/fulmenhq/docsync/internal/links"
	"github.com/fulmenhq/docsync/pkg/ascii"
	"github.com/fulmenhq/docsync/pkg/logger"
	"github.com/fulmenhq/docsync/pkg/safeio"
)

const (
	// DefaultTitle is the first line of the summary document.
	DefaultTitle = "DATEYE DOCUMENTATION SUMMARY"
	// DefaultOutput is the output file name, relative to the documentation root.
	DefaultOutput = "summary.txt"
	// TimestampLayout formats the "Generated:" lines.
	TimestampLayout = "2006-01-02 15:04"
)

var rule = strings.Repeat("=", 50)

// ErrWriteOutput wraps failures writing the summary document.
var ErrWriteOutput = errors.New("failed to write summary")

// Options configures a generator run.
type Options struct {
	Root   string
	Index  string
	Output string
	Title  string
	// Now is the clock used for the timestamps; time.Now when nil.
	Now func() time.Time
}

// File is one successfully read document.
type File struct {
	Path    string
	Content string
}

// Result describes a completed run.
type Result struct {
	Linked     int
	Processed  int
	Skipped    []string
	OutputPath string
	Bytes      int
	Chars      int
}

// Normalize converts CRLF and lone CR line endings to LF and strips trailing
// whitespace from every line. Nothing else is changed.
func Normalize(content string) string {
	content = strings.ReplaceAll(content, "\r\n", "\n")
	content = strings.ReplaceAll(content, "\r", "\n")
	lines := strings.Split(content, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRightFunc(line, unicode.IsSpace)
	}
	return strings.Join(lines, "\n")
}

// Build assembles the summary document: header, one block per file in order,
// and a footer with the processed count.
func Build(title string, files []File, now time.Time) string {
	stamp := "Generated: " + now.Format(TimestampLayout)

	parts := []string{title, stamp, rule}
	for _, f := range files {
		parts = append(parts, "", "", "FILE: "+f.Path, rule, "", f.Content)
	}
	parts = append(parts,
		"", "",
		rule,
		"END OF DOCUMENTATION",
		fmt.Sprintf("Total files: %d", len(files)),
		stamp,
	)
	return strings.Join(parts, "\n")
}

// Generate reads the index, collects every linked document and writes the
// summary with a single write. Progress lines go to progress. Unreadable
// documents are reported and skipped; only an unreadable index or a failed
// output write return an error.
func Generate(opts Options, progress io.Writer) (*Result, error) {
	if progress == nil {
		progress = io.Discard
	}
	index := defaultString(opts.Index, "index.md")
	output := defaultString(opts.Output, DefaultOutput)
	title := defaultString(opts.Title, DefaultTitle)
	now := time.Now
	if opts.Now != nil {
		now = opts.Now
	}

	found, err := links.ReadIndex(opts.Root, index)
	if err != nil {
		return nil, err
	}
	targets := links.Targets(found)
	fmt.Fprintf(progress, "Found %d files in %s\n", len(targets), index)

	result := &Result{Linked: len(targets)}
	column := ascii.MaxWidth(targets)
	files := make([]File, 0, len(targets))
	for _, target := range targets {
		content, err := readDocument(opts.Root, target)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				fmt.Fprintf(progress, "  ✗ %s - Not found\n", target)
			} else {
				fmt.Fprintf(progress, "  ✗ %s - Error: %v\n", target, err)
			}
			logger.Debug("Skipping document", logger.String("path", target), logger.Err(err))
			result.Skipped = append(result.Skipped, target)
			continue
		}
		files = append(files, File{Path: target, Content: content})
		fmt.Fprintf(progress, "  ✓ %s (%dKB)\n", ascii.PadRight(target, column), utf8.RuneCountInString(content)/1024)
	}
	result.Processed = len(files)

	doc := Build(title, files, now())
	outPath := filepath.Join(opts.Root, filepath.FromSlash(output))
	if err := safeio.WriteFilePreservePerms(outPath, []byte(doc)); err != nil {
		fmt.Fprintf(progress, "\n✗ Error writing %s: %v\n", output, err)
		return result, fmt.Errorf("%w: %s: %v", ErrWriteOutput, output, err)
	}

	result.OutputPath = outPath
	result.Bytes = len(doc)
	result.Chars = utf8.RuneCountInString(doc)
	fmt.Fprintf(progress, "\n✓ Created: %s (%dKB)\n", output, result.Chars/1024)
	fmt.Fprintf(progress, "  Tokens: ~%d\n", result.Chars/4)
	return result, nil
}

func readDocument(root, target string) (string, error) {
	data, err := os.ReadFile(filepath.Join(root, filepath.FromSlash(target))) // #nosec G304 -- targets come from the project's own index
	if err != nil {
		return "", err
	}
	if !utf8.Valid(data) {
		return "", errors.New("content is not valid UTF-8")
	}
	return Normalize(string(data)), nil
}

func defaultString(v, def string) string {
	if strings.TrimSpace(v) == "" {
		return def
	}
	return v
}
