package consistency

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/fulmenhq/docsync/pkg/ascii"
)

// Title is the banner printed at the top of the pretty report.
const Title = "🔍 DATEYE Documentation Consistency Check"

// Banner writes the title and its "=" rule.
func Banner(w io.Writer) {
	fmt.Fprintln(w, Title)
	fmt.Fprintln(w, ascii.Rule("=", 45))
	fmt.Fprintln(w)
}

// WriteIndexError writes the user-facing line for a missing or unreadable index.
func WriteIndexError(w io.Writer, index string) {
	fmt.Fprintf(w, "❌ ERROR: %s not found!\n", index)
}

// WritePretty writes the human-readable report (without the banner).
func WritePretty(w io.Writer, r *Report) {
	fmt.Fprintf(w, "📋 Found %d files linked in %s\n", len(r.Linked), r.Index)
	fmt.Fprintf(w, "📁 Found %d .md files in filesystem\n", len(r.Existing))
	fmt.Fprintln(w)

	if r.OK() {
		fmt.Fprintln(w, "✅ All documentation files are properly linked!")
		fmt.Fprintln(w)
		return
	}

	if len(r.Broken) > 0 {
		fmt.Fprintf(w, "❌ BROKEN LINKS (in %s but file doesn't exist):\n", r.Index)
		writeItems(w, r.Broken)
		fmt.Fprintln(w)
	}
	if len(r.Orphans) > 0 {
		fmt.Fprintf(w, "⚠️  MISSING LINKS (file exists but not in %s):\n", r.Index)
		writeItems(w, r.Orphans)
		fmt.Fprintln(w)
	}

	fmt.Fprintln(w, "🔧 ACTION REQUIRED:")
	if len(r.Broken) > 0 {
		fmt.Fprintf(w, "   1. Remove broken links from %s or create missing files\n", r.Index)
	}
	if len(r.Orphans) > 0 {
		fmt.Fprintf(w, "   2. Add missing files to appropriate sections in %s\n", r.Index)
	}
	fmt.Fprintln(w, "   3. Run 'docsync summary' again to update summary.txt")
	fmt.Fprintln(w)
}

func writeItems(w io.Writer, items []string) {
	for _, it := range items {
		fmt.Fprintf(w, "   • %s\n", it)
	}
}

type structuredReport struct {
	Index    string   `json:"index" yaml:"index"`
	OK       bool     `json:"ok" yaml:"ok"`
	Linked   []string `json:"linked" yaml:"linked"`
	Existing []string `json:"existing" yaml:"existing"`
	Broken   []string `json:"broken" yaml:"broken"`
	Orphans  []string `json:"orphans" yaml:"orphans"`
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

// WriteStructured writes the report as JSON or YAML.
func WriteStructured(w io.Writer, r *Report, format string) error {
	payload := structuredReport{
		Index:    r.Index,
		OK:       r.OK(),
		Linked:   nonNil(r.Linked),
		Existing: nonNil(r.Existing),
		Broken:   nonNil(r.Broken),
		Orphans:  nonNil(r.Orphans),
	}

	switch strings.ToLower(format) {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(payload)
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(payload); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("unsupported format %q (expected pretty, json or yaml)", format)
	}
}
