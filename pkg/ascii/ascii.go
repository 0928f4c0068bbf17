// Package ascii provides width-aware helpers for formatted console output
package ascii

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// StringWidth returns the display width of s. Multi-width runes (emoji, CJK)
// count as two columns.
func StringWidth(s string) int {
	return runewidth.StringWidth(s)
}

// Rule returns a horizontal rule of ch repeated n times.
func Rule(ch string, n int) string {
	if n <= 0 {
		return ""
	}
	return strings.Repeat(ch, n)
}

// PadRight pads s with spaces to the given display width.
func PadRight(s string, width int) string {
	fill := width - StringWidth(s)
	if fill <= 0 {
		return s
	}
	return s + strings.Repeat(" ", fill)
}

// MaxWidth returns the widest display width among values.
func MaxWidth(values []string) int {
	maxWidth := 0
	for _, v := range values {
		if w := StringWidth(v); w > maxWidth {
			maxWidth = w
		}
	}
	return maxWidth
}
