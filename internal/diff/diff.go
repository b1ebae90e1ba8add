// Package diff produces the line-based views shown next to a proposed fix.
package diff

import (
	"strings"

	"github.com/pmezard/go-difflib/difflib"
)

const contextLines = 3

// Unified returns a unified diff from original to fixed with the headers
// "--- Original" and "+++ Fixed". It is empty when the texts have the same
// lines.
func Unified(original, fixed string) string {
	ud := difflib.UnifiedDiff{
		A:        splitLines(original),
		B:        splitLines(fixed),
		FromFile: "Original",
		ToFile:   "Fixed",
		Context:  contextLines,
	}
	text, err := difflib.GetUnifiedDiffString(ud)
	if err != nil {
		// Only a failing writer can make difflib error; strings.Builder never does
		return ""
	}
	return strings.TrimRight(text, "\n")
}

// Stats counts added and removed lines between original and fixed
func Stats(original, fixed string) (added, removed int) {
	m := difflib.NewMatcher(splitLines(original), splitLines(fixed))
	for _, op := range m.GetOpCodes() {
		switch op.Tag {
		case 'r':
			removed += op.I2 - op.I1
			added += op.J2 - op.J1
		case 'd':
			removed += op.I2 - op.I1
		case 'i':
			added += op.J2 - op.J1
		}
	}
	return added, removed
}

// splitLines splits on line breaks without keeping them, matching how the
// review page compares snippets.
func splitLines(s string) []string {
	if s == "" {
		return nil
	}
	lines := strings.Split(strings.ReplaceAll(s, "\r\n", "\n"), "\n")
	for i := range lines {
		lines[i] += "\n"
	}
	return lines
}
