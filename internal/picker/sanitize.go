package picker

import (
	"regexp"

	"github.com/mattn/go-runewidth"
)

// ansiRE matches CSI and OSC escape sequences and the short charset
// designations a completion model might echo from a colored diff.
var ansiRE = regexp.MustCompile(`\x1b(?:` +
	`\[[0-9;]*[A-Za-z]` +
	`|` +
	`\].*?(?:\x1b\\|\x07)` +
	`|` +
	`[()][A-B0-2]` +
	`)`)

// StripANSI removes ANSI escape sequences from a string.
func StripANSI(s string) string {
	return ansiRE.ReplaceAllString(s, "")
}

// MiddleTruncate shortens s to maxWidth display columns by replacing its
// middle with an ellipsis. Wide runes count as two columns. Below three
// columns it simply cuts from the right.
func MiddleTruncate(s string, maxWidth int) string {
	if maxWidth <= 0 {
		return ""
	}
	if runewidth.StringWidth(s) <= maxWidth {
		return s
	}
	if maxWidth < 3 {
		return truncateLeft(s, maxWidth)
	}

	const ellipsis = "…"
	remaining := maxWidth - 1
	headWidth := (remaining + 1) / 2
	tailWidth := remaining / 2
	return truncateLeft(s, headWidth) + ellipsis + truncateRight(s, tailWidth)
}

// truncateLeft returns the longest prefix of s that fits in maxWidth columns.
func truncateLeft(s string, maxWidth int) string {
	w := 0
	for i, r := range s {
		rw := runewidth.RuneWidth(r)
		if w+rw > maxWidth {
			return s[:i]
		}
		w += rw
	}
	return s
}

// truncateRight returns the longest suffix of s that fits in maxWidth columns.
func truncateRight(s string, maxWidth int) string {
	runes := []rune(s)
	w := 0
	start := len(runes)
	for i := len(runes) - 1; i >= 0; i-- {
		rw := runewidth.RuneWidth(runes[i])
		if w+rw > maxWidth {
			break
		}
		w += rw
		start = i
	}
	return string(runes[start:])
}
