package suggest

import (
	"strings"
)

// DefaultMaxDiffChars bounds how much of the diff is embedded in a prompt.
const DefaultMaxDiffChars = 1000

// The prompt reads like a transcript of a shell session so that a plain
// completion model continues it with the text of the commit message.
const (
	commentStage   = "# Stage every change in the working tree"
	commandStage   = "$ git add --all"
	commentReview  = "# Review the staged changes"
	commandDiff    = "$ git diff --cached"
	commentChanges = "# Only the added and removed lines"
	commandChanges = "$ git diff --cached -U0 | grep '^[+-]'"
	commentCommit  = "# Commit with a short message describing the change"
	commandCommit  = `$ git commit -m "`
)

// BuildPrompt turns a diff and the message prefix the user already typed
// into a completion prompt, using the default diff limit.
func BuildPrompt(diff, prefix string) string {
	return BuildPromptLimit(diff, prefix, DefaultMaxDiffChars)
}

// BuildPromptLimit is BuildPrompt with an explicit diff limit in characters.
// A non-positive limit falls back to DefaultMaxDiffChars.
//
// The result always ends with the open commit command and the prefix, never
// with a closing quote.
func BuildPromptLimit(diff, prefix string, maxChars int) string {
	if maxChars <= 0 {
		maxChars = DefaultMaxDiffChars
	}
	diff = Truncate(diff, maxChars)

	return strings.Join([]string{
		commentStage,
		commandStage,
		"",
		commentReview,
		commandDiff,
		diff,
		"",
		commentChanges,
		commandChanges,
		FilterChanges(diff),
		"",
		commentCommit,
		commandCommit + prefix,
	}, "\n")
}

// Truncate returns the first max characters of s. It may cut a line in half.
func Truncate(s string, max int) string {
	if max <= 0 {
		return ""
	}
	// Cheap exit: byte length bounds the rune count.
	if len(s) <= max {
		return s
	}
	n := 0
	for i := range s {
		if n == max {
			return s[:i]
		}
		n++
	}
	return s
}

// FilterChanges keeps only the lines of diff that start with '+' or '-',
// in their original order.
func FilterChanges(diff string) string {
	var kept []string
	for _, line := range strings.Split(diff, "\n") {
		if strings.HasPrefix(line, "+") || strings.HasPrefix(line, "-") {
			kept = append(kept, line)
		}
	}
	return strings.Join(kept, "\n")
}
