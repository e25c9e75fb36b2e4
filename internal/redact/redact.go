package redact

import (
	"regexp"
	"strings"

	"github.com/dshills/suggestmsg/internal/gitctx"
)

const placeholder = "[REDACTED]"

// rule is one kind of secret and the pattern that finds it.
type rule struct {
	kind string
	re   *regexp.Regexp
}

// rules run in order; earlier, more specific rules consume their matches
// before the generic assignment rules see them.
var rules = []rule{
	{"private-key", regexp.MustCompile(`-----BEGIN\s+(RSA\s+|EC\s+|OPENSSH\s+)?PRIVATE KEY-----`)},
	{"aws-access-key", regexp.MustCompile(`AKIA[0-9A-Z]{16}`)},
	{"aws-secret-key", regexp.MustCompile(`(?i)aws[_-]?secret[_-]?access[_-]?key\s*[:=]\s*["']?[A-Za-z0-9/+=]{40}["']?`)},
	{"github-token", regexp.MustCompile(`gh[pousr]_[A-Za-z0-9_]{36,}`)},
	{"slack-token", regexp.MustCompile(`xox[bporas]-[A-Za-z0-9-]{10,}`)},
	{"jwt", regexp.MustCompile(`eyJ[A-Za-z0-9_-]{10,}\.eyJ[A-Za-z0-9_-]{10,}\.[A-Za-z0-9_-]{10,}`)},
	{"bearer", regexp.MustCompile(`(?i)Bearer\s+[A-Za-z0-9._-]{20,}`)},
	{"anthropic-key", regexp.MustCompile(`sk-ant-[A-Za-z0-9_-]{20,}`)},
	{"openai-key", regexp.MustCompile(`sk-[A-Za-z0-9_-]{20,}`)},
	{"api-key", regexp.MustCompile(`(?i)(api[_-]?key|apikey|api[_-]?secret)\s*[:=]\s*["']?[A-Za-z0-9/+=_-]{20,}["']?`)},
	{"assignment", regexp.MustCompile(`(?i)(secret|token|password|passwd|credential)\s*[:=]\s*["'][^"']{8,}["']`)},
	{"hex-secret", regexp.MustCompile(`(?i)(key|secret|token)\s*[:=]\s*["']?[0-9a-f]{32,}["']?`)},
}

// Counts tallies redactions by kind. Path-based blanking is counted as "path".
type Counts map[string]int

// Total returns the number of redactions of every kind.
func (c Counts) Total() int {
	n := 0
	for _, v := range c {
		n += v
	}
	return n
}

// Secrets replaces detected secrets in text with [REDACTED] and reports how
// many matches were replaced.
func Secrets(text string) (string, int) {
	out, counts := secrets(text, nil)
	return out, counts.Total()
}

func secrets(text string, counts Counts) (string, Counts) {
	if counts == nil {
		counts = Counts{}
	}
	for _, r := range rules {
		text = r.re.ReplaceAllStringFunc(text, func(string) string {
			counts[r.kind]++
			return placeholder
		})
	}
	return text, counts
}

// ShouldRedactPath checks if a file path matches any of the redaction path patterns.
func ShouldRedactPath(path string, patterns []string) bool {
	return gitctx.MatchesAny(path, patterns)
}

// Diff redacts a unified diff before it leaves the machine. File sections
// whose path matches redactPaths keep their header but lose every content
// line; the rest are scanned for secrets. The count covers both.
func Diff(diff string, redactPaths []string) (string, int) {
	out, counts := DiffCounts(diff, redactPaths)
	return out, counts.Total()
}

// DiffCounts is Diff with the redactions broken down by kind.
func DiffCounts(diff string, redactPaths []string) (string, Counts) {
	counts := Counts{}
	if diff == "" {
		return "", counts
	}
	var b strings.Builder
	for _, section := range gitctx.SplitSections(diff) {
		if path := gitctx.SectionPath(section); path != "" && ShouldRedactPath(path, redactPaths) {
			b.WriteString(sectionHeader(section))
			b.WriteString(placeholder + " (file content redacted by path policy)\n")
			counts["path"]++
			continue
		}
		var redacted string
		redacted, counts = secrets(section, counts)
		b.WriteString(redacted)
	}
	out := b.String()
	if !strings.HasSuffix(diff, "\n") {
		out = strings.TrimSuffix(out, "\n")
	}
	return out, counts
}

// sectionHeader returns the lines of a diff section before its first hunk.
func sectionHeader(section string) string {
	if i := strings.Index(section, "\n@@"); i >= 0 {
		return section[:i+1]
	}
	return section
}
