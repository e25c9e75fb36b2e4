package gitctx

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// Target says where a chosen message is written.
type Target string

const (
	TargetStdout      Target = "stdout"
	TargetMessageFile Target = "message-file"
	TargetCommit      Target = "commit"
)

// Repo is the source-control collaborator for one invocation. It reads diffs
// with git and writes the chosen message back to Target.
type Repo struct {
	// Dir is the working directory git runs in. Empty means the process cwd.
	Dir string
	// PrefixFlag, when non-empty, is the message prefix and wins over the
	// message file.
	PrefixFlag string
	// MessageFile is the commit message file git hands to
	// prepare-commit-msg. It supplies the prefix and receives the message.
	MessageFile string
	// Commit makes SetMessage run git commit when there is no message file.
	Commit bool
	// Out receives the message for TargetStdout. Nil means os.Stdout.
	Out io.Writer
}

// Target reports where SetMessage will write.
func (r *Repo) Target() Target {
	switch {
	case r.MessageFile != "":
		return TargetMessageFile
	case r.Commit:
		return TargetCommit
	default:
		return TargetStdout
	}
}

// Diff returns the staged diff when staged is true, otherwise the diff of
// the working tree against the index.
func (r *Repo) Diff(ctx context.Context, staged bool) (string, error) {
	args := []string{"diff"}
	if staged {
		args = append(args, "--cached")
	}
	out, err := r.git(ctx, args...)
	if err != nil {
		return "", fmt.Errorf("git %s: %w", strings.Join(args, " "), err)
	}
	return out, nil
}

// Prefix returns the text the user already typed for the message. It is read
// from the message file when no prefix flag is given. Comment lines and
// trailing newlines are dropped, trailing spaces are kept, and a missing file
// yields an empty prefix.
func (r *Repo) Prefix() (string, error) {
	if r.PrefixFlag != "" {
		return r.PrefixFlag, nil
	}
	if r.MessageFile == "" {
		return "", nil
	}
	data, err := os.ReadFile(r.MessageFile)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", nil
		}
		return "", fmt.Errorf("reading message file: %w", err)
	}
	body, _ := splitComments(string(data))
	// Trailing spaces are part of the prefix: "fix: " must reach the model as typed.
	body = strings.TrimRight(body, "\r\n")
	if strings.TrimSpace(body) == "" {
		return "", nil
	}
	return body, nil
}

// SetMessage writes msg to the configured target. When writing the message
// file, the comment block git generated is preserved below the message.
func (r *Repo) SetMessage(ctx context.Context, msg string) error {
	switch r.Target() {
	case TargetMessageFile:
		existing, err := os.ReadFile(r.MessageFile)
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("reading message file: %w", err)
		}
		_, comments := splitComments(string(existing))
		content := msg + "\n"
		if comments != "" {
			content += "\n" + comments
		}
		if err := os.WriteFile(r.MessageFile, []byte(content), 0o644); err != nil {
			return fmt.Errorf("writing message file: %w", err)
		}
		return nil
	case TargetCommit:
		if _, err := r.git(ctx, "commit", "-m", msg); err != nil {
			return fmt.Errorf("git commit: %w", err)
		}
		return nil
	default:
		out := r.Out
		if out == nil {
			out = os.Stdout
		}
		_, err := fmt.Fprintln(out, msg)
		return err
	}
}

// HooksDir returns the hooks directory of the repository, honoring
// core.hooksPath.
func (r *Repo) HooksDir(ctx context.Context) (string, error) {
	out, err := r.git(ctx, "rev-parse", "--git-path", "hooks")
	if err != nil {
		return "", fmt.Errorf("not a git repository: %w", err)
	}
	dir := strings.TrimSpace(out)
	if !filepath.IsAbs(dir) && r.Dir != "" {
		dir = filepath.Join(r.Dir, dir)
	}
	return dir, nil
}

// splitComments separates the message body from git's comment lines.
func splitComments(content string) (body, comments string) {
	var b, c strings.Builder
	for _, line := range strings.SplitAfter(content, "\n") {
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, "#") {
			c.WriteString(line)
		} else {
			b.WriteString(line)
		}
	}
	comments = c.String()
	if comments != "" && !strings.HasSuffix(comments, "\n") {
		comments += "\n"
	}
	return b.String(), comments
}

// Files returns the paths touched by diff, in order of appearance.
func Files(diff string) []string {
	var files []string
	seen := make(map[string]bool)
	for _, line := range strings.Split(diff, "\n") {
		if strings.HasPrefix(line, "+++ b/") {
			f := strings.TrimPrefix(line, "+++ b/")
			if !seen[f] {
				seen[f] = true
				files = append(files, f)
			}
		}
	}
	return files
}

// SplitSections splits a unified diff into one chunk per file. Joining the
// chunks restores the input, plus a trailing newline if it had none.
func SplitSections(diff string) []string {
	var sections []string
	lines := strings.Split(strings.TrimSuffix(diff, "\n"), "\n")
	var current strings.Builder
	for _, line := range lines {
		if strings.HasPrefix(line, "diff --git") && current.Len() > 0 {
			sections = append(sections, current.String())
			current.Reset()
		}
		current.WriteString(line)
		current.WriteString("\n")
	}
	if current.Len() > 0 {
		sections = append(sections, current.String())
	}
	return sections
}

// SectionPath returns the post-image path of a diff section. Deleted files
// fall back to the pre-image path.
func SectionPath(section string) string {
	var old string
	for _, line := range strings.Split(section, "\n") {
		if strings.HasPrefix(line, "+++ b/") {
			return strings.TrimPrefix(line, "+++ b/")
		}
		if old == "" && strings.HasPrefix(line, "--- a/") {
			old = strings.TrimPrefix(line, "--- a/")
		}
	}
	return old
}

// MatchesAny returns true if the path matches any of the given glob patterns.
func MatchesAny(path string, patterns []string) bool {
	for _, pattern := range patterns {
		matched, err := filepath.Match(pattern, path)
		if err == nil && matched {
			return true
		}
		clean := strings.TrimPrefix(pattern, "**/")
		if clean != pattern {
			matched, err = filepath.Match(clean, filepath.Base(path))
			if err == nil && matched {
				return true
			}
			matched, err = filepath.Match(clean, path)
			if err == nil && matched {
				return true
			}
		}
	}
	return false
}

func (r *Repo) git(ctx context.Context, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = r.Dir
	out, err := cmd.Output()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return string(out), fmt.Errorf("%s: %s", err, strings.TrimSpace(string(exitErr.Stderr)))
		}
		return "", err
	}
	return string(out), nil
}
