package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dshills/suggestmsg/internal/gitctx"
)

const (
	hookName        = "prepare-commit-msg"
	hookMarkerStart = "# >>> suggestmsg prepare-commit-msg hook >>>"
	hookMarkerEnd   = "# <<< suggestmsg prepare-commit-msg hook <<<"
)

var hookInteractive bool

var hookCmd = &cobra.Command{
	Use:   "hook",
	Short: "Manage the git prepare-commit-msg hook",
}

var hookInstallCmd = &cobra.Command{
	Use:   "install",
	Short: "Install suggestmsg as a git prepare-commit-msg hook",
	RunE: func(cmd *cobra.Command, args []string) error {
		stderr := cmd.ErrOrStderr()
		hookPath, err := getHookPath(cmd)
		if err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", err)
			exitCode = ExitRuntimeError
			return nil
		}

		section := generateHookScript(hookInteractive)

		existing, err := os.ReadFile(hookPath)
		if err != nil && !os.IsNotExist(err) {
			fmt.Fprintf(stderr, "Error reading hook file: %v\n", err)
			exitCode = ExitRuntimeError
			return nil
		}

		var content string
		if os.IsNotExist(err) || len(existing) == 0 {
			content = "#!/bin/sh\n" + section
		} else {
			content = replaceHookSection(string(existing), section)
		}

		if err := os.MkdirAll(filepath.Dir(hookPath), 0o755); err != nil {
			fmt.Fprintf(stderr, "Error creating hooks directory: %v\n", err)
			exitCode = ExitRuntimeError
			return nil
		}

		if err := os.WriteFile(hookPath, []byte(content), 0o755); err != nil {
			fmt.Fprintf(stderr, "Error writing hook file: %v\n", err)
			exitCode = ExitRuntimeError
			return nil
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Installed suggestmsg %s hook at %s\n", hookName, hookPath)
		return nil
	},
}

var hookUninstallCmd = &cobra.Command{
	Use:   "uninstall",
	Short: "Remove the suggestmsg prepare-commit-msg hook",
	RunE: func(cmd *cobra.Command, args []string) error {
		stderr := cmd.ErrOrStderr()
		hookPath, err := getHookPath(cmd)
		if err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", err)
			exitCode = ExitRuntimeError
			return nil
		}

		existing, err := os.ReadFile(hookPath)
		if err != nil {
			if os.IsNotExist(err) {
				fmt.Fprintf(cmd.OutOrStdout(), "No %s hook found.\n", hookName)
				return nil
			}
			fmt.Fprintf(stderr, "Error reading hook file: %v\n", err)
			exitCode = ExitRuntimeError
			return nil
		}

		content := removeHookSection(string(existing))

		// Nothing but the shebang left: drop the file.
		trimmed := strings.TrimSpace(content)
		if trimmed == "" || trimmed == "#!/bin/sh" || trimmed == "#!/bin/bash" {
			if err := os.Remove(hookPath); err != nil {
				fmt.Fprintf(stderr, "Error removing hook file: %v\n", err)
				exitCode = ExitRuntimeError
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed suggestmsg %s hook at %s\n", hookName, hookPath)
			return nil
		}

		if err := os.WriteFile(hookPath, []byte(content), 0o755); err != nil {
			fmt.Fprintf(stderr, "Error writing hook file: %v\n", err)
			exitCode = ExitRuntimeError
			return nil
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Removed suggestmsg section from %s\n", hookPath)
		return nil
	},
}

func getHookPath(cmd *cobra.Command) (string, error) {
	repo := &gitctx.Repo{}
	dir, err := repo.HooksDir(cmdContext(cmd))
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, hookName), nil
}

// generateHookScript returns the marked hook section. Git passes the message
// file as $1 and the message source as $2; the hook only runs for plain
// `git commit`, where $2 is empty. A failed suggestion never blocks the commit.
func generateHookScript(interactive bool) string {
	command := `suggestmsg suggest --message-file "$1"`
	if !interactive {
		command += " --first"
	}

	var b strings.Builder
	b.WriteString(hookMarkerStart + "\n")
	b.WriteString("if [ -z \"$2\" ]; then\n")
	b.WriteString("  " + command + " || echo \"suggestmsg: no message suggested, continuing\" >&2\n")
	b.WriteString("fi\n")
	b.WriteString(hookMarkerEnd + "\n")
	return b.String()
}

func replaceHookSection(existing, section string) string {
	startIdx := strings.Index(existing, hookMarkerStart)
	endIdx := strings.Index(existing, hookMarkerEnd)

	if startIdx == -1 || endIdx == -1 {
		if !strings.HasSuffix(existing, "\n") {
			existing += "\n"
		}
		return existing + section
	}

	before := existing[:startIdx]
	after := existing[endIdx+len(hookMarkerEnd):]
	// Avoid doubling the newline after the end marker
	after = strings.TrimPrefix(after, "\n")
	return before + section + after
}

func removeHookSection(existing string) string {
	startIdx := strings.Index(existing, hookMarkerStart)
	endIdx := strings.Index(existing, hookMarkerEnd)

	if startIdx == -1 || endIdx == -1 {
		return existing
	}

	before := existing[:startIdx]
	after := existing[endIdx+len(hookMarkerEnd):]
	after = strings.TrimPrefix(after, "\n")

	return before + after
}

func init() {
	hookCmd.AddCommand(hookInstallCmd)
	hookCmd.AddCommand(hookUninstallCmd)
	hookInstallCmd.Flags().BoolVar(&hookInteractive, "interactive", false, "Open the picker from the hook instead of taking the top suggestion")
}
