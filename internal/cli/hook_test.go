package cli

import (
	"strings"
	"testing"
)

func TestGenerateHookScript(t *testing.T) {
	script := generateHookScript(false)

	if !strings.Contains(script, hookMarkerStart) {
		t.Error("Script missing start marker")
	}
	if !strings.Contains(script, hookMarkerEnd) {
		t.Error("Script missing end marker")
	}
	if !strings.Contains(script, `suggestmsg suggest --message-file "$1" --first`) {
		t.Error("Script missing suggest command with message file")
	}
	if !strings.Contains(script, `if [ -z "$2" ]; then`) {
		t.Error("Script should only run for plain commits")
	}
	if !strings.Contains(script, "|| echo") {
		t.Error("Script should never fail the commit")
	}
}

func TestGenerateHookScript_Interactive(t *testing.T) {
	script := generateHookScript(true)

	if strings.Contains(script, "--first") {
		t.Error("Interactive hook should not pass --first")
	}
	if !strings.Contains(script, `--message-file "$1"`) {
		t.Error("Interactive hook still needs the message file")
	}
}

func TestReplaceHookSection_NoExisting(t *testing.T) {
	existing := "#!/bin/sh\nsome-other-hook\n"
	section := generateHookScript(false)

	result := replaceHookSection(existing, section)

	if !strings.HasPrefix(result, "#!/bin/sh\nsome-other-hook\n") {
		t.Error("Existing content should be preserved")
	}
	if !strings.HasSuffix(result, section) {
		t.Error("New section should be appended")
	}
}

func TestReplaceHookSection_ExistingSection(t *testing.T) {
	oldSection := generateHookScript(true)
	existing := "#!/bin/sh\nbefore\n" + oldSection + "after\n"
	newSection := generateHookScript(false)

	result := replaceHookSection(existing, newSection)

	if !strings.Contains(result, "before") {
		t.Error("Content before the section should be preserved")
	}
	if !strings.Contains(result, "after") {
		t.Error("Content after the section should be preserved")
	}
	if !strings.Contains(result, "--first") {
		t.Error("New section should be in place")
	}
	if strings.Count(result, hookMarkerStart) != 1 {
		t.Errorf("expected exactly one section, got:\n%s", result)
	}
}

func TestRemoveHookSection(t *testing.T) {
	section := generateHookScript(false)
	existing := "#!/bin/sh\nbefore\n" + section + "after\n"

	result := removeHookSection(existing)

	if result != "#!/bin/sh\nbefore\nafter\n" {
		t.Errorf("removeHookSection() = %q", result)
	}
}

func TestRemoveHookSection_NoSection(t *testing.T) {
	existing := "#!/bin/sh\nsome-hook\n"
	result := removeHookSection(existing)
	if result != existing {
		t.Error("Content without a suggestmsg section should be unchanged")
	}
}

func TestReplaceHookSection_NoTrailingNewline(t *testing.T) {
	existing := "#!/bin/sh\nsome-hook"
	section := generateHookScript(false)

	result := replaceHookSection(existing, section)

	if result != existing+"\n"+section {
		t.Errorf("replaceHookSection() = %q", result)
	}
}
