// Package gitctx is the source-control side of suggestmsg.
//
// A [Repo] reads staged and unstaged diffs by shelling out to git, derives the
// message prefix from a flag or from the commit message file git passes to
// the prepare-commit-msg hook, and writes the chosen message back to that
// file, to git commit, or to stdout.
//
// [SplitSections], [SectionPath] and [MatchesAny] let callers treat a diff
// file by file.
package gitctx
