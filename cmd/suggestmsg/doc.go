// Suggestmsg suggests git commit messages with a text-completion model.
//
// It sends the staged diff (or the unstaged diff when nothing is staged)
// to the completion endpoint, ranks the returned messages by how often the
// model produced them and lets you pick one. The chosen message is printed,
// written to a commit message file, or committed directly.
//
// Usage:
//
//	suggestmsg                          # pick a message and print it
//	suggestmsg --prefix "fix: "         # every suggestion starts with "fix: "
//	suggestmsg --commit                 # run git commit with the chosen message
//	suggestmsg --print --format json    # list all ranked suggestions
//	suggestmsg key set                  # store the API key
//	suggestmsg hook install             # suggest from git's prepare-commit-msg hook
//
// See https://github.com/dshills/suggestmsg for full documentation.
package main
