// Package cli wires together the Cobra command tree for the suggestmsg binary.
//
// The root command (and its `suggest` alias) asks for commit message
// suggestions; `key`, `config`, `cache` and `hook` manage the stored API key,
// the config file, the response cache and the prepare-commit-msg hook.
// Handlers return fixed exit codes so the hook and scripts can react to them.
package cli
