// Package suggest turns a diff into ranked commit message candidates.
//
// [BuildPrompt] renders the diff as a transcript of a shell session that
// stops inside an open git commit -m argument, so a completion model
// continues it with a message. [RankCandidates] folds the returned choices
// into distinct messages ordered by how often they were produced.
//
// [Engine] strings the steps together: key, diff with fallback from staged
// to unstaged changes, redaction, prompt, completion, ranking, selection and
// write-back.
package suggest
