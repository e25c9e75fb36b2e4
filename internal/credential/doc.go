// Package credential guards access to the completion API key.
//
// A [Gate] returns the key from SUGGESTMSG_API_KEY or OPENAI_API_KEY, then
// from the persistent [state.Store]; only when both are empty does it prompt.
// Prompted keys must match "sk-" followed by non-whitespace and are stored
// without expiry. Stored keys are never re-validated.
package credential
