// Package cache keeps completion responses on disk so that asking again for
// the same diff does not cost another request.
//
// Each entry is one JSON file named by the SHA-256 of the endpoint, model and
// prompt. Entries carry their own expiry; expired ones are dropped on read or
// by Prune. Writes go through a temp file and a rename.
//
// The default directory is $XDG_CACHE_HOME/suggestmsg or the OS equivalent.
// Prompts are built from the redacted diff, so secrets never reach the key.
package cache
