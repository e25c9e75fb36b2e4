// Package redact removes secrets from a diff before it is embedded in a
// completion prompt.
//
// Detection uses regex heuristics covering common secret shapes: API keys,
// JWTs, private keys, AWS credentials, bearer tokens and provider-specific
// tokens.
//
// Files whose paths match configured glob patterns keep their diff header
// but have every content line replaced with a single [REDACTED] marker.
package redact
