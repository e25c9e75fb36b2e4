// Package output prints ranked commit message candidates for scripts and
// the --print flag.
//
// Two formats are supported:
//   - text: one candidate per line with its count (default)
//   - json: the full [Report]
//
// Use [GetWriter] to obtain a [Writer] for a format string, or
// [WriteReport] to write straight to a destination.
package output
