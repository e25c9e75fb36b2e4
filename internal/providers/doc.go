// Package providers implements the Completer interface for the text
// completion endpoint.
//
// Only OpenAI-style completion APIs are supported: a JSON POST carrying the
// prompt and sampling parameters, answered with a list of choices that each
// expose a text field. Any other response shape is reported as an error.
// Requests are sent exactly once; authentication failures and rate limits
// surface as typed errors ([IsAuthError], [IsRateLimited]) for the CLI to
// report.
//
// Tests point the client at httptest servers through the baseURL field, so no
// live API requests are made.
package providers
