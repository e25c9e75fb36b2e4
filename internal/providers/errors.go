package providers

import (
	"errors"
	"fmt"
)

type rateLimitError struct {
	message string
}

func (e *rateLimitError) Error() string {
	if e.message == "" {
		return "rate limited"
	}
	return "rate limited: " + e.message
}

type authError struct {
	message string
}

func (e *authError) Error() string {
	return "authentication error: " + e.message
}

// APIError is a non-2xx response other than auth failures and rate limits.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("API error (status %d): %s", e.StatusCode, e.Message)
}

// IsAuthError checks if an error is an authentication error.
func IsAuthError(err error) bool {
	var ae *authError
	return errors.As(err, &ae)
}

// IsRateLimited checks if the endpoint refused the request with 429.
func IsRateLimited(err error) bool {
	var re *rateLimitError
	return errors.As(err, &re)
}
