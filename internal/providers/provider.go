package providers

import (
	"context"
	"encoding/json"
)

// CompletionRequest contains the data sent to a completion endpoint.
type CompletionRequest struct {
	Prompt      string
	MaxTokens   int
	N           int
	Stop        []string
	Temperature float64
}

// CompletionResponse contains the raw choices returned by the endpoint.
type CompletionResponse struct {
	Choices []string
	// Body is the undecoded response, kept for the diagnostics log.
	Body json.RawMessage
}

// Completer is the provider abstraction interface.
type Completer interface {
	Complete(ctx context.Context, req CompletionRequest) (CompletionResponse, error)
	Name() string
}
