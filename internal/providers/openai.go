package providers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/dshills/suggestmsg/internal/config"
)

// OpenAI implements the Completer interface for OpenAI's text completion API.
type OpenAI struct {
	apiKey  string
	model   string
	baseURL string
	client  *http.Client
}

// NewOpenAI creates a new OpenAI provider. A zero timeout leaves the request
// bounded only by ctx.
func NewOpenAI(apiKey, baseURL, model string, timeout time.Duration) (*OpenAI, error) {
	if apiKey == "" {
		return nil, errors.New("API key is empty")
	}
	if baseURL == "" {
		baseURL = config.DefaultBaseURL
	}
	return &OpenAI{
		apiKey:  apiKey,
		model:   model,
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
	}, nil
}

// FromConfig creates an OpenAI provider from the effective configuration.
func FromConfig(apiKey string, cfg config.Config) (*OpenAI, error) {
	return NewOpenAI(apiKey, cfg.BaseURL, cfg.Model, time.Duration(cfg.TimeoutSeconds)*time.Second)
}

func (o *OpenAI) Name() string { return "openai" }

// Complete sends a single completion request. It never retries.
func (o *OpenAI) Complete(ctx context.Context, req CompletionRequest) (CompletionResponse, error) {
	body := openaiRequest{
		Model:       o.model,
		Prompt:      req.Prompt,
		MaxTokens:   req.MaxTokens,
		N:           req.N,
		Stop:        req.Stop,
		Temperature: req.Temperature,
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return CompletionResponse{}, fmt.Errorf("marshaling request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, o.baseURL, bytes.NewReader(payload))
	if err != nil {
		return CompletionResponse{}, fmt.Errorf("creating request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+o.apiKey)

	httpResp, err := o.client.Do(httpReq)
	if err != nil {
		return CompletionResponse{}, fmt.Errorf("sending request: %w", err)
	}
	defer httpResp.Body.Close()

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return CompletionResponse{}, fmt.Errorf("reading response: %w", err)
	}

	if err := statusError(httpResp.StatusCode, respBody); err != nil {
		return CompletionResponse{}, err
	}

	choices, err := parseChoices(respBody)
	if err != nil {
		return CompletionResponse{}, err
	}
	return CompletionResponse{Choices: choices, Body: respBody}, nil
}

func statusError(status int, body []byte) error {
	switch {
	case status == http.StatusTooManyRequests:
		return &rateLimitError{message: apiMessage(body)}
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return &authError{message: apiMessage(body)}
	case status < 200 || status > 299:
		return &APIError{StatusCode: status, Message: apiMessage(body)}
	}
	return nil
}

// parseChoices accepts only a body with a choices array whose entries all
// carry a text field.
func parseChoices(body []byte) ([]string, error) {
	var result openaiResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("parsing response: %w", err)
	}
	if result.Choices == nil {
		return nil, errors.New("parsing response: no choices field")
	}
	choices := make([]string, 0, len(*result.Choices))
	for i, c := range *result.Choices {
		if c.Text == nil {
			return nil, fmt.Errorf("parsing response: choice %d has no text", i)
		}
		choices = append(choices, *c.Text)
	}
	return choices, nil
}

// apiMessage extracts error.message from an API error body, falling back to
// the raw body.
func apiMessage(body []byte) string {
	var e openaiErrorBody
	if err := json.Unmarshal(body, &e); err == nil && e.Error.Message != "" {
		return e.Error.Message
	}
	return string(bytes.TrimSpace(body))
}

type openaiRequest struct {
	Model       string   `json:"model,omitempty"`
	Prompt      string   `json:"prompt"`
	MaxTokens   int      `json:"max_tokens"`
	N           int      `json:"n"`
	Stop        []string `json:"stop"`
	Temperature float64  `json:"temperature"`
}

type openaiResponse struct {
	Choices *[]openaiChoice `json:"choices"`
}

type openaiChoice struct {
	Text *string `json:"text"`
}

type openaiErrorBody struct {
	Error struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error"`
}
