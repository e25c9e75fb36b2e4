package suggest

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/dshills/suggestmsg/internal/cache"
	"github.com/dshills/suggestmsg/internal/config"
	"github.com/dshills/suggestmsg/internal/logging"
	"github.com/dshills/suggestmsg/internal/providers"
	"github.com/dshills/suggestmsg/internal/redact"
)

// Engine runs one suggestion invocation against its collaborators.
type Engine struct {
	Config config.Config
	Keys   KeyProvider
	Repo   SourceControl
	// NewCompleter builds the completion client once the key is known.
	NewCompleter func(apiKey string) (providers.Completer, error)
	// Cache is optional.
	Cache  ResponseCache
	Logger *slog.Logger
}

// Invocation holds everything needed to request candidates for one prompt.
type Invocation struct {
	Prefix     string
	Prompt     string
	Staged     bool
	Redactions int

	cfg       config.Config
	cache     ResponseCache
	completer providers.Completer
	logger    *slog.Logger
}

// Prepare obtains the key and the diff and builds the prompt. It returns
// ErrNoChanges, before any request is made, when there is nothing to describe.
func (e *Engine) Prepare(ctx context.Context) (*Invocation, error) {
	logger := e.Logger
	if logger == nil {
		logger = logging.Discard()
	}

	key, err := e.Keys.GetOrPrompt(ctx)
	if err != nil {
		return nil, err
	}

	staged := true
	diff, err := e.Repo.Diff(ctx, true)
	if err != nil {
		return nil, fmt.Errorf("reading staged changes: %w", err)
	}
	if strings.TrimSpace(diff) == "" {
		staged = false
		diff, err = e.Repo.Diff(ctx, false)
		if err != nil {
			return nil, fmt.Errorf("reading unstaged changes: %w", err)
		}
	}
	if strings.TrimSpace(diff) == "" {
		return nil, ErrNoChanges
	}

	prefix, err := e.Repo.Prefix()
	if err != nil {
		return nil, fmt.Errorf("reading message prefix: %w", err)
	}

	var redactions int
	if e.Config.Privacy.RedactSecrets {
		var counts redact.Counts
		diff, counts = redact.DiffCounts(diff, e.Config.Privacy.RedactPaths)
		if redactions = counts.Total(); redactions > 0 {
			logger.Info("redacted diff", "count", redactions, "kinds", map[string]int(counts))
		}
	}

	prompt := BuildPromptLimit(diff, prefix, e.Config.MaxDiffChars)
	logging.LogPrompt(logger, prompt)

	completer, err := e.NewCompleter(key)
	if err != nil {
		return nil, fmt.Errorf("creating completion client: %w", err)
	}

	return &Invocation{
		Prefix:     prefix,
		Prompt:     prompt,
		Staged:     staged,
		Redactions: redactions,
		cfg:        e.Config,
		cache:      e.Cache,
		completer:  completer,
		logger:     logger,
	}, nil
}

// Load requests completions for the prompt and ranks them. It implements
// LoadFunc.
func (inv *Invocation) Load(ctx context.Context, attempt int) ([]Candidate, error) {
	key := cache.BuildCacheKey(inv.cfg.BaseURL, inv.cfg.Model, inv.Prompt)
	if inv.cache != nil && attempt == 0 {
		if choices, ok := inv.cache.Get(key); ok {
			body, _ := json.Marshal(choices)
			logging.LogResponse(inv.logger, body, true)
			return RankCandidates(inv.Prefix, choices), nil
		}
	}

	resp, err := inv.completer.Complete(ctx, providers.CompletionRequest{
		Prompt:      inv.Prompt,
		MaxTokens:   inv.cfg.MaxTokens,
		N:           inv.cfg.N,
		Stop:        inv.cfg.Stop,
		Temperature: inv.cfg.Temperature,
	})
	if err != nil {
		return nil, fmt.Errorf("completion request: %w", err)
	}
	logging.LogResponse(inv.logger, resp.Body, false)

	if inv.cache != nil {
		if err := inv.cache.Put(key, resp.Choices); err != nil {
			inv.logger.Warn("caching response", "error", err.Error())
		}
	}
	return RankCandidates(inv.Prefix, resp.Choices), nil
}

// Run prepares an invocation, lets sel pick a message and writes it back.
// It returns the chosen message.
func (e *Engine) Run(ctx context.Context, sel Selector) (string, error) {
	inv, err := e.Prepare(ctx)
	if err != nil {
		return "", err
	}
	if ps, ok := sel.(PrefixSelector); ok {
		sel = ps.WithPrefix(inv.Prefix)
	}
	msg, err := sel.Select(ctx, inv.Load)
	if err != nil {
		return "", err
	}
	if err := e.Repo.SetMessage(ctx, msg); err != nil {
		return "", fmt.Errorf("writing commit message: %w", err)
	}
	return msg, nil
}
