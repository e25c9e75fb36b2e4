package suggest

import (
	"context"
	"errors"
)

var (
	// ErrNoChanges means neither the index nor the working tree has changes.
	ErrNoChanges = errors.New("No changes to commit. Nothing to suggest")
	// ErrNoSuggestions means the API answered with zero choices.
	ErrNoSuggestions = errors.New("no suggestions returned")
	// ErrCancelled means the user dismissed the selection.
	ErrCancelled = errors.New("selection cancelled")
)

// SourceControl reads the diff and the typed prefix, and receives the chosen
// message.
type SourceControl interface {
	Diff(ctx context.Context, staged bool) (string, error)
	Prefix() (string, error)
	SetMessage(ctx context.Context, msg string) error
}

// KeyProvider returns the API key, asking the user for it if needed.
type KeyProvider interface {
	GetOrPrompt(ctx context.Context) (string, error)
}

// ResponseCache stores raw completion choices by key.
type ResponseCache interface {
	Get(key string) ([]string, bool)
	Put(key string, choices []string) error
}

// LoadFunc fetches ranked candidates. Attempt 0 is the first load; higher
// attempts are regenerations and skip the response cache.
type LoadFunc func(ctx context.Context, attempt int) ([]Candidate, error)

// Selector presents candidates and returns the chosen label. It returns
// ErrCancelled when the user picks nothing.
type Selector interface {
	Select(ctx context.Context, load LoadFunc) (string, error)
}

// PrefixSelector is a Selector that shows the message prefix. Engine.Run
// hands it the prefix resolved from the flag or the message file.
type PrefixSelector interface {
	Selector
	WithPrefix(prefix string) Selector
}

// SelectorFunc adapts a function to Selector.
type SelectorFunc func(ctx context.Context, load LoadFunc) (string, error)

func (f SelectorFunc) Select(ctx context.Context, load LoadFunc) (string, error) {
	return f(ctx, load)
}

// First selects the top-ranked candidate without asking.
var First Selector = SelectorFunc(func(ctx context.Context, load LoadFunc) (string, error) {
	candidates, err := load(ctx, 0)
	if err != nil {
		return "", err
	}
	if len(candidates) == 0 {
		return "", ErrNoSuggestions
	}
	return candidates[0].Label, nil
})
