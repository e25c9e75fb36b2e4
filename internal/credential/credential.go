package credential

import (
	"context"
	"errors"
	"fmt"
	"os"
	"regexp"

	"github.com/dshills/suggestmsg/internal/state"
)

// StoreKey is the state key the API key is persisted under.
const StoreKey = "apiKey"

// Environment variables consulted before the store, in order.
var envKeys = []string{"SUGGESTMSG_API_KEY", "OPENAI_API_KEY"}

var (
	// ErrKeyRequired means no key was stored and none was entered.
	ErrKeyRequired = errors.New("OpenAI API key is required")
	// ErrKeyInvalid means the entered key does not look like an API key.
	ErrKeyInvalid = errors.New("invalid OpenAI API key")
)

var keyPattern = regexp.MustCompile(`^sk-\S+$`)

// Validate reports whether key has the shape of an API key: "sk-" followed
// by at least one non-whitespace character and nothing else.
func Validate(key string) error {
	if key == "" {
		return ErrKeyRequired
	}
	if !keyPattern.MatchString(key) {
		return ErrKeyInvalid
	}
	return nil
}

// Prompter asks the user for a secret value.
type Prompter interface {
	PromptSecret(ctx context.Context, label string) (string, error)
}

// Source says where a key came from.
type Source string

const (
	SourceNone  Source = "none"
	SourceEnv   Source = "env"
	SourceStore Source = "store"
)

// Status describes the key currently in effect.
type Status struct {
	Source Source `json:"source"`
	Masked string `json:"masked,omitempty"`
	EnvVar string `json:"envVar,omitempty"`
}

// Gate hands out the API key, asking for it once and remembering it.
type Gate struct {
	Store    state.Store
	Prompter Prompter
	// Getenv defaults to os.Getenv.
	Getenv func(string) string
}

// GetOrPrompt returns the key from the environment or the store, unchanged.
// Without one it prompts, validates the answer and persists it.
func (g *Gate) GetOrPrompt(ctx context.Context) (string, error) {
	if key, _ := g.fromEnv(); key != "" {
		return key, nil
	}

	key, ok, err := g.Store.Get(ctx, StoreKey)
	if err != nil {
		return "", fmt.Errorf("reading stored API key: %w", err)
	}
	if ok && key != "" {
		return key, nil
	}

	if g.Prompter == nil {
		return "", fmt.Errorf("%w (no terminal to ask for it; run `suggestmsg key set`)", ErrKeyRequired)
	}
	key, err = g.Prompter.PromptSecret(ctx, "Enter your OpenAI API key")
	if err != nil {
		return "", fmt.Errorf("reading API key: %w", err)
	}
	if err := g.Set(ctx, key); err != nil {
		return "", err
	}
	return key, nil
}

// Set validates key and persists it.
func (g *Gate) Set(ctx context.Context, key string) error {
	if err := Validate(key); err != nil {
		return err
	}
	if err := g.Store.Update(ctx, StoreKey, key); err != nil {
		return fmt.Errorf("saving API key: %w", err)
	}
	return nil
}

// Clear forgets the stored key. Keys from the environment are unaffected.
func (g *Gate) Clear(ctx context.Context) error {
	if err := g.Store.Delete(ctx, StoreKey); err != nil {
		return fmt.Errorf("removing API key: %w", err)
	}
	return nil
}

// Status reports which key GetOrPrompt would return without prompting.
func (g *Gate) Status(ctx context.Context) (Status, error) {
	if key, name := g.fromEnv(); key != "" {
		return Status{Source: SourceEnv, Masked: Mask(key), EnvVar: name}, nil
	}
	key, ok, err := g.Store.Get(ctx, StoreKey)
	if err != nil {
		return Status{}, fmt.Errorf("reading stored API key: %w", err)
	}
	if !ok || key == "" {
		return Status{Source: SourceNone}, nil
	}
	return Status{Source: SourceStore, Masked: Mask(key)}, nil
}

func (g *Gate) fromEnv() (string, string) {
	getenv := g.Getenv
	if getenv == nil {
		getenv = os.Getenv
	}
	for _, name := range envKeys {
		if v := getenv(name); v != "" {
			return v, name
		}
	}
	return "", ""
}

// Mask hides all but the last four characters of key.
func Mask(key string) string {
	const visible = 4
	r := []rune(key)
	if len(r) <= visible+3 {
		return "****"
	}
	return string(r[:3]) + "…" + string(r[len(r)-visible:])
}
