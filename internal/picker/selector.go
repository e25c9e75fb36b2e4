package picker

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/dshills/suggestmsg/internal/suggest"
)

// DefaultTTY is the terminal the picker draws on, so that stdout stays free
// for the chosen message.
const DefaultTTY = "/dev/tty"

// Selector is the interactive suggest.Selector.
type Selector struct {
	// Prefix is shown in the header.
	Prefix string
	// TTYPath overrides DefaultTTY.
	TTYPath string
	// Input and Output, when both set, replace the terminal.
	Input  io.Reader
	Output io.Writer
}

// WithPrefix returns a copy of s showing prefix in the header.
func (s Selector) WithPrefix(prefix string) suggest.Selector {
	s.Prefix = prefix
	return s
}

// Select runs the picker until the user accepts or dismisses it. Dismissal
// cancels the in-flight request and returns suggest.ErrCancelled. Accepting
// an empty result returns suggest.ErrNoSuggestions. A failed request ends the
// picker and returns the request error.
func (s Selector) Select(ctx context.Context, load suggest.LoadFunc) (string, error) {
	in, out := s.Input, s.Output
	if in == nil || out == nil {
		path := s.TTYPath
		if path == "" {
			path = DefaultTTY
		}
		tty, err := os.OpenFile(path, os.O_RDWR, 0)
		if err != nil {
			return "", fmt.Errorf("opening terminal: %w", err)
		}
		defer tty.Close()
		lipgloss.SetColorProfile(termenv.NewOutput(tty).ColorProfile())
		in, out = tty, tty
	}

	model := NewModel(ctx, load).WithPrefix(s.Prefix)
	p := tea.NewProgram(model,
		tea.WithContext(ctx),
		tea.WithInput(in),
		tea.WithOutput(out),
	)
	final, err := p.Run()
	if err != nil {
		if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			return "", suggest.ErrCancelled
		}
		return "", fmt.Errorf("running picker: %w", err)
	}

	m, ok := final.(Model)
	if !ok {
		return "", fmt.Errorf("unexpected picker model %T", final)
	}
	m.cancelInflight()
	return outcome(m)
}

// outcome maps the final model to what Select returns.
func outcome(m Model) (string, error) {
	if err := m.Err(); err != nil {
		return "", err
	}
	if label, ok := m.Result(); ok {
		return label, nil
	}
	if m.Empty() {
		return "", suggest.ErrNoSuggestions
	}
	return "", suggest.ErrCancelled
}
