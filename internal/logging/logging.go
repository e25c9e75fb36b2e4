// Package logging writes the suggestmsg diagnostics log: JSON lines with the
// prompt sent, the raw response received and any failure with its error
// chain and the stack where it was reported.
package logging

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"runtime/debug"

	"github.com/google/uuid"
)

// Config configures the structured logger.
type Config struct {
	// Output is the writer for log output (default: os.Stderr)
	Output io.Writer

	// Level is the minimum log level (default: LevelInfo)
	Level slog.Level

	// Debug enables debug level logging (overrides Level)
	Debug bool
}

// DefaultConfig returns the default logging configuration.
func DefaultConfig() *Config {
	return &Config{
		Output: os.Stderr,
		Level:  slog.LevelInfo,
	}
}

// New creates a JSON-lines logger. Entries look like
//
//	{"ts":"2026-01-15T10:30:00Z","level":"INFO","msg":"prompt","invocation":"…","prompt":"…"}
func New(cfg *Config) *slog.Logger {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	output := cfg.Output
	if output == nil {
		output = os.Stderr
	}

	level := cfg.Level
	if cfg.Debug {
		level = slog.LevelDebug
	}

	opts := &slog.HandlerOptions{
		Level: level,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey {
				a.Key = "ts"
			}
			return a
		},
	}
	return slog.New(slog.NewJSONHandler(output, opts))
}

// DebugFromEnv reports whether SUGGESTMSG_DEBUG=1 is set.
func DebugFromEnv() bool {
	return os.Getenv("SUGGESTMSG_DEBUG") == "1"
}

// Open appends to the log file at path, creating it and its directory when
// missing. The returned closer releases the file.
func Open(path string, debug bool) (*slog.Logger, io.Closer, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, nil, fmt.Errorf("creating log directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return nil, nil, fmt.Errorf("opening log file: %w", err)
	}
	return New(&Config{Output: f, Debug: debug}), f, nil
}

// Discard returns a logger that drops everything.
func Discard() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

// WithInvocation tags every entry of logger with a fresh invocation ID and
// returns the ID.
func WithInvocation(logger *slog.Logger) (*slog.Logger, string) {
	id := uuid.NewString()
	return logger.With("invocation", id), id
}

// LogPrompt records the prompt about to be sent.
func LogPrompt(logger *slog.Logger, prompt string) {
	logger.Info("prompt", "prompt", prompt)
}

// LogResponse records the undecoded completion response.
func LogResponse(logger *slog.Logger, body []byte, cached bool) {
	logger.Info("response", "body", string(body), "cached", cached)
}

// LogFailure records err with its wrap chain. Each chain entry names the
// error type and its message, outermost first. report_site is the stack of
// the caller reporting the failure, not of the code that created err.
func LogFailure(logger *slog.Logger, err error) {
	logger.Error("invocation failed",
		"error", err.Error(),
		"chain", errorChain(err),
		"report_site", string(debug.Stack()),
	)
}

// errorChain walks err through Unwrap, including errors joined with
// errors.Join, and returns one "type: message" entry per error.
func errorChain(err error) []string {
	var chain []string
	var walk func(error)
	walk = func(e error) {
		for e != nil {
			chain = append(chain, fmt.Sprintf("%T: %s", e, e.Error()))
			if joined, ok := e.(interface{ Unwrap() []error }); ok {
				for _, inner := range joined.Unwrap() {
					walk(inner)
				}
				return
			}
			e = errors.Unwrap(e)
		}
	}
	walk(err)
	return chain
}
