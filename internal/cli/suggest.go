package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/dshills/suggestmsg/internal/cache"
	"github.com/dshills/suggestmsg/internal/config"
	"github.com/dshills/suggestmsg/internal/credential"
	"github.com/dshills/suggestmsg/internal/gitctx"
	"github.com/dshills/suggestmsg/internal/logging"
	"github.com/dshills/suggestmsg/internal/output"
	"github.com/dshills/suggestmsg/internal/picker"
	"github.com/dshills/suggestmsg/internal/providers"
	"github.com/dshills/suggestmsg/internal/state"
	"github.com/dshills/suggestmsg/internal/suggest"
)

// Suggest flags, shared by the root command and `suggest`.
var (
	flagPrefix      string
	flagCommit      bool
	flagMessageFile string
	flagFirst       bool
	flagPrint       bool
	flagFormat      string
	flagNoRedact    bool
	flagNoCache     bool
	flagModel       string
	flagBaseURL     string
)

func addSuggestFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&flagPrefix, "prefix", "", "Text the message must start with (e.g. \"fix: \")")
	cmd.Flags().BoolVar(&flagCommit, "commit", false, "Run git commit with the chosen message")
	cmd.Flags().StringVar(&flagMessageFile, "message-file", "", "Commit message file to read the prefix from and write the message to")
	cmd.Flags().BoolVar(&flagFirst, "first", false, "Take the top-ranked suggestion without asking")
	cmd.Flags().BoolVar(&flagPrint, "print", false, "Print all ranked suggestions instead of picking one")
	cmd.Flags().StringVar(&flagFormat, "format", "text", "Output format for --print (text, json)")
	cmd.Flags().BoolVar(&flagNoRedact, "no-redact", false, "Disable secret redaction (use with caution)")
	cmd.Flags().BoolVar(&flagNoCache, "no-cache", false, "Bypass the response cache")
	cmd.Flags().StringVar(&flagModel, "model", "", "Model name sent with the request")
	cmd.Flags().StringVar(&flagBaseURL, "base-url", "", "Completion endpoint URL")
}

func buildOverrides() map[string]string {
	m := make(map[string]string)
	if flagModel != "" {
		m["model"] = flagModel
	}
	if flagBaseURL != "" {
		m["baseURL"] = flagBaseURL
	}
	return m
}

var suggestCmd = &cobra.Command{
	Use:   "suggest",
	Short: "Suggest a commit message for the current changes",
	Args:  cobra.NoArgs,
	RunE:  runSuggest,
}

// session bundles what one suggest run needs besides flags. Tests replace
// newSession to avoid the terminal, the state database and the network.
type session struct {
	store        state.Store
	prompter     credential.Prompter
	newCompleter func(cfg config.Config) func(apiKey string) (providers.Completer, error)
	selector     func() suggest.Selector
	logger       *slog.Logger
	close        func()
}

var newSession = defaultSession

func defaultSession(cfg config.Config, stderr io.Writer) (*session, error) {
	dir, err := config.StateDir()
	if err != nil {
		return nil, err
	}
	store, err := state.Open(state.DefaultPath(dir))
	if err != nil {
		return nil, err
	}

	logger := logging.Discard()
	var logCloser io.Closer
	if path, err := config.LogPath(cfg); err == nil {
		if l, c, err := logging.Open(path, logging.DebugFromEnv()); err == nil {
			logger, logCloser = l, c
		} else {
			fmt.Fprintf(stderr, "Warning: diagnostics log unavailable: %v\n", err)
		}
	}

	prompter, ttyCloser := openPrompter(stderr)

	return &session{
		store:    store,
		prompter: prompter,
		newCompleter: func(cfg config.Config) func(string) (providers.Completer, error) {
			return func(apiKey string) (providers.Completer, error) {
				return providers.FromConfig(apiKey, cfg)
			}
		},
		selector: func() suggest.Selector {
			if !hasTTY() {
				return suggest.First
			}
			// Engine.Run fills in the prefix it resolved.
			return picker.Selector{}
		},
		logger: logger,
		close: func() {
			store.Close()
			if logCloser != nil {
				logCloser.Close()
			}
			if ttyCloser != nil {
				ttyCloser.Close()
			}
		},
	}, nil
}

// openPrompter returns a prompter on stdin when it is a terminal, otherwise
// on the controlling terminal. Without either there is no way to ask.
func openPrompter(stderr io.Writer) (credential.Prompter, io.Closer) {
	if term.IsTerminal(int(os.Stdin.Fd())) {
		return credential.TerminalPrompter{In: os.Stdin, Out: stderr}, nil
	}
	tty, err := os.OpenFile(picker.DefaultTTY, os.O_RDWR, 0)
	if err != nil {
		return nil, nil
	}
	return credential.TerminalPrompter{In: tty, Out: tty}, tty
}

func hasTTY() bool {
	tty, err := os.OpenFile(picker.DefaultTTY, os.O_RDWR, 0)
	if err != nil {
		return false
	}
	tty.Close()
	return true
}

func runSuggest(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(buildOverrides())
	if err != nil {
		return err
	}
	if _, err := output.GetWriter(flagFormat); err != nil {
		return err
	}
	stderr := cmd.ErrOrStderr()
	if flagNoRedact {
		cfg.Privacy.RedactSecrets = false
		fmt.Fprintln(stderr, "WARNING: secret redaction is disabled")
	}
	if flagNoCache {
		cfg.Cache.Enabled = false
	}

	sess, err := newSession(cfg, stderr)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		exitCode = ExitRuntimeError
		return nil
	}
	defer sess.close()

	logger, invocation := logging.WithInvocation(sess.logger)
	exitCode = suggestWith(cmd.Context(), cmd, cfg, sess, logger, invocation)
	return nil
}

func suggestWith(ctx context.Context, cmd *cobra.Command, cfg config.Config, sess *session, logger *slog.Logger, invocation string) int {
	if ctx == nil {
		ctx = context.Background()
	}
	stderr := cmd.ErrOrStderr()

	respCache, err := cache.New(cfg.Cache.Enabled, cfg.Cache.Dir, cfg.Cache.TTLSeconds)
	if err != nil {
		fmt.Fprintf(stderr, "Warning: response cache unavailable: %v\n", err)
		respCache, _ = cache.New(false, "", 0)
	}

	engine := &suggest.Engine{
		Config:       cfg,
		Keys:         &credential.Gate{Store: sess.store, Prompter: sess.prompter},
		Repo:         newRepo(cmd.OutOrStdout()),
		NewCompleter: sess.newCompleter(cfg),
		Cache:        respCache,
		Logger:       logger,
	}

	if flagPrint {
		report, err := printReport(ctx, engine, invocation)
		if err != nil {
			return reportError(stderr, logger, err)
		}
		if err := output.WriteReport(cmd.OutOrStdout(), report, flagFormat); err != nil {
			return reportError(stderr, logger, fmt.Errorf("writing output: %w", err))
		}
		return ExitSuccess
	}

	sel := sess.selector()
	if flagFirst {
		sel = suggest.First
	}
	msg, err := engine.Run(ctx, sel)
	if err != nil {
		return reportError(stderr, logger, err)
	}
	logger.Info("message chosen", "message", msg)
	return ExitSuccess
}

func newRepo(out io.Writer) *gitctx.Repo {
	return &gitctx.Repo{
		PrefixFlag:  flagPrefix,
		MessageFile: flagMessageFile,
		Commit:      flagCommit,
		Out:         out,
	}
}

func printReport(ctx context.Context, engine *suggest.Engine, invocation string) (*output.Report, error) {
	inv, err := engine.Prepare(ctx)
	if err != nil {
		return nil, err
	}
	candidates, err := inv.Load(ctx, 0)
	if err != nil {
		return nil, err
	}
	source := "staged"
	if !inv.Staged {
		source = "unstaged"
	}
	return &output.Report{
		Tool:       "suggestmsg",
		Version:    version,
		Invocation: invocation,
		Source:     source,
		Prefix:     inv.Prefix,
		Redactions: inv.Redactions,
		Candidates: candidates,
	}, nil
}

// reportError tells the user what went wrong and picks the exit code.
// Unexpected failures are also written to the diagnostics log with their
// error chain.
func reportError(w io.Writer, logger *slog.Logger, err error) int {
	switch {
	case errors.Is(err, suggest.ErrNoChanges):
		fmt.Fprintln(w, err.Error())
		return ExitSuccess
	case errors.Is(err, suggest.ErrNoSuggestions):
		fmt.Fprintln(w, "No suggestions returned. Nothing to suggest")
		return ExitSuccess
	case errors.Is(err, suggest.ErrCancelled), errors.Is(err, context.Canceled):
		fmt.Fprintln(w, "Cancelled.")
		return ExitCancelled
	case errors.Is(err, credential.ErrKeyRequired), errors.Is(err, credential.ErrKeyInvalid):
		logger.Warn("credential rejected", "error", err.Error())
		fmt.Fprintf(w, "Error: %v\n", err)
		return ExitAuthError
	case providers.IsAuthError(err):
		logging.LogFailure(logger, err)
		fmt.Fprintf(w, "Error: %v\n(run `suggestmsg key set` to replace the stored key)\n", err)
		return ExitAuthError
	default:
		logging.LogFailure(logger, err)
		fmt.Fprintf(w, "Unable to suggest commit message: %v\n", err)
		return ExitRuntimeError
	}
}

func init() {
	addSuggestFlags(suggestCmd)
}
