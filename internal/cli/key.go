package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/dshills/suggestmsg/internal/config"
	"github.com/dshills/suggestmsg/internal/credential"
	"github.com/dshills/suggestmsg/internal/state"
)

var keyCmd = &cobra.Command{
	Use:   "key",
	Short: "Manage the stored API key",
}

var flagKeyJSON bool

// openGate opens the persistent store behind a credential gate. Tests
// replace it with an in-memory store.
var openGate = func(stderr io.Writer) (*credential.Gate, func(), error) {
	dir, err := config.StateDir()
	if err != nil {
		return nil, nil, err
	}
	store, err := state.Open(state.DefaultPath(dir))
	if err != nil {
		return nil, nil, err
	}
	prompter, tty := openPrompter(stderr)
	closeFn := func() {
		store.Close()
		if tty != nil {
			tty.Close()
		}
	}
	return &credential.Gate{Store: store, Prompter: prompter}, closeFn, nil
}

var keySetCmd = &cobra.Command{
	Use:   "set [key]",
	Short: "Store an API key, prompting for it when not given",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		gate, closeFn, err := openGate(cmd.ErrOrStderr())
		if err != nil {
			return err
		}
		defer closeFn()

		ctx := cmdContext(cmd)
		key := ""
		if len(args) == 1 {
			key = args[0]
		} else {
			if gate.Prompter == nil {
				fmt.Fprintln(cmd.ErrOrStderr(), "Error: no terminal to read the key from; pass it as an argument")
				exitCode = ExitUsageError
				return nil
			}
			key, err = gate.Prompter.PromptSecret(ctx, "API key")
			if err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
				exitCode = ExitCancelled
				return nil
			}
		}

		if err := gate.Set(ctx, key); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
			exitCode = ExitAuthError
			return nil
		}
		fmt.Fprintf(cmd.OutOrStdout(), "API key stored (%s).\n", credential.Mask(key))
		return nil
	},
}

var keyClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Forget the stored API key",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		gate, closeFn, err := openGate(cmd.ErrOrStderr())
		if err != nil {
			return err
		}
		defer closeFn()

		if err := gate.Clear(cmdContext(cmd)); err != nil {
			return fmt.Errorf("clearing key: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Stored API key removed.")
		return nil
	},
}

var keyStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show where the API key comes from",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		gate, closeFn, err := openGate(cmd.ErrOrStderr())
		if err != nil {
			return err
		}
		defer closeFn()

		st, err := gate.Status(cmdContext(cmd))
		if err != nil {
			return fmt.Errorf("reading key status: %w", err)
		}

		out := cmd.OutOrStdout()
		if flagKeyJSON {
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(st)
		}
		switch st.Source {
		case credential.SourceEnv:
			fmt.Fprintf(out, "Using %s from the environment (%s)\n", st.EnvVar, st.Masked)
		case credential.SourceStore:
			fmt.Fprintf(out, "Using stored key (%s)\n", st.Masked)
		default:
			fmt.Fprintln(out, "No API key configured. You will be asked for one on the next run.")
		}
		return nil
	},
}

func cmdContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

func init() {
	keyStatusCmd.Flags().BoolVar(&flagKeyJSON, "json", false, "Print status as JSON")
	keyCmd.AddCommand(keySetCmd)
	keyCmd.AddCommand(keyClearCmd)
	keyCmd.AddCommand(keyStatusCmd)
}
