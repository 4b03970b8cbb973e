package cli

import (
	"fmt"
	"io"
	"log"
	"strings"

	"github.com/spf13/cobra"

	"github.com/five82/quill/internal/app"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	ConfigPath string
	PrefsPath  string
	Verbose    bool
}

func (o *RootOptions) appOptions() app.Options {
	return app.Options{ConfigPath: o.ConfigPath, PrefsPath: o.PrefsPath}
}

// NewRootCommand creates the quill command. Without a subcommand it runs the TUI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "quill",
		Short: "Quill - a terminal client for the articles API",
		Long: `Quill signs in to an articles API and lets you list, write, edit
and delete articles from the terminal.

Run without a subcommand to start the interactive interface.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          noArgs,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// The TUI redirects the logger to its log file in app.Run.
			if opts.Verbose {
				log.SetOutput(cmd.ErrOrStderr())
			} else {
				log.SetOutput(io.Discard)
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.Run(cmd.Context(), opts.appOptions()); err != nil {
				return WrapExitError(ExitCommandError, "quill", err)
			}
			return nil
		},
	}

	cmd.SetFlagErrorFunc(func(c *cobra.Command, err error) error {
		return WrapExitError(ExitCommandError, "invalid flags", err)
	})

	cmd.PersistentFlags().StringVar(&opts.ConfigPath, "config", "", "config file (default ~/.config/quill/config.toml)")
	cmd.PersistentFlags().StringVar(&opts.PrefsPath, "prefs", "", "preferences file (default ~/.config/quill/prefs.toml)")
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "log to stderr")

	cmd.AddCommand(NewLoginCommand(opts))
	cmd.AddCommand(NewLogoutCommand(opts))
	cmd.AddCommand(NewListCommand(opts))
	cmd.AddCommand(NewMockServerCommand(opts))

	return cmd
}

// noArgs rejects positional arguments, including unknown subcommand names.
func noArgs(cmd *cobra.Command, args []string) error {
	if err := cobra.NoArgs(cmd, args); err != nil {
		return WrapExitError(ExitCommandError, "invalid arguments", err)
	}
	return nil
}

// requireFlags fails with ExitCommandError unless every named flag was set.
// It stands in for MarkFlagRequired, whose error carries no exit code.
func requireFlags(cmd *cobra.Command, names ...string) error {
	var missing []string
	for _, name := range names {
		if !cmd.Flags().Changed(name) {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return NewExitError(ExitCommandError, fmt.Sprintf("required flag(s) \"%s\" not set", strings.Join(missing, `", "`)))
	}
	return nil
}
