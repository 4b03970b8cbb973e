package cli

import (
	"fmt"
	"log"
	"strings"

	"github.com/spf13/cobra"

	"github.com/five82/quill/internal/app"
	"github.com/five82/quill/internal/articles"
	"github.com/five82/quill/internal/prefs"
)

// LoginOptions holds flags for the login command.
type LoginOptions struct {
	*RootOptions
	Username string
	Password string
}

// NewLoginCommand creates the login command.
func NewLoginCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &LoginOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in and store the session token",
		Long: `Exchange a username and password for a token and store it in the
session file, so later commands and the interface start signed in.

Examples:
  quill login --username alice --password 'correct horse'`,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          noArgs,
		PreRunE: func(cmd *cobra.Command, args []string) error {
			return requireFlags(cmd, "username", "password")
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLogin(opts, cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.Username, "username", "u", "", "username (required)")
	cmd.Flags().StringVarP(&opts.Password, "password", "p", "", "password (required)")

	return cmd
}

func runLogin(opts *LoginOptions, cmd *cobra.Command) error {
	creds := articles.Credentials{Username: strings.TrimSpace(opts.Username), Password: opts.Password}
	if !creds.Complete() {
		return NewExitError(ExitCommandError, "username needs at least 3 characters and password at least 8")
	}

	svc, err := app.Bootstrap(opts.appOptions())
	if err != nil {
		return WrapExitError(ExitCommandError, "startup failed", err)
	}

	snap := svc.Controller.Login(cmd.Context(), creds)
	if snap.LastError != nil {
		return WrapExitError(ExitFailure, snap.Message, snap.LastError)
	}

	if err := prefs.Update(opts.PrefsPath, func(p *prefs.Prefs) { p.LastUsername = creds.Username }); err != nil {
		log.Printf("save prefs: %v", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), snap.Message)
	return nil
}

// NewLogoutCommand creates the logout command.
func NewLogoutCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "logout",
		Short:         "Forget the stored session token",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          noArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := app.Bootstrap(rootOpts.appOptions())
			if err != nil {
				return WrapExitError(ExitCommandError, "startup failed", err)
			}
			snap := svc.Controller.Logout()
			if snap.LastError != nil {
				return WrapExitError(ExitFailure, snap.Message, snap.LastError)
			}
			fmt.Fprintln(cmd.OutOrStdout(), snap.Message)
			return nil
		},
	}
}
