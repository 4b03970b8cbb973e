package cli

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"

	"github.com/five82/quill/internal/mockapi"
)

// MockServerOptions holds flags for the mock-server command.
type MockServerOptions struct {
	*RootOptions
	Addr string
	Seed string
}

// NewMockServerCommand creates the mock-server command.
func NewMockServerCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &MockServerOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "mock-server",
		Short: "Serve an in-memory articles API",
		Long: `Serve /api/login and /api/articles from memory, for development and
demos. Any username of 3+ characters with a password of 8+ logs in.

Articles come from the YAML seed file when given, otherwise from a small
built-in set. Changes are lost when the server stops.

Examples:
  quill mock-server
  quill mock-server --addr 127.0.0.1:9000 --seed testdata/articles.yaml -v`,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          noArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMockServer(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Addr, "addr", ":9000", "listen address")
	cmd.Flags().StringVar(&opts.Seed, "seed", "", "YAML file with initial articles")

	return cmd
}

func runMockServer(opts *MockServerOptions, cmd *cobra.Command) error {
	seed := mockapi.DefaultSeed()
	if opts.Seed != "" {
		loaded, err := mockapi.LoadSeed(opts.Seed)
		if err != nil {
			return WrapExitError(ExitCommandError, "load seed", err)
		}
		seed = loaded
	}

	srv := mockapi.New(seed)
	fmt.Fprintf(cmd.OutOrStdout(), "mock api listening on %s with %d articles\n", opts.Addr, len(seed.Articles))
	log.Printf("mock api starting on %s", opts.Addr)

	if err := srv.Serve(cmd.Context(), opts.Addr); err != nil {
		return WrapExitError(ExitFailure, "mock api stopped", err)
	}
	return nil
}
