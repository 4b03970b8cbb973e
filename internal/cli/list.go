package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/five82/quill/internal/app"
	"github.com/five82/quill/internal/articles"
)

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// ListOptions holds flags for the list command.
type ListOptions struct {
	*RootOptions
	Format string
}

// ListResult is the JSON shape printed by list --format json.
type ListResult struct {
	Message  string             `json:"message"`
	Articles []articles.Article `json:"articles"`
}

// NewListCommand creates the list command.
func NewListCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ListOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Print the articles",
		Long: `Fetch the article list with the stored session token.

Examples:
  quill list
  quill list --format json`,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          noArgs,
		PreRunE: func(cmd *cobra.Command, args []string) error {
			if !isValidFormat(opts.Format) {
				return NewExitError(ExitCommandError, fmt.Sprintf("invalid format %q: must be one of %v", opts.Format, ValidFormats))
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Format, "format", "text", "output format (json|text)")

	return cmd
}

func runList(opts *ListOptions, cmd *cobra.Command) error {
	svc, err := app.Bootstrap(opts.appOptions())
	if err != nil {
		return WrapExitError(ExitCommandError, "startup failed", err)
	}
	if _, ok := svc.Session.Get(); !ok {
		return NewExitError(ExitFailure, "not logged in; run quill login first")
	}

	snap := svc.Controller.GetArticles(cmd.Context())
	if snap.LastError != nil {
		return WrapExitError(ExitFailure, snap.Message, snap.LastError)
	}

	if opts.Format == "json" {
		list := snap.Articles
		if list == nil {
			list = []articles.Article{}
		}
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(ListResult{Message: snap.Message, Articles: list})
	}
	writeArticlesText(cmd.OutOrStdout(), snap.Articles)
	return nil
}

func writeArticlesText(w io.Writer, list []articles.Article) {
	if len(list) == 0 {
		fmt.Fprintln(w, "No articles.")
		return
	}
	idWidth, topicWidth := len("ID"), len("TOPIC")
	for _, a := range list {
		idWidth = max(idWidth, len(fmt.Sprint(a.ID)))
		topicWidth = max(topicWidth, len(a.Topic))
	}
	fmt.Fprintf(w, "%-*s  %-*s  %s\n", idWidth, "ID", topicWidth, "TOPIC", "TITLE")
	for _, a := range list {
		title := strings.ReplaceAll(a.Title, "\n", " ")
		fmt.Fprintf(w, "%-*d  %-*s  %s\n", idWidth, a.ID, topicWidth, a.Topic, title)
	}
}

// isValidFormat checks if the format is one of the allowed values.
func isValidFormat(format string) bool {
	for _, f := range ValidFormats {
		if f == format {
			return true
		}
	}
	return false
}
