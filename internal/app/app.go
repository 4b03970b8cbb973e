package app

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/quill/internal/articles"
	"github.com/five82/quill/internal/config"
	"github.com/five82/quill/internal/prefs"
	"github.com/five82/quill/internal/session"
	"github.com/five82/quill/internal/state"
	"github.com/five82/quill/internal/ui"
)

// Options configure the Quill application.
type Options struct {
	ConfigPath string
	PrefsPath  string // empty uses default ~/.config/quill/prefs.toml
}

// Services are the pieces shared by the TUI and the CLI subcommands.
type Services struct {
	Config     config.Config
	Session    *session.FileStore
	Client     *articles.Client
	Controller *state.Controller
}

// Bootstrap loads configuration and builds the session store, API client and
// controller.
func Bootstrap(opts Options) (*Services, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	tokens, err := session.Open(cfg.SessionPath)
	if err != nil {
		return nil, fmt.Errorf("open session: %w", err)
	}

	client, err := articles.NewClient(cfg.APIURL, tokens, articles.WithTimeout(cfg.RequestTimeout))
	if err != nil {
		return nil, fmt.Errorf("init articles client: %w", err)
	}

	return &Services{
		Config:     cfg,
		Session:    tokens,
		Client:     client,
		Controller: state.NewController(client, tokens),
	}, nil
}

// Run boots the Quill TUI until the user quits or the context is cancelled.
func Run(ctx context.Context, opts Options) error {
	svc, err := Bootstrap(opts)
	if err != nil {
		return err
	}

	logFile, err := openLog(svc.Config.LogPath)
	if err != nil {
		return err
	}
	if logFile != nil {
		defer logFile.Close()
	}
	log.Printf("quill starting, api %s", svc.Client.BaseURL())

	userPrefs := prefs.Load(opts.PrefsPath)

	StartRefresher(ctx, svc.Controller, svc.Config.RefreshEvery)

	return ui.Run(ui.Options{
		Context:      ctx,
		Controller:   svc.Controller,
		ThemeName:    userPrefs.Theme,
		PrefsPath:    opts.PrefsPath,
		LogPath:      svc.Config.LogPath,
		LastUsername: userPrefs.LastUsername,
	})
}

// openLog points the standard logger at path so nothing is written over the
// TUI. An empty path discards log output.
func openLog(path string) (*os.File, error) {
	if path == "" {
		log.SetOutput(io.Discard)
		return nil, nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create log dir: %w", err)
	}
	f, err := tea.LogToFile(path, "quill")
	if err != nil {
		return nil, fmt.Errorf("open log: %w", err)
	}
	return f, nil
}
