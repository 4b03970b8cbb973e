package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
)

// Config captures everything Quill reads from config.toml.
type Config struct {
	APIURL         string
	SessionPath    string
	LogPath        string
	RequestTimeout time.Duration // zero disables the timeout
	RefreshEvery   time.Duration // zero disables background refresh
}

const (
	defaultConfigPath  = "~/.config/quill/config.toml"
	defaultAPIURL      = "http://localhost:9000"
	defaultSessionPath = "~/.local/state/quill/session.toml"
	defaultLogPath     = "~/.local/state/quill/quill.log"
)

// Load locates and parses the quill config, falling back to defaults when missing.
func Load(path string) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		APIURL:      defaultAPIURL,
		SessionPath: mustExpand(defaultSessionPath),
		LogPath:     mustExpand(defaultLogPath),
	}

	file, err := os.Open(resolved)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	bytes, err := io.ReadAll(file)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	var raw struct {
		APIURL         string `toml:"api_url"`
		SessionPath    string `toml:"session_path"`
		LogPath        string `toml:"log_path"`
		RequestTimeout int    `toml:"request_timeout_seconds"`
		RefreshSeconds int    `toml:"refresh_seconds"`
	}
	if err := toml.Unmarshal(bytes, &raw); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}

	if apiURL := strings.TrimSpace(raw.APIURL); apiURL != "" {
		cfg.APIURL = apiURL
	}
	if sessionPath := strings.TrimSpace(raw.SessionPath); sessionPath != "" {
		cfg.SessionPath = mustExpand(sessionPath)
	}
	if logPath := strings.TrimSpace(raw.LogPath); logPath != "" {
		cfg.LogPath = mustExpand(logPath)
	}
	if raw.RequestTimeout < 0 || raw.RefreshSeconds < 0 {
		return Config{}, fmt.Errorf("parse config: durations must not be negative")
	}
	cfg.RequestTimeout = time.Duration(raw.RequestTimeout) * time.Second
	cfg.RefreshEvery = time.Duration(raw.RefreshSeconds) * time.Second

	return cfg, nil
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultConfigPath)
	}
	return expandPath(path)
}

func mustExpand(path string) string {
	expanded, err := expandPath(path)
	if err != nil {
		return path
	}
	return expanded
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
