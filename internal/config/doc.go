// Package config loads Quill's configuration file.
//
// # Location
//
// The file lives at ~/.config/quill/config.toml unless --config points
// elsewhere. A missing file is not an error; every field has a default.
//
// # Fields
//
//	api_url = "http://localhost:9000"          # articles API root
//	session_path = "~/.local/state/quill/session.toml"
//	log_path = "~/.local/state/quill/quill.log"
//	request_timeout_seconds = 0                # 0 = no timeout
//	refresh_seconds = 0                        # 0 = no background refresh
//
// String values are trimmed and blank strings fall back to defaults. Paths
// starting with "~" are expanded against the user's home directory and made
// absolute.
//
// # Errors
//
// Load fails when the file exists but cannot be read, is not valid TOML, or
// carries negative durations. Errors are wrapped with the stage that failed
// ("open config", "read config", "parse config").
package config
