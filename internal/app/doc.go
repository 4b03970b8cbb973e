// Package app is the composition root for Quill.
//
// Bootstrap loads config.toml, opens the session file, builds the articles
// client and wraps both in a state.Controller. The CLI subcommands stop there;
// Run goes on to redirect the standard logger to the log file, start the
// background refresher and hand the controller to the TUI.
//
// # Background Refresh
//
// With refresh_seconds set, StartRefresher re-fetches the article list on
// that cadence, but only while the articles route is showing and no other
// operation is in flight (state.Controller.RefreshIfIdle). Consecutive
// failures double the wait up to 30s, but never below refresh_seconds; one
// success resets it. A refresh superseded by a user operation counts as
// neither.
//
// # Errors
//
// Config, session and client setup errors are returned from Bootstrap and
// Run. Refresh failures are logged and retried.
package app
