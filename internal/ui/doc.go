// Package ui is Quill's Bubble Tea interface.
//
// # Routes
//
// The model renders whichever route the state.Controller reports:
//
//   - "/": a login form with username and password inputs
//   - "/articles": the article list beside a create/edit form
//
// Entering /articles, either at startup with a stored token or after a
// successful login, fetches the list.
//
// # Operations
//
// Controller operations block, so each one runs inside a tea.Cmd and reports
// back with an opDoneMsg. The model counts operations it has started and
// treats itself as busy until they report back, which closes the gap before
// the controller's own Busy flag flips. Submit, delete and refresh are ignored
// while busy. Logout is synchronous and always allowed.
//
// A tick pulls a fresh snapshot every DefaultUIInterval so changes made by
// the background refresher show up without user input.
//
// # Forms
//
// Login submits only when the username has at least 3 characters and the
// password at least 8. The article form submits only with a title, text and
// one of the known topics. While an article is selected for editing, submit
// updates it; esc drops the selection.
//
// # Overlays
//
//   - ? shows key bindings
//   - L shows the tail of Quill's log file (see package logtail)
//
// Theme changes (T) and the last successful username are written to the
// preferences file.
package ui
