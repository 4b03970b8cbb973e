// Package state owns Quill's view state and the operations that change it.
//
// # Overview
//
// The Controller holds everything the UI renders: the current route, the
// message line, the busy flag, the cached article list and the article
// selected for editing. The UI never mutates these fields directly; it calls
// a Controller operation and renders the Snapshot it gets back.
//
// # Operations
//
//   - Login: stores the token on success and moves to /articles
//   - Logout: clears the token and the cached list, moves to /
//   - GetArticles: replaces the cached list wholesale
//   - CreateArticle: appends the echoed article, or re-fetches
//   - UpdateArticle: replaces the article in place and leaves edit mode
//   - DeleteArticle: filters the id out of the cached list
//
// # Busy Flag
//
// Busy is false until an operation starts, true while exactly one operation
// is in flight, and false again once it settles, whether it succeeded or
// failed.
//
// Operations block the calling goroutine. The UI runs each one inside a
// Bubble Tea command so the event loop stays responsive:
//
//	cmd := func() tea.Msg {
//		return opDoneMsg{op: opList, snap: ctrl.GetArticles(ctx)}
//	}
//
// # Superseded Operations
//
// If a second operation starts before the first settles, the first one's
// context is cancelled and its result is discarded. The view state always
// reflects the most recently started operation, never whichever request
// happened to finish last.
//
// # Failures
//
// A failure sets a fixed message (MsgLoginFailed, MsgFetchFailed, ...) and
// records the error in Snapshot.LastError. The server's detail text and the
// underlying cause are logged. When the API reports
// articles.ErrUnauthenticated the route switches to RouteLogin regardless of
// which operation failed. Failures are never retried.
package state
