// Package articles provides an HTTP client for the articles API.
//
// # Overview
//
// The client covers the five endpoints Quill needs:
//
//   - POST /api/login: exchange credentials for a token
//   - GET /api/articles: list articles
//   - POST /api/articles: create an article
//   - PUT /api/articles/{id}: update an article
//   - DELETE /api/articles/{id}: delete an article
//
// Every call except login sends the current token as
// "Authorization: Bearer <token>". The token is read from a TokenSource on
// each request, so a login that stores a new token takes effect on the next
// call without rebuilding the client.
//
// # Usage
//
//	client, err := articles.NewClient("http://localhost:9000", sessionStore)
//	if err != nil {
//		log.Fatalf("init client: %v", err)
//	}
//	resp, err := client.ListArticles(ctx)
//	if errors.Is(err, articles.ErrUnauthenticated) {
//		// send the user back to the login screen
//	}
//
// # Error Handling
//
// Failures come back as *Error. Each one unwraps to an operation sentinel:
//
//   - ErrLoginFailed: any login failure
//   - ErrUnauthenticated: HTTP 401 on an authenticated call
//   - ErrFetchFailed, ErrCreateFailed, ErrUpdateFailed, ErrDeleteFailed:
//     every other failure of the matching call
//
// Bad credentials, transport errors and server errors are not told apart at
// the sentinel level. Status and the server's "message" text are kept on the
// *Error for logging.
//
// Requests are never retried. There is no timeout unless WithTimeout is
// given; cancel the context to abandon a call.
package articles
