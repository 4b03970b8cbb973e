package articles

import (
	"errors"
	"fmt"
)

var (
	// ErrLoginFailed covers every login failure: bad credentials, transport and server errors alike.
	ErrLoginFailed = errors.New("login failed")
	// ErrUnauthenticated is returned when an authenticated call gets HTTP 401.
	ErrUnauthenticated = errors.New("unauthenticated")
	ErrFetchFailed     = errors.New("fetch articles failed")
	ErrCreateFailed    = errors.New("create article failed")
	ErrUpdateFailed    = errors.New("update article failed")
	ErrDeleteFailed    = errors.New("delete article failed")
)

// Error describes a failed API call. It unwraps to both the operation
// sentinel (Kind) and the underlying cause, if any.
type Error struct {
	Op     string
	Kind   error
	Status int    // zero when no response was received
	Detail string // server-provided message, if the body carried one
	Err    error
}

func (e *Error) Error() string {
	msg := e.Op + ": " + e.Kind.Error()
	if e.Status != 0 {
		msg += fmt.Sprintf(" (status %d)", e.Status)
	}
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}
