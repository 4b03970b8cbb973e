package state

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/five82/quill/internal/articles"
	"github.com/five82/quill/internal/session"
)

// Route is the client-visible location the UI should show.
type Route string

const (
	RouteLogin    Route = "/"
	RouteArticles Route = "/articles"
)

// Messages shown when an operation fails. Server detail text is logged, not displayed.
const (
	MsgLoginFailed  = "Login failed"
	MsgFetchFailed  = "Failed to fetch articles"
	MsgCreateFailed = "Failed to create article"
	MsgUpdateFailed = "Failed to update article"
	MsgDeleteFailed = "Failed to delete article"
	MsgLogoutFailed = "Logout failed"
	MsgGoodbye      = "Goodbye!"
)

// Snapshot is a copy of the view state at one point in time.
type Snapshot struct {
	Route            Route
	Message          string
	Busy             bool
	Articles         []articles.Article
	CurrentArticleID int64 // zero when no article is selected for editing
	LastError        error
	LastUpdated      time.Time
}

// CurrentArticle returns the article selected for editing, if it is still listed.
func (s Snapshot) CurrentArticle() (articles.Article, bool) {
	if s.CurrentArticleID == 0 {
		return articles.Article{}, false
	}
	for _, a := range s.Articles {
		if a.ID == s.CurrentArticleID {
			return a, true
		}
	}
	return articles.Article{}, false
}

// Controller owns the view state and runs API operations against it.
//
// Every operation flips Busy on when it starts and off when it settles.
// Starting an operation cancels whichever one is still in flight; a
// superseded operation's result is dropped, so only the latest one writes
// view state.
type Controller struct {
	api    articles.API
	tokens session.Store

	mu     sync.Mutex
	snap   Snapshot
	seq    uint64
	cancel context.CancelFunc
}

// NewController builds a controller. It starts on the articles route when
// tokens already holds a token, otherwise on the login route.
func NewController(api articles.API, tokens session.Store) *Controller {
	route := RouteLogin
	if _, ok := tokens.Get(); ok {
		route = RouteArticles
	}
	return &Controller{
		api:    api,
		tokens: tokens,
		snap:   Snapshot{Route: route},
	}
}

// Snapshot returns a copy of the current view state.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.copyLocked()
}

func (c *Controller) copyLocked() Snapshot {
	snap := c.snap
	snap.Articles = cloneArticles(c.snap.Articles)
	if c.snap.LastError != nil {
		snap.LastError = fmt.Errorf("%w", c.snap.LastError)
	}
	return snap
}

// SelectArticle marks id for editing. It reports false when id is not listed.
func (c *Controller) SelectArticle(id int64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, a := range c.snap.Articles {
		if a.ID == id {
			c.snap.CurrentArticleID = id
			return true
		}
	}
	return false
}

// ClearSelection leaves edit mode.
func (c *Controller) ClearSelection() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.snap.CurrentArticleID = 0
}

// Login exchanges credentials for a token, stores it and moves to the
// articles route. A failed login leaves the session store untouched.
func (c *Controller) Login(ctx context.Context, creds articles.Credentials) Snapshot {
	opCtx, seq := c.begin(ctx)
	resp, err := c.api.Login(opCtx, creds)
	return c.finish(seq, func(s *Snapshot) {
		if err != nil {
			c.fail(s, "login", MsgLoginFailed, err)
			return
		}
		if serr := c.tokens.Set(resp.Token); serr != nil {
			c.fail(s, "login", MsgLoginFailed, fmt.Errorf("store token: %w", serr))
			return
		}
		s.Message = resp.Message
		s.Route = RouteArticles
	})
}

// Logout clears the token and the cached list, abandons any in-flight
// operation and moves to the login route.
func (c *Controller) Logout() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.supersedeLocked()
	c.snap.Busy = false
	c.snap.Articles = nil
	c.snap.CurrentArticleID = 0
	c.snap.Route = RouteLogin
	c.snap.LastUpdated = time.Now()
	if err := c.tokens.Clear(); err != nil {
		c.fail(&c.snap, "logout", MsgLogoutFailed, err)
		return c.copyLocked()
	}
	c.snap.LastError = nil
	c.snap.Message = MsgGoodbye
	return c.copyLocked()
}

// GetArticles replaces the cached list with the server's.
func (c *Controller) GetArticles(ctx context.Context) Snapshot {
	opCtx, seq := c.begin(ctx)
	resp, err := c.api.ListArticles(opCtx)
	return c.finish(seq, func(s *Snapshot) {
		if err != nil {
			c.fail(s, "list articles", MsgFetchFailed, err)
			return
		}
		s.Articles = cloneArticles(resp.Articles)
		s.Message = resp.Message
	})
}

// RefreshIfIdle re-fetches the list only when the articles route is showing
// and no operation is in flight, so it never supersedes an operation the user
// started. It reports whether this refresh's own result was applied: false
// when it was skipped or superseded while in flight. The message line is
// kept, except for a 401, which sends the user to login with MsgFetchFailed.
func (c *Controller) RefreshIfIdle(ctx context.Context) (Snapshot, bool) {
	c.mu.Lock()
	if c.snap.Busy || c.snap.Route != RouteArticles {
		snap := c.copyLocked()
		c.mu.Unlock()
		return snap, false
	}
	message := c.snap.Message
	opCtx, seq := c.beginLocked(ctx)
	c.snap.Message = message
	c.mu.Unlock()

	resp, err := c.api.ListArticles(opCtx)
	return c.finishApplied(seq, func(s *Snapshot) {
		if err != nil {
			c.fail(s, "refresh articles", MsgFetchFailed, err)
			if s.Route != RouteLogin {
				s.Message = message
			}
			return
		}
		s.Articles = cloneArticles(resp.Articles)
		if s.CurrentArticleID != 0 {
			if _, ok := s.CurrentArticle(); !ok {
				s.CurrentArticleID = 0
			}
		}
	})
}

// CreateArticle posts draft. The new article is appended when the server
// echoes it; otherwise the whole list is fetched again.
func (c *Controller) CreateArticle(ctx context.Context, draft articles.Draft) Snapshot {
	opCtx, seq := c.begin(ctx)
	resp, err := c.api.CreateArticle(opCtx, draft.Normalized())

	var (
		list    articles.ListResponse
		listErr error
	)
	if err == nil && resp.Article == nil {
		list, listErr = c.api.ListArticles(opCtx)
	}

	return c.finish(seq, func(s *Snapshot) {
		if err != nil {
			c.fail(s, "create article", MsgCreateFailed, err)
			return
		}
		if resp.Article == nil {
			if listErr != nil {
				c.fail(s, "list articles", MsgFetchFailed, listErr)
				return
			}
			s.Articles = cloneArticles(list.Articles)
		} else {
			s.Articles = upsert(s.Articles, *resp.Article)
		}
		s.Message = resp.Message
	})
}

// UpdateArticle saves draft over article id and leaves edit mode.
func (c *Controller) UpdateArticle(ctx context.Context, id int64, draft articles.Draft) Snapshot {
	draft = draft.Normalized()
	opCtx, seq := c.begin(ctx)
	resp, err := c.api.UpdateArticle(opCtx, id, draft)
	return c.finish(seq, func(s *Snapshot) {
		if err != nil {
			c.fail(s, "update article", MsgUpdateFailed, err)
			return
		}
		updated := articles.Article{ID: id, Title: draft.Title, Text: draft.Text, Topic: draft.Topic}
		if resp.Article != nil {
			updated = *resp.Article
		}
		s.Articles = upsert(s.Articles, updated)
		s.CurrentArticleID = 0
		s.Message = resp.Message
	})
}

// DeleteArticle removes article id on the server and then from the cached
// list, without re-fetching.
func (c *Controller) DeleteArticle(ctx context.Context, id int64) Snapshot {
	opCtx, seq := c.begin(ctx)
	resp, err := c.api.DeleteArticle(opCtx, id)
	return c.finish(seq, func(s *Snapshot) {
		if err != nil {
			c.fail(s, "delete article", MsgDeleteFailed, err)
			return
		}
		s.Articles = removeID(s.Articles, id)
		if s.CurrentArticleID == id {
			s.CurrentArticleID = 0
		}
		s.Message = resp.Message
	})
}

// begin marks the controller busy and returns the context and sequence
// number for a new operation.
func (c *Controller) begin(parent context.Context) (context.Context, uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.beginLocked(parent)
}

func (c *Controller) beginLocked(parent context.Context) (context.Context, uint64) {
	c.supersedeLocked()
	ctx, cancel := context.WithCancel(parent)
	c.cancel = cancel
	c.snap.Busy = true
	c.snap.Message = ""
	return ctx, c.seq
}

// supersedeLocked cancels the in-flight operation, if any, and invalidates its sequence number.
func (c *Controller) supersedeLocked() {
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
	c.seq++
}

// finish applies fn and clears Busy, unless operation seq has been superseded.
func (c *Controller) finish(seq uint64, fn func(*Snapshot)) Snapshot {
	snap, _ := c.finishApplied(seq, fn)
	return snap
}

// finishApplied is finish, also reporting whether fn ran.
func (c *Controller) finishApplied(seq uint64, fn func(*Snapshot)) (Snapshot, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if seq != c.seq {
		return c.copyLocked(), false
	}
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
	c.snap.Busy = false
	c.snap.LastError = nil
	fn(&c.snap)
	c.snap.LastUpdated = time.Now()
	return c.copyLocked(), true
}

// fail records err and shows msg. A 401 additionally sends the user back to the login route.
func (c *Controller) fail(s *Snapshot, op, msg string, err error) {
	s.Message = msg
	s.LastError = err
	if errors.Is(err, articles.ErrUnauthenticated) {
		s.Route = RouteLogin
	}
	log.Printf("%s failed: %v", op, err)
}

func upsert(list []articles.Article, a articles.Article) []articles.Article {
	out := cloneArticles(list)
	for i := range out {
		if out[i].ID == a.ID {
			out[i] = a
			return out
		}
	}
	return append(out, a)
}

func removeID(list []articles.Article, id int64) []articles.Article {
	out := make([]articles.Article, 0, len(list))
	for _, a := range list {
		if a.ID != id {
			out = append(out, a)
		}
	}
	return out
}

func cloneArticles(list []articles.Article) []articles.Article {
	if len(list) == 0 {
		return nil
	}
	dup := make([]articles.Article, len(list))
	copy(dup, list)
	return dup
}
