package articles

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// API is the set of calls the view-state controller makes.
// It is implemented by *Client and can be faked in tests.
type API interface {
	Login(ctx context.Context, creds Credentials) (LoginResponse, error)
	ListArticles(ctx context.Context) (ListResponse, error)
	CreateArticle(ctx context.Context, draft Draft) (MutationResponse, error)
	UpdateArticle(ctx context.Context, id int64, draft Draft) (MutationResponse, error)
	DeleteArticle(ctx context.Context, id int64) (MutationResponse, error)
}

// Ensure Client implements API at compile time.
var _ API = (*Client)(nil)

// TokenSource yields the bearer token for authenticated calls.
type TokenSource interface {
	Get() (string, bool)
}

// Client talks to the articles HTTP API.
type Client struct {
	baseURL   *url.URL
	http      *http.Client
	tokens    TokenSource
	userAgent string
}

const (
	defaultAPIURL    = "http://localhost:9000"
	defaultUserAgent = "quill/0.1"
)

// Option customizes a Client.
type Option func(*Client)

// WithTimeout sets an overall per-request timeout. Zero means none.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.http.Timeout = d
	}
}

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// NewClient builds a Client for the API rooted at apiURL. Tokens for
// authenticated calls are read from tokens on every request.
func NewClient(apiURL string, tokens TokenSource, opts ...Option) (*Client, error) {
	base, err := parseBaseURL(apiURL)
	if err != nil {
		return nil, err
	}
	c := &Client{
		baseURL:   base,
		http:      &http.Client{},
		tokens:    tokens,
		userAgent: defaultUserAgent,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// BaseURL returns the API root the client was built with.
func (c *Client) BaseURL() string {
	return c.baseURL.String()
}

// Login exchanges credentials for a token. Every failure is reported as ErrLoginFailed.
func (c *Client) Login(ctx context.Context, creds Credentials) (LoginResponse, error) {
	const op = "login"
	var payload LoginResponse
	if err := c.send(ctx, http.MethodPost, "/api/login", creds, false, &payload); err != nil {
		return LoginResponse{}, classify(op, ErrLoginFailed, err)
	}
	if strings.TrimSpace(payload.Token) == "" {
		return LoginResponse{}, &Error{Op: op, Kind: ErrLoginFailed, Err: errors.New("response carried no token")}
	}
	return payload, nil
}

// ListArticles fetches every article visible to the current token.
func (c *Client) ListArticles(ctx context.Context) (ListResponse, error) {
	var payload ListResponse
	if err := c.send(ctx, http.MethodGet, "/api/articles", nil, true, &payload); err != nil {
		return ListResponse{}, classify("list articles", ErrFetchFailed, err)
	}
	return payload, nil
}

// CreateArticle posts a new article.
func (c *Client) CreateArticle(ctx context.Context, draft Draft) (MutationResponse, error) {
	var payload MutationResponse
	if err := c.send(ctx, http.MethodPost, "/api/articles", draft, true, &payload); err != nil {
		return MutationResponse{}, classify("create article", ErrCreateFailed, err)
	}
	return payload, nil
}

// UpdateArticle replaces the editable fields of article id.
func (c *Client) UpdateArticle(ctx context.Context, id int64, draft Draft) (MutationResponse, error) {
	var payload MutationResponse
	if err := c.send(ctx, http.MethodPut, articlePath(id), draft, true, &payload); err != nil {
		return MutationResponse{}, classify("update article", ErrUpdateFailed, err)
	}
	return payload, nil
}

// DeleteArticle removes article id.
func (c *Client) DeleteArticle(ctx context.Context, id int64) (MutationResponse, error) {
	var payload MutationResponse
	if err := c.send(ctx, http.MethodDelete, articlePath(id), nil, true, &payload); err != nil {
		return MutationResponse{}, classify("delete article", ErrDeleteFailed, err)
	}
	return payload, nil
}

func articlePath(id int64) string {
	return "/api/articles/" + strconv.FormatInt(id, 10)
}

// statusError records a non-2xx response before it is classified.
type statusError struct {
	status int
	detail string
}

func (e *statusError) Error() string {
	return fmt.Sprintf("returned status %d", e.status)
}

func classify(op string, kind error, err error) error {
	apiErr := &Error{Op: op, Kind: kind, Err: err}
	var se *statusError
	if errors.As(err, &se) {
		apiErr.Status = se.status
		apiErr.Detail = se.detail
		apiErr.Err = nil
		if se.status == http.StatusUnauthorized && kind != ErrLoginFailed {
			apiErr.Kind = ErrUnauthenticated
		}
	}
	return apiErr
}

func (c *Client) send(ctx context.Context, method, path string, body any, auth bool, dest any) error {
	reqURL := c.baseURL.ResolveReference(&url.URL{Path: path})

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, reqURL.String(), reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("X-Request-ID", uuid.NewString())
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if auth && c.tokens != nil {
		if token, ok := c.tokens.Get(); ok {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("execute request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &statusError{status: resp.StatusCode, detail: readDetail(resp.Body)}
	}
	if dest == nil {
		return nil
	}
	// An empty 2xx body (e.g. 204 No Content) leaves dest zero.
	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// readDetail pulls the "message" field out of an error body, ignoring bodies that are not JSON.
func readDetail(r io.Reader) string {
	raw, err := io.ReadAll(io.LimitReader(r, 64*1024))
	if err != nil || len(raw) == 0 {
		return ""
	}
	var payload errorResponse
	if err := json.Unmarshal(raw, &payload); err != nil {
		return ""
	}
	return strings.TrimSpace(payload.Message)
}

func parseBaseURL(apiURL string) (*url.URL, error) {
	trimmed := strings.TrimSpace(apiURL)
	if trimmed == "" {
		trimmed = defaultAPIURL
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "http://" + trimmed
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("parse api_url %q: %w", apiURL, err)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("parse api_url %q: missing host", apiURL)
	}
	u.Path = ""
	u.RawQuery = ""
	u.Fragment = ""
	return u, nil
}
