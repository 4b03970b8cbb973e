package mockapi

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/five82/quill/internal/articles"
)

func do(t *testing.T, h http.Handler, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v))
	return v
}

func TestLogin(t *testing.T) {
	s := New(DefaultSeed())
	h := s.Handler()

	rec := do(t, h, http.MethodPost, "/api/login", "", articles.Credentials{Username: " alice ", Password: "password1"})
	require.Equal(t, http.StatusOK, rec.Code)
	resp := decode[articles.LoginResponse](t, rec)
	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, "Welcome back, alice!", resp.Message)

	rec = do(t, h, http.MethodPost, "/api/login", "", articles.Credentials{Username: "al", Password: "password1"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = do(t, h, http.MethodPost, "/api/login", "", articles.Credentials{Username: "alice", Password: "short"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestArticlesRequireToken(t *testing.T) {
	s := New(DefaultSeed())
	h := s.Handler()

	rec := do(t, h, http.MethodGet, "/api/articles", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = do(t, h, http.MethodGet, "/api/articles", "made-up", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	token := s.IssueToken("bob")
	rec = do(t, h, http.MethodGet, "/api/articles", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	list := decode[articles.ListResponse](t, rec)
	assert.Len(t, list.Articles, 3)
	assert.Equal(t, "Here are your articles, bob!", list.Message)

	s.RevokeTokens()
	rec = do(t, h, http.MethodGet, "/api/articles", token, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRawTokenHeaderAccepted(t *testing.T) {
	s := New(DefaultSeed())
	token := s.IssueToken("bob")

	req := httptest.NewRequest(http.MethodGet, "/api/articles", nil)
	req.Header.Set("Authorization", token)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestCreateUpdateDelete(t *testing.T) {
	s := New(DefaultSeed())
	h := s.Handler()
	token := s.IssueToken("carol")

	rec := do(t, h, http.MethodPost, "/api/articles", token, articles.Draft{Title: " Hooks ", Text: "text", Topic: articles.TopicReact})
	require.Equal(t, http.StatusCreated, rec.Code)
	created := decode[articles.MutationResponse](t, rec)
	require.NotNil(t, created.Article)
	assert.Equal(t, int64(4), created.Article.ID)
	assert.Equal(t, "Hooks", created.Article.Title)
	assert.Equal(t, "Well done, carol. Great article!", created.Message)

	rec = do(t, h, http.MethodPut, "/api/articles/4", token, articles.Draft{Title: "Hooks v2", Text: "text", Topic: articles.TopicRedux})
	require.Equal(t, http.StatusOK, rec.Code)
	updated := decode[articles.MutationResponse](t, rec)
	require.NotNil(t, updated.Article)
	assert.Equal(t, articles.TopicRedux, updated.Article.Topic)

	rec = do(t, h, http.MethodDelete, "/api/articles/1", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	deleted := decode[articles.MutationResponse](t, rec)
	assert.Equal(t, "Article 1 was deleted, carol!", deleted.Message)

	ids := []int64{}
	for _, a := range s.Articles() {
		ids = append(ids, a.ID)
	}
	assert.Equal(t, []int64{2, 3, 4}, ids)
}

func TestValidationAndMissing(t *testing.T) {
	s := New(DefaultSeed())
	h := s.Handler()
	token := s.IssueToken("dave")

	rec := do(t, h, http.MethodPost, "/api/articles", token, articles.Draft{Title: "x", Text: "y", Topic: "Angular"})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = do(t, h, http.MethodPut, "/api/articles/99", token, articles.Draft{Title: "x", Text: "y", Topic: articles.TopicNode})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, h, http.MethodDelete, "/api/articles/99", token, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	req := httptest.NewRequest(http.MethodPost, "/api/articles", bytes.NewBufferString("{nope"))
	req.Header.Set("Authorization", "Bearer "+token)
	bad := httptest.NewRecorder()
	h.ServeHTTP(bad, req)
	assert.Equal(t, http.StatusBadRequest, bad.Code)
}

func TestNewAssignsMissingIDs(t *testing.T) {
	s := New(Seed{Articles: []SeedArticle{
		{Title: "a", Text: "a", Topic: "Node"},
		{ID: 10, Title: "b", Text: "b", Topic: "React"},
	}})
	got := s.Articles()
	require.Len(t, got, 2)
	assert.Equal(t, int64(11), got[0].ID)
	assert.Equal(t, int64(10), got[1].ID)
}

func TestLoadSeed(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "seed.yaml")
	require.NoError(t, os.WriteFile(good, []byte(`
articles:
  - id: 7
    title: Middleware
    text: Redux middleware wraps dispatch.
    topic: Redux
  - title: Streams
    text: Readable and writable.
    topic: Node
`), 0o644))

	seed, err := LoadSeed(good)
	require.NoError(t, err)
	require.Len(t, seed.Articles, 2)
	assert.Equal(t, int64(7), seed.Articles[0].ID)
	assert.Equal(t, "Node", seed.Articles[1].Topic)

	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("articles:\n  - title: x\n    text: y\n    topic: Vue\n"), 0o644))
	_, err = LoadSeed(bad)
	assert.ErrorContains(t, err, "parse seed")

	_, err = LoadSeed(filepath.Join(dir, "missing.yaml"))
	assert.ErrorContains(t, err, "read seed")
}
