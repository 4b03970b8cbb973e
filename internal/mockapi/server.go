package mockapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/five82/quill/internal/articles"
)

type ctxKey struct{}

// Server is an in-memory articles API. Articles are shared by every user.
type Server struct {
	mu       sync.Mutex
	articles []articles.Article
	nextID   int64
	tokens   map[string]string // token -> username
}

// New builds a server holding the seeded articles.
func New(seed Seed) *Server {
	s := &Server{tokens: make(map[string]string)}
	for _, a := range seed.Articles {
		if a.ID > s.nextID {
			s.nextID = a.ID
		}
	}
	for _, a := range seed.Articles {
		id := a.ID
		if id == 0 {
			s.nextID++
			id = s.nextID
		}
		s.articles = append(s.articles, articles.Article{
			ID:    id,
			Title: a.Title,
			Text:  a.Text,
			Topic: articles.Topic(a.Topic),
		})
	}
	return s
}

// Handler returns the router serving /api/login and /api/articles.
func (s *Server) Handler() http.Handler {
	r := mux.NewRouter()
	r.Use(logRequests)
	r.HandleFunc("/api/login", s.handleLogin).Methods(http.MethodPost)

	api := r.PathPrefix("/api/articles").Subrouter()
	api.Use(s.requireToken)
	api.HandleFunc("", s.handleList).Methods(http.MethodGet)
	api.HandleFunc("", s.handleCreate).Methods(http.MethodPost)
	api.HandleFunc("/{id:[0-9]+}", s.handleUpdate).Methods(http.MethodPut)
	api.HandleFunc("/{id:[0-9]+}", s.handleDelete).Methods(http.MethodDelete)
	return r
}

// IssueToken registers a token for username without going through /api/login.
func (s *Server) IssueToken(username string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	token := uuid.NewString()
	s.tokens[token] = username
	return token
}

// RevokeTokens forgets every issued token, so later calls get 401.
func (s *Server) RevokeTokens() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokens = make(map[string]string)
}

// Articles returns a copy of the stored articles.
func (s *Server) Articles() []articles.Article {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]articles.Article, len(s.articles))
	copy(out, s.articles)
	return out
}

// Serve runs the mock API on addr until ctx is cancelled.
func (s *Server) Serve(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()
	select {
	case err := <-errCh:
		return fmt.Errorf("mock api: %w", err)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown mock api: %w", err)
		}
		if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("mock api: %w", err)
		}
		return nil
	}
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var creds articles.Credentials
	if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
		writeMessage(w, http.StatusBadRequest, "malformed login payload")
		return
	}
	if !creds.Complete() {
		writeMessage(w, http.StatusUnauthorized, "username must be at least 3 characters and password at least 8")
		return
	}
	username := strings.TrimSpace(creds.Username)
	token := s.IssueToken(username)
	writeJSON(w, http.StatusOK, articles.LoginResponse{
		Token:   token,
		Message: fmt.Sprintf("Welcome back, %s!", username),
	})
}

func (s *Server) requireToken(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := strings.TrimSpace(r.Header.Get("Authorization"))
		if len(token) > 7 && strings.EqualFold(token[:7], "bearer ") {
			token = strings.TrimSpace(token[7:])
		}
		if token == "" {
			writeMessage(w, http.StatusUnauthorized, "token required")
			return
		}
		s.mu.Lock()
		username, ok := s.tokens[token]
		s.mu.Unlock()
		if !ok {
			writeMessage(w, http.StatusUnauthorized, "invalid token")
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ctxKey{}, username)))
	})
}

func userFrom(r *http.Request) string {
	username, _ := r.Context().Value(ctxKey{}).(string)
	return username
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, articles.ListResponse{
		Articles: s.Articles(),
		Message:  fmt.Sprintf("Here are your articles, %s!", userFrom(r)),
	})
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	draft, ok := decodeDraft(w, r)
	if !ok {
		return
	}
	s.mu.Lock()
	s.nextID++
	created := articles.Article{ID: s.nextID, Title: draft.Title, Text: draft.Text, Topic: draft.Topic}
	s.articles = append(s.articles, created)
	s.mu.Unlock()

	writeJSON(w, http.StatusCreated, articles.MutationResponse{
		Message: fmt.Sprintf("Well done, %s. Great article!", userFrom(r)),
		Article: &created,
	})
}

func (s *Server) handleUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := articleID(w, r)
	if !ok {
		return
	}
	draft, ok := decodeDraft(w, r)
	if !ok {
		return
	}
	s.mu.Lock()
	idx := s.indexOf(id)
	if idx < 0 {
		s.mu.Unlock()
		writeMessage(w, http.StatusNotFound, fmt.Sprintf("article %d not found", id))
		return
	}
	updated := articles.Article{ID: id, Title: draft.Title, Text: draft.Text, Topic: draft.Topic}
	s.articles[idx] = updated
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, articles.MutationResponse{
		Message: fmt.Sprintf("Nice update, %s!", userFrom(r)),
		Article: &updated,
	})
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := articleID(w, r)
	if !ok {
		return
	}
	s.mu.Lock()
	idx := s.indexOf(id)
	if idx < 0 {
		s.mu.Unlock()
		writeMessage(w, http.StatusNotFound, fmt.Sprintf("article %d not found", id))
		return
	}
	s.articles = append(s.articles[:idx], s.articles[idx+1:]...)
	s.mu.Unlock()

	writeMessage(w, http.StatusOK, fmt.Sprintf("Article %d was deleted, %s!", id, userFrom(r)))
}

// indexOf must be called with s.mu held.
func (s *Server) indexOf(id int64) int {
	for i, a := range s.articles {
		if a.ID == id {
			return i
		}
	}
	return -1
}

func articleID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid article id")
		return 0, false
	}
	return id, true
}

func decodeDraft(w http.ResponseWriter, r *http.Request) (articles.Draft, bool) {
	var draft articles.Draft
	if err := json.NewDecoder(r.Body).Decode(&draft); err != nil {
		writeMessage(w, http.StatusBadRequest, "malformed article payload")
		return articles.Draft{}, false
	}
	if !draft.Complete() {
		writeMessage(w, http.StatusUnprocessableEntity, fmt.Sprintf("title, text and one of %v are required", articles.Topics()))
		return articles.Draft{}, false
	}
	return draft.Normalized(), true
}

func writeMessage(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"message": message})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("mock api: encode response: %v", err)
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()
		next.ServeHTTP(rec, r)
		log.Printf("mock api: %s %s -> %d (%s) request=%s", r.Method, r.URL.Path, rec.status, time.Since(start).Round(time.Millisecond), r.Header.Get("X-Request-ID"))
	})
}
