package ui

import (
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/five82/quill/internal/articles"
	"github.com/five82/quill/internal/mockapi"
	"github.com/five82/quill/internal/prefs"
	"github.com/five82/quill/internal/session"
	"github.com/five82/quill/internal/state"
)

type harness struct {
	server    *mockapi.Server
	tokens    *session.MemoryStore
	ctrl      *state.Controller
	prefsPath string
}

func newHarness(t *testing.T, authenticated bool) (*harness, Model) {
	t.Helper()
	srv := mockapi.New(mockapi.DefaultSeed())
	httpSrv := httptest.NewServer(srv.Handler())
	t.Cleanup(httpSrv.Close)

	tokens := &session.MemoryStore{}
	if authenticated {
		require.NoError(t, tokens.Set(srv.IssueToken("alice")))
	}
	client, err := articles.NewClient(httpSrv.URL, tokens)
	require.NoError(t, err)

	h := &harness{
		server:    srv,
		tokens:    tokens,
		ctrl:      state.NewController(client, tokens),
		prefsPath: filepath.Join(t.TempDir(), "prefs.toml"),
	}
	m := New(Options{Controller: h.ctrl, PrefsPath: h.prefsPath})
	m, _ = send(m, tea.WindowSizeMsg{Width: 120, Height: 40})
	return h, m
}

func send(m Model, msg tea.Msg) (Model, tea.Cmd) {
	next, cmd := m.Update(msg)
	return next.(Model), cmd
}

func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// collectOps runs cmd, expanding batches, and returns the operation results
// it produced. Other messages are dropped after their command has run.
func collectOps(t *testing.T, cmd tea.Cmd) []opDoneMsg {
	t.Helper()
	if cmd == nil {
		return nil
	}

	out := make(chan tea.Msg, 64)
	var wg sync.WaitGroup
	var run func(tea.Cmd)
	run = func(c tea.Cmd) {
		if c == nil {
			return
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			msg := c()
			if batch, ok := msg.(tea.BatchMsg); ok {
				for _, bc := range batch {
					run(bc)
				}
				return
			}
			out <- msg
		}()
	}
	run(cmd)

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("commands did not finish")
	}
	close(out)

	var ops []opDoneMsg
	for msg := range out {
		if op, ok := msg.(opDoneMsg); ok {
			ops = append(ops, op)
		}
	}
	return ops
}

// settle feeds operation results back into the model until none are left.
func settle(t *testing.T, m Model, cmd tea.Cmd) Model {
	t.Helper()
	for i := 0; i < 10; i++ {
		ops := collectOps(t, cmd)
		if len(ops) == 0 {
			return m
		}
		var cmds []tea.Cmd
		for _, op := range ops {
			var next tea.Cmd
			m, next = send(m, op)
			cmds = append(cmds, next)
		}
		cmd = tea.Batch(cmds...)
	}
	t.Fatal("model never settled")
	return m
}

func titles(list []articles.Article) []string {
	out := make([]string, 0, len(list))
	for _, a := range list {
		out = append(out, a.Title)
	}
	return out
}

func TestLogin_SubmitRequiresValidCredentials(t *testing.T) {
	_, m := newHarness(t, false)
	require.Equal(t, state.RouteLogin, m.snapshot.Route)

	m, _ = send(m, keyRunes("al"))
	m, _ = send(m, tea.KeyMsg{Type: tea.KeyTab})
	m, _ = send(m, keyRunes("password1"))
	require.False(t, m.login.valid())

	m, cmd := send(m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Empty(t, collectOps(t, cmd))
	assert.False(t, m.busy())
}

func TestLogin_NavigatesFetchesAndRemembersUsername(t *testing.T) {
	h, m := newHarness(t, false)

	m, _ = send(m, keyRunes("alice"))
	m, _ = send(m, tea.KeyMsg{Type: tea.KeyTab})
	m, _ = send(m, keyRunes("password1"))
	require.True(t, m.login.valid())

	m, cmd := send(m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.True(t, m.busy(), "busy as soon as the login is started")

	m = settle(t, m, cmd)
	assert.Equal(t, state.RouteArticles, m.snapshot.Route)
	assert.False(t, m.busy())
	assert.Equal(t, []string{"Closures", "Reducers", "Effects"}, titles(m.snapshot.Articles))
	assert.Equal(t, "Here are your articles, alice!", m.snapshot.Message)
	assert.Empty(t, m.login.password.Value())

	_, ok := h.tokens.Get()
	assert.True(t, ok)
	assert.Equal(t, "alice", prefs.Load(h.prefsPath).LastUsername)
}

func TestUnauthorizedReturnsToLogin(t *testing.T) {
	h, m := newHarness(t, true)
	m, cmd := send(m, startupMsg{})
	m = settle(t, m, cmd)
	require.Len(t, m.snapshot.Articles, 3)

	h.server.RevokeTokens()
	m, cmd = send(m, keyRunes("r"))
	m = settle(t, m, cmd)

	assert.Equal(t, state.RouteLogin, m.snapshot.Route)
	assert.Equal(t, state.MsgFetchFailed, m.snapshot.Message)
	assert.ErrorIs(t, m.snapshot.LastError, articles.ErrUnauthenticated)
	assert.Contains(t, m.View(), "Sign in")
}

func TestStartup_WithTokenFetchesArticles(t *testing.T) {
	_, m := newHarness(t, true)
	require.Equal(t, state.RouteArticles, m.snapshot.Route)

	m, cmd := send(m, startupMsg{})
	m = settle(t, m, cmd)
	assert.Len(t, m.snapshot.Articles, 3)
	assert.Contains(t, m.View(), "Closures")
}

func TestCreateArticle_FromForm(t *testing.T) {
	h, m := newHarness(t, true)
	m, cmd := send(m, startupMsg{})
	m = settle(t, m, cmd)

	m, _ = send(m, keyRunes("n"))
	require.Equal(t, paneForm, m.focus)

	m, _ = send(m, keyRunes("Hooks"))
	m, _ = send(m, tea.KeyMsg{Type: tea.KeyTab})
	m, _ = send(m, keyRunes("useEffect runs after render"))
	m, _ = send(m, tea.KeyMsg{Type: tea.KeyTab})
	m, _ = send(m, tea.KeyMsg{Type: tea.KeyRight})
	assert.Equal(t, articles.TopicRedux, m.form.topic)
	require.True(t, m.form.valid())

	m, cmd = send(m, tea.KeyMsg{Type: tea.KeyCtrlS})
	m = settle(t, m, cmd)

	assert.Equal(t, []string{"Closures", "Reducers", "Effects", "Hooks"}, titles(m.snapshot.Articles))
	assert.Equal(t, "Well done, alice. Great article!", m.snapshot.Message)
	assert.Equal(t, paneList, m.focus)
	assert.Empty(t, m.form.title.Value())
	assert.Equal(t, 3, m.selectedRow)
	assert.Len(t, h.server.Articles(), 4)
}

func TestCreateArticle_IncompleteFormDoesNothing(t *testing.T) {
	_, m := newHarness(t, true)
	m, cmd := send(m, startupMsg{})
	m = settle(t, m, cmd)

	m, _ = send(m, keyRunes("n"))
	m, _ = send(m, keyRunes("Only a title"))
	m, cmd = send(m, tea.KeyMsg{Type: tea.KeyCtrlS})
	assert.Empty(t, collectOps(t, cmd))
	assert.Equal(t, "Only a title", m.form.title.Value())
}

func TestEditAndUpdate(t *testing.T) {
	h, m := newHarness(t, true)
	m, cmd := send(m, startupMsg{})
	m = settle(t, m, cmd)

	m, _ = send(m, keyRunes("j"))
	m, _ = send(m, keyRunes("e"))
	require.True(t, m.form.editing())
	assert.Equal(t, int64(2), m.form.editingID)
	assert.Equal(t, "Reducers", m.form.title.Value())
	assert.Equal(t, int64(2), h.ctrl.Snapshot().CurrentArticleID)

	m.form.title.SetValue("Reducers v2")
	m, cmd = send(m, tea.KeyMsg{Type: tea.KeyCtrlS})
	m = settle(t, m, cmd)

	assert.Equal(t, []string{"Closures", "Reducers v2", "Effects"}, titles(m.snapshot.Articles))
	assert.Zero(t, m.snapshot.CurrentArticleID)
	assert.False(t, m.form.editing())
	assert.Equal(t, paneList, m.focus)
}

func TestEditCancel(t *testing.T) {
	h, m := newHarness(t, true)
	m, cmd := send(m, startupMsg{})
	m = settle(t, m, cmd)

	m, _ = send(m, keyRunes("e"))
	require.True(t, m.form.editing())

	m, _ = send(m, tea.KeyMsg{Type: tea.KeyEsc})
	assert.False(t, m.form.editing())
	assert.Equal(t, paneList, m.focus)
	assert.Zero(t, h.ctrl.Snapshot().CurrentArticleID)
}

func TestDeleteSelected(t *testing.T) {
	_, m := newHarness(t, true)
	m, cmd := send(m, startupMsg{})
	m = settle(t, m, cmd)

	m, _ = send(m, keyRunes("G"))
	m, cmd = send(m, keyRunes("d"))
	m = settle(t, m, cmd)

	assert.Equal(t, []string{"Closures", "Reducers"}, titles(m.snapshot.Articles))
	assert.Equal(t, "Article 3 was deleted, alice!", m.snapshot.Message)
	assert.Equal(t, 1, m.selectedRow)
}

func TestBusyGatesActions(t *testing.T) {
	_, m := newHarness(t, true)

	m, first := send(m, keyRunes("r"))
	require.True(t, m.busy())

	_, second := send(m, keyRunes("r"))
	assert.Nil(t, second)

	m = settle(t, m, first)
	assert.False(t, m.busy())
}

func TestLogout(t *testing.T) {
	h, m := newHarness(t, true)
	m, cmd := send(m, startupMsg{})
	m = settle(t, m, cmd)

	m, _ = send(m, tea.KeyMsg{Type: tea.KeyCtrlL})
	assert.Equal(t, state.RouteLogin, m.snapshot.Route)
	assert.Equal(t, state.MsgGoodbye, m.snapshot.Message)
	assert.Empty(t, m.snapshot.Articles)

	_, ok := h.tokens.Get()
	assert.False(t, ok)
	assert.True(t, strings.Contains(m.View(), "Sign in"))
}

func TestThemeCycleSavesPreference(t *testing.T) {
	h, m := newHarness(t, true)
	require.Equal(t, "Nightfox", m.theme.Name)

	m, cmd := send(m, keyRunes("T"))
	collectOps(t, cmd)
	assert.Equal(t, "Kanagawa", m.theme.Name)
	assert.Equal(t, "Kanagawa", prefs.Load(h.prefsPath).Theme)
}

func TestHelpOverlay(t *testing.T) {
	_, m := newHarness(t, true)
	m, _ = send(m, keyRunes("?"))
	require.True(t, m.showHelp)
	assert.Contains(t, m.View(), "Keyboard Shortcuts")

	m, _ = send(m, keyRunes("x"))
	assert.False(t, m.showHelp)
}
