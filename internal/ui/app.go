package ui

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/quill/internal/articles"
	"github.com/five82/quill/internal/prefs"
	"github.com/five82/quill/internal/state"
)

type pane int

const (
	paneList pane = iota
	paneForm
)

type opKind int

const (
	opLogin opKind = iota
	opList
	opCreate
	opUpdate
	opDelete
)

// Options configures the UI.
type Options struct {
	Context    context.Context
	Controller *state.Controller
	PollTick   time.Duration
	ThemeName  string
	PrefsPath  string
	LogPath    string
	// LastUsername prefills the login form.
	LastUsername string
}

// Model is the root application state for Bubble Tea.
type Model struct {
	ctx       context.Context
	ctrl      *state.Controller
	prefsPath string
	logPath   string
	pollTick  time.Duration

	theme   Theme
	keys    keyMap
	help    help.Model
	spinner spinner.Model
	width   int
	height  int
	ready   bool

	// Last snapshot pulled from the controller.
	snapshot state.Snapshot
	// Operations started from the UI that have not reported back yet. The
	// controller only flips Busy once the command goroutine runs, so this
	// keeps actions gated in between.
	pending int

	login       loginForm
	form        articleForm
	focus       pane
	selectedRow int

	showHelp bool

	showLogs    bool
	logFollow   bool
	logViewport viewport.Model
}

// New creates a new Bubble Tea model.
func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}

	pollTick := opts.PollTick
	if pollTick <= 0 {
		pollTick = DefaultUIInterval
	}

	prefsPath := opts.PrefsPath
	if prefsPath == "" {
		prefsPath = prefs.DefaultPath()
	}

	sp := spinner.New(spinner.WithSpinner(spinner.Dot))

	return Model{
		ctx:       ctx,
		ctrl:      opts.Controller,
		prefsPath: prefsPath,
		logPath:   opts.LogPath,
		pollTick:  pollTick,
		theme:     GetTheme(opts.ThemeName),
		keys:      DefaultKeyMap(),
		help:      help.New(),
		spinner:   sp,
		snapshot:  opts.Controller.Snapshot(),
		login:     newLoginForm(opts.LastUsername),
		form:      newArticleForm(),
	}
}

type startupMsg struct{}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		tea.EnterAltScreen,
		textinput.Blink,
		tickCmd(m.pollTick),
		func() tea.Msg { return startupMsg{} },
	)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if !m.ready {
			m.initLogViewport()
		}
		m.ready = true
		m.resize()
		return m, nil

	case startupMsg:
		if m.snapshot.Route == state.RouteArticles {
			return m.startOp(opList, m.ctrl.GetArticles)
		}
		return m, nil

	case tickMsg:
		cmds := []tea.Cmd{fetchSnapshotCmd(m.ctrl), tickCmd(m.pollTick)}
		if m.showLogs && m.logFollow && m.logPath != "" {
			cmds = append(cmds, loadLogsCmd(m.logPath))
		}
		return m, tea.Batch(cmds...)

	case snapshotMsg:
		return m.applySnapshot(state.Snapshot(msg))

	case opDoneMsg:
		if m.pending > 0 {
			m.pending--
		}
		return m.handleOpDone(msg)

	case spinner.TickMsg:
		if !m.busy() {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case logLinesMsg:
		m.handleLogLines(msg)
		return m, nil
	}

	// Cursor blink and similar input messages go to whichever field has focus.
	return m.updateInputs(msg)
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	if m.showHelp {
		return m.renderHelp()
	}
	if m.showLogs {
		return m.renderLogs()
	}
	return m.renderMain()
}

func (m Model) renderMain() string {
	var content string
	if m.snapshot.Route == state.RouteArticles {
		content = m.renderArticles()
	} else {
		content = m.renderLogin()
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		m.renderHeader(),
		content,
		m.renderFooter(),
	)
}

func (m Model) busy() bool {
	return m.pending > 0 || m.snapshot.Busy
}

func (m *Model) resize() {
	m.login.setWidth(loginPanelWidth)
	formWidth := m.width - m.width*2/5 - 4
	if m.width < LayoutCompactWidth {
		formWidth = m.width - 4
	}
	m.form.setWidth(formWidth)
	m.logViewport.Width = m.width - 4
	m.logViewport.Height = m.height - 4
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.ForceQuit) {
		return m, tea.Quit
	}

	if m.showHelp {
		m.showHelp = false
		return m, nil
	}
	if m.showLogs {
		return m.handleLogsKey(msg)
	}

	if m.snapshot.Route != state.RouteArticles {
		return m.handleLoginKey(msg)
	}
	if key.Matches(msg, m.keys.Logout) {
		return m.logout()
	}
	if m.focus == paneForm {
		return m.handleFormKey(msg)
	}
	return m.handleListKey(msg)
}

func (m Model) handleLoginKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "tab", "down":
		m.login.next()
		return m, nil
	case "shift+tab", "up":
		m.login.prev()
		return m, nil
	case "enter":
		if m.login.valid() && !m.busy() {
			creds := m.login.credentials()
			return m.startOp(opLogin, func(ctx context.Context) state.Snapshot {
				return m.ctrl.Login(ctx, creds)
			})
		}
		if m.login.focus == loginFieldUsername {
			m.login.next()
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.login, cmd = m.login.update(msg)
	return m, cmd
}

func (m Model) handleListKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
		return m, nil

	case key.Matches(msg, m.keys.CycleTheme):
		m.theme = GetTheme(NextTheme(m.theme.Name))
		name := m.theme.Name
		return m, savePrefsCmd(m.prefsPath, func(p *prefs.Prefs) { p.Theme = name })

	case key.Matches(msg, m.keys.Logs):
		return m.openLogs()

	case key.Matches(msg, m.keys.Down):
		if m.selectedRow < len(m.snapshot.Articles)-1 {
			m.selectedRow++
		}
		return m, nil

	case key.Matches(msg, m.keys.Up):
		if m.selectedRow > 0 {
			m.selectedRow--
		}
		return m, nil

	case key.Matches(msg, m.keys.Top):
		m.selectedRow = 0
		return m, nil

	case key.Matches(msg, m.keys.Bottom):
		if n := len(m.snapshot.Articles); n > 0 {
			m.selectedRow = n - 1
		}
		return m, nil

	case key.Matches(msg, m.keys.Refresh):
		if m.busy() {
			return m, nil
		}
		return m.startOp(opList, m.ctrl.GetArticles)

	case key.Matches(msg, m.keys.New):
		m.ctrl.ClearSelection()
		m.snapshot.CurrentArticleID = 0
		m.form.reset()
		return m.focusForm()

	case key.Matches(msg, m.keys.Edit):
		a, ok := m.selectedArticle()
		if !ok || !m.ctrl.SelectArticle(a.ID) {
			return m, nil
		}
		m.snapshot.CurrentArticleID = a.ID
		m.form.load(a)
		return m.focusForm()

	case key.Matches(msg, m.keys.Delete):
		a, ok := m.selectedArticle()
		if !ok || m.busy() {
			return m, nil
		}
		id := a.ID
		return m.startOp(opDelete, func(ctx context.Context) state.Snapshot {
			return m.ctrl.DeleteArticle(ctx, id)
		})

	case key.Matches(msg, m.keys.Tab), key.Matches(msg, m.keys.ShiftTab):
		return m.focusForm()
	}
	return m, nil
}

func (m Model) handleFormKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Escape):
		if m.form.editing() {
			m.ctrl.ClearSelection()
			m.snapshot.CurrentArticleID = 0
			m.form.reset()
		}
		return m.focusList()

	case key.Matches(msg, m.keys.Submit):
		if !m.form.valid() || m.busy() {
			return m, nil
		}
		draft := m.form.draft()
		if m.form.editing() {
			id := m.form.editingID
			return m.startOp(opUpdate, func(ctx context.Context) state.Snapshot {
				return m.ctrl.UpdateArticle(ctx, id, draft)
			})
		}
		return m.startOp(opCreate, func(ctx context.Context) state.Snapshot {
			return m.ctrl.CreateArticle(ctx, draft)
		})

	case key.Matches(msg, m.keys.Tab):
		m.form.next()
		return m, m.form.focusInputs(true)

	case key.Matches(msg, m.keys.ShiftTab):
		m.form.prev()
		return m, m.form.focusInputs(true)
	}

	if m.form.focus == fieldTopic {
		switch {
		case key.Matches(msg, m.keys.NextTopic):
			m.form.topic = m.form.topic.Next()
		case key.Matches(msg, m.keys.PrevTopic):
			m.form.topic = m.form.topic.Prev()
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.form, cmd = m.form.update(msg)
	return m, cmd
}

func (m Model) focusForm() (tea.Model, tea.Cmd) {
	m.focus = paneForm
	return m, m.form.focusInputs(true)
}

func (m Model) focusList() (tea.Model, tea.Cmd) {
	m.focus = paneList
	m.form.focusInputs(false)
	return m, nil
}

func (m Model) updateInputs(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch {
	case m.snapshot.Route != state.RouteArticles:
		m.login, cmd = m.login.update(msg)
	case m.focus == paneForm:
		m.form, cmd = m.form.update(msg)
	}
	return m, cmd
}

// logout runs synchronously; it never waits on the network.
func (m Model) logout() (tea.Model, tea.Cmd) {
	snap := m.ctrl.Logout()
	return m.applySnapshot(snap)
}

// startOp runs fn in a command and marks the model busy until it reports back.
func (m Model) startOp(op opKind, fn func(context.Context) state.Snapshot) (tea.Model, tea.Cmd) {
	m.pending++
	ctx := m.ctx
	run := func() tea.Msg {
		return opDoneMsg{op: op, snap: fn(ctx)}
	}
	return m, tea.Batch(run, m.spinner.Tick)
}

func (m Model) handleOpDone(msg opDoneMsg) (tea.Model, tea.Cmd) {
	settled := !msg.snap.Busy && msg.snap.LastError == nil
	var cmds []tea.Cmd

	switch msg.op {
	case opLogin:
		if settled && msg.snap.Route == state.RouteArticles {
			username := m.login.credentials().Username
			cmds = append(cmds, savePrefsCmd(m.prefsPath, func(p *prefs.Prefs) { p.LastUsername = username }))
		}
		m.login.clearPassword()
	case opCreate:
		if settled {
			m.form.reset()
			m.form.focusInputs(false)
			m.focus = paneList
			m.selectedRow = len(msg.snap.Articles) - 1
		}
	case opUpdate:
		if settled {
			m.form.reset()
			m.form.focusInputs(false)
			m.focus = paneList
		}
	}

	next, cmd := m.applySnapshot(m.ctrl.Snapshot())
	cmds = append(cmds, cmd)
	return next, tea.Batch(cmds...)
}

// applySnapshot stores snap and reacts to route and selection changes made
// by the controller.
func (m Model) applySnapshot(snap state.Snapshot) (tea.Model, tea.Cmd) {
	prev := m.snapshot.Route
	wasBusy := m.busy()
	m.snapshot = snap
	m.clampSelection()

	// The article being edited disappeared, e.g. deleted or dropped by a refresh.
	if m.form.editing() && !containsID(snap.Articles, m.form.editingID) {
		m.form.reset()
		if m.focus == paneForm {
			m.form.focusInputs(true)
		}
	}

	switch {
	case prev != state.RouteLogin && snap.Route == state.RouteLogin:
		m.form.reset()
		m.form.focusInputs(false)
		m.focus = paneList
		m.login.clearPassword()
	case prev != state.RouteArticles && snap.Route == state.RouteArticles:
		m.focus = paneList
		m.selectedRow = 0
		if !m.busy() {
			return m.startOp(opList, m.ctrl.GetArticles)
		}
	}
	// A background refresh went busy without going through startOp.
	if m.busy() && !wasBusy {
		return m, m.spinner.Tick
	}
	return m, nil
}

func containsID(list []articles.Article, id int64) bool {
	for _, a := range list {
		if a.ID == id {
			return true
		}
	}
	return false
}

// Messages

type tickMsg time.Time

type snapshotMsg state.Snapshot

type opDoneMsg struct {
	op   opKind
	snap state.Snapshot
}

// Commands

func tickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func fetchSnapshotCmd(ctrl *state.Controller) tea.Cmd {
	return func() tea.Msg {
		return snapshotMsg(ctrl.Snapshot())
	}
}

func savePrefsCmd(path string, fn func(*prefs.Prefs)) tea.Cmd {
	return func() tea.Msg {
		if err := prefs.Update(path, fn); err != nil {
			log.Printf("save prefs: %v", err)
		}
		return nil
	}
}

// Run starts the Bubble Tea program.
func Run(opts Options) error {
	m := New(opts)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(m.ctx))
	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return err
	}
	return nil
}
