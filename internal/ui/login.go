package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/quill/internal/articles"
)

const (
	loginFieldUsername = iota
	loginFieldPassword
	loginFieldCount
)

// loginForm holds the username and password inputs shown on the login route.
type loginForm struct {
	username textinput.Model
	password textinput.Model
	focus    int
}

func newLoginForm(lastUsername string) loginForm {
	username := textinput.New()
	username.Placeholder = "username"
	username.Prompt = "User:     "
	username.CharLimit = 64
	username.SetValue(lastUsername)

	password := textinput.New()
	password.Placeholder = "at least 8 characters"
	password.Prompt = "Password: "
	password.EchoMode = textinput.EchoPassword
	password.EchoCharacter = '•'
	password.CharLimit = 128

	f := loginForm{username: username, password: password}
	if strings.TrimSpace(lastUsername) != "" {
		f.focus = loginFieldPassword
	}
	f.applyFocus()
	return f
}

func (f loginForm) credentials() articles.Credentials {
	return articles.Credentials{
		Username: strings.TrimSpace(f.username.Value()),
		Password: f.password.Value(),
	}
}

// valid reports whether the submit action is enabled.
func (f loginForm) valid() bool {
	return f.credentials().Complete()
}

func (f *loginForm) next() {
	f.focus = (f.focus + 1) % loginFieldCount
	f.applyFocus()
}

func (f *loginForm) prev() {
	f.focus = (f.focus + loginFieldCount - 1) % loginFieldCount
	f.applyFocus()
}

// clearPassword empties the password, keeping the username for the next attempt.
func (f *loginForm) clearPassword() {
	f.password.Reset()
	f.focus = loginFieldPassword
	f.applyFocus()
}

func (f *loginForm) applyFocus() {
	if f.focus == loginFieldUsername {
		f.username.Focus()
		f.password.Blur()
		return
	}
	f.username.Blur()
	f.password.Focus()
}

func (f *loginForm) setWidth(width int) {
	w := width - 14
	if w < 10 {
		w = 10
	}
	f.username.Width = w
	f.password.Width = w
}

func (f loginForm) update(msg tea.Msg) (loginForm, tea.Cmd) {
	var cmd tea.Cmd
	if f.focus == loginFieldUsername {
		f.username, cmd = f.username.Update(msg)
	} else {
		f.password, cmd = f.password.Update(msg)
	}
	return f, cmd
}

func (m Model) renderLogin() string {
	styles := m.theme.Styles()

	var b strings.Builder
	b.WriteString(styles.AccentText.Bold(true).Render("Sign in"))
	b.WriteString("\n\n")
	b.WriteString(m.login.username.View())
	b.WriteString("\n")
	b.WriteString(m.login.password.View())
	b.WriteString("\n\n")

	switch {
	case m.busy():
		b.WriteString(m.spinner.View() + " " + styles.WarningText.Render("Signing in..."))
	case m.login.valid():
		b.WriteString(styles.SuccessText.Render("enter") + styles.MutedText.Render(" to log in"))
	default:
		b.WriteString(styles.FaintText.Render("username ≥ 3 characters, password ≥ 8"))
	}

	panel := styles.FocusedPanel.Width(loginPanelWidth).Render(b.String())
	return lipgloss.Place(m.width, m.contentHeight(), lipgloss.Center, lipgloss.Center, panel)
}
