package ui

import (
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/five82/quill/internal/state"
)

// renderHeader renders the top bar: logo, route, busy indicator, message and
// the age of the last settled operation.
func (m Model) renderHeader() string {
	styles := m.theme.Styles()
	sep := "  "

	parts := []string{styles.Logo.Render("quill")}

	route := "login"
	if m.snapshot.Route == state.RouteArticles {
		route = "articles"
	}
	parts = append(parts, styles.MutedText.Render(route))

	if m.busy() {
		parts = append(parts, m.spinner.View()+" "+styles.WarningText.Render("Working..."))
	}

	if msg := strings.TrimSpace(m.snapshot.Message); msg != "" {
		style := styles.SuccessText
		if m.snapshot.LastError != nil {
			style = styles.DangerText
		}
		parts = append(parts, style.Render(msg))
	}

	left := strings.Join(parts, sep)

	right := ""
	if !m.snapshot.LastUpdated.IsZero() {
		age := humanizeDuration(time.Since(m.snapshot.LastUpdated))
		if age != "now" {
			age += " ago"
		}
		right = styles.FaintText.Render("updated " + age)
	}

	gap := m.width - 2 - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}
	return styles.Header.Width(m.width).Render(left + strings.Repeat(" ", gap) + right)
}

// renderFooter shows the key hints that apply to whatever has focus.
func (m Model) renderFooter() string {
	styles := m.theme.Styles()
	m.help.Width = m.width - 2

	var hints string
	switch {
	case m.snapshot.Route == state.RouteLogin:
		hints = m.help.ShortHelpView(m.keys.loginHelp())
	case m.focus == paneForm:
		hints = m.help.ShortHelpView(m.keys.formHelp())
	default:
		hints = m.help.ShortHelpView(m.keys.ShortHelp())
	}
	return styles.Footer.Width(m.width).Render(hints)
}
