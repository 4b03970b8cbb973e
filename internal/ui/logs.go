package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/quill/internal/logtail"
)

type logLinesMsg struct {
	lines []string
	err   error
}

func loadLogsCmd(path string) tea.Cmd {
	return func() tea.Msg {
		lines, err := logtail.Read(path, LogTailLines)
		return logLinesMsg{lines: lines, err: err}
	}
}

func (m *Model) initLogViewport() {
	m.logViewport = viewport.New(m.width-4, m.height-4)
}

// openLogs shows the log overlay and starts loading the file.
func (m Model) openLogs() (tea.Model, tea.Cmd) {
	m.showLogs = true
	m.logFollow = true
	if m.logPath == "" {
		m.logViewport.SetContent(m.theme.Styles().FaintText.Render("Logging to a file is disabled."))
		return m, nil
	}
	return m, loadLogsCmd(m.logPath)
}

func (m *Model) handleLogLines(msg logLinesMsg) {
	styles := m.theme.Styles()
	if msg.err != nil {
		m.logViewport.SetContent(styles.DangerText.Render(msg.err.Error()))
		return
	}
	if len(msg.lines) == 0 {
		m.logViewport.SetContent(styles.FaintText.Render("Log is empty."))
		return
	}

	var b strings.Builder
	for i, line := range msg.lines {
		if i > 0 {
			b.WriteString("\n")
		}
		if logtail.Classify(line) == logtail.SeverityError {
			b.WriteString(styles.DangerText.Render(line))
		} else {
			b.WriteString(styles.Text.Render(line))
		}
	}
	m.logViewport.SetContent(b.String())
	if m.logFollow {
		m.logViewport.GotoBottom()
	}
}

func (m Model) handleLogsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "q", "L":
		m.showLogs = false
		return m, nil
	case "G", "end":
		m.logFollow = true
		m.logViewport.GotoBottom()
		return m, nil
	case "g", "home":
		m.logFollow = false
		m.logViewport.GotoTop()
		return m, nil
	}

	var cmd tea.Cmd
	m.logViewport, cmd = m.logViewport.Update(msg)
	m.logFollow = m.logViewport.AtBottom()
	return m, cmd
}

func (m Model) renderLogs() string {
	styles := m.theme.Styles()
	title := styles.AccentText.Bold(true).Render("Log") + "  " +
		styles.FaintText.Render(truncateMiddle(m.logPath, m.width-12))
	follow := styles.MutedText.Render("esc close  g/G top/bottom")
	if m.logFollow {
		follow = styles.SuccessText.Render("following") + "  " + follow
	}
	body := styles.FocusedPanel.Width(m.width - 2).Render(m.logViewport.View())
	return title + "\n" + body + "\n" + follow
}
