package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/five82/quill/internal/articles"
)

// selectedArticle returns the article under the cursor.
func (m Model) selectedArticle() (articles.Article, bool) {
	list := m.snapshot.Articles
	if m.selectedRow < 0 || m.selectedRow >= len(list) {
		return articles.Article{}, false
	}
	return list[m.selectedRow], true
}

func (m *Model) clampSelection() {
	n := len(m.snapshot.Articles)
	switch {
	case n == 0:
		m.selectedRow = 0
	case m.selectedRow >= n:
		m.selectedRow = n - 1
	case m.selectedRow < 0:
		m.selectedRow = 0
	}
}

func (m Model) renderArticles() string {
	height := m.contentHeight()
	if m.width < LayoutCompactWidth {
		listHeight := height / 2
		return lipgloss.JoinVertical(lipgloss.Left,
			m.renderList(m.width, listHeight),
			m.renderForm(m.width, m.focus == paneForm),
		)
	}
	listWidth := m.width * 2 / 5
	return lipgloss.JoinHorizontal(lipgloss.Top,
		m.renderList(listWidth, height),
		m.renderForm(m.width-listWidth, m.focus == paneForm),
	)
}

func (m Model) renderList(width, height int) string {
	styles := m.theme.Styles()
	inner := width - 4
	if inner < 10 {
		inner = 10
	}

	var b strings.Builder
	b.WriteString(styles.Text.Bold(true).Render(fmt.Sprintf("Articles (%d)", len(m.snapshot.Articles))))
	b.WriteString("\n\n")

	if len(m.snapshot.Articles) == 0 {
		switch {
		case m.busy():
			b.WriteString(m.spinner.View() + " " + styles.MutedText.Render("Loading articles..."))
		default:
			b.WriteString(styles.FaintText.Render("No articles yet. Press n to write one."))
		}
	}

	rows := height - 10
	if rows < 3 {
		rows = 3
	}
	start := 0
	if m.selectedRow >= rows {
		start = m.selectedRow - rows + 1
	}
	for i := start; i < len(m.snapshot.Articles) && i < start+rows; i++ {
		a := m.snapshot.Articles[i]
		marker := "  "
		if a.ID == m.snapshot.CurrentArticleID {
			marker = "✎ "
		}
		badge := styles.TopicStyle(a.Topic).Render(string(a.Topic))
		titleWidth := inner - lipgloss.Width(badge) - lipgloss.Width(marker) - 1
		title := truncate(a.Title, titleWidth)
		line := marker + title + strings.Repeat(" ", max(1, titleWidth-lipgloss.Width(title)+1))
		if i == m.selectedRow && m.focus == paneList {
			line = styles.Selected.Render(line)
		} else {
			line = styles.Text.Render(line)
		}
		b.WriteString(line + badge + "\n")
	}

	if a, ok := m.selectedArticle(); ok {
		b.WriteString("\n")
		b.WriteString(styles.FaintText.Render(strings.Repeat("─", inner)))
		b.WriteString("\n")
		b.WriteString(styles.MutedText.Render(previewText(a.Text, inner, 4)))
	}

	panel := styles.Panel
	if m.focus == paneList {
		panel = styles.FocusedPanel
	}
	return panel.Width(width - 2).Render(b.String())
}

// previewText wraps text to width and keeps at most lines lines.
func previewText(text string, width, lines int) string {
	wrapped := lipgloss.NewStyle().Width(width).Render(strings.TrimSpace(text))
	parts := strings.Split(wrapped, "\n")
	if len(parts) > lines {
		parts = parts[:lines]
		parts[lines-1] = truncate(strings.TrimRight(parts[lines-1], " ")+" …", width)
	}
	return strings.Join(parts, "\n")
}
