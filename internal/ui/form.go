package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/quill/internal/articles"
)

type formField int

const (
	fieldTitle formField = iota
	fieldText
	fieldTopic
	fieldCount
)

// articleForm edits a draft. editingID is non-zero while an existing article
// is being edited; submit then updates instead of creating.
type articleForm struct {
	title     textinput.Model
	text      textarea.Model
	topic     articles.Topic
	focus     formField
	editingID int64
}

func newArticleForm() articleForm {
	title := textinput.New()
	title.Placeholder = "Title"
	title.Prompt = ""
	title.CharLimit = 200

	text := textarea.New()
	text.Placeholder = "Write your article..."
	text.ShowLineNumbers = false
	text.CharLimit = 0
	text.SetHeight(6)

	return articleForm{
		title: title,
		text:  text,
		topic: articles.Topics()[0],
	}
}

func (f articleForm) draft() articles.Draft {
	return articles.Draft{
		Title: f.title.Value(),
		Text:  f.text.Value(),
		Topic: f.topic,
	}.Normalized()
}

// valid reports whether the submit action is enabled.
func (f articleForm) valid() bool {
	return f.draft().Complete()
}

func (f articleForm) editing() bool {
	return f.editingID != 0
}

// load prefills the form from a for editing.
func (f *articleForm) load(a articles.Article) {
	d := articles.DraftOf(a)
	f.title.SetValue(d.Title)
	f.text.SetValue(d.Text)
	f.topic = d.Topic
	if !f.topic.Valid() {
		f.topic = articles.Topics()[0]
	}
	f.editingID = a.ID
	f.focus = fieldTitle
}

func (f *articleForm) reset() {
	f.title.Reset()
	f.text.Reset()
	f.topic = articles.Topics()[0]
	f.editingID = 0
	f.focus = fieldTitle
}

func (f *articleForm) next() {
	f.focus = (f.focus + 1) % fieldCount
}

func (f *articleForm) prev() {
	f.focus = (f.focus + fieldCount - 1) % fieldCount
}

// focusInputs focuses the input under f.focus and blurs the others. Passing
// false blurs everything, for when the list pane has focus.
func (f *articleForm) focusInputs(active bool) tea.Cmd {
	f.title.Blur()
	f.text.Blur()
	if !active {
		return nil
	}
	switch f.focus {
	case fieldTitle:
		return f.title.Focus()
	case fieldText:
		return f.text.Focus()
	}
	return nil
}

func (f *articleForm) setWidth(width int) {
	w := width - 4
	if w < 10 {
		w = 10
	}
	f.title.Width = w
	f.text.SetWidth(w)
}

func (f articleForm) update(msg tea.Msg) (articleForm, tea.Cmd) {
	var cmd tea.Cmd
	switch f.focus {
	case fieldTitle:
		f.title, cmd = f.title.Update(msg)
	case fieldText:
		f.text, cmd = f.text.Update(msg)
	}
	return f, cmd
}

func (m Model) renderForm(width int, focused bool) string {
	styles := m.theme.Styles()
	f := m.form

	heading := "New article"
	if f.editing() {
		heading = "Editing article"
	}

	label := func(field formField, text string) string {
		if focused && f.focus == field {
			return styles.AccentText.Bold(true).Render("▸ " + text)
		}
		return styles.MutedText.Render("  " + text)
	}

	var b strings.Builder
	b.WriteString(styles.Text.Bold(true).Render(heading))
	b.WriteString("\n\n")
	b.WriteString(label(fieldTitle, "Title"))
	b.WriteString("\n")
	b.WriteString(f.title.View())
	b.WriteString("\n\n")
	b.WriteString(label(fieldText, "Text"))
	b.WriteString("\n")
	b.WriteString(f.text.View())
	b.WriteString("\n\n")
	b.WriteString(label(fieldTopic, "Topic"))
	b.WriteString("\n")
	for _, topic := range articles.Topics() {
		if topic == f.topic {
			b.WriteString(styles.TopicStyle(topic).Render(string(topic)))
		} else {
			b.WriteString(styles.FaintText.Render(" " + string(topic) + " "))
		}
		b.WriteString(" ")
	}
	b.WriteString("\n\n")

	action := "create"
	if f.editing() {
		action = "update"
	}
	switch {
	case m.busy():
		b.WriteString(m.spinner.View() + " " + styles.WarningText.Render("Saving..."))
	case f.valid():
		b.WriteString(styles.SuccessText.Render("ctrl+s") + styles.MutedText.Render(" to "+action))
	default:
		b.WriteString(styles.FaintText.Render("title, text and topic are required"))
	}

	panel := styles.Panel
	if focused {
		panel = styles.FocusedPanel
	}
	return panel.Width(width - 2).Render(b.String())
}
