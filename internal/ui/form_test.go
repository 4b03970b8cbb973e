package ui

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/five82/quill/internal/articles"
)

func TestLoginForm_Validity(t *testing.T) {
	cases := []struct {
		name     string
		username string
		password string
		want     bool
	}{
		{"empty", "", "", false},
		{"short username", "al", "password1", false},
		{"short password", "alice", "pass", false},
		{"padded username", "  al  ", "password1", false},
		{"minimums", "bob", "12345678", true},
		{"multibyte", "ñoä", "pässwörd", true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newLoginForm("")
			f.username.SetValue(tc.username)
			f.password.SetValue(tc.password)
			assert.Equal(t, tc.want, f.valid())
		})
	}
}

func TestLoginForm_PrefillsLastUsername(t *testing.T) {
	f := newLoginForm("alice")
	assert.Equal(t, "alice", f.username.Value())
	assert.Equal(t, loginFieldPassword, f.focus)

	f = newLoginForm("")
	assert.Equal(t, loginFieldUsername, f.focus)
}

func TestArticleForm_LoadResetAndDraft(t *testing.T) {
	f := newArticleForm()
	assert.False(t, f.valid())
	assert.Equal(t, articles.TopicReact, f.topic)

	f.load(articles.Article{ID: 7, Title: " Streams ", Text: "pipe()", Topic: articles.TopicNode})
	assert.True(t, f.editing())
	assert.True(t, f.valid())
	assert.Equal(t, articles.Draft{Title: "Streams", Text: "pipe()", Topic: articles.TopicNode}, f.draft())

	f.reset()
	assert.False(t, f.editing())
	assert.Empty(t, f.title.Value())
	assert.Empty(t, f.text.Value())
	assert.Equal(t, articles.TopicReact, f.topic)
}

func TestArticleForm_UnknownTopicFallsBack(t *testing.T) {
	f := newArticleForm()
	f.load(articles.Article{ID: 1, Title: "t", Text: "x", Topic: "Angular"})
	assert.Equal(t, articles.TopicReact, f.topic)
}

func TestArticleForm_FieldCycle(t *testing.T) {
	f := newArticleForm()
	f.next()
	assert.Equal(t, fieldText, f.focus)
	f.next()
	assert.Equal(t, fieldTopic, f.focus)
	f.next()
	assert.Equal(t, fieldTitle, f.focus)
	f.prev()
	assert.Equal(t, fieldTopic, f.focus)
}
