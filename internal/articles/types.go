package articles

import (
	"strings"
	"unicode/utf8"
)

// Topic is the category an article is filed under.
type Topic string

const (
	TopicReact Topic = "React"
	TopicRedux Topic = "Redux"
	TopicNode  Topic = "Node"
)

// Topics lists the accepted topics in display order.
func Topics() []Topic {
	return []Topic{TopicReact, TopicRedux, TopicNode}
}

// Valid reports whether t is one of the accepted topics.
func (t Topic) Valid() bool {
	for _, known := range Topics() {
		if t == known {
			return true
		}
	}
	return false
}

// Next returns the topic after t, wrapping around. Unknown topics map to the first one.
func (t Topic) Next() Topic {
	all := Topics()
	for i, known := range all {
		if known == t {
			return all[(i+1)%len(all)]
		}
	}
	return all[0]
}

// Prev returns the topic before t, wrapping around.
func (t Topic) Prev() Topic {
	all := Topics()
	for i, known := range all {
		if known == t {
			return all[(i+len(all)-1)%len(all)]
		}
	}
	return all[len(all)-1]
}

// Article mirrors an article record as served by /api/articles.
type Article struct {
	ID    int64  `json:"article_id,omitempty"`
	Title string `json:"title"`
	Text  string `json:"text"`
	Topic Topic  `json:"topic"`
}

// Draft is the user-editable part of an article, sent on create and update.
type Draft struct {
	Title string `json:"title"`
	Text  string `json:"text"`
	Topic Topic  `json:"topic"`
}

// Normalized returns a copy with surrounding whitespace removed.
func (d Draft) Normalized() Draft {
	return Draft{
		Title: strings.TrimSpace(d.Title),
		Text:  strings.TrimSpace(d.Text),
		Topic: Topic(strings.TrimSpace(string(d.Topic))),
	}
}

// Complete reports whether every field is filled in with an accepted topic.
func (d Draft) Complete() bool {
	n := d.Normalized()
	return n.Title != "" && n.Text != "" && n.Topic.Valid()
}

// DraftOf extracts the editable fields of a stored article.
func DraftOf(a Article) Draft {
	return Draft{Title: a.Title, Text: a.Text, Topic: a.Topic}
}

// Credentials are posted to /api/login.
type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

const (
	minUsernameLength = 3
	minPasswordLength = 8
)

// Complete reports whether the credentials are long enough to submit.
func (c Credentials) Complete() bool {
	return utf8.RuneCountInString(strings.TrimSpace(c.Username)) >= minUsernameLength &&
		utf8.RuneCountInString(strings.TrimSpace(c.Password)) >= minPasswordLength
}

// LoginResponse mirrors the payload returned by POST /api/login.
type LoginResponse struct {
	Token   string `json:"token"`
	Message string `json:"message"`
}

// ListResponse mirrors GET /api/articles.
type ListResponse struct {
	Articles []Article `json:"articles"`
	Message  string    `json:"message"`
}

// MutationResponse mirrors the create, update and delete endpoints. Article is
// nil when the server does not echo the stored record.
type MutationResponse struct {
	Message string   `json:"message"`
	Article *Article `json:"article,omitempty"`
}

type errorResponse struct {
	Message string `json:"message"`
}
