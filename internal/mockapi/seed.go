package mockapi

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/five82/quill/internal/articles"
)

// Seed is the initial article set the mock server starts with.
type Seed struct {
	Articles []SeedArticle `yaml:"articles"`
}

// SeedArticle is one fixture entry. ID may be omitted; the server assigns one.
type SeedArticle struct {
	ID    int64  `yaml:"id"`
	Title string `yaml:"title"`
	Text  string `yaml:"text"`
	Topic string `yaml:"topic"`
}

// DefaultSeed returns the built-in fixtures.
func DefaultSeed() Seed {
	return Seed{Articles: []SeedArticle{
		{ID: 1, Title: "Closures", Text: "A closure is a function bundled with its lexical environment.", Topic: string(articles.TopicNode)},
		{ID: 2, Title: "Reducers", Text: "A reducer computes the next state from the previous state and an action.", Topic: string(articles.TopicRedux)},
		{ID: 3, Title: "Effects", Text: "Effects synchronize a component with an external system.", Topic: string(articles.TopicReact)},
	}}
}

// LoadSeed reads fixtures from a YAML file.
func LoadSeed(path string) (Seed, error) {
	bytes, err := os.ReadFile(path)
	if err != nil {
		return Seed{}, fmt.Errorf("read seed: %w", err)
	}
	var seed Seed
	if err := yaml.Unmarshal(bytes, &seed); err != nil {
		return Seed{}, fmt.Errorf("parse seed: %w", err)
	}
	for i, a := range seed.Articles {
		draft := articles.Draft{Title: a.Title, Text: a.Text, Topic: articles.Topic(a.Topic)}
		if !draft.Complete() {
			return Seed{}, fmt.Errorf("parse seed: article %d needs a title, text and one of %v", i+1, articles.Topics())
		}
	}
	return seed, nil
}
