package ingestion

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/poiesic/searchlight/core"
)

// feedArticle is the wire shape of one entry in an article feed.
// The embedding field is optional; entries without one are embedded
// during seeding.
type feedArticle struct {
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Tags        []string  `json:"tags"`
	Keywords    string    `json:"keywords"`
	Type        string    `json:"type"`
	URL         string    `json:"url"`
	Embedding   []float32 `json:"embedding,omitempty"`
}

// ReadFeed decodes a JSON article feed. Each article's Position records its
// place in the feed, which is the corpus order used for ranking ties.
func ReadFeed(r io.Reader) ([]*core.Article, error) {
	var entries []feedArticle
	if err := json.NewDecoder(r).Decode(&entries); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedFeed, err)
	}

	articles := make([]*core.Article, len(entries))
	for i, entry := range entries {
		articles[i] = &core.Article{
			Title:       entry.Title,
			Description: entry.Description,
			Tags:        entry.Tags,
			Keywords:    entry.Keywords,
			Type:        entry.Type,
			URL:         entry.URL,
			Position:    i,
			Vector:      entry.Embedding,
		}
	}
	return articles, nil
}

// LoadFeed reads a JSON article feed from a file.
func LoadFeed(path string) ([]*core.Article, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadFeed(f)
}
