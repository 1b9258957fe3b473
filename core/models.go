package core

import (
	"encoding/binary"
	"time"

	"github.com/go-crypt/x/blake2b"
)

// ID is a unique identifier for domain entities.
// It is generated using content-based hashing or supplied by the corpus feed.
type ID uint64

// IDFromContent generates a deterministic ID from text content using BLAKE2b hashing.
// This ensures that identical content produces identical IDs.
func IDFromContent(text string) ID {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(text))
	sum := h.Sum(nil)
	return ID(binary.LittleEndian.Uint64(sum))
}

// Article is a single corpus document. The retrieval engine only reads it;
// the ingestion pipeline owns creation and enrichment.
type Article struct {
	Id          ID
	Title       string
	Description string
	Tags        []string // topic labels, matched bidirectionally by the keyword scorer
	Keywords    string   // free-text keyword field from the feed
	Type        string   // category label, e.g. "Official Records"
	URL         string
	Position    int       // order within the source feed, used for stable ranking ties
	Vector      []float32 // embedding vector (populated by the ingestion pipeline)
	InsertedAt  time.Time
	UpdatedAt   time.Time
}

// EmbeddingText returns the text an article is embedded from.
// Title and description are joined with a single period-space so every
// vector in the corpus is produced at the same semantic granularity. Query
// vectors are compared against vectors of exactly this text.
func (a *Article) EmbeddingText() string {
	return a.Title + ". " + a.Description
}

// SearchResult is one ranked hit. Score is the fused relevance value
// (raw keyword points in degraded keyword-only mode). Similarity holds the
// raw cosine value when the hit has a semantic contribution, 0 otherwise.
type SearchResult struct {
	Article    *Article
	Score      float64
	Similarity float32
}
