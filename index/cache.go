package index

import (
	"context"
	"sync"

	"github.com/poiesic/searchlight/ai"
	"github.com/poiesic/searchlight/core"
)

// VectorCache memoizes article embedding vectors by article ID for the
// lifetime of the process. Entries are written once and never overwritten:
// whichever caller first needs a vector computes and publishes it, and every
// later read is pure. Corpus updates are handled by starting fresh, not by
// invalidation.
type VectorCache struct {
	mu      sync.RWMutex
	vectors map[core.ID][]float32
}

// NewVectorCache creates an empty cache.
func NewVectorCache() *VectorCache {
	return &VectorCache{
		vectors: make(map[core.ID][]float32),
	}
}

// GetOrCompute returns the cached vector for the article, computing and
// caching it on a miss. The article is embedded from its EmbeddingText
// (title period-space description) and the stored vector is unit length.
func (c *VectorCache) GetOrCompute(ctx context.Context, article *core.Article, embedder ai.Embedder) ([]float32, error) {
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}

	c.mu.RLock()
	vec, ok := c.vectors[article.Id]
	c.mu.RUnlock()
	if ok {
		return vec, nil
	}

	computed, err := embedder.EmbedText(ctx, article.EmbeddingText())
	if err != nil {
		return nil, err
	}
	computed = Normalize(computed)

	c.mu.Lock()
	defer c.mu.Unlock()
	// First write wins when two callers raced on the same miss.
	if vec, ok := c.vectors[article.Id]; ok {
		return vec, nil
	}
	c.vectors[article.Id] = computed
	return computed, nil
}

// Put seeds the cache with a precomputed vector, normalizing it first.
// Used to warm the cache from vectors persisted by the ingestion pipeline.
// An existing entry is left untouched.
func (c *VectorCache) Put(id core.ID, vec []float32) {
	if len(vec) == 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.vectors[id]; ok {
		return
	}
	c.vectors[id] = Normalize(vec)
}

// Get returns the cached vector for an ID, if present.
func (c *VectorCache) Get(id core.ID) ([]float32, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	vec, ok := c.vectors[id]
	return vec, ok
}

// Len returns the number of cached vectors.
func (c *VectorCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.vectors)
}
