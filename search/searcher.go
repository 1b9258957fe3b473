package search

import (
	"context"
	"errors"
	"log/slog"
	"math"
	"runtime"
	"slices"
	"strings"
	"sync"

	"github.com/panjf2000/ants/v2"

	"github.com/poiesic/searchlight/ai"
	"github.com/poiesic/searchlight/core"
	"github.com/poiesic/searchlight/index"
)

// Hybrid score fusion. Similarity is scaled to 0-100 points and only
// contributes when it clears semanticFloor; keyword points always
// contribute when non-zero.
const (
	semanticWeight = 0.7
	keywordWeight  = 0.3
	semanticFloor  = 10
)

// Searcher provides hybrid semantic and keyword search over an article corpus.
// Article vectors are memoized in a VectorCache, so repeated searches only
// embed the query itself.
type Searcher struct {
	embedder ai.Embedder
	cache    *index.VectorCache
	pool     *ants.Pool
	logger   *slog.Logger
}

// Option configures a Searcher.
type Option func(*Searcher) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Searcher) error {
		if logger == nil {
			logger = slog.Default()
		}
		s.logger = logger
		return nil
	}
}

// WithVectorCache sets the article vector cache.
// Default is a fresh empty cache. Pass a pre-warmed cache to skip
// embedding articles whose vectors are already known.
func WithVectorCache(cache *index.VectorCache) Option {
	return func(s *Searcher) error {
		if cache != nil {
			s.cache = cache
		}
		return nil
	}
}

// WithPoolSize sets the number of workers scoring articles concurrently.
// Default is half the CPU count, minimum 1.
func WithPoolSize(size int) Option {
	return func(s *Searcher) error {
		if size < 1 {
			return ErrInvalidPoolSize
		}
		if s.pool != nil {
			s.pool.Release()
		}
		pool, err := ants.NewPool(size)
		if err != nil {
			return err
		}
		s.pool = pool
		return nil
	}
}

// NewSearcher creates a new searcher.
func NewSearcher(embedder ai.Embedder, opts ...Option) (*Searcher, error) {
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}

	// Default pool size
	poolSize := runtime.NumCPU() / 2
	if poolSize < 1 {
		poolSize = 1
	}

	pool, err := ants.NewPool(poolSize)
	if err != nil {
		return nil, err
	}

	s := &Searcher{
		embedder: embedder,
		cache:    index.NewVectorCache(),
		pool:     pool,
		logger:   slog.Default(),
	}

	// Apply options
	for _, opt := range opts {
		if err := opt(s); err != nil {
			pool.Release()
			return nil, err
		}
	}

	return s, nil
}

// Release shuts down the worker pool. The searcher must not be used after.
func (s *Searcher) Release() {
	if s.pool != nil {
		s.pool.Release()
	}
}

// Cache returns the article vector cache used by this searcher.
func (s *Searcher) Cache() *index.VectorCache {
	return s.cache
}

// Search ranks the corpus against the query using fused semantic and keyword
// scores. An empty query returns the whole corpus unranked. If the query
// cannot be embedded, the search degrades to keyword-only ranking rather
// than failing.
func (s *Searcher) Search(ctx context.Context, query string, corpus []*core.Article) ([]*core.SearchResult, error) {
	return s.SearchWithMonitor(ctx, query, corpus, nil)
}

// SearchWithMonitor is Search with monitoring.
// The monitor receives callbacks at each stage of the search process.
func (s *Searcher) SearchWithMonitor(ctx context.Context, query string, corpus []*core.Article, monitor SearchMonitor) ([]*core.SearchResult, error) {
	// Use noop monitor if none provided
	if monitor == nil {
		monitor = &noopMonitor{}
	}

	monitor.Start(query)

	// An empty query matches everything equally: whole corpus, corpus
	// order, zero scores.
	if strings.TrimSpace(query) == "" {
		results := make([]*core.SearchResult, len(corpus))
		for i, article := range corpus {
			results[i] = &core.SearchResult{Article: article}
		}
		monitor.Finish(results)
		return results, nil
	}

	queryVector, err := s.embedder.EmbedText(ctx, query)
	if err != nil {
		// Degrade to keyword-only ranking; the caller still gets results.
		s.logger.Warn("query embedding failed, degrading to keyword search", "query", query, "err", err)
		monitor.DegradedToKeyword(err)
		results := KeywordSearch(query, corpus)
		for _, result := range results {
			monitor.KeywordHit(result.Article, int(result.Score))
		}
		monitor.Finish(results)
		return results, nil
	}
	queryVector = index.Normalize(queryVector)
	monitor.QueryEmbedded(queryVector)

	similarities, err := s.scoreSimilarities(ctx, queryVector, corpus)
	if err != nil {
		return nil, err
	}

	results := make([]*core.SearchResult, 0, len(corpus))
	for i, article := range corpus {
		semanticPoints := int(math.Round(float64(similarities[i]) * 100))
		keywordPoints := KeywordScore(query, article)

		inSemantic := semanticPoints > semanticFloor
		if !inSemantic && keywordPoints == 0 {
			continue
		}

		var semanticPart float64
		var similarity float32
		if inSemantic {
			semanticPart = float64(semanticPoints)
			similarity = similarities[i]
			monitor.SemanticHit(article, similarity)
		}
		if keywordPoints > 0 {
			monitor.KeywordHit(article, keywordPoints)
		}

		results = append(results, &core.SearchResult{
			Article:    article,
			Score:      semanticPart*semanticWeight + float64(keywordPoints)*keywordWeight,
			Similarity: similarity,
		})
	}

	// Stable so equal scores keep corpus order.
	slices.SortStableFunc(results, compareByScoreDesc)
	monitor.Finish(results)

	return results, nil
}

// scoreSimilarities computes the cosine similarity of every article against
// the query vector, fanning the work out over the pool. Articles that cannot
// be embedded score 0 and are left to the keyword signal; a dimension
// mismatch is a configuration error and aborts the search.
func (s *Searcher) scoreSimilarities(ctx context.Context, queryVector []float32, corpus []*core.Article) ([]float32, error) {
	similarities := make([]float32, len(corpus))

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		fatalErr error
	)

	for i, article := range corpus {
		wg.Add(1)
		task := func() {
			defer wg.Done()

			vector, err := s.cache.GetOrCompute(ctx, article, s.embedder)
			if err != nil {
				s.logger.Warn("article embedding failed, keyword signal only", "articleID", article.Id, "err", err)
				return
			}

			similarity, err := index.CosineSimilarity(queryVector, vector)
			if err != nil {
				if errors.Is(err, index.ErrDimensionMismatch) {
					mu.Lock()
					if fatalErr == nil {
						fatalErr = err
					}
					mu.Unlock()
				}
				return
			}
			similarities[i] = similarity
		}

		if err := s.pool.Submit(task); err != nil {
			// Pool saturated or released; score inline rather than drop.
			task()
		}
	}
	wg.Wait()

	if fatalErr != nil {
		return nil, fatalErr
	}
	return similarities, nil
}
