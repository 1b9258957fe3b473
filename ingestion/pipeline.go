package ingestion

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/poiesic/searchlight/ai"
	"github.com/poiesic/searchlight/core"
	"github.com/poiesic/searchlight/index"
	"github.com/poiesic/searchlight/storage"
)

const (
	defaultBatchSize   = 16
	defaultMaxAttempts = 3
	defaultBaseDelay   = 500 * time.Millisecond
)

// Pipeline orchestrates seeding an article corpus: feed validation,
// persistence, and concurrent batch embedding of missing vectors.
type Pipeline struct {
	articleRepository storage.ArticleRepository
	embedder          ai.Embedder
	pool              *ants.Pool
	batchSize         int
	maxAttempts       int
	baseDelay         time.Duration
	logger            *slog.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline) error

// WithPoolSize sets the worker pool size for concurrent embedding.
// Default is runtime.NumCPU() / 2, with a minimum of 1.
func WithPoolSize(size int) Option {
	return func(p *Pipeline) error {
		if size < 1 {
			size = 1
		}

		if p.pool != nil {
			p.pool.Release()
		}

		pool, err := ants.NewPool(size)
		if err != nil {
			return err
		}
		p.pool = pool
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) error {
		if logger == nil {
			logger = slog.Default()
		}
		p.logger = logger
		return nil
	}
}

// WithBatchSize sets how many articles are embedded per request.
// Default is 16.
func WithBatchSize(size int) Option {
	return func(p *Pipeline) error {
		if size < 1 {
			size = 1
		}
		p.batchSize = size
		return nil
	}
}

// WithRetryPolicy sets the embedding retry behavior.
// Defaults are 3 attempts with a 500ms base delay.
func WithRetryPolicy(maxAttempts int, baseDelay time.Duration) Option {
	return func(p *Pipeline) error {
		if maxAttempts <= 0 {
			return ErrInvalidMaxAttempts
		}
		p.maxAttempts = maxAttempts
		p.baseDelay = baseDelay
		return nil
	}
}

// NewPipeline creates a new ingestion pipeline.
func NewPipeline(articleRepository storage.ArticleRepository, embedder ai.Embedder, opts ...Option) (*Pipeline, error) {
	if articleRepository == nil {
		return nil, ErrArticleRepositoryRequired
	}
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

	p := &Pipeline{
		articleRepository: articleRepository,
		embedder:          embedder,
		pool:              pool,
		batchSize:         defaultBatchSize,
		maxAttempts:       defaultMaxAttempts,
		baseDelay:         defaultBaseDelay,
		logger:            slog.Default(),
	}

	// Apply options
	for _, opt := range opts {
		if optErr := opt(p); optErr != nil {
			p.Release()
			return nil, optErr
		}
	}

	return p, nil
}

// Release releases the worker pool.
// The pipeline should not be used after calling Release.
func (p *Pipeline) Release() {
	if p.pool != nil {
		p.pool.Release()
	}
}

// Seed validates and persists feed articles, then embeds every article the
// feed did not ship a vector for. Invalid articles are skipped with a
// warning rather than failing the whole feed. Returns the stored articles.
func (p *Pipeline) Seed(ctx context.Context, articles []*core.Article) ([]*core.Article, error) {
	accepted := make([]*core.Article, 0, len(articles))
	for _, article := range articles {
		if err := core.ValidateArticle(article); err != nil {
			p.logger.Warn("skipping invalid feed article", "url", article.URL, "err", err)
			continue
		}
		// Precomputed vectors are stored unit length, like computed ones.
		if len(article.Vector) > 0 {
			article.Vector = index.Normalize(article.Vector)
		}
		accepted = append(accepted, article)
	}

	if len(accepted) == 0 {
		return nil, nil
	}

	stored, err := p.articleRepository.AddArticles(ctx, accepted...)
	if err != nil {
		return nil, err
	}

	missing := make([]*core.Article, 0, len(stored))
	for _, article := range stored {
		if len(article.Vector) == 0 {
			missing = append(missing, article)
		}
	}
	p.logger.Info("seeded articles", "stored", len(stored), "toEmbed", len(missing))

	if err := p.embedArticles(ctx, missing); err != nil {
		return nil, err
	}
	return stored, nil
}

// Reembed recomputes the vector of every stored article, for use after the
// embedding model changes. Returns the number of articles re-embedded.
func (p *Pipeline) Reembed(ctx context.Context) (int, error) {
	articles, err := p.articleRepository.GetAllArticles(ctx)
	if err != nil {
		return 0, err
	}

	p.logger.Info("re-embedding corpus", "articles", len(articles))
	if err := p.embedArticles(ctx, articles); err != nil {
		return 0, err
	}
	return len(articles), nil
}

// embedArticles embeds the articles in batches on the worker pool and
// persists the resulting vectors. The first batch error aborts the result.
func (p *Pipeline) embedArticles(ctx context.Context, articles []*core.Article) error {
	if len(articles) == 0 {
		return nil
	}

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		firstErr error
	)
	fail := func(err error) {
		mu.Lock()
		if firstErr == nil {
			firstErr = err
		}
		mu.Unlock()
	}

	for start := 0; start < len(articles); start += p.batchSize {
		batch := articles[start:min(start+p.batchSize, len(articles))]

		wg.Add(1)
		task := func() {
			defer wg.Done()

			texts := make([]string, len(batch))
			for i, article := range batch {
				texts[i] = article.EmbeddingText()
			}

			var embeddings [][]float32
			err := RetryWithBackoff(ctx, func() error {
				var embedErr error
				embeddings, embedErr = p.embedder.EmbedTexts(ctx, texts)
				return embedErr
			}, p.maxAttempts, p.baseDelay)
			if err != nil {
				p.logger.Error("error embedding article batch", "batchSize", len(batch), "err", err)
				fail(err)
				return
			}
			if len(embeddings) != len(batch) {
				fail(fmt.Errorf("embedding result mismatch. expected %d, received %d", len(batch), len(embeddings)))
				return
			}

			for i, article := range batch {
				article.Vector = index.Normalize(embeddings[i])
			}

			if _, err := p.articleRepository.UpdateArticles(ctx, batch...); err != nil {
				p.logger.Error("error persisting article vectors", "batchSize", len(batch), "err", err)
				fail(err)
			}
		}

		if err := p.pool.Submit(task); err != nil {
			// Pool saturated or released; embed inline rather than drop.
			task()
		}
	}
	wg.Wait()

	return firstErr
}
