// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package searchlight

import (
	"context"
	"log/slog"

	"github.com/poiesic/searchlight/ai"
	"github.com/poiesic/searchlight/ai/openai"
	"github.com/poiesic/searchlight/core"
	"github.com/poiesic/searchlight/index"
	"github.com/poiesic/searchlight/ingestion"
	"github.com/poiesic/searchlight/search"
	"github.com/poiesic/searchlight/storage"
	"github.com/poiesic/searchlight/storage/badger"
)

// Archive is the top-level handle over a persisted article corpus and its
// shared embedding model. Construct one Archive per corpus and pass it to
// whatever needs searching or ingestion; there is no package-level singleton.
type Archive struct {
	repo   storage.ArticleRepository
	model  *ai.Model
	logger *slog.Logger
}

// ArchiveOption configures an Archive.
type ArchiveOption func(*archiveOptions)

type archiveOptions struct {
	aiConfig *ai.Config
	load     ai.LoadFunc
}

// WithAIConfig sets the embedding service configuration.
func WithAIConfig(config *ai.Config) ArchiveOption {
	return func(o *archiveOptions) {
		if config != nil {
			o.aiConfig = config
		}
	}
}

// WithLoadFunc replaces the default OpenAI-compatible embedder loader.
// Used by tests and by callers bringing their own inference backend.
func WithLoadFunc(load ai.LoadFunc) ArchiveOption {
	return func(o *archiveOptions) {
		if load != nil {
			o.load = load
		}
	}
}

// NewArchive opens (or creates) an article archive at filePath.
// The embedding model is not loaded until first use.
func NewArchive(filePath string, opts ...ArchiveOption) (*Archive, error) {
	options := &archiveOptions{
		aiConfig: ai.DefaultConfig(),
	}
	for _, opt := range opts {
		opt(options)
	}

	repo, err := badger.NewArticleRepository(filePath)
	if err != nil {
		return nil, err
	}

	load := options.load
	if load == nil {
		config := options.aiConfig
		load = func(ctx context.Context) (ai.Embedder, error) {
			return openai.NewEmbedder(config)
		}
	}

	model, err := ai.NewModel(load)
	if err != nil {
		repo.Close()
		return nil, err
	}

	return &Archive{
		repo:   repo,
		model:  model,
		logger: slog.Default(),
	}, nil
}

// Close closes the underlying storage.
func (a *Archive) Close() error {
	if err := a.repo.Close(); err != nil {
		a.logger.Error("error closing article repository", "err", err)
		return err
	}
	return nil
}

// ArticleRepository returns the persisted article store.
func (a *Archive) ArticleRepository() storage.ArticleRepository {
	return a.repo
}

// Model returns the shared embedding model handle.
func (a *Archive) Model() *ai.Model {
	return a.model
}

// Corpus returns every stored article in feed order.
func (a *Archive) Corpus(ctx context.Context) ([]*core.Article, error) {
	return a.repo.GetAllArticles(ctx)
}

// NewIngestionPipeline creates a pipeline writing into this archive.
func (a *Archive) NewIngestionPipeline(opts ...ingestion.Option) (*ingestion.Pipeline, error) {
	return ingestion.NewPipeline(a.repo, a.model, opts...)
}

// NewSearcher creates a searcher over this archive, warming its vector cache
// from vectors persisted at ingestion time so they are not re-embedded.
func (a *Archive) NewSearcher(ctx context.Context, opts ...search.Option) (*search.Searcher, error) {
	articles, err := a.repo.GetAllArticles(ctx)
	if err != nil {
		return nil, err
	}

	cache := index.NewVectorCache()
	warmed := 0
	for _, article := range articles {
		if len(article.Vector) > 0 {
			cache.Put(article.Id, article.Vector)
			warmed++
		}
	}
	a.logger.Debug("warmed vector cache from storage", "articles", len(articles), "vectors", warmed)

	opts = append([]search.Option{search.WithVectorCache(cache)}, opts...)
	return search.NewSearcher(a.model, opts...)
}
