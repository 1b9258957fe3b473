package searchlight

import (
	"context"
	"strings"
	"testing"

	"github.com/poiesic/searchlight/ai"
	"github.com/poiesic/searchlight/ai/mock"
	"github.com/poiesic/searchlight/ingestion"
	"github.com/poiesic/searchlight/search"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testFeed = `[
  {
    "title": "Illinois State Normal University",
    "description": "A teacher training school founded in 1857.",
    "tags": ["education", "history"],
    "url": "https://example.org/normal-school"
  },
  {
    "title": "Chicago History",
    "description": "The history of Illinois's largest city.",
    "url": "https://example.org/chicago"
  },
  {
    "title": "Beer Brewing",
    "description": "Hops, malt, and fermentation.",
    "url": "https://example.org/brewing"
  }
]`

func newTestArchive(t *testing.T) (*Archive, *mock.MockEmbedder) {
	t.Helper()
	embedder := mock.NewMockEmbedder()
	archive, err := NewArchive(t.TempDir(), WithLoadFunc(func(context.Context) (ai.Embedder, error) {
		return embedder, nil
	}))
	require.NoError(t, err)
	t.Cleanup(func() { archive.Close() })
	return archive, embedder
}

func seedTestArchive(t *testing.T, archive *Archive) {
	t.Helper()
	articles, err := ingestion.ReadFeed(strings.NewReader(testFeed))
	require.NoError(t, err)

	pipeline, err := archive.NewIngestionPipeline(ingestion.WithPoolSize(1))
	require.NoError(t, err)
	defer pipeline.Release()

	stored, err := pipeline.Seed(context.Background(), articles)
	require.NoError(t, err)
	require.Len(t, stored, 3)
}

func TestArchiveModelIsLazy(t *testing.T) {
	archive, _ := newTestArchive(t)
	assert.Equal(t, ai.ModelUnloaded, archive.Model().State())
}

func TestArchiveSeedAndSearch(t *testing.T) {
	archive, _ := newTestArchive(t)
	ctx := context.Background()
	seedTestArchive(t, archive)

	corpus, err := archive.Corpus(ctx)
	require.NoError(t, err)
	require.Len(t, corpus, 3)
	for _, article := range corpus {
		assert.NotEmpty(t, article.Vector)
	}

	searcher, err := archive.NewSearcher(ctx, search.WithPoolSize(1))
	require.NoError(t, err)
	defer searcher.Release()

	results, err := searcher.Search(ctx, "teacher training", corpus)
	require.NoError(t, err)
	require.NotEmpty(t, results)
	assert.Equal(t, "Illinois State Normal University", results[0].Article.Title)
}

func TestArchiveSearcherWarmStart(t *testing.T) {
	archive, embedder := newTestArchive(t)
	ctx := context.Background()
	seedTestArchive(t, archive)

	searcher, err := archive.NewSearcher(ctx, search.WithPoolSize(1))
	require.NoError(t, err)
	defer searcher.Release()

	corpus, err := archive.Corpus(ctx)
	require.NoError(t, err)

	// Every article vector was persisted at ingestion time, so a search
	// against the warmed cache only embeds the query.
	before := embedder.CallCount()
	_, err = searcher.Search(ctx, "illinois", corpus)
	require.NoError(t, err)
	assert.Equal(t, before+1, embedder.CallCount())
}

func TestArchiveReembed(t *testing.T) {
	archive, _ := newTestArchive(t)
	ctx := context.Background()
	seedTestArchive(t, archive)

	pipeline, err := archive.NewIngestionPipeline(ingestion.WithPoolSize(1))
	require.NoError(t, err)
	defer pipeline.Release()

	count, err := pipeline.Reembed(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, count)
}
