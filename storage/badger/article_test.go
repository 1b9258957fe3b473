package badger

import (
	"context"
	"errors"
	"testing"

	"github.com/poiesic/searchlight/core"
	"github.com/poiesic/searchlight/storage"
)

func newTestRepo(t *testing.T) storage.ArticleRepository {
	t.Helper()
	repo, err := NewMemoryArticleRepository()
	if err != nil {
		t.Fatalf("Failed to create repository: %v", err)
	}
	t.Cleanup(func() { repo.Close() })
	return repo
}

func TestArticleBasics(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	article := &core.Article{
		Title:       "Illinois State Normal University",
		Description: "A teacher training school.",
		URL:         "https://example.org/normal-school",
	}

	added, err := repo.AddArticles(ctx, article)
	if err != nil {
		t.Fatalf("Failed to add article: %v", err)
	}
	if len(added) != 1 {
		t.Fatalf("Expected 1 article, got %d", len(added))
	}
	if added[0].Id == 0 {
		t.Fatal("Expected non-zero ID")
	}
	if added[0].InsertedAt.IsZero() {
		t.Fatal("Expected InsertedAt to be set")
	}

	retrieved, err := repo.GetArticle(ctx, added[0].Id)
	if err != nil {
		t.Fatalf("Failed to get article: %v", err)
	}
	if retrieved.Title != "Illinois State Normal University" {
		t.Fatalf("Unexpected title: %q", retrieved.Title)
	}
}

func TestArticleContentID(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	first := &core.Article{Title: "One", URL: "https://example.org/same"}
	second := &core.Article{Title: "Two", URL: "https://example.org/same"}

	if _, err := repo.AddArticles(ctx, first); err != nil {
		t.Fatalf("Failed to add first article: %v", err)
	}
	if _, err := repo.AddArticles(ctx, second); err != nil {
		t.Fatalf("Failed to add second article: %v", err)
	}

	// Same URL derives the same ID, so the second add overwrites.
	if first.Id != second.Id {
		t.Fatalf("Expected identical IDs for identical URLs, got %d and %d", first.Id, second.Id)
	}
	count, err := repo.CountArticles(ctx)
	if err != nil {
		t.Fatalf("Failed to count articles: %v", err)
	}
	if count != 1 {
		t.Fatalf("Expected 1 article, got %d", count)
	}

	retrieved, err := repo.GetArticle(ctx, first.Id)
	if err != nil {
		t.Fatalf("Failed to get article: %v", err)
	}
	if retrieved.Title != "Two" {
		t.Fatalf("Expected overwrite to win, got title %q", retrieved.Title)
	}
}

func TestArticleUpdate(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	article := &core.Article{Title: "Before", URL: "https://example.org/update"}
	if _, err := repo.AddArticles(ctx, article); err != nil {
		t.Fatalf("Failed to add article: %v", err)
	}

	article.Title = "After"
	article.Vector = []float32{0.1, 0.2}
	if _, err := repo.UpdateArticles(ctx, article); err != nil {
		t.Fatalf("Failed to update article: %v", err)
	}

	retrieved, err := repo.GetArticle(ctx, article.Id)
	if err != nil {
		t.Fatalf("Failed to get article: %v", err)
	}
	if retrieved.Title != "After" {
		t.Fatalf("Unexpected title after update: %q", retrieved.Title)
	}
	if len(retrieved.Vector) != 2 {
		t.Fatalf("Expected persisted vector, got %v", retrieved.Vector)
	}
	if !retrieved.UpdatedAt.After(retrieved.InsertedAt) {
		t.Fatal("Expected UpdatedAt to advance past InsertedAt")
	}
}

func TestArticleUpdateMissing(t *testing.T) {
	repo := newTestRepo(t)

	missing := &core.Article{Id: 12345, Title: "Ghost", URL: "https://example.org/ghost"}
	_, err := repo.UpdateArticles(context.Background(), missing)
	if !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("Expected ErrNotFound, got %v", err)
	}
}

func TestArticleDelete(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	article := &core.Article{Title: "Doomed", URL: "https://example.org/doomed"}
	if _, err := repo.AddArticles(ctx, article); err != nil {
		t.Fatalf("Failed to add article: %v", err)
	}

	if err := repo.DeleteArticles(ctx, article.Id); err != nil {
		t.Fatalf("Failed to delete article: %v", err)
	}
	if _, err := repo.GetArticle(ctx, article.Id); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("Expected ErrNotFound after delete, got %v", err)
	}
	if err := repo.DeleteArticles(ctx, article.Id); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("Expected ErrNotFound for double delete, got %v", err)
	}
}

func TestGetArticlesSkipsMissing(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	article := &core.Article{Title: "Present", URL: "https://example.org/present"}
	if _, err := repo.AddArticles(ctx, article); err != nil {
		t.Fatalf("Failed to add article: %v", err)
	}

	results, err := repo.GetArticles(ctx, article.Id, core.ID(99999))
	if err != nil {
		t.Fatalf("Failed to get articles: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("Expected 1 article, got %d", len(results))
	}
}

func TestGetAllArticlesFeedOrder(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	// Insert out of feed order; retrieval must sort by Position.
	articles := []*core.Article{
		{Title: "Third", URL: "https://example.org/3", Position: 2},
		{Title: "First", URL: "https://example.org/1", Position: 0},
		{Title: "Second", URL: "https://example.org/2", Position: 1},
	}
	if _, err := repo.AddArticles(ctx, articles...); err != nil {
		t.Fatalf("Failed to add articles: %v", err)
	}

	all, err := repo.GetAllArticles(ctx)
	if err != nil {
		t.Fatalf("Failed to get all articles: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("Expected 3 articles, got %d", len(all))
	}
	for i, want := range []string{"First", "Second", "Third"} {
		if all[i].Title != want {
			t.Fatalf("Position %d: expected %q, got %q", i, want, all[i].Title)
		}
	}
}
