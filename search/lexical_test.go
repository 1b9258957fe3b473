package search

import (
	"testing"

	"github.com/poiesic/searchlight/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeywordScore(t *testing.T) {
	t.Run("phrase in title", func(t *testing.T) {
		article := &core.Article{Title: "Illinois State Normal University"}
		// Phrase match 100 plus two word-in-title hits at 20 each.
		assert.Equal(t, 140, KeywordScore("illinois state", article))
	})

	t.Run("phrase in description", func(t *testing.T) {
		article := &core.Article{
			Title:       "Campus History",
			Description: "Founded as a normal school for teacher training.",
		}
		// Phrase match 50 plus two word-in-description hits at 10 each.
		assert.Equal(t, 70, KeywordScore("normal school", article))
	})

	t.Run("word in title", func(t *testing.T) {
		article := &core.Article{Title: "Concurrency Patterns Explained"}
		// "concurrency rust" is not a phrase match anywhere; only the
		// word "concurrency" lands, in the title.
		assert.Equal(t, 20, KeywordScore("concurrency rust", article))
	})

	t.Run("word in description", func(t *testing.T) {
		article := &core.Article{
			Title:       "Weekly Digest",
			Description: "Covers compilers and much more",
		}
		assert.Equal(t, 10, KeywordScore("compilers interpreters", article))
	})

	t.Run("short words only count for phrase checks", func(t *testing.T) {
		article := &core.Article{Title: "Advanced Tooling Guide"}
		// "go" is under three characters so it earns no word points;
		// "tooling" hits the title.
		assert.Equal(t, 20, KeywordScore("go tooling", article))
	})

	t.Run("word length counted in runes", func(t *testing.T) {
		article := &core.Article{Title: "北京 Travel Guide"}
		// "北京" is two runes (six bytes) and is dropped like any other
		// two-character token; only "guide" earns word points.
		assert.Equal(t, 20, KeywordScore("北京 guide", article))
	})

	t.Run("tag substring either direction", func(t *testing.T) {
		forward := &core.Article{Title: "x", Tags: []string{"university"}}
		assert.Equal(t, 15, KeywordScore("universities", forward))

		backward := &core.Article{Title: "x", Tags: []string{"universities"}}
		assert.Equal(t, 15, KeywordScore("university", backward))
	})

	t.Run("tag scored once per word", func(t *testing.T) {
		article := &core.Article{Title: "x", Tags: []string{"history", "historic"}}
		assert.Equal(t, 15, KeywordScore("history", article))
	})

	t.Run("word in keywords", func(t *testing.T) {
		article := &core.Article{Title: "x", Keywords: "education, teaching, illinois"}
		assert.Equal(t, 5, KeywordScore("teaching french", article))
	})

	t.Run("phrase matches content type", func(t *testing.T) {
		article := &core.Article{Title: "x", Type: "encyclopedia article"}
		assert.Equal(t, 10, KeywordScore("encyclopedia", article))
	})

	t.Run("case insensitive", func(t *testing.T) {
		article := &core.Article{Title: "ILLINOIS State Normal University"}
		assert.Equal(t, KeywordScore("illinois", article), KeywordScore("ILLINOIS", article))
	})

	t.Run("no match scores zero", func(t *testing.T) {
		article := &core.Article{
			Title:       "Illinois State Normal University",
			Description: "A teacher training school.",
			Tags:        []string{"education"},
		}
		assert.Zero(t, KeywordScore("beer nuts", article))
	})

	t.Run("empty query scores zero", func(t *testing.T) {
		article := &core.Article{Title: "Anything"}
		assert.Zero(t, KeywordScore("", article))
		assert.Zero(t, KeywordScore("   ", article))
	})
}

func TestKeywordSearch(t *testing.T) {
	corpus := []*core.Article{
		{Id: 1, Title: "Illinois State Normal University", Description: "Teacher training school"},
		{Id: 2, Title: "Chicago History", Description: "The history of Illinois's largest city"},
		{Id: 3, Title: "Beer Brewing", Description: "Hops and malt"},
	}

	t.Run("filters and sorts descending", func(t *testing.T) {
		results := KeywordSearch("illinois", corpus)
		require.Len(t, results, 2)
		assert.Equal(t, core.ID(1), results[0].Article.Id)
		assert.Equal(t, core.ID(2), results[1].Article.Id)
		assert.Greater(t, results[0].Score, results[1].Score)
	})

	t.Run("no matches yields empty", func(t *testing.T) {
		results := KeywordSearch("quantum", corpus)
		assert.Empty(t, results)
	})

	t.Run("empty query returns whole corpus in order", func(t *testing.T) {
		results := KeywordSearch("", corpus)
		require.Len(t, results, len(corpus))
		for i, result := range results {
			assert.Same(t, corpus[i], result.Article)
			assert.Zero(t, result.Score)
		}
	})

	t.Run("ties keep corpus order", func(t *testing.T) {
		tied := []*core.Article{
			{Id: 10, Title: "Brewing at home"},
			{Id: 11, Title: "Brewing for experts"},
		}
		results := KeywordSearch("brewing tips", tied)
		require.Len(t, results, 2)
		assert.Equal(t, core.ID(10), results[0].Article.Id)
		assert.Equal(t, core.ID(11), results[1].Article.Id)
	})
}
