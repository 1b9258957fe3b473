package search

import (
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/poiesic/searchlight/core"
)

// Keyword scoring weights. The phrase checks use the whole trimmed query;
// the per-word checks use whitespace tokens longer than two characters.
const (
	phraseTitlePoints       = 100
	phraseDescriptionPoints = 50
	wordTitlePoints         = 20
	wordDescriptionPoints   = 10
	wordTagPoints           = 15
	wordKeywordsPoints      = 5
	phraseTypePoints        = 10

	minWordLen = 3
)

// queryWords tokenizes a lowercased query by whitespace and drops tokens
// shorter than minWordLen.
func queryWords(phrase string) []string {
	tokens := strings.Fields(phrase)
	words := make([]string, 0, len(tokens))
	for _, token := range tokens {
		// Length is counted in runes so short non-ASCII tokens are dropped
		// the same way short ASCII ones are.
		if utf8.RuneCountInString(token) >= minWordLen {
			words = append(words, token)
		}
	}
	return words
}

// KeywordScore computes the deterministic keyword relevance of an article
// for a query. Matching is case-insensitive and purely lexical; no AI
// component is involved. An empty or whitespace-only query scores 0.
func KeywordScore(query string, article *core.Article) int {
	phrase := strings.ToLower(strings.TrimSpace(query))
	if phrase == "" {
		return 0
	}

	title := strings.ToLower(article.Title)
	description := strings.ToLower(article.Description)
	keywords := strings.ToLower(article.Keywords)

	score := 0
	if strings.Contains(title, phrase) {
		score += phraseTitlePoints
	}
	if strings.Contains(description, phrase) {
		score += phraseDescriptionPoints
	}

	for _, word := range queryWords(phrase) {
		if strings.Contains(title, word) {
			score += wordTitlePoints
		}
		if strings.Contains(description, word) {
			score += wordDescriptionPoints
		}
		for _, tag := range article.Tags {
			lowered := strings.ToLower(tag)
			// Substring match in either direction: "universities" hits the
			// tag "university" and vice versa. Scored once per word.
			if strings.Contains(lowered, word) || strings.Contains(word, lowered) {
				score += wordTagPoints
				break
			}
		}
		if strings.Contains(keywords, word) {
			score += wordKeywordsPoints
		}
	}

	if strings.Contains(strings.ToLower(article.Type), phrase) {
		score += phraseTypePoints
	}

	return score
}

// KeywordSearch ranks a corpus by keyword score alone. Articles scoring 0
// are excluded and the rest are sorted by score descending, ties keeping
// corpus order. An empty query returns the whole corpus unfiltered with
// score 0, in corpus order.
func KeywordSearch(query string, corpus []*core.Article) []*core.SearchResult {
	if strings.TrimSpace(query) == "" {
		results := make([]*core.SearchResult, len(corpus))
		for i, article := range corpus {
			results[i] = &core.SearchResult{Article: article}
		}
		return results
	}

	results := make([]*core.SearchResult, 0, len(corpus))
	for _, article := range corpus {
		score := KeywordScore(query, article)
		if score == 0 {
			continue
		}
		results = append(results, &core.SearchResult{
			Article: article,
			Score:   float64(score),
		})
	}

	slices.SortStableFunc(results, compareByScoreDesc)
	return results
}

// compareByScoreDesc orders results by score descending. Used with a stable
// sort so equal scores keep their corpus order.
func compareByScoreDesc(a, b *core.SearchResult) int {
	switch {
	case a.Score > b.Score:
		return -1
	case a.Score < b.Score:
		return 1
	default:
		return 0
	}
}
