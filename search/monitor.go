package search

import (
	"github.com/poiesic/searchlight/core"
)

// SearchMonitor provides hooks to observe the search process.
// Implement this interface to track intermediate steps and results during search.
type SearchMonitor interface {
	Start(query string)
	QueryEmbedded(vector []float32)
	DegradedToKeyword(err error)
	SemanticHit(article *core.Article, similarity float32)
	KeywordHit(article *core.Article, points int)
	Finish(results []*core.SearchResult)
}

// noopMonitor is a no-op implementation of SearchMonitor
type noopMonitor struct{}

var _ SearchMonitor = (*noopMonitor)(nil)

func (n *noopMonitor) Start(_ string)                       {}
func (n *noopMonitor) QueryEmbedded(_ []float32)            {}
func (n *noopMonitor) DegradedToKeyword(_ error)            {}
func (n *noopMonitor) SemanticHit(_ *core.Article, _ float32) {}
func (n *noopMonitor) KeywordHit(_ *core.Article, _ int)    {}
func (n *noopMonitor) Finish(_ []*core.SearchResult)        {}
