// Package mock provides test doubles for the ai package interfaces.
//
// MockEmbedder returns deterministic hash-derived vectors by default and
// supports behavior injection through function fields, plus call counting
// for cache-memoization assertions.
package mock
