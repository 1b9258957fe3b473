// Package ingestion provides pipeline orchestration for seeding the article corpus.
//
// The Pipeline type manages the ingestion workflow for article feeds, including:
//   - Decoding and validating JSON feed entries
//   - Persisting articles with content-based IDs
//   - Generating missing embedding vectors in concurrent batches with retry
//
// Feeds may ship precomputed embedding vectors; those articles skip the
// embedding step entirely. Reembed recomputes every stored vector after a
// model change.
package ingestion
