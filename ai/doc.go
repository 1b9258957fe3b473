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


// Package ai provides abstractions for the embedding services used in
// Searchlight.
//
// The package defines the Embedder interface and the Model type, a lazily
// loaded, process-wide handle around an embedding backend with an explicit
// lifecycle (unloaded, loading, ready, failed). The core retrieval logic
// depends on these abstractions rather than concrete implementations.
//
// # Model lifecycle
//
// Loading a sentence-embedding model is expensive, so exactly one load may
// be in flight at a time: the first Initialize starts it and every
// concurrent caller subscribes to the same operation. A failed load can be
// retried; a ready model is never unloaded. Cancellation of an in-flight
// load is not supported.
//
// Load and inference failures surface as ErrModelUnavailable so callers can
// degrade to keyword-only search instead of failing the request.
//
// # Implementation Packages
//
// The ai package includes two implementation sub-packages:
//
//   - ai/openai: Production implementation using OpenAI-compatible APIs
//   - ai/mock: Test doubles for unit testing without external dependencies
//
// # Usage Example
//
//	cfg := ai.NewConfig(ai.WithEmbeddingModel("all-minilm"))
//	model, err := ai.NewModel(func(ctx context.Context) (ai.Embedder, error) {
//	    return openai.NewEmbedder(cfg)
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	vector, err := model.EmbedText(ctx, "founding of the town of Normal")
package ai
