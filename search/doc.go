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


// Package search provides hybrid semantic and keyword search over articles.
//
// The Searcher type combines two signals:
//   - Semantic similarity between the query embedding and memoized article
//     embeddings, scaled to 0-100 points
//   - Deterministic keyword scoring over title, description, tags, keywords,
//     and content type
//
// The signals are fused with a 70/30 weighting. Semantic similarity only
// contributes above a floor of 10 points, which keeps near-noise matches
// out of the result set. When the query cannot be embedded at all, search
// degrades to keyword-only ranking instead of returning an error.
package search
