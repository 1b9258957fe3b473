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


// Package index provides the in-memory vector side of hybrid retrieval:
// cosine similarity, unit-length normalization, and a process-lifetime
// cache of article embedding vectors.
//
// The cache holds at most one vector per article ID. Entries are computed
// on first need and never recomputed or overwritten, so repeated searches
// over the same corpus hit the embedder only for articles it has not seen.
package index
