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


package index

import "errors"

var (
	// ErrDimensionMismatch indicates two vectors of different lengths were
	// compared. With a single embedder per corpus this cannot happen; it is
	// an internal invariant violation, not a user-facing condition.
	ErrDimensionMismatch = errors.New("vector dimension mismatch")

	// ErrEmbedderRequired is returned when GetOrCompute is called without an
	// embedder.
	ErrEmbedderRequired = errors.New("embedder required")
)
