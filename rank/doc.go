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


// Package rank implements the typo-tolerant scoring engine for
// launchable items.
//
// The Scorer type combines several signals, evaluated in tiers:
//   - Known-abbreviation expansion
//   - Exact, prefix and substring matches of the display name
//   - Word-initial (acronym) matches, including camel-case initials
//   - Ordered character subsequences
//   - Per-word fuzzy alignment with bounded edit distance
//   - Whole-string fuzzy similarity as a last resort
//   - A path-aware score over path segments
//
// The first matching tier provides the base score; usage and recency
// bonuses are added on top. Edit distances are computed with an
// adjacent-transposition-aware dynamic program and memoized in a
// bounded LRU cache, so re-scoring the corpus on every keystroke stays
// cheap.
//
// All tunables live in Weights; the engine never mutates them.
package rank
