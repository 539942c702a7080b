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


// Package cache provides a generic fixed-capacity least-recently-used
// cache.
//
// Eviction is incremental: when the cache is full, inserting a new key
// removes exactly the single least-recently-used entry, so effectiveness
// degrades gracefully instead of collapsing at the capacity boundary.
// Every hit promotes the entry to most-recently-used.
//
// A Cache is safe for concurrent use; both the recency list and the
// lookup table sit behind one mutex, and each critical section is O(1).
package cache
