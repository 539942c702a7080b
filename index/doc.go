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


// Package index orchestrates harvesting, persistence and querying of
// the launchable-item index.
//
// The Pipeline supports three indexing modes: a full harvest of every
// source, a smart run that uses folder fingerprints to rescan only
// what changed, and a reindex that clears everything first. Queries
// score the in-memory snapshot through the ranking engine and never
// block on indexing; corpora past a size threshold are scored in
// parallel across a worker pool. Incremental file-system deltas are
// applied through ApplyChanges without any rescan.
package index
