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


// Package storage defines the persistence contracts for the launcher
// index: a repository of launchable items keyed by path and a
// repository of folder fingerprints keyed by folder path.
//
// Implementations must be thread-safe. Batched writes are wrapped in a
// single transaction that rolls back wholly on any failure, so a
// partial indexing run can never leave the durable index half-written.
//
// The MUS binary codecs for the stored record types also live here.
package storage
