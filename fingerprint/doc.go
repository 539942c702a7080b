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


// Package fingerprint decides whether a watched folder needs to be
// rescanned.
//
// Compute walks a folder tree (depth-bounded, hidden-file policy
// applied at every level) and accumulates a deterministic textual
// buffer: one line per visited folder, one line per file whose
// extension the index would accept, plus aggregate counters. The
// buffer is hashed with BLAKE2b-256 into a fixed-size digest. Files
// outside the allowed-extension set never reach the buffer, so churn
// in irrelevant files cannot trigger a rescan; their folders still
// contribute structural lines.
//
// Detector.Compare classifies the configured folders against the
// fingerprints stored from the previous run: new, modified, deleted or
// unchanged. An all-unchanged comparison is what makes warm starts
// near-instant.
//
// Digests are only comparable between runs that used the same depth
// and hidden-file settings.
package fingerprint
