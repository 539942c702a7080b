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
	// ErrItemRepositoryRequired indicates a nil item repository.
	ErrItemRepositoryRequired = errors.New("item repository is required")

	// ErrFingerprintRepositoryRequired indicates a nil fingerprint repository.
	ErrFingerprintRepositoryRequired = errors.New("fingerprint repository is required")

	// ErrDetectorRequired indicates a nil change detector.
	ErrDetectorRequired = errors.New("fingerprint detector is required")

	// ErrIndexingInProgress indicates another indexing run is active.
	ErrIndexingInProgress = errors.New("indexing already in progress")
)
