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


package core

import "fmt"

// ValidateItem validates an Item according to domain rules.
//
// Validation rules:
//   - Path must not be empty (it is the unique index key)
//   - Name must not be empty
//   - Kind must be a known ItemKind
//
// NOT validated:
//   - Description (free text, may be empty)
//   - UseCount / LastUsedAt (usage history, owned by the pipeline)
//   - IndexedAt (stamped during persistence)
//
// Harvested candidates that fail validation are dropped and counted,
// never surfaced as errors to the indexing run.
func ValidateItem(item *Item) error {
	if item == nil {
		return fmt.Errorf("%w: item is nil", ErrInvalidItem)
	}

	if item.Path == "" {
		return fmt.Errorf("%w: %w", ErrInvalidItem, ErrEmptyPath)
	}

	if item.Name == "" {
		return fmt.Errorf("%w: %w", ErrInvalidItem, ErrEmptyName)
	}

	if err := ValidateItemKind(item.Kind); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidItem, err)
	}

	return nil
}

// ValidateItemKind validates that an ItemKind has a known value.
func ValidateItemKind(kind ItemKind) error {
	if _, ok := kindNames[kind]; !ok {
		return fmt.Errorf("%w: value %d", ErrInvalidItemKind, kind)
	}
	return nil
}

// ValidateChangeEvent validates a ChangeEvent before it is applied to
// the live index.
func ValidateChangeEvent(event *ChangeEvent) error {
	if event == nil {
		return fmt.Errorf("%w: event is nil", ErrInvalidChangeEvent)
	}

	if event.Path == "" {
		return fmt.Errorf("%w: %w", ErrInvalidChangeEvent, ErrEmptyPath)
	}

	switch event.Type {
	case ChangeCreated, ChangeDeleted, ChangeModified:
	default:
		return fmt.Errorf("%w: %w: value %d", ErrInvalidChangeEvent, ErrInvalidChangeType, event.Type)
	}

	return nil
}
