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


package badger

import (
	"context"
	"time"

	"github.com/dgraph-io/badger/v4"

	"github.com/poiesic/quickdex/core"
	"github.com/poiesic/quickdex/storage"
)

// ItemRepository implements storage.ItemRepository for BadgerDB.
type ItemRepository struct {
	backend *Backend
}

var _ storage.ItemRepository = (*ItemRepository)(nil)

// NewItemRepository creates a new ItemRepository.
func NewItemRepository(backend *Backend) (*ItemRepository, error) {
	return &ItemRepository{
		backend: backend,
	}, nil
}

// Close releases resources. ItemRepository has no resources to release.
func (r *ItemRepository) Close() error {
	return nil
}

// UpsertItems writes items in a single transaction. Existing records
// keep their UseCount and LastUsedAt; a rescan must never erase
// accumulated usage.
func (r *ItemRepository) UpsertItems(ctx context.Context, items ...core.Item) error {
	if len(items) == 0 {
		return nil
	}
	now := time.Now().UTC()
	return r.backend.WithTx(func(tx *badger.Txn) error {
		for i := range items {
			item := items[i]
			if err := core.ValidateItem(&item); err != nil {
				return err
			}

			key := makeItemKey(item.Path)
			old, err := readItem(tx, key)
			if err != nil {
				return err
			}
			if old != nil {
				item.UseCount = old.UseCount
				item.LastUsedAt = old.LastUsedAt

				// Clean stale index entries before rewriting
				if old.Name != item.Name {
					if err := tx.Delete(makeItemNameKey(old.Name, old.Path)); err != nil {
						return err
					}
				}
				if old.Kind != item.Kind {
					if err := tx.Delete(makeItemKindKey(int32(old.Kind), old.Path)); err != nil {
						return err
					}
				}
			}
			item.IndexedAt = now

			if err := tx.Set(key, storage.MarshalItem(&item)); err != nil {
				return err
			}
			if err := tx.Set(makeItemNameKey(item.Name, item.Path), nil); err != nil {
				return err
			}
			if err := tx.Set(makeItemKindKey(int32(item.Kind), item.Path), nil); err != nil {
				return err
			}
			if old == nil || old.UseCount != item.UseCount {
				if old != nil {
					if err := tx.Delete(makeItemUseKey(old.UseCount, old.Path)); err != nil {
						return err
					}
				}
				if err := tx.Set(makeItemUseKey(item.UseCount, item.Path), nil); err != nil {
					return err
				}
			}
		}
		return tx.Commit()
	}, true)
}

// GetItem retrieves a single item by path.
func (r *ItemRepository) GetItem(ctx context.Context, path string) (*core.Item, error) {
	var result *core.Item
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		var err error
		result, err = readItem(tx, makeItemKey(path))
		if err != nil {
			return err
		}
		if result == nil {
			return storage.ErrNotFound
		}
		return nil
	}, false)
	return result, err
}

// ListItems returns every indexed item.
func (r *ItemRepository) ListItems(ctx context.Context) ([]core.Item, error) {
	var results []core.Item
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = true
		iter := tx.NewIterator(opts)
		defer iter.Close()

		prefix := []byte(itemRecordPrefix + ":")
		for iter.Seek(prefix); iter.ValidForPrefix(prefix); iter.Next() {
			var item *core.Item
			err := iter.Item().Value(func(val []byte) error {
				var err error
				item, err = storage.UnmarshalItem(val)
				return err
			})
			if err != nil {
				return err
			}
			results = append(results, *item)
		}
		return nil
	}, false)
	return results, err
}

// ListByKind returns items of one kind via the kind index.
func (r *ItemRepository) ListByKind(ctx context.Context, kind core.ItemKind) ([]core.Item, error) {
	if err := core.ValidateItemKind(kind); err != nil {
		return nil, err
	}
	var results []core.Item
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		iter := tx.NewIterator(opts)
		defer iter.Close()

		prefix := makePartialItemKindKey(int32(kind))
		for iter.Seek(prefix); iter.ValidForPrefix(prefix); iter.Next() {
			path := string(iter.Item().Key()[len(prefix):])
			item, err := readItem(tx, makeItemKey(path))
			if err != nil {
				return err
			}
			if item != nil {
				results = append(results, *item)
			}
		}
		return nil
	}, false)
	return results, err
}

// SearchNamePrefix returns items whose name starts with prefix,
// case-insensitively, via the name index.
func (r *ItemRepository) SearchNamePrefix(ctx context.Context, prefix string) ([]core.Item, error) {
	var results []core.Item
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		iter := tx.NewIterator(opts)
		defer iter.Close()

		keyPrefix := makePartialItemNameKey(prefix)
		for iter.Seek(keyPrefix); iter.ValidForPrefix(keyPrefix); iter.Next() {
			key := iter.Item().Key()
			// Key layout is prefix:lower(name)\x00path; the path starts
			// after the last NUL.
			sep := -1
			for i := len(key) - 1; i >= 0; i-- {
				if key[i] == 0 {
					sep = i
					break
				}
			}
			if sep < 0 {
				continue
			}
			item, err := readItem(tx, makeItemKey(string(key[sep+1:])))
			if err != nil {
				return err
			}
			if item != nil {
				results = append(results, *item)
			}
		}
		return nil
	}, false)
	return results, err
}

// TopUsed returns up to limit items ordered by use count descending.
func (r *ItemRepository) TopUsed(ctx context.Context, limit int) ([]core.Item, error) {
	if limit <= 0 {
		return nil, nil
	}
	var results []core.Item
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		iter := tx.NewIterator(opts)
		defer iter.Close()

		prefix := []byte(itemUsePrefix + ":")
		for iter.Seek(prefix); iter.ValidForPrefix(prefix) && len(results) < limit; iter.Next() {
			path := string(iter.Item().Key()[len(prefix)+4:])
			item, err := readItem(tx, makeItemKey(path))
			if err != nil {
				return err
			}
			if item != nil {
				results = append(results, *item)
			}
		}
		return nil
	}, false)
	return results, err
}

// RecordUsage increments the item's use count and stamps its
// last-used time.
func (r *ItemRepository) RecordUsage(ctx context.Context, path string, at time.Time) error {
	return r.backend.WithTx(func(tx *badger.Txn) error {
		key := makeItemKey(path)
		item, err := readItem(tx, key)
		if err != nil {
			return err
		}
		if item == nil {
			return storage.ErrNotFound
		}

		if err := tx.Delete(makeItemUseKey(item.UseCount, item.Path)); err != nil {
			return err
		}
		item.UseCount++
		item.LastUsedAt = at.UTC()

		if err := tx.Set(key, storage.MarshalItem(item)); err != nil {
			return err
		}
		if err := tx.Set(makeItemUseKey(item.UseCount, item.Path), nil); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
}

// DeleteItems removes items by path. Unknown paths are ignored.
func (r *ItemRepository) DeleteItems(ctx context.Context, paths ...string) error {
	if len(paths) == 0 {
		return nil
	}
	return r.backend.WithTx(func(tx *badger.Txn) error {
		for _, path := range paths {
			if err := deleteItem(tx, path); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)
}

// DeleteByPathPrefix removes every item whose path starts with prefix.
func (r *ItemRepository) DeleteByPathPrefix(ctx context.Context, prefix string) (int, error) {
	// Collect first, delete second; badger iterators must not observe
	// writes made by the same transaction mid-scan.
	var paths []string
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		iter := tx.NewIterator(opts)
		defer iter.Close()

		keyPrefix := makeItemKey(prefix)
		for iter.Seek(keyPrefix); iter.ValidForPrefix(keyPrefix); iter.Next() {
			paths = append(paths, string(iter.Item().Key()[len(itemRecordPrefix)+1:]))
		}
		return nil
	}, false)
	if err != nil {
		return 0, err
	}
	if len(paths) == 0 {
		return 0, nil
	}
	if err := r.DeleteItems(ctx, paths...); err != nil {
		return 0, err
	}
	return len(paths), nil
}

// DeleteAllItems clears the item table and its indexes.
func (r *ItemRepository) DeleteAllItems(ctx context.Context) error {
	for _, prefix := range []string{itemRecordPrefix, itemNamePrefix, itemKindPrefix, itemUsePrefix} {
		if err := r.deletePrefix([]byte(prefix + ":")); err != nil {
			return err
		}
	}
	return nil
}

func (r *ItemRepository) deletePrefix(prefix []byte) error {
	var keys [][]byte
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Seek(prefix); iter.ValidForPrefix(prefix); iter.Next() {
			keys = append(keys, iter.Item().KeyCopy(nil))
		}
		return nil
	}, false)
	if err != nil {
		return err
	}
	if len(keys) == 0 {
		return nil
	}
	return r.backend.WithTx(func(tx *badger.Txn) error {
		for _, key := range keys {
			if err := tx.Delete(key); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)
}

// Helper methods

// deleteItem removes an item record and all of its index entries.
func deleteItem(tx *badger.Txn, path string) error {
	key := makeItemKey(path)
	item, err := readItem(tx, key)
	if err != nil {
		return err
	}
	if item == nil {
		return nil
	}
	if err := tx.Delete(makeItemNameKey(item.Name, item.Path)); err != nil {
		return err
	}
	if err := tx.Delete(makeItemKindKey(int32(item.Kind), item.Path)); err != nil {
		return err
	}
	if err := tx.Delete(makeItemUseKey(item.UseCount, item.Path)); err != nil {
		return err
	}
	return tx.Delete(key)
}

// readItem reads an item from the transaction.
func readItem(tx *badger.Txn, key []byte) (*core.Item, error) {
	entry, err := tx.Get(key)
	if err != nil {
		if err == badger.ErrKeyNotFound {
			return nil, nil
		}
		return nil, err
	}

	var item *core.Item
	err = entry.Value(func(val []byte) error {
		var err error
		item, err = storage.UnmarshalItem(val)
		return err
	})
	return item, err
}
