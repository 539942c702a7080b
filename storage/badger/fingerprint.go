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

	"github.com/dgraph-io/badger/v4"

	"github.com/poiesic/quickdex/core"
	"github.com/poiesic/quickdex/storage"
)

// FingerprintRepository implements storage.FingerprintRepository for BadgerDB.
type FingerprintRepository struct {
	backend *Backend
}

var _ storage.FingerprintRepository = (*FingerprintRepository)(nil)

// NewFingerprintRepository creates a new FingerprintRepository.
func NewFingerprintRepository(backend *Backend) (*FingerprintRepository, error) {
	return &FingerprintRepository{
		backend: backend,
	}, nil
}

// Close releases resources. FingerprintRepository has no resources to release.
func (r *FingerprintRepository) Close() error {
	return nil
}

// PutFingerprints writes fingerprints in a single transaction.
func (r *FingerprintRepository) PutFingerprints(ctx context.Context, fps ...core.FolderFingerprint) error {
	if len(fps) == 0 {
		return nil
	}
	return r.backend.WithTx(func(tx *badger.Txn) error {
		for i := range fps {
			fp := fps[i]
			key := makeFingerprintKey(fp.FolderPath)
			if err := tx.Set(key, storage.MarshalFingerprint(&fp)); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)
}

// GetFingerprint retrieves the fingerprint for one folder.
func (r *FingerprintRepository) GetFingerprint(ctx context.Context, folderPath string) (*core.FolderFingerprint, error) {
	var result *core.FolderFingerprint
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		entry, err := tx.Get(makeFingerprintKey(folderPath))
		if err != nil {
			if err == badger.ErrKeyNotFound {
				return storage.ErrNotFound
			}
			return err
		}
		return entry.Value(func(val []byte) error {
			var err error
			result, err = storage.UnmarshalFingerprint(val)
			return err
		})
	}, false)
	return result, err
}

// ListFingerprints returns every stored fingerprint.
func (r *FingerprintRepository) ListFingerprints(ctx context.Context) ([]core.FolderFingerprint, error) {
	var results []core.FolderFingerprint
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = true
		iter := tx.NewIterator(opts)
		defer iter.Close()

		prefix := []byte(fingerprintPrefix + ":")
		for iter.Seek(prefix); iter.ValidForPrefix(prefix); iter.Next() {
			var fp *core.FolderFingerprint
			err := iter.Item().Value(func(val []byte) error {
				var err error
				fp, err = storage.UnmarshalFingerprint(val)
				return err
			})
			if err != nil {
				return err
			}
			results = append(results, *fp)
		}
		return nil
	}, false)
	return results, err
}

// DeleteFingerprints removes fingerprints by folder path. Unknown
// paths are ignored.
func (r *FingerprintRepository) DeleteFingerprints(ctx context.Context, folderPaths ...string) error {
	if len(folderPaths) == 0 {
		return nil
	}
	return r.backend.WithTx(func(tx *badger.Txn) error {
		for _, folderPath := range folderPaths {
			if err := tx.Delete(makeFingerprintKey(folderPath)); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)
}

// DeleteAllFingerprints clears the fingerprint table.
func (r *FingerprintRepository) DeleteAllFingerprints(ctx context.Context) error {
	var keys [][]byte
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		iter := tx.NewIterator(opts)
		defer iter.Close()

		prefix := []byte(fingerprintPrefix + ":")
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
