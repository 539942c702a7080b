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


package storage

import (
	"fmt"
	"time"

	"github.com/mus-format/mus-go/ord"
	"github.com/mus-format/mus-go/varint"

	"github.com/poiesic/quickdex/core"
)

// The stored record types are small and flat, so their MUS codecs are
// written by hand against the mus-go serializers instead of generated.
// Timestamps travel as Unix microseconds; the zero time maps to 0 so a
// never-used item round-trips as never-used.

func timeToMicro(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.UnixMicro()
}

func microToTime(micro int64) time.Time {
	if micro == 0 {
		return time.Time{}
	}
	return time.UnixMicro(micro).UTC()
}

// SizeItem returns the marshaled size of an Item.
func SizeItem(item *core.Item) int {
	return ord.String.Size(item.Path) +
		ord.String.Size(item.Name) +
		ord.String.Size(item.Description) +
		varint.Int32.Size(int32(item.Kind)) +
		varint.Uint32.Size(item.UseCount) +
		varint.Int64.Size(timeToMicro(item.LastUsedAt)) +
		varint.Int64.Size(timeToMicro(item.IndexedAt))
}

// MarshalItem serializes an Item to bytes.
func MarshalItem(item *core.Item) []byte {
	bs := make([]byte, SizeItem(item))
	n := ord.String.Marshal(item.Path, bs)
	n += ord.String.Marshal(item.Name, bs[n:])
	n += ord.String.Marshal(item.Description, bs[n:])
	n += varint.Int32.Marshal(int32(item.Kind), bs[n:])
	n += varint.Uint32.Marshal(item.UseCount, bs[n:])
	n += varint.Int64.Marshal(timeToMicro(item.LastUsedAt), bs[n:])
	varint.Int64.Marshal(timeToMicro(item.IndexedAt), bs[n:])
	return bs
}

// UnmarshalItem deserializes an Item from bytes.
func UnmarshalItem(data []byte) (*core.Item, error) {
	var item core.Item
	n := 0

	path, sz, err := ord.String.Unmarshal(data[n:])
	if err != nil {
		return nil, fmt.Errorf("%w: item path: %w", ErrSerializationFailed, err)
	}
	item.Path = path
	n += sz

	name, sz, err := ord.String.Unmarshal(data[n:])
	if err != nil {
		return nil, fmt.Errorf("%w: item name: %w", ErrSerializationFailed, err)
	}
	item.Name = name
	n += sz

	desc, sz, err := ord.String.Unmarshal(data[n:])
	if err != nil {
		return nil, fmt.Errorf("%w: item description: %w", ErrSerializationFailed, err)
	}
	item.Description = desc
	n += sz

	kind, sz, err := varint.Int32.Unmarshal(data[n:])
	if err != nil {
		return nil, fmt.Errorf("%w: item kind: %w", ErrSerializationFailed, err)
	}
	item.Kind = core.ItemKind(kind)
	n += sz

	useCount, sz, err := varint.Uint32.Unmarshal(data[n:])
	if err != nil {
		return nil, fmt.Errorf("%w: item use count: %w", ErrSerializationFailed, err)
	}
	item.UseCount = useCount
	n += sz

	lastUsed, sz, err := varint.Int64.Unmarshal(data[n:])
	if err != nil {
		return nil, fmt.Errorf("%w: item last used: %w", ErrSerializationFailed, err)
	}
	item.LastUsedAt = microToTime(lastUsed)
	n += sz

	indexedAt, _, err := varint.Int64.Unmarshal(data[n:])
	if err != nil {
		return nil, fmt.Errorf("%w: item indexed at: %w", ErrSerializationFailed, err)
	}
	item.IndexedAt = microToTime(indexedAt)

	return &item, nil
}

// SizeFingerprint returns the marshaled size of a FolderFingerprint.
func SizeFingerprint(fp *core.FolderFingerprint) int {
	return ord.String.Size(fp.FolderPath) +
		ord.String.Size(fp.Digest) +
		varint.Uint32.Size(fp.FileCount) +
		varint.Uint32.Size(fp.FolderCount) +
		varint.Uint64.Size(fp.TotalSizeBytes) +
		varint.Int64.Size(timeToMicro(fp.LatestModifiedAt)) +
		varint.Int64.Size(timeToMicro(fp.ComputedAt))
}

// MarshalFingerprint serializes a FolderFingerprint to bytes.
func MarshalFingerprint(fp *core.FolderFingerprint) []byte {
	bs := make([]byte, SizeFingerprint(fp))
	n := ord.String.Marshal(fp.FolderPath, bs)
	n += ord.String.Marshal(fp.Digest, bs[n:])
	n += varint.Uint32.Marshal(fp.FileCount, bs[n:])
	n += varint.Uint32.Marshal(fp.FolderCount, bs[n:])
	n += varint.Uint64.Marshal(fp.TotalSizeBytes, bs[n:])
	n += varint.Int64.Marshal(timeToMicro(fp.LatestModifiedAt), bs[n:])
	varint.Int64.Marshal(timeToMicro(fp.ComputedAt), bs[n:])
	return bs
}

// UnmarshalFingerprint deserializes a FolderFingerprint from bytes.
func UnmarshalFingerprint(data []byte) (*core.FolderFingerprint, error) {
	var fp core.FolderFingerprint
	n := 0

	folderPath, sz, err := ord.String.Unmarshal(data[n:])
	if err != nil {
		return nil, fmt.Errorf("%w: fingerprint folder: %w", ErrSerializationFailed, err)
	}
	fp.FolderPath = folderPath
	n += sz

	digest, sz, err := ord.String.Unmarshal(data[n:])
	if err != nil {
		return nil, fmt.Errorf("%w: fingerprint digest: %w", ErrSerializationFailed, err)
	}
	fp.Digest = digest
	n += sz

	fileCount, sz, err := varint.Uint32.Unmarshal(data[n:])
	if err != nil {
		return nil, fmt.Errorf("%w: fingerprint file count: %w", ErrSerializationFailed, err)
	}
	fp.FileCount = fileCount
	n += sz

	folderCount, sz, err := varint.Uint32.Unmarshal(data[n:])
	if err != nil {
		return nil, fmt.Errorf("%w: fingerprint folder count: %w", ErrSerializationFailed, err)
	}
	fp.FolderCount = folderCount
	n += sz

	totalSize, sz, err := varint.Uint64.Unmarshal(data[n:])
	if err != nil {
		return nil, fmt.Errorf("%w: fingerprint total size: %w", ErrSerializationFailed, err)
	}
	fp.TotalSizeBytes = totalSize
	n += sz

	latest, sz, err := varint.Int64.Unmarshal(data[n:])
	if err != nil {
		return nil, fmt.Errorf("%w: fingerprint latest modified: %w", ErrSerializationFailed, err)
	}
	fp.LatestModifiedAt = microToTime(latest)
	n += sz

	computedAt, _, err := varint.Int64.Unmarshal(data[n:])
	if err != nil {
		return nil, fmt.Errorf("%w: fingerprint computed at: %w", ErrSerializationFailed, err)
	}
	fp.ComputedAt = microToTime(computedAt)

	return &fp, nil
}
