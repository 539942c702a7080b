package storage

import (
	"context"
	"time"

	"github.com/poiesic/quickdex/core"
)

// ItemRepository provides operations for the launchable-item table.
// Implementations must be thread-safe and support concurrent access.
type ItemRepository interface {
	// UpsertItems writes items in a single transaction. For paths that
	// already exist, UseCount and LastUsedAt are preserved from the
	// stored record; everything else is refreshed. IndexedAt is
	// stamped on every written item. The whole batch rolls back on any
	// failure.
	UpsertItems(ctx context.Context, items ...core.Item) error

	// GetItem retrieves a single item by path.
	// Returns ErrNotFound if the path is not indexed.
	GetItem(ctx context.Context, path string) (*core.Item, error)

	// ListItems returns every indexed item.
	ListItems(ctx context.Context) ([]core.Item, error)

	// ListByKind returns items of one kind via the kind index.
	ListByKind(ctx context.Context, kind core.ItemKind) ([]core.Item, error)

	// SearchNamePrefix returns items whose display name starts with
	// prefix, case-insensitively, via the name index.
	SearchNamePrefix(ctx context.Context, prefix string) ([]core.Item, error)

	// TopUsed returns up to limit items ordered by use count
	// descending, via the usage index.
	TopUsed(ctx context.Context, limit int) ([]core.Item, error)

	// RecordUsage increments the item's use count and stamps its
	// last-used time. Returns ErrNotFound for unknown paths.
	RecordUsage(ctx context.Context, path string, at time.Time) error

	// DeleteItems removes items by path. Unknown paths are ignored;
	// a deletion delta may race a rescan.
	DeleteItems(ctx context.Context, paths ...string) error

	// DeleteByPathPrefix removes every item whose path starts with
	// prefix and returns how many were removed.
	DeleteByPathPrefix(ctx context.Context, prefix string) (int, error)

	// DeleteAllItems clears the item table.
	DeleteAllItems(ctx context.Context) error

	// Close releases repository resources.
	Close() error
}

// FingerprintRepository provides operations for stored folder
// fingerprints.
type FingerprintRepository interface {
	// PutFingerprints writes fingerprints in a single transaction,
	// replacing any stored fingerprint for the same folder path.
	PutFingerprints(ctx context.Context, fps ...core.FolderFingerprint) error

	// GetFingerprint retrieves the fingerprint for one folder.
	// Returns ErrNotFound if none is stored.
	GetFingerprint(ctx context.Context, folderPath string) (*core.FolderFingerprint, error)

	// ListFingerprints returns every stored fingerprint.
	ListFingerprints(ctx context.Context) ([]core.FolderFingerprint, error)

	// DeleteFingerprints removes fingerprints by folder path. Unknown
	// paths are ignored.
	DeleteFingerprints(ctx context.Context, folderPaths ...string) error

	// DeleteAllFingerprints clears the fingerprint table.
	DeleteAllFingerprints(ctx context.Context) error

	// Close releases repository resources.
	Close() error
}
