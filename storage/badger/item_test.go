package badger

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/quickdex/core"
	"github.com/poiesic/quickdex/storage"
)

func newTestItemRepo(t *testing.T) storage.ItemRepository {
	t.Helper()
	itemRepo, fpRepo, backend, err := NewMemoryRepositories()
	require.NoError(t, err)
	t.Cleanup(func() {
		itemRepo.Close()
		fpRepo.Close()
		backend.Close()
	})
	return itemRepo
}

func TestUpsertAndGetItem(t *testing.T) {
	repo := newTestItemRepo(t)
	ctx := context.Background()

	item := core.Item{
		Path: "/usr/share/applications/firefox.desktop",
		Name: "Mozilla Firefox",
		Kind: core.KindApplication,
	}
	require.NoError(t, repo.UpsertItems(ctx, item))

	got, err := repo.GetItem(ctx, item.Path)
	require.NoError(t, err)
	assert.Equal(t, item.Name, got.Name)
	assert.Equal(t, item.Kind, got.Kind)
	assert.False(t, got.IndexedAt.IsZero(), "upsert must stamp IndexedAt")
}

func TestGetItemNotFound(t *testing.T) {
	repo := newTestItemRepo(t)

	_, err := repo.GetItem(context.Background(), "/no/such/path")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestUpsertPreservesUsage(t *testing.T) {
	repo := newTestItemRepo(t)
	ctx := context.Background()

	item := core.Item{Path: "/apps/term", Name: "Terminal", Kind: core.KindApplication}
	require.NoError(t, repo.UpsertItems(ctx, item))

	usedAt := time.Date(2026, 8, 20, 10, 0, 0, 0, time.UTC)
	require.NoError(t, repo.RecordUsage(ctx, item.Path, usedAt))
	require.NoError(t, repo.RecordUsage(ctx, item.Path, usedAt.Add(time.Hour)))

	// Rescan produces a fresh harvest of the same path
	rescanned := core.Item{Path: "/apps/term", Name: "Terminal Emulator", Kind: core.KindApplication}
	require.NoError(t, repo.UpsertItems(ctx, rescanned))

	got, err := repo.GetItem(ctx, item.Path)
	require.NoError(t, err)
	assert.Equal(t, "Terminal Emulator", got.Name)
	assert.Equal(t, uint32(2), got.UseCount, "rescan must not reset use count")
	assert.True(t, got.LastUsedAt.Equal(usedAt.Add(time.Hour)))
}

func TestRecordUsageUnknownPath(t *testing.T) {
	repo := newTestItemRepo(t)

	err := repo.RecordUsage(context.Background(), "/ghost", time.Now())
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestListByKind(t *testing.T) {
	repo := newTestItemRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.UpsertItems(ctx,
		core.Item{Path: "/apps/firefox", Name: "Firefox", Kind: core.KindApplication},
		core.Item{Path: "/docs/notes.txt", Name: "notes.txt", Kind: core.KindFile},
		core.Item{Path: "/apps/code", Name: "VS Code", Kind: core.KindApplication},
	))

	apps, err := repo.ListByKind(ctx, core.KindApplication)
	require.NoError(t, err)
	assert.Len(t, apps, 2)
	for _, item := range apps {
		assert.Equal(t, core.KindApplication, item.Kind)
	}
}

func TestSearchNamePrefixIsCaseInsensitive(t *testing.T) {
	repo := newTestItemRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.UpsertItems(ctx,
		core.Item{Path: "/apps/firefox", Name: "Firefox", Kind: core.KindApplication},
		core.Item{Path: "/docs/firmware.pdf", Name: "Firmware.pdf", Kind: core.KindFile},
		core.Item{Path: "/apps/code", Name: "VS Code", Kind: core.KindApplication},
	))

	got, err := repo.SearchNamePrefix(ctx, "FIR")
	require.NoError(t, err)
	require.Len(t, got, 2)
}

func TestTopUsedOrdersByUseCount(t *testing.T) {
	repo := newTestItemRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.UpsertItems(ctx,
		core.Item{Path: "/a", Name: "a", Kind: core.KindFile},
		core.Item{Path: "/b", Name: "b", Kind: core.KindFile},
		core.Item{Path: "/c", Name: "c", Kind: core.KindFile},
	))

	now := time.Now()
	for i := 0; i < 3; i++ {
		require.NoError(t, repo.RecordUsage(ctx, "/b", now))
	}
	require.NoError(t, repo.RecordUsage(ctx, "/c", now))

	top, err := repo.TopUsed(ctx, 2)
	require.NoError(t, err)
	require.Len(t, top, 2)
	assert.Equal(t, "/b", top[0].Path)
	assert.Equal(t, "/c", top[1].Path)
}

func TestDeleteItems(t *testing.T) {
	repo := newTestItemRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.UpsertItems(ctx,
		core.Item{Path: "/a", Name: "a", Kind: core.KindFile},
		core.Item{Path: "/b", Name: "b", Kind: core.KindFile},
	))

	require.NoError(t, repo.DeleteItems(ctx, "/a", "/missing"))

	_, err := repo.GetItem(ctx, "/a")
	assert.ErrorIs(t, err, storage.ErrNotFound)

	items, err := repo.ListItems(ctx)
	require.NoError(t, err)
	assert.Len(t, items, 1)
}

func TestDeleteByPathPrefix(t *testing.T) {
	repo := newTestItemRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.UpsertItems(ctx,
		core.Item{Path: "/home/user/docs/a.txt", Name: "a.txt", Kind: core.KindFile},
		core.Item{Path: "/home/user/docs/b.txt", Name: "b.txt", Kind: core.KindFile},
		core.Item{Path: "/home/user/music/c.mp3", Name: "c.mp3", Kind: core.KindFile},
	))

	n, err := repo.DeleteByPathPrefix(ctx, "/home/user/docs/")
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	items, err := repo.ListItems(ctx)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "/home/user/music/c.mp3", items[0].Path)
}

func TestDeleteAllItems(t *testing.T) {
	repo := newTestItemRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.UpsertItems(ctx,
		core.Item{Path: "/a", Name: "a", Kind: core.KindFile},
		core.Item{Path: "/b", Name: "b", Kind: core.KindApplication},
	))
	require.NoError(t, repo.DeleteAllItems(ctx))

	items, err := repo.ListItems(ctx)
	require.NoError(t, err)
	assert.Empty(t, items)

	byName, err := repo.SearchNamePrefix(ctx, "a")
	require.NoError(t, err)
	assert.Empty(t, byName, "indexes must be cleared with the records")
}

func TestUpsertRejectsInvalidItem(t *testing.T) {
	repo := newTestItemRepo(t)

	err := repo.UpsertItems(context.Background(), core.Item{Name: "nameless path"})
	assert.ErrorIs(t, err, core.ErrEmptyPath)
}
