package index

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/quickdex/core"
	"github.com/poiesic/quickdex/fingerprint"
	"github.com/poiesic/quickdex/sources"
	"github.com/poiesic/quickdex/sources/mock"
	"github.com/poiesic/quickdex/storage"
	badgerstore "github.com/poiesic/quickdex/storage/badger"
)

// recordingMonitor captures lifecycle events for assertions.
type recordingMonitor struct {
	mu        sync.Mutex
	started   []string
	harvested []string
	completed []string
}

func (m *recordingMonitor) Started(mode string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.started = append(m.started, mode)
}

func (m *recordingMonitor) SourceHarvested(source string, _ int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.harvested = append(m.harvested, source)
}

func (m *recordingMonitor) FolderRescanned(_ string) {}
func (m *recordingMonitor) Progress(_ int)           {}

func (m *recordingMonitor) Completed(mode string, _ int, _ time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.completed = append(m.completed, mode)
}

func (m *recordingMonitor) harvestCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.harvested)
}

type testEnv struct {
	pipeline *Pipeline
	itemRepo storage.ItemRepository
	monitor  *recordingMonitor
	folder   string
}

func newTestEnv(t *testing.T, opts ...Option) *testEnv {
	t.Helper()
	itemRepo, fpRepo, backend, err := badgerstore.NewMemoryRepositories()
	require.NoError(t, err)
	t.Cleanup(func() {
		itemRepo.Close()
		fpRepo.Close()
		backend.Close()
	})

	detector, err := fingerprint.NewDetector(fpRepo)
	require.NoError(t, err)

	folder := t.TempDir()
	folderSource, err := sources.NewFolderSource([]string{folder})
	require.NoError(t, err)

	monitor := &recordingMonitor{}
	opts = append([]Option{
		WithFolders([]string{folder}, folderSource),
		WithMonitor(monitor),
	}, opts...)

	pipeline, err := NewPipeline(itemRepo, fpRepo, detector, opts...)
	require.NoError(t, err)
	t.Cleanup(pipeline.Release)

	return &testEnv{
		pipeline: pipeline,
		itemRepo: itemRepo,
		monitor:  monitor,
		folder:   folder,
	}
}

func (e *testEnv) writeFile(t *testing.T, name string) string {
	t.Helper()
	path := filepath.Join(e.folder, name)
	require.NoError(t, os.WriteFile(path, []byte("x"), 0644))
	return path
}

func TestFullIndexingHarvestsFolder(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.writeFile(t, "report.docx")
	env.writeFile(t, "budget.xlsx")

	require.NoError(t, env.pipeline.StartIndexing(ctx))

	assert.Equal(t, 2, env.pipeline.ItemCount())
	stored, err := env.itemRepo.ListItems(ctx)
	require.NoError(t, err)
	assert.Len(t, stored, 2)
	assert.Equal(t, []string{ModeFull}, env.monitor.completed)
}

func TestFullIndexingRemovesVanishedPaths(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	keep := env.writeFile(t, "keep.txt")
	gone := env.writeFile(t, "gone.txt")

	require.NoError(t, env.pipeline.StartIndexing(ctx))
	require.Equal(t, 2, env.pipeline.ItemCount())

	require.NoError(t, os.Remove(gone))
	require.NoError(t, env.pipeline.StartIndexing(ctx))

	assert.Equal(t, 1, env.pipeline.ItemCount())
	_, err := env.itemRepo.GetItem(ctx, gone)
	assert.ErrorIs(t, err, storage.ErrNotFound)
	_, err = env.itemRepo.GetItem(ctx, keep)
	assert.NoError(t, err)
}

func TestSmartIndexingWarmStartHarvestsNothing(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.writeFile(t, "stable.txt")

	require.NoError(t, env.pipeline.StartIndexing(ctx))
	harvestsAfterFull := env.monitor.harvestCount()

	require.NoError(t, env.pipeline.SmartStartIndexing(ctx))

	assert.Equal(t, harvestsAfterFull, env.monitor.harvestCount(),
		"unchanged folders must not be re-harvested")
	assert.Equal(t, 1, env.pipeline.ItemCount())
	assert.Equal(t, []string{ModeFull, ModeSmart}, env.monitor.completed)
}

func TestSmartIndexingEmptyIndexFallsBackToFull(t *testing.T) {
	env := newTestEnv(t)
	env.writeFile(t, "a.txt")

	require.NoError(t, env.pipeline.SmartStartIndexing(context.Background()))

	assert.Equal(t, 1, env.pipeline.ItemCount())
	assert.Equal(t, []string{ModeFull}, env.monitor.completed)
}

func TestSmartIndexingPicksUpModifiedFolder(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.writeFile(t, "original.txt")

	require.NoError(t, env.pipeline.StartIndexing(ctx))
	require.Equal(t, 1, env.pipeline.ItemCount())

	added := env.writeFile(t, "added.txt")
	require.NoError(t, env.pipeline.SmartStartIndexing(ctx))

	assert.Equal(t, 2, env.pipeline.ItemCount())
	_, err := env.itemRepo.GetItem(ctx, added)
	assert.NoError(t, err)
}

func TestSmartIndexingRefreshesVolatileSources(t *testing.T) {
	volatile := mock.NewMockSource(core.Item{Path: "app://one", Name: "One", Kind: core.KindApplication})
	volatile.IsVolatile = true
	stable := mock.NewMockSource(core.Item{Path: "app://two", Name: "Two", Kind: core.KindApplication})

	env := newTestEnv(t, WithSources(volatile, stable))
	ctx := context.Background()
	env.writeFile(t, "stable.txt")

	require.NoError(t, env.pipeline.StartIndexing(ctx))
	assert.Equal(t, 1, volatile.CallCount())
	assert.Equal(t, 1, stable.CallCount())

	// A folder change forces a smart pass with work to do
	env.writeFile(t, "added.txt")
	require.NoError(t, env.pipeline.SmartStartIndexing(ctx))

	assert.Equal(t, 2, volatile.CallCount(), "volatile source refreshed on smart run")
	assert.Equal(t, 1, stable.CallCount(), "stable source untouched on smart run")
}

func TestUsagePreservedAcrossRescan(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	path := env.writeFile(t, "tool.txt")

	require.NoError(t, env.pipeline.StartIndexing(ctx))
	env.pipeline.RecordUsage(ctx, path)
	env.pipeline.RecordUsage(ctx, path)

	require.NoError(t, env.pipeline.StartIndexing(ctx))

	got, err := env.itemRepo.GetItem(ctx, path)
	require.NoError(t, err)
	assert.Equal(t, uint32(2), got.UseCount)
}

func TestUsagePreservedAcrossSmartRescan(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	path := env.writeFile(t, "tool.txt")

	require.NoError(t, env.pipeline.StartIndexing(ctx))
	env.pipeline.RecordUsage(ctx, path)
	env.pipeline.RecordUsage(ctx, path)

	// Change the folder so the smart pass rescans it
	env.writeFile(t, "added.txt")
	require.NoError(t, env.pipeline.SmartStartIndexing(ctx))

	got, err := env.itemRepo.GetItem(ctx, path)
	require.NoError(t, err)
	assert.Equal(t, uint32(2), got.UseCount,
		"rescanning a changed folder must keep use counts")
}

func TestSmartRescanPrunesVanishedFiles(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	gone := env.writeFile(t, "gone.txt")
	keep := env.writeFile(t, "keep.txt")

	require.NoError(t, env.pipeline.StartIndexing(ctx))
	require.NoError(t, os.Remove(gone))

	require.NoError(t, env.pipeline.SmartStartIndexing(ctx))

	_, err := env.itemRepo.GetItem(ctx, gone)
	assert.ErrorIs(t, err, storage.ErrNotFound)
	_, err = env.itemRepo.GetItem(ctx, keep)
	assert.NoError(t, err)
	assert.Equal(t, 1, env.pipeline.ItemCount())
}

func TestReindexClearsAndRebuilds(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	path := env.writeFile(t, "tool.txt")

	require.NoError(t, env.pipeline.StartIndexing(ctx))
	env.pipeline.RecordUsage(ctx, path)

	require.NoError(t, env.pipeline.Reindex(ctx))

	got, err := env.itemRepo.GetItem(ctx, path)
	require.NoError(t, err)
	assert.Equal(t, uint32(0), got.UseCount, "reindex starts usage from scratch")
	assert.Equal(t, 1, env.pipeline.ItemCount())
}

func TestSecondIndexingRunIsRejected(t *testing.T) {
	env := newTestEnv(t)
	env.pipeline.runMu.Lock()
	defer env.pipeline.runMu.Unlock()

	err := env.pipeline.StartIndexing(context.Background())
	assert.ErrorIs(t, err, ErrIndexingInProgress)
}

func TestCancelledRunPersistsNothing(t *testing.T) {
	env := newTestEnv(t)
	env.writeFile(t, "a.txt")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := env.pipeline.StartIndexing(ctx)
	assert.ErrorIs(t, err, context.Canceled)

	stored, err := env.itemRepo.ListItems(context.Background())
	require.NoError(t, err)
	assert.Empty(t, stored)
}

func TestRecordUsageUnknownPathIsSilent(t *testing.T) {
	env := newTestEnv(t)
	// Must not panic or surface an error
	env.pipeline.RecordUsage(context.Background(), "/never/indexed")
}
