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

import (
	"context"
	"log/slog"
	"os"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"

	"github.com/poiesic/quickdex/core"
	"github.com/poiesic/quickdex/fingerprint"
	"github.com/poiesic/quickdex/rank"
	"github.com/poiesic/quickdex/sources"
	"github.com/poiesic/quickdex/storage"
)

// Indexing run modes reported to the monitor.
const (
	ModeFull  = "full"
	ModeSmart = "smart"
	ModeRe    = "reindex"
)

// parallelScoreThreshold is the corpus size above which query scoring
// fans out across the worker pool. Below it, pool overhead dominates.
const parallelScoreThreshold = 500

// Pipeline orchestrates harvesting, deduplication, persistence and
// querying of the launchable-item index. At most one indexing run is
// active at a time; queries read the in-memory snapshot and never
// block on indexing.
type Pipeline struct {
	itemRepo storage.ItemRepository
	fpRepo   storage.FingerprintRepository
	detector *fingerprint.Detector

	sources      []sources.Source
	folderSource *sources.FolderSource
	folders      []string
	fpOpts       fingerprint.Options

	scorer     *rank.Scorer
	weights    rank.Weights
	maxResults int
	webPrefix  string
	webURL     string

	harvestPool *ants.Pool
	scorePool   *ants.Pool

	// Live index. Queries take the read lock; the single active
	// indexing run takes the write lock only to swap the map.
	mu    sync.RWMutex
	items map[string]core.Item

	// Single-flight guard for indexing runs.
	runMu sync.Mutex

	cancelMu  sync.Mutex
	cancelRun context.CancelFunc

	invalidate func(path string)
	monitor    IndexMonitor
	logger     *slog.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline) error

// WithSources registers pluggable item sources harvested on every run.
func WithSources(srcs ...sources.Source) Option {
	return func(p *Pipeline) error {
		p.sources = append(p.sources, srcs...)
		return nil
	}
}

// WithFolders configures the fingerprinted folder roots and installs a
// folder source over them.
func WithFolders(folders []string, source *sources.FolderSource) Option {
	return func(p *Pipeline) error {
		p.folders = folders
		p.folderSource = source
		return nil
	}
}

// WithFingerprintOptions sets the traversal options used for change
// detection. They should match the folder source's filters, otherwise
// fingerprints react to files the harvest never sees.
func WithFingerprintOptions(opts fingerprint.Options) Option {
	return func(p *Pipeline) error {
		p.fpOpts = opts
		return nil
	}
}

// WithWeights overrides the scoring weight table.
// Default is rank.DefaultWeights().
func WithWeights(w rank.Weights) Option {
	return func(p *Pipeline) error {
		p.weights = w
		return nil
	}
}

// WithMaxResults bounds the result list returned by Search.
// Default is 20.
func WithMaxResults(n int) Option {
	return func(p *Pipeline) error {
		if n > 0 {
			p.maxResults = n
		}
		return nil
	}
}

// WithWebSearch configures the web-search short-circuit: queries
// beginning with prefix followed by a space produce a single
// web-search result whose path substitutes the terms into urlTemplate
// at the %s marker.
func WithWebSearch(prefix, urlTemplate string) Option {
	return func(p *Pipeline) error {
		p.webPrefix = prefix
		p.webURL = urlTemplate
		return nil
	}
}

// WithInvalidation installs a callback invoked with each deleted path
// so collaborators can drop cached artifacts keyed by it.
func WithInvalidation(fn func(path string)) Option {
	return func(p *Pipeline) error {
		p.invalidate = fn
		return nil
	}
}

// WithMonitor sets a lifecycle monitor.
// Default is a no-op monitor.
func WithMonitor(monitor IndexMonitor) Option {
	return func(p *Pipeline) error {
		if monitor == nil {
			monitor = &noopMonitor{}
		}
		p.monitor = monitor
		return nil
	}
}

// WithPoolSize sets the worker pool size for harvesting and scoring.
// Default is runtime.NumCPU(), with a minimum of 1.
func WithPoolSize(size int) Option {
	return func(p *Pipeline) error {
		if size < 1 {
			size = 1
		}
		if p.harvestPool != nil {
			p.harvestPool.Release()
		}
		if p.scorePool != nil {
			p.scorePool.Release()
		}
		harvestPool, err := ants.NewPool(size)
		if err != nil {
			return err
		}
		scorePool, err := ants.NewPool(size)
		if err != nil {
			harvestPool.Release()
			return err
		}
		p.harvestPool = harvestPool
		p.scorePool = scorePool
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) error {
		if logger == nil {
			logger = slog.Default()
		}
		p.logger = logger
		return nil
	}
}

// NewPipeline creates an indexing pipeline over the given storage and
// change detector.
func NewPipeline(
	itemRepo storage.ItemRepository,
	fpRepo storage.FingerprintRepository,
	detector *fingerprint.Detector,
	opts ...Option,
) (*Pipeline, error) {
	if itemRepo == nil {
		return nil, ErrItemRepositoryRequired
	}
	if fpRepo == nil {
		return nil, ErrFingerprintRepositoryRequired
	}
	if detector == nil {
		return nil, ErrDetectorRequired
	}

	poolSize := runtime.NumCPU()
	if poolSize < 1 {
		poolSize = 1
	}
	harvestPool, err := ants.NewPool(poolSize)
	if err != nil {
		return nil, err
	}
	scorePool, err := ants.NewPool(poolSize)
	if err != nil {
		harvestPool.Release()
		return nil, err
	}

	p := &Pipeline{
		itemRepo:    itemRepo,
		fpRepo:      fpRepo,
		detector:    detector,
		scorer:      rank.NewScorer(),
		weights:     rank.DefaultWeights(),
		maxResults:  20,
		harvestPool: harvestPool,
		scorePool:   scorePool,
		items:       make(map[string]core.Item),
		monitor:     &noopMonitor{},
		logger:      slog.Default(),
	}

	for _, opt := range opts {
		if optErr := opt(p); optErr != nil {
			p.Release()
			return nil, optErr
		}
	}

	return p, nil
}

// Load populates the in-memory index from the store. Called once at
// startup so queries work before the first indexing run.
func (p *Pipeline) Load(ctx context.Context) error {
	return p.reload(ctx)
}

// ItemCount returns the size of the live index.
func (p *Pipeline) ItemCount() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.items)
}

// StartIndexing runs a full harvest of every source and folder.
// Returns ErrIndexingInProgress if a run is already active.
func (p *Pipeline) StartIndexing(ctx context.Context) error {
	if !p.runMu.TryLock() {
		return ErrIndexingInProgress
	}
	defer p.runMu.Unlock()
	return p.run(ctx, ModeFull, p.fullIndex)
}

// SmartStartIndexing runs a differential harvest: unchanged folders
// are skipped entirely, and an all-unchanged comparison completes
// without touching the filesystem beyond the fingerprint walk.
// Returns ErrIndexingInProgress if a run is already active.
func (p *Pipeline) SmartStartIndexing(ctx context.Context) error {
	if !p.runMu.TryLock() {
		return ErrIndexingInProgress
	}
	defer p.runMu.Unlock()

	if p.ItemCount() == 0 {
		return p.run(ctx, ModeFull, p.fullIndex)
	}
	return p.run(ctx, ModeSmart, p.smartIndex)
}

// Reindex cancels any in-flight run, clears the store and the live
// index, then runs a full harvest.
func (p *Pipeline) Reindex(ctx context.Context) error {
	p.cancelMu.Lock()
	if p.cancelRun != nil {
		p.cancelRun()
	}
	p.cancelMu.Unlock()

	// Wait for the cancelled run to unwind
	p.runMu.Lock()
	defer p.runMu.Unlock()

	if err := p.itemRepo.DeleteAllItems(ctx); err != nil {
		return err
	}
	if err := p.fpRepo.DeleteAllFingerprints(ctx); err != nil {
		return err
	}
	p.mu.Lock()
	p.items = make(map[string]core.Item)
	p.mu.Unlock()

	return p.run(ctx, ModeRe, p.fullIndex)
}

// run wraps an indexing function with cancellation registration and
// monitor lifecycle events. Caller holds runMu.
func (p *Pipeline) run(ctx context.Context, mode string, fn func(context.Context) error) error {
	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	p.cancelMu.Lock()
	p.cancelRun = cancel
	p.cancelMu.Unlock()
	defer func() {
		p.cancelMu.Lock()
		p.cancelRun = nil
		p.cancelMu.Unlock()
	}()

	started := time.Now()
	p.monitor.Started(mode)
	p.logger.Info("indexing started", "mode", mode)

	if err := fn(runCtx); err != nil {
		p.logger.Error("indexing failed", "mode", mode, "err", err)
		return err
	}

	count := p.ItemCount()
	elapsed := time.Since(started)
	p.monitor.Completed(mode, count, elapsed)
	p.logger.Info("indexing completed", "mode", mode, "items", count, "elapsed", elapsed)
	return nil
}

// fullIndex harvests every source, deduplicates, persists, refreshes
// fingerprints and reloads the live index.
func (p *Pipeline) fullIndex(ctx context.Context) error {
	harvested, err := p.harvestAll(ctx, p.allSources())
	if err != nil {
		return err
	}
	p.monitor.Progress(len(harvested))

	priorUse, err := p.priorUsage(ctx)
	if err != nil {
		return err
	}
	deduped := deduplicate(harvested, priorUse)

	if err := ctx.Err(); err != nil {
		return err
	}
	if err := p.itemRepo.UpsertItems(ctx, deduped...); err != nil {
		return err
	}
	if err := p.pruneStale(ctx, deduped); err != nil {
		return err
	}
	if err := p.refreshFingerprints(ctx, nil); err != nil {
		return err
	}
	return p.reload(ctx)
}

// smartIndex consults the change detector and rescans only what moved.
func (p *Pipeline) smartIndex(ctx context.Context) error {
	cmp, err := p.detector.Compare(ctx, p.folders, p.fpOpts)
	if err != nil {
		return err
	}
	if cmp.Empty() {
		// Warm start: nothing changed, nothing to harvest.
		return nil
	}

	// Folders that vanished lose their items outright. Modified folders
	// keep theirs until the rescan lands, so the upsert can preserve
	// use counts on surviving paths; leftovers are pruned afterwards.
	for _, folder := range cmp.Deleted {
		if err := p.removeSubtree(ctx, folder); err != nil {
			return err
		}
	}

	var srcs []harvestUnit
	if p.folderSource != nil {
		rescan := make([]string, 0, len(cmp.New)+len(cmp.Modified))
		rescan = append(rescan, cmp.New...)
		rescan = append(rescan, cmp.Modified...)
		for _, folder := range rescan {
			folder := folder
			p.monitor.FolderRescanned(folder)
			srcs = append(srcs, harvestUnit{
				name: folder,
				harvest: func(ctx context.Context) ([]core.Item, error) {
					return p.folderSource.HarvestRoot(ctx, folder)
				},
			})
		}
	}
	// Volatile sources change outside the fingerprinted tree, so a
	// smart run still refreshes them.
	for _, src := range p.sources {
		if src.Volatile() {
			srcs = append(srcs, sourceUnit(src))
		}
	}

	harvested, err := p.harvestAll(ctx, srcs)
	if err != nil {
		return err
	}
	p.monitor.Progress(len(harvested))

	priorUse, err := p.priorUsage(ctx)
	if err != nil {
		return err
	}
	deduped := deduplicate(harvested, priorUse)

	if err := ctx.Err(); err != nil {
		return err
	}
	if err := p.itemRepo.UpsertItems(ctx, deduped...); err != nil {
		return err
	}
	if err := p.pruneRescanned(ctx, cmp.Modified, deduped); err != nil {
		return err
	}
	if err := p.refreshFingerprints(ctx, cmp); err != nil {
		return err
	}
	return p.reload(ctx)
}

// harvestUnit is one concurrent unit of harvest work.
type harvestUnit struct {
	name    string
	harvest func(ctx context.Context) ([]core.Item, error)
}

func sourceUnit(src sources.Source) harvestUnit {
	return harvestUnit{name: src.Name(), harvest: src.Harvest}
}

// allSources returns one unit per pluggable source plus one per
// configured folder root.
func (p *Pipeline) allSources() []harvestUnit {
	units := make([]harvestUnit, 0, len(p.sources)+len(p.folders))
	for _, src := range p.sources {
		units = append(units, sourceUnit(src))
	}
	if p.folderSource != nil {
		for _, folder := range p.folders {
			folder := folder
			units = append(units, harvestUnit{
				name: folder,
				harvest: func(ctx context.Context) ([]core.Item, error) {
					return p.folderSource.HarvestRoot(ctx, folder)
				},
			})
		}
	}
	return units
}

// harvestAll fans units out across the worker pool and joins them.
// A failing unit is logged and skipped; malformed candidates are
// dropped and counted.
func (p *Pipeline) harvestAll(ctx context.Context, units []harvestUnit) ([]core.Item, error) {
	var (
		mu        sync.Mutex
		harvested []core.Item
		skipped   int
		wg        sync.WaitGroup
	)

	for _, unit := range units {
		unit := unit
		wg.Add(1)
		submit := func() {
			defer wg.Done()
			items, err := unit.harvest(ctx)
			if err != nil {
				p.logger.Warn("source harvest failed", "source", unit.name, "err", err)
				return
			}
			valid := items[:0]
			dropped := 0
			for _, item := range items {
				if core.ValidateItem(&item) != nil {
					dropped++
					continue
				}
				valid = append(valid, item)
			}
			p.monitor.SourceHarvested(unit.name, len(valid))
			mu.Lock()
			harvested = append(harvested, valid...)
			skipped += dropped
			mu.Unlock()
		}
		if err := p.harvestPool.Submit(submit); err != nil {
			wg.Done()
			p.logger.Warn("harvest submit failed", "source", unit.name, "err", err)
		}
	}
	wg.Wait()

	if skipped > 0 {
		p.logger.Info("dropped malformed candidates", "count", skipped)
	}
	if err := ctx.Err(); err != nil {
		// Cancelled mid-harvest: discard everything, persist nothing
		return nil, err
	}
	return harvested, nil
}

// priorUsage snapshots each stored path's use count for dedup
// tie-breaking.
func (p *Pipeline) priorUsage(ctx context.Context) (map[string]uint32, error) {
	stored, err := p.itemRepo.ListItems(ctx)
	if err != nil {
		return nil, err
	}
	usage := make(map[string]uint32, len(stored))
	for _, item := range stored {
		usage[item.Path] = item.UseCount
	}
	return usage, nil
}

// pruneStale removes stored items whose path no longer appears in a
// full harvest.
func (p *Pipeline) pruneStale(ctx context.Context, current []core.Item) error {
	keep := make(map[string]struct{}, len(current))
	for _, item := range current {
		keep[item.Path] = struct{}{}
	}

	stored, err := p.itemRepo.ListItems(ctx)
	if err != nil {
		return err
	}
	var stale []string
	for _, item := range stored {
		if _, ok := keep[item.Path]; !ok {
			stale = append(stale, item.Path)
		}
	}
	if len(stale) == 0 {
		return nil
	}
	return p.itemRepo.DeleteItems(ctx, stale...)
}

// pruneRescanned removes stored items under rescanned folders whose
// path the rescan no longer produced. Running after the upsert means
// surviving paths kept their use counts.
func (p *Pipeline) pruneRescanned(ctx context.Context, folders []string, current []core.Item) error {
	if len(folders) == 0 {
		return nil
	}
	prefixes := make([]string, 0, len(folders))
	for _, folder := range folders {
		prefixes = append(prefixes, strings.TrimRight(folder, "/\\")+string(os.PathSeparator))
	}
	keep := make(map[string]struct{}, len(current))
	for _, item := range current {
		keep[item.Path] = struct{}{}
	}

	stored, err := p.itemRepo.ListItems(ctx)
	if err != nil {
		return err
	}
	var stale []string
	for _, item := range stored {
		if _, ok := keep[item.Path]; ok {
			continue
		}
		for _, prefix := range prefixes {
			if strings.HasPrefix(item.Path, prefix) {
				stale = append(stale, item.Path)
				break
			}
		}
	}
	if len(stale) == 0 {
		return nil
	}
	if err := p.itemRepo.DeleteItems(ctx, stale...); err != nil {
		return err
	}

	p.mu.Lock()
	for _, path := range stale {
		delete(p.items, path)
	}
	p.mu.Unlock()

	if p.invalidate != nil {
		for _, path := range stale {
			p.invalidate(path)
		}
	}
	return nil
}

// removeSubtree drops all indexed items under folder, from the store,
// the live index and any external cache.
func (p *Pipeline) removeSubtree(ctx context.Context, folder string) error {
	prefix := strings.TrimRight(folder, "/\\") + string(os.PathSeparator)
	if _, err := p.itemRepo.DeleteByPathPrefix(ctx, prefix); err != nil {
		return err
	}

	p.mu.Lock()
	var removed []string
	for path := range p.items {
		if strings.HasPrefix(path, prefix) {
			removed = append(removed, path)
			delete(p.items, path)
		}
	}
	p.mu.Unlock()

	if p.invalidate != nil {
		for _, path := range removed {
			p.invalidate(path)
		}
	}
	return nil
}

// refreshFingerprints persists current fingerprints for every
// configured folder. When cmp is nil (full run) they are recomputed;
// otherwise the comparison's fresh fingerprints are reused and
// fingerprints of deleted folders are dropped.
func (p *Pipeline) refreshFingerprints(ctx context.Context, cmp *fingerprint.Comparison) error {
	if cmp == nil {
		var err error
		cmp, err = p.detector.Compare(ctx, p.folders, p.fpOpts)
		if err != nil {
			return err
		}
	}
	if len(cmp.Deleted) > 0 {
		if err := p.fpRepo.DeleteFingerprints(ctx, cmp.Deleted...); err != nil {
			return err
		}
	}
	if len(cmp.Fingerprints) == 0 {
		return nil
	}
	fps := make([]core.FolderFingerprint, 0, len(cmp.Fingerprints))
	for _, fp := range cmp.Fingerprints {
		fps = append(fps, fp)
	}
	return p.fpRepo.PutFingerprints(ctx, fps...)
}

// reload swaps the live index for the store's current contents.
func (p *Pipeline) reload(ctx context.Context) error {
	stored, err := p.itemRepo.ListItems(ctx)
	if err != nil {
		return err
	}
	items := make(map[string]core.Item, len(stored))
	for _, item := range stored {
		items[item.Path] = item
	}

	p.mu.Lock()
	p.items = items
	p.mu.Unlock()
	return nil
}

// RecordUsage increments an item's use count and stamps its last-used
// time, durably and in the live index. Failures are logged; usage
// tracking is best-effort and must never surface to the caller.
func (p *Pipeline) RecordUsage(ctx context.Context, path string) {
	now := time.Now().UTC()
	if err := p.itemRepo.RecordUsage(ctx, path, now); err != nil {
		p.logger.Warn("recording usage failed", "path", path, "err", err)
		return
	}

	p.mu.Lock()
	if item, ok := p.items[path]; ok {
		item.UseCount++
		item.LastUsedAt = now
		p.items[path] = item
	}
	p.mu.Unlock()
}

// Release releases resources including worker pools.
// The pipeline should not be used after calling Release.
func (p *Pipeline) Release() {
	if p.harvestPool != nil {
		p.harvestPool.Release()
	}
	if p.scorePool != nil {
		p.scorePool.Release()
	}
}
