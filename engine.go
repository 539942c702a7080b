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


package quickdex

import (
	"log/slog"
	"time"

	"github.com/poiesic/quickdex/config"
	"github.com/poiesic/quickdex/fingerprint"
	"github.com/poiesic/quickdex/index"
	"github.com/poiesic/quickdex/sources"
	"github.com/poiesic/quickdex/storage"
	"github.com/poiesic/quickdex/storage/badger"
	"github.com/poiesic/quickdex/watch"
)

// Engine wires storage, change detection, sources and the indexing
// pipeline together from a configuration.
type Engine struct {
	cfg      config.Config
	backend  *badger.Backend
	itemRepo storage.ItemRepository
	fpRepo   storage.FingerprintRepository
	pipeline *index.Pipeline
	logger   *slog.Logger
}

// EngineOption configures an Engine.
type EngineOption func(*engineOptions)

type engineOptions struct {
	inMemory     bool
	extraSources []sources.Source
	monitor      index.IndexMonitor
}

// WithInMemoryStore keeps the store in memory, mainly for tests.
func WithInMemoryStore() EngineOption {
	return func(o *engineOptions) {
		o.inMemory = true
	}
}

// WithExtraSources registers additional item sources, such as an
// OS-specific application or bookmark harvester.
func WithExtraSources(srcs ...sources.Source) EngineOption {
	return func(o *engineOptions) {
		o.extraSources = append(o.extraSources, srcs...)
	}
}

// WithIndexMonitor installs a lifecycle monitor on the pipeline.
func WithIndexMonitor(monitor index.IndexMonitor) EngineOption {
	return func(o *engineOptions) {
		o.monitor = monitor
	}
}

// NewEngine creates an engine from a configuration.
func NewEngine(cfg config.Config, opts ...EngineOption) (*Engine, error) {
	options := &engineOptions{}
	for _, opt := range opts {
		opt(options)
	}

	backend, err := badger.OpenBackend(cfg.DataDir, options.inMemory)
	if err != nil {
		return nil, err
	}

	itemRepo, err := badger.NewItemRepository(backend)
	if err != nil {
		backend.Close()
		return nil, err
	}

	fpRepo, err := badger.NewFingerprintRepository(backend)
	if err != nil {
		itemRepo.Close()
		backend.Close()
		return nil, err
	}

	detector, err := fingerprint.NewDetector(fpRepo)
	if err != nil {
		fpRepo.Close()
		itemRepo.Close()
		backend.Close()
		return nil, err
	}

	folderSource, err := sources.NewFolderSource(cfg.Index.Folders,
		sources.WithExtensions(cfg.Index.Extensions),
		sources.WithMaxDepth(cfg.Index.MaxDepth),
		sources.WithIncludeHidden(cfg.Index.IncludeHidden),
	)
	if err != nil {
		fpRepo.Close()
		itemRepo.Close()
		backend.Close()
		return nil, err
	}

	pipelineOpts := []index.Option{
		index.WithFolders(cfg.Index.Folders, folderSource),
		index.WithFingerprintOptions(fingerprint.Options{
			Extensions:    cfg.Index.Extensions,
			MaxDepth:      cfg.Index.MaxDepth,
			IncludeHidden: cfg.Index.IncludeHidden,
		}),
		index.WithWeights(cfg.RankWeights()),
		index.WithMaxResults(cfg.Search.MaxResults),
		index.WithWebSearch(cfg.Search.WebPrefix, cfg.Search.WebURL),
	}
	if cfg.Index.IndexCommands() {
		pipelineOpts = append(pipelineOpts, index.WithSources(sources.NewCommandSource()))
	}
	if len(options.extraSources) > 0 {
		pipelineOpts = append(pipelineOpts, index.WithSources(options.extraSources...))
	}
	if options.monitor != nil {
		pipelineOpts = append(pipelineOpts, index.WithMonitor(options.monitor))
	}

	pipeline, err := index.NewPipeline(itemRepo, fpRepo, detector, pipelineOpts...)
	if err != nil {
		fpRepo.Close()
		itemRepo.Close()
		backend.Close()
		return nil, err
	}

	return &Engine{
		cfg:      cfg,
		backend:  backend,
		itemRepo: itemRepo,
		fpRepo:   fpRepo,
		pipeline: pipeline,
		logger:   slog.Default(),
	}, nil
}

// Pipeline returns the indexing pipeline.
func (e *Engine) Pipeline() *index.Pipeline {
	return e.pipeline
}

// ItemRepository returns the item repository.
func (e *Engine) ItemRepository() storage.ItemRepository {
	return e.itemRepo
}

// NewWatcher creates a file watcher over the configured folders with
// the configured debounce. Feed its batches to Pipeline().Consume.
func (e *Engine) NewWatcher() (*watch.Watcher, error) {
	return watch.NewWatcher(e.cfg.Index.Folders,
		watch.WithDebounce(time.Duration(e.cfg.Index.DebounceMillis)*time.Millisecond))
}

// Close releases the pipeline and storage.
func (e *Engine) Close() error {
	e.pipeline.Release()

	if err := e.fpRepo.Close(); err != nil {
		e.logger.Error("error closing fingerprint repository", "err", err)
		return err
	}
	if err := e.itemRepo.Close(); err != nil {
		e.logger.Error("error closing item repository", "err", err)
		return err
	}
	if err := e.backend.Close(); err != nil {
		e.logger.Error("error closing backend storage", "err", err)
		return err
	}
	return nil
}
