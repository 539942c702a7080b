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


package watch

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/poiesic/quickdex/core"
)

// ErrNoFolders indicates a watcher was created without folders.
var ErrNoFolders = errors.New("at least one folder is required")

const (
	defaultDebounce = 500 * time.Millisecond
	flushInterval   = 100 * time.Millisecond
)

// Watcher observes folder trees with fsnotify and emits debounced
// change batches. Raw events are coalesced last-event-wins per path,
// so a burst of writes to one file becomes a single Modified event in
// the next batch.
type Watcher struct {
	folders  []string
	debounce time.Duration

	fsw     *fsnotify.Watcher
	batches chan []core.ChangeEvent

	mu      sync.Mutex
	pending map[string]core.ChangeEvent

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
	logger *slog.Logger
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithDebounce sets how long a path must stay quiet before its event
// is emitted. Default is 500ms.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) {
		if d > 0 {
			w.debounce = d
		}
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(w *Watcher) {
		if logger == nil {
			logger = slog.Default()
		}
		w.logger = logger
	}
}

// NewWatcher creates a watcher over the given folder roots.
func NewWatcher(folders []string, opts ...Option) (*Watcher, error) {
	if len(folders) == 0 {
		return nil, ErrNoFolders
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(context.Background())
	w := &Watcher{
		folders:  folders,
		debounce: defaultDebounce,
		fsw:      fsw,
		batches:  make(chan []core.ChangeEvent, 16),
		pending:  make(map[string]core.ChangeEvent),
		ctx:      ctx,
		cancel:   cancel,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w, nil
}

// Start registers the folder trees and begins emitting batches.
func (w *Watcher) Start() error {
	for _, folder := range w.folders {
		if err := w.addRecursive(folder); err != nil {
			w.logger.Warn("cannot watch folder", "folder", folder, "err", err)
		}
	}

	w.wg.Add(2)
	go w.processEvents()
	go w.flushPending()
	return nil
}

// Batches returns the channel change batches are delivered on. The
// channel is closed when the watcher is closed.
func (w *Watcher) Batches() <-chan []core.ChangeEvent {
	return w.batches
}

// Close stops watching and closes the batch channel.
func (w *Watcher) Close() error {
	w.cancel()
	err := w.fsw.Close()
	w.wg.Wait()
	close(w.batches)
	return err
}

// addRecursive registers dir and every sub-directory with fsnotify.
// Unwatchable directories are skipped.
func (w *Watcher) addRecursive(dir string) error {
	return filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil
		}
		if !info.IsDir() {
			return nil
		}
		if addErr := w.fsw.Add(path); addErr != nil {
			w.logger.Debug("cannot watch directory", "dir", path, "err", addErr)
		}
		return nil
	})
}

func (w *Watcher) processEvents() {
	defer w.wg.Done()
	for {
		select {
		case <-w.ctx.Done():
			return

		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			w.handleEvent(event)

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.logger.Warn("watch error", "err", err)
		}
	}
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	now := time.Now().UTC()
	var change core.ChangeEvent

	switch {
	case event.Op.Has(fsnotify.Create):
		change = core.ChangeEvent{Type: core.ChangeCreated, Path: event.Name, Timestamp: now}
		// New directories need their own watch to see future children
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			if err := w.addRecursive(event.Name); err != nil {
				w.logger.Debug("cannot watch new directory", "dir", event.Name, "err", err)
			}
		}
	case event.Op.Has(fsnotify.Write):
		change = core.ChangeEvent{Type: core.ChangeModified, Path: event.Name, Timestamp: now}
	case event.Op.Has(fsnotify.Remove), event.Op.Has(fsnotify.Rename):
		change = core.ChangeEvent{Type: core.ChangeDeleted, Path: event.Name, Timestamp: now}
	default:
		return
	}

	w.mu.Lock()
	// Last event per path wins; a Create followed by a Remove within
	// one window collapses to the Remove.
	w.pending[event.Name] = change
	w.mu.Unlock()
}

// flushPending periodically emits paths that have stayed quiet for the
// debounce window as one batch.
func (w *Watcher) flushPending() {
	defer w.wg.Done()
	ticker := time.NewTicker(flushInterval)
	defer ticker.Stop()

	for {
		select {
		case <-w.ctx.Done():
			return

		case <-ticker.C:
			now := time.Now().UTC()

			w.mu.Lock()
			var batch []core.ChangeEvent
			for path, change := range w.pending {
				if now.Sub(change.Timestamp) >= w.debounce {
					batch = append(batch, change)
					delete(w.pending, path)
				}
			}
			w.mu.Unlock()

			if len(batch) == 0 {
				continue
			}
			select {
			case w.batches <- batch:
			case <-w.ctx.Done():
				return
			}
		}
	}
}
