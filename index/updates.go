package index

import (
	"context"
	"os"
	"path/filepath"

	"github.com/poiesic/quickdex/core"
	"github.com/poiesic/quickdex/sources"
)

// ApplyChanges applies a deduplicated batch of file-system deltas to
// the live index and the store without a rescan. Batches arrive
// last-event-wins per path from an external watcher. Malformed events
// are dropped and counted; a single bad event never fails the batch.
func (p *Pipeline) ApplyChanges(ctx context.Context, batch []core.ChangeEvent) error {
	var upserts []core.Item
	var deletions []string
	dropped := 0

	for _, event := range batch {
		if core.ValidateChangeEvent(&event) != nil {
			dropped++
			continue
		}
		switch event.Type {
		case core.ChangeCreated, core.ChangeModified:
			item, err := itemFromPath(event.Path)
			if err != nil {
				// Path vanished between the event and now
				deletions = append(deletions, event.Path)
				continue
			}
			upserts = append(upserts, item)
		case core.ChangeDeleted:
			deletions = append(deletions, event.Path)
		}
	}
	if dropped > 0 {
		p.logger.Info("dropped malformed change events", "count", dropped)
	}

	if len(upserts) > 0 {
		if err := p.itemRepo.UpsertItems(ctx, upserts...); err != nil {
			return err
		}
		// Read back to pick up preserved usage and stamped IndexedAt
		p.mu.Lock()
		for _, item := range upserts {
			stored, err := p.itemRepo.GetItem(ctx, item.Path)
			if err != nil {
				p.mu.Unlock()
				return err
			}
			p.items[item.Path] = *stored
		}
		p.mu.Unlock()
	}

	if len(deletions) > 0 {
		if err := p.itemRepo.DeleteItems(ctx, deletions...); err != nil {
			return err
		}
		p.mu.Lock()
		for _, path := range deletions {
			delete(p.items, path)
		}
		p.mu.Unlock()
		if p.invalidate != nil {
			for _, path := range deletions {
				p.invalidate(path)
			}
		}
	}
	return nil
}

// Consume applies change batches from the channel until it closes or
// the context is cancelled. Batch failures are logged; the consumer
// keeps going so one bad batch never stalls freshness.
func (p *Pipeline) Consume(ctx context.Context, batches <-chan []core.ChangeEvent) {
	for {
		select {
		case <-ctx.Done():
			return
		case batch, ok := <-batches:
			if !ok {
				return
			}
			if err := p.ApplyChanges(ctx, batch); err != nil {
				p.logger.Error("applying change batch failed", "events", len(batch), "err", err)
			}
		}
	}
}

// itemFromPath builds a fresh candidate for a created or modified
// path from its current on-disk state.
func itemFromPath(path string) (core.Item, error) {
	info, err := os.Stat(path)
	if err != nil {
		return core.Item{}, err
	}
	name := filepath.Base(path)
	kind := sources.KindForFile(name)
	if info.IsDir() {
		kind = core.KindFolder
	}
	return core.Item{
		Path:        path,
		Name:        name,
		Description: filepath.Dir(path),
		Kind:        kind,
	}, nil
}
