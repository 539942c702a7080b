// Package watch turns raw fsnotify events into the debounced,
// per-path-deduplicated change batches the indexing pipeline's
// incremental consumer expects.
package watch
