package core

import (
	"strings"
	"time"
)

// ItemKind classifies a launchable item by its origin and behavior.
type ItemKind int

const (
	// KindApplication is an installed application.
	KindApplication ItemKind = iota + 1
	// KindFile is a regular file on disk.
	KindFile
	// KindFolder is a directory on disk.
	KindFolder
	// KindScript is an executable script file.
	KindScript
	// KindWebSearch is a synthesized web-search result.
	KindWebSearch
	// KindCalculator is a synthesized arithmetic result.
	KindCalculator
	// KindCommand is an executable discovered on the command path.
	KindCommand
	// KindBookmark is a browser bookmark.
	KindBookmark
	// KindStoreApp is an application installed through a platform store.
	KindStoreApp
)

var kindNames = map[ItemKind]string{
	KindApplication: "application",
	KindFile:        "file",
	KindFolder:      "folder",
	KindScript:      "script",
	KindWebSearch:   "websearch",
	KindCalculator:  "calculator",
	KindCommand:     "command",
	KindBookmark:    "bookmark",
	KindStoreApp:    "storeapp",
}

// String returns the lowercase name of the kind, or "unknown".
func (k ItemKind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "unknown"
}

// Pluggable reports whether items of this kind come from a pluggable
// source rather than a filesystem walk. Pluggable items win ties during
// deduplication.
func (k ItemKind) Pluggable() bool {
	switch k {
	case KindApplication, KindCommand, KindBookmark, KindStoreApp:
		return true
	}
	return false
}

// Item is a launchable entity held in the index.
// Path is the unique key: an absolute filesystem path, a protocol URI,
// or a platform application identifier. Re-indexing the same path
// preserves UseCount and LastUsedAt.
type Item struct {
	Path        string
	Name        string
	Description string
	Kind        ItemKind
	UseCount    uint32
	LastUsedAt  time.Time // zero value means never used
	IndexedAt   time.Time
}

// DedupKey returns the deduplication key for the item: normalized
// display name plus kind. Two items of different kinds sharing a name
// are both retained; duplicates of the same kind collapse to one.
func (it *Item) DedupKey() string {
	return strings.ToLower(strings.TrimSpace(it.Name)) + "\x00" + it.Kind.String()
}

// FolderFingerprint is a change-detection digest for one watched root.
// Two fingerprints computed over an unchanged tree with the same depth
// and hidden-file settings are equal.
type FolderFingerprint struct {
	FolderPath       string
	Digest           string // hex-encoded blake2b-256 of the traversal buffer
	FileCount        uint32
	FolderCount      uint32
	TotalSizeBytes   uint64
	LatestModifiedAt time.Time
	ComputedAt       time.Time
}

// ChangeType identifies the kind of filesystem change in a ChangeEvent.
type ChangeType int

const (
	// ChangeCreated indicates a path came into existence.
	ChangeCreated ChangeType = iota + 1
	// ChangeDeleted indicates a path was removed.
	ChangeDeleted
	// ChangeModified indicates a path's contents or metadata changed.
	ChangeModified
)

// String returns the lowercase name of the change type.
func (c ChangeType) String() string {
	switch c {
	case ChangeCreated:
		return "created"
	case ChangeDeleted:
		return "deleted"
	case ChangeModified:
		return "modified"
	}
	return "unknown"
}

// ChangeEvent is one already-debounced filesystem delta. Batches arrive
// deduplicated by path, last event per path wins.
type ChangeEvent struct {
	Type      ChangeType
	Path      string
	Timestamp time.Time
}

// SearchResult is an immutable view of one ranked query hit. Callers
// never mutate results; usage updates go through the pipeline's
// RecordUsage.
type SearchResult struct {
	Path        string
	Name        string
	Description string
	Kind        ItemKind
	Score       int32
	UseCount    uint32
}
