package sources

import (
	"context"

	"github.com/poiesic/quickdex/core"
)

// Source harvests launchable items from one origin: a configured
// folder tree, the executables on PATH, installed applications.
// Implementations must be thread-safe for concurrent use.
type Source interface {
	// Name identifies the source in logs and indexing reports.
	Name() string

	// Harvest collects the items the source currently provides.
	// A harvest is a snapshot; it carries no usage data.
	Harvest(ctx context.Context) ([]core.Item, error)

	// Volatile reports whether the source's contents change outside
	// the fingerprinted folder set. Volatile sources are re-harvested
	// on every indexing run, even a smart run that found no folder
	// changes.
	Volatile() bool
}
