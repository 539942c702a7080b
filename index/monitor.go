package index

import "time"

// IndexMonitor provides hooks to observe an indexing run.
// Implement this interface to drive progress UI or diagnostics.
type IndexMonitor interface {
	Started(mode string)
	SourceHarvested(source string, items int)
	FolderRescanned(folder string)
	Progress(indexed int)
	Completed(mode string, items int, elapsed time.Duration)
}

// noopMonitor is a no-op implementation of IndexMonitor
type noopMonitor struct{}

var _ IndexMonitor = (*noopMonitor)(nil)

func (n *noopMonitor) Started(_ string)                           {}
func (n *noopMonitor) SourceHarvested(_ string, _ int)            {}
func (n *noopMonitor) FolderRescanned(_ string)                   {}
func (n *noopMonitor) Progress(_ int)                             {}
func (n *noopMonitor) Completed(_ string, _ int, _ time.Duration) {}
