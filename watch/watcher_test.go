package watch

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/quickdex/core"
)

func newTestWatcher(t *testing.T, dir string) *Watcher {
	t.Helper()
	w, err := NewWatcher([]string{dir}, WithDebounce(150*time.Millisecond))
	require.NoError(t, err)
	require.NoError(t, w.Start())
	t.Cleanup(func() { w.Close() })
	return w
}

// collectEvents drains batches until an event for path arrives or the
// timeout passes.
func collectEvents(t *testing.T, w *Watcher, path string, timeout time.Duration) []core.ChangeEvent {
	t.Helper()
	deadline := time.After(timeout)
	var collected []core.ChangeEvent
	for {
		select {
		case batch := <-w.Batches():
			collected = append(collected, batch...)
			for _, ev := range batch {
				if ev.Path == path {
					return collected
				}
			}
		case <-deadline:
			t.Fatalf("no event for %s within %s (got %v)", path, timeout, collected)
		}
	}
}

func TestNewWatcherRequiresFolders(t *testing.T) {
	_, err := NewWatcher(nil)
	assert.ErrorIs(t, err, ErrNoFolders)
}

func TestWatcherEmitsCreate(t *testing.T) {
	dir := t.TempDir()
	w := newTestWatcher(t, dir)

	path := filepath.Join(dir, "new.txt")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0644))

	events := collectEvents(t, w, path, 5*time.Second)
	var found *core.ChangeEvent
	for i := range events {
		if events[i].Path == path {
			found = &events[i]
		}
	}
	require.NotNil(t, found)
	assert.Contains(t, []core.ChangeType{core.ChangeCreated, core.ChangeModified}, found.Type)
	assert.False(t, found.Timestamp.IsZero())
}

func TestWatcherEmitsDelete(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "doomed.txt")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0644))

	w := newTestWatcher(t, dir)
	require.NoError(t, os.Remove(path))

	events := collectEvents(t, w, path, 5*time.Second)
	last := events[len(events)-1]
	assert.Equal(t, core.ChangeDeleted, last.Type)
}

func TestWatcherCoalescesBurstPerPath(t *testing.T) {
	dir := t.TempDir()
	w := newTestWatcher(t, dir)

	path := filepath.Join(dir, "busy.txt")
	for i := 0; i < 5; i++ {
		require.NoError(t, os.WriteFile(path, []byte{byte(i)}, 0644))
		time.Sleep(10 * time.Millisecond)
	}

	events := collectEvents(t, w, path, 5*time.Second)
	count := 0
	for _, ev := range events {
		if ev.Path == path {
			count++
		}
	}
	assert.Equal(t, 1, count, "a write burst must collapse to one event")
}

func TestWatcherSeesNewSubdirectories(t *testing.T) {
	dir := t.TempDir()
	w := newTestWatcher(t, dir)

	sub := filepath.Join(dir, "sub")
	require.NoError(t, os.MkdirAll(sub, 0755))
	// Give the watcher a moment to register the new directory
	collectEvents(t, w, sub, 5*time.Second)

	inner := filepath.Join(sub, "inner.txt")
	require.NoError(t, os.WriteFile(inner, []byte("x"), 0644))

	collectEvents(t, w, inner, 5*time.Second)
}

func TestCloseClosesBatchChannel(t *testing.T) {
	dir := t.TempDir()
	w, err := NewWatcher([]string{dir})
	require.NoError(t, err)
	require.NoError(t, w.Start())
	require.NoError(t, w.Close())

	select {
	case _, ok := <-w.Batches():
		assert.False(t, ok)
	case <-time.After(time.Second):
		t.Fatal("batch channel not closed")
	}
}
