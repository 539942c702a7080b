package mock

import (
	"context"
	"sync"

	"github.com/poiesic/quickdex/core"
	"github.com/poiesic/quickdex/sources"
)

// MockSource is a test double for sources.Source.
// It allows custom behavior injection via function fields.
type MockSource struct {
	// HarvestFunc is called by Harvest if set.
	// If nil, returns Items.
	HarvestFunc func(ctx context.Context) ([]core.Item, error)

	// Items is the default harvest payload.
	Items []core.Item

	// SourceName overrides the default name "mock".
	SourceName string

	// IsVolatile is returned from Volatile.
	IsVolatile bool

	mu        sync.Mutex
	callCount int
}

var _ sources.Source = (*MockSource)(nil)

// NewMockSource creates a mock source returning the given items.
func NewMockSource(items ...core.Item) *MockSource {
	return &MockSource{Items: items}
}

// Name returns the configured name, defaulting to "mock".
func (m *MockSource) Name() string {
	if m.SourceName != "" {
		return m.SourceName
	}
	return "mock"
}

// Volatile returns the configured volatility.
func (m *MockSource) Volatile() bool {
	return m.IsVolatile
}

// Harvest returns the configured items or delegates to HarvestFunc.
func (m *MockSource) Harvest(ctx context.Context) ([]core.Item, error) {
	m.mu.Lock()
	m.callCount++
	m.mu.Unlock()

	if m.HarvestFunc != nil {
		return m.HarvestFunc(ctx)
	}
	out := make([]core.Item, len(m.Items))
	copy(out, m.Items)
	return out, nil
}

// CallCount returns how many times Harvest was called.
func (m *MockSource) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.callCount
}
