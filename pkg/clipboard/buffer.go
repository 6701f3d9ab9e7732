package clipboard

import (
	"context"
	"errors"
	"slices"
	"sync"
)

// ErrEmpty is returned by [Buffer.Get] when nothing has been copied yet.
var ErrEmpty = errors.New("clipboard is empty")

// Buffer holds the most recent clipboard payload. Implementations must be
// safe for concurrent use.
type Buffer interface {
	// Set replaces the current payload.
	Set(ctx context.Context, data []byte) error
	// Get returns the current payload, or ErrEmpty.
	Get(ctx context.Context) ([]byte, error)
}

// MemoryBuffer is an in-process [Buffer].
type MemoryBuffer struct {
	mu   sync.RWMutex
	data []byte
}

// NewMemoryBuffer returns an empty in-process buffer.
func NewMemoryBuffer() *MemoryBuffer { return &MemoryBuffer{} }

// Set replaces the current payload with a copy of data.
func (b *MemoryBuffer) Set(_ context.Context, data []byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.data = slices.Clone(data)
	return nil
}

// Get returns a copy of the current payload.
func (b *MemoryBuffer) Get(_ context.Context) ([]byte, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.data == nil {
		return nil, ErrEmpty
	}
	return slices.Clone(b.data), nil
}

var _ Buffer = (*MemoryBuffer)(nil)
