package store

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/mediconsult-api/pkg/logger"
)

// mapStore is a minimal Store for tests inside this package, which cannot
// import the memory backend.
type mapStore struct {
	mu   sync.Mutex
	data map[string][]byte
}

func (m *mapStore) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[key]
	if !ok {
		return nil, ErrNotFound
	}
	return v, nil
}

func (m *mapStore) Set(_ context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	return nil
}

func (m *mapStore) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

func (m *mapStore) Keys(context.Context, string) ([]string, error) { return nil, nil }

func (m *mapStore) Subscribe(context.Context, func(Change)) (func(), error) { return func() {}, nil }

func (m *mapStore) Ping(context.Context) error { return nil }

func (m *mapStore) Close() error { return nil }

func TestSlotLocksAreReleased(t *testing.T) {
	ctx := context.Background()
	c := NewCodec(&mapStore{data: map[string][]byte{}}, "", nil, logger.Nop())
	zero := func() int { return 0 }

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			slot := SessionSlot(fmt.Sprintf("s%d", i%5))
			_, err := Update(ctx, c, slot, zero, func(n *int) error {
				*n++
				return nil
			})
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	assert.Zero(t, c.heldLocks())
	for i := 0; i < 5; i++ {
		n, err := Load(ctx, c, SessionSlot(fmt.Sprintf("s%d", i)), zero)
		require.NoError(t, err)
		assert.Equal(t, 10, n)
	}
}
