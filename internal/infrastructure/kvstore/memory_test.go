package kvstore

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore_CanceledContext(t *testing.T) {
	s := NewMemoryStore()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, err := s.Get(ctx, "k")
	assert.ErrorIs(t, err, context.Canceled)
	assert.ErrorIs(t, s.Set(ctx, "k", nil), context.Canceled)
	assert.Equal(t, 0, s.Len())
}

func TestMemoryStore_ConcurrentWriters(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := range 20 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			key := fmt.Sprintf("k%d", i%5)
			assert.NoError(t, s.Set(ctx, key, []byte(fmt.Sprint(i))))
			_, _, err := s.Get(ctx, key)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.Equal(t, 5, s.Len())
}

func TestMemoryStore_ReturnedBytesAreCopies(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	require.NoError(t, s.Set(ctx, "k", []byte("abc")))

	v, _, err := s.Get(ctx, "k")
	require.NoError(t, err)
	v[0] = 'z'

	again, _, err := s.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "abc", string(again))
	assert.NoError(t, s.Close())
}
