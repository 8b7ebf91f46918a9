package cache_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/taskforge/pkg/cache"
)

func TestMemory_SetGet(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	c := cache.NewMemory[int]()
	t.Cleanup(func() { _ = c.Close() })

	require.NoError(t, c.Set(ctx, "a", 10, 0))

	v, err := c.Get(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, 10, v)

	_, err = c.Get(ctx, "missing")
	assert.ErrorIs(t, err, cache.ErrNotFound)
}

func TestMemory_Expiry(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	c := cache.NewMemory[string](cache.WithCleanupInterval(0))
	t.Cleanup(func() { _ = c.Close() })

	require.NoError(t, c.Set(ctx, "short", "x", 10*time.Millisecond))
	require.NoError(t, c.Set(ctx, "forever", "y", -1))

	time.Sleep(30 * time.Millisecond)

	_, err := c.Get(ctx, "short")
	assert.ErrorIs(t, err, cache.ErrNotFound)

	v, err := c.Get(ctx, "forever")
	require.NoError(t, err)
	assert.Equal(t, "y", v)
}

func TestMemory_SweepRemovesExpired(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	c := cache.NewMemory[string](cache.WithCleanupInterval(5 * time.Millisecond))
	t.Cleanup(func() { _ = c.Close() })

	require.NoError(t, c.Set(ctx, "k", "v", time.Millisecond))

	assert.Eventually(t, func() bool { return c.Len() == 0 }, time.Second, 5*time.Millisecond)
}

func TestMemory_Delete(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	c := cache.NewMemory[int]()
	t.Cleanup(func() { _ = c.Close() })

	require.NoError(t, c.Set(ctx, "a", 1, 0))
	require.NoError(t, c.Delete(ctx, "a"))

	_, err := c.Get(ctx, "a")
	assert.ErrorIs(t, err, cache.ErrNotFound)
}

func TestMemory_Closed(t *testing.T) {
	t.Parallel()

	c := cache.NewMemory[int]()
	require.NoError(t, c.Close())
	require.NoError(t, c.Close())

	assert.ErrorIs(t, c.Set(context.Background(), "a", 1, 0), cache.ErrClosed)
	assert.ErrorIs(t, c.Delete(context.Background(), "a"), cache.ErrClosed)
}
