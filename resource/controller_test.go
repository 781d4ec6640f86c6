package resource

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNilControllerAdmitsEverything(t *testing.T) {
	var c *Controller

	assert.NoError(t, c.AcquireSearch(context.Background()))
	assert.True(t, c.TryAcquireSearch())
	assert.Equal(t, int64(0), c.MaxConcurrentSearches())
	c.ReleaseSearch()
}

func TestConcurrencyLimit(t *testing.T) {
	c := NewController(Config{MaxConcurrentSearches: 2})
	require.Equal(t, int64(2), c.MaxConcurrentSearches())

	ctx := context.Background()
	require.NoError(t, c.AcquireSearch(ctx))
	require.NoError(t, c.AcquireSearch(ctx))

	assert.False(t, c.TryAcquireSearch())

	c.ReleaseSearch()
	assert.True(t, c.TryAcquireSearch())

	c.ReleaseSearch()
	c.ReleaseSearch()
}

func TestDefaultsToSingleSlot(t *testing.T) {
	c := NewController(Config{})
	assert.Equal(t, int64(1), c.MaxConcurrentSearches())

	require.True(t, c.TryAcquireSearch())
	assert.False(t, c.TryAcquireSearch())
	c.ReleaseSearch()
}

func TestAcquireRespectsContext(t *testing.T) {
	c := NewController(Config{MaxConcurrentSearches: 1})

	ctx := context.Background()
	require.NoError(t, c.AcquireSearch(ctx))

	cctx, cancel := context.WithTimeout(ctx, 10*time.Millisecond)
	defer cancel()

	err := c.AcquireSearch(cctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	c.ReleaseSearch()
}

func TestRateLimit(t *testing.T) {
	c := NewController(Config{MaxConcurrentSearches: 10, SearchesPerSec: 1})

	// The burst allowance admits the first query; the second is not yet due.
	require.True(t, c.TryAcquireSearch())
	assert.False(t, c.TryAcquireSearch())
	c.ReleaseSearch()
}
