// Package resource bounds the query-side resource usage of an index shared
// by many goroutines: concurrent search slots and optional query admission
// rate limiting.
package resource

import (
	"context"

	"golang.org/x/sync/semaphore"
	"golang.org/x/time/rate"
)

// Config holds resource limits.
type Config struct {
	// MaxConcurrentSearches is the maximum number of searches running at once.
	// If 0, defaults to 1.
	MaxConcurrentSearches int64

	// SearchesPerSec is the maximum query admission rate.
	// If 0, unlimited.
	SearchesPerSec float64
}

// Controller manages search concurrency and admission.
type Controller struct {
	cfg Config

	searchSem *semaphore.Weighted
	limiter   *rate.Limiter // nil if unlimited
}

// NewController creates a new resource controller.
func NewController(cfg Config) *Controller {
	if cfg.MaxConcurrentSearches <= 0 {
		cfg.MaxConcurrentSearches = 1
	}

	c := &Controller{
		cfg:       cfg,
		searchSem: semaphore.NewWeighted(cfg.MaxConcurrentSearches),
	}

	if cfg.SearchesPerSec > 0 {
		burst := int(cfg.SearchesPerSec)
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(cfg.SearchesPerSec), burst)
	}

	return c
}

// AcquireSearch waits for rate admission and a search slot.
// A nil controller admits everything. Blocks until a slot is free or the
// context is cancelled.
func (c *Controller) AcquireSearch(ctx context.Context) error {
	if c == nil {
		return nil
	}
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return err
		}
	}
	return c.searchSem.Acquire(ctx, 1)
}

// ReleaseSearch releases a search slot.
func (c *Controller) ReleaseSearch() {
	if c == nil {
		return
	}
	c.searchSem.Release(1)
}

// TryAcquireSearch attempts to acquire a search slot without blocking.
func (c *Controller) TryAcquireSearch() bool {
	if c == nil {
		return true
	}
	if c.limiter != nil && !c.limiter.Allow() {
		return false
	}
	return c.searchSem.TryAcquire(1)
}

// MaxConcurrentSearches returns the configured concurrency limit.
func (c *Controller) MaxConcurrentSearches() int64 {
	if c == nil {
		return 0
	}
	return c.cfg.MaxConcurrentSearches
}
