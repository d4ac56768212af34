package resource

import (
	"context"
	"time"

	"golang.org/x/sync/semaphore"
	"golang.org/x/time/rate"
)

// Config holds resource limits. Zero values mean unlimited.
type Config struct {
	// MaxConcurrentSearches is the maximum number of searches running at once.
	MaxConcurrentSearches int64

	// IOLimitBytesPerSec is the maximum blob IO throughput.
	IOLimitBytesPerSec int64
}

// Controller enforces a Config.
type Controller struct {
	cfg Config

	searchSem *semaphore.Weighted // nil if unlimited
	ioLimiter *rate.Limiter       // nil if unlimited
}

// NewController creates a new resource controller.
func NewController(cfg Config) *Controller {
	c := &Controller{cfg: cfg}

	if cfg.MaxConcurrentSearches > 0 {
		c.searchSem = semaphore.NewWeighted(cfg.MaxConcurrentSearches)
	}

	if cfg.IOLimitBytesPerSec > 0 {
		c.ioLimiter = rate.NewLimiter(rate.Limit(cfg.IOLimitBytesPerSec), int(cfg.IOLimitBytesPerSec))
	}

	return c
}

// Config returns the limits the controller was created with.
func (c *Controller) Config() Config {
	if c == nil {
		return Config{}
	}
	return c.cfg
}

// AcquireSearch reserves a search slot, blocking until one is free or ctx is done.
func (c *Controller) AcquireSearch(ctx context.Context) error {
	if c == nil || c.searchSem == nil {
		return nil
	}
	return c.searchSem.Acquire(ctx, 1)
}

// TryAcquireSearch reserves a search slot without blocking.
func (c *Controller) TryAcquireSearch() bool {
	if c == nil || c.searchSem == nil {
		return true
	}
	return c.searchSem.TryAcquire(1)
}

// ReleaseSearch releases a slot reserved by AcquireSearch or TryAcquireSearch.
func (c *Controller) ReleaseSearch() {
	if c == nil || c.searchSem == nil {
		return
	}
	c.searchSem.Release(1)
}

// AcquireIO waits until the IO limit allows n bytes.
// Requests above the burst size are paid for in burst-sized chunks.
func (c *Controller) AcquireIO(ctx context.Context, n int) error {
	if c == nil || c.ioLimiter == nil || n <= 0 {
		return nil
	}

	burst := c.ioLimiter.Burst()
	for n > 0 {
		chunk := min(n, burst)
		if err := c.ioLimiter.WaitN(ctx, chunk); err != nil {
			return err
		}
		n -= chunk
	}
	return nil
}

// TryAcquireIO takes n bytes of IO budget without blocking.
// It reports false if the budget is not available right now.
func (c *Controller) TryAcquireIO(n int) bool {
	if c == nil || c.ioLimiter == nil || n <= 0 {
		return true
	}
	return c.ioLimiter.AllowN(time.Now(), n)
}
