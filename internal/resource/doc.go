// Package resource bounds the resources a database spends on behalf of its
// callers.
//
// A Controller governs two things:
//
//   - Searches: a weighted semaphore caps how many searches run at once.
//     Callers beyond the cap block until a slot frees up or their context ends.
//   - IO: a token bucket limits blob IO to a number of bytes per second.
//     Requests larger than the bucket are split and paid for in bursts.
//
//	rc := resource.NewController(resource.Config{
//	    MaxConcurrentSearches: 8,
//	    IOLimitBytesPerSec:    64 << 20,
//	})
//
//	if err := rc.AcquireSearch(ctx); err != nil {
//	    return err
//	}
//	defer rc.ReleaseSearch()
//
// All methods are safe for concurrent use and a nil *Controller imposes no
// limits.
package resource
