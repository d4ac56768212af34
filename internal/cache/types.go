package cache

import "context"

// Key identifies a fixed-size block of a blob.
type Key struct {
	Path  string
	Block int64
}

// BlockCache is a byte-oriented cache for immutable blocks.
// Returned slices must be treated as read-only.
type BlockCache interface {
	// Get returns a cached block. ok=false if missing.
	Get(ctx context.Context, key Key) (b []byte, ok bool)
	// Set caches a block. The cache retains b; callers must not modify it.
	Set(ctx context.Context, key Key, b []byte)
	// InvalidatePath removes every block of path.
	InvalidatePath(path string)
	// Stats returns cache statistics.
	Stats() Stats
}

// Stats describes cache usage.
type Stats struct {
	Hits    int64
	Misses  int64
	Entries int
	Size    int64
}
