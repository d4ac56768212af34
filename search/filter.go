package search

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/RoaringBitmap/roaring/v2"
	"github.com/bits-and-blooms/bitset"
	"github.com/hupe1980/lexgo/model"
)

// Filter restricts searches to a subset of a snapshot.
type Filter interface {
	// Bits returns a bitset with bit d set iff document d is permitted.
	Bits(ctx context.Context, snap Snapshot) (*bitset.BitSet, error)
}

// queryFilterHashSalt keeps a filter's hash apart from its wrapped query's.
const queryFilterHashSalt uint64 = 0x923F64B9

// QueryFilter only permits documents matching a query.
//
// Results are cached per snapshot, so searches after the first against the
// same snapshot are cheap. A single QueryFilter can be reused across many
// searches, e.g. one matching documents modified within the last week.
//
// The cache is keyed by snapshot identity and is never evicted or
// invalidated; entries live as long as the filter.
type QueryFilter struct {
	query    Query
	searcher Searcher
	logger   *slog.Logger

	mu    sync.Mutex
	cache map[Snapshot]*bitset.BitSet
}

// FilterOption configures a QueryFilter.
type FilterOption func(*QueryFilter)

// WithFilterLogger sets the logger used to report cache misses.
// If nil is passed, logging is disabled.
func WithFilterLogger(l *slog.Logger) FilterOption {
	return func(f *QueryFilter) {
		if l == nil {
			l = slog.New(slog.DiscardHandler)
		}
		f.logger = l
	}
}

// NewQueryFilter creates a filter matching the documents that q matches.
// searcher runs q whenever a snapshot is not cached yet.
func NewQueryFilter(q Query, searcher Searcher, optFns ...FilterOption) *QueryFilter {
	f := &QueryFilter{
		query:    q,
		searcher: searcher,
		logger:   slog.New(slog.DiscardHandler),
	}
	for _, fn := range optFns {
		if fn != nil {
			fn(f)
		}
	}
	return f
}

// Ensure QueryFilter implements Filter.
var _ Filter = (*QueryFilter)(nil)

// Query returns the wrapped query.
func (f *QueryFilter) Query() Query {
	return f.query
}

// Bits implements Filter.
//
// Only the cache lookup and the cache store are locked. Two callers racing on
// an uncached snapshot may both run the query; the last store wins.
// A failed search is returned without caching anything.
func (f *QueryFilter) Bits(ctx context.Context, snap Snapshot) (*bitset.BitSet, error) {
	f.mu.Lock()
	if f.cache == nil {
		f.cache = make(map[Snapshot]*bitset.BitSet)
	}
	if cached, ok := f.cache[snap]; ok {
		f.mu.Unlock()
		return cached, nil
	}
	f.mu.Unlock()

	start := time.Now()
	bits := bitset.New(BitsetSize(snap.MaxDoc()))
	err := f.searcher.Search(ctx, f.query, snap, func(doc model.DocID, _ float32) {
		bits.Set(uint(doc))
	})
	if err != nil {
		return nil, err
	}

	f.mu.Lock()
	f.cache[snap] = bits
	f.mu.Unlock()

	f.logger.DebugContext(ctx, "query filter computed",
		"query", f.query.String(),
		"max_doc", snap.MaxDoc(),
		"matches", bits.Count(),
		"duration", time.Since(start),
	)

	return bits, nil
}

// CacheLen returns the number of cached snapshots.
func (f *QueryFilter) CacheLen() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.cache)
}

// Equal reports whether other is a QueryFilter over an equal query.
func (f *QueryFilter) Equal(other Filter) bool {
	o, ok := other.(*QueryFilter)
	if !ok {
		return false
	}
	return f.query.Equal(o.query)
}

// Hash returns a hash consistent with Equal.
func (f *QueryFilter) Hash() uint64 {
	return f.query.Hash() ^ queryFilterHashSalt
}

// String implements fmt.Stringer.
func (f *QueryFilter) String() string {
	return fmt.Sprintf("QueryFilter(%s)", f.query)
}

// BitsetSize returns the bitset length covering maxDoc documents,
// rounded up to a multiple of 64.
func BitsetSize(maxDoc uint32) uint {
	return (uint(maxDoc) + 63) / 64 * 64
}

// ToRoaring converts a membership bitset to a compressed roaring bitmap.
func ToRoaring(bits *bitset.BitSet) *roaring.Bitmap {
	rb := roaring.New()
	for i, ok := bits.NextSet(0); ok; i, ok = bits.NextSet(i + 1) {
		rb.Add(uint32(i))
	}
	return rb
}
