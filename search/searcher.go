package search

import (
	"context"
	"fmt"

	"github.com/bits-and-blooms/bitset"
	"github.com/hupe1980/lexgo/model"
)

// Searcher runs a query against a snapshot and reports every match.
type Searcher interface {
	// Search calls collect once per matching document.
	// The order of calls is unspecified.
	Search(ctx context.Context, q Query, snap Snapshot, collect Collector) error
}

const defaultCheckInterval = 1024

// IndexSearcher is the default Searcher.
// It drives a query's scorer over a snapshot and skips deleted documents.
type IndexSearcher struct {
	checkInterval int
}

// NewIndexSearcher creates a new IndexSearcher.
func NewIndexSearcher() *IndexSearcher {
	return &IndexSearcher{checkInterval: defaultCheckInterval}
}

// Ensure IndexSearcher implements Searcher.
var _ Searcher = (*IndexSearcher)(nil)

// Search implements Searcher.
func (s *IndexSearcher) Search(ctx context.Context, q Query, snap Snapshot, collect Collector) error {
	return s.search(ctx, q, snap, nil, collect)
}

// SearchFiltered is like Search but only reports documents set in the
// filter's bitset for snap.
func (s *IndexSearcher) SearchFiltered(ctx context.Context, q Query, snap Snapshot, f Filter, collect Collector) error {
	if f == nil {
		return s.search(ctx, q, snap, nil, collect)
	}
	bits, err := f.Bits(ctx, snap)
	if err != nil {
		return fmt.Errorf("filter bits: %w", err)
	}
	return s.search(ctx, q, snap, bits, collect)
}

// TopK returns the k best matches, best first, and the total number of matches.
// f may be nil.
func (s *IndexSearcher) TopK(ctx context.Context, q Query, snap Snapshot, f Filter, k int) ([]model.Candidate, int, error) {
	top := NewTopDocs(k)
	if err := s.SearchFiltered(ctx, q, snap, f, top.Collect); err != nil {
		return nil, 0, err
	}
	return top.Results(), top.Total(), nil
}

func (s *IndexSearcher) search(ctx context.Context, q Query, snap Snapshot, bits *bitset.BitSet, collect Collector) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	scorer, err := q.Scorer(ctx, snap)
	if err != nil {
		return fmt.Errorf("scorer for %s: %w", q, err)
	}
	if scorer == nil {
		return nil
	}

	interval := s.checkInterval
	if interval <= 0 {
		interval = defaultCheckInterval
	}

	steps := 0
	ok := scorer.Next()
	for ok {
		steps++
		if steps%interval == 0 {
			if err := ctx.Err(); err != nil {
				return err
			}
		}

		doc := scorer.Doc()
		if bits != nil && !bits.Test(uint(doc)) {
			next, found := bits.NextSet(uint(doc))
			if !found {
				return nil
			}
			ok = scorer.SkipTo(model.DocID(next))
			continue
		}
		if !snap.IsDeleted(doc) {
			collect(doc, scorer.Score())
		}
		ok = scorer.Next()
	}

	return nil
}
