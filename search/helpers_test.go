package search

import (
	"context"
	"errors"
	"sort"
	"sync/atomic"

	"github.com/cespare/xxhash/v2"
	"github.com/hupe1980/lexgo/model"
)

// sliceScorer replays a fixed posting list.
type sliceScorer struct {
	docs   []model.DocID
	scores []float32
	i      int
}

func newSliceScorer(postings map[model.DocID]float32) *sliceScorer {
	s := &sliceScorer{i: -1}
	for doc := range postings {
		s.docs = append(s.docs, doc)
	}
	sort.Slice(s.docs, func(a, b int) bool { return s.docs[a] < s.docs[b] })
	for _, doc := range s.docs {
		s.scores = append(s.scores, postings[doc])
	}
	return s
}

func (s *sliceScorer) Next() bool {
	s.i++
	return s.i < len(s.docs)
}

func (s *sliceScorer) SkipTo(target model.DocID) bool {
	for {
		if !s.Next() {
			return false
		}
		if s.docs[s.i] >= target {
			return true
		}
	}
}

func (s *sliceScorer) Doc() model.DocID {
	return s.docs[s.i]
}

func (s *sliceScorer) Score() float32 {
	return s.scores[s.i]
}

// stubQuery matches a fixed posting list in every snapshot.
type stubQuery struct {
	name     string
	postings map[model.DocID]float32
}

func (q *stubQuery) Scorer(_ context.Context, _ Snapshot) (Scorer, error) {
	if len(q.postings) == 0 {
		return nil, nil
	}
	return newSliceScorer(q.postings), nil
}

func (q *stubQuery) Equal(other Query) bool {
	o, ok := other.(*stubQuery)
	return ok && o.name == q.name
}

func (q *stubQuery) Hash() uint64 {
	return xxhash.Sum64String(q.name)
}

func (q *stubQuery) String() string {
	return q.name
}

// memSnapshot is a trivial Snapshot.
type memSnapshot struct {
	maxDoc  uint32
	deleted map[model.DocID]bool
}

func (s *memSnapshot) MaxDoc() uint32 {
	return s.maxDoc
}

func (s *memSnapshot) IsDeleted(doc model.DocID) bool {
	return s.deleted[doc]
}

// countingSearcher counts how often the pipeline runs.
type countingSearcher struct {
	inner Searcher
	calls atomic.Int64
}

func (s *countingSearcher) Search(ctx context.Context, q Query, snap Snapshot, collect Collector) error {
	s.calls.Add(1)
	return s.inner.Search(ctx, q, snap, collect)
}

var errSnapshotUnavailable = errors.New("snapshot unavailable")

// flakySearcher reports some matches and then fails the first n runs.
type flakySearcher struct {
	failures atomic.Int64
}

func (s *flakySearcher) Search(ctx context.Context, q Query, snap Snapshot, collect Collector) error {
	if s.failures.Add(-1) >= 0 {
		collect(1, 1)
		return errSnapshotUnavailable
	}
	return NewIndexSearcher().Search(ctx, q, snap, collect)
}

func recoverError(fn func()) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err, _ = r.(error)
		}
	}()
	fn()
	return nil
}
