package search

import (
	"context"
	"testing"

	"github.com/hupe1980/lexgo/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIndexSearcher_Search(t *testing.T) {
	q := &stubQuery{name: "q", postings: map[model.DocID]float32{1: 1, 2: 2, 5: 3}}
	snap := &memSnapshot{maxDoc: 8, deleted: map[model.DocID]bool{2: true}}

	var docs []model.DocID
	err := NewIndexSearcher().Search(context.Background(), q, snap, func(doc model.DocID, _ float32) {
		docs = append(docs, doc)
	})
	require.NoError(t, err)
	assert.Equal(t, []model.DocID{1, 5}, docs)
}

func TestIndexSearcher_NilScorer(t *testing.T) {
	q := &stubQuery{name: "none"}
	called := false
	err := NewIndexSearcher().Search(context.Background(), q, &memSnapshot{maxDoc: 4}, func(model.DocID, float32) {
		called = true
	})
	require.NoError(t, err)
	assert.False(t, called)
}

func TestIndexSearcher_SearchFiltered(t *testing.T) {
	ctx := context.Background()
	s := NewIndexSearcher()
	snap := &memSnapshot{maxDoc: 200}

	q := &stubQuery{name: "q", postings: map[model.DocID]float32{1: 1, 10: 1, 64: 1, 150: 1, 199: 1}}
	f := NewQueryFilter(&stubQuery{name: "f", postings: map[model.DocID]float32{10: 1, 100: 1, 150: 1}}, s)

	var docs []model.DocID
	err := s.SearchFiltered(ctx, q, snap, f, func(doc model.DocID, _ float32) {
		docs = append(docs, doc)
	})
	require.NoError(t, err)
	assert.Equal(t, []model.DocID{10, 150}, docs)
}

func TestIndexSearcher_TopK(t *testing.T) {
	q := NewDisMaxQuery(0.5,
		&stubQuery{name: "a", postings: map[model.DocID]float32{1: 2.0, 3: 1.0, 5: 4.0}},
		&stubQuery{name: "b", postings: map[model.DocID]float32{2: 3.0, 3: 5.0}},
		&stubQuery{name: "c", postings: map[model.DocID]float32{3: 1.0, 4: 2.0}},
	)

	top, total, err := NewIndexSearcher().TopK(context.Background(), q, &memSnapshot{maxDoc: 6}, nil, 3)
	require.NoError(t, err)
	assert.Equal(t, 5, total)
	require.Len(t, top, 3)
	assert.Equal(t, model.DocID(3), top[0].Doc)
	assert.InDelta(t, 6.0, top[0].Score, 1e-6)
	assert.Equal(t, model.DocID(5), top[1].Doc)
	assert.Equal(t, model.DocID(2), top[2].Doc)
}

func TestIndexSearcher_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	q := &stubQuery{name: "q", postings: map[model.DocID]float32{1: 1}}
	err := NewIndexSearcher().Search(ctx, q, &memSnapshot{maxDoc: 2}, func(model.DocID, float32) {})
	assert.ErrorIs(t, err, context.Canceled)
}
