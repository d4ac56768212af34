package bm25

import (
	"context"
	"testing"

	"github.com/hupe1980/lexgo/model"
	"github.com/hupe1980/lexgo/search"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type foreignSnapshot struct{}

func (foreignSnapshot) MaxDoc() uint32                 { return 0 }
func (foreignSnapshot) IsDeleted(doc model.DocID) bool { return false }

func TestTermQuery_Scorer(t *testing.T) {
	ctx := context.Background()
	seg := foxIndex(t).Snapshot()

	t.Run("Postings", func(t *testing.T) {
		s, err := NewTermQuery("text", "Dog").Scorer(ctx, seg)
		require.NoError(t, err)
		require.NotNil(t, s)

		var docs []model.DocID
		for s.Next() {
			docs = append(docs, s.Doc())
			assert.Greater(t, s.Score(), float32(0))
		}
		assert.Equal(t, []model.DocID{1, 3}, docs)
		assert.False(t, s.Next())
	})

	t.Run("SkipTo", func(t *testing.T) {
		s, err := NewTermQuery("text", "the").Scorer(ctx, seg)
		require.NoError(t, err)

		require.True(t, s.SkipTo(1))
		assert.Equal(t, model.DocID(1), s.Doc())
		assert.False(t, s.SkipTo(2))
	})

	t.Run("Missing", func(t *testing.T) {
		s, err := NewTermQuery("text", "cat").Scorer(ctx, seg)
		require.NoError(t, err)
		assert.Nil(t, s)

		s, err = NewTermQuery("title", "fox").Scorer(ctx, seg)
		require.NoError(t, err)
		assert.Nil(t, s)
	})

	t.Run("ForeignSnapshot", func(t *testing.T) {
		_, err := NewTermQuery("text", "fox").Scorer(ctx, foreignSnapshot{})
		assert.ErrorIs(t, err, search.ErrUnsupported)
	})

	t.Run("Boost", func(t *testing.T) {
		plain, err := NewTermQuery("text", "fox").Scorer(ctx, seg)
		require.NoError(t, err)
		boosted, err := (&TermQuery{Field: "text", Term: "fox", Boost: 2}).Scorer(ctx, seg)
		require.NoError(t, err)

		require.True(t, plain.Next())
		require.True(t, boosted.Next())
		assert.InDelta(t, 2*plain.Score(), boosted.Score(), 1e-6)
	})
}

func TestTermQuery_Identity(t *testing.T) {
	a := NewTermQuery("title", "Go")
	b := &TermQuery{Field: "title", Term: "go"}
	c := &TermQuery{Field: "title", Term: "go", Boost: 3}

	assert.True(t, a.Equal(b))
	assert.Equal(t, a.Hash(), b.Hash())
	assert.False(t, a.Equal(c))
	assert.NotEqual(t, a.Hash(), c.Hash())
	assert.False(t, a.Equal(NewTermQuery("body", "go")))

	assert.Equal(t, "title:go", a.String())
	assert.Equal(t, "title:go^3", c.String())
}

func TestMultiFieldQuery(t *testing.T) {
	q := MultiFieldQuery("Quick quick fox", []string{"title", "body"}, 0.2)

	assert.Equal(t, float32(0.2), q.TieBreaker)
	require.Len(t, q.Disjuncts, 4)
	assert.Equal(t, "(title:quick | body:quick | title:fox | body:fox)~0.2", q.String())

	empty := MultiFieldQuery("   ", []string{"title"}, 0)
	assert.Empty(t, empty.Disjuncts)

	s, err := empty.Scorer(context.Background(), New().Snapshot())
	require.NoError(t, err)
	assert.Nil(t, s)
}

func TestMultiFieldQuery_WithFilter(t *testing.T) {
	ctx := context.Background()
	seg := foxIndex(t).Snapshot()
	searcher := search.NewIndexSearcher()

	filter := search.NewQueryFilter(NewTermQuery("text", "quick"), searcher)
	top, total, err := searcher.TopK(ctx, MultiFieldQuery("fox dog", []string{"text"}, 0.1), seg, filter, 10)
	require.NoError(t, err)

	// Only doc 0 ("the quick brown fox") matches both query and filter.
	assert.Equal(t, 1, total)
	require.Len(t, top, 1)
	pk, ok := seg.PK(top[0].Doc)
	require.True(t, ok)
	assert.Equal(t, model.PrimaryKey(1), pk)
}
