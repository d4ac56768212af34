package bm25

import (
	"context"
	"math"
	"strings"
	"testing"

	"github.com/hupe1980/lexgo/model"
	"github.com/hupe1980/lexgo/search"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type hit struct {
	pk    model.PrimaryKey
	score float32
}

func searchText(t *testing.T, seg *Segment, text string, fields []string, k int) []hit {
	t.Helper()
	q := MultiFieldQuery(text, fields, 0.1)
	top, _, err := search.NewIndexSearcher().TopK(context.Background(), q, seg, nil, k)
	require.NoError(t, err)

	out := make([]hit, 0, len(top))
	for _, c := range top {
		pk, ok := seg.PK(c.Doc)
		require.True(t, ok, "doc %d must resolve", c.Doc)
		out = append(out, hit{pk: pk, score: c.Score})
	}
	return out
}

func foxIndex(t *testing.T) *MemoryIndex {
	t.Helper()
	idx := New()
	docs := []struct {
		pk   model.PrimaryKey
		text string
	}{
		{1, "the quick brown fox"},
		{2, "jumped over the lazy dog"},
		{3, "quick brown dogs"},
		{4, "fox and dog"},
	}
	for _, d := range docs {
		require.NoError(t, idx.Add(model.NewDocument(d.pk, "text", d.text)))
	}
	return idx
}

func TestMemoryIndex_Basic(t *testing.T) {
	idx := foxIndex(t)
	assert.Equal(t, 4, idx.Len())

	res := searchText(t, idx.Snapshot(), "fox", []string{"text"}, 10)
	require.Len(t, res, 2)

	// Equal tf and df, so the shorter document wins.
	assert.Equal(t, model.PrimaryKey(4), res[0].pk)
	assert.Equal(t, model.PrimaryKey(1), res[1].pk)

	idf := math.Log(2) // N=4, n=2
	avgDL := 15.0 / 4
	want := func(docLen float64) float64 {
		return idf * 2.2 / (1 + 1.2*(0.25+0.75*docLen/avgDL))
	}
	assert.InDelta(t, want(3), res[0].score, 1e-5)
	assert.InDelta(t, want(4), res[1].score, 1e-5)
}

func TestMemoryIndex_Delete(t *testing.T) {
	idx := New()
	require.NoError(t, idx.Add(model.NewDocument(1, "body", "test content")))
	require.NoError(t, idx.Add(model.NewDocument(2, "body", "other content")))

	res := searchText(t, idx.Snapshot(), "test", []string{"body"}, 10)
	assert.Len(t, res, 1)

	require.NoError(t, idx.Delete(1))
	assert.Equal(t, 1, idx.Len())

	seg := idx.Snapshot()
	assert.Empty(t, searchText(t, seg, "test", []string{"body"}, 10))
	assert.Equal(t, 1, seg.NumDeleted())
	assert.Equal(t, uint32(2), seg.MaxDoc())

	// Add back
	require.NoError(t, idx.Add(model.NewDocument(1, "body", "test content again")))
	res = searchText(t, idx.Snapshot(), "test", []string{"body"}, 10)
	require.Len(t, res, 1)
	assert.Equal(t, model.PrimaryKey(1), res[0].pk)

	// Unknown keys are ignored.
	require.NoError(t, idx.Delete(42))
}

func TestMemoryIndex_Replace(t *testing.T) {
	idx := New()
	require.NoError(t, idx.Add(model.NewDocument(7, "title", "red apple")))
	require.NoError(t, idx.Add(model.NewDocument(7, "title", "green pear")))
	assert.Equal(t, 1, idx.Len())

	seg := idx.Snapshot()
	assert.Empty(t, searchText(t, seg, "apple", []string{"title"}, 10))
	res := searchText(t, seg, "pear", []string{"title"}, 10)
	require.Len(t, res, 1)
	assert.Equal(t, model.PrimaryKey(7), res[0].pk)

	_, ok := seg.PK(0)
	assert.False(t, ok, "replaced doc must not resolve")
}

func TestMemoryIndex_SnapshotIdentity(t *testing.T) {
	idx := foxIndex(t)

	first := idx.Snapshot()
	assert.Same(t, first, idx.Snapshot())

	require.NoError(t, idx.Add(model.NewDocument(5, "text", "another fox")))
	second := idx.Snapshot()
	assert.NotSame(t, first, second)
	assert.NotEqual(t, first.ID(), second.ID())

	// The older snapshot does not observe later writes.
	assert.Equal(t, uint32(4), first.MaxDoc())
	assert.Len(t, searchText(t, first, "fox", []string{"text"}, 10), 2)
	assert.Len(t, searchText(t, second, "fox", []string{"text"}, 10), 3)

	require.NoError(t, idx.Delete(5))
	assert.False(t, first.IsDeleted(4))
}

func TestMemoryIndex_MultiField(t *testing.T) {
	idx := New()
	require.NoError(t, idx.Add(model.Document{PK: 1, Fields: map[string]string{
		"title": "albino elephant",
		"body":  "a large grey animal",
	}}))
	require.NoError(t, idx.Add(model.Document{PK: 2, Fields: map[string]string{
		"title": "animal facts",
		"body":  "the albino elephant is rare",
	}}))
	require.NoError(t, idx.Add(model.NewDocument(3, "body", "elephant")))

	seg := idx.Snapshot()
	assert.Equal(t, []string{"body", "title"}, seg.Fields())
	assert.Equal(t, 2, seg.DocFreq("body", "elephant"))
	assert.Equal(t, 0, seg.DocFreq("missing", "elephant"))

	res := searchText(t, seg, "albino elephant", []string{"title", "body"}, 10)
	require.Len(t, res, 3)

	pks := []model.PrimaryKey{res[0].pk, res[1].pk, res[2].pk}
	assert.ElementsMatch(t, []model.PrimaryKey{1, 2, 3}, pks)
	// Doc 3 only holds the common term.
	assert.Equal(t, model.PrimaryKey(3), res[2].pk)
}

func TestMemoryIndex_TypeOverflow(t *testing.T) {
	idx := New()

	// Create a document with many repetitions
	var sb strings.Builder
	for i := 0; i < 300; i++ {
		sb.WriteString("word ")
	}
	require.NoError(t, idx.Add(model.NewDocument(1, "text", sb.String())))

	res := searchText(t, idx.Snapshot(), "word", []string{"text"}, 1)
	require.Len(t, res, 1)
	assert.True(t, res[0].score > 0)
}

func TestNewFromSegment(t *testing.T) {
	seg := foxIndex(t).Snapshot()

	idx := NewFromSegment(seg)
	assert.Same(t, seg, idx.Snapshot())
	assert.Equal(t, 4, idx.Len())

	require.NoError(t, idx.Delete(4))
	require.NoError(t, idx.Add(model.NewDocument(9, "text", "fox fox fox")))

	next := idx.Snapshot()
	res := searchText(t, next, "fox", []string{"text"}, 10)
	require.Len(t, res, 2)
	assert.Equal(t, model.PrimaryKey(9), res[0].pk)
	assert.Equal(t, model.PrimaryKey(1), res[1].pk)

	// The source segment is unchanged.
	assert.Equal(t, 0, seg.NumDeleted())
	assert.Equal(t, uint32(4), seg.MaxDoc())
}
