package bm25

import (
	"sort"

	"github.com/hupe1980/lexgo/model"
	"github.com/hupe1980/lexgo/search"
)

// termScorer iterates over the posting list of one term and scores each
// document with BM25.
type termScorer struct {
	postings []posting
	idx      int
	weight   float64 // idf times query boost

	field *fieldIndex
	avgDL float64
}

// Ensure termScorer implements search.Scorer.
var _ search.Scorer = (*termScorer)(nil)

func newTermScorer(postings []posting, field *fieldIndex, weight float64) *termScorer {
	return &termScorer{
		postings: postings,
		idx:      -1,
		weight:   weight,
		field:    field,
		avgDL:    field.avgLength(),
	}
}

func (it *termScorer) Next() bool {
	if it.idx < len(it.postings) {
		it.idx++
	}
	return it.idx < len(it.postings)
}

// SkipTo moves to the first posting after the current one with doc >= target.
func (it *termScorer) SkipTo(target model.DocID) bool {
	start := it.idx + 1
	if start >= len(it.postings) {
		it.idx = len(it.postings)
		return false
	}
	rest := it.postings[start:]
	it.idx = start + sort.Search(len(rest), func(i int) bool {
		return rest[i].doc >= target
	})
	return it.idx < len(it.postings)
}

func (it *termScorer) Doc() model.DocID {
	return it.postings[it.idx].doc
}

func (it *termScorer) Score() float32 {
	p := it.postings[it.idx]
	tf := float64(p.freq)
	docLen := float64(it.field.length(p.doc))

	norm := 1.0
	if it.avgDL > 0 {
		norm = 1 - b + b*(docLen/it.avgDL)
	}
	return float32(it.weight * (tf * (k1 + 1)) / (tf + k1*norm))
}
