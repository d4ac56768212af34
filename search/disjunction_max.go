package search

import (
	"fmt"

	"github.com/hupe1980/lexgo/model"
)

// DisjunctionMaxScorer generates the union of the documents of its sub-scorers
// in DocID order.
//
// The score of a document is the maximum of the scores of the sub-scorers that
// generate it, plus tieBreaker times the sum of the other sub-scores.
//
// Sub-scorers that still have documents are kept as a binary min heap keyed by
// their current document. Score walks the heap structurally, so its shape
// must hold between calls.
//
// A DisjunctionMaxScorer owns its sub-scorers once added and is not safe for
// concurrent use.
type DisjunctionMaxScorer struct {
	subScorers []Scorer
	tieBreaker float32

	more       bool // true iff there may be a next document
	started    bool // true once Next or SkipTo was called
	positioned bool // true once Next or SkipTo returned true
}

// NewDisjunctionMaxScorer creates an empty scorer.
// tieBreaker is applied to every non-maximum sub-score of a document.
func NewDisjunctionMaxScorer(tieBreaker float32) *DisjunctionMaxScorer {
	return &DisjunctionMaxScorer{
		tieBreaker: tieBreaker,
	}
}

// Ensure DisjunctionMaxScorer implements Scorer.
var _ Scorer = (*DisjunctionMaxScorer)(nil)

// Add adds the scorer of a sub-query.
//
// The scorer is advanced once and retained only if it produces a document.
// Add must not be called after Next or SkipTo.
func (d *DisjunctionMaxScorer) Add(s Scorer) error {
	if d.started {
		return fmt.Errorf("%w: add after enumeration started", ErrPrecondition)
	}
	if s.Next() {
		d.subScorers = append(d.subScorers, s)
		d.more = true
	}
	return nil
}

// Len returns the number of sub-scorers that are not exhausted.
func (d *DisjunctionMaxScorer) Len() int {
	return len(d.subScorers)
}

// TieBreaker returns the configured tie breaker multiplier.
func (d *DisjunctionMaxScorer) TieBreaker() float32 {
	return d.tieBreaker
}

// Next generates the next document of the union.
func (d *DisjunctionMaxScorer) Next() bool {
	if !d.more {
		d.started = true
		return false
	}

	if !d.started {
		// The positions established by Add are the first result.
		d.heapify()
		d.started = true
		d.positioned = true
		return true
	}

	// Advance every sub-scorer that generated the last document.
	lastDoc := d.subScorers[0].Doc()
	for {
		if d.subScorers[0].Next() {
			d.siftDown(0)
		} else {
			d.removeRoot()
			if len(d.subScorers) == 0 {
				d.more = false
				return false
			}
		}
		if d.subScorers[0].Doc() != lastDoc {
			return true
		}
	}
}

// Doc returns the current document.
// Panics with ErrPrecondition if the scorer is not positioned.
func (d *DisjunctionMaxScorer) Doc() model.DocID {
	d.mustBePositioned("Doc")
	return d.subScorers[0].Doc()
}

// Score returns the combined score of the current document.
// Panics with ErrPrecondition if the scorer is not positioned.
func (d *DisjunctionMaxScorer) Score() float32 {
	d.mustBePositioned("Score")

	doc := d.subScorers[0].Doc()
	sum := d.subScorers[0].Score()
	maxScore := sum

	d.scoreAll(1, doc, &sum, &maxScore)
	d.scoreAll(2, doc, &sum, &maxScore)

	return maxScore + (sum-maxScore)*d.tieBreaker
}

// scoreAll accumulates the scores of all sub-scorers in the subtree at root
// that are positioned on doc. A node on another document cuts off its whole
// subtree: by the heap property everything below it is on a later document.
func (d *DisjunctionMaxScorer) scoreAll(root int, doc model.DocID, sum, maxScore *float32) {
	if root >= len(d.subScorers) || d.subScorers[root].Doc() != doc {
		return
	}

	sub := d.subScorers[root].Score()
	*sum += sub
	if sub > *maxScore {
		*maxScore = sub
	}

	d.scoreAll(2*root+1, doc, sum, maxScore)
	d.scoreAll(2*root+2, doc, sum, maxScore)
}

// SkipTo advances to the first document of the union >= target.
// A target at or before the current document leaves the scorer unchanged.
func (d *DisjunctionMaxScorer) SkipTo(target model.DocID) bool {
	if !d.started {
		d.heapify()
		d.started = true
	}

	for len(d.subScorers) > 0 && d.subScorers[0].Doc() < target {
		if d.subScorers[0].SkipTo(target) {
			d.siftDown(0)
		} else {
			d.removeRoot()
		}
	}

	if len(d.subScorers) == 0 {
		d.more = false
		return false
	}

	d.positioned = true
	return true
}

// Explain is not supported. Explanations belong to the originating query.
func (d *DisjunctionMaxScorer) Explain(doc model.DocID) (*Explanation, error) {
	return nil, fmt.Errorf("%w: disjunction max scorer cannot explain doc %d", ErrUnsupported, doc)
}

func (d *DisjunctionMaxScorer) mustBePositioned(op string) {
	if !d.positioned || len(d.subScorers) == 0 {
		panic(fmt.Errorf("%w: %s called on unpositioned disjunction max scorer", ErrPrecondition, op))
	}
}

// heapify organizes subScorers into a min heap with the scorer on the
// earliest document at the root.
func (d *DisjunctionMaxScorer) heapify() {
	for i := len(d.subScorers)/2 - 1; i >= 0; i-- {
		d.siftDown(i)
	}
}

// siftDown restores the heap below root, assuming only root may be out of place.
// Current documents only ever grow, so sifting up is never needed.
func (d *DisjunctionMaxScorer) siftDown(root int) {
	scorer := d.subScorers[root]
	doc := scorer.Doc()
	size := len(d.subScorers)

	i := root
	for i <= size/2-1 {
		lchild := 2*i + 1
		lscorer := d.subScorers[lchild]
		ldoc := lscorer.Doc()

		// A missing right child sorts after everything.
		rchild := 2*i + 2
		var rscorer Scorer
		hasRight := rchild < size
		var rdoc model.DocID
		if hasRight {
			rscorer = d.subScorers[rchild]
			rdoc = rscorer.Doc()
		}

		switch {
		case ldoc < doc:
			if hasRight && rdoc < ldoc {
				d.subScorers[i] = rscorer
				d.subScorers[rchild] = scorer
				i = rchild
			} else {
				d.subScorers[i] = lscorer
				d.subScorers[lchild] = scorer
				i = lchild
			}
		case hasRight && rdoc < doc:
			d.subScorers[i] = rscorer
			d.subScorers[rchild] = scorer
			i = rchild
		default:
			return
		}
	}
}

// removeRoot discards the exhausted root scorer and re-establishes the heap.
func (d *DisjunctionMaxScorer) removeRoot() {
	last := len(d.subScorers) - 1
	if last == 0 {
		d.subScorers[0] = nil
		d.subScorers = d.subScorers[:0]
		return
	}
	d.subScorers[0] = d.subScorers[last]
	d.subScorers[last] = nil
	d.subScorers = d.subScorers[:last]
	d.siftDown(0)
}
