package search

import (
	"github.com/hupe1980/lexgo/model"
)

// TopDocs collects the k best-scoring documents.
//
// Candidates are kept in a bounded min heap whose root is the worst candidate
// retained so far. Among equal scores the lower DocID wins.
type TopDocs struct {
	k     int
	h     candidateHeap
	total int
}

// NewTopDocs creates a collector retaining at most k candidates.
func NewTopDocs(k int) *TopDocs {
	return &TopDocs{
		k: k,
		h: make(candidateHeap, 0, k),
	}
}

// Collect adds a match. It has the Collector signature.
func (t *TopDocs) Collect(doc model.DocID, score float32) {
	t.total++
	if t.k <= 0 {
		return
	}

	c := model.Candidate{Doc: doc, Score: score}
	if len(t.h) < t.k {
		t.h.push(c)
		return
	}
	if worse(t.h[0], c) {
		t.h[0] = c
		t.h.down(0, len(t.h))
	}
}

// Total returns the number of matches seen, including those not retained.
func (t *TopDocs) Total() int {
	return t.total
}

// Results drains the collector and returns the candidates best first.
func (t *TopDocs) Results() []model.Candidate {
	out := make([]model.Candidate, len(t.h))
	for i := len(t.h) - 1; i >= 0; i-- {
		out[i] = t.h.pop()
	}
	return out
}

// worse reports whether a ranks below b.
func worse(a, b model.Candidate) bool {
	if a.Score != b.Score {
		return a.Score < b.Score
	}
	return a.Doc > b.Doc
}

// candidateHeap is a min heap of candidates ordered by worse.
type candidateHeap []model.Candidate

func (h *candidateHeap) push(c model.Candidate) {
	*h = append(*h, c)
	h.up(len(*h) - 1)
}

func (h *candidateHeap) pop() model.Candidate {
	old := *h
	n := len(old) - 1
	top := old[0]
	old[0] = old[n]
	*h = old[:n]
	if n > 0 {
		h.down(0, n)
	}
	return top
}

func (h candidateHeap) up(j int) {
	for {
		i := (j - 1) / 2 // parent
		if i == j || !worse(h[j], h[i]) {
			break
		}
		h[i], h[j] = h[j], h[i]
		j = i
	}
}

func (h candidateHeap) down(i0, n int) {
	i := i0
	for {
		j1 := 2*i + 1
		if j1 >= n || j1 < 0 {
			break
		}
		j := j1 // left child
		if j2 := j1 + 1; j2 < n && worse(h[j2], h[j1]) {
			j = j2
		}
		if !worse(h[j], h[i]) {
			break
		}
		h[i], h[j] = h[j], h[i]
		i = j
	}
}
