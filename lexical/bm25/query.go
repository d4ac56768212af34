package bm25

import (
	"context"
	"encoding/binary"
	"fmt"
	"math"

	"github.com/cespare/xxhash/v2"
	"github.com/hupe1980/lexgo/search"
)

// TermQuery matches documents whose Field contains Term.
type TermQuery struct {
	Field string
	Term  string
	// Boost multiplies every score. Zero means 1.
	Boost float32
}

// NewTermQuery creates a TermQuery with boost 1.
// term is matched after the same normalization Add applies.
func NewTermQuery(field, term string) *TermQuery {
	return &TermQuery{Field: field, Term: normalizeTerm(term), Boost: 1}
}

// Ensure TermQuery implements search.Query.
var _ search.Query = (*TermQuery)(nil)

func (q *TermQuery) boost() float32 {
	if q.Boost == 0 {
		return 1
	}
	return q.Boost
}

// Scorer implements search.Query. snap must be a *Segment.
func (q *TermQuery) Scorer(_ context.Context, snap search.Snapshot) (search.Scorer, error) {
	seg, ok := snap.(*Segment)
	if !ok {
		return nil, fmt.Errorf("%w: term query cannot score %T", search.ErrUnsupported, snap)
	}
	s := seg.termScorer(q.Field, q.Term, q.boost())
	if s == nil {
		return nil, nil
	}
	return s, nil
}

// Equal implements search.Query.
func (q *TermQuery) Equal(other search.Query) bool {
	o, ok := other.(*TermQuery)
	if !ok {
		return false
	}
	return q.Field == o.Field && q.Term == o.Term && q.boost() == o.boost()
}

// Hash implements search.Query.
func (q *TermQuery) Hash() uint64 {
	d := xxhash.New()
	_, _ = d.WriteString("term\x00")
	_, _ = d.WriteString(q.Field)
	_, _ = d.WriteString("\x00")
	_, _ = d.WriteString(q.Term)
	var buf [4]byte
	binary.LittleEndian.PutUint32(buf[:], math.Float32bits(q.boost()))
	_, _ = d.Write(buf[:])
	return d.Sum64()
}

// String implements search.Query.
func (q *TermQuery) String() string {
	if q.boost() != 1 {
		return fmt.Sprintf("%s:%s^%g", q.Field, q.Term, q.boost())
	}
	return q.Field + ":" + q.Term
}

// MultiFieldQuery searches every token of text in every field and keeps the
// best match per document, with tieBreaker weighting the remaining ones.
//
// Repeated tokens are searched once. The result is a *search.DisMaxQuery
// with one TermQuery per field and token.
func MultiFieldQuery(text string, fields []string, tieBreaker float32) *search.DisMaxQuery {
	q := search.NewDisMaxQuery(tieBreaker)

	seen := make(map[string]struct{})
	for _, tok := range Tokenize(text) {
		if _, dup := seen[tok]; dup {
			continue
		}
		seen[tok] = struct{}{}
		for _, field := range fields {
			q.Add(&TermQuery{Field: field, Term: tok, Boost: 1})
		}
	}
	return q
}

func normalizeTerm(term string) string {
	tokens := Tokenize(term)
	if len(tokens) == 0 {
		return ""
	}
	return tokens[0]
}
