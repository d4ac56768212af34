package search

import (
	"context"
	"encoding/binary"
	"fmt"
	"math"
	"strings"

	"github.com/cespare/xxhash/v2"
)

// DisMaxQuery matches the union of its disjuncts and scores each document
// with a DisjunctionMaxScorer.
//
// It is useful to search a term across several fields, where the best field
// should dominate the score instead of the sum of all fields.
type DisMaxQuery struct {
	Disjuncts  []Query
	TieBreaker float32
}

// NewDisMaxQuery creates a DisMaxQuery over the given disjuncts.
func NewDisMaxQuery(tieBreaker float32, disjuncts ...Query) *DisMaxQuery {
	return &DisMaxQuery{
		Disjuncts:  disjuncts,
		TieBreaker: tieBreaker,
	}
}

// Add appends a disjunct.
func (q *DisMaxQuery) Add(sub Query) {
	q.Disjuncts = append(q.Disjuncts, sub)
}

// Scorer implements Query.
func (q *DisMaxQuery) Scorer(ctx context.Context, snap Snapshot) (Scorer, error) {
	dm := NewDisjunctionMaxScorer(q.TieBreaker)
	for _, sub := range q.Disjuncts {
		s, err := sub.Scorer(ctx, snap)
		if err != nil {
			return nil, err
		}
		if s == nil {
			continue
		}
		if err := dm.Add(s); err != nil {
			return nil, err
		}
	}
	if dm.Len() == 0 {
		return nil, nil
	}
	return dm, nil
}

// Equal implements Query.
func (q *DisMaxQuery) Equal(other Query) bool {
	o, ok := other.(*DisMaxQuery)
	if !ok {
		return false
	}
	if q.TieBreaker != o.TieBreaker || len(q.Disjuncts) != len(o.Disjuncts) {
		return false
	}
	for i := range q.Disjuncts {
		if !q.Disjuncts[i].Equal(o.Disjuncts[i]) {
			return false
		}
	}
	return true
}

// Hash implements Query.
func (q *DisMaxQuery) Hash() uint64 {
	buf := make([]byte, 0, 8*(len(q.Disjuncts)+1)+6)
	buf = append(buf, "dismax"...)
	buf = binary.LittleEndian.AppendUint64(buf, uint64(math.Float32bits(q.TieBreaker)))
	for _, sub := range q.Disjuncts {
		buf = binary.LittleEndian.AppendUint64(buf, sub.Hash())
	}
	return xxhash.Sum64(buf)
}

// String implements Query.
func (q *DisMaxQuery) String() string {
	parts := make([]string, len(q.Disjuncts))
	for i, sub := range q.Disjuncts {
		parts[i] = sub.String()
	}
	s := "(" + strings.Join(parts, " | ") + ")"
	if q.TieBreaker != 0 {
		s += fmt.Sprintf("~%g", q.TieBreaker)
	}
	return s
}
