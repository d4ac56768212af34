// Package search implements document-at-a-time query scoring over index snapshots.
//
// # Scorers
//
// A Scorer enumerates the documents matching one query in ascending DocID order:
//
//	for s.Next() {
//	    fmt.Println(s.Doc(), s.Score())
//	}
//
// Enumeration is forward-only. SkipTo jumps to the first document >= target.
//
// # Disjunction Max
//
// DisjunctionMaxScorer unions several sub-scorers. A document matched by several
// of them scores as the best sub-score plus a tie-breaker share of the rest:
//
//	score = max + (sum - max) * tieBreaker
//
// With tieBreaker 0 the score is the plain max; with 1 it is the plain sum.
//
//	dm := search.NewDisjunctionMaxScorer(0.1)
//	_ = dm.Add(titleScorer)
//	_ = dm.Add(bodyScorer)
//	for dm.Next() {
//	    ...
//	}
//
// # Filters
//
// A Filter produces a membership bitset for a snapshot. QueryFilter runs a
// query once per snapshot and memoizes the result:
//
//	f := search.NewQueryFilter(q, search.NewIndexSearcher())
//	bits, err := f.Bits(ctx, snap)
//
// # Thread Safety
//
// Scorers are single-threaded. QueryFilter is safe for concurrent use.
package search
