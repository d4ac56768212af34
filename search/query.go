package search

import (
	"context"

	"github.com/hupe1980/lexgo/model"
)

// Snapshot is an immutable view of a document collection at a point in time.
//
// Snapshots are compared by identity: caches such as QueryFilter key on the
// interface value, so implementations should be pointer types.
type Snapshot interface {
	// MaxDoc returns one greater than the largest DocID in the snapshot.
	MaxDoc() uint32
	// IsDeleted reports whether doc was deleted before the snapshot was taken.
	IsDeleted(doc model.DocID) bool
}

// Query describes a set of matching documents and how to score them.
type Query interface {
	// Scorer returns a scorer over the matches of the query in snap.
	// A nil Scorer with a nil error means nothing in snap can match.
	Scorer(ctx context.Context, snap Snapshot) (Scorer, error)
	// Equal reports whether other describes the same query.
	Equal(other Query) bool
	// Hash returns a hash consistent with Equal.
	Hash() uint64
	// String renders the query for diagnostics.
	String() string
}

// Collector receives one call per matching document.
type Collector func(doc model.DocID, score float32)
