// Package lexical defines the interface for lexical (keyword) search indexes.
//
// A lexical index accepts documents made of named text fields and publishes
// immutable snapshots that the search package can score against.
//
// # Built-in Implementation
//
// The bm25 subpackage provides a BM25-based lexical index:
//
//	import "github.com/hupe1980/lexgo/lexical/bm25"
//
//	idx := bm25.New()
//	_ = idx.Add(model.NewDocument(1, "title", "quick brown fox"))
//	snap := idx.Snapshot()
//
//	q := bm25.MultiFieldQuery("brown fox", []string{"title", "body"}, 0.1)
//	top, total, _ := search.NewIndexSearcher().TopK(ctx, q, snap, nil, 10)
//
// # Custom Implementations
//
// Implement the Index interface for custom lexical indexes:
//
//	type Index interface {
//	    Add(doc model.Document) error
//	    Delete(pk model.PrimaryKey) error
//	    Len() int
//	    Close() error
//	}
package lexical
