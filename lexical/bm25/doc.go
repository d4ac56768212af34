// Package bm25 provides a BM25-based lexical search index.
//
// BM25 (Best Matching 25) is a ranking function used for keyword search.
// MemoryIndex is a mutable, multi-field inverted index. Snapshot publishes an
// immutable Segment that implements search.Snapshot, and TermQuery scores a
// single term of a single field against it.
//
// # Usage
//
//	idx := bm25.New()
//	_ = idx.Add(model.Document{PK: 1, Fields: map[string]string{
//	    "title": "albino elephant",
//	    "body":  "a pale elephant",
//	}})
//
//	seg := idx.Snapshot()
//	q := bm25.MultiFieldQuery("elephant", []string{"title", "body"}, 0.1)
//	top, _, _ := search.NewIndexSearcher().TopK(ctx, q, seg, nil, 10)
//
// # Parameters
//
// Uses standard BM25 parameters: k1=1.2, b=0.75
//
// # Persistence
//
// Segment.Marshal encodes a segment with optional LZ4 or ZSTD compression;
// UnmarshalSegment restores it and NewFromSegment resumes indexing on top.
//
// # Thread Safety
//
// MemoryIndex is safe for concurrent reads and writes. Segments are immutable.
package bm25
