// Package lexgo provides an embedded full-text search database for Go.
//
// Documents are sets of named text fields identified by a primary key. They
// are scored with BM25 and matched across fields with a disjunction max
// query, so a document is ranked by its best field with a configurable bonus
// for matches in the others.
//
// # Quick Start
//
//	ctx := context.Background()
//	db, _ := lexgo.Open(ctx, blobstore.NewLocalStore("./data"))
//	defer db.Close()
//
//	_ = db.Add(ctx, model.Document{PK: 1, Fields: map[string]string{
//	    "title": "Go in practice",
//	    "body":  "idiomatic go programs",
//	}})
//	_ = db.Refresh()
//
//	hits, _ := db.Search(ctx, lexgo.SearchRequest{
//	    Text:       "go programs",
//	    Fields:     []string{"title", "body"},
//	    K:          10,
//	    TieBreaker: 0.1,
//	})
//
// # Visibility and Durability
//
// Add and Delete change the in-memory index only. Searches see a published
// snapshot, which Refresh replaces with the current state. Commit refreshes
// and persists the snapshot as a segment plus a versioned manifest:
//
//	db.Add(ctx, doc)  // buffered
//	db.Refresh()      // searchable
//	db.Commit(ctx)    // durable
//
// # Filters
//
// A filter built with NewFilter caches its matches per snapshot. Reusing one
// filter across many searches of the same snapshot only runs its query once:
//
//	recent := db.NewFilter(bm25.NewTermQuery("tag", "recent"))
//	hits, _ := db.Search(ctx, lexgo.SearchRequest{Text: "go", K: 10, Filter: recent})
//
// # Storage
//
// Any blobstore.BlobStore works: memory, local disk (mmap reads), S3
// (optionally with DynamoDB commits) or MinIO.
package lexgo
