package lexical

import (
	"github.com/hupe1980/lexgo/model"
	"github.com/hupe1980/lexgo/search"
)

// Index is the interface for a mutable lexical search index.
type Index interface {
	// Add indexes a document. Adding an existing primary key replaces it.
	Add(doc model.Document) error
	// Delete removes a document. Deleting an unknown key is a no-op.
	Delete(pk model.PrimaryKey) error
	// Len returns the number of live documents.
	Len() int
	// Close releases the index.
	Close() error
}

// Snapshot is an immutable, searchable view of an Index.
type Snapshot interface {
	search.Snapshot
	// PK resolves a snapshot-local document number to its primary key.
	PK(doc model.DocID) (model.PrimaryKey, bool)
	// NumDocs returns the number of live documents.
	NumDocs() int
}
