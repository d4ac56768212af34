package model

import (
	"fmt"
)

// DocID is a dense, snapshot-local identifier for a document.
// It is only meaningful together with the snapshot that assigned it.
type DocID uint32

// PrimaryKey is the user-facing stable identifier.
type PrimaryKey uint64

// Document is a unit of indexing: a set of named text fields.
type Document struct {
	PK     PrimaryKey
	Fields map[string]string
}

// NewDocument creates a document with a single field.
func NewDocument(pk PrimaryKey, field, text string) Document {
	return Document{PK: pk, Fields: map[string]string{field: text}}
}

// Candidate represents a match found during search.
type Candidate struct {
	// PK is the user-facing primary key.
	// It may be zero if not yet resolved from the snapshot.
	PK PrimaryKey
	// Doc is the snapshot-local document number.
	Doc DocID
	// Score is the relevance score (higher is better).
	Score float32
}

// String returns a string representation of the Candidate.
func (c Candidate) String() string {
	return fmt.Sprintf("Cand(%d:%d %.4f)", c.PK, c.Doc, c.Score)
}
