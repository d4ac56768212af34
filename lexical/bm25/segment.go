package bm25

import (
	"math"
	"slices"

	"github.com/RoaringBitmap/roaring/v2"
	"github.com/google/uuid"
	"github.com/hupe1980/lexgo/lexical"
	"github.com/hupe1980/lexgo/model"
	"github.com/hupe1980/lexgo/search"
)

const (
	k1 = 1.2
	b  = 0.75
)

type posting struct {
	doc  model.DocID
	freq uint32
}

// fieldIndex holds the inverted index of one field.
type fieldIndex struct {
	postings    map[string][]posting // sorted by doc
	lengths     []uint32             // token count per doc; docs past the end have 0
	docCount    uint32               // docs containing the field
	totalLength uint64
}

func (f *fieldIndex) length(doc model.DocID) uint32 {
	if int(doc) >= len(f.lengths) {
		return 0
	}
	return f.lengths[doc]
}

func (f *fieldIndex) avgLength() float64 {
	if f.docCount == 0 {
		return 0
	}
	return float64(f.totalLength) / float64(f.docCount)
}

// Segment is an immutable snapshot of a MemoryIndex.
//
// Deleted documents stay in the postings and are masked by a tombstone
// bitmap, so collection statistics include them until the index is rebuilt.
type Segment struct {
	id         uuid.UUID
	pks        []model.PrimaryKey
	fields     map[string]*fieldIndex
	tombstones *roaring.Bitmap
}

// Ensure Segment implements lexical.Snapshot.
var _ lexical.Snapshot = (*Segment)(nil)

// ID returns the unique segment id.
func (s *Segment) ID() uuid.UUID {
	return s.id
}

// MaxDoc implements search.Snapshot.
func (s *Segment) MaxDoc() uint32 {
	return uint32(len(s.pks))
}

// IsDeleted implements search.Snapshot.
func (s *Segment) IsDeleted(doc model.DocID) bool {
	return s.tombstones.Contains(uint32(doc))
}

// PK implements lexical.Snapshot.
func (s *Segment) PK(doc model.DocID) (model.PrimaryKey, bool) {
	if int(doc) >= len(s.pks) || s.IsDeleted(doc) {
		return 0, false
	}
	return s.pks[doc], true
}

// NumDocs implements lexical.Snapshot.
func (s *Segment) NumDocs() int {
	return len(s.pks) - int(s.tombstones.GetCardinality())
}

// NumDeleted returns the number of tombstoned documents.
func (s *Segment) NumDeleted() int {
	return int(s.tombstones.GetCardinality())
}

// Fields returns the indexed field names in sorted order.
func (s *Segment) Fields() []string {
	names := make([]string, 0, len(s.fields))
	for name := range s.fields {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// DocFreq returns the number of documents, deleted ones included, that
// contain term in field.
func (s *Segment) DocFreq(field, term string) int {
	f, ok := s.fields[field]
	if !ok {
		return 0
	}
	return len(f.postings[term])
}

// termScorer returns a scorer over the postings of term in field, or nil if
// the term does not occur.
func (s *Segment) termScorer(field, term string, boost float32) search.Scorer {
	f, ok := s.fields[field]
	if !ok {
		return nil
	}
	postings := f.postings[term]
	if len(postings) == 0 {
		return nil
	}

	idf := computeIDF(int(f.docCount), len(postings))
	return newTermScorer(postings, f, idf*float64(boost))
}

// computeIDF returns log(1 + (N - n + 0.5) / (n + 0.5)).
func computeIDF(docCount, docFreq int) float64 {
	N := float64(docCount)
	n := float64(docFreq)
	return math.Log(1 + (N-n+0.5)/(n+0.5))
}
