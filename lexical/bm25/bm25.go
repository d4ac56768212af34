package bm25

import (
	"fmt"
	"strings"
	"sync"

	"github.com/RoaringBitmap/roaring/v2"
	"github.com/google/uuid"
	"github.com/hupe1980/lexgo/internal/conv"
	"github.com/hupe1980/lexgo/lexical"
	"github.com/hupe1980/lexgo/model"
)

// MemoryIndex is a simple in-memory BM25 index.
//
// Documents get dense DocIDs in insertion order. Deleting or replacing a
// document tombstones its old DocID; postings are only ever appended, so
// published segments can share them without copying.
type MemoryIndex struct {
	mu         sync.RWMutex
	pks        []model.PrimaryKey
	byPK       map[model.PrimaryKey]model.DocID
	fields     map[string]*fieldIndex
	tombstones *roaring.Bitmap

	last  *Segment // reused by Snapshot until the next mutation
	dirty bool
}

// New creates a new MemoryIndex.
func New() *MemoryIndex {
	return &MemoryIndex{
		byPK:       make(map[model.PrimaryKey]model.DocID),
		fields:     make(map[string]*fieldIndex),
		tombstones: roaring.New(),
		dirty:      true,
	}
}

// NewFromSegment creates a MemoryIndex that continues from seg.
// seg itself is left untouched and is returned by Snapshot until the
// first mutation.
func NewFromSegment(seg *Segment) *MemoryIndex {
	idx := &MemoryIndex{
		pks:        seg.pks[:len(seg.pks):len(seg.pks)],
		byPK:       make(map[model.PrimaryKey]model.DocID, len(seg.pks)),
		fields:     make(map[string]*fieldIndex, len(seg.fields)),
		tombstones: seg.tombstones.Clone(),
		last:       seg,
	}
	for doc, pk := range seg.pks {
		if !seg.tombstones.Contains(uint32(doc)) {
			idx.byPK[pk] = model.DocID(doc)
		}
	}
	for name, f := range seg.fields {
		idx.fields[name] = f.clone()
	}
	return idx
}

// Ensure MemoryIndex implements lexical.Index.
var _ lexical.Index = (*MemoryIndex)(nil)

// Tokenize lowercases text and splits it on whitespace.
func Tokenize(text string) []string {
	return strings.Fields(strings.ToLower(text))
}

// Add indexes doc. An existing document with the same primary key is replaced.
func (idx *MemoryIndex) Add(doc model.Document) error {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	if _, err := conv.IntToUint32(len(idx.pks) + 1); err != nil {
		return fmt.Errorf("add document %d: index is full: %w", doc.PK, err)
	}

	idx.deleteLocked(doc.PK)

	id := model.DocID(len(idx.pks))
	idx.pks = append(idx.pks, doc.PK)
	idx.byPK[doc.PK] = id

	for name, text := range doc.Fields {
		tokens := Tokenize(text)

		f, ok := idx.fields[name]
		if !ok {
			f = &fieldIndex{postings: make(map[string][]posting)}
			idx.fields[name] = f
		}
		for len(f.lengths) < int(id) {
			f.lengths = append(f.lengths, 0)
		}
		f.lengths = append(f.lengths, uint32(len(tokens)))
		f.totalLength += uint64(len(tokens))
		f.docCount++

		// Count term frequencies
		tf := make(map[string]uint32)
		for _, t := range tokens {
			tf[t]++
		}
		for t, count := range tf {
			f.postings[t] = append(f.postings[t], posting{doc: id, freq: count})
		}
	}

	idx.dirty = true
	return nil
}

// Delete removes the document with the given primary key.
func (idx *MemoryIndex) Delete(pk model.PrimaryKey) error {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	idx.deleteLocked(pk)
	return nil
}

func (idx *MemoryIndex) deleteLocked(pk model.PrimaryKey) {
	doc, ok := idx.byPK[pk]
	if !ok {
		return
	}
	idx.tombstones.Add(uint32(doc))
	delete(idx.byPK, pk)
	idx.dirty = true
}

// Len returns the number of live documents.
func (idx *MemoryIndex) Len() int {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return len(idx.byPK)
}

// Snapshot publishes the current state as an immutable Segment.
//
// Without intervening mutations the same *Segment is returned again, so
// caches keyed by snapshot identity keep hitting.
func (idx *MemoryIndex) Snapshot() *Segment {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	if !idx.dirty && idx.last != nil {
		return idx.last
	}

	seg := &Segment{
		id:         uuid.New(),
		pks:        idx.pks[:len(idx.pks):len(idx.pks)],
		fields:     make(map[string]*fieldIndex, len(idx.fields)),
		tombstones: idx.tombstones.Clone(),
	}
	for name, f := range idx.fields {
		seg.fields[name] = f.clone()
	}

	idx.last = seg
	idx.dirty = false
	return seg
}

// Close implements lexical.Index.
func (idx *MemoryIndex) Close() error {
	return nil
}

// clone copies the term map and caps every slice at its current length.
// Later appends to the original never become visible through the clone.
func (f *fieldIndex) clone() *fieldIndex {
	c := &fieldIndex{
		postings:    make(map[string][]posting, len(f.postings)),
		lengths:     f.lengths[:len(f.lengths):len(f.lengths)],
		docCount:    f.docCount,
		totalLength: f.totalLength,
	}
	for t, p := range f.postings {
		c.postings[t] = p[:len(p):len(p)]
	}
	return c
}
