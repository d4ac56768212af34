package bm25

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"slices"

	"github.com/RoaringBitmap/roaring/v2"
	"github.com/cespare/xxhash/v2"
	"github.com/google/uuid"
	"github.com/hupe1980/lexgo/internal/compress"
	"github.com/hupe1980/lexgo/internal/conv"
	"github.com/hupe1980/lexgo/model"
)

// Segment file layout:
//
//	[Magic "LXSG"][Version uint8][Checksum uint64][Block]
//
// Block is an internal/compress block. Checksum is the xxhash64 of Block.
// All integers are little endian.
const (
	segmentMagic   = "LXSG"
	segmentVersion = 1
	preambleSize   = len(segmentMagic) + 1 + 8
)

// ErrCorruptSegment indicates that segment bytes could not be decoded.
//
// The original underlying error (if any) can be accessed via errors.Unwrap.
type ErrCorruptSegment struct {
	Reason string
	cause  error
}

func (e *ErrCorruptSegment) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("corrupt segment: %s: %v", e.Reason, e.cause)
	}
	return "corrupt segment: " + e.Reason
}

func (e *ErrCorruptSegment) Unwrap() error { return e.cause }

func corrupt(reason string, cause error) error {
	return &ErrCorruptSegment{Reason: reason, cause: cause}
}

// Marshal encodes the segment and compresses the body with t.
// Fields and terms are written in sorted order, so equal segments encode
// to equal bytes.
func (s *Segment) Marshal(t compress.Type) ([]byte, error) {
	body, err := s.encodeBody()
	if err != nil {
		return nil, err
	}
	block, err := compress.Encode(t, body)
	if err != nil {
		return nil, fmt.Errorf("compress segment: %w", err)
	}

	out := make([]byte, 0, preambleSize+len(block))
	out = append(out, segmentMagic...)
	out = append(out, segmentVersion)
	out = binary.LittleEndian.AppendUint64(out, xxhash.Sum64(block))
	out = append(out, block...)
	return out, nil
}

// MarshalBinary implements encoding.BinaryMarshaler with LZ4 compression.
func (s *Segment) MarshalBinary() ([]byte, error) {
	return s.Marshal(compress.LZ4)
}

func (s *Segment) encodeBody() ([]byte, error) {
	var w writer
	w.bytes(s.id[:])

	w.count(len(s.pks))
	for _, pk := range s.pks {
		w.u64(uint64(pk))
	}

	tomb, err := s.tombstones.ToBytes()
	if err != nil {
		return nil, fmt.Errorf("encode tombstones: %w", err)
	}
	w.count(len(tomb))
	w.bytes(tomb)

	names := s.Fields()
	w.count(len(names))
	for _, name := range names {
		f := s.fields[name]
		w.str(name)
		w.u32(f.docCount)
		w.u64(f.totalLength)

		w.count(len(f.lengths))
		for _, l := range f.lengths {
			w.u32(l)
		}

		terms := make([]string, 0, len(f.postings))
		for t := range f.postings {
			terms = append(terms, t)
		}
		slices.Sort(terms)

		w.count(len(terms))
		for _, t := range terms {
			postings := f.postings[t]
			w.str(t)
			w.count(len(postings))
			for _, p := range postings {
				w.u32(uint32(p.doc))
				w.u32(p.freq)
			}
		}
	}

	if w.err != nil {
		return nil, fmt.Errorf("encode segment: %w", w.err)
	}
	return w.buf, nil
}

// UnmarshalSegment decodes a segment written by Marshal.
// Errors are of type *ErrCorruptSegment.
func UnmarshalSegment(data []byte) (*Segment, error) {
	if len(data) < preambleSize {
		return nil, corrupt(fmt.Sprintf("%d bytes is shorter than the preamble", len(data)), nil)
	}
	if !bytes.Equal(data[:len(segmentMagic)], []byte(segmentMagic)) {
		return nil, corrupt("bad magic", nil)
	}
	if v := data[len(segmentMagic)]; v != segmentVersion {
		return nil, corrupt(fmt.Sprintf("unsupported version %d", v), nil)
	}

	sum := binary.LittleEndian.Uint64(data[len(segmentMagic)+1:])
	block := data[preambleSize:]
	if xxhash.Sum64(block) != sum {
		return nil, corrupt("checksum mismatch", nil)
	}

	body, err := compress.Decode(block)
	if err != nil {
		return nil, corrupt("decompress", err)
	}
	return decodeBody(body)
}

func decodeBody(body []byte) (*Segment, error) {
	r := reader{buf: body}
	seg := &Segment{fields: make(map[string]*fieldIndex)}

	copy(seg.id[:], r.bytes(len(seg.id)))

	numDocs := r.u32()
	if !r.fits(uint64(numDocs) * 8) {
		return nil, r.fail("pks")
	}
	seg.pks = make([]model.PrimaryKey, numDocs)
	for i := range seg.pks {
		seg.pks[i] = model.PrimaryKey(r.u64())
	}

	tomb := r.bytes(int(r.u32()))
	if r.err != nil {
		return nil, r.fail("tombstones")
	}
	seg.tombstones = roaring.New()
	if err := seg.tombstones.UnmarshalBinary(tomb); err != nil {
		return nil, corrupt("tombstones", err)
	}

	numFields := r.u32()
	for i := uint32(0); i < numFields && r.err == nil; i++ {
		name := r.str()
		f := &fieldIndex{
			postings:    make(map[string][]posting),
			docCount:    r.u32(),
			totalLength: r.u64(),
		}

		n := r.u32()
		if n > numDocs || !r.fits(uint64(n)*4) {
			return nil, r.fail("field lengths")
		}
		f.lengths = make([]uint32, n)
		for j := range f.lengths {
			f.lengths[j] = r.u32()
		}

		numTerms := r.u32()
		for j := uint32(0); j < numTerms && r.err == nil; j++ {
			term := r.str()
			count := r.u32()
			if !r.fits(uint64(count) * 8) {
				return nil, r.fail("postings")
			}
			postings := make([]posting, count)
			for k := range postings {
				postings[k] = posting{doc: model.DocID(r.u32()), freq: r.u32()}
				if postings[k].doc >= model.DocID(numDocs) || (k > 0 && postings[k].doc <= postings[k-1].doc) {
					return nil, corrupt(fmt.Sprintf("postings of %s:%s out of order", name, term), nil)
				}
			}
			f.postings[term] = postings
		}
		seg.fields[name] = f
	}

	if r.err != nil {
		return nil, r.fail("fields")
	}
	if len(r.buf) != r.off {
		return nil, corrupt(fmt.Sprintf("%d trailing bytes", len(r.buf)-r.off), nil)
	}
	if seg.id == (uuid.UUID{}) {
		return nil, corrupt("missing segment id", nil)
	}
	return seg, nil
}

// writer encodes little endian values. The first count that does not fit
// a uint32 sets err.
type writer struct {
	buf []byte
	err error
}

func (w *writer) u32(v uint32)   { w.buf = binary.LittleEndian.AppendUint32(w.buf, v) }
func (w *writer) u64(v uint64)   { w.buf = binary.LittleEndian.AppendUint64(w.buf, v) }
func (w *writer) bytes(b []byte) { w.buf = append(w.buf, b...) }

func (w *writer) count(n int) {
	v, err := conv.IntToUint32(n)
	if err != nil && w.err == nil {
		w.err = err
	}
	w.u32(v)
}

func (w *writer) str(s string) {
	w.count(len(s))
	w.buf = append(w.buf, s...)
}

// reader decodes little endian values. The first short read sets err and
// turns every later read into a zero value.
type reader struct {
	buf []byte
	off int
	err error
}

var errShortBuffer = errors.New("unexpected end of segment")

func (r *reader) fits(n uint64) bool {
	return r.err == nil && n <= uint64(len(r.buf)-r.off)
}

func (r *reader) bytes(n int) []byte {
	if n < 0 || !r.fits(uint64(n)) {
		r.err = errShortBuffer
		return nil
	}
	b := r.buf[r.off : r.off+n]
	r.off += n
	return b
}

func (r *reader) u32() uint32 {
	b := r.bytes(4)
	if b == nil {
		return 0
	}
	return binary.LittleEndian.Uint32(b)
}

func (r *reader) u64() uint64 {
	b := r.bytes(8)
	if b == nil {
		return 0
	}
	return binary.LittleEndian.Uint64(b)
}

func (r *reader) str() string {
	return string(r.bytes(int(r.u32())))
}

func (r *reader) fail(section string) error {
	if r.err == nil {
		r.err = errShortBuffer
	}
	return corrupt(section, r.err)
}
