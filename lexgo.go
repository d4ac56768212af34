package lexgo

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/hupe1980/lexgo/blobstore"
	"github.com/hupe1980/lexgo/internal/resource"
	"github.com/hupe1980/lexgo/lexical"
	"github.com/hupe1980/lexgo/lexical/bm25"
	"github.com/hupe1980/lexgo/model"
	"github.com/hupe1980/lexgo/search"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
)

// DB is an embedded full-text search database backed by a blob store.
// It is safe for concurrent use.
type DB struct {
	store    blobstore.BlobStore
	opts     options
	index    *bm25.MemoryIndex
	searcher *search.IndexSearcher
	rc       *resource.Controller
	refresh  singleflight.Group

	commitMu sync.Mutex // serializes Commit

	mu       sync.RWMutex // guards the fields below
	snap     *bm25.Segment
	manifest *Manifest // nil until the first commit
	closed   bool
}

// SearchRequest describes a search.
type SearchRequest struct {
	// Text is tokenized and matched against Fields.
	Text string
	// Fields lists the fields to match. Empty means every indexed field.
	Fields []string
	// Query replaces Text and Fields when set.
	Query search.Query
	// K is the maximum number of results.
	K int
	// TieBreaker weighs the non-best field matches of a document.
	// 0 ranks by the best field only, 1 sums all fields.
	TieBreaker float32
	// Filter restricts the result to permitted documents. May be nil.
	Filter search.Filter
}

// Stats describes the published snapshot and the last commit.
type Stats struct {
	Version    uint64
	NumDocs    int
	NumDeleted int
	MaxDoc     uint32
	Fields     []string
}

// Open opens the database stored in store.
//
// The manifest named by CURRENT and its segment are loaded, if any. An empty
// store yields an empty database whose first Commit creates version 1.
func Open(ctx context.Context, store blobstore.BlobStore, optFns ...Option) (*DB, error) {
	opts := applyOptions(optFns)

	rc := resource.NewController(resource.Config{
		MaxConcurrentSearches: opts.maxConcurrentSearches,
		IOLimitBytesPerSec:    opts.ioLimitBytesPerSec,
	})
	if opts.ioLimitBytesPerSec > 0 {
		store = &limitedStore{BlobStore: store, rc: rc}
	}
	if opts.blockCacheBytes > 0 {
		// Cache hits do not count against the IO limit.
		store = blobstore.NewCachingStore(store, opts.blockCacheBytes, 0)
	}

	db := &DB{
		store:    store,
		opts:     opts,
		searcher: search.NewIndexSearcher(),
		rc:       rc,
	}

	m, seg, err := db.load(ctx)
	if err != nil {
		opts.logger.LogOpen(ctx, 0, 0, err)
		return nil, err
	}

	if seg != nil {
		db.index = bm25.NewFromSegment(seg)
	} else {
		db.index = bm25.New()
	}
	db.manifest = m
	db.snap = db.index.Snapshot()

	opts.logger.LogOpen(ctx, db.version(), db.snap.NumDocs(), nil)
	return db, nil
}

// load reads the current manifest and its segment.
// Both are nil for a store without commits.
func (d *DB) load(ctx context.Context) (*Manifest, *bm25.Segment, error) {
	current, err := blobstore.ReadAll(ctx, d.store, currentName)
	if errors.Is(err, blobstore.ErrNotFound) {
		return nil, nil, nil
	}
	if err != nil {
		return nil, nil, fmt.Errorf("read %s: %w", currentName, translateError(currentName, err))
	}

	path := string(current)
	data, err := blobstore.ReadAll(ctx, d.store, path)
	if err != nil {
		return nil, nil, fmt.Errorf("read manifest: %w", translateError(path, err))
	}
	m, err := decodeManifest(path, data)
	if err != nil {
		return nil, nil, err
	}
	if m.SegmentPath == "" {
		return m, nil, nil
	}

	data, err = blobstore.ReadAll(ctx, d.store, m.SegmentPath)
	if err != nil {
		return nil, nil, fmt.Errorf("read segment: %w", translateError(m.SegmentPath, err))
	}
	seg, err := bm25.UnmarshalSegment(data)
	if err != nil {
		return nil, nil, translateError(m.SegmentPath, err)
	}
	return m, seg, nil
}

// Add indexes doc. A document with the same primary key is replaced.
// The change becomes searchable after the next Refresh or Commit.
func (d *DB) Add(ctx context.Context, doc model.Document) (err error) {
	start := time.Now()
	defer func() {
		d.opts.metricsCollector.RecordAdd(time.Since(start), err)
	}()

	if err := d.checkOpen(); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	return d.index.Add(doc)
}

// Delete removes the document with the given primary key.
// Deleting an unknown key is a no-op.
func (d *DB) Delete(ctx context.Context, pk model.PrimaryKey) (err error) {
	start := time.Now()
	defer func() {
		d.opts.metricsCollector.RecordDelete(time.Since(start), err)
	}()

	if err := d.checkOpen(); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	return d.index.Delete(pk)
}

// Refresh publishes the current index state to searches.
// Concurrent calls share a single snapshot.
func (d *DB) Refresh() error {
	_, err := d.publish()
	return err
}

func (d *DB) publish() (*bm25.Segment, error) {
	v, err, _ := d.refresh.Do("refresh", func() (any, error) {
		if err := d.checkOpen(); err != nil {
			return nil, err
		}
		seg := d.index.Snapshot()

		d.mu.Lock()
		d.snap = seg
		d.mu.Unlock()
		return seg, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*bm25.Segment), nil
}

// Snapshot returns the published snapshot.
func (d *DB) Snapshot() (lexical.Snapshot, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.closed {
		return nil, ErrClosed
	}
	return d.snap, nil
}

// Commit refreshes and persists the snapshot.
//
// It writes the segment, then a manifest of the next version, then points
// CURRENT at that manifest. Committing an unchanged snapshot is a no-op.
func (d *DB) Commit(ctx context.Context) (err error) {
	start := time.Now()
	written := 0
	var m *Manifest
	defer func() {
		d.opts.metricsCollector.RecordCommit(written, time.Since(start), err)
		if m != nil || err != nil {
			var version uint64
			var seg string
			if m != nil {
				version, seg = m.Version, m.SegmentPath
			}
			d.opts.logger.LogCommit(ctx, version, seg, written, err)
		}
	}()

	d.commitMu.Lock()
	defer d.commitMu.Unlock()

	seg, err := d.publish()
	if err != nil {
		return err
	}

	d.mu.RLock()
	prev := d.manifest
	d.mu.RUnlock()

	if prev != nil && prev.SegmentID == seg.ID().String() {
		return nil
	}

	data, err := seg.Marshal(d.opts.compression)
	if err != nil {
		return fmt.Errorf("encode segment: %w", err)
	}

	next := &Manifest{
		Format:      manifestFormat,
		Version:     d.version() + 1,
		SegmentID:   seg.ID().String(),
		SegmentPath: segmentPath(seg.ID().String()),
		SegmentSize: len(data),
		Compression: d.opts.compression.String(),
		NumDocs:     seg.NumDocs(),
		MaxDoc:      seg.MaxDoc(),
		Fields:      seg.Fields(),
		CommittedAt: time.Now().UTC(),
	}

	if err := d.store.Put(ctx, next.SegmentPath, data); err != nil {
		return fmt.Errorf("write segment: %w", err)
	}

	encoded, err := d.opts.codec.Marshal(next)
	if err != nil {
		return fmt.Errorf("encode manifest: %w", err)
	}
	mPath := manifestPath(next.Version, d.opts.codec)
	if err := d.store.Put(ctx, mPath, encoded); err != nil {
		return fmt.Errorf("write manifest: %w", err)
	}
	if err := d.store.Put(ctx, currentName, []byte(mPath)); err != nil {
		return fmt.Errorf("write %s: %w", currentName, err)
	}

	d.mu.Lock()
	d.manifest = next
	d.mu.Unlock()

	written = len(data)
	m = next
	return nil
}

// Search runs req against the published snapshot and returns the best
// matches, best first, with primary keys resolved.
func (d *DB) Search(ctx context.Context, req SearchRequest) (res []model.Candidate, err error) {
	start := time.Now()
	q := req.Query
	defer func() {
		d.opts.metricsCollector.RecordSearch(req.K, len(res), time.Since(start), err)
		query := ""
		if q != nil {
			query = q.String()
		}
		d.opts.logger.LogSearch(ctx, query, req.K, len(res), err)
	}()

	if req.K <= 0 {
		return nil, ErrInvalidK
	}

	snap, err := d.Snapshot()
	if err != nil {
		return nil, err
	}
	seg := snap.(*bm25.Segment)

	if q == nil {
		fields := req.Fields
		if len(fields) == 0 {
			fields = seg.Fields()
		}
		q = bm25.MultiFieldQuery(req.Text, fields, req.TieBreaker)
	}

	if err := d.rc.AcquireSearch(ctx); err != nil {
		return nil, err
	}
	defer d.rc.ReleaseSearch()

	hits, _, err := d.searcher.TopK(ctx, q, seg, req.Filter, req.K)
	if err != nil {
		return nil, err
	}

	for i := range hits {
		hits[i].PK, _ = seg.PK(hits[i].Doc)
	}
	return hits, nil
}

// NewFilter returns a filter permitting the documents q matches.
// Its matches are cached per snapshot, so reuse one filter across searches.
func (d *DB) NewFilter(q search.Query) *search.QueryFilter {
	return search.NewQueryFilter(q, d.searcher, search.WithFilterLogger(d.opts.logger.Logger))
}

// WarmFilters computes the bitsets of filters for the published snapshot
// concurrently, so that the first search using each of them is cheap.
func (d *DB) WarmFilters(ctx context.Context, filters ...search.Filter) (err error) {
	start := time.Now()
	defer func() {
		d.opts.metricsCollector.RecordFilterWarm(len(filters), time.Since(start), err)
		d.opts.logger.LogFilterWarm(ctx, len(filters), time.Since(start), err)
	}()

	snap, err := d.Snapshot()
	if err != nil {
		return err
	}

	g, gctx := errgroup.WithContext(ctx)
	if n := d.opts.maxConcurrentSearches; n > 0 {
		g.SetLimit(int(n))
	}
	for _, f := range filters {
		g.Go(func() error {
			_, err := f.Bits(gctx, snap)
			return err
		})
	}
	return g.Wait()
}

// Stats returns statistics of the published snapshot.
func (d *DB) Stats() (Stats, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.closed {
		return Stats{}, ErrClosed
	}
	var version uint64
	if d.manifest != nil {
		version = d.manifest.Version
	}
	return Stats{
		Version:    version,
		NumDocs:    d.snap.NumDocs(),
		NumDeleted: d.snap.NumDeleted(),
		MaxDoc:     d.snap.MaxDoc(),
		Fields:     d.snap.Fields(),
	}, nil
}

// Close closes the database. Uncommitted changes are discarded.
func (d *DB) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return ErrClosed
	}
	d.closed = true
	return d.index.Close()
}

func (d *DB) checkOpen() error {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.closed {
		return ErrClosed
	}
	return nil
}

func (d *DB) version() uint64 {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.manifest == nil {
		return 0
	}
	return d.manifest.Version
}
