package blobstore

import (
	"context"
	"io"

	"github.com/hupe1980/lexgo/internal/cache"
)

const defaultBlockSize = 64 << 10

// CachingStore wraps a BlobStore and caches blob reads in fixed-size blocks.
// Writes and deletes pass through and invalidate the cached blocks of the blob.
//
// It is meant for remote stores such as S3, where repeated reads of the
// same manifest or segment would otherwise cost a round trip each.
type CachingStore struct {
	inner     BlobStore
	cache     cache.BlockCache
	blockSize int64
}

// NewCachingStore creates a CachingStore holding up to capacity bytes.
// blockSize defaults to 64KiB if <= 0.
func NewCachingStore(inner BlobStore, capacity, blockSize int64) *CachingStore {
	if blockSize <= 0 {
		blockSize = defaultBlockSize
	}
	return &CachingStore{
		inner:     inner,
		cache:     cache.NewShardedLRU(capacity),
		blockSize: blockSize,
	}
}

// Ensure CachingStore implements BlobStore.
var _ BlobStore = (*CachingStore)(nil)

// Open opens a blob whose reads go through the cache.
func (s *CachingStore) Open(ctx context.Context, name string) (Blob, error) {
	b, err := s.inner.Open(ctx, name)
	if err != nil {
		return nil, err
	}
	return &cachingBlob{
		inner:     b,
		cache:     s.cache,
		name:      name,
		blockSize: s.blockSize,
	}, nil
}

// Put writes through and drops cached blocks of name.
func (s *CachingStore) Put(ctx context.Context, name string, data []byte) error {
	s.cache.InvalidatePath(name)
	err := s.inner.Put(ctx, name, data)
	// A concurrent reader may have cached old blocks meanwhile.
	s.cache.InvalidatePath(name)
	return err
}

// Delete deletes through and drops cached blocks of name.
func (s *CachingStore) Delete(ctx context.Context, name string) error {
	err := s.inner.Delete(ctx, name)
	s.cache.InvalidatePath(name)
	return err
}

// List passes through.
func (s *CachingStore) List(ctx context.Context, prefix string) ([]string, error) {
	return s.inner.List(ctx, prefix)
}

// CacheStats returns hit, miss and size statistics of the block cache.
func (s *CachingStore) CacheStats() cache.Stats {
	return s.cache.Stats()
}

type cachingBlob struct {
	inner     Blob
	cache     cache.BlockCache
	name      string
	blockSize int64
}

func (b *cachingBlob) Close() error {
	return b.inner.Close()
}

func (b *cachingBlob) Size() int64 {
	return b.inner.Size()
}

func (b *cachingBlob) ReadAt(ctx context.Context, p []byte, off int64) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	size := b.inner.Size()
	if off >= size {
		return 0, io.EOF
	}

	end := min(off+int64(len(p)), size)
	n := 0
	for pos := off; pos < end; {
		blk := pos / b.blockSize
		data, err := b.block(ctx, blk)
		if err != nil {
			return n, err
		}
		src := pos - blk*b.blockSize
		if src >= int64(len(data)) {
			return n, io.ErrUnexpectedEOF
		}
		c := copy(p[n:end-off], data[src:])
		n += c
		pos += int64(c)
	}

	if n < len(p) {
		return n, io.EOF
	}
	return n, nil
}

// block returns block blk, reading it from the inner blob on a miss.
// The last block of a blob may be short.
func (b *cachingBlob) block(ctx context.Context, blk int64) ([]byte, error) {
	key := cache.Key{Path: b.name, Block: blk}
	if data, ok := b.cache.Get(ctx, key); ok {
		return data, nil
	}

	start := blk * b.blockSize
	length := min(b.blockSize, b.inner.Size()-start)
	data := make([]byte, length)
	n, err := b.inner.ReadAt(ctx, data, start)
	if err != nil && (err != io.EOF || int64(n) != length) {
		return nil, err
	}

	b.cache.Set(ctx, key, data)
	return data, nil
}
