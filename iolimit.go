package lexgo

import (
	"context"

	"github.com/hupe1980/lexgo/blobstore"
	"github.com/hupe1980/lexgo/internal/resource"
)

// limitedStore charges every blob read and write against the IO limit of rc.
type limitedStore struct {
	blobstore.BlobStore
	rc *resource.Controller
}

func (s *limitedStore) Open(ctx context.Context, name string) (blobstore.Blob, error) {
	b, err := s.BlobStore.Open(ctx, name)
	if err != nil {
		return nil, err
	}
	return &limitedBlob{blob: b, rc: s.rc}, nil
}

func (s *limitedStore) Put(ctx context.Context, name string, data []byte) error {
	if err := s.rc.AcquireIO(ctx, len(data)); err != nil {
		return err
	}
	return s.BlobStore.Put(ctx, name, data)
}

// limitedBlob does not implement blobstore.Mappable, so reads go through ReadAt.
type limitedBlob struct {
	blob blobstore.Blob
	rc   *resource.Controller
}

func (b *limitedBlob) ReadAt(ctx context.Context, p []byte, off int64) (int, error) {
	if err := b.rc.AcquireIO(ctx, len(p)); err != nil {
		return 0, err
	}
	return b.blob.ReadAt(ctx, p, off)
}

func (b *limitedBlob) Close() error { return b.blob.Close() }

func (b *limitedBlob) Size() int64 { return b.blob.Size() }
