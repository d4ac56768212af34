package blobstore

import (
	"context"
	"fmt"
	"io"
	"os"
)

// ErrNotFound is returned when a blob does not exist.
//
// Implementations should return an error that satisfies `errors.Is(err, ErrNotFound)`.
// The default maps to `os.ErrNotExist`.
var ErrNotFound = os.ErrNotExist

// BlobStore is an abstraction for storing immutable data blobs (segments, manifests).
// Implementations must be safe for concurrent use.
type BlobStore interface {
	// Open opens a blob for reading.
	Open(ctx context.Context, name string) (Blob, error)
	// Put writes a blob atomically, replacing any previous content.
	Put(ctx context.Context, name string, data []byte) error
	// Delete removes a blob. Deleting a missing blob is not an error.
	Delete(ctx context.Context, name string) error
	// List returns the sorted names of all blobs starting with prefix.
	List(ctx context.Context, prefix string) ([]string, error)
}

// Blob is a read-only handle to a data blob.
type Blob interface {
	// ReadAt reads len(p) bytes at off. It returns io.EOF when fewer bytes
	// are available, like io.ReaderAt.
	ReadAt(ctx context.Context, p []byte, off int64) (int, error)
	io.Closer
	// Size returns the size of the blob in bytes.
	Size() int64
}

// Mappable is an optional interface for Blobs that support memory mapping.
type Mappable interface {
	// Bytes returns the underlying byte slice.
	// The slice is valid until the Blob is closed.
	Bytes() ([]byte, error)
}

// ReadAll opens name and returns its full content.
func ReadAll(ctx context.Context, store BlobStore, name string) (data []byte, err error) {
	blob, err := store.Open(ctx, name)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := blob.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	if m, ok := blob.(Mappable); ok {
		mapped, err := m.Bytes()
		if err != nil {
			return nil, err
		}
		// The mapping is released on Close.
		return append([]byte(nil), mapped...), nil
	}

	size := blob.Size()
	buf := make([]byte, size)
	n, err := blob.ReadAt(ctx, buf, 0)
	if err != nil && (err != io.EOF || int64(n) != size) {
		return nil, fmt.Errorf("read %s: %w", name, err)
	}
	if int64(n) != size {
		return nil, fmt.Errorf("read %s: short read %d of %d bytes", name, n, size)
	}
	return buf, nil
}
