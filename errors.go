package lexgo

import (
	"errors"
	"fmt"

	"github.com/hupe1980/lexgo/blobstore"
	"github.com/hupe1980/lexgo/lexical/bm25"
)

var (
	// ErrClosed is returned when operating on a closed database.
	ErrClosed = errors.New("lexgo: database closed")

	// ErrNotFound is returned when a persisted object does not exist.
	ErrNotFound = errors.New("lexgo: not found")

	// ErrInvalidK is returned when k is not positive.
	ErrInvalidK = errors.New("k must be positive")

	// ErrUnknownCodec is returned when a manifest names a codec lexgo does not know.
	ErrUnknownCodec = errors.New("lexgo: unknown codec")
)

// ErrCorruptSegment indicates that a persisted segment could not be decoded.
//
// The original underlying error (if any) can be accessed via errors.Unwrap.
type ErrCorruptSegment struct {
	Path   string
	Reason string
	cause  error
}

func (e *ErrCorruptSegment) Error() string {
	return fmt.Sprintf("corrupt segment %s: %s", e.Path, e.Reason)
}

func (e *ErrCorruptSegment) Unwrap() error { return e.cause }

// ErrInvalidManifest indicates that a manifest is unreadable or inconsistent.
type ErrInvalidManifest struct {
	Path  string
	cause error
}

func (e *ErrInvalidManifest) Error() string {
	return fmt.Sprintf("invalid manifest %s: %v", e.Path, e.cause)
}

func (e *ErrInvalidManifest) Unwrap() error { return e.cause }

func translateError(path string, err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, blobstore.ErrNotFound) {
		return fmt.Errorf("%w: %s: %w", ErrNotFound, path, err)
	}

	var cs *bm25.ErrCorruptSegment
	if errors.As(err, &cs) {
		return &ErrCorruptSegment{Path: path, Reason: cs.Reason, cause: err}
	}

	return err
}
