package lexgo

import (
	"fmt"
	"strings"
	"time"

	"github.com/hupe1980/lexgo/codec"
)

const (
	currentName    = "CURRENT"
	manifestPrefix = "manifests/"
	segmentPrefix  = "segments/"
	manifestSuffix = ".json"
	segmentSuffix  = ".seg"
	manifestFormat = 1
)

// Manifest describes one committed version of a database.
type Manifest struct {
	Format      int       `json:"format"`
	Version     uint64    `json:"version"`
	SegmentID   string    `json:"segment_id,omitempty"`
	SegmentPath string    `json:"segment_path,omitempty"`
	SegmentSize int       `json:"segment_size,omitempty"`
	Compression string    `json:"compression,omitempty"`
	NumDocs     int       `json:"num_docs"`
	MaxDoc      uint32    `json:"max_doc"`
	Fields      []string  `json:"fields,omitempty"`
	CommittedAt time.Time `json:"committed_at"`
}

// manifestPath names the manifest of version, written with c.
// The codec name is part of the path, so readers can pick the right one.
func manifestPath(version uint64, c codec.Codec) string {
	return manifestPrefix + fmt.Sprintf("%020d", version) + "." + c.Name() + manifestSuffix
}

func segmentPath(id string) string {
	return segmentPrefix + id + segmentSuffix
}

// codecForManifest returns the codec that wrote the manifest at path.
func codecForManifest(path string) (codec.Codec, error) {
	name, ok := strings.CutPrefix(path, manifestPrefix)
	if !ok {
		return nil, fmt.Errorf("not a manifest path: %q", path)
	}
	name, ok = strings.CutSuffix(name, manifestSuffix)
	if !ok {
		return nil, fmt.Errorf("not a manifest path: %q", path)
	}
	_, codecName, ok := strings.Cut(name, ".")
	if !ok {
		return nil, fmt.Errorf("manifest path %q names no codec", path)
	}
	c, ok := codec.ByName(codecName)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownCodec, codecName)
	}
	return c, nil
}

func decodeManifest(path string, data []byte) (*Manifest, error) {
	c, err := codecForManifest(path)
	if err != nil {
		return nil, &ErrInvalidManifest{Path: path, cause: err}
	}

	var m Manifest
	if err := c.Unmarshal(data, &m); err != nil {
		return nil, &ErrInvalidManifest{Path: path, cause: err}
	}
	if m.Format != manifestFormat {
		return nil, &ErrInvalidManifest{Path: path, cause: fmt.Errorf("unsupported format %d", m.Format)}
	}
	if m.SegmentPath != "" && !strings.HasPrefix(m.SegmentPath, segmentPrefix) {
		return nil, &ErrInvalidManifest{Path: path, cause: fmt.Errorf("segment path %q outside %s", m.SegmentPath, segmentPrefix)}
	}
	return &m, nil
}
