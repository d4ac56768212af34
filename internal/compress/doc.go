// Package compress frames single blocks compressed with LZ4 or ZSTD.
//
// Every block carries a 9 byte header:
//
//	[Type uint8][UncompressedSize uint32][StoredSize uint32][Data...]
//
// The header names the algorithm actually used, so Decode needs no
// out-of-band information. Blocks that do not shrink by at least 10% are
// stored raw with Type None.
package compress
