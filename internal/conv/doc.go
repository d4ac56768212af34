// Package conv provides bounds-checked integer conversions.
//
// Use it where a count comes from growing in-memory state or from disk and
// must fit a fixed-width field. Provably bounded values can be cast directly.
package conv
