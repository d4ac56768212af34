// Package mmap provides memory-mapped file access for zero-copy reads.
//
// # Usage
//
//	m, err := mmap.Open("segments/0001.seg")
//	if err != nil { ... }
//	defer m.Close()
//
//	data := m.Bytes()
//	_ = m.Advise(mmap.AccessSequential)
//
// # Platform Support
//
//   - Unix (Linux, macOS, BSD): mmap(2) with madvise(2) hints via golang.org/x/sys/unix
//   - Other platforms: the file is read into memory and Advise is a no-op
package mmap
