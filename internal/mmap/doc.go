// Package mmap maps volume files read-only into memory.
//
// A 1024x1024x314 volume is ~330 MB. Mapping it lets every scan worker read
// the same pages without a private copy, and lets a distributed rank touch
// only the pages of its own byte range.
//
//	m, err := mmap.Open("c8.raw")
//	if err != nil { ... }
//	defer m.Close()
//	_ = m.Advise(mmap.AccessSequential)
//	data := m.Bytes()
//
// Unix uses mmap(2) and madvise(2). Windows uses CreateFileMapping and
// MapViewOfFile; Advise is a no-op there.
//
// Close is idempotent. Callers must not touch Bytes() after Close returns.
package mmap
