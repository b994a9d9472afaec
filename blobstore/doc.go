// Package blobstore provides storage abstraction for volumes and key lists.
//
// Store is the interface for reading and writing blobs. Implementations
// must be safe for concurrent use.
//
// # Built-in Implementations
//
//   - LocalStore: local filesystem, memory-mapped reads, atomic writes
//   - MemoryStore: in-process maps, used by tests
//   - minio.Store: MinIO and other S3-compatible services
//   - s3.Store: Amazon S3 with range reads and multipart uploads
//
// A distributed rank reads only its own byte range of a volume through
// Blob.ReadAt, so every backend must support ranged reads.
package blobstore
