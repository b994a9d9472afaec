// Package s3 provides an Amazon S3 implementation of blobstore.Store.
//
// # Usage
//
//	cfg, err := config.LoadDefaultConfig(ctx)
//	store := s3.NewStore(awss3.NewFromConfig(cfg), "my-bucket", "volumes/")
//
// # Features
//
//   - Ranged GETs, so a distributed rank fetches only its own byte range
//   - Multipart uploads for key lists via the transfer manager
//   - CRC32C checksums on uploads
//   - Automatic pagination for listing
package s3
