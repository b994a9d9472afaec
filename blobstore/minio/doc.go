// Package minio provides a blobstore.Store backed by the MinIO client.
//
// It works with MinIO and any S3-compatible service (Ceph, Garage,
// SeaweedFS). Volumes are read with ranged GETs, so a distributed rank only
// downloads its own byte range; key lists are streamed up as they are
// written.
//
//	client, err := minio.New("localhost:9000", &minio.Options{
//	    Creds:  credentials.NewStaticV4("minioadmin", "minioadmin", ""),
//	    Secure: false,
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	store := minioblob.NewStore(client, "volumes", "runs/2024-06/")
package minio
