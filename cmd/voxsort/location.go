package main

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/config"
	awss3 "github.com/aws/aws-sdk-go-v2/service/s3"
	miniogo "github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/hupe1980/voxsort/blobstore"
	"github.com/hupe1980/voxsort/blobstore/minio"
	"github.com/hupe1980/voxsort/blobstore/s3"
)

// location is a blob addressed by a command line argument.
type location struct {
	store blobstore.Store
	name  string
}

// resolve maps raw onto a store and a blob name within it:
//
//	path/to/c8.raw                          local file
//	s3://bucket/prefix/c8.raw               AWS S3, default credential chain
//	minio://host:9000/bucket/prefix/c8.raw  MinIO, MINIO_ACCESS_KEY / MINIO_SECRET_KEY
func resolve(ctx context.Context, raw string) (location, error) {
	u, err := url.Parse(raw)
	if err != nil || len(u.Scheme) < 2 {
		return location{
			store: blobstore.NewLocalStore(filepath.Dir(raw)),
			name:  filepath.Base(raw),
		}, nil
	}

	switch u.Scheme {
	case "s3":
		prefix, name := path.Split(strings.TrimPrefix(u.Path, "/"))
		if u.Host == "" || name == "" {
			return location{}, fmt.Errorf("invalid s3 location %q: want s3://bucket/key", raw)
		}
		cfg, err := config.LoadDefaultConfig(ctx)
		if err != nil {
			return location{}, fmt.Errorf("load aws config: %w", err)
		}
		return location{
			store: s3.NewStore(awss3.NewFromConfig(cfg), u.Host, prefix),
			name:  name,
		}, nil
	case "minio":
		bucket, key, ok := strings.Cut(strings.TrimPrefix(u.Path, "/"), "/")
		prefix, name := path.Split(key)
		if !ok || u.Host == "" || bucket == "" || name == "" {
			return location{}, fmt.Errorf("invalid minio location %q: want minio://host/bucket/key", raw)
		}
		client, err := miniogo.New(u.Host, &miniogo.Options{
			Creds:  credentials.NewStaticV4(os.Getenv("MINIO_ACCESS_KEY"), os.Getenv("MINIO_SECRET_KEY"), ""),
			Secure: u.Query().Get("secure") == "true",
		})
		if err != nil {
			return location{}, fmt.Errorf("minio client: %w", err)
		}
		return location{
			store: minio.NewStore(client, bucket, prefix),
			name:  name,
		}, nil
	default:
		return location{}, fmt.Errorf("unsupported location scheme %q", u.Scheme)
	}
}
