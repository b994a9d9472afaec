package s3

import (
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/voxsort/blobstore"
	"github.com/hupe1980/voxsort/keylist"
)

func TestIntegration_S3Store(t *testing.T) {
	bucket := os.Getenv("S3_BUCKET")
	if bucket == "" {
		t.Skip("Skipping S3 integration test: S3_BUCKET not set")
	}

	ctx := t.Context()
	cfg, err := config.LoadDefaultConfig(ctx)
	require.NoError(t, err)

	prefix := fmt.Sprintf("test-voxsort-%d/", time.Now().UnixNano())
	store := NewStore(s3.NewFromConfig(cfg), bucket, prefix)

	volume := []byte{0, 30, 0, 30, 30, 0, 0, 26}
	require.NoError(t, store.Put(ctx, "c8.raw", volume))
	t.Cleanup(func() { _ = store.Delete(ctx, "c8.raw") })

	b, err := store.Open(ctx, "c8.raw")
	require.NoError(t, err)
	assert.Equal(t, int64(len(volume)), b.Size())

	buf := make([]byte, 3)
	n, err := b.ReadAt(ctx, buf, 3)
	require.NoError(t, err)
	assert.Equal(t, volume[3:3+n], buf[:n])
	require.NoError(t, b.Close())

	keys := []uint32{1, 2, 3, 900}
	require.NoError(t, keylist.Save(ctx, store, "morton_codes_seq.txt.zst", keys))
	t.Cleanup(func() { _ = store.Delete(ctx, "morton_codes_seq.txt.zst") })

	rc, err := keylist.OpenBlob(ctx, store, "morton_codes_seq.txt.zst")
	require.NoError(t, err)
	defer rc.Close()
	got, err := keylist.Read(rc)
	require.NoError(t, err)
	assert.Equal(t, keys, got)

	names, err := store.List(ctx, "")
	require.NoError(t, err)
	assert.Contains(t, names, "c8.raw")

	_, err = store.Open(ctx, "missing.raw")
	assert.ErrorIs(t, err, blobstore.ErrNotFound)
}
