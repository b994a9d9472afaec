package blobstore

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/hupe1980/voxsort/internal/fs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStore_Lifecycle(t *testing.T) {
	tmpDir := t.TempDir()
	store := NewLocalStore(tmpDir)
	ctx := context.Background()

	name := "volumes/c8.raw"
	data := []byte{0, 26, 30, 25, 200, 1, 2, 3, 4, 99}

	w, err := store.Create(ctx, name)
	require.NoError(t, err)
	n, err := w.Write(data)
	require.NoError(t, err)
	require.Equal(t, len(data), n)
	require.NoError(t, w.Close())

	_, err = os.Stat(filepath.Join(tmpDir, "volumes", "c8.raw"))
	require.NoError(t, err)

	blob, err := store.Open(ctx, name)
	require.NoError(t, err)
	defer blob.Close()

	require.Equal(t, int64(len(data)), blob.Size())

	buf := make([]byte, 3)
	n, err = blob.ReadAt(ctx, buf, 4)
	require.NoError(t, err)
	require.Equal(t, 3, n)
	assert.Equal(t, []byte{200, 1, 2}, buf)

	m, ok := blob.(Mappable)
	require.True(t, ok)
	raw, err := m.Bytes()
	require.NoError(t, err)
	assert.Equal(t, data, raw)

	require.NoError(t, store.Put(ctx, "keys.txt", []byte("1\n2\n")))

	names, err := store.List(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, []string{"keys.txt", "volumes/c8.raw"}, names)

	names, err = store.List(ctx, "vol")
	require.NoError(t, err)
	assert.Equal(t, []string{"volumes/c8.raw"}, names)

	require.NoError(t, store.Delete(ctx, "keys.txt"))
	require.NoError(t, store.Delete(ctx, "keys.txt"))
	_, err = store.Open(ctx, "keys.txt")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestLocalStore_ReadRange_Boundaries(t *testing.T) {
	store := NewLocalStore(t.TempDir())
	ctx := context.Background()

	data := []byte("0123456789")
	require.NoError(t, store.Put(ctx, "boundary.bin", data))

	blob, err := store.Open(ctx, "boundary.bin")
	require.NoError(t, err)
	defer blob.Close()

	r, err := blob.ReadRange(ctx, 0, 10)
	require.NoError(t, err)
	content, _ := io.ReadAll(r)
	r.Close()
	assert.True(t, bytes.Equal(data, content))

	r, err = blob.ReadRange(ctx, 8, 5)
	require.NoError(t, err)
	content, err = io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, "89", string(content))
	r.Close()

	_, err = blob.ReadRange(ctx, 20, 5)
	assert.ErrorIs(t, err, io.EOF)
}

func TestLocalStore_FailedWriteLeavesNoBlob(t *testing.T) {
	dir := t.TempDir()
	ffs := fs.NewFaultyFS(nil)
	ffs.AddRule("broken", fs.Fault{FailAfterBytes: 4})
	store := NewLocalStoreFS(dir, ffs)
	ctx := context.Background()

	err := store.Put(ctx, "broken.txt", []byte("12345678"))
	require.ErrorIs(t, err, fs.ErrInjected)

	names, err := store.List(ctx, "")
	require.NoError(t, err)
	assert.Empty(t, names)
}

func TestLocalStore_FailedSync(t *testing.T) {
	ffs := fs.NewFaultyFS(nil)
	ffs.AddRule("nosync", fs.Fault{FailAfterBytes: -1, FailOnSync: true})
	store := NewLocalStoreFS(t.TempDir(), ffs)
	ctx := context.Background()

	w, err := store.Create(ctx, "nosync.txt")
	require.NoError(t, err)
	_, err = w.Write([]byte("1\n"))
	require.NoError(t, err)
	assert.ErrorIs(t, w.Close(), fs.ErrInjected)

	_, err = store.Open(ctx, "nosync.txt")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStore(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, "a", []byte("abc")))
	w, err := store.Create(ctx, "b")
	require.NoError(t, err)
	_, _ = w.Write([]byte("hello"))
	require.NoError(t, w.Sync())
	require.NoError(t, w.Close())

	names, err := store.List(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, names)

	blob, err := store.Open(ctx, "b")
	require.NoError(t, err)
	buf := make([]byte, 3)
	n, err := ReaderAt(ctx, blob).ReadAt(buf, 1)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	assert.Equal(t, "ell", string(buf))

	r, err := blob.ReadRange(ctx, 3, 10)
	require.NoError(t, err)
	rest, _ := io.ReadAll(r)
	assert.Equal(t, "lo", string(rest))

	n, err = blob.ReadAt(ctx, make([]byte, 10), 2)
	assert.Equal(t, 3, n)
	assert.ErrorIs(t, err, io.EOF)

	require.NoError(t, store.Delete(ctx, "a"))
	_, err = store.Open(ctx, "a")
	assert.ErrorIs(t, err, ErrNotFound)
}
