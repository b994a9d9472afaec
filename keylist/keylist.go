package keylist

import (
	"bufio"
	"context"
	"errors"
	"io"
	"os"
	"strconv"

	"github.com/hupe1980/voxsort/blobstore"
)

// Write writes keys to w, one decimal key per line.
func Write(w io.Writer, keys []uint32) error {
	bw := bufio.NewWriterSize(w, 64*1024)
	var line []byte
	for _, k := range keys {
		line = strconv.AppendUint(line[:0], uint64(k), 10)
		line = append(line, '\n')
		if _, err := bw.Write(line); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// Save writes keys to name in store, compressed according to the name suffix.
// The blob only becomes visible when every step succeeded.
func Save(ctx context.Context, store blobstore.Store, name string, keys []uint32) error {
	blob, err := store.Create(ctx, name)
	if err != nil {
		return err
	}

	cw, err := NewWriter(blob, CompressionFor(name))
	if err != nil {
		_ = blob.Close()
		return err
	}

	err = Write(cw, keys)
	err = errors.Join(err, cw.Close())
	if err == nil {
		err = blob.Sync()
	}
	if err != nil {
		if a, ok := blob.(interface{ Abort() error }); ok {
			_ = a.Abort()
		}
		return errors.Join(err, blob.Close())
	}
	return blob.Close()
}

// Read parses every key in r. Parsing stops at the first token that is not
// an unsigned 32-bit decimal.
func Read(r io.Reader) ([]uint32, error) {
	var keys []uint32
	s := NewScanner(r)
	for {
		k, ok := s.Next()
		if !ok {
			return keys, s.Err()
		}
		keys = append(keys, k)
	}
}

type multiCloser struct {
	io.Reader
	closers []io.Closer
}

func (m *multiCloser) Close() error {
	var errs []error
	for _, c := range m.closers {
		errs = append(errs, c.Close())
	}
	return errors.Join(errs...)
}

// Open opens the key list file at path, decompressing according to its suffix.
// Closing the result closes the file.
func Open(path string) (io.ReadCloser, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	dec, err := NewReader(bufio.NewReader(f), CompressionFor(path))
	if err != nil {
		_ = f.Close()
		return nil, err
	}
	return &multiCloser{Reader: dec, closers: []io.Closer{dec, f}}, nil
}

// OpenBlob opens the key list name in store, decompressing according to its suffix.
func OpenBlob(ctx context.Context, store blobstore.Store, name string) (io.ReadCloser, error) {
	blob, err := store.Open(ctx, name)
	if err != nil {
		return nil, err
	}
	body, err := blob.ReadRange(ctx, 0, blob.Size())
	if errors.Is(err, io.EOF) {
		body, err = io.NopCloser(eofReader{}), nil
	}
	if err != nil {
		_ = blob.Close()
		return nil, err
	}
	dec, err := NewReader(bufio.NewReader(body), CompressionFor(name))
	if err != nil {
		_ = body.Close()
		_ = blob.Close()
		return nil, err
	}
	return &multiCloser{Reader: dec, closers: []io.Closer{dec, body, blob}}, nil
}

type eofReader struct{}

func (eofReader) Read([]byte) (int, error) { return 0, io.EOF }
