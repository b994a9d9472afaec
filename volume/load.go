package volume

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/hupe1980/voxsort/blobstore"
	"github.com/hupe1980/voxsort/internal/resource"
	"github.com/hupe1980/voxsort/partition"
)

// LoadOptions configures loading.
type LoadOptions struct {
	// Resource throttles reads. Nil means unthrottled.
	Resource *resource.Controller
	// Logger receives load diagnostics. Nil disables logging.
	Logger *slog.Logger
}

// Load reads the whole volume named name from store.
func Load(ctx context.Context, store blobstore.Store, name string, dims Dims, opts LoadOptions) (*Volume, error) {
	return LoadRange(ctx, store, name, dims, partition.Range{Start: 0, End: dims.Total()}, opts)
}

// LoadRange reads only the bytes of rng, seeking to rng.Start.
// The blob must still hold exactly dims.Total() bytes.
func LoadRange(ctx context.Context, store blobstore.Store, name string, dims Dims, rng partition.Range, opts LoadOptions) (*Volume, error) {
	if err := dims.Validate(); err != nil {
		return nil, err
	}
	if rng.Start < 0 || rng.End > dims.Total() || rng.Start > rng.End {
		return nil, fmt.Errorf("volume: range %s outside %s", rng, dims)
	}

	blob, err := store.Open(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("volume: open %s: %w", name, err)
	}

	if blob.Size() != int64(dims.Total()) {
		_ = blob.Close()
		return nil, fmt.Errorf("%w: %s has %d bytes, want %d", ErrSizeMismatch, name, blob.Size(), dims.Total())
	}

	// Zero-copy when the blob is mapped and reads are not throttled.
	if m, ok := blob.(blobstore.Mappable); ok && opts.Resource.IOBurst() == 0 {
		data, err := m.Bytes()
		if err == nil {
			v, err := NewRange(dims, rng, data[rng.Start:rng.End])
			if err != nil {
				_ = blob.Close()
				return nil, err
			}
			v.closer = blob.Close
			logLoad(opts.Logger, name, rng, true)
			return v, nil
		}
	}
	defer func() { _ = blob.Close() }()

	data := make([]byte, rng.Len())
	r := resource.NewRateLimitedReaderAt(ctx, blobstore.ReaderAt(ctx, blob), opts.Resource)
	if _, err := io.ReadFull(io.NewSectionReader(r, int64(rng.Start), int64(rng.Len())), data); err != nil {
		if errors.Is(err, io.ErrUnexpectedEOF) || errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: short read of %s: %w", ErrSizeMismatch, name, err)
		}
		return nil, fmt.Errorf("volume: read %s: %w", name, err)
	}

	logLoad(opts.Logger, name, rng, false)
	return NewRange(dims, rng, data)
}

func logLoad(l *slog.Logger, name string, rng partition.Range, mapped bool) {
	if l == nil {
		return
	}
	l.Debug("volume loaded",
		slog.String("name", name),
		slog.String("range", rng.String()),
		slog.Bool("mapped", mapped),
	)
}
