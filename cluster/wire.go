package cluster

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/pierrec/lz4/v4"

	"github.com/hupe1980/voxsort/internal/conv"
	"github.com/hupe1980/voxsort/internal/hash"
)

// Frame layout: flag byte, uint32 key count, payload, CRC32C of all of it.
// A flagRaw payload is the keys as little-endian uint32. A flagLZ4 payload
// holds the wrapping deltas between consecutive keys, byte-plane shuffled
// and then lz4 block compressed. Sorted keys turn into small deltas whose
// high planes are runs of zeros.
const (
	flagRaw byte = 0
	flagLZ4 byte = 1

	headerSize = 5
)

var errCorruptFrame = errors.New("cluster: corrupt frame")

func encodeKeys(keys []uint32, compress bool) ([]byte, error) {
	count, err := conv.IntToUint32(len(keys))
	if err != nil {
		return nil, fmt.Errorf("cluster: %w", err)
	}

	raw := make([]byte, 4*len(keys))
	for i, k := range keys {
		binary.LittleEndian.PutUint32(raw[4*i:], k)
	}

	if compress && len(raw) > 0 {
		frame := make([]byte, headerSize+lz4.CompressBlockBound(len(raw)))
		var c lz4.Compressor
		n, err := c.CompressBlock(deltaPlanes(keys), frame[headerSize:])
		if err != nil {
			return nil, fmt.Errorf("cluster: compress: %w", err)
		}
		// n == 0 means the payload is incompressible.
		if n > 0 && n < len(raw) {
			frame[0] = flagLZ4
			binary.LittleEndian.PutUint32(frame[1:], count)
			return hash.Seal(frame[:headerSize+n]), nil
		}
	}

	frame := make([]byte, headerSize, headerSize+len(raw)+hash.Size)
	frame[0] = flagRaw
	binary.LittleEndian.PutUint32(frame[1:], count)
	return hash.Seal(append(frame, raw...)), nil
}

func decodeKeys(sealed []byte) ([]uint32, error) {
	frame, err := hash.Verify(sealed)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", errCorruptFrame, err)
	}
	if len(frame) < headerSize {
		return nil, errCorruptFrame
	}
	n, err := conv.Uint32ToInt(binary.LittleEndian.Uint32(frame[1:]))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", errCorruptFrame, err)
	}
	payload := frame[headerSize:]

	switch frame[0] {
	case flagRaw:
		if len(payload) != 4*n {
			return nil, fmt.Errorf("%w: %d payload bytes for %d keys", errCorruptFrame, len(payload), n)
		}
		keys := make([]uint32, n)
		for i := range keys {
			keys[i] = binary.LittleEndian.Uint32(payload[4*i:])
		}
		return keys, nil
	case flagLZ4:
		planes := make([]byte, 4*n)
		got, err := lz4.UncompressBlock(payload, planes)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", errCorruptFrame, err)
		}
		if got != 4*n {
			return nil, fmt.Errorf("%w: %d payload bytes for %d keys", errCorruptFrame, got, n)
		}
		return undeltaPlanes(planes, n), nil
	default:
		return nil, fmt.Errorf("%w: flag %d", errCorruptFrame, frame[0])
	}
}

// deltaPlanes writes byte b of the i-th delta to out[b*len(keys)+i].
func deltaPlanes(keys []uint32) []byte {
	n := len(keys)
	out := make([]byte, 4*n)
	var prev uint32
	for i, k := range keys {
		d := k - prev
		prev = k
		out[i] = byte(d)
		out[n+i] = byte(d >> 8)
		out[2*n+i] = byte(d >> 16)
		out[3*n+i] = byte(d >> 24)
	}
	return out
}

func undeltaPlanes(planes []byte, n int) []uint32 {
	keys := make([]uint32, n)
	var prev uint32
	for i := range keys {
		d := uint32(planes[i]) | uint32(planes[n+i])<<8 | uint32(planes[2*n+i])<<16 | uint32(planes[3*n+i])<<24
		prev += d
		keys[i] = prev
	}
	return keys
}
