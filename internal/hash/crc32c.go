// Package hash checksums byte frames with CRC32-Castagnoli.
//
// Go's hash/crc32 uses SSE4.2 or the ARM CRC extension when available.
package hash

import (
	"encoding/binary"
	"errors"
	"hash"
	"hash/crc32"
)

// Size is the length of an appended checksum.
const Size = 4

// ErrChecksum is returned by Verify when a frame does not match its checksum.
var ErrChecksum = errors.New("hash: checksum mismatch")

var crc32cTable = crc32.MakeTable(crc32.Castagnoli)

// CRC32C computes the CRC32-Castagnoli checksum of data.
func CRC32C(data []byte) uint32 {
	return crc32.Checksum(data, crc32cTable)
}

// NewCRC32C returns a streaming CRC32-Castagnoli hash.
func NewCRC32C() hash.Hash32 {
	return crc32.New(crc32cTable)
}

// Seal appends the little-endian checksum of frame to frame.
func Seal(frame []byte) []byte {
	return binary.LittleEndian.AppendUint32(frame, CRC32C(frame))
}

// Verify checks a frame produced by Seal and returns it without the checksum.
func Verify(sealed []byte) ([]byte, error) {
	if len(sealed) < Size {
		return nil, ErrChecksum
	}
	n := len(sealed) - Size
	if binary.LittleEndian.Uint32(sealed[n:]) != CRC32C(sealed[:n]) {
		return nil, ErrChecksum
	}
	return sealed[:n], nil
}
