package arena

import (
	"errors"
	"fmt"
	"sync/atomic"
)

// KeySize is the size in bytes of one buffered key.
const KeySize = 4

var (
	// ErrAllocationFailed is returned when a reservation is rejected.
	ErrAllocationFailed = errors.New("arena: allocation failed")
	// ErrConsumed is returned when a buffer is used after Take.
	ErrConsumed = errors.New("arena: buffer already consumed")
)

// MemoryAcquirer is an interface for acquiring memory.
type MemoryAcquirer interface {
	AcquireMemory(amount int64) error
	ReleaseMemory(amount int64)
}

// Buffer is a growable uint32 buffer with accounted capacity.
type Buffer struct {
	keys     []uint32
	mem      MemoryAcquirer
	reserved int64
	taken    atomic.Bool
}

// New creates a buffer with room for capacity keys.
// mem may be nil, in which case nothing is accounted.
func New(mem MemoryAcquirer, capacity int) (*Buffer, error) {
	b := &Buffer{mem: mem}
	if capacity > 0 {
		if err := b.reserve(capacity); err != nil {
			return nil, err
		}
		b.keys = make([]uint32, 0, capacity)
	}
	return b, nil
}

func (b *Buffer) reserve(keys int) error {
	bytes := int64(keys) * KeySize
	if b.mem != nil {
		if err := b.mem.AcquireMemory(bytes); err != nil {
			return fmt.Errorf("%w: %d bytes: %w", ErrAllocationFailed, bytes, err)
		}
	}
	b.reserved += bytes
	return nil
}

// Append adds k, doubling the capacity when full.
func (b *Buffer) Append(k uint32) error {
	if len(b.keys) == cap(b.keys) {
		if err := b.grow(); err != nil {
			return err
		}
	}
	b.keys = append(b.keys, k)
	return nil
}

func (b *Buffer) grow() error {
	if b.taken.Load() {
		return ErrConsumed
	}
	newCap := max(2*cap(b.keys), 16)
	if err := b.reserve(newCap - cap(b.keys)); err != nil {
		return err
	}
	grown := make([]uint32, len(b.keys), newCap)
	copy(grown, b.keys)
	b.keys = grown
	return nil
}

// Len returns the number of keys appended so far.
func (b *Buffer) Len() int { return len(b.keys) }

// Cap returns the current accounted capacity in keys.
func (b *Buffer) Cap() int { return cap(b.keys) }

// Keys returns a view of the buffered keys. The view is invalid after Take.
func (b *Buffer) Keys() []uint32 { return b.keys }

// Reserved returns the bytes currently charged for this buffer.
func (b *Buffer) Reserved() int64 { return b.reserved }

// Take transfers the keys to the caller and invalidates the buffer.
// The memory reservation stays in place until Release.
func (b *Buffer) Take() ([]uint32, error) {
	if !b.taken.CompareAndSwap(false, true) {
		return nil, ErrConsumed
	}
	keys := b.keys
	b.keys = nil
	return keys, nil
}

// Release returns the memory reservation and drops any remaining keys.
func (b *Buffer) Release() {
	if b == nil {
		return
	}
	if b.mem != nil && b.reserved > 0 {
		b.mem.ReleaseMemory(b.reserved)
	}
	b.reserved = 0
	b.keys = nil
	b.taken.Store(true)
}
