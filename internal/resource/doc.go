// Package resource governs the memory and IO a run may consume.
//
// Two resource types are managed:
//
//   - Memory: every key buffer reservation is charged against an optional
//     hard budget. Reservations are non-blocking and fail fast with
//     ErrMemoryLimitExceeded. A failed reservation is how an allocation
//     failure surfaces, and callers treat it as fatal for the whole run.
//   - IO: an optional token bucket throttles volume loads.
//
// # Usage
//
//	rc := resource.NewController(resource.Config{
//	    MemoryLimitBytes:   2 << 30,
//	    IOLimitBytesPerSec: 200 << 20,
//	})
//
//	if err := rc.AcquireMemory(n * 4); err != nil {
//	    return err // abort the run
//	}
//	defer rc.ReleaseMemory(n * 4)
//
//	r := resource.NewRateLimitedReader(ctx, blobReader, rc)
//
// # Nil Safety
//
// All methods handle a nil Controller: memory is neither tracked nor
// limited, and IO is unthrottled.
package resource
