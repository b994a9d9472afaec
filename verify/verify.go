// Package verify checks that a key list is globally sorted.
package verify

import (
	"fmt"

	"github.com/hupe1980/voxsort/morton"
)

// Verdict is the outcome of Check.
type Verdict struct {
	// Sorted reports whether the list is non-decreasing.
	Sorted bool
	// Index is the first i with keys[i-1] > keys[i], or -1 when Sorted.
	Index int
}

// Check scans keys once and reports the first descent.
// Empty and single-element lists are sorted.
func Check(keys []morton.Key) Verdict {
	for i := 1; i < len(keys); i++ {
		if keys[i-1] > keys[i] {
			return Verdict{Sorted: false, Index: i}
		}
	}
	return Verdict{Sorted: true, Index: -1}
}

func (v Verdict) String() string {
	if v.Sorted {
		return "Morton codes are correctly sorted."
	}
	return "Morton codes are NOT correctly sorted."
}

// Err returns a descriptive error for an unsorted verdict, or nil.
func (v Verdict) Err() error {
	if v.Sorted {
		return nil
	}
	return fmt.Errorf("array is not sorted at index %d", v.Index)
}
