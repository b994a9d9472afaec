package compare

import (
	"fmt"
	"io"

	"github.com/RoaringBitmap/roaring/v2"

	"github.com/hupe1980/voxsort/keylist"
)

// DiffReport counts the keys two lists do and do not share.
type DiffReport struct {
	Common int
	OnlyA  int
	OnlyB  int
	// SampleA and SampleB hold up to sampleSize of the smallest one-sided keys.
	SampleA []uint32
	SampleB []uint32
}

const sampleSize = 10

// Equal reports whether both sets hold the same keys.
func (d DiffReport) Equal() bool { return d.OnlyA == 0 && d.OnlyB == 0 }

// Diff loads both lists as key sets and compares them.
// Order and duplicates are ignored.
func Diff(a, b io.Reader) (DiffReport, error) {
	ba, err := load(a)
	if err != nil {
		return DiffReport{}, err
	}
	bb, err := load(b)
	if err != nil {
		return DiffReport{}, err
	}

	onlyA := roaring.AndNot(ba, bb)
	onlyB := roaring.AndNot(bb, ba)

	return DiffReport{
		Common:  int(roaring.And(ba, bb).GetCardinality()),
		OnlyA:   int(onlyA.GetCardinality()),
		OnlyB:   int(onlyB.GetCardinality()),
		SampleA: sample(onlyA),
		SampleB: sample(onlyB),
	}, nil
}

func load(r io.Reader) (*roaring.Bitmap, error) {
	bm := roaring.New()
	s := keylist.NewScanner(r)
	for {
		k, ok := s.Next()
		if !ok {
			break
		}
		bm.Add(k)
	}
	if err := s.Err(); err != nil {
		return nil, err
	}
	bm.RunOptimize()
	return bm, nil
}

func sample(bm *roaring.Bitmap) []uint32 {
	out := make([]uint32, 0, min(int(bm.GetCardinality()), sampleSize))
	it := bm.Iterator()
	for it.HasNext() && len(out) < sampleSize {
		out = append(out, it.Next())
	}
	return out
}

// Render writes a short human-readable summary.
func (d DiffReport) Render(w io.Writer, nameA, nameB string) error {
	_, err := fmt.Fprintf(w, "Common keys: %d\nOnly in %s: %d %v\nOnly in %s: %d %v\n",
		d.Common, nameA, d.OnlyA, d.SampleA, nameB, d.OnlyB, d.SampleB)
	return err
}
