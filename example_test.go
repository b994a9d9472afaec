package voxsort_test

import (
	"context"
	"fmt"
	"os"

	"github.com/hupe1980/voxsort"
	"github.com/hupe1980/voxsort/blobstore"
	"github.com/hupe1980/voxsort/volume"
)

func Example() {
	ctx := context.Background()
	dims := volume.Dims{X: 2, Y: 2, Z: 2}

	store := blobstore.NewMemoryStore()
	_ = store.Put(ctx, "tiny.raw", []byte{0, 30, 0, 30, 30, 0, 0, 0})

	in := voxsort.Input{Store: store, Name: "tiny.raw", Dims: dims}
	res, err := voxsort.Run(ctx, voxsort.Threaded, in, voxsort.WithWorkers(2))
	if err != nil {
		fmt.Println(err)
		return
	}

	fmt.Println(res.Keys, res.Verdict.Sorted)
	// Output: [1 3 4] true
}

func ExampleSummary_Render() {
	ctx := context.Background()
	dims := volume.Dims{X: 2, Y: 1, Z: 1}

	vol, _ := volume.New(dims, []byte{26, 26})
	res, _ := voxsort.RunSequential(ctx, vol)

	s := res.Summary()
	s.Elapsed = 0
	_ = s.Render(os.Stdout)
	// Output:
	// Number of active voxels: 2
	// Coordinate ranges:
	// X: min = 0, max = 1
	// Y: min = 0, max = 0
	// Z: min = 0, max = 0
	// First 10 Morton codes:
	// 0
	// 1
	// Morton codes are correctly sorted.
	// Processing time (sequential): 0.000000 seconds
}
