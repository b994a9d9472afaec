package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hupe1980/voxsort/testutil"
	"github.com/hupe1980/voxsort/volume"
)

func newGenCmd(g *globalFlags) *cobra.Command {
	var (
		pattern    string
		seed       int64
		activeRate float64
		radius     float64
		value      uint8
	)

	cmd := &cobra.Command{
		Use:   "gen",
		Short: "Write a synthetic volume to --input",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			dims, err := volume.ParseDims(g.dims)
			if err != nil {
				return err
			}

			var data []byte
			switch pattern {
			case "random":
				data = testutil.NewRNG(seed).Volume(dims, 25, activeRate)
			case "sphere":
				if radius <= 0 {
					radius = float64(min(dims.X, dims.Y, dims.Z)) / 3
				}
				data = testutil.Sphere(dims, radius, value)
			case "constant":
				data = testutil.Constant(dims, value)
			default:
				return fmt.Errorf("unknown pattern %q", pattern)
			}

			loc, err := resolve(ctx, g.input)
			if err != nil {
				return err
			}
			if err := loc.store.Put(ctx, loc.name, data); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s volume %s (%d bytes) to %s\n", pattern, dims, len(data), g.input)
			return nil
		},
	}

	fl := cmd.Flags()
	fl.StringVar(&pattern, "pattern", "random", "voxel pattern: random, sphere or constant")
	fl.Int64Var(&seed, "seed", 1, "random pattern seed")
	fl.Float64Var(&activeRate, "active-rate", 0.2, "fraction of active voxels in the random pattern")
	fl.Float64Var(&radius, "radius", 0, "sphere radius in voxels (default: a third of the smallest side)")
	fl.Uint8Var(&value, "value", 200, "voxel value of the sphere and constant patterns")
	return cmd
}
