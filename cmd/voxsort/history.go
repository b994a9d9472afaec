package main

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/hupe1980/voxsort/codec"
)

func newHistoryCmd(g *globalFlags) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recorded runs of --dataset, newest first, as JSON lines",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			c, err := g.codec()
			if err != nil {
				return err
			}
			rec, err := g.recorder(ctx)
			if err != nil {
				return err
			}
			if rec == nil {
				return errors.New("history needs --runlog-table")
			}

			records, err := rec.List(ctx, g.datasetName(), limit)
			if err != nil {
				return err
			}
			for _, r := range records {
				if err := codec.Encode(cmd.OutOrStdout(), c, r); err != nil {
					return err
				}
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "maximum number of runs (0 = all)")
	return cmd
}
