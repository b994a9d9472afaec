// Command compare-results checks that 2 to 10 key lists hold the same keys in
// the same order, reading them in lock step and stopping at the first
// divergence. It exits 1 on a usage error or when a file cannot be opened and
// 0 otherwise, whether or not the lists are identical.
//
//	compare-results morton_codes_seq.txt morton_codes_pthread.txt morton_codes_mpi.txt
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/hupe1980/voxsort/compare"
	"github.com/hupe1980/voxsort/keylist"
)

func main() {
	os.Exit(execute(context.Background(), os.Args[0], os.Args[1:], os.Stdout, os.Stderr))
}

// errReported marks a failure whose message was already written.
var errReported = errors.New("reported")

func execute(ctx context.Context, prog string, args []string, stdout, stderr io.Writer) int {
	cmd := newRootCmd(prog)
	if args == nil {
		args = []string{} // cobra falls back to os.Args on nil
	}
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	if err := cmd.ExecuteContext(ctx); err != nil {
		if !errors.Is(err, errReported) {
			fmt.Fprintf(stderr, "Error: %v\n", err)
		}
		return 1
	}
	return 0
}

func newRootCmd(prog string) *cobra.Command {
	var diff bool

	cmd := &cobra.Command{
		Use:           "compare-results file1 file2 [file3 ...]",
		Short:         "Compare Morton key lists line by line",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			stdout, stderr := cmd.OutOrStdout(), cmd.ErrOrStderr()

			switch err := compare.CheckCount(len(args)); {
			case errors.Is(err, compare.ErrTooFewSources):
				fmt.Fprintf(stderr, "Usage: %s file1 file2 [file3 ...]\n", prog)
				return errReported
			case errors.Is(err, compare.ErrTooManySources):
				fmt.Fprintf(stderr, "Error: Maximum number of files to compare is %d\n", compare.MaxSources)
				return errReported
			}

			report, err := compare.CompareFiles(args)
			if err != nil {
				return err
			}
			if err := report.Render(stdout); err != nil {
				return err
			}

			if diff && !report.Identical {
				return renderDiff(stdout, args[0], args[1])
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&diff, "diff", false, "on divergence, count the keys only in the first or only in the second list")
	return cmd
}

func renderDiff(w io.Writer, a, b string) error {
	ra, err := keylist.Open(a)
	if err != nil {
		return &compare.OpenError{Path: a, Err: err}
	}
	defer ra.Close()

	rb, err := keylist.Open(b)
	if err != nil {
		return &compare.OpenError{Path: b, Err: err}
	}
	defer rb.Close()

	d, err := compare.Diff(ra, rb)
	if err != nil {
		return err
	}
	return d.Render(w, a, b)
}
