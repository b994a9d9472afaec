package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/voxsort"
	"github.com/hupe1980/voxsort/blobstore/minio"
	"github.com/hupe1980/voxsort/codec"
	"github.com/hupe1980/voxsort/compare"
)

const testDims = "16x16x4"

func run(t *testing.T, args ...string) (int, string, string) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := execute(t.Context(), args, &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func genVolume(t *testing.T, dir string) string {
	t.Helper()
	input := filepath.Join(dir, "c8.raw")
	code, out, errOut := run(t, "gen", "--input", input, "--dims", testDims, "--seed", "7")
	require.Equal(t, 0, code, errOut)
	assert.Contains(t, out, "Wrote random volume 16x16x4 (1024 bytes)")
	return input
}

func TestStrategiesProduceIdenticalOutputs(t *testing.T) {
	dir := t.TempDir()
	input := genVolume(t, dir)

	seqOut := filepath.Join(dir, "morton_codes_seq.txt")
	thrOut := filepath.Join(dir, "morton_codes_pthread.txt")
	mpiOut := filepath.Join(dir, "morton_codes_mpi.txt.lz4")

	code, out, errOut := run(t, "seq", "--input", input, "--dims", testDims, "--output", seqOut)
	require.Equal(t, 0, code, errOut)
	assert.Contains(t, out, "Number of active voxels: ")
	assert.Contains(t, out, "Coordinate ranges:\n")
	assert.Contains(t, out, "Morton codes are correctly sorted.\n")
	assert.Contains(t, out, "Morton codes saved to morton_codes_seq.txt\n")
	assert.Contains(t, out, "Processing time (sequential): ")

	code, out, errOut = run(t, "threads", "3", "--input", input, "--dims", testDims, "--output", thrOut, "--aggregator", "heap")
	require.Equal(t, 0, code, errOut)
	assert.Contains(t, out, "Processing time with 3 threads: ")

	code, out, errOut = run(t, "dist", "2", "--input", input, "--dims", testDims, "--output", mpiOut,
		"--load-mode", "scatter", "--compress-wire", "--fill", "two-pass")
	require.Equal(t, 0, code, errOut)
	assert.Contains(t, out, "Processing time with 2 processes: ")

	report, err := compare.CompareFiles([]string{seqOut, thrOut, mpiOut})
	require.NoError(t, err)
	assert.True(t, report.Identical)
}

func TestJSONSummary(t *testing.T) {
	dir := t.TempDir()
	input := genVolume(t, dir)

	for _, name := range codec.Names {
		t.Run(name, func(t *testing.T) {
			code, out, errOut := run(t, "threads", "2", "--input", input, "--dims", testDims, "--no-save", "--json", "--json-codec", name)
			require.Equal(t, 0, code, errOut)

			c, ok := codec.ByName(name)
			require.True(t, ok)
			var s voxsort.Summary
			require.NoError(t, c.Unmarshal([]byte(out), &s))
			assert.Equal(t, "threads", s.Strategy)
			assert.Equal(t, 2, s.Workers)
			assert.True(t, s.Sorted)
			assert.Empty(t, s.Output)
			assert.LessOrEqual(t, len(s.First), 10)
		})
	}
}

func TestInvalidArguments(t *testing.T) {
	dir := t.TempDir()
	input := genVolume(t, dir)

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"ZeroThreads", []string{"threads", "0"}, "invalid number of threads"},
		{"NotANumber", []string{"dist", "four"}, "invalid number of processes"},
		{"MissingCount", []string{"threads"}, "accepts 1 arg"},
		{"BadDims", []string{"seq", "--dims", "16x16"}, "invalid dimensions"},
		{"BadFill", []string{"seq", "--fill", "lazy"}, "unknown fill mode"},
		{"BadLoadMode", []string{"dist", "2", "--load-mode", "broadcast"}, "unknown load mode"},
		{"BadAggregator", []string{"threads", "2", "--aggregator", "bogus"}, "bogus"},
		{"BadLogLevel", []string{"seq", "--log-level", "loud"}, "loud"},
		{"BadJSONCodec", []string{"seq", "--json", "--json-codec", "msgpack"}, "unknown JSON codec"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := append(tt.args, "--input", input, "--no-save")
			if !containsFlag(args, "--dims") {
				args = append(args, "--dims", testDims)
			}
			code, _, errOut := run(t, args...)
			assert.Equal(t, 1, code)
			assert.Contains(t, errOut, tt.want)
		})
	}
}

func containsFlag(args []string, flag string) bool {
	for _, a := range args {
		if a == flag {
			return true
		}
	}
	return false
}

func TestMissingInput(t *testing.T) {
	code, _, errOut := run(t, "seq", "--input", filepath.Join(t.TempDir(), "nope.raw"), "--dims", testDims)
	assert.Equal(t, 1, code)
	assert.Contains(t, errOut, "Error: ")
}

func TestSizeMismatch(t *testing.T) {
	dir := t.TempDir()
	input := genVolume(t, dir)

	code, _, errOut := run(t, "dist", "2", "--input", input, "--dims", "16x16x5", "--no-save")
	assert.Equal(t, 1, code)
	assert.Contains(t, errOut, "size")
}

func TestOutputFailureStillReports(t *testing.T) {
	dir := t.TempDir()
	input := genVolume(t, dir)

	blocker := filepath.Join(dir, "file")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o644))

	code, out, errOut := run(t, "seq", "--input", input, "--dims", testDims,
		"--output", filepath.Join(blocker, "morton_codes_seq.txt"))
	assert.Equal(t, 0, code)
	assert.Contains(t, errOut, "Error: Failed to open output file for writing.\n")
	assert.Contains(t, out, "Morton codes are correctly sorted.\n")
	assert.NotContains(t, out, "Morton codes saved to")
}

func TestMemoryLimit(t *testing.T) {
	dir := t.TempDir()
	input := genVolume(t, dir)

	code, _, errOut := run(t, "threads", "2", "--input", input, "--dims", testDims,
		"--no-save", "--memory-limit", "64", "--initial-capacity", "8")
	assert.Equal(t, 1, code)
	assert.Contains(t, errOut, "allocation failed")
}

func TestHistoryNeedsTable(t *testing.T) {
	code, _, errOut := run(t, "history")
	assert.Equal(t, 1, code)
	assert.Contains(t, errOut, "--runlog-table")
}

func TestResolve(t *testing.T) {
	t.Run("Local", func(t *testing.T) {
		loc, err := resolve(t.Context(), filepath.Join("data", "c8.raw"))
		require.NoError(t, err)
		assert.Equal(t, "c8.raw", loc.name)
	})

	t.Run("MinIO", func(t *testing.T) {
		loc, err := resolve(t.Context(), "minio://localhost:9000/volumes/scans/c8.raw")
		require.NoError(t, err)
		assert.Equal(t, "c8.raw", loc.name)
		assert.IsType(t, &minio.Store{}, loc.store)
	})

	for _, raw := range []string{
		"s3://bucket",
		"s3:///c8.raw",
		"minio://localhost:9000/bucket",
		"ftp://host/c8.raw",
	} {
		t.Run(raw, func(t *testing.T) {
			_, err := resolve(t.Context(), raw)
			assert.Error(t, err)
		})
	}
}
