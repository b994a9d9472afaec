package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeList(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	return p
}

func run(t *testing.T, args ...string) (int, string, string) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := execute(t.Context(), "./compare_results", args, &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func TestIdentical(t *testing.T) {
	dir := t.TempDir()
	a := writeList(t, dir, "a.txt", "1\n3\n4\n")
	b := writeList(t, dir, "b.txt", "1\n3\n4\n")
	c := writeList(t, dir, "c.txt", "1 3\n4")

	code, out, errOut := run(t, a, b, c)
	assert.Equal(t, 0, code)
	assert.Empty(t, errOut)
	assert.Equal(t, "Files are identical.\n", out)
}

func TestDifference(t *testing.T) {
	dir := t.TempDir()
	a := writeList(t, dir, "a.txt", "1\n3\n4\n")
	b := writeList(t, dir, "b.txt", "1\n5\n4\n")

	code, out, _ := run(t, a, b)
	assert.Equal(t, 0, code)
	assert.Equal(t, fmt.Sprintf("Difference at line 2:\n  %s: 3\n  %s: 5\nFiles are NOT identical.\n", a, b), out)
}

func TestDifferentLengths(t *testing.T) {
	dir := t.TempDir()
	a := writeList(t, dir, "a.txt", "1\n3\n")
	b := writeList(t, dir, "b.txt", "1\n3\n4\n")

	code, out, _ := run(t, a, b)
	assert.Equal(t, 0, code)
	assert.Equal(t, "Files have different lengths.\nFiles are NOT identical.\n", out)
}

func TestDiffFlag(t *testing.T) {
	dir := t.TempDir()
	a := writeList(t, dir, "a.txt", "1\n3\n4\n")
	b := writeList(t, dir, "b.txt", "1\n4\n9\n")

	code, out, _ := run(t, "--diff", a, b)
	assert.Equal(t, 0, code)
	assert.Contains(t, out, "Files are NOT identical.\n")
	assert.Contains(t, out, "Common keys: 2\n")
	assert.Contains(t, out, fmt.Sprintf("Only in %s: 1 [3]\n", a))
	assert.Contains(t, out, fmt.Sprintf("Only in %s: 1 [9]\n", b))
}

func TestUsage(t *testing.T) {
	for _, args := range [][]string{nil, {"only.txt"}} {
		code, out, errOut := run(t, args...)
		assert.Equal(t, 1, code)
		assert.Empty(t, out)
		assert.Equal(t, "Usage: ./compare_results file1 file2 [file3 ...]\n", errOut)
	}
}

func TestTooManyFiles(t *testing.T) {
	args := make([]string, 11)
	for i := range args {
		args[i] = fmt.Sprintf("f%d.txt", i)
	}

	code, _, errOut := run(t, args...)
	assert.Equal(t, 1, code)
	assert.Equal(t, "Error: Maximum number of files to compare is 10\n", errOut)
}

func TestOpenFailure(t *testing.T) {
	dir := t.TempDir()
	a := writeList(t, dir, "a.txt", "1\n")
	missing := filepath.Join(dir, "missing.txt")

	code, out, errOut := run(t, a, missing)
	assert.Equal(t, 1, code)
	assert.Empty(t, out)
	assert.Equal(t, fmt.Sprintf("Error: Failed to open file %s\n", missing), errOut)
}
