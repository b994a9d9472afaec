package compare

import (
	"errors"
	"fmt"
	"io"

	"github.com/hupe1980/voxsort/keylist"
)

const (
	// MinSources is the fewest lists Compare accepts.
	MinSources = 2
	// MaxSources is the most lists Compare accepts.
	MaxSources = 10
)

var (
	// ErrTooFewSources is returned for fewer than MinSources lists.
	ErrTooFewSources = errors.New("compare: at least 2 sources required")
	// ErrTooManySources is returned for more than MaxSources lists.
	ErrTooManySources = fmt.Errorf("compare: maximum number of files to compare is %d", MaxSources)
)

// Source is one named key list.
type Source struct {
	Name   string
	Reader io.Reader
}

// Report is the outcome of Compare.
type Report struct {
	// Sources are the names of the compared lists, in order.
	Sources []string
	// Identical is true when every list holds the same keys in the same order.
	Identical bool
	// LengthMismatch is true when some but not all lists ended.
	LengthMismatch bool
	// Line is the 1-based line of the first value mismatch, or 0.
	Line int
	// Values holds each list's value at Line.
	Values []uint32
	// Lines is the number of lines that matched.
	Lines int
}

// CheckCount validates the number of sources.
func CheckCount(n int) error {
	switch {
	case n < MinSources:
		return ErrTooFewSources
	case n > MaxSources:
		return ErrTooManySources
	}
	return nil
}

// Compare reads every source in lock step, one key at a time.
// A token that is not an unsigned decimal ends its source.
func Compare(sources []Source) (*Report, error) {
	if err := CheckCount(len(sources)); err != nil {
		return nil, err
	}

	r := &Report{Sources: make([]string, len(sources))}
	scanners := make([]*keylist.Scanner, len(sources))
	for i, s := range sources {
		r.Sources[i] = s.Name
		scanners[i] = keylist.NewScanner(s.Reader)
	}

	values := make([]uint32, len(sources))
	exhausted := make([]bool, len(sources))
	for line := 1; ; line++ {
		ended := 0
		for i, s := range scanners {
			if exhausted[i] {
				ended++
				continue
			}
			v, ok := s.Next()
			if !ok {
				if err := s.Err(); err != nil {
					return nil, fmt.Errorf("compare: read %s: %w", r.Sources[i], err)
				}
				exhausted[i] = true
				ended++
				continue
			}
			values[i] = v
		}

		switch {
		case ended == len(scanners):
			r.Identical = true
			return r, nil
		case ended > 0:
			r.LengthMismatch = true
			return r, nil
		}

		for i := 1; i < len(values); i++ {
			if values[i] != values[0] {
				r.Line = line
				r.Values = append([]uint32(nil), values...)
				return r, nil
			}
		}
		r.Lines++
	}
}

// Render writes the console report.
func (r *Report) Render(w io.Writer) error {
	var err error
	printf := func(format string, args ...any) {
		if err == nil {
			_, err = fmt.Fprintf(w, format, args...)
		}
	}

	switch {
	case r.LengthMismatch:
		printf("Files have different lengths.\n")
	case r.Line > 0:
		printf("Difference at line %d:\n", r.Line)
		for i, name := range r.Sources {
			printf("  %s: %d\n", name, r.Values[i])
		}
	}

	if r.Identical {
		printf("Files are identical.\n")
	} else {
		printf("Files are NOT identical.\n")
	}
	return err
}

// OpenError reports a key list that could not be opened.
type OpenError struct {
	Path string
	Err  error
}

func (e *OpenError) Error() string {
	return fmt.Sprintf("Failed to open file %s", e.Path)
}

func (e *OpenError) Unwrap() error { return e.Err }

// CompareFiles opens paths as key lists and compares them.
// Every opened file is closed before it returns.
func CompareFiles(paths []string) (*Report, error) {
	if err := CheckCount(len(paths)); err != nil {
		return nil, err
	}

	sources := make([]Source, 0, len(paths))
	defer func() {
		for _, s := range sources {
			_ = s.Reader.(io.Closer).Close()
		}
	}()

	for _, p := range paths {
		rc, err := keylist.Open(p)
		if err != nil {
			return nil, &OpenError{Path: p, Err: err}
		}
		sources = append(sources, Source{Name: p, Reader: rc})
	}

	return Compare(sources)
}
