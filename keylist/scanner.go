package keylist

import (
	"bufio"
	"io"
	"strconv"
)

// Scanner reads whitespace-separated unsigned decimal keys.
//
// A token that does not parse as an unsigned 32-bit integer ends the stream,
// the same as reaching the end of the input. Err reports IO errors only.
type Scanner struct {
	s    *bufio.Scanner
	done bool
	bad  string
}

// NewScanner returns a Scanner reading from r.
func NewScanner(r io.Reader) *Scanner {
	s := bufio.NewScanner(r)
	s.Split(bufio.ScanWords)
	return &Scanner{s: s}
}

// Next returns the next key, or false once the stream is exhausted.
func (s *Scanner) Next() (uint32, bool) {
	if s.done {
		return 0, false
	}
	if !s.s.Scan() {
		s.done = true
		return 0, false
	}
	v, err := strconv.ParseUint(s.s.Text(), 10, 32)
	if err != nil {
		s.done = true
		s.bad = s.s.Text()
		return 0, false
	}
	return uint32(v), true
}

// Err returns the first IO error encountered.
func (s *Scanner) Err() error { return s.s.Err() }

// Malformed returns the token that ended the stream early, if any.
func (s *Scanner) Malformed() string { return s.bad }
