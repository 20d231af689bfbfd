package lines

import (
	"bufio"
	"errors"
	"fmt"
	"io"
)

const (
	DEFAULT_BUFFER_SIZE = 1024 * 1024 // 1 MB
	MAX_LINE_SIZE       = 1024 * 1024 // 1 MB
)

var ErrLineTooLong = errors.New("line exceeds maximum line size")

// Scanner yields the lines of a stream once each, in order, without their
// terminators. It cannot be rewound.
type Scanner struct {
	sc *bufio.Scanner

	bufSize int
	maxLine int
	base    int64

	line  int
	start int64
	end   int64
	err   error
}

type ScannerOption func(*Scanner) *Scanner

// WithBufferSize sets the initial read buffer size.
func WithBufferSize(n int) ScannerOption {
	return func(s *Scanner) *Scanner {
		s.bufSize = n
		return s
	}
}

// WithMaxLineSize sets the longest line accepted before Scan fails.
func WithMaxLineSize(n int) ScannerOption {
	return func(s *Scanner) *Scanner {
		s.maxLine = n
		return s
	}
}

// WithBaseOffset adds off to every reported Offset. It is used when the
// stream is a section of a larger file.
func WithBaseOffset(off int64) ScannerOption {
	return func(s *Scanner) *Scanner {
		s.base = off
		return s
	}
}

func NewScanner(r io.Reader, opts ...ScannerOption) *Scanner {
	s := &Scanner{
		sc:      bufio.NewScanner(r),
		bufSize: DEFAULT_BUFFER_SIZE,
		maxLine: MAX_LINE_SIZE,
	}
	for _, opt := range opts {
		s = opt(s)
	}

	s.sc.Buffer(make([]byte, s.bufSize), max(s.maxLine, s.bufSize))
	s.sc.Split(s.split)
	return s
}

// split wraps bufio.ScanLines to track where each line starts. ScanLines
// only advances when it returns a token, and it drops a trailing \r.
func (s *Scanner) split(data []byte, atEOF bool) (int, []byte, error) {
	advance, token, err := bufio.ScanLines(data, atEOF)
	if token != nil {
		s.start = s.end
		s.end += int64(advance)
	}
	return advance, token, err
}

func (s *Scanner) Scan() bool {
	if s.err != nil {
		return false
	}
	if s.sc.Scan() {
		s.line++
		return true
	}
	err := s.sc.Err()
	switch {
	case errors.Is(err, bufio.ErrTooLong):
		s.err = fmt.Errorf("line %d at offset %d is longer than %d bytes: %w",
			s.line+1, s.base+s.end, max(s.maxLine, s.bufSize), ErrLineTooLong)
	case err != nil:
		s.err = fmt.Errorf("unable to read line %d: %w", s.line+1, err)
	}
	return false
}

// Bytes returns the current line. The slice is only valid until the next
// call to Scan.
func (s *Scanner) Bytes() []byte {
	return s.sc.Bytes()
}

// Line returns the 1-based number of the current line.
func (s *Scanner) Line() int {
	return s.line
}

// Offset returns the byte offset of the current line.
func (s *Scanner) Offset() int64 {
	return s.base + s.start
}

func (s *Scanner) Err() error {
	return s.err
}
