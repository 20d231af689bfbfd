package lines

import (
	"bytes"
	"errors"
	"fmt"
	"io"
)

const boundaryChunk = 4096

// Range is a half-open byte range [Start, End) of a file.
type Range struct {
	Start int64
	End   int64
}

func (r Range) Len() int64 {
	return r.End - r.Start
}

// Section returns a reader limited to the range.
func (r Range) Section(ra io.ReaderAt) *io.SectionReader {
	return io.NewSectionReader(ra, r.Start, r.Len())
}

// Partition splits [0, size) into at most n contiguous ranges. Every range
// except the first starts immediately after a '\n', so no line is split
// across two ranges. Empty ranges are never returned.
func Partition(ra io.ReaderAt, size int64, n int) ([]Range, error) {
	if size <= 0 {
		return nil, nil
	}
	n = max(n, 1)

	ranges := make([]Range, 0, n)
	var start int64

	for i := 1; i < n && start < size; i++ {
		target := max(size*int64(i)/int64(n), start)

		end, err := nextLineStart(ra, target, size)
		if err != nil {
			return nil, fmt.Errorf("unable to find line boundary near %d: %w", target, err)
		}
		if end >= size {
			break
		}
		if end > start {
			ranges = append(ranges, Range{Start: start, End: end})
			start = end
		}
	}

	return append(ranges, Range{Start: start, End: size}), nil
}

// nextLineStart returns the smallest offset >= pos that begins a line,
// or size if there is none.
func nextLineStart(ra io.ReaderAt, pos, size int64) (int64, error) {
	if pos == 0 {
		return 0, nil
	}

	// A line starts at pos if the byte before it is a newline.
	pos--
	buf := make([]byte, boundaryChunk)

	for pos < size {
		n, err := ra.ReadAt(buf[:min(int64(len(buf)), size-pos)], pos)
		if idx := bytes.IndexByte(buf[:n], '\n'); idx >= 0 {
			return pos + int64(idx) + 1, nil
		}
		if err != nil && !errors.Is(err, io.EOF) {
			return 0, err
		}
		if n == 0 {
			break
		}
		pos += int64(n)
	}
	return size, nil
}
