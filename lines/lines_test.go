package lines

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"testing"
	"testing/iotest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/rand"
)

func scanAll(t *testing.T, s *Scanner) ([]string, []int64) {
	t.Helper()
	var got []string
	var offsets []int64
	for s.Scan() {
		got = append(got, string(s.Bytes()))
		offsets = append(offsets, s.Offset())
		assert.Equal(t, len(got), s.Line())
	}
	require.NoError(t, s.Err())
	return got, offsets
}

func TestScanner(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		lines   []string
		offsets []int64
	}{
		{"empty", "", nil, nil},
		{"trailing newline", "a;1\nbb;2\n", []string{"a;1", "bb;2"}, []int64{0, 4}},
		{"no trailing newline", "a;1\nbb;2", []string{"a;1", "bb;2"}, []int64{0, 4}},
		{"crlf", "a;1\r\nbb;2\r\n", []string{"a;1", "bb;2"}, []int64{0, 5}},
		{"blank line", "a;1\n\nc;3\n", []string{"a;1", "", "c;3"}, []int64{0, 4, 5}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, offsets := scanAll(t, NewScanner(strings.NewReader(tt.input)))
			assert.Equal(t, tt.lines, got)
			assert.Equal(t, tt.offsets, offsets)
		})
	}
}

func TestScannerSmallReads(t *testing.T) {
	input := "Hamburg;12.0\nBulawayo;8.9\nHamburg;10.0\n"
	s := NewScanner(iotest.OneByteReader(strings.NewReader(input)), WithBufferSize(16), WithBaseOffset(100))

	got, offsets := scanAll(t, s)
	assert.Equal(t, []string{"Hamburg;12.0", "Bulawayo;8.9", "Hamburg;10.0"}, got)
	assert.Equal(t, []int64{100, 113, 126}, offsets)
}

func TestScannerReadError(t *testing.T) {
	boom := errors.New("boom")
	s := NewScanner(&errAfter{r: strings.NewReader("a;1\nb;2\n"), err: boom})

	assert.True(t, s.Scan())
	assert.True(t, s.Scan())
	assert.False(t, s.Scan())
	assert.ErrorIs(t, s.Err(), boom)
	assert.Contains(t, s.Err().Error(), "line 3")
	assert.False(t, s.Scan())
}

func TestScannerLineTooLong(t *testing.T) {
	s := NewScanner(strings.NewReader(strings.Repeat("x", 64)+"\n"), WithBufferSize(16), WithMaxLineSize(16))

	assert.False(t, s.Scan())
	assert.ErrorIs(t, s.Err(), ErrLineTooLong)
	assert.Contains(t, s.Err().Error(), "line 1")
}

func TestScannerLongLine(t *testing.T) {
	long := strings.Repeat("k", 2<<20) + ";1.0"
	s := NewScanner(strings.NewReader("a;1\n"+long+"\n"), WithMaxLineSize(4<<20))

	got, offsets := scanAll(t, s)
	require.Len(t, got, 2)
	assert.Equal(t, long, got[1])
	assert.Equal(t, []int64{0, 4}, offsets)
}

type errAfter struct {
	r   *strings.Reader
	err error
}

func (e *errAfter) Read(p []byte) (int, error) {
	n, err := e.r.Read(p)
	if err != nil {
		return n, e.err
	}
	return n, nil
}

func genFile(r *rand.Rand, n int) []byte {
	var b bytes.Buffer
	for range n {
		fmt.Fprintf(&b, "%s;%d.%d\n", strings.Repeat("k", 1+r.Intn(40)), r.Intn(100), r.Intn(10))
	}
	return b.Bytes()
}

func TestPartition(t *testing.T) {
	r := rand.New(rand.NewSource(3))
	data := genFile(r, 2_000)
	ra := bytes.NewReader(data)

	for _, n := range []int{1, 2, 3, 7, 16, 100, 5_000} {
		t.Run(fmt.Sprintf("n=%d", n), func(t *testing.T) {
			ranges, err := Partition(ra, int64(len(data)), n)
			require.NoError(t, err)
			require.NotEmpty(t, ranges)
			assert.LessOrEqual(t, len(ranges), n)

			var prev int64
			var lines int
			for _, rg := range ranges {
				assert.Equal(t, prev, rg.Start)
				assert.Greater(t, rg.Len(), int64(0))
				if rg.Start > 0 {
					assert.Equal(t, byte('\n'), data[rg.Start-1])
				}
				prev = rg.End

				got, _ := scanAll(t, NewScanner(rg.Section(ra)))
				lines += len(got)
			}
			assert.Equal(t, int64(len(data)), prev)
			assert.Equal(t, 2_000, lines)
		})
	}
}

func TestPartitionLongLines(t *testing.T) {
	data := []byte(strings.Repeat("x", 10_000) + ";1\n" + "y;2\n")
	ranges, err := Partition(bytes.NewReader(data), int64(len(data)), 8)
	require.NoError(t, err)

	assert.Equal(t, []Range{{Start: 0, End: 10_003}, {Start: 10_003, End: int64(len(data))}}, ranges)
}

func TestPartitionNoNewline(t *testing.T) {
	data := []byte("abc;1")
	ranges, err := Partition(bytes.NewReader(data), int64(len(data)), 4)
	require.NoError(t, err)
	assert.Equal(t, []Range{{Start: 0, End: 5}}, ranges)

	ranges, err = Partition(bytes.NewReader(nil), 0, 4)
	require.NoError(t, err)
	assert.Empty(t, ranges)
}
