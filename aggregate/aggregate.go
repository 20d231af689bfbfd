package aggregate

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"runtime"
	"sync/atomic"

	"brc/lines"
	"brc/record"
	"brc/stats"

	"golang.org/x/sync/errgroup"
)

const (
	DEFAULT_TABLE_SIZE = 1024

	// How many lines a worker scans between cancellation checks.
	checkEvery = 1 << 14
)

// errSuperseded stops a partition once an earlier partition has failed;
// the earlier error is the one reported.
var errSuperseded = errors.New("earlier partition failed")

type runner struct {
	workers   int
	bufSize   int
	maxLine   int
	tableSize int
	logger    *slog.Logger
}

func newRunner(options ...Option) *runner {
	r := &runner{
		workers:   runtime.NumCPU(),
		bufSize:   lines.DEFAULT_BUFFER_SIZE,
		maxLine:   lines.MAX_LINE_SIZE,
		tableSize: DEFAULT_TABLE_SIZE,
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range options {
		r = opt(r)
	}
	return r
}

// Run aggregates every record of r in a single pass. Any read or format
// error aborts the run and no result is returned.
func Run(r io.Reader, options ...Option) (*Result, error) {
	rn := newRunner(options...)
	return rn.runSequential(context.Background(), r)
}

// RunFile aggregates the file at path, splitting it into line-aligned
// partitions scanned concurrently with a private table each. The partial
// tables are merged in partition order. When partitions fail, the error of
// the earliest one is returned, so it names the first bad line in the file.
func RunFile(ctx context.Context, path string, options ...Option) (*Result, error) {
	rn := newRunner(options...)

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("unable to open input: %w", err)
	}
	defer file.Close()

	if rn.workers <= 1 {
		return rn.runSequential(ctx, file)
	}

	fStat, err := file.Stat()
	if err != nil {
		return nil, fmt.Errorf("unable to stat file: %w", err)
	}

	ranges, err := lines.Partition(file, fStat.Size(), rn.workers)
	if err != nil {
		return nil, fmt.Errorf("unable to partition file: %w", err)
	}
	rn.logger.Debug("partitioned input",
		slog.String("path", path),
		slog.Int64("size", fStat.Size()),
		slog.Int("partitions", len(ranges)),
	)

	tables := make([]*stats.Table, len(ranges))
	counts := make([]uint64, len(ranges))
	errs := make([]error, len(ranges))

	// Lowest index of a failed partition. Only later partitions stop early.
	var failed atomic.Int64
	failed.Store(int64(len(ranges)))

	var g errgroup.Group
	for i, rg := range ranges {
		g.Go(func() error {
			check := func() error {
				if failed.Load() < int64(i) {
					return errSuperseded
				}
				return ctx.Err()
			}

			tbl := stats.NewTableSize(rn.tableSize)
			n, err := rn.scan(rg.Section(file), tbl, rg.Start, false, check)
			if err != nil {
				errs[i] = err
				for {
					cur := failed.Load()
					if cur <= int64(i) || failed.CompareAndSwap(cur, int64(i)) {
						break
					}
				}
				return nil
			}

			rn.logger.Debug("partition done",
				slog.Int("partition", i),
				slog.Int64("start", rg.Start),
				slog.Int64("end", rg.End),
				slog.Uint64("lines", n),
				slog.Int("keys", tbl.Len()),
			)
			tables[i] = tbl
			counts[i] = n
			return nil
		})
	}
	g.Wait()

	for _, err := range errs {
		if err != nil && !errors.Is(err, errSuperseded) {
			return nil, err
		}
	}

	res := &Result{table: stats.NewTableSize(rn.tableSize), partitions: len(ranges)}
	for i, tbl := range tables {
		res.table.Merge(tbl)
		res.lines += counts[i]
	}
	rn.logger.Debug("merged partitions", slog.Uint64("lines", res.lines), slog.Int("keys", res.table.Len()))

	return res, nil
}

func (rn *runner) runSequential(ctx context.Context, r io.Reader) (*Result, error) {
	tbl := stats.NewTableSize(rn.tableSize)
	n, err := rn.scan(r, tbl, 0, true, ctx.Err)
	if err != nil {
		return nil, err
	}
	rn.logger.Debug("scan complete", slog.Uint64("lines", n), slog.Int("keys", tbl.Len()))

	return &Result{table: tbl, lines: n, partitions: 1}, nil
}

// scan folds every line of r into tbl, calling check every checkEvery
// lines. Line numbers are only meaningful when r starts at the beginning
// of the input.
func (rn *runner) scan(r io.Reader, tbl *stats.Table, base int64, withLines bool, check func() error) (uint64, error) {
	sc := lines.NewScanner(r,
		lines.WithBufferSize(rn.bufSize),
		lines.WithMaxLineSize(rn.maxLine),
		lines.WithBaseOffset(base),
	)

	var n uint64
	for sc.Scan() {
		line := sc.Bytes()
		key, v, err := record.Parse(line)
		if err != nil {
			fe := &record.FormatError{Offset: sc.Offset(), Text: string(line), Err: err}
			if withLines {
				fe.Line = sc.Line()
			}
			return 0, fe
		}
		tbl.Upsert(key, v)

		n++
		if n%checkEvery == 0 {
			if err := check(); err != nil {
				return 0, err
			}
		}
	}
	if err := sc.Err(); err != nil {
		return 0, err
	}
	return n, nil
}
