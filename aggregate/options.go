package aggregate

import (
	"log/slog"
)

type Option func(*runner) *runner

// WithWorkers sets how many partitions RunFile scans concurrently.
func WithWorkers(n int) Option {
	return func(r *runner) *runner {
		r.workers = n
		return r
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(r *runner) *runner {
		r.logger = logger
		return r
	}
}

// WithBufferSize sets the read buffer used by each scanner.
func WithBufferSize(n int) Option {
	return func(r *runner) *runner {
		r.bufSize = n
		return r
	}
}

// WithMaxLineSize sets the longest line accepted. Longer lines fail the
// run with lines.ErrLineTooLong.
func WithMaxLineSize(n int) Option {
	return func(r *runner) *runner {
		r.maxLine = n
		return r
	}
}

// WithTableSize presizes every table for n distinct keys.
func WithTableSize(n int) Option {
	return func(r *runner) *runner {
		r.tableSize = n
		return r
	}
}
