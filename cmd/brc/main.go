package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"runtime"
	"runtime/pprof"
	"time"

	"brc/aggregate"
	"brc/lines"
	"brc/report"

	"github.com/fatih/color"
	"github.com/jamiealquiza/tachymeter"
	"github.com/rodaine/table"
)

var (
	filePath    string
	numWorkers  int
	maxLineSize int
	tableSize   int
	format      string
	runs        int
	profile     bool
	showStats   bool
	debug       bool
)

func init() {
	flag.StringVar(&filePath, "filePath", "measurements.txt", "path to the measurements file")
	flag.IntVar(&numWorkers, "numWorkers", runtime.NumCPU(), "number of workers")
	flag.IntVar(&maxLineSize, "maxLineSize", lines.MAX_LINE_SIZE, "longest accepted line in bytes")
	flag.IntVar(&tableSize, "tableSize", aggregate.DEFAULT_TABLE_SIZE, "expected number of distinct keys")
	flag.StringVar(&format, "format", "line", "output format: line or table")
	flag.IntVar(&runs, "runs", 1, "number of times to run, outputs must match")
	flag.BoolVar(&profile, "profile", false, "profile cpu")
	flag.BoolVar(&showStats, "stats", false, "print run statistics to stderr")
	flag.BoolVar(&debug, "debug", false, "enable debug logging")
	flag.Parse()
}

func main() {
	opts := &slog.HandlerOptions{Level: slog.LevelInfo}
	if debug {
		opts.Level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, opts))

	if err := run(logger); err != nil {
		logger.Error("run failed", slog.Any("err", err))
		os.Exit(1)
	}
}

func run(logger *slog.Logger) error {
	if format != "line" && format != "table" {
		return fmt.Errorf("unknown format %q", format)
	}
	if maxLineSize < 1 {
		return fmt.Errorf("invalid max line size %d", maxLineSize)
	}
	if tableSize < 0 {
		return fmt.Errorf("invalid table size %d", tableSize)
	}
	if runs < 1 {
		return fmt.Errorf("invalid number of runs %d", runs)
	}

	if profile {
		f, err := os.Create("cpu_profile.pprof")
		if err != nil {
			return fmt.Errorf("unable to create CPU profile: %w", err)
		}
		defer f.Close()

		if err := pprof.StartCPUProfile(f); err != nil {
			return fmt.Errorf("unable to start CPU profile: %w", err)
		}
		defer pprof.StopCPUProfile()
	}

	tach := tachymeter.New(&tachymeter.Config{Size: runs})

	var res *aggregate.Result
	var out string
	for i := range runs {
		start := time.Now()
		r, err := aggregate.RunFile(
			context.Background(),
			filePath,
			aggregate.WithWorkers(numWorkers),
			aggregate.WithMaxLineSize(maxLineSize),
			aggregate.WithTableSize(tableSize),
			aggregate.WithLogger(logger),
		)
		if err != nil {
			return err
		}
		elapsed := time.Since(start)
		tach.AddTime(elapsed)
		logger.Debug("run complete", slog.Int("run", i+1), slog.Duration("elapsed", elapsed))

		s := r.String()
		if res != nil && s != out {
			return fmt.Errorf("run %d produced a different result", i+1)
		}
		res, out = r, s
	}

	switch format {
	case "table":
		report.WriteTable(os.Stdout, res)
	default:
		fmt.Println(out)
	}

	if showStats {
		printStats(res, tach.Calc())
	}
	return nil
}

func printStats(res *aggregate.Result, m *tachymeter.Metrics) {
	headerFmt := color.New(color.FgGreen, color.Underline).SprintfFunc()
	columnFmt := color.New(color.FgYellow).SprintfFunc()

	tbl := table.
		New("Runs", "Lines", "Keys", "Partitions", "Min", "Avg", "P99", "Max").
		WithHeaderFormatter(headerFmt).
		WithFirstColumnFormatter(columnFmt).
		WithWriter(os.Stderr)

	tbl.AddRow(
		m.Count,
		res.Lines(),
		res.Len(),
		res.Partitions(),
		m.Time.Min,
		m.Time.Avg,
		m.Time.P99,
		m.Time.Max,
	)
	tbl.Print()
}
