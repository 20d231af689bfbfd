package main

import (
	"flag"
	"log/slog"
	"os"
	"time"

	"brc/gen"
)

var (
	outPath string
	cfg     = gen.DefaultConfig()
)

func init() {
	flag.StringVar(&outPath, "out", "measurements.txt", "output file")
	flag.IntVar(&cfg.Rows, "rows", cfg.Rows, "number of records")
	flag.IntVar(&cfg.Keys, "keys", cfg.Keys, "number of distinct stations")
	flag.Float64Var(&cfg.Skew, "skew", cfg.Skew, "zipf exponent for station choice, > 1")
	flag.Uint64Var(&cfg.Seed, "seed", cfg.Seed, "random seed")
	flag.Parse()
}

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	start := time.Now()
	if err := gen.GenerateFile(outPath, cfg); err != nil {
		logger.Error("unable to generate measurements", slog.String("path", outPath), slog.Any("err", err))
		os.Exit(1)
	}

	logger.Info("generated measurements",
		slog.String("path", outPath),
		slog.Int("rows", cfg.Rows),
		slog.Int("keys", cfg.Keys),
		slog.Duration("elapsed", time.Since(start)),
	)
}
