package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/ozdeals/dealboard/internal/feedgen"
	"github.com/ozdeals/dealboard/pkg/logger"
)

const defaultNumDeals = 40

func main() {
	var (
		numDeals   = flag.Int("deals", defaultNumDeals, "Number of deals to generate")
		outputFile = flag.String("output", "", "Output file for the TSV (default: stdout)")
		addr       = flag.String("addr", "", "Serve the feed over HTTP at this address instead of writing it")
		seed       = flag.Int64("seed", 0, "Random seed for reproducible feeds (0 = time-based)")
		messy      = flag.Float64("messy", 0.25, "Fraction of rows generated with realistic feed defects")
	)
	flag.Parse()

	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := &feedgen.Config{
		NumDeals:   *numDeals,
		OutputFile: *outputFile,
		Addr:       *addr,
		Seed:       *seed,
		MessyRatio: *messy,
	}
	if err := feedgen.Run(ctx, cfg); err != nil {
		os.Stderr.WriteString("feed generation failed: " + err.Error() + "\n")
		return
	}
}
