package main

import (
	"context"
	"flag"
	"os"
	"runtime"
	"time"

	"github.com/arijit3111w/estateai/internal/domain/dataset"
	"github.com/arijit3111w/estateai/internal/probe"
	"github.com/arijit3111w/estateai/pkg/logger"
)

// Default configuration constants.
const (
	defaultQueries      = 500
	defaultK            = 10
	defaultWorkers      = 2 // multiplier for runtime.NumCPU()
	defaultTimeout      = 10 * time.Second
	defaultProbeTimeout = 10 * time.Minute
	defaultRows         = 5000
	datasetFileMode     = 0o644
)

func main() {
	var (
		baseURL   = flag.String("url", "http://localhost:9080", "Base URL of the service")
		queries   = flag.Int("queries", defaultQueries, "Number of similarity queries")
		k         = flag.Int("k", defaultK, "Result size per query")
		workers   = flag.Int("workers", runtime.NumCPU()*defaultWorkers, "Number of concurrent workers")
		timeout   = flag.Duration("timeout", defaultTimeout, "HTTP request timeout")
		cellSize  = flag.Float64("cell-size", 0, "Heatmap cell size to verify (0 uses the server default)")
		seed      = flag.Uint64("seed", 1, "Seed for generated targets and rows")
		writeData = flag.String("write-dataset", "", "Write a synthetic CSV to this path and exit")
		rows      = flag.Int("rows", defaultRows, "Rows for -write-dataset")
		logFile   = flag.String("log", "", "Also write logs to this file")
		verbose   = flag.Bool("verbose", false, "Log every failed query")
		help      = flag.Bool("help", false, "Show help")
	)
	flag.Parse()

	if *help {
		probe.ShowHelp()
		return
	}

	if err := probe.SetupLogging(*logFile, *verbose); err != nil {
		_, _ = os.Stderr.WriteString("Failed to setup logging: " + err.Error() + "\n")
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), defaultProbeTimeout)
	defer cancel()

	if *writeData != "" {
		if err := writeDataset(ctx, *writeData, *rows, *seed); err != nil {
			logger.Get().Fatal(ctx, "failed to write dataset", logger.Error(err))
		}
		logger.Get().Info(ctx, "dataset written", logger.String("path", *writeData), logger.Int("rows", *rows))
		return
	}

	cfg := &probe.Config{
		BaseURL:  *baseURL,
		Queries:  *queries,
		K:        *k,
		Workers:  *workers,
		Timeout:  *timeout,
		CellSize: *cellSize,
		Seed:     *seed,
		Verbose:  *verbose,
	}
	if _, err := probe.Run(ctx, cfg); err != nil {
		logger.Get().Fatal(ctx, "probe failed", logger.Error(err))
	}
}

func writeDataset(ctx context.Context, path string, rows int, seed uint64) (err error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, datasetFileMode)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	return probe.NewGenerator(seed, dataset.DefaultRegion()).WriteDataset(ctx, f, rows)
}
