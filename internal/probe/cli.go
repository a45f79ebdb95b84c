package probe

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/arijit3111w/estateai/pkg/logger"
)

// File permission constants.
const (
	logFilePermission = 0o600
)

// SetupLogging initialises the logger, teeing output to logFile when set.
func SetupLogging(logFile string, verbose bool) error {
	var w io.Writer = os.Stdout
	if logFile != "" {
		file, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, logFilePermission)
		if err != nil {
			return fmt.Errorf("failed to create log file: %w", err)
		}
		w = io.MultiWriter(os.Stdout, file)
	}
	if err := logger.Init(logger.WithWriter(w)); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	if verbose {
		_ = logger.SetLevelString("debug")
	}
	if logFile != "" {
		logger.Get().Info(context.Background(), "logging to file", logger.String("logFile", logFile))
	}
	return nil
}

// ShowHelp prints usage information for the probe tool.
func ShowHelp() {
	_, _ = os.Stdout.WriteString(`estateai probe
==============

Fires concurrent similarity queries at a running service and checks that
every ranking is ordered and that the heatmap covers the whole dataset.
It can also write a synthetic dataset for ESTATE_DATASET_SOURCE.

Usage:
  go run ./cmd/probe [options]

Options:
  -url string
        Base URL of the service (default "http://localhost:9080")
  -queries int
        Number of similarity queries (default 500)
  -k int
        Result size per query (default 10)
  -workers int
        Number of concurrent workers (default CPU cores * 2)
  -timeout duration
        HTTP request timeout (default 10s)
  -cell-size float
        Heatmap cell size to verify (default: server default)
  -seed uint
        Seed for generated targets and rows (default 1)
  -write-dataset string
        Write a synthetic CSV to this path and exit
  -rows int
        Rows for -write-dataset (default 5000)
  -log string
        Also write logs to this file
  -verbose
        Log every failed query
  -help
        Show this help message

Examples:
  go run ./cmd/probe -queries 2000 -workers 16
  go run ./cmd/probe -write-dataset /tmp/listings.csv -rows 20000
`)
}
