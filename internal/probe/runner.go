package probe

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/arijit3111w/estateai/internal/domain/dataset"
	"github.com/arijit3111w/estateai/internal/domain/model"
	"github.com/arijit3111w/estateai/pkg/logger"
)

// Run executes the complete probe against cfg.BaseURL.
func Run(ctx context.Context, cfg *Config) (*Stats, error) {
	stats := &Stats{StartTime: time.Now()}
	log := logger.Get().Named("probe")

	log.Info(ctx, "starting estateai probe",
		logger.String("baseURL", cfg.BaseURL),
		logger.Int("queries", cfg.Queries),
		logger.Int("k", cfg.K),
		logger.Int("workers", cfg.Workers),
		logger.String("timeout", cfg.Timeout.String()))

	client := NewClient(cfg.BaseURL, cfg.Timeout)

	// Step 1: Check service health
	if err := client.Health(ctx); err != nil {
		return stats, fmt.Errorf("service health check failed: %w", err)
	}

	// Step 2: Heatmap must cover the dataset exactly
	records, err := client.Dataset(ctx)
	if err == nil {
		var cells []Cell
		if cells, err = client.Heatmap(ctx, cfg.CellSize); err == nil {
			stats.HeatmapCells = len(cells)
			err = VerifyCells(cells, records)
		}
	}
	stats.DatasetRecords = records
	if err != nil {
		return stats, fmt.Errorf("heatmap verification failed: %w", err)
	}

	// Step 3: Concurrent similarity queries
	gen := NewGenerator(cfg.Seed, dataset.DefaultRegion())
	targets := make([]model.TargetFeatureVector, cfg.Queries)
	for i := range targets {
		targets[i] = gen.Target()
	}
	if err := runQueries(ctx, cfg, client, targets, stats); err != nil {
		return stats, err
	}

	stats.EndTime = time.Now()
	stats.Duration = stats.EndTime.Sub(stats.StartTime)
	displayFinalStats(ctx, log, stats)

	if stats.OrderViolations > 0 {
		return stats, fmt.Errorf("%w: %d responses", ErrOrdering, stats.OrderViolations)
	}
	if stats.QueriesFailed > 0 {
		return stats, fmt.Errorf("%w: %d queries", ErrRequest, stats.QueriesFailed)
	}
	log.Info(ctx, "probe completed successfully")
	return stats, nil
}

// runQueries fans targets out to cfg.Workers workers.
func runQueries(ctx context.Context, cfg *Config, client *Client, targets []model.TargetFeatureVector, stats *Stats) error {
	log := logger.Get().Named("probe")
	var sent, ok, failed, violations atomic.Int64

	jobs := make(chan model.TargetFeatureVector, max(cfg.Workers, 1)*WorkerChannelMultiplier)
	var wg sync.WaitGroup
	for i := 0; i < max(cfg.Workers, 1); i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for target := range jobs {
				sent.Add(1)
				entries, err := client.Similar(ctx, target, cfg.K)
				if err != nil {
					failed.Add(1)
					if cfg.Verbose {
						log.Warn(ctx, "query failed", logger.Error(err))
					}
					continue
				}
				if err := VerifyRanking(entries, cfg.K); err != nil {
					violations.Add(1)
					log.Error(ctx, "ranking check failed", logger.Error(err))
					continue
				}
				ok.Add(1)
			}
		}()
	}

	func() {
		defer close(jobs)
		for _, t := range targets {
			select {
			case <-ctx.Done():
				return
			case jobs <- t:
			}
		}
	}()
	wg.Wait()

	stats.QueriesSent = int(sent.Load())
	stats.QueriesOK = int(ok.Load())
	stats.QueriesFailed = int(failed.Load())
	stats.OrderViolations = int(violations.Load())

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("probe interrupted: %w", err)
	}
	return nil
}

// displayFinalStats logs the final probe statistics.
func displayFinalStats(ctx context.Context, log logger.Logger, stats *Stats) {
	var successRate, qps float64
	if stats.QueriesSent > 0 {
		successRate = float64(stats.QueriesOK) / float64(stats.QueriesSent) * PercentageMultiplier
	}
	if stats.Duration > 0 {
		qps = float64(stats.QueriesSent) / stats.Duration.Seconds()
	}
	log.Info(ctx, "final statistics",
		logger.Int("queriesSent", stats.QueriesSent),
		logger.Int("queriesOK", stats.QueriesOK),
		logger.Int("queriesFailed", stats.QueriesFailed),
		logger.Int("orderViolations", stats.OrderViolations),
		logger.Int("heatmapCells", stats.HeatmapCells),
		logger.Int("datasetRecords", stats.DatasetRecords),
		logger.String("duration", stats.Duration.String()),
		logger.Float64("successRate", successRate),
		logger.Float64("queriesPerSecond", qps))
}
