// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New(ctx) to build a Config with defaults.
// - Keys are flat snake_case so they map one-to-one onto ESTATE_ env vars.
// - Validation errors wrap ErrInvalidConfig.
package config

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/arijit3111w/estateai/internal/domain/dataset"
	"github.com/arijit3111w/estateai/internal/domain/grid"
	"github.com/arijit3111w/estateai/internal/domain/model"
	"github.com/arijit3111w/estateai/internal/domain/scoring"
	"github.com/robfig/cron/v3"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects text or json output.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":9080".
	Addr string `koanf:"addr"`

	// DatasetSource is "embedded", a file path, or an http(s) URL.
	DatasetSource string `koanf:"dataset_source"`

	// DatasetMaxRows caps the data lines parsed per load. 0 removes the cap.
	DatasetMaxRows int `koanf:"dataset_max_rows"`

	// DatasetFetchTimeoutMS bounds remote dataset downloads.
	DatasetFetchTimeoutMS int `koanf:"dataset_fetch_timeout_ms"`

	// DatasetStrict drops rows that needed fallback values.
	DatasetStrict bool `koanf:"dataset_strict"`

	// DedupeIDs drops rows whose id was already seen.
	DedupeIDs bool `koanf:"dedupe_ids"`

	// Region bounds; rows outside are excluded.
	RegionMinLat float64 `koanf:"region_min_lat"`
	RegionMaxLat float64 `koanf:"region_max_lat"`
	RegionMinLng float64 `koanf:"region_min_lng"`
	RegionMaxLng float64 `koanf:"region_max_lng"`

	// DefaultTopK is used when a request does not give k; MaxTopK caps it.
	DefaultTopK int `koanf:"default_top_k"`
	MaxTopK     int `koanf:"max_top_k"`

	// GridCellSize is the default heatmap cell edge in degrees.
	GridCellSize float64 `koanf:"grid_cell_size"`

	// RefreshCron reloads the dataset on this schedule. Empty disables it.
	RefreshCron string `koanf:"refresh_cron"`

	// SimilarityWeights override the scorer weights. Must sum to 1.
	SimilarityWeights scoring.Weights `koanf:"similarity_weights"`

	// MetricsEnabled turns metric recording on or off. /healthz still serves.
	MetricsEnabled bool `koanf:"metrics_enabled"`

	// MetricsNamespace and MetricsSubsystem prefix every metric name.
	MetricsNamespace string `koanf:"metrics_namespace"`
	MetricsSubsystem string `koanf:"metrics_subsystem"`

	// MetricsInstance, when set, is attached as a constant "instance" label.
	MetricsInstance string `koanf:"metrics_instance"`

	// MetricsLatencyBucketsMS overrides the ranking and HTTP latency buckets (YAML only).
	MetricsLatencyBucketsMS []float64 `koanf:"metrics_latency_buckets_ms"`

	// Financing defaults applied when a request leaves a field unset.
	FinanceRatePercent         float64 `koanf:"finance_rate_percent"`
	FinanceTenureYears         int     `koanf:"finance_tenure_years"`
	FinanceDownPaymentPercent  float64 `koanf:"finance_down_payment_percent"`
	FinanceAppreciationPercent float64 `koanf:"finance_appreciation_percent"`
}

// New creates a Config with defaults. ctx is reserved for loaders that need it.
func New(_ context.Context) *Config {
	region := dataset.DefaultRegion()
	return &Config{
		LogLevel:                   "info",
		LogFormat:                  "text",
		Addr:                       ":9080",
		DatasetSource:              "embedded",
		DatasetMaxRows:             dataset.DefaultMaxRows,
		DatasetFetchTimeoutMS:      10_000,
		DedupeIDs:                  true,
		RegionMinLat:               region.MinLat,
		RegionMaxLat:               region.MaxLat,
		RegionMinLng:               region.MinLng,
		RegionMaxLng:               region.MaxLng,
		DefaultTopK:                10,
		MaxTopK:                    100,
		GridCellSize:               0.01,
		SimilarityWeights:          scoring.DefaultWeights(),
		MetricsEnabled:             true,
		MetricsNamespace:           "estateai",
		MetricsSubsystem:           "engine",
		FinanceRatePercent:         7.5,
		FinanceTenureYears:         20,
		FinanceDownPaymentPercent:  20,
		FinanceAppreciationPercent: 6,
	}
}

// Region returns the configured bounding box.
func (c *Config) Region() dataset.Region {
	return dataset.Region{MinLat: c.RegionMinLat, MaxLat: c.RegionMaxLat, MinLng: c.RegionMinLng, MaxLng: c.RegionMaxLng}
}

// FetchTimeout returns DatasetFetchTimeoutMS as a duration.
func (c *Config) FetchTimeout() time.Duration {
	return time.Duration(c.DatasetFetchTimeoutMS) * time.Millisecond
}

// Financing returns the default financing parameters. Rent is always per request.
func (c *Config) Financing() model.FinancingParams {
	return model.FinancingParams{
		AnnualRatePercent:   c.FinanceRatePercent,
		TenureYears:         c.FinanceTenureYears,
		DownPaymentPercent:  c.FinanceDownPaymentPercent,
		AppreciationPercent: c.FinanceAppreciationPercent,
	}
}

// Validate checks the loaded values.
func (c *Config) Validate() error {
	switch {
	case strings.TrimSpace(c.Addr) == "":
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case c.LogFormat != "text" && c.LogFormat != "json":
		return fmt.Errorf("%w: log_format must be text or json, got %q", ErrInvalidConfig, c.LogFormat)
	case c.DatasetMaxRows < 0:
		return fmt.Errorf("%w: dataset_max_rows must not be negative", ErrInvalidConfig)
	case c.DatasetFetchTimeoutMS <= 0:
		return fmt.Errorf("%w: dataset_fetch_timeout_ms must be positive", ErrInvalidConfig)
	case c.DefaultTopK <= 0 || c.MaxTopK <= 0:
		return fmt.Errorf("%w: top_k limits must be positive", ErrInvalidConfig)
	case c.DefaultTopK > c.MaxTopK:
		return fmt.Errorf("%w: default_top_k %d exceeds max_top_k %d", ErrInvalidConfig, c.DefaultTopK, c.MaxTopK)
	case strings.TrimSpace(c.MetricsNamespace) == "":
		return fmt.Errorf("%w: metrics_namespace must not be empty", ErrInvalidConfig)
	case !ascending(c.MetricsLatencyBucketsMS):
		return fmt.Errorf("%w: metrics_latency_buckets_ms must be strictly increasing", ErrInvalidConfig)
	case c.FinanceRatePercent < 0 || c.FinanceTenureYears <= 0:
		return fmt.Errorf("%w: finance rate must be >= 0 and tenure positive", ErrInvalidConfig)
	case c.FinanceDownPaymentPercent <= 0 || c.FinanceDownPaymentPercent > 100:
		return fmt.Errorf("%w: finance_down_payment_percent must be in (0, 100]", ErrInvalidConfig)
	case c.FinanceAppreciationPercent <= -100:
		return fmt.Errorf("%w: finance_appreciation_percent must be above -100", ErrInvalidConfig)
	}
	if spec := strings.TrimSpace(c.RefreshCron); spec != "" {
		if _, err := cron.ParseStandard(spec); err != nil {
			return fmt.Errorf("%w: refresh_cron: %w", ErrInvalidConfig, err)
		}
	}
	if err := grid.ValidateCellSize(c.GridCellSize); err != nil {
		return fmt.Errorf("%w: grid_cell_size: %w", ErrInvalidConfig, err)
	}
	if err := c.Region().Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if err := c.SimilarityWeights.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return nil
}

func ascending(v []float64) bool {
	for i := 1; i < len(v); i++ {
		if !(v[i] > v[i-1]) {
			return false
		}
	}
	return true
}
