// Package probe drives a running estateai service with concurrent queries
// and checks the ordering guarantees of its responses.
package probe

import (
	"time"

	"github.com/arijit3111w/estateai/internal/domain/model"
)

// Config holds configuration for a probe run.
type Config struct {
	BaseURL  string        // Base URL of the service
	Queries  int           // Number of similarity queries to send
	K        int           // Requested result size per query
	Workers  int           // Number of concurrent workers
	Timeout  time.Duration // HTTP request timeout
	CellSize float64       // Heatmap cell size to verify
	Seed     uint64        // Seed for generated targets
	Verbose  bool          // Log every failed query
}

// Entry is the subset of a ranked entry the probe checks.
type Entry struct {
	Rank       int     `json:"rank"`
	ID         string  `json:"id"`
	Similarity float64 `json:"similarity"`
}

// Cell is the subset of a grid cell the probe checks.
type Cell struct {
	CellID        string  `json:"cell_id"`
	PropertyCount int     `json:"property_count"`
	AveragePrice  float64 `json:"average_price"`
	MinPrice      float64 `json:"min_price"`
	MaxPrice      float64 `json:"max_price"`
}

// heatmapResponse mirrors GET /heatmap.
type heatmapResponse struct {
	CellSize float64 `json:"cell_size"`
	Cells    []Cell  `json:"cells"`
}

// datasetInfo mirrors GET /dataset.
type datasetInfo struct {
	Source  string `json:"source"`
	Loaded  bool   `json:"loaded"`
	Records int    `json:"records"`
}

// similarRequest mirrors POST /similar.
type similarRequest struct {
	Target model.TargetFeatureVector `json:"target"`
	K      int                       `json:"k"`
}

// Stats holds probe statistics
type Stats struct {
	QueriesSent     int
	QueriesOK       int
	QueriesFailed   int
	OrderViolations int
	HeatmapCells    int
	DatasetRecords  int
	StartTime       time.Time
	EndTime         time.Time
	Duration        time.Duration
}
