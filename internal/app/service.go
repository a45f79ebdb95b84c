// Package service wires the dataset cache, the similarity scorer, the grid
// aggregator and the investment module into the operations the HTTP API serves.
package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/arijit3111w/estateai/internal/adapters/repository"
	"github.com/arijit3111w/estateai/internal/domain/dataset"
	"github.com/arijit3111w/estateai/internal/domain/grid"
	"github.com/arijit3111w/estateai/internal/domain/investment"
	"github.com/arijit3111w/estateai/internal/domain/model"
	"github.com/arijit3111w/estateai/internal/domain/ranking"
	"github.com/arijit3111w/estateai/internal/domain/scoring"
	"github.com/arijit3111w/estateai/internal/domain/types"
	"github.com/arijit3111w/estateai/pkg/logger"
	"github.com/arijit3111w/estateai/pkg/metrics"
)

// Service implements the API dependencies for the property engine.
type Service struct {
	mu sync.RWMutex

	// Core components
	store  repository.Store
	scorer scoring.Scorer

	// Configuration
	defaultK  int
	maxK      int
	cellSize  float64
	financing model.FinancingParams
	preload   bool

	// State
	started bool

	// Logging
	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithStore sets the dataset store.
func WithStore(store repository.Store) Option {
	return func(s *Service) {
		if store != nil {
			s.store = store
		}
	}
}

// WithScorer sets the similarity scorer.
func WithScorer(scorer scoring.Scorer) Option {
	return func(s *Service) {
		if scorer != nil {
			s.scorer = scorer
		}
	}
}

// WithTopK sets the k used when a request gives none and the largest k served.
func WithTopK(defaultK, maxK int) Option {
	return func(s *Service) {
		if defaultK > 0 && maxK >= defaultK {
			s.defaultK = defaultK
			s.maxK = maxK
		}
	}
}

// WithCellSize sets the default heatmap cell size in degrees.
func WithCellSize(size float64) Option {
	return func(s *Service) {
		if size > 0 && !math.IsInf(size, 0) {
			s.cellSize = size
		}
	}
}

// WithFinancing sets the financing defaults requests are merged onto.
func WithFinancing(p model.FinancingParams) Option {
	return func(s *Service) {
		s.financing = p
	}
}

// WithPreload makes Start load the dataset instead of waiting for the first request.
func WithPreload(enabled bool) Option {
	return func(s *Service) {
		s.preload = enabled
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		scorer:    scoring.NewSimilarityScorer(),
		defaultK:  ranking.DefaultK,
		maxK:      100,
		cellSize:  grid.DefaultCellSize,
		financing: investment.DefaultParams(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start initializes the service components.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	if s.logger == nil {
		s.logger = logger.Get().Named("service")
	}
	if s.store == nil {
		s.store = repository.NewCachedStore()
	}

	s.logger.Info(ctx, "starting property service...")
	if s.preload {
		if _, err := s.store.All(ctx); err != nil {
			// The store retries on the next request.
			s.logger.Warn(ctx, "dataset preload failed", logger.Error(err))
		}
	}

	s.started = true
	s.logger.Info(ctx, "property service started",
		logger.Int("defaultK", s.defaultK),
		logger.Int("maxK", s.maxK),
		logger.Float64("cellSize", s.cellSize),
		logger.Int("records", s.store.Count(ctx)),
	)
	return nil
}

// Stop marks the service stopped.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}
	s.started = false
	s.logger.Info(context.Background(), "property service stopped")
}

// Financing returns the default financing parameters.
func (s *Service) Financing() model.FinancingParams {
	return s.financing
}

// CellSize returns the default heatmap cell size.
func (s *Service) CellSize() float64 {
	return s.cellSize
}

// clampK maps a requested k onto [1, maxK], using defaultK when unset.
func (s *Service) clampK(k int) int {
	switch {
	case k <= 0:
		return s.defaultK
	case k > s.maxK:
		return s.maxK
	default:
		return k
	}
}

// Properties returns a window of the dataset in load order.
func (s *Service) Properties(ctx context.Context, limit, offset int) (types.Page, error) {
	if limit < 0 || offset < 0 {
		return types.Page{}, fmt.Errorf("%w: limit and offset must not be negative", ErrInvalidPage)
	}
	all, err := s.store.All(ctx)
	if err != nil {
		return types.Page{Records: []model.PropertyRecord{}}, err
	}
	limit = s.clampK(limit)
	page := types.Page{Total: len(all), Offset: offset, Limit: limit, Records: []model.PropertyRecord{}}
	if offset >= len(all) {
		return page, nil
	}
	end := min(offset+limit, len(all))
	page.Records = all[offset:end]
	return page, nil
}

// Property returns one record by id.
func (s *Service) Property(ctx context.Context, id string) (model.PropertyRecord, error) {
	return s.store.Get(ctx, id)
}

// Similar ranks the dataset against target and returns the k best.
func (s *Service) Similar(ctx context.Context, target model.TargetFeatureVector, k int) ([]types.Entry, error) {
	if err := validateTarget(target); err != nil {
		return []types.Entry{}, err
	}
	all, err := s.store.All(ctx)
	if err != nil {
		return []types.Entry{}, err
	}
	return types.Entries(s.rank(ctx, all, target, s.clampK(k))), nil
}

// SimilarTo ranks the dataset against an existing record, which is left out
// of its own results.
func (s *Service) SimilarTo(ctx context.Context, id string, k int) ([]types.Entry, error) {
	rec, err := s.store.Get(ctx, id)
	if err != nil {
		return []types.Entry{}, err
	}
	all, err := s.store.All(ctx)
	if err != nil {
		return []types.Entry{}, err
	}
	scored := s.rank(ctx, ranking.Without(all, id), model.TargetFrom(rec), s.clampK(k))
	return types.Entries(scored), nil
}

// Breakdown explains how a stored record scores against target.
func (s *Service) Breakdown(ctx context.Context, id string, target model.TargetFeatureVector) (scoring.Components, error) {
	if err := validateTarget(target); err != nil {
		return scoring.Components{}, err
	}
	rec, err := s.store.Get(ctx, id)
	if err != nil {
		return scoring.Components{}, err
	}
	if b, ok := s.scorer.(interface {
		Breakdown(model.PropertyRecord, model.TargetFeatureVector) scoring.Components
	}); ok {
		return b.Breakdown(rec, target), nil
	}
	return scoring.Components{Total: s.scorer.Score(rec, target)}, nil
}

// Heatmap aggregates the filtered dataset into grid cells. A zero cellSize
// uses the configured default; other sizes below grid.MinCellSize fail with
// grid.ErrInvalidCellSize.
func (s *Service) Heatmap(ctx context.Context, filter ranking.Filter, cellSize float64) ([]model.GridCell, error) {
	all, err := s.store.All(ctx)
	if err != nil {
		return []model.GridCell{}, err
	}
	return s.aggregate(filter.Apply(all), cellSize)
}

// Investment ranks the k most similar records and re-ranks them by
// investment score under params.
func (s *Service) Investment(ctx context.Context, target model.TargetFeatureVector, k int, params model.FinancingParams) ([]types.Entry, error) {
	similar, err := s.Similar(ctx, target, k)
	if err != nil {
		return []types.Entry{}, err
	}
	return s.rerank(ctx, candidates(similar), params)
}

// Schedule returns the yearly amortization for price under params.
func (s *Service) Schedule(_ context.Context, price float64, params model.FinancingParams) ([]investment.YearRow, error) {
	rows, err := investment.Schedule(price, params)
	if err != nil {
		recordRejection(err)
		return nil, err
	}
	return rows, nil
}

// ExploreResult bundles one ranking with the views derived from it.
type ExploreResult struct {
	Similar         []types.Entry    `json:"similar"`
	Cells           []model.GridCell `json:"cells"`
	Investment      []types.Entry    `json:"investment,omitempty"`
	InvestmentError string           `json:"investment_error,omitempty"`
}

// Explore ranks the dataset against target, then aggregates the filtered
// dataset and re-ranks the top k by investment in parallel. An investment
// failure does not fail the call; it is reported in InvestmentError.
func (s *Service) Explore(
	ctx context.Context,
	target model.TargetFeatureVector,
	k int,
	filter ranking.Filter,
	cellSize float64,
	params model.FinancingParams,
) (ExploreResult, error) {
	similar, err := s.Similar(ctx, target, k)
	if err != nil {
		return ExploreResult{Similar: []types.Entry{}, Cells: []model.GridCell{}}, err
	}
	all, err := s.store.All(ctx)
	if err != nil {
		return ExploreResult{Similar: []types.Entry{}, Cells: []model.GridCell{}}, err
	}

	res := ExploreResult{Similar: similar}
	var wg sync.WaitGroup
	var cellErr, invErr error
	wg.Add(2)
	go func() {
		defer wg.Done()
		res.Cells, cellErr = s.aggregate(filter.Apply(all), cellSize)
	}()
	go func() {
		defer wg.Done()
		res.Investment, invErr = s.rerank(ctx, candidates(similar), params)
	}()
	wg.Wait()

	if cellErr != nil {
		return ExploreResult{Similar: []types.Entry{}, Cells: []model.GridCell{}}, cellErr
	}
	if invErr != nil {
		res.Investment = nil
		res.InvestmentError = invErr.Error()
	}
	return res, nil
}

// Summary describes the loaded dataset.
func (s *Service) Summary(ctx context.Context) (dataset.Summary, error) {
	all, err := s.store.All(ctx)
	if err != nil {
		return dataset.Summarize(nil), err
	}
	return dataset.Summarize(all), nil
}

// Refresh reloads the dataset from its source.
func (s *Service) Refresh(ctx context.Context) (dataset.Report, error) {
	rep, err := s.store.Reload(ctx)
	if err != nil {
		s.log().Error(ctx, "dataset refresh failed", logger.Error(err))
		return rep, err
	}
	s.log().Info(ctx, "dataset refreshed", logger.Int("accepted", rep.Accepted))
	return rep, nil
}

// DatasetInfo describes the cache state.
func (s *Service) DatasetInfo() repository.Info {
	return s.store.Info()
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]any {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := map[string]any{
		"started":  s.started,
		"defaultK": s.defaultK,
		"maxK":     s.maxK,
		"cellSize": s.cellSize,
	}
	if s.store != nil {
		info := s.store.Info()
		stats["records"] = info.Records
		stats["datasetLoaded"] = info.Loaded
		stats["datasetSource"] = info.Source
		if info.LastError != "" {
			stats["datasetError"] = info.LastError
		}
		metrics.UpdateDatasetSize(info.Records)
	}
	return stats
}

func (s *Service) rank(ctx context.Context, all []model.PropertyRecord, target model.TargetFeatureVector, k int) []model.ScoredCandidate {
	start := time.Now()
	scored := ranking.Rank(all, target, k, s.scorer)
	elapsed := float64(time.Since(start).Microseconds()) / 1000
	metrics.RecordRanking(metrics.KindSimilar, len(all), elapsed)
	s.log().Debug(ctx, "ranked candidates",
		logger.Int("candidates", len(all)),
		logger.Int("k", k),
		logger.Float64("duration_ms", elapsed))
	return scored
}

func (s *Service) aggregate(records []model.PropertyRecord, cellSize float64) ([]model.GridCell, error) {
	if cellSize == 0 {
		cellSize = s.cellSize
	}
	cells, err := grid.Aggregate(records, cellSize)
	if err != nil {
		return []model.GridCell{}, err
	}
	metrics.RecordHeatmap(len(cells))
	return cells, nil
}

func (s *Service) rerank(ctx context.Context, scored []model.ScoredCandidate, params model.FinancingParams) ([]types.Entry, error) {
	start := time.Now()
	out, err := investment.Rerank(scored, params)
	if err != nil {
		recordRejection(err)
		return []types.Entry{}, err
	}
	elapsed := float64(time.Since(start).Microseconds()) / 1000
	metrics.RecordInvestment(len(out))
	metrics.RecordRanking(metrics.KindInvestment, len(out), elapsed)
	s.log().Debug(ctx, "investment re-rank", logger.Int("candidates", len(out)))
	return types.Entries(out), nil
}

func (s *Service) log() logger.Logger {
	if s.logger == nil {
		return logger.Get().Named("service")
	}
	return s.logger
}

func candidates(entries []types.Entry) []model.ScoredCandidate {
	out := make([]model.ScoredCandidate, len(entries))
	for i, e := range entries {
		out[i] = e.ScoredCandidate
	}
	return out
}

func recordRejection(err error) {
	var ie *investment.InputError
	if errors.As(err, &ie) {
		metrics.RecordInvestmentRejected(ie.Field)
	}
}

func validateTarget(t model.TargetFeatureVector) error {
	for name, v := range map[string]float64{
		"price":       t.Price,
		"bathrooms":   t.Bathrooms,
		"living_area": t.LivingArea,
		"latitude":    t.Latitude,
		"longitude":   t.Longitude,
	} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: %s is not a finite number", ErrInvalidTarget, name)
		}
	}
	return nil
}
