package repository

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/arijit3111w/estateai/internal/adapters/source"
	"github.com/arijit3111w/estateai/internal/domain/dataset"
	"github.com/arijit3111w/estateai/internal/domain/dedupe"
	"github.com/arijit3111w/estateai/internal/domain/model"
	"github.com/arijit3111w/estateai/pkg/logger"
	"github.com/arijit3111w/estateai/pkg/metrics"
)

// snapshot is an immutable view of one successful load.
type snapshot struct {
	records  []model.PropertyRecord
	byID     map[string]int
	report   dataset.Report
	loadedAt time.Time
}

// CachedStore loads the dataset lazily and keeps it until invalidated.
// At most one load runs at a time; callers arriving during a load wait for
// it and share its result. Failed loads are not cached.
type CachedStore struct {
	src        source.Source
	decodeOpts []dataset.Option
	deduper    dedupe.Deduper
	log        logger.Logger

	snap    atomic.Pointer[snapshot]
	loading chan struct{} // one-slot semaphore guarding loads

	errMu   sync.RWMutex
	lastErr error
}

// NewCachedStore creates a store. Nothing is read until the first access.
func NewCachedStore(opts ...Option) *CachedStore {
	s := &CachedStore{
		src:     source.EmbeddedSource{},
		deduper: dedupe.NewInMemoryDeduper(),
		loading: make(chan struct{}, 1),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.log == nil {
		s.log = logger.Get().Named("repository")
	}
	return s
}

func (s *CachedStore) All(ctx context.Context) ([]model.PropertyRecord, error) {
	snap, err := s.ensure(ctx)
	if err != nil {
		return []model.PropertyRecord{}, err
	}
	return snap.records, nil
}

func (s *CachedStore) Get(ctx context.Context, id string) (model.PropertyRecord, error) {
	snap, err := s.ensure(ctx)
	if err != nil {
		return model.PropertyRecord{}, err
	}
	i, ok := snap.byID[id]
	if !ok {
		return model.PropertyRecord{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return snap.records[i], nil
}

func (s *CachedStore) Count(_ context.Context) int {
	if snap := s.snap.Load(); snap != nil {
		return len(snap.records)
	}
	return 0
}

func (s *CachedStore) Invalidate() {
	s.snap.Store(nil)
	metrics.UpdateDatasetSize(0)
}

func (s *CachedStore) Reload(ctx context.Context) (dataset.Report, error) {
	if err := s.acquire(ctx); err != nil {
		return dataset.Report{}, err
	}
	defer s.release()

	snap, err := s.load(ctx)
	if err != nil {
		return dataset.Report{}, err
	}
	return snap.report, nil
}

func (s *CachedStore) Info() Info {
	info := Info{Source: s.src.String()}
	if snap := s.snap.Load(); snap != nil {
		info.Loaded = true
		info.Records = len(snap.records)
		info.LoadedAt = snap.loadedAt
		info.Report = snap.report
	}
	if err := s.LastError(); err != nil {
		info.LastError = err.Error()
	}
	return info
}

// LastError returns the error of the most recent load, nil after a success.
func (s *CachedStore) LastError() error {
	s.errMu.RLock()
	defer s.errMu.RUnlock()
	return s.lastErr
}

func (s *CachedStore) ensure(ctx context.Context) (*snapshot, error) {
	if snap := s.snap.Load(); snap != nil {
		return snap, nil
	}
	if err := s.acquire(ctx); err != nil {
		return nil, err
	}
	defer s.release()

	// Another caller may have finished loading while we waited.
	if snap := s.snap.Load(); snap != nil {
		return snap, nil
	}
	return s.load(ctx)
}

func (s *CachedStore) acquire(ctx context.Context) error {
	select {
	case s.loading <- struct{}{}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *CachedStore) release() { <-s.loading }

// load reads and decodes the source and publishes the result. Callers hold
// the loading slot.
func (s *CachedStore) load(ctx context.Context) (*snapshot, error) {
	start := time.Now()

	rc, err := s.src.Open(ctx)
	if err != nil {
		return nil, s.fail(ctx, err)
	}
	defer rc.Close()

	opts := append([]dataset.Option{}, s.decodeOpts...)
	if s.deduper != nil {
		s.deduper.Reset(ctx)
	}
	opts = append(opts, dataset.WithDeduper(s.deduper))

	res, err := dataset.Decode(ctx, rc, opts...)
	if err != nil {
		return nil, s.fail(ctx, err)
	}

	snap := &snapshot{
		records:  res.Records,
		byID:     make(map[string]int, len(res.Records)),
		report:   res.Report,
		loadedAt: time.Now(),
	}
	for i, r := range res.Records {
		if _, dup := snap.byID[r.ID]; !dup {
			snap.byID[r.ID] = i
		}
	}
	s.snap.Store(snap)
	s.setErr(nil)

	elapsed := float64(time.Since(start).Microseconds()) / 1000
	recordReport(res.Report)
	metrics.RecordDatasetLoad(elapsed, len(res.Records))
	s.log.Info(ctx, "dataset loaded",
		logger.String("source", s.src.String()),
		logger.Int("records", len(res.Records)),
		logger.Int("lines_read", res.Report.LinesRead),
		logger.Int("skipped_short", res.Report.SkippedShort),
		logger.Int("defaulted_rows", res.Report.DefaultedRows),
		logger.Int("rejected_price", res.Report.RejectedPrice),
		logger.Int("rejected_region", res.Report.RejectedRegion),
		logger.Int("duplicates", res.Report.Duplicates),
		logger.Bool("truncated", res.Report.Truncated),
		logger.Float64("duration_ms", elapsed))
	return snap, nil
}

func (s *CachedStore) fail(ctx context.Context, err error) error {
	if !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded) {
		s.setErr(err)
		metrics.RecordDatasetLoadFailure()
	}
	s.log.Error(ctx, "dataset load failed", logger.String("source", s.src.String()), logger.Error(err))
	return err
}

func (s *CachedStore) setErr(err error) {
	s.errMu.Lock()
	s.lastErr = err
	s.errMu.Unlock()
}

func recordReport(r dataset.Report) {
	metrics.AddDatasetRows(metrics.RowsAccepted, r.Accepted)
	metrics.AddDatasetRows(metrics.RowsSkippedShort, r.SkippedShort)
	metrics.AddDatasetRows(metrics.RowsMalformed, r.SkippedMalformed)
	metrics.AddDatasetRows(metrics.RowsDefaulted, r.DefaultedRows)
	metrics.AddDatasetRows(metrics.RowsRejectedPrice, r.RejectedPrice)
	metrics.AddDatasetRows(metrics.RowsOutOfRegion, r.RejectedRegion)
	metrics.AddDatasetRows(metrics.RowsRejectedStrict, r.RejectedStrict)
	metrics.AddDatasetRows(metrics.RowsDuplicate, r.Duplicates)
}
