// Package service provides the core business service that implements
// the dependencies required by the HTTP API.
package service

import (
	"context"
	"fmt"
	"runtime"
	"sync"
	"time"

	snapshotqueue "github.com/devpulse/engage/internal/adapters/mq/queue"
	workerpool "github.com/devpulse/engage/internal/adapters/mq/worker"
	"github.com/devpulse/engage/internal/adapters/repository"
	"github.com/devpulse/engage/internal/domain/dedupe"
	"github.com/devpulse/engage/internal/domain/inactivity"
	"github.com/devpulse/engage/internal/domain/model"
	"github.com/devpulse/engage/internal/domain/reconcile"
	"github.com/devpulse/engage/internal/domain/timeline"
	"github.com/devpulse/engage/internal/ingest"
	"github.com/devpulse/engage/pkg/logger"
	"github.com/devpulse/engage/pkg/metrics"
)

// Pipeline stage labels for latency metrics.
const (
	stageIngest     = "ingest"
	stageReconcile  = "reconcile"
	stageTimeline   = "timeline"
	stageInactivity = "inactivity"
	stagePersist    = "persist"
)

// Service implements the API dependencies for the engagement engine.
type Service struct {
	mu sync.RWMutex

	// Core components
	store       repository.Store
	tracker     dedupe.Tracker
	queue       *snapshotqueue.InMemoryQueue
	reconciler  *reconcile.Engine
	synthesizer *timeline.Synthesizer
	detector    *inactivity.Detector
	workerPool  *workerpool.Pool

	// Configuration
	workerCount   int
	queueSize     int
	dedupeSize    int
	tolerance     int
	inactiveWeeks int

	// State
	started bool
	stopCh  chan struct{}

	// Logging
	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithWorkerCount sets the number of pipeline workers.
func WithWorkerCount(count int) Option {
	return func(s *Service) {
		if count > 0 {
			s.workerCount = count
		}
	}
}

// WithQueueSize sets the maximum size of the snapshot queue.
func WithQueueSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.queueSize = size
		}
	}
}

// WithDedupeSize sets the size of the deduplication cache.
func WithDedupeSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.dedupeSize = size
		}
	}
}

// WithTolerance sets the allowed reported-vs-counted contribution gap.
func WithTolerance(tolerance int) Option {
	return func(s *Service) {
		if tolerance >= 0 {
			s.tolerance = tolerance
		}
	}
}

// WithInactiveWeeks sets the inactivity alert threshold in weeks.
func WithInactiveWeeks(weeks int) Option {
	return func(s *Service) {
		if weeks > 0 {
			s.inactiveWeeks = weeks
		}
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
		workerCount:   runtime.NumCPU() * 2,
		queueSize:     10_000,
		dedupeSize:    50_000,
		tolerance:     2,
		inactiveWeeks: 2,
		stopCh:        make(chan struct{}),
		logger:        nil, // Will be replaced when service starts
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Start initializes and starts the service components.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	if s.logger == nil {
		s.logger = logger.Get().Named("service")
	}

	s.logger.Info(ctx, "starting engagement service...")

	s.store = repository.NewMemStore(ctx)
	s.tracker = dedupe.NewInMemoryTracker(
		dedupe.WithMaxSize(s.dedupeSize),
	)
	s.queue = snapshotqueue.NewInMemoryQueue(
		snapshotqueue.WithCapacity(s.queueSize),
	)
	s.reconciler = reconcile.New()
	s.synthesizer = timeline.New()
	s.detector = inactivity.New()

	s.workerPool = workerpool.NewPool(s.workerCount, s.queue, s)
	s.workerPool.Start(ctx)

	s.started = true
	s.logger.Info(ctx, "engagement service started",
		logger.Int("workers", s.workerCount),
		logger.Int("queueSize", s.queueSize),
		logger.Int("dedupeSize", s.dedupeSize),
		logger.Int("tolerance", s.tolerance),
		logger.Int("inactiveWeeks", s.inactiveWeeks),
	)

	return nil
}

// Stop gracefully shuts down the service.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}

	s.logger.Info(context.Background(), "stopping engagement service...")

	if s.workerPool != nil {
		s.workerPool.Stop()
	}

	if s.queue != nil {
		_ = s.queue.Close()
	}

	select {
	case <-s.stopCh:
		// Channel already closed
	default:
		close(s.stopCh)
	}

	s.started = false
	s.logger.Info(context.Background(), "engagement service stopped")
}

// Process runs the full pipeline over one snapshot and persists the
// results. Implements the worker Processor contract.
func (s *Service) Process(ctx context.Context, snapshot model.Snapshot) error {
	start := time.Now()
	surveys := ingest.SurveyRecords(snapshot.SurveyRows)
	metrics.RecordStageLatency(stageIngest, float64(time.Since(start).Milliseconds()))

	start = time.Now()
	validated, discrepancies := s.reconciler.Reconcile(
		ctx, snapshot.BoardItems, snapshot.Profiles, surveys, s.tolerance)
	metrics.RecordStageLatency(stageReconcile, float64(time.Since(start).Milliseconds()))

	start = time.Now()
	events := s.synthesizer.Synthesize(ctx, snapshot.BoardItems, surveys)
	metrics.RecordStageLatency(stageTimeline, float64(time.Since(start).Milliseconds()))

	start = time.Now()
	alerts, err := s.detector.Detect(ctx, surveys, snapshot.Cohort, snapshot.CurrentWeek,
		inactivity.Threshold{InactiveWeeks: s.inactiveWeeks})
	if err != nil {
		return fmt.Errorf("inactivity detection for snapshot %s: %w", snapshot.ID, err)
	}
	metrics.RecordStageLatency(stageInactivity, float64(time.Since(start).Milliseconds()))

	start = time.Now()
	results := model.Results{
		Cohort:        snapshot.Cohort,
		Validated:     validated,
		Discrepancies: discrepancies,
		Timeline:      events,
		Alerts:        alerts,
		ProcessedAt:   time.Now().UTC(),
	}
	if err := s.store.SaveResults(ctx, results); err != nil {
		return fmt.Errorf("saving results for snapshot %s: %w", snapshot.ID, err)
	}

	var raised int
	for _, alert := range alerts {
		recorded, err := s.store.RecordAlert(ctx, alert)
		if err != nil {
			return fmt.Errorf("recording alert for %s: %w", alert.User, err)
		}
		if recorded {
			raised++
			metrics.RecordAlertRaised()
		}
	}
	metrics.RecordStageLatency(stagePersist, float64(time.Since(start).Milliseconds()))

	s.logger.Info(ctx, "snapshot processed",
		logger.String("snapshotID", snapshot.ID),
		logger.String("cohort", snapshot.Cohort),
		logger.Int("surveyRecords", len(surveys)),
		logger.Int("validated", len(validated)),
		logger.Int("discrepancies", len(discrepancies)),
		logger.Int("timelineEvents", len(events)),
		logger.Int("alertsRaised", raised),
	)

	return nil
}

// SeenAndRecord atomically checks if a snapshot id was seen and records it
// if not. Returns true if the snapshot was already seen.
func (s *Service) SeenAndRecord(ctx context.Context, id string) bool {
	seen := s.tracker.SeenAndRecord(ctx, id)
	if seen {
		metrics.RecordSnapshotDuplicate()
	}
	return seen
}

// Unrecord removes a snapshot id from the seen list, allowing it to be retried.
func (s *Service) Unrecord(ctx context.Context, id string) {
	s.tracker.Unrecord(ctx, id)
}

// Size returns the current number of entries in the dedupe tracker.
func (s *Service) Size() int64 {
	if s.tracker == nil {
		return 0
	}
	return s.tracker.Size()
}

// Enqueue submits a snapshot for asynchronous processing.
func (s *Service) Enqueue(ctx context.Context, snapshot model.Snapshot) bool {
	ok := s.queue.Enqueue(ctx, snapshot)
	if ok {
		metrics.UpdateQueueSize(s.queue.Len(ctx))
	}
	return ok
}

// Timeline returns up to limit of the newest timeline events for a cohort.
func (s *Service) Timeline(ctx context.Context, cohort string, limit int) ([]model.TimelineEvent, error) {
	results, err := s.store.Results(ctx, cohort)
	if err != nil {
		return nil, err
	}

	events := results.Timeline
	if limit > 0 && limit < len(events) {
		events = events[:limit]
	}
	return events, nil
}

// Validation returns the latest stored results for a cohort, including the
// validated contributions and discrepancy report.
func (s *Service) Validation(ctx context.Context, cohort string) (model.Results, error) {
	return s.store.Results(ctx, cohort)
}

// Alerts returns the stored alerts for a cohort.
func (s *Service) Alerts(ctx context.Context, cohort string) ([]model.Alert, error) {
	return s.store.Alerts(ctx, cohort), nil
}

// ResolveAlert marks a user's open alert resolved.
func (s *Service) ResolveAlert(ctx context.Context, cohort, user string) error {
	return s.store.ResolveAlert(ctx, cohort, user)
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx := context.Background()
	stats := map[string]interface{}{
		"started":       s.started,
		"workerCount":   s.workerCount,
		"queueSize":     s.queueSize,
		"dedupeSize":    s.dedupeSize,
		"tolerance":     s.tolerance,
		"inactiveWeeks": s.inactiveWeeks,
	}

	if s.started {
		queueLen := s.queue.Len(ctx)
		cohorts := s.store.Count(ctx)

		stats["queueLength"] = queueLen
		stats["cohortsTracked"] = cohorts
		stats["snapshotsSeen"] = s.tracker.Size()

		metrics.UpdateQueueSize(queueLen)
		metrics.UpdateTrackedCohorts(cohorts)
		metrics.UpdateWorkerCount(s.workerCount)
	}

	return stats
}
