package repository

import (
	"context"
	"sort"
	"sync"

	"github.com/devpulse/engage/internal/domain/model"
	"github.com/devpulse/engage/pkg/logger"
	"github.com/devpulse/engage/pkg/metrics"
)

// alertKey identifies an alert slot: one per (cohort, user).
type alertKey struct {
	cohort string
	user   string
}

// MemStore implements Store with in-memory maps. Safe for concurrent use.
type MemStore struct {
	mu      sync.RWMutex
	results map[string]model.Results
	alerts  map[alertKey]model.Alert
	logger  logger.Logger
}

// NewMemStore creates an empty in-memory store.
func NewMemStore(ctx context.Context, opts ...Option) *MemStore {
	s := &MemStore{
		results: make(map[string]model.Results),
		alerts:  make(map[alertKey]model.Alert),
		logger:  logger.Get().Named("store"),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// SaveResults replaces the stored results for the results' cohort.
func (s *MemStore) SaveResults(ctx context.Context, results model.Results) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.results[results.Cohort] = results
	metrics.UpdateTrackedCohorts(len(s.results))
	return nil
}

// Results returns the latest stored results for a cohort.
func (s *MemStore) Results(ctx context.Context, cohort string) (model.Results, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.results[cohort]
	if !ok {
		return model.Results{}, ErrNotFound
	}
	return r, nil
}

// Cohorts lists the cohorts with stored results, sorted.
func (s *MemStore) Cohorts(ctx context.Context) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	cohorts := make([]string, 0, len(s.results))
	for c := range s.results {
		cohorts = append(cohorts, c)
	}
	sort.Strings(cohorts)
	return cohorts
}

// Count returns the number of cohorts with stored results.
func (s *MemStore) Count(ctx context.Context) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.results)
}

// RecordAlert persists an alert unless the user already has an open one.
// The check and the write happen under one lock so overlapping runs cannot
// both create an alert for the same user.
func (s *MemStore) RecordAlert(ctx context.Context, alert model.Alert) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := alertKey{cohort: alert.Cohort, user: alert.User}
	if existing, ok := s.alerts[key]; ok && open(existing.Status) {
		s.logger.Debug(ctx, "alert suppressed; user already has an open alert",
			logger.String("user", alert.User),
			logger.String("cohort", alert.Cohort),
		)
		return false, nil
	}

	s.alerts[key] = alert
	metrics.UpdateActiveAlerts(s.openAlertCount())
	return true, nil
}

// Alerts returns the stored alerts for a cohort in user order.
func (s *MemStore) Alerts(ctx context.Context, cohort string) []model.Alert {
	s.mu.RLock()
	defer s.mu.RUnlock()

	alerts := make([]model.Alert, 0)
	for key, a := range s.alerts {
		if key.cohort == cohort {
			alerts = append(alerts, a)
		}
	}
	sort.Slice(alerts, func(i, j int) bool { return alerts[i].User < alerts[j].User })
	return alerts
}

// ResolveAlert marks a user's open alert resolved.
func (s *MemStore) ResolveAlert(ctx context.Context, cohort, user string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := alertKey{cohort: cohort, user: user}
	alert, ok := s.alerts[key]
	if !ok || !open(alert.Status) {
		return ErrAlertNotFound
	}

	alert.Status = model.AlertStatusResolved
	s.alerts[key] = alert
	metrics.UpdateActiveAlerts(s.openAlertCount())
	return nil
}

// openAlertCount counts alerts still requiring attention. Callers hold the
// lock.
func (s *MemStore) openAlertCount() int {
	n := 0
	for _, a := range s.alerts {
		if open(a.Status) {
			n++
		}
	}
	return n
}

// open reports whether an alert status still counts against the
// single-active-alert policy.
func open(status model.AlertStatus) bool {
	return status == model.AlertStatusNew || status == model.AlertStatusActive
}
