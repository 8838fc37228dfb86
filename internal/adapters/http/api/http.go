// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/devpulse/engage/internal/domain/dedupe"
	"github.com/devpulse/engage/internal/domain/model"
	"github.com/devpulse/engage/pkg/metrics"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	dedupe.Tracker

	// Enqueue pushes a snapshot for async processing. Returns false on backpressure.
	Enqueue(ctx context.Context, s model.Snapshot) bool

	// Read operations expose computed results.
	Timeline(ctx context.Context, cohort string, limit int) ([]model.TimelineEvent, error)
	Validation(ctx context.Context, cohort string) (model.Results, error)
	Alerts(ctx context.Context, cohort string) ([]model.Alert, error)
	ResolveAlert(ctx context.Context, cohort, user string) error
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler     *HealthHandler
	statsHandler      *StatsHandler
	snapshotsHandler  *SnapshotsHandler
	timelineHandler   *TimelineHandler
	validationHandler *ValidationHandler
	alertsHandler     *AlertsHandler
}

// NewServer creates a new API server with all handlers. maxTimelineLimit
// caps GET /timeline?limit.
func NewServer(deps Dependencies, statsProvider StatsProvider, maxTimelineLimit int) *Server {
	return &Server{
		healthHandler:     NewHealthHandler(),
		statsHandler:      NewStatsHandler(statsProvider),
		snapshotsHandler:  NewSnapshotsHandler(deps),
		timelineHandler:   NewTimelineHandler(deps, maxTimelineLimit),
		validationHandler: NewValidationHandler(deps),
		alertsHandler:     NewAlertsHandler(deps),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(ctx context.Context, mux *http.ServeMux) {
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.Handle("/metrics", promhttp.HandlerFor(metrics.GetRegistry(), promhttp.HandlerOpts{}))
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/snapshots", MetricsMiddleware(s.snapshotsHandler.HandlePostSnapshot, "snapshots"))
	mux.HandleFunc("/timeline", MetricsMiddleware(s.timelineHandler.HandleGetTimeline, "timeline"))
	mux.HandleFunc("/validation", MetricsMiddleware(s.validationHandler.HandleGetValidation, "validation"))
	mux.HandleFunc("/alerts", MetricsMiddleware(s.alertsHandler.HandleGetAlerts, "alerts"))
	mux.HandleFunc("/alerts/resolve", MetricsMiddleware(s.alertsHandler.HandleResolveAlert, "alerts_resolve"))
}

// snapshotRequest mirrors the wire schema for POST /snapshots.
type snapshotRequest struct {
	SnapshotID  string              `json:"snapshot_id"`
	Cohort      string              `json:"cohort"`
	CurrentWeek string              `json:"current_week"`
	SurveyRows  []map[string]string `json:"survey_rows"`
	BoardItems  []boardItemRequest  `json:"board_items"`
	Profiles    []profileRequest    `json:"profiles"`
}

// boardItemRequest mirrors one Project Board item on the wire.
type boardItemRequest struct {
	ID            string `json:"id"`
	Title         string `json:"title"`
	State         string `json:"state"`
	IsPullRequest bool   `json:"is_pull_request"`
	Merged        bool   `json:"merged"`
	CreatedAt     string `json:"created_at"`
	ClosedAt      string `json:"closed_at,omitempty"`
	Assignee      string `json:"assignee"`
	Column        string `json:"column"`
}

// profileRequest mirrors one contributor profile on the wire.
type profileRequest struct {
	Username             string `json:"username"`
	IssuesCreated        int    `json:"issues_created"`
	PullRequestsCreated  int    `json:"pull_requests_created"`
	PullRequestsReviewed int    `json:"pull_requests_reviewed"`
}

func (s snapshotRequest) validate() error {
	switch {
	case strings.TrimSpace(s.SnapshotID) == "":
		return errors.New("missing snapshot_id")
	case strings.TrimSpace(s.Cohort) == "":
		return errors.New("missing cohort")
	case strings.TrimSpace(s.CurrentWeek) == "":
		return errors.New("missing current_week")
	}
	for _, item := range s.BoardItems {
		if strings.TrimSpace(item.CreatedAt) == "" {
			continue
		}
		if _, err := time.Parse(time.RFC3339, item.CreatedAt); err != nil {
			return errors.New("invalid created_at; must be RFC3339")
		}
		if item.ClosedAt != "" {
			if _, err := time.Parse(time.RFC3339, item.ClosedAt); err != nil {
				return errors.New("invalid closed_at; must be RFC3339")
			}
		}
	}
	return nil
}

// toSnapshot converts the wire shape to the domain snapshot. Duplicate
// profile usernames resolve last-write-wins, matching survey handling.
func (s snapshotRequest) toSnapshot() model.Snapshot {
	items := make([]model.ProjectBoardItem, 0, len(s.BoardItems))
	for _, item := range s.BoardItems {
		createdAt, _ := time.Parse(time.RFC3339, item.CreatedAt)
		closedAt, _ := time.Parse(time.RFC3339, item.ClosedAt)
		items = append(items, model.ProjectBoardItem{
			ID:            item.ID,
			Title:         item.Title,
			State:         item.State,
			IsPullRequest: item.IsPullRequest,
			Merged:        item.Merged,
			CreatedAt:     createdAt,
			ClosedAt:      closedAt,
			Assignee:      item.Assignee,
			Column:        model.BoardColumn(item.Column),
		})
	}

	profiles := make(map[string]model.ContributorProfile, len(s.Profiles))
	for _, p := range s.Profiles {
		profiles[p.Username] = model.ContributorProfile{
			Username:             p.Username,
			IssuesCreated:        p.IssuesCreated,
			PullRequestsCreated:  p.PullRequestsCreated,
			PullRequestsReviewed: p.PullRequestsReviewed,
		}
	}

	return model.Snapshot{
		ID:          s.SnapshotID,
		Cohort:      s.Cohort,
		CurrentWeek: s.CurrentWeek,
		SurveyRows:  s.SurveyRows,
		BoardItems:  items,
		Profiles:    profiles,
		ReceivedAt:  time.Now().UTC(),
	}
}

type ackResponse struct {
	Status    string `json:"status"`
	Duplicate bool   `json:"duplicate"`
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}
