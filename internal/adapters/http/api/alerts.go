// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/devpulse/engage/internal/adapters/repository"
)

// resolveAlertRequest mirrors the wire schema for POST /alerts/resolve.
type resolveAlertRequest struct {
	Cohort string `json:"cohort"`
	User   string `json:"user"`
}

func (req resolveAlertRequest) validate() error {
	switch {
	case strings.TrimSpace(req.Cohort) == "":
		return errors.New("missing cohort")
	case strings.TrimSpace(req.User) == "":
		return errors.New("missing user")
	}
	return nil
}

// AlertsHandler handles alert listing and resolution.
type AlertsHandler struct {
	deps Dependencies
}

// NewAlertsHandler creates a new alerts handler.
func NewAlertsHandler(deps Dependencies) *AlertsHandler {
	return &AlertsHandler{deps: deps}
}

// HandleGetAlerts handles GET /alerts?cohort=X requests.
func (h *AlertsHandler) HandleGetAlerts(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_alerts"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	cohort := strings.TrimSpace(r.URL.Query().Get("cohort"))
	if cohort == "" {
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
		return
	}

	alerts, err := h.deps.Alerts(r.Context(), cohort)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, alerts)
}

// HandleResolveAlert handles POST /alerts/resolve requests.
func (h *AlertsHandler) HandleResolveAlert(w http.ResponseWriter, r *http.Request) {
	const op = "api.resolve_alert"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req resolveAlertRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}

	if err := h.deps.ResolveAlert(r.Context(), req.Cohort, req.User); err != nil {
		if errors.Is(err, repository.ErrAlertNotFound) {
			writeError(w, http.StatusNotFound, "not_found", WrapKind(op, ErrNotFound, err))
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "resolved"})
}
