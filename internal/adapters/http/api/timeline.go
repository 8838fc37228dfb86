// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/devpulse/engage/internal/adapters/repository"
)

// TimelineHandler handles timeline requests.
type TimelineHandler struct {
	deps     Dependencies
	maxLimit int
}

// NewTimelineHandler creates a new timeline handler.
func NewTimelineHandler(deps Dependencies, maxLimit int) *TimelineHandler {
	return &TimelineHandler{
		deps:     deps,
		maxLimit: maxLimit,
	}
}

// HandleGetTimeline handles GET /timeline?cohort=X&limit=N requests.
// limit is optional and defaults to the configured maximum.
func (h *TimelineHandler) HandleGetTimeline(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_timeline"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	cohort := strings.TrimSpace(r.URL.Query().Get("cohort"))
	if cohort == "" {
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
		return
	}

	n := h.maxLimit
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		parsed, err := strconv.Atoi(limitStr)
		if err != nil || parsed < 1 {
			writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
			return
		}
		if parsed > h.maxLimit {
			writeError(w, http.StatusBadRequest, "limit_exceeded", NewKind(op, ErrBadRequest))
			return
		}
		n = parsed
	}

	events, err := h.deps.Timeline(r.Context(), cohort, n)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeError(w, http.StatusNotFound, "not_found", WrapKind(op, ErrNotFound, err))
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, events)
}
