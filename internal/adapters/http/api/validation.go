// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/devpulse/engage/internal/adapters/repository"
	"github.com/devpulse/engage/internal/domain/model"
)

// validationResponse projects the validation slice of a cohort's results.
type validationResponse struct {
	Cohort        string                                 `json:"cohort"`
	Validated     map[string]model.ValidatedContribution `json:"validated"`
	Discrepancies []model.Discrepancy                    `json:"discrepancies"`
	ProcessedAt   time.Time                              `json:"processed_at"`
}

// ValidationHandler handles validation report requests.
type ValidationHandler struct {
	deps Dependencies
}

// NewValidationHandler creates a new validation handler.
func NewValidationHandler(deps Dependencies) *ValidationHandler {
	return &ValidationHandler{deps: deps}
}

// HandleGetValidation handles GET /validation?cohort=X requests.
func (h *ValidationHandler) HandleGetValidation(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_validation"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	cohort := strings.TrimSpace(r.URL.Query().Get("cohort"))
	if cohort == "" {
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
		return
	}

	results, err := h.deps.Validation(r.Context(), cohort)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeError(w, http.StatusNotFound, "not_found", WrapKind(op, ErrNotFound, err))
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, validationResponse{
		Cohort:        results.Cohort,
		Validated:     results.Validated,
		Discrepancies: results.Discrepancies,
		ProcessedAt:   results.ProcessedAt,
	})
}
