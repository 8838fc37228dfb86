// Package reconcile cross-validates self-reported contribution counts
// against the project board and contributor profiles.
package reconcile

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/devpulse/engage/internal/domain/identity"
	"github.com/devpulse/engage/internal/domain/model"
	"github.com/devpulse/engage/pkg/logger"
	"github.com/devpulse/engage/pkg/metrics"
)

// Normalizer maps a raw display name or handle to a canonical username.
type Normalizer func(string) string

// Engine validates survey-reported contribution counts against the two
// authoritative sources. It holds no per-run state; Reconcile recomputes
// everything fresh on every call.
type Engine struct {
	normalize Normalizer
	logger    logger.Logger
}

// New creates a reconciliation engine with configuration options.
func New(opts ...Option) *Engine {
	e := &Engine{
		normalize: identity.Normalize,
		logger:    logger.Get().Named("reconcile"),
	}

	for _, opt := range opts {
		opt(e)
	}

	return e
}

// Reconcile validates each survey record's reported count against the board
// assignment count (primary) and the contributor-profile count (secondary).
// One tolerance governs both checks.
//
// An empty board means the primary source of truth is missing, so validation
// is skipped wholesale by policy: without board data no comparison is
// meaningful. This is logged as informational, not treated as a failure.
//
// When the same username appears in multiple survey rows, the later row
// overwrites the earlier one in the validated map.
func (e *Engine) Reconcile(
	ctx context.Context,
	boardItems []model.ProjectBoardItem,
	profiles map[string]model.ContributorProfile,
	surveys []model.SurveyRecord,
	tolerance int,
) (map[string]model.ValidatedContribution, []model.Discrepancy) {
	validated := make(map[string]model.ValidatedContribution)
	var discrepancies []model.Discrepancy

	if len(boardItems) == 0 {
		e.logger.Info(ctx, "no project board data; skipping contribution validation",
			logger.Int("surveyRecords", len(surveys)),
		)
		metrics.RecordValidationSkipped()
		return validated, discrepancies
	}

	assigned := assignmentCounts(boardItems, e.normalize)

	for _, record := range surveys {
		vc, found := e.validateRecord(record, assigned, profiles, tolerance)
		if !found {
			continue
		}

		if !vc.IsValid {
			discrepancies = append(discrepancies, model.Discrepancy{
				Username: vc.Username,
				Description: fmt.Sprintf(
					"survey reports %d contributions but the Project Board shows %d assigned items (off by %d)",
					vc.Reported, vc.BoardCount, absDiff(vc.Reported, vc.BoardCount)),
			})
		}
		if !vc.ContributorValid {
			discrepancies = append(discrepancies, model.Discrepancy{
				Username: vc.Username,
				Description: fmt.Sprintf(
					"contributor profile counts %d contributions but the Project Board shows %d assigned items (off by %d)",
					vc.ProfileCount, vc.BoardCount, absDiff(vc.ProfileCount, vc.BoardCount)),
			})
		}

		validated[vc.Username] = vc
	}

	metrics.RecordDiscrepancies(len(discrepancies))

	return validated, discrepancies
}

// validateRecord computes the validated contribution for one survey record.
// Records without a contributor name are skipped; a malformed count parses
// to zero rather than failing the record.
func (e *Engine) validateRecord(
	record model.SurveyRecord,
	assigned map[string]int,
	profiles map[string]model.ContributorProfile,
	tolerance int,
) (model.ValidatedContribution, bool) {
	if strings.TrimSpace(record.Name) == "" {
		metrics.RecordRecordSkipped("reconcile", "empty_identity")
		return model.ValidatedContribution{}, false
	}

	username := e.canonicalUsername(record)
	reported := parseCount(record.Contributions)
	boardCount := assigned[username]

	profileCount := 0
	if p, ok := profiles[username]; ok {
		profileCount = p.Total()
	}

	return model.ValidatedContribution{
		Username:         username,
		Reported:         reported,
		BoardCount:       boardCount,
		ProfileCount:     profileCount,
		IsValid:          absDiff(reported, boardCount) <= tolerance,
		ContributorValid: absDiff(profileCount, boardCount) <= tolerance,
	}, true
}

// canonicalUsername prefers the record's own platform username; the display
// name is the fallback.
func (e *Engine) canonicalUsername(record model.SurveyRecord) string {
	if u := e.normalize(record.Username); u != "" {
		return u
	}
	return e.normalize(record.Name)
}

// assignmentCounts tallies board items per normalized assignee. Unassigned
// items count toward nobody.
func assignmentCounts(items []model.ProjectBoardItem, normalize Normalizer) map[string]int {
	counts := make(map[string]int)
	for _, item := range items {
		if u := normalize(item.Assignee); u != "" {
			counts[u]++
		}
	}
	return counts
}

// parseCount reads a free-text contribution count; non-numeric input
// degrades to zero.
func parseCount(raw string) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n < 0 {
		return 0
	}
	return n
}

func absDiff(a, b int) int {
	if a > b {
		return a - b
	}
	return b - a
}
