// Package repository defines the results/alert store interface and errors.
package repository

import (
	"context"

	"github.com/devpulse/engage/internal/domain/model"
)

// Store provides read/write access to the latest computed results per
// cohort and to the alert ledger.
type Store interface {
	// SaveResults replaces the stored results for the cohort the results
	// belong to.
	SaveResults(ctx context.Context, results model.Results) error

	// Results returns the latest stored results for a cohort.
	// Returns ErrNotFound when the cohort has never been processed.
	Results(ctx context.Context, cohort string) (model.Results, error)

	// Cohorts lists the cohorts with stored results.
	Cohorts(ctx context.Context) []string

	// Count returns the number of cohorts with stored results.
	Count(ctx context.Context) int

	// RecordAlert persists an alert unless the user already has one that is
	// new or active; in that case it reports false and stores nothing.
	// This is the single-active-alert-per-user policy: detection emits
	// freely, the store decides.
	RecordAlert(ctx context.Context, alert model.Alert) (bool, error)

	// Alerts returns the stored alerts for a cohort in user order.
	Alerts(ctx context.Context, cohort string) []model.Alert

	// ResolveAlert marks a user's open alert resolved.
	// Returns ErrAlertNotFound when the user has no open alert.
	ResolveAlert(ctx context.Context, cohort, user string) error
}
