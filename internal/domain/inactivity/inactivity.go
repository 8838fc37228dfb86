// Package inactivity scans per-user weekly survey history and raises alerts
// for users who have stopped reporting activity.
package inactivity

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/devpulse/engage/internal/domain/identity"
	"github.com/devpulse/engage/internal/domain/model"
	"github.com/devpulse/engage/internal/domain/program"
	"github.com/devpulse/engage/pkg/logger"
	"github.com/devpulse/engage/pkg/metrics"
)

// metricWeeklyActivity is the metric name carried on inactivity alerts.
const metricWeeklyActivity = "weekly_activity"

// The alert models "went from active to inactive" as a binary transition,
// not a magnitude. These constants keep that simplification visible.
const (
	activityPresent  = 1
	activityAbsent   = 0
	fullActivityDrop = -100
)

// Threshold is the detector's configuration contract. Only InactiveWeeks is
// evaluated today; the remaining fields exist for forward compatibility.
type Threshold struct {
	InactiveWeeks  int
	MinSubmissions int
	DropPercent    float64
}

// Normalizer maps a raw display name or handle to a canonical username.
type Normalizer func(string) string

// Detector finds users whose latest survey response is too far behind the
// current program week. It holds no state across calls.
type Detector struct {
	normalize Normalizer
	now       func() time.Time
	logger    logger.Logger
}

// New creates an inactivity detector with configuration options.
func New(opts ...Option) *Detector {
	d := &Detector{
		normalize: identity.Normalize,
		now:       time.Now,
		logger:    logger.Get().Named("inactivity"),
	}

	for _, opt := range opts {
		opt(d)
	}

	return d
}

// Detect emits one inactivity alert per user whose latest reported week is
// at least threshold.InactiveWeeks behind currentWeek. Grouping goes
// through the shared username normalization, so differing casings of one
// name count as the same user. The caller owns persistence and the
// at-most-one-active-alert-per-user policy.
//
// A non-nil error indicates a defect in alert construction, never dirty
// input data; dirty records only reduce the number of emitted alerts.
func (d *Detector) Detect(
	ctx context.Context,
	surveys []model.SurveyRecord,
	cohortID string,
	currentWeek string,
	threshold Threshold,
) ([]model.Alert, error) {
	current, ok := program.ParseWeekLabel(currentWeek)
	if !ok {
		d.logger.Error(ctx, "unparseable current week; skipping inactivity scan",
			logger.String("currentWeek", currentWeek),
		)
		return nil, nil
	}

	latestByUser := d.latestWeeks(surveys)

	users := make([]string, 0, len(latestByUser))
	for user := range latestByUser {
		users = append(users, user)
	}
	sort.Strings(users)

	var alerts []model.Alert
	for _, user := range users {
		latest := latestByUser[user]
		weeksInactive := current - latest
		if weeksInactive < threshold.InactiveWeeks {
			continue
		}

		alert := model.Alert{
			User:             user,
			Cohort:           cohortID,
			Type:             model.AlertTypeInactivity,
			Metric:           metricWeeklyActivity,
			CurrentValue:     activityAbsent,
			PreviousValue:    activityPresent,
			PercentageChange: fullActivityDrop,
			Week:             program.WeekLabel(current),
			FirstDetected:    d.now(),
			Status:           model.AlertStatusNew,
			Description: fmt.Sprintf("No reported activity for %d weeks (last active %s)",
				weeksInactive, program.WeekLabel(latest)),
		}

		if err := alert.Validate(); err != nil {
			// A malformed alert is a defect in this detector, not in the
			// input data; surface it instead of dropping it quietly.
			return nil, fmt.Errorf("constructed alert for %q: %v: %w", user, err, ErrInvalidAlert)
		}

		metrics.RecordAlertRaised()
		alerts = append(alerts, alert)
	}

	return alerts, nil
}

// latestWeeks groups survey records by normalized username and keeps each
// user's reported week numbers sorted ascending, returning the latest.
// Records with no name or an unparseable week are skipped.
func (d *Detector) latestWeeks(surveys []model.SurveyRecord) map[string]int {
	weeksByUser := make(map[string][]int)
	for _, record := range surveys {
		if strings.TrimSpace(record.Name) == "" {
			metrics.RecordRecordSkipped("inactivity", "empty_identity")
			continue
		}
		week, ok := program.ParseWeekLabel(record.Week)
		if !ok {
			metrics.RecordRecordSkipped("inactivity", "malformed_week")
			continue
		}
		user := d.normalize(record.Name)
		weeksByUser[user] = append(weeksByUser[user], week)
	}

	latest := make(map[string]int, len(weeksByUser))
	for user, weeks := range weeksByUser {
		sort.Ints(weeks)
		latest[user] = weeks[len(weeks)-1]
	}
	return latest
}
