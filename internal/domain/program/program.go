// Package program holds the calendar arithmetic shared by the engines:
// calendar-day normalization, 1-indexed program weeks counted from a fixed
// epoch, and cohort assignment from fixed start dates.
package program

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// DaysPerWeek is the program-week bucket size.
const DaysPerWeek = 7

// epochStart is the first day of Week 1. All week arithmetic is relative to
// this date.
var epochStart = time.Date(2025, time.March, 3, 0, 0, 0, 0, time.UTC) //nolint:gochecknoglobals // fixed program constant

// cohortStart pairs a cohort id with its fixed start date.
type cohortStart struct {
	id    string
	start time.Time
}

// cohortStarts are the three fixed, strictly increasing cohort boundaries.
var cohortStarts = []cohortStart{ //nolint:gochecknoglobals // fixed program constants
	{id: "cohort-1", start: time.Date(2025, time.March, 3, 0, 0, 0, 0, time.UTC)},
	{id: "cohort-2", start: time.Date(2025, time.June, 2, 0, 0, 0, 0, time.UTC)},
	{id: "cohort-3", start: time.Date(2025, time.September, 1, 0, 0, 0, 0, time.UTC)},
}

// EpochStart returns the first day of Week 1.
func EpochStart() time.Time {
	return epochStart
}

// Day truncates t to calendar-day precision in UTC.
func Day(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}

// Week returns the 1-indexed program week containing t. Dates before the
// epoch clamp to week 1.
func Week(t time.Time) int {
	days := int(Day(t).Sub(epochStart).Hours() / 24)
	if days < 0 {
		return 1
	}
	return days/DaysPerWeek + 1
}

// WeekStart returns the first day of program week n. It is the inverse of
// Week: Week(WeekStart(n)) == n for all n >= 1.
func WeekStart(n int) time.Time {
	if n < 1 {
		n = 1
	}
	return epochStart.AddDate(0, 0, (n-1)*DaysPerWeek)
}

// WeekLabel renders the human-readable label for week n, e.g. "Week 7".
func WeekLabel(n int) string {
	return fmt.Sprintf("Week %d", n)
}

// ParseWeekLabel extracts the week number from a label like "Week 7".
// Returns false for anything that does not parse to a positive week.
func ParseWeekLabel(label string) (int, bool) {
	s := strings.TrimSpace(label)
	s = strings.TrimPrefix(strings.ToLower(s), "week")
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 1 {
		return 0, false
	}
	return n, true
}

// CohortFor returns the id of the latest cohort whose start date t falls
// on or after. Dates before the first boundary map to the first cohort.
func CohortFor(t time.Time) string {
	day := Day(t)
	id := cohortStarts[0].id
	for _, c := range cohortStarts {
		if day.Before(c.start) {
			break
		}
		id = c.id
	}
	return id
}

// Cohorts returns the cohort ids in boundary order.
func Cohorts() []string {
	ids := make([]string, len(cohortStarts))
	for i, c := range cohortStarts {
		ids[i] = c.id
	}
	return ids
}
