package model

import "time"

// Snapshot is one ingestion cycle's worth of raw upstream data, queued for
// processing. Survey rows stay string-keyed until the ingest layer maps them
// to SurveyRecord.
type Snapshot struct {
	ID          string
	Cohort      string
	CurrentWeek string // program-week label, e.g. "Week 9"
	SurveyRows  []map[string]string
	BoardItems  []ProjectBoardItem
	Profiles    map[string]ContributorProfile
	ReceivedAt  time.Time
}

// Results holds everything the engines computed for one snapshot. All three
// outputs are recomputed fresh on every run; the store only keeps the latest
// per cohort.
type Results struct {
	Cohort        string                           `json:"cohort"`
	Validated     map[string]ValidatedContribution `json:"validated"`
	Discrepancies []Discrepancy                    `json:"discrepancies"`
	Timeline      []TimelineEvent                  `json:"timeline"`
	Alerts        []Alert                          `json:"alerts"`
	ProcessedAt   time.Time                        `json:"processed_at"`
}
