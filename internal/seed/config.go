package seed

import "time"

// Config holds configuration for the snapshot seeding run.
type Config struct {
	BaseURL      string        // Base URL of the service
	Cohort       string        // Cohort id to seed
	CurrentWeek  int           // Current program week number
	Contributors int           // Number of contributors to simulate
	Snapshots    int           // Number of snapshots to generate
	Workers      int           // Number of concurrent workers
	Timeout      time.Duration // HTTP request timeout
	OutputFile   string        // Output file for generated snapshots
	LogFile      string        // Log file for seeder output
	Verbose      bool          // Enable verbose logging
}

// SnapshotRequest mirrors the wire schema for POST /snapshots.
type SnapshotRequest struct {
	SnapshotID  string              `json:"snapshot_id"`
	Cohort      string              `json:"cohort"`
	CurrentWeek string              `json:"current_week"`
	SurveyRows  []map[string]string `json:"survey_rows"`
	BoardItems  []BoardItem         `json:"board_items"`
	Profiles    []Profile           `json:"profiles"`
}

// BoardItem mirrors one Project Board item on the wire.
type BoardItem struct {
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

// Profile mirrors one contributor profile on the wire.
type Profile struct {
	Username             string `json:"username"`
	IssuesCreated        int    `json:"issues_created"`
	PullRequestsCreated  int    `json:"pull_requests_created"`
	PullRequestsReviewed int    `json:"pull_requests_reviewed"`
}

// AckResponse represents the response from snapshot submission.
type AckResponse struct {
	Status    string `json:"status"`
	Duplicate bool   `json:"duplicate"`
}

// TimelineEvent mirrors one timeline entry returned by GET /timeline.
type TimelineEvent struct {
	ID       string    `json:"id"`
	Type     string    `json:"type"`
	Title    string    `json:"title"`
	Date     time.Time `json:"date"`
	Name     string    `json:"name"`
	Username string    `json:"username"`
	Status   string    `json:"status"`
}

// Alert mirrors one alert returned by GET /alerts.
type Alert struct {
	User        string `json:"user"`
	Cohort      string `json:"cohort"`
	Type        string `json:"type"`
	Week        string `json:"week"`
	Status      string `json:"status"`
	Description string `json:"description"`
}

// ValidationReport mirrors the response of GET /validation.
type ValidationReport struct {
	Cohort    string `json:"cohort"`
	Validated map[string]struct {
		Username   string `json:"username"`
		Reported   int    `json:"reported"`
		BoardCount int    `json:"board_count"`
		IsValid    bool   `json:"is_valid"`
	} `json:"validated"`
	Discrepancies []struct {
		Username    string `json:"username"`
		Description string `json:"description"`
	} `json:"discrepancies"`
}

// Stats holds seeding statistics.
type Stats struct {
	SnapshotsGenerated  int
	SnapshotsSubmitted  int
	SnapshotsSuccessful int
	SnapshotsDuplicate  int
	SnapshotsFailed     int
	TimelineEvents      int
	Discrepancies       int
	AlertsRaised        int
	StartTime           time.Time
	EndTime             time.Time
	Duration            time.Duration
}
