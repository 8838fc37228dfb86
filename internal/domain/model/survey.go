// Package model contains domain records passed between layers.
package model

// MaxIssueSlots is the number of per-record issue slots a survey row carries.
const MaxIssueSlots = 3

// IssueSlot is one of the per-record (title, link, description) triples a
// contributor can attach to a weekly survey response.
type IssueSlot struct {
	Title       string
	Link        string
	Description string
}

// SurveyRecord is a normalized weekly survey response. Absent fields default
// to the empty string; Contributions defaults to "0".
type SurveyRecord struct {
	Name           string      // contributor display name
	Username       string      // optional platform username
	Week           string      // program-week label, e.g. "Week 7"
	Engagement     string      // engagement-participation free text
	TechPartner    bool        // collaborated with a tech partner this week
	TechPartners   string      // comma-separated partner list
	Contributions  string      // free-text weekly contribution count
	Issues         []IssueSlot // up to MaxIssueSlots slots
	Recommendation string      // recommendation score as reported
	Feedback       string
	Email          string
}

// ContributorProfile aggregates per-username contribution counts from the
// contribution-history API.
type ContributorProfile struct {
	Username             string
	IssuesCreated        int
	PullRequestsCreated  int
	PullRequestsReviewed int
}

// Total is the profile-side contribution count used for validation.
func (p ContributorProfile) Total() int {
	return p.IssuesCreated + p.PullRequestsCreated + p.PullRequestsReviewed
}

// ValidatedContribution is the cross-validated contribution record for one
// username.
type ValidatedContribution struct {
	Username         string `json:"username"`
	Reported         int    `json:"reported"`
	BoardCount       int    `json:"board_count"`
	ProfileCount     int    `json:"profile_count"`
	IsValid          bool   `json:"is_valid"`
	ContributorValid bool   `json:"contributor_valid"`
}

// Discrepancy records a mismatch between two sources' counts for one user.
type Discrepancy struct {
	Username    string `json:"username"`
	Description string `json:"description"`
}
