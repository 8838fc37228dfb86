// Package ingest maps raw string-keyed survey rows from the upstream survey
// tool into normalized domain records. Missing fields default to the empty
// string; the contribution count defaults to "0".
package ingest

import (
	"fmt"
	"strings"

	"github.com/devpulse/engage/internal/domain/model"
)

// Canonical survey column headers as exported by the survey tool.
const (
	ColName           = "Name"
	ColUsername       = "GitHub Username"
	ColWeek           = "Week"
	ColEngagement     = "How did you engage with the community this week?"
	ColTechPartner    = "Did you collaborate with a tech partner this week?"
	ColTechPartners   = "Which tech partner(s)?"
	ColContributions  = "How many issues, pull requests, or commits did you contribute this week?"
	ColRecommendation = "How likely are you to recommend the program?"
	ColFeedback       = "Any feedback for this week?"
	ColEmail          = "Email"
)

// Issue-slot headers are numbered 1 through model.MaxIssueSlots.
const (
	slotTitleFormat       = "Issue %d Title"
	slotLinkFormat        = "Issue %d Link"
	slotDescriptionFormat = "Issue %d Description"
)

// defaultContributions is the value an absent contribution-count field
// takes. The timeline gate compares against this exact literal.
const defaultContributions = "0"

// SurveyRecords converts raw rows into survey records, one per row. Rows
// are never dropped here; downstream components decide what to skip.
func SurveyRecords(rows []map[string]string) []model.SurveyRecord {
	records := make([]model.SurveyRecord, 0, len(rows))
	for _, row := range rows {
		records = append(records, surveyRecord(row))
	}
	return records
}

func surveyRecord(row map[string]string) model.SurveyRecord {
	record := model.SurveyRecord{
		Name:           field(row, ColName),
		Username:       field(row, ColUsername),
		Week:           field(row, ColWeek),
		Engagement:     field(row, ColEngagement),
		TechPartner:    isAffirmative(field(row, ColTechPartner)),
		TechPartners:   field(row, ColTechPartners),
		Contributions:  fieldOr(row, ColContributions, defaultContributions),
		Recommendation: field(row, ColRecommendation),
		Feedback:       field(row, ColFeedback),
		Email:          field(row, ColEmail),
	}

	for i := 1; i <= model.MaxIssueSlots; i++ {
		slot := model.IssueSlot{
			Title:       field(row, fmt.Sprintf(slotTitleFormat, i)),
			Link:        field(row, fmt.Sprintf(slotLinkFormat, i)),
			Description: field(row, fmt.Sprintf(slotDescriptionFormat, i)),
		}
		if slot.Title == "" && slot.Link == "" && slot.Description == "" {
			continue
		}
		record.Issues = append(record.Issues, slot)
	}

	return record
}

// field returns the row's value for key, defaulting to the empty string.
func field(row map[string]string, key string) string {
	return row[key]
}

// fieldOr returns the row's value for key, or fallback when the column is
// absent entirely. A present-but-empty value passes through unchanged.
func fieldOr(row map[string]string, key, fallback string) string {
	if v, ok := row[key]; ok {
		return v
	}
	return fallback
}

// isAffirmative interprets free-text yes/no answers.
func isAffirmative(raw string) bool {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "yes", "y", "true", "1":
		return true
	default:
		return false
	}
}
