package model

import "time"

// EventType classifies a timeline event by its source record.
type EventType string

const (
	EventTypeIssue  EventType = "issue"
	EventTypePR     EventType = "pr"
	EventTypeSurvey EventType = "survey"
)

// EventStatus is the lifecycle status carried on a timeline event.
type EventStatus string

const (
	EventStatusOpen   EventStatus = "open"
	EventStatusClosed EventStatus = "closed"
	EventStatusMerged EventStatus = "merged"
)

// TimelineEvent is one entry in the merged activity timeline. IDs are unique
// within a single synthesis run. Date is normalized to calendar-day
// precision before events are compared, bucketed, or sorted.
type TimelineEvent struct {
	ID          string      `json:"id"`
	Type        EventType   `json:"type"`
	Title       string      `json:"title"`
	URL         string      `json:"url,omitempty"`
	Date        time.Time   `json:"date"`
	Name        string      `json:"name"`
	Username    string      `json:"username"`
	TechPartner string      `json:"tech_partner,omitempty"`
	Cohort      string      `json:"cohort"`
	Week        string      `json:"week"`
	Status      EventStatus `json:"status"`
	Description string      `json:"description,omitempty"`
}
