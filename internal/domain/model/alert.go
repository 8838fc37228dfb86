package model

import (
	"errors"
	"time"
)

// AlertStatus is the lifecycle status of an alert.
type AlertStatus string

const (
	AlertStatusNew       AlertStatus = "new"
	AlertStatusActive    AlertStatus = "active"
	AlertStatusResolved  AlertStatus = "resolved"
	AlertStatusDismissed AlertStatus = "dismissed"
)

// AlertTypeInactivity marks alerts raised by the inactivity detector.
const AlertTypeInactivity = "inactivity"

// Alert is a per-user engagement alert. The core emits alerts; the alert
// store owns persistence and the single-active-alert-per-user policy.
type Alert struct {
	User             string      `json:"user"`
	Cohort           string      `json:"cohort"`
	Type             string      `json:"type"`
	Metric           string      `json:"metric"`
	CurrentValue     float64     `json:"current_value"`
	PreviousValue    float64     `json:"previous_value"`
	PercentageChange float64     `json:"percentage_change"`
	Week             string      `json:"week"`
	FirstDetected    time.Time   `json:"first_detected"`
	Status           AlertStatus `json:"status"`
	Description      string      `json:"description"`
}

// Validate checks the alert's own shape. A failure here indicates a defect
// in the emitting component, not dirty external data.
func (a Alert) Validate() error {
	switch {
	case a.User == "":
		return errors.New("alert missing user")
	case a.Type == "":
		return errors.New("alert missing type")
	case a.Metric == "":
		return errors.New("alert missing metric")
	case a.Week == "":
		return errors.New("alert missing week")
	case a.FirstDetected.IsZero():
		return errors.New("alert missing first-detected timestamp")
	}
	switch a.Status {
	case AlertStatusNew, AlertStatusActive, AlertStatusResolved, AlertStatusDismissed:
	default:
		return errors.New("alert has unknown status")
	}
	return nil
}
