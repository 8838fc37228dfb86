package inactivity

import "errors"

// Sentinel kinds for inactivity errors.
var (
	// ErrInvalidAlert marks an alert that failed its own shape validation;
	// a defect in the detector rather than in external data.
	ErrInvalidAlert = errors.New("invalid alert")
)
