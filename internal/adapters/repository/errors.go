package repository

import "errors"

// Sentinel kinds for store errors.
var (
	ErrNotFound      = errors.New("cohort results not found")
	ErrAlertNotFound = errors.New("alert not found")
)
