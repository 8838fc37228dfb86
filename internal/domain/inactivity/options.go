package inactivity

import (
	"time"

	"github.com/devpulse/engage/pkg/logger"
)

// Option applies a configuration option to the Detector.
type Option func(*Detector)

// WithNormalizer sets the username-normalization function.
func WithNormalizer(n Normalizer) Option {
	return func(d *Detector) {
		if n != nil {
			d.normalize = n
		}
	}
}

// WithClock sets the time source used for alert timestamps.
func WithClock(now func() time.Time) Option {
	return func(d *Detector) {
		if now != nil {
			d.now = now
		}
	}
}

// WithLogger sets a custom logger for the detector.
func WithLogger(l logger.Logger) Option {
	return func(d *Detector) {
		if l != nil {
			d.logger = l
		}
	}
}
