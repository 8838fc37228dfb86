package reconcile

import "github.com/devpulse/engage/pkg/logger"

// Option applies a configuration option to the Engine.
type Option func(*Engine)

// WithNormalizer sets the username-normalization function.
func WithNormalizer(n Normalizer) Option {
	return func(e *Engine) {
		if n != nil {
			e.normalize = n
		}
	}
}

// WithLogger sets a custom logger for the engine.
func WithLogger(l logger.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}
