package timeline

import "github.com/devpulse/engage/pkg/logger"

// Option applies a configuration option to the Synthesizer.
type Option func(*Synthesizer)

// WithNormalizer sets the username-normalization function.
func WithNormalizer(n Normalizer) Option {
	return func(s *Synthesizer) {
		if n != nil {
			s.normalize = n
		}
	}
}

// WithIDSource sets the event-id generator. Useful for deterministic tests.
func WithIDSource(src IDSource) Option {
	return func(s *Synthesizer) {
		if src != nil {
			s.newID = src
		}
	}
}

// WithLogger sets a custom logger for the synthesizer.
func WithLogger(l logger.Logger) Option {
	return func(s *Synthesizer) {
		if l != nil {
			s.logger = l
		}
	}
}
