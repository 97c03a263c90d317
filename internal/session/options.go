package session

import (
	"time"

	"github.com/charmbracelet/log"

	"github.com/llehouerou/neurobeats/internal/observe"
)

const (
	// DefaultFadeDuration is the length of every fade-in and fade-out.
	DefaultFadeDuration = time.Second
	// DefaultVolume is the initial target level.
	DefaultVolume = 0.5
)

// Option configures a Controller.
type Option func(*Controller)

// WithLogger sets the logger.
func WithLogger(l *log.Logger) Option {
	return func(c *Controller) { c.log = l }
}

// WithMetrics sets the metrics sink. Defaults to observe.DefaultMetrics().
func WithMetrics(m *observe.Metrics) Option {
	return func(c *Controller) { c.metrics = m }
}

// WithFadeDuration sets the fade length. Negative values are treated as zero.
func WithFadeDuration(d time.Duration) Option {
	return func(c *Controller) { c.fadeDuration = max(d, 0) }
}

// WithFadeSteps sets the number of samples per fade.
func WithFadeSteps(n int) Option {
	return func(c *Controller) { c.fadeSteps = n }
}

// WithVolume sets the initial target level.
func WithVolume(v float64) Option {
	return func(c *Controller) { c.volume = clampVolume(v) }
}

// WithLoadTimeout fails loads that take longer than d with a network error.
// Zero disables the bound.
func WithLoadTimeout(d time.Duration) Option {
	return func(c *Controller) { c.loadTimeout = max(d, 0) }
}
