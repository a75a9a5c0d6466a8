package telemetry

import "errors"

var (
	// ErrNotConfigured is returned when no IoT service identity is stored.
	ErrNotConfigured = errors.New("IoT service not configured")

	// ErrPublishTimeout is returned when the broker did not acknowledge a
	// sample in time.
	ErrPublishTimeout = errors.New("publish timed out")
)
