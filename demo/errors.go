package demo

import "errors"

var (
	// ErrInvalidArgument is returned by Trigger for anything but start or stop.
	ErrInvalidArgument = errors.New("invalid demo argument")

	// ErrNotConfigured is returned by Trigger when the network interface or
	// the IoT service has not been configured yet.
	ErrNotConfigured = errors.New("demo not configured")

	// ErrStore wraps a store failure that was handed to the halt hook.
	ErrStore = errors.New("config store failure")
)
