package modem

import "errors"

var (
	// ErrNoDialer is returned when a Modem is constructed without a Dialer.
	//
	// This indicates a configuration error. A Dialer is required in order to
	// establish a connection to the modem.
	ErrNoDialer = errors.New("no dialer configured")

	// ErrNotInitialized is returned when an operation is attempted on a Modem
	// that has no transport.
	//
	// This can occur if the Dialer returned a nil Transport or if the Modem
	// was not created via New.
	ErrNotInitialized = errors.New("modem not initialized")

	// ErrAlreadyClosed is returned when Close is called on a Modem that has
	// already been closed, or when a command is sent after Close.
	ErrAlreadyClosed = errors.New("modem already closed")

	// ErrLoopRunning is returned when Loop is called while the reader loop
	// of the same Modem is already running or has already run.
	ErrLoopRunning = errors.New("modem loop already running")

	// ErrTimeout is returned by Send when the wait time elapsed before the
	// modem finished its response. Whatever was received so far is still
	// reported through the byte count, and callers may inspect it.
	ErrTimeout = errors.New("modem response timeout")
)
