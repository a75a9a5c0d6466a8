package atcmd

import "errors"

var (
	// ErrRetriesExhausted is returned by Replay when an entry's expected
	// response did not show up within its retry budget. Later entries are
	// not run.
	ErrRetriesExhausted = errors.New("AT command retries exhausted")

	// ErrStoppedOnTimeout is returned by Replay when an entry was accepted
	// from a response that only arrived partially before its wait time
	// elapsed. Replay does not go on to the next entry in that case.
	ErrStoppedOnTimeout = errors.New("replay stopped after timed out response")

	// ErrMissingEntry is returned by Replay when the catalog length points
	// past the stored entries.
	ErrMissingEntry = errors.New("catalog entry missing")

	// ErrTerminal wraps a failure to read from the operator's terminal.
	ErrTerminal = errors.New("terminal read failed")

	// ErrStore wraps store failures passed to the halt hook.
	ErrStore = errors.New("config store failure")
)
