package console

import "errors"

var (
	// ErrUnknownCommand is returned by Dispatch when no registered command
	// matches the first word of the line.
	ErrUnknownCommand = errors.New("unknown command")

	// ErrInvalidLine is returned by Dispatch when the line cannot be split
	// into words, e.g. because of an unterminated quote.
	ErrInvalidLine = errors.New("invalid command line")
)
