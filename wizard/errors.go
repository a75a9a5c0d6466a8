package wizard

import "errors"

var (
	// ErrStore wraps a store failure that was handed to the halt hook.
	ErrStore = errors.New("config store failure")

	// ErrNoModem is returned when the session has no way to open the modem.
	ErrNoModem = errors.New("no modem configured")

	// ErrCertTooLarge is returned when a pasted certificate exceeds MaxPEMSize.
	ErrCertTooLarge = errors.New("certificate exceeds the PEM buffer")

	// ErrCertEncoding is returned when the pasted body is not valid base64.
	ErrCertEncoding = errors.New("certificate is not valid base64")
)
