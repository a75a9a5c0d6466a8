package record

import "errors"

var (
	// ErrShortRecord is returned by UnmarshalBinary when the stored blob is
	// smaller than the record layout.
	ErrShortRecord = errors.New("record blob too short")

	// ErrInvalidIPv4 is returned by ParseIPv4 for anything other than four
	// dot-separated decimal tokens in [0,255].
	ErrInvalidIPv4 = errors.New("invalid IPv4 address")
)
