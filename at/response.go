package at

import "bytes"

// ErrorText is what the console shows for an empty or ERROR response.
const ErrorText = CRLF + ERROR + CRLF

// Normalize turns a raw response buffer into the text shown to the operator.
//
// An empty buffer or one starting with CRLF ERROR CRLF yields ErrorText and
// isError is true. Otherwise everything up to the first "OK" is kept and a
// single "OK" is appended, which drops whatever noise the transport left
// after the result code. A buffer without "OK" is kept whole and still gets
// the "OK" suffix.
func Normalize(resp []byte) (text string, isError bool) {
	resp = bytes.TrimRight(resp, "\x00")
	if len(resp) == 0 || bytes.HasPrefix(resp, []byte(ErrorText)) {
		return ErrorText, true
	}

	if i := bytes.Index(resp, []byte(OK)); i >= 0 {
		resp = resp[:i]
	}
	return string(resp) + OK, false
}

// Contains reports whether the expected substring occurs anywhere in resp.
// The match is case-sensitive.
func Contains(resp []byte, expected string) bool {
	return bytes.Contains(resp, []byte(expected))
}
