package at_test

import (
	"testing"

	"i4.energy/across/cellwiz/at"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		text    string
		isError bool
	}{
		{
			name:    "ERROR response",
			input:   "\r\nERROR\r\n",
			text:    "\r\nERROR\r\n",
			isError: true,
		},
		{
			name:    "Empty response",
			input:   "",
			text:    "\r\nERROR\r\n",
			isError: true,
		},
		{
			name:    "NUL filled buffer",
			input:   "\x00\x00\x00\x00",
			text:    "\r\nERROR\r\n",
			isError: true,
		},
		{
			name:  "Trailing noise after OK",
			input: "\r\n+CSQ: 20,99\r\n\r\nOKjunk",
			text:  "\r\n+CSQ: 20,99\r\n\r\nOK",
		},
		{
			name:  "Stray character from transport",
			input: "\r\nOK\r\nD",
			text:  "\r\nOK",
		},
		{
			name:  "Truncates at first OK",
			input: "\r\nOK\r\n\r\nOK\r\n",
			text:  "\r\nOK",
		},
		{
			name:  "No OK present",
			input: "\r\n+CREG: 0,1\r\n",
			text:  "\r\n+CREG: 0,1\r\nOK",
		},
		{
			name:  "CME error is not the literal ERROR",
			input: "\r\n+CME ERROR: 10\r\n",
			text:  "\r\n+CME ERROR: 10\r\nOK",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			text, isError := at.Normalize([]byte(tt.input))
			if text != tt.text {
				t.Errorf("Normalize(%q) text = %q, expected %q", tt.input, text, tt.text)
			}
			if isError != tt.isError {
				t.Errorf("Normalize(%q) isError = %v, expected %v", tt.input, isError, tt.isError)
			}
		})
	}
}

func TestContains(t *testing.T) {
	resp := []byte("\r\n+CGATT: 1\r\n\r\nOK\r\n")

	if !at.Contains(resp, "+CGATT: 1") {
		t.Error("expected substring to be found")
	}
	if at.Contains(resp, "+cgatt: 1") {
		t.Error("expected match to be case-sensitive")
	}
	if at.Contains(resp, "+CGATT: 0") {
		t.Error("expected missing substring not to match")
	}
}
