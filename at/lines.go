package at

import (
	"bufio"
	"bytes"
	"strings"
)

// ScanLines is a bufio.SplitFunc for modem output. Lines end in CRLF; a
// bare LF also ends a line since some modules drop the CR in echo mode.
// The input prompt is its own token even though no terminator follows it.
// Whatever is left at EOF is returned as the last token.
func ScanLines(data []byte, atEOF bool) (advance int, token []byte, err error) {
	if atEOF && len(data) == 0 {
		return 0, nil, nil
	}

	if bytes.HasPrefix(data, []byte(Prompt)) {
		return len(Prompt), data[:len(Prompt)], nil
	}

	if i := bytes.IndexByte(data, '\n'); i >= 0 {
		return i + 1, bytes.TrimSuffix(data[:i], []byte("\r")), nil
	}

	if atEOF {
		return len(data), data, nil
	}
	return 0, nil, nil
}

var _ bufio.SplitFunc = ScanLines

var finals = map[string]bool{
	OK:         true,
	ERROR:      true,
	NoCarrier:  true,
	NoDialtone: true,
	Busy:       true,
	NoAnswer:   true,
}

var urcs = []string{UrcPowered, UrcCallReady, UrcSMSReady, UrcIndication, UrcPowerDown}

// Kind classifies one line as returned by ScanLines.
func Kind(line string) LineKind {
	if line == Prompt {
		return KindPrompt
	}

	line = strings.TrimSpace(line)
	switch {
	case line == "":
		return KindBlank
	case finals[line]:
		return KindFinal
	case strings.HasPrefix(line, CmeError), strings.HasPrefix(line, CmsError):
		return KindFinal
	case len(line) >= 2 && strings.EqualFold(line[:2], CmdAt):
		return KindEcho
	}

	for _, u := range urcs {
		if strings.HasPrefix(line, u) {
			return KindURC
		}
	}
	return KindData
}

// Lines splits a response buffer into complete lines. A trailing partial
// line is dropped unless it is the input prompt.
func Lines(buf []byte) []string {
	var lines []string
	for len(buf) > 0 {
		advance, token, _ := ScanLines(buf, false)
		if advance == 0 {
			break
		}
		lines = append(lines, string(token))
		buf = buf[advance:]
	}
	return lines
}

// HasFinal reports whether buf already holds a complete final result code
// or the input prompt, which is when a command exchange is over. A final
// code still missing its line terminator does not count.
func HasFinal(buf []byte) bool {
	for _, line := range Lines(buf) {
		switch Kind(line) {
		case KindFinal, KindPrompt:
			return true
		}
	}
	return false
}
