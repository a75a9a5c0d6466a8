// Package at holds the vocabulary of the line-oriented AT protocol spoken by
// the cellular modem: terminators, result codes, and the line scanner and
// classifier that decide when a response is complete.
package at

const (
	// Terminal Control
	CRLF   = "\r\n"
	Prompt = "> "

	// Terminator is appended to every command line sent to the modem.
	Terminator = CRLF

	// Response Codes
	OK         = "OK"
	ERROR      = "ERROR"
	NoCarrier  = "NO CARRIER"
	NoDialtone = "NO DIALTONE"
	Busy       = "BUSY"
	NoAnswer   = "NO ANSWER"
	CmeError   = "+CME ERROR:"
	CmsError   = "+CMS ERROR:"

	// URCs the modem emits on its own after power-up
	UrcPowered    = "RDY"
	UrcCallReady  = "Call Ready"
	UrcSMSReady   = "SMS Ready"
	UrcIndication = "+QIND:"
	UrcPowerDown  = "POWERED DOWN"

	// Bring-up commands issued when a modem session is opened
	CmdAt            = "AT"
	CmdEchoOff       = "ATE0"
	CmdVerboseErrors = "AT+CMEE=2"
)

// Exit words end the interactive shell and the catalog recorder.
const (
	ExitLower = "exit"
	ExitUpper = "EXIT"
)

// IsExit reports whether line is one of the reserved exit words.
func IsExit(line string) bool {
	return line == ExitLower || line == ExitUpper
}

// LineKind is the role of one line of modem output.
type LineKind int

const (
	KindData   LineKind = iota // Intermediate command output (+CSQ: ...)
	KindFinal                  // OK, ERROR, +CME ERROR: ...
	KindPrompt                 // Data input prompt
	KindEcho                   // Command echoed back with ATE1
	KindURC                    // Unsolicited notifications
	KindBlank                  // Empty line between CRLF pairs
)
