package atcmd

import (
	"context"
	"fmt"

	"i4.energy/across/cellwiz/at"
)

// Shell forwards every line the operator types to the modem and shows the
// response, until the operator types exit or EXIT.
//
// It returns the error of the last command sent, or nil when that command
// succeeded or nothing was sent. A terminal read failure is returned wrapped
// in ErrTerminal.
func (s *Session) Shell(ctx context.Context) error {
	s.term.Print("\r\n Entering AT command shell. Type 'exit' to terminate the shell \r\n")

	var last error
	out := make([]byte, ResponseSize)
	for {
		s.term.Print("\r\nat_shell>>")
		line, err := s.term.ReadLine()
		if err != nil {
			return fmt.Errorf("%w: %w", ErrTerminal, err)
		}

		if line == "" {
			continue
		}
		if at.IsExit(line) {
			return last
		}

		clear(out)
		n, err := s.send(ctx, line, out, s.shellTimeout)
		last = err
		if err != nil {
			s.logger.Info("shell command failed", "cmd", line, "error", err)
			s.term.Print("Failed to execute AT command\r\n")
			continue
		}
		s.display(out[:n])
	}
}
