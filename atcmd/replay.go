package atcmd

import (
	"context"
	"errors"
	"fmt"
	"time"

	"i4.energy/across/cellwiz/at"
	"i4.energy/across/cellwiz/modem"
	"i4.energy/across/cellwiz/record"
	"i4.energy/across/cellwiz/store"
)

// Replay runs the stored catalog against the modem, starting at slot 0,
// while the session counter is non-zero. Load the counter with LoadCount
// first; Replay with a zero counter still runs slot 0.
//
// Each entry is sent with its wait time and accepted once its expected
// substring shows up in the response, whether the modem completed or timed
// out. A mismatch is retried after RetryDelay until RetryCount attempts were
// made; an entry with RetryCount 0 gets one attempt and a mismatch is let
// through. Any other transport error stops the replay at once.
//
// Every accepted entry advances the slot and decrements the session
// counter, so a full run leaves the counter at 0.
func (s *Session) Replay(ctx context.Context) error {
	s.term.Print("\r\n\r\n #################################################\r\n")

	err := s.replay(ctx)

	result := "completed"
	switch {
	case err == nil:
	case errors.Is(err, ErrRetriesExhausted):
		result = "retries_exhausted"
	case errors.Is(err, ErrStoppedOnTimeout):
		result = "timeout"
	case errors.Is(err, ErrMissingEntry):
		result = "missing_entry"
	default:
		result = "error"
	}
	s.observer.ObserveReplay(result)
	if err != nil {
		s.logger.Warn("catalog replay stopped", "error", err)
	}
	return err
}

func (s *Session) replay(ctx context.Context) error {
	out := make([]byte, ResponseSize)
	index := 0
	retry := 0

	for {
		entry, err := s.readEntry(index)
		if err != nil {
			return err
		}

		var n int
		for {
			s.term.Print("\r\n Command: " + entry.Command + at.Terminator + "\r\n")

			clear(out)
			n, err = s.send(ctx, entry.Command, out, time.Duration(entry.WaitTime)*time.Millisecond)
			if err != nil && !errors.Is(err, modem.ErrTimeout) {
				s.term.Print("\r\n Failed to read Cellular modem response!!!!\r\n")
				return fmt.Errorf("catalog entry %d %q: %w", index, entry.Command, err)
			}
			if at.Contains(out[:n], entry.Response) {
				break
			}
			s.term.Print("\r\nIncorrect response to AT command!!!!\r\n")

			if err := s.sleep(ctx, time.Duration(entry.RetryDelay)*time.Millisecond); err != nil {
				return err
			}
			retry++
			if retry >= int(entry.RetryCount) {
				break
			}
		}

		if entry.RetryCount > 0 && retry >= int(entry.RetryCount) {
			s.term.Print("User AT command failed!!!!\r\n")
			return fmt.Errorf("%w: entry %d %q", ErrRetriesExhausted, index, entry.Command)
		}

		s.display(out[:n])

		if err != nil {
			return fmt.Errorf("%w: entry %d %q", ErrStoppedOnTimeout, index, entry.Command)
		}

		index++
		retry = 0
		s.seq--
		if s.seq == 0 {
			return nil
		}
	}
}

func (s *Session) readEntry(slot int) (record.ATCommand, error) {
	var entry record.ATCommand

	data, err := s.store.Read(store.ATCmdInfoType, slot)
	if errors.Is(err, store.ErrNotFound) {
		s.term.Print("Failed to read User AT commands from Flash!!!\r\n")
		return entry, fmt.Errorf("%w: slot %d", ErrMissingEntry, slot)
	}
	if err != nil {
		return entry, s.fatal("Failed to read User AT commands from Flash!!!\r\n", err)
	}
	if err := entry.UnmarshalBinary(data); err != nil {
		s.term.Print("Failed to read User AT commands from Flash!!!\r\n")
		return entry, fmt.Errorf("%w: slot %d: %w", ErrMissingEntry, slot, err)
	}
	return entry, nil
}
