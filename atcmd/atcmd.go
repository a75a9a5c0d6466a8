// Package atcmd drives a cellular modem from the operator console: an
// interactive AT passthrough shell, a recorder that stores a catalog of
// command/response/retry entries, and a replay engine that runs the stored
// catalog against the modem.
package atcmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"i4.energy/across/cellwiz/at"
	"i4.energy/across/cellwiz/modem"
	"i4.energy/across/cellwiz/store"
)

// ResponseSize is the size of the buffer a single response is read into.
const ResponseSize = 256

// DefaultShellTimeout bounds every command typed into the shell.
const DefaultShellTimeout = 3 * time.Second

// Terminal is the operator side of a session.
type Terminal interface {
	Print(msg string)
	ReadLine() (string, error)
}

// Observer receives counters about modem traffic. Outcomes are "ok",
// "timeout" and "error".
type Observer interface {
	ObserveCommand(outcome string, elapsed time.Duration)
	ObserveReplay(result string)
}

type nopObserver struct{}

func (nopObserver) ObserveCommand(string, time.Duration) {}
func (nopObserver) ObserveReplay(string)                 {}

// Session holds the state of one cellular configuration visit: the modem
// link, the store and the catalog sequence counter.
type Session struct {
	term     Terminal
	modem    Sender
	store    store.Store
	halt     func(error)
	logger   *slog.Logger
	observer Observer
	sleep    func(context.Context, time.Duration) error

	shellTimeout time.Duration

	// seq is the catalog length while recording and the number of entries
	// still to run while replaying.
	seq uint8
}

type Option func(*Session)

// WithHalt sets what happens on an unrecoverable store failure.
func WithHalt(h func(error)) Option {
	return func(s *Session) {
		s.halt = h
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(s *Session) {
		s.logger = l
	}
}

func WithObserver(o Observer) Option {
	return func(s *Session) {
		s.observer = o
	}
}

func WithShellTimeout(d time.Duration) Option {
	return func(s *Session) {
		s.shellTimeout = d
	}
}

// WithSleep replaces the wait between replay attempts.
func WithSleep(f func(context.Context, time.Duration) error) Option {
	return func(s *Session) {
		s.sleep = f
	}
}

func NewSession(term Terminal, m Sender, st store.Store, opts ...Option) *Session {
	s := &Session{
		term:         term,
		modem:        m,
		store:        st,
		logger:       slog.New(slog.DiscardHandler),
		observer:     nopObserver{},
		sleep:        sleepContext,
		shellTimeout: DefaultShellTimeout,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.halt == nil {
		logger := s.logger
		s.halt = func(err error) {
			logger.Error("unrecoverable store failure", "error", err)
			os.Exit(1)
		}
	}
	return s
}

// Seq returns the session's catalog counter.
func (s *Session) Seq() uint8 {
	return s.seq
}

// send writes line plus the terminator and records the outcome.
func (s *Session) send(ctx context.Context, line string, out []byte, wait time.Duration) (int, error) {
	start := time.Now()
	n, err := s.modem.Send(ctx, []byte(line+at.Terminator), out, wait)

	outcome := "ok"
	switch {
	case errors.Is(err, modem.ErrTimeout):
		outcome = "timeout"
	case err != nil:
		outcome = "error"
	}
	s.observer.ObserveCommand(outcome, time.Since(start))
	s.logger.Debug("at command", "cmd", line, "outcome", outcome, "bytes", n)
	return n, err
}

// display shows a response the way the operator expects to read it.
func (s *Session) display(resp []byte) {
	text, isError := at.Normalize(resp)
	s.term.Print(text)
	if !isError {
		s.term.Print(at.CRLF)
	}
}

// fatal reports an unrecoverable store failure and hands it to the halt hook.
func (s *Session) fatal(msg string, err error) error {
	s.term.Print(msg)
	err = fmt.Errorf("%w: %w", ErrStore, err)
	s.halt(err)
	return err
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
