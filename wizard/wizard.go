// Package wizard implements the cwiz configuration menus: network interface
// selection with Wi-Fi, cellular and IP address sub-wizards, cloud identity
// and certificate entry, and the dump of the stored configuration.
//
// Menus come in two flavours. Hard menus repeat until the first character
// of the answer is one of the offered choices. Soft menus accept any answer
// and leave the state machine where it was when nothing was selected.
package wizard

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"i4.energy/across/cellwiz/atcmd"
	"i4.energy/across/cellwiz/console"
	"i4.energy/across/cellwiz/record"
	"i4.energy/across/cellwiz/store"
)

// Terminal is the operator side of the wizard.
type Terminal interface {
	Print(msg string)
	ReadLine() (string, error)
}

// Link is an open modem session.
type Link interface {
	atcmd.Sender
	Close() error
}

// Opener opens the cellular modem for SIM configuration.
type Opener func(ctx context.Context) (Link, error)

// Main menu choices.
const (
	menuNetwork = 1
	menuCloud   = 2
	menuDump    = 3
	menuExit    = 4
)

// Session is one cwiz invocation. The records it collects start zeroed and
// are only durable once written to the store.
type Session struct {
	term   Terminal
	store  store.Store
	open   Opener
	halt   func(error)
	logger *slog.Logger
	atOpts []atcmd.Option

	net record.NetworkConfig
	iot record.IotConfig
}

type Option func(*Session)

// WithOpener sets how the modem is reached. Without it SIM configuration
// reports that the modem could not be opened.
func WithOpener(o Opener) Option {
	return func(s *Session) {
		s.open = o
	}
}

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

// WithATOptions passes options to the AT command sessions started from the
// cellular menus.
func WithATOptions(opts ...atcmd.Option) Option {
	return func(s *Session) {
		s.atOpts = append(s.atOpts, opts...)
	}
}

func New(term Terminal, st store.Store, opts ...Option) *Session {
	s := &Session{
		term:   term,
		store:  st,
		logger: slog.New(slog.DiscardHandler),
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

// Run shows the main menu until the operator picks Exit. It only returns
// early when the terminal fails.
func (s *Session) Run(ctx context.Context) error {
	s.net = record.NetworkConfig{}
	s.iot = record.IotConfig{}

	for {
		s.term.Print("\r\n##################    Main Menu  #######################\r\n")
		s.term.Print(" 1. Network Interface Selection \r\n 2. GCloud IoT Core Configuration \r\n" +
			" 3. Dump previous configuration from flash\r\n 4. Exit \r\n")
		s.term.Print("\r\n Please Enter Your Choice:")
		s.term.Print(">")
		line, err := s.term.ReadLine()
		if err != nil {
			return err
		}

		switch console.Atoi(line) {
		case menuNetwork:
			err = s.network(ctx)
		case menuCloud:
			err = s.cloud()
		case menuDump:
			Dump(s.term, s.store, s.halt)
		case menuExit:
			s.term.Print("\r\n")
			return nil
		default:
			s.term.Print("\r\nInvalid Input !!!\r\n")
		}
		if err != nil {
			return err
		}
	}
}

// fatal reports an unrecoverable store failure and hands it to the halt hook.
func (s *Session) fatal(msg string, err error) error {
	s.term.Print(msg)
	err = fmt.Errorf("%w: %w", ErrStore, err)
	s.halt(err)
	return err
}
