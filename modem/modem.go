package modem

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"i4.energy/across/cellwiz/at"
)

// Modem is an open session with a cellular modem that speaks AT commands.
//
// A single reader loop owns all reads from the transport and forwards the raw
// bytes it receives. Send writes one command and collects the response bytes
// until the modem reports a final result code, the caller's buffer is full,
// or the wait time elapses. Concurrent Send calls are serialized.
type Modem struct {
	// transport provides the physical connection to the modem (serial, TCP, etc.)
	transport Transport
	// config contains the modem configuration settings
	config Config
	logger *slog.Logger

	// sendMu serializes command/response exchanges
	sendMu sync.Mutex
	// rx carries raw chunks from the reader loop to Send
	rx chan []byte
	// unanswered is set when the last exchange ended before its final
	// result code arrived. Guarded by sendMu.
	unanswered bool

	errMu   sync.Mutex
	loopErr error

	closed      atomic.Bool
	loopRunning atomic.Bool

	// loopCtx controls the lifecycle of the reader loop
	loopCtx context.Context
	// loopCancel cancels the reader loop
	loopCancel context.CancelFunc
}

// New dials the modem, starts the reader loop and runs the bring-up sequence
// (AT, ATE0, AT+CMEE=2).
//
// Returns an error if the transport connection or modem initialization
// fails. On failure the transport is closed again.
func New(ctx context.Context, config Config) (*Modem, error) {
	if err := config.validate(); err != nil {
		return nil, err
	}
	config.setDefaults()

	transport, err := config.dialer.Dial(ctx)
	if err != nil {
		return nil, err
	}
	if transport == nil {
		return nil, ErrNotInitialized
	}

	m := &Modem{
		transport: transport,
		config:    config,
		logger:    config.logger,
		// Buffered so unsolicited output between commands does not stall the reader
		rx: make(chan []byte, 64),
	}
	m.loopCtx, m.loopCancel = context.WithCancel(context.Background())

	go func() {
		if err := m.Loop(m.loopCtx); err != nil {
			m.logger.Debug("modem reader loop stopped", "error", err)
		}
	}()

	initCtx, cancel := context.WithTimeout(ctx, config.initTimeout)
	defer cancel()

	if err := m.init(initCtx); err != nil {
		m.Close()
		return nil, fmt.Errorf("initialize modem: %w", err)
	}

	return m, nil
}

// Loop reads from the transport until it fails or ctx is cancelled and hands
// every chunk to Send. New starts it; the Modem keeps exactly one reader, so
// any further call returns ErrLoopRunning.
func (m *Modem) Loop(ctx context.Context) error {
	if !m.loopRunning.CompareAndSwap(false, true) {
		return ErrLoopRunning
	}
	defer close(m.rx)

	buf := make([]byte, m.config.readSize)
	for {
		n, err := m.transport.Read(buf)
		if n > 0 {
			chunk := append([]byte(nil), buf[:n]...)
			select {
			case m.rx <- chunk:
			default:
				// Nobody is waiting for a response and the buffer is full
				m.logger.Debug("dropping unsolicited modem output", "bytes", n)
			}
		}
		if err != nil {
			if ctx.Err() != nil {
				err = ctx.Err()
			}
			m.setLoopErr(err)
			return err
		}
		if ctx.Err() != nil {
			m.setLoopErr(ctx.Err())
			return ctx.Err()
		}
	}
}

// Send writes cmd as-is and copies the response into out. The caller is
// responsible for the line terminator.
//
// It returns nil once a final result code or the input prompt has been
// received, or when out is full. It returns ErrTimeout when wait elapses
// first; the bytes received so far are still counted in n. Any other error
// means the exchange failed at the transport level.
//
// After an exchange that timed out or was cancelled, Send first waits for
// that command's late answer and discards it, so it is never taken for the
// response to cmd.
func (m *Modem) Send(ctx context.Context, cmd []byte, out []byte, wait time.Duration) (int, error) {
	if m.closed.Load() {
		return 0, ErrAlreadyClosed
	}
	if m.transport == nil {
		return 0, ErrNotInitialized
	}

	m.sendMu.Lock()
	defer m.sendMu.Unlock()

	if m.unanswered {
		m.settle(ctx)
		m.unanswered = false
	}
	m.drain()

	m.logger.Debug("modem tx", "cmd", string(bytes.TrimSpace(cmd)))
	if _, err := m.transport.Write(cmd); err != nil {
		return 0, fmt.Errorf("write command %q: %w", bytes.TrimSpace(cmd), err)
	}

	timer := time.NewTimer(wait)
	defer timer.Stop()

	n := 0
	for {
		select {
		case chunk, ok := <-m.rx:
			if !ok {
				return n, fmt.Errorf("read response: %w", m.err())
			}
			n += copy(out[n:], chunk)
			if at.HasFinal(out[:n]) || n == len(out) {
				m.logger.Debug("modem rx", "resp", string(out[:n]))
				return n, nil
			}
		case <-timer.C:
			m.logger.Debug("modem rx timeout", "resp", string(out[:n]), "wait", wait)
			m.unanswered = true
			return n, ErrTimeout
		case <-ctx.Done():
			m.unanswered = true
			return n, ctx.Err()
		}
	}
}

// Close shuts down the modem and releases all resources.
// It stops the reader loop, closes the transport connection, and marks
// the modem as closed. After calling Close(), the modem cannot be reused.
func (m *Modem) Close() error {
	if !m.closed.CompareAndSwap(false, true) {
		return ErrAlreadyClosed
	}

	if m.loopCancel != nil {
		m.loopCancel()
	}

	if m.transport != nil {
		return m.transport.Close()
	}

	return nil
}

// init performs the bring-up sequence for the modem hardware.
func (m *Modem) init(ctx context.Context) error {
	for _, cmd := range []string{at.CmdAt, at.CmdEchoOff, at.CmdVerboseErrors} {
		if err := m.expectOK(ctx, cmd); err != nil {
			return fmt.Errorf("%s: %w", cmd, err)
		}
	}
	return nil
}

// expectOK sends cmd and requires an OK in the response.
func (m *Modem) expectOK(ctx context.Context, cmd string) error {
	out := make([]byte, 128)
	n, err := m.Send(ctx, []byte(cmd+at.Terminator), out, m.config.atTimeout)
	if err != nil {
		return err
	}
	if !at.Contains(out[:n], at.OK) {
		return fmt.Errorf("unexpected response: %q", out[:n])
	}
	return nil
}

// settle discards the late answer of an unanswered exchange. It returns once
// that answer holds a final result code, the line stayed quiet for the
// settle time, or the AT timeout elapsed.
func (m *Modem) settle(ctx context.Context) {
	quiet := time.NewTimer(m.config.settleTime)
	defer quiet.Stop()
	limit := time.NewTimer(m.config.atTimeout)
	defer limit.Stop()

	var late []byte
	for {
		select {
		case chunk, ok := <-m.rx:
			if !ok {
				return
			}
			late = append(late, chunk...)
			if at.HasFinal(late) {
				m.logger.Debug("discarded late modem response", "resp", string(late))
				return
			}
			quiet.Reset(m.config.settleTime)
		case <-quiet.C:
			if len(late) > 0 {
				m.logger.Debug("discarded partial modem response", "resp", string(late))
			}
			return
		case <-limit.C:
			return
		case <-ctx.Done():
			return
		}
	}
}

// drain discards output that arrived while no command was pending.
func (m *Modem) drain() {
	for {
		select {
		case _, ok := <-m.rx:
			if !ok {
				return
			}
		default:
			return
		}
	}
}

func (m *Modem) setLoopErr(err error) {
	m.errMu.Lock()
	defer m.errMu.Unlock()
	if m.loopErr == nil {
		m.loopErr = err
	}
}

func (m *Modem) err() error {
	m.errMu.Lock()
	defer m.errMu.Unlock()
	if m.loopErr == nil {
		return io.EOF
	}
	return m.loopErr
}
