package modem

import (
	"io"
	"sync"
)

// TestTransport is a test helper that simulates a blocking transport using channels.
// This is needed because the reader loop continuously reads from the transport,
// and we need reads to block until data is available (like a real serial port would).
//
// When Respond is set, every Write is passed to it and a non-empty result is
// queued as the modem's answer.
type TestTransport struct {
	mu       sync.Mutex
	readChan chan []byte
	closed   bool
	written  []string

	Respond func(cmd string) string
}

// NewTestTransport creates a new test transport for testing.
// Exported for use in tests of packages that drive a real Modem.
func NewTestTransport() *TestTransport {
	return &TestTransport{
		readChan: make(chan []byte, 16),
	}
}

func (t *TestTransport) Write(p []byte) (n int, err error) {
	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return 0, io.ErrClosedPipe
	}
	t.written = append(t.written, string(p))
	respond := t.Respond
	t.mu.Unlock()

	if respond != nil {
		if resp := respond(string(p)); resp != "" {
			t.SendData(resp)
		}
	}
	return len(p), nil
}

func (t *TestTransport) Read(p []byte) (n int, err error) {
	data, ok := <-t.readChan
	if !ok {
		return 0, io.EOF
	}
	return copy(p, data), nil
}

func (t *TestTransport) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return nil
	}
	t.closed = true
	close(t.readChan)
	return nil
}

// SendData queues data to be read by the transport.
// This simulates receiving data from the modem.
func (t *TestTransport) SendData(data string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.closed {
		t.readChan <- []byte(data)
	}
}

// Written returns every command written so far, in order.
func (t *TestTransport) Written() []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]string(nil), t.written...)
}
