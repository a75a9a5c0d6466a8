package modem_test

import (
	"io"
	"sync"

	gomock "go.uber.org/mock/gomock"
	"i4.energy/across/cellwiz/modem"
)

// MockSequenceBuilder records the commands a test expects the modem to write,
// in order, together with the bytes the fake modem answers with. Reads are
// served from a channel so the reader loop blocks like on a serial port.
type MockSequenceBuilder struct {
	transport *modem.MockTransport
	rx        chan []byte
	hangup    sync.Once
	calls     []any
}

func NewMockSequence(transport *modem.MockTransport) *MockSequenceBuilder {
	b := &MockSequenceBuilder{
		transport: transport,
		rx:        make(chan []byte, 16),
		calls:     []any{},
	}
	transport.EXPECT().Read(gomock.Any()).DoAndReturn(func(p []byte) (int, error) {
		data, ok := <-b.rx
		if !ok {
			return 0, io.EOF
		}
		return copy(p, data), nil
	}).AnyTimes()
	return b
}

// Command expects cmd to be written and answers with resp. An empty resp
// leaves the modem silent.
func (b *MockSequenceBuilder) Command(cmd, resp string) *MockSequenceBuilder {
	b.calls = append(b.calls,
		b.transport.EXPECT().Write([]byte(cmd)).DoAndReturn(func(p []byte) (int, error) {
			if resp != "" {
				b.rx <- []byte(resp)
			}
			return len(p), nil
		}),
	)
	return b
}

func (b *MockSequenceBuilder) AT() *MockSequenceBuilder {
	return b.Command("AT\r\n", "\r\nOK\r\n")
}

func (b *MockSequenceBuilder) EchoOff() *MockSequenceBuilder {
	return b.Command("ATE0\r\n", "ATE0\r\n\r\nOK\r\n")
}

func (b *MockSequenceBuilder) VerboseErrors() *MockSequenceBuilder {
	return b.Command("AT+CMEE=2\r\n", "\r\nOK\r\n")
}

// Init expects the full bring-up sequence issued by modem.New.
func (b *MockSequenceBuilder) Init() *MockSequenceBuilder {
	return b.AT().EchoOff().VerboseErrors()
}

// Close expects the transport to be closed, which also ends the reads.
func (b *MockSequenceBuilder) Close(err error) *MockSequenceBuilder {
	b.calls = append(b.calls,
		b.transport.EXPECT().Close().DoAndReturn(func() error {
			b.Hangup()
			return err
		}),
	)
	return b
}

// Hangup makes every further read report io.EOF.
func (b *MockSequenceBuilder) Hangup() {
	b.hangup.Do(func() { close(b.rx) })
}

func (b *MockSequenceBuilder) Build() []any {
	return b.calls
}
