package wizard_test

import (
	"bytes"
	"context"
	"strings"
	"time"

	"go.uber.org/mock/gomock"

	"i4.energy/across/cellwiz/atcmd"
	"i4.energy/across/cellwiz/console"
	"i4.energy/across/cellwiz/store"
	"i4.energy/across/cellwiz/wizard"
)

func newTerm(lines ...string) (*console.Console, *bytes.Buffer) {
	var out bytes.Buffer
	in := ""
	if len(lines) > 0 {
		in = strings.Join(lines, "\r\n") + "\r\n"
	}
	return console.New(strings.NewReader(in), &out), &out
}

func haltPanics() wizard.Option {
	return wizard.WithHalt(func(err error) { panic(err) })
}

// run drives one cwiz invocation over a memory store with the given input.
func run(st store.Store, lines []string, opts ...wizard.Option) (string, error) {
	term, out := newTerm(lines...)
	err := newSession(term, st, opts...).Run(context.Background())
	return out.String(), err
}

type fakeLink struct {
	*atcmd.MockSender
	closed   bool
	closeErr error
}

func (l *fakeLink) Close() error {
	l.closed = true
	return l.closeErr
}

func opener(l *fakeLink) wizard.Option {
	return wizard.WithOpener(func(context.Context) (wizard.Link, error) {
		return l, nil
	})
}

func expectSend(m *atcmd.MockSender, cmd string, wait time.Duration, resp string, err error) *gomock.Call {
	return m.EXPECT().
		Send(gomock.Any(), []byte(cmd+"\r\n"), gomock.Any(), wait).
		DoAndReturn(func(_ context.Context, _ []byte, out []byte, _ time.Duration) (int, error) {
			return copy(out, resp), err
		})
}

func newSession(term wizard.Terminal, st store.Store, opts ...wizard.Option) *wizard.Session {
	return wizard.New(term, st, append([]wizard.Option{haltPanics()}, opts...)...)
}
