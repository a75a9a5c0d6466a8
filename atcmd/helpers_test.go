package atcmd_test

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"i4.energy/across/cellwiz/atcmd"
	"i4.energy/across/cellwiz/console"
	"i4.energy/across/cellwiz/record"
	"i4.energy/across/cellwiz/store"
)

// newTerm returns a console that reads the given lines and records output.
func newTerm(lines ...string) (*console.Console, *bytes.Buffer) {
	var out bytes.Buffer
	in := ""
	if len(lines) > 0 {
		in = strings.Join(lines, "\r\n") + "\r\n"
	}
	return console.New(strings.NewReader(in), &out), &out
}

func expectSend(m *atcmd.MockSender, cmd string, wait time.Duration, resp string, err error) *gomock.Call {
	return m.EXPECT().
		Send(gomock.Any(), []byte(cmd+"\r\n"), gomock.Any(), wait).
		DoAndReturn(func(_ context.Context, _ []byte, out []byte, _ time.Duration) (int, error) {
			return copy(out, resp), err
		})
}

func haltPanics() atcmd.Option {
	return atcmd.WithHalt(func(err error) { panic(err) })
}

// sleeps records every requested delay instead of waiting.
type sleeps struct {
	delays []time.Duration
}

func (s *sleeps) option() atcmd.Option {
	return atcmd.WithSleep(func(_ context.Context, d time.Duration) error {
		s.delays = append(s.delays, d)
		return nil
	})
}

func seedCatalog(t *testing.T, st store.Store, entries ...record.ATCommand) {
	t.Helper()
	for i, e := range entries {
		require.NoError(t, store.Save(st, store.ATCmdInfoType, i, e))
	}
	require.NoError(t, st.Write([]byte{uint8(len(entries))}, store.ATCmdCfgType, 0))
}
