package console_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"i4.energy/across/cellwiz/console"
)

// chunkWriter records every individual Write call.
type chunkWriter struct {
	mu     sync.Mutex
	chunks []string
}

func (w *chunkWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.chunks = append(w.chunks, string(p))
	return len(p), nil
}

func (w *chunkWriter) String() string {
	return strings.Join(w.chunks, "")
}

func TestPrintChunks(t *testing.T) {
	w := &chunkWriter{}
	c := console.New(strings.NewReader(""), w)

	msg := strings.Repeat("x", 300)
	c.Print(msg)

	require.Len(t, w.chunks, 3)
	assert.Len(t, w.chunks[0], console.ChunkSize)
	assert.Len(t, w.chunks[1], console.ChunkSize)
	assert.Len(t, w.chunks[2], 300-2*console.ChunkSize)
	assert.Equal(t, msg, w.String())
}

func TestPrintConcurrentMessagesDoNotInterleave(t *testing.T) {
	w := &chunkWriter{}
	c := console.New(strings.NewReader(""), w)

	a := strings.Repeat("a", 500)
	b := strings.Repeat("b", 500)

	var wg sync.WaitGroup
	for _, msg := range []string{a, b} {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c.Print(msg)
		}()
	}
	wg.Wait()

	out := w.String()
	assert.True(t, out == a+b || out == b+a, "messages interleaved")
}

func TestPrintDisconnected(t *testing.T) {
	var out bytes.Buffer
	c := console.New(strings.NewReader(""), &out)

	c.SetConnected(false)
	c.Print("hidden")
	assert.Empty(t, out.String())
	assert.False(t, c.Connected())

	c.SetConnected(true)
	c.Printf("shown %d", 1)
	assert.Equal(t, "shown 1", out.String())
}

type failingWriter struct{ calls int }

func (w *failingWriter) Write(p []byte) (int, error) {
	w.calls++
	return 0, errors.New("port gone")
}

func TestPrintStopsOnWriteError(t *testing.T) {
	w := &failingWriter{}
	c := console.New(strings.NewReader(""), w)

	c.Print(strings.Repeat("x", 400))
	assert.Equal(t, 1, w.calls)

	// The lock was released on the error path
	c.Print("again")
	assert.Equal(t, 2, w.calls)
}

func TestReadLine(t *testing.T) {
	c := console.New(strings.NewReader("first\r\nsecond\n\r\nlast"), io.Discard)

	for _, want := range []string{"first", "second", "", "last"} {
		line, err := c.ReadLine()
		require.NoError(t, err)
		assert.Equal(t, want, line)
	}

	_, err := c.ReadLine()
	assert.ErrorIs(t, err, io.EOF)
}

func TestCenter(t *testing.T) {
	line := console.Center("Title")
	assert.Equal(t, console.BannerWidth+2+2, len(line))
	assert.True(t, strings.HasPrefix(line, "*"+strings.Repeat(" ", 36)+"Title"))
	assert.True(t, strings.HasSuffix(line, "*\r\n"))

	// Even length leaves one more trailing space than leading
	line = console.Center("ab")
	assert.Equal(t, "*"+strings.Repeat(" ", 37)+"ab"+strings.Repeat(" ", 38)+"*\r\n", line)

	long := strings.Repeat("z", 90)
	assert.Equal(t, "*"+long+"*\r\n", console.Center(long))
}

func TestDispatch(t *testing.T) {
	var out bytes.Buffer
	c := console.New(strings.NewReader(""), &out)

	var got []string
	c.Register(console.Command{
		Name:  "demo",
		Help:  "Start/Stop the demo",
		Usage: "demo <start>/<stop>",
		Run: func(_ context.Context, args []string) error {
			got = args
			return nil
		},
	})

	require.NoError(t, c.Dispatch(context.Background(), `demo start "two words"`))
	assert.Equal(t, []string{"start", "two words"}, got)

	require.NoError(t, c.Dispatch(context.Background(), "   "))

	err := c.Dispatch(context.Background(), "reboot")
	assert.ErrorIs(t, err, console.ErrUnknownCommand)
	assert.Contains(t, out.String(), "Unknown command: reboot")

	err = c.Dispatch(context.Background(), `demo "unterminated`)
	assert.ErrorIs(t, err, console.ErrInvalidLine)
}

func TestHelpListsCommands(t *testing.T) {
	var out bytes.Buffer
	c := console.New(strings.NewReader(""), &out)
	c.Register(console.Command{Name: "cwiz", Help: "Network/Cloud Configuration Menu", Usage: "cwiz", Run: func(context.Context, []string) error { return nil }})

	require.NoError(t, c.Dispatch(context.Background(), "?"))
	assert.Contains(t, out.String(), "cwiz")
	assert.Contains(t, out.String(), "Network/Cloud Configuration Menu")
	assert.Contains(t, out.String(), "Usage: cwiz")
}

func TestRunUntilEOF(t *testing.T) {
	var out bytes.Buffer
	c := console.New(strings.NewReader("count\r\nbogus\r\ncount\r\n"), &out, console.WithPrompt("> "))

	n := 0
	c.Register(console.Command{Name: "count", Run: func(context.Context, []string) error {
		n++
		return nil
	}})

	require.NoError(t, c.Run(context.Background()))
	assert.Equal(t, 2, n)
	assert.Equal(t, 4, strings.Count(out.String(), "> "))
}
