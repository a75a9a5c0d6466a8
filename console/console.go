// Package console is the operator's line console: serialized, chunked text
// output and blocking line input over any byte stream, plus the registry of
// top-level commands.
package console

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"
)

// ChunkSize is the largest single write handed to the underlying stream.
const ChunkSize = 127

// Console serializes output and reads input one line at a time.
type Console struct {
	mu sync.Mutex
	w  io.Writer

	in *bufio.Scanner

	connected atomic.Bool
	logger    *slog.Logger
	prompt    string

	commands []Command
}

type Option func(*Console)

func WithLogger(l *slog.Logger) Option {
	return func(c *Console) {
		c.logger = l
	}
}

// WithPrompt sets the command prompt printed by Run.
func WithPrompt(p string) Option {
	return func(c *Console) {
		c.prompt = p
	}
}

// New returns a connected console reading r and writing w.
func New(r io.Reader, w io.Writer, opts ...Option) *Console {
	c := &Console{
		w:      w,
		in:     bufio.NewScanner(r),
		logger: slog.New(slog.DiscardHandler),
		prompt: "\r\ncellwiz> ",
	}
	c.connected.Store(true)
	for _, opt := range opts {
		opt(c)
	}
	c.registerHelp()
	return c
}

// SetConnected marks whether an operator is attached. A disconnected
// console drops all output.
func (c *Console) SetConnected(v bool) {
	c.connected.Store(v)
}

func (c *Console) Connected() bool {
	return c.connected.Load()
}

// Print writes msg in chunks of at most ChunkSize bytes while holding the
// output lock.
func (c *Console) Print(msg string) {
	if !c.connected.Load() {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	for len(msg) > 0 {
		n := min(len(msg), ChunkSize)
		if _, err := io.WriteString(c.w, msg[:n]); err != nil {
			c.logger.Debug("console write failed", "error", err)
			return
		}
		msg = msg[n:]
	}
}

func (c *Console) Printf(format string, args ...any) {
	c.Print(fmt.Sprintf(format, args...))
}

// ReadLine blocks until a full line is available and returns it without
// the line terminator. It returns io.EOF once the input is exhausted.
func (c *Console) ReadLine() (string, error) {
	if !c.in.Scan() {
		if err := c.in.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	return strings.TrimRight(c.in.Text(), "\r"), nil
}

// BannerWidth is the usable width between the frame asterisks.
const BannerWidth = 77

// Center frames str for the boot banner.
func Center(str string) string {
	pad := 0
	if len(str) < BannerWidth {
		pad = (BannerWidth - len(str)) / 2
	}
	trail := max(BannerWidth-len(str)-pad, 0)
	return "*" + strings.Repeat(" ", pad) + str + strings.Repeat(" ", trail) + "*\r\n"
}

// Banner prints lines centered inside a frame of asterisks.
func (c *Console) Banner(lines ...string) {
	rule := strings.Repeat("*", BannerWidth+2)
	var b strings.Builder
	b.WriteString("\r\n" + rule + "\r\n")
	for _, l := range lines {
		b.WriteString(Center(l))
	}
	b.WriteString(rule + "\r\n")
	c.Print(b.String())
}
