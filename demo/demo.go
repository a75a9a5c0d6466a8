// Package demo starts and stops the sensor-to-cloud demo. The console
// command checks the stored configuration and signals the sensor task,
// which samples the sensors on a fixed period while started.
package demo

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"i4.energy/across/cellwiz/console"
	"i4.energy/across/cellwiz/record"
	"i4.energy/across/cellwiz/store"
)

// Event is a signal to the sensor task.
type Event int

const (
	EventStart Event = iota + 1
	EventStop
)

func (e Event) String() string {
	switch e {
	case EventStart:
		return "start"
	case EventStop:
		return "stop"
	default:
		return fmt.Sprintf("Event(%d)", int(e))
	}
}

// Printer is where operator messages go.
type Printer interface {
	Print(msg string)
}

// Poster delivers events to the sensor task. *Task implements it.
type Poster interface {
	Post(ctx context.Context, ev Event) error
}

// Controller implements the demo console command.
type Controller struct {
	out    Printer
	store  store.Store
	task   Poster
	halt   func(error)
	logger *slog.Logger
}

type Option func(*Controller)

// WithHalt sets what happens on an unrecoverable store failure.
func WithHalt(h func(error)) Option {
	return func(c *Controller) {
		c.halt = h
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(c *Controller) {
		c.logger = l
	}
}

func NewController(out Printer, st store.Store, task Poster, opts ...Option) *Controller {
	c := &Controller{
		out:    out,
		store:  st,
		task:   task,
		logger: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.halt == nil {
		logger := c.logger
		c.halt = func(err error) {
			logger.Error("unrecoverable store failure", "error", err)
			os.Exit(1)
		}
	}
	return c
}

// Command returns the console registration for "demo".
func (c *Controller) Command() console.Command {
	return console.Command{
		Name:  "demo",
		Help:  "Start/Stop Synergy Cloud Connectivity Demo",
		Usage: "demo <start>/<stop>",
		Run: func(ctx context.Context, args []string) error {
			return c.Trigger(ctx, strings.Join(args, " "))
		},
	}
}

// Trigger handles "start" and "stop". Start only goes through once both the
// network interface and the IoT service are configured.
func (c *Controller) Trigger(ctx context.Context, arg string) error {
	return c.trigger(ctx, arg, c.out, c.halt)
}

// Request is Trigger for callers that are not at the console. Nothing is
// printed and a store failure is returned instead of halting.
func (c *Controller) Request(ctx context.Context, arg string) error {
	return c.trigger(ctx, arg, discard{}, func(error) {})
}

type discard struct{}

func (discard) Print(string) {}

func (c *Controller) trigger(ctx context.Context, arg string, out Printer, halt func(error)) error {
	switch arg {
	case "start":
		return c.start(ctx, out, halt)
	case "stop":
		return c.post(ctx, EventStop)
	default:
		out.Print("Invalid Argument\r\n")
		return fmt.Errorf("%w: %q", ErrInvalidArgument, arg)
	}
}

func (c *Controller) start(ctx context.Context, out Printer, halt func(error)) error {
	var net record.NetworkConfig
	if err := store.Load(c.store, store.NetInputCfg, 0, &net); err != nil {
		out.Print("Flash read failed\r\n")
		return err
	}

	var iot record.IotConfig
	if err := store.Load(c.store, store.IotInputCfg, 0, &iot); err != nil {
		out.Print("Flash read failed\r\n")
		err = fmt.Errorf("%w: %w", ErrStore, err)
		halt(err)
		return err
	}

	if !net.Valid {
		out.Print("Network Interface is not selected. Run cwiz command\r\n")
		return fmt.Errorf("%w: no network interface", ErrNotConfigured)
	}
	if !iot.Valid {
		out.Print("IoT service is not selected. Run cwiz command\r\n")
		return fmt.Errorf("%w: no IoT service", ErrNotConfigured)
	}

	return c.post(ctx, EventStart)
}

func (c *Controller) post(ctx context.Context, ev Event) error {
	if err := c.task.Post(ctx, ev); err != nil {
		return fmt.Errorf("post %s: %w", ev, err)
	}
	c.logger.Info("demo event posted", "event", ev.String())
	return nil
}
