package demo

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"
)

// DefaultPeriod is the time between two samples while the demo runs.
const DefaultPeriod = 5 * time.Second

// Axis is a three-axis reading.
type Axis struct {
	X, Y, Z float64
}

// Sample is one reading of the sensor cluster.
type Sample struct {
	Time        time.Time
	Temperature float64 // degrees Fahrenheit
	Humidity    float64 // percent relative humidity
	Pressure    float64 // hPa
	Accel       Axis
	Gyro        Axis
	Mag         Axis
}

// Sensors is the sensor cluster driver.
type Sensors interface {
	Init(ctx context.Context) error
	Read(ctx context.Context) (Sample, error)
}

// Publisher sends a sample upstream.
type Publisher interface {
	Publish(ctx context.Context, s Sample) error
}

// Observer counts samples by outcome ("published", "read_error" or
// "publish_error") and follows the started state.
type Observer interface {
	ObserveSample(outcome string)
	SetDemoRunning(running bool)
}

type nopObserver struct{}

func (nopObserver) ObserveSample(string) {}
func (nopObserver) SetDemoRunning(bool)  {}

// Task samples the sensors every period between a start and a stop event.
type Task struct {
	sensors  Sensors
	pub      Publisher
	period   time.Duration
	logger   *slog.Logger
	observer Observer

	events  chan Event
	running atomic.Bool
}

type TaskOption func(*Task)

func WithPeriod(d time.Duration) TaskOption {
	return func(t *Task) {
		t.period = d
	}
}

func WithTaskLogger(l *slog.Logger) TaskOption {
	return func(t *Task) {
		t.logger = l
	}
}

func WithObserver(o Observer) TaskOption {
	return func(t *Task) {
		t.observer = o
	}
}

func NewTask(sensors Sensors, pub Publisher, opts ...TaskOption) *Task {
	t := &Task{
		sensors:  sensors,
		pub:      pub,
		period:   DefaultPeriod,
		logger:   slog.New(slog.DiscardHandler),
		observer: nopObserver{},
		events:   make(chan Event, 4),
	}
	for _, opt := range opts {
		opt(t)
	}
	if t.period <= 0 {
		t.period = DefaultPeriod
	}
	return t
}

// Post queues ev for Run. It blocks while the queue is full.
func (t *Task) Post(ctx context.Context, ev Event) error {
	select {
	case t.events <- ev:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Running reports whether the demo is started.
func (t *Task) Running() bool {
	return t.running.Load()
}

// Run initializes the sensors once and then serves events until ctx is
// done. A start takes a sample right away and then one every period.
func (t *Task) Run(ctx context.Context) error {
	if err := t.sensors.Init(ctx); err != nil {
		return fmt.Errorf("init sensors: %w", err)
	}

	ticker := time.NewTicker(t.period)
	ticker.Stop()
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			t.running.Store(false)
			t.observer.SetDemoRunning(false)
			return ctx.Err()

		case ev := <-t.events:
			switch ev {
			case EventStart:
				if t.running.CompareAndSwap(false, true) {
					t.logger.Info("demo started", "period", t.period)
					t.observer.SetDemoRunning(true)
					ticker.Reset(t.period)
					t.sample(ctx)
				}
			case EventStop:
				if t.running.CompareAndSwap(true, false) {
					ticker.Stop()
					t.observer.SetDemoRunning(false)
					t.logger.Info("demo stopped")
				}
			}

		case <-ticker.C:
			if t.running.Load() {
				t.sample(ctx)
			}
		}
	}
}

func (t *Task) sample(ctx context.Context) {
	s, err := t.sensors.Read(ctx)
	if err != nil {
		t.observer.ObserveSample("read_error")
		t.logger.Warn("read sensors", "error", err)
		return
	}
	if err := t.pub.Publish(ctx, s); err != nil {
		t.observer.ObserveSample("publish_error")
		t.logger.Warn("publish sample", "error", err)
		return
	}
	t.observer.ObserveSample("published")
}
