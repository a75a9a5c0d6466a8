package demo_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"i4.energy/across/cellwiz/demo"
)

type fakeSensors struct {
	initErr error
	readErr error
	inits   int
}

func (f *fakeSensors) Init(context.Context) error {
	f.inits++
	return f.initErr
}

func (f *fakeSensors) Read(context.Context) (demo.Sample, error) {
	if f.readErr != nil {
		return demo.Sample{}, f.readErr
	}
	return demo.Sample{Temperature: 70}, nil
}

type chanPublisher struct {
	samples chan demo.Sample
	err     error
}

func (p *chanPublisher) Publish(_ context.Context, s demo.Sample) error {
	p.samples <- s
	return p.err
}

type outcomes struct {
	mu     sync.Mutex
	counts map[string]int
}

func (o *outcomes) ObserveSample(outcome string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.counts[outcome]++
}

func (o *outcomes) SetDemoRunning(bool) {}

func (o *outcomes) get(outcome string) int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.counts[outcome]
}

func startTask(t *testing.T, task *demo.Task) (context.CancelFunc, chan error) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- task.Run(ctx) }()
	return cancel, done
}

func TestTask(t *testing.T) {
	t.Run("Samples only between start and stop", func(t *testing.T) {
		sensors := &fakeSensors{}
		pub := &chanPublisher{samples: make(chan demo.Sample, 16)}
		obs := &outcomes{counts: map[string]int{}}
		task := demo.NewTask(sensors, pub, demo.WithPeriod(10*time.Millisecond), demo.WithObserver(obs))

		cancel, done := startTask(t, task)
		defer cancel()

		assert.False(t, task.Running())
		require.NoError(t, task.Post(context.Background(), demo.EventStart))

		for range 3 {
			select {
			case s := <-pub.samples:
				assert.Equal(t, 70.0, s.Temperature)
			case <-time.After(time.Second):
				t.Fatal("expected a sample")
			}
		}
		assert.True(t, task.Running())

		require.NoError(t, task.Post(context.Background(), demo.EventStop))
		assert.Eventually(t, func() bool { return !task.Running() }, time.Second, time.Millisecond)

		// Drain whatever was sampled before the stop was handled
		time.Sleep(30 * time.Millisecond)
		for len(pub.samples) > 0 {
			<-pub.samples
		}
		time.Sleep(50 * time.Millisecond)
		assert.Empty(t, pub.samples)

		cancel()
		assert.ErrorIs(t, <-done, context.Canceled)
		assert.Equal(t, 1, sensors.inits)
		assert.GreaterOrEqual(t, obs.get("published"), 3)
	})

	t.Run("Failures are counted and sampling goes on", func(t *testing.T) {
		sensors := &fakeSensors{readErr: errors.New("i2c nack")}
		pub := &chanPublisher{samples: make(chan demo.Sample, 16)}
		obs := &outcomes{counts: map[string]int{}}
		task := demo.NewTask(sensors, pub, demo.WithPeriod(5*time.Millisecond), demo.WithObserver(obs))

		cancel, done := startTask(t, task)
		require.NoError(t, task.Post(context.Background(), demo.EventStart))
		assert.Eventually(t, func() bool { return obs.get("read_error") >= 2 }, time.Second, time.Millisecond)

		cancel()
		<-done
		assert.Zero(t, obs.get("published"))
	})

	t.Run("Publish failure", func(t *testing.T) {
		pub := &chanPublisher{samples: make(chan demo.Sample, 16), err: errors.New("broker down")}
		obs := &outcomes{counts: map[string]int{}}
		task := demo.NewTask(&fakeSensors{}, pub, demo.WithPeriod(time.Hour), demo.WithObserver(obs))

		cancel, done := startTask(t, task)
		require.NoError(t, task.Post(context.Background(), demo.EventStart))
		assert.Eventually(t, func() bool { return obs.get("publish_error") == 1 }, time.Second, time.Millisecond)

		cancel()
		<-done
	})

	t.Run("Sensor init failure", func(t *testing.T) {
		task := demo.NewTask(&fakeSensors{initErr: errors.New("no bus")}, &chanPublisher{})
		assert.ErrorContains(t, task.Run(context.Background()), "init sensors")
	})

	t.Run("Post honours the context", func(t *testing.T) {
		task := demo.NewTask(&fakeSensors{}, &chanPublisher{})
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		// Fill the queue; nothing is reading it
		for {
			if err := task.Post(ctx, demo.EventStop); err != nil {
				assert.ErrorIs(t, err, context.Canceled)
				break
			}
		}
	})
}

func TestSimulated(t *testing.T) {
	s := demo.NewSimulated(42)
	require.NoError(t, s.Init(context.Background()))

	for range 100 {
		sample, err := s.Read(context.Background())
		require.NoError(t, err)
		assert.GreaterOrEqual(t, sample.Temperature, demo.CelsiusToFahrenheit(15))
		assert.LessOrEqual(t, sample.Temperature, demo.CelsiusToFahrenheit(30))
		assert.InDelta(t, 1.0, sample.Accel.Z, 0.05)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := s.Read(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestCelsiusToFahrenheit(t *testing.T) {
	assert.Equal(t, 32.0, demo.CelsiusToFahrenheit(0))
	assert.Equal(t, 212.0, demo.CelsiusToFahrenheit(100))
	assert.Equal(t, -40.0, demo.CelsiusToFahrenheit(-40))
}
