package demo

import (
	"context"
	"math/rand/v2"
	"sync"
	"time"
)

// CelsiusToFahrenheit converts a temperature reading.
func CelsiusToFahrenheit(c float64) float64 {
	return c*9/5 + 32
}

// Simulated stands in for the sensor cluster on hosts without one. Readings
// wander around indoor values.
type Simulated struct {
	mu  sync.Mutex
	rng *rand.Rand
	now func() time.Time

	celsius  float64
	humidity float64
	pressure float64
}

func NewSimulated(seed uint64) *Simulated {
	return &Simulated{
		rng:      rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
		now:      time.Now,
		celsius:  21.5,
		humidity: 40,
		pressure: 1013.25,
	}
}

func (s *Simulated) Init(context.Context) error {
	return nil
}

func (s *Simulated) Read(ctx context.Context) (Sample, error) {
	if err := ctx.Err(); err != nil {
		return Sample{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.celsius = clamp(s.celsius+s.jitter(0.2), 15, 30)
	s.humidity = clamp(s.humidity+s.jitter(0.5), 20, 80)
	s.pressure = clamp(s.pressure+s.jitter(0.3), 980, 1040)

	return Sample{
		Time:        s.now(),
		Temperature: CelsiusToFahrenheit(s.celsius),
		Humidity:    s.humidity,
		Pressure:    s.pressure,
		Accel:       Axis{X: s.jitter(0.02), Y: s.jitter(0.02), Z: 1 + s.jitter(0.02)},
		Gyro:        Axis{X: s.jitter(0.5), Y: s.jitter(0.5), Z: s.jitter(0.5)},
		Mag:         Axis{X: 22 + s.jitter(1), Y: -5 + s.jitter(1), Z: 42 + s.jitter(1)},
	}, nil
}

// jitter returns a value in [-amp, amp).
func (s *Simulated) jitter(amp float64) float64 {
	return (s.rng.Float64()*2 - 1) * amp
}

func clamp(v, lo, hi float64) float64 {
	return min(max(v, lo), hi)
}
