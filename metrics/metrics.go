// Package metrics exposes Prometheus collectors for modem traffic, catalog
// replays, config store access and demo samples.
package metrics

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"i4.energy/across/cellwiz/store"
)

// Collector bundles the application metrics.
type Collector struct {
	gatherer prometheus.Gatherer

	ATCommands  *prometheus.CounterVec
	ATDurations *prometheus.HistogramVec
	Replays     *prometheus.CounterVec
	StoreOps    *prometheus.CounterVec
	Samples     *prometheus.CounterVec
	DemoRunning prometheus.Gauge
}

// New registers the collectors against reg, defaulting to the global
// registry when nil. Registering twice against the same registry reuses the
// existing collectors.
func New(reg prometheus.Registerer) (*Collector, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	gatherer := prometheus.DefaultGatherer
	if g, ok := reg.(prometheus.Gatherer); ok {
		gatherer = g
	}

	commands, err := registerCounterVec(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "cellwiz_at_commands_total",
		Help: "AT commands sent to the modem, labeled by outcome.",
	}, []string{"outcome"}), "cellwiz_at_commands_total")
	if err != nil {
		return nil, err
	}

	durations, err := registerHistogramVec(reg, prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "cellwiz_at_command_duration_seconds",
		Help:    "Time from writing an AT command to its final response.",
		Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10, 30},
	}, []string{"outcome"}), "cellwiz_at_command_duration_seconds")
	if err != nil {
		return nil, err
	}

	replays, err := registerCounterVec(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "cellwiz_catalog_replays_total",
		Help: "Stored AT command catalog replays, labeled by result.",
	}, []string{"result"}), "cellwiz_catalog_replays_total")
	if err != nil {
		return nil, err
	}

	storeOps, err := registerCounterVec(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "cellwiz_store_operations_total",
		Help: "Config store reads and writes, labeled by operation, record type and result.",
	}, []string{"op", "record_type", "result"}), "cellwiz_store_operations_total")
	if err != nil {
		return nil, err
	}

	samples, err := registerCounterVec(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "cellwiz_demo_samples_total",
		Help: "Sensor samples taken by the demo, labeled by outcome.",
	}, []string{"outcome"}), "cellwiz_demo_samples_total")
	if err != nil {
		return nil, err
	}

	running, err := registerGauge(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "cellwiz_demo_running",
		Help: "1 while the sensor demo is started.",
	}), "cellwiz_demo_running")
	if err != nil {
		return nil, err
	}

	return &Collector{
		gatherer:    gatherer,
		ATCommands:  commands,
		ATDurations: durations,
		Replays:     replays,
		StoreOps:    storeOps,
		Samples:     samples,
		DemoRunning: running,
	}, nil
}

// ObserveCommand records one modem exchange.
func (c *Collector) ObserveCommand(outcome string, elapsed time.Duration) {
	if c == nil {
		return
	}
	c.ATCommands.WithLabelValues(outcome).Inc()
	c.ATDurations.WithLabelValues(outcome).Observe(elapsed.Seconds())
}

func (c *Collector) ObserveReplay(result string) {
	if c == nil {
		return
	}
	c.Replays.WithLabelValues(result).Inc()
}

func (c *Collector) ObserveSample(outcome string) {
	if c == nil {
		return
	}
	c.Samples.WithLabelValues(outcome).Inc()
}

func (c *Collector) SetDemoRunning(running bool) {
	if c == nil {
		return
	}
	v := 0.0
	if running {
		v = 1
	}
	c.DemoRunning.Set(v)
}

// Handler exposes a ready-to-use /metrics handler.
func (c *Collector) Handler() http.Handler {
	gatherer := c.gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

// Store wraps a store.Store and counts its operations.
type Store struct {
	next store.Store
	ops  *prometheus.CounterVec
}

// InstrumentStore returns st with every Read and Write counted.
func (c *Collector) InstrumentStore(st store.Store) *Store {
	return &Store{next: st, ops: c.StoreOps}
}

func (s *Store) Write(data []byte, typ store.RecordType, slot int) error {
	err := s.next.Write(data, typ, slot)
	s.ops.WithLabelValues("write", typ.String(), result(err)).Inc()
	return err
}

func (s *Store) Read(typ store.RecordType, slot int) ([]byte, error) {
	data, err := s.next.Read(typ, slot)
	s.ops.WithLabelValues("read", typ.String(), result(err)).Inc()
	return data, err
}

var _ store.Store = (*Store)(nil)

func result(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, store.ErrNotFound):
		return "not_found"
	default:
		return "error"
	}
}

func registerCounterVec(reg prometheus.Registerer, vec *prometheus.CounterVec, name string) (*prometheus.CounterVec, error) {
	if err := reg.Register(vec); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(*prometheus.CounterVec); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return vec, nil
}

func registerHistogramVec(reg prometheus.Registerer, vec *prometheus.HistogramVec, name string) (*prometheus.HistogramVec, error) {
	if err := reg.Register(vec); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(*prometheus.HistogramVec); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return vec, nil
}

func registerGauge(reg prometheus.Registerer, gauge prometheus.Gauge, name string) (prometheus.Gauge, error) {
	if err := reg.Register(gauge); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(prometheus.Gauge); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return gauge, nil
}
