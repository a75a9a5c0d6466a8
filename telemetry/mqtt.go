// Package telemetry publishes demo samples to the cloud over MQTT, using
// the device identity and certificates stored by the configuration wizard.
package telemetry

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"i4.energy/across/cellwiz/demo"
)

// DefaultPublishTimeout bounds the wait for a broker acknowledgement.
const DefaultPublishTimeout = 10 * time.Second

// Client is the part of mqtt.Client the publisher uses.
type Client interface {
	Publish(topic string, qos byte, retained bool, payload interface{}) mqtt.Token
}

// MQTT publishes samples as JSON to a device events topic.
type MQTT struct {
	client  Client
	topic   string
	qos     byte
	timeout time.Duration
	logger  *slog.Logger
}

type Option func(*MQTT)

func WithQoS(qos byte) Option {
	return func(m *MQTT) {
		m.qos = qos
	}
}

func WithPublishTimeout(d time.Duration) Option {
	return func(m *MQTT) {
		m.timeout = d
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(m *MQTT) {
		m.logger = l
	}
}

// New publishes through an already connected client.
func New(client Client, topic string, opts ...Option) *MQTT {
	m := &MQTT{
		client:  client,
		topic:   topic,
		qos:     1,
		timeout: DefaultPublishTimeout,
		logger:  slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Dial connects to the broker described by cfg.
func Dial(ctx context.Context, cfg Config, opts ...Option) (*MQTT, error) {
	m := New(nil, cfg.Topic, opts...)

	o := mqtt.NewClientOptions()
	o.AddBroker(cfg.Broker)
	o.SetClientID(cfg.ClientID)
	if cfg.Username != "" {
		o.SetUsername(cfg.Username)
		o.SetPassword(cfg.Password)
	}
	if cfg.TLS != nil {
		o.SetTLSConfig(cfg.TLS)
	}
	o.SetOrderMatters(false)
	o.SetAutoReconnect(true)
	o.SetConnectionLostHandler(func(_ mqtt.Client, err error) {
		m.logger.Warn("mqtt connection lost", "error", err)
	})
	o.SetOnConnectHandler(func(mqtt.Client) {
		m.logger.Info("mqtt connected", "broker", cfg.Broker, "client_id", cfg.ClientID)
	})

	cli := mqtt.NewClient(o)
	if err := wait(ctx, cli.Connect(), 0); err != nil {
		return nil, fmt.Errorf("connect %s: %w", cfg.Broker, err)
	}
	m.client = cli
	return m, nil
}

type payload struct {
	Timestamp   time.Time `json:"timestamp"`
	Temperature float64   `json:"temperature"`
	Humidity    float64   `json:"humidity"`
	Pressure    float64   `json:"pressure"`
	Accel       axis      `json:"accel"`
	Gyro        axis      `json:"gyro"`
	Mag         axis      `json:"mag"`
}

type axis struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

func toAxis(a demo.Axis) axis {
	return axis{X: a.X, Y: a.Y, Z: a.Z}
}

// Publish sends s and waits for the broker to acknowledge it.
func (m *MQTT) Publish(ctx context.Context, s demo.Sample) error {
	body, err := json.Marshal(payload{
		Timestamp:   s.Time.UTC(),
		Temperature: s.Temperature,
		Humidity:    s.Humidity,
		Pressure:    s.Pressure,
		Accel:       toAxis(s.Accel),
		Gyro:        toAxis(s.Gyro),
		Mag:         toAxis(s.Mag),
	})
	if err != nil {
		return fmt.Errorf("encode sample: %w", err)
	}

	if err := wait(ctx, m.client.Publish(m.topic, m.qos, false, body), m.timeout); err != nil {
		return fmt.Errorf("publish to %s: %w", m.topic, err)
	}
	m.logger.Debug("sample published", "topic", m.topic, "bytes", len(body))
	return nil
}

// Close disconnects a client created by Dial.
func (m *MQTT) Close() {
	if c, ok := m.client.(mqtt.Client); ok {
		c.Disconnect(250)
	}
}

// wait blocks until tok completes, ctx is done or timeout elapses. A zero
// timeout waits for ctx only.
func wait(ctx context.Context, tok mqtt.Token, timeout time.Duration) error {
	var expired <-chan time.Time
	if timeout > 0 {
		t := time.NewTimer(timeout)
		defer t.Stop()
		expired = t.C
	}

	select {
	case <-tok.Done():
		return tok.Error()
	case <-expired:
		return ErrPublishTimeout
	case <-ctx.Done():
		return ctx.Err()
	}
}

var _ demo.Publisher = (*MQTT)(nil)
