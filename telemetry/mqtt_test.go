package telemetry_test

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"i4.energy/across/cellwiz/demo"
	"i4.energy/across/cellwiz/telemetry"
)

type token struct {
	done chan struct{}
	err  error
}

func completed(err error) *token {
	t := &token{done: make(chan struct{}), err: err}
	close(t.done)
	return t
}

func pending() *token {
	return &token{done: make(chan struct{})}
}

func (t *token) Wait() bool {
	<-t.done
	return true
}

func (t *token) WaitTimeout(d time.Duration) bool {
	select {
	case <-t.done:
		return true
	case <-time.After(d):
		return false
	}
}

func (t *token) Done() <-chan struct{} { return t.done }
func (t *token) Error() error          { return t.err }

type published struct {
	topic    string
	qos      byte
	retained bool
	payload  []byte
}

type fakeClient struct {
	mu    sync.Mutex
	sent  []published
	token mqtt.Token
}

func (c *fakeClient) Publish(topic string, qos byte, retained bool, payload interface{}) mqtt.Token {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sent = append(c.sent, published{topic, qos, retained, payload.([]byte)})
	return c.token
}

func sample() demo.Sample {
	return demo.Sample{
		Time:        time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
		Temperature: 71.5,
		Humidity:    40.25,
		Pressure:    1013.5,
		Accel:       demo.Axis{X: 0.01, Y: -0.02, Z: 0.98},
		Gyro:        demo.Axis{X: 1, Y: 2, Z: 3},
		Mag:         demo.Axis{X: -10, Y: 20, Z: 30},
	}
}

func TestPublish(t *testing.T) {
	c := &fakeClient{token: completed(nil)}
	p := telemetry.New(c, "/devices/dev-1/events", telemetry.WithQoS(0))

	require.NoError(t, p.Publish(context.Background(), sample()))

	require.Len(t, c.sent, 1)
	got := c.sent[0]
	assert.Equal(t, "/devices/dev-1/events", got.topic)
	assert.Equal(t, byte(0), got.qos)
	assert.False(t, got.retained)

	var body map[string]any
	require.NoError(t, json.Unmarshal(got.payload, &body))
	assert.Equal(t, "2026-03-01T12:00:00Z", body["timestamp"])
	assert.InDelta(t, 71.5, body["temperature"], 1e-9)
	assert.InDelta(t, 40.25, body["humidity"], 1e-9)
	assert.InDelta(t, 1013.5, body["pressure"], 1e-9)
	assert.Equal(t, map[string]any{"x": 0.01, "y": -0.02, "z": 0.98}, body["accel"])
	assert.Equal(t, map[string]any{"x": 1.0, "y": 2.0, "z": 3.0}, body["gyro"])
	assert.Equal(t, map[string]any{"x": -10.0, "y": 20.0, "z": 30.0}, body["mag"])
}

func TestPublishFailures(t *testing.T) {
	brokerErr := errors.New("not authorized")

	t.Run("broker error", func(t *testing.T) {
		p := telemetry.New(&fakeClient{token: completed(brokerErr)}, "t")
		err := p.Publish(context.Background(), sample())
		assert.ErrorIs(t, err, brokerErr)
	})

	t.Run("timeout", func(t *testing.T) {
		p := telemetry.New(&fakeClient{token: pending()}, "t",
			telemetry.WithPublishTimeout(10*time.Millisecond))
		err := p.Publish(context.Background(), sample())
		assert.ErrorIs(t, err, telemetry.ErrPublishTimeout)
	})

	t.Run("context cancelled", func(t *testing.T) {
		p := telemetry.New(&fakeClient{token: pending()}, "t")
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		err := p.Publish(ctx, sample())
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestCloseWithoutConnection(t *testing.T) {
	p := telemetry.New(&fakeClient{token: completed(nil)}, "t")
	assert.NotPanics(t, p.Close)
}
