package telemetry

import (
	"context"
	"sync"

	"i4.energy/across/cellwiz/demo"
	"i4.energy/across/cellwiz/store"
)

// Connector dials the broker on the first sample it has to publish, so the
// identity and certificates entered in the wizard after boot are picked up.
// A failed dial is retried with the next sample.
type Connector struct {
	// Dial connects to the broker. It defaults to the package Dial.
	Dial func(ctx context.Context, cfg Config, opts ...Option) (*MQTT, error)

	store  store.Store
	broker string
	opts   []Option

	mu  sync.Mutex
	pub *MQTT
}

func NewConnector(st store.Store, broker string, opts ...Option) *Connector {
	return &Connector{
		Dial:   Dial,
		store:  st,
		broker: broker,
		opts:   opts,
	}
}

func (c *Connector) Publish(ctx context.Context, s demo.Sample) error {
	pub, err := c.connect(ctx)
	if err != nil {
		return err
	}
	return pub.Publish(ctx, s)
}

func (c *Connector) connect(ctx context.Context) (*MQTT, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.pub != nil {
		return c.pub, nil
	}
	cfg, err := FromStore(c.store, c.broker)
	if err != nil {
		return nil, err
	}
	pub, err := c.Dial(ctx, cfg, c.opts...)
	if err != nil {
		return nil, err
	}
	c.pub = pub
	return pub, nil
}

// Close disconnects from the broker if a connection was made.
func (c *Connector) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.pub != nil {
		c.pub.Close()
		c.pub = nil
	}
}

var _ demo.Publisher = (*Connector)(nil)
