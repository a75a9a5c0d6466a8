package modem

import (
	"log/slog"
	"time"
)

// Config holds the settings used by New. Build it with NewConfigBuilder.
type Config struct {
	dialer      Dialer
	logger      *slog.Logger
	atTimeout   time.Duration
	initTimeout time.Duration
	readSize    int
	settleTime  time.Duration
}

func (c *Config) validate() error {
	if c.dialer == nil {
		return ErrNoDialer
	}
	return nil
}

func (c *Config) setDefaults() {
	if c.atTimeout == 0 {
		c.atTimeout = 5 * time.Second
	}
	if c.initTimeout == 0 {
		c.initTimeout = 30 * time.Second
	}
	if c.settleTime == 0 {
		c.settleTime = 100 * time.Millisecond
	}
	if c.readSize == 0 {
		c.readSize = 256
	}
	if c.logger == nil {
		c.logger = slog.New(slog.DiscardHandler)
	}
}

// ConfigBuilder assembles a Config step by step.
type ConfigBuilder struct {
	config Config
}

// NewConfigBuilder returns a builder with no dialer and default timeouts.
func NewConfigBuilder() *ConfigBuilder {
	return &ConfigBuilder{}
}

// WithDialer sets how the transport to the modem is opened.
func (b *ConfigBuilder) WithDialer(d Dialer) *ConfigBuilder {
	b.config.dialer = d
	return b
}

// WithATTimeout sets the wait used for each bring-up command.
func (b *ConfigBuilder) WithATTimeout(d time.Duration) *ConfigBuilder {
	b.config.atTimeout = d
	return b
}

// WithInitTimeout bounds the whole bring-up sequence run by New.
func (b *ConfigBuilder) WithInitTimeout(d time.Duration) *ConfigBuilder {
	b.config.initTimeout = d
	return b
}

// WithReadSize sets the size of the buffer the reader loop reads into.
func (b *ConfigBuilder) WithReadSize(n int) *ConfigBuilder {
	b.config.readSize = n
	return b
}

// WithSettleTime sets how long the line must stay quiet after a timed out
// exchange before the next command is written.
func (b *ConfigBuilder) WithSettleTime(d time.Duration) *ConfigBuilder {
	b.config.settleTime = d
	return b
}

// WithLogger sets the logger used for wire-level diagnostics.
func (b *ConfigBuilder) WithLogger(l *slog.Logger) *ConfigBuilder {
	b.config.logger = l
	return b
}

// Build validates the configuration and fills in defaults.
func (b *ConfigBuilder) Build() (Config, error) {
	c := b.config
	if err := c.validate(); err != nil {
		return Config{}, err
	}
	c.setDefaults()
	return c, nil
}
