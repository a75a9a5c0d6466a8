package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds the application configuration
type Config struct {
	// ConsolePort is the serial port the operator console is attached to.
	// Empty uses stdin and stdout.
	ConsolePort string `yaml:"console_port"`
	// ConsoleBaudRate is the baud rate of the console serial port
	ConsoleBaudRate int `yaml:"console_baud_rate"`
	// ConsoleConnected reports whether an operator is attached at boot. A
	// disconnected console drops all output and the demo starts on its own.
	ConsoleConnected bool `yaml:"console_connected"`
	// ModemPort is the path to the cellular modem's serial port (e.g. "/dev/ttyUSB0")
	ModemPort string `yaml:"modem_port"`
	// ModemBaudRate is the baud rate for serial communication with the modem (e.g. 115200)
	ModemBaudRate int `yaml:"modem_baud_rate"`
	// StorePath is the SQLite database holding the configuration records
	StorePath string `yaml:"store_path"`
	// BindAddress is the address the HTTP server listens on. Empty disables it.
	BindAddress string `yaml:"bind_address"`
	// LogLevel sets the logging level (e.g. "debug", "info", "warn", "error")
	LogLevel string `yaml:"log_level"`
	// ShellTimeout is how long the AT shell waits for each modem response
	ShellTimeout time.Duration `yaml:"shell_timeout"`
	// SamplePeriod is the interval between demo sensor samples
	SamplePeriod time.Duration `yaml:"sample_period"`
	// Telemetry selects the demo publisher, "mqtt" or "log"
	Telemetry string `yaml:"telemetry"`
	// MQTTBroker overrides the broker derived from the stored IoT endpoint
	MQTTBroker string `yaml:"mqtt_broker"`
}

// ConfigOption is a function that modifies a Config
type ConfigOption func(*Config) error

// LoadConfig creates a new config by applying the given options in order
func LoadConfig(opts ...ConfigOption) (*Config, error) {
	config := &Config{}

	for _, opt := range opts {
		if err := opt(config); err != nil {
			return nil, err
		}
	}

	return config, nil
}

// WithDefaults applies default configuration values
func WithDefaults() ConfigOption {
	return func(c *Config) error {
		c.ConsoleBaudRate = 115200
		c.ConsoleConnected = true
		c.ModemPort = "/dev/ttyUSB0"
		c.ModemBaudRate = 115200
		c.StorePath = "cellwiz.db"
		c.BindAddress = "0.0.0.0:8080"
		c.LogLevel = "info"
		c.ShellTimeout = 3 * time.Second
		c.SamplePeriod = 5 * time.Second
		c.Telemetry = "mqtt"
		return nil
	}
}

// WithFile overlays the values found in a YAML file. An empty path is
// ignored.
func WithFile(path string) ConfigOption {
	return func(c *Config) error {
		if path == "" {
			return nil
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, c); err != nil {
			return fmt.Errorf("parse config file %s: %w", path, err)
		}
		return nil
	}
}

// WithEnv loads configuration from environment variables
func WithEnv() ConfigOption {
	return func(c *Config) error {
		if port, ok := os.LookupEnv("CONSOLE_PORT"); ok {
			c.ConsolePort = port
		}

		if baud := os.Getenv("CONSOLE_BAUD_RATE"); baud != "" {
			if b, err := strconv.Atoi(baud); err == nil {
				c.ConsoleBaudRate = b
			}
		}

		if connected := os.Getenv("CONSOLE_CONNECTED"); connected != "" {
			if v, err := strconv.ParseBool(connected); err == nil {
				c.ConsoleConnected = v
			}
		}

		if serial := os.Getenv("MODEM_PORT"); serial != "" {
			c.ModemPort = serial
		}

		if baud := os.Getenv("MODEM_BAUD_RATE"); baud != "" {
			if b, err := strconv.Atoi(baud); err == nil {
				c.ModemBaudRate = b
			}
		}

		if path := os.Getenv("STORE_PATH"); path != "" {
			c.StorePath = path
		}

		if addr, ok := os.LookupEnv("BIND_ADDRESS"); ok {
			c.BindAddress = addr
		}

		if level := os.Getenv("LOG_LEVEL"); level != "" {
			c.LogLevel = level
		}

		if timeout := os.Getenv("SHELL_TIMEOUT"); timeout != "" {
			if d, err := time.ParseDuration(timeout); err == nil {
				c.ShellTimeout = d
			}
		}

		if period := os.Getenv("SAMPLE_PERIOD"); period != "" {
			if d, err := time.ParseDuration(period); err == nil {
				c.SamplePeriod = d
			}
		}

		if telemetry := os.Getenv("TELEMETRY"); telemetry != "" {
			c.Telemetry = telemetry
		}

		if broker := os.Getenv("MQTT_BROKER"); broker != "" {
			c.MQTTBroker = broker
		}

		return nil
	}
}

// WithFlags loads configuration from command-line flags that were set
// explicitly.
func WithFlags(fSet *flag.FlagSet) ConfigOption {
	return func(c *Config) error {
		fSet.Visit(func(f *flag.Flag) {
			v := f.Value.String()
			switch f.Name {
			case "console-port":
				c.ConsolePort = v
			case "console-baud-rate":
				if b, e := strconv.Atoi(v); e == nil {
					c.ConsoleBaudRate = b
				}
			case "console-connected":
				if b, e := strconv.ParseBool(v); e == nil {
					c.ConsoleConnected = b
				}
			case "modem-port":
				c.ModemPort = v
			case "modem-baud-rate":
				if b, e := strconv.Atoi(v); e == nil {
					c.ModemBaudRate = b
				}
			case "store-path":
				c.StorePath = v
			case "bind-address":
				c.BindAddress = v
			case "log-level":
				c.LogLevel = v
			case "shell-timeout":
				if d, e := time.ParseDuration(v); e == nil {
					c.ShellTimeout = d
				}
			case "sample-period":
				if d, e := time.ParseDuration(v); e == nil {
					c.SamplePeriod = d
				}
			case "telemetry":
				c.Telemetry = v
			case "mqtt-broker":
				c.MQTTBroker = v
			}
		})
		return nil
	}
}

// Validate rejects settings the application cannot run with.
func (c *Config) Validate() error {
	if c.StorePath == "" {
		return fmt.Errorf("store path is required")
	}
	if c.ModemPort == "" {
		return fmt.Errorf("modem port is required")
	}
	if c.ShellTimeout <= 0 {
		return fmt.Errorf("shell timeout must be positive, got %s", c.ShellTimeout)
	}
	if c.SamplePeriod <= 0 {
		return fmt.Errorf("sample period must be positive, got %s", c.SamplePeriod)
	}
	switch c.Telemetry {
	case "mqtt", "log":
	default:
		return fmt.Errorf("unknown telemetry publisher %q", c.Telemetry)
	}
	return nil
}

// Level maps LogLevel to a slog level, defaulting to info.
func (c *Config) Level() slog.Level {
	switch c.LogLevel {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
