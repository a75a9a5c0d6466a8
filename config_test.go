package main

import (
	"flag"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	c, err := LoadConfig(WithDefaults())
	require.NoError(t, err)

	assert.Equal(t, "", c.ConsolePort)
	assert.True(t, c.ConsoleConnected)
	assert.Equal(t, "/dev/ttyUSB0", c.ModemPort)
	assert.Equal(t, 115200, c.ModemBaudRate)
	assert.Equal(t, "cellwiz.db", c.StorePath)
	assert.Equal(t, 3*time.Second, c.ShellTimeout)
	assert.Equal(t, 5*time.Second, c.SamplePeriod)
	assert.Equal(t, "mqtt", c.Telemetry)
	assert.NoError(t, c.Validate())
}

func TestWithFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cellwiz.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
console_port: /dev/ttyS1
console_connected: false
modem_port: /dev/ttyUSB2
store_path: /var/lib/cellwiz/config.db
bind_address: ""
shell_timeout: 1500ms
sample_period: 1m
telemetry: log
`), 0o600))

	c, err := LoadConfig(WithDefaults(), WithFile(path))
	require.NoError(t, err)

	assert.Equal(t, "/dev/ttyS1", c.ConsolePort)
	assert.False(t, c.ConsoleConnected)
	assert.Equal(t, "/dev/ttyUSB2", c.ModemPort)
	assert.Equal(t, 115200, c.ModemBaudRate)
	assert.Equal(t, "/var/lib/cellwiz/config.db", c.StorePath)
	assert.Equal(t, "", c.BindAddress)
	assert.Equal(t, 1500*time.Millisecond, c.ShellTimeout)
	assert.Equal(t, time.Minute, c.SamplePeriod)
	assert.Equal(t, "log", c.Telemetry)
}

func TestWithFileErrors(t *testing.T) {
	c, err := LoadConfig(WithDefaults(), WithFile(""))
	require.NoError(t, err)
	assert.Equal(t, "cellwiz.db", c.StorePath)

	_, err = LoadConfig(WithFile(filepath.Join(t.TempDir(), "missing.yaml")))
	assert.ErrorContains(t, err, "read config file")

	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("shell_timeout: [1, 2]\n"), 0o600))
	_, err = LoadConfig(WithFile(path))
	assert.ErrorContains(t, err, "parse config file")
}

func TestWithEnv(t *testing.T) {
	t.Setenv("MODEM_PORT", "/dev/ttyACM0")
	t.Setenv("MODEM_BAUD_RATE", "9600")
	t.Setenv("CONSOLE_CONNECTED", "false")
	t.Setenv("BIND_ADDRESS", "")
	t.Setenv("SHELL_TIMEOUT", "10s")
	t.Setenv("SAMPLE_PERIOD", "not-a-duration")
	t.Setenv("MQTT_BROKER", "tcp://localhost:1883")

	c, err := LoadConfig(WithDefaults(), WithEnv())
	require.NoError(t, err)

	assert.Equal(t, "/dev/ttyACM0", c.ModemPort)
	assert.Equal(t, 9600, c.ModemBaudRate)
	assert.False(t, c.ConsoleConnected)
	assert.Equal(t, "", c.BindAddress)
	assert.Equal(t, 10*time.Second, c.ShellTimeout)
	assert.Equal(t, 5*time.Second, c.SamplePeriod)
	assert.Equal(t, "tcp://localhost:1883", c.MQTTBroker)
}

func TestWithFlags(t *testing.T) {
	fs := flag.NewFlagSet("cellwiz", flag.ContinueOnError)
	fs.String("modem-port", "/dev/ttyUSB0", "")
	fs.Int("modem-baud-rate", 115200, "")
	fs.Bool("console-connected", true, "")
	fs.Duration("sample-period", 5*time.Second, "")
	fs.String("log-level", "info", "")
	fs.String("telemetry", "mqtt", "")
	require.NoError(t, fs.Parse([]string{
		"-modem-port=/dev/ttyUSB3",
		"-console-connected=false",
		"-sample-period=250ms",
		"-telemetry=log",
	}))

	c, err := LoadConfig(WithDefaults(), WithFlags(fs))
	require.NoError(t, err)

	assert.Equal(t, "/dev/ttyUSB3", c.ModemPort)
	assert.Equal(t, 115200, c.ModemBaudRate)
	assert.False(t, c.ConsoleConnected)
	assert.Equal(t, 250*time.Millisecond, c.SamplePeriod)
	assert.Equal(t, "info", c.LogLevel)
	assert.Equal(t, "log", c.Telemetry)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
		errMsg string
	}{
		{name: "no store", modify: func(c *Config) { c.StorePath = "" }, errMsg: "store path"},
		{name: "no modem", modify: func(c *Config) { c.ModemPort = "" }, errMsg: "modem port"},
		{name: "zero shell timeout", modify: func(c *Config) { c.ShellTimeout = 0 }, errMsg: "shell timeout"},
		{name: "negative period", modify: func(c *Config) { c.SamplePeriod = -time.Second }, errMsg: "sample period"},
		{name: "unknown publisher", modify: func(c *Config) { c.Telemetry = "kafka" }, errMsg: "kafka"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := LoadConfig(WithDefaults())
			require.NoError(t, err)
			tt.modify(c)
			assert.ErrorContains(t, c.Validate(), tt.errMsg)
		})
	}
}

func TestLevel(t *testing.T) {
	for level, expected := range map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"info":    slog.LevelInfo,
		"warn":    slog.LevelWarn,
		"error":   slog.LevelError,
		"verbose": slog.LevelInfo,
	} {
		c := &Config{LogLevel: level}
		assert.Equal(t, expected, c.Level(), level)
	}
}
