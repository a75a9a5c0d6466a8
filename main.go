package main

import (
	"context"
	"flag"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.bug.st/serial"

	"i4.energy/across/cellwiz/atcmd"
	"i4.energy/across/cellwiz/console"
	"i4.energy/across/cellwiz/demo"
	"i4.energy/across/cellwiz/metrics"
	"i4.energy/across/cellwiz/modem"
	"i4.energy/across/cellwiz/store"
	"i4.energy/across/cellwiz/telemetry"
	"i4.energy/across/cellwiz/wizard"
)

func main() {
	configFile := flag.String("config", "", "Path to a YAML configuration file")
	flag.String("console-port", "", "Serial port of the operator console (empty uses stdin/stdout)")
	flag.Int("console-baud-rate", 115200, "Baud rate of the console serial port")
	flag.Bool("console-connected", true, "Whether an operator is attached to the console at boot")
	flag.String("modem-port", "/dev/ttyUSB0", "Serial port to connect to the cellular modem")
	flag.Int("modem-baud-rate", 115200, "Baud rate for serial communication with the modem")
	flag.String("store-path", "cellwiz.db", "SQLite database holding the configuration records")
	flag.String("bind-address", "0.0.0.0:8080", "Bind address for the HTTP server (empty disables it)")
	flag.String("log-level", "info", "Log level (debug, info, warn, error)")
	flag.Duration("shell-timeout", 3*time.Second, "Wait for each response in the AT command shell")
	flag.Duration("sample-period", 5*time.Second, "Interval between demo sensor samples")
	flag.String("telemetry", "mqtt", "Demo sample publisher (mqtt, log)")
	flag.String("mqtt-broker", "", "MQTT broker URL overriding the stored IoT endpoint")
	flag.Parse()

	config, err := LoadConfig(WithDefaults(), WithFile(*configFile), WithEnv(), WithFlags(flag.CommandLine))
	if err == nil {
		err = config.Validate()
	}
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: config.Level()}))

	db, err := store.OpenSQLite(config.StorePath)
	if err != nil {
		logger.Error("Failed to open configuration store", "path", config.StorePath, "error", err)
		os.Exit(1)
	}
	defer db.Close()

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	collector, err := metrics.New(registry)
	if err != nil {
		logger.Error("Failed to register metrics", "error", err)
		os.Exit(1)
	}
	st := collector.InstrumentStore(db)

	halt := func(err error) {
		logger.Error("Configuration store failure, halting", "error", err)
		os.Exit(1)
	}

	in, out, err := openConsole(config)
	if err != nil {
		logger.Error("Failed to open console", "port", config.ConsolePort, "error", err)
		os.Exit(1)
	}
	con := console.New(in, out, console.WithLogger(logger.With("component", "console")))
	con.SetConnected(config.ConsoleConnected)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var publisher demo.Publisher = demo.LogPublisher{Logger: logger.With("component", "telemetry")}
	if config.Telemetry == "mqtt" {
		connector := telemetry.NewConnector(st, config.MQTTBroker,
			telemetry.WithLogger(logger.With("component", "telemetry")))
		defer connector.Close()
		publisher = connector
	}

	task := demo.NewTask(demo.NewSimulated(uint64(time.Now().UnixNano())), publisher,
		demo.WithPeriod(config.SamplePeriod),
		demo.WithTaskLogger(logger.With("component", "demo")),
		demo.WithObserver(collector),
	)
	go func() {
		if err := task.Run(ctx); err != nil && ctx.Err() == nil {
			logger.Error("Demo task stopped", "error", err)
		}
	}()

	controller := demo.NewController(con, st, task,
		demo.WithHalt(halt),
		demo.WithLogger(logger.With("component", "demo")),
	)

	wizardLogger := logger.With("component", "wizard")
	con.Register(console.Command{
		Name:  "cwiz",
		Help:  "Network/Cloud Configuration Menu",
		Usage: "cwiz",
		Run: func(ctx context.Context, _ []string) error {
			return wizard.New(con, st,
				wizard.WithOpener(modemOpener(config, logger.With("component", "modem"))),
				wizard.WithHalt(halt),
				wizard.WithLogger(wizardLogger),
				wizard.WithATOptions(
					atcmd.WithObserver(collector),
					atcmd.WithShellTimeout(config.ShellTimeout),
				),
			).Run(ctx)
		},
	})
	con.Register(controller.Command())

	con.Banner(
		"Synergy Cloud Connectivity Demo",
		"Network and Google Cloud IoT Core Configuration Console",
	)
	con.Print("\r\nPowering up ... ....done\r\n")

	if !con.Connected() {
		logger.Info("No operator console, starting demo")
		if err := controller.Trigger(ctx, "start"); err != nil {
			logger.Warn("Failed to start demo", "error", err)
		}
	}

	var httpServer *http.Server
	if config.BindAddress != "" {
		httpServer = &http.Server{
			Addr: config.BindAddress,
			Handler: &Server{
				Logger:  logger.With("component", "server"),
				Metrics: collector.Handler(),
				Demo:    controller,
				Running: task.Running,
			},
		}

		go func() {
			logger.Info("Starting HTTP server", "address", httpServer.Addr)
			if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				logger.Error("HTTP server failed", "error", err)
				os.Exit(1)
			}
		}()
	}

	consoleDone := make(chan error, 1)
	go func() {
		consoleDone <- con.Run(ctx)
	}()

	// Channel to listen for interrupt signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		logger.Info("Received shutdown signal", "signal", sig)
	case err := <-consoleDone:
		if err != nil {
			logger.Error("Console stopped", "error", err)
		}
		if con.Connected() {
			logger.Info("Console closed")
		} else {
			// Nobody is attached, keep the demo running
			sig := <-sigChan
			logger.Info("Received shutdown signal", "signal", sig)
		}
	}

	cancel()

	if httpServer != nil {
		shutdownCtx, stop := context.WithTimeout(context.Background(), 30*time.Second)
		defer stop()

		logger.Info("Closing HTTP server")
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("Failed to gracefully shutdown server", "error", err)
		}
	}
}

// openConsole returns stdin and stdout, or the configured serial port.
func openConsole(config *Config) (io.Reader, io.Writer, error) {
	if config.ConsolePort == "" {
		return os.Stdin, os.Stdout, nil
	}
	port, err := serial.Open(config.ConsolePort, &serial.Mode{
		BaudRate: config.ConsoleBaudRate,
		Parity:   serial.NoParity,
		DataBits: 8,
		StopBits: serial.OneStopBit,
	})
	if err != nil {
		return nil, nil, err
	}
	return port, port, nil
}

// modemOpener opens a fresh modem session each time the wizard needs one.
func modemOpener(config *Config, logger *slog.Logger) wizard.Opener {
	return func(ctx context.Context) (wizard.Link, error) {
		modemConfig, err := modem.NewConfigBuilder().
			WithATTimeout(5 * time.Second).
			WithInitTimeout(30 * time.Second).
			WithLogger(logger).
			WithDialer(modem.SerialDialer{
				PortName: config.ModemPort,
				BaudRate: config.ModemBaudRate,
			}).
			Build()
		if err != nil {
			return nil, err
		}

		m, err := modem.New(ctx, modemConfig)
		if err != nil {
			return nil, err
		}
		return m, nil
	}
}
