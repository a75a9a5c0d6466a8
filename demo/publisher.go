package demo

import (
	"context"
	"log/slog"
)

// LogPublisher writes samples to a logger. It is used when no cloud
// connection is configured.
type LogPublisher struct {
	Logger *slog.Logger
}

func (p LogPublisher) Publish(_ context.Context, s Sample) error {
	p.Logger.Info("sensor sample",
		"temperature_f", s.Temperature,
		"humidity", s.Humidity,
		"pressure", s.Pressure,
		"accel", s.Accel,
		"gyro", s.Gyro,
		"mag", s.Mag,
	)
	return nil
}
