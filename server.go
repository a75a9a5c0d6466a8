package main

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"i4.energy/across/cellwiz/demo"
)

// DemoTrigger starts and stops the sensor demo without writing to the
// operator console.
type DemoTrigger interface {
	Request(ctx context.Context, arg string) error
}

// Server exposes metrics, a health probe and the demo trigger over HTTP
type Server struct {
	Logger  *slog.Logger
	Metrics http.Handler
	Demo    DemoTrigger
	// Running reports whether the demo task is publishing samples
	Running func() bool
}

// ServeHTTP implements the http.Handler interface for the Server struct
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	mux := http.NewServeMux()
	if s.Metrics != nil {
		mux.Handle("GET /metrics", s.Metrics)
	}
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("POST /demo/{action}", s.handleDemo)
	mux.ServeHTTP(w, r)
}

func (s *Server) sendError(w http.ResponseWriter, message string, statusCode int) {
	if message == "" {
		w.WriteHeader(statusCode)
		return
	}

	type ErrorResponse struct {
		Message string `json:"message"`
	}
	resp := ErrorResponse{Message: message}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(resp)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	type HealthResponse struct {
		Status      string `json:"status"`
		DemoRunning bool   `json:"demo_running"`
	}
	resp := HealthResponse{Status: "ok"}
	if s.Running != nil {
		resp.DemoRunning = s.Running()
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

// handleDemo forwards "start" or "stop" to the demo trigger
func (s *Server) handleDemo(w http.ResponseWriter, r *http.Request) {
	action := r.PathValue("action")

	err := s.Demo.Request(r.Context(), action)
	switch {
	case err == nil:
	case errors.Is(err, demo.ErrInvalidArgument):
		s.sendError(w, err.Error(), http.StatusBadRequest)
		return
	case errors.Is(err, demo.ErrNotConfigured):
		s.sendError(w, err.Error(), http.StatusConflict)
		return
	default:
		s.Logger.Error("Failed to trigger demo", "action", action, "error", err)
		s.sendError(w, err.Error(), http.StatusInternalServerError)
		return
	}

	s.Logger.Info("Demo triggered", "action", action)
	w.WriteHeader(http.StatusAccepted)
}
