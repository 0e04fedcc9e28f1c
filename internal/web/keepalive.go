// Package web serves the keep-alive endpoint expected by external process
// supervisors, plus a status snapshot and Prometheus metrics.
package web

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"mediadex/internal/domain"
	"mediadex/internal/metrics"
)

const statsTimeout = 5 * time.Second

// Server is the keep-alive HTTP server.
type Server struct {
	host    string
	port    int
	version string
	store   domain.MediaStore
	logger  *slog.Logger
	server  *http.Server
}

type Config struct {
	Host    string
	Port    int
	Version string
	Store   domain.MediaStore
	Logger  *slog.Logger
}

func New(cfg Config) *Server {
	if cfg.Host == "" {
		cfg.Host = "0.0.0.0"
	}
	if cfg.Port == 0 {
		cfg.Port = 8080
	}
	if cfg.Version == "" {
		cfg.Version = "dev"
	}
	return &Server{
		host:    cfg.Host,
		port:    cfg.Port,
		version: cfg.Version,
		store:   cfg.Store,
		logger:  cfg.Logger,
	}
}

// Start runs the server until ctx is cancelled.
func (s *Server) Start(ctx context.Context) error {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /", s.handleRoot)
	mux.HandleFunc("GET /status", s.handleStatus)
	mux.Handle("GET /metrics", metrics.Collector.Handler())

	addr := fmt.Sprintf("%s:%d", s.host, s.port)
	s.server = &http.Server{
		Addr:    addr,
		Handler: mux,
	}

	s.logger.Info("keep-alive server started", "addr", "http://"+addr)

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.server.Shutdown(shutdownCtx)
	}()

	if err := s.server.ListenAndServe(); err != http.ErrServerClosed {
		return err
	}
	return nil
}

// handleRoot answers 200 unconditionally; external supervisors probe it.
func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	fmt.Fprint(w, "✅ Bot is running")
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	status := map[string]interface{}{
		"status":         "ok",
		"version":        s.version,
		"uptime_seconds": int64(metrics.Collector.Uptime().Seconds()),
	}

	if s.store != nil {
		ctx, cancel := context.WithTimeout(r.Context(), statsTimeout)
		defer cancel()
		if stats, err := s.store.Stats(ctx); err == nil {
			status["media_total"] = stats.TotalMedia
			status["media_by_type"] = stats.ByType
		} else {
			s.logger.Warn("status stats query failed", "err", err)
		}
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(status); err != nil {
		s.logger.Error("status encode failed", "err", err)
	}
}
