// Package server exposes the agent's health, status and metrics over HTTP.
package server

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/freydema/spacetrader-agent/internal/agent"
	"github.com/freydema/spacetrader-agent/internal/metrics"
)

// StatusSource yields the latest controller snapshot.
type StatusSource interface {
	Status() agent.Status
}

// Server is the read-only HTTP surface for operators.
type Server struct {
	addr   string
	source StatusSource
	http   *http.Server
}

// New builds the server with its routes mounted.
func New(addr string, source StatusSource) *Server {
	s := &Server{addr: addr, source: source}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(10 * time.Second))

	r.Get("/healthz", s.handleHealthz)
	r.Get("/status", s.handleStatus)
	r.Handle("/metrics", metrics.Handler())

	s.http = &http.Server{
		Addr:              addr,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}
	return s
}

// Start serves in a goroutine until Shutdown is called.
func (s *Server) Start() {
	go func() {
		log.Printf("[INFO] status server listening on %s", s.addr)
		if err := s.http.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("[ERROR] status server: %v", err)
		}
	}()
}

// Shutdown drains in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}

func (s *Server) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}

func (s *Server) handleStatus(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(s.source.Status()); err != nil {
		log.Printf("[ERROR] encode status: %v", err)
	}
}
