// Package server exposes a running sweep over HTTP: status and results as
// JSON, live points over a websocket and Prometheus metrics.
package server

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Server is the HTTP server for sweep monitoring.
type Server struct {
	mux     *http.ServeMux
	handler *Handlers
	httpSrv *http.Server
}

// NewServer creates a server on addr. gatherer backs /metrics; nil uses
// the default registry.
func NewServer(addr string, handler *Handlers, gatherer prometheus.Gatherer) *Server {
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	s := &Server{
		mux:     http.NewServeMux(),
		handler: handler,
	}
	s.setupRoutes(gatherer)
	s.httpSrv = &http.Server{
		Addr:              addr,
		Handler:           s.mux,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

func (s *Server) setupRoutes(gatherer prometheus.Gatherer) {
	s.mux.HandleFunc("GET /api/status", s.handler.HandleStatus)
	s.mux.HandleFunc("GET /api/results", s.handler.HandleResults)
	s.mux.HandleFunc("GET /ws", s.handler.HandleWebSocket)
	s.mux.Handle("GET /metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
}

// Handler returns the route multiplexer.
func (s *Server) Handler() http.Handler { return s.mux }

// Start serves until Shutdown is called.
func (s *Server) Start() error {
	log.Printf("Starting server on %s", s.httpSrv.Addr)
	if err := s.httpSrv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops accepting connections and closes websocket clients.
func (s *Server) Shutdown(ctx context.Context) error {
	s.handler.hub.CloseAll()
	return s.httpSrv.Shutdown(ctx)
}
