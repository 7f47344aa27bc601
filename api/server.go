package api

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/theoremus-urban-solutions/sldm/ldm"
	"github.com/theoremus-urban-solutions/sldm/metrics"
	"github.com/theoremus-urban-solutions/sldm/security"
)

const shutdownTimeout = 10 * time.Second

// Server serves read-only views of the stores.
type Server struct {
	vehicles *ldm.VehicleStore
	events   *ldm.EventStore
	certs    *security.CertificateStore
	notifier *ldm.Notifier

	metrics  *metrics.Collector
	gatherer prometheus.Gatherer
	clientID string

	addr    string
	streams *streamHub
	mux     *http.ServeMux
}

// Option configures a Server.
type Option func(*Server)

// WithMetrics counts websocket sessions on c and exposes g on /metrics.
func WithMetrics(c *metrics.Collector, g prometheus.Gatherer) Option {
	return func(s *Server) {
		s.metrics = c
		s.gatherer = g
	}
}

// WithNotifier enables the /ws/events stream. It should be the notifier
// the EventStore bumps.
func WithNotifier(n *ldm.Notifier) Option {
	return func(s *Server) { s.notifier = n }
}

// WithClientID reports id on /api/health.
func WithClientID(id string) Option {
	return func(s *Server) { s.clientID = id }
}

// NewServer builds a server listening on port once Run is called.
func NewServer(port int, vehicles *ldm.VehicleStore, events *ldm.EventStore, certs *security.CertificateStore, opts ...Option) *Server {
	s := &Server{
		vehicles: vehicles,
		events:   events,
		certs:    certs,
		addr:     fmt.Sprintf(":%d", port),
	}
	for _, o := range opts {
		o(s)
	}
	s.mux = s.routes()
	return s
}

func (s *Server) routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/health", s.handleHealth)
	mux.HandleFunc("GET /api/vehicles", s.handleVehicles)
	mux.HandleFunc("GET /api/vehicles/{id}", s.handleVehicle)
	mux.HandleFunc("GET /api/events", s.handleEvents)
	mux.HandleFunc("GET /api/certificates/{digest}", s.handleCertificate)
	if s.gatherer != nil {
		mux.Handle("GET /metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
	}
	if s.notifier != nil {
		s.streams = newStreamHub(s.notifier, s.eventsSnapshot, s.metrics)
		mux.HandleFunc("GET /ws/events", s.streams.handle)
	}
	return mux
}

// Handler returns the route table, mainly for tests.
func (s *Server) Handler() http.Handler { return s.mux }

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.addr,
		Handler:           s.mux,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("[API] server listening on %s", s.addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("api server: %w", err)
	case <-ctx.Done():
	}

	log.Printf("[API] shutting down")
	if s.streams != nil {
		s.streams.closeAll()
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("api shutdown: %w", err)
	}
	log.Printf("[API] server shut down successfully")
	return nil
}
