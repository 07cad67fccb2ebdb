package yatriq

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/theoremus-urban-solutions/yatriq/metrics"
)

// Server serves a Client over HTTP.
type Server struct {
	client *Client
	logger *slog.Logger
	srv    *http.Server
}

// NewServer builds the router for client listening on port.
func NewServer(client *Client, port int, corsOrigins []string) *Server {
	s := &Server{client: client, logger: client.logger}
	s.srv = &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           s.Router(corsOrigins),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	return s
}

// Router returns the API routes.
func (s *Server) Router(corsOrigins []string) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   corsOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	}))

	r.Get("/api/health", s.handleHealth)
	r.Get("/api/stations", s.handleStations)
	r.Get("/api/trains", s.handleSearch)
	r.Get("/api/trains/{trainNo}/insight", s.handleInsight)
	r.Delete("/api/trains/{trainNo}/insight", s.handleInvalidateInsight)

	r.Route("/api/tracking/{trainNo}", func(r chi.Router) {
		r.Post("/", s.handleStartTracking)
		r.Get("/", s.handleTrackingState)
		r.Delete("/", s.handleStopTracking)
		r.Put("/delay", s.handleTrackingDelay)
		r.Get("/feed.pb", s.handleTrackingFeed)
	})

	r.Post("/api/intent", s.handleIntent)
	r.Get("/api/intent/suggestions", s.handleSuggestions)
	r.Get("/api/bookings", s.handleBookings)
	r.Get("/api/bookings/{pnr}", s.handlePNR)
	r.Post("/api/bookings/drafts", s.handleSaveDraft)
	r.Post("/api/planner/round-trip", s.handleRoundTrip)

	r.Handle("/metrics", metrics.Handler(s.client.Gatherer()))
	return r
}

// Start listens in the background.
func (s *Server) Start() {
	go func() {
		if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("server error", "err", err)
			os.Exit(1)
		}
	}()
	s.logger.Info("server listening", "addr", s.srv.Addr)
}

// Shutdown drains connections within ctx.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}

// WaitForSignal blocks until SIGINT or SIGTERM, then shuts down within 10s.
func (s *Server) WaitForSignal() error {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigs)
	<-sigs
	s.logger.Info("shutdown signal received")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := s.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	s.logger.Info("server shut down")
	return nil
}
