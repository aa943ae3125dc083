package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"shareit/internal/config"
	"shareit/internal/domain"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

// Services are the operations the HTTP API exposes.
type Services struct {
	Bookings domain.BookingService
	Items    domain.ItemService
	Users    domain.UserService
	Requests domain.RequestService
}

// ReadyFunc reports whether the backing store can serve requests.
type ReadyFunc func(ctx context.Context) error

type HTTPServer struct {
	cfg      config.APIConfig
	services Services
	ready    ReadyFunc
	server   *http.Server
	auth     *HTTPAuth
	logger   *zerolog.Logger
}

func NewHTTPServer(cfg config.APIConfig, services Services, ready ReadyFunc, logger *zerolog.Logger) *HTTPServer {
	srv := &HTTPServer{
		cfg:      cfg,
		services: services,
		ready:    ready,
		logger:   logger,
	}
	srv.auth = NewHTTPAuth(cfg, logger)

	srv.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTP.Port),
		Handler:           srv.routes(),
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      15 * time.Second,
	}

	return srv
}

func (s *HTTPServer) routes() http.Handler {
	router := chi.NewRouter()
	router.Use(requestIDMiddleware)
	router.Use(accessMiddleware(s.logger))
	router.Use(recoverMiddleware(s.logger))

	router.Get("/healthz", s.handleHealth)
	router.Get("/readyz", s.handleReady)

	router.Group(func(r chi.Router) {
		r.Use(s.auth.Wrap)

		r.Route("/bookings", func(r chi.Router) {
			r.Post("/", s.createBooking)
			r.Get("/", s.listBookerBookings)
			r.Get("/owner", s.listOwnerBookings)
			r.Get("/{bookingId}", s.getBooking)
			r.Patch("/{bookingId}", s.approveBooking)
		})

		r.Route("/items", func(r chi.Router) {
			r.Post("/", s.createItem)
			r.Get("/", s.listOwnerItems)
			r.Get("/search", s.searchItems)
			r.Get("/{itemId}", s.getItem)
			r.Patch("/{itemId}", s.updateItem)
			r.Delete("/{itemId}", s.deleteItem)
			r.Post("/{itemId}/comment", s.addComment)
		})

		r.Route("/users", func(r chi.Router) {
			r.Post("/", s.createUser)
			r.Get("/", s.listUsers)
			r.Get("/{userId}", s.getUser)
			r.Patch("/{userId}", s.updateUser)
			r.Delete("/{userId}", s.deleteUser)
		})

		r.Route("/requests", func(r chi.Router) {
			r.Post("/", s.createRequest)
			r.Get("/", s.listOwnRequests)
			r.Get("/all", s.listOtherRequests)
			r.Get("/{requestId}", s.getRequest)
		})
	})

	return router
}

func (s *HTTPServer) Handler() http.Handler {
	return s.server.Handler
}

func (s *HTTPServer) Start() error {
	if s.server == nil {
		return fmt.Errorf("http server is not initialized")
	}
	s.logger.Info().Str("addr", s.server.Addr).Msg("HTTP API listening")
	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *HTTPServer) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

func (s *HTTPServer) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *HTTPServer) handleReady(w http.ResponseWriter, r *http.Request) {
	if s.ready != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := s.ready(ctx); err != nil {
			s.logger.Warn().Err(err).Msg("Readiness check failed")
			writeError(w, http.StatusServiceUnavailable, "not ready")
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}
