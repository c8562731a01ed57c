package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/shareit-project/shareit/internal/auth"
)

// HealthChecker reports backend liveness for the health endpoint.
type HealthChecker interface {
	Ping(ctx context.Context) error
}

// Router assembles the HTTP API.
type Router struct {
	userHandler    *UserHandler
	itemHandler    *ItemHandler
	bookingHandler *BookingHandler
	requestHandler *RequestHandler
	health         HealthChecker
	metrics        *Metrics
	logger         zerolog.Logger
}

// RouterConfig contains configuration for the router.
type RouterConfig struct {
	UserHandler    *UserHandler
	ItemHandler    *ItemHandler
	BookingHandler *BookingHandler
	RequestHandler *RequestHandler
	Health         HealthChecker
	Metrics        *Metrics
	Logger         zerolog.Logger
}

// NewRouter creates a new Router.
func NewRouter(config RouterConfig) *Router {
	return &Router{
		userHandler:    config.UserHandler,
		itemHandler:    config.ItemHandler,
		bookingHandler: config.BookingHandler,
		requestHandler: config.RequestHandler,
		health:         config.Health,
		metrics:        config.Metrics,
		logger:         config.Logger.With().Str("component", "router").Logger(),
	}
}

// Handler returns the main HTTP handler.
func (rt *Router) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(RequestLogger(rt.logger))
	r.Use(RequestID)
	if rt.metrics != nil {
		r.Use(rt.metrics.Middleware)
	}

	r.Get("/health", rt.handleHealth)

	// User management is identity-free: callers address users by path,
	// not by header.
	r.Group(func(r chi.Router) {
		r.Use(auth.Middleware(auth.Config{Optional: true}))
		rt.userHandler.RegisterRoutes(r)
	})

	// Everything else acts on behalf of the header's user.
	r.Group(func(r chi.Router) {
		r.Use(auth.Middleware(auth.Config{}))
		rt.itemHandler.RegisterRoutes(r)
		rt.bookingHandler.RegisterRoutes(r)
		rt.requestHandler.RegisterRoutes(r)
	})

	return r
}

// handleHealth handles health check requests.
func (rt *Router) handleHealth(w http.ResponseWriter, r *http.Request) {
	if rt.health != nil {
		if err := rt.health.Ping(r.Context()); err != nil {
			rt.logger.Error().Err(err).Msg("health check failed")
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unhealthy"})
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}
