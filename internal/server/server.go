package server

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"github.com/travelms/travel-be/internal/auth"
	"github.com/travelms/travel-be/internal/config"
	"github.com/travelms/travel-be/internal/http/handlers"
	"github.com/travelms/travel-be/internal/middleware"
	"github.com/travelms/travel-be/internal/service"
	"github.com/travelms/travel-be/internal/storage"
)

// Server wraps an http.Server with configured routes.
type Server struct {
	inner *http.Server
}

// New wires up middleware, routes, and returns a ready server.
func New(cfg config.Config, users storage.UserStore, destinations storage.DestinationStore) *Server {
	tokens := auth.NewTokenManager(cfg.JWTSecret, cfg.JWTIssuer, cfg.JWTTTL)
	authService := service.NewAuthService(users, tokens, cfg.BcryptCost)
	destinationService := service.NewDestinationService(destinations)

	router := NewRouter(cfg, authService, destinationService)

	httpServer := &http.Server{
		Addr:              cfg.HTTPAddress(),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	return &Server{inner: httpServer}
}

// NewRouter builds the chi router with all routes and middleware
// attached. Split out from New so handler tests can mount it without
// binding a listener.
func NewRouter(cfg config.Config, authService *service.AuthService, destinationService *service.DestinationService) chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.Logging)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	handlers.NewHealthHandler(time.Now()).Register(r)
	handlers.NewAuthHandler(authService).Register(r)
	handlers.NewDestinationHandler(destinationService).Register(r)

	return r
}

// Start begins serving HTTP traffic.
func (s *Server) Start() error {
	return s.inner.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.inner.Shutdown(ctx)
}
