// Package api provides the HTTP API server and handlers for the MoveLog application.
package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/movelogapp/movelog-server/internal/config"
	"github.com/movelogapp/movelog-server/internal/media/videos"
	"github.com/movelogapp/movelog-server/internal/store"
)

// Server holds dependencies for HTTP handlers.
type Server struct {
	store        store.Interface
	services     *Services
	videoStorage *videos.Storage
	signer       *videos.Signer
	config       *config.Config
	router       *chi.Mux
	api          huma.API
	logger       *slog.Logger

	// authRateLimiter throttles credential and reset endpoints per client IP.
	authRateLimiter *RateLimiter
}

// NewServer creates the HTTP server with all routes configured.
func NewServer(
	cfg *config.Config,
	st store.Interface,
	services *Services,
	videoStorage *videos.Storage,
	signer *videos.Signer,
	logger *slog.Logger,
) *Server {
	router := chi.NewRouter()
	authRateLimiter := NewRateLimiter(20, time.Minute, 10)

	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Recoverer)
	router.Use(middleware.Compress(5))
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Content-Length", "Content-Range"},
		AllowCredentials: false,
		MaxAge:           300,
	}))
	// Credential endpoints are brute-forceable, so they get a per-IP limiter.
	router.Use(RateLimitPathsMiddleware(authRateLimiter, logger,
		"/api/v1/auth/login",
		"/api/v1/auth/setup",
		"/api/v1/auth/forgot-password",
	))
	router.Use(authMiddleware(services.Auth))

	humaConfig := huma.DefaultConfig(cfg.Server.Name, "1.0.0")
	humaConfig.Components.SecuritySchemes = map[string]*huma.SecurityScheme{
		"bearer": {
			Type:         "http",
			Scheme:       "bearer",
			BearerFormat: "PASETO",
		},
	}
	humaConfig.Transformers = append(humaConfig.Transformers, EnvelopeTransformer)

	humaAPI := humachi.New(router, humaConfig)
	RegisterErrorHandler()

	s := &Server{
		store:           st,
		services:        services,
		videoStorage:    videoStorage,
		signer:          signer,
		config:          cfg,
		router:          router,
		api:             humaAPI,
		logger:          logger,
		authRateLimiter: authRateLimiter,
	}

	s.registerRoutes()

	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// registerRoutes configures all huma operations and the raw chi routes
// that handle multipart uploads and video streaming.
func (s *Server) registerRoutes() {
	s.registerHealthRoutes()
	s.registerInstanceRoutes()
	s.registerAuthRoutes()
	s.registerProfileRoutes()
	s.registerCatalogRoutes()
	s.registerTagRoutes()
	s.registerMovementRoutes()
	s.registerAdminRoutes()
	s.registerInviteRoutes()

	// Multipart upload endpoints use chi directly because huma does not
	// stream multipart bodies.
	s.router.Post("/api/v1/movements", s.handleCreateMovement)
	s.router.Put("/api/v1/movements/{id}/video", s.handleReplaceVideo)

	// Signed video playback with HTTP Range support.
	s.router.Get("/api/v1/videos/{object}", s.handleStreamVideo)
}
