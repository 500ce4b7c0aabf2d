// Package api provides the HTTP API server and handlers for the sobriety
// tracker.
package api

import (
	"net/http"

	"log/slog"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/OnelioViera/drinking-app-v1/internal/ratelimit"
	"github.com/OnelioViera/drinking-app-v1/internal/service"
	"github.com/OnelioViera/drinking-app-v1/internal/sse"
	"github.com/OnelioViera/drinking-app-v1/internal/store"
)

// Server holds dependencies for HTTP handlers.
type Server struct {
	store          *store.Store
	authService    *service.AuthService
	journalService *service.JournalService
	periodService  *service.PeriodService
	chatService    *service.ChatService
	loginLimiter   *ratelimit.KeyedRateLimiter
	sseHandler     *sse.Handler
	router         *chi.Mux
	logger         *slog.Logger
}

// NewServer creates a new HTTP server with all routes configured.
// sseHandler may be nil, in which case the event stream route is not
// mounted.
func NewServer(
	st *store.Store,
	authService *service.AuthService,
	journalService *service.JournalService,
	periodService *service.PeriodService,
	chatService *service.ChatService,
	loginLimiter *ratelimit.KeyedRateLimiter,
	sseHandler *sse.Handler,
	logger *slog.Logger,
) *Server {
	s := &Server{
		store:          st,
		authService:    authService,
		journalService: journalService,
		periodService:  periodService,
		chatService:    chatService,
		loginLimiter:   loginLimiter,
		sseHandler:     sseHandler,
		router:         chi.NewRouter(),
		logger:         logger,
	}

	s.setupMiddleware()
	s.setupRoutes()

	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// setupMiddleware configures the middleware stack.
func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(middleware.Logger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Compress(5))
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))
}

// setupRoutes configures all HTTP routes.
func (s *Server) setupRoutes() {
	// Health check.
	s.router.Get("/health", s.handleHealthCheck)

	// API v1.
	s.router.Route("/api/v1", func(r chi.Router) {
		// Auth endpoints (public, login throttled per IP).
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", s.handleRegister)
			r.With(s.rateLimitByIP(s.loginLimiter)).Post("/login", s.handleLogin)
		})

		// Journal entries (require auth).
		r.Route("/entries", func(r chi.Router) {
			r.Use(s.requireAuth)
			r.Get("/", s.handleListEntries)
			r.Post("/", s.handleCreateEntry)
			r.Get("/trend", s.handleEntryTrend)
			r.Get("/search", s.handleSearchEntries)
			r.Get("/{id}", s.handleGetEntry)
			r.Put("/{id}", s.handleUpdateEntry)
			r.Delete("/{id}", s.handleDeleteEntry)
			r.Delete("/{id}/permanent", s.handlePurgeEntry)
		})

		// Sobriety period (require auth).
		r.Route("/sobriety", func(r chi.Router) {
			r.Use(s.requireAuth)
			r.Get("/", s.handleGetPeriod)
			r.Post("/start", s.handleStartPeriod)
			r.Post("/reset", s.handleResetPeriod)
		})

		// Support chat (require auth).
		r.With(s.requireAuth).Post("/chat", s.handleChat)

		// Event stream (require auth). Only mounted when an SSE manager
		// is wired in.
		if s.sseHandler != nil {
			r.With(s.requireAuth).Get("/events", s.handleEvents)
		}
	})
}
