// Package api provides the HTTP API for accounts and todos.
package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/felixgeelhaar/tasklist/internal/app"
	"github.com/felixgeelhaar/tasklist/pkg/observability"
)

// Server is the HTTP API server.
type Server struct {
	mux      *http.ServeMux
	server   *http.Server
	logger   *slog.Logger
	auth     *AuthHandler
	todos    *TodoHandler
	verifier Verifier
	health   *observability.HealthRegistry
}

// ServerConfig holds configuration for the API server.
type ServerConfig struct {
	Addr               string
	ReadTimeout        time.Duration
	WriteTimeout       time.Duration
	IdleTimeout        time.Duration
	CORSAllowedOrigins []string
}

// DefaultServerConfig returns the default server configuration.
func DefaultServerConfig() ServerConfig {
	return ServerConfig{
		Addr:               ":5000",
		ReadTimeout:        15 * time.Second,
		WriteTimeout:       15 * time.Second,
		IdleTimeout:        60 * time.Second,
		CORSAllowedOrigins: []string{"*"},
	}
}

// Dependencies are the handlers and collaborators the server routes to.
type Dependencies struct {
	Auth     *AuthHandler
	Todos    *TodoHandler
	Verifier Verifier
	// Health backs /ready. Nil reports ready unconditionally.
	Health *observability.HealthRegistry
}

// NewServer creates a new API server.
func NewServer(cfg ServerConfig, deps Dependencies, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}

	s := &Server{
		mux:      http.NewServeMux(),
		logger:   logger,
		auth:     deps.Auth,
		todos:    deps.Todos,
		verifier: deps.Verifier,
		health:   deps.Health,
	}

	s.registerRoutes()

	s.server = &http.Server{
		Addr:         cfg.Addr,
		Handler:      s.buildHandler(cfg),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return s
}

// registerRoutes sets up the API routes.
func (s *Server) registerRoutes() {
	s.mux.HandleFunc("GET /{$}", s.handleRoot)
	s.mux.HandleFunc("GET /health", s.handleHealth)
	s.mux.HandleFunc("GET /ready", s.handleReady)

	// Accounts
	s.mux.HandleFunc("POST /api/auth/register", s.auth.Register)
	s.mux.HandleFunc("POST /api/auth/login", s.auth.Login)
	s.mux.HandleFunc("GET /api/auth/profile", authenticate(s.verifier, s.auth.Profile))
	s.mux.HandleFunc("DELETE /api/auth/deleteuser/{id}", authenticate(s.verifier, s.auth.DeleteUser))

	// Todos
	s.mux.HandleFunc("GET /api/todos/fetchAlltodos", authenticate(s.verifier, s.todos.List))
	s.mux.HandleFunc("POST /api/todos/addtodo", authenticate(s.verifier, s.todos.Add))
	s.mux.HandleFunc("PUT /api/todos/edittodo/{id}", authenticate(s.verifier, s.todos.Edit))
	s.mux.HandleFunc("PUT /api/todos/complete/{id}", authenticate(s.verifier, s.todos.Complete))
	s.mux.HandleFunc("DELETE /api/todos/deletetodo/{id}", authenticate(s.verifier, s.todos.Delete))

	s.mux.HandleFunc("/", s.handleNotFound)
}

// buildHandler wraps the mux in the middleware stack, outermost first.
func (s *Server) buildHandler(cfg ServerConfig) http.Handler {
	return chain(s.mux,
		withRequestID,
		withTracing,
		withAccessLog(s.logger),
		withRecover(s.logger),
		withCORS(cfg.CORSAllowedOrigins),
	)
}

// Handler returns the fully wrapped HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.server.Handler
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, "Hello")
}

// handleHealth handles liveness requests.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status": "healthy",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

// handleReady runs the registered readiness checks.
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if s.health == nil {
		writeJSON(w, http.StatusOK, map[string]string{"status": string(observability.HealthStatusHealthy)})
		return
	}

	report := s.health.Check(r.Context())
	status := http.StatusOK
	if report.Status == observability.HealthStatusUnhealthy {
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, report)
}

func (s *Server) handleNotFound(w http.ResponseWriter, r *http.Request) {
	writeFailure(w, http.StatusNotFound, http.StatusNotFound, MsgRouteNotFound)
}

// Start starts the API server.
func (s *Server) Start() error {
	s.logger.Info("starting API server",
		"addr", s.server.Addr,
	)
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down API server")
	return s.server.Shutdown(ctx)
}

// NewDependencies wires the API handlers from the application container.
func NewDependencies(c *app.Container) Dependencies {
	return Dependencies{
		Auth: NewAuthHandler(
			c.RegisterHandler,
			c.LoginHandler,
			c.DeleteUserHandler,
			c.GetProfileHandler,
			c.ListTodosHandler,
			c.Logger,
		),
		Todos: NewTodoHandler(
			c.ListTodosHandler,
			c.AddTodoHandler,
			c.EditTodoHandler,
			c.ToggleCompleteHandler,
			c.DeleteTodoHandler,
			c.Logger,
		),
		Verifier: c.Tokens,
		Health:   c.Health,
	}
}
