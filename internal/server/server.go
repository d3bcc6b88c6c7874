// Package server wires the router, middleware, and dependency graph, and
// owns the HTTP server lifecycle.
//
// Composition root: New() assembles DB → repositories → services → handlers
// in one place; nothing else in the codebase constructs cross-layer
// dependencies.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/sakif/bandolera/internal/auth"
	"github.com/sakif/bandolera/internal/handler"
	"github.com/sakif/bandolera/internal/middleware"
	sqliteRepo "github.com/sakif/bandolera/internal/repository/sqlite"
	"github.com/sakif/bandolera/internal/service"
)

// Config holds the process-lifetime configuration. It is read once at
// startup and never mutated afterwards.
type Config struct {
	Port      int
	DBPath    string
	JWTSecret string
	JWTExpiry time.Duration // zero means auth.DefaultExpiry (7 days)
}

// Server bundles the router and the resources it owns. The DB connection is
// closed during graceful shutdown.
type Server struct {
	router *chi.Mux
	config Config
	logger *slog.Logger
	db     *sqliteRepo.DB
}

// New creates a Server: opens the database, builds the service graph, and
// registers all routes.
func New(cfg Config, logger *slog.Logger) (*Server, error) {
	db, err := sqliteRepo.New(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Server{
		router: chi.NewRouter(),
		config: cfg,
		logger: logger,
		db:     db,
	}

	if err := s.setupRoutes(); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting up routes: %w", err)
	}

	return s, nil
}

// Handler exposes the assembled router. Used by tests to drive the full
// stack through httptest without binding a port.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Close releases the server's resources outside of Start's own shutdown
// path. Safe for tests that never call Start.
func (s *Server) Close() error {
	return s.db.Close()
}

// setupRoutes builds the dependency graph and registers every route.
//
// ROUTE MAP:
//
//	POST /auth/login               login, returns {authToken}
//	POST /auth/refresh     [auth]  re-issue token
//	POST /users                    register
//	GET  /users                    debug listing
//	GET|POST        /topics        [auth]
//	GET|PUT|DELETE  /topics/{id}   [auth]
//	GET|POST        /subtopics     [auth]
//	GET|PUT|DELETE  /subtopics/{id} [auth]
//	GET|POST        /snippets      [auth]  ?subtopicId= filter on GET
//	GET|PUT|DELETE  /snippets/{id} [auth]
func (s *Server) setupRoutes() error {
	s.router.Use(chimiddleware.RequestID)
	s.router.Use(chimiddleware.RealIP)
	s.router.Use(chimiddleware.Recoverer)
	s.router.Use(middleware.Logger(s.logger))

	tokens, err := auth.NewTokenService(s.config.JWTSecret, s.config.JWTExpiry)
	if err != nil {
		return fmt.Errorf("creating token service: %w", err)
	}
	passwords := auth.NewPasswordService()

	userService := service.NewUserService(s.db, passwords, s.logger)
	authService := service.NewAuthService(s.db, tokens, passwords, s.logger)
	topicService := service.NewTopicService(s.db, s.db, s.db, s.logger)
	subtopicService := service.NewSubtopicService(s.db, s.db, s.db, s.logger)
	snippetService := service.NewSnippetService(s.db, s.db, s.logger)

	authHandler := handler.NewAuthHandler(authService, s.logger)
	userHandler := handler.NewUserHandler(userService, s.logger)
	topicHandler := handler.NewTopicHandler(topicService, s.logger)
	subtopicHandler := handler.NewSubtopicHandler(subtopicService, s.logger)
	snippetHandler := handler.NewSnippetHandler(snippetService, s.logger)

	requireAuth := auth.RequireAuth(tokens)

	// Routing misses and bad methods share the {"message": ...} error shape
	// the rest of the API uses.
	routeMiss := func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"message":"Not Found"}`))
	}
	s.router.NotFound(routeMiss)
	s.router.MethodNotAllowed(routeMiss)

	s.router.Post("/auth/login", authHandler.HandleLogin)
	s.router.With(requireAuth).Post("/auth/refresh", authHandler.HandleRefresh)

	s.router.Post("/users", userHandler.HandleRegister)
	s.router.Get("/users", userHandler.HandleList)

	s.router.Group(func(r chi.Router) {
		r.Use(requireAuth)

		r.Get("/topics", topicHandler.HandleList)
		r.Post("/topics", topicHandler.HandleCreate)
		r.Get("/topics/{id}", topicHandler.HandleGet)
		r.Put("/topics/{id}", topicHandler.HandleUpdate)
		r.Delete("/topics/{id}", topicHandler.HandleDelete)

		r.Get("/subtopics", subtopicHandler.HandleList)
		r.Post("/subtopics", subtopicHandler.HandleCreate)
		r.Get("/subtopics/{id}", subtopicHandler.HandleGet)
		r.Put("/subtopics/{id}", subtopicHandler.HandleUpdate)
		r.Delete("/subtopics/{id}", subtopicHandler.HandleDelete)

		r.Get("/snippets", snippetHandler.HandleList)
		r.Post("/snippets", snippetHandler.HandleCreate)
		r.Get("/snippets/{id}", snippetHandler.HandleGet)
		r.Put("/snippets/{id}", snippetHandler.HandleUpdate)
		r.Delete("/snippets/{id}", snippetHandler.HandleDelete)
	})

	return nil
}

// Start runs the HTTP server until SIGINT/SIGTERM, then shuts down
// gracefully: stop accepting connections, drain in-flight requests (30s
// cap), close the database.
func (s *Server) Start() error {
	defer s.db.Close()

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", s.config.Port),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	serverErrors := make(chan error, 1)

	go func() {
		s.logger.Info("server starting",
			slog.Int("port", s.config.Port),
			slog.String("database", s.config.DBPath),
		)
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}

	case sig := <-quit:
		s.logger.Info("shutdown signal received", slog.String("signal", sig.String()))

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		s.logger.Info("server stopped gracefully")
	}

	return nil
}
