// Package server is the composition root: it wires the repository, service
// and handler layers together and owns the HTTP server lifecycle.
//
// The dependency chain is assembled in one place:
//
//	sqlite.DB → AuthService/TaskService/CategoryService → handlers → routes
//
// Each layer receives only what it needs — services get repository
// interfaces, handlers get services, nothing reaches around a layer.
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
	"github.com/go-chi/cors"

	"github.com/sakif/todo-api/internal/auth"
	"github.com/sakif/todo-api/internal/config"
	"github.com/sakif/todo-api/internal/handler"
	"github.com/sakif/todo-api/internal/middleware"
	sqliteRepo "github.com/sakif/todo-api/internal/repository/sqlite"
	"github.com/sakif/todo-api/internal/service"
)

// Server owns the router and the database connection. The connection is
// closed during graceful shutdown so the WAL is flushed and the file lock
// released.
type Server struct {
	router *chi.Mux
	config config.Config
	logger *slog.Logger
	db     *sqliteRepo.DB
}

// New builds a fully wired Server from the given configuration.
func New(cfg config.Config, logger *slog.Logger) (*Server, error) {
	db, err := sqliteRepo.New(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	tokens, err := auth.NewTokenService(cfg.JWTSecret, cfg.AccessTokenTTL, cfg.RefreshTokenTTL)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating token service: %w", err)
	}

	s := &Server{
		router: chi.NewRouter(),
		config: cfg,
		logger: logger,
		db:     db,
	}

	s.setupRoutes(tokens)

	return s, nil
}

// Handler exposes the configured router, primarily for tests driving the
// full stack through httptest.
func (s *Server) Handler() http.Handler {
	return s.router
}

// setupRoutes registers middleware and the full route table.
//
//	POST /api/v1/auth/signup            register
//	POST /api/v1/auth/login             issue token pair
//	POST /api/v1/auth/refresh           rotate token pair
//	POST /api/v1/auth/logout     [auth] acknowledge logout
//	GET  /api/v1/auth/me         [auth] own profile
//	GET|POST /api/v1/tasks       [auth] list/create
//	GET  /api/v1/tasks/stats     [auth] statistics
//	GET|PUT|DELETE /api/v1/tasks/{id}        [auth]
//	PATCH /api/v1/tasks/{id}/toggle          [auth]
//	GET|POST /api/v1/categories              [auth]
//	PUT|DELETE /api/v1/categories/{id}       [auth]
//	GET  /health, /api/v1/health        liveness
func (s *Server) setupRoutes(tokens *auth.TokenService) {
	s.router.Use(chimiddleware.RequestID)
	s.router.Use(chimiddleware.RealIP)
	s.router.Use(chimiddleware.Recoverer)
	s.router.Use(middleware.Logger(s.logger))

	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   s.config.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	passwords := auth.NewPasswordService(s.config.BcryptCost)
	authService := service.NewAuthService(s.db, tokens, passwords, s.logger)
	taskService := service.NewTaskService(s.db, s.db, s.logger)
	categoryService := service.NewCategoryService(s.db, s.logger)

	authHandler := handler.NewAuthHandler(authService, s.logger)
	taskHandler := handler.NewTaskHandler(taskService, s.logger)
	categoryHandler := handler.NewCategoryHandler(categoryService, s.logger)
	healthHandler := handler.NewHealthHandler(s.config.Environment)

	requireAuth := auth.RequireAuth(authService)

	s.router.Get("/health", healthHandler.HandleHealth)

	s.router.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", healthHandler.HandleHealth)

		r.Route("/auth", func(r chi.Router) {
			r.Post("/signup", authHandler.HandleSignup)
			r.Post("/login", authHandler.HandleLogin)
			r.Post("/refresh", authHandler.HandleRefresh)

			r.Group(func(r chi.Router) {
				r.Use(requireAuth)
				r.Post("/logout", authHandler.HandleLogout)
				r.Get("/me", authHandler.HandleMe)
			})
		})

		r.Route("/tasks", func(r chi.Router) {
			r.Use(requireAuth)
			r.Get("/", taskHandler.HandleList)
			r.Post("/", taskHandler.HandleCreate)
			r.Get("/stats", taskHandler.HandleStats)
			r.Get("/{id}", taskHandler.HandleGet)
			r.Put("/{id}", taskHandler.HandleUpdate)
			r.Patch("/{id}/toggle", taskHandler.HandleToggle)
			r.Delete("/{id}", taskHandler.HandleDelete)
		})

		r.Route("/categories", func(r chi.Router) {
			r.Use(requireAuth)
			r.Get("/", categoryHandler.HandleList)
			r.Post("/", categoryHandler.HandleCreate)
			r.Put("/{id}", categoryHandler.HandleUpdate)
			r.Delete("/{id}", categoryHandler.HandleDelete)
		})
	})
}

// Start runs the HTTP server until SIGINT/SIGTERM, then shuts down
// gracefully: stop accepting connections, give in-flight requests 30
// seconds, close the database.
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
			slog.String("environment", s.config.Environment),
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
