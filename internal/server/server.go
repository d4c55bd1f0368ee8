// Package server wires the application together: database, services,
// handlers, routes, and graceful shutdown.
//
// This is the composition root — the one place where concrete types meet.
// Handlers receive services, services receive repository interfaces, and
// the SQLite DB satisfies those interfaces. Nothing below this package
// knows how its dependencies are constructed.
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

	"github.com/sakif/commentator/internal/auth"
	"github.com/sakif/commentator/internal/handler"
	"github.com/sakif/commentator/internal/middleware"
	sqliteRepo "github.com/sakif/commentator/internal/repository/sqlite"
	"github.com/sakif/commentator/internal/service"
)

// Config holds server configuration, loaded from the environment in
// cmd/server.
type Config struct {
	Port          int
	DBPath        string // path to the SQLite database file
	SessionSecret string // HMAC secret for session tokens
	BcryptCost    int    // 0 = library default (12)
}

// Server owns the router and the database connection. The connection is
// closed during graceful shutdown so the WAL is flushed and the file lock
// released.
type Server struct {
	router *chi.Mux
	config Config
	logger *slog.Logger
	db     *sqliteRepo.DB
}

// New builds the full dependency graph and returns a ready-to-start Server.
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

// setupRoutes configures middleware and the route table.
//
// ROUTE STRUCTURE:
//
//	POST   /api/register                  → create account + start session
//	POST   /api/login                     → authenticate + start session
//	POST   /api/logout                    → end session
//	GET    /api/me                        → current account            [auth]
//	GET    /api/users/{username}          → profile + feedback         [auth]
//	DELETE /api/users/{username}          → self-delete, cascades      [auth]
//	POST   /api/users/{username}/feedback → create feedback            [auth]
//	GET    /api/feedback/{id}             → one post + editable flag   [optional auth]
//	PUT    /api/feedback/{id}             → edit (owner) / read-only   [auth]
//	DELETE /api/feedback/{id}             → delete (owner)             [auth]
func (s *Server) setupRoutes() error {
	// Global middleware, in order: panic recovery first so everything
	// downstream is covered, then per-request logging.
	s.router.Use(chimiddleware.RealIP)
	s.router.Use(chimiddleware.Recoverer)
	s.router.Use(middleware.Logger(s.logger))

	tokens, err := auth.NewTokenService(s.config.SessionSecret)
	if err != nil {
		return fmt.Errorf("creating token service: %w", err)
	}

	var passwords *auth.PasswordService
	if s.config.BcryptCost > 0 {
		passwords = auth.NewPasswordServiceWithCost(s.config.BcryptCost)
	} else {
		passwords = auth.NewPasswordService()
	}

	accountService := service.NewAccountService(s.db.Accounts, s.db.Feedback, passwords, s.logger)
	feedbackService := service.NewFeedbackService(s.db.Feedback, s.logger)

	accountHandler := handler.NewAccountHandler(accountService, tokens, s.logger)
	feedbackHandler := handler.NewFeedbackHandler(feedbackService, s.logger)

	s.router.Route("/api", func(r chi.Router) {
		// Public: session management. Register and login issue the cookie
		// themselves.
		r.Post("/register", accountHandler.HandleRegister)
		r.Post("/login", accountHandler.HandleLogin)
		r.Post("/logout", accountHandler.HandleLogout)

		// Public read: anyone may view a feedback post; identity (when
		// present) only toggles the editable flag.
		r.With(auth.OptionalAuth(tokens)).Get("/feedback/{id}", feedbackHandler.HandleGet)

		// Everything else requires a valid session.
		r.Group(func(r chi.Router) {
			r.Use(auth.RequireAuth(tokens))

			r.Get("/me", accountHandler.HandleMe)
			r.Get("/users/{username}", accountHandler.HandleGetAccount)
			r.Delete("/users/{username}", accountHandler.HandleDeleteAccount)
			r.Post("/users/{username}/feedback", feedbackHandler.HandleCreate)
			r.Put("/feedback/{id}", feedbackHandler.HandleUpdate)
			r.Delete("/feedback/{id}", feedbackHandler.HandleDelete)
		})
	})

	return nil
}

// Handler exposes the router, mainly for httptest in integration tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start runs the HTTP server until SIGINT/SIGTERM, then shuts down
// gracefully: stop accepting connections, give in-flight requests 30s, and
// close the database.
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
