// Package server is the composition root: it wires the remote client, the
// feed service, the session store, and the handlers together, owns the
// router, and handles startup and graceful shutdown.
//
// The wiring replaces any module-level singletons: every dependency is
// constructed exactly once in New and handed down by reference, so nothing
// in the application reaches for process-wide state.
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

	"github.com/rkovalev/cardwall/internal/handler"
	"github.com/rkovalev/cardwall/internal/middleware"
	"github.com/rkovalev/cardwall/internal/remote"
	sqliteRepo "github.com/rkovalev/cardwall/internal/repository/sqlite"
	"github.com/rkovalev/cardwall/internal/service"
)

// Config holds server configuration.
type Config struct {
	Port        int
	TemplateDir string
	StaticDir   string
	DBPath      string // session store; ":memory:" keeps it transient
	APIBaseURL  string // upstream users/posts API
}

// Server represents the HTTP server and its owned resources.
type Server struct {
	router *chi.Mux
	config Config
	logger *slog.Logger
	db     *sqliteRepo.DB // session store, closed on shutdown
	feed   *service.FeedService
}

// New assembles the dependency chain:
// session DB and remote client → feed service → handlers → routes.
func New(cfg Config, logger *slog.Logger) (*Server, error) {
	db, err := sqliteRepo.New(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("opening session store: %w", err)
	}

	client, err := remote.New(cfg.APIBaseURL)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating remote client: %w", err)
	}

	s := &Server{
		router: chi.NewRouter(),
		config: cfg,
		logger: logger,
		db:     db,
		feed:   service.NewFeedService(client, logger),
	}

	if err := s.setupRoutes(); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting up routes: %w", err)
	}

	return s, nil
}

// setupRoutes configures middleware and route handlers.
//
// GET    /                 → card wall page (HTML)
// GET    /static/*         → static files (CSS, JS)
// GET    /api/cards        → list cards (JSON)
// POST   /api/cards        → create post, returns new card
// PUT    /api/cards/{id}   → update post, returns updated card
// DELETE /api/cards/{id}   → delete post
func (s *Server) setupRoutes() error {
	s.router.Use(chimiddleware.RealIP)
	s.router.Use(chimiddleware.Recoverer)
	s.router.Use(middleware.Logger(s.logger))

	fileServer := http.FileServer(http.Dir(s.config.StaticDir))
	s.router.Handle("/static/*", http.StripPrefix("/static/", fileServer))

	wallHandler, err := handler.NewWallHandler(s.config.TemplateDir, s.feed, s.db, s.logger)
	if err != nil {
		return fmt.Errorf("creating wall handler: %w", err)
	}
	s.router.Get("/", wallHandler.HandleWall)

	cardHandler := handler.NewCardHandler(s.feed, s.db, s.logger)
	s.router.Route("/api", func(r chi.Router) {
		r.Get("/cards", cardHandler.HandleList)
		r.Post("/cards", cardHandler.HandleCreate)
		r.Put("/cards/{id}", cardHandler.HandleUpdate)
		r.Delete("/cards/{id}", cardHandler.HandleDelete)
	})

	return nil
}

// Start runs the HTTP server until SIGINT/SIGTERM, then shuts down
// gracefully: stop accepting connections, give in-flight requests 30s to
// finish, close the session store.
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
			slog.String("url", fmt.Sprintf("http://localhost:%d", s.config.Port)),
			slog.String("upstream", s.config.APIBaseURL),
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
