// Package web exposes the crossfade JSON API over HTTP.
package web

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"crossfade/internal/db"
	"crossfade/internal/enrich"
	"crossfade/internal/lyrics"
	"crossfade/internal/recommend"
)

// DefaultAddr is the default server address.
const DefaultAddr = "127.0.0.1:8090"

// ServerConfig holds server configuration. Enrich may be nil when no Spotify
// credentials are configured; the metadata endpoint then reports the feature
// as unavailable.
type ServerConfig struct {
	Addr      string
	DB        *db.DB
	Recommend *recommend.Service
	Lyrics    *lyrics.Client
	Enrich    *enrich.Client
}

// Server is the HTTP server for the crossfade API.
type Server struct {
	router   chi.Router
	server   *http.Server
	handlers *Handlers
}

// NewServer creates a new API server.
func NewServer(cfg ServerConfig) *Server {
	if cfg.Addr == "" {
		cfg.Addr = DefaultAddr
	}

	handlers := NewHandlers(cfg.DB, cfg.Recommend, cfg.Lyrics, cfg.Enrich)

	router := chi.NewRouter()

	s := &Server{
		router:   router,
		handlers: handlers,
	}

	s.setupMiddleware()
	s.setupRoutes()

	s.server = &http.Server{
		Addr:         cfg.Addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s
}

// setupMiddleware configures middleware for the router.
func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(middleware.Logger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Compress(5))
}

// setupRoutes configures routes for the API.
func (s *Server) setupRoutes() {
	s.router.Route("/api", func(r chi.Router) {
		r.Route("/tracks", func(r chi.Router) {
			r.Get("/", s.handlers.ListTracks)
			r.Get("/{trackID}", s.handlers.GetTrack)
			r.Get("/{trackID}/lyrics", s.handlers.GetTrackLyrics)
			r.Get("/{trackID}/metadata", s.handlers.GetTrackMetadata)
			r.Get("/{trackID}/genre/suggest", s.handlers.SuggestTrackGenre)
			r.Put("/{trackID}/genre", s.handlers.SetTrackGenre)
		})

		r.Get("/genres/moods", s.handlers.MoodGroups)

		r.Route("/setlists", func(r chi.Router) {
			r.Get("/", s.handlers.ListSetlists)
			r.Post("/", s.handlers.CreateSetlist)
			r.Put("/{setlistID}", s.handlers.RenameSetlist)
			r.Delete("/{setlistID}", s.handlers.DeleteSetlist)
			r.Get("/{setlistID}/tracks", s.handlers.GetSetlistTracks)
			r.Post("/{setlistID}/tracks", s.handlers.ReplaceSetlistTracks)
			r.Get("/{setlistID}/export/m3u8", s.handlers.ExportSetlistM3U8)
		})

		r.Route("/recommendations", func(r chi.Router) {
			r.Get("/next", s.handlers.RecommendNext)
			r.Post("/auto", s.handlers.GenerateAutoSetlist)
			r.Post("/path", s.handlers.GeneratePathSetlist)
		})
	})
}

// Start starts the HTTP server.
func (s *Server) Start() error {
	log.Printf("Starting server at http://%s", s.server.Addr)
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

// Run starts the server and handles graceful shutdown on interrupt signals.
func (s *Server) Run() error {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	errCh := make(chan error, 1)
	go func() {
		if err := s.Start(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-stop:
		log.Println("Shutting down server...")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := s.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	log.Println("Server stopped")
	return nil
}
