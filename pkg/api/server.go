// Package api serves the character service over JSON/HTTP.
//
// Routes:
//
//	GET    /                  health message
//	GET    /characters        known characters (skip, limit)
//	GET    /characters/{id}   one character
//	DELETE /characters/{id}   remove a character and its notes
//	GET    /suggest           a random word that is not yet known
//	POST   /add               mark a word as known
//	GET    /search            dictionary search (q, limit)
//	GET    /notes/{id}        notes for a character
//	PUT    /notes/{id}        replace notes for a character
//	DELETE /notes/{id}        clear notes for a character
//	GET    /tree              render the known-character tree
//
// Errors are JSON objects {"detail": ..., "code": ...} with the status
// chosen by [errors.HTTPStatus].
package api

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/hanzitree/pkg/dictionary"
	"github.com/matzehuels/hanzitree/pkg/notes"
	"github.com/matzehuels/hanzitree/pkg/pipeline"
	"github.com/matzehuels/hanzitree/pkg/store"
)

const (
	// DefaultAddr is the listen address used when Config.Addr is empty.
	DefaultAddr = ":8000"

	readHeaderTimeout = 10 * time.Second
	shutdownTimeout   = 10 * time.Second
	maxBodyBytes      = 1 << 20
)

// Config holds the server's dependencies. Repository is required; the
// rest default to an in-memory notes store, the embedded dictionary, an
// uncached runner and a discard logger.
type Config struct {
	Addr       string
	Repository store.Repository
	Notes      notes.Store
	Dictionary *dictionary.Dictionary
	Runner     *pipeline.Runner
	Logger     *log.Logger

	// Render defaults applied to /tree when the query leaves them unset.
	Render pipeline.Options
}

// Server is the HTTP front of the character service.
type Server struct {
	addr   string
	repo   store.Repository
	notes  notes.Store
	dict   *dictionary.Dictionary
	runner *pipeline.Runner
	logger *log.Logger
	render pipeline.Options

	router     chi.Router
	httpServer *http.Server
}

// New builds a server from cfg.
func New(cfg Config) (*Server, error) {
	if cfg.Repository == nil {
		return nil, fmt.Errorf("api: repository is required")
	}
	if cfg.Addr == "" {
		cfg.Addr = DefaultAddr
	}
	if cfg.Notes == nil {
		cfg.Notes = notes.NewMemoryStore()
	}
	if cfg.Dictionary == nil {
		cfg.Dictionary = dictionary.Default()
	}
	if cfg.Logger == nil {
		cfg.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	if cfg.Runner == nil {
		cfg.Runner = pipeline.NewRunner(nil, nil, cfg.Logger)
	}

	s := &Server{
		addr:   cfg.Addr,
		repo:   cfg.Repository,
		notes:  cfg.Notes,
		dict:   cfg.Dictionary,
		runner: cfg.Runner,
		logger: cfg.Logger,
		render: cfg.Render,
	}
	s.router = s.routes()
	s.httpServer = &http.Server{
		Addr:              cfg.Addr,
		Handler:           s.router,
		ReadHeaderTimeout: readHeaderTimeout,
	}
	return s, nil
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)
	r.Use(cors)

	r.Get("/", s.handleRoot)
	r.Route("/characters", func(r chi.Router) {
		r.Get("/", s.handleListCharacters)
		r.Get("/{id}", s.handleGetCharacter)
		r.Delete("/{id}", s.handleDeleteCharacter)
	})
	r.Get("/suggest", s.handleSuggest)
	r.Post("/add", s.handleAdd)
	r.Get("/search", s.handleSearch)
	r.Route("/notes/{id}", func(r chi.Router) {
		r.Get("/", s.handleGetNotes)
		r.Put("/", s.handlePutNotes)
		r.Delete("/", s.handleDeleteNotes)
	})
	r.Get("/tree", s.handleTree)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, ErrorResponse{Detail: "Not Found", Code: "NOT_FOUND"})
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusMethodNotAllowed, ErrorResponse{Detail: "Method Not Allowed"})
	})
	return r
}

// Handler returns the server's root handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Addr returns the configured listen address.
func (s *Server) Addr() string {
	return s.addr
}

// ListenAndServe runs the HTTP server until the context ends, then shuts
// down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	serveErr := make(chan error, 1)
	s.logger.Info("listening", "addr", s.addr)
	go func() {
		serveErr <- s.httpServer.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		s.logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown http server: %w", err)
		}
		return nil
	case err := <-serveErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve http: %w", err)
	}
}
