// Package server provides the HTTP API for Techou.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/notewell/techou/internal/config"
	"github.com/notewell/techou/internal/counter"
	"github.com/notewell/techou/internal/format"
	"github.com/notewell/techou/internal/search"
	"github.com/notewell/techou/internal/storage"
)

// Server is the HTTP server for the Techou API. It is the presentation
// boundary: core errors surface here as status codes and messages.
type Server struct {
	engine    *search.Engine
	counter   *counter.Counter
	weights   *counter.WeightTable
	formatter *format.Formatter
	storage   storage.Storage
	config    *config.Config
	logger    *zap.Logger
	server    *http.Server
}

// NewServer creates a server with the given dependencies. weights is the
// live weight table shared with counting; edits through the API update it
// and persist through storage.
func NewServer(
	engine *search.Engine,
	cnt *counter.Counter,
	weights *counter.WeightTable,
	formatter *format.Formatter,
	store storage.Storage,
	cfg *config.Config,
	logger *zap.Logger,
) *Server {
	return &Server{
		engine:    engine,
		counter:   cnt,
		weights:   weights,
		formatter: formatter,
		storage:   store,
		config:    cfg,
		logger:    logger,
	}
}

// Router builds the chi router with all routes mounted.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(middleware.Compress(5))

	r.Post("/api/v1/search", s.handleSearch)

	r.Post("/api/v1/notebooks", s.handleCreateNotebook)
	r.Get("/api/v1/notebooks", s.handleListNotebooks)
	r.Get("/api/v1/notebooks/{id}", s.handleGetNotebook)
	r.Put("/api/v1/notebooks/{id}", s.handleRenameNotebook)
	r.Delete("/api/v1/notebooks/{id}", s.handleDeleteNotebook)
	r.Get("/api/v1/notebooks/{id}/stats", s.handleNotebookStats)

	r.Post("/api/v1/notebooks/{id}/pages", s.handleCreatePage)
	r.Get("/api/v1/notebooks/{id}/pages", s.handleListPages)
	r.Get("/api/v1/pages/{id}", s.handleGetPage)
	r.Put("/api/v1/pages/{id}", s.handleUpdatePage)
	r.Delete("/api/v1/pages/{id}", s.handleDeletePage)
	r.Get("/api/v1/pages/{id}/stats", s.handlePageStats)

	r.Get("/api/v1/weights", s.handleGetWeights)
	r.Put("/api/v1/weights/{word}", s.handleSetWeight)
	r.Delete("/api/v1/weights/{word}", s.handleDeleteWeight)

	r.Get("/api/v1/status", s.handleStatus)
	r.Get("/health", s.handleHealth)

	return r
}

// Start starts the HTTP server and blocks until it stops.
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.config.Server.Host, s.config.Server.Port)
	s.server = &http.Server{
		Addr:    addr,
		Handler: s.Router(),
	}
	s.logger.Info("Starting server", zap.String("addr", addr))
	return s.server.ListenAndServe()
}

// Stop gracefully shuts down the server.
func (s *Server) Stop(ctx context.Context) error {
	if s.server != nil {
		return s.server.Shutdown(ctx)
	}
	return nil
}
