// Package server provides the HTTP API for Musubi.
package server

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/hyperjump/musubi/internal/config"
	"github.com/hyperjump/musubi/internal/directory"
	"github.com/hyperjump/musubi/internal/engine"
	"github.com/hyperjump/musubi/internal/models"
)

// mapCacheTTL bounds how often the scan-the-world map computation runs.
const mapCacheTTL = 30 * time.Second

// Server is the HTTP server for the Musubi API.
type Server struct {
	engine    *engine.Engine
	directory *directory.Index
	config    *config.ServerConfig
	logger    *zap.Logger
	server    *http.Server

	mapMu     sync.Mutex
	mapCached *models.CompatibilityMap
	mapAt     time.Time
}

// NewServer creates a server with the given dependencies.
func NewServer(
	eng *engine.Engine,
	dir *directory.Index,
	cfg *config.ServerConfig,
	logger *zap.Logger,
) *Server {
	return &Server{
		engine:    eng,
		directory: dir,
		config:    cfg,
		logger:    logger,
	}
}

// Routes builds the HTTP router.
func (s *Server) Routes() *chi.Mux {
	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(middleware.Compress(5))

	r.Post("/api/v1/people", s.handleOnboard)
	r.Get("/api/v1/people/search", s.handleSearch)
	r.Get("/api/v1/people/{id}", s.handleGetPerson)
	r.Post("/api/v1/people/{id}/turns", s.handleTurn)
	r.Get("/api/v1/people/{id}/matches", s.handleMatches)
	r.Get("/api/v1/people/{a}/explain/{b}", s.handleExplain)
	r.Get("/api/v1/map", s.handleMap)
	r.Get("/health", s.handleHealth)
	return r
}

// Start starts the HTTP server and blocks until it stops.
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)
	s.server = &http.Server{
		Addr:    addr,
		Handler: s.Routes(),
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

// cachedMap serves the compatibility map from a short-lived cache so the
// O(n^2) scan never runs once per request.
func (s *Server) cachedMap(ctx context.Context) (*models.CompatibilityMap, error) {
	s.mapMu.Lock()
	defer s.mapMu.Unlock()
	if s.mapCached != nil && time.Since(s.mapAt) < mapCacheTTL {
		return s.mapCached, nil
	}
	m, err := s.engine.Map(ctx)
	if err != nil {
		return nil, err
	}
	s.mapCached = m
	s.mapAt = time.Now()
	return m, nil
}
