// Package server provides the HTTP API for goalsmith.
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

	"github.com/goalsmith/goalsmith/internal/config"
	"github.com/goalsmith/goalsmith/internal/index"
	"github.com/goalsmith/goalsmith/internal/indexer"
	"github.com/goalsmith/goalsmith/internal/retrieval"
	"github.com/goalsmith/goalsmith/internal/storage"
)

// Server is the HTTP server for the goalsmith API. The index is read-only
// while serving; rebuilds construct a new index and swap it in under the lock.
type Server struct {
	builder *indexer.Builder
	storage storage.Storage
	cfg     *config.Config
	logger  *zap.Logger
	server  *http.Server

	mu        sync.RWMutex
	idx       *index.Index
	retriever *retrieval.Retriever
}

// NewServer creates a server with the given dependencies. idx may be nil when
// no index artifacts exist yet; retrieval then fails with index-not-ready
// until a rebuild succeeds.
func NewServer(
	builder *indexer.Builder,
	store storage.Storage,
	idx *index.Index,
	cfg *config.Config,
	logger *zap.Logger,
) *Server {
	s := &Server{
		builder: builder,
		storage: store,
		cfg:     cfg,
		logger:  logger,
	}
	s.swapIndex(idx)
	return s
}

// swapIndex installs a new index and a retriever over it.
func (s *Server) swapIndex(idx *index.Index) {
	if idx == nil {
		idx = index.New(nil)
	}
	ropts := []retrieval.RetrieverOption{}
	if s.cfg.Debug {
		ropts = append(ropts, retrieval.WithLogger(s.logger))
	}
	retriever := retrieval.NewRetriever(idx, retrieval.Options{
		TopK:               s.cfg.Retrieval.TopK,
		MaxPerCategory:     s.cfg.Retrieval.MaxPerCategory,
		CareerEntries:      s.cfg.Retrieval.CareerEntries,
		StandardsEntries:   s.cfg.Retrieval.StandardsEntries,
		ExampleEntries:     s.cfg.Retrieval.ExampleEntries,
		RegulatoryFallback: s.cfg.Retrieval.RegulatoryFallback,
	}, ropts...)
	s.mu.Lock()
	s.idx = idx
	s.retriever = retriever
	s.mu.Unlock()
}

func (s *Server) current() (*index.Index, *retrieval.Retriever) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.idx, s.retriever
}

// Start starts the HTTP server and blocks until it stops.
func (s *Server) Start() error {
	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(middleware.Compress(5))

	r.Post("/api/v1/retrieve", s.handleRetrieve)
	r.Post("/api/v1/index/rebuild", s.handleRebuild)
	r.Get("/api/v1/status", s.handleStatus)
	r.Get("/health", s.handleHealth)

	addr := fmt.Sprintf("%s:%d", s.cfg.Server.Host, s.cfg.Server.Port)
	s.server = &http.Server{
		Addr:    addr,
		Handler: r,
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
