// Package indexer orchestrates a full index build: ingest the knowledge
// base, chunk it, embed it, and persist the artifacts.
package indexer

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/goalsmith/goalsmith/internal/chunker"
	"github.com/goalsmith/goalsmith/internal/config"
	"github.com/goalsmith/goalsmith/internal/embedding"
	"github.com/goalsmith/goalsmith/internal/index"
	"github.com/goalsmith/goalsmith/internal/kb"
	"github.com/goalsmith/goalsmith/internal/storage"
)

// Builder builds a fresh index from the knowledge base. Builds never mutate a
// live index; callers swap in the returned index once the build succeeds.
type Builder struct {
	embedder embedding.Embedder
	chunker  *chunker.Chunker
	storage  storage.Storage
	cfg      *config.Config
	logger   *zap.Logger // optional; when set, logs build progress
}

// BuilderOption configures a Builder.
type BuilderOption func(*Builder)

// WithLogger sets a logger for build progress output.
func WithLogger(l *zap.Logger) BuilderOption {
	return func(b *Builder) { b.logger = l }
}

// NewBuilder creates a builder. store may be nil; when set, each successful
// build replaces the stored corpus.
func NewBuilder(embedder embedding.Embedder, store storage.Storage, cfg *config.Config, opts ...BuilderOption) *Builder {
	b := &Builder{
		embedder: embedder,
		chunker:  chunker.NewChunker(cfg.Retrieval.ChunkSize, cfg.Retrieval.ChunkOverlap),
		storage:  store,
		cfg:      cfg,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Build ingests all sources, chunks them, and builds a new index.
// The embedding phase runs under the configured timeout.
func (b *Builder) Build(ctx context.Context) (*index.Index, error) {
	docs, err := kb.BuildKnowledgeBase(&b.cfg.Ingest, b.logger)
	if err != nil {
		return nil, fmt.Errorf("build knowledge base: %w", err)
	}
	chunks := b.chunker.ChunkDocuments(docs)
	if b.logger != nil {
		b.logger.Info("corpus chunked", zap.Int("documents", len(docs)), zap.Int("chunks", len(chunks)))
	}

	buildCtx := ctx
	if b.cfg.Embedding.TimeoutSeconds > 0 {
		var cancel context.CancelFunc
		buildCtx, cancel = context.WithTimeout(ctx, time.Duration(b.cfg.Embedding.TimeoutSeconds)*time.Second)
		defer cancel()
	}
	idx := index.New(b.embedder)
	if err := idx.Build(buildCtx, chunks); err != nil {
		return nil, err
	}

	if b.storage != nil {
		if err := b.storage.ReplaceCorpus(ctx, docs, chunks); err != nil {
			return nil, fmt.Errorf("store corpus: %w", err)
		}
	}
	return idx, nil
}

// BuildAndSave builds a new index and persists the artifact pair.
func (b *Builder) BuildAndSave(ctx context.Context) (*index.Index, error) {
	idx, err := b.Build(ctx)
	if err != nil {
		return nil, err
	}
	if err := idx.Save(b.cfg.Storage.VectorIndexPath, b.cfg.Storage.MetadataPath); err != nil {
		return nil, fmt.Errorf("save index: %w", err)
	}
	if b.logger != nil {
		b.logger.Info("index saved",
			zap.Int("size", idx.Size()),
			zap.String("vector_path", b.cfg.Storage.VectorIndexPath),
			zap.String("metadata_path", b.cfg.Storage.MetadataPath),
		)
	}
	return idx, nil
}
