// Package storage persists the ingested corpus (documents and chunks) so the
// status surfaces and audits do not require re-ingestion.
package storage

import (
	"context"

	"github.com/goalsmith/goalsmith/internal/models"
)

// Storage is the corpus-of-record persistence. The corpus is replaced as a
// unit on each rebuild; there are no incremental updates.
type Storage interface {
	ReplaceCorpus(ctx context.Context, docs []models.Document, chunks []models.Chunk) error
	ListDocuments(ctx context.Context, offset, limit int) ([]models.Document, error)
	CountDocuments(ctx context.Context) (int64, error)
	CountChunks(ctx context.Context) (int64, error)
	CountChunksBySource(ctx context.Context) (map[string]int64, error)
	Close() error
}
