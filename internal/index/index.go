// Package index provides a flat in-memory vector index over document chunks,
// searched by inner product.
package index

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/goalsmith/goalsmith/internal/embedding"
	"github.com/goalsmith/goalsmith/internal/models"
)

// entry couples a vector with its chunk. Keeping them in one record makes
// the positional-alignment invariant structural: vectors and metadata cannot
// drift out of sync.
type entry struct {
	vector []float32
	chunk  models.Chunk
}

// Index is a brute-force inner-product vector index. Read-only after
// Build/Load; concurrent Search calls are safe. Rebuilds should construct a
// new Index and swap, never mutate in place.
type Index struct {
	embedder   embedding.Embedder
	dimensions int
	entries    []entry
	ready      bool
	mu         sync.RWMutex
}

// New creates an index that embeds chunk and query text with embedder.
func New(embedder embedding.Embedder) *Index {
	return &Index{embedder: embedder}
}

// Build embeds every chunk's text and stores entries in build order.
// Fails with ErrEmptyCorpus when chunks is empty; on embedding failure the
// index is left not ready.
func (ix *Index) Build(ctx context.Context, chunks []models.Chunk) error {
	if len(chunks) == 0 {
		return ErrEmptyCorpus
	}
	texts := make([]string, len(chunks))
	for i, ch := range chunks {
		texts[i] = ch.Text
	}
	vectors, err := ix.embedder.EmbedBatch(ctx, texts)
	if err != nil {
		return fmt.Errorf("embed corpus: %w", err)
	}
	entries := make([]entry, len(chunks))
	for i := range chunks {
		entries[i] = entry{vector: vectors[i], chunk: chunks[i]}
	}
	ix.mu.Lock()
	defer ix.mu.Unlock()
	ix.entries = entries
	ix.dimensions = len(vectors[0])
	ix.ready = true
	return nil
}

// Search embeds query and returns up to k results ordered by descending
// inner-product score. Ties keep insertion order. Fails with ErrIndexNotReady
// before Build/Load.
func (ix *Index) Search(ctx context.Context, query string, k int) ([]models.RetrievalResult, error) {
	if !ix.Ready() {
		return nil, ErrIndexNotReady
	}
	queryVec, err := ix.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}
	return ix.searchVector(queryVec, k)
}

func (ix *Index) searchVector(query []float32, k int) ([]models.RetrievalResult, error) {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	if !ix.ready {
		return nil, ErrIndexNotReady
	}
	if len(query) != ix.dimensions {
		return nil, fmt.Errorf("query dimension mismatch: got %d, expected %d", len(query), ix.dimensions)
	}
	if k <= 0 {
		return nil, nil
	}
	results := make([]models.RetrievalResult, len(ix.entries))
	for i, e := range ix.entries {
		var dot float64
		for j := range query {
			dot += float64(query[j] * e.vector[j])
		}
		results[i] = models.RetrievalResult{Chunk: e.chunk, Score: dot}
	}
	sort.SliceStable(results, func(i, j int) bool { return results[i].Score > results[j].Score })
	if k > len(results) {
		k = len(results)
	}
	return results[:k], nil
}

// Ready reports whether the index has been built or loaded.
func (ix *Index) Ready() bool {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	return ix.ready
}

// Size returns the number of indexed chunks.
func (ix *Index) Size() int {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	return len(ix.entries)
}

// Dimensions returns the vector dimension of the built index (0 before build).
func (ix *Index) Dimensions() int {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	return ix.dimensions
}

// ChunksBySource returns up to limit chunks with the given source label, in
// insertion order. A limit of 0 or less returns all matches.
func (ix *Index) ChunksBySource(source string, limit int) []models.Chunk {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	var out []models.Chunk
	for _, e := range ix.entries {
		if e.chunk.Source != source {
			continue
		}
		out = append(out, e.chunk)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out
}
