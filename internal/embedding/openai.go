package embedding

import (
	"context"
	"fmt"

	openai "github.com/sashabaranov/go-openai"

	"github.com/goalsmith/goalsmith/pkg/utils"
)

// OpenAIEmbedder produces embeddings via an OpenAI-compatible embeddings API.
// Vectors are L2-normalized before being returned so inner-product search
// equals cosine similarity.
type OpenAIEmbedder struct {
	client     *openai.Client
	model      string
	dimensions int
	batchSize  int
	cache      *EmbeddingCache
}

// NewOpenAIEmbedder creates an embedder backed by the OpenAI embeddings API.
// opts.APIKey must be set (typically from OPENAI_API_KEY); opts.BaseURL may
// point at any OpenAI-compatible server.
func NewOpenAIEmbedder(opts Options) (*OpenAIEmbedder, error) {
	if opts.APIKey == "" {
		return nil, fmt.Errorf("%w: OPENAI_API_KEY not set", ErrModelUnavailable)
	}
	clientCfg := openai.DefaultConfig(opts.APIKey)
	if opts.BaseURL != "" {
		clientCfg.BaseURL = opts.BaseURL
	}
	model := opts.Model
	if model == "" {
		model = string(openai.SmallEmbedding3)
	}
	dimensions := opts.Dimensions
	if dimensions == 0 {
		dimensions = 1536
	}
	batchSize := opts.BatchSize
	if batchSize <= 0 {
		batchSize = 64
	}
	cacheSize := opts.CacheSize
	if cacheSize <= 0 {
		cacheSize = 10000
	}
	return &OpenAIEmbedder{
		client:     openai.NewClientWithConfig(clientCfg),
		model:      model,
		dimensions: dimensions,
		batchSize:  batchSize,
		cache:      NewEmbeddingCache(cacheSize),
	}, nil
}

// Embed returns the embedding for a single text.
func (e *OpenAIEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	embeddings, err := e.EmbedBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return embeddings[0], nil
}

// EmbedBatch returns embeddings for all texts, in order. Requests are issued
// in batches of at most batchSize inputs; on any failure no partial output is
// returned. Respects ctx cancellation and deadline.
func (e *OpenAIEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	embeddings := make([][]float32, len(texts))
	var misses []string
	var missIdx []int
	for i, text := range texts {
		if cached, ok := e.cache.Get(text); ok {
			embeddings[i] = cached
			continue
		}
		misses = append(misses, text)
		missIdx = append(missIdx, i)
	}
	for start := 0; start < len(misses); start += e.batchSize {
		end := start + e.batchSize
		if end > len(misses) {
			end = len(misses)
		}
		batch := misses[start:end]
		resp, err := e.client.CreateEmbeddings(ctx, openai.EmbeddingRequest{
			Model: openai.EmbeddingModel(e.model),
			Input: batch,
		})
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrModelUnavailable, err)
		}
		if len(resp.Data) != len(batch) {
			return nil, fmt.Errorf("%w: got %d embeddings for %d inputs", ErrModelUnavailable, len(resp.Data), len(batch))
		}
		for j, d := range resp.Data {
			vec := make([]float32, len(d.Embedding))
			for k, x := range d.Embedding {
				vec[k] = float32(x)
			}
			utils.NormalizeL2(vec)
			e.cache.Set(batch[j], vec)
			embeddings[missIdx[start+j]] = vec
		}
	}
	return embeddings, nil
}

// Dimensions returns the embedding dimension.
func (e *OpenAIEmbedder) Dimensions() int {
	return e.dimensions
}

// Close is a no-op for OpenAIEmbedder.
func (e *OpenAIEmbedder) Close() error {
	return nil
}
