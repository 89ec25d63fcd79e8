// Package embedding provides text embedding backends (OpenAI API, local ONNX) and caching.
package embedding

import (
	"context"
	"errors"
	"fmt"
)

// ErrModelUnavailable indicates the embedding backend is unreachable,
// misconfigured, or timed out. The core does not retry; callers may retry
// with backoff.
var ErrModelUnavailable = errors.New("embedding model unavailable")

// Embedder produces unit-length vector embeddings for text.
// EmbedBatch must produce the same vectors as per-item Embed calls.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
	Dimensions() int
	Close() error
}

// Options configures an embedding backend created by NewEmbedder.
type Options struct {
	Provider   string // "openai" (default), "onnx", or "mock"
	Model      string
	BaseURL    string
	APIKey     string
	ModelPath  string
	Dimensions int
	MaxTokens  int
	BatchSize  int
	CacheSize  int
}

// NewEmbedder creates an embedding backend for the given provider.
// "onnx" requires building with CGO and the onnxruntime shared library.
func NewEmbedder(opts Options) (Embedder, error) {
	switch opts.Provider {
	case "openai", "":
		e, err := NewOpenAIEmbedder(opts)
		if err != nil {
			return nil, err
		}
		return e, nil
	case "onnx":
		e, err := NewONNXEmbedder(opts.ModelPath, opts.Dimensions, opts.MaxTokens, opts.CacheSize)
		if err != nil {
			return nil, err
		}
		return e, nil
	case "mock":
		return NewMockEmbedder(opts.Dimensions), nil
	default:
		return nil, fmt.Errorf("unknown embedding provider: %s (supported: openai, onnx, mock)", opts.Provider)
	}
}
