// Package retrieval turns a student profile into a categorized evidence block
// for the generation step.
package retrieval

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/goalsmith/goalsmith/internal/models"
)

// Searcher is the index capability the retriever needs: similarity search
// plus direct access to chunks of a given source label.
type Searcher interface {
	Search(ctx context.Context, query string, k int) ([]models.RetrievalResult, error)
	ChunksBySource(source string, limit int) []models.Chunk
}

// Options holds retrieval fan-out and truncation settings.
type Options struct {
	// TopK is the per-query candidate count before category filtering.
	TopK int
	// MaxPerCategory caps each category list after dedupe.
	MaxPerCategory int
	// CareerEntries, StandardsEntries, ExampleEntries cap the formatted sections.
	CareerEntries    int
	StandardsEntries int
	ExampleEntries   int
	// RegulatoryFallback is how many regulation chunks are appended to the
	// standards list regardless of similarity.
	RegulatoryFallback int
}

// Retriever issues category-specific queries against the index and assembles
// the formatted context block.
type Retriever struct {
	searcher Searcher
	opts     Options
	logger   *zap.Logger // optional; when set, logs debug events
}

// RetrieverOption configures a Retriever.
type RetrieverOption func(*Retriever)

// WithLogger sets a logger for debug output (queries issued, list sizes).
func WithLogger(l *zap.Logger) RetrieverOption {
	return func(r *Retriever) { r.logger = l }
}

// NewRetriever creates a retriever over searcher. Zero option fields get
// the documented defaults (top_k 10, 5 per category, 3/3/2 section entries,
// 3 regulatory fallback chunks).
func NewRetriever(searcher Searcher, opts Options, ropts ...RetrieverOption) *Retriever {
	if opts.TopK <= 0 {
		opts.TopK = 10
	}
	if opts.MaxPerCategory <= 0 {
		opts.MaxPerCategory = 5
	}
	if opts.CareerEntries <= 0 {
		opts.CareerEntries = 3
	}
	if opts.StandardsEntries <= 0 {
		opts.StandardsEntries = 3
	}
	if opts.ExampleEntries <= 0 {
		opts.ExampleEntries = 2
	}
	if opts.RegulatoryFallback <= 0 {
		opts.RegulatoryFallback = 3
	}
	r := &Retriever{searcher: searcher, opts: opts}
	for _, opt := range ropts {
		opt(r)
	}
	return r
}

// Query derivation: three independent query strings from the profile
// interests, one per evidence category.

func occupationQuery(interests string) string {
	return fmt.Sprintf("duties requirements training for %s", interests)
}

func standardsQuery(interests string) string {
	return fmt.Sprintf("employability communication workplace behavior for %s", interests)
}

func examplesQuery(interests string) string {
	return fmt.Sprintf("IEP transition goal %s employment training", interests)
}

// RetrieveForStudent runs the three category queries, filters each result set
// by source, appends the regulatory fallback to the standards list, dedupes
// by exact chunk text, and truncates each list. Empty lists are valid; index
// and embedding errors propagate.
func (r *Retriever) RetrieveForStudent(ctx context.Context, profile *models.StudentProfile) (*models.StudentContext, error) {
	if err := profile.Validate(); err != nil {
		return nil, err
	}
	interests := strings.TrimSpace(profile.Interests)

	career, err := r.queryCategory(ctx, occupationQuery(interests), func(c *models.Chunk) bool {
		return c.Source == models.SourceOccupations
	})
	if err != nil {
		return nil, err
	}
	standards, err := r.queryCategory(ctx, standardsQuery(interests), func(c *models.Chunk) bool {
		return c.Source == models.SourceStandards || c.Source == models.SourceRegulations
	})
	if err != nil {
		return nil, err
	}
	examples, err := r.queryCategory(ctx, examplesQuery(interests), func(c *models.Chunk) bool {
		return c.Source == models.SourceExamples
	})
	if err != nil {
		return nil, err
	}

	// Baseline regulatory coverage: append regulation chunks from the full
	// collection in insertion order, independent of similarity ranking, so
	// the standards list never misses the mandatory IDEA requirements.
	for _, ch := range r.searcher.ChunksBySource(models.SourceRegulations, r.opts.RegulatoryFallback) {
		standards = append(standards, models.RetrievalResult{Chunk: ch})
	}

	sc := &models.StudentContext{
		Career:    truncateResults(dedupeByText(career), r.opts.MaxPerCategory),
		Standards: truncateResults(dedupeByText(standards), r.opts.MaxPerCategory),
		Examples:  truncateResults(dedupeByText(examples), r.opts.MaxPerCategory),
	}
	if r.logger != nil {
		r.logger.Debug("retrieved student context",
			zap.String("interests", interests),
			zap.Int("career", len(sc.Career)),
			zap.Int("standards", len(sc.Standards)),
			zap.Int("examples", len(sc.Examples)),
		)
	}
	return sc, nil
}

func (r *Retriever) queryCategory(ctx context.Context, query string, keep func(*models.Chunk) bool) ([]models.RetrievalResult, error) {
	results, err := r.searcher.Search(ctx, query, r.opts.TopK)
	if err != nil {
		return nil, err
	}
	var filtered []models.RetrievalResult
	for _, res := range results {
		if keep(&res.Chunk) {
			filtered = append(filtered, res)
		}
	}
	return filtered, nil
}

// dedupeByText drops results whose chunk text was already seen, preserving
// first-seen order.
func dedupeByText(results []models.RetrievalResult) []models.RetrievalResult {
	seen := make(map[string]bool, len(results))
	var out []models.RetrievalResult
	for _, res := range results {
		if seen[res.Chunk.Text] {
			continue
		}
		seen[res.Chunk.Text] = true
		out = append(out, res)
	}
	return out
}

func truncateResults(results []models.RetrievalResult, max int) []models.RetrievalResult {
	if max > 0 && len(results) > max {
		return results[:max]
	}
	return results
}
