// Package kb builds the retrieval knowledge base: occupational outlook data,
// educational standards, regulatory requirements, and example IEP goals.
package kb

import (
	"go.uber.org/zap"

	"github.com/goalsmith/goalsmith/internal/config"
	"github.com/goalsmith/goalsmith/internal/extract"
	"github.com/goalsmith/goalsmith/internal/models"
)

// BuildKnowledgeBase assembles the full document set from all sources:
// the scraped occupation cache, the embedded Iowa standards and IDEA
// requirements, the sample goals, and any configured reference directories.
func BuildKnowledgeBase(cfg *config.IngestConfig, logger *zap.Logger) ([]models.Document, error) {
	var docs []models.Document

	occs, err := NewOccupationLoader(cfg.OccupationsDir).LoadAll()
	if err != nil {
		return nil, err
	}
	docs = append(docs, occs...)

	docs = append(docs, LoadIowaStandards()...)
	docs = append(docs, LoadIDEARequirements()...)
	docs = append(docs, LoadSampleGoals()...)

	refs, err := LoadReferenceDocuments(extract.NewExtractor(), cfg.ReferenceDirs, cfg.Extensions)
	if err != nil {
		return nil, err
	}
	docs = append(docs, refs...)

	if logger != nil {
		logger.Info("knowledge base built",
			zap.Int("occupation_docs", len(occs)),
			zap.Int("reference_docs", len(refs)),
			zap.Int("total_docs", len(docs)),
		)
	}
	return docs, nil
}
