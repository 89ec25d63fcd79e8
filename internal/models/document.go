// Package models defines core data structures for documents, chunks, and retrieval results.
package models

// Source labels identifying which collection a document came from.
// Retrieval partitions results by these labels.
const (
	// SourceOccupations marks occupational outlook data (BLS OOH sections).
	SourceOccupations = "BLS_OOH"
	// SourceStandards marks Iowa 21st Century Skills standard statements.
	SourceStandards = "Iowa_Standards"
	// SourceRegulations marks IDEA 2004 transition-planning requirements.
	SourceRegulations = "IDEA_2004"
	// SourceExamples marks sample IEP transition goals.
	SourceExamples = "IEP_Examples"
)

// Document is a single ingested source text with its origin label and
// pass-through metadata. Immutable after creation.
type Document struct {
	Text     string            `json:"text"`
	Source   string            `json:"source"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

// Chunk is a bounded slice of a document's text, carrying the parent
// document's source label and metadata. Chunks are the retrieval unit.
type Chunk struct {
	ID       string            `json:"id"`
	Text     string            `json:"chunk_text"`
	Source   string            `json:"source"`
	Metadata map[string]string `json:"metadata,omitempty"`
}
