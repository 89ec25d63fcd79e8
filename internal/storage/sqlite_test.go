package storage

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/goalsmith/goalsmith/internal/models"
)

func newTestStorage(t *testing.T) *SQLiteStorage {
	t.Helper()
	s, err := NewSQLiteStorage(filepath.Join(t.TempDir(), "corpus.db"))
	if err != nil {
		t.Fatalf("NewSQLiteStorage failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func testCorpus() ([]models.Document, []models.Chunk) {
	docs := []models.Document{
		{Text: "Occupation: Carpenter\nSummary: builds frameworks", Source: models.SourceOccupations,
			Metadata: map[string]string{"occupation": "Carpenter"}},
		{Text: "IDEA 2004 Transition Requirement: measurable goals", Source: models.SourceRegulations},
	}
	chunks := []models.Chunk{
		{ID: "c1", Text: "Occupation: Carpenter\nSummary: builds frameworks", Source: models.SourceOccupations,
			Metadata: map[string]string{"occupation": "Carpenter"}},
		{ID: "c2", Text: "IDEA 2004 Transition Requirement: measurable goals", Source: models.SourceRegulations},
		{ID: "c3", Text: "Iowa 21st Century Skills - Communication Skills: listen", Source: models.SourceStandards},
	}
	return docs, chunks
}

func TestReplaceCorpusAndCounts(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()
	docs, chunks := testCorpus()

	if err := s.ReplaceCorpus(ctx, docs, chunks); err != nil {
		t.Fatalf("ReplaceCorpus failed: %v", err)
	}
	docCount, err := s.CountDocuments(ctx)
	if err != nil {
		t.Fatalf("CountDocuments failed: %v", err)
	}
	if docCount != 2 {
		t.Errorf("document count = %d, want 2", docCount)
	}
	chunkCount, err := s.CountChunks(ctx)
	if err != nil {
		t.Fatalf("CountChunks failed: %v", err)
	}
	if chunkCount != 3 {
		t.Errorf("chunk count = %d, want 3", chunkCount)
	}

	bySource, err := s.CountChunksBySource(ctx)
	if err != nil {
		t.Fatalf("CountChunksBySource failed: %v", err)
	}
	if bySource[models.SourceOccupations] != 1 || bySource[models.SourceRegulations] != 1 || bySource[models.SourceStandards] != 1 {
		t.Errorf("counts by source = %v", bySource)
	}
}

func TestReplaceCorpusReplaces(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()
	docs, chunks := testCorpus()

	if err := s.ReplaceCorpus(ctx, docs, chunks); err != nil {
		t.Fatalf("first ReplaceCorpus failed: %v", err)
	}
	newChunks := []models.Chunk{{ID: "n1", Text: "only chunk", Source: models.SourceExamples}}
	if err := s.ReplaceCorpus(ctx, docs[:1], newChunks); err != nil {
		t.Fatalf("second ReplaceCorpus failed: %v", err)
	}

	docCount, _ := s.CountDocuments(ctx)
	chunkCount, _ := s.CountChunks(ctx)
	if docCount != 1 || chunkCount != 1 {
		t.Errorf("counts after replace = %d docs, %d chunks, want 1 and 1", docCount, chunkCount)
	}
}

func TestListDocuments(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()
	docs, chunks := testCorpus()
	if err := s.ReplaceCorpus(ctx, docs, chunks); err != nil {
		t.Fatalf("ReplaceCorpus failed: %v", err)
	}

	got, err := s.ListDocuments(ctx, 0, 10)
	if err != nil {
		t.Fatalf("ListDocuments failed: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("listed %d documents, want 2", len(got))
	}
	if got[0].Text != docs[0].Text || got[0].Source != docs[0].Source {
		t.Errorf("first document = %+v", got[0])
	}
	if got[0].Metadata["occupation"] != "Carpenter" {
		t.Errorf("metadata not round-tripped: %v", got[0].Metadata)
	}

	page, err := s.ListDocuments(ctx, 1, 1)
	if err != nil {
		t.Fatalf("ListDocuments with offset failed: %v", err)
	}
	if len(page) != 1 || page[0].Source != models.SourceRegulations {
		t.Errorf("paged result = %+v", page)
	}
}

func TestEmptyDatabaseCounts(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	n, err := s.CountDocuments(ctx)
	if err != nil || n != 0 {
		t.Errorf("CountDocuments on empty db = %d, %v", n, err)
	}
	bySource, err := s.CountChunksBySource(ctx)
	if err != nil {
		t.Fatalf("CountChunksBySource failed: %v", err)
	}
	if len(bySource) != 0 {
		t.Errorf("expected empty source counts, got %v", bySource)
	}
}
