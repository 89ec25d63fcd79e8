package kb

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/goalsmith/goalsmith/internal/config"
	"github.com/goalsmith/goalsmith/internal/extract"
	"github.com/goalsmith/goalsmith/internal/models"
)

func TestLoadIowaStandards(t *testing.T) {
	docs := LoadIowaStandards()
	if len(docs) != 18 {
		t.Fatalf("expected 18 standard documents, got %d", len(docs))
	}
	for _, doc := range docs {
		if doc.Source != models.SourceStandards {
			t.Errorf("standard has source %q", doc.Source)
		}
		if !strings.HasPrefix(doc.Text, "Iowa 21st Century Skills - ") {
			t.Errorf("unexpected standard text: %q", doc.Text)
		}
		if doc.Metadata["category"] == "" {
			t.Errorf("standard missing category metadata: %v", doc.Metadata)
		}
	}
	if !strings.HasPrefix(docs[0].Text, "Iowa 21st Century Skills - Employability Skills: ") {
		t.Errorf("first standard = %q", docs[0].Text)
	}
}

func TestLoadIDEARequirements(t *testing.T) {
	docs := LoadIDEARequirements()
	if len(docs) != 6 {
		t.Fatalf("expected 6 requirement documents, got %d", len(docs))
	}
	for _, doc := range docs {
		if doc.Source != models.SourceRegulations {
			t.Errorf("requirement has source %q", doc.Source)
		}
		if !strings.HasPrefix(doc.Text, "IDEA 2004 Transition Requirement: ") {
			t.Errorf("unexpected requirement text: %q", doc.Text)
		}
	}
}

func TestLoadSampleGoals(t *testing.T) {
	docs := LoadSampleGoals()
	if len(docs) != 7 {
		t.Fatalf("expected 7 sample goal documents, got %d", len(docs))
	}
	for _, doc := range docs {
		if doc.Source != models.SourceExamples {
			t.Errorf("sample goal has source %q", doc.Source)
		}
		if !strings.HasPrefix(doc.Text, "Sample ") || !strings.Contains(doc.Text, "\nContext: ") {
			t.Errorf("unexpected sample goal text: %q", doc.Text)
		}
	}
	if !strings.HasPrefix(docs[0].Text, "Sample Employment Goal: ") {
		t.Errorf("first sample goal = %q", docs[0].Text)
	}
}

func TestCategoryTitle(t *testing.T) {
	cases := map[string]string{
		"employability_skills": "Employability Skills",
		"critical_thinking":    "Critical Thinking",
		"employment_goal":      "Employment Goal",
		"plain":                "Plain",
	}
	for key, want := range cases {
		if got := categoryTitle(key); got != want {
			t.Errorf("categoryTitle(%q) = %q, want %q", key, got, want)
		}
	}
}

func TestOccupationLoader(t *testing.T) {
	dir := t.TempDir()
	write := func(name, content string) {
		t.Helper()
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
	}
	write("carpenters.json", `{
		"occupation": "Carpenters",
		"summary": "Carpenters construct and repair building frameworks.",
		"duties": "Follow blueprints and build structures.",
		"education_training": "Typically learn through apprenticeship."
	}`)
	write("welders.json", `{
		"occupation": "Welders",
		"summary": "Welders join metal parts.",
		"duties": ""
	}`)
	write("failed.json", `{"occupation": "Broken", "error": "page not found"}`)
	write("notes.txt", "not an occupation file")

	docs, err := NewOccupationLoader(dir).LoadAll()
	if err != nil {
		t.Fatalf("LoadAll failed: %v", err)
	}
	// Carpenters yields 3 sections, Welders only its summary, failed is skipped.
	if len(docs) != 4 {
		t.Fatalf("expected 4 documents, got %d", len(docs))
	}
	if docs[0].Text != "Occupation: Carpenters\nSummary: Carpenters construct and repair building frameworks." {
		t.Errorf("first document = %q", docs[0].Text)
	}
	if docs[0].Metadata["occupation"] != "Carpenters" || docs[0].Metadata["section"] != "summary" {
		t.Errorf("first document metadata = %v", docs[0].Metadata)
	}
	if !strings.HasPrefix(docs[1].Text, "Occupation: Carpenters\nDuties and Responsibilities: ") {
		t.Errorf("second document = %q", docs[1].Text)
	}
	if !strings.HasPrefix(docs[2].Text, "Occupation: Carpenters\nEducation and Training Requirements: ") {
		t.Errorf("third document = %q", docs[2].Text)
	}
	for _, doc := range docs {
		if doc.Source != models.SourceOccupations {
			t.Errorf("occupation document has source %q", doc.Source)
		}
	}
}

func TestOccupationLoaderMissingDir(t *testing.T) {
	docs, err := NewOccupationLoader(filepath.Join(t.TempDir(), "absent")).LoadAll()
	if err != nil {
		t.Fatalf("missing directory must not be an error, got %v", err)
	}
	if len(docs) != 0 {
		t.Errorf("missing directory should yield no documents, got %d", len(docs))
	}
}

func TestOccupationLoaderMalformedJSON(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "bad.json"), []byte("{broken"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := NewOccupationLoader(dir).LoadAll(); err == nil {
		t.Fatal("expected error for malformed occupation file")
	}
}

func TestLoadReferenceDocuments(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "standards.txt"), []byte("District employability standard text."), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "ignore.bin"), []byte{0x00, 0x01}, 0644); err != nil {
		t.Fatal(err)
	}

	docs, err := LoadReferenceDocuments(extract.NewExtractor(), []config.ReferenceDir{{Path: dir}}, []string{".txt"})
	if err != nil {
		t.Fatalf("LoadReferenceDocuments failed: %v", err)
	}
	if len(docs) != 1 {
		t.Fatalf("expected 1 document, got %d", len(docs))
	}
	if docs[0].Source != models.SourceStandards {
		t.Errorf("default source = %q, want %q", docs[0].Source, models.SourceStandards)
	}
	if docs[0].Text != "District employability standard text." {
		t.Errorf("document text = %q", docs[0].Text)
	}
}

func TestLoadReferenceDocumentsCustomSource(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "goal.md"), []byte("An example goal."), 0644); err != nil {
		t.Fatal(err)
	}
	docs, err := LoadReferenceDocuments(extract.NewExtractor(),
		[]config.ReferenceDir{{Path: dir, Source: models.SourceExamples}}, []string{"md"})
	if err != nil {
		t.Fatalf("LoadReferenceDocuments failed: %v", err)
	}
	if len(docs) != 1 || docs[0].Source != models.SourceExamples {
		t.Fatalf("docs = %+v", docs)
	}
}

func TestLoadReferenceDocumentsMissingDir(t *testing.T) {
	docs, err := LoadReferenceDocuments(extract.NewExtractor(),
		[]config.ReferenceDir{{Path: filepath.Join(t.TempDir(), "absent")}}, nil)
	if err != nil {
		t.Fatalf("missing directory must not be an error, got %v", err)
	}
	if len(docs) != 0 {
		t.Errorf("expected no documents, got %d", len(docs))
	}
}

func TestBuildKnowledgeBase(t *testing.T) {
	cfg := &config.IngestConfig{
		OccupationsDir: filepath.Join(t.TempDir(), "absent"),
	}
	docs, err := BuildKnowledgeBase(cfg, nil)
	if err != nil {
		t.Fatalf("BuildKnowledgeBase failed: %v", err)
	}
	// Embedded sources alone: 18 standards + 6 requirements + 7 goals.
	if len(docs) != 31 {
		t.Fatalf("expected 31 embedded documents, got %d", len(docs))
	}
	bySource := map[string]int{}
	for _, doc := range docs {
		bySource[doc.Source]++
	}
	if bySource[models.SourceStandards] != 18 || bySource[models.SourceRegulations] != 6 || bySource[models.SourceExamples] != 7 {
		t.Errorf("documents by source = %v", bySource)
	}
}
