package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadConfig(t *testing.T) {
	path := writeConfig(t, `
debug: true
server:
  host: 0.0.0.0
  port: 9090
embedding:
  provider: mock
retrieval:
  top_k: 20
  chunk_size: 400
ingest:
  occupations_dir: /data/scraped
  reference_dirs:
    - path: /data/standards
      source: Iowa_Standards
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if !cfg.Debug {
		t.Error("debug not loaded")
	}
	if cfg.Server.Host != "0.0.0.0" || cfg.Server.Port != 9090 {
		t.Errorf("server config = %+v", cfg.Server)
	}
	if cfg.Embedding.Provider != "mock" {
		t.Errorf("provider = %q", cfg.Embedding.Provider)
	}
	if cfg.Retrieval.TopK != 20 || cfg.Retrieval.ChunkSize != 400 {
		t.Errorf("retrieval config = %+v", cfg.Retrieval)
	}
	if len(cfg.Ingest.ReferenceDirs) != 1 || cfg.Ingest.ReferenceDirs[0].Source != "Iowa_Standards" {
		t.Errorf("reference dirs = %+v", cfg.Ingest.ReferenceDirs)
	}
	// Unset fields get defaults.
	if cfg.Retrieval.MaxPerCategory != 5 || cfg.Retrieval.ChunkOverlap != 120 {
		t.Errorf("retrieval defaults not applied: %+v", cfg.Retrieval)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("expected error for missing config file")
	}
}

func TestLoadMalformedYAML(t *testing.T) {
	path := writeConfig(t, "server: [not a map")
	if _, err := Load(path); err == nil {
		t.Fatal("expected error for malformed yaml")
	}
}

func TestApplyDefaults(t *testing.T) {
	var cfg Config
	ApplyDefaults(&cfg)

	if cfg.Server.Host != "localhost" || cfg.Server.Port != 8080 {
		t.Errorf("server defaults = %+v", cfg.Server)
	}
	if cfg.Embedding.Provider != "openai" || cfg.Embedding.Dimensions != 1536 {
		t.Errorf("embedding defaults = %+v", cfg.Embedding)
	}
	if cfg.Retrieval.TopK != 10 || cfg.Retrieval.MaxPerCategory != 5 {
		t.Errorf("retrieval defaults = %+v", cfg.Retrieval)
	}
	if cfg.Retrieval.CareerEntries != 3 || cfg.Retrieval.StandardsEntries != 3 || cfg.Retrieval.ExampleEntries != 2 {
		t.Errorf("section entry defaults = %+v", cfg.Retrieval)
	}
	if cfg.Retrieval.RegulatoryFallback != 3 {
		t.Errorf("regulatory fallback default = %d", cfg.Retrieval.RegulatoryFallback)
	}
	if cfg.Retrieval.ChunkSize != 800 || cfg.Retrieval.ChunkOverlap != 120 {
		t.Errorf("chunking defaults = %+v", cfg.Retrieval)
	}
	if cfg.Storage.VectorIndexPath == "" || cfg.Storage.MetadataPath == "" {
		t.Error("artifact path defaults missing")
	}
}

func TestApplyDefaultsProviderDimensions(t *testing.T) {
	cfg := Config{Embedding: EmbeddingConfig{Provider: "mock"}}
	ApplyDefaults(&cfg)
	if cfg.Embedding.Dimensions != 384 {
		t.Errorf("mock provider default dimensions = %d, want 384", cfg.Embedding.Dimensions)
	}

	cfg = Config{Embedding: EmbeddingConfig{Provider: "onnx"}}
	ApplyDefaults(&cfg)
	if cfg.Embedding.Dimensions != 384 {
		t.Errorf("onnx provider default dimensions = %d, want 384", cfg.Embedding.Dimensions)
	}
}

func TestExpandPathRelativeToConfigDir(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte("storage:\n  database_path: ./data/corpus.db\n"), 0644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	want := filepath.Join(dir, "data/corpus.db")
	if cfg.Storage.DatabasePath != want {
		t.Errorf("database path = %q, want %q", cfg.Storage.DatabasePath, want)
	}
}

func TestExpandPathAbsoluteUnchanged(t *testing.T) {
	if got := expandPath("/var/lib/corpus.db", "/etc/goalsmith"); got != "/var/lib/corpus.db" {
		t.Errorf("absolute path changed: %q", got)
	}
	if got := expandPath("", "/etc/goalsmith"); got != "" {
		t.Errorf("empty path changed: %q", got)
	}
}
