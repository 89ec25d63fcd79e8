// Package config provides configuration loading and structs for the goalsmith server.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the application.
type Config struct {
	Debug     bool            `yaml:"debug"`
	Server    ServerConfig    `yaml:"server"`
	Storage   StorageConfig   `yaml:"storage"`
	Embedding EmbeddingConfig `yaml:"embedding"`
	Retrieval RetrievalConfig `yaml:"retrieval"`
	Ingest    IngestConfig    `yaml:"ingest"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// StorageConfig holds paths for the corpus database and index artifacts.
// VectorIndexPath and MetadataPath form a pair; they are written and read
// together.
type StorageConfig struct {
	DatabasePath    string `yaml:"database_path"`
	VectorIndexPath string `yaml:"vector_index_path"`
	MetadataPath    string `yaml:"metadata_path"`
}

// EmbeddingConfig holds embedding backend settings.
// Provider selects the backend: "openai" (default), "onnx", or "mock".
type EmbeddingConfig struct {
	Provider       string `yaml:"provider"`
	Model          string `yaml:"model"`
	BaseURL        string `yaml:"base_url"`
	ModelPath      string `yaml:"model_path"`
	Dimensions     int    `yaml:"dimensions"`
	MaxTokens      int    `yaml:"max_tokens"`
	BatchSize      int    `yaml:"batch_size"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
	CacheSize      int    `yaml:"cache_size"`
}

// RetrievalConfig holds chunking and retrieval settings.
type RetrievalConfig struct {
	TopK               int `yaml:"top_k"`
	MaxPerCategory     int `yaml:"max_per_category"`
	CareerEntries      int `yaml:"career_entries"`
	StandardsEntries   int `yaml:"standards_entries"`
	ExampleEntries     int `yaml:"example_entries"`
	RegulatoryFallback int `yaml:"regulatory_fallback"`
	ChunkSize          int `yaml:"chunk_size"`
	ChunkOverlap       int `yaml:"chunk_overlap"`
}

// ReferenceDir is a directory of reference documents to ingest, tagged with
// the source label its chunks should carry.
type ReferenceDir struct {
	Path   string `yaml:"path"`
	Source string `yaml:"source"`
}

// IngestConfig holds knowledge-base ingestion settings.
type IngestConfig struct {
	OccupationsDir string         `yaml:"occupations_dir"`
	ReferenceDirs  []ReferenceDir `yaml:"reference_dirs"`
	Extensions     []string       `yaml:"extensions"`
}

// Load reads and parses the config file at path, expands paths, and applies defaults.
// Returns an error if the file cannot be read or parsed.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	ApplyDefaults(&cfg)

	configDir := filepath.Dir(path)
	cfg.Storage.DatabasePath = expandPath(cfg.Storage.DatabasePath, configDir)
	cfg.Storage.VectorIndexPath = expandPath(cfg.Storage.VectorIndexPath, configDir)
	cfg.Storage.MetadataPath = expandPath(cfg.Storage.MetadataPath, configDir)
	cfg.Embedding.ModelPath = expandPath(cfg.Embedding.ModelPath, configDir)
	cfg.Ingest.OccupationsDir = expandPath(cfg.Ingest.OccupationsDir, configDir)
	for i := range cfg.Ingest.ReferenceDirs {
		cfg.Ingest.ReferenceDirs[i].Path = expandPath(cfg.Ingest.ReferenceDirs[i].Path, configDir)
	}

	return &cfg, nil
}

// expandPath converts a path to absolute. Paths starting with "./" are relative to configDir;
// other relative paths are relative to the home directory.
func expandPath(path string, configDir string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	if strings.HasPrefix(path, "./") || path == "." {
		return filepath.Join(configDir, path)
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, path)
	}
	return path
}
