package config

// ApplyDefaults sets default values for any zero values in cfg.
func ApplyDefaults(cfg *Config) {
	if cfg.Server.Host == "" {
		cfg.Server.Host = "localhost"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Storage.DatabasePath == "" {
		cfg.Storage.DatabasePath = "/usr/local/var/goalsmith/data/db/corpus.db"
	}
	if cfg.Storage.VectorIndexPath == "" {
		cfg.Storage.VectorIndexPath = "/usr/local/var/goalsmith/data/indices/vectors.bin"
	}
	if cfg.Storage.MetadataPath == "" {
		cfg.Storage.MetadataPath = "/usr/local/var/goalsmith/data/indices/metadata.json"
	}
	if cfg.Embedding.Provider == "" {
		cfg.Embedding.Provider = "openai"
	}
	if cfg.Embedding.Model == "" {
		cfg.Embedding.Model = "text-embedding-3-small"
	}
	if cfg.Embedding.ModelPath == "" {
		cfg.Embedding.ModelPath = "/usr/local/var/goalsmith/data/models/all-MiniLM-L6-v2.onnx"
	}
	if cfg.Embedding.Dimensions == 0 {
		switch cfg.Embedding.Provider {
		case "onnx", "mock":
			cfg.Embedding.Dimensions = 384
		default:
			cfg.Embedding.Dimensions = 1536
		}
	}
	if cfg.Embedding.MaxTokens == 0 {
		cfg.Embedding.MaxTokens = 256
	}
	if cfg.Embedding.BatchSize == 0 {
		cfg.Embedding.BatchSize = 64
	}
	if cfg.Embedding.TimeoutSeconds == 0 {
		cfg.Embedding.TimeoutSeconds = 30
	}
	if cfg.Embedding.CacheSize == 0 {
		cfg.Embedding.CacheSize = 10000
	}
	if cfg.Retrieval.TopK == 0 {
		cfg.Retrieval.TopK = 10
	}
	if cfg.Retrieval.MaxPerCategory == 0 {
		cfg.Retrieval.MaxPerCategory = 5
	}
	if cfg.Retrieval.CareerEntries == 0 {
		cfg.Retrieval.CareerEntries = 3
	}
	if cfg.Retrieval.StandardsEntries == 0 {
		cfg.Retrieval.StandardsEntries = 3
	}
	if cfg.Retrieval.ExampleEntries == 0 {
		cfg.Retrieval.ExampleEntries = 2
	}
	if cfg.Retrieval.RegulatoryFallback == 0 {
		cfg.Retrieval.RegulatoryFallback = 3
	}
	if cfg.Retrieval.ChunkSize == 0 {
		cfg.Retrieval.ChunkSize = 800
	}
	if cfg.Retrieval.ChunkOverlap == 0 {
		cfg.Retrieval.ChunkOverlap = 120
	}
	if cfg.Ingest.OccupationsDir == "" {
		cfg.Ingest.OccupationsDir = "/usr/local/var/goalsmith/data/scraped"
	}
	if cfg.Ingest.Extensions == nil {
		cfg.Ingest.Extensions = []string{".txt", ".md", ".pdf", ".docx"}
	}
}
