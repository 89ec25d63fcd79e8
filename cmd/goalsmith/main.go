// Package main is the goalsmith CLI entry point.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/goalsmith/goalsmith/internal/config"
	"github.com/goalsmith/goalsmith/internal/embedding"
	"github.com/goalsmith/goalsmith/internal/index"
	"github.com/goalsmith/goalsmith/internal/indexer"
	"github.com/goalsmith/goalsmith/internal/models"
	"github.com/goalsmith/goalsmith/internal/retrieval"
	"github.com/goalsmith/goalsmith/internal/server"
	"github.com/goalsmith/goalsmith/internal/storage"
	"github.com/goalsmith/goalsmith/internal/watcher"
	"github.com/goalsmith/goalsmith/pkg/utils"
)

var version = "dev"

const defaultConfigPath = "/usr/local/etc/goalsmith/config.yaml"

// loadConfig loads config from path. When path is the default, it first looks
// for config.yaml in the current directory (for development); if that exists
// it is used. Returns the config and the path that was actually loaded.
func loadConfig(path string) (*config.Config, string, error) {
	if path == defaultConfigPath {
		if cwd, cwdErr := os.Getwd(); cwdErr == nil {
			fallback := filepath.Join(cwd, "config.yaml")
			if _, statErr := os.Stat(fallback); statErr == nil {
				cfg, loadErr := config.Load(fallback)
				if loadErr != nil {
					return nil, "", loadErr
				}
				return cfg, fallback, nil
			}
		}
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, "", err
	}
	return cfg, path, nil
}

func newEmbedder(cfg *config.Config) (embedding.Embedder, error) {
	return embedding.NewEmbedder(embedding.Options{
		Provider:   cfg.Embedding.Provider,
		Model:      cfg.Embedding.Model,
		BaseURL:    cfg.Embedding.BaseURL,
		APIKey:     os.Getenv("OPENAI_API_KEY"),
		ModelPath:  cfg.Embedding.ModelPath,
		Dimensions: cfg.Embedding.Dimensions,
		MaxTokens:  cfg.Embedding.MaxTokens,
		BatchSize:  cfg.Embedding.BatchSize,
		CacheSize:  cfg.Embedding.CacheSize,
	})
}

func main() {
	// Local development convenience; a missing .env is fine.
	_ = godotenv.Load()

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}
	command := os.Args[1]
	switch command {
	case "server":
		runServer()
	case "build":
		runBuild()
	case "retrieve":
		runRetrieve()
	case "status":
		runStatus()
	case "version", "--version", "-v":
		fmt.Printf("goalsmith version %s\n", version)
	case "help", "--help", "-h":
		printUsage()
	default:
		fmt.Printf("Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

func runServer() {
	fs := flag.NewFlagSet("server", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	debug := fs.Bool("debug", false, "enable debug logging")
	_ = fs.Parse(os.Args[2:])

	cfg, resolvedConfigPath, err := loadConfig(*configPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}
	cfg.Debug = cfg.Debug || *debug
	logger, err := utils.NewLogger(cfg.Debug)
	if err != nil {
		fmt.Printf("Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("config loaded",
		zap.String("config_path", resolvedConfigPath),
		zap.Bool("debug", cfg.Debug),
	)

	embedder, err := newEmbedder(cfg)
	if err != nil {
		logger.Fatal("Failed to create embedder", zap.Error(err))
	}
	defer embedder.Close()

	store, err := storage.NewSQLiteStorage(cfg.Storage.DatabasePath)
	if err != nil {
		logger.Fatal("Failed to open corpus store", zap.Error(err))
	}
	defer store.Close()

	builderOpts := []indexer.BuilderOption{}
	if cfg.Debug {
		builderOpts = append(builderOpts, indexer.WithLogger(logger))
	}
	builder := indexer.NewBuilder(embedder, store, cfg, builderOpts...)

	// Load existing artifacts if present; the server starts not-ready
	// otherwise and a rebuild brings it up.
	var idx *index.Index
	loaded := index.New(embedder)
	if err := loaded.Load(cfg.Storage.VectorIndexPath, cfg.Storage.MetadataPath); err != nil {
		logger.Warn("index artifacts not loaded; retrieval unavailable until rebuild", zap.Error(err))
	} else {
		idx = loaded
		logger.Info("index loaded", zap.Int("size", loaded.Size()), zap.Int("dimensions", loaded.Dimensions()))
	}

	srv := server.NewServer(builder, store, idx, cfg, logger)

	watchDirs := []string{cfg.Ingest.OccupationsDir}
	for _, rd := range cfg.Ingest.ReferenceDirs {
		watchDirs = append(watchDirs, rd.Path)
	}
	watchOpts := []watcher.WatcherOption{}
	if cfg.Debug {
		watchOpts = append(watchOpts, watcher.WithLogger(logger))
	}
	watchSvc := watcher.NewWatcher(watchDirs, 2*time.Second, func() {
		if err := srv.Rebuild(context.Background()); err != nil {
			logger.Warn("watch rebuild failed", zap.Error(err))
		}
	}, watchOpts...)
	watchCtx, watchCancel := context.WithCancel(context.Background())
	defer watchCancel()
	if err := watchSvc.Start(watchCtx); err != nil {
		logger.Fatal("Failed to start watcher", zap.Error(err))
	}

	go func() {
		if err := srv.Start(); err != nil {
			logger.Fatal("Server failed", zap.Error(err))
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	logger.Info("Shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Stop(shutdownCtx); err != nil {
		logger.Warn("Shutdown error", zap.Error(err))
	}
}

func runBuild() {
	fs := flag.NewFlagSet("build", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	debug := fs.Bool("debug", false, "enable debug logging")
	_ = fs.Parse(os.Args[2:])

	cfg, _, err := loadConfig(*configPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}
	cfg.Debug = cfg.Debug || *debug
	logger, err := utils.NewLogger(cfg.Debug)
	if err != nil {
		fmt.Printf("Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	embedder, err := newEmbedder(cfg)
	if err != nil {
		logger.Fatal("Failed to create embedder", zap.Error(err))
	}
	defer embedder.Close()

	store, err := storage.NewSQLiteStorage(cfg.Storage.DatabasePath)
	if err != nil {
		logger.Fatal("Failed to open corpus store", zap.Error(err))
	}
	defer store.Close()

	builder := indexer.NewBuilder(embedder, store, cfg, indexer.WithLogger(logger))
	idx, err := builder.BuildAndSave(context.Background())
	if err != nil {
		logger.Fatal("Build failed", zap.Error(err))
	}
	fmt.Printf("Indexed %d chunks (%d dimensions)\n", idx.Size(), idx.Dimensions())
	fmt.Printf("Vector artifact:   %s\n", cfg.Storage.VectorIndexPath)
	fmt.Printf("Metadata artifact: %s\n", cfg.Storage.MetadataPath)
}

func runRetrieve() {
	fs := flag.NewFlagSet("retrieve", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	name := fs.String("name", "", "student name (required)")
	interests := fs.String("interests", "", "student interests (required)")
	age := fs.String("age", "", "student age")
	grade := fs.String("grade", "", "student grade")
	assessment := fs.String("assessment", "", "transition assessment summary")
	notes := fs.String("notes", "", "additional notes")
	_ = fs.Parse(os.Args[2:])

	cfg, _, err := loadConfig(*configPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	profile := models.StudentProfile{
		Name:       *name,
		Age:        *age,
		Grade:      *grade,
		Interests:  *interests,
		Assessment: *assessment,
		Notes:      *notes,
	}
	if err := profile.Validate(); err != nil {
		fmt.Printf("Invalid profile: %v\n", err)
		fs.Usage()
		os.Exit(1)
	}

	embedder, err := newEmbedder(cfg)
	if err != nil {
		fmt.Printf("Failed to create embedder: %v\n", err)
		os.Exit(1)
	}
	defer embedder.Close()

	idx := index.New(embedder)
	if err := idx.Load(cfg.Storage.VectorIndexPath, cfg.Storage.MetadataPath); err != nil {
		fmt.Printf("Failed to load index (run 'goalsmith build' first): %v\n", err)
		os.Exit(1)
	}

	retriever := retrieval.NewRetriever(idx, retrieval.Options{
		TopK:               cfg.Retrieval.TopK,
		MaxPerCategory:     cfg.Retrieval.MaxPerCategory,
		CareerEntries:      cfg.Retrieval.CareerEntries,
		StandardsEntries:   cfg.Retrieval.StandardsEntries,
		ExampleEntries:     cfg.Retrieval.ExampleEntries,
		RegulatoryFallback: cfg.Retrieval.RegulatoryFallback,
	})
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Embedding.TimeoutSeconds)*time.Second)
	defer cancel()
	sc, err := retriever.RetrieveForStudent(ctx, &profile)
	if err != nil {
		fmt.Printf("Retrieval failed: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(retriever.FormatContext(sc))
}

func runStatus() {
	fs := flag.NewFlagSet("status", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	_ = fs.Parse(os.Args[2:])

	cfg, resolvedConfigPath, err := loadConfig(*configPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Config: %s\n", resolvedConfigPath)

	store, err := storage.NewSQLiteStorage(cfg.Storage.DatabasePath)
	if err != nil {
		fmt.Printf("Failed to open corpus store: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	ctx := context.Background()
	docCount, err := store.CountDocuments(ctx)
	if err != nil {
		fmt.Printf("Failed to count documents: %v\n", err)
		os.Exit(1)
	}
	chunkCount, err := store.CountChunks(ctx)
	if err != nil {
		fmt.Printf("Failed to count chunks: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Documents: %d\n", docCount)
	fmt.Printf("Chunks:    %d\n", chunkCount)
	if bySource, err := store.CountChunksBySource(ctx); err == nil {
		for source, n := range bySource {
			fmt.Printf("  %-15s %d\n", source, n)
		}
	}

	idx := index.New(nil)
	if err := idx.Load(cfg.Storage.VectorIndexPath, cfg.Storage.MetadataPath); err != nil {
		fmt.Printf("Index artifacts: not loadable (%v)\n", err)
		return
	}
	fmt.Printf("Index: %d vectors, %d dimensions\n", idx.Size(), idx.Dimensions())
}

func printUsage() {
	fmt.Println(`goalsmith - retrieval service for IEP transition-goal drafting

Usage:
  goalsmith server   [-config path] [-debug]      start the HTTP API
  goalsmith build    [-config path] [-debug]      ingest sources and build the index
  goalsmith retrieve -name N -interests I [...]   print the context block for a student
  goalsmith status   [-config path]               show corpus and index status
  goalsmith version                               print version`)
}
