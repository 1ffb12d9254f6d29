// Package main is the Musubi server entry point.
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

	"go.uber.org/zap"

	"github.com/hyperjump/musubi/internal/config"
	"github.com/hyperjump/musubi/internal/directory"
	"github.com/hyperjump/musubi/internal/embedding"
	"github.com/hyperjump/musubi/internal/engine"
	"github.com/hyperjump/musubi/internal/fusion"
	"github.com/hyperjump/musubi/internal/server"
	"github.com/hyperjump/musubi/internal/storage"
	"github.com/hyperjump/musubi/internal/store"
	"github.com/hyperjump/musubi/internal/traits"
	"github.com/hyperjump/musubi/internal/watcher"
	"github.com/hyperjump/musubi/pkg/utils"
)

var version = "dev"

const defaultConfigPath = "/usr/local/etc/musubi/config.yaml"

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

// newEmbedder builds the configured primary embedder.
func newEmbedder(cfg *config.EmbeddingConfig, logger *zap.Logger) (embedding.Embedder, error) {
	switch cfg.Provider {
	case "openai":
		remote, err := embedding.NewOpenAIEmbedder(cfg.APIKey, cfg.Model, cfg.Dimensions)
		if err != nil {
			return nil, err
		}
		cached, err := embedding.NewCachedEmbedder(remote, cfg.CacheSize)
		if err != nil {
			return nil, err
		}
		return cached, nil
	case "fallback":
		logger.Warn("using deterministic fallback embedder; semantic matching will be degraded")
		return embedding.NewFallbackEmbedder(cfg.Dimensions), nil
	default:
		return nil, fmt.Errorf("unknown embedding provider: %s (supported: openai, fallback)", cfg.Provider)
	}
}

func run() error {
	configPath := flag.String("config", defaultConfigPath, "path to config file")
	showVersion := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Printf("musubi %s\n", version)
		return nil
	}

	cfg, loadedPath, err := loadConfig(*configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger, err := utils.NewLogger(cfg.Debug)
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()
	logger.Info("config loaded", zap.String("path", loadedPath))

	db, err := storage.NewSQLiteStorage(cfg.Storage.DatabasePath)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer func() { _ = db.Close() }()

	dir, err := directory.NewIndex(cfg.Storage.DirectoryIndexPath)
	if err != nil {
		return fmt.Errorf("open directory index: %w", err)
	}
	defer func() { _ = dir.Close() }()

	primary, err := newEmbedder(&cfg.Embedding, logger)
	if err != nil {
		return fmt.Errorf("create embedder: %w", err)
	}
	emb := embedding.NewResilientEmbedder(primary, embedding.NewFallbackEmbedder(cfg.Embedding.Dimensions), logger)
	defer func() { _ = emb.Close() }()

	table := traits.DefaultTable()
	if cfg.Storage.SignalWeightsPath != "" {
		table, err = traits.LoadTable(cfg.Storage.SignalWeightsPath)
		if err != nil {
			return fmt.Errorf("load signal weights: %w", err)
		}
	}
	model := traits.NewModel(table, cfg.Profile.SignalStep)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if cfg.Storage.SignalWeightsPath != "" {
		w := watcher.New(cfg.Storage.SignalWeightsPath, model.SetTable, logger)
		if err := w.Start(ctx); err != nil {
			return fmt.Errorf("watch signal weights: %w", err)
		}
		defer w.Stop()
	}

	eng := engine.New(
		store.New(),
		db,
		dir,
		emb,
		model,
		fusion.NewFuser(cfg.Profile.TraitWeight, cfg.Profile.SemanticWeight),
		engine.Config{
			Profile:      cfg.Profile,
			Cluster:      cfg.Cluster,
			Projection:   cfg.Projection,
			SemanticDims: cfg.Embedding.Dimensions,
		},
		logger,
	)

	people, err := db.LoadAll(ctx)
	if err != nil {
		return fmt.Errorf("load people: %w", err)
	}
	if err := eng.Seed(people); err != nil {
		logger.Warn("some people failed to index at startup", zap.Error(err))
	}
	logger.Info("engine seeded", zap.Int("people", len(people)))

	srv := server.NewServer(eng, dir, &cfg.Server, logger)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-errCh:
		return err
	case sig := <-sigCh:
		logger.Info("shutting down", zap.String("signal", sig.String()))
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		return srv.Stop(shutdownCtx)
	}
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "musubi: %v\n", err)
		os.Exit(1)
	}
}
