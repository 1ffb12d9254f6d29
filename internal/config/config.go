// Package config provides configuration loading and structs for the Musubi server.
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
	Debug      bool             `yaml:"debug"`
	Server     ServerConfig     `yaml:"server"`
	Storage    StorageConfig    `yaml:"storage"`
	Embedding  EmbeddingConfig  `yaml:"embedding"`
	Profile    ProfileConfig    `yaml:"profile"`
	Cluster    ClusterConfig    `yaml:"cluster"`
	Projection ProjectionConfig `yaml:"projection"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// StorageConfig holds paths for the person database, directory index,
// and the optional signal-weight table file.
type StorageConfig struct {
	DatabasePath       string `yaml:"database_path"`
	DirectoryIndexPath string `yaml:"directory_index_path"`
	SignalWeightsPath  string `yaml:"signal_weights_path"`
}

// EmbeddingConfig holds embedding provider settings.
type EmbeddingConfig struct {
	Provider   string `yaml:"provider"` // "openai" or "fallback"
	Model      string `yaml:"model"`
	APIKey     string `yaml:"api_key"` // empty = OPENAI_API_KEY env var
	Dimensions int    `yaml:"dimensions"`
	CacheSize  int    `yaml:"cache_size"`
}

// ProfileConfig holds the tunables of the trait/semantic fusion pipeline.
// The reference values are empirical; none of them is a derived truth.
type ProfileConfig struct {
	TraitWeight    float64 `yaml:"trait_weight"`    // fusion weight of the trait block
	SemanticWeight float64 `yaml:"semantic_weight"` // fusion weight of the semantic block
	SignalStep     float64 `yaml:"signal_step"`     // per-turn trait step scale
	SemanticBlend  float64 `yaml:"semantic_blend"`  // EMA factor for semantic memory
	TurnBlend      float64 `yaml:"turn_blend"`      // max fraction a turn moves the stored vector
}

// ClusterConfig holds DBSCAN parameters.
type ClusterConfig struct {
	Epsilon float64 `yaml:"epsilon"`
	MinPts  int     `yaml:"min_pts"`
}

// ProjectionConfig holds 3D layout parameters.
type ProjectionConfig struct {
	Neighbors int     `yaml:"neighbors"`
	MinDist   float64 `yaml:"min_dist"`
	Epochs    int     `yaml:"epochs"`
	Seed      int64   `yaml:"seed"`
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
	cfg.Storage.DirectoryIndexPath = expandPath(cfg.Storage.DirectoryIndexPath, configDir)
	if cfg.Storage.SignalWeightsPath != "" {
		cfg.Storage.SignalWeightsPath = expandPath(cfg.Storage.SignalWeightsPath, configDir)
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects parameter combinations the engine cannot run with.
func Validate(cfg *Config) error {
	if cfg.Profile.TraitWeight <= 0 || cfg.Profile.SemanticWeight <= 0 {
		return fmt.Errorf("profile weights must both be positive (trait=%v semantic=%v): neither sub-vector may be starved", cfg.Profile.TraitWeight, cfg.Profile.SemanticWeight)
	}
	if cfg.Profile.SemanticBlend <= 0 || cfg.Profile.SemanticBlend > 1 {
		return fmt.Errorf("semantic_blend must be in (0,1], got %v", cfg.Profile.SemanticBlend)
	}
	if cfg.Profile.TurnBlend <= 0 || cfg.Profile.TurnBlend > 1 {
		return fmt.Errorf("turn_blend must be in (0,1], got %v", cfg.Profile.TurnBlend)
	}
	if cfg.Cluster.Epsilon <= 0 || cfg.Cluster.MinPts < 1 {
		return fmt.Errorf("cluster parameters out of range (epsilon=%v min_pts=%d)", cfg.Cluster.Epsilon, cfg.Cluster.MinPts)
	}
	if cfg.Projection.Neighbors < 1 || cfg.Projection.MinDist < 0 || cfg.Projection.Epochs < 0 {
		return fmt.Errorf("projection parameters out of range (neighbors=%d min_dist=%v epochs=%d)", cfg.Projection.Neighbors, cfg.Projection.MinDist, cfg.Projection.Epochs)
	}
	return nil
}

// expandPath converts a path to absolute. Paths starting with "./" are relative to configDir;
// other relative paths are relative to the home directory.
func expandPath(path string, configDir string) string {
	if filepath.IsAbs(path) {
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
