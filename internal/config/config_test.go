package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
server:
  host: "127.0.0.1"
  port: 9000
storage:
  database_path: "./test.db"
`
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Server.Host != "127.0.0.1" || cfg.Server.Port != 9000 {
		t.Errorf("unexpected server config: %+v", cfg.Server)
	}
	if cfg.Storage.DatabasePath != filepath.Join(dir, "test.db") {
		t.Errorf("database_path not expanded: %s", cfg.Storage.DatabasePath)
	}
	if cfg.Debug {
		t.Error("debug should default to false when unset")
	}
}

func TestApplyDefaults(t *testing.T) {
	var cfg Config
	ApplyDefaults(&cfg)
	if cfg.Profile.TraitWeight != 0.7 || cfg.Profile.SemanticWeight != 0.3 {
		t.Errorf("fusion weight defaults: %+v", cfg.Profile)
	}
	if cfg.Profile.SemanticBlend != 0.25 || cfg.Profile.TurnBlend != 0.3 || cfg.Profile.SignalStep != 0.2 {
		t.Errorf("blend defaults: %+v", cfg.Profile)
	}
	if cfg.Embedding.Dimensions != 16 {
		t.Errorf("embedding dimensions default = %d", cfg.Embedding.Dimensions)
	}
	if cfg.Cluster.MinPts != 3 || cfg.Cluster.Epsilon != 0.35 {
		t.Errorf("cluster defaults: %+v", cfg.Cluster)
	}
	if cfg.Projection.Neighbors != 8 || cfg.Projection.Epochs != 200 {
		t.Errorf("projection defaults: %+v", cfg.Projection)
	}
}

func TestLoad_overriddenWeights(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
profile:
  trait_weight: 0.5
  semantic_weight: 0.5
`
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Profile.TraitWeight != 0.5 || cfg.Profile.SemanticWeight != 0.5 {
		t.Errorf("weights not overridden: %+v", cfg.Profile)
	}
}

func TestValidate_rejectsStarvedWeights(t *testing.T) {
	var cfg Config
	ApplyDefaults(&cfg)
	cfg.Profile.SemanticWeight = -0.1
	if err := Validate(&cfg); err == nil {
		t.Error("negative semantic weight should be rejected")
	}
}

func TestValidate_rejectsBadBlend(t *testing.T) {
	var cfg Config
	ApplyDefaults(&cfg)
	cfg.Profile.SemanticBlend = 1.5
	if err := Validate(&cfg); err == nil {
		t.Error("semantic_blend > 1 should be rejected")
	}
}

func TestValidate_rejectsBadProjectionParams(t *testing.T) {
	for name, mutate := range map[string]func(*Config){
		"negative neighbors": func(c *Config) { c.Projection.Neighbors = -1 },
		"negative min_dist":  func(c *Config) { c.Projection.MinDist = -0.1 },
		"negative epochs":    func(c *Config) { c.Projection.Epochs = -5 },
	} {
		t.Run(name, func(t *testing.T) {
			var cfg Config
			ApplyDefaults(&cfg)
			mutate(&cfg)
			if err := Validate(&cfg); err == nil {
				t.Errorf("%s should be rejected", name)
			}
		})
	}
}

func TestLoad_rejectsNegativeProjectionNeighbors(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := "projection:\n  neighbors: -1\n"
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("negative projection neighbors should fail to load")
	}
}
