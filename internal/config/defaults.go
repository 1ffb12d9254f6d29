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
		cfg.Storage.DatabasePath = "/usr/local/var/musubi/data/db/people.db"
	}
	if cfg.Storage.DirectoryIndexPath == "" {
		cfg.Storage.DirectoryIndexPath = "/usr/local/var/musubi/data/indices/directory"
	}
	if cfg.Embedding.Provider == "" {
		cfg.Embedding.Provider = "openai"
	}
	if cfg.Embedding.Model == "" {
		cfg.Embedding.Model = "text-embedding-3-small"
	}
	if cfg.Embedding.Dimensions == 0 {
		cfg.Embedding.Dimensions = 16
	}
	if cfg.Embedding.CacheSize == 0 {
		cfg.Embedding.CacheSize = 10000
	}
	if cfg.Profile.TraitWeight == 0 {
		cfg.Profile.TraitWeight = 0.7
	}
	if cfg.Profile.SemanticWeight == 0 {
		cfg.Profile.SemanticWeight = 0.3
	}
	if cfg.Profile.SignalStep == 0 {
		cfg.Profile.SignalStep = 0.2
	}
	if cfg.Profile.SemanticBlend == 0 {
		cfg.Profile.SemanticBlend = 0.25
	}
	if cfg.Profile.TurnBlend == 0 {
		cfg.Profile.TurnBlend = 0.3
	}
	if cfg.Cluster.Epsilon == 0 {
		cfg.Cluster.Epsilon = 0.35
	}
	if cfg.Cluster.MinPts == 0 {
		cfg.Cluster.MinPts = 3
	}
	if cfg.Projection.Neighbors == 0 {
		cfg.Projection.Neighbors = 8
	}
	if cfg.Projection.MinDist == 0 {
		cfg.Projection.MinDist = 0.1
	}
	if cfg.Projection.Epochs == 0 {
		cfg.Projection.Epochs = 200
	}
	if cfg.Projection.Seed == 0 {
		cfg.Projection.Seed = 42
	}
}
