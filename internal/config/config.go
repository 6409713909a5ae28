package config

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
)

type ServerConfig struct {
	Port string `toml:"port"`
}

type MemgraphConfig struct {
	URI      string `toml:"uri"`
	User     string `toml:"user"`
	Password string `toml:"password"`
}

type DuplicatesConfig struct {
	MaxCandidates int `toml:"max_candidates"`
}

type VisualIDConfig struct {
	CacheTTLSeconds int `toml:"cache_ttl_seconds"`
}

type Config struct {
	Server     ServerConfig     `toml:"server"`
	Memgraph   MemgraphConfig   `toml:"memgraph"`
	Duplicates DuplicatesConfig `toml:"duplicates"`
	VisualID   VisualIDConfig   `toml:"visual_id"`
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file '%s': %w", path, err)
	}

	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse TOML: %w", err)
	}

	return &cfg, nil
}

// Default is the fallback when no config file is present.
func Default() *Config {
	return &Config{
		Server:     ServerConfig{Port: "8080"},
		Memgraph:   MemgraphConfig{URI: "bolt://localhost:7687"},
		Duplicates: DuplicatesConfig{MaxCandidates: 10},
		VisualID:   VisualIDConfig{CacheTTLSeconds: 5},
	}
}
