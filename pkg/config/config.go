// Package config loads graphd's runtime configuration from environment
// variables, with an optional YAML file providing defaults underneath them.
//
// Example Usage:
//
//	cfg := config.LoadFromEnv()
//	if err := cfg.Validate(); err != nil {
//		log.Fatalf("invalid config: %v", err)
//	}
//
//	fmt.Printf("listening on %s, storage at %s\n", cfg.Server.HTTPAddress, cfg.Server.StorageDir)
//
// Environment Variables:
//
//   - GRAPHD_HTTP_ADDRESS (default ":8080")
//   - GRAPHD_STORAGE_DIR (default "storage")
//   - GRAPHD_SHUTDOWN_TIMEOUT (default "5s")
//   - GRAPHD_BLOCK_SIZE (default 1024)
//   - GRAPHD_QUEUE_CAPACITY (default 100)
//   - GRAPHD_TRAVERSAL_THRESHOLD (default 10)
//   - GRAPHD_AUTH_USERNAME (default "admin")
//   - GRAPHD_AUTH_PASSWORD (default "admin")
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// headerSize is the fixed on-disk header size of the disk store; Validate
// rejects a BlockSize smaller than it.
const headerSize = 1024

// ServerConfig controls the HTTP API and where the disk store keeps its files.
type ServerConfig struct {
	HTTPAddress     string        `yaml:"http_address"`
	StorageDir      string        `yaml:"storage_dir"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// StorageConfig controls the block file format and write-queue behavior.
type StorageConfig struct {
	BlockSize          int `yaml:"block_size"`
	QueueCapacity      int `yaml:"queue_capacity"`
	TraversalThreshold int `yaml:"traversal_threshold"`
}

// AuthConfig holds the single hard-coded credential pair this server checks.
type AuthConfig struct {
	Username string `yaml:"username"`
	Password string `yaml:"password"`
}

// Config aggregates every configurable section of graphd.
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Storage StorageConfig `yaml:"storage"`
	Auth    AuthConfig    `yaml:"auth"`
}

// Default returns the built-in defaults, matching spec.md's recommended
// constants (1024-byte blocks, a queue capacity of 100, a threshold of 10).
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			HTTPAddress:     ":8080",
			StorageDir:      "storage",
			ShutdownTimeout: 5 * time.Second,
		},
		Storage: StorageConfig{
			BlockSize:          1024,
			QueueCapacity:      100,
			TraversalThreshold: 10,
		},
		Auth: AuthConfig{
			Username: "admin",
			Password: "admin",
		},
	}
}

// LoadFromFile reads a YAML file and overlays it onto the defaults. Missing
// files are not an error — callers typically try a file then env vars.
func LoadFromFile(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("config: reading %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parsing %s: %w", path, err)
	}

	return cfg, nil
}

// LoadFromEnv starts from the defaults (optionally seeded by a YAML file at
// GRAPHD_CONFIG_FILE) and applies environment variable overrides.
func LoadFromEnv() *Config {
	cfg := Default()
	if path := os.Getenv("GRAPHD_CONFIG_FILE"); path != "" {
		if fromFile, err := LoadFromFile(path); err == nil {
			cfg = fromFile
		}
	}

	if v := os.Getenv("GRAPHD_HTTP_ADDRESS"); v != "" {
		cfg.Server.HTTPAddress = v
	}
	if v := os.Getenv("GRAPHD_STORAGE_DIR"); v != "" {
		cfg.Server.StorageDir = v
	}
	if v := os.Getenv("GRAPHD_SHUTDOWN_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Server.ShutdownTimeout = d
		}
	}
	if v := os.Getenv("GRAPHD_BLOCK_SIZE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Storage.BlockSize = n
		}
	}
	if v := os.Getenv("GRAPHD_QUEUE_CAPACITY"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Storage.QueueCapacity = n
		}
	}
	if v := os.Getenv("GRAPHD_TRAVERSAL_THRESHOLD"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Storage.TraversalThreshold = n
		}
	}
	if v := os.Getenv("GRAPHD_AUTH_USERNAME"); v != "" {
		cfg.Auth.Username = v
	}
	if v := os.Getenv("GRAPHD_AUTH_PASSWORD"); v != "" {
		cfg.Auth.Password = v
	}

	return cfg
}

// Validate rejects configurations that would make the disk store or write
// queues misbehave.
func (c *Config) Validate() error {
	if c.Storage.BlockSize <= 0 {
		return fmt.Errorf("config: block size must be positive, got %d", c.Storage.BlockSize)
	}
	if c.Storage.BlockSize%64 != 0 {
		return fmt.Errorf("config: block size must be a multiple of 64, got %d", c.Storage.BlockSize)
	}
	if c.Storage.BlockSize < headerSize {
		return fmt.Errorf("config: block size %d is smaller than the %d-byte header", c.Storage.BlockSize, headerSize)
	}
	if c.Storage.QueueCapacity <= 0 {
		return fmt.Errorf("config: queue capacity must be positive, got %d", c.Storage.QueueCapacity)
	}
	if c.Storage.TraversalThreshold < 0 {
		return fmt.Errorf("config: traversal threshold must not be negative, got %d", c.Storage.TraversalThreshold)
	}
	if c.Server.StorageDir == "" {
		return fmt.Errorf("config: storage dir must not be empty")
	}
	return nil
}
