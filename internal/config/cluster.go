package config

import (
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/banshee-data/wkm/internal/fsutil"
	"github.com/banshee-data/wkm/internal/wkm"
)

// maxFileSize bounds config files read from disk (1MB).
const maxFileSize = 1 * 1024 * 1024

// ClusterConfig holds clustering parameters loaded from a JSON file.
// Omitted fields are nil and fall back to the Get* defaults, so partial
// configs are safe. Command-line flags override set fields.
type ClusterConfig struct {
	NumClusters   *int     `json:"num_clusters,omitempty"`
	Threshold     *float64 `json:"threshold,omitempty"`
	InitMethod    *string  `json:"init_method,omitempty"` // "default", "ts" or "eq"
	MaxIterations *int     `json:"max_iterations,omitempty"`
	Whiten        *bool    `json:"whiten,omitempty"`
	Format        *string  `json:"format,omitempty"` // "text" or "json"
}

// EmptyClusterConfig returns a ClusterConfig with all fields set to nil.
func EmptyClusterConfig() *ClusterConfig {
	return &ClusterConfig{}
}

// LoadClusterConfig loads a ClusterConfig from a JSON file on fsys.
// The file must have a .json extension and be under 1MB.
func LoadClusterConfig(fsys fsutil.FileSystem, path string) (*ClusterConfig, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("config file must have .json extension, got %q", ext)
	}

	fileInfo, err := fsys.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	if fileInfo.Size() > maxFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", fileInfo.Size(), maxFileSize)
	}

	data, err := fsys.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := EmptyClusterConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate checks that the configuration values are valid. Out-of-range
// num_clusters and threshold are accepted here because the algorithm clamps
// them; only values that cannot be interpreted are rejected.
func (c *ClusterConfig) Validate() error {
	if c.InitMethod != nil {
		if _, err := wkm.ParseInitMethod(*c.InitMethod); err != nil {
			return fmt.Errorf("init_method: %w", err)
		}
	}

	if c.MaxIterations != nil && *c.MaxIterations < 1 {
		return fmt.Errorf("max_iterations must be at least 1, got %d", *c.MaxIterations)
	}

	if c.Format != nil {
		switch *c.Format {
		case "text", "json":
		default:
			return fmt.Errorf("format must be \"text\" or \"json\", got %q", *c.Format)
		}
	}

	return nil
}

// GetNumClusters returns the num_clusters value or the default.
func (c *ClusterConfig) GetNumClusters() int {
	if c.NumClusters == nil {
		return 2
	}
	return *c.NumClusters
}

// GetThreshold returns the threshold value or the default.
func (c *ClusterConfig) GetThreshold() float64 {
	if c.Threshold == nil {
		return 0
	}
	return *c.Threshold
}

// GetInitMethod returns the parsed init_method or wkm.InitDefault.
func (c *ClusterConfig) GetInitMethod() wkm.InitMethod {
	if c.InitMethod == nil {
		return wkm.InitDefault
	}
	m, err := wkm.ParseInitMethod(*c.InitMethod)
	if err != nil {
		return wkm.InitDefault // default on parse error
	}
	return m
}

// GetMaxIterations returns the max_iterations value or the default.
func (c *ClusterConfig) GetMaxIterations() int {
	if c.MaxIterations == nil {
		return wkm.DefaultMaxIterations
	}
	return *c.MaxIterations
}

// GetWhiten returns the whiten value or the default.
func (c *ClusterConfig) GetWhiten() bool {
	if c.Whiten == nil {
		return false
	}
	return *c.Whiten
}

// GetFormat returns the format value or the default.
func (c *ClusterConfig) GetFormat() string {
	if c.Format == nil {
		return "text"
	}
	return *c.Format
}
