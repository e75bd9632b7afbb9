package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// fileConfig is the optional YAML configuration file. Flags override it.
type fileConfig struct {
	// URL of the RSpace instance.
	URL string `yaml:"url"`
	// MaxFileSizeMB is the upload admission limit in megabytes.
	MaxFileSizeMB float64 `yaml:"max_file_size_mb"`
	// SkipSuffixes lists file extensions never uploaded.
	SkipSuffixes []string `yaml:"skip_suffixes"`
	// Tags attached to created documents (the API tag is always added).
	Tags []string `yaml:"tags"`
	// FolderID is the default destination folder or notebook.
	FolderID int64 `yaml:"folder_id"`
	// Ledger is the path of the local run-history database; empty disables it.
	Ledger string `yaml:"ledger"`
}

func (c *fileConfig) defaults() {
	if c.URL == "" {
		c.URL = "https://rspace.ntnu.no/"
	}
	if c.MaxFileSizeMB <= 0 {
		c.MaxFileSizeMB = 2.0
	}
}

// loadFileConfig reads the YAML config at path. An empty path yields the
// defaults; a missing file at an explicit path is an error.
func loadFileConfig(path string) (*fileConfig, error) {
	cfg := &fileConfig{}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}
	cfg.defaults()
	return cfg, nil
}
