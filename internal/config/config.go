// Package config resolves where the store lives on disk.
//
// Defaults put everything under a "stash" directory inside the user's config
// location; the STASH_PATH environment variable or a YAML config file can
// override it, and callers (the CLI, the stash.Open options) can override
// either.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

const (
	DefaultDirName = "stash"
	IndexFileName  = "index.json"
	ValuesDirName  = "values"
	ConfigFileName = "config.yaml"
	BaseDirEnvVar  = "STASH_PATH"
	DirPerm        = 0755
)

// Config holds the resolved store layout.
type Config struct {
	BaseDir   string `yaml:"base_dir"`
	IndexFile string `yaml:"index_file"`
	ValuesDir string `yaml:"values_dir"`
}

// DefaultConfig resolves the default layout: $STASH_PATH if set, otherwise
// a "stash" directory under the user's config location.
func DefaultConfig() (*Config, error) {
	base := os.Getenv(BaseDirEnvVar)
	if base == "" {
		confDir, err := os.UserConfigDir()
		if err != nil {
			return nil, fmt.Errorf("resolving user config directory: %w", err)
		}
		base = filepath.Join(confDir, DefaultDirName)
	}

	return &Config{
		BaseDir:   base,
		IndexFile: IndexFileName,
		ValuesDir: ValuesDirName,
	}, nil
}

// Load resolves the layout, then applies overrides from a YAML config file.
// With an empty path, the conventional config.yaml inside the base directory
// is used if it exists; an explicit path must exist.
func Load(path string) (*Config, error) {
	cfg, err := DefaultConfig()
	if err != nil {
		return nil, err
	}

	explicit := path != ""
	if !explicit {
		path = filepath.Join(cfg.BaseDir, ConfigFileName)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && !explicit {
			return cfg, nil
		}
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	return cfg, nil
}

// IndexPath returns the full path of the index file.
func (c *Config) IndexPath() string {
	return filepath.Join(c.BaseDir, c.IndexFile)
}

// ValuesDirPath returns the full path of the values directory.
func (c *Config) ValuesDirPath() string {
	return filepath.Join(c.BaseDir, c.ValuesDir)
}

// EnsureDirs creates the base and values directories if they are missing.
func (c *Config) EnsureDirs() error {
	if err := os.MkdirAll(c.ValuesDirPath(), DirPerm); err != nil {
		return fmt.Errorf("creating values directory: %w", err)
	}
	return nil
}
