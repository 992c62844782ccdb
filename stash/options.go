package stash

import "github.com/mkarman/go-stash/internal/config"

type Option func(*openConfig)

type openConfig struct {
	baseDir    string
	configFile string
}

// WithBaseDir places the whole store (index file, values directory) under
// dir instead of the default user config location.
func WithBaseDir(dir string) Option {
	return func(c *openConfig) {
		c.baseDir = dir
	}
}

// WithConfigFile loads store layout overrides from the YAML file at path.
func WithConfigFile(path string) Option {
	return func(c *openConfig) {
		c.configFile = path
	}
}

func (c *openConfig) resolve() (*config.Config, error) {
	cfg, err := config.Load(c.configFile)
	if err != nil {
		return nil, err
	}
	if c.baseDir != "" {
		cfg.BaseDir = c.baseDir
	}
	return cfg, nil
}
