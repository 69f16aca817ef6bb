package experiment

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Loader handles loading experiment configurations
type Loader struct {
	configPath string
}

// NewLoader creates a new configuration loader
func NewLoader(configPath string) *Loader {
	return &Loader{
		configPath: configPath,
	}
}

// Load loads the experiment definition from the configuration file. The
// EXPERIMENT_CONFIG environment variable overrides the configured path.
func (l *Loader) Load() (*Config, error) {
	if configPath := os.Getenv("EXPERIMENT_CONFIG"); configPath != "" {
		l.configPath = configPath
	}

	if l.configPath == "" {
		l.configPath = "experiment.yaml"
	}

	data, err := os.ReadFile(l.configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", l.configPath, err)
	}

	return LoadFromBytes(data)
}

// LoadFromBytes loads an experiment definition from byte data
func LoadFromBytes(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse YAML config: %w", err)
	}
	cfg.ApplyEnvOverrides()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
