package deploy

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/mvnpub/mvnpub/internal/artifact"
)

// Config represents the top-level publish configuration structure
type Config struct {
	Repository RepositoryConfig `yaml:"repository"`
	Publish    PublishConfig    `yaml:"publish"`
	Cache      CacheConfig      `yaml:"cache"`
}

// RepositoryConfig defines the remote repository to publish to. The password
// is deliberately absent: it travels only through the environment.
type RepositoryConfig struct {
	URL      string `yaml:"url"`
	Username string `yaml:"username"`
}

// PublishConfig contains settings for the publish loop
type PublishConfig struct {
	Path    string          `yaml:"path"`
	Retries int             `yaml:"retries"`
	DryRun  bool            `yaml:"dryRun"`
	Filters artifact.Filter `yaml:"filters"`
	TempDir string          `yaml:"tempDir"`
}

// CacheConfig defines the hosted dependency cache to restore/save around
// the run. An empty URL disables caching.
type CacheConfig struct {
	URL       string `yaml:"url"`
	LocalRepo string `yaml:"localRepo"`
	Skip      bool   `yaml:"skip"`
}

// LoadConfig loads the configuration from a file
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	// Expand environment variables in the file
	expandedData := os.Expand(string(data), os.Getenv)

	var config Config
	if err := yaml.Unmarshal([]byte(expandedData), &config); err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}

	if err := validateConfig(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

// validateConfig performs basic validation on the configuration
func validateConfig(config *Config) error {
	if config.Repository.URL == "" {
		return fmt.Errorf("repository.url must be set")
	}
	if config.Publish.Path == "" {
		return fmt.Errorf("publish.path must be set")
	}
	if config.Publish.Retries < 0 {
		return fmt.Errorf("publish.retries must not be negative")
	}
	return nil
}
