package config

// GlobalFlags contains common flags used across commands
type GlobalFlags struct {
	// Remote repository connection
	RepoURL  string
	Username string

	// General behavior
	ConfigPath string
	TempDir    string
	Debug      bool

	// Command-specific configurations
	Publish PublishConfig
	Cache   CacheConfig
}

// PublishConfig holds publish command specific configurations
type PublishConfig struct {
	Path    string
	Retries int
	DryRun  bool
}

// CacheConfig holds hosted dependency cache configurations
type CacheConfig struct {
	URL       string
	LocalRepo string
	Skip      bool
}

// Global is the shared instance of GlobalFlags
var Global = GlobalFlags{}
