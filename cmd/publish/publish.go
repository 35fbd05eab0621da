package publish

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/mvnpub/mvnpub/config"
	"github.com/mvnpub/mvnpub/internal/deploy"
	"github.com/mvnpub/mvnpub/internal/maven"
	"github.com/mvnpub/mvnpub/util/common/secrets"
	"github.com/mvnpub/mvnpub/util/templates"
)

// GetRootCmd returns the publish command
func GetRootCmd() *cobra.Command {
	var localConfigPath string
	var localPath string
	var localRetries int
	var localDryRun bool
	var localCacheURL string
	var localLocalRepo string
	var localSkipCache bool
	var localInclude []string
	var localExclude []string

	publishCmd := &cobra.Command{
		Use:   "publish",
		Short: "Publish every artifact set found under a path",
		Long: templates.LongDesc(`
      Finds every POM descriptor under the given path, pairs it with its
      main JAR and classifier companions, and deploys each set to the
      remote repository. Families whose main JAR is missing are skipped
      with a warning.

      The repository password is read from MAVEN_REPO_PASSWORD, or
      prompted for when running interactively. It is forwarded to the
      deploy tool through the environment and never written to disk or
      logs.`),
		Example: templates.Examples(`
      # Publish everything under the current directory
      mvnpub publish --repo-url https://repo.example.com/releases

      # Publish a build output directory using a config file, without deploying
      mvnpub publish --config publish.yaml --dry-run

      # Restrict the run to one module's descriptors
      mvnpub publish --repo-url https://repo.example.com/releases --include "**/my-lib/**"`),
		RunE: runPublish,
		PreRun: func(cmd *cobra.Command, args []string) {
			config.Global.ConfigPath = localConfigPath
			// Defaulted flags must not override config-file values, so only
			// flags the user actually set reach the globals.
			if cmd.Flags().Changed("path") {
				config.Global.Publish.Path = localPath
			}
			if cmd.Flags().Changed("retries") {
				config.Global.Publish.Retries = localRetries
			}
			config.Global.Publish.DryRun = localDryRun
			config.Global.Cache.URL = localCacheURL
			config.Global.Cache.LocalRepo = localLocalRepo
			config.Global.Cache.Skip = localSkipCache
			includePatterns = localInclude
			excludePatterns = localExclude
		},
	}

	publishCmd.Flags().StringVarP(&localConfigPath, "config", "c", "", "Path to configuration file")
	publishCmd.Flags().StringVarP(&localPath, "path", "p", ".", "Root path to search for artifact sets")
	publishCmd.Flags().IntVar(&localRetries, "retries", 3, "Deploy retry count passed to the deploy tool")
	publishCmd.Flags().BoolVar(&localDryRun, "dry-run", false, "Assemble deploy commands without executing them")
	publishCmd.Flags().StringVar(&localCacheURL, "cache-url", "", "Hosted dependency cache URL (empty disables caching)")
	publishCmd.Flags().StringVar(&localLocalRepo, "local-repo", "", "Local repository directory (defaults to ~/.m2/repository)")
	publishCmd.Flags().BoolVar(&localSkipCache, "skip-cache", false, "Skip cache restore/save")
	publishCmd.Flags().StringSliceVar(&localInclude, "include", nil, "Descriptor path patterns to include (* and ** wildcards)")
	publishCmd.Flags().StringSliceVar(&localExclude, "exclude", nil, "Descriptor path patterns to exclude (* and ** wildcards)")

	return publishCmd
}

var includePatterns, excludePatterns []string

func runPublish(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig()
	if err != nil {
		return err
	}

	creds, err := resolveCredentials(cfg)
	if err != nil {
		return err
	}
	secrets.Register(creds.Password)

	svc := deploy.NewService(cfg, creds)

	// Graceful shutdown on interrupt
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	signalChan := make(chan os.Signal, 1)
	signal.Notify(signalChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-signalChan
		fmt.Println("\nReceived interrupt signal, shutting down gracefully...")
		cancel()
	}()

	summary, err := svc.Run(ctx)
	if err != nil {
		return err
	}

	log.Info().Int("published", summary.Published).
		Int("already_present", summary.AlreadyPresent).
		Int("skipped", summary.Skipped).
		Msg("Publish run completed")
	return nil
}

// buildConfig merges the optional config file with flag and global values.
// Flags win over file values.
func buildConfig() (*deploy.Config, error) {
	cfg := &deploy.Config{}
	if config.Global.ConfigPath != "" {
		loaded, err := deploy.LoadConfig(config.Global.ConfigPath)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if config.Global.RepoURL != "" {
		cfg.Repository.URL = config.Global.RepoURL
	}
	if config.Global.Username != "" {
		cfg.Repository.Username = config.Global.Username
	}
	if config.Global.Publish.Path != "" {
		cfg.Publish.Path = config.Global.Publish.Path
	}
	if config.Global.Publish.Retries > 0 {
		cfg.Publish.Retries = config.Global.Publish.Retries
	}
	if config.Global.Publish.DryRun {
		cfg.Publish.DryRun = true
	}
	if config.Global.TempDir != "" {
		cfg.Publish.TempDir = config.Global.TempDir
	}
	if config.Global.Cache.URL != "" {
		cfg.Cache.URL = config.Global.Cache.URL
	}
	if config.Global.Cache.LocalRepo != "" {
		cfg.Cache.LocalRepo = config.Global.Cache.LocalRepo
	}
	if config.Global.Cache.Skip {
		cfg.Cache.Skip = true
	}
	if len(includePatterns) > 0 {
		cfg.Publish.Filters.Include = includePatterns
	}
	if len(excludePatterns) > 0 {
		cfg.Publish.Filters.Exclude = excludePatterns
	}

	if cfg.Publish.Path == "" {
		cfg.Publish.Path = "."
	}
	if cfg.Publish.Retries == 0 {
		cfg.Publish.Retries = 3
	}

	if cfg.Repository.URL == "" {
		return nil, fmt.Errorf("remote repository URL not set (use --repo-url or a config file)")
	}
	if cfg.Cache.URL != "" && cfg.Cache.LocalRepo == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("resolving home directory for local repository: %w", err)
		}
		cfg.Cache.LocalRepo = filepath.Join(home, ".m2", "repository")
	}
	return cfg, nil
}

// resolveCredentials picks up the credential pair from config, environment
// or an interactive prompt. The password never comes from a flag so it
// cannot leak through shell history or process listings.
func resolveCredentials(cfg *deploy.Config) (deploy.Credentials, error) {
	username := cfg.Repository.Username
	if username == "" {
		username = os.Getenv(maven.EnvUsername)
	}
	if username == "" {
		return deploy.Credentials{}, fmt.Errorf("username not set (use --username or %s)", maven.EnvUsername)
	}

	password := os.Getenv(maven.EnvPassword)
	if password == "" {
		if !term.IsTerminal(int(syscall.Stdin)) {
			return deploy.Credentials{}, fmt.Errorf("password not set (%s)", maven.EnvPassword)
		}
		read, err := readPassword(fmt.Sprintf("Password for %s: ", username))
		if err != nil {
			return deploy.Credentials{}, err
		}
		password = read
	}
	if password == "" {
		return deploy.Credentials{}, fmt.Errorf("password must not be empty")
	}

	return deploy.Credentials{Username: username, Password: password}, nil
}

// readPassword reads a password from stdin without echoing it
func readPassword(prompt string) (string, error) {
	fmt.Print(prompt)
	password, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Println() // Add a newline after the password input
	if err != nil {
		return "", fmt.Errorf("error reading password: %w", err)
	}
	return strings.TrimSpace(string(password)), nil
}
