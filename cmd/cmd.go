package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/mvnpub/mvnpub/cmd/exists"
	"github.com/mvnpub/mvnpub/cmd/publish"
	"github.com/mvnpub/mvnpub/config"
	"github.com/mvnpub/mvnpub/util/common/secrets"
	"github.com/mvnpub/mvnpub/util/templates"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "mvnpub",
		Short: "Publish locally-built Maven artifacts to a remote repository",
		Long: templates.LongDesc(`
      mvnpub discovers Maven artifact sets (POM, JAR and classifier
      companions) on local disk and publishes each one to a remote
      repository through the Maven deploy tool, restoring and saving a
      hosted dependency cache around the run.`),
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if config.Global.Debug {
				zerolog.SetGlobalLevel(zerolog.DebugLevel)
			}
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVar(&config.Global.RepoURL, "repo-url", "",
		"Remote repository URL")
	rootCmd.PersistentFlags().StringVar(&config.Global.Username, "username", "",
		"Remote repository username (or MAVEN_REPO_USERNAME)")
	rootCmd.PersistentFlags().StringVar(&config.Global.TempDir, "temp-dir", "",
		"Directory for the generated settings file (defaults to the platform temp dir)")
	rootCmd.PersistentFlags().BoolVar(&config.Global.Debug, "debug", false,
		"Print debug level logs")

	rootCmd.AddCommand(publish.GetRootCmd())
	rootCmd.AddCommand(exists.GetRootCmd())

	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	// Every log line passes through the redaction registry so registered
	// credentials can never reach the terminal.
	log.Logger = log.Output(secrets.NewWriter(
		zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}))

	if err := rootCmd.Execute(); err != nil {
		printError(os.Stdout, err)
		os.Exit(1)
	}
}

// printError writes a command error to w. Errors can quote deploy tool
// output, so they pass through the same redaction as log lines.
func printError(w io.Writer, err error) {
	fmt.Fprintln(w, secrets.Redact(err.Error()))
}
