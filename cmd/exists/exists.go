package exists

import (
	"fmt"
	"os"
	"strings"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/mvnpub/mvnpub/config"
	"github.com/mvnpub/mvnpub/internal/maven"
	"github.com/mvnpub/mvnpub/util/templates"
)

// GetRootCmd returns the exists command
func GetRootCmd() *cobra.Command {
	existsCmd := &cobra.Command{
		Use:   "exists <groupId:artifactId:version>",
		Short: "Check whether an artifact version is already published",
		Long: templates.LongDesc(`
      Issues a single authenticated GET against the remote repository for
      the artifact's main JAR under the standard repository layout and
      reports whether it is present. Exits non-zero when the check could
      not be performed.`),
		Args: cobra.ExactArgs(1),
		RunE: runExists,
	}
	return existsCmd
}

func runExists(cmd *cobra.Command, args []string) error {
	coords, err := parseGAV(args[0])
	if err != nil {
		return err
	}

	if config.Global.RepoURL == "" {
		return fmt.Errorf("remote repository URL not set (use --repo-url)")
	}
	username := config.Global.Username
	if username == "" {
		username = os.Getenv(maven.EnvUsername)
	}
	password := os.Getenv(maven.EnvPassword)

	probe := maven.NewProbe(config.Global.RepoURL, username, password)
	present, err := probe.Exists(cmd.Context(), coords)
	if err != nil {
		return err
	}

	if present {
		pterm.Success.Printfln("%s is present at %s", args[0], config.Global.RepoURL)
	} else {
		pterm.Warning.Printfln("%s is not present at %s", args[0], config.Global.RepoURL)
	}
	return nil
}

// parseGAV splits a groupId:artifactId:version triple.
func parseGAV(s string) (maven.Coordinates, error) {
	parts := strings.Split(s, ":")
	if len(parts) != 3 || parts[0] == "" || parts[1] == "" || parts[2] == "" {
		return maven.Coordinates{}, fmt.Errorf("invalid coordinates %q, expected groupId:artifactId:version", s)
	}
	return maven.Coordinates{GroupID: parts[0], ArtifactID: parts[1], Version: parts[2]}, nil
}
