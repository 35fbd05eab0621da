package maven

import (
	"os"
	"path/filepath"

	"github.com/mvnpub/mvnpub/util/common/errors"
)

const (
	// RepoID is the server id referenced by both the generated settings
	// file and the deploy invocation's -DrepositoryId flag.
	RepoID = "remote-repository"

	// EnvUsername and EnvPassword are the environment variables the deploy
	// tool substitutes into the settings file at invocation time. The
	// credentials never appear literally in the file.
	EnvUsername = "MAVEN_REPO_USERNAME"
	EnvPassword = "MAVEN_REPO_PASSWORD"

	// SettingsFileName is the name of the generated settings document.
	SettingsFileName = "maven-settings.xml"
)

const settingsTemplate = `<?xml version="1.0" encoding="UTF-8"?>
<settings xmlns="http://maven.apache.org/SETTINGS/1.0.0"
          xmlns:xsi="http://www.w3.org/2001/XMLSchema-instance"
          xsi:schemaLocation="http://maven.apache.org/SETTINGS/1.0.0 http://maven.apache.org/xsd/settings-1.0.0.xsd">
  <servers>
    <server>
      <id>` + RepoID + `</id>
      <username>${env.` + EnvUsername + `}</username>
      <password>${env.` + EnvPassword + `}</password>
    </server>
  </servers>
</settings>
`

// WriteSettings writes the settings document into dir and returns its path.
// An empty dir falls back to the platform temp directory. An existing file
// is overwritten.
func WriteSettings(dir string) (string, error) {
	if dir == "" {
		dir = os.TempDir()
	}
	path := filepath.Join(dir, SettingsFileName)
	if err := os.WriteFile(path, []byte(settingsTemplate), 0600); err != nil {
		return "", errors.NewFileError(path, "write", err)
	}
	return path, nil
}
