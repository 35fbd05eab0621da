// Package maven covers the Maven-specific collaborators of a publish run:
// POM coordinate parsing, the standard repository layout, the generated
// settings file, and the remote-existence probe.
package maven

import (
	"encoding/xml"
	"os"

	"github.com/mvnpub/mvnpub/util/common/errors"
)

// Coordinates identify one artifact version in a repository.
type Coordinates struct {
	GroupID    string
	ArtifactID string
	Version    string
}

// project mirrors the subset of a POM document needed to resolve
// coordinates. GroupID and Version may be inherited from the parent.
type project struct {
	XMLName    xml.Name `xml:"project"`
	GroupID    string   `xml:"groupId"`
	ArtifactID string   `xml:"artifactId"`
	Version    string   `xml:"version"`
	Parent     struct {
		GroupID    string `xml:"groupId"`
		ArtifactID string `xml:"artifactId"`
		Version    string `xml:"version"`
	} `xml:"parent"`
}

// ParsePOM reads the descriptor at path and resolves the artifact's
// coordinates, falling back to the parent block for inherited fields.
func ParsePOM(path string) (Coordinates, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Coordinates{}, errors.NewFileError(path, "read", err)
	}

	var p project
	if err := xml.Unmarshal(data, &p); err != nil {
		return Coordinates{}, errors.Wrap(err, "parsing "+path)
	}

	c := Coordinates{
		GroupID:    p.GroupID,
		ArtifactID: p.ArtifactID,
		Version:    p.Version,
	}
	if c.GroupID == "" {
		c.GroupID = p.Parent.GroupID
	}
	if c.Version == "" {
		c.Version = p.Parent.Version
	}

	if c.GroupID == "" || c.ArtifactID == "" || c.Version == "" {
		return Coordinates{}, errors.NewValidationError("pom",
			"descriptor is missing groupId, artifactId or version")
	}
	return c, nil
}
