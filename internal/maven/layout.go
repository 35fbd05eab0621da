package maven

import (
	"fmt"
	"strings"
)

// ArtifactPath returns the repository-relative path of the main binary under
// the standard repository layout: dots in the group become path segments.
func ArtifactPath(c Coordinates) string {
	return fmt.Sprintf("%s/%s/%s/%s-%s.jar",
		strings.ReplaceAll(c.GroupID, ".", "/"),
		c.ArtifactID, c.Version, c.ArtifactID, c.Version)
}
