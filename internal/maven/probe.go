package maven

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/hashicorp/go-retryablehttp"
)

// Probe answers whether an artifact version is already present at a remote
// repository. It is read-only and side-effect free; the caller decides what
// a failed probe means.
type Probe struct {
	client   *retryablehttp.Client
	repoURL  string
	username string
	password string
}

// NewProbe creates a probe against repoURL with basic-auth credentials.
func NewProbe(repoURL, username, password string) *Probe {
	client := retryablehttp.NewClient()
	// The probe is single-shot; retry behavior belongs to the deploy tool.
	client.RetryMax = 0
	client.Logger = nil
	return &Probe{
		client:   client,
		repoURL:  strings.TrimSuffix(repoURL, "/"),
		username: username,
		password: password,
	}
}

// Exists issues one GET for the artifact's main binary under the standard
// repository layout. A 2xx response means present; 404 means absent. Any
// other outcome is returned as an error alongside false so the caller can
// treat it as "could not determine" without masking its own failure.
func (p *Probe) Exists(ctx context.Context, c Coordinates) (bool, error) {
	u := p.repoURL + "/" + ArtifactPath(c)
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return false, fmt.Errorf("building probe request: %w", err)
	}
	req.SetBasicAuth(p.username, p.password)

	resp, err := p.client.Do(req)
	if err != nil {
		return false, fmt.Errorf("probing %s: %w", u, err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return true, nil
	case resp.StatusCode == http.StatusNotFound:
		return false, nil
	default:
		return false, fmt.Errorf("probing %s: unexpected status %d", u, resp.StatusCode)
	}
}
