// Package cache talks to the hosted dependency-cache service that persists
// the deploy tool's local repository between pipeline runs. The payload is a
// zip of the local repository directory keyed by cache key.
package cache

import (
	"archive/zip"
	"bytes"
	"context"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/rs/zerolog/log"

	"github.com/mvnpub/mvnpub/util/common/errors"
)

// keyPrefix is combined with the host OS so caches built on different
// platforms never cross-pollinate.
const keyPrefix = "maven-deps"

// Key returns the cache key for this host.
func Key() string {
	return keyPrefix + "-" + runtime.GOOS
}

// Client restores and saves the local repository against the hosted cache.
type Client struct {
	http      *retryablehttp.Client
	baseURL   string
	localRepo string
}

// NewClient creates a cache client for the service at baseURL, managing the
// local repository directory localRepo.
func NewClient(baseURL, localRepo string) *Client {
	client := retryablehttp.NewClient()
	client.Logger = nil
	client.RetryMax = 2
	client.RetryWaitMin = 200 * time.Millisecond
	client.RetryWaitMax = time.Second
	return &Client{
		http:      client,
		baseURL:   strings.TrimSuffix(baseURL, "/"),
		localRepo: localRepo,
	}
}

func (c *Client) entryURL(key string) string {
	return c.baseURL + "/cache/" + key
}

// Restore pre-populates the local repository from the hosted cache. A miss
// (404) is not an error; any other failure propagates to the caller.
func (c *Client) Restore(ctx context.Context, key string) error {
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, c.entryURL(key), nil)
	if err != nil {
		return errors.NewCacheError("restore", key, err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return errors.NewCacheError("restore", key, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		log.Info().Str("key", key).Msg("Cache miss, starting with an empty local repository")
		return nil
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return errors.NewCacheError("restore", key,
			fmt.Errorf("unexpected status %d", resp.StatusCode))
	}

	n, err := c.extract(resp.Body)
	if err != nil {
		return errors.NewCacheError("restore", key, err)
	}
	log.Info().Str("key", key).Int("entries", n).Msg("Cache restored")
	return nil
}

// extract unpacks the zip payload into the local repository. The archive is
// buffered first: Save writes streamed entries whose sizes live in trailing
// data descriptors, and archive/zip needs random access to read those back.
// The payload is bounded by the local repository Save uploaded.
func (c *Client) extract(r io.Reader) (int, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return 0, fmt.Errorf("reading payload: %w", err)
	}
	zipReader, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return 0, fmt.Errorf("opening zip payload: %w", err)
	}

	entries := 0
	for _, entry := range zipReader.File {
		target, err := c.safeJoin(entry.Name)
		if err != nil {
			return entries, err
		}
		if entry.FileInfo().IsDir() {
			if err := os.MkdirAll(target, 0755); err != nil {
				return entries, err
			}
			continue
		}

		if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
			return entries, err
		}
		entryReader, err := entry.Open()
		if err != nil {
			return entries, fmt.Errorf("opening zip entry %s: %w", entry.Name, err)
		}
		out, err := os.Create(target)
		if err != nil {
			entryReader.Close()
			return entries, err
		}
		_, err = io.Copy(out, entryReader)
		entryReader.Close()
		if cerr := out.Close(); err == nil {
			err = cerr
		}
		if err != nil {
			return entries, fmt.Errorf("writing %s: %w", target, err)
		}
		entries++
	}
	return entries, nil
}

// safeJoin resolves an archive entry name under the local repository and
// rejects entries that would escape it.
func (c *Client) safeJoin(name string) (string, error) {
	target := filepath.Join(c.localRepo, filepath.FromSlash(name))
	rel, err := filepath.Rel(c.localRepo, target)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", errors.NewValidationError("entry", "archive entry escapes the local repository: "+name)
	}
	return target, nil
}

// Save uploads the current local repository content under key. It runs
// unconditionally at the end of a run, whether or not the deploy succeeded.
func (c *Client) Save(ctx context.Context, key string) error {
	payload, files, err := c.archive()
	if err != nil {
		return errors.NewCacheError("save", key, err)
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodPut, c.entryURL(key), payload)
	if err != nil {
		return errors.NewCacheError("save", key, err)
	}
	req.Header.Set("Content-Type", "application/zip")

	resp, err := c.http.Do(req)
	if err != nil {
		return errors.NewCacheError("save", key, err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return errors.NewCacheError("save", key,
			fmt.Errorf("unexpected status %d", resp.StatusCode))
	}
	log.Info().Str("key", key).Int("files", files).Msg("Cache saved")
	return nil
}

// archive zips the local repository. A missing local repository produces an
// empty archive rather than an error so first runs still save cleanly.
func (c *Client) archive() (*bytes.Buffer, int, error) {
	buf := &bytes.Buffer{}
	w := zip.NewWriter(buf)
	files := 0

	if _, err := os.Stat(c.localRepo); err == nil {
		err := filepath.WalkDir(c.localRepo, func(path string, d fs.DirEntry, err error) error {
			if err != nil || d.IsDir() {
				return err
			}
			rel, err := filepath.Rel(c.localRepo, path)
			if err != nil {
				return err
			}
			entry, err := w.Create(filepath.ToSlash(rel))
			if err != nil {
				return err
			}
			f, err := os.Open(path)
			if err != nil {
				return err
			}
			_, err = io.Copy(entry, f)
			f.Close()
			if err == nil {
				files++
			}
			return err
		})
		if err != nil {
			w.Close()
			return nil, 0, err
		}
	}

	if err := w.Close(); err != nil {
		return nil, 0, err
	}
	return buf, files, nil
}
