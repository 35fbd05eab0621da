package cache

import (
	"archive/zip"
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
)

func zipPayload(t *testing.T, files map[string]string) []byte {
	t.Helper()
	buf := &bytes.Buffer{}
	w := zip.NewWriter(buf)
	for name, content := range files {
		entry, err := w.Create(name)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := entry.Write([]byte(content)); err != nil {
			t.Fatal(err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestKey(t *testing.T) {
	want := "maven-deps-" + runtime.GOOS
	if got := Key(); got != want {
		t.Errorf("Key = %q, want %q", got, want)
	}
}

func TestRestore(t *testing.T) {
	payload := zipPayload(t, map[string]string{
		"com/example/my-lib/1.0.0/my-lib-1.0.0.jar": "jar-bytes",
		"com/example/my-lib/1.0.0/my-lib-1.0.0.pom": "pom-bytes",
	})

	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Write(payload)
	}))
	defer srv.Close()

	localRepo := t.TempDir()
	c := NewClient(srv.URL, localRepo)
	if err := c.Restore(context.Background(), "maven-deps-linux"); err != nil {
		t.Fatalf("Restore returned error: %v", err)
	}

	if want := "/cache/maven-deps-linux"; gotPath != want {
		t.Errorf("request path = %q, want %q", gotPath, want)
	}

	data, err := os.ReadFile(filepath.Join(localRepo, "com/example/my-lib/1.0.0/my-lib-1.0.0.jar"))
	if err != nil {
		t.Fatalf("restored file missing: %v", err)
	}
	if string(data) != "jar-bytes" {
		t.Errorf("restored content = %q, want %q", data, "jar-bytes")
	}
}

func TestRestoreMissIsNotAnError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, t.TempDir())
	if err := c.Restore(context.Background(), Key()); err != nil {
		t.Errorf("cache miss should not be an error, got: %v", err)
	}
}

func TestRestoreRejectsEscapingEntries(t *testing.T) {
	payload := zipPayload(t, map[string]string{"../outside.txt": "nope"})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(payload)
	}))
	defer srv.Close()

	parent := t.TempDir()
	localRepo := filepath.Join(parent, "repo")
	if err := os.MkdirAll(localRepo, 0755); err != nil {
		t.Fatal(err)
	}

	c := NewClient(srv.URL, localRepo)
	if err := c.Restore(context.Background(), Key()); err == nil {
		t.Error("expected error for escaping archive entry")
	}
	if _, err := os.Stat(filepath.Join(parent, "outside.txt")); err == nil {
		t.Error("escaping entry was written outside the local repository")
	}
}

func TestSave(t *testing.T) {
	localRepo := t.TempDir()
	path := filepath.Join(localRepo, "com/example/a/1.0/a-1.0.jar")
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("cached"), 0644); err != nil {
		t.Fatal(err)
	}

	var gotMethod string
	var gotBody []byte
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotBody, _ = io.ReadAll(r.Body)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, localRepo)
	if err := c.Save(context.Background(), Key()); err != nil {
		t.Fatalf("Save returned error: %v", err)
	}

	if gotMethod != http.MethodPut {
		t.Errorf("method = %q, want PUT", gotMethod)
	}

	zr, err := zip.NewReader(bytes.NewReader(gotBody), int64(len(gotBody)))
	if err != nil {
		t.Fatalf("uploaded payload is not a zip: %v", err)
	}
	var names []string
	for _, f := range zr.File {
		names = append(names, f.Name)
	}
	if len(names) != 1 || !strings.HasSuffix(names[0], "a-1.0.jar") {
		t.Errorf("uploaded entries = %v, want the cached jar", names)
	}
}

func TestSaveRestoreRoundTrip(t *testing.T) {
	var stored []byte
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPut:
			stored, _ = io.ReadAll(r.Body)
		case http.MethodGet:
			w.Write(stored)
		}
	}))
	defer srv.Close()

	sourceRepo := t.TempDir()
	files := map[string]string{
		"com/example/a/1.0/a-1.0.jar": "jar-bytes",
		"com/example/a/1.0/a-1.0.pom": "pom-bytes",
	}
	for name, content := range files {
		path := filepath.Join(sourceRepo, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
	}

	if err := NewClient(srv.URL, sourceRepo).Save(context.Background(), Key()); err != nil {
		t.Fatalf("Save returned error: %v", err)
	}

	targetRepo := t.TempDir()
	if err := NewClient(srv.URL, targetRepo).Restore(context.Background(), Key()); err != nil {
		t.Fatalf("Restore of a payload Save produced returned error: %v", err)
	}

	for name, want := range files {
		data, err := os.ReadFile(filepath.Join(targetRepo, filepath.FromSlash(name)))
		if err != nil {
			t.Fatalf("restored file %s missing: %v", name, err)
		}
		if string(data) != want {
			t.Errorf("restored %s = %q, want %q", name, data, want)
		}
	}
}

func TestSaveMissingLocalRepo(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	defer srv.Close()

	c := NewClient(srv.URL, filepath.Join(t.TempDir(), "never-created"))
	if err := c.Save(context.Background(), Key()); err != nil {
		t.Errorf("missing local repository should save an empty archive, got: %v", err)
	}
}

func TestSaveServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, t.TempDir())
	if err := c.Save(context.Background(), Key()); err == nil {
		t.Error("expected error for failing cache service")
	}
}
