package secrets

import (
	"io"
	"strings"
	"sync"
)

// Mask is what a registered secret is replaced with in log output.
const Mask = "*****"

// registry holds every value that must never appear in produced output.
// Values registered here stay masked for the remainder of the process.
type registry struct {
	mu     sync.RWMutex
	values []string
}

var global = &registry{}

// Register marks a value as secret. Empty and very short values are ignored
// to avoid masking unrelated output.
func Register(value string) {
	if len(value) < 3 {
		return
	}
	global.mu.Lock()
	defer global.mu.Unlock()
	global.values = append(global.values, value)
}

// Redact replaces every registered secret in s with the mask.
func Redact(s string) string {
	global.mu.RLock()
	defer global.mu.RUnlock()
	for _, v := range global.values {
		s = strings.ReplaceAll(s, v, Mask)
	}
	return s
}

// Writer is an io.Writer that redacts registered secrets before passing
// output to the underlying writer. It is meant to sit between the logger
// and its sink so no code path can leak a credential into the log stream.
type Writer struct {
	out io.Writer
}

// NewWriter creates a redacting writer around out.
func NewWriter(out io.Writer) Writer {
	return Writer{out: out}
}

func (w Writer) Write(p []byte) (int, error) {
	if _, err := w.out.Write([]byte(Redact(string(p)))); err != nil {
		return 0, err
	}
	// Report the original length so callers do not treat redaction as a
	// short write.
	return len(p), nil
}
