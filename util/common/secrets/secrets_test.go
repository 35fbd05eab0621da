package secrets

import (
	"bytes"
	"strings"
	"testing"
)

func TestRedact(t *testing.T) {
	Register("s3cr3t-password")
	Register("")   // ignored
	Register("ab") // too short, ignored

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "secret in the middle",
			input: "deploying with s3cr3t-password now",
			want:  "deploying with ***** now",
		},
		{
			name:  "secret repeated",
			input: "s3cr3t-password s3cr3t-password",
			want:  "***** *****",
		},
		{
			name:  "no secret present",
			input: "nothing to hide",
			want:  "nothing to hide",
		},
		{
			name:  "short registered value not masked",
			input: "ab initio",
			want:  "ab initio",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Redact(tt.input); got != tt.want {
				t.Errorf("Redact(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestWriter(t *testing.T) {
	Register("tok-123456")

	var buf bytes.Buffer
	w := NewWriter(&buf)

	msg := "authenticated with tok-123456\n"
	n, err := w.Write([]byte(msg))
	if err != nil {
		t.Fatalf("Write returned error: %v", err)
	}
	if n != len(msg) {
		t.Errorf("Write returned %d, want original length %d", n, len(msg))
	}
	if strings.Contains(buf.String(), "tok-123456") {
		t.Errorf("secret leaked into output: %q", buf.String())
	}
	if !strings.Contains(buf.String(), Mask) {
		t.Errorf("mask missing from output: %q", buf.String())
	}
}
