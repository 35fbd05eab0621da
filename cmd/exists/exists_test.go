package exists

import (
	"testing"

	"github.com/mvnpub/mvnpub/internal/maven"
)

func TestParseGAV(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    maven.Coordinates
		wantErr bool
	}{
		{
			name:  "valid triple",
			input: "com.example:my-lib:1.0.0",
			want:  maven.Coordinates{GroupID: "com.example", ArtifactID: "my-lib", Version: "1.0.0"},
		},
		{
			name:    "missing version",
			input:   "com.example:my-lib",
			wantErr: true,
		},
		{
			name:    "empty segment",
			input:   "com.example::1.0.0",
			wantErr: true,
		},
		{
			name:    "too many segments",
			input:   "com.example:my-lib:jar:1.0.0",
			wantErr: true,
		},
		{
			name:    "empty string",
			input:   "",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseGAV(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error, got none")
				}
				return
			}
			if err != nil {
				t.Fatalf("parseGAV returned error: %v", err)
			}
			if got != tt.want {
				t.Errorf("parseGAV = %+v, want %+v", got, tt.want)
			}
		})
	}
}
