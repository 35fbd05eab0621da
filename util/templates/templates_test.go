package templates

import (
	"strings"
	"testing"
)

func TestLongDesc(t *testing.T) {
	got := LongDesc(`
      First line.
      Second line.`)
	want := "First line.\nSecond line."
	if got != want {
		t.Errorf("LongDesc = %q, want %q", got, want)
	}
}

func TestExamplesIndentsEveryLine(t *testing.T) {
	got := Examples(`
      # comment
      mvnpub publish`)
	for _, line := range strings.Split(got, "\n") {
		if !strings.HasPrefix(line, "  ") {
			t.Errorf("line %q is not indented", line)
		}
	}
	if !strings.Contains(got, "mvnpub publish") {
		t.Errorf("Examples lost content: %q", got)
	}
}

func TestEmptyInputsPassThrough(t *testing.T) {
	if LongDesc("") != "" || Examples("") != "" {
		t.Error("empty input should stay empty")
	}
}
