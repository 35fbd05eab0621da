package templates

import (
	"strings"

	"github.com/MakeNowJust/heredoc"
)

// LongDesc normalizes a command's long description: strips the leading
// indentation of the source literal and surrounding whitespace.
func LongDesc(s string) string {
	if s == "" {
		return s
	}
	return strings.TrimSpace(heredoc.Doc(s))
}

// Examples normalizes a command's example block, indenting each line the
// way cobra expects.
func Examples(s string) string {
	if s == "" {
		return s
	}
	var out []string
	for _, line := range strings.Split(strings.TrimSpace(heredoc.Doc(s)), "\n") {
		out = append(out, "  "+line)
	}
	return strings.Join(out, "\n")
}
