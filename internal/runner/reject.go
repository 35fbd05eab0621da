package runner

import "strings"

// The transfer layer under the deploy tool phrases an HTTP 400 rejection in
// one of these ways depending on its version.
var rejectionSignatures = []string{
	"return code is: 400",
	"status code: 400",
}

// IsDuplicateRejection reports whether the captured output carries the
// remote repository's 400-class rejection, the signature a repository that
// forbids redeploys produces for an already-published artifact. It is a pure
// predicate over the result; it does not prove the artifact exists.
func IsDuplicateRejection(res Result) bool {
	combined := strings.ToLower(res.Stdout + "\n" + res.Stderr)
	for _, sig := range rejectionSignatures {
		if strings.Contains(combined, sig) {
			return true
		}
	}
	return false
}
