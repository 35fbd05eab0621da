// Package common holds small helpers shared across commands.
package common

import (
	"github.com/inhies/go-bytesize"
)

// GetSize renders a byte count as a human-readable size for log output,
// e.g. 1536 -> "1.50KB".
func GetSize(sizeVal int64) string {
	return bytesize.New(float64(sizeVal)).String()
}
