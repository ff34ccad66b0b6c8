package util

import (
	"strings"

	"golang.org/x/text/cases"
)

// FoldName returns the key used for case-insensitive name lookups.
// Surrounding space is not significant.
func FoldName(s string) string {
	// cases.Caser is stateful, so each call gets its own.
	return cases.Fold().String(strings.TrimSpace(s))
}
