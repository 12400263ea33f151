package entities

import "strings"

// NormalizeName returns the lookup key used to join recipe ingredient lines
// against stock records and catalog products: lowercase, surrounding
// whitespace removed. No plural or accent folding is applied.
func NormalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
