package cmd

import (
	"slices"

	"github.com/agnivade/levenshtein"
)

// suggestSymbol returns the known symbol one edit away from symbol, when
// symbol itself is unknown.
func suggestSymbol(known []string, symbol string) (string, bool) {
	if slices.Contains(known, symbol) {
		return "", false
	}
	for _, k := range known {
		if levenshtein.ComputeDistance(k, symbol) == 1 {
			return k, true
		}
	}
	return "", false
}
