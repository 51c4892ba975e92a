package eod

import (
	"path/filepath"
	"strings"
)

// DefaultNoiseTokens are removed from file names, in order, to get the dealer id.
var DefaultNoiseTokens = []string{"_", "4L", "4l", "trades", "Trades", "TRADES"}

// DealerID strips the directory and extension from filename and then
// removes every noise token in order. A name made only of noise keeps its
// stem; a name with no stem (".txt") keeps its base name.
func DealerID(filename string, noise []string) string {
	base := filepath.Base(strings.ReplaceAll(filename, "\\", "/"))
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	if stem == "" {
		return base
	}
	id := stem
	for _, tok := range noise {
		if tok == "" {
			continue
		}
		id = strings.ReplaceAll(id, tok, "")
	}
	if id == "" {
		return stem
	}
	return id
}
