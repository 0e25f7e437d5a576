package discord

import (
	"fmt"
	"strings"
)

// Count is one category of a summary line, e.g. 2 "movie"/"movies".
type Count struct {
	N        int
	Singular string
	Plural   string
}

func (c Count) String() string {
	if c.N == 1 {
		return fmt.Sprintf("1 %s", c.Singular)
	}
	return fmt.Sprintf("%d %s", c.N, c.Plural)
}

// JoinCounts renders the non-zero counts as "a", "a and b" or "a, b and c".
func JoinCounts(counts ...Count) string {
	parts := make([]string, 0, len(counts))
	for _, c := range counts {
		if c.N > 0 {
			parts = append(parts, c.String())
		}
	}
	return JoinPhrases(parts...)
}

func JoinPhrases(parts ...string) string {
	switch len(parts) {
	case 0:
		return ""
	case 1:
		return parts[0]
	default:
		return strings.Join(parts[:len(parts)-1], ", ") + " and " + parts[len(parts)-1]
	}
}
