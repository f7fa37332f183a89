package domain

import (
	"fmt"
	"strings"
)

// SearchMode selects how a query is matched against file names.
type SearchMode string

const (
	SearchFullText SearchMode = "fulltext"
	SearchRegex    SearchMode = "regex"
)

// ParseSearchMode maps user input to a SearchMode. Empty input means full-text.
func ParseSearchMode(s string) (SearchMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "fulltext", "full_text", "fts":
		return SearchFullText, nil
	case "regex", "regexp":
		return SearchRegex, nil
	default:
		return "", fmt.Errorf("unknown search mode %q", s)
	}
}

func (m SearchMode) String() string {
	return string(m)
}
