// Package query implements the display-side filter and sort pipeline for the
// expense list and the settlement list. All transforms are pure: inputs are
// never mutated and identical inputs yield an identically ordered result, so
// views can re-render without jitter.
package query

import (
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Direction is the three-state sort toggle.
type Direction int

const (
	Unsorted Direction = iota
	Ascending
	Descending
)

// Next advances the toggle: none → asc → desc → none.
func (d Direction) Next() Direction {
	switch d {
	case Unsorted:
		return Ascending
	case Ascending:
		return Descending
	default:
		return Unsorted
	}
}

// ParseDirection maps a query parameter to a direction; anything
// unrecognized means unsorted.
func ParseDirection(s string) Direction {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "asc":
		return Ascending
	case "desc":
		return Descending
	default:
		return Unsorted
	}
}

func (d Direction) String() string {
	switch d {
	case Ascending:
		return "asc"
	case Descending:
		return "desc"
	default:
		return "none"
	}
}

// newCollator builds the collator used for string columns. Descriptions and
// names are Vietnamese; byte order would misplace đ, ơ, ư and friends.
func newCollator() *collate.Collator {
	return collate.New(language.Vietnamese, collate.IgnoreCase)
}

// matches reports whether the trimmed, lowercased needle occurs in any of the
// fields. An empty needle matches everything, making a blank filter a no-op.
func matches(needle string, fields ...string) bool {
	needle = strings.ToLower(strings.TrimSpace(needle))
	if needle == "" {
		return true
	}
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), needle) {
			return true
		}
	}
	return false
}
