package model

import "strings"

// DefaultHeadingPrefix marks a section heading line in a release body
const DefaultHeadingPrefix = "## "

// Category is an allow-list entry. A section heading belongs to the category when the
// heading title contains any of Match, or Name when Match is empty.
type Category struct {
	Name  string   `toml:"name" yaml:"title"`
	Match []string `toml:"match" yaml:"match"`
}

// DefaultCategories returns the categories kept when nothing is configured
func DefaultCategories() []Category {
	return []Category{
		{Name: "Customer Value"},
		{Name: "Features"},
	}
}

// Matches reports whether a heading title belongs to the category (case-insensitive)
func (c Category) Matches(title string) bool {
	title = strings.ToLower(title)

	patterns := c.Match
	if len(patterns) == 0 {
		patterns = []string{c.Name}
	}

	for _, p := range patterns {
		if p == "" {
			continue
		}
		if strings.Contains(title, strings.ToLower(p)) {
			return true
		}
	}
	return false
}
