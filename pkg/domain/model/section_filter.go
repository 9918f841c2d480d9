package model

import "strings"

// SectionFilter reduces a markdown release body to the sections whose heading matches
// one of Categories. Lines before the first heading are never kept.
type SectionFilter struct {
	Prefix     string
	Categories []Category
}

// NewSectionFilter creates a SectionFilter. An empty prefix means DefaultHeadingPrefix.
func NewSectionFilter(prefix string, categories []Category) *SectionFilter {
	if prefix == "" {
		prefix = DefaultHeadingPrefix
	}
	return &SectionFilter{
		Prefix:     prefix,
		Categories: categories,
	}
}

// Apply returns the kept lines of body joined by newlines and trimmed
func (f *SectionFilter) Apply(body string) string {
	prefix := f.Prefix
	if prefix == "" {
		prefix = DefaultHeadingPrefix
	}

	var kept []string
	keep := false

	for _, line := range strings.Split(body, "\n") {
		if strings.HasPrefix(line, prefix) {
			keep = f.isKept(strings.TrimSpace(strings.TrimPrefix(line, prefix)))
		}

		if keep {
			kept = append(kept, line)
		}
	}

	return strings.TrimSpace(strings.Join(kept, "\n"))
}

func (f *SectionFilter) isKept(title string) bool {
	for _, c := range f.Categories {
		if c.Matches(title) {
			return true
		}
	}
	return false
}
