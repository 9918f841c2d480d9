package model

import "time"

const (
	// DefaultYear is used when no valid target year is configured
	DefaultYear = 2024

	// NoNamePlaceholder replaces an empty release name in reports
	NoNamePlaceholder = "No name provided"
)

// Release represents a release as returned by the GitHub API
type Release struct {
	CreatedAt time.Time // Release creation time
	Name      string    // Display name, may be empty
	TagName   string    // Tag identifier
	HTMLURL   string    // Web URL of the release page
	Body      string    // Markdown changelog
}

// Year returns the calendar year of the release creation time in UTC
func (r *Release) Year() int {
	return r.CreatedAt.UTC().Year()
}

// FilteredRelease is a release whose body has been reduced to the kept sections
type FilteredRelease struct {
	CreatedAt time.Time
	TagName   string
	Name      string
	HTMLURL   string
	Body      string
}
