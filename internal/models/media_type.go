package models

import "strings"

// MediaType is the kind of content a catalog item describes
type MediaType int

const (
	MediaTypeUnknown MediaType = iota
	MediaTypeMovie
	MediaTypeSeries
)

// String returns the Stremio name of the media type
func (m MediaType) String() string {
	switch m {
	case MediaTypeMovie:
		return "movie"
	case MediaTypeSeries:
		return "series"
	default:
		return "unknown"
	}
}

// TMDBPath returns the path segment TMDB uses for the media type ("movie" or "tv")
func (m MediaType) TMDBPath() string {
	switch m {
	case MediaTypeMovie:
		return "movie"
	case MediaTypeSeries:
		return "tv"
	default:
		return ""
	}
}

// ParseMediaType converts a Stremio type string to a MediaType
func ParseMediaType(s string) MediaType {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "movie":
		return MediaTypeMovie
	case "series":
		return MediaTypeSeries
	default:
		return MediaTypeUnknown
	}
}
