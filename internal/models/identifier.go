package models

import "fmt"

// Provider names the numbering space an identifier's content ID belongs to
type Provider int

const (
	ProviderUnknown Provider = iota
	ProviderTMDB
	ProviderIMDb     // "imdb:tt..." prefixed form
	ProviderBareIMDb // "tt..." without prefix
)

func (p Provider) String() string {
	switch p {
	case ProviderTMDB:
		return "tmdb"
	case ProviderIMDb:
		return "imdb"
	case ProviderBareIMDb:
		return "bare-imdb"
	default:
		return "unknown"
	}
}

// IsIMDb reports whether the content ID is an IMDb id that needs translating
func (p Provider) IsIMDb() bool {
	return p == ProviderIMDb || p == ProviderBareIMDb
}

// EpisodeRef points at a single episode of a series.
// It is either absent (movies) or carries both numbers.
type EpisodeRef struct {
	Season  int `json:"season"`
	Episode int `json:"episode"`
}

// IdentifierShape is the parsed form of a raw catalog identifier
type IdentifierShape struct {
	Provider  Provider
	ContentID string
	MediaType MediaType
	Episode   *EpisodeRef // nil for movies
}

// CanonicalID is a TMDB numeric id plus the episode context carried from the shape
type CanonicalID struct {
	ID        string
	MediaType MediaType
	Episode   *EpisodeRef
}

func (c CanonicalID) String() string {
	if c.Episode == nil {
		return fmt.Sprintf("tmdb:%s", c.ID)
	}
	return fmt.Sprintf("tmdb:%s:%d:%d", c.ID, c.Episode.Season, c.Episode.Episode)
}
