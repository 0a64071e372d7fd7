// Package identifier turns raw Stremio catalog identifiers into TMDB ids and
// builds the provider page URL for the resolved content.
package identifier

import (
	"strconv"
	"strings"

	"github.com/vixsrc/stremio-addon/internal/apperrors"
	"github.com/vixsrc/stremio-addon/internal/models"
)

// shapeRule is one accepted identifier grammar. A raw identifier matches a rule
// when the media type and segment count agree and the first segment passes match.
type shapeRule struct {
	mediaType models.MediaType
	segments  int
	match     func(first string) bool
	provider  models.Provider
	idIndex   int // segment holding the content id
	seasonAt  int // segment holding the season, the episode follows it; -1 for movies
}

var shapeRules = []shapeRule{
	{models.MediaTypeMovie, 1, hasIMDbPrefix, models.ProviderBareIMDb, 0, -1},
	{models.MediaTypeMovie, 2, equals("imdb"), models.ProviderIMDb, 1, -1},
	{models.MediaTypeMovie, 2, equals("tmdb"), models.ProviderTMDB, 1, -1},
	// "tt123:x" is not a standard Stremio movie id but some catalogs send it.
	{models.MediaTypeMovie, 2, hasIMDbPrefix, models.ProviderBareIMDb, 0, -1},
	{models.MediaTypeSeries, 3, hasIMDbPrefix, models.ProviderBareIMDb, 0, 1},
	{models.MediaTypeSeries, 4, equals("imdb"), models.ProviderIMDb, 1, 2},
	{models.MediaTypeSeries, 4, equals("tmdb"), models.ProviderTMDB, 1, 2},
}

func equals(prefix string) func(string) bool {
	return func(first string) bool { return first == prefix }
}

func hasIMDbPrefix(first string) bool {
	return strings.HasPrefix(first, "tt")
}

// Parse classifies rawID against the accepted grammars for mediaType.
// It returns an *apperrors.ErrMalformedIdentifier when no grammar matches or
// when the matched segments do not hold valid ids and episode numbers.
func Parse(rawID string, mediaType models.MediaType) (models.IdentifierShape, error) {
	segments := strings.Split(rawID, ":")

	for _, rule := range shapeRules {
		if rule.mediaType != mediaType || rule.segments != len(segments) || !rule.match(segments[0]) {
			continue
		}
		return rule.build(rawID, segments)
	}

	return models.IdentifierShape{}, apperrors.NewMalformedIdentifierError(rawID, mediaType.String())
}

func (r shapeRule) build(rawID string, segments []string) (models.IdentifierShape, error) {
	malformed := apperrors.NewMalformedIdentifierError(rawID, r.mediaType.String())

	contentID := segments[r.idIndex]
	if !validContentID(r.provider, contentID) {
		return models.IdentifierShape{}, malformed
	}

	shape := models.IdentifierShape{
		Provider:  r.provider,
		ContentID: contentID,
		MediaType: r.mediaType,
	}
	if r.seasonAt < 0 {
		return shape, nil
	}

	season, ok := parseNumber(segments[r.seasonAt])
	if !ok {
		return models.IdentifierShape{}, malformed
	}
	episode, ok := parseNumber(segments[r.seasonAt+1])
	if !ok {
		return models.IdentifierShape{}, malformed
	}
	shape.Episode = &models.EpisodeRef{Season: season, Episode: episode}

	return shape, nil
}

func validContentID(provider models.Provider, id string) bool {
	if provider.IsIMDb() {
		digits, ok := strings.CutPrefix(id, "tt")
		return ok && isDecimal(digits)
	}
	return isDecimal(id)
}

func parseNumber(s string) (int, bool) {
	if !isDecimal(s) {
		return 0, false
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, false
	}
	return n, true
}

func isDecimal(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
