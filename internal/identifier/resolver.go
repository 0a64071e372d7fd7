package identifier

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/vixsrc/stremio-addon/internal/apperrors"
	"github.com/vixsrc/stremio-addon/internal/config"
	"github.com/vixsrc/stremio-addon/internal/models"
)

// ErrMissingEpisode is returned by BuildProviderURL when a series id carries no
// season and episode. Parse never produces such an id.
var ErrMissingEpisode = errors.New("series identifier without season and episode")

// Lookup translates an IMDb id into TMDB ids, best match first.
type Lookup interface {
	FindByIMDbID(ctx context.Context, imdbID string, mediaType models.MediaType) ([]int64, error)
}

// Resolution is the outcome of resolving a raw identifier
type Resolution struct {
	Shape       models.IdentifierShape
	Canonical   models.CanonicalID
	ProviderURL string
}

// Resolver turns raw catalog identifiers into TMDB ids and provider URLs.
// It holds no per-request state and is safe for concurrent use.
type Resolver struct {
	lookup          Lookup
	providerBaseURL string
	logger          zerolog.Logger
}

// NewResolver creates a Resolver that builds URLs under cfg.Provider.BaseURL and
// translates IMDb ids with lookup.
func NewResolver(lookup Lookup, cfg *config.Config) *Resolver {
	return &Resolver{
		lookup:          lookup,
		providerBaseURL: cfg.Provider.BaseURL,
		logger:          config.GetLogger(),
	}
}

// Resolve parses rawID, translates it to a TMDB id and builds the provider URL.
// At most one lookup call is made.
func (r *Resolver) Resolve(ctx context.Context, rawID string, mediaType models.MediaType) (*Resolution, error) {
	shape, err := Parse(rawID, mediaType)
	if err != nil {
		return nil, err
	}

	canonical, err := r.ResolveCanonical(ctx, shape)
	if err != nil {
		return nil, err
	}

	providerURL, err := BuildProviderURL(r.providerBaseURL, canonical)
	if err != nil {
		return nil, err
	}

	r.logger.Debug().
		Str("id", rawID).
		Str("provider", shape.Provider.String()).
		Str("canonical", canonical.String()).
		Str("url", providerURL).
		Msg("Resolved identifier")

	return &Resolution{Shape: shape, Canonical: canonical, ProviderURL: providerURL}, nil
}

// ResolveCanonical returns the TMDB id for shape. TMDB shapes are returned as is;
// IMDb shapes cost exactly one lookup, and the first match wins.
func (r *Resolver) ResolveCanonical(ctx context.Context, shape models.IdentifierShape) (models.CanonicalID, error) {
	canonical := models.CanonicalID{
		MediaType: shape.MediaType,
		Episode:   shape.Episode,
	}

	if shape.Provider == models.ProviderTMDB {
		canonical.ID = shape.ContentID
		return canonical, nil
	}

	ids, err := r.lookup.FindByIMDbID(ctx, shape.ContentID, shape.MediaType)
	if err != nil {
		return models.CanonicalID{}, fmt.Errorf("lookup %s: %w", shape.ContentID, err)
	}
	if len(ids) == 0 {
		return models.CanonicalID{}, apperrors.NewNotFoundError("tmdb "+shape.MediaType.String(), shape.ContentID)
	}

	canonical.ID = strconv.FormatInt(ids[0], 10)
	return canonical, nil
}

// BuildProviderURL returns <base>/movie/<id> for movies and
// <base>/tv/<id>/<season>/<episode> for series.
func BuildProviderURL(baseURL string, id models.CanonicalID) (string, error) {
	switch id.MediaType {
	case models.MediaTypeMovie:
		return url.JoinPath(baseURL, "movie", id.ID)
	case models.MediaTypeSeries:
		if id.Episode == nil {
			return "", ErrMissingEpisode
		}
		return url.JoinPath(baseURL, "tv", id.ID,
			strconv.Itoa(id.Episode.Season), strconv.Itoa(id.Episode.Episode))
	default:
		return "", fmt.Errorf("unsupported media type %q", id.MediaType)
	}
}
