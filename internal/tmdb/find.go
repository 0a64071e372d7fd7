package tmdb

import (
	"context"
	"fmt"
	"net/url"

	"github.com/vixsrc/stremio-addon/internal/models"
)

// FindByIMDbID queries /find/{imdb_id} and returns the matches for mediaType.
// An IMDb id that TMDB does not know yields an empty slice, not an error.
func (c *client) FindByIMDbID(ctx context.Context, imdbID string, mediaType models.MediaType) ([]int64, error) {
	params := url.Values{}
	params.Set("external_source", "imdb_id")

	var resp models.TMDBFindResponse
	if err := c.getJSON(ctx, "find", "/find/"+url.PathEscape(imdbID), params, &resp); err != nil {
		return nil, err
	}

	var results []models.TMDBFindResult
	switch mediaType {
	case models.MediaTypeMovie:
		results = resp.MovieResults
	case models.MediaTypeSeries:
		results = resp.TVResults
	default:
		return nil, fmt.Errorf("unsupported media type %q", mediaType)
	}

	ids := make([]int64, 0, len(results))
	for _, r := range results {
		ids = append(ids, r.ID)
	}
	return ids, nil
}
