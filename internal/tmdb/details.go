package tmdb

import (
	"context"
	"fmt"
	"net/url"

	"github.com/vixsrc/stremio-addon/internal/models"
)

func (c *client) Movie(ctx context.Context, id string) (*models.TMDBMovie, error) {
	var movie models.TMDBMovie
	if err := c.getJSON(ctx, "movie", "/movie/"+url.PathEscape(id), nil, &movie); err != nil {
		return nil, err
	}
	return &movie, nil
}

// Series fetches /tv/{id} with the external ids appended.
func (c *client) Series(ctx context.Context, id string) (*models.TMDBSeries, error) {
	params := url.Values{}
	params.Set("append_to_response", "external_ids")

	var series models.TMDBSeries
	if err := c.getJSON(ctx, "tv", "/tv/"+url.PathEscape(id), params, &series); err != nil {
		return nil, err
	}
	return &series, nil
}

func (c *client) Season(ctx context.Context, seriesID string, season int) (*models.TMDBSeason, error) {
	path := fmt.Sprintf("/tv/%s/season/%d", url.PathEscape(seriesID), season)

	var result models.TMDBSeason
	if err := c.getJSON(ctx, "season", path, nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}
