package tmdb

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/vixsrc/stremio-addon/internal/models"
)

func (c *client) Discover(ctx context.Context, path string, params url.Values, page int) (*models.TMDBPage, error) {
	query := url.Values{}
	for k, v := range params {
		query[k] = v
	}
	query.Set("page", strconv.Itoa(page))

	var result models.TMDBPage
	if err := c.getJSON(ctx, "discover", path, query, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *client) Search(ctx context.Context, mediaType models.MediaType, query string, page int) (*models.TMDBPage, error) {
	tmdbPath := mediaType.TMDBPath()
	if tmdbPath == "" {
		return nil, fmt.Errorf("unsupported media type %q", mediaType)
	}

	params := url.Values{}
	params.Set("query", query)
	params.Set("page", strconv.Itoa(page))

	var result models.TMDBPage
	if err := c.getJSON(ctx, "search", "/search/"+tmdbPath, params, &result); err != nil {
		return nil, err
	}
	return &result, nil
}
