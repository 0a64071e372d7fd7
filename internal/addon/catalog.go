package addon

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/vixsrc/stremio-addon/internal/models"
)

// ItemsPerPage is the page size TMDB uses for list endpoints.
const ItemsPerPage = 20

// catalogDefinition maps a manifest catalog to a TMDB discover listing
type catalogDefinition struct {
	item   models.CatalogItem
	path   string
	params url.Values
}

func defaultCatalogs() []catalogDefinition {
	return []catalogDefinition{
		{
			item: models.CatalogItem{
				Type: "series",
				ID:   "tmdb_series_kdrama_it",
				Name: "K-Drama Popolari",
				Extra: []models.ExtraItem{
					{Name: "skip"},
					{Name: "search"},
				},
			},
			path: "/discover/tv",
			params: url.Values{
				"with_origin_country": {"KR"},
				"sort_by":             {"first_air_date.desc"},
				"vote_average.gte":    {"0"},
				"vote_average.lte":    {"10"},
				"with_genres":         {"18"}, // Drama
				"with_runtime.gte":    {"30"},
			},
		},
	}
}

// CatalogExtra holds the optional catalog parameters Stremio sends
type CatalogExtra struct {
	Skip   int
	Search string
}

// ParseCatalogExtra parses the "skip=20&search=foo" path segment of catalog
// requests. Unknown keys are ignored and an invalid skip counts as 0.
func ParseCatalogExtra(raw string) CatalogExtra {
	var extra CatalogExtra
	values, err := url.ParseQuery(raw)
	if err != nil {
		return extra
	}
	if skip, err := strconv.Atoi(values.Get("skip")); err == nil && skip > 0 {
		extra.Skip = skip
	}
	extra.Search = values.Get("search")
	return extra
}

// Page returns the 1-based TMDB page holding the item at offset Skip
func (e CatalogExtra) Page() int {
	return e.Skip/ItemsPerPage + 1
}

// Catalog lists one page of a catalog, or of TMDB search results when a search
// query is present. Failures produce an empty page.
func (s *Service) Catalog(ctx context.Context, mediaType, catalogID string, extra CatalogExtra) models.CatalogResponse {
	page := extra.Page()
	logger := s.logger.With().
		Str("type", mediaType).
		Str("catalog", catalogID).
		Int("skip", extra.Skip).
		Int("page", page).
		Str("search", extra.Search).
		Logger()
	logger.Info().Msg("Catalog requested")

	resp := models.CatalogResponse{
		Metas:      []models.MetaPreview{},
		CacheHints: s.cacheHints(),
	}

	kind := models.ParseMediaType(mediaType)

	var (
		result *models.TMDBPage
		err    error
	)
	switch {
	case extra.Search != "":
		if kind != models.MediaTypeSeries {
			logger.Warn().Msg("Search is only supported for series")
			return resp
		}
		result, err = s.tmdb.Search(ctx, kind, extra.Search, page)
	default:
		def, ok := s.findCatalog(mediaType, catalogID)
		if !ok {
			logger.Warn().Msg("Unknown catalog")
			return resp
		}
		result, err = s.tmdb.Discover(ctx, def.path, def.params, page)
	}
	if err != nil {
		logger.Error().Err(err).Msg("Failed to fetch catalog from TMDB")
		return resp
	}

	for _, item := range result.Results {
		resp.Metas = append(resp.Metas, s.previewFromListItem(kind, item))
	}
	resp.HasMore = result.Page > 0 && result.Page < result.TotalPages

	logger.Debug().
		Int("results", len(resp.Metas)).
		Int("totalPages", result.TotalPages).
		Bool("hasMore", resp.HasMore).
		Msg("Catalog page fetched")

	return resp
}

func (s *Service) findCatalog(mediaType, catalogID string) (catalogDefinition, bool) {
	for _, c := range s.catalogs {
		if c.item.Type == mediaType && c.item.ID == catalogID {
			return c, true
		}
	}
	return catalogDefinition{}, false
}

func (s *Service) cacheHints() models.CacheHints {
	return models.CacheHints{
		CacheMaxAge:     s.cfg.Catalog.CacheMaxAge,
		StaleRevalidate: s.cfg.Catalog.StaleRevalidate,
		StaleError:      s.cfg.Catalog.StaleError,
	}
}

func (s *Service) previewFromListItem(kind models.MediaType, item models.TMDBListItem) models.MetaPreview {
	name, date := item.Name, item.FirstAirDate
	if kind == models.MediaTypeMovie {
		name, date = item.Title, item.ReleaseDate
	}

	return models.MetaPreview{
		ID:          fmt.Sprintf("tmdb:%d", item.ID),
		Type:        kind.String(),
		Name:        name,
		Poster:      s.tmdb.ImageURL(item.PosterPath),
		Description: item.Overview,
		ReleaseInfo: releaseYear(date),
		IMDbRating:  formatRating(item.VoteAverage),
	}
}

// releaseYear returns the year of a TMDB "YYYY-MM-DD" date
func releaseYear(date string) string {
	if len(date) < 4 {
		return ""
	}
	return date[:4]
}

// formatRating renders a vote average with one decimal, or nil when unrated
func formatRating(vote float64) *string {
	if vote == 0 {
		return nil
	}
	r := strconv.FormatFloat(vote, 'f', 1, 64)
	return &r
}
