package addon

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/vixsrc/stremio-addon/internal/models"
)

// jsISOTime is the layout of JavaScript's Date.toISOString, which Stremio expects.
const jsISOTime = "2006-01-02T15:04:05.000Z"

// seasonFetchLimit bounds concurrent season requests for one series.
const seasonFetchLimit = 4

// Meta describes a TMDB movie or series. Only "tmdb:<id>" identifiers are
// supported; anything else, and any TMDB failure, yields a null meta.
func (s *Service) Meta(ctx context.Context, mediaType, id string) models.MetaResponse {
	logger := s.logger.With().Str("type", mediaType).Str("id", id).Logger()
	logger.Info().Msg("Meta requested")

	parts := strings.Split(id, ":")
	if len(parts) < 2 || parts[0] != "tmdb" || parts[1] == "" {
		logger.Warn().Msg("Unsupported meta identifier")
		return models.MetaResponse{}
	}
	tmdbID := parts[1]

	var (
		meta *models.Meta
		err  error
	)
	switch models.ParseMediaType(mediaType) {
	case models.MediaTypeMovie:
		meta, err = s.movieMeta(ctx, tmdbID)
	case models.MediaTypeSeries:
		meta, err = s.seriesMeta(ctx, tmdbID)
	default:
		logger.Warn().Msg("Unsupported media type for meta")
		return models.MetaResponse{}
	}
	if err != nil {
		logger.Error().Err(err).Msg("Failed to fetch metadata from TMDB")
		return models.MetaResponse{}
	}

	return models.MetaResponse{Meta: meta}
}

func (s *Service) movieMeta(ctx context.Context, tmdbID string) (*models.Meta, error) {
	movie, err := s.tmdb.Movie(ctx, tmdbID)
	if err != nil {
		return nil, err
	}

	return &models.Meta{
		ID:          fmt.Sprintf("tmdb:%d", movie.ID),
		Type:        models.MediaTypeMovie.String(),
		Name:        movie.Title,
		Poster:      s.tmdb.ImageURL(movie.PosterPath),
		Background:  s.tmdb.ImageURL(movie.BackdropPath),
		Description: movie.Overview,
		ReleaseInfo: releaseYear(movie.ReleaseDate),
		IMDbRating:  formatRating(movie.VoteAverage),
		Genres:      genreNames(movie.Genres),
	}, nil
}

// seriesMeta fetches the series and all of its seasons. At most
// seasonFetchLimit seasons are fetched at once and the first failure cancels
// the rest; videos keep the season order TMDB lists.
func (s *Service) seriesMeta(ctx context.Context, tmdbID string) (*models.Meta, error) {
	series, err := s.tmdb.Series(ctx, tmdbID)
	if err != nil {
		return nil, err
	}

	var seasons []int
	for _, season := range series.Seasons {
		// An empty specials season has no season page worth fetching.
		if season.SeasonNumber == 0 && season.EpisodeCount == 0 {
			continue
		}
		seasons = append(seasons, season.SeasonNumber)
	}

	details := make([]*models.TMDBSeason, len(seasons))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(seasonFetchLimit)
	for i, number := range seasons {
		g.Go(func() error {
			season, err := s.tmdb.Season(gctx, tmdbID, number)
			if err != nil {
				return fmt.Errorf("season %d: %w", number, err)
			}
			details[i] = season
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("fetch seasons of series %s: %w", tmdbID, err)
	}

	meta := &models.Meta{
		ID:          fmt.Sprintf("tmdb:%d", series.ID),
		Type:        models.MediaTypeSeries.String(),
		Name:        series.Name,
		Poster:      s.tmdb.ImageURL(series.PosterPath),
		Background:  s.tmdb.ImageURL(series.BackdropPath),
		Description: series.Overview,
		ReleaseInfo: releaseYear(series.FirstAirDate),
		IMDbRating:  formatRating(series.VoteAverage),
		Genres:      genreNames(series.Genres),
		Videos:      []models.Video{},
	}

	now := time.Now().UTC().Format(jsISOTime)
	for _, season := range details {
		for _, ep := range season.Episodes {
			meta.Videos = append(meta.Videos, s.videoFromEpisode(series.ID, ep, now))
		}
	}

	return meta, nil
}

func (s *Service) videoFromEpisode(seriesID int64, ep models.TMDBEpisode, fallbackRelease string) models.Video {
	title := ep.Name
	if title == "" {
		title = fmt.Sprintf("Episodio %d", ep.EpisodeNumber)
	}
	released := ep.AirDate
	if released == "" {
		released = fallbackRelease
	}

	id := models.CanonicalID{
		ID:        strconv.FormatInt(seriesID, 10),
		MediaType: models.MediaTypeSeries,
		Episode:   &models.EpisodeRef{Season: ep.SeasonNumber, Episode: ep.EpisodeNumber},
	}

	return models.Video{
		ID:        id.String(),
		Title:     title,
		Season:    ep.SeasonNumber,
		Episode:   ep.EpisodeNumber,
		Released:  released,
		Overview:  ep.Overview,
		Thumbnail: s.tmdb.ImageURL(ep.StillPath),
	}
}

func genreNames(genres []models.TMDBGenre) []string {
	names := make([]string, 0, len(genres))
	for _, g := range genres {
		names = append(names, g.Name)
	}
	return names
}
