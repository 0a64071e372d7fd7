package identifier

import (
	"errors"
	"testing"

	"github.com/vixsrc/stremio-addon/internal/apperrors"
	"github.com/vixsrc/stremio-addon/internal/models"
)

func TestParse_AcceptedShapes(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name      string
		rawID     string
		mediaType models.MediaType
		want      models.IdentifierShape
	}{
		{
			name:      "bare imdb movie",
			rawID:     "tt0137523",
			mediaType: models.MediaTypeMovie,
			want:      models.IdentifierShape{Provider: models.ProviderBareIMDb, ContentID: "tt0137523", MediaType: models.MediaTypeMovie},
		},
		{
			name:      "prefixed imdb movie",
			rawID:     "imdb:tt0137523",
			mediaType: models.MediaTypeMovie,
			want:      models.IdentifierShape{Provider: models.ProviderIMDb, ContentID: "tt0137523", MediaType: models.MediaTypeMovie},
		},
		{
			name:      "tmdb movie",
			rawID:     "tmdb:550",
			mediaType: models.MediaTypeMovie,
			want:      models.IdentifierShape{Provider: models.ProviderTMDB, ContentID: "550", MediaType: models.MediaTypeMovie},
		},
		{
			name:      "imdb movie with trailing segment",
			rawID:     "tt0137523:1",
			mediaType: models.MediaTypeMovie,
			want:      models.IdentifierShape{Provider: models.ProviderBareIMDb, ContentID: "tt0137523", MediaType: models.MediaTypeMovie},
		},
		{
			name:      "bare imdb episode",
			rawID:     "tt0111161:1:1",
			mediaType: models.MediaTypeSeries,
			want: models.IdentifierShape{
				Provider: models.ProviderBareIMDb, ContentID: "tt0111161", MediaType: models.MediaTypeSeries,
				Episode: &models.EpisodeRef{Season: 1, Episode: 1},
			},
		},
		{
			name:      "prefixed imdb episode",
			rawID:     "imdb:tt0944947:3:9",
			mediaType: models.MediaTypeSeries,
			want: models.IdentifierShape{
				Provider: models.ProviderIMDb, ContentID: "tt0944947", MediaType: models.MediaTypeSeries,
				Episode: &models.EpisodeRef{Season: 3, Episode: 9},
			},
		},
		{
			name:      "tmdb episode",
			rawID:     "tmdb:1399:2:10",
			mediaType: models.MediaTypeSeries,
			want: models.IdentifierShape{
				Provider: models.ProviderTMDB, ContentID: "1399", MediaType: models.MediaTypeSeries,
				Episode: &models.EpisodeRef{Season: 2, Episode: 10},
			},
		},
		{
			name:      "specials season",
			rawID:     "tmdb:1399:0:1",
			mediaType: models.MediaTypeSeries,
			want: models.IdentifierShape{
				Provider: models.ProviderTMDB, ContentID: "1399", MediaType: models.MediaTypeSeries,
				Episode: &models.EpisodeRef{Season: 0, Episode: 1},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := Parse(tt.rawID, tt.mediaType)
			if err != nil {
				t.Fatalf("Parse(%q) returned error: %v", tt.rawID, err)
			}
			if got.Provider != tt.want.Provider {
				t.Errorf("Provider = %v, want %v", got.Provider, tt.want.Provider)
			}
			if got.ContentID != tt.want.ContentID {
				t.Errorf("ContentID = %q, want %q", got.ContentID, tt.want.ContentID)
			}
			if got.MediaType != tt.want.MediaType {
				t.Errorf("MediaType = %v, want %v", got.MediaType, tt.want.MediaType)
			}
			switch {
			case tt.want.Episode == nil && got.Episode != nil:
				t.Errorf("Episode = %+v, want nil", *got.Episode)
			case tt.want.Episode != nil && got.Episode == nil:
				t.Errorf("Episode = nil, want %+v", *tt.want.Episode)
			case tt.want.Episode != nil && *got.Episode != *tt.want.Episode:
				t.Errorf("Episode = %+v, want %+v", *got.Episode, *tt.want.Episode)
			}
		})
	}
}

func TestParse_RejectedShapes(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name      string
		rawID     string
		mediaType models.MediaType
	}{
		{"unknown prefix", "foo:123", models.MediaTypeMovie},
		{"empty", "", models.MediaTypeMovie},
		{"tmdb without id", "tmdb", models.MediaTypeMovie},
		{"tmdb movie with episode", "tmdb:550:1:1", models.MediaTypeMovie},
		{"tmdb series without episode", "tmdb:1399", models.MediaTypeSeries},
		{"tmdb series missing episode number", "tmdb:1399:1", models.MediaTypeSeries},
		{"bare imdb series without episode", "tt0111161", models.MediaTypeSeries},
		{"prefixed imdb series with three segments", "imdb:tt0111161:1", models.MediaTypeSeries},
		{"non numeric tmdb id", "tmdb:abc", models.MediaTypeMovie},
		{"empty tmdb id", "tmdb:", models.MediaTypeMovie},
		{"imdb prefix with tmdb style id", "imdb:550", models.MediaTypeMovie},
		{"imdb id without digits", "ttabc", models.MediaTypeMovie},
		{"non numeric season", "tmdb:1399:s1:1", models.MediaTypeSeries},
		{"negative episode", "tt0111161:1:-1", models.MediaTypeSeries},
		{"uppercase prefix", "TMDB:550", models.MediaTypeMovie},
		{"unknown media type", "tmdb:550", models.MediaTypeUnknown},
		{"too many segments", "tmdb:1399:1:1:1", models.MediaTypeSeries},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := Parse(tt.rawID, tt.mediaType)
			if err == nil {
				t.Fatalf("Parse(%q, %v) succeeded, want error", tt.rawID, tt.mediaType)
			}
			if !errors.Is(err, &apperrors.ErrMalformedIdentifier{}) {
				t.Errorf("Expected ErrMalformedIdentifier, got %T: %v", err, err)
			}
		})
	}
}

func TestParse_KeepsEpisodeNumbersAsGiven(t *testing.T) {
	t.Parallel()
	for s := 0; s < 5; s++ {
		for e := 1; e < 30; e += 7 {
			rawID := (&models.CanonicalID{ID: "42", Episode: &models.EpisodeRef{Season: s, Episode: e}}).String()
			shape, err := Parse(rawID, models.MediaTypeSeries)
			if err != nil {
				t.Fatalf("Parse(%q) returned error: %v", rawID, err)
			}
			if shape.Episode.Season != s || shape.Episode.Episode != e {
				t.Errorf("Parse(%q) = S%dE%d, want S%dE%d", rawID, shape.Episode.Season, shape.Episode.Episode, s, e)
			}
		}
	}
}
