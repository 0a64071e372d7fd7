package models

import "testing"

func TestProvider_String(t *testing.T) {
	tests := map[Provider]string{
		ProviderTMDB:     "tmdb",
		ProviderIMDb:     "imdb",
		ProviderBareIMDb: "bare-imdb",
		ProviderUnknown:  "unknown",
	}
	for provider, want := range tests {
		if got := provider.String(); got != want {
			t.Errorf("Provider(%d).String() = %q, want %q", provider, got, want)
		}
	}
}

func TestProvider_IsIMDb(t *testing.T) {
	if ProviderTMDB.IsIMDb() {
		t.Error("tmdb should not be an IMDb provider")
	}
	if !ProviderIMDb.IsIMDb() || !ProviderBareIMDb.IsIMDb() {
		t.Error("imdb and bare-imdb should be IMDb providers")
	}
}

func TestCanonicalID_String(t *testing.T) {
	movie := CanonicalID{ID: "550", MediaType: MediaTypeMovie}
	if got := movie.String(); got != "tmdb:550" {
		t.Errorf("movie String() = %q, want %q", got, "tmdb:550")
	}

	episode := CanonicalID{ID: "278", MediaType: MediaTypeSeries, Episode: &EpisodeRef{Season: 2, Episode: 7}}
	if got := episode.String(); got != "tmdb:278:2:7" {
		t.Errorf("episode String() = %q, want %q", got, "tmdb:278:2:7")
	}
}
