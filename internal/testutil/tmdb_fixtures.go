package testutil

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/vixsrc/stremio-addon/internal/config"
	"github.com/vixsrc/stremio-addon/internal/models"
)

// TestConfig returns a valid configuration whose TMDB base URL points at tmdbURL.
func TestConfig(tmdbURL string) *config.Config {
	return &config.Config{
		TMDB: config.TMDBConfig{
			APIKey:       "test-key",
			BaseURL:      tmdbURL,
			ImageBaseURL: "https://image.tmdb.org/t/p/w500",
			Language:     "it-IT",
		},
		Provider:      config.ProviderConfig{BaseURL: "https://vixsrc.to"},
		ClientTimeout: "5s",
		Server:        config.ServerConfig{Address: "127.0.0.1", Port: 5555},
		Catalog: config.CatalogConfig{
			CacheMaxAge:     1300,
			StaleRevalidate: 120,
			StaleError:      86400,
		},
	}
}

// FindJSON renders a /find response with the given movie and tv ids
func FindJSON(movieIDs, tvIDs []int64) string {
	resp := models.TMDBFindResponse{
		MovieResults: []models.TMDBFindResult{},
		TVResults:    []models.TMDBFindResult{},
	}
	for _, id := range movieIDs {
		resp.MovieResults = append(resp.MovieResults, models.TMDBFindResult{ID: id})
	}
	for _, id := range tvIDs {
		resp.TVResults = append(resp.TVResults, models.TMDBFindResult{ID: id})
	}
	return mustJSON(resp)
}

// PageJSON renders a paginated list response
func PageJSON(page, totalPages int, items ...models.TMDBListItem) string {
	if items == nil {
		items = []models.TMDBListItem{}
	}
	return mustJSON(models.TMDBPage{
		Page:         page,
		TotalPages:   totalPages,
		TotalResults: totalPages * 20,
		Results:      items,
	})
}

// JSON renders any fixture value
func JSON(v interface{}) string {
	return mustJSON(v)
}

func mustJSON(v interface{}) string {
	b, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return string(b)
}

// FakeTMDB is an httptest server that answers TMDB paths from a route table and
// records every request it receives.
type FakeTMDB struct {
	*httptest.Server

	mu       sync.Mutex
	routes   map[string]string
	statuses map[string]int
	requests []*http.Request
}

// NewFakeTMDB starts a fake TMDB server. It is closed when the test ends.
func NewFakeTMDB(t *testing.T) *FakeTMDB {
	t.Helper()
	f := &FakeTMDB{
		routes:   make(map[string]string),
		statuses: make(map[string]int),
	}
	f.Server = httptest.NewServer(http.HandlerFunc(f.serve))
	t.Cleanup(f.Close)
	return f
}

// Handle makes path answer 200 with body
func (f *FakeTMDB) Handle(path, body string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.routes[path] = body
}

// Fail makes path answer with status and an error body
func (f *FakeTMDB) Fail(path string, status int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.statuses[path] = status
}

// Requests returns the requests received so far
func (f *FakeTMDB) Requests() []*http.Request {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]*http.Request(nil), f.requests...)
}

// RequestsTo returns the requests received for path
func (f *FakeTMDB) RequestsTo(path string) []*http.Request {
	var out []*http.Request
	for _, r := range f.Requests() {
		if r.URL.Path == path {
			out = append(out, r)
		}
	}
	return out
}

func (f *FakeTMDB) serve(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	f.requests = append(f.requests, r.Clone(r.Context()))
	status, failing := f.statuses[r.URL.Path]
	body, ok := f.routes[r.URL.Path]
	f.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	if failing {
		w.WriteHeader(status)
		_, _ = w.Write([]byte(`{"success":false,"status_message":"fake failure"}`))
		return
	}
	if !ok {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"success":false,"status_code":34}`))
		return
	}
	_, _ = w.Write([]byte(body))
}
