package server

import (
	"context"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	promtest "github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/vixsrc/stremio-addon/internal/addon"
	"github.com/vixsrc/stremio-addon/internal/metrics"
	"github.com/vixsrc/stremio-addon/internal/models"
)

type call struct {
	resource  string
	mediaType string
	id        string
	extra     addon.CatalogExtra
}

type fakeAddon struct {
	mu    sync.Mutex
	calls []call
}

func (f *fakeAddon) record(c call) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, c)
}

func (f *fakeAddon) last(t *testing.T) call {
	t.Helper()
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.calls) == 0 {
		t.Fatal("Expected the addon to be called")
	}
	return f.calls[len(f.calls)-1]
}

func (f *fakeAddon) Manifest() models.Manifest {
	f.record(call{resource: "manifest"})
	return models.Manifest{ID: "test.addon", Version: "0.0.1"}
}

func (f *fakeAddon) Catalog(_ context.Context, mediaType, catalogID string, extra addon.CatalogExtra) models.CatalogResponse {
	f.record(call{resource: "catalog", mediaType: mediaType, id: catalogID, extra: extra})
	return models.CatalogResponse{
		Metas:      []models.MetaPreview{{ID: "tmdb:1", Type: mediaType, Name: "Uno"}},
		HasMore:    true,
		CacheHints: models.CacheHints{CacheMaxAge: 1300, StaleRevalidate: 120, StaleError: 86400},
	}
}

func (f *fakeAddon) Meta(_ context.Context, mediaType, id string) models.MetaResponse {
	f.record(call{resource: "meta", mediaType: mediaType, id: id})
	return models.MetaResponse{}
}

func (f *fakeAddon) Streams(_ context.Context, mediaType, id string) models.StreamResponse {
	f.record(call{resource: "stream", mediaType: mediaType, id: id})
	return models.StreamResponse{Streams: []models.Stream{}}
}

func serve(t *testing.T, h http.Handler, method, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestRouter_Health(t *testing.T) {
	rec := serve(t, NewRouter(&fakeAddon{}), http.MethodGet, "/health")
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	if got := strings.TrimSpace(rec.Body.String()); got != `{"status":"ok"}` {
		t.Errorf("Unexpected body %q", got)
	}
}

func TestRouter_Manifest(t *testing.T) {
	rec := serve(t, NewRouter(&fakeAddon{}), http.MethodGet, "/manifest.json")
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Errorf("Expected CORS header *, got %q", got)
	}
	if got := rec.Header().Get("Content-Type"); !strings.HasPrefix(got, "application/json") {
		t.Errorf("Expected JSON content type, got %q", got)
	}

	var m models.Manifest
	if err := json.Unmarshal(rec.Body.Bytes(), &m); err != nil {
		t.Fatalf("Failed to decode manifest: %v", err)
	}
	if m.ID != "test.addon" {
		t.Errorf("Unexpected manifest id %q", m.ID)
	}
}

func TestRouter_Routes(t *testing.T) {
	tests := []struct {
		name string
		path string
		want call
	}{
		{
			name: "catalog",
			path: "/catalog/series/tmdb_series_kdrama_it.json",
			want: call{resource: "catalog", mediaType: "series", id: "tmdb_series_kdrama_it"},
		},
		{
			name: "catalog with skip",
			path: "/catalog/series/tmdb_series_kdrama_it/skip=40.json",
			want: call{resource: "catalog", mediaType: "series", id: "tmdb_series_kdrama_it", extra: addon.CatalogExtra{Skip: 40}},
		},
		{
			name: "catalog with escaped search",
			path: "/catalog/series/tmdb_series_kdrama_it/search=tom%26jerry%20show.json",
			want: call{resource: "catalog", mediaType: "series", id: "tmdb_series_kdrama_it", extra: addon.CatalogExtra{Search: "tom&jerry show"}},
		},
		{
			name: "meta",
			path: "/meta/series/tmdb:42.json",
			want: call{resource: "meta", mediaType: "series", id: "tmdb:42"},
		},
		{
			name: "stream episode",
			path: "/stream/series/tt0944947:1:2.json",
			want: call{resource: "stream", mediaType: "series", id: "tt0944947:1:2"},
		},
		{
			name: "stream with escaped colons",
			path: "/stream/movie/tmdb%3A550.json",
			want: call{resource: "stream", mediaType: "movie", id: "tmdb:550"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := &fakeAddon{}
			rec := serve(t, NewRouter(fake), http.MethodGet, tt.path)
			if rec.Code != http.StatusOK {
				t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
			}
			if got := fake.last(t); got != tt.want {
				t.Errorf("Addon called with %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestRouter_CatalogCacheControl(t *testing.T) {
	rec := serve(t, NewRouter(&fakeAddon{}), http.MethodGet, "/catalog/series/tmdb_series_kdrama_it.json")

	want := "max-age=1300, stale-while-revalidate=120, stale-if-error=86400, public"
	if got := rec.Header().Get("Cache-Control"); got != want {
		t.Errorf("Cache-Control = %q, want %q", got, want)
	}

	var body map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("Failed to decode body: %v", err)
	}
	if body["hasMore"] != true || body["cacheMaxAge"] != float64(1300) {
		t.Errorf("Unexpected catalog body: %v", body)
	}
}

func TestRouter_EmptyBodies(t *testing.T) {
	h := NewRouter(&fakeAddon{})

	if got := strings.TrimSpace(serve(t, h, http.MethodGet, "/meta/movie/tt0137523.json").Body.String()); got != `{"meta":null}` {
		t.Errorf("Unexpected meta body %q", got)
	}
	if got := strings.TrimSpace(serve(t, h, http.MethodGet, "/stream/movie/foo:123.json").Body.String()); got != `{"streams":[]}` {
		t.Errorf("Unexpected stream body %q", got)
	}
}

func TestRouter_Preflight(t *testing.T) {
	fake := &fakeAddon{}
	rec := serve(t, NewRouter(fake), http.MethodOptions, "/stream/movie/tmdb:1.json")
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Errorf("Expected CORS header *, got %q", got)
	}
	if len(fake.calls) != 0 {
		t.Errorf("Preflight must not reach the addon, got %+v", fake.calls)
	}
}

func TestRouter_UnknownPath(t *testing.T) {
	counter := metrics.AddonRequestsTotal.With(prometheus.Labels{"resource": "unknown", "code": "404"})
	before := promtest.ToFloat64(counter)

	rec := serve(t, NewRouter(&fakeAddon{}), http.MethodGet, "/subtitles/movie/tt1.json")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("Expected 404, got %d", rec.Code)
	}

	after := promtest.ToFloat64(counter)
	if after-before != 1 {
		t.Errorf("Expected unknown/404 counter to grow by 1, grew by %v", after-before)
	}
}

func TestRouter_CountsRequests(t *testing.T) {
	counter := metrics.AddonRequestsTotal.With(prometheus.Labels{"resource": "stream", "code": "200"})
	before := promtest.ToFloat64(counter)

	h := NewRouter(&fakeAddon{})
	for i := 0; i < 3; i++ {
		serve(t, h, http.MethodGet, "/stream/movie/tmdb:550.json")
	}

	if got := promtest.ToFloat64(counter) - before; got != 3 {
		t.Errorf("Expected 3 counted stream requests, got %v", got)
	}
}

func TestServe_WaitsForInFlightRequests(t *testing.T) {
	entered := make(chan struct{})
	release := make(chan struct{})
	srv := &http.Server{Handler: http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		close(entered)
		<-release
		_, _ = w.Write([]byte("done"))
	})}

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("Failed to listen: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	served := make(chan error, 1)
	go func() {
		served <- Serve(ctx, srv, ln, 5*time.Second)
	}()

	type result struct {
		body string
		err  error
	}
	responses := make(chan result, 1)
	go func() {
		resp, err := http.Get("http://" + ln.Addr().String() + "/slow")
		if err != nil {
			responses <- result{err: err}
			return
		}
		defer resp.Body.Close()
		b, err := io.ReadAll(resp.Body)
		responses <- result{body: string(b), err: err}
	}()

	<-entered
	cancel()

	select {
	case err := <-served:
		t.Fatalf("Serve returned while a request was in flight: %v", err)
	case <-time.After(100 * time.Millisecond):
	}

	close(release)

	res := <-responses
	if res.err != nil {
		t.Fatalf("In-flight request failed: %v", res.err)
	}
	if res.body != "done" {
		t.Errorf("Expected body %q, got %q", "done", res.body)
	}

	select {
	case err := <-served:
		if err != nil {
			t.Errorf("Expected clean shutdown, got %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Serve did not return after the request finished")
	}
}

func TestServe_ReturnsListenerErrors(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("Failed to listen: %v", err)
	}
	_ = ln.Close()

	err = Serve(context.Background(), &http.Server{Handler: http.NotFoundHandler()}, ln, time.Second)
	if err == nil {
		t.Fatal("Expected an error from a closed listener")
	}
}
