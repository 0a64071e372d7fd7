// Package tmdb is a small client for the parts of the TMDB v3 API the addon uses.
package tmdb

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/failsafe-go/failsafe-go/circuitbreaker"
	"github.com/failsafe-go/failsafe-go/failsafehttp"

	"github.com/vixsrc/stremio-addon/internal/apperrors"
	"github.com/vixsrc/stremio-addon/internal/config"
	"github.com/vixsrc/stremio-addon/internal/metrics"
	"github.com/vixsrc/stremio-addon/internal/models"
)

// Client defines the TMDB operations used by the addon
type Client interface {
	// FindByIMDbID returns the TMDB ids matching an IMDb id, best match first.
	FindByIMDbID(ctx context.Context, imdbID string, mediaType models.MediaType) ([]int64, error)

	// Discover fetches one page of a /discover listing, e.g. path "/discover/tv".
	Discover(ctx context.Context, path string, params url.Values, page int) (*models.TMDBPage, error)
	// Search fetches one page of title search results.
	Search(ctx context.Context, mediaType models.MediaType, query string, page int) (*models.TMDBPage, error)

	Movie(ctx context.Context, id string) (*models.TMDBMovie, error)
	Series(ctx context.Context, id string) (*models.TMDBSeries, error)
	Season(ctx context.Context, seriesID string, season int) (*models.TMDBSeason, error)

	// ImageURL returns the absolute URL of a TMDB image path, or nil for an empty path.
	ImageURL(path string) *string
}

type client struct {
	httpClient   *http.Client
	baseURL      string
	imageBaseURL string
	apiKey       string
	language     string
}

// NewClient creates a TMDB client. Requests go through a circuit breaker that
// opens after consecutive transport failures or 5xx answers; failed calls are
// never retried.
func NewClient(cfg *config.Config) Client {
	logger := config.GetLogger()

	timeout := 30 * time.Second
	if cfg.ClientTimeout != "" {
		if parsedTimeout, err := time.ParseDuration(cfg.ClientTimeout); err != nil {
			logger.Warn().Err(err).Str("timeout", cfg.ClientTimeout).Msg("Invalid timeout duration, using default 30s")
		} else {
			timeout = parsedTimeout
		}
	}

	breaker := circuitbreaker.NewBuilder[*http.Response]().
		HandleIf(func(resp *http.Response, err error) bool {
			return err != nil || (resp != nil && resp.StatusCode >= http.StatusInternalServerError)
		}).
		WithFailureThreshold(5).
		WithDelay(30 * time.Second).
		OnOpen(func(circuitbreaker.StateChangedEvent) {
			logger.Warn().Msg("TMDB circuit breaker opened")
		}).
		OnClose(func(circuitbreaker.StateChangedEvent) {
			logger.Info().Msg("TMDB circuit breaker closed")
		}).
		Build()

	baseTransport := http.DefaultTransport.(*http.Transport).Clone()

	return &client{
		httpClient: &http.Client{
			Timeout:   timeout,
			Transport: failsafehttp.NewRoundTripper(newDecompressingTransport(baseTransport), breaker),
		},
		baseURL:      strings.TrimRight(cfg.TMDB.BaseURL, "/"),
		imageBaseURL: strings.TrimRight(cfg.TMDB.ImageBaseURL, "/"),
		apiKey:       cfg.TMDB.APIKey,
		language:     cfg.TMDB.Language,
	}
}

func (c *client) ImageURL(path string) *string {
	if path == "" {
		return nil
	}
	u := c.imageBaseURL + "/" + strings.TrimLeft(path, "/")
	return &u
}

// getJSON performs a GET on the TMDB path and decodes the body into dst.
// endpoint is the low-cardinality label used for metrics and errors.
func (c *client) getJSON(ctx context.Context, endpoint, path string, params url.Values, dst interface{}) error {
	logger := config.GetLogger()

	query := url.Values{}
	for k, v := range params {
		query[k] = v
	}
	query.Set("api_key", c.apiKey)
	if c.language != "" && query.Get("language") == "" {
		query.Set("language", c.language)
	}

	reqURL := c.baseURL + path + "?" + query.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", config.GetUserAgent())

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		metrics.TMDBRequestsTotal.WithLabelValues(endpoint, "error").Inc()
		if errors.Is(err, circuitbreaker.ErrOpen) {
			return fmt.Errorf("tmdb %s: circuit breaker open: %w", endpoint, err)
		}
		return fmt.Errorf("tmdb %s: %w", endpoint, err)
	}
	defer resp.Body.Close()

	metrics.TMDBRequestsTotal.WithLabelValues(endpoint, strconv.Itoa(resp.StatusCode)).Inc()
	logger.Debug().
		Str("endpoint", endpoint).
		Str("path", path).
		Int("status", resp.StatusCode).
		Dur("elapsed", time.Since(start)).
		Msg("TMDB request completed")

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return apperrors.NewNotFoundError("tmdb "+endpoint, path)
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return &apperrors.ErrUnexpectedStatus{Endpoint: "tmdb " + endpoint, StatusCode: resp.StatusCode}
	}

	if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
		return fmt.Errorf("failed to decode tmdb %s response: %w", endpoint, err)
	}
	return nil
}
