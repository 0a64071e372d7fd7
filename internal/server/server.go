// Package server exposes the addon over HTTP with the Stremio route layout.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/vixsrc/stremio-addon/internal/addon"
	"github.com/vixsrc/stremio-addon/internal/config"
	"github.com/vixsrc/stremio-addon/internal/metrics"
	"github.com/vixsrc/stremio-addon/internal/models"
)

// Addon is the set of resources the router serves
type Addon interface {
	Manifest() models.Manifest
	Catalog(ctx context.Context, mediaType, catalogID string, extra addon.CatalogExtra) models.CatalogResponse
	Meta(ctx context.Context, mediaType, id string) models.MetaResponse
	Streams(ctx context.Context, mediaType, id string) models.StreamResponse
}

type handler struct {
	addon  Addon
	logger zerolog.Logger
}

// NewRouter builds the addon router. Path variables are matched on the encoded
// path so that a catalog extra like "search=a%26b" keeps its own escaping.
func NewRouter(a Addon) *mux.Router {
	h := &handler{addon: a, logger: config.GetLogger()}

	r := mux.NewRouter()
	r.UseEncodedPath()
	r.Use(corsMiddleware)

	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	}).Methods(http.MethodGet)

	r.Handle("/manifest.json", instrument("manifest", h.manifest)).Methods(http.MethodGet, http.MethodOptions)
	r.Handle("/catalog/{type}/{id}.json", instrument("catalog", h.catalog)).Methods(http.MethodGet, http.MethodOptions)
	r.Handle("/catalog/{type}/{id}/{extra}.json", instrument("catalog", h.catalog)).Methods(http.MethodGet, http.MethodOptions)
	r.Handle("/meta/{type}/{id}.json", instrument("meta", h.meta)).Methods(http.MethodGet, http.MethodOptions)
	r.Handle("/stream/{type}/{id}.json", instrument("stream", h.stream)).Methods(http.MethodGet, http.MethodOptions)

	r.NotFoundHandler = instrument("unknown", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "not found"})
	})

	return r
}

// NewHTTPServer creates the addon HTTP server listening on the configured address
func NewHTTPServer(cfg *config.Config, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.Server.Address, cfg.Server.Port),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}
}

func (h *handler) manifest(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.addon.Manifest())
}

func (h *handler) catalog(w http.ResponseWriter, r *http.Request) {
	vars, ok := h.decodeVars(w, r, "type", "id", "extra")
	if !ok {
		return
	}

	resp := h.addon.Catalog(r.Context(), vars["type"], vars["id"], addon.ParseCatalogExtra(mux.Vars(r)["extra"]))
	if resp.CacheMaxAge > 0 {
		w.Header().Set("Cache-Control", cacheControl(resp.CacheHints))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *handler) meta(w http.ResponseWriter, r *http.Request) {
	vars, ok := h.decodeVars(w, r, "type", "id")
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, h.addon.Meta(r.Context(), vars["type"], vars["id"]))
}

func (h *handler) stream(w http.ResponseWriter, r *http.Request) {
	vars, ok := h.decodeVars(w, r, "type", "id")
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, h.addon.Streams(r.Context(), vars["type"], vars["id"]))
}

// decodeVars unescapes the named path variables. The raw "extra" variable is
// decoded later as a query string, so its decoded form is only validated here.
func (h *handler) decodeVars(w http.ResponseWriter, r *http.Request, names ...string) (map[string]string, bool) {
	raw := mux.Vars(r)
	out := make(map[string]string, len(names))
	for _, name := range names {
		v, err := url.PathUnescape(raw[name])
		if err != nil {
			h.logger.Warn().Err(err).Str("var", name).Str("path", r.URL.EscapedPath()).Msg("Invalid path escape")
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid path"})
			return nil, false
		}
		out[name] = v
	}
	return out, true
}

func cacheControl(h models.CacheHints) string {
	return "max-age=" + strconv.Itoa(h.CacheMaxAge) +
		", stale-while-revalidate=" + strconv.Itoa(h.StaleRevalidate) +
		", stale-if-error=" + strconv.Itoa(h.StaleError) +
		", public"
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger := config.GetLogger()
		logger.Error().Err(err).Msg("Failed to encode response")
	}
}

// corsMiddleware allows any origin; Stremio clients load addons cross-origin.
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "*")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// instrument counts requests of resource by response code
func instrument(resource string, next http.HandlerFunc) http.Handler {
	counter := metrics.AddonRequestsTotal.MustCurryWith(prometheus.Labels{"resource": resource})
	return promhttp.InstrumentHandlerCounter(counter, next)
}

// Serve serves srv on ln until ctx is done. It then shuts srv down and returns
// only after in-flight requests have finished or timeout has passed.
func Serve(ctx context.Context, srv *http.Server, ln net.Listener, timeout time.Duration) error {
	serveErr := make(chan error, 1)
	go func() {
		serveErr <- srv.Serve(ln)
	}()

	select {
	case err := <-serveErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve %s: %w", ln.Addr(), err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown %s: %w", ln.Addr(), err)
	}
	if err := <-serveErr; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("serve %s: %w", ln.Addr(), err)
	}
	return nil
}
