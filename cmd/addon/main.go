package main

import (
	"context"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	sentryhttp "github.com/getsentry/sentry-go/http"
	"golang.org/x/sync/errgroup"

	"github.com/vixsrc/stremio-addon/internal/addon"
	"github.com/vixsrc/stremio-addon/internal/config"
	"github.com/vixsrc/stremio-addon/internal/metrics"
	"github.com/vixsrc/stremio-addon/internal/server"
	"github.com/vixsrc/stremio-addon/internal/tmdb"
)

const (
	shutdownTimeout   = 10 * time.Second
	sentryFlushPeriod = 2 * time.Second
)

func main() {
	cfg := config.GetConfig()
	logger := config.GetLogger()

	if err := cfg.Validate(); err != nil {
		logger.Fatal().Err(err).Msg("Invalid configuration")
	}

	logger.Info().
		Str("tmdb_base_url", cfg.TMDB.BaseURL).
		Str("tmdb_language", cfg.TMDB.Language).
		Str("provider_base_url", cfg.Provider.BaseURL).
		Bool("mediaflow_enabled", cfg.MediaFlow.Enabled()).
		Int("server_port", cfg.Server.Port).
		Str("server_address", cfg.Server.Address).
		Msg("Application started with configuration")

	if cfg.Sentry.DSN != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:         cfg.Sentry.DSN,
			Environment: cfg.Sentry.Environment,
			Release:     "vixsrc-stremio-addon@" + addon.Version,
		}); err != nil {
			logger.Fatal().Err(err).Msg("Failed to initialize Sentry")
		}
		logger.Info().Str("environment", cfg.Sentry.Environment).Msg("Sentry error reporting enabled")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		reportFatal(sentry.CurrentHub(), err)
		logger.Fatal().Err(err).Msg("Addon stopped with an error")
	}

	sentry.Flush(sentryFlushPeriod)
	logger.Info().Msg("Server stopped gracefully")
}

// run serves the addon, and the metrics endpoint when enabled, until ctx is
// cancelled or one of the servers fails. It returns once both have drained.
func run(ctx context.Context, cfg *config.Config) error {
	logger := config.GetLogger()

	service := addon.NewService(cfg, tmdb.NewClient(cfg))

	var handler http.Handler = server.NewRouter(service)
	handler = sentryhttp.New(sentryhttp.Options{Repanic: true}).Handle(handler)
	addonServer := server.NewHTTPServer(cfg, handler)

	servers := []*http.Server{addonServer}
	if cfg.Metrics.Enabled {
		servers = append(servers, metrics.NewHTTPServer(cfg.Server.Address, cfg.Metrics.Port))
	}

	listeners := make([]net.Listener, 0, len(servers))
	for _, srv := range servers {
		ln, err := net.Listen("tcp", srv.Addr)
		if err != nil {
			for _, open := range listeners {
				_ = open.Close()
			}
			return err
		}
		listeners = append(listeners, ln)
	}

	g, ctx := errgroup.WithContext(ctx)
	for i, srv := range servers {
		logger.Info().Str("address", srv.Addr).Msg("Starting HTTP server")
		g.Go(func() error {
			return server.Serve(ctx, srv, listeners[i], shutdownTimeout)
		})
	}

	<-ctx.Done()
	logger.Info().Msg("Shutting down")
	return g.Wait()
}

// reportFatal sends err to Sentry and waits for delivery, since the fatal log
// that follows exits without running deferred calls.
func reportFatal(hub *sentry.Hub, err error) {
	hub.CaptureException(err)
	hub.Flush(sentryFlushPeriod)
}
