package addon

import (
	"context"
	"errors"
	"fmt"

	"github.com/getsentry/sentry-go"

	"github.com/vixsrc/stremio-addon/internal/apperrors"
	"github.com/vixsrc/stremio-addon/internal/identifier"
	"github.com/vixsrc/stremio-addon/internal/metrics"
	"github.com/vixsrc/stremio-addon/internal/models"
)

const (
	streamName      = "VixSRC"
	proxyStreamName = "VixSRC (Proxy)"
)

// Streams resolves id to a VixSrc page and offers it as a single stream,
// through MediaFlow when configured. Every failure yields an empty list.
func (s *Service) Streams(ctx context.Context, mediaType, id string) models.StreamResponse {
	logger := s.logger.With().Str("type", mediaType).Str("id", id).Logger()
	logger.Info().Msg("Stream requested")

	empty := models.StreamResponse{Streams: []models.Stream{}}

	res, err := s.resolver.Resolve(ctx, id, models.ParseMediaType(mediaType))
	if err != nil {
		outcome := classifyResolveError(err)
		metrics.StreamResolutionsTotal.WithLabelValues(outcome).Inc()

		switch outcome {
		case metrics.OutcomeMalformed:
			logger.Warn().Err(err).Msg("Unsupported stream identifier")
		case metrics.OutcomeLookupMiss:
			logger.Info().Err(err).Msg("No TMDB match for identifier")
		default:
			logger.Error().Err(err).Msg("Identifier lookup failed")
			captureException(ctx, err)
		}
		return empty
	}
	metrics.StreamResolutionsTotal.WithLabelValues(metrics.OutcomeResolved).Inc()

	stream := s.buildStream(res)
	logger.Debug().Str("providerUrl", res.ProviderURL).Str("title", stream.Title).Msg("Stream resolved")

	return models.StreamResponse{Streams: []models.Stream{stream}}
}

func (s *Service) buildStream(res *identifier.Resolution) models.Stream {
	title := "Guarda"
	if ep := res.Canonical.Episode; ep != nil {
		title = fmt.Sprintf("S%d E%d", ep.Season, ep.Episode)
	}

	if !s.cfg.MediaFlow.Enabled() {
		return models.Stream{
			Name:        streamName,
			Title:       title,
			ExternalURL: res.ProviderURL,
		}
	}

	return models.Stream{
		Name:  proxyStreamName,
		Title: title + " (Proxy)",
		URL:   mediaFlowURL(s.cfg.MediaFlow, res.ProviderURL),
	}
}

func classifyResolveError(err error) string {
	switch {
	case errors.Is(err, &apperrors.ErrMalformedIdentifier{}), errors.Is(err, identifier.ErrMissingEpisode):
		return metrics.OutcomeMalformed
	case errors.Is(err, &apperrors.ErrNotFound{}):
		return metrics.OutcomeLookupMiss
	default:
		return metrics.OutcomeLookupFailed
	}
}

// captureException reports err to the request's Sentry hub. It is a no-op
// when Sentry is not configured.
func captureException(ctx context.Context, err error) {
	hub := sentry.GetHubFromContext(ctx)
	if hub == nil {
		hub = sentry.CurrentHub()
	}
	hub.CaptureException(err)
}
