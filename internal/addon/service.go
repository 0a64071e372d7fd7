// Package addon implements the Stremio resources served by the addon: the
// manifest, catalogs backed by TMDB listings, TMDB metadata and VixSrc streams.
package addon

import (
	"github.com/rs/zerolog"

	"github.com/vixsrc/stremio-addon/internal/config"
	"github.com/vixsrc/stremio-addon/internal/identifier"
	"github.com/vixsrc/stremio-addon/internal/tmdb"
)

// Service answers addon requests. Every method recovers from upstream failures
// by returning an empty result, so a response is always produced.
type Service struct {
	tmdb     tmdb.Client
	resolver *identifier.Resolver
	cfg      *config.Config
	catalogs []catalogDefinition
	logger   zerolog.Logger
}

// NewService wires the addon resources to TMDB. The TMDB client also serves as
// the IMDb lookup of the identifier resolver.
func NewService(cfg *config.Config, tmdbClient tmdb.Client) *Service {
	return &Service{
		tmdb:     tmdbClient,
		resolver: identifier.NewResolver(tmdbClient, cfg),
		cfg:      cfg,
		catalogs: defaultCatalogs(),
		logger:   config.GetLogger(),
	}
}
