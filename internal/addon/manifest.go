package addon

import "github.com/vixsrc/stremio-addon/internal/models"

const (
	addonID   = "org.stremio.vixsrc.addon"
	// Version is the addon version advertised in the manifest.
	Version   = "1.2.5"
	addonName = "VixSrc streams addon"
	addonLogo = "https://icon-library.com/images/letter-v-icon/letter-v-icon-8.jpg"
)

// Manifest describes the addon. Streams are offered for TMDB ids and for IMDb
// ids coming from other catalogs; metadata only for TMDB ids.
func (s *Service) Manifest() models.Manifest {
	catalogs := make([]models.CatalogItem, 0, len(s.catalogs))
	catalogTypes := []string{}
	seenTypes := map[string]bool{}
	for _, c := range s.catalogs {
		catalogs = append(catalogs, c.item)
		if !seenTypes[c.item.Type] {
			seenTypes[c.item.Type] = true
			catalogTypes = append(catalogTypes, c.item.Type)
		}
	}

	return models.Manifest{
		ID:          addonID,
		Version:     Version,
		Name:        addonName,
		Description: "Recupera flussi da VixSrc per film e serie TV",
		Logo:        addonLogo,
		Resources: []models.ResourceItem{
			{Name: "catalog", Types: catalogTypes},
			{Name: "stream", Types: []string{"movie", "series"}, IDPrefixes: []string{"tmdb:", "tt", "imdb:"}},
			{Name: "meta", Types: []string{"movie", "series"}, IDPrefixes: []string{"tmdb:"}},
		},
		Types:    []string{"movie", "series"},
		Catalogs: catalogs,
	}
}
