package models

// Manifest describes the capabilities of the addon
type Manifest struct {
	ID          string         `json:"id"`
	Version     string         `json:"version"`
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Logo        string         `json:"logo,omitempty"`
	Resources   []ResourceItem `json:"resources"`
	Types       []string       `json:"types"`
	Catalogs    []CatalogItem  `json:"catalogs"`
	IDPrefixes  []string       `json:"idPrefixes,omitempty"`
}

// ResourceItem declares one resource (catalog, meta, stream) and the ids it accepts
type ResourceItem struct {
	Name       string   `json:"name"`
	Types      []string `json:"types"`
	IDPrefixes []string `json:"idPrefixes,omitempty"`
}

// CatalogItem declares one catalog in the manifest
type CatalogItem struct {
	Type  string      `json:"type"`
	ID    string      `json:"id"`
	Name  string      `json:"name"`
	Extra []ExtraItem `json:"extra,omitempty"`
}

// ExtraItem declares an extra parameter a catalog understands
type ExtraItem struct {
	Name       string `json:"name"`
	IsRequired bool   `json:"isRequired"`
}

// MetaPreview is a catalog entry
type MetaPreview struct {
	ID          string  `json:"id"`
	Type        string  `json:"type"`
	Name        string  `json:"name"`
	Poster      *string `json:"poster"`
	Description string  `json:"description,omitempty"`
	ReleaseInfo string  `json:"releaseInfo"`
	IMDbRating  *string `json:"imdbRating"`
}

// Meta is the full description of a movie or series
type Meta struct {
	ID          string   `json:"id"`
	Type        string   `json:"type"`
	Name        string   `json:"name"`
	Poster      *string  `json:"poster"`
	Background  *string  `json:"background"`
	Description string   `json:"description,omitempty"`
	ReleaseInfo string   `json:"releaseInfo"`
	IMDbRating  *string  `json:"imdbRating"`
	Genres      []string `json:"genres"`
	Videos      []Video  `json:"videos,omitempty"`
}

// Video is a single episode of a series
type Video struct {
	ID        string  `json:"id"`
	Title     string  `json:"title"`
	Season    int     `json:"season"`
	Episode   int     `json:"episode"`
	Released  string  `json:"released"`
	Overview  string  `json:"overview,omitempty"`
	Thumbnail *string `json:"thumbnail"`
}

// Stream is a playable (or openable) source for a movie or episode
type Stream struct {
	Name        string `json:"name"`
	Title       string `json:"title"`
	URL         string `json:"url,omitempty"`
	ExternalURL string `json:"externalUrl,omitempty"`
}

// CacheHints are the caching fields Stremio reads from catalog responses
type CacheHints struct {
	CacheMaxAge     int `json:"cacheMaxAge,omitempty"`
	StaleRevalidate int `json:"staleRevalidate,omitempty"`
	StaleError      int `json:"staleError,omitempty"`
}

// CatalogResponse is the body of /catalog requests
type CatalogResponse struct {
	Metas   []MetaPreview `json:"metas"`
	HasMore bool          `json:"hasMore"`
	CacheHints
}

// MetaResponse is the body of /meta requests. Meta is null when nothing matched.
type MetaResponse struct {
	Meta *Meta `json:"meta"`
}

// StreamResponse is the body of /stream requests
type StreamResponse struct {
	Streams []Stream `json:"streams"`
}
