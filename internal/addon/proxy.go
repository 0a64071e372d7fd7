package addon

import (
	"net/url"
	"strings"

	"github.com/vixsrc/stremio-addon/internal/config"
)

// mediaFlowURL routes a provider page through the MediaFlow VixCloud extractor,
// which redirects to the playable stream.
func mediaFlowURL(mf config.MediaFlowConfig, providerURL string) string {
	var b strings.Builder
	b.WriteString(strings.TrimRight(mf.URL, "/"))
	b.WriteString("/extractor/video?host=VixCloud&d=")
	b.WriteString(url.QueryEscape(providerURL))
	b.WriteString("&redirect_stream=true&additionalProp1=%7B%7D&api_password=")
	b.WriteString(url.QueryEscape(mf.APIPassword))
	return b.String()
}
