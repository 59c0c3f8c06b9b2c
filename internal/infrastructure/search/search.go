// Package search implements the web retrieval backends. Both talk to
// DuckDuckGo endpoints that need no API key: the HTML interface scraped
// for organic results, and the Instant Answer API for curated facts.
//
// Backends normalize to domain.SearchResult. Finding nothing is a normal
// outcome with an empty message, never an error; errors mean the backend
// itself failed.
package search

import (
	"net/http"
	"time"

	"github.com/ricardoamaro/ai-shell-assistant/internal/domain"
	"github.com/ricardoamaro/ai-shell-assistant/internal/ports"
)

const (
	searchTimeout    = 20 * time.Second
	maxScrapeResults = 5

	// browserUserAgent keeps the HTML endpoint from serving the bot page.
	browserUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"
)

// New selects the configured retrieval backend.
func New(cfg domain.Config, log ports.Logger) ports.SearchClient {
	client := &http.Client{Timeout: searchTimeout}

	switch cfg.SearchBackend() {
	case "instant":
		return NewInstantClient("", client, log)
	default:
		return NewScrapeClient("", client, log)
	}
}
