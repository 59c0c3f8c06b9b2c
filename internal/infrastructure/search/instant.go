package search

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/ricardoamaro/ai-shell-assistant/internal/domain"
	"github.com/ricardoamaro/ai-shell-assistant/internal/ports"
)

const defaultInstantEndpoint = "https://api.duckduckgo.com/"

// InstantClient queries the DuckDuckGo Instant Answer API. It covers
// curated facts well and returns nothing for most open-ended queries,
// which is why scrape is the default backend.
type InstantClient struct {
	baseURL    string
	httpClient *http.Client
	log        ports.Logger
}

// NewInstantClient builds the instant-answer backend; an empty baseURL
// selects the public endpoint.
func NewInstantClient(baseURL string, client *http.Client, log ports.Logger) *InstantClient {
	if baseURL == "" {
		baseURL = defaultInstantEndpoint
	}
	return &InstantClient{baseURL: baseURL, httpClient: client, log: log}
}

func (c *InstantClient) Name() string {
	return "instant"
}

// Search implements ports.SearchClient.
func (c *InstantClient) Search(ctx context.Context, query string) (domain.SearchResult, error) {
	reqURL := c.baseURL + "?q=" + url.QueryEscape(query) + "&format=json&no_html=1&no_redirect=1&skip_disambig=1"

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return domain.SearchResult{}, fmt.Errorf("instant: create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return domain.SearchResult{}, fmt.Errorf("instant: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return domain.SearchResult{}, fmt.Errorf("instant: %s", resp.Status)
	}

	var decoded instantAnswer
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return domain.SearchResult{}, fmt.Errorf("instant: decode response: %w", err)
	}

	message := decoded.bestMessage()
	if c.log != nil {
		c.log.Debug("instant search done", map[string]interface{}{"query": query, "found": message != ""})
	}

	return domain.SearchResult{Message: message, Source: c.Name()}, nil
}

type instantAnswer struct {
	Answer         string `json:"Answer"`
	AbstractText   string `json:"AbstractText"`
	AbstractSource string `json:"AbstractSource"`
	Definition     string `json:"Definition"`
	Heading        string `json:"Heading"`
	RelatedTopics  []struct {
		Text string `json:"Text"`
	} `json:"RelatedTopics"`
}

// bestMessage picks the most direct field the API filled in. Order
// matters: a computed answer beats an abstract beats a definition beats
// related-topic noise.
func (a instantAnswer) bestMessage() string {
	if text := strings.TrimSpace(a.Answer); text != "" {
		return text
	}
	if text := strings.TrimSpace(a.AbstractText); text != "" {
		if a.AbstractSource != "" {
			return text + " (source: " + a.AbstractSource + ")"
		}
		return text
	}
	if text := strings.TrimSpace(a.Definition); text != "" {
		return text
	}
	for _, topic := range a.RelatedTopics {
		if text := strings.TrimSpace(topic.Text); text != "" {
			return text
		}
	}
	return ""
}

var _ ports.SearchClient = (*InstantClient)(nil)
