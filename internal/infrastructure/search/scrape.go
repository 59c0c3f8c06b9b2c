package search

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"golang.org/x/net/html"

	"github.com/ricardoamaro/ai-shell-assistant/internal/domain"
	"github.com/ricardoamaro/ai-shell-assistant/internal/ports"
)

const defaultScrapeEndpoint = "https://html.duckduckgo.com/html/"

// ScrapeClient queries the DuckDuckGo HTML interface and extracts organic
// results from the markup.
type ScrapeClient struct {
	baseURL    string
	httpClient *http.Client
	log        ports.Logger
}

// NewScrapeClient builds the scraping backend; an empty baseURL selects
// the public endpoint.
func NewScrapeClient(baseURL string, client *http.Client, log ports.Logger) *ScrapeClient {
	if baseURL == "" {
		baseURL = defaultScrapeEndpoint
	}
	return &ScrapeClient{baseURL: baseURL, httpClient: client, log: log}
}

func (c *ScrapeClient) Name() string {
	return "scrape"
}

// Search implements ports.SearchClient.
func (c *ScrapeClient) Search(ctx context.Context, query string) (domain.SearchResult, error) {
	reqURL := c.baseURL + "?q=" + url.QueryEscape(query)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return domain.SearchResult{}, fmt.Errorf("scrape: create request: %w", err)
	}
	req.Header.Set("User-Agent", browserUserAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")
	req.Header.Set("Accept-Language", "en-US,en;q=0.5")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return domain.SearchResult{}, fmt.Errorf("scrape: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return domain.SearchResult{}, fmt.Errorf("scrape: %s", resp.Status)
	}

	// 1MB is plenty for a results page and bounds hostile responses.
	entries, err := parseScrapedResults(io.LimitReader(resp.Body, 1<<20), maxScrapeResults)
	if err != nil {
		return domain.SearchResult{}, fmt.Errorf("scrape: %w", err)
	}

	if c.log != nil {
		c.log.Debug("scrape search done", map[string]interface{}{"query": query, "results": len(entries)})
	}

	return domain.SearchResult{Message: formatEntries(entries), Source: c.Name()}, nil
}

type scrapedEntry struct {
	Title   string
	Snippet string
}

// parseScrapedResults walks the result divs of the DuckDuckGo HTML page.
// Each result carries an anchor classed result__a (title) and one classed
// result__snippet.
func parseScrapedResults(r io.Reader, limit int) ([]scrapedEntry, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

	var entries []scrapedEntry

	var findResults func(*html.Node)
	findResults = func(n *html.Node) {
		if len(entries) >= limit {
			return
		}
		if n.Type == html.ElementNode && n.Data == "div" {
			class := attrValue(n, "class")
			if strings.Contains(class, "result") && strings.Contains(class, "results_links") {
				if entry := extractEntry(n); entry.Title != "" {
					entries = append(entries, entry)
				}
				return
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			findResults(c)
		}
	}
	findResults(doc)

	return entries, nil
}

func extractEntry(n *html.Node) scrapedEntry {
	var entry scrapedEntry

	var extract func(*html.Node)
	extract = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "a" {
			class := attrValue(n, "class")
			switch {
			case strings.Contains(class, "result__snippet"):
				entry.Snippet = textContent(n)
			case strings.Contains(class, "result__a"):
				entry.Title = textContent(n)
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			extract(c)
		}
	}
	extract(n)

	return entry
}

func formatEntries(entries []scrapedEntry) string {
	var lines []string
	for _, entry := range entries {
		if entry.Snippet == "" {
			lines = append(lines, entry.Title)
			continue
		}
		lines = append(lines, entry.Title+": "+entry.Snippet)
	}
	return strings.Join(lines, "\n")
}

func attrValue(n *html.Node, key string) string {
	for _, attr := range n.Attr {
		if attr.Key == key {
			return attr.Val
		}
	}
	return ""
}

func textContent(n *html.Node) string {
	var sb strings.Builder
	var getText func(*html.Node)
	getText = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(strings.TrimSpace(n.Data))
			sb.WriteString(" ")
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			getText(c)
		}
	}
	getText(n)
	return strings.TrimSpace(sb.String())
}

var _ ports.SearchClient = (*ScrapeClient)(nil)
