package crawler

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/byeolnight/skywatch/app/article"
)

const fetchTimeout = 30 * time.Second

// Crawler fetches every configured source of a category and returns the
// scraped candidates. A failing source is logged and skipped; the scrape
// never aborts the whole run.
type Crawler struct {
	sources   []Source
	rss       *RSSParser
	html      *HTMLParser
	extractor *ContentExtractor

	httpClient *http.Client
	userAgent  string
}

func New(sources []Source, httpClient *http.Client, userAgent string) *Crawler {
	return &Crawler{
		sources:    sources,
		rss:        NewRSSParser(),
		html:       NewHTMLParser(),
		extractor:  NewContentExtractor(),
		httpClient: httpClient,
		userAgent:  userAgent,
	}
}

// Run scrapes all enabled sources of the given category.
func (c *Crawler) Run(ctx context.Context, category string) []article.Candidate {
	var candidates []article.Candidate

	for _, source := range c.sources {
		if !source.Enabled || source.Category != category {
			continue
		}

		scraped, err := c.scrapeSource(ctx, source)
		if err != nil {
			slog.Warn("Source scrape failed, skipping", "source", source.Name, "error", err)
			continue
		}

		slog.Info("Source scraped", "source", source.Name, "candidates", len(scraped))
		candidates = append(candidates, scraped...)
	}

	return candidates
}

func (c *Crawler) scrapeSource(ctx context.Context, source Source) ([]article.Candidate, error) {
	data, err := c.fetch(ctx, source.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch listing: %w", err)
	}

	var candidates []article.Candidate
	switch source.Kind {
	case "rss":
		candidates, err = c.rss.Run(data, source)
	case "html":
		candidates, err = c.html.Run(data, source)
	default:
		return nil, fmt.Errorf("unsupported source kind: %s", source.Kind)
	}
	if err != nil {
		return nil, err
	}

	if source.Extract {
		c.extractContents(ctx, candidates)
	}

	return candidates, nil
}

// extractContents fills in candidate bodies by fetching each article page.
// Extraction failures leave the listing-provided content in place.
func (c *Crawler) extractContents(ctx context.Context, candidates []article.Candidate) {
	for i := range candidates {
		if candidates[i].URL == "" {
			continue
		}

		data, err := c.fetch(ctx, candidates[i].URL)
		if err != nil {
			slog.Debug("Failed to fetch article page", "url", candidates[i].URL, "error", err)
			continue
		}

		text, err := c.extractor.Run(data)
		if err != nil {
			slog.Debug("Failed to extract article content", "url", candidates[i].URL, "error", err)
			continue
		}

		candidates[i].Content = text
	}
}

func (c *Crawler) fetch(ctx context.Context, url string) ([]byte, error) {
	timeoutCtx, cancel := context.WithTimeout(ctx, fetchTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(timeoutCtx, "GET", url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP error: %d %s", resp.StatusCode, resp.Status)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	return data, nil
}
