package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
)

const apiKeyHeader = "X-Crawler-API-Key"

// Post is the publish request body consumed by the content backend.
type Post struct {
	Title    string `json:"title"`
	Content  string `json:"content"`
	Type     string `json:"type"`
	AuthorID string `json:"authorId,omitempty"`
	Category string `json:"category,omitempty"`
	Source   string `json:"source,omitempty"`
}

// Client talks to the content-management backend: publishing posts, reading
// the title registry and pre-checking duplicates. Publication is the only
// write path; the registry itself is maintained by the backend.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	userAgent  string
}

func NewClient(baseURL, apiKey, userAgent string, httpClient *http.Client) *Client {
	return &Client{
		baseURL:    baseURL,
		apiKey:     apiKey,
		httpClient: httpClient,
		userAgent:  userAgent,
	}
}

// Publish POSTs a post to the elevated-privilege crawler endpoint. Anything
// other than HTTP 200 is an error; callers treat every error here as
// retryable.
func (c *Client) Publish(ctx context.Context, post Post) error {
	endpoint := "/api/admin/crawler/news"
	if post.Type == "EVENT" {
		endpoint = "/api/admin/crawler/events"
	}

	body, err := json.Marshal(post)
	if err != nil {
		return fmt.Errorf("failed to encode post: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	if c.apiKey != "" {
		req.Header.Set(apiKeyHeader, c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to publish: %w", err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("publish rejected: HTTP %d", resp.StatusCode)
	}
	return nil
}

// RecentTitles fetches the authoritative set of titles published within the
// last N days for a category. The caller is expected to fail open on error.
func (c *Client) RecentTitles(ctx context.Context, days int, category string) (map[string]struct{}, error) {
	q := url.Values{}
	q.Set("days", strconv.Itoa(days))
	q.Set("category", category)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.baseURL+"/api/public/posts/titles?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch recent titles: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("title registry error: HTTP %d", resp.StatusCode)
	}

	var payload struct {
		Titles []string `json:"titles"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("failed to decode title registry response: %w", err)
	}

	titles := make(map[string]struct{}, len(payload.Titles))
	for _, t := range payload.Titles {
		titles[t] = struct{}{}
	}
	return titles, nil
}

// CheckDuplicate asks the backend whether a title is already published. Only
// the first 100 characters of content travel with the request. Errors fail
// open as "not a duplicate" so a registry outage cannot block publishing.
func (c *Client) CheckDuplicate(ctx context.Context, title, content string) bool {
	if runes := []rune(content); len(runes) > 100 {
		content = string(runes[:100])
	}

	body, err := json.Marshal(map[string]string{"title": title, "content": content})
	if err != nil {
		return false
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/api/admin/crawler/check-duplicate", bytes.NewReader(body))
	if err != nil {
		return false
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	if c.apiKey != "" {
		req.Header.Set(apiKeyHeader, c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		slog.Warn("Server duplicate check failed", "title", title, "error", err)
		return false
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		slog.Warn("Server duplicate check failed", "title", title, "status", resp.StatusCode)
		return false
	}

	var payload struct {
		IsDuplicate bool `json:"isDuplicate"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		slog.Warn("Server duplicate check returned malformed body", "title", title, "error", err)
		return false
	}
	return payload.IsDuplicate
}
