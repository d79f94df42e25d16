package crawler

import (
	"fmt"
	"log/slog"
	"strings"

	"codeberg.org/readeck/go-readability"
)

// ContentExtractor pulls the readable article body out of a fetched page.
type ContentExtractor struct{}

func NewContentExtractor() *ContentExtractor {
	return &ContentExtractor{}
}

// Run returns the article body as plain text.
func (e *ContentExtractor) Run(data []byte) (string, error) {
	if len(data) == 0 {
		return "", fmt.Errorf("HTML data is empty")
	}

	page, err := readability.FromReader(strings.NewReader(string(data)), nil)
	if err != nil {
		return "", fmt.Errorf("failed to extract content: %w", err)
	}

	if page.Content == "" {
		return "", fmt.Errorf("no content extracted from HTML data")
	}

	text := htmlText(page.Content)
	if text == "" {
		return "", fmt.Errorf("extracted content is empty")
	}

	slog.Debug("Content extracted successfully",
		"title", page.Title,
		"content_length", len(text))

	return text, nil
}
