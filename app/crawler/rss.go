package crawler

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/mmcdole/gofeed"

	"github.com/byeolnight/skywatch/app/article"
)

// RSSParser turns a fetched feed document into candidates for one source.
type RSSParser struct {
	gofeedParser *gofeed.Parser
}

func NewRSSParser() *RSSParser {
	return &RSSParser{
		gofeedParser: gofeed.NewParser(),
	}
}

func (p *RSSParser) Run(data []byte, source Source) ([]article.Candidate, error) {
	feed, err := p.gofeedParser.Parse(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to parse feed: %w", err)
	}

	candidates := make([]article.Candidate, 0, source.Limit)
	for _, item := range feed.Items {
		if len(candidates) >= source.Limit {
			break
		}

		title := cleanFeedTitle(item.Title)
		if title == "" {
			continue
		}

		content := item.Content
		if content == "" {
			content = item.Description
		}

		candidate := article.Candidate{
			Title:   title,
			Content: htmlText(content),
			Source:  source.Attribution,
			URL:     item.Link,
			Kind:    article.Kind(source.Category),
		}
		if item.PublishedParsed != nil {
			candidate.PublishedAt = item.PublishedParsed
		}

		candidates = append(candidates, candidate)
	}

	return candidates, nil
}

// cleanFeedTitle strips the trailing " - Publisher" suffix that aggregator
// feeds append, keeping it only when removal would leave too little title.
func cleanFeedTitle(title string) string {
	title = strings.TrimSpace(title)

	if idx := strings.LastIndex(title, " - "); idx > 0 {
		head := strings.TrimSpace(title[:idx])
		if len([]rune(head)) >= 10 {
			return head
		}
	}

	return title
}
