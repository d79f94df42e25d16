package crawler

import (
	"bytes"
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/byeolnight/skywatch/app/article"
)

// HTMLParser scrapes candidates out of a listing page using the source's
// CSS selectors.
type HTMLParser struct{}

func NewHTMLParser() *HTMLParser {
	return &HTMLParser{}
}

func (p *HTMLParser) Run(data []byte, source Source) ([]article.Candidate, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}

	linkSelector := source.Selectors.Link
	if linkSelector == "" {
		linkSelector = source.Selectors.Title
	}

	candidates := make([]article.Candidate, 0, source.Limit)
	doc.Find(source.Selectors.Item).EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		title := strings.TrimSpace(sel.Find(source.Selectors.Title).First().Text())
		if title == "" {
			return true
		}

		link, _ := sel.Find(linkSelector).First().Attr("href")
		link = p.resolveLink(source, link)

		candidates = append(candidates, article.Candidate{
			Title:  title,
			Source: source.Attribution,
			URL:    link,
			Kind:   article.Kind(source.Category),
		})

		return len(candidates) < source.Limit
	})

	return candidates, nil
}

// resolveLink absolutizes relative hrefs against the source's base URL, or
// the listing URL when no base is configured.
func (p *HTMLParser) resolveLink(source Source, link string) string {
	if link == "" {
		return ""
	}

	base := source.BaseURL
	if base == "" {
		base = source.URL
	}

	baseURL, err := url.Parse(base)
	if err != nil {
		return link
	}
	ref, err := url.Parse(link)
	if err != nil {
		return link
	}

	return baseURL.ResolveReference(ref).String()
}

// htmlText flattens an HTML fragment to plain text. Non-HTML input passes
// through unchanged apart from whitespace trimming.
func htmlText(fragment string) string {
	if fragment == "" {
		return ""
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		return strings.TrimSpace(fragment)
	}

	return strings.TrimSpace(doc.Text())
}
