package api

import (
	"context"

	"github.com/byeolnight/skywatch/app/database"
	"github.com/byeolnight/skywatch/app/pipeline"
)

// CrawlRunner triggers an on-demand scrape-and-admit run for one category.
type CrawlRunner interface {
	Crawl(ctx context.Context, category string) pipeline.Summary
}

// CacheInfo is the read-only view of the local title cache exposed on the
// status endpoints.
type CacheInfo interface {
	Size() int
}

type Handler struct {
	articleRepo database.ArticleRepository
	runRepo     database.RunRepository
	cache       CacheInfo
	runner      CrawlRunner
	sourceCount int
}
