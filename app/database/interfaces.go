package database

import (
	"time"
)

type ArticleRepository interface {
	RecordPublished(title, source, category string, attempts int) error
	GetRecent(limit int) ([]Article, error)
	GetCount() (int, error)
	GetCountSince(since time.Time) (int, error)
}

type RunRepository interface {
	RecordRun(run CrawlRun) error
	GetRecent(limit int) ([]CrawlRun, error)
	GetLastRun(category string) (*CrawlRun, error)
}
