package database

import (
	"time"
)

// Article is the archive record of a successfully published post.
type Article struct {
	ID          int64
	Title       string
	Source      string
	Category    string // NEWS or EVENT
	Attempts    int    // publish attempts it took, 1 on first success
	PublishedAt time.Time
}

// CrawlRun is the stored outcome of one pipeline run.
type CrawlRun struct {
	ID         int64
	Category   string
	StartedAt  time.Time
	FinishedAt time.Time
	Total      int
	Published  int
	Rejected   int
	Duplicates int
	Failed     int
	Invalid    int
}
