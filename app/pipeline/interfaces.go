package pipeline

import (
	"context"
	"time"

	"github.com/byeolnight/skywatch/app/article"
	"github.com/byeolnight/skywatch/app/backend"
)

type Classifier interface {
	Run(title, content string) (article.Classification, error)
}

type Normalizer interface {
	Run(raw string) string
}

type Detector interface {
	IsDuplicate(title string, known map[string]struct{}) bool
}

// Publisher is the content backend as seen from the pipeline: the publish
// write path plus the two read-only duplicate facilities.
type Publisher interface {
	Publish(ctx context.Context, post backend.Post) error
	RecentTitles(ctx context.Context, days int, category string) (map[string]struct{}, error)
	CheckDuplicate(ctx context.Context, title, content string) bool
}

// TitleStore is the local admitted-title cache.
type TitleStore interface {
	Recent(window time.Duration) map[string]struct{}
	All() map[string]struct{}
	Append(titles ...string) error
}

// Archive records successfully published articles for the stats surface.
// Archive failures never block publication.
type Archive interface {
	RecordPublished(title, source, category string, attempts int) error
}
