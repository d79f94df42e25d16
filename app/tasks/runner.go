package tasks

import (
	"context"
	"log/slog"
	"time"

	"github.com/byeolnight/skywatch/app/article"
	"github.com/byeolnight/skywatch/app/database"
	"github.com/byeolnight/skywatch/app/pipeline"
)

// Scraper produces candidates for one category.
type Scraper interface {
	Run(ctx context.Context, category string) []article.Candidate
}

// Admitter runs the admission pipeline over a batch of candidates.
type Admitter interface {
	Run(ctx context.Context, candidates []article.Candidate) pipeline.Summary
}

// Runner executes one complete scrape-and-admit cycle. It backs both the
// scheduled tasks and the manual API triggers.
type Runner struct {
	scraper  Scraper
	admitter Admitter
	runRepo  database.RunRepository
}

func NewRunner(scraper Scraper, admitter Admitter, runRepo database.RunRepository) *Runner {
	return &Runner{
		scraper:  scraper,
		admitter: admitter,
		runRepo:  runRepo,
	}
}

// Crawl scrapes every enabled source of the category and admits the results.
// The run outcome is recorded in the run history; a recording failure is
// logged and does not affect the returned summary.
func (r *Runner) Crawl(ctx context.Context, category string) pipeline.Summary {
	started := time.Now()

	candidates := r.scraper.Run(ctx, category)
	summary := r.admitter.Run(ctx, candidates)

	if r.runRepo != nil {
		run := database.CrawlRun{
			Category:   category,
			StartedAt:  started,
			FinishedAt: time.Now(),
			Total:      summary.Total,
			Published:  summary.Success,
			Rejected:   summary.Rejected,
			Duplicates: summary.Duplicates,
			Failed:     summary.Failed,
			Invalid:    summary.Invalid,
		}
		if err := r.runRepo.RecordRun(run); err != nil {
			slog.Error("Failed to record crawl run", "category", category, "error", err)
		}
	}

	return summary
}
