package tasks

import (
	"context"
	"log/slog"
)

type CrawlTask struct {
	Task
	runner *Runner
}

func NewCrawlNewsTask(runner *Runner) *CrawlTask {
	return &CrawlTask{
		Task:   NewTask(TaskTypeCrawlNews, "NEWS"),
		runner: runner,
	}
}

func NewCrawlEventsTask(runner *Runner) *CrawlTask {
	return &CrawlTask{
		Task:   NewTask(TaskTypeCrawlEvents, "EVENT"),
		runner: runner,
	}
}

func (t *CrawlTask) Execute(ctx context.Context) error {

	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	summary := t.runner.Crawl(ctx, t.Category)

	slog.Info("Task completed",
		"type", string(t.Type),
		"category", t.Category,
		"duration", t.GetDuration(),
		"total", summary.Total,
		"published", summary.Success,
		"rejected", summary.Rejected,
		"duplicates", summary.Duplicates,
		"failed", summary.Failed,
		"invalid", summary.Invalid)

	return nil
}
