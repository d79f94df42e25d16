package pipeline

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/byeolnight/skywatch/app/article"
	"github.com/byeolnight/skywatch/app/backend"
)

// Outcome is the terminal state of one candidate's admission.
type Outcome string

const (
	OutcomeInvalid          Outcome = "invalid"
	OutcomeRejected         Outcome = "rejected"
	OutcomeSkippedDuplicate Outcome = "skipped_duplicate"
	OutcomePublished        Outcome = "published"
	OutcomeFailed           Outcome = "failed"
)

// Summary is what a pipeline run reports back to its trigger. Individual
// candidate failures never surface past this.
type Summary struct {
	Total      int `json:"total"`
	Success    int `json:"success"`
	Rejected   int `json:"rejected"`
	Duplicates int `json:"duplicates"`
	Failed     int `json:"failed"`
	Invalid    int `json:"invalid"`
}

type Options struct {
	// MaxAttempts bounds publish attempts per candidate, duplicates and
	// rejections excluded.
	MaxAttempts int
	// RecheckOnRetry re-runs the server-side duplicate check between publish
	// attempts. Off means only the pre-publish check applies.
	RecheckOnRetry bool
	// RetentionDays is the remote registry lookback window.
	RetentionDays int
	// RecentWindow is the local cache window for fast in-run dedup.
	RecentWindow time.Duration
	// AuthorID is attached to published news posts, EventAuthorID to events.
	AuthorID      string
	EventAuthorID string
}

const (
	minTitleRunes   = 10
	minContentRunes = 20
)

// Pipeline admits scraped candidates: classify, normalize, duplicate-check,
// publish with bounded retry. Candidates are processed strictly one at a
// time; each publish is a blocking call with the HTTP client's timeout.
type Pipeline struct {
	classifier Classifier
	normalizer Normalizer
	detector   Detector
	publisher  Publisher
	cache      TitleStore
	archive    Archive
	opts       Options
}

func New(classifier Classifier, normalizer Normalizer, detector Detector,
	publisher Publisher, cache TitleStore, archive Archive, opts Options) *Pipeline {
	if opts.MaxAttempts <= 0 {
		opts.MaxAttempts = 5
	}
	if opts.RetentionDays <= 0 {
		opts.RetentionDays = 7
	}
	if opts.RecentWindow <= 0 {
		opts.RecentWindow = 30 * time.Minute
	}
	return &Pipeline{
		classifier: classifier,
		normalizer: normalizer,
		detector:   detector,
		publisher:  publisher,
		cache:      cache,
		archive:    archive,
		opts:       opts,
	}
}

// Run processes a batch sequentially and reports totals. No candidate error
// aborts the batch.
func (p *Pipeline) Run(ctx context.Context, candidates []article.Candidate) Summary {
	started := time.Now()
	summary := Summary{Total: len(candidates)}

	for _, cand := range candidates {
		switch p.Admit(ctx, cand) {
		case OutcomePublished:
			summary.Success++
		case OutcomeRejected:
			summary.Rejected++
		case OutcomeSkippedDuplicate:
			summary.Duplicates++
		case OutcomeFailed:
			summary.Failed++
		case OutcomeInvalid:
			summary.Invalid++
		}
	}

	slog.Info("Pipeline run completed",
		"duration", time.Since(started),
		"total", summary.Total,
		"published", summary.Success,
		"rejected", summary.Rejected,
		"duplicates", summary.Duplicates,
		"failed", summary.Failed,
		"invalid", summary.Invalid)

	return summary
}

// Admit runs one candidate through the admission state machine and returns
// its terminal outcome. At most one publish succeeds per title.
func (p *Pipeline) Admit(ctx context.Context, cand article.Candidate) Outcome {
	if !p.valid(cand) {
		slog.Debug("Dropping malformed candidate", "title", cand.Title, "source", cand.Source)
		return OutcomeInvalid
	}

	var cls article.Classification
	if cand.Kind == article.KindNews {
		var err error
		cls, err = p.classifier.Run(cand.Title, cand.Content)
		if err != nil {
			// Fail open: a classifier defect must never block publication.
			slog.Warn("Classifier failed, force-accepting candidate", "title", cand.Title, "error", err)
			cls = article.FallbackClassification(cand.Title)
		}
		if !cls.Accepted() {
			slog.Debug("Candidate rejected", "title", cand.Title, "reason", cls.Reason)
			return OutcomeRejected
		}
	}

	body := p.normalizer.Run(cand.Content)
	content := article.BuildPayload(cand, body, cls)

	if p.detector.IsDuplicate(cand.Title, p.knownTitles(ctx, cand.Kind)) {
		slog.Info("Duplicate candidate skipped", "title", cand.Title, "source", cand.Source)
		return OutcomeSkippedDuplicate
	}

	authorID := p.opts.AuthorID
	if cand.Kind == article.KindEvent && p.opts.EventAuthorID != "" {
		authorID = p.opts.EventAuthorID
	}

	post := backend.Post{
		Title:    cand.Title,
		Content:  content,
		Type:     string(cand.Kind),
		AuthorID: authorID,
		Category: string(cand.Kind),
		Source:   cand.Source,
	}

	for attempt := 1; attempt <= p.opts.MaxAttempts; attempt++ {
		if attempt > 1 && p.opts.RecheckOnRetry &&
			p.publisher.CheckDuplicate(ctx, cand.Title, cand.Content) {
			slog.Info("Duplicate detected mid-retry", "title", cand.Title, "attempt", attempt)
			return OutcomeSkippedDuplicate
		}

		err := p.publisher.Publish(ctx, post)
		if err == nil {
			p.recordPublished(cand, attempt)
			slog.Info("Candidate published", "title", cand.Title, "source", cand.Source, "attempt", attempt)
			return OutcomePublished
		}
		slog.Warn("Publish attempt failed", "title", cand.Title, "attempt", attempt, "error", err)
	}

	slog.Error("Candidate failed after maximum publish attempts",
		"title", cand.Title, "source", cand.Source, "attempts", p.opts.MaxAttempts)
	return OutcomeFailed
}

func (p *Pipeline) valid(cand article.Candidate) bool {
	if len([]rune(strings.TrimSpace(cand.Title))) < minTitleRunes {
		return false
	}
	if c := strings.TrimSpace(cand.Content); c != "" && len([]rune(c)) < minContentRunes {
		return false
	}
	return true
}

// knownTitles unions the remote registry with the local cache. A registry
// failure widens the local window to the full retention horizon instead of
// blocking the run.
func (p *Pipeline) knownTitles(ctx context.Context, kind article.Kind) map[string]struct{} {
	known, err := p.publisher.RecentTitles(ctx, p.opts.RetentionDays, string(kind))
	if err != nil {
		slog.Warn("Title registry unavailable, falling back to local cache", "error", err)
		return p.cache.All()
	}

	for title := range p.cache.Recent(p.opts.RecentWindow) {
		known[title] = struct{}{}
	}
	return known
}

func (p *Pipeline) recordPublished(cand article.Candidate, attempts int) {
	if err := p.cache.Append(cand.Title); err != nil {
		slog.Error("Failed to update title cache", "title", cand.Title, "error", err)
	}
	if p.archive == nil {
		return
	}
	if err := p.archive.RecordPublished(cand.Title, cand.Source, string(cand.Kind), attempts); err != nil {
		slog.Error("Failed to archive published article", "title", cand.Title, "error", err)
	}
}
