package api

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/byeolnight/skywatch/app/database"
	"github.com/byeolnight/skywatch/app/pipeline"
)

func NewHandler(articleRepo database.ArticleRepository, runRepo database.RunRepository,
	cache CacheInfo, runner CrawlRunner, sourceCount int) *Handler {
	return &Handler{
		articleRepo: articleRepo,
		runRepo:     runRepo,
		cache:       cache,
		runner:      runner,
		sourceCount: sourceCount,
	}
}

func (h *Handler) GetHealth(c *gin.Context) {
	health := map[string]interface{}{
		"timestamp": time.Now().In(time.Local).Format(time.RFC3339),
	}

	if count, err := h.articleRepo.GetCount(); err == nil {
		health["articles"] = count
	}

	health["loaded_sources"] = h.sourceCount
	health["cache_entries"] = h.cache.Size()

	c.JSON(http.StatusOK, health)
}

func (h *Handler) GetStats(c *gin.Context) {
	stats := map[string]interface{}{
		"loaded_sources": h.sourceCount,
		"cache_entries":  h.cache.Size(),
	}

	if total, err := h.articleRepo.GetCount(); err == nil {
		stats["articles_total"] = total
	}
	if recent, err := h.articleRepo.GetCountSince(time.Now().Add(-24 * time.Hour)); err == nil {
		stats["articles_last_24h"] = recent
	}

	for _, category := range []string{"NEWS", "EVENT"} {
		run, err := h.runRepo.GetLastRun(category)
		if err != nil || run == nil {
			continue
		}
		stats["last_run_"+category] = map[string]interface{}{
			"started_at":  run.StartedAt,
			"finished_at": run.FinishedAt,
			"total":       run.Total,
			"published":   run.Published,
			"rejected":    run.Rejected,
			"duplicates":  run.Duplicates,
			"failed":      run.Failed,
			"invalid":     run.Invalid,
		}
	}

	c.JSON(http.StatusOK, stats)
}

// APITriggerCrawl runs a scrape-and-admit cycle for a category and reports
// the outcome. The run is synchronous; the response carries the final counts.
func (h *Handler) APITriggerCrawl(category string) gin.HandlerFunc {
	return func(c *gin.Context) {
		slog.Info("Manual crawl triggered", "category", category, "client", c.ClientIP())

		summary := h.runner.Crawl(c.Request.Context(), category)

		c.JSON(http.StatusOK, crawlResponse(category, summary))
	}
}

func (h *Handler) APIListArticles(c *gin.Context) {
	limit := 50
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 || parsed > 500 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid limit parameter"})
			return
		}
		limit = parsed
	}

	articles, err := h.articleRepo.GetRecent(limit)
	if err != nil {
		slog.Error("Database error", "operation", "list_articles", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	items := make([]map[string]interface{}, 0, len(articles))
	for _, a := range articles {
		items = append(items, map[string]interface{}{
			"id":           a.ID,
			"title":        a.Title,
			"source":       a.Source,
			"category":     a.Category,
			"attempts":     a.Attempts,
			"published_at": a.PublishedAt,
		})
	}

	c.JSON(http.StatusOK, map[string]interface{}{
		"articles": items,
		"total":    len(items),
	})
}

func (h *Handler) APIListRuns(c *gin.Context) {
	runs, err := h.runRepo.GetRecent(20)
	if err != nil {
		slog.Error("Database error", "operation", "list_runs", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	items := make([]map[string]interface{}, 0, len(runs))
	for _, run := range runs {
		items = append(items, map[string]interface{}{
			"id":          run.ID,
			"category":    run.Category,
			"started_at":  run.StartedAt,
			"finished_at": run.FinishedAt,
			"total":       run.Total,
			"published":   run.Published,
			"rejected":    run.Rejected,
			"duplicates":  run.Duplicates,
			"failed":      run.Failed,
			"invalid":     run.Invalid,
		})
	}

	c.JSON(http.StatusOK, map[string]interface{}{
		"runs":  items,
		"total": len(items),
	})
}

func crawlResponse(category string, summary pipeline.Summary) gin.H {
	return gin.H{
		"category":   category,
		"total":      summary.Total,
		"success":    summary.Success,
		"rejected":   summary.Rejected,
		"duplicates": summary.Duplicates,
		"failed":     summary.Failed,
		"invalid":    summary.Invalid,
	}
}
