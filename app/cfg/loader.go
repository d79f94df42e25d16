package cfg

import (
	"cmp"
	"fmt"
	"strings"
	"time"

	"github.com/jessevdk/go-flags"
)

// Version is set at build time via -ldflags
var Version = "dev"

func GetVersion() string {
	return cmp.Or(Version, "unknown")
}

type rawCfg struct {
	// Content backend configuration
	BackendURL    string `long:"backend-url" env:"BACKEND_URL" default:"http://localhost:8080" description:"Content backend base URL"`
	CrawlerAPIKey string `long:"crawler-api-key" env:"CRAWLER_API_KEY" description:"API key for the backend crawler endpoints (required)" required:"true"`
	AuthorID      string `long:"author-id" env:"AUTHOR_ID" default:"newsbot" description:"Author ID attached to published news posts"`
	EventAuthorID string `long:"event-author-id" env:"EVENT_AUTHOR_ID" default:"exhibitionbot" description:"Author ID attached to published event posts"`

	// Application configuration
	SourcesDir         string `long:"sources-dir" env:"SOURCES_DIR" default:"./sources" description:"Directory containing source definition files"`
	CacheFile          string `long:"cache-file" env:"CACHE_FILE" default:"./data/news_cache.json" description:"Path of the admitted-title cache file"`
	DBPath             string `long:"db-path" env:"DB_PATH" default:"./data/skywatch.db" description:"Path of the sqlite database file"`
	Port               string `long:"port" env:"PORT" default:"8090" description:"HTTP server port"`
	APIAccessKey       string `long:"api-key" env:"API_ACCESS_KEY" description:"API access key for authentication (optional)"`
	WorkerCount        int    `long:"worker-count" env:"WORKER_COUNT" default:"1" description:"Number of background workers for crawl runs"`
	MaxPublishAttempts int    `long:"max-publish-attempts" env:"MAX_PUBLISH_ATTEMPTS" default:"5" description:"Publish attempts per article before giving up"`
	RetentionDays      int    `long:"retention-days" env:"RETENTION_DAYS" default:"7" description:"Duplicate suppression lookback in days"`
	RecentWindowMin    int    `long:"recent-window-min" env:"RECENT_WINDOW_MIN" default:"30" description:"Local cache dedup window in minutes"`
	NoRecheckOnRetry   bool   `long:"no-recheck-on-retry" env:"NO_RECHECK_ON_RETRY" description:"Skip the server duplicate re-check between publish attempts"`
	NewsSchedule       string `long:"news-schedule" env:"NEWS_SCHEDULE" default:"06:00,12:00" description:"Comma-separated HH:MM times for news crawls"`
	EventSchedule      string `long:"event-schedule" env:"EVENT_SCHEDULE" default:"09:00" description:"Comma-separated HH:MM times for event crawls"`

	// Application metadata
	UserAgent string `long:"user-agent" env:"USER_AGENT" default:"Skywatch/1.0" description:"User agent string for HTTP requests"`
	Timezone  string `long:"timezone" env:"TZ" default:"Asia/Seoul" description:"Timezone for timestamps and schedules (e.g., UTC, Asia/Seoul)"`
	Debug     bool   `long:"debug" env:"DEBUG" description:"Enable debug logging"`
}

var globalCfg *Cfg

func Load() (*Cfg, error) {
	var raw rawCfg

	parser := flags.NewParser(&raw, flags.Default)

	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok {
			if flagsErr.Type == flags.ErrHelp {
				return nil, nil
			}
		}
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}

	newsSchedule, err := parseSchedule(raw.NewsSchedule)
	if err != nil {
		return nil, fmt.Errorf("invalid news schedule: %w", err)
	}
	eventSchedule, err := parseSchedule(raw.EventSchedule)
	if err != nil {
		return nil, fmt.Errorf("invalid event schedule: %w", err)
	}

	cfg := &Cfg{
		BackendURL:         strings.TrimRight(raw.BackendURL, "/"),
		CrawlerAPIKey:      raw.CrawlerAPIKey,
		AuthorID:           raw.AuthorID,
		EventAuthorID:      raw.EventAuthorID,
		SourcesDir:         raw.SourcesDir,
		CacheFile:          raw.CacheFile,
		DBPath:             raw.DBPath,
		Port:               raw.Port,
		APIAccessKey:       raw.APIAccessKey,
		WorkerCount:        raw.WorkerCount,
		MaxPublishAttempts: raw.MaxPublishAttempts,
		RetentionDays:      raw.RetentionDays,
		RecentWindowMin:    raw.RecentWindowMin,
		RecheckOnRetry:     !raw.NoRecheckOnRetry,
		NewsSchedule:       newsSchedule,
		EventSchedule:      eventSchedule,
		UserAgent:          raw.UserAgent,
		Timezone:           raw.Timezone,
		Debug:              raw.Debug,
		Version:            GetVersion(),
	}

	if err := applyTimezone(cfg.Timezone); err != nil {
		fmt.Printf("Warning: Invalid timezone '%s', using system default: %v\n", cfg.Timezone, err)
	}

	globalCfg = cfg

	return cfg, nil
}

func Get() *Cfg {
	if globalCfg == nil {
		panic("configuration not loaded - call cfg.Load() first")
	}
	return globalCfg
}

// parseSchedule splits a comma-separated "HH:MM" list, dropping empty parts.
// Entries are normalized to zero-padded form ("6:00" becomes "06:00") so they
// always match the scheduler's wall clock; anything unparseable is an error.
func parseSchedule(raw string) ([]string, error) {
	var times []string
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		parsed, err := time.Parse("15:04", part)
		if err != nil {
			return nil, fmt.Errorf("schedule time %q is not HH:MM: %w", part, err)
		}
		times = append(times, parsed.Format("15:04"))
	}
	return times, nil
}

func applyTimezone(timezone string) error {
	if timezone != "" {
		if loc, err := time.LoadLocation(timezone); err != nil {
			return err
		} else {
			time.Local = loc
			fmt.Printf("Timezone configured: %s\n", timezone)
		}
	}
	return nil
}
