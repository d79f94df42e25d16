package cfg

type Cfg struct {
	// Content backend configuration
	BackendURL    string
	CrawlerAPIKey string
	AuthorID      string
	EventAuthorID string

	// Application configuration
	SourcesDir         string
	CacheFile          string
	DBPath             string
	Port               string
	APIAccessKey       string
	WorkerCount        int
	MaxPublishAttempts int
	RetentionDays      int
	RecentWindowMin    int
	RecheckOnRetry     bool
	NewsSchedule       []string
	EventSchedule      []string

	// Application metadata
	UserAgent string
	Timezone  string
	Debug     bool
	Version   string
}
