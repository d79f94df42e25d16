package crawler

// Source describes one scrape target, loaded from a YAML file in the sources
// directory.

type Source struct {
	Name        string    `yaml:"name"`
	Kind        string    `yaml:"kind"` // "rss" or "html"
	URL         string    `yaml:"url"`
	Category    string    `yaml:"category"` // "NEWS" or "EVENT"
	Attribution string    `yaml:"attribution"`
	BaseURL     string    `yaml:"base_url"`
	Limit       int       `yaml:"limit"`
	Enabled     bool      `yaml:"enabled"`
	Extract     bool      `yaml:"extract_content"` // fetch article pages for full text
	Selectors   Selectors `yaml:"selectors"`
}

// Selectors are the CSS selectors for HTML sources. Item scopes each listing
// entry; Title and Link are resolved inside it.
type Selectors struct {
	Item  string `yaml:"item"`
	Title string `yaml:"title"`
	Link  string `yaml:"link"`
}
