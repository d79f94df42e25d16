package dedup

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"
)

// DefaultRetention is how long an admitted title keeps suppressing
// duplicates. It matches the backend's own lookback window.
const DefaultRetention = 7 * 24 * time.Hour

type cacheEntry struct {
	Title string    `json:"title"`
	Date  time.Time `json:"date"`
}

// TitleCache is the local record of admitted titles, persisted as a flat JSON
// array of {title, date} records. Entries are held in insertion order so
// expiry is a prefix cut; the file is rewritten in full on every append,
// which is also the sole pruning trigger. The cache is owned by a single
// process; no cross-process locking is attempted.
type TitleCache struct {
	path      string
	retention time.Duration
	entries   []cacheEntry
	now       func() time.Time
}

func NewTitleCache(path string, retention time.Duration) *TitleCache {
	if retention <= 0 {
		retention = DefaultRetention
	}
	c := &TitleCache{
		path:      path,
		retention: retention,
		now:       time.Now,
	}
	c.load()
	return c
}

// load reads the cache file into memory. A missing or unreadable file is not
// an error for callers: dedup fails open on an empty title set.
func (c *TitleCache) load() {
	data, err := os.ReadFile(c.path)
	if err != nil {
		if !os.IsNotExist(err) {
			slog.Error("Failed to read title cache, starting empty", "path", c.path, "error", err)
		}
		return
	}

	var entries []cacheEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		slog.Error("Failed to parse title cache, starting empty", "path", c.path, "error", err)
		return
	}
	c.entries = entries
}

// Recent returns the titles admitted within the given window. Entries older
// than the retention horizon are never returned, regardless of how wide a
// window the caller asks for.
func (c *TitleCache) Recent(window time.Duration) map[string]struct{} {
	now := c.now()
	cutoff := now.Add(-window)
	if horizon := now.Add(-c.retention); horizon.After(cutoff) {
		cutoff = horizon
	}

	titles := make(map[string]struct{})
	for _, e := range c.entries {
		if !e.Date.Before(cutoff) {
			titles[e.Title] = struct{}{}
		}
	}
	return titles
}

// All returns every title still within the retention horizon.
func (c *TitleCache) All() map[string]struct{} {
	return c.Recent(c.retention)
}

// Append records newly admitted titles with the current timestamp, drops
// entries past the retention horizon and rewrites the cache file. A write
// failure is surfaced but the in-memory state stays updated so in-run dedup
// keeps working.
func (c *TitleCache) Append(titles ...string) error {
	now := c.now()
	for _, t := range titles {
		c.entries = append(c.entries, cacheEntry{Title: t, Date: now})
	}

	horizon := now.Add(-c.retention)
	kept := c.entries[:0]
	for _, e := range c.entries {
		if !e.Date.Before(horizon) {
			kept = append(kept, e)
		}
	}
	c.entries = kept

	return c.persist()
}

func (c *TitleCache) persist() error {
	if dir := filepath.Dir(c.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create cache directory: %w", err)
		}
	}

	data, err := json.MarshalIndent(c.entries, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode title cache: %w", err)
	}
	if err := os.WriteFile(c.path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write title cache: %w", err)
	}
	return nil
}

// Size reports the number of entries currently held, expired or not.
func (c *TitleCache) Size() int {
	return len(c.entries)
}
