package crawler

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

const defaultItemLimit = 3

// Loader handles loading and validation of source definitions
type Loader struct {
	sourcesDir string
}

func NewLoader(sourcesDir string) *Loader {
	return &Loader{sourcesDir: sourcesDir}
}

// LoadAll loads every YAML source file from the sources directory. Disabled
// sources are loaded too; the crawler skips them at run time.
func (l *Loader) LoadAll() ([]Source, error) {
	if _, err := os.Stat(l.sourcesDir); os.IsNotExist(err) {
		return nil, nil
	}

	files, err := filepath.Glob(filepath.Join(l.sourcesDir, "*.yaml"))
	if err != nil {
		return nil, fmt.Errorf("failed to find YAML files: %w", err)
	}

	ymlFiles, err := filepath.Glob(filepath.Join(l.sourcesDir, "*.yml"))
	if err != nil {
		return nil, fmt.Errorf("failed to find YML files: %w", err)
	}
	files = append(files, ymlFiles...)

	sources := make([]Source, 0, len(files))
	for _, file := range files {
		source, err := l.loadFile(file)
		if err != nil {
			return nil, fmt.Errorf("error loading %s: %w", file, err)
		}

		if err := l.validate(source); err != nil {
			return nil, fmt.Errorf("invalid source %s: %w", file, err)
		}

		sources = append(sources, *source)
		slog.Debug("Loaded source definition", "file", file, "source", source.Name)
	}

	return sources, nil
}

func (l *Loader) loadFile(path string) (*Source, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	var source Source
	if err := yaml.Unmarshal(data, &source); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	l.setDefaults(&source)

	return &source, nil
}

func (l *Loader) setDefaults(source *Source) {
	if source.Limit == 0 {
		source.Limit = defaultItemLimit
	}
	if source.Category == "" {
		source.Category = "NEWS"
	}
	if source.Attribution == "" {
		source.Attribution = source.Name
	}
}

func (l *Loader) validate(source *Source) error {
	if source.Name == "" {
		return fmt.Errorf("source name is required")
	}
	if source.URL == "" {
		return fmt.Errorf("source URL is required")
	}
	if source.Limit < 0 {
		return fmt.Errorf("limit must be non-negative")
	}

	switch source.Kind {
	case "rss":
	case "html":
		if source.Selectors.Item == "" || source.Selectors.Title == "" {
			return fmt.Errorf("html source requires item and title selectors")
		}
	default:
		return fmt.Errorf("invalid source kind: %s", source.Kind)
	}

	switch source.Category {
	case "NEWS", "EVENT":
	default:
		return fmt.Errorf("invalid source category: %s", source.Category)
	}

	return nil
}
