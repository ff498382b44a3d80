package common

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/finnews-io/finnews/internal/models"
)

// feedFile mirrors the on-disk feeds.yaml layout.
type feedFile struct {
	Sources []models.FeedSource `yaml:"sources"`
}

// LoadFeeds reads the RSS feed list from a YAML file. A missing file is not
// an error; the news adapter simply has no configured feeds.
func LoadFeeds(path string) ([]models.FeedSource, error) {
	if path == "" {
		return nil, nil
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read feeds file %s: %w", path, err)
	}

	var f feedFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse feeds file %s: %w", path, err)
	}

	sources := make([]models.FeedSource, 0, len(f.Sources))
	for _, s := range f.Sources {
		if s.URL == "" {
			continue
		}
		if s.Name == "" {
			s.Name = s.URL
		}
		sources = append(sources, s)
	}
	return sources, nil
}
