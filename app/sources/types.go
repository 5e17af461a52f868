package sources

import (
	"strings"
	"time"
)

// Source describes one news flash feed
type Source struct {
	Name       string `yaml:"name"`
	URL        string `yaml:"url"`
	TimeFormat string `yaml:"time_format"` // Go layout of the feed's pubDate
	Parser     string `yaml:"parser"`      // detail page parser variant
	Enabled    bool   `yaml:"enabled"`
	Timeout    int    `yaml:"timeout"` // seconds
}

type registryFile struct {
	Sources []Source `yaml:"sources"`
}

// GetTimeout returns the timeout as time.Duration
func (s Source) GetTimeout() time.Duration {
	if s.Timeout <= 0 {
		return 30 * time.Second
	}
	return time.Duration(s.Timeout) * time.Second
}

// ParseDate parses a raw feed timestamp with the source layout and drops the
// zone, keeping the wall clock of the feed.
func (s Source) ParseDate(raw string) (time.Time, error) {
	t, err := time.Parse(s.TimeFormat, strings.TrimSpace(raw))
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), time.UTC), nil
}
