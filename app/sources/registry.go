package sources

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"slices"
	"time"

	"gopkg.in/yaml.v3"
)

var (
	ErrUnknownSource = errors.New("unknown source")
	ErrUnknownParser = errors.New("unknown parser")
)

const (
	walla = "walla"
	ynet  = "ynet"
)

// Registry is the set of recognised sources. It is built once at startup and
// is read-only afterwards.
type Registry struct {
	sources map[string]Source
	order   []string
}

// Default returns the built-in ynet and walla sources
func Default() *Registry {
	r, err := New([]Source{
		{
			Name:       ynet,
			URL:        "https://www.ynet.co.il/Integration/StoryRss1854.xml",
			TimeFormat: time.RFC1123Z,
			Parser:     ynet,
			Enabled:    true,
		},
		{
			Name:       walla,
			URL:        "https://rss.walla.co.il/feed/22",
			TimeFormat: time.RFC1123,
			Parser:     walla,
			Enabled:    true,
		},
	})
	if err != nil {
		panic(err)
	}
	return r
}

// Load reads the registry from a YAML file. An empty path yields Default().
func Load(path string) (*Registry, error) {
	if path == "" {
		return Default(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	var file registryFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	r, err := New(file.Sources)
	if err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}

	slog.Debug("Source registry loaded", "path", path, "sources", r.Names())
	return r, nil
}

// New validates the given sources and builds a registry keeping their order
func New(list []Source) (*Registry, error) {
	r := &Registry{
		sources: make(map[string]Source, len(list)),
		order:   make([]string, 0, len(list)),
	}

	for i, src := range list {
		if err := validate(src); err != nil {
			return nil, fmt.Errorf("source at index %d: %w", i, err)
		}
		if _, exists := r.sources[src.Name]; exists {
			return nil, fmt.Errorf("duplicate source name: %s", src.Name)
		}
		r.sources[src.Name] = src
		r.order = append(r.order, src.Name)
	}

	return r, nil
}

func validate(src Source) error {
	requiredFields := []struct {
		name  string
		value string
	}{
		{"source name", src.Name},
		{"feed URL", src.URL},
		{"time format", src.TimeFormat},
		{"parser", src.Parser},
	}

	for _, field := range requiredFields {
		if field.value == "" {
			return fmt.Errorf("%s is required", field.name)
		}
	}

	if src.Timeout < 0 {
		return fmt.Errorf("timeout must be non-negative")
	}

	if _, err := ParserFor(src.Parser); err != nil {
		return err
	}

	return nil
}

func (r *Registry) Get(name string) (Source, error) {
	src, ok := r.sources[name]
	if !ok {
		return Source{}, fmt.Errorf("%w: %s", ErrUnknownSource, name)
	}
	return src, nil
}

// Names returns all source names in registration order
func (r *Registry) Names() []string {
	return slices.Clone(r.order)
}

// Enabled returns enabled sources in registration order
func (r *Registry) Enabled() []Source {
	enabled := make([]Source, 0, len(r.order))
	for _, name := range r.order {
		if src := r.sources[name]; src.Enabled {
			enabled = append(enabled, src)
		}
	}
	return enabled
}

func (r *Registry) Count() int {
	return len(r.order)
}
