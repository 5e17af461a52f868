package cfg

import (
	"cmp"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/jessevdk/go-flags"
)

// Version is set at build time via -ldflags
var Version = "dev"

func GetVersion() string {
	return cmp.Or(Version, "unknown")
}

type scrapeCommand struct {
	Source string `long:"source" description:"Scrape only this source (default: every enabled source)"`
}

type updateCommand struct {
	Source string `long:"source" description:"Re-classify only records of this source"`
	ID     int64  `long:"id" description:"Re-classify only the record with this id"`
}

type rawCfg struct {
	// Storage
	DBPath string `long:"db-path" env:"DB_PATH" default:"./flash-comb.db" description:"SQLite database file"`

	// Registries and reference data
	SourcesFile     string `long:"sources-file" env:"SOURCES_FILE" description:"YAML source registry (default: built-in ynet and walla)"`
	ClassifiersFile string `long:"classifiers-file" env:"CLASSIFIERS_FILE" description:"YAML classifier keywords (default: built-in)"`
	LocationsFile   string `long:"locations-file" env:"LOCATIONS_FILE" description:"YAML reference points loaded into an empty location table"`

	// Geocoding
	MapsAPIKey string `long:"maps-api-key" env:"GOOGLE_MAPS_KEY" description:"Google Maps geocoding API key"`
	GeocodeURL string `long:"geocode-url" env:"GEOCODE_URL" default:"https://maps.googleapis.com" description:"Google Maps API base URL"`

	// Pipeline
	BatchSize      int    `long:"batch-size" env:"BATCH_SIZE" default:"100" description:"Number of records per bulk update"`
	UserAgent      string `long:"user-agent" env:"USER_AGENT" default:"Flash Comb/1.0" description:"User agent string for HTTP requests"`
	RequestTimeout int    `long:"request-timeout" env:"REQUEST_TIMEOUT" default:"30" description:"HTTP request timeout in seconds for feed, detail page and geocoding calls"`

	// Server
	Port              string `long:"port" env:"PORT" default:"8080" description:"HTTP server port"`
	APIAccessKey      string `long:"api-key" env:"API_ACCESS_KEY" description:"API access key for authentication (optional)"`
	SchedulerInterval int    `long:"scheduler-interval" env:"SCHEDULER_INTERVAL" default:"300" description:"Scrape interval in seconds"`

	// Application metadata
	Timezone string `long:"timezone" env:"TZ" default:"UTC" description:"Timezone for timestamps (e.g., UTC, Asia/Jerusalem)"`
	Debug    bool   `long:"debug" env:"DEBUG" description:"Enable debug logging"`

	Serve  struct{}      `command:"serve" description:"Run the HTTP server and the scrape scheduler (default)"`
	Scrape scrapeCommand `command:"scrape" description:"Scrape sources once and exit"`
	Update updateCommand `command:"update" description:"Re-classify stored records once and exit"`
}

var globalCfg *Cfg

// Load parses the command line and environment. It returns nil, nil when
// help was requested.
func Load() (*Cfg, error) {
	return LoadArgs(os.Args[1:])
}

func LoadArgs(args []string) (*Cfg, error) {
	var raw rawCfg

	parser := flags.NewParser(&raw, flags.Default)
	parser.SubcommandsOptional = true

	if _, err := parser.ParseArgs(args); err != nil {
		var flagsErr *flags.Error
		if errors.As(err, &flagsErr) && flagsErr.Type == flags.ErrHelp {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}

	if raw.BatchSize <= 0 {
		return nil, fmt.Errorf("batch size must be positive, got %d", raw.BatchSize)
	}

	cfg := &Cfg{
		DBPath:            raw.DBPath,
		SourcesFile:       raw.SourcesFile,
		ClassifiersFile:   raw.ClassifiersFile,
		LocationsFile:     raw.LocationsFile,
		MapsAPIKey:        raw.MapsAPIKey,
		GeocodeURL:        raw.GeocodeURL,
		BatchSize:         raw.BatchSize,
		UserAgent:         raw.UserAgent,
		RequestTimeout:    time.Duration(raw.RequestTimeout) * time.Second,
		Port:              raw.Port,
		APIAccessKey:      raw.APIAccessKey,
		SchedulerInterval: time.Duration(raw.SchedulerInterval) * time.Second,
		Timezone:          raw.Timezone,
		Debug:             raw.Debug,
		Version:           GetVersion(),
		Command:           CommandServe,
	}

	if parser.Active != nil {
		cfg.Command = Command(parser.Active.Name)
	}

	switch cfg.Command {
	case CommandScrape:
		cfg.Source = raw.Scrape.Source
	case CommandUpdate:
		cfg.Source = raw.Update.Source
		if raw.Update.ID != 0 {
			id := raw.Update.ID
			cfg.ID = &id
		}
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

func applyTimezone(timezone string) error {
	if timezone != "" {
		loc, err := time.LoadLocation(timezone)
		if err != nil {
			return err
		}
		time.Local = loc
	}
	return nil
}
