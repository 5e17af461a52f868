package cfg

import "time"

type Command string

const (
	CommandServe  Command = "serve"
	CommandScrape Command = "scrape"
	CommandUpdate Command = "update"
)

type Cfg struct {
	// Storage
	DBPath string

	// Registries and reference data
	SourcesFile     string
	ClassifiersFile string
	LocationsFile   string

	// Geocoding
	MapsAPIKey string
	GeocodeURL string

	// Pipeline
	BatchSize      int
	UserAgent      string
	RequestTimeout time.Duration

	// Server
	Port              string
	APIAccessKey      string
	SchedulerInterval time.Duration

	// Application metadata
	Timezone string
	Debug    bool
	Version  string

	// Invocation
	Command Command
	Source  string
	ID      *int64
}
