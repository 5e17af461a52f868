package location

import (
	"context"

	"github.com/lysyi3m/flash-comb/app/newsflash"
)

// GeocodeResult is the geocoder's best match for a location phrase
type GeocodeResult struct {
	Lat          float64
	Lng          float64
	RoadNo       int // 0 when the match is not on a numbered road
	Street       string
	Intersection string
	City         string
	Subdistrict  string
	District     string
	Address      string
}

// Extractor finds a location phrase in free text
type Extractor interface {
	Extract(text string) (string, bool)
}

// Geocoder resolves a phrase to a point. A nil result with a nil error means no match.
type Geocoder interface {
	Geocode(ctx context.Context, phrase string) (*GeocodeResult, error)
}

// AdminLookup maps a geocoded point to administrative and road entities.
// A miss returns empty fields and a nil error.
type AdminLookup interface {
	MatchLocation(ctx context.Context, lat, lon float64, resolution newsflash.Resolution, roadNo int) (newsflash.AdminFields, error)
}
