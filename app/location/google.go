package location

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"slices"
	"strconv"
	"strings"
	"time"

	"googlemaps.github.io/maps"
)

const zeroResults = "ZERO_RESULTS"

// GoogleGeocoder queries the Google Maps Geocoding API, biased to Israel and
// answering in Hebrew. Without an API key every phrase is a miss and no
// request is made.
type GoogleGeocoder struct {
	client  *maps.Client
	timeout time.Duration
}

// NewGoogleGeocoder builds a geocoder. An empty baseURL keeps the client's
// default host.
func NewGoogleGeocoder(httpClient *http.Client, baseURL, apiKey string, timeout time.Duration) (*GoogleGeocoder, error) {
	g := &GoogleGeocoder{timeout: timeout}
	if apiKey == "" {
		return g, nil
	}

	opts := []maps.ClientOption{maps.WithAPIKey(apiKey)}
	if httpClient != nil {
		opts = append(opts, maps.WithHTTPClient(httpClient))
	}
	if baseURL != "" {
		opts = append(opts, maps.WithBaseURL(strings.TrimSuffix(baseURL, "/")))
	}

	client, err := maps.NewClient(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create maps client: %w", err)
	}
	g.client = client

	return g, nil
}

func (g *GoogleGeocoder) Geocode(ctx context.Context, phrase string) (*GeocodeResult, error) {
	if phrase == "" {
		return nil, nil
	}
	if g.client == nil {
		slog.Debug("Geocoding skipped, no API key", "location", phrase)
		return nil, nil
	}

	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	results, err := g.client.Geocode(ctx, &maps.GeocodingRequest{
		Address:  phrase,
		Region:   "il",
		Language: "iw",
	})
	if err != nil {
		if strings.Contains(err.Error(), zeroResults) {
			return nil, nil
		}
		return nil, fmt.Errorf("geocoding failed: %w", err)
	}

	if len(results) == 0 {
		return nil, nil
	}

	return toGeocodeResult(results[0]), nil
}

func toGeocodeResult(r maps.GeocodingResult) *GeocodeResult {
	result := &GeocodeResult{
		Lat:     r.Geometry.Location.Lat,
		Lng:     r.Geometry.Location.Lng,
		Address: r.FormattedAddress,
	}

	for _, c := range r.AddressComponents {
		switch {
		case slices.Contains(c.Types, "route"):
			if n, err := strconv.Atoi(c.ShortName); err == nil {
				result.RoadNo = n
			} else {
				result.Street = c.LongName
			}
		case slices.Contains(c.Types, "intersection"), slices.Contains(c.Types, "point_of_interest"):
			result.Intersection = c.LongName
		case slices.Contains(c.Types, "locality"):
			result.City = c.LongName
		case slices.Contains(c.Types, "administrative_area_level_2"):
			result.Subdistrict = c.LongName
		case slices.Contains(c.Types, "administrative_area_level_1"):
			result.District = c.LongName
		}
	}

	return result
}
