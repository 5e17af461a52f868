package location

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/lysyi3m/flash-comb/app/newsflash"
)

// Resolver fills the geo fields of an accident record
type Resolver struct {
	extractor Extractor
	geocoder  Geocoder
	lookup    AdminLookup
}

func NewResolver(extractor Extractor, geocoder Geocoder, lookup AdminLookup) *Resolver {
	return &Resolver{
		extractor: extractor,
		geocoder:  geocoder,
		lookup:    lookup,
	}
}

// ExtractLocation returns the location phrase of a record. The description
// is tried first; the title is only consulted when it yields nothing.
func (r *Resolver) ExtractLocation(record *newsflash.Record) (string, bool) {
	if record.Description != nil {
		if phrase, ok := r.extractor.Extract(*record.Description); ok {
			return phrase, true
		}
	}
	if record.Title != nil {
		return r.extractor.Extract(*record.Title)
	}
	return "", false
}

// ExtractGeoFeatures resets the geo fields of record and fills them from its
// text. Without a phrase every field stays absent; without a geocode match
// only the phrase is kept.
func (r *Resolver) ExtractGeoFeatures(ctx context.Context, record *newsflash.Record) error {
	record.ClearGeo()

	phrase, ok := r.ExtractLocation(record)
	if !ok {
		slog.Debug("No location found", "source", record.Source, "link", record.Link)
		return nil
	}
	record.Location = &phrase

	geo, err := r.geocoder.Geocode(ctx, phrase)
	if err != nil {
		return fmt.Errorf("failed to geocode %q: %w", phrase, err)
	}
	if geo == nil {
		slog.Debug("Location not geocoded", "location", phrase)
		return nil
	}

	resolution := ResolutionFor(*geo)
	record.Lat = &geo.Lat
	record.Lon = &geo.Lng
	record.Resolution = &resolution

	admin, err := r.lookup.MatchLocation(ctx, geo.Lat, geo.Lng, resolution, geo.RoadNo)
	if err != nil {
		return fmt.Errorf("failed to match location: %w", err)
	}
	record.AdminFields = admin

	if admin.IsEmpty() {
		slog.Debug("No administrative match", "location", phrase, "resolution", resolution)
	}

	return nil
}
