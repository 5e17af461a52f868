package newsflash

import (
	"time"
)

// Resolution is the granularity tier of a geocode match.
type Resolution string

const (
	ResolutionUrbanIntersection    Resolution = "צומת עירוני"
	ResolutionSuburbanIntersection Resolution = "צומת בינעירוני"
	ResolutionStreet               Resolution = "רחוב"
	ResolutionSuburbanRoad         Resolution = "כביש בינעירוני"
	ResolutionCity                 Resolution = "עיר"
	ResolutionSubdistrict          Resolution = "נפה"
	ResolutionDistrict             Resolution = "מחוז"
	ResolutionOther                Resolution = "אחר"
)

// RawItem is a feed entry after its detail page has been parsed
type RawItem struct {
	DateParsed  time.Time // wall clock of the source, no zone
	Title       string
	Link        string
	Source      string
	Description string
	Author      string
}

// AdminFields are the administrative and road entities matched from a geocoded point.
// nil means absent.
type AdminFields struct {
	Road1                      *string
	Road2                      *string
	RoadSegmentName            *string
	YishuvName                 *string
	Street1Hebrew              *string
	Street2Hebrew              *string
	RegionHebrew               *string
	DistrictHebrew             *string
	NonUrbanIntersectionHebrew *string
}

// IsEmpty reports whether every field is absent
func (a AdminFields) IsEmpty() bool {
	for _, v := range a.values() {
		if v != nil {
			return false
		}
	}
	return true
}

func (a AdminFields) values() []*string {
	return []*string{
		a.Road1, a.Road2, a.RoadSegmentName, a.YishuvName,
		a.Street1Hebrew, a.Street2Hebrew, a.RegionHebrew,
		a.DistrictHebrew, a.NonUrbanIntersectionHebrew,
	}
}

type Record struct {
	ID          int64
	DateParsed  time.Time
	Title       *string
	Description *string
	Author      *string
	Link        string
	Source      string
	Accident    bool
	Location    *string
	Lat         *float64
	Lon         *float64
	Resolution  *Resolution
	AdminFields
}

// ClassificationText is the title, or the description when the title is absent.
func (r *Record) ClassificationText() string {
	if r.Title != nil && *r.Title != "" {
		return *r.Title
	}
	return Deref(r.Description)
}

// HasGeo reports whether any location field is populated
func (r *Record) HasGeo() bool {
	return r.Location != nil || r.Lat != nil || r.Lon != nil || r.Resolution != nil || !r.AdminFields.IsEmpty()
}

// ClearGeo resets location, coordinates, resolution and all administrative fields.
func (r *Record) ClearGeo() {
	r.Location = nil
	r.Lat = nil
	r.Lon = nil
	r.Resolution = nil
	r.AdminFields = AdminFields{}
}

// UpdateCandidate is a stored record selected for re-evaluation
type UpdateCandidate struct {
	ID          int64
	Title       *string
	Description *string
	Source      string
	OldLocation *string
}

// Text returns the description if present, otherwise the title.
func (c UpdateCandidate) Text() string {
	if c.Description != nil {
		return *c.Description
	}
	return Deref(c.Title)
}

// Optional returns nil for an empty string
func Optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func Deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func Ptr[T any](v T) *T {
	return &v
}
