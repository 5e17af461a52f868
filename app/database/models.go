package database

import (
	"database/sql"
	"fmt"

	"github.com/lysyi3m/flash-comb/app/newsflash"
)

// newsFlashRow is a news_flash row as stored
type newsFlashRow struct {
	ID          int64           `db:"id"`
	DateParsed  string          `db:"date_parsed"`
	Title       sql.NullString  `db:"title"`
	Description sql.NullString  `db:"description"`
	Author      sql.NullString  `db:"author"`
	Link        string          `db:"link"`
	Source      string          `db:"source"`
	Accident    bool            `db:"accident"`
	Location    sql.NullString  `db:"location"`
	Lat         sql.NullFloat64 `db:"lat"`
	Lon         sql.NullFloat64 `db:"lon"`
	Resolution  sql.NullString  `db:"resolution"`
	adminRow
}

// adminRow holds the administrative columns shared by news_flash and location_references
type adminRow struct {
	Road1                      sql.NullString `db:"road1"`
	Road2                      sql.NullString `db:"road2"`
	RoadSegmentName            sql.NullString `db:"road_segment_name"`
	YishuvName                 sql.NullString `db:"yishuv_name"`
	Street1Hebrew              sql.NullString `db:"street1_hebrew"`
	Street2Hebrew              sql.NullString `db:"street2_hebrew"`
	RegionHebrew               sql.NullString `db:"region_hebrew"`
	DistrictHebrew             sql.NullString `db:"district_hebrew"`
	NonUrbanIntersectionHebrew sql.NullString `db:"non_urban_intersection_hebrew"`
}

type candidateRow struct {
	ID          int64          `db:"id"`
	Title       sql.NullString `db:"title"`
	Description sql.NullString `db:"description"`
	Source      string         `db:"source"`
	Location    sql.NullString `db:"location"`
}

func (r newsFlashRow) toRecord() (newsflash.Record, error) {
	date, err := parseDate(r.DateParsed)
	if err != nil {
		return newsflash.Record{}, fmt.Errorf("invalid date_parsed %q for news flash %d: %w", r.DateParsed, r.ID, err)
	}

	record := newsflash.Record{
		ID:          r.ID,
		DateParsed:  date,
		Title:       nullString(r.Title),
		Description: nullString(r.Description),
		Author:      nullString(r.Author),
		Link:        r.Link,
		Source:      r.Source,
		Accident:    r.Accident,
		Location:    nullString(r.Location),
		Lat:         nullFloat(r.Lat),
		Lon:         nullFloat(r.Lon),
		AdminFields: r.adminRow.toAdminFields(),
	}
	if r.Resolution.Valid {
		resolution := newsflash.Resolution(r.Resolution.String)
		record.Resolution = &resolution
	}

	return record, nil
}

func (r candidateRow) toCandidate() newsflash.UpdateCandidate {
	return newsflash.UpdateCandidate{
		ID:          r.ID,
		Title:       nullString(r.Title),
		Description: nullString(r.Description),
		Source:      r.Source,
		OldLocation: nullString(r.Location),
	}
}

func (r adminRow) toAdminFields() newsflash.AdminFields {
	return newsflash.AdminFields{
		Road1:                      nullString(r.Road1),
		Road2:                      nullString(r.Road2),
		RoadSegmentName:            nullString(r.RoadSegmentName),
		YishuvName:                 nullString(r.YishuvName),
		Street1Hebrew:              nullString(r.Street1Hebrew),
		Street2Hebrew:              nullString(r.Street2Hebrew),
		RegionHebrew:               nullString(r.RegionHebrew),
		DistrictHebrew:             nullString(r.DistrictHebrew),
		NonUrbanIntersectionHebrew: nullString(r.NonUrbanIntersectionHebrew),
	}
}

func nullString(s sql.NullString) *string {
	if !s.Valid {
		return nil
	}
	return &s.String
}

func nullFloat(f sql.NullFloat64) *float64 {
	if !f.Valid {
		return nil
	}
	return &f.Float64
}

// toNull turns an optional value into a driver argument, nil meaning NULL
func toNull[T any](p *T) any {
	if p == nil {
		return nil
	}
	return *p
}
