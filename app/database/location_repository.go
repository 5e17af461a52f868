package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/lysyi3m/flash-comb/app/location"
	"github.com/lysyi3m/flash-comb/app/newsflash"
)

// matchRule lists the columns a reference must carry to match a tier, and
// the columns copied from it.
type matchRule struct {
	required []newsflash.Column
	returned []newsflash.Column
	byRoad   bool
}

var matchRules = map[newsflash.Resolution]matchRule{
	newsflash.ResolutionUrbanIntersection: {
		required: []newsflash.Column{newsflash.ColumnYishuvName, newsflash.ColumnStreet1Hebrew, newsflash.ColumnStreet2Hebrew},
		returned: []newsflash.Column{newsflash.ColumnYishuvName, newsflash.ColumnStreet1Hebrew, newsflash.ColumnStreet2Hebrew, newsflash.ColumnRegionHebrew, newsflash.ColumnDistrictHebrew},
	},
	newsflash.ResolutionSuburbanIntersection: {
		required: []newsflash.Column{newsflash.ColumnNonUrbanIntersectionHebrew},
		returned: []newsflash.Column{newsflash.ColumnRoad1, newsflash.ColumnRoad2, newsflash.ColumnNonUrbanIntersectionHebrew, newsflash.ColumnRegionHebrew, newsflash.ColumnDistrictHebrew},
	},
	newsflash.ResolutionStreet: {
		required: []newsflash.Column{newsflash.ColumnYishuvName, newsflash.ColumnStreet1Hebrew},
		returned: []newsflash.Column{newsflash.ColumnYishuvName, newsflash.ColumnStreet1Hebrew, newsflash.ColumnRegionHebrew, newsflash.ColumnDistrictHebrew},
	},
	newsflash.ResolutionSuburbanRoad: {
		required: []newsflash.Column{newsflash.ColumnRoad1, newsflash.ColumnRoadSegmentName},
		returned: []newsflash.Column{newsflash.ColumnRoad1, newsflash.ColumnRoadSegmentName, newsflash.ColumnRegionHebrew, newsflash.ColumnDistrictHebrew},
		byRoad:   true,
	},
	newsflash.ResolutionCity: {
		required: []newsflash.Column{newsflash.ColumnYishuvName},
		returned: []newsflash.Column{newsflash.ColumnYishuvName, newsflash.ColumnRegionHebrew, newsflash.ColumnDistrictHebrew},
	},
	newsflash.ResolutionSubdistrict: {
		required: []newsflash.Column{newsflash.ColumnDistrictHebrew},
		returned: []newsflash.Column{newsflash.ColumnRegionHebrew, newsflash.ColumnDistrictHebrew},
	},
	newsflash.ResolutionDistrict: {
		required: []newsflash.Column{newsflash.ColumnRegionHebrew},
		returned: []newsflash.Column{newsflash.ColumnRegionHebrew},
	},
}

// LocationRepository matches geocoded points against known reference points
type LocationRepository struct {
	db *DB
}

func NewLocationRepository(db *DB) *LocationRepository {
	return &LocationRepository{db: db}
}

// MatchLocation returns the administrative fields of the reference point
// nearest to (lat, lon) that carries the columns the resolution tier needs.
// No matching reference yields empty fields.
func (r *LocationRepository) MatchLocation(ctx context.Context, lat, lon float64, resolution newsflash.Resolution, roadNo int) (newsflash.AdminFields, error) {
	rule, ok := matchRules[resolution]
	if !ok {
		return newsflash.AdminFields{}, nil
	}

	conditions := make([]string, 0, len(rule.required)+1)
	for _, col := range rule.required {
		conditions = append(conditions, string(col)+" IS NOT NULL")
	}
	args := []any{}
	if rule.byRoad && roadNo > 0 {
		conditions = append(conditions, "road1 = ?")
		args = append(args, strconv.Itoa(roadNo))
	}
	args = append(args, lat, lat, lon, lon)

	query := `SELECT road1, road2, road_segment_name, yishuv_name, street1_hebrew, street2_hebrew,
		region_hebrew, district_hebrew, non_urban_intersection_hebrew
		FROM location_references
		WHERE ` + strings.Join(conditions, " AND ") + `
		ORDER BY (lat - ?) * (lat - ?) + (lon - ?) * (lon - ?)
		LIMIT 1`

	var row adminRow
	err := r.db.GetContext(ctx, &row, query, args...)
	if errors.Is(err, sql.ErrNoRows) {
		return newsflash.AdminFields{}, nil
	}
	if err != nil {
		return newsflash.AdminFields{}, fmt.Errorf("failed to match location: %w", err)
	}

	return pick(row.toAdminFields(), rule.returned), nil
}

// Seed stores reference points
func (r *LocationRepository) Seed(ctx context.Context, refs []location.Reference) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, ref := range refs {
		a := ref.AdminFields()
		_, err := tx.ExecContext(ctx, `
			INSERT INTO location_references (
				lat, lon, road1, road2, road_segment_name, yishuv_name, street1_hebrew,
				street2_hebrew, region_hebrew, district_hebrew, non_urban_intersection_hebrew
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`, ref.Lat, ref.Lon, toNull(a.Road1), toNull(a.Road2), toNull(a.RoadSegmentName),
			toNull(a.YishuvName), toNull(a.Street1Hebrew), toNull(a.Street2Hebrew),
			toNull(a.RegionHebrew), toNull(a.DistrictHebrew), toNull(a.NonUrbanIntersectionHebrew))
		if err != nil {
			return fmt.Errorf("failed to store reference (%f, %f): %w", ref.Lat, ref.Lon, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit references: %w", err)
	}

	return nil
}

func (r *LocationRepository) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM location_references`); err != nil {
		return 0, fmt.Errorf("failed to count references: %w", err)
	}
	return count, nil
}

// pick keeps only the listed columns of a
func pick(a newsflash.AdminFields, columns []newsflash.Column) newsflash.AdminFields {
	var out newsflash.AdminFields
	for _, col := range columns {
		switch col {
		case newsflash.ColumnRoad1:
			out.Road1 = a.Road1
		case newsflash.ColumnRoad2:
			out.Road2 = a.Road2
		case newsflash.ColumnRoadSegmentName:
			out.RoadSegmentName = a.RoadSegmentName
		case newsflash.ColumnYishuvName:
			out.YishuvName = a.YishuvName
		case newsflash.ColumnStreet1Hebrew:
			out.Street1Hebrew = a.Street1Hebrew
		case newsflash.ColumnStreet2Hebrew:
			out.Street2Hebrew = a.Street2Hebrew
		case newsflash.ColumnRegionHebrew:
			out.RegionHebrew = a.RegionHebrew
		case newsflash.ColumnDistrictHebrew:
			out.DistrictHebrew = a.DistrictHebrew
		case newsflash.ColumnNonUrbanIntersectionHebrew:
			out.NonUrbanIntersectionHebrew = a.NonUrbanIntersectionHebrew
		}
	}
	return out
}
