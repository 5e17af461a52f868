package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/samber/lo"

	"github.com/lysyi3m/flash-comb/app/newsflash"
)

const newsFlashColumns = `id, date_parsed, title, description, author, link, source, accident,
	location, lat, lon, resolution, road1, road2, road_segment_name, yishuv_name,
	street1_hebrew, street2_hebrew, region_hebrew, district_hebrew, non_urban_intersection_hebrew`

// NewsFlashRepository handles database operations for news flash records
type NewsFlashRepository struct {
	db *DB
}

func NewNewsFlashRepository(db *DB) *NewsFlashRepository {
	return &NewsFlashRepository{db: db}
}

// GetLatestDate returns the newest stored date_parsed for source, or nil when
// nothing has been stored for it yet.
func (r *NewsFlashRepository) GetLatestDate(ctx context.Context, source string) (*time.Time, error) {
	var latest string
	err := r.db.GetContext(ctx, &latest, `
		SELECT date_parsed FROM news_flash
		WHERE source = ?
		ORDER BY date_parsed DESC
		LIMIT 1
	`, source)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get latest date for %s: %w", source, err)
	}

	date, err := parseDate(latest)
	if err != nil {
		return nil, fmt.Errorf("invalid latest date %q for %s: %w", latest, source, err)
	}

	return &date, nil
}

// Insert stores a new record and returns its id
func (r *NewsFlashRepository) Insert(ctx context.Context, record newsflash.Record) (int64, error) {
	var resolution any
	if record.Resolution != nil {
		resolution = string(*record.Resolution)
	}

	res, err := r.db.ExecContext(ctx, `
		INSERT INTO news_flash (
			date_parsed, title, description, author, link, source, accident,
			location, lat, lon, resolution, road1, road2, road_segment_name, yishuv_name,
			street1_hebrew, street2_hebrew, region_hebrew, district_hebrew, non_urban_intersection_hebrew
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, formatDate(record.DateParsed), toNull(record.Title), toNull(record.Description), toNull(record.Author),
		record.Link, record.Source, record.Accident,
		toNull(record.Location), toNull(record.Lat), toNull(record.Lon), resolution,
		toNull(record.Road1), toNull(record.Road2), toNull(record.RoadSegmentName), toNull(record.YishuvName),
		toNull(record.Street1Hebrew), toNull(record.Street2Hebrew), toNull(record.RegionHebrew),
		toNull(record.DistrictHebrew), toNull(record.NonUrbanIntersectionHebrew))

	if err != nil {
		return 0, fmt.Errorf("failed to insert news flash %s: %w", record.Link, err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get news flash id: %w", err)
	}

	return id, nil
}

// Get returns a single record, or nil when id does not exist
func (r *NewsFlashRepository) Get(ctx context.Context, id int64) (*newsflash.Record, error) {
	var row newsFlashRow
	err := r.db.GetContext(ctx, &row, `SELECT `+newsFlashColumns+` FROM news_flash WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get news flash %d: %w", id, err)
	}

	record, err := row.toRecord()
	if err != nil {
		return nil, err
	}

	return &record, nil
}

// GetForUpdates returns the re-classification candidates selected by filter:
// a single id, every record of a source, or every record.
func (r *NewsFlashRepository) GetForUpdates(ctx context.Context, filter UpdateFilter) ([]newsflash.UpdateCandidate, error) {
	query := `SELECT id, title, description, source, location FROM news_flash`
	var args []any

	switch {
	case filter.ID != nil:
		query += ` WHERE id = ?`
		args = append(args, *filter.ID)
	case filter.Source != "":
		query += ` WHERE source = ?`
		args = append(args, filter.Source)
	}
	query += ` ORDER BY id`

	var rows []candidateRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("failed to get news flash for updates: %w", err)
	}

	return lo.Map(rows, func(row candidateRow, _ int) newsflash.UpdateCandidate {
		return row.toCandidate()
	}), nil
}

// UpdateBulk writes fields[i] to the record ids[i], all in one transaction.
// Columns missing from a Fields value keep their stored contents.
func (r *NewsFlashRepository) UpdateBulk(ctx context.Context, ids []int64, fields []newsflash.Fields) error {
	if len(ids) != len(fields) {
		return fmt.Errorf("ids and fields length mismatch: %d != %d", len(ids), len(fields))
	}
	if len(ids) == 0 {
		return nil
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for i, id := range ids {
		columns := fields[i].Columns()
		if len(columns) == 0 {
			continue
		}

		assignments := make([]string, 0, len(columns))
		args := make([]any, 0, len(columns)+1)
		for _, col := range columns {
			if !newsflash.IsUpdatable(col) {
				return fmt.Errorf("column %s is not updatable", col)
			}
			v, _ := fields[i].Get(col)
			assignments = append(assignments, string(col)+" = ?")
			args = append(args, v)
		}
		args = append(args, id)

		query := `UPDATE news_flash SET ` + strings.Join(assignments, ", ") + ` WHERE id = ?`
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("failed to update news flash %d: %w", id, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit updates: %w", err)
	}

	return nil
}

// List returns stored records, newest first
func (r *NewsFlashRepository) List(ctx context.Context, filter ListFilter) ([]newsflash.Record, error) {
	var conditions []string
	var args []any

	if filter.Source != "" {
		conditions = append(conditions, "source = ?")
		args = append(args, filter.Source)
	}
	if filter.Accident != nil {
		conditions = append(conditions, "accident = ?")
		args = append(args, *filter.Accident)
	}

	query := `SELECT ` + newsFlashColumns + ` FROM news_flash`
	if len(conditions) > 0 {
		query += ` WHERE ` + strings.Join(conditions, " AND ")
	}
	query += ` ORDER BY date_parsed DESC, id DESC LIMIT ?`
	args = append(args, filter.limit())

	var rows []newsFlashRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list news flash: %w", err)
	}

	records := make([]newsflash.Record, 0, len(rows))
	for _, row := range rows {
		record, err := row.toRecord()
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}

	return records, nil
}

// Stats returns per-source counts
func (r *NewsFlashRepository) Stats(ctx context.Context) ([]SourceStats, error) {
	var rows []sourceStatsRow
	err := r.db.SelectContext(ctx, &rows, `
		SELECT source,
		       COUNT(*) AS total,
		       COALESCE(SUM(accident), 0) AS accidents,
		       COALESCE(SUM(CASE WHEN lat IS NOT NULL THEN 1 ELSE 0 END), 0) AS geocoded,
		       MAX(date_parsed) AS latest
		FROM news_flash
		GROUP BY source
		ORDER BY source
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to get news flash stats: %w", err)
	}

	stats := make([]SourceStats, 0, len(rows))
	for _, row := range rows {
		latest, err := parseDate(row.Latest)
		if err != nil {
			return nil, fmt.Errorf("invalid latest date %q for %s: %w", row.Latest, row.Source, err)
		}
		stats = append(stats, SourceStats{
			Source:    row.Source,
			Total:     row.Total,
			Accidents: row.Accidents,
			Geocoded:  row.Geocoded,
			Latest:    latest,
		})
	}

	return stats, nil
}
