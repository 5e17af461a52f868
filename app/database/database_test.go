package database

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/lysyi3m/flash-comb/app/location"
	"github.com/lysyi3m/flash-comb/app/newsflash"
)

func newTestDB(t *testing.T) *DB {
	t.Helper()

	db, err := NewConnection(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	version, dirty, err := RunMigrations(db)
	if err != nil {
		t.Fatalf("Failed to run migrations: %v", err)
	}
	if version != 2 || dirty {
		t.Fatalf("Expected clean version 2, got: %d dirty=%v", version, dirty)
	}

	return db
}

func date(s string) time.Time {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		panic(err)
	}
	return t
}

func insert(t *testing.T, repo *NewsFlashRepository, record newsflash.Record) int64 {
	t.Helper()
	id, err := repo.Insert(context.Background(), record)
	if err != nil {
		t.Fatalf("Failed to insert: %v", err)
	}
	return id
}

func TestRunMigrationsTwice(t *testing.T) {
	db := newTestDB(t)

	version, _, err := RunMigrations(db)
	if err != nil {
		t.Fatalf("Expected no error on second run, got: %v", err)
	}
	if version != 2 {
		t.Errorf("Expected version 2, got: %d", version)
	}
}

func TestGetLatestDate(t *testing.T) {
	repo := NewNewsFlashRepository(newTestDB(t))
	ctx := context.Background()

	latest, err := repo.GetLatestDate(ctx, "ynet")
	if err != nil {
		t.Fatal(err)
	}
	if latest != nil {
		t.Errorf("Expected no watermark for empty source, got: %v", latest)
	}

	insert(t, repo, newsflash.Record{DateParsed: date("2023-01-02 08:00:00"), Link: "a", Source: "ynet"})
	insert(t, repo, newsflash.Record{DateParsed: date("2023-01-03 09:30:00"), Link: "b", Source: "ynet"})
	insert(t, repo, newsflash.Record{DateParsed: date("2023-01-01 23:00:00"), Link: "c", Source: "ynet"})
	insert(t, repo, newsflash.Record{DateParsed: date("2024-05-05 10:00:00"), Link: "d", Source: "walla"})

	latest, err = repo.GetLatestDate(ctx, "ynet")
	if err != nil {
		t.Fatal(err)
	}
	if latest == nil || !latest.Equal(date("2023-01-03 09:30:00")) {
		t.Errorf("Expected 2023-01-03 09:30:00, got: %v", latest)
	}
}

func TestInsertAndGet(t *testing.T) {
	repo := NewNewsFlashRepository(newTestDB(t))
	ctx := context.Background()

	resolution := newsflash.ResolutionSuburbanRoad
	record := newsflash.Record{
		DateParsed:  date("2023-01-02 08:00:00"),
		Title:       newsflash.Ptr("תאונה בכביש 6"),
		Description: nil,
		Author:      newsflash.Ptr("כתב ynet"),
		Link:        "https://www.ynet.co.il/a",
		Source:      "ynet",
		Accident:    true,
		Location:    newsflash.Ptr("כביש 6"),
		Lat:         newsflash.Ptr(32.4),
		Lon:         newsflash.Ptr(35.0),
		Resolution:  &resolution,
		AdminFields: newsflash.AdminFields{Road1: newsflash.Ptr("6")},
	}

	id := insert(t, repo, record)

	got, err := repo.Get(ctx, id)
	if err != nil {
		t.Fatal(err)
	}
	if got == nil {
		t.Fatal("Expected stored record")
	}
	if !got.DateParsed.Equal(record.DateParsed) || got.Link != record.Link || !got.Accident {
		t.Errorf("Unexpected record: %+v", got)
	}
	if got.Description != nil {
		t.Errorf("Expected absent description, got: %q", *got.Description)
	}
	if got.Resolution == nil || *got.Resolution != resolution {
		t.Errorf("Expected resolution %s, got: %v", resolution, got.Resolution)
	}
	if newsflash.Deref(got.Road1) != "6" || got.Road2 != nil {
		t.Errorf("Unexpected admin fields: %+v", got.AdminFields)
	}

	missing, err := repo.Get(ctx, id+100)
	if err != nil || missing != nil {
		t.Errorf("Expected (nil, nil) for missing id, got: (%v, %v)", missing, err)
	}
}

func TestGetForUpdates(t *testing.T) {
	repo := NewNewsFlashRepository(newTestDB(t))
	ctx := context.Background()

	first := insert(t, repo, newsflash.Record{DateParsed: date("2023-01-01 10:00:00"), Title: newsflash.Ptr("t1"), Link: "a", Source: "ynet", Location: newsflash.Ptr("כביש 1")})
	insert(t, repo, newsflash.Record{DateParsed: date("2023-01-01 11:00:00"), Description: newsflash.Ptr("d2"), Link: "b", Source: "walla"})
	insert(t, repo, newsflash.Record{DateParsed: date("2023-01-01 12:00:00"), Link: "c", Source: "ynet"})

	tests := []struct {
		name   string
		filter UpdateFilter
		want   int
	}{
		{name: "all", filter: UpdateFilter{}, want: 3},
		{name: "by source", filter: UpdateFilter{Source: "ynet"}, want: 2},
		{name: "by id", filter: UpdateFilter{ID: &first}, want: 1},
		{name: "id wins over source", filter: UpdateFilter{ID: &first, Source: "walla"}, want: 1},
		{name: "unknown source", filter: UpdateFilter{Source: "twitter"}, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := repo.GetForUpdates(ctx, tt.filter)
			if err != nil {
				t.Fatal(err)
			}
			if len(got) != tt.want {
				t.Errorf("Expected %d candidates, got: %d", tt.want, len(got))
			}
		})
	}

	got, err := repo.GetForUpdates(ctx, UpdateFilter{ID: &first})
	if err != nil {
		t.Fatal(err)
	}
	if got[0].ID != first || newsflash.Deref(got[0].Title) != "t1" || newsflash.Deref(got[0].OldLocation) != "כביש 1" || got[0].Description != nil {
		t.Errorf("Unexpected candidate: %+v", got[0])
	}
}

func TestUpdateBulk(t *testing.T) {
	repo := NewNewsFlashRepository(newTestDB(t))
	ctx := context.Background()

	resolution := newsflash.ResolutionCity
	geocoded := insert(t, repo, newsflash.Record{
		DateParsed:  date("2023-01-01 10:00:00"),
		Link:        "a",
		Source:      "ynet",
		Accident:    true,
		Location:    newsflash.Ptr("חיפה"),
		Lat:         newsflash.Ptr(32.8),
		Lon:         newsflash.Ptr(35.0),
		Resolution:  &resolution,
		AdminFields: newsflash.AdminFields{YishuvName: newsflash.Ptr("חיפה"), RegionHebrew: newsflash.Ptr("חיפה")},
	})
	untouched := insert(t, repo, newsflash.Record{
		DateParsed: date("2023-01-01 11:00:00"),
		Link:       "b",
		Source:     "ynet",
		Location:   newsflash.Ptr("כביש 2"),
	})

	var reset newsflash.Fields
	reset.Set(newsflash.ColumnAccident, false)
	reset.ClearGeo()

	var flip newsflash.Fields
	flip.Set(newsflash.ColumnAccident, true)

	if err := repo.UpdateBulk(ctx, []int64{geocoded, untouched}, []newsflash.Fields{reset, flip}); err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	got, err := repo.Get(ctx, geocoded)
	if err != nil {
		t.Fatal(err)
	}
	if got.Accident || got.HasGeo() {
		t.Errorf("Expected accident and geo fields cleared, got: %+v", got)
	}

	got, err = repo.Get(ctx, untouched)
	if err != nil {
		t.Fatal(err)
	}
	if !got.Accident {
		t.Error("Expected accident to be set")
	}
	if newsflash.Deref(got.Location) != "כביש 2" {
		t.Errorf("Expected unset columns to keep stored values, got: %v", got.Location)
	}
}

func TestUpdateBulkRejects(t *testing.T) {
	repo := NewNewsFlashRepository(newTestDB(t))
	ctx := context.Background()

	id := insert(t, repo, newsflash.Record{DateParsed: date("2023-01-01 10:00:00"), Link: "a", Source: "ynet"})

	if err := repo.UpdateBulk(ctx, []int64{id}, nil); err == nil {
		t.Error("Expected error for mismatched lengths")
	}

	var ok newsflash.Fields
	ok.Set(newsflash.ColumnAccident, true)
	var bad newsflash.Fields
	bad.Set(newsflash.Column("link"), "https://evil")

	if err := repo.UpdateBulk(ctx, []int64{id, id}, []newsflash.Fields{ok, bad}); err == nil {
		t.Error("Expected error for non-updatable column")
	}

	got, err := repo.Get(ctx, id)
	if err != nil {
		t.Fatal(err)
	}
	if got.Accident || got.Link != "a" {
		t.Errorf("Expected failed batch to be rolled back, got: %+v", got)
	}

	if err := repo.UpdateBulk(ctx, nil, nil); err != nil {
		t.Errorf("Expected empty batch to be a no-op, got: %v", err)
	}
}

func TestListAndStats(t *testing.T) {
	repo := NewNewsFlashRepository(newTestDB(t))
	ctx := context.Background()

	insert(t, repo, newsflash.Record{DateParsed: date("2023-01-01 10:00:00"), Link: "a", Source: "ynet", Accident: true, Lat: newsflash.Ptr(32.0), Lon: newsflash.Ptr(34.8)})
	insert(t, repo, newsflash.Record{DateParsed: date("2023-01-02 10:00:00"), Link: "b", Source: "ynet"})
	insert(t, repo, newsflash.Record{DateParsed: date("2023-01-03 10:00:00"), Link: "c", Source: "walla", Accident: true})

	all, err := repo.List(ctx, ListFilter{})
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 3 || all[0].Link != "c" {
		t.Errorf("Expected 3 records newest first, got: %d", len(all))
	}

	accident := true
	accidents, err := repo.List(ctx, ListFilter{Source: "ynet", Accident: &accident})
	if err != nil {
		t.Fatal(err)
	}
	if len(accidents) != 1 || accidents[0].Link != "a" {
		t.Errorf("Expected one ynet accident, got: %d", len(accidents))
	}

	limited, err := repo.List(ctx, ListFilter{Limit: 1})
	if err != nil {
		t.Fatal(err)
	}
	if len(limited) != 1 {
		t.Errorf("Expected limit to apply, got: %d", len(limited))
	}

	stats, err := repo.Stats(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(stats) != 2 {
		t.Fatalf("Expected stats for 2 sources, got: %d", len(stats))
	}
	ynet := stats[1]
	if ynet.Source != "ynet" || ynet.Total != 2 || ynet.Accidents != 1 || ynet.Geocoded != 1 {
		t.Errorf("Unexpected ynet stats: %+v", ynet)
	}
	if !ynet.Latest.Equal(date("2023-01-02 10:00:00")) {
		t.Errorf("Unexpected latest date: %v", ynet.Latest)
	}
}

func TestListFilterLimit(t *testing.T) {
	tests := []struct {
		limit int
		want  int
	}{
		{0, DefaultListLimit},
		{-1, DefaultListLimit},
		{10, 10},
		{MaxListLimit + 1, MaxListLimit},
	}
	for _, tt := range tests {
		if got := (ListFilter{Limit: tt.limit}).limit(); got != tt.want {
			t.Errorf("limit(%d): expected %d, got: %d", tt.limit, tt.want, got)
		}
	}
}

func TestMatchLocation(t *testing.T) {
	repo := NewLocationRepository(newTestDB(t))
	ctx := context.Background()

	err := repo.Seed(ctx, []location.Reference{
		{Lat: 32.40, Lon: 35.00, Road1: "6", RoadSegmentName: "מחלף עירון - מחלף אליקים", RegionHebrew: "חיפה", DistrictHebrew: "חדרה"},
		{Lat: 32.41, Lon: 35.01, Road1: "65", RoadSegmentName: "צומת עירון - צומת מגידו", RegionHebrew: "חיפה"},
		{Lat: 32.08, Lon: 34.78, YishuvName: "תל אביב -יפו", Street1Hebrew: "אבן גבירול", Street2Hebrew: "ארלוזורוב", RegionHebrew: "תל אביב", DistrictHebrew: "תל אביב"},
	})
	if err != nil {
		t.Fatalf("Failed to seed: %v", err)
	}

	count, err := repo.Count(ctx)
	if err != nil || count != 3 {
		t.Fatalf("Expected 3 references, got: %d (%v)", count, err)
	}

	road, err := repo.MatchLocation(ctx, 32.411, 35.011, newsflash.ResolutionSuburbanRoad, 6)
	if err != nil {
		t.Fatal(err)
	}
	if newsflash.Deref(road.Road1) != "6" || newsflash.Deref(road.RoadSegmentName) != "מחלף עירון - מחלף אליקים" {
		t.Errorf("Expected road number to select the segment, got: %+v", road)
	}
	if road.YishuvName != nil || road.Street1Hebrew != nil {
		t.Errorf("Expected only road columns, got: %+v", road)
	}

	nearest, err := repo.MatchLocation(ctx, 32.411, 35.011, newsflash.ResolutionSuburbanRoad, 0)
	if err != nil {
		t.Fatal(err)
	}
	if newsflash.Deref(nearest.Road1) != "65" {
		t.Errorf("Expected nearest segment without road number, got: %+v", nearest)
	}

	street, err := repo.MatchLocation(ctx, 32.0, 34.7, newsflash.ResolutionStreet, 0)
	if err != nil {
		t.Fatal(err)
	}
	if newsflash.Deref(street.YishuvName) != "תל אביב -יפו" || newsflash.Deref(street.Street1Hebrew) != "אבן גבירול" || street.Street2Hebrew != nil {
		t.Errorf("Unexpected street match: %+v", street)
	}

	none, err := repo.MatchLocation(ctx, 32.0, 34.7, newsflash.ResolutionSuburbanIntersection, 0)
	if err != nil {
		t.Fatal(err)
	}
	if !none.IsEmpty() {
		t.Errorf("Expected no intersection match, got: %+v", none)
	}

	other, err := repo.MatchLocation(ctx, 32.0, 34.7, newsflash.ResolutionOther, 0)
	if err != nil || !other.IsEmpty() {
		t.Errorf("Expected empty fields for unmatched tier, got: %+v (%v)", other, err)
	}
}
