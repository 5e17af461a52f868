package newsflash

import (
	"testing"
	"time"
)

func TestNormalize(t *testing.T) {
	date := time.Date(2023, 1, 3, 10, 0, 0, 0, time.UTC)
	item := RawItem{
		DateParsed:  date,
		Title:       "תאונה בכביש 1",
		Link:        "https://example.com/1",
		Source:      "ynet",
		Description: "",
		Author:      "כתב",
	}

	record := Normalize(item)

	if !record.DateParsed.Equal(date) {
		t.Errorf("Expected date %v, got: %v", date, record.DateParsed)
	}
	if Deref(record.Title) != "תאונה בכביש 1" {
		t.Errorf("Expected title to be copied, got: %v", record.Title)
	}
	if record.Description != nil {
		t.Errorf("Expected empty description to be absent, got: %q", *record.Description)
	}
	if Deref(record.Author) != "כתב" {
		t.Errorf("Expected author to be copied, got: %v", record.Author)
	}
	if record.Link != item.Link || record.Source != item.Source {
		t.Errorf("Expected link and source to be copied, got: %s %s", record.Link, record.Source)
	}
	if record.Accident {
		t.Error("Expected accident to be false before classification")
	}
	if record.HasGeo() {
		t.Error("Expected all geo fields to be absent before classification")
	}
}

func TestRecordClearGeo(t *testing.T) {
	record := Record{
		Accident:   true,
		Location:   Ptr("צומת גלילות"),
		Lat:        Ptr(32.1),
		Lon:        Ptr(34.8),
		Resolution: Ptr(ResolutionSuburbanIntersection),
		AdminFields: AdminFields{
			Road1:        Ptr("2"),
			RegionHebrew: Ptr("מרכז"),
		},
	}

	record.ClearGeo()

	if record.HasGeo() {
		t.Errorf("Expected no geo fields after ClearGeo, got: %+v", record)
	}
	if !record.Accident {
		t.Error("ClearGeo must not touch the accident flag")
	}
}

func TestClassificationText(t *testing.T) {
	tests := []struct {
		name   string
		record Record
		want   string
	}{
		{name: "title", record: Record{Title: Ptr("כותרת"), Description: Ptr("תיאור")}, want: "כותרת"},
		{name: "empty title", record: Record{Title: Ptr(""), Description: Ptr("תיאור")}, want: "תיאור"},
		{name: "nothing", record: Record{}, want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.record.ClassificationText(); got != tt.want {
				t.Errorf("Expected %q, got: %q", tt.want, got)
			}
		})
	}
}

func TestUpdateCandidateText(t *testing.T) {
	withDescription := UpdateCandidate{Title: Ptr("כותרת"), Description: Ptr("תיאור")}
	if got := withDescription.Text(); got != "תיאור" {
		t.Errorf("Expected description to be preferred, got: %q", got)
	}

	withoutDescription := UpdateCandidate{Title: Ptr("כותרת")}
	if got := withoutDescription.Text(); got != "כותרת" {
		t.Errorf("Expected title fallback, got: %q", got)
	}
}

func TestFieldsClearGeo(t *testing.T) {
	var fields Fields
	fields.Set(ColumnAccident, false)
	fields.ClearGeo()

	if fields.Len() != 14 {
		t.Fatalf("Expected accident plus 13 geo columns, got: %d", fields.Len())
	}

	for _, col := range fields.Columns()[1:] {
		v, ok := fields.Get(col)
		if !ok {
			t.Errorf("Expected column %s to be set", col)
		}
		if v != nil {
			t.Errorf("Expected column %s to be NULL, got: %v", col, v)
		}
	}

	for _, col := range AdminColumns {
		if _, ok := fields.Get(col); !ok {
			t.Errorf("Expected admin column %s to be cleared", col)
		}
	}
}

func TestFieldsSetKeepsFirstOrder(t *testing.T) {
	var fields Fields
	fields.Set(ColumnAccident, true)
	fields.Set(ColumnLocation, "כביש 6")
	fields.Set(ColumnAccident, false)

	cols := fields.Columns()
	if len(cols) != 2 || cols[0] != ColumnAccident || cols[1] != ColumnLocation {
		t.Fatalf("Unexpected column order: %v", cols)
	}
	if v, _ := fields.Get(ColumnAccident); v != false {
		t.Errorf("Expected overwritten value false, got: %v", v)
	}
}

func TestFieldsSetGeo(t *testing.T) {
	record := Record{
		Location:    Ptr("רחוב הרצל"),
		Lat:         Ptr(31.25),
		Lon:         Ptr(34.79),
		Resolution:  Ptr(ResolutionStreet),
		AdminFields: AdminFields{YishuvName: Ptr("באר שבע")},
	}

	var fields Fields
	fields.SetGeo(&record)

	if v, _ := fields.Get(ColumnResolution); v != "רחוב" {
		t.Errorf("Expected resolution as plain string, got: %#v", v)
	}
	if v, _ := fields.Get(ColumnLat); v != 31.25 {
		t.Errorf("Expected lat 31.25, got: %v", v)
	}
	if v, _ := fields.Get(ColumnYishuvName); v != "באר שבע" {
		t.Errorf("Expected yishuv name, got: %v", v)
	}
	if v, ok := fields.Get(ColumnRoad1); !ok || v != nil {
		t.Errorf("Expected road1 to be written as NULL, got: %v %v", v, ok)
	}
}

func TestIsUpdatable(t *testing.T) {
	if !IsUpdatable(ColumnNonUrbanIntersectionHebrew) {
		t.Error("Expected admin column to be updatable")
	}
	if IsUpdatable(Column("link")) {
		t.Error("Expected link to be rejected")
	}
	if IsUpdatable(Column("id; DROP TABLE news_flash")) {
		t.Error("Expected arbitrary column to be rejected")
	}
}

func TestNormalizeText(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{input: "תְּאוּנָה  קשה", want: "תאונה קשה"},
		{input: "Road   ACCIDENT\n", want: "road accident"},
		{input: "", want: ""},
	}

	for _, tt := range tests {
		if got := NormalizeText(tt.input); got != tt.want {
			t.Errorf("NormalizeText(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}
