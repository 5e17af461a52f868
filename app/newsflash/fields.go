package newsflash

// Column is a writable news_flash column
type Column string

const (
	ColumnAccident                   Column = "accident"
	ColumnLocation                   Column = "location"
	ColumnLat                        Column = "lat"
	ColumnLon                        Column = "lon"
	ColumnResolution                 Column = "resolution"
	ColumnRoad1                      Column = "road1"
	ColumnRoad2                      Column = "road2"
	ColumnRoadSegmentName            Column = "road_segment_name"
	ColumnYishuvName                 Column = "yishuv_name"
	ColumnStreet1Hebrew              Column = "street1_hebrew"
	ColumnStreet2Hebrew              Column = "street2_hebrew"
	ColumnRegionHebrew               Column = "region_hebrew"
	ColumnDistrictHebrew             Column = "district_hebrew"
	ColumnNonUrbanIntersectionHebrew Column = "non_urban_intersection_hebrew"
)

// AdminColumns lists the nine administrative/road columns in storage order.
var AdminColumns = []Column{
	ColumnRoad1,
	ColumnRoad2,
	ColumnRoadSegmentName,
	ColumnYishuvName,
	ColumnStreet1Hebrew,
	ColumnStreet2Hebrew,
	ColumnRegionHebrew,
	ColumnDistrictHebrew,
	ColumnNonUrbanIntersectionHebrew,
}

// IsUpdatable reports whether col may appear in a bulk update
func IsUpdatable(col Column) bool {
	switch col {
	case ColumnAccident, ColumnLocation, ColumnLat, ColumnLon, ColumnResolution:
		return true
	}
	for _, c := range AdminColumns {
		if c == col {
			return true
		}
	}
	return false
}

// Fields is an ordered set of column assignments for one record.
// Columns that were never set are left untouched by the store.
// A nil value writes NULL.
type Fields struct {
	columns []Column
	values  map[Column]any
}

func (f *Fields) Set(col Column, value any) {
	if f.values == nil {
		f.values = make(map[Column]any)
	}
	if _, ok := f.values[col]; !ok {
		f.columns = append(f.columns, col)
	}
	f.values[col] = value
}

func (f Fields) Get(col Column) (any, bool) {
	v, ok := f.values[col]
	return v, ok
}

// Columns returns the set columns in the order they were first set
func (f Fields) Columns() []Column {
	out := make([]Column, len(f.columns))
	copy(out, f.columns)
	return out
}

func (f Fields) Len() int {
	return len(f.columns)
}

// SetGeo writes every geo column from r, absent values included.
func (f *Fields) SetGeo(r *Record) {
	f.Set(ColumnLocation, value(r.Location))
	f.Set(ColumnLat, value(r.Lat))
	f.Set(ColumnLon, value(r.Lon))
	if r.Resolution != nil {
		f.Set(ColumnResolution, string(*r.Resolution))
	} else {
		f.Set(ColumnResolution, nil)
	}
	f.setAdmin(r.AdminFields)
}

// ClearGeo writes NULL to location, lat, lon, resolution and the administrative columns.
func (f *Fields) ClearGeo() {
	var empty Record
	f.SetGeo(&empty)
}

func (f *Fields) setAdmin(a AdminFields) {
	for i, v := range a.values() {
		f.Set(AdminColumns[i], value(v))
	}
}

func value[T any](p *T) any {
	if p == nil {
		return nil
	}
	return *p
}
