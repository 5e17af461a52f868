package api

import (
	"context"
	"time"

	"github.com/lysyi3m/flash-comb/app/database"
	"github.com/lysyi3m/flash-comb/app/newsflash"
	"github.com/lysyi3m/flash-comb/app/sources"
	"github.com/lysyi3m/flash-comb/app/tasks"
)

type NewsFlashStore interface {
	List(ctx context.Context, filter database.ListFilter) ([]newsflash.Record, error)
	Stats(ctx context.Context) ([]database.SourceStats, error)
}

var _ NewsFlashStore = (*database.NewsFlashRepository)(nil)

type Handler struct {
	store     NewsFlashStore
	registry  *sources.Registry
	scraper   tasks.Scraper
	updater   tasks.Updater
	scheduler tasks.TaskSchedulerInterface
}

type newsFlashResponse struct {
	ID          int64                 `json:"id"`
	DateParsed  time.Time             `json:"date_parsed"`
	Title       *string               `json:"title"`
	Description *string               `json:"description"`
	Author      *string               `json:"author"`
	Link        string                `json:"link"`
	Source      string                `json:"source"`
	Accident    bool                  `json:"accident"`
	Location    *string               `json:"location"`
	Lat         *float64              `json:"lat"`
	Lon         *float64              `json:"lon"`
	Resolution  *newsflash.Resolution `json:"resolution"`

	Road1                      *string `json:"road1"`
	Road2                      *string `json:"road2"`
	RoadSegmentName            *string `json:"road_segment_name"`
	YishuvName                 *string `json:"yishuv_name"`
	Street1Hebrew              *string `json:"street1_hebrew"`
	Street2Hebrew              *string `json:"street2_hebrew"`
	RegionHebrew               *string `json:"region_hebrew"`
	DistrictHebrew             *string `json:"district_hebrew"`
	NonUrbanIntersectionHebrew *string `json:"non_urban_intersection_hebrew"`
}

func toNewsFlashResponse(r newsflash.Record, _ int) newsFlashResponse {
	return newsFlashResponse{
		ID:                         r.ID,
		DateParsed:                 r.DateParsed,
		Title:                      r.Title,
		Description:                r.Description,
		Author:                     r.Author,
		Link:                       r.Link,
		Source:                     r.Source,
		Accident:                   r.Accident,
		Location:                   r.Location,
		Lat:                        r.Lat,
		Lon:                        r.Lon,
		Resolution:                 r.Resolution,
		Road1:                      r.Road1,
		Road2:                      r.Road2,
		RoadSegmentName:            r.RoadSegmentName,
		YishuvName:                 r.YishuvName,
		Street1Hebrew:              r.Street1Hebrew,
		Street2Hebrew:              r.Street2Hebrew,
		RegionHebrew:               r.RegionHebrew,
		DistrictHebrew:             r.DistrictHebrew,
		NonUrbanIntersectionHebrew: r.NonUrbanIntersectionHebrew,
	}
}
