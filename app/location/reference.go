package location

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/lysyi3m/flash-comb/app/newsflash"
)

// Reference is a known point with its administrative and road attributes
type Reference struct {
	Lat                        float64 `yaml:"lat"`
	Lon                        float64 `yaml:"lon"`
	Road1                      string  `yaml:"road1"`
	Road2                      string  `yaml:"road2"`
	RoadSegmentName            string  `yaml:"road_segment_name"`
	YishuvName                 string  `yaml:"yishuv_name"`
	Street1Hebrew              string  `yaml:"street1_hebrew"`
	Street2Hebrew              string  `yaml:"street2_hebrew"`
	RegionHebrew               string  `yaml:"region_hebrew"`
	DistrictHebrew             string  `yaml:"district_hebrew"`
	NonUrbanIntersectionHebrew string  `yaml:"non_urban_intersection_hebrew"`
}

func (r Reference) AdminFields() newsflash.AdminFields {
	return newsflash.AdminFields{
		Road1:                      newsflash.Optional(r.Road1),
		Road2:                      newsflash.Optional(r.Road2),
		RoadSegmentName:            newsflash.Optional(r.RoadSegmentName),
		YishuvName:                 newsflash.Optional(r.YishuvName),
		Street1Hebrew:              newsflash.Optional(r.Street1Hebrew),
		Street2Hebrew:              newsflash.Optional(r.Street2Hebrew),
		RegionHebrew:               newsflash.Optional(r.RegionHebrew),
		DistrictHebrew:             newsflash.Optional(r.DistrictHebrew),
		NonUrbanIntersectionHebrew: newsflash.Optional(r.NonUrbanIntersectionHebrew),
	}
}

type referencesFile struct {
	References []Reference `yaml:"references"`
}

// LoadReferences reads a YAML file of reference points
func LoadReferences(path string) ([]Reference, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read references file %s: %w", path, err)
	}

	var file referencesFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("invalid references file %s: %w", path, err)
	}

	for i, ref := range file.References {
		if ref.Lat < -90 || ref.Lat > 90 || ref.Lon < -180 || ref.Lon > 180 {
			return nil, fmt.Errorf("invalid references file %s: reference %d has coordinates out of range", path, i)
		}
	}

	return file.References, nil
}
