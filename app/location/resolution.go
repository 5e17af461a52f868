package location

import (
	"github.com/lysyi3m/flash-comb/app/newsflash"
)

// ResolutionFor derives the granularity tier of a geocode match, finest first.
func ResolutionFor(g GeocodeResult) newsflash.Resolution {
	switch {
	case g.Intersection != "" && g.RoadNo == 0:
		return newsflash.ResolutionUrbanIntersection
	case g.Intersection != "":
		return newsflash.ResolutionSuburbanIntersection
	case g.Street != "" && g.City != "":
		return newsflash.ResolutionStreet
	case g.RoadNo != 0:
		return newsflash.ResolutionSuburbanRoad
	case g.City != "":
		return newsflash.ResolutionCity
	case g.Subdistrict != "":
		return newsflash.ResolutionSubdistrict
	case g.District != "":
		return newsflash.ResolutionDistrict
	default:
		return newsflash.ResolutionOther
	}
}
