package ingest

import "github.com/theoremus-urban-solutions/sldm/config"

// AreaFilter is a latitude/longitude bounding box. The zero value accepts
// every position.
type AreaFilter struct {
	MinLat, MaxLat float64
	MinLon, MaxLon float64
}

// AreaFilterFromConfig builds a filter from the area section.
func AreaFilterFromConfig(c config.AreaConfig) AreaFilter {
	return AreaFilter{MinLat: c.MinLat, MaxLat: c.MaxLat, MinLon: c.MinLon, MaxLon: c.MaxLon}
}

// Enabled reports whether the filter restricts anything.
func (a AreaFilter) Enabled() bool {
	return a != AreaFilter{}
}

// IsInside reports whether (lat, lon) lies in the box, bounds included.
func (a AreaFilter) IsInside(lat, lon float64) bool {
	if !a.Enabled() {
		return true
	}
	return lat >= a.MinLat && lat <= a.MaxLat && lon >= a.MinLon && lon <= a.MaxLon
}
