package utils

import "math"

// EarthRadiusM is the mean Earth radius used by every distance calculation.
const EarthRadiusM = 6371000.0

func deg2rad(d float64) float64 { return d * math.Pi / 180 }

// HaversineM returns the great-circle distance in meters between two points
// given in decimal degrees.
func HaversineM(lat1, lon1, lat2, lon2 float64) float64 {
	la1 := deg2rad(lat1)
	la2 := deg2rad(lat2)
	dLat := la2 - la1
	dLon := deg2rad(lon2 - lon1)

	sLat := math.Sin(dLat / 2)
	sLon := math.Sin(dLon / 2)
	a := sLat*sLat + math.Cos(la1)*math.Cos(la2)*sLon*sLon
	// rounding can push a marginally above 1 for antipodal points
	if a > 1 {
		a = 1
	}
	return 2 * EarthRadiusM * math.Asin(math.Sqrt(a))
}

// HaversineKM is HaversineM in kilometers.
func HaversineKM(lat1, lon1, lat2, lon2 float64) float64 {
	return HaversineM(lat1, lon1, lat2, lon2) / 1000
}
