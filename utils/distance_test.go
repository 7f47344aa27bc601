package utils

import (
	"math"
	"testing"
)

func TestHaversineM(t *testing.T) {
	tests := []struct {
		name                   string
		lat1, lon1, lat2, lon2 float64
		expected               float64
		tolerance              float64
	}{
		{"same point", 45.0, 7.6, 45.0, 7.6, 0, 1e-9},
		{"one degree of latitude", 0, 0, 1, 0, 111194.93, 0.01},
		{"one degree of longitude at equator", 0, 0, 0, 1, 111194.93, 0.01},
		{"turin to milan", 45.0703, 7.6869, 45.4642, 9.1900, 125518.5, 1},
		{"antipodal", 0, 0, 0, 180, math.Pi * EarthRadiusM, 1e-6},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := HaversineM(tt.lat1, tt.lon1, tt.lat2, tt.lon2)
			if math.Abs(got-tt.expected) > tt.tolerance {
				t.Errorf("expected %.3f m, got %.3f m", tt.expected, got)
			}
		})
	}
}

func TestHaversine_Symmetric(t *testing.T) {
	a := HaversineM(45.0621, 7.6784, 45.0625, 7.6790)
	b := HaversineM(45.0625, 7.6790, 45.0621, 7.6784)
	if a != b {
		t.Errorf("distance should be symmetric, got %f and %f", a, b)
	}
	if km := HaversineKM(45.0621, 7.6784, 45.0625, 7.6790); math.Abs(km*1000-a) > 1e-9 {
		t.Errorf("km variant disagrees: %f km vs %f m", km, a)
	}
	t.Logf("✓ %.3f m between the two points", a)
}
