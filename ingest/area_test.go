package ingest

import (
	"testing"

	"github.com/theoremus-urban-solutions/sldm/config"
)

func TestAreaFilter(t *testing.T) {
	a := AreaFilterFromConfig(config.AreaConfig{MinLat: 44.95, MaxLat: 45.15, MinLon: 7.55, MaxLon: 7.80})
	tests := []struct {
		name     string
		lat, lon float64
		expected bool
	}{
		{"center", 45.06, 7.67, true},
		{"on the corner", 44.95, 7.55, true},
		{"north", 45.2, 7.67, false},
		{"west", 45.06, 7.5, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := a.IsInside(tt.lat, tt.lon); got != tt.expected {
				t.Errorf("expected %v, got %v", tt.expected, got)
			}
		})
	}

	if !(AreaFilter{}).IsInside(-80, 170) {
		t.Error("zero filter should accept everything")
	}
}

func TestLowestFreeID(t *testing.T) {
	tests := []struct {
		name     string
		ids      []uint64
		reserved []uint64
		expected uint64
	}{
		{"empty", nil, nil, 1},
		{"gap at start", []uint64{2, 3}, nil, 1},
		{"contiguous", []uint64{1, 2, 3}, nil, 4},
		{"gap in middle", []uint64{1, 2, 4, 9}, nil, 3},
		{"zero ignored", []uint64{0, 1, 2}, nil, 3},
		{"reserved only", nil, []uint64{1, 2}, 3},
		{"reserved fills gap", []uint64{1, 2, 4}, []uint64{3}, 5},
		{"reserved and stored overlap", []uint64{1, 3}, []uint64{2, 3}, 4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reserved := map[uint64][]objectKey{}
			for _, id := range tt.reserved {
				reserved[id] = []objectKey{{perceiver: 9, objectID: id}}
			}
			if got := lowestFreeID(tt.ids, reserved); got != tt.expected {
				t.Errorf("expected %d, got %d", tt.expected, got)
			}
		})
	}
}
