package tracking

import "testing"

func TestIsFresher(t *testing.T) {
	tests := []struct {
		name     string
		received uint64
		stored   uint64
		expected bool
	}{
		{"wrap just occurred", 3, 4294967291, true},
		{"replay from before the wrap", 4294967291, 3, false},
		{"normal progress", 114, 3, true},
		{"one tick backwards", 4294967291, 4294967292, false},
		{"same timestamp", 5000, 5000, true},
		{"forward jump at threshold", 300100, 100, true},
		{"forward jump past threshold", 300101, 100, false},
		{"backward jump at threshold", 100, 300100, true},
		{"backward jump just under threshold", 101, 300100, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsFresher(tt.received, tt.stored); got != tt.expected {
				t.Errorf("IsFresher(%d, %d): expected %v, got %v", tt.received, tt.stored, tt.expected, got)
			}
		})
	}
}
