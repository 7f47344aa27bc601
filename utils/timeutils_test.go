package utils

import (
	"testing"
	"time"
)

func TestNowMicros(t *testing.T) {
	before := uint64(time.Now().UnixMicro())
	got := NowMicros()
	after := uint64(time.Now().UnixMicro())
	if got < before || got > after {
		t.Errorf("expected value between %d and %d, got %d", before, after, got)
	}
}

func TestIso8601FromUnixSeconds(t *testing.T) {
	tests := []struct {
		name     string
		input    int64
		expected string
	}{
		{name: "epoch", input: 0, expected: "1970-01-01T00:00:00Z"},
		{name: "specific timestamp", input: 1696320000, expected: "2023-10-03T08:00:00Z"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Iso8601FromUnixSeconds(tt.input)
			if result != tt.expected {
				t.Errorf("expected %s, got %s", tt.expected, result)
			}
		})
	}
}

func TestIso8601FromMicros(t *testing.T) {
	got := Iso8601FromMicros(1696320000123456)
	if got != "2023-10-03T08:00:00.123Z" {
		t.Errorf("expected 2023-10-03T08:00:00.123Z, got %s", got)
	}
}
