package internal

import (
	"log"
	"testing"
)

func TestInitLogging(t *testing.T) {
	defer log.SetPrefix("")

	tests := []struct {
		instance string
		prefix   string
	}{
		{"", ""},
		{"rsu-01", "[rsu-01] "},
	}
	for _, tt := range tests {
		t.Run(tt.instance, func(t *testing.T) {
			InitLogging(tt.instance)
			if got := log.Prefix(); got != tt.prefix {
				t.Errorf("expected prefix %q, got %q", tt.prefix, got)
			}
			if log.Flags()&log.Lmicroseconds == 0 {
				t.Error("expected microsecond timestamps")
			}
		})
	}
}
