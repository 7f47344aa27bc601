package utils

import (
	"time"
)

// NowMicros returns the current wall-clock time in microseconds since epoch.
func NowMicros() uint64 {
	return uint64(time.Now().UnixMicro())
}

// NowSeconds returns the current wall-clock time in seconds since epoch.
func NowSeconds() uint64 {
	return uint64(time.Now().Unix())
}

// Iso8601Now returns the current time in ISO8601 format
func Iso8601Now() string {
	return time.Now().UTC().Format(time.RFC3339)
}

// Iso8601FromUnixSeconds converts Unix timestamp to ISO8601 format
func Iso8601FromUnixSeconds(sec int64) string {
	return time.Unix(sec, 0).UTC().Format(time.RFC3339)
}

// Iso8601FromMicros converts a microsecond timestamp to ISO8601 with
// millisecond precision.
func Iso8601FromMicros(us uint64) string {
	return time.UnixMicro(int64(us)).UTC().Format("2006-01-02T15:04:05.000Z07:00")
}
