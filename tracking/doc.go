// Package tracking provides per-vehicle motion history and the freshness
// rule applied to incoming position reports.
//
// This package handles:
//   - Keeping a bounded history of recent positions for each vehicle
//   - Deciding whether a newly received GeoNetworking timestamp supersedes
//     the stored one across 32-bit wraparound
//
// PathHistory is not safe for concurrent use; the vehicle store guards each
// history with the lock of the shard that owns it.
package tracking
