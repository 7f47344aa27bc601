// Package ldm implements the Local Dynamic Map: the in-memory stores of
// vehicles and hazard events seen by a roadside unit.
//
// The VehicleStore is sharded on the upper bits of the station identifier;
// each shard carries its own lock so that writers for different vehicles
// rarely contend. The EventStore keeps the far smaller set of DENM events
// behind a single lock. Both stores are freshness-agnostic: callers decide
// whether a report supersedes the stored one before calling in.
//
// Every query returns copies. Nothing in this package logs; outcomes are
// reported with Result values.
package ldm
